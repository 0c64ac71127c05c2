package main

import (
	"io"
	"log/slog"
	"strings"
)

// Analyzer turns source lines into a program, one line at a time. It owns the
// program built so far and the stack of blocks that are still open. Use a new
// Analyzer for every run.
type Analyzer struct {
	program []*ASTNode
	stack   []*ASTNode
	lines   int
	failure error
	log     *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger traces classification at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// NewAnalyzer returns an analyzer with an empty program and scope stack.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs a fresh analyzer over lines. The first fatal diagnostic is
// passed to sink (which may be nil) and returned; no program is produced.
func Analyze(lines []string, sink DiagnosticSink, opts ...Option) ([]*ASTNode, error) {
	a := NewAnalyzer(opts...)
	for _, text := range lines {
		if err := a.ProcessLine(text); err != nil {
			report(sink, err)
			return nil, err
		}
	}
	program, err := a.Finish()
	if err != nil {
		report(sink, err)
		return nil, err
	}
	return program, nil
}

// AnalyzeSource splits src into lines and analyzes them.
func AnalyzeSource(src string, sink DiagnosticSink, opts ...Option) ([]*ASTNode, error) {
	return Analyze(strings.Split(src, "\n"), sink, opts...)
}

// ProcessLine classifies the next source line and updates the program. After
// a fatal diagnostic every further call returns ErrHalted.
func (a *Analyzer) ProcessLine(text string) error {
	if a.failure != nil {
		return ErrHalted
	}
	a.lines++
	ln := line{Number: a.lines, Text: strings.TrimSpace(text)}
	if ln.Text == "" {
		return nil
	}

	for _, c := range classifiers {
		stmt, err := c.classify(a, ln)
		if err != nil {
			return a.fail(err)
		}
		if stmt == nil {
			continue
		}
		if err := a.apply(ln, stmt); err != nil {
			return a.fail(err)
		}
		a.log.Debug("classified line", "line", ln.Number, "classifier", c.name, "depth", len(a.stack))
		return nil
	}
	return a.fail(syntaxErrorf(ln.Number, "syntax not recognized"))
}

// Finish reports a StructuralError if a block is still open, and otherwise
// returns the program. After a fatal diagnostic it returns that diagnostic.
func (a *Analyzer) Finish() ([]*ASTNode, error) {
	if a.failure != nil {
		return nil, a.failure
	}
	if len(a.stack) > 0 {
		open := a.stack[len(a.stack)-1]
		return nil, a.fail(structuralErrorf(open.Line, "%s block is never closed", blockName(open.Kind)))
	}
	return a.program, nil
}

// Program returns the statements accepted so far, including open blocks.
func (a *Analyzer) Program() []*ASTNode {
	return a.program
}

// Depth is the number of blocks currently open.
func (a *Analyzer) Depth() int {
	return len(a.stack)
}

func (a *Analyzer) fail(err error) error {
	a.failure = err
	return err
}

// apply pops the frame a statement closes, attaches its node and pushes the
// node if it opens a block.
func (a *Analyzer) apply(ln line, s *statement) error {
	if s.closes != nil {
		if !a.topIs(s.closes...) {
			return structuralErrorf(ln.Number, "%s", s.mismatch)
		}
		a.stack = a.stack[:len(a.stack)-1]
	}
	if s.node == nil {
		return nil
	}
	if len(a.stack) > 0 {
		top := a.stack[len(a.stack)-1]
		top.Children = append(top.Children, s.node)
	} else {
		a.program = append(a.program, s.node)
	}
	if s.opens {
		a.stack = append(a.stack, s.node)
	}
	return nil
}

func (a *Analyzer) topIs(kinds ...NodeKind) bool {
	if len(a.stack) == 0 {
		return false
	}
	top := a.stack[len(a.stack)-1].Kind
	for _, k := range kinds {
		if top == k {
			return true
		}
	}
	return false
}

func (a *Analyzer) isOpen(node *ASTNode) bool {
	for _, open := range a.stack {
		if open == node {
			return true
		}
	}
	return false
}

// lookup resolves a name against everything declared before the current
// line: closed blocks are opaque, open blocks are searched.
func (a *Analyzer) lookup(kind NodeKind, name string) *ASTNode {
	return FindNode(a.program, kind, name, a.isOpen)
}

// enclosingFunction returns the innermost open function, or nil.
func (a *Analyzer) enclosingFunction() *ASTNode {
	for i := len(a.stack) - 1; i >= 0; i-- {
		if a.stack[i].Kind == NodeFunctionDecl {
			return a.stack[i]
		}
	}
	return nil
}

func blockName(kind NodeKind) string {
	switch kind {
	case NodeFor:
		return "for"
	case NodeFunctionDecl:
		return "function"
	case NodeElseIf:
		return "else if"
	case NodeElse:
		return "else"
	default:
		return "if"
	}
}
