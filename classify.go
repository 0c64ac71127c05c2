package main

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// line is one trimmed source line.
type line struct {
	Number int
	Text   string
}

// statement is what a classifier recognized on a line and how it changes
// the scope stack.
type statement struct {
	node *ASTNode // attached at the current scope, nil for closers
	// opens pushes node as a new frame.
	opens bool
	// closes lists the frame kinds the top of the stack must have. The top
	// frame is popped before node is attached.
	closes   []NodeKind
	mismatch string // StructuralError message when closes is not satisfied
}

// classifier recognizes one statement shape. It returns (nil, nil) when the
// line has a different shape and a *Diagnostic when the line has this shape
// but is invalid.
type classifier struct {
	name     string
	classify func(a *Analyzer, ln line) (*statement, error)
}

// classifiers are tried in order; function declarations must come before
// variable declarations and calls, which they also look like.
var classifiers = []classifier{
	{"function-decl", classifyFunctionDecl},
	{"end-function", classifyEndFunction},
	{"var-decl", classifyVarDecl},
	{"for", classifyFor},
	{"end-for", classifyEndFor},
	{"if", classifyIf},
	{"end-if", classifyEndIf},
	{"function-call", classifyFunctionCall},
	{"return", classifyReturn},
}

var (
	functionDeclPattern  = regexp.MustCompile(`(?i)^(int|double|string)\s+function\s+([A-Za-z_]\w*)\s*\((.*)\)\s*(\S?)$`)
	endFunctionPattern   = regexp.MustCompile(`(?i)^end\s+function\s*(\S?)$`)
	varDeclPattern       = regexp.MustCompile(`(?i)^(int|double|string)\s+([A-Za-z_]\w*)\s*(?:=\s*(.+?))?\s*(;?)$`)
	forPattern           = regexp.MustCompile(`(?i)^for\s+([A-Za-z_]\w*)\s+from\s+(\d+)\s+to\s+(\d+)\s*(\S?)$`)
	endForPattern        = regexp.MustCompile(`(?i)^end\s+for\s*(\S?)$`)
	ifPattern            = regexp.MustCompile(`(?i)^if\s+(.+?)\s*(:?)$`)
	elseIfPattern        = regexp.MustCompile(`(?i)^else\s+if\s+(.+?)\s*(:?)$`)
	elsePattern          = regexp.MustCompile(`(?i)^else\s*(\S?)$`)
	endIfPattern         = regexp.MustCompile(`(?i)^end\s+if\s*(\S?)$`)
	callStatementPattern = regexp.MustCompile(`^([A-Za-z_]\w*)\s*\((.*)\)\s*(;?)$`)
	returnPattern        = regexp.MustCompile(`(?i)^return\s+(.+?)\s*(;?)$`)
)

func semicolonExpected(line int) error {
	return syntaxErrorf(line, "semicolon expected")
}

func colonExpected(line int) error {
	return syntaxErrorf(line, "colon expected")
}

func classifyVarDecl(a *Analyzer, ln line) (*statement, error) {
	node, err := a.parseVarDecl(ln.Number, ln.Text, true)
	if node == nil || err != nil {
		return nil, err
	}
	return &statement{node: node}, nil
}

// parseVarDecl recognizes "<type> <name> [= <value>];". Parameters in a
// function declaration use it with requireSemicolon set to false and must
// not end in a semicolon.
func (a *Analyzer) parseVarDecl(lineNumber int, text string, requireSemicolon bool) (*ASTNode, error) {
	m := varDeclPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil, nil
	}
	if requireSemicolon && m[4] != ";" {
		return nil, semicolonExpected(lineNumber)
	}
	if !requireSemicolon && m[4] == ";" {
		return nil, syntaxErrorf(lineNumber, "unexpected semicolon")
	}

	varType := Type(strings.ToLower(m[1]))
	node := &ASTNode{Kind: NodeVarDecl, Line: lineNumber, Name: m[2], VarType: varType, Value: Undefined()}
	if m[3] == "" {
		return node, nil
	}

	v, err := a.resolveValue(lineNumber, m[3])
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, syntaxErrorf(lineNumber, "invalid value %q", m[3])
	}
	if v.Type != varType {
		return nil, semanticErrorf(lineNumber, "assigning %s to %s", v.Type, varType)
	}
	node.Value = &v.Value
	return node, nil
}

func classifyFor(a *Analyzer, ln line) (*statement, error) {
	m := forPattern.FindStringSubmatch(ln.Text)
	if m == nil {
		return nil, nil
	}
	if m[4] != ":" {
		return nil, colonExpected(ln.Number)
	}

	start, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return nil, syntaxErrorf(ln.Number, "integer %s out of range", m[2])
	}
	if _, err := strconv.ParseInt(m[3], 10, 64); err != nil {
		return nil, syntaxErrorf(ln.Number, "integer %s out of range", m[3])
	}

	loopVar := &ASTNode{
		Kind:    NodeVarDecl,
		Line:    ln.Number,
		Name:    m[1],
		VarType: TypeInt,
		Value:   &Value{Kind: ValueInt, Text: m[2], Int: start},
	}
	node := &ASTNode{
		Kind:         NodeFor,
		Line:         ln.Number,
		VariableName: m[1],
		Initial:      m[2],
		Final:        m[3],
		Children:     []*ASTNode{loopVar},
	}
	return &statement{node: node, opens: true}, nil
}

func classifyEndFor(a *Analyzer, ln line) (*statement, error) {
	return classifyCloser(ln, endForPattern, []NodeKind{NodeFor}, "end for matches no for")
}

func classifyEndIf(a *Analyzer, ln line) (*statement, error) {
	return classifyCloser(ln, endIfPattern, []NodeKind{NodeIf, NodeElseIf, NodeElse}, "end if matches no if")
}

func classifyEndFunction(a *Analyzer, ln line) (*statement, error) {
	return classifyCloser(ln, endFunctionPattern, []NodeKind{NodeFunctionDecl}, "end function matches no function")
}

func classifyCloser(ln line, pattern *regexp.Regexp, kinds []NodeKind, mismatch string) (*statement, error) {
	m := pattern.FindStringSubmatch(ln.Text)
	if m == nil {
		return nil, nil
	}
	if m[1] != ";" {
		return nil, semicolonExpected(ln.Number)
	}
	return &statement{closes: kinds, mismatch: mismatch}, nil
}

// classifyIf handles "if", "else if" and "else". The latter two close the
// preceding branch so the chain stays flat.
func classifyIf(a *Analyzer, ln line) (*statement, error) {
	if m := ifPattern.FindStringSubmatch(ln.Text); m != nil {
		cond, err := a.conditionLine(ln, m)
		if err != nil {
			return nil, err
		}
		node := &ASTNode{Kind: NodeIf, Line: ln.Number, Condition: cond}
		return &statement{node: node, opens: true}, nil
	}

	branch := []NodeKind{NodeIf, NodeElseIf}
	if m := elseIfPattern.FindStringSubmatch(ln.Text); m != nil {
		cond, err := a.conditionLine(ln, m)
		if err != nil {
			return nil, err
		}
		node := &ASTNode{Kind: NodeElseIf, Line: ln.Number, Condition: cond}
		return &statement{node: node, opens: true, closes: branch, mismatch: "else if without if"}, nil
	}

	if m := elsePattern.FindStringSubmatch(ln.Text); m != nil {
		if m[1] != ":" {
			return nil, colonExpected(ln.Number)
		}
		node := &ASTNode{Kind: NodeElse, Line: ln.Number}
		return &statement{node: node, opens: true, closes: branch, mismatch: "else without if"}, nil
	}

	return nil, nil
}

func (a *Analyzer) conditionLine(ln line, m []string) (*Condition, error) {
	if m[2] != ":" {
		return nil, colonExpected(ln.Number)
	}
	return a.resolveCondition(ln.Number, m[1])
}

func classifyFunctionDecl(a *Analyzer, ln line) (*statement, error) {
	m := functionDeclPattern.FindStringSubmatch(ln.Text)
	if m == nil {
		return nil, nil
	}
	if m[4] != ":" {
		return nil, colonExpected(ln.Number)
	}

	var params []*ASTNode
	for _, raw := range splitArguments(m[3]) {
		param, err := a.parseVarDecl(ln.Number, raw, false)
		if err != nil {
			var d *Diagnostic
			if errors.As(err, &d) {
				return nil, syntaxErrorf(ln.Number, "unknown argument %q: %s", raw, d.Message)
			}
			return nil, err
		}
		if param == nil {
			return nil, syntaxErrorf(ln.Number, "unknown argument %q", raw)
		}
		params = append(params, param)
	}

	node := &ASTNode{
		Kind:       NodeFunctionDecl,
		Line:       ln.Number,
		Name:       m[2],
		Args:       params,
		ReturnType: Type(strings.ToLower(m[1])),
	}
	// Parameters are visible in the body as ordinary declarations.
	for _, param := range params {
		mirror := *param
		node.Children = append(node.Children, &mirror)
	}
	return &statement{node: node, opens: true}, nil
}

func classifyFunctionCall(a *Analyzer, ln line) (*statement, error) {
	m := callStatementPattern.FindStringSubmatch(ln.Text)
	if m == nil {
		return nil, nil
	}
	if m[3] != ";" {
		return nil, semicolonExpected(ln.Number)
	}

	call, _, err := a.resolveCall(ln.Number, m[1], m[2])
	if err != nil {
		return nil, err
	}
	return &statement{node: call}, nil
}

func classifyReturn(a *Analyzer, ln line) (*statement, error) {
	m := returnPattern.FindStringSubmatch(ln.Text)
	if m == nil {
		return nil, nil
	}
	if m[2] != ";" {
		return nil, semicolonExpected(ln.Number)
	}

	fn := a.enclosingFunction()
	if fn == nil {
		return nil, structuralErrorf(ln.Number, "return outside function")
	}

	v, err := a.resolveValue(ln.Number, m[1])
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, syntaxErrorf(ln.Number, "invalid value %q", m[1])
	}
	if v.Type != fn.ReturnType {
		return nil, semanticErrorf(ln.Number, "returning %s inside function with return type %s", v.Type, fn.ReturnType)
	}
	return &statement{node: &ASTNode{Kind: NodeReturn, Line: ln.Number, Result: v}}, nil
}
