package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fatal diagnostic.
type ErrorKind string

const (
	// SyntaxError is a malformed statement shape.
	SyntaxError ErrorKind = "SyntaxError"
	// SemanticError is a type mismatch.
	SemanticError ErrorKind = "SemanticError"
	// ReferenceError is an unresolved name or a broken literal.
	ReferenceError ErrorKind = "ReferenceError"
	// StructuralError is a block that is opened or closed in the wrong place.
	StructuralError ErrorKind = "StructuralError"
)

// ErrHalted is returned when input is fed to an analyzer that already failed.
var ErrHalted = errors.New("analysis halted after a fatal diagnostic")

// Diagnostic is a fatal problem found at a 1-based source line.
// Line is 0 when the problem is not tied to a line.
type Diagnostic struct {
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Message string    `json:"message" yaml:"message"`
	Line    int       `json:"line,omitempty" yaml:"line,omitempty"`
}

func (d *Diagnostic) Error() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s at line %d", d.Kind, d.Message, d.Line)
}

// DiagnosticSink presents diagnostics to the user.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// report forwards err to sink if err carries a Diagnostic.
func report(sink DiagnosticSink, err error) {
	var d *Diagnostic
	if sink != nil && errors.As(err, &d) {
		sink.Report(*d)
	}
}

func newDiagnostic(kind ErrorKind, line int, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line}
}

func syntaxErrorf(line int, format string, args ...any) error {
	return newDiagnostic(SyntaxError, line, format, args...)
}

func semanticErrorf(line int, format string, args ...any) error {
	return newDiagnostic(SemanticError, line, format, args...)
}

func referenceErrorf(line int, format string, args ...any) error {
	return newDiagnostic(ReferenceError, line, format, args...)
}

func structuralErrorf(line int, format string, args ...any) error {
	return newDiagnostic(StructuralError, line, format, args...)
}
