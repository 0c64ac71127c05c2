package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nalgeon/be"
)

func TestDiagnosticError(t *testing.T) {
	be.Equal(t, syntaxErrorf(3, "colon expected").Error(), "SyntaxError: colon expected at line 3")
	be.Equal(t, semanticErrorf(1, "assigning %s to %s", TypeString, TypeInt).Error(), "SemanticError: assigning string to int at line 1")
	be.Equal(t, referenceErrorf(9, "var %s is not defined", "x").Error(), "ReferenceError: var x is not defined at line 9")
	be.Equal(t, structuralErrorf(0, "empty").Error(), "StructuralError: empty")
}

func TestReport(t *testing.T) {
	var got collect
	sink := &got

	report(sink, structuralErrorf(4, "else without if"))
	report(sink, fmt.Errorf("in block: %w", semanticErrorf(5, "comparing int to string")))
	report(sink, errors.New("not a diagnostic"))
	report(nil, syntaxErrorf(1, "ignored"))

	be.Equal(t, got, collect{
		{Kind: StructuralError, Message: "else without if", Line: 4},
		{Kind: SemanticError, Message: "comparing int to string", Line: 5},
	})
}
