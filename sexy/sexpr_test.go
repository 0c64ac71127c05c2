package sexy

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"test_var", "test_var"},
		{"else-if", "else-if"},
		{"x", "x"},
		{"undefined", "undefined"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeSymbol)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		output   string
	}{
		{`"hello"`, "hello", `"hello"`},
		{`"hello world"`, "hello world", `"hello world"`},
		{`""`, "", `""`},
		{`"test\"quote"`, `test"quote`, `"test\"quote"`},
		{`"test\\backslash"`, `test\backslash`, `"test\\backslash"`},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeString)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.output)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []string{"42", "0", "-123", "2.5", "-0.75"}

	for _, input := range tests {
		result, err := Parse(input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeNumber)
		be.Equal(t, result.Text, input)
		be.Equal(t, result.String(), input)
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input  string
		output string
		head   string
		items  int
	}{
		{"()", "()", "", 0},
		{"(program)", "(program)", "program", 1},
		{`(var "x" int 5)`, `(var "x" int 5)`, "var", 4},
		{"(  call   \"f\"\n\t1  )", `(call "f" 1)`, "call", 3},
		{`(if (cond "==" (ref "x") 1) (call "f"))`, `(if (cond "==" (ref "x") 1) (call "f"))`, "if", 3},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			result, err := Parse(test.input)
			be.Err(t, err, nil)

			be.Equal(t, result.Type, NodeList)
			be.Equal(t, result.IsAtom(), false)
			be.Equal(t, result.Head(), test.head)
			be.Equal(t, len(result.Items), test.items)
			be.Equal(t, result.String(), test.output)
		})
	}
}

func TestParseComments(t *testing.T) {
	input := `; the whole program
(program
  ; first declaration
  (var "x" int 1))`

	result, err := Parse(input)
	be.Err(t, err, nil)
	be.Equal(t, result.String(), `(program (var "x" int 1))`)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{"empty", "", "unexpected token: EOF"},
		{"unclosed list", "(var", "expected ')' but got EOF"},
		{"stray close", ")", "unexpected token: ')'"},
		{"trailing datum", "a b", "expected EOF but got symbol"},
		{"unterminated string", `"abc`, "unterminated string"},
		{"bad escape", `"a\nb"`, "invalid escape sequence"},
		{"bad character", "#t", "unexpected character '#'"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.input)
			be.Err(t, err, test.err)
		})
	}
}

func TestNodeConstructors(t *testing.T) {
	node := NewList(
		NewSymbol("call"),
		NewString(`say "hi"`),
		NewNumber("3"),
		NewList(NewSymbol("ref"), NewString("y")),
	)

	be.Equal(t, node.String(), `(call "say \"hi\"" 3 (ref "y"))`)
	be.Equal(t, node.Head(), "call")
	be.True(t, node.Items[1].IsAtom())
	be.Equal(t, node.Items[3].Head(), "ref")
	be.Equal(t, NewString("x").Head(), "")
}

func TestNodeTypeString(t *testing.T) {
	be.Equal(t, NodeSymbol.String(), "symbol")
	be.Equal(t, NodeString.String(), "string")
	be.Equal(t, NodeNumber.String(), "number")
	be.Equal(t, NodeList.String(), "list")
	be.Equal(t, NodeType(99).String(), "NodeType(99)")
}
