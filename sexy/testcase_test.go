package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Declarations

## Test: int
` + "```pseudo-program" + `
int x = 5;
` + "```" + `
` + "```ast" + `
(program (var "x" int 5))
` + "```" + `

## Test: string
` + "```pseudo-program" + `
string s = "hi";
` + "```" + `
` + "```ast" + `
(program (var "s" string (string "hi")))
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	// First test case
	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "int")
	be.Equal(t, tc1.Input, "int x = 5;")
	be.Equal(t, tc1.InputType, InputTypeProgram)
	be.Equal(t, tc1.Line, 5)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc1.Assertions[0].Content, `(program (var "x" int 5))`)
	be.Equal(t, tc1.Assertions[0].ParsedSexy.String(), `(program (var "x" int 5))`)

	// Second test case
	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "string")
	be.Equal(t, tc2.Input, `string s = "hi";`)
	be.Equal(t, tc2.Line, 13)
	be.Equal(t, tc2.Assertions[0].ParsedSexy.String(), `(program (var "s" string (string "hi")))`)
}

func TestExtractTestCases_MultipleAssertions(t *testing.T) {
	markdown := `## Test: multiple assertions
` + "```pseudo-program" + `
int x = "a";
` + "```" + `
` + "```compile-error" + `
SemanticError: assigning string to int at line 1
` + "```" + `
` + "```compile-error" + `
assigning string to int
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.Name, "multiple assertions")
	be.Equal(t, len(tc.Assertions), 2)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeCompileError)
	be.Equal(t, tc.Assertions[0].Content, "SemanticError: assigning string to int at line 1")
	be.Equal(t, tc.Assertions[0].ParsedSexy, (*Node)(nil))
	be.Equal(t, tc.Assertions[1].Content, "assigning string to int")
}

func TestExtractTestCases_MultiLineInput(t *testing.T) {
	markdown := `## Test: loop
` + "```pseudo-program" + `
for i from 0 to 3:
    int y = i;
end for;
` + "```" + `
` + "```ast" + `
(program
  (for "i" 0 3
    (var "i" int 0)
    (var "y" int (ref "i"))))
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.Input, "for i from 0 to 3:\n    int y = i;\nend for;")

	parsed := tc.Assertions[0].ParsedSexy
	be.Equal(t, parsed.Type, NodeList)
	be.Equal(t, parsed.Head(), "program")
	be.Equal(t, len(parsed.Items), 2)
	be.Equal(t, parsed.Items[1].Head(), "for")
	be.Equal(t, parsed.Items[1].Items[1].Type, NodeString)
	be.Equal(t, parsed.Items[1].Items[1].Text, "i")
	be.Equal(t, parsed.String(), `(program (for "i" 0 3 (var "i" int 0) (var "y" int (ref "i"))))`)
}

func TestExtractTestCases_EmptyFile(t *testing.T) {
	testCases, err := ExtractTestCases("")
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_NoTestCases(t *testing.T) {
	markdown := `# Some document

This is just regular markdown content.

## Regular heading

No test cases here.`

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_InvalidSexyAssertion(t *testing.T) {
	markdown := `## Test: invalid sexy
` + "```pseudo-program" + `
int x;
` + "```" + `
` + "```ast" + `
(unclosed list
` + "```"

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "failed to parse Sexy assertion")
	be.Err(t, err, "line 6")
}

func TestExtractTestCases_FenceOutsideTestCase(t *testing.T) {
	tests := []struct {
		name      string
		markdown  string
		fenceType string
	}{
		{
			"pseudo-program fence outside test",
			"# Document\n\n```pseudo-program\nint x;\n```\n",
			"pseudo-program",
		},
		{
			"ast fence outside test",
			"# Document\n\n```ast\n(program)\n```\n",
			"ast",
		},
		{
			"compile-error fence outside test",
			"# Document\n\n```compile-error\nsemicolon expected\n```\n",
			"compile-error",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ExtractTestCases(test.markdown)
			be.Err(t, err, test.fenceType+" fence found outside of test case")
			be.Err(t, err, "line 4")
		})
	}
}

func TestExtractTestCases_UnknownFence(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		err      string
	}{
		{
			"outside test",
			"# Document\n\n```go\nfunc main() {}\n```\n",
			"unknown fence language 'go' found outside of test case",
		},
		{
			"inside test",
			"## Test: t\n```python\nprint(1)\n```\n```pseudo-program\nint x;\n```\n```ast\n(program)\n```\n",
			"unknown fence language 'python' in test 't'",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ExtractTestCases(test.markdown)
			be.Err(t, err, test.err)
		})
	}
}

func TestExtractTestCases_TestMissingInputFence(t *testing.T) {
	markdown := `## Test: no input
` + "```ast" + `
(program)
` + "```"

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "test 'no input' has no input fence")
}

func TestExtractTestCases_TestMissingAssertionFence(t *testing.T) {
	markdown := `## Test: no assertions
` + "```pseudo-program" + `
int x;
` + "```"

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "test 'no assertions' has no assertion fences")
}

func TestExtractTestCases_MultipleInputFences(t *testing.T) {
	markdown := `## Test: multiple inputs
` + "```pseudo-program" + `
int x;
` + "```" + `
` + "```pseudo-program" + `
int y;
` + "```" + `
` + "```ast" + `
(program)
` + "```"

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "multiple input fences found")
	be.Err(t, err, "line")
}

func TestExtractTestCases_AllowFencesWithoutLanguage(t *testing.T) {
	markdown := `# Document with generic code block

` + "```" + `
some code without language
` + "```" + `

## Test: valid test
` + "```pseudo-program" + `
int x;
` + "```" + `
` + "```ast" + `
(program (var "x" int undefined))
` + "```" + `

` + "```" + `
more code without language in test
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Name, "valid test")
	be.Equal(t, testCases[0].Input, "int x;")
	be.Equal(t, len(testCases[0].Assertions), 1)
}

func TestExtractTestCases_ErrorInSecondTest(t *testing.T) {
	markdown := `## Test: first test
` + "```pseudo-program" + `
int x;
` + "```" + `
` + "```ast" + `
(program (var "x" int undefined))
` + "```" + `

## Test: second test missing input
` + "```ast" + `
(program)
` + "```"

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "test 'second test missing input' has no input fence")
}

func TestExtractCodeBlocks(t *testing.T) {
	markdown := `# Notes

Some prose.

` + "```pseudo" + `
int x = 1;
int y = x;
` + "```" + `

` + "```go" + `
package main
` + "```" + `

- a list item

` + "```pseudo" + `
string s;
` + "```"

	blocks, err := ExtractCodeBlocks(markdown, "pseudo")
	be.Err(t, err, nil)
	be.Equal(t, len(blocks), 2)

	be.Equal(t, blocks[0].Language, "pseudo")
	be.Equal(t, blocks[0].Content, "int x = 1;\nint y = x;\n")
	be.Equal(t, blocks[0].Line, 6)
	be.Equal(t, blocks[1].Content, "string s;\n")
	be.Equal(t, blocks[1].Line, 17)

	all, err := ExtractCodeBlocks(markdown, "")
	be.Err(t, err, nil)
	be.Equal(t, len(all), 3)
	be.Equal(t, all[1].Language, "go")
	be.True(t, strings.HasPrefix(all[1].Content, "package main"))
}

func TestExtractCodeBlocks_None(t *testing.T) {
	blocks, err := ExtractCodeBlocks("# Title\n\nNo code here.\n", "pseudo")
	be.Err(t, err, nil)
	be.Equal(t, len(blocks), 0)
}
