package main

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	stringLiteralPattern  = regexp.MustCompile(`^(["'])(.*)(["'])$`)
	numberLiteralPattern  = regexp.MustCompile(`^-?\d+(\.\d*)?$`)
	callExpressionPattern = regexp.MustCompile(`^([A-Za-z_]\w*)\s*\((.*)\)$`)
	identifierPattern     = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// resolveValue classifies an operand as a string literal, a number, a call or
// a variable reference. A nil result without error means raw has none of
// those shapes.
func (a *Analyzer) resolveValue(line int, raw string) (*TypedValue, error) {
	raw = strings.TrimSpace(raw)

	if m := stringLiteralPattern.FindStringSubmatch(raw); m != nil {
		if m[1] != m[3] {
			return nil, referenceErrorf(line, "unpaired quotation in %s", raw)
		}
		return &TypedValue{Type: TypeString, Value: Value{Kind: ValueString, Text: m[2]}}, nil
	}
	if raw != "" && (isQuote(raw[0]) || isQuote(raw[len(raw)-1])) {
		return nil, referenceErrorf(line, "unpaired quotation in %s", raw)
	}

	if m := numberLiteralPattern.FindStringSubmatch(raw); m != nil {
		if m[1] != "" {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, syntaxErrorf(line, "invalid number %s", raw)
			}
			return &TypedValue{Type: TypeDouble, Value: Value{Kind: ValueDouble, Text: raw, Double: f}}, nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, syntaxErrorf(line, "integer %s out of range", raw)
		}
		return &TypedValue{Type: TypeInt, Value: Value{Kind: ValueInt, Text: raw, Int: n}}, nil
	}

	if m := callExpressionPattern.FindStringSubmatch(raw); m != nil {
		call, decl, err := a.resolveCall(line, m[1], m[2])
		if err != nil {
			return nil, err
		}
		return &TypedValue{Type: decl.ReturnType, Value: Value{Kind: ValueCall, Call: call}}, nil
	}

	if identifierPattern.MatchString(raw) {
		decl := a.lookup(NodeVarDecl, raw)
		if decl == nil {
			return nil, referenceErrorf(line, "var %s is not defined", raw)
		}
		return &TypedValue{Type: decl.VarType, Value: Value{Kind: ValueVariable, Text: raw}}, nil
	}

	return nil, nil
}

// resolveCall checks a call of name with the comma-separated arguments in
// rawArgs against the visible declaration of name.
func (a *Analyzer) resolveCall(line int, name, rawArgs string) (call *ASTNode, decl *ASTNode, err error) {
	decl = a.lookup(NodeFunctionDecl, name)
	if decl == nil {
		return nil, nil, referenceErrorf(line, "function %s is not defined", name)
	}

	var args []TypedValue
	for _, raw := range splitArguments(rawArgs) {
		arg, err := a.resolveValue(line, raw)
		if err != nil {
			return nil, nil, err
		}
		if arg == nil {
			return nil, nil, syntaxErrorf(line, "argument %q not recognized", raw)
		}
		args = append(args, *arg)
	}

	if len(args) > len(decl.Args) {
		return nil, nil, semanticErrorf(line, "function %s takes %s, got %d", name, plural(len(decl.Args), "argument"), len(args))
	}
	for i, param := range decl.Args {
		if i >= len(args) {
			// Trailing parameters with a default may be omitted.
			if param.Value != nil && param.Value.Kind != ValueUndefined {
				continue
			}
			return nil, nil, semanticErrorf(line, "function %s requires argument %s", name, param.Name)
		}
		if args[i].Type != param.VarType {
			return nil, nil, semanticErrorf(line, "assigning %s to %s", args[i].Type, param.VarType)
		}
	}

	call = &ASTNode{Kind: NodeFunctionCall, Line: line, Name: name, Arguments: args}
	return call, decl, nil
}

// resolveCondition parses "<left> <op> <right>". Unlike resolveValue it never
// reports "no match": callers only use it where a condition is required.
func (a *Analyzer) resolveCondition(line int, raw string) (*Condition, error) {
	lhs, op, rhs, ok := splitCondition(strings.TrimSpace(raw))
	if !ok {
		return nil, syntaxErrorf(line, "condition is not valid")
	}

	left, err := a.resolveOperand(line, lhs)
	if err != nil {
		return nil, err
	}
	right, err := a.resolveOperand(line, rhs)
	if err != nil {
		return nil, err
	}

	if left.Type != right.Type {
		return nil, semanticErrorf(line, "comparing %s to %s", left.Type, right.Type)
	}
	return &Condition{Op: op, Left: *left, Right: *right}, nil
}

var comparisonOperators = []string{"==", "!=", "<=", ">=", "<", ">"}

// splitCondition finds the first comparison operator outside quotes and
// parentheses that has text on both sides.
func splitCondition(s string) (left, op, right string, ok bool) {
	depth := 0
	var inQuote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote != 0:
			if c == inQuote {
				inQuote = 0
			}
			continue
		case isQuote(c):
			inQuote = c
			continue
		case c == '(':
			depth++
			continue
		case c == ')':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth > 0 || i == 0 {
			continue
		}
		for _, candidate := range comparisonOperators {
			if !strings.HasPrefix(s[i:], candidate) {
				continue
			}
			left = strings.TrimSpace(s[:i])
			right = strings.TrimSpace(s[i+len(candidate):])
			if left == "" || right == "" {
				return "", "", "", false
			}
			return left, candidate, right, true
		}
	}
	return "", "", "", false
}

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}

func (a *Analyzer) resolveOperand(line int, raw string) (*TypedValue, error) {
	v, err := a.resolveValue(line, raw)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, syntaxErrorf(line, "operand %q is not valid", strings.TrimSpace(raw))
	}
	return v, nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// splitArguments splits s on commas that are outside quotes and parentheses.
func splitArguments(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var parts []string
	depth := 0
	var inQuote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote != 0:
			if c == inQuote {
				inQuote = 0
			}
		case isQuote(c):
			inQuote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}
