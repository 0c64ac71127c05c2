package main

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Type is one of the language's value types.
type Type string

const (
	TypeInt    Type = "int"
	TypeDouble Type = "double"
	TypeString Type = "string"
)

// NodeKind represents different types of AST nodes
type NodeKind string

const (
	NodeVarDecl      NodeKind = "VarDecl"
	NodeFor          NodeKind = "For"
	NodeIf           NodeKind = "If"
	NodeElseIf       NodeKind = "ElseIf"
	NodeElse         NodeKind = "Else"
	NodeFunctionDecl NodeKind = "FunctionDecl"
	NodeFunctionCall NodeKind = "FunctionCall"
	NodeReturn       NodeKind = "Return"
)

// ASTNode represents a node in the Abstract Syntax Tree
type ASTNode struct {
	Kind NodeKind `json:"kind" yaml:"kind"`
	Line int      `json:"line" yaml:"line"`
	// NodeVarDecl, NodeFunctionDecl, NodeFunctionCall:
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// NodeVarDecl:
	VarType Type   `json:"varType,omitempty" yaml:"varType,omitempty"`
	Value   *Value `json:"value,omitempty" yaml:"value,omitempty"`
	// NodeFor:
	VariableName string `json:"variableName,omitempty" yaml:"variableName,omitempty"`
	Initial      string `json:"initial,omitempty" yaml:"initial,omitempty"`
	Final        string `json:"final,omitempty" yaml:"final,omitempty"`
	// NodeIf, NodeElseIf:
	Condition *Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
	// NodeFunctionDecl:
	Args       []*ASTNode `json:"args,omitempty" yaml:"args,omitempty"`
	ReturnType Type       `json:"returnType,omitempty" yaml:"returnType,omitempty"`
	// NodeFunctionCall:
	Arguments []TypedValue `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	// NodeReturn:
	Result *TypedValue `json:"result,omitempty" yaml:"result,omitempty"`

	Children []*ASTNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// ValueKind says what produced a Value.
type ValueKind string

const (
	ValueInt       ValueKind = "int"
	ValueDouble    ValueKind = "double"
	ValueString    ValueKind = "string"
	ValueVariable  ValueKind = "variable"
	ValueCall      ValueKind = "call"
	ValueUndefined ValueKind = "undefined"
)

// Value is the payload of an operand or initializer.
type Value struct {
	Kind ValueKind
	// ValueInt, ValueDouble: literal source text.
	// ValueString: text between the quotes.
	// ValueVariable: referenced name.
	Text   string
	Int    int64
	Double float64
	// ValueCall:
	Call *ASTNode
}

// TypedValue is a resolved (type, value) pair.
type TypedValue struct {
	Type  Type  `json:"type" yaml:"type"`
	Value Value `json:"value" yaml:"value"`
}

// Condition is a binary comparison between two operands of the same type.
type Condition struct {
	Op    string     `json:"op" yaml:"op"`
	Left  TypedValue `json:"left" yaml:"left"`
	Right TypedValue `json:"right" yaml:"right"`
}

// Undefined is the initializer of a declaration without "= value".
func Undefined() *Value {
	return &Value{Kind: ValueUndefined}
}

func (v Value) encoded() any {
	switch v.Kind {
	case ValueInt:
		return v.Int
	case ValueDouble:
		return v.Double
	case ValueString:
		return v.Text
	case ValueVariable:
		return map[string]string{"variable": v.Text}
	case ValueCall:
		return v.Call
	default:
		return string(ValueUndefined)
	}
}

// MarshalJSON writes literals as plain scalars.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.encoded())
}

// MarshalYAML mirrors MarshalJSON.
func (v Value) MarshalYAML() (any, error) {
	return v.encoded(), nil
}

// ToSExpr converts an AST node to s-expression string representation
func ToSExpr(node *ASTNode) string {
	switch node.Kind {
	case NodeVarDecl:
		return "(var " + quote(node.Name) + " " + string(node.VarType) + " " + valueSExpr(node.Value) + ")"
	case NodeFor:
		return "(for " + quote(node.VariableName) + " " + node.Initial + " " + node.Final + childrenSExpr(node.Children) + ")"
	case NodeIf:
		return "(if " + conditionSExpr(node.Condition) + childrenSExpr(node.Children) + ")"
	case NodeElseIf:
		return "(else-if " + conditionSExpr(node.Condition) + childrenSExpr(node.Children) + ")"
	case NodeElse:
		return "(else" + childrenSExpr(node.Children) + ")"
	case NodeFunctionDecl:
		return "(func " + quote(node.Name) + " " + string(node.ReturnType) + childrenSExpr(node.Children) + ")"
	case NodeFunctionCall:
		result := "(call " + quote(node.Name)
		for _, arg := range node.Arguments {
			result += " " + valueSExpr(&arg.Value)
		}
		return result + ")"
	case NodeReturn:
		return "(return " + valueSExpr(&node.Result.Value) + ")"
	default:
		return ""
	}
}

// ProgramSExpr renders a whole program as (program ...).
func ProgramSExpr(program []*ASTNode) string {
	return "(program" + childrenSExpr(program) + ")"
}

func childrenSExpr(children []*ASTNode) string {
	var b strings.Builder
	for _, child := range children {
		b.WriteString(" ")
		b.WriteString(ToSExpr(child))
	}
	return b.String()
}

func conditionSExpr(c *Condition) string {
	return "(cond " + quote(c.Op) + " " + valueSExpr(&c.Left.Value) + " " + valueSExpr(&c.Right.Value) + ")"
}

func valueSExpr(v *Value) string {
	if v == nil {
		return string(ValueUndefined)
	}
	switch v.Kind {
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueDouble:
		return strconv.FormatFloat(v.Double, 'f', -1, 64)
	case ValueString:
		return "(string " + quote(v.Text) + ")"
	case ValueVariable:
		return "(ref " + quote(v.Text) + ")"
	case ValueCall:
		return ToSExpr(v.Call)
	default:
		return string(ValueUndefined)
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
