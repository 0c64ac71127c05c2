package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestFindNode(t *testing.T) {
	inner := &ASTNode{Kind: NodeVarDecl, Name: "y", VarType: TypeInt}
	loop := &ASTNode{Kind: NodeFor, VariableName: "i", Children: []*ASTNode{
		{Kind: NodeVarDecl, Name: "i", VarType: TypeInt},
		inner,
	}}
	fn := &ASTNode{Kind: NodeFunctionDecl, Name: "f", Children: []*ASTNode{
		{Kind: NodeVarDecl, Name: "a", VarType: TypeString},
		loop,
	}}
	top := &ASTNode{Kind: NodeVarDecl, Name: "x", VarType: TypeInt}
	forest := []*ASTNode{top, fn}

	t.Run("top level", func(t *testing.T) {
		be.Equal(t, FindNode(forest, NodeVarDecl, "x", nil), top)
	})

	t.Run("nested without predicate", func(t *testing.T) {
		be.Equal(t, FindNode(forest, NodeVarDecl, "y", nil), inner)
	})

	t.Run("kind must match", func(t *testing.T) {
		be.Equal(t, FindNode(forest, NodeFunctionDecl, "x", nil), (*ASTNode)(nil))
		be.Equal(t, FindNode(forest, NodeFunctionDecl, "f", nil), fn)
	})

	t.Run("missing", func(t *testing.T) {
		be.Equal(t, FindNode(forest, NodeVarDecl, "z", nil), (*ASTNode)(nil))
		be.Equal(t, FindNode(nil, NodeVarDecl, "z", nil), (*ASTNode)(nil))
	})

	t.Run("predicate stops descent", func(t *testing.T) {
		never := func(*ASTNode) bool { return false }
		be.Equal(t, FindNode(forest, NodeVarDecl, "a", never), (*ASTNode)(nil))
		// A node is still tested itself even when its children are skipped.
		be.Equal(t, FindNode(forest, NodeFunctionDecl, "f", never), fn)
	})

	t.Run("predicate per node", func(t *testing.T) {
		onlyFunctions := func(n *ASTNode) bool { return n.Kind == NodeFunctionDecl }
		be.Equal(t, FindNode(forest, NodeVarDecl, "a", onlyFunctions).Name, "a")
		be.Equal(t, FindNode(forest, NodeVarDecl, "y", onlyFunctions), (*ASTNode)(nil))
	})

	t.Run("first match in pre-order wins", func(t *testing.T) {
		shadow := &ASTNode{Kind: NodeVarDecl, Name: "i", VarType: TypeDouble}
		forest := []*ASTNode{loop, shadow}
		be.Equal(t, FindNode(forest, NodeVarDecl, "i", nil).VarType, TypeInt)
	})
}
