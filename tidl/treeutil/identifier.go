// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package treeutil

import "tidl.org/go/tidl/ast"

// Ancestry is a parent-pointer index built once over a parsed tree. The
// CST itself never stores back-pointers during construction (that would
// create an ownership cycle); callers that need
// GetFirstAncestor or GetIdentifierContext build one of these in a
// dedicated post-pass instead.
type Ancestry struct {
	parent map[ast.Node]ast.Node
}

// BuildAncestry walks script and records, for every node reachable via
// VisitChildren, its direct parent.
func BuildAncestry(script *ast.ScriptNode) *Ancestry {
	a := &Ancestry{parent: make(map[ast.Node]ast.Node)}
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		VisitChildren(n, func(child ast.Node) {
			a.parent[child] = n
			walk(child)
		})
	}
	walk(script)
	return a
}

// Parent returns n's direct parent, or nil if n is the script root or is
// not part of the tree this Ancestry was built from.
func (a *Ancestry) Parent(n ast.Node) ast.Node {
	return a.parent[n]
}

// GetFirstAncestor walks up from n (exclusive) and returns the nearest
// ancestor for which pred returns true, or nil if none does.
func (a *Ancestry) GetFirstAncestor(n ast.Node, pred func(ast.Node) bool) ast.Node {
	for cur := a.Parent(n); cur != nil; cur = a.Parent(cur) {
		if pred(cur) {
			return cur
		}
	}
	return nil
}

// IdentifierContext classifies the syntactic role an identifier plays,
// as seen by walking up through enclosing member expressions to the first
// non-member-expression ancestor.
type IdentifierContext int

const (
	ContextOther IdentifierContext = iota
	ContextTypeReference
	ContextDecorator
	ContextFunctionCall
	ContextUsing
	ContextDeclaration
)

// GetIdentifierContext walks up from id through any enclosing
// MemberExpression/TypeReference chain and classifies the first
// non-member-expression ancestor it reaches.
func (a *Ancestry) GetIdentifierContext(id *ast.IdentifierNode) IdentifierContext {
	var cur ast.Node = id
	for {
		parent := a.Parent(cur)
		if parent == nil {
			return ContextOther
		}
		switch p := parent.(type) {
		case *ast.MemberExpressionNode, *ast.ProjectionMemberExpressionNode:
			cur = p
			continue
		case *ast.TypeReferenceNode:
			return ContextTypeReference
		case *ast.DecoratorExpressionNode, *ast.AugmentDecoratorStatementNode,
			*ast.ProjectionDecoratorReferenceExpressionNode:
			return ContextDecorator
		case *ast.ProjectionCallExpressionNode:
			return ContextFunctionCall
		case *ast.UsingStatementNode:
			return ContextUsing
		case *ast.ModelStatementNode, *ast.ScalarStatementNode, *ast.NamespaceStatementNode,
			*ast.InterfaceStatementNode, *ast.UnionStatementNode, *ast.OperationStatementNode,
			*ast.EnumStatementNode, *ast.AliasStatementNode, *ast.DecoratorDeclarationStatementNode,
			*ast.FunctionDeclarationStatementNode, *ast.ProjectionStatementNode,
			*ast.ModelPropertyNode, *ast.EnumMemberNode, *ast.FunctionParameterNode,
			*ast.TemplateParameterDeclarationNode:
			if declID, ok := declIdentifier(p); ok && declID == id {
				return ContextDeclaration
			}
			return ContextOther
		default:
			return ContextOther
		}
	}
}

// declIdentifier reports the identifier that names declaration node n, if
// any, so GetIdentifierContext can tell "the `M` in `model M`" apart from
// "an identifier used somewhere inside M's body".
func declIdentifier(n ast.Node) (*ast.IdentifierNode, bool) {
	switch x := n.(type) {
	case *ast.ModelStatementNode:
		return x.ID, true
	case *ast.ScalarStatementNode:
		return x.ID, true
	case *ast.NamespaceStatementNode:
		return x.ID, true
	case *ast.InterfaceStatementNode:
		return x.ID, true
	case *ast.UnionStatementNode:
		return x.ID, true
	case *ast.OperationStatementNode:
		return x.ID, true
	case *ast.EnumStatementNode:
		return x.ID, true
	case *ast.AliasStatementNode:
		return x.ID, true
	case *ast.DecoratorDeclarationStatementNode:
		return x.ID, true
	case *ast.FunctionDeclarationStatementNode:
		return x.ID, true
	case *ast.ProjectionStatementNode:
		return x.ID, true
	case *ast.ModelPropertyNode:
		return x.ID, true
	case *ast.EnumMemberNode:
		return x.ID, true
	case *ast.FunctionParameterNode:
		return x.ID, true
	case *ast.TemplateParameterDeclarationNode:
		return x.ID, true
	}
	return nil, false
}
