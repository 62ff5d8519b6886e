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

// Package treeutil implements structural queries over a parsed tidl/ast
// tree: child iteration, position-to-node resolution, error-flag
// propagation, and identifier-context classification (component G).
package treeutil

import "tidl.org/go/tidl/ast"

// preludeChildren appends a declaration's doc/directive/decorator prelude,
// in that order, matching the parser's own read order.
func preludeChildren(p ast.Prelude, emit func(ast.Node)) {
	for _, d := range p.Docs {
		emit(d)
	}
	for _, d := range p.Directives {
		emit(d)
	}
	for _, d := range p.Decorators {
		emit(d)
	}
}

func emitNonNil(emit func(ast.Node), n ast.Node) {
	if n != nil {
		emit(n)
	}
}

// nodeOrNil lifts an optional concrete node into the Node interface without
// producing a typed-nil interface value.
func nodeOrNil(id *ast.IdentifierNode) ast.Node {
	if id == nil {
		return nil
	}
	return id
}

// VisitChildren calls cb once for each direct structural child of n, in
// source declaration order, with doc/directive/decorator preludes emitted
// first. The type switch below covers every ast.NodeKind; a new node kind
// added to tidl/ast without a matching case here falls into the default
// branch and panics, forcing this function to be updated (the
// Design Notes: "a dummy exhaustiveness check forces a compile-time update
// when a new kind is added").
func VisitChildren(n ast.Node, cb func(ast.Node)) {
	switch x := n.(type) {
	case *ast.ScriptNode:
		for _, d := range x.Docs {
			cb(d)
		}
		for _, s := range x.Statements {
			cb(s)
		}

	case *ast.ModelStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		for _, t := range x.Templates {
			cb(t)
		}
		emitNonNil(cb, x.Extends)
		emitNonNil(cb, x.Is)
		for _, p := range x.Properties {
			cb(p)
		}
	case *ast.ScalarStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		for _, t := range x.Templates {
			cb(t)
		}
		emitNonNil(cb, x.Extends)
	case *ast.NamespaceStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		if x.Inner != nil {
			cb(x.Inner)
		}
		for _, s := range x.Statements {
			cb(s)
		}
	case *ast.InterfaceStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		for _, t := range x.Templates {
			cb(t)
		}
		for _, e := range x.Extends {
			cb(e)
		}
		for _, m := range x.Members {
			cb(m)
		}
	case *ast.UnionStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		for _, t := range x.Templates {
			cb(t)
		}
		for _, v := range x.Variants {
			cb(v)
		}
	case *ast.OperationStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		for _, t := range x.Templates {
			cb(t)
		}
		emitNonNil(cb, x.Signature)
	case *ast.EnumStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		for _, m := range x.Members {
			cb(m)
		}
	case *ast.AliasStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		for _, t := range x.Templates {
			cb(t)
		}
		cb(x.Value)
	case *ast.UsingStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.Name)
	case *ast.ImportStatementNode:
		cb(x.Path)
	case *ast.DecoratorDeclarationStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		for _, p := range x.Parameters {
			cb(p)
		}
	case *ast.FunctionDeclarationStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		for _, p := range x.Parameters {
			cb(p)
		}
		emitNonNil(cb, x.ReturnType)
	case *ast.ProjectionStatementNode:
		preludeChildren(x.Prelude, cb)
		cb(x.Selector)
		cb(x.ID)
		if x.To != nil {
			cb(x.To)
		}
		if x.From != nil {
			cb(x.From)
		}

	case *ast.IdentifierNode:
		// leaf

	case *ast.MemberExpressionNode:
		cb(x.Base)
		cb(x.Sel)
	case *ast.TypeReferenceNode:
		cb(x.Base)
		for _, a := range x.TemplateArgs {
			cb(a)
		}
	case *ast.UnionExpressionNode:
		for _, o := range x.Options {
			cb(o)
		}
	case *ast.IntersectionExpressionNode:
		for _, o := range x.Operands {
			cb(o)
		}
	case *ast.ArrayExpressionNode:
		cb(x.ElementType)
	case *ast.TupleExpressionNode:
		for _, v := range x.Values {
			cb(v)
		}
	case *ast.ModelExpressionNode:
		for _, p := range x.Properties {
			cb(p)
		}
	case *ast.StringLiteralNode, *ast.NumericLiteralNode, *ast.BooleanLiteralNode,
		*ast.VoidKeywordNode, *ast.NeverKeywordNode, *ast.UnknownKeywordNode,
		*ast.InvalidExpressionNode:
		// leaf

	case *ast.ModelPropertyNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		cb(x.Type)
		emitNonNil(cb, x.Default)
	case *ast.ModelSpreadPropertyNode:
		cb(x.Target)
	case *ast.EnumMemberNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		emitNonNil(cb, x.Value)
	case *ast.EnumSpreadMemberNode:
		cb(x.Target)
	case *ast.UnionVariantNode:
		preludeChildren(x.Prelude, cb)
		emitNonNil(cb, nodeOrNil(x.ID))
		cb(x.Type)
	case *ast.OperationSignatureDeclarationNode:
		for _, p := range x.Parameters {
			cb(p)
		}
		emitNonNil(cb, x.ReturnType)
	case *ast.OperationSignatureReferenceNode:
		cb(x.BaseOperation)
	case *ast.FunctionParameterNode:
		preludeChildren(x.Prelude, cb)
		cb(x.ID)
		emitNonNil(cb, x.Type)
		emitNonNil(cb, x.Default)
	case *ast.TemplateParameterDeclarationNode:
		cb(x.ID)
		emitNonNil(cb, x.Constraint)
		emitNonNil(cb, x.Default)

	case *ast.DecoratorExpressionNode:
		cb(x.Target)
		for _, a := range x.Arguments {
			cb(a)
		}
	case *ast.AugmentDecoratorStatementNode:
		cb(x.Target)
		cb(x.TargetType)
		for _, a := range x.Arguments {
			cb(a)
		}
	case *ast.DirectiveExpressionNode:
		cb(x.Target)
		for _, a := range x.Arguments {
			cb(a)
		}

	case *ast.DocNode:
		for _, c := range x.Content {
			cb(c)
		}
	case *ast.DocTextNode:
		// leaf
	case *ast.DocParamTagNode:
		emitNonNil(cb, nodeOrNil(x.Name))
		for _, c := range x.Content {
			cb(c)
		}
	case *ast.DocTemplateTagNode:
		emitNonNil(cb, nodeOrNil(x.Name))
		for _, c := range x.Content {
			cb(c)
		}
	case *ast.DocReturnsTagNode:
		for _, c := range x.Content {
			cb(c)
		}
	case *ast.DocUnknownTagNode:
		for _, c := range x.Content {
			cb(c)
		}

	case *ast.ProjectionSelectorNode:
		emitNonNil(cb, x.Expr)
	case *ast.ProjectionNode:
		for _, p := range x.Parameters {
			cb(p)
		}
		cb(x.Body)
	case *ast.ProjectionBlockExpressionNode:
		for _, s := range x.Statements {
			cb(s)
		}
	case *ast.ProjectionExpressionStatementNode:
		cb(x.Expr)
	case *ast.ProjectionIfExpressionNode:
		cb(x.Test)
		cb(x.Then)
		emitNonNil(cb, x.Else)
	case *ast.ProjectionLambdaParameterNode:
		cb(x.ID)
	case *ast.ProjectionLambdaExpressionNode:
		for _, p := range x.Parameters {
			cb(p)
		}
		cb(x.Body)
	case *ast.ProjectionTupleExpressionNode:
		for _, v := range x.Values {
			cb(v)
		}
	case *ast.ProjectionModelExpressionNode:
		for _, p := range x.Properties {
			cb(p)
		}
	case *ast.ProjectionCallExpressionNode:
		cb(x.Callee)
		for _, a := range x.Arguments {
			cb(a)
		}
	case *ast.ProjectionMemberExpressionNode:
		cb(x.Base)
		cb(x.Sel)
	case *ast.ProjectionDecoratorReferenceExpressionNode:
		cb(x.Target)
	case *ast.ProjectionReturnExpressionNode:
		emitNonNil(cb, x.Value)
	case *ast.ProjectionLogicalExpressionNode:
		cb(x.Left)
		cb(x.Right)
	case *ast.ProjectionEqualityExpressionNode:
		cb(x.Left)
		cb(x.Right)
	case *ast.ProjectionRelationalExpressionNode:
		cb(x.Left)
		cb(x.Right)
	case *ast.ProjectionArithmeticExpressionNode:
		cb(x.Left)
		cb(x.Right)
	case *ast.ProjectionUnaryExpressionNode:
		cb(x.Operand)
	case *ast.ProjectionParameterDeclarationNode:
		cb(x.ID)

	default:
		panic("treeutil: VisitChildren: unhandled node kind")
	}
}
