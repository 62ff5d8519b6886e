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

package parser_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"tidl.org/go/tidl/ast"
	"tidl.org/go/tidl/errors"
	"tidl.org/go/tidl/parser"
	"tidl.org/go/tidl/treeutil"
)

// mustParse parses src and checks the structural invariants every tree has
// to satisfy regardless of input: node ranges are ordered and nested, and
// synthetic missing identifiers are unique per parse.
func mustParse(t *testing.T, src string, opts parser.Options) (*ast.ScriptNode, errors.List) {
	t.Helper()
	script, diags := parser.Parse("test.tidl", []byte(src), opts)
	qt.Assert(t, qt.IsNotNil(script))
	checkInvariants(t, script)
	return script, diags
}

func checkInvariants(t *testing.T, script *ast.ScriptNode) {
	t.Helper()
	synthetic := map[string]bool{}
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if n.Pos().Offset() > n.End().Offset() {
			t.Errorf("%s: pos %d > end %d", n.Kind(), n.Pos().Offset(), n.End().Offset())
		}
		if id, ok := n.(*ast.IdentifierNode); ok && ast.IsMissingIdentifier(id.Name) {
			if synthetic[id.Name] {
				t.Errorf("synthetic identifier %q is not unique", id.Name)
			}
			synthetic[id.Name] = true
		}
		treeutil.VisitChildren(n, func(c ast.Node) {
			if c.Pos().Offset() < n.Pos().Offset() || c.End().Offset() > n.End().Offset() {
				t.Errorf("child %s [%d,%d) outside parent %s [%d,%d)",
					c.Kind(), c.Pos().Offset(), c.End().Offset(),
					n.Kind(), n.Pos().Offset(), n.End().Offset())
			}
			walk(c)
		})
	}
	walk(script)
}

func codes(diags errors.List) []errors.Code {
	out := make([]errors.Code, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code())
	}
	return out
}

func TestParseEmptyInput(t *testing.T) {
	script, diags := mustParse(t, "", parser.Options{})
	qt.Assert(t, qt.HasLen(script.Statements, 0))
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	qt.Assert(t, qt.IsTrue(script.Printable))
}

func TestParseModelWithProperties(t *testing.T) {
	script, diags := mustParse(t, `model M { x: string; y?: int32 = 3 }`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	qt.Assert(t, qt.HasLen(script.Statements, 1))

	m, ok := script.Statements[0].(*ast.ModelStatementNode)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(m.ID.Name, "M"))
	qt.Assert(t, qt.HasLen(m.Properties, 2))

	x := m.Properties[0].(*ast.ModelPropertyNode)
	qt.Assert(t, qt.Equals(x.ID.Name, "x"))
	qt.Assert(t, qt.IsFalse(x.Optional))
	qt.Assert(t, qt.IsNil(x.Default))

	y := m.Properties[1].(*ast.ModelPropertyNode)
	qt.Assert(t, qt.Equals(y.ID.Name, "y"))
	qt.Assert(t, qt.IsTrue(y.Optional))
	num, ok := y.Default.(*ast.NumericLiteralNode)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(num.Value, "3"))
}

func TestModelDefaultRequiresOptional(t *testing.T) {
	script, diags := mustParse(t, `model M { x: string = 3 }`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeDefaultOptional}))

	// The default expression survives in the tree despite the diagnostic.
	m := script.Statements[0].(*ast.ModelStatementNode)
	x := m.Properties[0].(*ast.ModelPropertyNode)
	qt.Assert(t, qt.IsNotNil(x.Default))
	qt.Assert(t, qt.IsFalse(script.Printable))
}

func TestModelIsWithoutBody(t *testing.T) {
	script, diags := mustParse(t, `model M is Base;`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	m := script.Statements[0].(*ast.ModelStatementNode)
	qt.Assert(t, qt.IsNotNil(m.Is))
	qt.Assert(t, qt.IsFalse(m.HasBody))
}

func TestModelExtendsIsMutuallyExclusive(t *testing.T) {
	_, diags := mustParse(t, `model M extends A is B {}`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeTokenExpected}))
}

func TestModelSpread(t *testing.T) {
	script, diags := mustParse(t, `model M { ...Base; x: string }`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	m := script.Statements[0].(*ast.ModelStatementNode)
	qt.Assert(t, qt.HasLen(m.Properties, 2))
	_, ok := m.Properties[0].(*ast.ModelSpreadPropertyNode)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestBlocklessNamespaceChain(t *testing.T) {
	script, diags := mustParse(t, `namespace A.B.C;`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))

	outer := script.Statements[0].(*ast.NamespaceStatementNode)
	qt.Assert(t, qt.Equals(outer.ID.Name, "A"))
	qt.Assert(t, qt.IsTrue(outer.IsBlocklessNamespace()))

	mid := outer.Inner
	qt.Assert(t, qt.IsNotNil(mid))
	qt.Assert(t, qt.Equals(mid.ID.Name, "B"))

	inner := mid.Inner
	qt.Assert(t, qt.IsNotNil(inner))
	qt.Assert(t, qt.Equals(inner.ID.Name, "C"))
	qt.Assert(t, qt.IsNil(inner.Inner))
	qt.Assert(t, qt.HasLen(inner.Statements, 0))
}

func TestBracedDottedNamespaceIsNotBlockless(t *testing.T) {
	script, diags := mustParse(t, `namespace A.B { model M {} }`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	outer := script.Statements[0].(*ast.NamespaceStatementNode)
	qt.Assert(t, qt.IsFalse(outer.IsBlocklessNamespace()))
	qt.Assert(t, qt.HasLen(outer.Inner.Statements, 1))
}

func TestOperationDeclarationSignature(t *testing.T) {
	script, diags := mustParse(t, `op foo(a: string, b?: int32): Result;`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))

	op := script.Statements[0].(*ast.OperationStatementNode)
	qt.Assert(t, qt.Equals(op.ID.Name, "foo"))
	sig, ok := op.Signature.(*ast.OperationSignatureDeclarationNode)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(sig.Parameters, 2))

	b := sig.Parameters[1].(*ast.ModelPropertyNode)
	qt.Assert(t, qt.Equals(b.ID.Name, "b"))
	qt.Assert(t, qt.IsTrue(b.Optional))
}

func TestOperationReferenceSignature(t *testing.T) {
	script, diags := mustParse(t, `op foo is Bar;`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))

	op := script.Statements[0].(*ast.OperationStatementNode)
	ref, ok := op.Signature.(*ast.OperationSignatureReferenceNode)
	qt.Assert(t, qt.IsTrue(ok))
	base := ref.BaseOperation.(*ast.TypeReferenceNode)
	qt.Assert(t, qt.Equals(base.Base.(*ast.IdentifierNode).Name, "Bar"))
}

func TestInterfaceMissingDelimiter(t *testing.T) {
	script, diags := mustParse(t, "interface I { op a(): void op b(): void }", parser.Options{})
	iface := script.Statements[0].(*ast.InterfaceStatementNode)
	qt.Assert(t, qt.HasLen(iface.Members, 2))
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeTokenExpected}))
}

func TestInterfaceOpKeywordOptional(t *testing.T) {
	script, diags := mustParse(t, "interface I { a(): void; op b(): void; }", parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	iface := script.Statements[0].(*ast.InterfaceStatementNode)
	qt.Assert(t, qt.HasLen(iface.Members, 2))
}

func TestUnionDeclaration(t *testing.T) {
	script, diags := mustParse(t, `union U { a: string, b: int32 }`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	u := script.Statements[0].(*ast.UnionStatementNode)
	qt.Assert(t, qt.HasLen(u.Variants, 2))
	qt.Assert(t, qt.Equals(u.Variants[0].ID.Name, "a"))
}

func TestEnumDeclaration(t *testing.T) {
	script, diags := mustParse(t, `enum Color { Red, Green: 2, Blue: "b" }`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	e := script.Statements[0].(*ast.EnumStatementNode)
	qt.Assert(t, qt.HasLen(e.Members, 3))

	green := e.Members[1].(*ast.EnumMemberNode)
	qt.Assert(t, qt.Equals(green.Value.(*ast.NumericLiteralNode).Value, "2"))
}

func TestEnumMemberValueMustBeLiteral(t *testing.T) {
	_, diags := mustParse(t, `enum E { A: true }`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeTokenExpected}))
}

func TestEnumSpread(t *testing.T) {
	script, diags := mustParse(t, `enum E { ...Other }`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	e := script.Statements[0].(*ast.EnumStatementNode)
	_, ok := e.Members[0].(*ast.EnumSpreadMemberNode)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestScalarDeclaration(t *testing.T) {
	script, diags := mustParse(t, `scalar uuid extends string;`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	s := script.Statements[0].(*ast.ScalarStatementNode)
	qt.Assert(t, qt.Equals(s.ID.Name, "uuid"))
	qt.Assert(t, qt.IsNotNil(s.Extends))
}

func TestAliasDeclaration(t *testing.T) {
	script, diags := mustParse(t, `alias StringList = string[];`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	a := script.Statements[0].(*ast.AliasStatementNode)
	_, ok := a.Value.(*ast.ArrayExpressionNode)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestExpressionPrecedence(t *testing.T) {
	// Union binds loosest, then intersection, then the array postfix.
	script, diags := mustParse(t, `alias T = A | B & C[];`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	a := script.Statements[0].(*ast.AliasStatementNode)
	u := a.Value.(*ast.UnionExpressionNode)
	qt.Assert(t, qt.HasLen(u.Options, 2))
	i := u.Options[1].(*ast.IntersectionExpressionNode)
	qt.Assert(t, qt.HasLen(i.Operands, 2))
	_, ok := i.Operands[1].(*ast.ArrayExpressionNode)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestLeadingBarDiscarded(t *testing.T) {
	script, diags := mustParse(t, `alias T = | A | B;`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	a := script.Statements[0].(*ast.AliasStatementNode)
	u := a.Value.(*ast.UnionExpressionNode)
	qt.Assert(t, qt.HasLen(u.Options, 2))
}

func TestTemplateArguments(t *testing.T) {
	script, diags := mustParse(t, `alias T = Map<string, int32>;`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	a := script.Statements[0].(*ast.AliasStatementNode)
	ref := a.Value.(*ast.TypeReferenceNode)
	qt.Assert(t, qt.HasLen(ref.TemplateArgs, 2))
}

func TestTemplateParameters(t *testing.T) {
	script, diags := mustParse(t, `model Box<T extends string, U = int32> { v: T }`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	m := script.Statements[0].(*ast.ModelStatementNode)
	qt.Assert(t, qt.HasLen(m.Templates, 2))
	qt.Assert(t, qt.IsNotNil(m.Templates[0].Constraint))
	qt.Assert(t, qt.IsNotNil(m.Templates[1].Default))
}

func TestDecoratorOnModel(t *testing.T) {
	script, diags := mustParse(t, `@tag("x") model M {}`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	m := script.Statements[0].(*ast.ModelStatementNode)
	qt.Assert(t, qt.HasLen(m.Decorators, 1))
	qt.Assert(t, qt.HasLen(m.Decorators[0].Arguments, 1))
	// The declaration's range covers its decorators.
	qt.Assert(t, qt.Equals(m.Pos().Offset(), 0))
}

func TestMemberExpressionNoKeywordRecovery(t *testing.T) {
	// `@Outer.model M{}` parses as an incomplete decorator followed by a
	// model statement, not as a decorator named `Outer.model`.
	script, diags := mustParse(t, `@Outer.model M {}`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeTokenExpected}))
	qt.Assert(t, qt.HasLen(script.Statements, 1))
	m := script.Statements[0].(*ast.ModelStatementNode)
	qt.Assert(t, qt.Equals(m.ID.Name, "M"))
	qt.Assert(t, qt.HasLen(m.Decorators, 1))
}

func TestFunctionAndDecoratorDeclarations(t *testing.T) {
	script, diags := mustParse(t, "extern dec tag(target: unknown, value?: string);\nextern fn concat(...parts: string[]): string;", parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	qt.Assert(t, qt.HasLen(script.Statements, 2))

	dec := script.Statements[0].(*ast.DecoratorDeclarationStatementNode)
	qt.Assert(t, qt.Equals(dec.Modifiers&ast.ModifierExtern, ast.ModifierExtern))
	qt.Assert(t, qt.HasLen(dec.Parameters, 2))

	fn := script.Statements[1].(*ast.FunctionDeclarationStatementNode)
	qt.Assert(t, qt.IsTrue(fn.Parameters[0].Rest))
	qt.Assert(t, qt.IsNotNil(fn.ReturnType))
}

func TestProjectionStatement(t *testing.T) {
	src := `projection model#p { to { return self; } from { return self; } }`
	script, diags := mustParse(t, src, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))

	proj := script.Statements[0].(*ast.ProjectionStatementNode)
	qt.Assert(t, qt.Equals(proj.ID.Name, "p"))
	qt.Assert(t, qt.Equals(proj.Selector.SelectorKind, ast.ProjectionSelectorModel))
	qt.Assert(t, qt.IsNotNil(proj.To))
	qt.Assert(t, qt.IsNotNil(proj.From))
	qt.Assert(t, qt.Equals(proj.To.Direction, "to"))
	qt.Assert(t, qt.Equals(proj.From.Direction, "from"))
}

func TestProjectionDuplicateDirection(t *testing.T) {
	_, diags := mustParse(t, `projection model#p { to { } to { } }`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeDuplicateSymbol}))
}

func TestProjectionExpressions(t *testing.T) {
	src := `projection model#p { to { if !x || y && z { a; } else { b; }; self::items(1 + 2 * 3); (a, b) => { a; }; } }`
	script, diags := mustParse(t, src, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))

	proj := script.Statements[0].(*ast.ProjectionStatementNode)
	stmts := proj.To.Body.Statements
	qt.Assert(t, qt.HasLen(stmts, 3))

	ifExpr := stmts[0].(*ast.ProjectionExpressionStatementNode).Expr.(*ast.ProjectionIfExpressionNode)
	or := ifExpr.Test.(*ast.ProjectionLogicalExpressionNode)
	_, ok := or.Left.(*ast.ProjectionUnaryExpressionNode)
	qt.Assert(t, qt.IsTrue(ok))
	_, ok = or.Right.(*ast.ProjectionLogicalExpressionNode)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsNotNil(ifExpr.Else))

	call := stmts[1].(*ast.ProjectionExpressionStatementNode).Expr.(*ast.ProjectionCallExpressionNode)
	member := call.Callee.(*ast.ProjectionMemberExpressionNode)
	qt.Assert(t, qt.Equals(member.Sel.Name, "items"))
	sum := call.Arguments[0].(*ast.ProjectionArithmeticExpressionNode)
	_, ok = sum.Right.(*ast.ProjectionArithmeticExpressionNode)
	qt.Assert(t, qt.IsTrue(ok))

	lambda := stmts[2].(*ast.ProjectionExpressionStatementNode).Expr.(*ast.ProjectionLambdaExpressionNode)
	qt.Assert(t, qt.HasLen(lambda.Parameters, 2))
}

func TestUsingStatement(t *testing.T) {
	script, diags := mustParse(t, `using A.B;`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	u := script.Statements[0].(*ast.UsingStatementNode)
	member := u.Name.(*ast.MemberExpressionNode)
	qt.Assert(t, qt.Equals(member.Sel.Name, "B"))
}

func TestImportStatement(t *testing.T) {
	script, diags := mustParse(t, `import "./lib.tidl";`+"\n"+`model M {}`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	imp := script.Statements[0].(*ast.ImportStatementNode)
	qt.Assert(t, qt.Equals(imp.Path.Value, "./lib.tidl"))
}
