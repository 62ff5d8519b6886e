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

func TestProgressGuardMalformedModelBody(t *testing.T) {
	// The canonical pathological input: the list driver must terminate and
	// emit at most two diagnostics for the body.
	script, diags := mustParse(t, `model M { ]`, parser.Options{})
	qt.Assert(t, qt.IsNotNil(script))
	if n := diags.Len(); n < 1 || n > 2 {
		t.Errorf("got %d diagnostics, want 1 or 2: %v", n, codes(diags))
	}
}

func TestRecoveryNeverPanics(t *testing.T) {
	// A grab bag of malformed inputs; each must produce a traversable tree.
	inputs := []string{
		"model",
		"model M {",
		"model M { x",
		"model M { x: }",
		"op foo(",
		"interface I { op",
		"alias A =",
		"union U { |",
		"enum E { : }",
		"projection",
		"projection model#p { to",
		"@@",
		"@@d()",
		"#",
		"namespace",
		"using;",
		"<>?!",
		"( ) [ ] { }",
		"\"unterminated",
		"/* unterminated",
		"/** unterminated doc",
	}
	for _, src := range inputs {
		script, _ := mustParse(t, src, parser.Options{Comments: true, Docs: true})
		qt.Assert(t, qt.IsNotNil(script))
	}
}

func TestImportOrdering(t *testing.T) {
	_, diags := mustParse(t, `model M {} import "x";`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeImportFirst}))

	_, diags = mustParse(t, `namespace N { import "x"; }`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeImportFirst}))

	_, diags = mustParse(t, `import "x";`+"\n"+`model M {}`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
}

func TestMultipleBlocklessNamespace(t *testing.T) {
	_, diags := mustParse(t, "namespace A;\nnamespace B;", parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeMultipleBlocklessNamespace}))
}

func TestBlocklessNamespaceMustPrecedeDeclarations(t *testing.T) {
	_, diags := mustParse(t, "model M {}\nnamespace A;", parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeBlocklessNamespaceFirst}))
}

func TestBlocklessNamespaceInsideBlock(t *testing.T) {
	_, diags := mustParse(t, "namespace N { namespace A; }", parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeBlocklessNamespaceFirst}))
}

func TestTemplateTrailingDelimiter(t *testing.T) {
	_, diags := mustParse(t, `alias A = B<C,>;`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeTrailingToken}))
}

func TestModelTrailingDelimiterAccepted(t *testing.T) {
	_, diags := mustParse(t, `model M { x: string; }`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
}

func TestReservedIdentifier(t *testing.T) {
	script, diags := mustParse(t, `model interface {}`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeReservedIdentifier}))
	m := script.Statements[0].(*ast.ModelStatementNode)
	qt.Assert(t, qt.Equals(m.ID.Name, "interface"))
	qt.Assert(t, qt.IsTrue(treeutil.HasParseError(m)))
}

func TestParameterOrderingDiagnostics(t *testing.T) {
	tests := []struct {
		src  string
		want errors.Code
	}{
		{`fn f(a?: string, b: string): void;`, errors.CodeRequiredParameterFirst},
		{`fn f(...rest?: string[]): void;`, errors.CodeRestParameterRequired},
		{`fn f(...rest: string[], b: string): void;`, errors.CodeRestParameterLast},
		{`dec tag();`, errors.CodeDecoratorDeclTarget},
		{`dec tag(target?: unknown);`, errors.CodeDecoratorDeclTarget},
	}
	for _, tc := range tests {
		_, diags := mustParse(t, tc.src, parser.Options{})
		qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{tc.want}), qt.Commentf("src: %s", tc.src))
	}
}

func TestAugmentDecorator(t *testing.T) {
	script, diags := mustParse(t, `@@doc(Target, "text");`, parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	aug := script.Statements[0].(*ast.AugmentDecoratorStatementNode)
	_, ok := aug.TargetType.(*ast.TypeReferenceNode)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(aug.Arguments, 1))
}

func TestAugmentDecoratorBadTarget(t *testing.T) {
	script, diags := mustParse(t, `@@doc("text");`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeAugmentDecoratorTarget}))

	// Recovery substitutes a synthetic reference for the bad first argument.
	aug := script.Statements[0].(*ast.AugmentDecoratorStatementNode)
	ref := aug.TargetType.(*ast.TypeReferenceNode)
	qt.Assert(t, qt.IsTrue(ref.Flags().Has(ast.Synthetic)))

	_, diags = mustParse(t, `@@doc();`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeAugmentDecoratorTarget}))
}

func TestDirectives(t *testing.T) {
	script, diags := mustParse(t, "#suppress \"some-code\" \"because\"\nmodel M {}", parser.Options{})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	m := script.Statements[0].(*ast.ModelStatementNode)
	qt.Assert(t, qt.HasLen(m.Directives, 1))
	qt.Assert(t, qt.Equals(m.Directives[0].Target.Name, "suppress"))
	qt.Assert(t, qt.HasLen(m.Directives[0].Arguments, 2))
}

func TestUnknownDirective(t *testing.T) {
	_, diags := mustParse(t, "#frobnicate\nmodel M {}", parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeUnknownDirective}))
}

func TestDecoratorInvalidOnAlias(t *testing.T) {
	_, diags := mustParse(t, `@tag alias A = B;`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeInvalidDecoratorLocation}))
}

func TestStrayDecoratorInExpression(t *testing.T) {
	script, diags := mustParse(t, `model M { x: @foo string }`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeInvalidDecoratorLocation}))

	// Parsing resumes after the misplaced decorator.
	m := script.Statements[0].(*ast.ModelStatementNode)
	x := m.Properties[0].(*ast.ModelPropertyNode)
	_, ok := x.Type.(*ast.TypeReferenceNode)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestInvalidStatementRecovery(t *testing.T) {
	// The garbage run is consumed up to the next statement keyword and
	// reported as a single diagnostic.
	script, diags := mustParse(t, "% ^ 17\nmodel M {}", parser.Options{})
	qt.Assert(t, qt.HasLen(script.Statements, 2))
	m, ok := script.Statements[1].(*ast.ModelStatementNode)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(m.ID.Name, "M"))
	qt.Assert(t, qt.IsTrue(diags.HasErrors()))
}

func TestMissingIdentifiersAreUnique(t *testing.T) {
	// Two separate recoveries must not share a synthetic identifier; the
	// uniqueness itself is asserted by checkInvariants inside mustParse.
	script, diags := mustParse(t, "model { } model { }", parser.Options{})
	qt.Assert(t, qt.IsTrue(diags.HasErrors()))

	var missing []string
	for _, stmt := range script.Statements {
		if m, ok := stmt.(*ast.ModelStatementNode); ok && ast.IsMissingIdentifier(m.ID.Name) {
			missing = append(missing, m.ID.Name)
		}
	}
	qt.Assert(t, qt.HasLen(missing, 2))
}

func TestErrorFlagAccompaniesDiagnostics(t *testing.T) {
	// Whenever a parse error clears the printable bit, some node in the
	// affected region must carry ThisNodeHasError, so hasParseError and the
	// diagnostic list never disagree about whether the parse was clean.
	inputs := []string{
		"interface I { op a(): void op b(): void }", // missing list delimiter
		"alias A = B<C,>;",                          // trailing template delimiter
		"model M {",                                 // unclosed body
		"model { }",                                 // missing declaration name
	}
	for _, src := range inputs {
		script, diags := mustParse(t, src, parser.Options{})
		qt.Assert(t, qt.IsTrue(diags.HasErrors()), qt.Commentf("src: %s", src))
		qt.Assert(t, qt.IsFalse(script.Printable), qt.Commentf("src: %s", src))
		qt.Assert(t, qt.IsTrue(treeutil.HasParseError(script)), qt.Commentf("src: %s", src))
	}
}

func TestDiagnosticMessageIDs(t *testing.T) {
	// The sub-variant is recoverable from the diagnostic itself, without
	// parsing message text.
	_, diags := mustParse(t, "123", parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeTokenExpected}))
	qt.Assert(t, qt.Equals(diags[0].MessageID(), errors.MessageIDStatement))

	_, diags = mustParse(t, `namespace N { import "x"; }`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeImportFirst}))
	qt.Assert(t, qt.Equals(diags[0].MessageID(), errors.MessageIDTopLevel))

	_, diags = mustParse(t, `model M { x: }`, parser.Options{})
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeTokenExpected}))
	qt.Assert(t, qt.Equals(diags[0].MessageID(), errors.MessageIDUnexpected))
}

func TestHasParseErrorOnRecoveredTree(t *testing.T) {
	script, _ := mustParse(t, `model M { x: }`, parser.Options{})
	qt.Assert(t, qt.IsTrue(treeutil.HasParseError(script)))
	// Idempotent and memoized.
	qt.Assert(t, qt.IsTrue(treeutil.HasParseError(script)))
	qt.Assert(t, qt.IsTrue(script.Flags().Has(ast.DescendantErrorsExamined)))
}
