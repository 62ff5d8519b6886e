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
	"github.com/google/go-cmp/cmp"

	"tidl.org/go/tidl/ast"
	"tidl.org/go/tidl/errors"
	"tidl.org/go/tidl/parser"
	"tidl.org/go/tidl/token"
)

func TestParseOptionsSnapshot(t *testing.T) {
	opts := parser.Options{Comments: true, Docs: true}
	script, _ := mustParse(t, `model M {}`, opts)
	want := ast.ParseOptions{Comments: true, Docs: true}
	if diff := cmp.Diff(want, script.ParseOptions); diff != "" {
		t.Errorf("option snapshot mismatch (-want +got):\n%s", diff)
	}
	qt.Assert(t, qt.Equals(script.ID, "test.tidl"))
}

func TestCommentCollection(t *testing.T) {
	src := "// leading\nmodel M {} /* trailing */"

	script, diags := mustParse(t, src, parser.Options{Comments: true})
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	qt.Assert(t, qt.HasLen(script.Comments, 2))
	qt.Assert(t, qt.Equals(script.Comments[0].Text, "// leading"))
	qt.Assert(t, qt.Equals(script.Comments[0].Token, token.COMMENT))
	qt.Assert(t, qt.Equals(script.Comments[1].Text, "/* trailing */"))
	qt.Assert(t, qt.Equals(script.Comments[1].Token, token.BLOCK_COMMENT))

	// Without the option, trivia is dropped.
	script, _ = mustParse(t, src, parser.Options{})
	qt.Assert(t, qt.HasLen(script.Comments, 0))
}

func TestDocCommentParsing(t *testing.T) {
	src := "/** Greets. @param name who @template T shape @returns a greeting @custom x */\nop greet(name: string): string;"
	script, diags := mustParse(t, src, parser.Options{Docs: true})
	qt.Assert(t, qt.IsFalse(diags.HasErrors()))

	op := script.Statements[0].(*ast.OperationStatementNode)
	qt.Assert(t, qt.HasLen(op.Docs, 1))

	doc := op.Docs[0]
	qt.Assert(t, qt.HasLen(doc.Content, 5))
	_, ok := doc.Content[0].(*ast.DocTextNode)
	qt.Assert(t, qt.IsTrue(ok))

	param := doc.Content[1].(*ast.DocParamTagNode)
	qt.Assert(t, qt.Equals(param.Name.Name, "name"))

	tmpl := doc.Content[2].(*ast.DocTemplateTagNode)
	qt.Assert(t, qt.Equals(tmpl.Name.Name, "T"))

	_, ok = doc.Content[3].(*ast.DocReturnsTagNode)
	qt.Assert(t, qt.IsTrue(ok))

	unknown := doc.Content[4].(*ast.DocUnknownTagNode)
	qt.Assert(t, qt.Equals(unknown.TagName, "custom"))
}

func TestDocCommentDisabled(t *testing.T) {
	src := "/** docs */\nmodel M {}"
	script, _ := mustParse(t, src, parser.Options{})
	m := script.Statements[0].(*ast.ModelStatementNode)
	qt.Assert(t, qt.HasLen(m.Docs, 0))
}

func TestDocParamMissingIdentifierWarns(t *testing.T) {
	src := "/** @param */\nmodel M {}"
	_, diags := mustParse(t, src, parser.Options{Docs: true})
	qt.Assert(t, qt.IsFalse(diags.HasErrors()))
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeDocInvalidIdentifier}))
	qt.Assert(t, qt.Equals(diags[0].Severity(), errors.Warning))
}

func TestParseStandaloneTypeReference(t *testing.T) {
	ref, diags := parser.ParseStandaloneTypeReference("ref.tidl", []byte(`Foo.Bar<string>`))
	qt.Assert(t, qt.Equals(diags.Len(), 0))
	member := ref.Base.(*ast.MemberExpressionNode)
	qt.Assert(t, qt.Equals(member.Sel.Name, "Bar"))
	qt.Assert(t, qt.HasLen(ref.TemplateArgs, 1))

	_, diags = parser.ParseStandaloneTypeReference("ref.tidl", []byte(`Foo garbage`))
	qt.Assert(t, qt.DeepEquals(codes(diags), []errors.Code{errors.CodeTokenExpected}))
}

func TestPrintableBit(t *testing.T) {
	script, _ := mustParse(t, `model M {}`, parser.Options{})
	qt.Assert(t, qt.IsTrue(script.Printable))

	script, _ = mustParse(t, `model M { ]`, parser.Options{})
	qt.Assert(t, qt.IsFalse(script.Printable))
}

func TestScriptDiagnosticsMatchReturnedList(t *testing.T) {
	script, diags := mustParse(t, `model M { x: string = 3 }`, parser.Options{})
	qt.Assert(t, qt.Equals(len(script.ParseDiagnostics), diags.Len()))
}
