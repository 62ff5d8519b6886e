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

package ast

import (
	"testing"

	"github.com/go-quicktest/qt"

	"tidl.org/go/tidl/token"
)

func TestIsValidIdent(t *testing.T) {
	valid := []string{"a", "_", "_a", "abc123", "Über", "日本語"}
	for _, s := range valid {
		qt.Assert(t, qt.IsTrue(IsValidIdent(s)), qt.Commentf("ident %q", s))
	}
	invalid := []string{"", "1a", "a-b", "a b", "a.b", "@x"}
	for _, s := range invalid {
		qt.Assert(t, qt.IsFalse(IsValidIdent(s)), qt.Commentf("ident %q", s))
	}
}

func TestIsReservedIdentifier(t *testing.T) {
	qt.Assert(t, qt.IsTrue(IsReservedIdentifier("model")))
	qt.Assert(t, qt.IsTrue(IsReservedIdentifier("projection")))
	qt.Assert(t, qt.IsFalse(IsReservedIdentifier("Model")))
	qt.Assert(t, qt.IsFalse(IsReservedIdentifier("self")))
}

func TestMissingIdentifier(t *testing.T) {
	f := token.NewFile("t.tidl", 10)
	id := NewMissingIdentifier(f.Pos(4, token.NoRelPos), 7)
	qt.Assert(t, qt.Equals(id.Name, "<missing identifier>7"))
	qt.Assert(t, qt.IsTrue(id.Flags().Has(Synthetic)))
	qt.Assert(t, qt.Equals(id.Pos().Offset(), 4))
	qt.Assert(t, qt.Equals(id.End().Offset(), 4))
	qt.Assert(t, qt.IsTrue(IsMissingIdentifier(id.Name)))
	qt.Assert(t, qt.IsFalse(IsMissingIdentifier("regular")))
}

func TestNodeFlags(t *testing.T) {
	f := ThisNodeHasError | DescendantErrorsExamined
	qt.Assert(t, qt.IsTrue(f.Has(ThisNodeHasError)))
	qt.Assert(t, qt.IsFalse(f.Has(DescendantHasError)))
	qt.Assert(t, qt.IsTrue(f.Has(ThisNodeHasError|DescendantErrorsExamined)))
}

func TestNodeKindString(t *testing.T) {
	qt.Assert(t, qt.Equals(ModelStatement.String(), "ModelStatement"))
	qt.Assert(t, qt.Equals(ProjectionLambdaExpression.String(), "ProjectionLambdaExpression"))
	qt.Assert(t, qt.Equals(NodeKind(9999).String(), "NodeKind(9999)"))
}
