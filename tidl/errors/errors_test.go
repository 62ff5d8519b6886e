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

package errors

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"tidl.org/go/tidl/token"
)

func testPos(f *token.File, offset int) token.Pos {
	return f.Pos(offset, token.NoRelPos)
}

func TestListCollectsAndSorts(t *testing.T) {
	f := token.NewFile("t.tidl", 20)
	var list List
	list.AddNewf(testPos(f, 10), CodeTokenExpected, "second")
	list.AddNewf(testPos(f, 2), CodeTrailingToken, "first")
	list.AddWarnf(testPos(f, 15), CodeDocInvalidIdentifier, "third")

	qt.Assert(t, qt.Equals(list.Len(), 3))
	qt.Assert(t, qt.IsTrue(list.HasErrors()))

	list.Sort()
	qt.Assert(t, qt.Equals(list[0].Error(), "first"))
	qt.Assert(t, qt.Equals(list[1].Error(), "second"))
	qt.Assert(t, qt.Equals(list[2].Error(), "third"))
	qt.Assert(t, qt.Equals(list[2].Severity(), Warning))
}

func TestRemoveMultiples(t *testing.T) {
	f := token.NewFile("t.tidl", 20)
	var list List
	list.AddNewf(testPos(f, 5), CodeTokenExpected, "dup")
	list.AddNewf(testPos(f, 5), CodeTokenExpected, "dup")
	list.AddNewf(testPos(f, 5), CodeTokenExpected, "not a dup")
	list.AddNewf(testPos(f, 9), CodeTokenExpected, "dup")

	list.RemoveMultiples()
	qt.Assert(t, qt.Equals(list.Len(), 3))
}

func TestWarningsOnlyListHasNoErrors(t *testing.T) {
	f := token.NewFile("t.tidl", 10)
	var list List
	list.AddWarnf(testPos(f, 1), CodeDocInvalidIdentifier, "just a warning")
	qt.Assert(t, qt.IsFalse(list.HasErrors()))
}

func TestListError(t *testing.T) {
	f := token.NewFile("t.tidl", 10)
	var list List
	qt.Assert(t, qt.Equals(list.Error(), "no errors"))

	list.AddNewf(testPos(f, 0), CodeTokenExpected, "boom")
	qt.Assert(t, qt.Equals(list.Error(), "boom"))

	list.AddNewf(testPos(f, 5), CodeTokenExpected, "bang")
	qt.Assert(t, qt.Equals(list.Error(), "boom (and 1 more errors)"))
}

func TestDetailsFormat(t *testing.T) {
	f := token.NewFile("t.tidl", 10)
	var list List
	list.AddNewf(testPos(f, 2), CodeTokenExpected, "expected %s", ";")
	list.AddWarnf(testPos(f, 4), CodeDocInvalidIdentifier, "odd doc")

	out := Details(list, nil)
	qt.Assert(t, qt.Equals(out,
		"t.tidl:1:3: error: expected ; (token-expected)\n"+
			"t.tidl:1:5: warning: odd doc (doc-invalid-identifier)\n"))
}

func TestDetailsRelativizesCwd(t *testing.T) {
	f := token.NewFile("/work/src/t.tidl", 10)
	var list List
	list.AddNewf(testPos(f, 0), CodeTokenExpected, "boom")

	out := Details(list, &Config{Cwd: "/work/src"})
	qt.Assert(t, qt.IsTrue(strings.HasPrefix(out, "t.tidl:1:1: ")))
}

func TestMessageIDSubVariant(t *testing.T) {
	f := token.NewFile("t.tidl", 10)

	d := NewfID(testPos(f, 1), CodeTokenExpected, MessageIDStatement, "expected a statement")
	qt.Assert(t, qt.Equals(d.MessageID(), MessageIDStatement))
	qt.Assert(t, qt.Equals(d.Code(), CodeTokenExpected))

	// Diagnostics without a sub-variant report the empty MessageID.
	qt.Assert(t, qt.Equals(Newf(testPos(f, 0), CodeTrailingToken, "x").MessageID(), MessageID("")))
	qt.Assert(t, qt.Equals(Warnf(testPos(f, 0), CodeDocInvalidIdentifier, "x").MessageID(), MessageID("")))

	// Print renders the sub-variant in the code{id} form.
	var list List
	list.AddNewfID(testPos(f, 1), CodeTokenExpected, MessageIDStatement, "expected a statement")
	out := Details(list, nil)
	qt.Assert(t, qt.Equals(out, "t.tidl:1:2: error: expected a statement (token-expected{statement})\n"))
}

func TestMessageDefersFormatting(t *testing.T) {
	m := NewMessagef("expected %q, found %q", "a", "b")
	format, args := m.Msg()
	qt.Assert(t, qt.Equals(format, "expected %q, found %q"))
	qt.Assert(t, qt.HasLen(args, 2))
	qt.Assert(t, qt.Equals(m.Error(), `expected "a", found "b"`))
}
