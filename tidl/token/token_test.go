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

package token

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestLookup(t *testing.T) {
	qt.Assert(t, qt.Equals(Lookup("model"), MODEL))
	qt.Assert(t, qt.Equals(Lookup("projection"), PROJECTION))
	qt.Assert(t, qt.Equals(Lookup("return"), RETURN))
	qt.Assert(t, qt.Equals(Lookup("Model"), IDENT))
	qt.Assert(t, qt.Equals(Lookup("foo"), IDENT))
	qt.Assert(t, qt.Equals(Lookup(""), IDENT))
}

func TestTokenPredicates(t *testing.T) {
	qt.Assert(t, qt.IsTrue(MODEL.IsKeyword()))
	qt.Assert(t, qt.IsFalse(IDENT.IsKeyword()))
	qt.Assert(t, qt.IsFalse(LBRACE.IsKeyword()))

	qt.Assert(t, qt.IsTrue(STRING.IsLiteral()))
	qt.Assert(t, qt.IsTrue(NUMBER.IsLiteral()))
	qt.Assert(t, qt.IsFalse(SEMI.IsLiteral()))

	qt.Assert(t, qt.IsTrue(WHITESPACE.IsTrivia()))
	qt.Assert(t, qt.IsTrue(NEWLINE.IsTrivia()))
	qt.Assert(t, qt.IsTrue(COMMENT.IsTrivia()))
	qt.Assert(t, qt.IsTrue(BLOCK_COMMENT.IsTrivia()))
	qt.Assert(t, qt.IsFalse(IDENT.IsTrivia()))
}

func TestTokenString(t *testing.T) {
	qt.Assert(t, qt.Equals(MODEL.String(), "model"))
	qt.Assert(t, qt.Equals(SEMI.String(), ";"))
	qt.Assert(t, qt.Equals(AT_AT.String(), "@@"))
	qt.Assert(t, qt.Equals(EOF.String(), "EOF"))
}

func TestTokenFlags(t *testing.T) {
	f := DocComment | Unterminated
	qt.Assert(t, qt.IsTrue(f.Has(DocComment)))
	qt.Assert(t, qt.IsTrue(f.Has(Unterminated)))
	qt.Assert(t, qt.IsFalse(f.Has(PrecedingLineBreak)))
}
