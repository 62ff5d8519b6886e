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
	"strings"
	"unicode"
	"unicode/utf8"

	"tidl.org/go/tidl/token"
)

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9' || ch >= utf8.RuneSelf && unicode.IsDigit(ch)
}

// IsValidIdent reports whether ident is lexically a valid identifier: a
// letter or underscore followed by letters, digits, or underscores.
func IsValidIdent(ident string) bool {
	if ident == "" {
		return false
	}
	for i, r := range ident {
		if isLetter(r) {
			continue
		}
		if i > 0 && isDigit(r) {
			continue
		}
		return false
	}
	return true
}

// IsMissingIdentifier reports whether name looks like a synthesized missing
// identifier produced by NewMissingIdentifier.
func IsMissingIdentifier(name string) bool {
	return strings.HasPrefix(name, "<missing identifier>")
}

// IsReservedIdentifier reports whether name is one of the language's
// reserved words and therefore cannot be used as a declared identifier.
func IsReservedIdentifier(name string) bool {
	return token.Lookup(name).IsKeyword()
}
