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

// Package parser implements a recursive-descent parser producing a
// tidl/ast concrete syntax tree from source text (components D, E, F).
package parser

import (
	"tidl.org/go/tidl/ast"
	"tidl.org/go/tidl/errors"
	"tidl.org/go/tidl/token"
)

// Options controls what parser.Parse collects alongside the statement
// tree. The zero value collects neither.
type Options struct {
	// Comments, if true, collects comment trivia into ScriptNode.Comments.
	Comments bool
	// Docs, if true, parses doc comments into DocNode trees instead of
	// leaving them as opaque comment trivia.
	Docs bool
}

// Parse parses code as a single source file named filename and returns the
// resulting script together with any diagnostics produced. Parse never
// returns a nil *ast.ScriptNode and never aborts early: every recovery path
// in the grammar produces a well-formed, possibly-synthetic node.
func Parse(filename string, code []byte, opts Options) (*ast.ScriptNode, errors.List) {
	p := &parser{}
	p.init(filename, code, opts)
	script := p.parseScript()
	return script, p.errs
}

// ParseStandaloneTypeReference parses code as a single reference
// expression. Anything left before EOF is reported as
// token-expected{unexpected}.
func ParseStandaloneTypeReference(filename string, code []byte) (*ast.TypeReferenceNode, errors.List) {
	p := &parser{}
	p.init(filename, code, Options{})
	ref := p.parseTypeReference()
	if p.tok != token.EOF {
		p.errorf(p.pos, errors.CodeTokenExpected, errors.MessageIDUnexpected,
			"unexpected token %s after type reference", p.tok)
	}
	p.errs.RemoveMultiples()
	return ref, p.errs
}
