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

package parser

import (
	"tidl.org/go/tidl/ast"
	"tidl.org/go/tidl/errors"
	"tidl.org/go/tidl/token"
)

// listKind parameterizes the generic delimited-list driver. A field left
// as token.NONE means "this list has no such token".
type listKind struct {
	name string

	open, close        token.Token
	delimiter          token.Token
	toleratedDelimiter token.Token

	allowEmpty                bool
	toleratedDelimiterIsValid bool
	trailingDelimiterIsValid  bool

	// invalidAnnotationTarget, if non-empty, means doc/decorator/directive
	// preludes are still parsed but immediately reported as misplaced.
	invalidAnnotationTarget string

	// allowedStatementKeyword is a single statement keyword that does NOT
	// trigger end-of-list recovery even though it would elsewhere be
	// recognized as one (InterfaceMembers tolerates a bare `op`).
	allowedStatementKeyword token.Token
}

var (
	listOperationParameters = listKind{
		name: "operation parameters",
		open: token.LPAREN, close: token.RPAREN,
		delimiter: token.COMMA, toleratedDelimiter: token.SEMI,
		allowEmpty: true,
	}
	listDecoratorArguments = listKind{
		name: "decorator arguments",
		open: token.LPAREN, close: token.RPAREN,
		delimiter: token.COMMA, toleratedDelimiter: token.SEMI,
		allowEmpty:              true,
		invalidAnnotationTarget: "decorator argument",
	}
	listModelProperties = listKind{
		name: "model properties",
		open: token.LBRACE, close: token.RBRACE,
		delimiter: token.SEMI, toleratedDelimiter: token.COMMA,
		allowEmpty: true, toleratedDelimiterIsValid: true, trailingDelimiterIsValid: true,
	}
	listInterfaceMembers = listKind{
		name: "interface members",
		open: token.LBRACE, close: token.RBRACE,
		delimiter: token.SEMI, toleratedDelimiter: token.COMMA,
		allowEmpty: true, trailingDelimiterIsValid: true,
		allowedStatementKeyword: token.OP,
	}
	listUnionVariants = listKind{
		name: "union variants",
		open: token.LBRACE, close: token.RBRACE,
		delimiter: token.SEMI, toleratedDelimiter: token.COMMA,
		allowEmpty: true, toleratedDelimiterIsValid: true, trailingDelimiterIsValid: true,
	}
	listEnumMembers = listKind{
		name: "enum members",
		open: token.LBRACE, close: token.RBRACE,
		delimiter: token.SEMI, toleratedDelimiter: token.COMMA,
		allowEmpty: true, toleratedDelimiterIsValid: true, trailingDelimiterIsValid: true,
	}
	listTemplateParameters = listKind{
		name: "template parameters",
		open: token.LANGLE, close: token.RANGLE,
		delimiter: token.COMMA,
	}
	listTemplateArguments = listKind{
		name: "template arguments",
		open: token.LANGLE, close: token.RANGLE,
		delimiter: token.COMMA,
	}
	listCallArguments = listKind{
		name: "call arguments",
		open: token.LPAREN, close: token.RPAREN,
		delimiter: token.COMMA, allowEmpty: true,
	}
	listTuple = listKind{
		name: "tuple",
		open: token.LBRACK, close: token.RBRACK,
		delimiter: token.COMMA, allowEmpty: true,
	}
	listFunctionParameters = listKind{
		name: "function parameters",
		open: token.LPAREN, close: token.RPAREN,
		delimiter: token.COMMA, allowEmpty: true,
	}
	listProjectionExpression = listKind{
		name: "projection block",
		open: token.LBRACE, close: token.RBRACE,
		delimiter: token.SEMI, allowEmpty: true, trailingDelimiterIsValid: true,
	}
	listProjectionParameter = listKind{
		name: "projection parameters",
		open: token.LPAREN, close: token.RPAREN,
		delimiter: token.COMMA, allowEmpty: true,
	}
)

// isStatementKeywordToken reports whether tok starts a top-level or
// block-level statement.
func isStatementKeywordToken(tok token.Token) bool {
	switch tok {
	case token.AT_AT, token.IMPORT, token.MODEL, token.SCALAR, token.NAMESPACE,
		token.INTERFACE, token.UNION, token.OP, token.ENUM, token.ALIAS,
		token.USING, token.PROJECTION, token.EXTERN, token.FN, token.DEC, token.SEMI:
		return true
	}
	return false
}

// parseList runs the generic delimited-list driver shared by every
// bracketed or delimited production in the grammar. item parses exactly
// one list element (after any prelude has already been consumed by the
// driver) and returns the resulting node, or nil if nothing could be
// parsed (if an iteration then consumed no token at all, the driver's
// progress guard closes the list and returns without consuming the bad
// token).
func (p *parser) parseList(kind listKind, item func(prelude ast.Prelude) ast.Node) []ast.Node {
	var items []ast.Node

	if kind.open != token.NONE {
		p.expect(kind.open)
	}

	for {
		if kind.close != token.NONE && p.tok == kind.close {
			if !kind.allowEmpty && len(items) == 0 {
				p.errorf(p.pos, errors.CodeTokenExpected, errors.MessageIDUnexpected,
					"%s: expected at least one element", kind.name)
			}
			p.next()
			return items
		}
		if p.tok == token.EOF {
			if kind.close != token.NONE {
				p.errorf(p.previousTokenEnd, errors.CodeTokenExpected, errors.MessageIDUnexpected,
					"expected %s, found EOF", kind.close)
			}
			return items
		}

		startOffset := p.pos.Offset()

		prelude := p.parsePrelude(kind.invalidAnnotationTarget)

		if kind.close != token.NONE && p.tok == kind.close && len(prelude.Docs)+len(prelude.Directives)+len(prelude.Decorators) == 0 {
			p.next()
			return items
		}

		if len(prelude.Docs)+len(prelude.Directives)+len(prelude.Decorators) == 0 &&
			p.tok != kind.allowedStatementKeyword &&
			isStatementKeywordToken(p.tok) {
			// Force-close: whatever follows belongs to an enclosing list.
			return items
		}

		n := item(prelude)
		if n != nil {
			items = append(items, n)
		}

		consumedDelimiter := false
		if kind.delimiter != token.NONE && p.tok == kind.delimiter {
			p.next()
			consumedDelimiter = true
		} else if kind.toleratedDelimiter != token.NONE && p.tok == kind.toleratedDelimiter {
			if !kind.toleratedDelimiterIsValid {
				p.errorf(p.pos, errors.CodeTrailingToken, errors.MessageIDUnexpected,
					"%s not allowed as a delimiter here", p.tok)
			}
			p.next()
			consumedDelimiter = true
		}

		if consumedDelimiter && kind.close != token.NONE && p.tok == kind.close {
			if !kind.trailingDelimiterIsValid {
				p.errorf(p.previousTokenEnd, errors.CodeTrailingToken, errors.MessageIDUnexpected,
					"trailing delimiter not allowed")
			}
			p.next()
			return items
		}

		if !consumedDelimiter {
			if kind.close != token.NONE && p.tok == kind.close {
				p.next()
				return items
			}
			if kind.delimiter != token.NONE && p.tok != token.EOF {
				p.errorf(p.pos, errors.CodeTokenExpected, errors.MessageIDUnexpected,
					"expected %s, found %s", kind.delimiter, p.tok)
			}
		}

		// Progress guard: if the whole iteration consumed no tokens at all,
		// force-close to guarantee termination on malformed input such as
		// `model M { ]`.
		if p.pos.Offset() == startOffset {
			if n != nil && len(items) > 0 && items[len(items)-1] == n {
				items = items[:len(items)-1]
			}
			return items
		}
	}
}
