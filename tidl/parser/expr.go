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

// parseExpr parses the primary expression grammar, from its
// lowest-precedence production (union) down through primaries.
func (p *parser) parseExpr() ast.Node {
	return p.parseUnionExpr()
}

// parseUnionExpr parses `|`-joined options, left-associative, tolerating (and
// discarding) a leading bar.
func (p *parser) parseUnionExpr() ast.Node {
	start := p.pos
	p.accept(token.BAR) // leading bar permitted and discarded

	first := p.parseIntersectionExpr()
	if p.tok != token.BAR {
		return first
	}

	options := []ast.Node{first}
	for p.accept(token.BAR) {
		options = append(options, p.parseIntersectionExpr())
	}
	base := p.nodeBaseAt(ast.UnionExpression, start, p.previousTokenEnd)
	return &ast.UnionExpressionNode{NodeBase: base, Options: options}
}

// parseIntersectionExpr parses `&`-joined operands, left-associative,
// tolerating a leading ampersand the same way union tolerates a leading bar.
func (p *parser) parseIntersectionExpr() ast.Node {
	start := p.pos
	p.accept(token.AMP)

	first := p.parseArrayPostfixExpr()
	if p.tok != token.AMP {
		return first
	}

	operands := []ast.Node{first}
	for p.accept(token.AMP) {
		operands = append(operands, p.parseArrayPostfixExpr())
	}
	base := p.nodeBaseAt(ast.IntersectionExpression, start, p.previousTokenEnd)
	return &ast.IntersectionExpressionNode{NodeBase: base, Operands: operands}
}

// parseArrayPostfixExpr parses zero or more repeatable `[]` suffixes after
// a primary expression.
func (p *parser) parseArrayPostfixExpr() ast.Node {
	start := p.pos
	expr := p.parsePrimaryExpr()
	for p.tok == token.LBRACK {
		p.next()
		p.expect(token.RBRACK)
		base := p.nodeBaseAt(ast.ArrayExpression, start, p.previousTokenEnd)
		expr = &ast.ArrayExpressionNode{NodeBase: base, ElementType: expr}
	}
	return expr
}

// parsePrimaryExpr parses one primary expression: a reference (identifier or
// member chain, optionally templated), a literal, a model/tuple/parenthesized
// expression, or one of the keyword expressions.
func (p *parser) parsePrimaryExpr() ast.Node {
	start := p.pos
	switch p.tok {
	case token.IDENT:
		return p.parseTypeReference()
	case token.STRING:
		lit := p.lit
		p.next()
		return &ast.StringLiteralNode{NodeBase: p.nodeBaseAt(ast.StringLiteral, start, p.previousTokenEnd), Value: unquoteLiteral(lit)}
	case token.NUMBER:
		lit := p.lit
		p.next()
		return &ast.NumericLiteralNode{NodeBase: p.nodeBaseAt(ast.NumericLiteral, start, p.previousTokenEnd), Value: lit}
	case token.TRUE, token.FALSE:
		v := p.tok == token.TRUE
		p.next()
		return &ast.BooleanLiteralNode{NodeBase: p.nodeBaseAt(ast.BooleanLiteral, start, p.previousTokenEnd), Value: v}
	case token.VOID:
		p.next()
		return &ast.VoidKeywordNode{NodeBase: p.nodeBaseAt(ast.VoidKeyword, start, p.previousTokenEnd)}
	case token.NEVER:
		p.next()
		return &ast.NeverKeywordNode{NodeBase: p.nodeBaseAt(ast.NeverKeyword, start, p.previousTokenEnd)}
	case token.UNKNOWN:
		p.next()
		return &ast.UnknownKeywordNode{NodeBase: p.nodeBaseAt(ast.UnknownKeyword, start, p.previousTokenEnd)}
	case token.LBRACE:
		return p.parseModelExpression()
	case token.LBRACK:
		return p.parseTupleExpression()
	case token.LPAREN:
		p.next()
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return inner
	case token.AT:
		// A stray '@' introduces a decorator list that is invalid in
		// expression position; parse and report it, then resume with
		// whatever follows.
		dec := p.parseDecorator()
		p.errorf(dec.Pos(), errors.CodeInvalidDecoratorLocation, errors.MessageIDUnexpected,
			"a decorator is not valid here")
		p.markNodeError(dec)
		return p.parsePrimaryExpr()
	case token.HASH:
		dir := p.parseDirective()
		p.errorf(dir.Pos(), errors.CodeInvalidDirectiveLocation, errors.MessageIDUnexpected,
			"a directive is not valid here")
		p.markNodeError(dir)
		return p.parsePrimaryExpr()
	default:
		p.errorf(p.pos, errors.CodeTokenExpected, errors.MessageIDUnexpected,
			"expected an expression, found %s", p.tok)
		// A token left for the caller lies past the enclosing node's end, so
		// the placeholder then sits at the previous token's end instead.
		at := start
		if p.tok == token.EOF || isCloseDelimiter(p.tok) {
			at = p.previousTokenEnd
		}
		inv := &ast.InvalidExpressionNode{NodeBase: p.nodeBaseAt(ast.InvalidExpression, at, at)}
		p.markNodeError(inv)
		p.markNodeSynthetic(inv)
		// Don't consume EOF or a close-delimiter the caller is waiting on;
		// otherwise make some progress so a single bad token can't loop.
		if p.tok != token.EOF && !isCloseDelimiter(p.tok) {
			p.next()
		}
		return inv
	}
}

func isCloseDelimiter(tok token.Token) bool {
	switch tok {
	case token.RBRACE, token.RPAREN, token.RBRACK, token.RANGLE, token.SEMI, token.COMMA:
		return true
	}
	return false
}

// unquoteLiteral strips the surrounding quote characters from a raw string
// literal's text. Escape-sequence decoding is left to downstream consumers
// that need the runtime value; the CST stores the logical string value with
// only the delimiters removed.
func unquoteLiteral(lit string) string {
	if len(lit) >= 2 {
		return lit[1 : len(lit)-1]
	}
	return lit
}

// parseIdentifier parses a single identifier. A keyword in identifier
// position is consumed anyway and reported as reserved-identifier, which
// keeps the declaration it names intact; any other token synthesizes a
// missing identifier ("<missing identifier>N", unique per parse).
func (p *parser) parseIdentifier() *ast.IdentifierNode {
	if p.tok.IsKeyword() {
		start, name := p.pos, p.lit
		p.next()
		id := &ast.IdentifierNode{NodeBase: p.nodeBaseAt(ast.Identifier, start, p.previousTokenEnd), Name: name}
		p.errorf(start, errors.CodeReservedIdentifier, errors.MessageIDUnexpected,
			"%q is a reserved identifier", name)
		p.markNodeError(id)
		return id
	}
	if p.tok != token.IDENT {
		p.errorf(p.previousTokenEnd, errors.CodeTokenExpected, errors.MessageIDUnexpected,
			"expected an identifier, found %s", p.tok)
		return p.missingIdentifier(p.previousTokenEnd.WithRel(token.Elided))
	}
	start, name := p.pos, p.lit
	p.next()
	return &ast.IdentifierNode{NodeBase: p.nodeBaseAt(ast.Identifier, start, p.previousTokenEnd), Name: name}
}

// parseTypeReference parses an identifier-or-reference expression: a
// dotted-member chain, followed by an optional `<...>` template argument
// list. Member-expression identifiers after `.` do not recover from
// keywords, so an unexpected keyword after a dot simply stops the chain
// rather than being consumed.
func (p *parser) parseTypeReference() *ast.TypeReferenceNode {
	start := p.pos
	base := p.parseReferenceBase()
	args := p.parseTemplateArgumentsOpt()
	b := p.nodeBaseAt(ast.TypeReference, start, p.previousTokenEnd)
	return &ast.TypeReferenceNode{NodeBase: b, Base: base, TemplateArgs: args}
}

// parseReferenceBase parses `A.B.C`, joining simple identifiers with `.`
// into a chain of MemberExpression nodes. It stops (without recovery) as
// soon as the token after a `.` is not an identifier.
func (p *parser) parseReferenceBase() ast.Node {
	start := p.pos
	id := p.parseIdentifier()
	return p.parseReferenceBaseFrom(start, id)
}

// parseReferenceBaseFrom continues a `.`-joined member chain starting from
// an already-parsed leading expression. Callers that must decide, after
// seeing a single identifier token, whether it begins a named construct
// (e.g. a `name: Type` union variant) or a bare type expression use this to
// resume the chain without re-parsing the identifier they already consumed.
func (p *parser) parseReferenceBaseFrom(start token.Pos, base ast.Node) ast.Node {
	expr := base
	for p.tok == token.DOT {
		p.next()
		if p.tok != token.IDENT {
			// No keyword recovery after '.': the dot was already consumed,
			// leaving whatever follows to be parsed as the next
			// statement or expression.
			p.errorf(p.previousTokenEnd, errors.CodeTokenExpected, errors.MessageIDUnexpected,
				"expected an identifier after '.', found %s", p.tok)
			inv := p.missingIdentifier(p.previousTokenEnd.WithRel(token.Elided))
			b := p.nodeBaseAt(ast.MemberExpression, start, p.previousTokenEnd)
			expr = &ast.MemberExpressionNode{NodeBase: b, Base: expr, Sel: inv}
			return expr
		}
		sel := p.parseIdentifier()
		b := p.nodeBaseAt(ast.MemberExpression, start, p.previousTokenEnd)
		expr = &ast.MemberExpressionNode{NodeBase: b, Base: expr, Sel: sel}
	}
	return expr
}

// continueExprFromIdentifier resumes the full expression grammar (template
// arguments, array postfix, intersection, union) from an identifier token
// the caller has already consumed, for the same single-token-lookahead
// reason as parseReferenceBaseFrom.
func (p *parser) continueExprFromIdentifier(start token.Pos, id *ast.IdentifierNode) ast.Node {
	base := p.parseReferenceBaseFrom(start, id)
	args := p.parseTemplateArgumentsOpt()
	b := p.nodeBaseAt(ast.TypeReference, start, p.previousTokenEnd)
	var expr ast.Node = &ast.TypeReferenceNode{NodeBase: b, Base: base, TemplateArgs: args}

	for p.tok == token.LBRACK {
		p.next()
		p.expect(token.RBRACK)
		expr = &ast.ArrayExpressionNode{NodeBase: p.nodeBaseAt(ast.ArrayExpression, start, p.previousTokenEnd), ElementType: expr}
	}
	if p.tok == token.AMP {
		operands := []ast.Node{expr}
		for p.accept(token.AMP) {
			operands = append(operands, p.parseArrayPostfixExpr())
		}
		expr = &ast.IntersectionExpressionNode{NodeBase: p.nodeBaseAt(ast.IntersectionExpression, start, p.previousTokenEnd), Operands: operands}
	}
	if p.tok == token.BAR {
		options := []ast.Node{expr}
		for p.accept(token.BAR) {
			options = append(options, p.parseIntersectionExpr())
		}
		expr = &ast.UnionExpressionNode{NodeBase: p.nodeBaseAt(ast.UnionExpression, start, p.previousTokenEnd), Options: options}
	}
	return expr
}

// parseTemplateArgumentsOpt parses an optional `<...>` template-argument
// list.
func (p *parser) parseTemplateArgumentsOpt() []ast.Node {
	if p.tok != token.LANGLE {
		return nil
	}
	return p.parseList(listTemplateArguments, func(ast.Prelude) ast.Node {
		return p.parseExpr()
	})
}

// parseModelExpression parses a `{ ... }` inline model body, shared
// between the primary grammar and the projection sub-grammar.
func (p *parser) parseModelExpression() *ast.ModelExpressionNode {
	start := p.pos
	props := p.parseList(listModelProperties, func(prelude ast.Prelude) ast.Node {
		return p.parseModelMember(prelude)
	})
	base := p.nodeBaseAt(ast.ModelExpression, start, p.previousTokenEnd)
	return &ast.ModelExpressionNode{NodeBase: base, Properties: props}
}

// parseModelMember parses one ModelProperties list item: either a spread
// (`...Expr`) or a `id ?: Type (= Default)?` property.
func (p *parser) parseModelMember(prelude ast.Prelude) ast.Node {
	start := preludeStart(prelude, p.pos)
	if p.tok == token.ELLIPSIS {
		p.next()
		target := p.parseExpr()
		base := p.nodeBaseAt(ast.ModelSpreadProperty, start, p.previousTokenEnd)
		return &ast.ModelSpreadPropertyNode{NodeBase: base, Target: target}
	}

	id := p.parseIdentifier()
	optional := p.accept(token.QUESTION)
	p.expect(token.COLON)
	typ := p.parseExpr()
	var def ast.Node
	if p.accept(token.EQUALS) {
		def = p.parseExpr()
	}
	base := p.nodeBaseAt(ast.ModelProperty, start, p.previousTokenEnd)
	n := &ast.ModelPropertyNode{
		NodeBase: base, Prelude: prelude, ID: id, Optional: optional, Type: typ, Default: def,
	}
	if def != nil && !optional {
		p.errorf(id.Pos(), errors.CodeDefaultOptional, errors.MessageIDUnexpected,
			"a default value requires the property to be marked optional with '?'")
		p.markNodeError(n)
	}
	return n
}

// parseTupleExpression parses a `[...]` tuple literal.
func (p *parser) parseTupleExpression() *ast.TupleExpressionNode {
	start := p.pos
	values := p.parseList(listTuple, func(ast.Prelude) ast.Node {
		return p.parseExpr()
	})
	base := p.nodeBaseAt(ast.TupleExpression, start, p.previousTokenEnd)
	return &ast.TupleExpressionNode{NodeBase: base, Values: values}
}

// parseTemplateParameters parses an optional `<...>` template-parameter
// list attached to a declaration.
func (p *parser) parseTemplateParameters() []*ast.TemplateParameterDeclarationNode {
	if p.tok != token.LANGLE {
		return nil
	}
	nodes := p.parseList(listTemplateParameters, func(ast.Prelude) ast.Node {
		return p.parseTemplateParameter()
	})
	out := make([]*ast.TemplateParameterDeclarationNode, 0, len(nodes))
	for _, n := range nodes {
		if t, ok := n.(*ast.TemplateParameterDeclarationNode); ok {
			out = append(out, t)
		}
	}
	return out
}

func (p *parser) parseTemplateParameter() ast.Node {
	start := p.pos
	id := p.parseIdentifier()
	var constraint, def ast.Node
	if p.accept(token.EXTENDS) {
		constraint = p.parseExpr()
	}
	if p.accept(token.EQUALS) {
		def = p.parseExpr()
	}
	base := p.nodeBaseAt(ast.TemplateParameterDeclaration, start, p.previousTokenEnd)
	return &ast.TemplateParameterDeclarationNode{NodeBase: base, ID: id, Constraint: constraint, Default: def}
}

// ---------------------------------------------------------------------------
// Decorators and directives

// parseDecorator parses `@target(args...)` or bare `@target`.
func (p *parser) parseDecorator() *ast.DecoratorExpressionNode {
	start := p.pos
	p.expect(token.AT)
	target := p.parseReferenceBase()
	var args []ast.Node
	if p.tok == token.LPAREN {
		args = p.parseList(listDecoratorArguments, func(ast.Prelude) ast.Node {
			return p.parseExpr()
		})
	}
	base := p.nodeBaseAt(ast.DecoratorExpression, start, p.previousTokenEnd)
	return &ast.DecoratorExpressionNode{NodeBase: base, Target: target, Arguments: args}
}

// parseAugmentDecoratorStatement parses `@@target(targetType, args...);`.
// It requires at least one argument, and the first argument
// must be a type reference; if it isn't, the parser recovers by
// substituting a synthetic missing reference and emitting
// augment-decorator-target.
func (p *parser) parseAugmentDecoratorStatement() *ast.AugmentDecoratorStatementNode {
	start := p.pos
	p.expect(token.AT_AT)
	target := p.parseReferenceBase()

	openPos := p.pos
	p.expect(token.LPAREN)

	var targetType ast.Node
	var args []ast.Node
	if p.tok == token.RPAREN {
		p.errorf(openPos, errors.CodeAugmentDecoratorTarget, errors.MessageIDUnexpected,
			"an augment decorator requires at least one argument naming its target")
		targetType = p.syntheticTypeReference(openPos)
	} else {
		first := p.parseExpr()
		if _, ok := first.(*ast.TypeReferenceNode); ok {
			targetType = first
		} else {
			p.errorf(first.Pos(), errors.CodeAugmentDecoratorTarget, errors.MessageIDUnexpected,
				"the first argument to an augment decorator must be a type reference")
			targetType = p.syntheticTypeReference(first.Pos())
		}
		for p.accept(token.COMMA) {
			if p.tok == token.RPAREN {
				break
			}
			args = append(args, p.parseExpr())
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.SEMI)

	base := p.nodeBaseAt(ast.AugmentDecoratorStatement, start, p.previousTokenEnd)
	n := &ast.AugmentDecoratorStatementNode{NodeBase: base, Target: target, TargetType: targetType, Arguments: args}
	if p.realPositionOfLastError.Compare(start) >= 0 && p.realPositionOfLastError.Compare(p.previousTokenEnd) <= 0 {
		// A diagnostic (missing-argument or non-type-reference target) was
		// just reported somewhere within this statement's own span.
		p.markNodeError(n)
	}
	return n
}

func (p *parser) syntheticTypeReference(pos token.Pos) *ast.TypeReferenceNode {
	id := p.missingIdentifier(pos)
	base := p.nodeBaseAt(ast.TypeReference, pos, pos)
	ref := &ast.TypeReferenceNode{NodeBase: base, Base: id}
	p.markNodeSynthetic(ref)
	return ref
}

// parseDirective parses `#name args...`, terminated by a newline. Newline is
// promoted from trivia to significant for the whole directive, starting
// before the name is scanned so that `#suppress\n` doesn't swallow the next
// line as arguments.
func (p *parser) parseDirective() *ast.DirectiveExpressionNode {
	start := p.pos
	p.scan.SetNewlineSignificant(true)
	p.expect(token.HASH)
	name := p.parseIdentifier()

	var args []ast.Node
	for p.tok != token.NEWLINE && p.tok != token.EOF && p.tok != token.SEMI {
		args = append(args, p.parsePrimaryExpr())
	}
	p.scan.SetNewlineSignificant(false)
	p.accept(token.NEWLINE)

	if name.Name != "suppress" && !ast.IsMissingIdentifier(name.Name) {
		p.errorf(name.Pos(), errors.CodeUnknownDirective, errors.MessageIDUnexpected,
			"unknown directive %q", name.Name)
	}

	base := p.nodeBaseAt(ast.DirectiveExpression, start, p.previousTokenEnd)
	return &ast.DirectiveExpressionNode{NodeBase: base, Target: name, Arguments: args}
}
