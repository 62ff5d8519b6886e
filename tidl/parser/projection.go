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

// This file implements the projection sub-language: an embedded
// expression grammar with its own operator precedence, reusing the primary
// grammar's list driver, model-expression members, and literal node types.
package parser

import (
	"tidl.org/go/tidl/ast"
	"tidl.org/go/tidl/errors"
	"tidl.org/go/tidl/token"
)

// parseProjectionBlock parses a `{ stmt; stmt; ... }` body shared by
// projection directions, if/else arms, and lambda bodies.
func (p *parser) parseProjectionBlock() *ast.ProjectionBlockExpressionNode {
	start := p.pos
	stmts := p.parseList(listProjectionExpression, func(ast.Prelude) ast.Node {
		return p.parseProjectionExpressionStatement()
	})
	base := p.nodeBaseAt(ast.ProjectionBlockExpression, start, p.previousTokenEnd)
	return &ast.ProjectionBlockExpressionNode{NodeBase: base, Statements: stmts}
}

func (p *parser) parseProjectionExpressionStatement() ast.Node {
	start := p.pos
	expr := p.parseProjectionExpr()
	base := p.nodeBaseAt(ast.ProjectionExpressionStatement, start, p.previousTokenEnd)
	return &ast.ProjectionExpressionStatementNode{NodeBase: base, Expr: expr}
}

// parseProjectionExpr parses the full projection expression grammar from its
// lowest-precedence production (a leading `return`) down through primaries.
func (p *parser) parseProjectionExpr() ast.Node {
	if p.tok == token.RETURN {
		start := p.pos
		p.next()
		var value ast.Node
		if p.tok != token.SEMI && p.tok != token.RBRACE && p.tok != token.EOF {
			value = p.parseProjectionExpr()
		}
		base := p.nodeBaseAt(ast.ProjectionReturnExpression, start, p.previousTokenEnd)
		return &ast.ProjectionReturnExpressionNode{NodeBase: base, Value: value}
	}
	return p.parseProjectionLogicalOrExpr()
}

func (p *parser) parseProjectionLogicalOrExpr() ast.Node {
	start := p.pos
	left := p.parseProjectionLogicalAndExpr()
	for p.tok == token.OROR {
		p.next()
		right := p.parseProjectionLogicalAndExpr()
		base := p.nodeBaseAt(ast.ProjectionLogicalExpression, start, p.previousTokenEnd)
		left = &ast.ProjectionLogicalExpressionNode{NodeBase: base, Op: token.OROR, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseProjectionLogicalAndExpr() ast.Node {
	start := p.pos
	left := p.parseProjectionEqualityExpr()
	for p.tok == token.ANDAND {
		p.next()
		right := p.parseProjectionEqualityExpr()
		base := p.nodeBaseAt(ast.ProjectionLogicalExpression, start, p.previousTokenEnd)
		left = &ast.ProjectionLogicalExpressionNode{NodeBase: base, Op: token.ANDAND, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseProjectionEqualityExpr() ast.Node {
	start := p.pos
	left := p.parseProjectionRelationalExpr()
	for p.tok == token.EQEQ || p.tok == token.NEQ {
		op := p.tok
		p.next()
		right := p.parseProjectionRelationalExpr()
		base := p.nodeBaseAt(ast.ProjectionEqualityExpression, start, p.previousTokenEnd)
		left = &ast.ProjectionEqualityExpressionNode{NodeBase: base, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseProjectionRelationalExpr() ast.Node {
	start := p.pos
	left := p.parseProjectionAdditiveExpr()
	for p.tok == token.LANGLE || p.tok == token.LEQ || p.tok == token.RANGLE || p.tok == token.GEQ {
		op := p.tok
		p.next()
		right := p.parseProjectionAdditiveExpr()
		base := p.nodeBaseAt(ast.ProjectionRelationalExpression, start, p.previousTokenEnd)
		left = &ast.ProjectionRelationalExpressionNode{NodeBase: base, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseProjectionAdditiveExpr() ast.Node {
	start := p.pos
	left := p.parseProjectionMultiplicativeExpr()
	for p.tok == token.PLUS || p.tok == token.MINUS {
		op := p.tok
		p.next()
		right := p.parseProjectionMultiplicativeExpr()
		base := p.nodeBaseAt(ast.ProjectionArithmeticExpression, start, p.previousTokenEnd)
		left = &ast.ProjectionArithmeticExpressionNode{NodeBase: base, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseProjectionMultiplicativeExpr() ast.Node {
	start := p.pos
	left := p.parseProjectionUnaryExpr()
	for p.tok == token.STAR || p.tok == token.SLASH {
		op := p.tok
		p.next()
		right := p.parseProjectionUnaryExpr()
		base := p.nodeBaseAt(ast.ProjectionArithmeticExpression, start, p.previousTokenEnd)
		left = &ast.ProjectionArithmeticExpressionNode{NodeBase: base, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseProjectionUnaryExpr() ast.Node {
	if p.tok == token.BANG {
		start := p.pos
		p.next()
		operand := p.parseProjectionUnaryExpr()
		base := p.nodeBaseAt(ast.ProjectionUnaryExpression, start, p.previousTokenEnd)
		return &ast.ProjectionUnaryExpressionNode{NodeBase: base, Op: token.BANG, Operand: operand}
	}
	return p.parseProjectionPostfixExpr()
}

// parseProjectionPostfixExpr parses a primary expression followed by any
// number of `.`/`::` member accesses and `(...)` calls, in the order they
// appear (so `a.b(c).d` chains correctly).
func (p *parser) parseProjectionPostfixExpr() ast.Node {
	start := p.pos
	expr := p.parseProjectionPrimary()
	for {
		switch p.tok {
		case token.DOT, token.COLONCOLON:
			sel := p.tok
			p.next()
			id := p.parseIdentifier()
			base := p.nodeBaseAt(ast.ProjectionMemberExpression, start, p.previousTokenEnd)
			expr = &ast.ProjectionMemberExpressionNode{NodeBase: base, Base: expr, Sel: id, Selector: sel}
		case token.LPAREN:
			args := p.parseList(listCallArguments, func(ast.Prelude) ast.Node {
				return p.parseProjectionExpr()
			})
			base := p.nodeBaseAt(ast.ProjectionCallExpression, start, p.previousTokenEnd)
			expr = &ast.ProjectionCallExpressionNode{NodeBase: base, Callee: expr, Arguments: args}
		default:
			return expr
		}
	}
}

// parseProjectionPrimary parses one primary projection expression: an
// if/else, a tuple or model literal, a decorator reference, a literal, a
// parenthesized-or-lambda form, or an identifier (itself possibly the sole
// parameter of a single-identifier lambda).
func (p *parser) parseProjectionPrimary() ast.Node {
	start := p.pos
	switch p.tok {
	case token.IF:
		return p.parseProjectionIfExpression()
	case token.LBRACK:
		values := p.parseList(listTuple, func(ast.Prelude) ast.Node {
			return p.parseProjectionExpr()
		})
		base := p.nodeBaseAt(ast.ProjectionTupleExpression, start, p.previousTokenEnd)
		return &ast.ProjectionTupleExpressionNode{NodeBase: base, Values: values}
	case token.LBRACE:
		return p.parseProjectionModelExpression()
	case token.AT:
		p.next()
		target := p.parseReferenceBase()
		base := p.nodeBaseAt(ast.ProjectionDecoratorReferenceExpression, start, p.previousTokenEnd)
		return &ast.ProjectionDecoratorReferenceExpressionNode{NodeBase: base, Target: target}
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
	case token.LPAREN:
		return p.parseProjectionParenOrLambda()
	case token.IDENT:
		idPos, idEnd, idLit := p.pos, p.end, p.lit
		p.next()
		if p.tok == token.ARROW {
			p.next()
			id := &ast.IdentifierNode{NodeBase: p.nodeBaseAt(ast.Identifier, idPos, idEnd), Name: idLit}
			param := &ast.ProjectionLambdaParameterNode{NodeBase: p.nodeBaseAt(ast.ProjectionLambdaParameter, idPos, idEnd), ID: id}
			body := p.parseProjectionBlock()
			base := p.nodeBaseAt(ast.ProjectionLambdaExpression, start, p.previousTokenEnd)
			return &ast.ProjectionLambdaExpressionNode{NodeBase: base, Parameters: []*ast.ProjectionLambdaParameterNode{param}, Body: body}
		}
		id := &ast.IdentifierNode{NodeBase: p.nodeBaseAt(ast.Identifier, idPos, idEnd), Name: idLit}
		if ast.IsReservedIdentifier(idLit) {
			p.errorf(idPos, errors.CodeReservedIdentifier, errors.MessageIDUnexpected,
				"%q is a reserved identifier", idLit)
			p.markNodeError(id)
		}
		return id
	default:
		p.errorf(p.pos, errors.CodeTokenExpected, errors.MessageIDUnexpected,
			"expected a projection expression, found %s", p.tok)
		at := start
		if p.tok == token.EOF || isCloseDelimiter(p.tok) {
			at = p.previousTokenEnd
		}
		inv := &ast.InvalidExpressionNode{NodeBase: p.nodeBaseAt(ast.InvalidExpression, at, at)}
		p.markNodeError(inv)
		p.markNodeSynthetic(inv)
		if p.tok != token.EOF && !isCloseDelimiter(p.tok) {
			p.next()
		}
		return inv
	}
}

// parseProjectionIfExpression parses `if test { ... } (else (if ... | {
// ... }))?`.
func (p *parser) parseProjectionIfExpression() *ast.ProjectionIfExpressionNode {
	start := p.pos
	p.expect(token.IF)
	test := p.parseProjectionExpr()
	then := p.parseProjectionBlock()
	var elseNode ast.Node
	if p.accept(token.ELSE) {
		if p.tok == token.IF {
			elseNode = p.parseProjectionIfExpression()
		} else {
			elseNode = p.parseProjectionBlock()
		}
	}
	base := p.nodeBaseAt(ast.ProjectionIfExpression, start, p.previousTokenEnd)
	return &ast.ProjectionIfExpressionNode{NodeBase: base, Test: test, Then: then, Else: elseNode}
}

// parseProjectionModelExpression parses a `{ ... }` inline model literal,
// sharing ModelProperty/ModelSpreadProperty member parsing with the
// primary grammar's model expression.
func (p *parser) parseProjectionModelExpression() *ast.ProjectionModelExpressionNode {
	start := p.pos
	props := p.parseList(listModelProperties, func(prelude ast.Prelude) ast.Node {
		return p.parseModelMember(prelude)
	})
	base := p.nodeBaseAt(ast.ProjectionModelExpression, start, p.previousTokenEnd)
	return &ast.ProjectionModelExpressionNode{NodeBase: base, Properties: props}
}

// parseProjectionParenOrLambda resolves the `(...)`-prefixed ambiguity
// between a parenthesized expression and a lambda parameter list by parsing
// the contents generically and deciding based on what follows: a trailing
// `=>` makes it a lambda (each element must then be a bare identifier); its
// absence makes it a parenthesized expression (or, for more than one
// comma-separated element with no arrow, a reported error recovered as a
// tuple so nothing parsed is silently dropped).
func (p *parser) parseProjectionParenOrLambda() ast.Node {
	start := p.pos
	p.expect(token.LPAREN)
	var items []ast.Node
	if p.tok != token.RPAREN {
		items = append(items, p.parseProjectionExpr())
		for p.accept(token.COMMA) {
			if p.tok == token.RPAREN {
				break
			}
			items = append(items, p.parseProjectionExpr())
		}
	}
	p.expect(token.RPAREN)

	if p.tok == token.ARROW {
		p.next()
		params := make([]*ast.ProjectionLambdaParameterNode, 0, len(items))
		for _, it := range items {
			params = append(params, p.projectionLambdaParamFromExpr(it))
		}
		body := p.parseProjectionBlock()
		base := p.nodeBaseAt(ast.ProjectionLambdaExpression, start, p.previousTokenEnd)
		return &ast.ProjectionLambdaExpressionNode{NodeBase: base, Parameters: params, Body: body}
	}

	switch len(items) {
	case 1:
		return items[0]
	case 0:
		p.errorf(start, errors.CodeTokenExpected, errors.MessageIDUnexpected,
			"empty parentheses are only valid as a lambda parameter list")
		inv := &ast.InvalidExpressionNode{NodeBase: p.nodeBaseAt(ast.InvalidExpression, start, p.previousTokenEnd)}
		p.markNodeError(inv)
		p.markNodeSynthetic(inv)
		return inv
	default:
		p.errorf(items[1].Pos(), errors.CodeTrailingToken, errors.MessageIDUnexpected,
			"unexpected ',' in parenthesized expression")
		base := p.nodeBaseAt(ast.ProjectionTupleExpression, start, p.previousTokenEnd)
		t := &ast.ProjectionTupleExpressionNode{NodeBase: base, Values: items}
		p.markNodeError(t)
		return t
	}
}

// projectionLambdaParamFromExpr converts one comma-separated element parsed
// inside a `(...)` that turned out to be a lambda parameter list into a
// ProjectionLambdaParameterNode, reporting and substituting a synthetic
// identifier if the element wasn't a bare identifier.
func (p *parser) projectionLambdaParamFromExpr(expr ast.Node) *ast.ProjectionLambdaParameterNode {
	if id, ok := expr.(*ast.IdentifierNode); ok {
		return &ast.ProjectionLambdaParameterNode{NodeBase: p.nodeBaseAt(ast.ProjectionLambdaParameter, expr.Pos(), expr.End()), ID: id}
	}
	p.errorf(expr.Pos(), errors.CodeTokenExpected, errors.MessageIDUnexpected,
		"a lambda parameter must be a simple identifier")
	id := p.missingIdentifier(expr.Pos())
	param := &ast.ProjectionLambdaParameterNode{NodeBase: p.nodeBaseAt(ast.ProjectionLambdaParameter, expr.Pos(), expr.End()), ID: id}
	p.markNodeError(param)
	return param
}
