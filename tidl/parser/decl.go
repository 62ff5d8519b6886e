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

// parseNamespaceStatement parses `namespace A.B.C;` or `namespace A.B.C {
// ... }`. A dotted name is decomposed into a chain of nested
// NamespaceStatement nodes sharing the same source range, with decorators
// attached only to the first-named segment.
func (p *parser) parseNamespaceStatement(prelude ast.Prelude) *ast.NamespaceStatementNode {
	start := preludeStart(prelude, p.pos)
	p.expect(token.NAMESPACE)

	var names []*ast.IdentifierNode
	names = append(names, p.parseIdentifier())
	for p.accept(token.DOT) {
		names = append(names, p.parseIdentifier())
	}

	hasBlock := p.tok == token.LBRACE
	var inner []ast.Node
	if hasBlock {
		p.expect(token.LBRACE)
		inner = p.parseStatementList(false)
		p.expect(token.RBRACE)
	} else {
		p.expect(token.SEMI)
	}
	end := p.previousTokenEnd

	// Build the chain innermost-out. The prelude lands on the outermost
	// (first-named) node and the body's statements on the deepest segment;
	// every segment shares the statement's range and HasBlock bit.
	var node *ast.NamespaceStatementNode
	for i := len(names) - 1; i >= 0; i-- {
		n := &ast.NamespaceStatementNode{
			NodeBase: p.nodeBaseAt(ast.NamespaceStatement, start, end),
			ID:       names[i],
			HasBlock: hasBlock,
		}
		if i == len(names)-1 {
			if hasBlock {
				n.Statements = inner
			}
		} else {
			n.Inner = node
		}
		node = n
	}
	node.Prelude = prelude
	return node
}

// parseImportStatement parses `import "path";`.
func (p *parser) parseImportStatement() *ast.ImportStatementNode {
	start := p.pos
	p.expect(token.IMPORT)
	pathStart := p.pos
	var path *ast.StringLiteralNode
	if p.tok == token.STRING {
		lit := p.lit
		p.next()
		path = &ast.StringLiteralNode{NodeBase: p.nodeBaseAt(ast.StringLiteral, pathStart, p.previousTokenEnd), Value: unquoteLiteral(lit)}
	} else {
		p.errorf(p.previousTokenEnd, errors.CodeTokenExpected, errors.MessageIDUnexpected,
			"expected a string literal import path, found %s", p.tok)
		path = &ast.StringLiteralNode{NodeBase: p.nodeBaseAt(ast.StringLiteral, pathStart, pathStart)}
		p.markNodeSynthetic(path)
	}
	p.expect(token.SEMI)
	base := p.nodeBaseAt(ast.ImportStatement, start, p.previousTokenEnd)
	return &ast.ImportStatementNode{NodeBase: base, Path: path}
}

// parseModelStatement parses `model id templates? (extends expr)? (is
// expr)? ({ props } | ;-after-is)`.
func (p *parser) parseModelStatement(prelude ast.Prelude) *ast.ModelStatementNode {
	start := preludeStart(prelude, p.pos)
	p.expect(token.MODEL)
	id := p.parseIdentifier()
	templates := p.parseTemplateParameters()

	var extends, is ast.Node
	if p.accept(token.EXTENDS) {
		extends = p.parseExpr()
	}
	if p.accept(token.IS) {
		is = p.parseExpr()
		if extends != nil {
			p.errorf(is.Pos(), errors.CodeTokenExpected, errors.MessageIDUnexpected,
				"'extends' and 'is' are mutually exclusive")
		}
	}

	var props []ast.Node
	hasBody := true
	if is != nil && p.tok == token.SEMI {
		p.next()
		hasBody = false
	} else {
		props = p.parseList(listModelProperties, func(prelude ast.Prelude) ast.Node {
			return p.parseModelMember(prelude)
		})
	}

	base := p.nodeBaseAt(ast.ModelStatement, start, p.previousTokenEnd)
	return &ast.ModelStatementNode{
		NodeBase: base, Prelude: prelude, ID: id, Templates: templates,
		Extends: extends, Is: is, Properties: props, HasBody: hasBody,
	}
}

// parseScalarStatement parses `scalar id templates? (extends reference)? ;`.
func (p *parser) parseScalarStatement(prelude ast.Prelude) *ast.ScalarStatementNode {
	start := preludeStart(prelude, p.pos)
	p.expect(token.SCALAR)
	id := p.parseIdentifier()
	templates := p.parseTemplateParameters()
	var extends ast.Node
	if p.accept(token.EXTENDS) {
		extends = p.parseExpr()
	}
	p.expect(token.SEMI)
	base := p.nodeBaseAt(ast.ScalarStatement, start, p.previousTokenEnd)
	return &ast.ScalarStatementNode{NodeBase: base, Prelude: prelude, ID: id, Templates: templates, Extends: extends}
}

// parseInterfaceStatement parses `interface id templates? (extends
// refs...)? { op-members }`.
func (p *parser) parseInterfaceStatement(prelude ast.Prelude) *ast.InterfaceStatementNode {
	start := preludeStart(prelude, p.pos)
	p.expect(token.INTERFACE)
	id := p.parseIdentifier()
	templates := p.parseTemplateParameters()

	var extends []ast.Node
	if p.accept(token.EXTENDS) {
		extends = append(extends, p.parseExpr())
		for p.accept(token.COMMA) {
			extends = append(extends, p.parseExpr())
		}
	}

	members := p.parseList(listInterfaceMembers, func(prelude ast.Prelude) ast.Node {
		return p.parseOperationStatement(prelude, false)
	})

	base := p.nodeBaseAt(ast.InterfaceStatement, start, p.previousTokenEnd)
	return &ast.InterfaceStatementNode{
		NodeBase: base, Prelude: prelude, ID: id, Templates: templates, Extends: extends, Members: members,
	}
}

// parseUnionStatement parses `union id templates? { variants }`.
func (p *parser) parseUnionStatement(prelude ast.Prelude) *ast.UnionStatementNode {
	start := preludeStart(prelude, p.pos)
	p.expect(token.UNION)
	id := p.parseIdentifier()
	templates := p.parseTemplateParameters()

	nodes := p.parseList(listUnionVariants, func(prelude ast.Prelude) ast.Node {
		return p.parseUnionVariant(prelude)
	})
	variants := make([]*ast.UnionVariantNode, 0, len(nodes))
	for _, n := range nodes {
		if v, ok := n.(*ast.UnionVariantNode); ok {
			variants = append(variants, v)
		}
	}

	base := p.nodeBaseAt(ast.UnionStatement, start, p.previousTokenEnd)
	return &ast.UnionStatementNode{NodeBase: base, Prelude: prelude, ID: id, Templates: templates, Variants: variants}
}

// parseUnionVariant parses `name: Type` or a bare `Type` (unnamed variant).
// Since the scanner offers only one token of lookahead, an identifier is
// consumed first and the decision between the two forms is made on
// whatever follows it; the bare-type path resumes the full expression
// grammar from the already-consumed identifier via continueExprFromIdentifier.
func (p *parser) parseUnionVariant(prelude ast.Prelude) ast.Node {
	start := preludeStart(prelude, p.pos)
	if p.tok == token.IDENT {
		idPos, idEnd, idLit := p.pos, p.end, p.lit
		p.next()
		id := &ast.IdentifierNode{NodeBase: p.nodeBaseAt(ast.Identifier, idPos, idEnd), Name: idLit}
		if ast.IsReservedIdentifier(idLit) {
			p.errorf(idPos, errors.CodeReservedIdentifier, errors.MessageIDUnexpected,
				"%q is a reserved identifier", idLit)
			p.markNodeError(id)
		}
		if p.tok == token.COLON {
			p.next()
			typ := p.parseExpr()
			base := p.nodeBaseAt(ast.UnionVariant, start, p.previousTokenEnd)
			return &ast.UnionVariantNode{NodeBase: base, Prelude: prelude, ID: id, Type: typ}
		}
		typ := p.continueExprFromIdentifier(idPos, id)
		base := p.nodeBaseAt(ast.UnionVariant, start, p.previousTokenEnd)
		return &ast.UnionVariantNode{NodeBase: base, Prelude: prelude, ID: nil, Type: typ}
	}
	typ := p.parseExpr()
	base := p.nodeBaseAt(ast.UnionVariant, start, p.previousTokenEnd)
	return &ast.UnionVariantNode{NodeBase: base, Prelude: prelude, ID: nil, Type: typ}
}

// parseOperationStatement parses `op id templates? (( params ) : returnType
// | is reference)`. statementLevel controls the two context differences: at
// statement level the `op` keyword and the terminating `;` are both
// mandatory, while inside an interface the keyword is merely tolerated and
// the `;` belongs to the member list's delimiter (so a missing one is
// reported once, by the list driver, not twice).
func (p *parser) parseOperationStatement(prelude ast.Prelude, statementLevel bool) *ast.OperationStatementNode {
	start := preludeStart(prelude, p.pos)
	if p.tok == token.OP {
		p.next()
	} else if statementLevel {
		p.errorf(p.previousTokenEnd, errors.CodeTokenExpected, errors.MessageIDUnexpected,
			"expected 'op', found %s", p.tok)
	}
	id := p.parseIdentifier()
	templates := p.parseTemplateParameters()

	var signature ast.Node
	if p.accept(token.IS) {
		sigStart := p.pos
		base := p.parseExpr()
		signature = &ast.OperationSignatureReferenceNode{
			NodeBase:      p.nodeBaseAt(ast.OperationSignatureReference, sigStart, p.previousTokenEnd),
			BaseOperation: base,
		}
	} else {
		sigStart := p.pos
		// Operation parameters are model properties, not function
		// parameters: `op read(id: string, ...Pageable): Page` declares an
		// anonymous parameter model, spreads included.
		params := p.parseList(listOperationParameters, func(prelude ast.Prelude) ast.Node {
			return p.parseModelMember(prelude)
		})
		p.expect(token.COLON)
		ret := p.parseExpr()
		signature = &ast.OperationSignatureDeclarationNode{
			NodeBase:   p.nodeBaseAt(ast.OperationSignatureDeclaration, sigStart, p.previousTokenEnd),
			Parameters: params,
			ReturnType: ret,
		}
	}
	if statementLevel {
		p.expect(token.SEMI)
	}

	base := p.nodeBaseAt(ast.OperationStatement, start, p.previousTokenEnd)
	return &ast.OperationStatementNode{NodeBase: base, Prelude: prelude, ID: id, Templates: templates, Signature: signature}
}

// parseFunctionParameterList parses `( params )`, validating the ordering
// rules: a `rest` parameter is implicitly non-optional and must be last,
// and all optional parameters must follow all required ones.
func (p *parser) parseFunctionParameterList() []*ast.FunctionParameterNode {
	nodes := p.parseList(listFunctionParameters, func(prelude ast.Prelude) ast.Node {
		return p.parseFunctionParameter(prelude)
	})
	params := make([]*ast.FunctionParameterNode, 0, len(nodes))
	for _, n := range nodes {
		if fp, ok := n.(*ast.FunctionParameterNode); ok {
			params = append(params, fp)
		}
	}
	p.validateParameterOrder(params)
	return params
}

func (p *parser) validateParameterOrder(params []*ast.FunctionParameterNode) {
	sawOptional := false
	for i, param := range params {
		if param.Rest {
			if param.Optional {
				p.errorf(param.Pos(), errors.CodeRestParameterRequired, errors.MessageIDUnexpected,
					"a rest parameter may not be marked optional")
				p.markNodeError(param)
			}
			if i != len(params)-1 {
				p.errorf(param.Pos(), errors.CodeRestParameterLast, errors.MessageIDUnexpected,
					"a rest parameter must be the last parameter")
				p.markNodeError(param)
			}
			continue
		}
		if param.Optional {
			sawOptional = true
			continue
		}
		if sawOptional {
			p.errorf(param.Pos(), errors.CodeRequiredParameterFirst, errors.MessageIDUnexpected,
				"a required parameter may not follow an optional parameter")
			p.markNodeError(param)
		}
	}
}

// parseFunctionParameter parses one `...?id ?: Type (= Default)?` parameter.
func (p *parser) parseFunctionParameter(prelude ast.Prelude) ast.Node {
	start := preludeStart(prelude, p.pos)
	rest := p.accept(token.ELLIPSIS)
	id := p.parseIdentifier()
	optional := p.accept(token.QUESTION)
	var typ, def ast.Node
	if p.accept(token.COLON) {
		typ = p.parseExpr()
	}
	if p.accept(token.EQUALS) {
		def = p.parseExpr()
	}
	base := p.nodeBaseAt(ast.FunctionParameter, start, p.previousTokenEnd)
	return &ast.FunctionParameterNode{
		NodeBase: base, Prelude: prelude, ID: id, Optional: optional, Rest: rest, Type: typ, Default: def,
	}
}

// parseEnumStatement parses `enum id { members }`.
func (p *parser) parseEnumStatement(prelude ast.Prelude) *ast.EnumStatementNode {
	start := preludeStart(prelude, p.pos)
	p.expect(token.ENUM)
	id := p.parseIdentifier()
	members := p.parseList(listEnumMembers, func(prelude ast.Prelude) ast.Node {
		return p.parseEnumMember(prelude)
	})
	base := p.nodeBaseAt(ast.EnumStatement, start, p.previousTokenEnd)
	return &ast.EnumStatementNode{NodeBase: base, Prelude: prelude, ID: id, Members: members}
}

// parseEnumMember parses `name` or `name : literal` (spread members use
// `...Expr`); a non-literal value is reported as a token-expected error but
// kept in the tree so later passes can still run.
func (p *parser) parseEnumMember(prelude ast.Prelude) ast.Node {
	start := preludeStart(prelude, p.pos)
	if p.tok == token.ELLIPSIS {
		p.next()
		target := p.parseExpr()
		base := p.nodeBaseAt(ast.EnumSpreadMember, start, p.previousTokenEnd)
		return &ast.EnumSpreadMemberNode{NodeBase: base, Target: target}
	}
	id := p.parseIdentifier()
	if id.Pos().Compare(start) < 0 {
		// A missing identifier sits at the previous token's end.
		start = id.Pos()
	}
	var value ast.Node
	if p.accept(token.COLON) {
		value = p.parseExpr()
		switch value.(type) {
		case *ast.StringLiteralNode, *ast.NumericLiteralNode:
		default:
			p.errorf(value.Pos(), errors.CodeTokenExpected, errors.MessageIDUnexpected,
				"an enum member value must be a string or numeric literal")
		}
	}
	base := p.nodeBaseAt(ast.EnumMember, start, p.previousTokenEnd)
	return &ast.EnumMemberNode{NodeBase: base, Prelude: prelude, ID: id, Value: value}
}

// parseAliasStatement parses `alias id templates? = expr ;`.
func (p *parser) parseAliasStatement(prelude ast.Prelude) *ast.AliasStatementNode {
	start := preludeStart(prelude, p.pos)
	p.expect(token.ALIAS)
	id := p.parseIdentifier()
	templates := p.parseTemplateParameters()
	p.expect(token.EQUALS)
	value := p.parseExpr()
	p.expect(token.SEMI)
	base := p.nodeBaseAt(ast.AliasStatement, start, p.previousTokenEnd)
	return &ast.AliasStatementNode{NodeBase: base, Prelude: prelude, ID: id, Templates: templates, Value: value}
}

// parseUsingStatement parses `using A.B.C;`.
func (p *parser) parseUsingStatement(prelude ast.Prelude) *ast.UsingStatementNode {
	start := preludeStart(prelude, p.pos)
	p.expect(token.USING)
	name := p.parseReferenceBase()
	p.expect(token.SEMI)
	base := p.nodeBaseAt(ast.UsingStatement, start, p.previousTokenEnd)
	return &ast.UsingStatementNode{NodeBase: base, Prelude: prelude, Name: name}
}

// parseDecoratorDeclarationStatement parses `extern? dec id(params);`. It
// requires at least one parameter (the decorator's target, which may not
// itself be optional).
func (p *parser) parseDecoratorDeclarationStatement(prelude ast.Prelude, mods ast.Modifiers, start token.Pos) *ast.DecoratorDeclarationStatementNode {
	p.expect(token.DEC)
	id := p.parseIdentifier()
	params := p.parseFunctionParameterList()
	p.expect(token.SEMI)

	base := p.nodeBaseAt(ast.DecoratorDeclarationStatement, start, p.previousTokenEnd)
	n := &ast.DecoratorDeclarationStatementNode{NodeBase: base, Prelude: prelude, Modifiers: mods, ID: id, Parameters: params}
	if len(params) == 0 {
		p.errorf(id.Pos(), errors.CodeDecoratorDeclTarget, errors.MessageIDUnexpected,
			"a decorator declaration requires at least one parameter naming its target")
		p.markNodeError(n)
	} else if params[0].Optional {
		p.errorf(params[0].Pos(), errors.CodeDecoratorDeclTarget, errors.MessageIDUnexpected,
			"a decorator's target parameter may not be optional")
		p.markNodeError(n)
	}
	return n
}

// parseFunctionDeclarationStatement parses `extern? fn id(params) (:
// ReturnType)? ;`.
func (p *parser) parseFunctionDeclarationStatement(prelude ast.Prelude, mods ast.Modifiers, start token.Pos) *ast.FunctionDeclarationStatementNode {
	p.expect(token.FN)
	id := p.parseIdentifier()
	params := p.parseFunctionParameterList()
	var ret ast.Node
	if p.accept(token.COLON) {
		ret = p.parseExpr()
	}
	p.expect(token.SEMI)
	base := p.nodeBaseAt(ast.FunctionDeclarationStatement, start, p.previousTokenEnd)
	return &ast.FunctionDeclarationStatementNode{
		NodeBase: base, Prelude: prelude, Modifiers: mods, ID: id, Parameters: params, ReturnType: ret,
	}
}

// parseProjectionStatement parses `projection selector # id { to {...}? from
// {...}? }`. Up to two inner directional projections are
// permitted; a second one in the same direction is a duplicate-symbol error.
func (p *parser) parseProjectionStatement(prelude ast.Prelude) *ast.ProjectionStatementNode {
	start := preludeStart(prelude, p.pos)
	p.expect(token.PROJECTION)
	selector := p.parseProjectionSelector()
	p.expect(token.HASH)
	id := p.parseIdentifier()

	p.expect(token.LBRACE)
	var to, from *ast.ProjectionNode
	for p.tok == token.IDENT && (p.lit == "to" || p.lit == "from") {
		direction := p.lit
		proj := p.parseProjectionDirection(direction)
		if direction == "to" {
			if to != nil {
				p.errorf(proj.Pos(), errors.CodeDuplicateSymbol, errors.MessageIDUnexpected,
					"duplicate 'to' projection")
				p.markNodeError(proj)
			}
			to = proj
		} else {
			if from != nil {
				p.errorf(proj.Pos(), errors.CodeDuplicateSymbol, errors.MessageIDUnexpected,
					"duplicate 'from' projection")
				p.markNodeError(proj)
			}
			from = proj
		}
	}
	p.expect(token.RBRACE)

	base := p.nodeBaseAt(ast.ProjectionStatement, start, p.previousTokenEnd)
	return &ast.ProjectionStatementNode{NodeBase: base, Prelude: prelude, Selector: selector, ID: id, To: to, From: from}
}

func (p *parser) parseProjectionSelector() *ast.ProjectionSelectorNode {
	start := p.pos
	var kind ast.ProjectionSelectorKind
	switch p.tok {
	case token.MODEL:
		kind = ast.ProjectionSelectorModel
		p.next()
	case token.OP:
		kind = ast.ProjectionSelectorOperation
		p.next()
	case token.INTERFACE:
		kind = ast.ProjectionSelectorInterface
		p.next()
	case token.UNION:
		kind = ast.ProjectionSelectorUnion
		p.next()
	case token.ENUM:
		kind = ast.ProjectionSelectorEnum
		p.next()
	default:
		expr := p.parseReferenceBase()
		base := p.nodeBaseAt(ast.ProjectionSelector, start, p.previousTokenEnd)
		return &ast.ProjectionSelectorNode{NodeBase: base, SelectorKind: ast.ProjectionSelectorExpression, Expr: expr}
	}
	base := p.nodeBaseAt(ast.ProjectionSelector, start, p.previousTokenEnd)
	return &ast.ProjectionSelectorNode{NodeBase: base, SelectorKind: kind}
}

func (p *parser) parseProjectionDirection(direction string) *ast.ProjectionNode {
	start := p.pos
	p.next() // consume 'to'/'from' identifier

	var params []*ast.ProjectionParameterDeclarationNode
	if p.tok == token.LPAREN {
		nodes := p.parseList(listProjectionParameter, func(ast.Prelude) ast.Node {
			return p.parseProjectionParameter()
		})
		for _, n := range nodes {
			if pp, ok := n.(*ast.ProjectionParameterDeclarationNode); ok {
				params = append(params, pp)
			}
		}
	}
	body := p.parseProjectionBlock()
	base := p.nodeBaseAt(ast.Projection, start, p.previousTokenEnd)
	return &ast.ProjectionNode{NodeBase: base, Direction: direction, Parameters: params, Body: body}
}

func (p *parser) parseProjectionParameter() ast.Node {
	start := p.pos
	id := p.parseIdentifier()
	base := p.nodeBaseAt(ast.ProjectionParameterDeclaration, start, p.previousTokenEnd)
	return &ast.ProjectionParameterDeclarationNode{NodeBase: base, ID: id}
}
