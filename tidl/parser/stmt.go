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

// parsePrelude collects the annotations preceding a statement or list
// item, always in the same order: doc comments, then directives, then
// decorators. invalidAnnotationTarget, if non-empty, names the kind of list
// item being parsed, so the prelude can still be consumed (keeping the tree
// well-formed) while flagging that an annotation isn't allowed there.
func (p *parser) parsePrelude(invalidAnnotationTarget string) ast.Prelude {
	var prelude ast.Prelude
	for {
		if docs := p.takePendingDocs(); len(docs) > 0 {
			prelude.Docs = append(prelude.Docs, docs...)
		}
		switch p.tok {
		case token.HASH:
			dir := p.parseDirective()
			if invalidAnnotationTarget != "" {
				p.errorf(dir.Pos(), errors.CodeInvalidDirectiveLocation, errors.MessageIDUnexpected,
					"a directive is not valid on a %s", invalidAnnotationTarget)
				p.markNodeError(dir)
			}
			prelude.Directives = append(prelude.Directives, dir)
			continue
		case token.AT:
			dec := p.parseDecorator()
			if invalidAnnotationTarget != "" {
				p.errorf(dec.Pos(), errors.CodeInvalidDecoratorLocation, errors.MessageIDUnexpected,
					"a decorator is not valid on a %s", invalidAnnotationTarget)
				p.markNodeError(dec)
			}
			prelude.Decorators = append(prelude.Decorators, dec)
			continue
		}
		break
	}
	if docs := p.takePendingDocs(); len(docs) > 0 {
		prelude.Docs = append(prelude.Docs, docs...)
	}
	return prelude
}

// parseScript parses an entire source file. The root node spans the whole
// file, including leading and trailing trivia.
func (p *parser) parseScript() *ast.ScriptNode {
	start := p.file.Pos(0, token.NoRelPos)
	end := p.file.Pos(p.file.Size(), token.NoRelPos)
	stmts := p.parseStatementList(true)
	trailingDocs := p.takePendingDocs()

	p.errs.RemoveMultiples()
	diags := make([]ast.Diagnostic, 0, p.errs.Len())
	for _, d := range p.errs {
		diags = append(diags, d)
	}

	return &ast.ScriptNode{
		NodeBase:         p.nodeBaseAt(ast.Script, start, end),
		Statements:       stmts,
		Comments:         p.comments,
		Docs:             trailingDocs,
		ParseDiagnostics: diags,
		Printable:        p.treePrintable,
		ParseOptions:     ast.ParseOptions{Comments: p.opts.Comments, Docs: p.opts.Docs},
		ID:               p.file.Name(),
	}
}

// parseStatementList parses a run of statements terminated either by EOF
// (topLevel) or by an upcoming '}' (a braced block). The ordering rules
// around import/blockless-namespace placement are enforced per call, since
// each braced block is its own scope for "precedes all declarations in
// this list".
func (p *parser) parseStatementList(topLevel bool) []ast.Node {
	var stmts []ast.Node
	sawNonImportDecl := false

	for {
		if p.tok == token.EOF {
			return stmts
		}
		if !topLevel && p.tok == token.RBRACE {
			return stmts
		}

		startOffset := p.pos.Offset()
		prelude := p.parsePrelude("")
		n := p.parseStatement(prelude, topLevel, &sawNonImportDecl)
		if n != nil {
			stmts = append(stmts, n)
		}

		if p.pos.Offset() == startOffset {
			// No progress at all (can happen only via an empty statement
			// dispatch path); force advancement so malformed input can't
			// loop forever.
			if p.tok != token.EOF {
				p.next()
			}
		}
	}
}

// parseStatement dispatches on the current token, enforcing the file-wide
// at-most-one-blockless-namespace invariant and the per-scope
// import/blockless-namespace ordering invariants.
func (p *parser) parseStatement(prelude ast.Prelude, topLevel bool, sawNonImportDecl *bool) ast.Node {
	switch p.tok {
	case token.AT_AT:
		p.reportInvalidAnnotations(prelude, "an augment decorator statement")
		*sawNonImportDecl = true
		return p.parseAugmentDecoratorStatement()

	case token.IMPORT:
		p.reportInvalidAnnotations(prelude, "an import statement")
		if !topLevel {
			p.errorf(p.pos, errors.CodeImportFirst, errors.MessageIDTopLevel,
				"import declarations are only allowed at the top level")
		} else if *sawNonImportDecl {
			p.errorf(p.pos, errors.CodeImportFirst, errors.MessageIDUnexpected,
				"import declarations must precede other declarations")
		}
		return p.parseImportStatement()

	case token.NAMESPACE:
		ns := p.parseNamespaceStatement(prelude)
		if ns.IsBlocklessNamespace() {
			if !topLevel {
				p.errorf(ns.Pos(), errors.CodeBlocklessNamespaceFirst, errors.MessageIDTopLevel,
					"a blockless namespace is only allowed at the top level")
				p.markNodeError(ns)
			}
			if *sawNonImportDecl {
				p.errorf(ns.Pos(), errors.CodeBlocklessNamespaceFirst, errors.MessageIDUnexpected,
					"a blockless namespace must precede all non-import declarations")
				p.markNodeError(ns)
			}
			if p.blocklessNamespaceSeen {
				p.errorf(ns.Pos(), errors.CodeMultipleBlocklessNamespace, errors.MessageIDUnexpected,
					"at most one blockless namespace is allowed per file")
				p.markNodeError(ns)
			}
			p.blocklessNamespaceSeen = true
		} else {
			*sawNonImportDecl = true
		}
		return ns

	case token.MODEL:
		*sawNonImportDecl = true
		return p.parseModelStatement(prelude)
	case token.SCALAR:
		*sawNonImportDecl = true
		return p.parseScalarStatement(prelude)
	case token.INTERFACE:
		*sawNonImportDecl = true
		return p.parseInterfaceStatement(prelude)
	case token.UNION:
		*sawNonImportDecl = true
		return p.parseUnionStatement(prelude)
	case token.OP:
		*sawNonImportDecl = true
		return p.parseOperationStatement(prelude, true)
	case token.ENUM:
		*sawNonImportDecl = true
		return p.parseEnumStatement(prelude)
	case token.ALIAS:
		p.reportInvalidDecorators(prelude, "an alias statement")
		*sawNonImportDecl = true
		return p.parseAliasStatement(prelude)
	case token.USING:
		p.reportInvalidDecorators(prelude, "a using statement")
		*sawNonImportDecl = true
		return p.parseUsingStatement(prelude)
	case token.PROJECTION:
		p.reportInvalidDecorators(prelude, "a projection statement")
		*sawNonImportDecl = true
		return p.parseProjectionStatement(prelude)

	case token.EXTERN, token.FN, token.DEC:
		*sawNonImportDecl = true
		return p.parseModifiedDeclaration(prelude)

	case token.SEMI:
		// Empty statement: consume and produce no node.
		p.reportInvalidDecorators(prelude, "an empty statement")
		p.next()
		return nil

	default:
		*sawNonImportDecl = true
		return p.parseInvalidStatement(prelude)
	}
}

// reportInvalidDecorators flags any decorator in prelude as misplaced on a
// statement form the dispatch table marks "decorators invalid"; docs and
// directives remain legal there.
func (p *parser) reportInvalidDecorators(prelude ast.Prelude, target string) {
	for _, dec := range prelude.Decorators {
		p.errorf(dec.Pos(), errors.CodeInvalidDecoratorLocation, errors.MessageIDUnexpected,
			"a decorator is not valid on %s", target)
		p.markNodeError(dec)
	}
}

// reportInvalidAnnotations additionally flags directives, for the statement
// forms (import, augment decorator) that take neither.
func (p *parser) reportInvalidAnnotations(prelude ast.Prelude, target string) {
	p.reportInvalidDecorators(prelude, target)
	for _, dir := range prelude.Directives {
		p.errorf(dir.Pos(), errors.CodeInvalidDirectiveLocation, errors.MessageIDUnexpected,
			"a directive is not valid on %s", target)
		p.markNodeError(dir)
	}
}

// parseModifiedDeclaration parses an optional `extern` modifier followed by
// `fn` or `dec`.
func (p *parser) parseModifiedDeclaration(prelude ast.Prelude) ast.Node {
	start := preludeStart(prelude, p.pos)
	var mods ast.Modifiers
	for p.tok == token.EXTERN {
		mods |= ast.ModifierExtern
		p.next()
	}
	switch p.tok {
	case token.FN:
		return p.parseFunctionDeclarationStatement(prelude, mods, start)
	case token.DEC:
		return p.parseDecoratorDeclarationStatement(prelude, mods, start)
	default:
		return p.parseInvalidStatement(prelude)
	}
}

// parseInvalidStatement recovers from an unrecognized statement start by
// consuming tokens up to the next statement keyword, '@', ';', or EOF,
// reporting exactly one token-expected{statement} diagnostic for the whole
// span.
func (p *parser) parseInvalidStatement(prelude ast.Prelude) ast.Node {
	start := p.pos
	if len(prelude.Docs)+len(prelude.Directives)+len(prelude.Decorators) > 0 {
		start = preludeStart(prelude, start)
	}
	p.errorf(p.pos, errors.CodeTokenExpected, errors.MessageIDStatement,
		"expected a statement, found %s", p.tok)
	for p.tok != token.EOF && p.tok != token.AT && p.tok != token.AT_AT &&
		!isStatementKeywordToken(p.tok) {
		p.next()
	}
	inv := &ast.InvalidExpressionNode{NodeBase: p.nodeBaseAt(ast.InvalidExpression, start, p.previousTokenEnd)}
	p.markNodeError(inv)
	p.markNodeSynthetic(inv)
	return inv
}

// preludeStart widens a recovery span to cover any annotations that were
// parsed ahead of the bad token, so their text isn't orphaned outside the
// recovered node's range.
func preludeStart(prelude ast.Prelude, fallback token.Pos) token.Pos {
	best := fallback
	for _, d := range prelude.Docs {
		if d.Pos().Offset() < best.Offset() {
			best = d.Pos()
		}
	}
	for _, d := range prelude.Directives {
		if d.Pos().Offset() < best.Offset() {
			best = d.Pos()
		}
	}
	for _, d := range prelude.Decorators {
		if d.Pos().Offset() < best.Offset() {
			best = d.Pos()
		}
	}
	return best
}
