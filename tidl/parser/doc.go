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

const (
	docOpenLen  = 3 // "/**"
	docCloseLen = 2 // "*/"
)

// parseDocCommentBody parses the inner text of a single doc-comment block
// (a BLOCK_COMMENT token flagged token.DocComment) into a *ast.DocNode. It
// scopes the scanner to the comment's inner range via scanner.ScanRange,
// so positions inside the doc tree remain real file offsets.
func (p *parser) parseDocCommentBody(r token.TextRange, lit string) *ast.DocNode {
	from := r.From.Add(docOpenLen)
	to := r.To
	unterminated := len(lit) < docOpenLen+docCloseLen || lit[len(lit)-docCloseLen:] != "*/"
	if !unterminated {
		// An unterminated block comment at EOF keeps end == range.end; only
		// a properly closed comment strips the trailing "*/" from its inner
		// range.
		to = r.To.Add(-docCloseLen)
	}
	if from.Offset() > to.Offset() {
		to = from
	}

	doc := &ast.DocNode{NodeBase: p.nodeBaseAt(ast.Doc, r.From, r.To)}

	savedTok, savedPos, savedEnd, savedLit, savedFlags := p.tok, p.pos, p.end, p.lit, p.flags
	savedPrevEnd := p.previousTokenEnd
	savedMode := p.currentMode
	p.currentMode = modeDoc

	p.scan.ScanRange(token.TextRange{From: from, To: to}, func() {
		p.next()
		doc.Content = p.parseDocContent()
	})

	p.currentMode = savedMode
	p.tok, p.pos, p.end, p.lit, p.flags = savedTok, savedPos, savedEnd, savedLit, savedFlags
	p.previousTokenEnd = savedPrevEnd

	return doc
}

// parseDocContent parses a run of doc-text/tag nodes until EOF (of the
// scoped range).
func (p *parser) parseDocContent() []ast.Node {
	var content []ast.Node
	for p.tok != token.EOF {
		switch p.tok {
		case token.AT:
			content = append(content, p.parseDocTag())
		case token.NEWLINE:
			p.next()
		default:
			if n := p.parseDocTextRun(); n != nil {
				content = append(content, n)
			}
		}
	}
	return content
}

// parseDocTextRun accumulates consecutive DOC_TEXT/IDENT/brace tokens (i.e.
// everything that is not an `@` tag introducer or a newline) into one
// DocTextNode. The scanner strips inter-token whitespace, so the run's text
// is rebuilt from each token's relative-position bits.
func (p *parser) parseDocTextRun() *ast.DocTextNode {
	start := p.pos
	var text string
	end := p.pos
	for p.tok != token.EOF && p.tok != token.AT && p.tok != token.NEWLINE {
		piece := p.lit
		switch p.tok {
		case token.LBRACE:
			piece = "{"
		case token.RBRACE:
			piece = "}"
		}
		if text != "" && p.pos.RelPos() >= token.Blank {
			text += " "
		}
		text += piece
		end = p.end
		p.next()
	}
	if text == "" {
		return nil
	}
	return &ast.DocTextNode{NodeBase: p.nodeBaseAt(ast.DocText, start, end), Text: text}
}

// parseDocTag parses one `@name ...` tag. An unrecognized tag name becomes
// a DocUnknownTagNode rather than a hard error, so downstream tooling can
// still see the tag.
func (p *parser) parseDocTag() ast.Node {
	atPos := p.pos
	p.next() // consume '@'

	if p.tok != token.IDENT {
		p.warnf(p.pos, errors.CodeDocInvalidIdentifier, "expected a tag name after @")
		return &ast.DocUnknownTagNode{NodeBase: p.nodeBaseAt(ast.DocUnknownTag, atPos, p.pos)}
	}
	name := p.lit
	p.next()

	switch name {
	case "param", "template":
		var paramName *ast.IdentifierNode
		if p.tok != token.IDENT {
			p.warnf(p.pos, errors.CodeDocInvalidIdentifier, "expected an identifier after @%s", name)
		} else {
			paramName = &ast.IdentifierNode{NodeBase: p.nodeBaseAt(ast.Identifier, p.pos, p.end), Name: p.lit}
			p.next()
		}
		content := p.parseDocTagContent()
		if name == "param" {
			return &ast.DocParamTagNode{NodeBase: p.nodeBaseAt(ast.DocParamTag, atPos, p.previousTokenEnd), Name: paramName, Content: content}
		}
		return &ast.DocTemplateTagNode{NodeBase: p.nodeBaseAt(ast.DocTemplateTag, atPos, p.previousTokenEnd), Name: paramName, Content: content}
	case "returns":
		content := p.parseDocTagContent()
		return &ast.DocReturnsTagNode{NodeBase: p.nodeBaseAt(ast.DocReturnsTag, atPos, p.previousTokenEnd), Content: content}
	default:
		content := p.parseDocTagContent()
		return &ast.DocUnknownTagNode{NodeBase: p.nodeBaseAt(ast.DocUnknownTag, atPos, p.previousTokenEnd), TagName: name, Content: content}
	}
}

// parseDocTagContent consumes text runs until the next `@` tag or EOF.
func (p *parser) parseDocTagContent() []*ast.DocTextNode {
	var content []*ast.DocTextNode
	for p.tok != token.EOF && p.tok != token.AT {
		if p.tok == token.NEWLINE {
			p.next()
			continue
		}
		if n := p.parseDocTextRun(); n != nil {
			content = append(content, n)
		}
	}
	return content
}
