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
	"tidl.org/go/tidl/scanner"
	"tidl.org/go/tidl/token"
)

// scanMode tracks which of the scanner's two tokenizing modes the parser
// is currently pulling from.
type scanMode int

const (
	modeSyntax scanMode = iota
	modeDoc
)

// parser holds all state for parsing a single source file. This state is
// entirely local to one parse; nothing here is process-wide, so
// independent parses of separate files may run concurrently on separate
// *parser values.
type parser struct {
	file *token.File
	scan scanner.Scanner
	errs errors.List
	opts Options

	// current token, refreshed by next().
	tok   token.Token
	pos   token.Pos // start of current token
	end   token.Pos // end of current token
	lit   string
	flags token.TokenFlags

	previousTokenEnd         token.Pos
	realPositionOfLastError  token.Pos
	missingIdentifierCounter int
	treePrintable            bool
	currentMode              scanMode

	// errorBeforeNextFinishedNode is set when a diagnostic is reported and
	// consumed by the next node to finish (see nodeBaseAt), so every parse
	// error leaves ThisNodeHasError on some node in the affected region and
	// the error flag and the printable bit always move together.
	errorBeforeNextFinishedNode bool

	comments    []*ast.CommentGroup
	pendingDocs []*ast.DocNode

	// blocklessNamespaceSeen is file-wide: at most one blockless namespace
	// is allowed per file. The narrower per-scope ordering rules live as a
	// local in parseStatementList.
	blocklessNamespaceSeen bool
}

func (p *parser) init(filename string, code []byte, opts Options) {
	p.file = token.NewFile(filename, len(code))
	p.scan.Init(p.file, code, p.handleScanError)
	p.opts = opts
	p.treePrintable = true
	p.realPositionOfLastError = token.NoPos
	p.currentMode = modeSyntax
	p.next()
	// The first token has no predecessor; anchor missing-token squiggles at
	// the start of the file rather than at NoPos.
	p.previousTokenEnd = p.file.Pos(0, token.NoRelPos)
}

func (p *parser) handleScanError(pos token.Pos, msg string) {
	p.report(pos, "", errors.MessageIDUnexpected, msg)
}

// next advances to the next significant token, silently collecting any
// comment trivia (and, if enabled, parsing doc-comment blocks) encountered
// along the way. The scanner itself never filters comments out (it always
// surfaces COMMENT/BLOCK_COMMENT); it is the parser's job, per component C's
// contract, to decide what to do with them.
func (p *parser) next() {
	p.previousTokenEnd = p.end
	for {
		if p.currentMode == modeDoc {
			p.scan.ScanDoc()
		} else {
			p.scan.Scan()
		}
		tok := p.scan.Token()
		if tok == token.COMMENT || tok == token.BLOCK_COMMENT {
			p.consumeComment(tok)
			continue
		}
		p.tok = tok
		p.pos = p.scan.TokenPosition()
		p.end = p.scan.Position()
		p.lit = p.scan.GetTokenValue()
		p.flags = p.scan.TokenFlags()
		return
	}
}

func (p *parser) consumeComment(tok token.Token) {
	pos, end, lit, flags := p.scan.TokenPosition(), p.scan.Position(), p.scan.GetTokenValue(), p.scan.TokenFlags()
	if p.opts.Comments {
		p.comments = append(p.comments, &ast.CommentGroup{Token: tok, Text: lit, Pos_: pos})
	}
	if tok == token.BLOCK_COMMENT && flags.Has(token.DocComment) && p.opts.Docs {
		doc := p.parseDocCommentBody(token.TextRange{From: pos, To: end}, lit)
		p.pendingDocs = append(p.pendingDocs, doc)
	}
}

// takePendingDocs returns and clears the doc comments accumulated since the
// last call, in source order.
func (p *parser) takePendingDocs() []*ast.DocNode {
	if len(p.pendingDocs) == 0 {
		return nil
	}
	docs := p.pendingDocs
	p.pendingDocs = nil
	return docs
}

// ---------------------------------------------------------------------------
// Diagnostics

// errorf reports a diagnostic at pos, subject to same-real-position
// suppression: consecutive diagnostics at the identical position after the
// first are dropped, so error-recovery token insertion cannot cascade.
func (p *parser) errorf(pos token.Pos, code errors.Code, msgID errors.MessageID, format string, args ...interface{}) {
	p.report(pos, code, msgID, fmtMessage(format, args...))
}

func fmtMessage(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	m := errors.NewMessagef(format, args...)
	return m.Error()
}

func (p *parser) report(pos token.Pos, code errors.Code, msgID errors.MessageID, msg string) {
	if p.realPositionOfLastError.IsValid() && p.realPositionOfLastError.Compare(pos) == 0 {
		return
	}
	p.realPositionOfLastError = pos
	p.errs.AddNewfID(pos, code, msgID, "%s", msg)
	p.errorBeforeNextFinishedNode = true
	p.treePrintable = false
}

// warnf reports a non-fatal diagnostic (severity Warning); it never marks
// a node's ThisNodeHasError and never participates in same-position
// suppression.
func (p *parser) warnf(pos token.Pos, code errors.Code, format string, args ...interface{}) {
	p.errs.AddWarnf(pos, code, "%s", fmtMessage(format, args...))
}

// missingIdentifier fabricates a synthetic identifier at pos (callers pass
// the previous token's end) and advances the shared per-parse counter. The identifier
// absorbs any pending error flag, so the diagnostic that forced its
// creation lands on the node that stands in for the missing source text.
func (p *parser) missingIdentifier(pos token.Pos) *ast.IdentifierNode {
	p.missingIdentifierCounter++
	id := ast.NewMissingIdentifier(pos, p.missingIdentifierCounter)
	if p.errorBeforeNextFinishedNode {
		p.errorBeforeNextFinishedNode = false
		p.markNodeError(id)
	}
	return id
}

// expect consumes the current token if it matches tok, reporting
// token-expected otherwise and synthesizing the position so the squiggle
// lands immediately after the previous token's end rather than underlining
// a long span.
func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorf(p.previousTokenEnd, errors.CodeTokenExpected, errors.MessageIDUnexpected,
			"expected %s, found %s", tok, p.tok)
		return p.previousTokenEnd.WithRel(token.Elided)
	}
	p.next()
	return pos
}

// accept consumes the current token if it matches tok and reports whether
// it did, without emitting a diagnostic on mismatch.
func (p *parser) accept(tok token.Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}
