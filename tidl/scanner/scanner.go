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

// Package scanner implements the tokenizer for source text. It takes a
// []byte as source, tokenized through repeated calls to Scan (syntax mode)
// or ScanDoc (doc-comment mode). It never aborts: for every input it scans
// to EOF, reporting errors through an optional handler.
package scanner

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"tidl.org/go/tidl/token"
)

// ErrorHandler is invoked by the scanner for each low-level lexical error
// (illegal characters, unterminated literals). The parser's handler folds
// these into its own diagnostic list.
type ErrorHandler func(pos token.Pos, msg string)

const bom = 0xFEFF

// Scanner holds the scanner's state while tokenizing a single file. It
// must be initialized with Init before use. The scanner is a single
// mutable cursor with lookahead of one token; callers that need more
// context inspect the current token's flags.
type Scanner struct {
	file *token.File
	src  []byte
	err  ErrorHandler

	ch       rune
	offset   int
	rdOffset int

	linesSinceLast  int
	spacesSinceLast int

	// newlineSignificant, when true, causes Scan to return NEWLINE tokens
	// instead of silently treating them as trivia. The parser sets this
	// while parsing directive arguments.
	newlineSignificant bool

	// current token, populated by Scan/ScanDoc.
	tok    token.Token
	tokPos token.Pos
	pos    token.Pos // end of current token
	lit    string
	flags  token.TokenFlags

	// rangeEnd bounds scanning to len(src) normally, or to a sub-range's
	// end while inside ScanRange (used to scan a doc comment's inner text
	// without running on into the source that follows it).
	rangeEnd int

	ErrorCount int
}

// Init prepares s to tokenize src, using file for position bookkeeping. It
// panics if file's size does not match len(src).
func (s *Scanner) Init(file *token.File, src []byte, err ErrorHandler) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	s.file = file
	s.src = src
	s.err = err
	s.ch = ' '
	s.offset = 0
	s.rdOffset = 0
	s.newlineSignificant = false
	s.ErrorCount = 0
	s.rangeEnd = len(src)

	s.next()
	if s.ch == bom {
		s.next()
	}
}

// File returns the file the scanner was initialized with.
func (s *Scanner) File() *token.File { return s.file }

// Token returns the kind of the current token.
func (s *Scanner) Token() token.Token { return s.tok }

// TokenPosition returns the start position of the current token.
func (s *Scanner) TokenPosition() token.Pos { return s.tokPos }

// Position returns the end position of the current token.
func (s *Scanner) Position() token.Pos { return s.pos }

// TokenFlags returns the flag bits of the current token.
func (s *Scanner) TokenFlags() token.TokenFlags { return s.flags }

// GetTokenValue returns the literal text of the current token.
func (s *Scanner) GetTokenValue() string { return s.lit }

// SetNewlineSignificant toggles whether Scan returns NEWLINE tokens
// (true) or treats newlines purely as trivia (false, the default). The
// parser flips this on while parsing directive arguments.
func (s *Scanner) SetNewlineSignificant(v bool) { s.newlineSignificant = v }

func (s *Scanner) next() {
	if s.rdOffset < s.rangeEnd {
		s.offset = s.rdOffset
		if s.ch == '\n' {
			s.file.AddLine(s.offset)
		}
		r, w := rune(s.src[s.rdOffset]), 1
		switch {
		case r == 0:
			s.error(s.offset, "illegal character NUL")
		case r >= utf8.RuneSelf:
			r, w = utf8.DecodeRune(s.src[s.rdOffset:])
			if r == utf8.RuneError && w == 1 {
				s.error(s.offset, "illegal UTF-8 encoding")
			} else if r == bom && s.offset > 0 {
				s.error(s.offset, "illegal byte order mark")
			}
		}
		s.rdOffset += w
		s.ch = r
	} else {
		s.offset = s.rangeEnd
		if s.ch == '\n' {
			s.file.AddLine(s.offset)
		}
		s.ch = -1
	}
}

func (s *Scanner) error(offs int, msg string) {
	if s.err != nil {
		s.err(s.file.Pos(offs, 0), msg)
	}
	s.ErrorCount++
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9' || ch >= utf8.RuneSelf && unicode.IsDigit(ch)
}

func (s *Scanner) scanIdentifier() string {
	offs := s.offset
	for isLetter(s.ch) || isDigit(s.ch) {
		s.next()
	}
	return string(s.src[offs:s.offset])
}

func (s *Scanner) scanNumber() string {
	offs := s.offset
	for isDigit(s.ch) {
		s.next()
	}
	if s.ch == '.' {
		if p := s.offset + 1; !(p < len(s.src) && s.src[p] == '.') {
			s.next()
			for isDigit(s.ch) {
				s.next()
			}
		}
	}
	if s.ch == 'e' || s.ch == 'E' {
		s.next()
		if s.ch == '+' || s.ch == '-' {
			s.next()
		}
		for isDigit(s.ch) {
			s.next()
		}
	}
	return string(s.src[offs:s.offset])
}

func (s *Scanner) scanEscape(quote rune) {
	switch s.ch {
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '\\', quote:
		s.next()
	case 'u':
		s.next()
		for i := 0; i < 4 && isHex(s.ch); i++ {
			s.next()
		}
	default:
		if s.ch < 0 {
			s.error(s.offset, "escape sequence not terminated")
			return
		}
		s.error(s.offset, fmt.Sprintf("unknown escape sequence %#U", s.ch))
		s.next()
	}
}

func isHex(ch rune) bool {
	return '0' <= ch && ch <= '9' || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func (s *Scanner) scanString(quote rune) (tok token.Token, lit string, flags token.TokenFlags) {
	offs := s.offset - 1
	tok = token.STRING
	for {
		ch := s.ch
		if ch == '\n' || ch < 0 {
			s.error(offs, "string literal not terminated")
			flags |= token.Unterminated
			break
		}
		s.next()
		if ch == quote {
			break
		}
		if ch == '\\' {
			s.scanEscape(quote)
		}
	}
	return tok, string(s.src[offs:s.offset]), flags
}

// scanLineComment is entered with both leading slashes consumed.
func (s *Scanner) scanLineComment() string {
	offs := s.offset - 2
	for s.ch != '\n' && s.ch >= 0 {
		s.next()
	}
	return string(s.src[offs:s.offset])
}

// scanBlockComment is entered with "/*" consumed; a third '*' immediately
// after marks the comment as a doc comment.
func (s *Scanner) scanBlockComment() (lit string, flags token.TokenFlags) {
	offs := s.offset - 2
	doc := s.ch == '*'
	for s.ch >= 0 {
		ch := s.ch
		s.next()
		if ch == '*' && s.ch == '/' {
			s.next()
			if doc {
				flags |= token.DocComment
			}
			return string(s.src[offs:s.offset]), flags
		}
	}
	s.error(offs, "comment not terminated")
	flags |= token.Unterminated
	if doc {
		flags |= token.DocComment
	}
	return string(s.src[offs:s.offset]), flags
}

func (s *Scanner) peek() rune {
	if s.rdOffset < s.rangeEnd {
		return rune(s.src[s.rdOffset])
	}
	return -1
}

func (s *Scanner) switch2(tok0, tok1 token.Token) token.Token {
	if s.ch == '=' {
		s.next()
		return tok1
	}
	return tok0
}

// Scan advances the scanner by one syntax-mode token and records it as the
// current token, retrievable via Token/TokenPosition/Position/GetTokenValue/
// TokenFlags.
func (s *Scanner) Scan() {
	s.scanInto(false)
}

// ScanDoc advances the scanner by one doc-mode token: identifiers and `@`
// introduce tag structure, NEWLINE is always significant, and any other run
// of characters is returned as a single DOC_TEXT token.
func (s *Scanner) ScanDoc() {
	s.scanInto(true)
}

// ScanRange scopes a sub-range of the file (typically a doc-comment's inner
// text) for fn to scan with ScanDoc, then restores the scanner's position
// to continue syntax-mode scanning where it left off. Both the scanner's
// cursor and the newline-significance mode are saved and restored on all
// exit paths, including if fn panics.
func (s *Scanner) ScanRange(r token.TextRange, fn func()) {
	savedCh, savedOffset, savedRdOffset := s.ch, s.offset, s.rdOffset
	savedSignificant := s.newlineSignificant
	savedRangeEnd := s.rangeEnd
	savedTok, savedTokPos, savedPos, savedLit, savedFlags := s.tok, s.tokPos, s.pos, s.lit, s.flags

	defer func() {
		s.ch, s.offset, s.rdOffset = savedCh, savedOffset, savedRdOffset
		s.newlineSignificant = savedSignificant
		s.rangeEnd = savedRangeEnd
		s.tok, s.tokPos, s.pos, s.lit, s.flags = savedTok, savedTokPos, savedPos, savedLit, savedFlags
	}()

	s.offset = r.From.Offset()
	s.rdOffset = s.offset
	s.rangeEnd = r.To.Offset()
	s.ch = ' '
	s.next()
	fn()
}

func (s *Scanner) scanInto(doc bool) {
	if s.offset >= s.rangeEnd {
		s.tokPos = s.file.Pos(s.offset, token.NoRelPos)
		s.tok, s.lit, s.flags = token.EOF, "", 0
		s.pos = s.tokPos
		return
	}

	var rel token.RelPos
	switch {
	case s.linesSinceLast > 1:
		rel = token.NewSection
	case s.linesSinceLast == 1:
		rel = token.Newline
	case s.spacesSinceLast > 0:
		rel = token.Blank
	default:
		rel = token.NoSpace
	}

	if doc {
		s.scanDocToken(rel)
		return
	}
	s.scanSyntaxToken(rel)
}

func (s *Scanner) scanSyntaxToken(rel token.RelPos) {
	s.skipSpacesAndTabs()
	rel = s.recomputeRel(rel)

	offset := s.offset
	s.tokPos = s.file.Pos(offset, rel)
	s.flags = 0

	var tok token.Token
	var lit string

	switch ch := s.ch; {
	case ch == '\n':
		s.next()
		if s.newlineSignificant {
			tok = token.NEWLINE
		} else {
			s.linesSinceLast++
			s.scanSyntaxToken(rel)
			return
		}
	case isLetter(ch):
		lit = s.scanIdentifier()
		tok = token.Lookup(lit)
	case isDigit(ch):
		tok, lit = token.NUMBER, s.scanNumber()
	default:
		s.next()
		switch ch {
		case -1:
			tok = token.EOF
		case '"', '\'':
			tok, lit, s.flags = s.scanString(ch)
		case '{':
			tok = token.LBRACE
		case '}':
			tok = token.RBRACE
		case '(':
			tok = token.LPAREN
		case ')':
			tok = token.RPAREN
		case '[':
			tok = token.LBRACK
		case ']':
			tok = token.RBRACK
		case ',':
			tok = token.COMMA
		case ';':
			tok = token.SEMI
		case ':':
			if s.ch == ':' {
				s.next()
				tok = token.COLONCOLON
			} else {
				tok = token.COLON
			}
		case '=':
			if s.ch == '>' {
				s.next()
				tok = token.ARROW
			} else {
				tok = s.switch2(token.EQUALS, token.EQEQ)
			}
		case '.':
			if s.ch == '.' && s.peek() == '.' {
				s.next()
				s.next()
				tok = token.ELLIPSIS
			} else {
				tok = token.DOT
			}
		case '?':
			tok = token.QUESTION
		case '|':
			if s.ch == '|' {
				s.next()
				tok = token.OROR
			} else {
				tok = token.BAR
			}
		case '&':
			if s.ch == '&' {
				s.next()
				tok = token.ANDAND
			} else {
				tok = token.AMP
			}
		case '@':
			if s.ch == '@' {
				s.next()
				tok = token.AT_AT
			} else {
				tok = token.AT
			}
		case '#':
			tok = token.HASH
		case '<':
			tok = s.switch2(token.LANGLE, token.LEQ)
		case '>':
			tok = s.switch2(token.RANGLE, token.GEQ)
		case '!':
			tok = s.switch2(token.BANG, token.NEQ)
		case '+':
			tok = token.PLUS
		case '-':
			tok = token.MINUS
		case '*':
			tok = token.STAR
		case '/':
			switch s.ch {
			case '/':
				s.next()
				tok, lit = token.COMMENT, s.scanLineComment()
			case '*':
				s.next()
				tok = token.BLOCK_COMMENT
				lit, s.flags = s.scanBlockComment()
			default:
				tok = token.SLASH
			}
		default:
			if ch != bom {
				s.error(s.file.Offset(s.tokPos), fmt.Sprintf("illegal character %#U", ch))
			}
			tok = token.ILLEGAL
			lit = string(ch)
		}
	}

	s.tok, s.lit = tok, lit
	s.pos = s.file.Pos(s.offset, 0)
	s.linesSinceLast, s.spacesSinceLast = 0, 0
}

// scanDocToken implements doc-mode scanning: an '@' begins tag syntax, a
// run of letters/digits is an IDENT (a tag or parameter name), a newline is
// always significant, and everything else accumulates into a DOC_TEXT run
// until one of those boundaries.
func (s *Scanner) scanDocToken(rel token.RelPos) {
	s.skipSpacesAndTabs()
	rel = s.recomputeRel(rel)

	offset := s.offset
	s.tokPos = s.file.Pos(offset, rel)
	s.flags = 0

	var tok token.Token
	var lit string

	switch ch := s.ch; {
	case ch < 0:
		tok = token.EOF
	case ch == '\n':
		s.next()
		tok = token.NEWLINE
	case ch == '@':
		s.next()
		tok = token.AT
	case ch == '{' || ch == '}':
		s.next()
		if ch == '{' {
			tok = token.LBRACE
		} else {
			tok = token.RBRACE
		}
	case isLetter(ch):
		lit = s.scanIdentifier()
		tok = token.IDENT
	default:
		offs := s.offset
		for s.ch >= 0 && s.ch != '\n' && s.ch != '@' && !isLetter(s.ch) {
			s.next()
		}
		tok, lit = token.DOC_TEXT, string(s.src[offs:s.offset])
	}

	s.tok, s.lit = tok, lit
	s.pos = s.file.Pos(s.offset, 0)
	s.linesSinceLast, s.spacesSinceLast = 0, 0
}

func (s *Scanner) skipSpacesAndTabs() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\r' {
		if s.ch == ' ' || s.ch == '\t' {
			s.spacesSinceLast++
		}
		s.next()
	}
}

func (s *Scanner) recomputeRel(rel token.RelPos) token.RelPos {
	switch {
	case s.linesSinceLast > 1:
		return token.NewSection
	case s.linesSinceLast == 1:
		return token.Newline
	case s.spacesSinceLast > 0:
		return token.Blank
	}
	return rel
}
