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

// Package errors defines the diagnostic sink shared by the scanner and
// parser: typed report objects with severity, location, and a message
// catalog code.
package errors

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"tidl.org/go/tidl/token"
)

// Severity classifies a diagnostic. Warnings never set a node's
// ThisNodeHasError flag or clear the script-wide printable bit.
type Severity int

const (
	Error Severity = iota
	Warning
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Message implements the error interface and carries a printf-style format
// plus its arguments, so callers can localize or restructure messages
// later.
type Message struct {
	format string
	args   []interface{}
}

// NewMessagef creates a deferred, printf-style error message.
func NewMessagef(format string, args ...interface{}) Message {
	return Message{format: format, args: args}
}

func (m *Message) Msg() (format string, args []interface{}) { return m.format, m.args }
func (m *Message) Error() string                             { return fmt.Sprintf(m.format, m.args...) }

// Diagnostic is the common diagnostic interface produced by the scanner and
// parser.
type Diagnostic interface {
	// Position returns the diagnostic's primary source position.
	Position() token.Pos
	// Code returns the message-catalog code (see codes.go), or "" for
	// diagnostics that predate code classification.
	Code() Code
	// MessageID returns the code's sub-variant (e.g. "statement" for
	// token-expected{statement}), or "" for codes with a single wording.
	MessageID() MessageID
	// Severity reports whether this is an error or a warning.
	Severity() Severity
	// Error reports the error message without position information.
	Error() string
	// Msg returns the unformatted message and its arguments.
	Msg() (format string, args []interface{})
}

// Newf creates a Diagnostic with the given position, code, and message.
func Newf(p token.Pos, code Code, format string, args ...interface{}) Diagnostic {
	return NewfID(p, code, "", format, args...)
}

// NewfID creates a Diagnostic that additionally carries a message-catalog
// sub-variant, so tools can tell token-expected{statement} apart from
// token-expected{unexpected} without parsing message text.
func NewfID(p token.Pos, code Code, id MessageID, format string, args ...interface{}) Diagnostic {
	return &posError{
		pos:     p,
		code:    code,
		msgID:   id,
		sev:     Error,
		Message: NewMessagef(format, args...),
	}
}

// Warnf creates a warning Diagnostic.
func Warnf(p token.Pos, code Code, format string, args ...interface{}) Diagnostic {
	return &posError{
		pos:     p,
		code:    code,
		sev:     Warning,
		Message: NewMessagef(format, args...),
	}
}

type posError struct {
	pos   token.Pos
	code  Code
	msgID MessageID
	sev   Severity
	Message
}

func (e *posError) Position() token.Pos  { return e.pos }
func (e *posError) Code() Code           { return e.code }
func (e *posError) MessageID() MessageID { return e.msgID }
func (e *posError) Severity() Severity   { return e.sev }

var _ Diagnostic = &posError{}

// List is an ordered collection of diagnostics produced while parsing a
// single source file. The zero value is an empty list ready to use.
type List []Diagnostic

// AddNewf appends an error Diagnostic built from pos/code/format/args.
func (p *List) AddNewf(pos token.Pos, code Code, format string, args ...interface{}) {
	*p = append(*p, Newf(pos, code, format, args...))
}

// AddNewfID appends an error Diagnostic carrying a message sub-variant.
func (p *List) AddNewfID(pos token.Pos, code Code, id MessageID, format string, args ...interface{}) {
	*p = append(*p, NewfID(pos, code, id, format, args...))
}

// AddWarnf appends a warning Diagnostic built from pos/code/format/args.
func (p *List) AddWarnf(pos token.Pos, code Code, format string, args ...interface{}) {
	*p = append(*p, Warnf(pos, code, format, args...))
}

// Add appends d to the list.
func (p *List) Add(d Diagnostic) { *p = append(*p, d) }

// Reset empties the list.
func (p *List) Reset() { *p = (*p)[:0] }

// Len reports the number of diagnostics.
func (p List) Len() int { return len(p) }

// HasErrors reports whether the list contains at least one Severity ==
// Error diagnostic.
func (p List) HasErrors() bool {
	for _, d := range p {
		if d.Severity() == Error {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by position then message text.
func (p List) Sort() {
	slices.SortFunc(p, func(a, b Diagnostic) int {
		if c := a.Position().Compare(b.Position()); c != 0 {
			return c
		}
		return cmp.Compare(a.Error(), b.Error())
	})
}

// RemoveMultiples sorts the list and drops consecutive diagnostics that
// share a position and message. It is the batch equivalent of the
// same-position suppression the parser applies as diagnostics are
// produced, for diagnostics accumulated from independent passes.
func (p *List) RemoveMultiples() {
	p.Sort()
	*p = slices.CompactFunc(*p, func(a, b Diagnostic) bool {
		return a.Position().Compare(b.Position()) == 0 && a.Error() == b.Error()
	})
}

// Error implements the error interface, printing the first diagnostic's
// message and a count of any remaining ones.
func (p List) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", p[0].Error(), len(p)-1)
}

// Config controls how Print renders diagnostics.
type Config struct {
	// Cwd, if set, causes positions to be printed relative to it.
	Cwd string
}

// Print writes one diagnostic per line to w.
func Print(w io.Writer, list List, cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	for _, d := range list {
		printOne(w, d, cfg)
	}
}

// Details returns the result of Print as a string.
func Details(list List, cfg *Config) string {
	var b strings.Builder
	Print(&b, list, cfg)
	return b.String()
}

func printOne(w io.Writer, d Diagnostic, cfg *Config) {
	sev := "error"
	if d.Severity() == Warning {
		sev = "warning"
	}
	pos := d.Position().Position()
	if cfg.Cwd != "" {
		pos.Filename = relPath(pos.Filename, cfg.Cwd)
	}
	if code := d.Code(); code != "" {
		label := string(code)
		if id := d.MessageID(); id != "" {
			label += "{" + string(id) + "}"
		}
		fmt.Fprintf(w, "%s: %s: %s (%s)\n", pos, sev, d.Error(), label)
		return
	}
	fmt.Fprintf(w, "%s: %s: %s\n", pos, sev, d.Error())
}

func relPath(path, cwd string) string {
	if !strings.HasPrefix(path, cwd) {
		return path
	}
	rel := strings.TrimPrefix(path, cwd)
	return strings.TrimPrefix(rel, "/")
}
