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

// Package token defines the source position model and token kinds shared by
// the scanner, parser, ast, and errors packages.
package token

import (
	"cmp"
	"fmt"
	"sort"
	"sync"
)

// -----------------------------------------------------------------------------
// Positions

// Position describes an arbitrary and printable source position within a
// file, including offset, line, and column location, which can be rendered
// in a human-friendly text form.
//
// A Position is valid if the line number is > 0.
type Position struct {
	Filename string // filename, if any
	Offset   int    // offset, starting at 0
	Line     int    // line number, starting at 1
	Column   int    // column number, starting at 1 (byte count)
}

// IsValid reports whether the position is valid.
func (pos *Position) IsValid() bool { return pos.Line > 0 }

// String returns a human-readable form of a position in one of several
// forms:
//
//	file:line:column    valid position with file name
//	line:column         valid position without file name
//	file                invalid position with file name
//	-                   invalid position without file name
func (pos Position) String() string {
	s := pos.Filename
	if pos.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// Pos is a compact encoding of a source position plus an optional relative
// position (whitespace/newline information relative to the previous token).
// The zero value is [NoPos].
type Pos struct {
	file   *File
	offset int
}

// File returns the file that contains the printable position p, or nil if
// there is no such file (for instance for p == [NoPos]).
func (p Pos) File() *File {
	if p.index() == 0 {
		return nil
	}
	return p.file
}

// Line returns the position's line number, starting at 1.
func (p Pos) Line() int { return p.Position().Line }

// Column returns the position's column number counting in bytes, starting
// at 1.
func (p Pos) Column() int { return p.Position().Column }

// Filename returns the name of the file that this position belongs to.
func (p Pos) Filename() string {
	if p.file == nil {
		return ""
	}
	return p.file.name
}

// Position unpacks the position information into a flat struct.
func (p Pos) Position() Position {
	if p.file == nil {
		return Position{}
	}
	return p.file.Position(p)
}

// String returns a human-readable form of a printable position.
func (p Pos) String() string {
	return p.Position().String()
}

// Compare returns an integer comparing two positions. The result is 0 if
// p == p2, -1 if p < p2, and +1 if p > p2. [NoPos] is always larger than any
// valid position.
func (p Pos) Compare(p2 Pos) int {
	if p == p2 {
		return 0
	} else if p == NoPos {
		return +1
	} else if p2 == NoPos {
		return -1
	}
	if c := cmp.Compare(p.Filename(), p2.Filename()); c != 0 {
		return c
	}
	return cmp.Compare(p.Offset(), p2.Offset())
}

// NoPos is the zero value for [Pos]; there is no file and line information
// associated with it, and [Pos.IsValid] is false.
var NoPos = Pos{}

// RelPos indicates the relative position of a token to the previous token.
type RelPos int

const (
	// NoRelPos indicates no relative position is specified.
	NoRelPos RelPos = iota

	// Elided indicates the token for which this position is defined is not
	// rendered at all (e.g. a synthesized missing token).
	Elided

	// NoSpace indicates there is no whitespace before this token.
	NoSpace

	// Blank means there is horizontal space before this token.
	Blank

	// Newline means there is a single newline before this token.
	Newline

	// NewSection means there are two or more newlines before this token.
	NewSection

	relMask  = 0xf
	relShift = 4
)

func (p RelPos) Pos() Pos {
	return Pos{nil, int(p)}
}

// HasRelPos reports whether p has a relative position.
func (p Pos) HasRelPos() bool {
	return p.offset&relMask != 0
}

// Offset reports the byte offset relative to the file.
func (p Pos) Offset() int {
	if p.file == nil {
		return 0
	}
	return p.file.Offset(p)
}

// Add creates a new position relative to p offset by n bytes.
func (p Pos) Add(n int) Pos {
	return Pos{p.file, p.offset + toPos(index(n))}
}

// IsValid reports whether the position contains any useful information.
func (p Pos) IsValid() bool {
	return p != NoPos
}

// IsNewline reports whether the relative information suggests this token
// started on a new line.
func (p Pos) IsNewline() bool {
	return p.RelPos() >= Newline
}

func (p Pos) WithRel(rel RelPos) Pos {
	return Pos{p.file, p.offset&^relMask | int(rel)}
}

func (p Pos) RelPos() RelPos {
	return RelPos(p.offset & relMask)
}

func (p Pos) index() index {
	return index(p.offset) >> relShift
}

func toPos(x index) int {
	return int(x) << relShift
}

// -----------------------------------------------------------------------------
// File

// index represents a 1-based offset into the file, so that the zero Pos can
// be distinguished from a Pos with a zero offset.
type index int

// A File has a name, size, and line offset table.
type File struct {
	mutex sync.RWMutex
	name  string // file name as provided to NewFile
	size  index  // file size as provided to NewFile

	lines []index // lines[i] is the offset of the first character of line i+1
	infos []lineInfo
}

// NewFile returns a new file with the given name and size.
func NewFile(filename string, size int) *File {
	return &File{
		name:  filename,
		size:  index(size),
		lines: []index{0},
	}
}

func (f *File) fixOffset(offset index) index {
	switch {
	case offset < 0:
		return 0
	case offset > f.size:
		return f.size
	default:
		return offset
	}
}

// Name returns the file name of file f as passed to NewFile.
func (f *File) Name() string { return f.name }

// Size returns the size of file f as passed to NewFile.
func (f *File) Size() int { return int(f.size) }

// LineCount returns the number of lines in file f.
func (f *File) LineCount() int {
	f.mutex.RLock()
	n := len(f.lines)
	f.mutex.RUnlock()
	return n
}

// AddLine adds the line offset for a new line. The line offset must be
// larger than the offset for the previous line and smaller than the file
// size; otherwise the line offset is ignored.
func (f *File) AddLine(offset int) {
	x := index(offset)
	f.mutex.Lock()
	if i := len(f.lines); (i == 0 || f.lines[i-1] < x) && x < f.size {
		f.lines = append(f.lines, x)
	}
	f.mutex.Unlock()
}

// SetLinesForContent sets the line offsets for the given file content.
func (f *File) SetLinesForContent(content []byte) {
	var lines []index
	line := index(0)
	for offset, b := range content {
		if line >= 0 {
			lines = append(lines, line)
		}
		line = -1
		if b == '\n' {
			line = index(offset) + 1
		}
	}
	f.mutex.Lock()
	f.lines = lines
	f.mutex.Unlock()
}

type lineInfo struct {
	Offset   int
	Filename string
	Line     int
}

// Pos returns the Pos value for the given file offset and relative
// position.
func (f *File) Pos(offset int, rel RelPos) Pos {
	return Pos{f, toPos(1+f.fixOffset(index(offset))) + int(rel)}
}

// Offset returns the offset for the given file position p.
func (f *File) Offset(p Pos) int {
	x := p.index()
	return int(f.fixOffset(x - 1))
}

// Line returns the line number for the given file position p.
func (f *File) Line(p Pos) int {
	return f.Position(p).Line
}

func searchLineInfos(a []lineInfo, x int) int {
	return sort.Search(len(a), func(i int) bool { return a[i].Offset > x }) - 1
}

func (f *File) unpack(offset index) (filename string, line, column int) {
	filename = f.name
	if i := searchInts(f.lines, offset); i >= 0 {
		line, column = i+1, int(offset-f.lines[i]+1)
	}
	if len(f.infos) > 0 {
		if i := searchLineInfos(f.infos, int(offset)); i >= 0 {
			alt := &f.infos[i]
			filename = alt.Filename
			if i := searchInts(f.lines, index(alt.Offset)); i >= 0 {
				line += alt.Line - i - 1
			}
		}
	}
	return
}

func (f *File) position(p Pos) (pos Position) {
	offset := f.Offset(p)
	pos.Offset = offset
	pos.Filename, pos.Line, pos.Column = f.unpack(index(offset))
	return
}

// Position returns the Position value for the given file position p. If p
// is out of bounds it is clamped to the file's start or end.
func (f *File) Position(p Pos) (pos Position) {
	if p != NoPos {
		pos = f.position(p)
	}
	return
}

func searchInts(a []index, x index) int {
	i, j := 0, len(a)
	for i < j {
		h := i + (j-i)/2
		if a[h] <= x {
			i = h + 1
		} else {
			j = h
		}
	}
	return i - 1
}
