// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package source

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrEmptyInput is returned when a parser is handed a source file which contains
// nothing but whitespace.
var ErrEmptyInput = errors.New("empty input")

// File is a named piece of source text, held as runes so that spans index
// characters rather than bytes.
type File struct {
	filename string
	contents []rune
	// Offset of the first character of each line.
	lines []int
}

// NewSourceFile constructs a new source file from a given byte array.
func NewSourceFile(filename string, bytes []byte) *File {
	contents := []rune(string(bytes))
	lines := []int{0}
	//
	for i, c := range contents {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	//
	return &File{filename, contents, lines}
}

// Filename returns the filename associated with this source file.
func (s *File) Filename() string {
	return s.filename
}

// Contents returns the contents of this source file.
func (s *File) Contents() []rune {
	return s.contents
}

// IsBlank checks whether this file contains only whitespace.
func (s *File) IsBlank() bool {
	return strings.TrimSpace(string(s.contents)) == ""
}

// Text returns the text covered by a given span of this file.
func (s *File) Text(span Span) string {
	end := min(span.end, len(s.contents))
	start := min(span.start, end)
	//
	return string(s.contents[start:end])
}

// Position returns the line and column (both counting from 1) of a given index
// into this file.  Indices beyond the end of the file are reported against the
// end of the last line.
func (s *File) Position(index int) (line int, column int) {
	index = min(max(0, index), len(s.contents))
	n := s.lineOf(index)
	//
	return n + 1, index - s.lines[n] + 1
}

// SyntaxError constructs a syntax error over a given span of this file with a
// given message.
func (s *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{s, span, msg}
}

// FindFirstEnclosingLine returns the line containing the start of a span.  A
// span starting beyond the end of the file is associated with the last line.
func (s *File) FindFirstEnclosingLine(span Span) Line {
	n := s.lineOf(span.start)
	end := len(s.contents)
	// Lines other than the last exclude their terminating newline
	if n+1 < len(s.lines) {
		end = s.lines[n+1] - 1
	}
	//
	return Line{s.contents, Span{s.lines[n], end}, n + 1}
}

// Index of the line containing a given character offset.
func (s *File) lineOf(index int) int {
	n, found := slices.BinarySearch(s.lines, min(max(0, index), len(s.contents)))
	if found {
		return n
	}
	//
	return n - 1
}

// Line is a single line of a source file, excluding its newline.
type Line struct {
	text   []rune
	span   Span
	number int
}

// String returns the text of this line.
func (p *Line) String() string {
	return string(p.text[p.span.start:p.span.end])
}

// Number gets the line number of this line, counting from 1.
func (p *Line) Number() int {
	return p.number
}

// Start returns the starting index of this line in the original string.
func (p *Line) Start() int {
	return p.span.start
}

// Length returns the number of characters in this line.
func (p *Line) Length() int {
	return p.span.Length()
}

// SyntaxError is an error located at a given span of a source file.
type SyntaxError struct {
	srcfile *File
	span    Span
	msg     string
}

// SourceFile returns the underlying source file that this syntax error covers.
func (p *SyntaxError) SourceFile() *File {
	return p.srcfile
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Line returns the line number (counting from 1) where this error starts.
func (p *SyntaxError) Line() int {
	line, _ := p.srcfile.Position(p.span.start)
	return line
}

// Column returns the column (counting from 1) where this error starts.
func (p *SyntaxError) Column() int {
	_, col := p.srcfile.Position(p.span.start)
	return col
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	line, col := p.srcfile.Position(p.span.start)
	return fmt.Sprintf("%s:%d:%d: %s", p.srcfile.filename, line, col, p.msg)
}

// FirstEnclosingLine returns the line on which this error starts.  Errors
// spanning several lines are reported against the first of them.
func (p *SyntaxError) FirstEnclosingLine() Line {
	return p.srcfile.FindFirstEnclosingLine(p.span)
}
