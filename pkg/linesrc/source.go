// Package linesrc implements a single-line mark/commit scanner used by
// line-granular grammars to tokenize and colour a line in one pass.
//
// The scanner keeps two columns: the cursor (pos) and the mark. Text between
// the mark and the cursor is pending; committing colours it and moves the
// mark to the cursor. Every commit is appended to a log, so once a line is
// finished each character belongs to exactly one committed span.
package linesrc

import (
	"errors"
	"fmt"
	"unicode/utf16"

	"github.com/yaklabco/cosls/pkg/semtok"
)

// Sentinel errors for misuse of the scanner. They indicate grammar bugs,
// not malformed input.
var (
	ErrPendingSpan = errors.New("uncommitted span pending")
	ErrPastEnd     = errors.New("advance past end of line")
	ErrEmptySpan   = errors.New("commit of empty span")
	ErrNoSpan      = errors.New("no committed span")
)

// Span is one committed, coloured region of the line.
type Span struct {
	Start int
	Len   int
	Style semtok.Style
	Err   string
}

// End returns the column just past the span.
func (s Span) End() int {
	return s.Start + s.Len
}

// Source scans one line. The zero value is an empty, ended line.
type Source struct {
	units []uint16
	white semtok.Style
	pos   int
	mark  int
	log   []Span
}

// New returns a scanner over text positioned at column 0. Whitespace skipped
// by SkipWhitespace is committed with the white style.
func New(text string, white semtok.Style) Source {
	return Source{units: utf16.Encode([]rune(text)), white: white}
}

// Pos returns the cursor column.
func (s *Source) Pos() int {
	return s.pos
}

// Mark returns the start column of the pending span.
func (s *Source) Mark() int {
	return s.mark
}

// Len returns the line length in UTF-16 code units.
func (s *Source) Len() int {
	return len(s.units)
}

// Ended reports whether the cursor is at end of line.
func (s *Source) Ended() bool {
	return s.pos >= len(s.units)
}

// CurrentChar returns the character under the cursor, or 0 at end of line.
func (s *Source) CurrentChar() rune {
	return s.Peek(0)
}

// Peek returns the character n units past the cursor, or 0 beyond the line.
func (s *Source) Peek(n int) rune {
	idx := s.pos + n
	if idx < 0 || idx >= len(s.units) {
		return 0
	}
	return rune(s.units[idx])
}

// Pending returns the text between the mark and the cursor.
func (s *Source) Pending() string {
	return string(utf16.Decode(s.units[s.mark:s.pos]))
}

// Advance moves the cursor n units forward.
func (s *Source) Advance(n int) error {
	if s.pos+n > len(s.units) {
		return fmt.Errorf("%w: column %d + %d > %d", ErrPastEnd, s.pos, n, len(s.units))
	}
	s.pos += n
	return nil
}

// AdvanceWhile moves the cursor while accept returns true and reports how
// many units were consumed.
func (s *Source) AdvanceWhile(accept func(r rune) bool) int {
	start := s.pos
	for !s.Ended() && accept(s.CurrentChar()) {
		s.pos++
	}
	return s.pos - start
}

// ToEnd moves the cursor to end of line.
func (s *Source) ToEnd() {
	s.pos = len(s.units)
}

// SkipWhitespace consumes spaces and tabs and commits them as whitespace.
// It requires that no span is pending.
func (s *Source) SkipWhitespace() error {
	if s.mark != s.pos {
		return fmt.Errorf("skip whitespace at column %d: %w", s.pos, ErrPendingSpan)
	}
	if s.AdvanceWhile(func(r rune) bool { return r == ' ' || r == '\t' }) == 0 {
		return nil
	}
	return s.CommitToken(s.white)
}

// CommitToken colours the pending span with style and moves the mark to the cursor.
func (s *Source) CommitToken(style semtok.Style) error {
	return s.commit(style, "")
}

// CommitError colours the pending span as an error carrying err's message.
func (s *Source) CommitError(err error) error {
	return s.commit(semtok.ErrorStyle, err.Error())
}

func (s *Source) commit(style semtok.Style, msg string) error {
	if s.pos == s.mark {
		return fmt.Errorf("commit at column %d: %w", s.pos, ErrEmptySpan)
	}
	s.log = append(s.log, Span{Start: s.mark, Len: s.pos - s.mark, Style: style, Err: msg})
	s.mark = s.pos
	return nil
}

// ColorLastAsError recolours the most recently committed span as an error.
// It is used when a problem is found after the span was coloured as valid.
func (s *Source) ColorLastAsError(err error) error {
	if len(s.log) == 0 {
		return ErrNoSpan
	}
	last := &s.log[len(s.log)-1]
	last.Style = semtok.ErrorStyle
	last.Err = err.Error()
	return nil
}

// Spans returns the commit log.
func (s *Source) Spans() []Span {
	return s.log
}

// Covered reports whether the committed spans cover the whole line.
func (s *Source) Covered() bool {
	return s.mark == len(s.units) && s.pos == s.mark
}

// Tokens converts the commit log to a token line tagged with lang.
func (s *Source) Tokens(lang semtok.Moniker) semtok.Line {
	line := make(semtok.Line, len(s.log))
	for i, span := range s.log {
		line[i] = semtok.Token{Pos: span.Start, Len: span.Len, Lang: lang, Style: span.Style, Err: span.Err}
	}
	return line
}
