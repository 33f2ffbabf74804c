// Package semtok holds the token model shared by every analysis in cosls:
// tokens classified by the external tokenizer, the immutable document
// snapshot they were produced from, and a forward cursor over the grid.
package semtok

import (
	"strings"
	"unicode/utf16"
)

// Document is an immutable snapshot of a source file and its token grid.
// It is created once per request and never mutated.
type Document struct {
	// URI identifies the document in the workspace store.
	URI string

	// Version is the editor version the snapshot was captured at.
	Version int32

	// Text is the raw source.
	Text string

	// Lines holds one token line per source line.
	Lines []Line

	lines      []string
	lineStarts []int
	wide       [][]uint16
}

// NewDocument builds a snapshot from raw text and its token lines.
// Missing token lines are padded with empty lines so that
// len(Lines) always equals the source line count.
func NewDocument(uri string, version int32, text string, lines []Line) *Document {
	doc := &Document{URI: uri, Version: version, Text: text}
	doc.index()
	if len(lines) > len(doc.lines) {
		lines = lines[:len(doc.lines)]
	}
	doc.Lines = make([]Line, len(doc.lines))
	copy(doc.Lines, lines)
	return doc
}

// index splits Text into lines, handling both LF and CRLF.
func (d *Document) index() {
	d.lines = d.lines[:0]
	start := 0
	for idx := 0; idx < len(d.Text); idx++ {
		if d.Text[idx] != '\n' {
			continue
		}
		end := idx
		if end > start && d.Text[end-1] == '\r' {
			end--
		}
		d.lineStarts = append(d.lineStarts, start)
		d.lines = append(d.lines, d.Text[start:end])
		start = idx + 1
	}
	d.lineStarts = append(d.lineStarts, start)
	d.lines = append(d.lines, d.Text[start:])

	d.wide = make([][]uint16, len(d.lines))
	for i, line := range d.lines {
		if !isASCII(line) {
			d.wide[i] = utf16.Encode([]rune(line))
		}
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// LineCount returns the number of source lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// LineText returns the text of a 0-based line without its terminator.
func (d *Document) LineText(line int) string {
	if line < 0 || line >= len(d.lines) {
		return ""
	}
	return d.lines[line]
}

// LineLen returns the length of a line in UTF-16 code units.
func (d *Document) LineLen(line int) int {
	if line < 0 || line >= len(d.lines) {
		return 0
	}
	if w := d.wide[line]; w != nil {
		return len(w)
	}
	return len(d.lines[line])
}

// Slice returns the text of a line between two UTF-16 columns, clamped to the line.
func (d *Document) Slice(line, start, end int) string {
	if line < 0 || line >= len(d.lines) {
		return ""
	}
	n := d.LineLen(line)
	start = min(max(start, 0), n)
	end = min(max(end, start), n)
	if w := d.wide[line]; w != nil {
		return string(utf16.Decode(w[start:end]))
	}
	return d.lines[line][start:end]
}

// TokenText returns the source text covered by a token of the given line.
func (d *Document) TokenText(line int, tok Token) string {
	return d.Slice(line, tok.Pos, tok.End())
}

// TextRange returns the newline-joined source between two positions.
func (d *Document) TextRange(r Range) string {
	if !r.Start.Before(r.End) {
		return ""
	}
	if r.Start.Line == r.End.Line {
		return d.Slice(r.Start.Line, r.Start.Character, r.End.Character)
	}
	var b strings.Builder
	b.WriteString(d.Slice(r.Start.Line, r.Start.Character, d.LineLen(r.Start.Line)))
	for line := r.Start.Line + 1; line < r.End.Line; line++ {
		b.WriteByte('\n')
		b.WriteString(d.LineText(line))
	}
	b.WriteByte('\n')
	b.WriteString(d.Slice(r.End.Line, 0, r.End.Character))
	return b.String()
}

// Offset converts a position to a byte offset into Text.
// Returns false when the position lies outside the document.
func (d *Document) Offset(pos Position) (int, bool) {
	if pos.Line < 0 || pos.Line >= len(d.lines) || pos.Character < 0 {
		return 0, false
	}
	if pos.Character > d.LineLen(pos.Line) {
		return 0, false
	}
	base := d.lineStarts[pos.Line]
	if d.wide[pos.Line] == nil {
		return base + pos.Character, true
	}
	return base + len(d.Slice(pos.Line, 0, pos.Character)), true
}

// End returns the position just past the last character of the document.
func (d *Document) End() Position {
	last := len(d.lines) - 1
	return Position{Line: last, Character: d.LineLen(last)}
}

// HasErrors reports whether any token in the document is an error.
func (d *Document) HasErrors() bool {
	for _, line := range d.Lines {
		if line.HasErrors() {
			return true
		}
	}
	return false
}

// Indentation returns the leading spaces and tabs of a line.
func (d *Document) Indentation(line int) string {
	text := d.LineText(line)
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}
