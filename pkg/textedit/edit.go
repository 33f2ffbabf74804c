// Package textedit provides position-based text edits and their validation
// and application against a document snapshot.
package textedit

import "github.com/yaklabco/cosls/pkg/semtok"

// TextEdit replaces the text of a range. An empty range is an insertion.
type TextEdit struct {
	// Range is the half-open span being replaced.
	Range semtok.Range `json:"range" yaml:"range"`

	// NewText is the replacement text.
	NewText string `json:"newText" yaml:"newText"`
}

// Builder accumulates edits for one document.
type Builder struct {
	Edits []TextEdit
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{Edits: make([]TextEdit, 0)}
}

// Replace adds an edit that replaces r with newText.
func (b *Builder) Replace(r semtok.Range, newText string) {
	b.Edits = append(b.Edits, TextEdit{Range: r, NewText: newText})
}

// Insert adds an edit that inserts text at pos.
func (b *Builder) Insert(pos semtok.Position, text string) {
	b.Replace(semtok.Range{Start: pos, End: pos}, text)
}

// Delete adds an edit that deletes r.
func (b *Builder) Delete(r semtok.Range) {
	b.Replace(r, "")
}

// LineRange returns the range covering lines [start, end] of doc, from the
// first column of start up to the first column after end's terminator. For
// the last line of the document the range ends at the end of the text.
func LineRange(doc *semtok.Document, start, end int) semtok.Range {
	r := semtok.Range{Start: semtok.Position{Line: start}}
	if end+1 < doc.LineCount() {
		r.End = semtok.Position{Line: end + 1}
	} else {
		r.End = doc.End()
	}
	return r
}
