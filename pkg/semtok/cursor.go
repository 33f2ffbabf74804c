package semtok

import (
	"fmt"
	"strings"
)

// Loc addresses one token in the grid: its line and index within the line.
type Loc struct {
	Line  int
	Index int
}

// Match describes the token a parser expects next.
// Text, when set, must equal the token text (case-insensitively if Fold).
// Pred, when set, must also accept the token text.
type Match struct {
	Lang  Moniker
	Style Style
	Text  string
	Fold  bool
	Pred  func(text string) bool
	Desc  string
}

// Matches reports whether tok with source text text satisfies m.
func (m Match) Matches(tok Token, text string) bool {
	if tok.Lang != m.Lang || tok.Style != m.Style {
		return false
	}
	if m.Text != "" {
		if m.Fold && !strings.EqualFold(text, m.Text) {
			return false
		}
		if !m.Fold && text != m.Text {
			return false
		}
	}
	return m.Pred == nil || m.Pred(text)
}

func (m Match) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s style %d", m.Lang, m.Style)
	switch {
	case m.Text != "":
		fmt.Fprintf(&b, " %q", m.Text)
	case m.Desc != "":
		b.WriteString(" (" + m.Desc + ")")
	}
	return b.String()
}

// Consumed is a token accepted by Cursor.Expect.
type Consumed struct {
	Token Token
	Text  string
	Loc   Loc
}

// Position returns the start position of the consumed token.
func (c Consumed) Position() Position {
	return Position{Line: c.Loc.Line, Character: c.Token.Pos}
}

// MismatchError reports that the current token did not satisfy an expectation.
type MismatchError struct {
	Want    Match
	Got     Token
	GotText string
	At      Position
	Ended   bool
}

func (e *MismatchError) Error() string {
	if e.Ended {
		return fmt.Sprintf("expected %s, found end of document", e.Want)
	}
	return fmt.Sprintf("%s: expected %s, found %s style %d %q",
		e.At, e.Want, e.Got.Lang, e.Got.Style, e.GotText)
}

// Position returns where the mismatch occurred.
func (e *MismatchError) Position() Position {
	return e.At
}

// Cursor is a forward-only iterator over a document's token grid.
// Empty lines are skipped; the cursor has ended once it passes the last line.
type Cursor struct {
	doc   *Document
	line  int
	idx   int
	last  Loc
	moved bool
}

// NewCursor returns a cursor positioned on the first token of doc.
func NewCursor(doc *Document) *Cursor {
	return NewCursorAt(doc, Loc{})
}

// NewCursorAt returns a cursor positioned on the token at loc, or on the next
// token after it when loc addresses an empty line or lies past a line's end.
func NewCursorAt(doc *Document, loc Loc) *Cursor {
	c := &Cursor{doc: doc, line: max(loc.Line, 0), idx: max(loc.Index, 0)}
	c.settle()
	return c
}

func (c *Cursor) settle() {
	for c.line < len(c.doc.Lines) && c.idx >= len(c.doc.Lines[c.line]) {
		c.line++
		c.idx = 0
	}
}

// Ended reports whether the cursor has passed the last token.
func (c *Cursor) Ended() bool {
	return c.line >= len(c.doc.Lines)
}

// Loc returns the location of the current token.
func (c *Cursor) Loc() Loc {
	return Loc{Line: c.line, Index: c.idx}
}

// Peek returns the current token, or false once the cursor has ended.
func (c *Cursor) Peek() (Token, bool) {
	if c.Ended() {
		return Token{}, false
	}
	return c.doc.Lines[c.line][c.idx], true
}

// PeekText returns the current token and its source text.
func (c *Cursor) PeekText() (Token, string, bool) {
	tok, ok := c.Peek()
	if !ok {
		return Token{}, "", false
	}
	return tok, c.doc.TokenText(c.line, tok), true
}

// Next advances past the current token and returns the new current token.
func (c *Cursor) Next() (Token, bool) {
	if c.Ended() {
		return Token{}, false
	}
	c.last, c.moved = c.Loc(), true
	c.idx++
	c.settle()
	return c.Peek()
}

// Last returns the location of the most recently consumed token.
func (c *Cursor) Last() (Loc, bool) {
	return c.last, c.moved
}

// Expect consumes the current token if it satisfies m.
func (c *Cursor) Expect(m Match) (Consumed, error) {
	tok, text, ok := c.PeekText()
	if !ok {
		return Consumed{}, &MismatchError{Want: m, Ended: true, At: c.doc.End()}
	}
	if !m.Matches(tok, text) {
		return Consumed{}, &MismatchError{
			Want:    m,
			Got:     tok,
			GotText: text,
			At:      Position{Line: c.line, Character: tok.Pos},
		}
	}
	consumed := Consumed{Token: tok, Text: text, Loc: c.Loc()}
	c.Next()
	return consumed, nil
}

// SkipWhile advances while pred accepts the current token.
func (c *Cursor) SkipWhile(pred func(tok Token, text string) bool) {
	for {
		tok, text, ok := c.PeekText()
		if !ok || !pred(tok, text) {
			return
		}
		c.Next()
	}
}

// TextUpTo advances until pred accepts the current token (or the document
// ends) and returns the exact source text spanned, lines joined by "\n".
func (c *Cursor) TextUpTo(pred func(tok Token, text string) bool) string {
	tok, ok := c.Peek()
	if !ok {
		return ""
	}
	start := Position{Line: c.line, Character: tok.Pos}
	for {
		cur, text, ok := c.PeekText()
		if !ok {
			return c.doc.TextRange(Range{Start: start, End: c.doc.End()})
		}
		if pred(cur, text) {
			return c.doc.TextRange(Range{Start: start, End: Position{Line: c.line, Character: cur.Pos}})
		}
		c.Next()
	}
}
