// Package routine parses and colours the optional header line of a routine
// document:
//
//	ROUTINE name ( "[" key ("=" value)? ("," key ("=" value)?)* "]" )?
//
// Parsing always yields a colouring that covers the whole line. The
// structured Header is only produced when the line is grammar-valid.
package routine

import (
	"fmt"
	"strings"

	"github.com/yaklabco/cosls/pkg/semtok"
	"github.com/yaklabco/cosls/pkg/tokenizer"
)

// Keyword is the word that opens a routine header line.
const Keyword = "ROUTINE"

// Recognized header keys.
const (
	KeyType         = "TYPE"
	KeyLanguageMode = "LANGUAGEMODE"
	KeyGenerated    = "GENERATED"
)

// Routine types accepted as the value of TYPE.
//
//nolint:gochecknoglobals // Read-only lookup table.
var routineTypes = map[string]bool{
	"BAS": true,
	"INC": true,
	"INT": true,
	"MAC": true,
	"MVB": true,
	"MVI": true,
}

// Header is the structured content of a valid header line.
type Header struct {
	// Name is the routine name.
	Name string `json:"name" yaml:"name"`

	// Type is the upper-cased routine type, or empty when absent.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// LanguageMode is set when the LANGUAGEMODE key is present.
	LanguageMode *int `json:"languageMode,omitempty" yaml:"languagemode,omitempty"`

	// Generated is set when the GENERATED key is present.
	Generated bool `json:"generated,omitempty" yaml:"generated,omitempty"`
}

// Variant returns the tokenizer variant the rest of the document should be
// lexed with. Only INT, MAC and INC routine types and the language mode
// influence lexing.
func (h *Header) Variant() tokenizer.Variant {
	var v tokenizer.Variant
	if h == nil {
		return v
	}
	switch h.Type {
	case "INT", "MAC", "INC":
		v.Type = h.Type
	}
	if h.LanguageMode != nil {
		v.LanguageMode = *h.LanguageMode
	}
	return v
}

// GrammarError is a header grammar violation at a column of the line.
type GrammarError struct {
	Column int    `json:"column" yaml:"column"`
	Msg    string `json:"message" yaml:"message"`
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("column %d: %s", e.Column, e.Msg)
}

// Position returns the error location; the header is always line 0.
func (e *GrammarError) Position() semtok.Position {
	return semtok.Position{Line: 0, Character: e.Column}
}

// Result is the outcome of parsing one header line.
type Result struct {
	// Tokens colours every character of the line.
	Tokens semtok.Line

	// Header is nil unless the whole line is grammar-valid.
	Header *Header

	// Err is the first grammar violation, if any.
	Err *GrammarError
}

// IsHeaderLine reports whether text starts with the ROUTINE keyword.
func IsHeaderLine(text string) bool {
	if len(text) < len(Keyword) || !strings.EqualFold(text[:len(Keyword)], Keyword) {
		return false
	}
	rest := text[len(Keyword):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}
