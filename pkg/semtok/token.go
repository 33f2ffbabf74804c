package semtok

// Token is a classified span of one source line.
// Tokens on a line are contiguous, non-overlapping and sorted by Pos.
type Token struct {
	// Pos is the 0-based column (UTF-16 code units) where the token starts.
	Pos int

	// Len is the token length in UTF-16 code units.
	Len int

	// Lang is the sub-language the token was lexed as.
	Lang Moniker

	// Style is the lexical category within Lang's legend.
	Style Style

	// Warning is set by the tokenizer for suspicious but valid syntax.
	Warning bool

	// Err holds a grammar error message attached by this module, if any.
	Err string
}

// End returns the column just past the token.
func (t Token) End() int {
	return t.Pos + t.Len
}

// Is reports whether the token has the given moniker and style.
func (t Token) Is(lang Moniker, style Style) bool {
	return t.Lang == lang && t.Style == style
}

// IsError reports whether the token is coloured as an error.
func (t Token) IsError() bool {
	return t.Style == ErrorStyle || t.Err != ""
}

// Line is the ordered token sequence of one source line.
type Line []Token

// Width returns the column just past the last token.
func (l Line) Width() int {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1].End()
}

// HasErrors reports whether any token of the line is an error.
func (l Line) HasErrors() bool {
	for _, tok := range l {
		if tok.IsError() {
			return true
		}
	}
	return false
}

// ValidateLine checks that tokens are contiguous, non-overlapping and cover
// [0, width). An empty line is valid only for an empty source line.
func ValidateLine(tokens Line, width int) bool {
	if len(tokens) == 0 {
		return width == 0
	}
	if tokens[0].Pos != 0 {
		return false
	}
	if tokens[len(tokens)-1].End() != width {
		return false
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Len <= 0 || tokens[i].Pos != tokens[i-1].End() {
			return false
		}
	}
	return tokens[0].Len > 0
}
