package config

import "strings"

// Indent returns the text of n indent levels.
func (f FormatConfig) Indent(n int) string {
	if n <= 0 {
		return ""
	}
	if f.InsertSpaces {
		return strings.Repeat(" ", n*f.tabSize())
	}
	return strings.Repeat("\t", n)
}

// IndentWidth renders an indentation of the given column width.
func (f FormatConfig) IndentWidth(width int) string {
	if width <= 0 {
		return ""
	}
	if f.InsertSpaces {
		return strings.Repeat(" ", width)
	}
	size := f.tabSize()
	return strings.Repeat("\t", width/size) + strings.Repeat(" ", width%size)
}

// Width returns the column width of leading whitespace, expanding tabs.
func (f FormatConfig) Width(indent string) int {
	size := f.tabSize()
	width := 0
	for _, r := range indent {
		if r == '\t' {
			width += size - width%size
			continue
		}
		width++
	}
	return width
}

func (f FormatConfig) tabSize() int {
	if f.TabSize <= 0 {
		return 4
	}
	return f.TabSize
}

// Command renders a command keyword in the configured case and length.
// The word form is given as long and short spellings, e.g. "Do" and "D".
func (f FormatConfig) Command(long, short string) string {
	word := long
	if f.CommandLength == LengthShort && short != "" {
		word = short
	}
	switch f.CommandCase {
	case CaseUpper:
		return strings.ToUpper(word)
	case CaseLower:
		return strings.ToLower(word)
	default:
		return word
	}
}
