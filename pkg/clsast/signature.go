package clsast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/cosls/pkg/semtok"
)

// ErrNoBody is returned when a member has no brace-delimited body.
var ErrNoBody = errors.New("member has no body")

// ArgMode is how an argument is passed.
type ArgMode int

const (
	ArgByVal ArgMode = iota
	ArgByRef
	ArgOutput
)

func (m ArgMode) String() string {
	switch m {
	case ArgByRef:
		return "ByRef"
	case ArgOutput:
		return "Output"
	default:
		return ""
	}
}

// Arg is one formal argument of a method.
type Arg struct {
	Name     string
	Mode     ArgMode
	Type     string
	Default  string
	Variadic bool
}

// FormalSpec is a method's argument list, in declaration order.
type FormalSpec []Arg

// Lookup finds an argument by name. Argument names are case-sensitive.
func (f FormalSpec) Lookup(name string) (Arg, bool) {
	for _, arg := range f {
		if arg.Name == name {
			return arg, true
		}
	}
	return Arg{}, false
}

// KeywordEntry is one item of a bracketed keyword list.
type KeywordEntry struct {
	Name  string
	Value string
	Not   bool
}

// Keywords is a member or class keyword list.
type Keywords []KeywordEntry

// Lookup returns the entry for a keyword, case-insensitively.
func (k Keywords) Lookup(name string) (KeywordEntry, bool) {
	for _, entry := range k {
		if strings.EqualFold(entry.Name, name) {
			return entry, true
		}
	}
	return KeywordEntry{}, false
}

// Bool interprets a keyword as a boolean flag. The second result is false
// when the keyword is absent.
func (k Keywords) Bool(name string) (bool, bool) {
	entry, ok := k.Lookup(name)
	if !ok {
		return false, false
	}
	if entry.Not {
		return false, true
	}
	switch strings.TrimSpace(entry.Value) {
	case "", "1":
		return true, true
	default:
		return false, true
	}
}

// Body is the line span of a member's brace-delimited body.
type Body struct {
	// Open is the line holding the opening brace.
	Open int

	// Close is the line holding the closing brace.
	Close int
}

// Contains reports whether lines [start, end] lie strictly between the braces.
func (b Body) Contains(start, end int) bool {
	return start > b.Open && end < b.Close && start <= end
}

// sigToken is a non-whitespace CLS token in a member signature.
type sigToken struct {
	tok  semtok.Token
	text string
	loc  semtok.Loc
}

func (s sigToken) is(style semtok.Style, text string) bool {
	return s.tok.Is(semtok.MonikerCLS, style) && (text == "" || strings.EqualFold(s.text, text))
}

// signature collects the CLS tokens of a member from its name up to the first
// body brace at depth 0, skipping whitespace and comments.
func signature(doc *semtok.Document, m *Member) []sigToken {
	cur := semtok.NewCursorAt(doc, m.NameLoc)
	cur.Next()

	var out []sigToken
	depth := 0
	for {
		tok, text, ok := cur.PeekText()
		if !ok || tok.Lang != semtok.MonikerCLS {
			return out
		}
		switch tok.Style {
		case semtok.CLSWhiteSpace, semtok.CLSComment, semtok.CLSDescription:
			cur.Next()
			continue
		case semtok.CLSDelimiter:
			switch text {
			case "(":
				depth++
			case ")":
				depth--
			case "{":
				if depth == 0 {
					return out
				}
			}
		}
		if isMemberKeyword(tok, text) && depth == 0 {
			return out
		}
		out = append(out, sigToken{tok: tok, text: text, loc: cur.Loc()})
		cur.Next()
	}
}

// ParseFormalSpec extracts a method's argument list from its signature.
func ParseFormalSpec(doc *semtok.Document, m *Member) (FormalSpec, error) {
	sig := signature(doc, m)
	if len(sig) == 0 || !sig[0].is(semtok.CLSDelimiter, "(") {
		return nil, fmt.Errorf("%s %s: missing argument list", m.Kind, m.Name)
	}

	var (
		spec    FormalSpec
		current []sigToken
		depth   = 1
	)
	for _, st := range sig[1:] {
		if st.is(semtok.CLSDelimiter, "(") {
			depth++
		}
		if st.is(semtok.CLSDelimiter, ")") {
			depth--
			if depth == 0 {
				if len(current) > 0 {
					spec = append(spec, parseArg(doc, current))
				}
				return spec, nil
			}
		}
		if depth == 1 && st.is(semtok.CLSDelimiter, ",") {
			spec = append(spec, parseArg(doc, current))
			current = nil
			continue
		}
		current = append(current, st)
	}
	return nil, fmt.Errorf("%s %s: unterminated argument list", m.Kind, m.Name)
}

func parseArg(doc *semtok.Document, toks []sigToken) Arg {
	var arg Arg
	idx := 0
	if idx < len(toks) && toks[idx].is(semtok.CLSKeyword, "") {
		switch strings.ToLower(toks[idx].text) {
		case "byref":
			arg.Mode = ArgByRef
			idx++
		case "output":
			arg.Mode = ArgOutput
			idx++
		}
	}
	if idx < len(toks) {
		arg.Name = toks[idx].text
		idx++
	}
	if idx < len(toks) && toks[idx].is(semtok.CLSDelimiter, "...") {
		arg.Variadic = true
		idx++
	}

	typeStart, defaultStart := -1, -1
	depth := 0
	for i := idx; i < len(toks); i++ {
		switch {
		case toks[i].is(semtok.CLSDelimiter, "("):
			depth++
		case toks[i].is(semtok.CLSDelimiter, ")"):
			depth--
		case depth == 0 && typeStart < 0 && toks[i].is(semtok.CLSKeyword, "as"):
			typeStart = i + 1
		case depth == 0 && defaultStart < 0 && toks[i].is(semtok.CLSDelimiter, "="):
			defaultStart = i + 1
		}
	}
	if typeStart >= 0 {
		end := len(toks)
		if defaultStart > typeStart {
			end = defaultStart - 1
		}
		arg.Type = spanText(doc, toks[typeStart:end])
	}
	if defaultStart >= 0 {
		arg.Default = spanText(doc, toks[defaultStart:])
	}
	return arg
}

// spanText returns the source text from the first to the last token.
func spanText(doc *semtok.Document, toks []sigToken) string {
	if len(toks) == 0 {
		return ""
	}
	first, last := toks[0], toks[len(toks)-1]
	return strings.TrimSpace(doc.TextRange(semtok.Range{
		Start: semtok.Position{Line: first.loc.Line, Character: first.tok.Pos},
		End:   semtok.Position{Line: last.loc.Line, Character: last.tok.End()},
	}))
}

// ParseKeywords extracts the bracketed keyword list of a member.
func ParseKeywords(doc *semtok.Document, m *Member) Keywords {
	return keywordList(doc, signature(doc, m))
}

// ParseClassKeywords extracts the bracketed keyword list of the class header.
func ParseClassKeywords(doc *semtok.Document, c *Class) Keywords {
	pseudo := &Member{NameLoc: c.Header.Keyword}
	return keywordList(doc, signature(doc, pseudo))
}

func keywordList(doc *semtok.Document, sig []sigToken) Keywords {
	depth, open := 0, -1
	for i, st := range sig {
		switch {
		case st.is(semtok.CLSDelimiter, "("):
			depth++
		case st.is(semtok.CLSDelimiter, ")"):
			depth--
		case depth == 0 && st.is(semtok.CLSDelimiter, "["):
			open = i
		}
		if open >= 0 {
			break
		}
	}
	if open < 0 {
		return nil
	}

	var (
		out   Keywords
		entry []sigToken
	)
	depth = 0
	for _, st := range sig[open+1:] {
		switch {
		case st.is(semtok.CLSDelimiter, "("):
			depth++
		case st.is(semtok.CLSDelimiter, ")"):
			depth--
		case depth == 0 && (st.is(semtok.CLSDelimiter, ",") || st.is(semtok.CLSDelimiter, "]")):
			if len(entry) > 0 {
				out = append(out, parseKeywordEntry(doc, entry))
			}
			entry = nil
			if st.text == "]" {
				return out
			}
			continue
		}
		entry = append(entry, st)
	}
	return out
}

func parseKeywordEntry(doc *semtok.Document, toks []sigToken) KeywordEntry {
	var entry KeywordEntry
	idx := 0
	if len(toks) > 1 && toks[0].is(semtok.CLSKeyword, "not") {
		entry.Not = true
		idx++
	}
	entry.Name = toks[idx].text
	for i := idx + 1; i < len(toks); i++ {
		if toks[i].is(semtok.CLSDelimiter, "=") {
			entry.Value = spanText(doc, toks[i+1:])
			break
		}
	}
	return entry
}

// FindBody locates the brace-delimited body of a member.
func FindBody(doc *semtok.Document, m *Member) (Body, error) {
	cur := semtok.NewCursorAt(doc, m.NameLoc)
	depth := 0
	body := Body{Open: -1}
	for {
		tok, text, ok := cur.PeekText()
		if !ok {
			return Body{}, fmt.Errorf("%s %s: %w", m.Kind, m.Name, ErrNoBody)
		}
		if tok.Is(semtok.MonikerCLS, semtok.CLSDelimiter) {
			switch text {
			case "{":
				if depth == 0 {
					body.Open = cur.Loc().Line
				}
				depth++
			case "}":
				depth--
				if depth == 0 && body.Open >= 0 {
					body.Close = cur.Loc().Line
					return body, nil
				}
			}
		}
		if body.Open < 0 && isMemberKeyword(tok, text) && cur.Loc() != m.Keyword {
			return Body{}, fmt.Errorf("%s %s: %w", m.Kind, m.Name, ErrNoBody)
		}
		cur.Next()
	}
}
