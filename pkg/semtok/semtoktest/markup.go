// Package semtoktest builds token grids from inline markup for tests.
//
// Each markup line is one source line. A token is written {tag:text}; the
// first rune after the colon is always literal, so {br:{} and {cdel:}} spell
// brace tokens. Runs of plain spaces or tabs become whitespace tokens in the
// sub-language of the neighbouring token.
package semtoktest

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/yaklabco/cosls/pkg/semtok"
)

type kind struct {
	lang  semtok.Moniker
	style semtok.Style
}

//nolint:gochecknoglobals // Read-only tag table.
var tags = map[string]kind{
	"err":    {semtok.MonikerCOS, semtok.COSError},
	"ws":     {semtok.MonikerCOS, semtok.COSWhiteSpace},
	"com":    {semtok.MonikerCOS, semtok.COSComment},
	"cmd":    {semtok.MonikerCOS, semtok.COSCommand},
	"lv":     {semtok.MonikerCOS, semtok.COSLocalVariable},
	"dl":     {semtok.MonikerCOS, semtok.COSDeclaredLocal},
	"pv":     {semtok.MonikerCOS, semtok.COSPublicVariable},
	"par":    {semtok.MonikerCOS, semtok.COSParameter},
	"gl":     {semtok.MonikerCOS, semtok.COSGlobal},
	"op":     {semtok.MonikerCOS, semtok.COSOperator},
	"de":     {semtok.MonikerCOS, semtok.COSDelimiter},
	"br":     {semtok.MonikerCOS, semtok.COSBrace},
	"num":    {semtok.MonikerCOS, semtok.COSNumber},
	"str":    {semtok.MonikerCOS, semtok.COSString},
	"lbl":    {semtok.MonikerCOS, semtok.COSLabel},
	"pre":    {semtok.MonikerCOS, semtok.COSPreprocessor},
	"cn":     {semtok.MonikerCOS, semtok.COSClassName},
	"meth":   {semtok.MonikerCOS, semtok.COSMethod},
	"prop":   {semtok.MonikerCOS, semtok.COSProperty},
	"objdot": {semtok.MonikerCOS, semtok.COSObjectDot},
	"fn":     {semtok.MonikerCOS, semtok.COSFunction},
	"mac":    {semtok.MonikerCOS, semtok.COSMacro},

	"cerr":   {semtok.MonikerCLS, semtok.CLSError},
	"cws":    {semtok.MonikerCLS, semtok.CLSWhiteSpace},
	"ccom":   {semtok.MonikerCLS, semtok.CLSComment},
	"desc":   {semtok.MonikerCLS, semtok.CLSDescription},
	"kw":     {semtok.MonikerCLS, semtok.CLSKeyword},
	"ccn":    {semtok.MonikerCLS, semtok.CLSClassName},
	"id":     {semtok.MonikerCLS, semtok.CLSIdentifier},
	"cdel":   {semtok.MonikerCLS, semtok.CLSDelimiter},
	"cnum":   {semtok.MonikerCLS, semtok.CLSNumber},
	"cstr":   {semtok.MonikerCLS, semtok.CLSString},
	"cother": {semtok.MonikerCLS, semtok.CLSOther},
}

func whiteSpace(lang semtok.Moniker) semtok.Style {
	switch lang {
	case semtok.MonikerCLS:
		return semtok.CLSWhiteSpace
	case semtok.MonikerRTN:
		return semtok.RTNWhiteSpace
	default:
		return semtok.COSWhiteSpace
	}
}

type piece struct {
	text  string
	lang  semtok.Moniker
	style semtok.Style
	white bool
}

// Parse builds a document from markup lines.
func Parse(uri string, markup ...string) (*semtok.Document, error) {
	var (
		texts = make([]string, 0, len(markup))
		lines = make([]semtok.Line, 0, len(markup))
	)
	for n, src := range markup {
		pieces, err := parseLine(src)
		if err != nil {
			return nil, fmt.Errorf("markup line %d: %w", n+1, err)
		}
		resolveWhite(pieces)

		var (
			sb   strings.Builder
			line semtok.Line
			col  int
		)
		for _, p := range pieces {
			width := len(utf16.Encode([]rune(p.text)))
			line = append(line, semtok.Token{Pos: col, Len: width, Lang: p.lang, Style: p.style})
			col += width
			sb.WriteString(p.text)
		}
		texts = append(texts, sb.String())
		lines = append(lines, line)
	}
	return semtok.NewDocument(uri, 1, strings.Join(texts, "\n"), lines), nil
}

// MustParse is Parse that panics on malformed markup.
func MustParse(markup ...string) *semtok.Document {
	doc, err := Parse("file:///test.cls", markup...)
	if err != nil {
		panic(err)
	}
	return doc
}

func parseLine(src string) ([]piece, error) {
	var pieces []piece
	for i := 0; i < len(src); {
		switch c := src[i]; {
		case c == ' ' || c == '\t':
			j := i
			for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
				j++
			}
			pieces = append(pieces, piece{text: src[i:j], white: true})
			i = j
		case c == '{':
			colon := strings.IndexByte(src[i:], ':')
			if colon < 0 {
				return nil, fmt.Errorf("column %d: missing tag separator", i)
			}
			tag := src[i+1 : i+colon]
			k, ok := tags[tag]
			if !ok {
				return nil, fmt.Errorf("column %d: unknown tag %q", i, tag)
			}
			start := i + colon + 1
			if start >= len(src) {
				return nil, fmt.Errorf("column %d: empty token", i)
			}
			_, size := utf8.DecodeRuneInString(src[start:])
			end := strings.IndexByte(src[start+size:], '}')
			if end < 0 {
				return nil, fmt.Errorf("column %d: unterminated token", i)
			}
			end += start + size
			pieces = append(pieces, piece{text: src[start:end], lang: k.lang, style: k.style})
			i = end + 1
		default:
			return nil, fmt.Errorf("column %d: text %q outside a token", i, src[i:])
		}
	}
	return pieces, nil
}

// resolveWhite assigns plain whitespace to the preceding token's language,
// or the following one at the start of a line.
func resolveWhite(pieces []piece) {
	lang := semtok.MonikerNone
	for i := range pieces {
		if !pieces[i].white {
			lang = pieces[i].lang
			break
		}
	}
	if lang == semtok.MonikerNone {
		lang = semtok.MonikerCOS
	}
	for i := range pieces {
		if pieces[i].white {
			pieces[i].lang = lang
			pieces[i].style = whiteSpace(lang)
			continue
		}
		lang = pieces[i].lang
	}
}
