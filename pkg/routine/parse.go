package routine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/yaklabco/cosls/pkg/linesrc"
	"github.com/yaklabco/cosls/pkg/semtok"
)

type parser struct {
	src  linesrc.Source
	hdr  Header
	seen map[string]bool
}

// Parse parses and colours a header line. The returned tokens always cover
// the full line, even for malformed input.
func Parse(text string) Result {
	p := &parser{
		src:  linesrc.New(text, semtok.RTNWhiteSpace),
		seen: make(map[string]bool),
	}

	err := p.parse()
	if err != nil {
		var gerr *GrammarError
		if !errors.As(err, &gerr) {
			// Scanner misuse; colour the line as a single error rather than panic.
			gerr = &GrammarError{Column: p.src.Pos(), Msg: err.Error()}
		}
		p.recover(gerr)
		return Result{Tokens: p.src.Tokens(semtok.MonikerRTN), Err: gerr}
	}

	hdr := p.hdr
	return Result{Tokens: p.src.Tokens(semtok.MonikerRTN), Header: &hdr}
}

// recover guarantees full-line coverage after a grammar error. Pending text
// and everything after it becomes one error span; at end of line with
// nothing pending, the last committed span is recoloured instead.
func (p *parser) recover(gerr *GrammarError) {
	if p.src.Pos() != p.src.Mark() || !p.src.Ended() {
		p.src.ToEnd()
		_ = p.src.CommitError(gerr)
		return
	}
	_ = p.src.ColorLastAsError(gerr)
}

func (p *parser) fail(format string, args ...any) error {
	return &GrammarError{Column: p.src.Pos(), Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parse() error {
	if p.src.AdvanceWhile(isLetter) == 0 || !strings.EqualFold(p.src.Pending(), Keyword) {
		return p.fail("expected %s keyword", Keyword)
	}
	if err := p.src.CommitToken(semtok.RTNKeyword); err != nil {
		return err
	}

	if c := p.src.CurrentChar(); c != ' ' && c != '\t' {
		return p.fail("expected whitespace after %s", Keyword)
	}
	if err := p.src.SkipWhitespace(); err != nil {
		return err
	}

	if err := p.parseName(); err != nil {
		return err
	}

	if err := p.src.SkipWhitespace(); err != nil {
		return err
	}
	if p.src.Ended() {
		return nil
	}
	if p.src.CurrentChar() != '[' {
		return p.fail("unexpected text after routine name")
	}
	if err := p.delimiter(); err != nil {
		return err
	}

	if err := p.parseKeyList(); err != nil {
		return err
	}

	if err := p.src.SkipWhitespace(); err != nil {
		return err
	}
	if !p.src.Ended() {
		return p.fail("unexpected text after ']'")
	}
	return nil
}

func (p *parser) parseName() error {
	if p.src.AdvanceWhile(isNameChar) == 0 {
		return p.fail("expected routine name")
	}
	name := p.src.Pending()
	if msg := validateName(name); msg != "" {
		return p.fail("invalid routine name %q: %s", name, msg)
	}
	p.hdr.Name = name
	return p.src.CommitToken(semtok.RTNName)
}

func (p *parser) parseKeyList() error {
	for {
		if err := p.src.SkipWhitespace(); err != nil {
			return err
		}
		if err := p.parseEntry(); err != nil {
			return err
		}
		if err := p.src.SkipWhitespace(); err != nil {
			return err
		}

		switch p.src.CurrentChar() {
		case ',':
			if err := p.delimiter(); err != nil {
				return err
			}
		case ']':
			return p.delimiter()
		default:
			if p.src.Ended() {
				return p.fail("missing ']'")
			}
			return p.fail("expected ',' or ']'")
		}
	}
}

func (p *parser) parseEntry() error {
	if p.src.AdvanceWhile(isLetter) == 0 {
		return p.fail("expected key")
	}
	key := strings.ToUpper(p.src.Pending())
	switch key {
	case KeyType, KeyLanguageMode, KeyGenerated:
	default:
		return p.fail("unknown key %q", p.src.Pending())
	}
	if p.seen[key] {
		return p.fail("duplicate key %q", p.src.Pending())
	}
	p.seen[key] = true
	if err := p.src.CommitToken(semtok.RTNKey); err != nil {
		return err
	}

	if err := p.src.SkipWhitespace(); err != nil {
		return err
	}
	if p.src.CurrentChar() != '=' {
		if key != KeyGenerated {
			return p.fail("%s requires a value", key)
		}
		p.hdr.Generated = true
		return nil
	}
	if key == KeyGenerated {
		return p.fail("%s takes no value", key)
	}
	if err := p.delimiter(); err != nil {
		return err
	}
	if err := p.src.SkipWhitespace(); err != nil {
		return err
	}

	if p.src.AdvanceWhile(isValueChar) == 0 {
		return p.fail("expected value for %s", key)
	}
	value := p.src.Pending()
	switch key {
	case KeyType:
		upper := strings.ToUpper(value)
		if !routineTypes[upper] {
			return p.fail("invalid routine type %q", value)
		}
		p.hdr.Type = upper
	case KeyLanguageMode:
		mode, err := strconv.Atoi(value)
		if err != nil || mode < 0 {
			return p.fail("invalid language mode %q", value)
		}
		p.hdr.LanguageMode = &mode
	}
	return p.src.CommitToken(semtok.RTNValue)
}

// delimiter consumes and colours a single punctuation character.
func (p *parser) delimiter() error {
	if err := p.src.Advance(1); err != nil {
		return err
	}
	return p.src.CommitToken(semtok.RTNDelimiter)
}

// validateName returns a reason when name breaks the identifier rules.
func validateName(name string) string {
	switch {
	case strings.HasPrefix(name, "."):
		return "leading dot"
	case strings.HasSuffix(name, "."):
		return "trailing dot"
	case strings.Contains(name, ".."):
		return "doubled dot"
	}
	return ""
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%' || r == '.'
}

func isValueChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
