package clsast

import (
	"fmt"
	"strings"

	"github.com/yaklabco/cosls/pkg/semtok"
)

//nolint:gochecknoglobals // Read-only match descriptors.
var (
	classKeyword = semtok.Match{Lang: semtok.MonikerCLS, Style: semtok.CLSKeyword, Text: "class", Fold: true}
	namePart     = semtok.Match{Lang: semtok.MonikerCLS, Style: semtok.CLSClassName, Desc: "class name"}
	nameDot      = semtok.Match{Lang: semtok.MonikerCLS, Style: semtok.CLSDelimiter, Text: "."}
	memberWord   = semtok.Match{
		Lang:  semtok.MonikerCLS,
		Style: semtok.CLSKeyword,
		Pred:  func(text string) bool { _, ok := LookupKind(text); return ok },
		Desc:  "member keyword",
	}
	memberName = semtok.Match{Lang: semtok.MonikerCLS, Style: semtok.CLSIdentifier, Desc: "member name"}
	quotedName = semtok.Match{Lang: semtok.MonikerCLS, Style: semtok.CLSString, Desc: "quoted member name"}
)

func isMemberKeyword(tok semtok.Token, text string) bool {
	return memberWord.Matches(tok, text)
}

func isClassKeyword(tok semtok.Token, text string) bool {
	return classKeyword.Matches(tok, text)
}

func isWhiteSpace(tok semtok.Token, _ string) bool {
	return tok.Is(semtok.MonikerCLS, semtok.CLSWhiteSpace)
}

// Parse builds the class tree for doc. See the package documentation for the
// lexical-error precondition.
func Parse(doc *semtok.Document) (*Class, error) {
	cur := semtok.NewCursor(doc)
	class := &Class{}

	class.Preamble = cur.TextUpTo(isClassKeyword)
	class.Header.Keyword = cur.Loc()
	if _, err := cur.Expect(classKeyword); err != nil {
		return nil, fmt.Errorf("class header: %w", err)
	}
	cur.SkipWhile(isWhiteSpace)

	name, err := parseClassName(cur)
	if err != nil {
		return nil, err
	}
	class.Header.Name = name
	class.Header.PreMemberText = cur.TextUpTo(isMemberKeyword)

	for !cur.Ended() {
		member, err := parseMember(cur)
		if err != nil {
			return nil, err
		}
		class.Members = append(class.Members, member)
	}
	return class, nil
}

func parseClassName(cur *semtok.Cursor) (string, error) {
	part, err := cur.Expect(namePart)
	if err != nil {
		return "", fmt.Errorf("class name: %w", err)
	}
	parts := []string{part.Text}
	for {
		tok, text, ok := cur.PeekText()
		if !ok || !nameDot.Matches(tok, text) {
			break
		}
		cur.Next()
		part, err := cur.Expect(namePart)
		if err != nil {
			return "", fmt.Errorf("class name: %w", err)
		}
		parts = append(parts, part.Text)
	}
	return strings.Join(parts, "."), nil
}

func parseMember(cur *semtok.Cursor) (Member, error) {
	keyword, err := cur.Expect(memberWord)
	if err != nil {
		return Member{}, fmt.Errorf("member: %w", err)
	}
	kind, _ := LookupKind(keyword.Text)
	cur.SkipWhile(isWhiteSpace)

	nameLoc := cur.Loc()
	name, err := cur.Expect(memberName)
	if err != nil {
		quoted, qerr := cur.Expect(quotedName)
		if qerr != nil {
			return Member{}, fmt.Errorf("%s name: %w", kind, err)
		}
		name = quoted
	}

	member := Member{
		Kind:    kind,
		Name:    name.Text,
		Keyword: keyword.Loc,
		NameLoc: nameLoc,
		EndLine: nameLoc.Line,
	}
	member.Rest = cur.TextUpTo(isMemberKeyword)
	if last, ok := cur.Last(); ok && last.Line > member.EndLine {
		member.EndLine = last.Line
	}
	return member, nil
}
