// Package clsast builds a shallow syntax tree over a class definition:
//
//	header      := "class" classname premembertext
//	classname   := namepart ("." namepart)*
//	member      := memberKeyword identifier restofmembertext
//
// Pre-member and member texts are captured verbatim up to the next member
// keyword and are not parsed further.
//
// Parse must only be called on documents free of lexical errors. It has no
// error recovery; calling it on a document with error tokens is a caller bug.
package clsast

import (
	"strings"

	"github.com/yaklabco/cosls/pkg/semtok"
)

// MemberKind is the keyword that introduces a class member.
type MemberKind string

// Member kinds, spelled as they conventionally appear in source.
const (
	KindMethod       MemberKind = "Method"
	KindClassMethod  MemberKind = "ClassMethod"
	KindProperty     MemberKind = "Property"
	KindParameter    MemberKind = "Parameter"
	KindForeignKey   MemberKind = "ForeignKey"
	KindRelationship MemberKind = "Relationship"
	KindProjection   MemberKind = "Projection"
	KindXData        MemberKind = "XData"
	KindIndex        MemberKind = "Index"
	KindTrigger      MemberKind = "Trigger"
)

//nolint:gochecknoglobals // Read-only lookup table.
var memberKinds = map[string]MemberKind{
	"method":       KindMethod,
	"classmethod":  KindClassMethod,
	"property":     KindProperty,
	"parameter":    KindParameter,
	"foreignkey":   KindForeignKey,
	"relationship": KindRelationship,
	"projection":   KindProjection,
	"xdata":        KindXData,
	"index":        KindIndex,
	"trigger":      KindTrigger,
}

// LookupKind returns the member kind for a keyword, case-insensitively.
func LookupKind(keyword string) (MemberKind, bool) {
	kind, ok := memberKinds[strings.ToLower(keyword)]
	return kind, ok
}

// IsMethod reports whether the kind declares executable code.
func (k MemberKind) IsMethod() bool {
	return k == KindMethod || k == KindClassMethod
}

// Header is the class declaration.
type Header struct {
	// Name is the full dotted class name.
	Name string `json:"name" yaml:"name"`

	// PreMemberText is the verbatim text between the class name and the first member.
	PreMemberText string `json:"preMemberText" yaml:"premembertext"`

	// Keyword locates the "class" keyword token.
	Keyword semtok.Loc `json:"-" yaml:"-"`
}

// Member is one class member.
type Member struct {
	Kind MemberKind `json:"kind" yaml:"kind"`
	Name string     `json:"name" yaml:"name"`

	// Rest is the verbatim text after the name up to the next member keyword.
	Rest string `json:"rest" yaml:"rest"`

	// Keyword locates the member keyword token.
	Keyword semtok.Loc `json:"-" yaml:"-"`

	// NameLoc locates the member name token.
	NameLoc semtok.Loc `json:"-" yaml:"-"`

	// EndLine is the line of the last token belonging to the member.
	EndLine int `json:"endLine" yaml:"endline"`
}

// StartLine returns the line of the member keyword.
func (m *Member) StartLine() int {
	return m.Keyword.Line
}

// Class is the shallow syntax tree of a class document.
type Class struct {
	// Preamble is the verbatim text before the class keyword (Include, Import, descriptions).
	Preamble string   `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Header   Header   `json:"header" yaml:"header"`
	Members  []Member `json:"members" yaml:"members"`
}

// MemberAt returns the member whose line span contains line.
func (c *Class) MemberAt(line int) (*Member, bool) {
	for i := range c.Members {
		m := &c.Members[i]
		if line >= m.StartLine() && line <= m.EndLine {
			return m, true
		}
	}
	return nil, false
}

// Lookup returns the first member of the given kind and name (case-sensitive).
func (c *Class) Lookup(kind MemberKind, name string) (*Member, bool) {
	for i := range c.Members {
		if c.Members[i].Kind == kind && c.Members[i].Name == name {
			return &c.Members[i], true
		}
	}
	return nil, false
}
