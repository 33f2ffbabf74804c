// Package doctype decides what kind of ObjectScript document a file holds.
// It uses go-enry for the ambiguous .cls extension, which several other
// languages share, and the routine header line for routine files.
package doctype

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/cosls/pkg/routine"
)

// Kind is a document kind.
type Kind string

const (
	Unknown      Kind = ""
	Class        Kind = "class"
	Routine      Kind = "routine"
	Intermediate Kind = "intermediate"
	Include      Kind = "include"
)

// enryLanguage is the linguist name for class definitions.
const enryLanguage = "ObjectScript"

//nolint:gochecknoglobals // Read-only lookup table.
var routineTypes = map[string]Kind{
	"MAC": Routine,
	"INT": Intermediate,
	"INC": Include,
}

// Detect returns the kind of the document at path with the given content.
func Detect(path string, content []byte) Kind {
	if kind, ok := fromHeader(content); ok {
		return kind
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".cls":
		if enry.GetLanguage(filepath.Base(path), content) == enryLanguage || looksLikeClass(content) {
			return Class
		}
		return Unknown
	case ".mac":
		return Routine
	case ".int":
		return Intermediate
	case ".inc":
		return Include
	}
	return Unknown
}

// IsSource reports whether path has an extension Detect may accept.
func IsSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cls", ".mac", ".int", ".inc":
		return true
	default:
		return false
	}
}

// fromHeader reads the routine type from a valid ROUTINE header line.
func fromHeader(content []byte) (Kind, bool) {
	first, _, _ := bytes.Cut(content, []byte("\n"))
	text := strings.TrimRight(string(first), "\r")
	if !routine.IsHeaderLine(text) {
		return Unknown, false
	}
	res := routine.Parse(text)
	if res.Header == nil {
		return Unknown, false
	}
	if res.Header.Type == "" {
		return Routine, true
	}
	kind, ok := routineTypes[strings.ToUpper(res.Header.Type)]
	return kind, ok
}

// looksLikeClass reports whether the first non-comment line opens a class.
func looksLikeClass(content []byte) bool {
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, "///"), strings.HasPrefix(line, "//"),
			strings.HasPrefix(strings.ToLower(line), "import "), strings.HasPrefix(strings.ToLower(line), "include "):
			continue
		}
		fields := strings.Fields(line)
		return len(fields) >= 2 && strings.EqualFold(fields[0], "class")
	}
	return false
}
