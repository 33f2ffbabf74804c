package textedit

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// Diff is a unified diff between two versions of a file.
type Diff struct {
	Path      string
	Text      string
	Additions int
	Deletions int
}

// HasChanges reports whether the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && (d.Additions > 0 || d.Deletions > 0)
}

// GenerateDiff creates a unified diff between original and modified text.
// Returns nil if there are no changes.
func GenerateDiff(path, original, modified string) (*Diff, error) {
	if original == modified {
		return nil, nil //nolint:nilnil // No diff is not an error.
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  contextLines,
	})
	if err != nil {
		return nil, err
	}

	diff := &Diff{Path: path, Text: text}
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			diff.Additions++
		case strings.HasPrefix(line, "-"):
			diff.Deletions++
		}
	}
	return diff, nil
}
