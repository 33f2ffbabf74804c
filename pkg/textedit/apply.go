package textedit

import (
	"strings"

	"github.com/yaklabco/cosls/pkg/semtok"
)

// Apply applies prepared edits to the document text and returns the result.
// Edits must be prepared with Prepare before calling.
func Apply(doc *semtok.Document, edits []TextEdit) string {
	if len(edits) == 0 {
		return doc.Text
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText)
	}

	var out strings.Builder
	out.Grow(len(doc.Text) + delta)

	cursor := 0
	for _, e := range edits {
		start, _ := doc.Offset(e.Range.Start)
		end, _ := doc.Offset(e.Range.End)
		out.WriteString(doc.Text[cursor:start])
		out.WriteString(e.NewText)
		cursor = end
	}
	out.WriteString(doc.Text[cursor:])

	return out.String()
}
