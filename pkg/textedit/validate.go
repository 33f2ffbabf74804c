package textedit

import (
	"fmt"
	"slices"

	"github.com/yaklabco/cosls/pkg/semtok"
)

// ValidationError reports an edit whose range does not fit the document.
type ValidationError struct {
	Edit   TextEdit
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("edit at %s: %s", e.Edit.Range, e.Reason)
}

// ConflictError reports two edits whose ranges overlap. First starts
// before or at Second.
type ConflictError struct {
	First  TextEdit
	Second TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("edits at %s and %s overlap", e.First.Range, e.Second.Range)
}

// Validate returns a *ValidationError for the first edit whose range is
// negative, inverted, or reaches outside doc.
func Validate(doc *semtok.Document, edits []TextEdit) error {
	for _, edit := range edits {
		if reason := checkRange(doc, edit.Range); reason != "" {
			return &ValidationError{Edit: edit, Reason: reason}
		}
	}
	return nil
}

func checkRange(doc *semtok.Document, r semtok.Range) string {
	switch {
	case r.Start.Line < 0 || r.Start.Character < 0:
		return "negative position"
	case r.End.Before(r.Start):
		return "range ends before it starts"
	}
	for _, pos := range [...]semtok.Position{r.Start, r.End} {
		if _, ok := doc.Offset(pos); !ok {
			return fmt.Sprintf("%s is outside the document", pos)
		}
	}
	return ""
}

// Sort orders edits by range. Insertions at one position keep their order.
func Sort(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if c := a.Range.Start.Compare(b.Range.Start); c != 0 {
			return c
		}
		return a.Range.End.Compare(b.Range.End)
	})
}

// DetectConflicts returns a *ConflictError for the first pair of
// overlapping edits. Ranges that only touch do not conflict. edits must be
// sorted.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.Start.Before(edits[i-1].Range.End) {
			return &ConflictError{First: edits[i-1], Second: edits[i]}
		}
	}
	return nil
}

// Prepare validates edits and returns them sorted and conflict-free. The
// input slice is not modified.
func Prepare(doc *semtok.Document, edits []TextEdit) ([]TextEdit, error) {
	if err := Validate(doc, edits); err != nil {
		return nil, err
	}
	sorted := slices.Clone(edits)
	Sort(sorted)
	if err := DetectConflicts(sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}
