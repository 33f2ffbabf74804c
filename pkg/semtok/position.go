package semtok

import "fmt"

// Position is a 0-based line and UTF-16 column, the editor convention.
type Position struct {
	Line      int `json:"line" yaml:"line"`
	Character int `json:"character" yaml:"character"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Compare returns -1, 0 or 1 as p is before, equal to or after q.
func (p Position) Compare(q Position) int {
	switch {
	case p.Line < q.Line:
		return -1
	case p.Line > q.Line:
		return 1
	case p.Character < q.Character:
		return -1
	case p.Character > q.Character:
		return 1
	default:
		return 0
	}
}

// Before reports whether p sorts strictly before q.
func (p Position) Before(q Position) bool {
	return p.Compare(q) < 0
}

// Range is a half-open span [Start, End) of positions.
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// IsEmpty reports whether the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether pos lies within the range.
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}

// Overlaps reports whether two ranges share any text. Touching ranges do not
// overlap, and an empty range overlaps only a range that strictly contains it.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}
