package semtok

import (
	"fmt"
	"slices"
	"strconv"
)

// Style is a dense ordinal identifying a lexical category within the legend
// of one moniker. Only equality against the named constants below is meaningful.
type Style uint16

// Procedural ObjectScript styles.
const (
	COSError Style = iota
	COSWhiteSpace
	COSComment
	COSCommand
	COSLocalVariable
	COSDeclaredLocal
	COSPublicVariable
	COSParameter
	COSGlobal
	COSOperator
	COSDelimiter
	COSBrace
	COSNumber
	COSString
	COSLabel
	COSPreprocessor
	COSClassName
	COSMethod
	COSProperty
	COSObjectDot
	COSFunction
	COSMacro
)

// Class definition styles.
const (
	CLSError Style = iota
	CLSWhiteSpace
	CLSComment
	CLSDescription
	CLSKeyword
	CLSClassName
	CLSIdentifier
	CLSDelimiter
	CLSNumber
	CLSString
	CLSOther
)

// Routine header styles. The header line is coloured by pkg/routine rather
// than by the external tokenizer, so this legend is owned here.
const (
	RTNError Style = iota
	RTNWhiteSpace
	RTNKeyword
	RTNName
	RTNDelimiter
	RTNKey
	RTNValue
)

// expectedNames lists the legend names the named constants were written against.
//
//nolint:gochecknoglobals // Read-only lookup table.
var expectedNames = map[Moniker][]string{
	MonikerCOS: {
		"Error", "White Space", "Comment", "Command", "Local Variable",
		"Declared Local Variable", "Public Variable", "Parameter", "Global",
		"Operator", "Delimiter", "Brace", "Number", "String", "Label",
		"Pre-Processor Command", "Class Name", "Method", "Property",
		"Object Dot Operator", "Function", "Macro",
	},
	MonikerCLS: {
		"Error", "White Space", "Comment", "Description", "Keyword",
		"Class Name", "Identifier", "Delimiter", "Number", "String", "Other",
	},
	MonikerRTN: {
		"Error", "White Space", "Keyword", "Routine Name", "Delimiter",
		"Key", "Value",
	},
}

// ErrorStyle is the error style shared by every legend this module reads.
const ErrorStyle Style = 0

// Legend maps each moniker's style ordinals to display names.
type Legend map[Moniker][]string

// DefaultLegend returns the legend the named style constants assume.
func DefaultLegend() Legend {
	legend := make(Legend, len(expectedNames))
	for m, names := range expectedNames {
		legend[m] = slices.Clone(names)
	}
	return legend
}

// Name returns the display name of a style, or a numeric placeholder.
func (l Legend) Name(m Moniker, s Style) string {
	names := l[m]
	if int(s) < len(names) {
		return names[s]
	}
	return "Style(" + strconv.Itoa(int(s)) + ")"
}

// Check compares the legend against the names the style constants were written
// against and reports every mismatch. Monikers absent from the legend are skipped.
func (l Legend) Check() []string {
	var problems []string
	for _, m := range []Moniker{MonikerCOS, MonikerCLS} {
		names, ok := l[m]
		if !ok {
			continue
		}
		for idx, want := range expectedNames[m] {
			if idx >= len(names) {
				problems = append(problems, fmt.Sprintf("%s legend has no style %d (%s)", m, idx, want))
				continue
			}
			if names[idx] != want {
				problems = append(problems,
					fmt.Sprintf("%s style %d is %q, expected %q", m, idx, names[idx], want))
			}
		}
	}
	return problems
}

// Merge returns a copy of l with entries of other added for monikers l lacks.
func (l Legend) Merge(other Legend) Legend {
	out := make(Legend, len(l)+len(other))
	for m, names := range other {
		out[m] = names
	}
	for m, names := range l {
		out[m] = names
	}
	return out
}
