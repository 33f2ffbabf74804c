package semtok

import (
	"fmt"
	"strconv"
	"strings"
)

// Moniker identifies the lexical sub-language a token belongs to.
type Moniker uint8

// Monikers known to the tokenizer. Values are part of the tokenizer wire format.
const (
	MonikerNone   Moniker = 0
	MonikerCOS    Moniker = 1 // procedural ObjectScript
	MonikerSQL    Moniker = 2
	MonikerCLS    Moniker = 3 // class definition markup
	MonikerHTML   Moniker = 4
	MonikerJS     Moniker = 5
	MonikerXML    Moniker = 6
	MonikerCSS    Moniker = 7
	MonikerPython Moniker = 8
	MonikerRTN    Moniker = 9 // routine header line, coloured by this module
)

//nolint:gochecknoglobals // Read-only lookup table.
var monikerNames = map[Moniker]string{
	MonikerNone:   "NONE",
	MonikerCOS:    "COS",
	MonikerSQL:    "SQL",
	MonikerCLS:    "CLS",
	MonikerHTML:   "HTML",
	MonikerJS:     "JS",
	MonikerXML:    "XML",
	MonikerCSS:    "CSS",
	MonikerPython: "PYTHON",
	MonikerRTN:    "RTN",
}

func (m Moniker) String() string {
	if name, ok := monikerNames[m]; ok {
		return name
	}
	return "Moniker(" + strconv.Itoa(int(m)) + ")"
}

// ParseMoniker accepts either a moniker name ("COS") or its decimal value ("1").
func ParseMoniker(s string) (Moniker, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return MonikerNone, fmt.Errorf("moniker %d out of range", n)
		}
		return Moniker(n), nil
	}
	upper := strings.ToUpper(strings.TrimSpace(s))
	for m, name := range monikerNames {
		if name == upper {
			return m, nil
		}
	}
	return MonikerNone, fmt.Errorf("unknown moniker %q", s)
}
