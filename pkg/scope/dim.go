package scope

import (
	"strings"

	"github.com/yaklabco/cosls/pkg/semtok"
)

// dimLine is a parsed #Dim declaration.
type dimLine struct {
	line  int
	names []string
	locs  []semtok.Loc
	typ   string

	// init is the index of the "=" token of an initializer, or -1.
	init int

	// first and last bound the declared-name list.
	first, last int
}

// parseDim parses the #Dim directive at token index at.
func parseDim(ls lineScan, at int) *dimLine {
	decl := &dimLine{line: ls.line, init: -1, first: -1}
	i := at + 1
	for {
		i = ls.skipWhite(i, len(ls.toks))
		if i >= len(ls.toks) || !IsVariable(ls.toks[i]) {
			break
		}
		if decl.first < 0 {
			decl.first = i
		}
		decl.last = i
		decl.names = append(decl.names, ls.text(i))
		decl.locs = append(decl.locs, ls.loc(i))
		i = ls.skipWhite(i+1, len(ls.toks))
		if !ls.isDelim(i, ",") {
			break
		}
		i++
	}
	if len(decl.names) == 0 {
		return nil
	}

	if i < len(ls.toks) && strings.EqualFold(ls.text(i), "as") {
		start := ls.skipWhite(i+1, len(ls.toks))
		end := start
		for end < len(ls.toks) && !ls.is(end, semtok.COSOperator, "=") && ls.toks[end].Style != semtok.COSComment {
			end++
		}
		if start < end {
			decl.typ = strings.TrimSpace(ls.doc.Slice(ls.line, ls.toks[start].Pos, ls.toks[end-1].End()))
		}
		i = end
	}
	i = ls.skipWhite(i, len(ls.toks))
	if ls.is(i, semtok.COSOperator, "=") {
		decl.init = i
	}
	return decl
}

// findDim returns the #Dim declaration on line, if any.
func findDim(doc *semtok.Document, line int) *dimLine {
	ls := scanLine(doc, line)
	for i := range ls.toks {
		if ls.is(i, semtok.COSPreprocessor, dimDirective) {
			return parseDim(ls, i)
		}
	}
	return nil
}

// without rewrites the declaration's line with the given names removed.
// It reports false when no name would remain.
func (d *dimLine) without(doc *semtok.Document, removed map[string]bool) (string, bool) {
	var kept []string
	for _, name := range d.names {
		if !removed[name] {
			kept = append(kept, name)
		}
	}
	if len(kept) == 0 {
		return "", false
	}

	ls := scanLine(doc, d.line)
	start, end := ls.toks[d.first].Pos, ls.toks[d.last].End()
	listText := doc.Slice(d.line, start, end)
	sep := ","
	if strings.Contains(listText, ", ") {
		sep = ", "
	}

	prefix := doc.Slice(d.line, 0, start)
	suffix := doc.Slice(d.line, end, doc.LineLen(d.line))
	return prefix + strings.Join(kept, sep) + suffix, true
}
