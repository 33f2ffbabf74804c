package extract

import (
	"strings"

	"github.com/yaklabco/cosls/pkg/scope"
)

// isLabelLine reports whether a line starts in column 0, which in method
// code means it carries a label.
func isLabelLine(text string) bool {
	return text != "" && text[0] != ' ' && text[0] != '\t'
}

// firstCodeLine returns the first line of the range that is neither blank
// nor a label line, or the range start if there is none.
func (r *renderer) firstCodeLine() int {
	for line := r.req.StartLine; line <= r.req.EndLine; line++ {
		text := r.doc.LineText(line)
		if strings.TrimSpace(text) != "" && !isLabelLine(text) {
			return line
		}
	}
	return r.req.StartLine
}

// body renders the range one level deep, with #Dim edits applied and new
// declarations on top.
func (r *renderer) body() []string {
	format := r.opts.Format
	unit := format.Width(format.Indent(1))
	base := format.Width(r.doc.Indentation(r.firstCodeLine()))

	edits := make(map[int]scope.DimEdit, len(r.res.DimEdits))
	for _, e := range r.res.DimEdits {
		edits[e.Line] = e
	}

	var lines []string
	for _, d := range r.res.NewDims {
		lines = append(lines, format.Indent(1)+dimText(format, d))
	}

	for line := r.req.StartLine; line <= r.req.EndLine; line++ {
		text := r.doc.LineText(line)
		if e, ok := edits[line]; ok {
			if e.Delete {
				continue
			}
			text = e.Text
		}
		switch {
		case strings.TrimSpace(text) == "":
			lines = append(lines, "")
		case isLabelLine(text):
			lines = append(lines, text)
		default:
			trimmed := strings.TrimLeft(text, " \t")
			width := format.Width(text[:len(text)-len(trimmed)])
			lines = append(lines, format.IndentWidth(unit+max(width-base, 0))+trimmed)
		}
	}
	return lines
}
