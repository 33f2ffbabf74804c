package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/yaklabco/cosls/pkg/routine"
	"github.com/yaklabco/cosls/pkg/tokenizer"
	"github.com/yaklabco/cosls/pkg/workspace"
)

// ReportDetail describes a checked file in a few words.
func ReportDetail(report workspace.FileReport) string {
	var parts []string
	switch {
	case errors.Is(report.Err, tokenizer.ErrNoTokens):
		parts = append(parts, "no token file")
	case report.Err != nil:
		parts = append(parts, report.Err.Error())
	}
	if report.HeaderError != nil {
		parts = append(parts, "header: "+report.HeaderError.Error())
	}
	if report.LexicalErrors > 0 {
		parts = append(parts, plural(report.LexicalErrors, "lexical error", "lexical errors"))
	}
	if len(parts) > 0 {
		return strings.Join(parts, "; ")
	}

	switch {
	case report.Class != "":
		return fmt.Sprintf("class %s, %s", report.Class, plural(report.Members, "member", "members"))
	case report.Header != nil:
		detail := "routine " + report.Header.Name
		if report.Header.Type != "" {
			detail += " [Type=" + report.Header.Type + "]"
		}
		return detail
	default:
		return ""
	}
}

// FormatFileReport formats one checked file as a single line.
func (s *Styles) FormatFileReport(report workspace.FileReport) string {
	status := s.Success.Render("ok")
	if !report.OK() {
		status = s.Failure.Render("FAIL")
	}

	line := fmt.Sprintf("  %s  %s", status, s.FilePath.Render(report.Path))
	if detail := ReportDetail(report); detail != "" {
		style := s.Dim
		if !report.OK() {
			style = s.Message
		}
		line += "  " + style.Render(detail)
	}
	return line + "\n"
}

// excerptMarker is the width of the underline drawn under a header error.
const excerptMarker = 3

// HeaderExcerpt renders a header grammar error under the offending line:
//
//	0 | ROUTINE Foo [Type=XYZ]
//	  |                   ^~~
//	column 19: unknown routine type "XYZ"
func HeaderExcerpt(line string, gerr *routine.GrammarError, colorEnabled bool) string {
	if gerr == nil {
		return ""
	}

	red := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)
	if colorEnabled {
		red.EnableColor()
		dim.EnableColor()
	} else {
		red.DisableColor()
		dim.DisableColor()
	}

	column := min(max(gerr.Column, 0), len(line))
	underline := min(excerptMarker, max(len(line)-column, 1))

	const prefix = "0 | "
	var builder strings.Builder
	builder.WriteString(dim.Sprint(prefix))
	builder.WriteString(line)
	builder.WriteString("\n")
	builder.WriteString(dim.Sprint("  | "))
	builder.WriteString(strings.Repeat(" ", column))
	builder.WriteString(red.Sprint("^" + strings.Repeat("~", underline-1)))
	builder.WriteString("\n")
	builder.WriteString(red.Sprint(gerr.Error()))
	builder.WriteString("\n")
	return builder.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
