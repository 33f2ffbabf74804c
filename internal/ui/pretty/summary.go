package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/cosls/pkg/workspace"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatSummaryOneLine formats check statistics as a single line.
// Example: "2 of 12 files with errors".
func (s *Styles) FormatSummaryOneLine(stats workspace.CheckStats) string {
	if stats.FilesWithErrors == 0 {
		return s.Success.Render("No errors found") +
			s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesChecked, wordFile, wordFiles))) + "\n"
	}

	fileWord := wordFiles
	if stats.FilesChecked == 1 {
		fileWord = wordFile
	}
	return s.Failure.Render(strconv.Itoa(stats.FilesWithErrors)) +
		fmt.Sprintf(" of %d %s with errors\n", stats.FilesChecked, fileWord)
}

// FormatSummary formats check statistics as a summary block.
func (s *Styles) FormatSummary(stats workspace.CheckStats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesChecked)) + "\n")
	if stats.FilesWithErrors > 0 {
		builder.WriteString("  Files with errors: " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithErrors)) + "\n")
	}

	builder.WriteString("\n")
	if stats.FilesWithErrors > 0 {
		builder.WriteString(s.Failure.Render("Check failed"))
	} else {
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
