package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/cosls/pkg/semtok"
	"github.com/yaklabco/cosls/pkg/workspace"
)

// Table formatting constants.
const (
	defaultTermWidth = 100
	tablePadding     = 2
	tokenColumnCount = 5 // LOC, LANG, STYLE, TEXT, NOTE
	checkColumnCount = 4 // FILE, KIND, STATUS, DETAIL
	minLocWidth      = 6
	minLangWidth     = 4
	minStyleWidth    = 12
	minTextWidth     = 16
	minNoteWidth     = 4
	minFileWidth     = 20
	minKindWidth     = 8
	statusWidth      = 6
	heavySeparator   = "="
	lightSeparator   = "-"
)

// TokenRow is one token of the token table.
type TokenRow struct {
	Location string
	Lang     string
	Style    string
	Text     string
	Note     string
	Error    bool
	Warning  bool
}

// TableFormatter formats token grids and check results as styled tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// TokenRows flattens the token grid of doc into table rows. Locations are
// 1-based line:column; style names come from legend.
func TokenRows(doc *semtok.Document, legend semtok.Legend) [][]TokenRow {
	groups := make([][]TokenRow, 0, len(doc.Lines))
	for lineIdx, line := range doc.Lines {
		if len(line) == 0 {
			continue
		}
		rows := make([]TokenRow, 0, len(line))
		for _, tok := range line {
			row := TokenRow{
				Location: fmt.Sprintf("%d:%d", lineIdx+1, tok.Pos+1),
				Lang:     tok.Lang.String(),
				Style:    legend.Name(tok.Lang, tok.Style),
				Text:     strconv.Quote(doc.TokenText(lineIdx, tok)),
				Error:    tok.IsError(),
				Warning:  tok.Warning,
			}
			switch {
			case tok.Err != "":
				row.Note = tok.Err
			case tok.Warning:
				row.Note = "warning"
			}
			rows = append(rows, row)
		}
		groups = append(groups, rows)
	}
	return groups
}

type tokenColumnWidths struct {
	loc   int
	lang  int
	style int
	text  int
	note  int
}

// FormatTokens formats the token grid of doc, one group per source line.
func (t *TableFormatter) FormatTokens(doc *semtok.Document, legend semtok.Legend) string {
	groups := TokenRows(doc, legend)
	if len(groups) == 0 {
		return ""
	}

	widths := t.tokenWidths(groups)

	var builder strings.Builder
	builder.WriteString(t.styles.TableHeader.Render(fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s",
		widths.loc, "LOC",
		widths.lang, "LANG",
		widths.style, "STYLE",
		widths.text, "TEXT",
		widths.note, "NOTE",
	)))
	builder.WriteString("\n")
	builder.WriteString(t.separator(tokenTotal(widths), heavySeparator))
	builder.WriteString("\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.separator(tokenTotal(widths), lightSeparator))
			builder.WriteString("\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatTokenRow(row, widths))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(t.separator(tokenTotal(widths), heavySeparator))
	builder.WriteString("\n")
	return builder.String()
}

func (t *TableFormatter) tokenWidths(groups [][]TokenRow) tokenColumnWidths {
	widths := tokenColumnWidths{
		loc:   minLocWidth,
		lang:  minLangWidth,
		style: minStyleWidth,
		text:  minTextWidth,
		note:  minNoteWidth,
	}
	for _, group := range groups {
		for _, row := range group {
			widths.loc = max(widths.loc, len(row.Location))
			widths.lang = max(widths.lang, len(row.Lang))
			widths.style = max(widths.style, len(row.Style))
			widths.text = max(widths.text, len(row.Text))
			widths.note = max(widths.note, len(row.Note))
		}
	}

	// Constrain to terminal width, shrinking the text column first.
	if total := tokenTotal(widths); total > t.termWidth {
		excess := total - t.termWidth
		widths.text = max(minTextWidth, widths.text-excess)
		if total = tokenTotal(widths); total > t.termWidth {
			widths.note = max(minNoteWidth, widths.note-(total-t.termWidth))
		}
	}
	return widths
}

func tokenTotal(widths tokenColumnWidths) int {
	return widths.loc + widths.lang + widths.style + widths.text + widths.note + tablePadding*tokenColumnCount
}

func (t *TableFormatter) formatTokenRow(row TokenRow, widths tokenColumnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %s",
		widths.loc, row.Location,
		widths.lang, row.Lang,
		widths.style, truncateString(row.Style, widths.style),
		widths.text, truncateString(row.Text, widths.text),
		truncateString(row.Note, widths.note),
	)
	return t.rowStyle(row.Error, row.Warning).Render(content)
}

func (t *TableFormatter) rowStyle(isError, isWarning bool) lipgloss.Style {
	switch {
	case isError:
		return t.styles.TableErrorRow
	case isWarning:
		return t.styles.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

type checkColumnWidths struct {
	file   int
	kind   int
	detail int
}

// FormatCheck formats a check run as a table with one row per file.
func (t *TableFormatter) FormatCheck(result *workspace.CheckResult) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	widths := checkColumnWidths{file: minFileWidth, kind: minKindWidth, detail: minTextWidth}
	for _, report := range result.Files {
		widths.file = max(widths.file, len(report.Path))
		widths.kind = max(widths.kind, len(kindName(report)))
		widths.detail = max(widths.detail, len(ReportDetail(report)))
	}
	total := func() int {
		return widths.file + widths.kind + statusWidth + widths.detail + tablePadding*checkColumnCount
	}
	if total() > t.termWidth {
		widths.detail = max(minTextWidth, widths.detail-(total()-t.termWidth))
		if total() > t.termWidth {
			widths.file = max(minFileWidth, widths.file-(total()-t.termWidth))
		}
	}

	var builder strings.Builder
	builder.WriteString(t.styles.TableHeader.Render(fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s",
		widths.file, "FILE",
		widths.kind, "KIND",
		statusWidth, "STATUS",
		widths.detail, "DETAIL",
	)))
	builder.WriteString("\n")
	builder.WriteString(t.separator(total(), heavySeparator))
	builder.WriteString("\n")

	for _, report := range result.Files {
		status := "ok"
		if !report.OK() {
			status = "FAIL"
		}
		content := fmt.Sprintf(" %-*s  %-*s  %-*s  %s",
			widths.file, truncateFilePath(report.Path, widths.file),
			widths.kind, kindName(report),
			statusWidth, status,
			truncateString(ReportDetail(report), widths.detail),
		)
		builder.WriteString(t.rowStyle(!report.OK(), false).Render(content))
		builder.WriteString("\n")
	}

	builder.WriteString(t.separator(total(), heavySeparator))
	builder.WriteString("\n")
	return builder.String()
}

func (t *TableFormatter) separator(width int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, width))
}

func kindName(report workspace.FileReport) string {
	if report.Kind == "" {
		return "unknown"
	}
	return string(report.Kind)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
