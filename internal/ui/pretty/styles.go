// Package pretty renders cosls results for terminals with Lipgloss.
package pretty

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Color modes accepted by the --color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// fallbackWidth is used when the writer is not a terminal.
const fallbackWidth = 100

// ANSI palette indices.
const (
	ansiRed    = "9"
	ansiGreen  = "10"
	ansiYellow = "11"
	ansiBlue   = "12"
	ansiCyan   = "14"
	ansiGrey   = "8"
	ansiLight  = "7"
)

// Styles holds the renderers shared by the report, diff, summary and table
// formatters.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles builds the style set. With color disabled every style renders
// its input unchanged.
func NewStyles(colorEnabled bool) *Styles {
	plain := lipgloss.NewStyle()
	fg := func(code string) lipgloss.Style {
		if !colorEnabled {
			return plain
		}
		return plain.Foreground(lipgloss.Color(code))
	}
	strong := func(style lipgloss.Style) lipgloss.Style {
		if !colorEnabled {
			return style
		}
		return style.Bold(true)
	}
	// Diff lines keep their tabs so the output still applies as a patch.
	verbatim := func(style lipgloss.Style) lipgloss.Style {
		return style.TabWidth(lipgloss.NoTabConversion)
	}

	return &Styles{
		Error:   strong(fg(ansiRed)),
		Warning: strong(fg(ansiYellow)),
		Info:    strong(fg(ansiBlue)),

		FilePath:   strong(plain),
		Location:   fg(ansiGrey),
		Message:    plain,
		SourceLine: fg(ansiLight),

		DiffHeader:  verbatim(strong(plain)),
		DiffHunk:    verbatim(fg(ansiCyan)),
		DiffAdd:     verbatim(fg(ansiGreen)),
		DiffRemove:  verbatim(fg(ansiRed)),
		DiffContext: verbatim(fg(ansiGrey)),

		SummaryTitle: strong(plain),
		SummaryValue: plain,
		Success:      strong(fg(ansiGreen)),
		Failure:      strong(fg(ansiRed)),

		TableHeader:    strong(fg(ansiLight)),
		TableErrorRow:  fg(ansiRed),
		TableWarnRow:   fg(ansiYellow),
		TableSeparator: fg(ansiGrey),

		Dim:  fg(ansiGrey),
		Bold: strong(plain),
	}
}

// ParseColorMode validates a --color value. Empty means auto.
func ParseColorMode(mode string) (string, error) {
	switch mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid color mode %q: must be one of auto, always, never", mode)
	}
}

// IsColorEnabled resolves a color mode for writer. In auto mode color needs
// a terminal and an unset NO_COLOR (https://no-color.org/).
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// TerminalWidth returns the column count of the terminal behind writer.
func TerminalWidth(writer io.Writer) int {
	if f, ok := writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return fallbackWidth
}
