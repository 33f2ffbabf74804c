package pretty

import (
	"strings"

	"github.com/yaklabco/cosls/pkg/textedit"
)

// FormatDiff colours a unified diff line by line.
func (s *Styles) FormatDiff(diff *textedit.Diff) string {
	if !diff.HasChanges() {
		return ""
	}

	var builder strings.Builder
	for _, line := range strings.SplitAfter(diff.Text, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			builder.WriteString(s.DiffHeader.Render(body))
		case strings.HasPrefix(body, "@@"):
			builder.WriteString(s.DiffHunk.Render(body))
		case strings.HasPrefix(body, "+"):
			builder.WriteString(s.DiffAdd.Render(body))
		case strings.HasPrefix(body, "-"):
			builder.WriteString(s.DiffRemove.Render(body))
		default:
			builder.WriteString(s.DiffContext.Render(body))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}
