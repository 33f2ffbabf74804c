package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/cosls/internal/configloader"
	"github.com/yaklabco/cosls/internal/ui/pretty"
)

// HelpStyles holds the Lipgloss styles used when rendering command help.
type HelpStyles struct {
	Heading lipgloss.Style
	Command lipgloss.Style
	Flag    lipgloss.Style
	Dim     lipgloss.Style
}

// NewHelpStyles returns help styles, plain when color is disabled.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{Heading: plain, Command: plain, Flag: plain, Dim: plain}
	}
	return &HelpStyles{
		Heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help for a command tree. The color mode is
// read from the --color flag each time help is printed.
type HelpFormatter struct {
	colorFlag string
}

// NewHelpFormatter creates a formatter that consults the named color flag.
func NewHelpFormatter(colorFlag string) *HelpFormatter {
	return &HelpFormatter{colorFlag: colorFlag}
}

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}{{end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ command (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{end}}
{{- if not .HasParent}}

{{ heading "Environment:" }}
{{ environment }}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{ .CommandPath }} [command] --help" for more information about a command.{{end}}
`

func (h *HelpFormatter) funcs(styles *HelpStyles) template.FuncMap {
	return template.FuncMap{
		"heading":     styles.Heading.Render,
		"command":     styles.Command.Render,
		"dim":         styles.Dim.Render,
		"rpad":        rpad,
		"trimRight":   trimTrailingWhitespaces,
		"flags":       func(fs *pflag.FlagSet) string { return styleFlagUsages(styles, fs.FlagUsages()) },
		"environment": func() string { return environmentHelp(styles) },
	}
}

func (h *HelpFormatter) render(w io.Writer, cmd *cobra.Command) error {
	mode, _ := cmd.Flags().GetString(h.colorFlag)
	styles := NewHelpStyles(pretty.IsColorEnabled(mode, w))

	tmpl, err := template.New("help").Funcs(h.funcs(styles)).Parse(helpTemplate)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	return tmpl.Execute(w, cmd)
}

// ApplyToCommand installs the styled help and usage functions on cmd. Cobra
// inherits them down the command tree.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.render(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.render(command.OutOrStderr(), command)
	})
}

// styleFlagUsages colors the flag names in pflag's usage block, leaving the
// alignment pflag computed untouched.
func styleFlagUsages(styles *HelpStyles, usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if !strings.HasPrefix(trimmed, "-") {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		name, rest, _ := strings.Cut(trimmed, "   ")
		fields := strings.Fields(name)
		for j, field := range fields {
			if strings.HasPrefix(field, "-") {
				clean := strings.TrimSuffix(field, ",")
				fields[j] = styles.Flag.Render(clean) + strings.TrimPrefix(field, clean)
			} else {
				fields[j] = styles.Dim.Render(field)
			}
		}
		lines[i] = indent + strings.Join(fields, " ") + "   " + rest
	}
	return strings.Join(lines, "\n")
}

func environmentHelp(styles *HelpStyles) string {
	vars := configloader.ListEnvVars()
	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}
	var b strings.Builder
	for i, v := range vars {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %s %s", styles.Flag.Render(rpad(v.Name, width)), v.Description)
	}
	return b.String()
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
