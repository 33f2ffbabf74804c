package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cosls/pkg/clsast"
	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/semtok"
)

func newASTCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "ast FILE",
		Short: "Show the member structure of a class definition",
		Long: `Parse a class definition into its header and members and print them.

The class tree is only built for documents without lexical errors; a file
the tokenizer flagged is rejected.`,
		Example: `  cosls ast Demo.Util.cls
  cosls ast -o yaml Demo.Util.cls`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(output, config.OutputText, config.OutputJSON, config.OutputYAML)
			if err != nil {
				return err
			}
			return runAST(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: text, json, yaml")

	return cmd
}

func runAST(cmd *cobra.Command, path string, format config.OutputFormat) error {
	sess, err := newSession(cmd, &config.Config{Output: format})
	if err != nil {
		return err
	}
	defer sess.Close()

	doc, _, err := sess.open(path)
	if err != nil {
		return err
	}
	class, err := sess.service.ClassAST(sess.ctx, doc.URI, doc.Version)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sess.cfg.Output == config.OutputJSON || sess.cfg.Output == config.OutputYAML {
		return writeStructured(out, sess.cfg.Output, class)
	}
	printClass(out, doc, class)
	return nil
}

// printClass writes one line per member with its 1-based line span.
func printClass(out io.Writer, doc *semtok.Document, class *clsast.Class) {
	fmt.Fprintf(out, "Class %s", class.Header.Name)
	if kw := clsast.ParseClassKeywords(doc, class); len(kw) > 0 {
		fmt.Fprintf(out, " %s", formatKeywords(kw))
	}
	fmt.Fprintln(out)

	width := 0
	for _, m := range class.Members {
		width = max(width, len(m.Kind))
	}
	for i := range class.Members {
		m := &class.Members[i]
		name := m.Name
		if m.Kind.IsMethod() {
			if spec, err := clsast.ParseFormalSpec(doc, m); err == nil {
				name += formatArgs(spec)
			}
		}
		if kw := clsast.ParseKeywords(doc, m); len(kw) > 0 {
			name += " " + formatKeywords(kw)
		}
		fmt.Fprintf(out, "  %-*s %s  (%d-%d)\n", width, m.Kind, name, m.StartLine()+1, m.EndLine+1)
	}
}

func formatArgs(spec clsast.FormalSpec) string {
	parts := make([]string, len(spec))
	for i, arg := range spec {
		var b strings.Builder
		if mode := arg.Mode.String(); mode != "" {
			b.WriteString(mode + " ")
		}
		b.WriteString(arg.Name)
		if arg.Variadic {
			b.WriteString("...")
		}
		if arg.Type != "" {
			b.WriteString(" As " + arg.Type)
		}
		if arg.Default != "" {
			b.WriteString(" = " + arg.Default)
		}
		parts[i] = b.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatKeywords(kw clsast.Keywords) string {
	parts := make([]string, len(kw))
	for i, entry := range kw {
		text := entry.Name
		if entry.Not {
			text = "Not " + text
		}
		if entry.Value != "" {
			text += " = " + entry.Value
		}
		parts[i] = text
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}
