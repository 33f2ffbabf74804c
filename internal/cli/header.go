package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cosls/internal/ui/pretty"
	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/routine"
)

// headerView is the structured form of a header check.
type headerView struct {
	Header  *routine.Header       `json:"header,omitempty" yaml:"header,omitempty"`
	Variant string                `json:"variant" yaml:"variant"`
	Error   *routine.GrammarError `json:"error,omitempty" yaml:"error,omitempty"`
}

func newHeaderCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "header FILE",
		Short: "Check the ROUTINE header line of a routine",
		Long: `Parse the ROUTINE header on the first line of a routine and report its
name, type, language mode and generated flag, or the first grammar error
with the column it occurred at.

Exits with status 1 when the header is invalid.`,
		Example: `  cosls header MyRoutine.mac
  cosls header -o yaml MyRoutine.int`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(output, config.OutputText, config.OutputJSON, config.OutputYAML)
			if err != nil {
				return err
			}
			return runHeader(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: text, json, yaml")

	return cmd
}

func runHeader(cmd *cobra.Command, path string, format config.OutputFormat) error {
	sess, err := newSession(cmd, &config.Config{Output: format})
	if err != nil {
		return err
	}
	defer sess.Close()

	doc, _, err := sess.open(path)
	if err != nil {
		return err
	}
	result, err := sess.service.RoutineHeader(sess.ctx, doc.URI, doc.Version)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result == nil {
		_, err := fmt.Fprintf(out, "%s: no ROUTINE header\n", path)
		return err
	}

	if sess.cfg.Output == config.OutputJSON || sess.cfg.Output == config.OutputYAML {
		view := headerView{Header: result.Header, Variant: result.Header.Variant().String(), Error: result.Err}
		if err := writeStructured(out, sess.cfg.Output, view); err != nil {
			return err
		}
	} else {
		printHeader(cmd, doc.LineText(0), result)
	}

	if result.Err != nil {
		return ErrHeaderInvalid
	}
	return nil
}

func printHeader(cmd *cobra.Command, line string, result *routine.Result) {
	out := cmd.OutOrStdout()
	if result.Err != nil {
		fmt.Fprint(out, pretty.HeaderExcerpt(line, result.Err, colorEnabled(cmd)))
		return
	}

	hdr := result.Header
	fmt.Fprintf(out, "name:      %s\n", hdr.Name)
	if hdr.Type != "" {
		fmt.Fprintf(out, "type:      %s\n", hdr.Type)
	}
	if hdr.LanguageMode != nil {
		fmt.Fprintf(out, "language:  %d\n", *hdr.LanguageMode)
	}
	if hdr.Generated {
		fmt.Fprintln(out, "generated: yes")
	}
	fmt.Fprintf(out, "variant:   %s\n", hdr.Variant())
}
