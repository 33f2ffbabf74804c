package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cosls/internal/ui/pretty"
	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/semtok"
)

func newTokensCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Show the token grid of a source file",
		Long: `Show the tokens the tokenizer produced for a source file, one row per
token with its 1-based line:column, language, style and text.

Token data is read from the sidecar file written by the tokenizer
(FILE.tokens.json by default, see tokens.suffix). A routine header on the
first line is re-coloured by cosls itself.

Output formats:
  text   Token table (default)
  json   The tokenizer wire format, with the routine header applied
  yaml   One entry per token`,
		Example: `  cosls tokens Demo.Util.cls
  cosls tokens -o json MyRoutine.mac`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(output, config.OutputText, config.OutputJSON, config.OutputYAML)
			if err != nil {
				return err
			}
			return runTokens(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: text, json, yaml")

	return cmd
}

func runTokens(cmd *cobra.Command, path string, format config.OutputFormat) error {
	sess, err := newSession(cmd, &config.Config{Output: format})
	if err != nil {
		return err
	}
	defer sess.Close()

	doc, _, err := sess.open(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	legend := semtok.DefaultLegend()

	switch sess.cfg.Output {
	case config.OutputJSON:
		data, err := semtok.EncodeTokenized(&semtok.Tokenized{Lines: doc.Lines, Legend: legend})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", data)
		return err
	case config.OutputYAML:
		var rows []pretty.TokenRow
		for _, group := range pretty.TokenRows(doc, legend) {
			rows = append(rows, group...)
		}
		return writeStructured(out, config.OutputYAML, rows)
	default:
		formatter := pretty.NewTableFormatter(pretty.NewStyles(colorEnabled(cmd)), pretty.TerminalWidth(out))
		_, err = fmt.Fprint(out, formatter.FormatTokens(doc, legend))
		return err
	}
}
