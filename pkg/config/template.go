package config

import (
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}

	return []byte(DefaultTemplateHeader() + `

# Formatting of generated code
format:
  # Width of a tab and of one indent level
  tab_size: 4
  # Indent with spaces instead of tabs
  insert_spaces: false
  # Put each argument on its own line above this many arguments (0 = never)
  multi_line_args: 4
  # Comma placement in multi-line argument lists: trailing or leading
  comma_style: trailing
  # Command keyword case: word, upper, or lower
  command_case: word
  # Command keyword length: long or short
  command_length: long

# Extract method
extract:
  default_name: ExtractedMethod
  # Doc comment for the new method (empty = none)
  doc_stub: Description

# Class dictionary used to resolve inherited class keywords
# metadata:
#   dsn: ./classes.db
#   class_table: "%Dictionary.CompiledClass"
#   timeout_seconds: 5

# Token sidecar files written by the tokenizer
tokens:
  suffix: .tokens.json

# Backups when applying edits
backups:
  enabled: true
  mode: sidecar

# File patterns the check command skips (glob patterns)
# ignore:
#   - "**/generated/**"
`), nil
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(jsonView(NewConfig()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// jsonView mirrors the persisted fields with their YAML key names.
func jsonView(c *Config) map[string]any {
	return map[string]any{
		"format": map[string]any{
			"tab_size":        c.Format.TabSize,
			"insert_spaces":   c.Format.InsertSpaces,
			"multi_line_args": c.Format.MultiLineArgs,
			"comma_style":     c.Format.CommaStyle,
			"command_case":    c.Format.CommandCase,
			"command_length":  c.Format.CommandLength,
		},
		"extract": map[string]any{
			"default_name": c.Extract.DefaultName,
			"doc_stub":     c.Extract.DocStub,
		},
		"tokens": map[string]any{
			"suffix": c.Tokens.Suffix,
		},
		"backups": map[string]any{
			"enabled": c.Backups.Enabled,
			"mode":    c.Backups.Mode,
		},
		"ignore": []string{},
	}
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# cosls configuration
# See: https://github.com/yaklabco/cosls`
}
