package configloader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/extract"
	"github.com/yaklabco/cosls/pkg/fsutil"
	"github.com/yaklabco/cosls/pkg/metadata"
)

// maxTabSize bounds format.tab_size.
const maxTabSize = 16

// ValidationError is one invalid configuration value. FilePath and Line
// are set when the value came from a file.
type ValidationError struct {
	Field    string
	Value    any
	Message  string
	FilePath string
	Line     int
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.FilePath != "" {
		b.WriteString(e.FilePath)
		if e.Line > 0 {
			b.WriteString(":" + strconv.Itoa(e.Line))
		}
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field + ": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidationResult collects the findings of Validate. Errors stop loading;
// warnings are reported and loading continues.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// HasWarnings reports whether there are warnings.
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// AllMessages lists errors then warnings, each with its severity.
func (r *ValidationResult) AllMessages() []string {
	var messages []string
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateFormat(cfg.Format, result)

	if name := cfg.Extract.DefaultName; !extract.ValidName(name) {
		result.fail("extract.default_name", name, "invalid method name %q", name)
	}
	if strings.Contains(cfg.Extract.DocStub, "\n") {
		result.warn("extract.doc_stub", cfg.Extract.DocStub, "doc stub spans several lines; each becomes a /// line")
	}

	if table := cfg.Metadata.ClassTable; !metadata.ValidTable(table) {
		result.fail("metadata.class_table", table, "invalid table name %q", table)
	}
	if cfg.Metadata.TimeoutSeconds < 0 {
		result.fail("metadata.timeout_seconds", cfg.Metadata.TimeoutSeconds, "timeout must be >= 0 (0 means none)")
	}

	if cfg.Tokens.Suffix == "" {
		result.fail("tokens.suffix", cfg.Tokens.Suffix, "token file suffix must not be empty")
	}

	if cfg.Output != "" && !cfg.Output.IsValid() {
		result.fail("output", cfg.Output, "invalid output format %q; must be one of: text, table, json, yaml", cfg.Output)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if !fsutil.BackupMode(cfg.Backups.Mode).IsValid() {
		result.fail("backups.mode", cfg.Backups.Mode,
			"invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	validateIgnorePatterns(cfg, result)

	return result
}

func validateFormat(format config.FormatConfig, result *ValidationResult) {
	if format.TabSize < 1 || format.TabSize > maxTabSize {
		result.fail("format.tab_size", format.TabSize, "tab size must be between 1 and %d", maxTabSize)
	}
	if format.MultiLineArgs < 0 {
		result.fail("format.multi_line_args", format.MultiLineArgs, "must be >= 0 (0 keeps signatures on one line)")
	}
	if !format.CommaStyle.IsValid() {
		result.fail("format.comma_style", format.CommaStyle,
			"invalid comma style %q; must be one of: trailing, leading", format.CommaStyle)
	}
	if !format.CommandCase.IsValid() {
		result.fail("format.command_case", format.CommandCase,
			"invalid command case %q; must be one of: word, upper, lower", format.CommandCase)
	}
	if !format.CommandLength.IsValid() {
		result.fail("format.command_length", format.CommandLength,
			"invalid command length %q; must be one of: long, short", format.CommandLength)
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern %q", pattern)
		}
	}
}

// ValidateWithFile validates cfg and attributes every finding to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
