package configloader

import (
	"strings"

	"github.com/yaklabco/cosls/pkg/config"
)

// commandCaseAliases maps accepted spellings to canonical command cases.
// Editor settings use the same words; the extra entries cover older
// extension versions and common typing.
//
//nolint:gochecknoglobals // Read-only lookup table.
var commandCaseAliases = map[string]config.CommandCase{
	"word":      config.CaseWord,
	"wordcase":  config.CaseWord,
	"pascal":    config.CaseWord,
	"upper":     config.CaseUpper,
	"uppercase": config.CaseUpper,
	"lower":     config.CaseLower,
	"lowercase": config.CaseLower,
}

//nolint:gochecknoglobals // Read-only lookup table.
var commandLengthAliases = map[string]config.CommandLength{
	"long":        config.LengthLong,
	"full":        config.LengthLong,
	"short":       config.LengthShort,
	"abbreviated": config.LengthShort,
}

//nolint:gochecknoglobals // Read-only lookup table.
var commaStyleAliases = map[string]config.CommaStyle{
	"trailing": config.CommaTrailing,
	"after":    config.CommaTrailing,
	"leading":  config.CommaLeading,
	"before":   config.CommaLeading,
}

func aliasKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeCommandCase returns the canonical command case for s, or s
// unchanged when it is not a known spelling.
func NormalizeCommandCase(s config.CommandCase) config.CommandCase {
	if c, ok := commandCaseAliases[aliasKey(string(s))]; ok {
		return c
	}
	return s
}

// NormalizeCommandLength returns the canonical command length for s.
func NormalizeCommandLength(s config.CommandLength) config.CommandLength {
	if l, ok := commandLengthAliases[aliasKey(string(s))]; ok {
		return l
	}
	return s
}

// NormalizeCommaStyle returns the canonical comma style for s.
func NormalizeCommaStyle(s config.CommaStyle) config.CommaStyle {
	if c, ok := commaStyleAliases[aliasKey(string(s))]; ok {
		return c
	}
	return s
}

// normalizeAliases rewrites every enum field of cfg to its canonical form.
func normalizeAliases(cfg *config.Config) {
	cfg.Format.CommandCase = NormalizeCommandCase(cfg.Format.CommandCase)
	cfg.Format.CommandLength = NormalizeCommandLength(cfg.Format.CommandLength)
	cfg.Format.CommaStyle = NormalizeCommaStyle(cfg.Format.CommaStyle)
	cfg.Output = config.OutputFormat(aliasKey(string(cfg.Output)))
}
