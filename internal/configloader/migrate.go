package configloader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/cosls/pkg/config"
)

// Editor setting keys read from the workspace settings file.
const (
	settingTabSize       = "editor.tabSize"
	settingInsertSpaces  = "editor.insertSpaces"
	settingCommandCase   = "intersystems.language-server.formatting.commands.case"
	settingCommandLength = "intersystems.language-server.formatting.commands.length"
	settingMultiLineArgs = "objectscript.multilineMethodArgs"
)

// languageScopes are the editor's per-language override blocks, lowest
// precedence first. Class settings win because extraction edits classes.
//
//nolint:gochecknoglobals // Read-only lookup table.
var languageScopes = []string{"[objectscript]", "[objectscript-class]"}

// watchedPrefixes are setting namespaces whose unknown keys are reported.
//
//nolint:gochecknoglobals // Read-only lookup table.
var watchedPrefixes = []string{"intersystems.language-server.formatting.", "objectscript.multiline"}

// MigrationResult contains the result of converting editor settings.
type MigrationResult struct {
	// Config is the default configuration with the editor settings applied.
	Config *config.Config

	// Warnings contains non-fatal issues encountered during conversion.
	Warnings []string

	// SourcePath is the path to the settings file.
	SourcePath string

	settings editorSettings
}

// editorSettings holds the formatting settings found in a settings file.
// Nil fields were not set.
type editorSettings struct {
	TabSize       *int
	InsertSpaces  *bool
	CommandCase   *config.CommandCase
	CommandLength *config.CommandLength
	MultiLineArgs *bool
}

// apply writes the settings that were present onto cfg.
func (s editorSettings) apply(cfg *config.Config) {
	if s.TabSize != nil {
		cfg.Format.TabSize = *s.TabSize
	}
	if s.InsertSpaces != nil {
		cfg.Format.InsertSpaces = *s.InsertSpaces
	}
	if s.CommandCase != nil {
		cfg.Format.CommandCase = *s.CommandCase
	}
	if s.CommandLength != nil {
		cfg.Format.CommandLength = *s.CommandLength
	}
	if s.MultiLineArgs != nil {
		switch {
		case !*s.MultiLineArgs:
			cfg.Format.MultiLineArgs = 0
		case cfg.Format.MultiLineArgs == 0:
			cfg.Format.MultiLineArgs = config.NewConfig().Format.MultiLineArgs
		}
	}
}

// ConvertEditorSettings reads the formatting settings of an editor
// settings file (JSON with comments) into a configuration.
func ConvertEditorSettings(path string) (*MigrationResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw map[string]any
	if err := parseJSONC(content, &raw); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	result := &MigrationResult{SourcePath: path}
	readSettings(raw, &result.settings, result)
	for _, scope := range languageScopes {
		if block, ok := raw[scope].(map[string]any); ok {
			readSettings(block, &result.settings, result)
		}
	}

	result.Config = config.NewConfig()
	result.settings.apply(result.Config)
	return result, nil
}

// readSettings copies known keys of raw into s, reporting values of the
// wrong type and unknown keys in the watched namespaces.
func readSettings(raw map[string]any, s *editorSettings, result *MigrationResult) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		switch key {
		case settingTabSize:
			if n, ok := value.(float64); ok && n >= 1 && n == float64(int(n)) {
				size := int(n)
				s.TabSize = &size
				continue
			}
		case settingInsertSpaces:
			if b, ok := value.(bool); ok {
				s.InsertSpaces = &b
				continue
			}
		case settingMultiLineArgs:
			if b, ok := value.(bool); ok {
				s.MultiLineArgs = &b
				continue
			}
		case settingCommandCase:
			if str, ok := value.(string); ok {
				c := NormalizeCommandCase(config.CommandCase(str))
				if c.IsValid() {
					s.CommandCase = &c
					continue
				}
			}
		case settingCommandLength:
			if str, ok := value.(string); ok {
				l := NormalizeCommandLength(config.CommandLength(str))
				if l.IsValid() {
					s.CommandLength = &l
					continue
				}
			}
		default:
			if watched(key) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("unsupported setting %q; skipping", key))
			}
			continue
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid value %v for %q; skipping", value, key))
	}
}

func watched(key string) bool {
	for _, prefix := range watchedPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// parseJSONC parses JSON with comments (JSONC format).
// It strips comments and trailing commas before parsing.
func parseJSONC(content []byte, target any) error {
	if err := json.Unmarshal(content, target); err == nil {
		return nil
	}

	stripped := stripJSONC(content)
	if err := json.Unmarshal(stripped, target); err != nil {
		return fmt.Errorf("unmarshal stripped JSON: %w", err)
	}
	return nil
}

// stripJSONC reduces JSON with comments to plain JSON in one pass. Line and
// block comments are dropped, as is a comma whose next value never comes
// because a closing bracket follows. String contents are copied as is.
func stripJSONC(content []byte) []byte {
	out := make([]byte, 0, len(content))
	comma := -1 // offset in out of a comma still waiting for its value

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '"':
			end := stringEnd(content, i)
			out = append(out, content[i:end]...)
			i = end - 1
			comma = -1
		case c == '/' && i+1 < len(content) && content[i+1] == '/':
			for i < len(content) && content[i] != '\n' {
				i++
			}
			i-- // the newline is kept as whitespace
		case c == '/' && i+1 < len(content) && content[i+1] == '*':
			end := bytes.Index(content[i+2:], []byte("*/"))
			if end < 0 {
				i = len(content)
				continue
			}
			i += end + 3
		case c == '}', c == ']':
			if comma >= 0 {
				out = append(out[:comma], out[comma+1:]...)
			}
			out = append(out, c)
			comma = -1
		case c == ',':
			comma = len(out)
			out = append(out, c)
		case c == ' ', c == '\t', c == '\r', c == '\n':
			out = append(out, c)
		default:
			out = append(out, c)
			comma = -1
		}
	}
	return out
}

// stringEnd returns the offset just past the string literal opening at start.
func stringEnd(content []byte, start int) int {
	for i := start + 1; i < len(content); i++ {
		switch content[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(content)
}

// GenerateMigrationHeader returns a header comment for migrated configs.
func GenerateMigrationHeader(sourcePath string) string {
	return fmt.Sprintf(`# cosls configuration
# Migrated from: %s
`, filepath.ToSlash(sourcePath))
}
