// Package configloader resolves the cosls configuration from its layers:
// built-in defaults, system and user files, the editor's workspace settings,
// the project file, an explicit file, COSLS_ environment variables and
// command-line flags.
package configloader

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/fsutil"
)

// LoadOptions selects the layers Load reads.
type LoadOptions struct {
	// WorkingDir anchors the project and editor search. Empty means the
	// current directory.
	WorkingDir string

	// ExplicitPath is the --config file. It is read even when the other
	// files are ignored.
	ExplicitPath string

	IgnoreSystemConfig   bool
	IgnoreUserConfig     bool
	IgnoreProjectConfig  bool
	IgnoreEditorSettings bool
	IgnoreEnv            bool

	// CLIConfig holds flag values. Its non-zero fields win over every file.
	CLIConfig *config.Config
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config     *config.Config
	Paths      *ConfigPaths
	LoadedFrom []string
	Warnings   []string
}

// Load layers every configuration source, lowest precedence first:
//
//  1. defaults
//  2. system config (/etc/cosls/config.yaml)
//  3. user config ($XDG_CONFIG_HOME/cosls/config.yaml)
//  4. editor settings (.vscode/settings.json)
//  5. project config (.cosls.yml, searched upward)
//  6. explicit config (--config)
//  7. COSLS_ environment variables
//  8. command-line flags
//
// Each file is validated as it is applied, so a *ValidationError names the
// file and, when it can be found, the line that introduced the bad value.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Explicit = opts.ExplicitPath

	cfg := config.NewConfig()
	result := &LoadResult{Paths: paths}

	files := []struct {
		skip bool
		path string
		kind string
	}{
		{opts.IgnoreSystemConfig, paths.System, "system"},
		{opts.IgnoreUserConfig, paths.User, "user"},
		{opts.IgnoreEditorSettings, paths.Editor, "editor"},
		{opts.IgnoreProjectConfig, paths.Project, "project"},
		{false, paths.Explicit, "explicit"},
	}
	for _, f := range files {
		if f.skip || f.path == "" {
			continue
		}
		if f.kind == "editor" {
			applyEditorSettings(cfg, f.path, result)
			continue
		}
		if err := applyFile(cfg, f.path); err != nil {
			return nil, fmt.Errorf("load %s config: %w", f.kind, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, f.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}
	normalizeAliases(cfg)

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}
	result.Config = cfg
	return result, nil
}

// applyEditorSettings layers the editor's workspace settings. They are
// shared with other tools, so problems are warnings rather than errors.
func applyEditorSettings(cfg *config.Config, path string, result *LoadResult) {
	migrated, err := ConvertEditorSettings(path)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("skipping %s: %v", path, err))
		return
	}
	migrated.settings.apply(cfg)
	result.Warnings = append(result.Warnings, migrated.Warnings...)
	result.LoadedFrom = append(result.LoadedFrom, path)
}

// applyFile decodes a YAML file onto cfg and validates the result.
func applyFile(cfg *config.Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := cfg.DecodeYAML(content); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	normalizeAliases(cfg)

	if validation := ValidateWithFile(cfg, path); !validation.Valid() {
		verr := validation.Errors[0]
		verr.Line = keyLine(content, verr.Field)
		return &verr
	}
	return nil
}

// keyLine returns the 1-based line of a field path such as
// "format.tab_size" or "ignore[2]" in a YAML document, or 0.
func keyLine(content []byte, field string) int {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil || len(doc.Content) == 0 {
		return 0
	}
	node := doc.Content[0]
	for part := range strings.SplitSeq(field, ".") {
		name, index, hasIndex := strings.Cut(part, "[")
		node = mappingValue(node, name)
		if node == nil {
			return 0
		}
		if hasIndex {
			i, err := strconv.Atoi(strings.TrimSuffix(index, "]"))
			if err != nil || node.Kind != yaml.SequenceNode || i < 0 || i >= len(node.Content) {
				return 0
			}
			node = node.Content[i]
		}
	}
	return node.Line
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// WriteConfig writes cfg as YAML below an optional comment header.
func WriteConfig(ctx context.Context, cfg *config.Config, path, header string) error {
	content, err := cfg.ToYAMLWithHeader(header)
	if err != nil {
		return err
	}
	return fsutil.WriteAtomic(ctx, path, content, fsutil.DefaultFileMode)
}
