package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds the configuration files found for a working directory.
// Empty fields mean the layer has no file.
type ConfigPaths struct {
	System   string
	User     string
	Editor   string
	Project  string
	Explicit string
}

// Names of project config files, most preferred first.
//
//nolint:gochecknoglobals // read-only
var projectConfigNames = []string{".cosls.yml", ".cosls.yaml", "cosls.yml", "cosls.yaml"}

// Names of config files in the system and user directories.
//
//nolint:gochecknoglobals // read-only
var dirConfigNames = []string{"config.yaml", "config.yml"}

// Directories that mark the top of a workspace.
//
//nolint:gochecknoglobals // read-only
var workspaceRootMarkers = []string{".git", ".hg", ".svn"}

const editorSettingsFile = ".vscode/settings.json"

// DiscoverPaths finds the system, user, editor and project configuration for
// workDir. The system file lives in /etc/cosls (%ProgramData%\cosls on
// Windows), the user file in $XDG_CONFIG_HOME/cosls. Project and editor
// files are searched upward from workDir to the workspace root.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	editor, err := findUpward(ctx, workDir, []string{filepath.FromSlash(editorSettingsFile)})
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), dirConfigNames),
		User:    firstFile(userConfigDir(), dirConfigNames),
		Editor:  editor,
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/cosls"
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "cosls")
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "cosls")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cosls")
}

// FindProjectConfig returns the nearest project config file at or above
// startDir, or "" when there is none. An empty startDir means the current
// directory.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	return findUpward(ctx, startDir, projectConfigNames)
}

// FindEditorSettings returns the editor settings file of the workspace that
// contains dir, or "".
func FindEditorSettings(dir string) string {
	path, err := findUpward(context.Background(), dir, []string{filepath.FromSlash(editorSettingsFile)})
	if err != nil {
		return ""
	}
	return path
}

// findUpward walks from startDir toward the filesystem root and returns the
// first existing file among names. The walk ends after a workspace root or
// the home directory has been searched.
func findUpward(ctx context.Context, startDir string, names []string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("discover config: %w", err)
		}
		if path := firstFile(dir, names); path != "" {
			return path, nil
		}
		if isWorkspaceRoot(dir) || dir == home {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func isWorkspaceRoot(dir string) bool {
	for _, marker := range workspaceRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
