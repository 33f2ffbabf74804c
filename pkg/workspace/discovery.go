package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/cosls/pkg/doctype"
)

// DiscoverOptions controls which files a check run visits.
type DiscoverOptions struct {
	// Paths are files or directories to check; empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths and anchors Ignore patterns.
	WorkingDir string

	// Ignore holds doublestar patterns relative to WorkingDir. A pattern
	// without a slash also matches base names.
	Ignore []string

	FollowSymlinks bool
}

// Discover returns the sorted absolute paths of the ObjectScript sources
// under opts.Paths. A file named explicitly is kept whatever its extension.
// Hidden entries and token sidecars are skipped during directory walks, and
// a directory reached twice through symlinks is walked once.
func Discover(ctx context.Context, opts DiscoverOptions) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	d := &discoverer{
		workDir: workDir,
		opts:    opts,
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
	}
	inputs := opts.Paths
	if len(inputs) == 0 {
		inputs = []string{"."}
	}
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
		if err := d.input(ctx, input); err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, len(d.files))
	for path := range d.files {
		out = append(out, path)
	}
	slices.Sort(out)
	return out, nil
}

type discoverer struct {
	workDir string
	opts    DiscoverOptions
	files   map[string]struct{}
	dirs    map[string]struct{} // resolved directories already walked
}

func (d *discoverer) input(ctx context.Context, input string) error {
	path := input
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.workDir, path)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", input, err)
	}
	if info.IsDir() {
		return d.walk(ctx, path)
	}
	if !d.ignored(path) {
		d.files[path] = struct{}{}
	}
	return nil
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	if real, err := filepath.EvalSymlinks(root); err == nil {
		if _, done := d.dirs[real]; done {
			return nil
		}
		d.dirs[real] = struct{}{}
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") || d.ignored(path) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case entry.IsDir():
			return nil
		case entry.Type()&fs.ModeSymlink != 0:
			return d.symlink(ctx, path)
		case doctype.IsSource(path):
			d.files[path] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	return nil
}

// symlink adds a linked source file, or walks a linked directory when
// FollowSymlinks is set. Broken links are skipped.
func (d *discoverer) symlink(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // broken link
	}
	if info.IsDir() {
		if !d.opts.FollowSymlinks {
			return nil
		}
		return d.walk(ctx, path)
	}
	if doctype.IsSource(path) {
		d.files[path] = struct{}{}
	}
	return nil
}

func (d *discoverer) ignored(path string) bool {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, pattern := range d.opts.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return abs, nil
}
