package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupMode selects where the original of an edited file is kept.
type BackupMode string

// Backup modes.
const (
	BackupModeSidecar BackupMode = "sidecar"
	BackupModeNone    BackupMode = "none"
)

// BackupSuffix is appended to a file's path to name its sidecar backup.
const BackupSuffix = ".cosls.bak"

// IsValid reports whether m is a known mode. The empty mode is sidecar.
func (m BackupMode) IsValid() bool {
	switch m {
	case "", BackupModeSidecar, BackupModeNone:
		return true
	}
	return false
}

// BackupConfig controls whether Replace keeps the original.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// BackupPath names the backup of path, or returns "" for BackupModeNone.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// BackupExists reports whether path has a backup.
func BackupExists(path string, mode BackupMode) bool {
	backup := BackupPath(path, mode)
	if backup == "" {
		return false
	}
	_, err := os.Stat(backup)
	return err == nil
}

// CreateBackup copies path to its backup. An existing backup is kept, so a
// series of edits can be undone back to the first original. It reports
// whether a backup was written.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	backup := BackupPath(path, cfg.Mode)
	if !cfg.Enabled || backup == "" {
		return false, nil
	}
	if BackupExists(path, cfg.Mode) {
		return false, nil
	}
	copied, err := copyFile(ctx, path, backup)
	if err != nil {
		return false, fmt.Errorf("back up %s: %w", path, err)
	}
	return copied, nil
}

// RestoreBackup puts the backup of path back in place and removes it. It
// reports false when there is no backup.
func RestoreBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	backup := BackupPath(path, mode)
	if backup == "" {
		return false, nil
	}
	copied, err := copyFile(ctx, backup, path)
	if err != nil || !copied {
		if err != nil {
			err = fmt.Errorf("restore %s: %w", path, err)
		}
		return false, err
	}
	if err := os.Remove(backup); err != nil {
		return true, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}

// copyFile writes src over dst with src's permissions. A missing src copies
// nothing and is not an error.
func copyFile(ctx context.Context, src, dst string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(src)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, classify(src, err)
	}
	content, err := os.ReadFile(src)
	if err != nil {
		return false, classify(src, err)
	}
	if err := WriteAtomic(ctx, dst, content, info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}
