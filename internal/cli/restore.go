package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cosls/internal/logging"
	"github.com/yaklabco/cosls/pkg/fsutil"
)

func newRestoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore FILE...",
		Short: "Restore files from the backups taken by extract --apply",
		Long: `Replace each file with the backup written the first time cosls rewrote
it (FILE` + fsutil.BackupSuffix + `), then delete the backup.`,
		Example: `  cosls restore Demo.Util.cls`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args)
		},
	}
	return cmd
}

func runRestore(cmd *cobra.Command, paths []string) error {
	logger := interactiveLogger(cmd)

	missing := 0
	for _, path := range paths {
		restored, err := fsutil.RestoreBackup(cmd.Context(), path, fsutil.BackupModeSidecar)
		if err != nil {
			return err
		}
		if !restored {
			logger.Warn("No backup found", logging.FieldPath, path)
			missing++
			continue
		}
		logger.Info("Restored", logging.FieldPath, path)
	}

	if missing > 0 {
		return fmt.Errorf("%w: %d of %d files had no backup", fsutil.ErrNotFound, missing, len(paths))
	}
	return nil
}
