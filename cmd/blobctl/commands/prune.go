package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blobkit/blobkit/internal/logger"
	"github.com/blobkit/blobkit/pkg/storage"
)

var pruneOlderThan time.Duration

var pruneCmd = &cobra.Command{
	Use:   "prune --older-than DURATION",
	Short: "Remove content older than a cutoff",
	Long: `Remove every file whose last modification time precedes now minus the
given duration. Directories are left in place.

Examples:
  # Remove cache entries older than a week
  blobctl prune --backend cache --older-than 168h`,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 0, "age cutoff, e.g. 24h (required)")
	pruneCmd.MarkFlagRequired("older-than") //nolint:errcheck
}

func runPrune(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	backend, err := loadBackend(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-pruneOlderThan)
	if err := backend.Clear(ctx, storage.ClearOptions{OlderThan: cutoff}); err != nil {
		return fmt.Errorf("failed to prune: %w", err)
	}

	logger.Info("pruned old content", "backend", backendName, "cutoff", cutoff)
	return nil
}
