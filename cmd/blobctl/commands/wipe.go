package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blobkit/blobkit/internal/logger"
	"github.com/blobkit/blobkit/pkg/storage"
)

var wipeConfirm bool

var wipeCmd = &cobra.Command{
	Use:   "wipe --confirm",
	Short: "Remove all content from a backend",
	Long: `Remove every file stored in the selected backend. This is destructive
and requires --confirm; without it the backend refuses the operation.`,
	RunE: runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeConfirm, "confirm", false, "acknowledge the destructive wipe")
}

func runWipe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	backend, err := loadBackend(ctx)
	if err != nil {
		return err
	}

	if err := backend.Clear(ctx, storage.ClearOptions{Confirm: wipeConfirm}); err != nil {
		return fmt.Errorf("failed to wipe: %w", err)
	}

	logger.Info("backend wiped", "backend", backendName)
	return nil
}
