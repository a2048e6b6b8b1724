package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blobkit/blobkit/internal/logger"
)

var rmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete the content stored under an identifier",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	backend, err := loadBackend(ctx)
	if err != nil {
		return err
	}

	if err := backend.Delete(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete %q: %w", args[0], err)
	}

	logger.Debug("content deleted", "backend", backendName, "id", args[0])
	return nil
}
