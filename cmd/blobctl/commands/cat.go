package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat ID",
	Short: "Write stored content to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

func runCat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	backend, err := loadBackend(ctx)
	if err != nil {
		return err
	}

	r, err := backend.Open(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", args[0], err)
	}
	defer r.Close()

	_, err = io.Copy(os.Stdout, r)
	return err
}
