package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat ID",
	Short: "Show whether content exists and where it is addressed",
	Args:  cobra.ExactArgs(1),
	RunE:  runStat,
}

func runStat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	backend, err := loadBackend(ctx)
	if err != nil {
		return err
	}

	id := args[0]

	exists, err := backend.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", id, err)
	}

	fmt.Printf("id:     %s\n", id)
	fmt.Printf("exists: %t\n", exists)
	fmt.Printf("url:    %s\n", backend.URL(id))
	return nil
}
