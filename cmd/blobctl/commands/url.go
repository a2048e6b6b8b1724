package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url ID",
	Short: "Print the addressable URL for an identifier",
	Args:  cobra.ExactArgs(1),
	RunE:  runURL,
}

func runURL(cmd *cobra.Command, args []string) error {
	backend, err := loadBackend(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(backend.URL(args[0]))
	return nil
}
