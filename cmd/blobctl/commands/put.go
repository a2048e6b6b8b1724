package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blobkit/blobkit/internal/logger"
	"github.com/blobkit/blobkit/pkg/storage"
)

var putFile string

var putCmd = &cobra.Command{
	Use:   "put [ID]",
	Short: "Store content under an identifier",
	Long: `Store content read from stdin (or --file) under the given identifier.
When no identifier is given, a random location is generated and printed.

Examples:
  # Store a file under an explicit identifier
  blobctl put uploads/avatar.jpg --file avatar.jpg

  # Store stdin under a generated location
  cat report.pdf | blobctl put`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPut,
}

func init() {
	putCmd.Flags().StringVarP(&putFile, "file", "f", "", "read content from a file instead of stdin")
}

func runPut(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	backend, err := loadBackend(ctx)
	if err != nil {
		return err
	}

	id := storage.NewLocation()
	if len(args) == 1 {
		id = args[0]
	}

	var content io.Reader = os.Stdin
	if putFile != "" {
		f, err := os.Open(putFile)
		if err != nil {
			return err
		}
		defer f.Close()
		content = f
	}

	if err := backend.Upload(ctx, content, id); err != nil {
		return fmt.Errorf("failed to store content: %w", err)
	}

	logger.Debug("content stored", "backend", backendName, "id", id)
	fmt.Println(id)
	return nil
}
