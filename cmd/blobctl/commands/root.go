// Package commands implements the blobctl CLI commands.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/blobkit/blobkit/internal/logger"
	"github.com/blobkit/blobkit/pkg/config"
	"github.com/blobkit/blobkit/pkg/storage"
)

var (
	// Version information injected at build time.
	Version = "dev"

	// Global flags.
	cfgFile     string
	backendName string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "blobctl",
	Short: "blobctl - administer blobkit storage backends",
	Long: `blobctl operates directly on the storage backends declared in a blobkit
configuration file: inspect stored content, derive URLs, remove single
identifiers, prune old content, or wipe a backend entirely.

Use "blobctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./blobkit.yaml)")
	rootCmd.PersistentFlags().StringVarP(&backendName, "backend", "b", "store", "backend name from the config file")

	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(wipeCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadBackend loads the configuration, initializes logging, and builds the
// selected backend.
func loadBackend(ctx context.Context) (storage.Blob, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return nil, err
	}

	return cfg.Build(ctx, backendName)
}
