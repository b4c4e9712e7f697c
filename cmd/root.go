// Package cmd wires the reposnap command-line interface.
package cmd

import (
	"fmt"

	"reposnap/pkg/logging"
	"reposnap/pkg/snapshot"
	"reposnap/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootArgs  snapshot.Arguments
	debugMode bool

	// baseLogger is handed in by Execute; --debug swaps in a development
	// logger for the run.
	baseLogger *zap.Logger
)

// RootCmd is the base command. Called without subcommands it generates a
// snapshot of the current repository.
var RootCmd = &cobra.Command{
	Use:   "reposnap",
	Short: "Reposnap writes a repository snapshot into a single text file",
	Long: `Reposnap walks a git working tree and writes one text document holding
repository metadata, a focused directory tree, and the size-capped contents
of tracked and untracked text files. Build artifacts, binaries and
secret-like paths stay out of the document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := baseLogger
		if debugMode {
			dev, err := logging.Setup(true, "reposnap", version.Get().Version)
			if err != nil {
				return fmt.Errorf("failed to initialize debug logging: %w", err)
			}
			logger = dev
			defer logger.Sync()
		}

		cfg, err := snapshot.LoadConfig(logger)
		if err != nil {
			return err
		}
		return snapshot.Execute(rootArgs, cfg, logger)
	},
}

func init() {
	RootCmd.Flags().StringVar(&rootArgs.Root, "root", "", "repository root (default: discovered from the working directory)")
	RootCmd.Flags().StringVarP(&rootArgs.Output, "output", "o", "", "artifact path (default: tools/maintenance/repo_snapshot.txt under the root)")
	RootCmd.Flags().BoolVarP(&rootArgs.Clipboard, "clipboard", "c", false, "also copy the snapshot to the system clipboard")
	RootCmd.Flags().BoolVar(&rootArgs.CountTokens, "tokens", false, "append a model token count to the summary")
	RootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
}

// Execute runs the root command with logger as the default command logger.
func Execute(logger *zap.Logger) error {
	baseLogger = logger
	return RootCmd.Execute()
}
