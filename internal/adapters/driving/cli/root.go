// Package cli provides the cobra command tree for the resume assistant.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-assistant/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var (
	configDir string
	verbose   bool
	envFile   = ".env"
)

var rootCmd = &cobra.Command{
	Use:   "resume-assistant",
	Short: "Answer questions about a resume",
	Long: `Resume assistant indexes a directory of resume material (.txt and .docx),
caches the vector index on disk, and answers natural-language questions
about the candidate using retrieval-augmented generation.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.resume-assistant)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	defer logger.Sync()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	return loadDotEnv(envFile)
}

// loadDotEnv loads path into the environment. A missing file is not an error
// and existing variables are never overwritten.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		logger.Debug("loaded environment from %s", path)
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}
