package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or verify the cached vector index",
	Long: `Runs the startup index build without serving.

The cache is reused when every resume file has the same modification time
and size as when it was indexed. Use --force to rebuild regardless.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "ignore the existing cache and rebuild")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	rt, report, err := startup(cmd, false, indexForce)
	if err != nil {
		return err
	}
	defer rt.Close()

	cmd.Printf("Index: %s\n", report.State)
	cmd.Printf("  Files:  %d\n", report.Files)
	cmd.Printf("  Chunks: %d\n", report.Chunks)
	if report.State == domain.CacheCold && report.Reason != nil {
		cmd.Printf("  Reason: %v\n", report.Reason)
	}
	cmd.Printf("  Cache:  %s\n", rt.Settings().Cache.Dir)
	return nil
}
