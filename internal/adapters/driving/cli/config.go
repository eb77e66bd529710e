package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-assistant/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `Show the resolved settings (config file plus environment overrides)
or change a value in the config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the config file",
	Long: "Set a value in the config file. Known keys:\n  " +
		strings.Join(services.SettingKeys(), "\n  ") +
		"\n\nList values (server.allowed_origins) are comma separated.",
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	s, err := services.LoadSettings(store, nil)
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n", store.Path())
	if unknown := unknownKeys(store.Keys()); len(unknown) > 0 {
		cmd.Printf("Ignored keys: %s\n", strings.Join(unknown, ", "))
	}
	cmd.Println()

	cmd.Println("[Documents]")
	cmd.Printf("  Dir: %s\n", s.Documents.Dir)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Dir: %s\n", s.Cache.Dir)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", s.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", s.Chunking.Overlap)
	cmd.Printf("  Top K: %d\n", s.Retrieval.TopK)
	cmd.Println()

	cmd.Println("[OpenAI]")
	cmd.Printf("  Base URL: %s\n", s.OpenAI.BaseURL)
	if s.OpenAI.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(s.OpenAI.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Model: %s\n", s.Embedding.Model)
	cmd.Printf("  Batch size: %d\n", s.Embedding.BatchSize)
	cmd.Printf("  Concurrency: %d\n", s.Embedding.Concurrency)
	cmd.Printf("  Requests/s: %g\n", s.Embedding.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[LLM]")
	if s.LLM.Model != "" {
		cmd.Printf("  Model: %s\n", s.LLM.Model)
	} else {
		cmd.Printf("  Model: (not set)\n")
	}
	cmd.Printf("  Temperature: %g\n", s.LLM.Temperature)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Addr: %s\n", s.Server.Addr)
	cmd.Printf("  Allowed origins: %s\n", strings.Join(s.Server.AllowedOrigins, ", "))

	if s.Prompts.Dir != "" {
		cmd.Println()
		cmd.Println("[Prompts]")
		cmd.Printf("  Dir: %s\n", s.Prompts.Dir)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := openConfigStore()
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	if err := services.SetSetting(store, args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s in %s\n", args[0], store.Path())
	return nil
}

// unknownKeys returns the keys not understood by the settings loader.
func unknownKeys(keys []string) []string {
	known := make(map[string]bool)
	for _, k := range services.SettingKeys() {
		known[k] = true
	}
	var unknown []string
	for _, k := range keys {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// maskAPIKey masks an API key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
