// Package cli provides the cobra command tree for the edumap pipeline.
// Each pipeline stage is a subcommand; flags override the TOML configuration
// per invocation.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parley-labs/edumap-cli/internal/adapters/driven/config/file"
	"github.com/parley-labs/edumap-cli/internal/adapters/driven/embedding/ollama"
	"github.com/parley-labs/edumap-cli/internal/adapters/driven/embedding/openai"
	"github.com/parley-labs/edumap-cli/internal/adapters/driven/embedding/stub"
	"github.com/parley-labs/edumap-cli/internal/adapters/driven/parser/sentencesplit"
	"github.com/parley-labs/edumap-cli/internal/adapters/driven/storage/jsonfile"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driven"
	"github.com/parley-labs/edumap-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool

	// cfg is loaded in the persistent pre-run and consumed by subcommands.
	cfg file.Config
)

var rootCmd = &cobra.Command{
	Use:   "edumap",
	Short: "Cross-document discourse summarization pipeline",
	Long: `edumap turns a corpus of documents parsed into rhetorical-structure
trees into a compact set of cross-document bullet summaries.

The pipeline runs left to right: parse -> flatten -> embed -> cluster ->
attach -> aggregate. Each stage reads the artifacts of the previous stage
and writes a new artifact; reruns are idempotent given identical inputs
and seeds.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		loaded, err := file.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		if flagDataDir != "" {
			cfg.Data.Dir = flagDataDir
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to edumap.toml (default ./edumap.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data", "", "artifact root directory (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newStore builds the file-based artifact store for the current invocation.
func newStore(opts ...jsonfile.Option) *jsonfile.Store {
	return jsonfile.NewStore(cfg.Data.Dir, opts...)
}

// newParser resolves the configured parser backend.
func newParser(backend string) (driven.Parser, error) {
	if backend == "" {
		backend = cfg.Parser.Backend
	}
	switch backend {
	case "", "sentencesplit", "stub":
		return sentencesplit.New(), nil
	default:
		return nil, fmt.Errorf("unsupported parser backend %q", backend)
	}
}

// newEmbedder resolves the configured embedding backend.
func newEmbedder(backend, model, baseURL string) (driven.EmbeddingService, error) {
	if backend == "" {
		backend = cfg.Embedding.Backend
	}
	if model == "" {
		model = cfg.Embedding.Model
	}
	if baseURL == "" {
		baseURL = cfg.Embedding.BaseURL
	}

	switch backend {
	case "", "stub":
		return stub.NewEmbeddingService(cfg.Embedding.Dimension), nil
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: baseURL,
			Model:   model,
		}), nil
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: baseURL,
			Model:   model,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding backend %q", backend)
	}
}
