package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
	"github.com/parley-labs/edumap-cli/internal/core/services"
	"github.com/parley-labs/edumap-cli/internal/logger"
)

var (
	runK         int
	runSeed      int64
	runMetric    string
	runBackend   string
	runModel     string
	runSkipParse bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: parse, flatten, embed, cluster, attach, aggregate",
	RunE: func(cmd *cobra.Command, _ []string) error {
		runID := uuid.New().String()
		logger.Info("pipeline run %s starting", runID)

		store := newStore()

		embedder, err := newEmbedder(runBackend, runModel, "")
		if err != nil {
			return err
		}
		defer embedder.Close()

		k := runK
		if !cmd.Flags().Changed("k") {
			k = cfg.Cluster.K
		}
		seed := runSeed
		if !cmd.Flags().Changed("seed") {
			seed = cfg.Cluster.Seed
		}
		metric := runMetric
		if metric == "" {
			metric = cfg.Attach.Metric
		}

		pipeline := services.Pipeline{
			Flatten:   services.NewFlattenService(store, store),
			Embed:     services.NewEmbedService(store, store, embedder),
			Cluster:   services.NewClusterService(store, store, k, seed),
			Attach:    services.NewAttachService(store, store, store, domain.Metric(metric)),
			Aggregate: services.NewAggregateService(store, store, store),
		}
		if !runSkipParse {
			parser, err := newParser("")
			if err != nil {
				return err
			}
			pipeline.Parse = services.NewParseService(store, store, parser)
		}

		if err := pipeline.Run(cmd.Context()); err != nil {
			return err
		}
		logger.Info("pipeline run %s complete", runID)
		cmd.Println("Pipeline complete.")
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runK, "k", 5, "number of clusters to form")
	runCmd.Flags().Int64Var(&runSeed, "seed", 13, "random seed for clustering")
	runCmd.Flags().StringVar(&runMetric, "metric", "", "similarity metric for attachment")
	runCmd.Flags().StringVarP(&runBackend, "backend", "b", "", "embedding backend: stub, ollama, openai")
	runCmd.Flags().StringVar(&runModel, "model", "", "embedding model identifier")
	runCmd.Flags().BoolVar(&runSkipParse, "skip-parse", false, "start from an existing parse artifact")

	rootCmd.AddCommand(runCmd)
}
