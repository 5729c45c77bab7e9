package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parley-labs/edumap-cli/internal/adapters/driven/storage/jsonfile"
	"github.com/parley-labs/edumap-cli/internal/core/domain"
	"github.com/parley-labs/edumap-cli/internal/core/services"
)

var (
	parseInput   string
	parseOutput  string
	parseBackend string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Run the discourse parser over the raw corpus",
	RunE: func(cmd *cobra.Command, _ []string) error {
		parser, err := newParser(parseBackend)
		if err != nil {
			return err
		}
		store := newStore(
			jsonfile.WithCorpusPath(parseInput),
			jsonfile.WithParsesPath(parseOutput),
		)
		svc := services.NewParseService(store, store, parser)
		if err := svc.Run(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Wrote parse trees.")
		return nil
	},
}

var (
	flattenInput  string
	flattenOutput string
)

var flattenCmd = &cobra.Command{
	Use:   "flatten",
	Short: "Flatten parse trees into the flat EDU table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store := newStore(
			jsonfile.WithParsesPath(flattenInput),
			jsonfile.WithEDUsPath(flattenOutput),
		)
		svc := services.NewFlattenService(store, store)
		if err := svc.Run(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Wrote flattened EDUs.")
		return nil
	},
}

var (
	embedInput   string
	embedOutDir  string
	embedBackend string
	embedModel   string
	embedBaseURL string
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed nucleus and satellite EDUs and build the index",
	RunE: func(cmd *cobra.Command, _ []string) error {
		embedder, err := newEmbedder(embedBackend, embedModel, embedBaseURL)
		if err != nil {
			return err
		}
		defer embedder.Close()

		store := newStore(
			jsonfile.WithEDUsPath(embedInput),
			jsonfile.WithEmbeddingsDir(embedOutDir),
		)
		svc := services.NewEmbedService(store, store, embedder)
		if err := svc.Run(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Wrote embeddings and index.")
		return nil
	},
}

var (
	clusterEmbedDir string
	clusterOutput   string
	clusterK        int
	clusterSeed     int64
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Cluster nucleus embeddings with seeded k-means",
	RunE: func(cmd *cobra.Command, _ []string) error {
		k := clusterK
		if !cmd.Flags().Changed("k") {
			k = cfg.Cluster.K
		}
		seed := clusterSeed
		if !cmd.Flags().Changed("seed") {
			seed = cfg.Cluster.Seed
		}

		store := newStore(
			jsonfile.WithEmbeddingsDir(clusterEmbedDir),
			jsonfile.WithClustersPath(clusterOutput),
		)
		svc := services.NewClusterService(store, store, k, seed)
		if err := svc.Run(cmd.Context()); err != nil {
			return err
		}
		cmd.Printf("Wrote %d nucleus clusters.\n", k)
		return nil
	},
}

var (
	attachEmbedDir string
	attachClusters string
	attachOutput   string
	attachMetric   string
)

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Attach satellites to nucleus clusters",
	RunE: func(cmd *cobra.Command, _ []string) error {
		metric := attachMetric
		if metric == "" {
			metric = cfg.Attach.Metric
		}

		store := newStore(
			jsonfile.WithEmbeddingsDir(attachEmbedDir),
			jsonfile.WithClustersPath(attachClusters),
			jsonfile.WithAttachPath(attachOutput),
		)
		svc := services.NewAttachService(store, store, store, domain.Metric(metric))
		if err := svc.Run(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Wrote cluster assignments.")
		return nil
	},
}

var (
	aggregateFlat     string
	aggregateClusters string
	aggregateOutput   string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate clusters into the final bullet snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store := newStore(
			jsonfile.WithEDUsPath(aggregateFlat),
			jsonfile.WithAttachPath(aggregateClusters),
			jsonfile.WithSnapshotPath(aggregateOutput),
		)
		svc := services.NewAggregateService(store, store, store)
		if err := svc.Run(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Wrote aggregate snapshot.")
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseInput, "input", "i", "", "raw corpus JSONL (default <data>/raw/docs.jsonl)")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "parse trees JSONL (default <data>/rst/rst_trees.jsonl)")
	parseCmd.Flags().StringVarP(&parseBackend, "backend", "b", "", "parser backend (default from config)")

	flattenCmd.Flags().StringVarP(&flattenInput, "input", "i", "", "parse trees JSONL")
	flattenCmd.Flags().StringVarP(&flattenOutput, "output", "o", "", "flat EDU JSONL (default <data>/edus/edus.jsonl)")

	embedCmd.Flags().StringVarP(&embedInput, "input", "i", "", "flat EDU JSONL")
	embedCmd.Flags().StringVarP(&embedOutDir, "output-dir", "o", "", "embeddings directory (default <data>/embeddings)")
	embedCmd.Flags().StringVarP(&embedBackend, "backend", "b", "", "embedding backend: stub, ollama, openai")
	embedCmd.Flags().StringVar(&embedModel, "model", "", "embedding model identifier")
	embedCmd.Flags().StringVar(&embedBaseURL, "base-url", "", "embedding backend endpoint")

	clusterCmd.Flags().StringVarP(&clusterEmbedDir, "embeddings", "e", "", "embeddings directory")
	clusterCmd.Flags().StringVarP(&clusterOutput, "output", "o", "", "cluster payload JSON (default <data>/clusters/nucleus_clusters.json)")
	clusterCmd.Flags().IntVar(&clusterK, "k", 5, "number of clusters to form")
	clusterCmd.Flags().Int64Var(&clusterSeed, "seed", 13, "random seed for clustering")

	attachCmd.Flags().StringVarP(&attachEmbedDir, "embeddings", "e", "", "embeddings directory")
	attachCmd.Flags().StringVarP(&attachClusters, "clusters", "c", "", "cluster payload JSON")
	attachCmd.Flags().StringVarP(&attachOutput, "output", "o", "", "clusters-with-satellites JSON")
	attachCmd.Flags().StringVar(&attachMetric, "metric", "", fmt.Sprintf("similarity metric: %s or %s", domain.MetricCosine, domain.MetricDot))

	aggregateCmd.Flags().StringVarP(&aggregateFlat, "flat", "f", "", "flat EDU JSONL")
	aggregateCmd.Flags().StringVarP(&aggregateClusters, "clusters", "c", "", "clusters-with-satellites JSON")
	aggregateCmd.Flags().StringVarP(&aggregateOutput, "output", "o", "", "snapshot JSON (default <data>/snapshots/final_bullets.json)")

	rootCmd.AddCommand(parseCmd, flattenCmd, embedCmd, clusterCmd, attachCmd, aggregateCmd)
}
