package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nmarkovic/moviehist/internal/job"
	"github.com/nmarkovic/moviehist/internal/shared/config"
	"github.com/nmarkovic/moviehist/internal/shared/logging"
)

func main() {
	var (
		configPath string
		dataDir    string
		outputJSON string
		outputDir  string
		workers    int
		partitions int
	)

	cmd := &cobra.Command{
		Use:   "moviehist <year> <genre>",
		Short: "Aggregate MovieLens rating histograms for movies matching a release year and genre",
		Long: "moviehist filters the MovieLens movies table by title-embedded release year\n" +
			"and exact genre tag, builds a five-bucket whole-star rating histogram per\n" +
			"matching movie, and writes results.json plus a partitioned CSV export with\n" +
			"a _SUCCESS completion marker.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year must be an integer, got %q", args[0])
			}
			genre := args[1]
			if genre == "" {
				return fmt.Errorf("genre must not be empty")
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.Dataset.Dir = dataDir
			}
			if outputJSON != "" {
				cfg.Output.JSONPath = outputJSON
			}
			if outputDir != "" {
				cfg.Output.CSVDir = outputDir
			}
			if workers > 0 {
				cfg.Job.Workers = workers
			}
			if partitions > 0 {
				cfg.Output.Partitions = partitions
			}

			logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

			summary, err := job.New(cfg, logger).Run(job.Params{Year: year, Genre: genre})
			if err != nil {
				logger.Error("Job failed", "error", err.Error())
				return err
			}

			logger.Info("Done",
				"movies", summary.MoviesMatched,
				"ratings", summary.Stats.RatingsKept,
				"json", summary.JSONPath,
				"csv_dir", summary.CSVDir,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default: config/moviehist.yaml)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "dataset directory (overrides config)")
	cmd.Flags().StringVar(&outputJSON, "output-json", "", "results JSON path (overrides config)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "results CSV directory (overrides config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of aggregation workers (overrides config)")
	cmd.Flags().IntVar(&partitions, "partitions", 0, "number of CSV output partitions (overrides config)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
