package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"entropynull/adapters/postgres"
	"entropynull/app"
	"entropynull/domain/core"
	"entropynull/internal"
	"entropynull/internal/config"
	"entropynull/internal/dataset"
	"entropynull/internal/testkit"
	"entropynull/ports"
	"entropynull/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "entropynull",
		Short: "Reproduce figures for the epistemic entropy collapse null result",
	}

	rootCmd.AddCommand(
		newReproduceCmd(),
		newServeCmd(),
		newFixtureCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newReproduceCmd() *cobra.Command {
	var (
		runDir    string
		outputDir string
		smoke     bool
		seed      int64
		resamples int
		subject   string
		control   string
	)

	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "reproduce",
		Short: "Reproduce all figure payloads from a run directory",
		Long: `Load metrics_internal.csv and metrics_external.csv from a run directory,
join them per (prompt_id, model_name), and write the three figure payloads
plus summary.json and report.md.

Example: entropynull reproduce --in runs/affordable --out runs/affordable/figures`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.DefaultRunOptions(runDir, outputDir)
			opts.Smoke = smoke
			opts.Seed = seed
			opts.Resamples = resamples
			if subject != "" {
				opts.Subject = core.ModelKey(subject)
			}
			if control != "" {
				opts.Control = core.ModelKey(control)
			}

			var repo ports.SummaryRepository
			if cfg.DatabaseURL != "" {
				db, err := postgres.Connect(cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer db.Close()
				pgRepo := postgres.NewSummaryRepository(db).(*postgres.SummaryRepositoryImpl)
				if err := pgRepo.EnsureSchema(cmd.Context()); err != nil {
					return err
				}
				repo = pgRepo
			}

			service := app.NewAnalysisService(dataset.NewSource(runDir), repo, internal.DefaultLogger)
			_, err := service.Reproduce(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().StringVar(&runDir, "in", cfg.RunDir, "Run directory containing metrics CSVs")
	cmd.Flags().StringVar(&outputDir, "out", cfg.OutputDir, "Directory for figure artifacts")
	cmd.Flags().BoolVar(&smoke, "smoke", false, "Fast smoke test over a 5% subsample")
	cmd.Flags().Int64Var(&seed, "seed", cfg.Seed, "Random seed for deterministic operations")
	cmd.Flags().IntVar(&resamples, "bootstrap", cfg.Resamples, "Bootstrap resample count")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject model name (default microsoft/phi-2)")
	cmd.Flags().StringVar(&control, "control", "", "Control model name (default mistralai/Mistral-7B-v0.1)")

	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		artifactsDir string
		port         string
	)

	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the artifacts of a completed run over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := ui.NewServer(artifactsDir, internal.DefaultLogger)
			return server.Run(":" + port)
		},
	}

	cmd.Flags().StringVar(&artifactsDir, "artifacts", cfg.OutputDir, "Artifacts directory from a reproduce run")
	cmd.Flags().StringVar(&port, "port", cfg.ServerPort, "Listen port")

	return cmd
}

func newFixtureCmd() *cobra.Command {
	var (
		dir  string
		rows int
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Write a seeded synthetic run directory for smoke testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.DefaultConfig()
			gen.Rows = rows
			gen.Seed = seed

			run, err := testkit.Generate(gen)
			if err != nil {
				return err
			}
			if err := run.WriteRunDir(dir); err != nil {
				return err
			}

			fmt.Printf("wrote %d synthetic sequences to %s\n", rows, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "runs/synthetic", "Target run directory")
	cmd.Flags().IntVar(&rows, "rows", 200, "Number of sequences to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Generator seed")

	return cmd
}
