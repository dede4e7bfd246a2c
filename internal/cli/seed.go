package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/viant/vecfixture/internal/output"
	"github.com/viant/vecfixture/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill a SQLite store with random points",
		Long: `Generate random points, each with a uniform embedding and a random city,
and upsert them into a SQLite store.

Examples:
  vecfixture seed --db points.db --count 10000 --dim 128
  vecfixture seed --db points.db --verify 20     # Check search recall after seeding`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSeed(cmd)
		},
	}
	cmd.Flags().String("db", "", "SQLite database path (default from config)")
	cmd.Flags().IntP("count", "n", 0, "number of points (default from config)")
	cmd.Flags().Int("dim", 0, "embedding dimension (default from config)")
	cmd.Flags().Int("batch-size", 0, "points per insert transaction (default from config)")
	cmd.Flags().Int("workers", 0, "concurrent batch generators (default from config)")
	cmd.Flags().Int("verify", 0, "random queries for a recall check after seeding (0 disables)")
	cmd.Flags().Int("k", 10, "neighbours compared per verify query")
	return cmd
}

func (a *app) runSeed(cmd *cobra.Command) error {
	ctx := cmd.Context()
	path := a.dbPath(cmd)
	count := intFlag(cmd, "count", a.cfg.Seed.Count)

	store, closeStore, err := a.openStore(ctx, path)
	if err != nil {
		return err
	}
	defer closeStore()

	s, err := seed.New(store, seed.Options{
		Dimension: intFlag(cmd, "dim", a.cfg.Seed.Dimension),
		BatchSize: intFlag(cmd, "batch-size", a.cfg.Seed.BatchSize),
		Workers:   intFlag(cmd, "workers", a.cfg.Seed.Workers),
		Generator: a.gen,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}

	report, err := s.Run(ctx, count)
	if err != nil {
		return err
	}
	a.printer.Success("seeded %s points into %s", output.Count(report.Inserted), path)

	t := a.printer.Table("Metric", "Value")
	t.AddRow("points", output.Count(report.Inserted))
	t.AddRow("batches", output.Count(report.Batches))
	t.AddRow("cities", output.Count(len(report.Cities)))
	t.AddRow("dimension", output.Count(s.Dimension()))
	t.AddRow("duration", report.Duration.Round(time.Millisecond).String())
	t.AddRow("rate", output.Rate(report.Inserted, report.Duration))
	if err := t.Render(); err != nil {
		return err
	}

	queries, _ := cmd.Flags().GetInt("verify")
	if queries == 0 {
		return nil
	}
	k, _ := cmd.Flags().GetInt("k")
	r, err := s.Verify(ctx, seed.VerifyOptions{Queries: queries, K: k})
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	a.printer.Info("recall@%d over %d queries: %.3f", k, queries, r)

	return nil
}
