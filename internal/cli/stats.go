package cli

import (
	"cmp"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/viant/vecfixture/fixture"
	"github.com/viant/vecfixture/internal/output"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show point and city counts of a store",
		Long: `Show the number of stored points, the embedding dimension, the file size
and the per-city distribution of a SQLite store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStats(cmd)
		},
	}
	cmd.Flags().String("db", "", "SQLite database path (default from config)")
	cmd.Flags().Int("top", 0, "only list the N most frequent cities (0 lists all)")
	return cmd
}

type cityCount struct {
	city  string
	count int
}

func (a *app) runStats(cmd *cobra.Command) error {
	ctx := cmd.Context()
	path := a.dbPath(cmd)

	store, closeStore, err := a.openStore(ctx, path)
	if err != nil {
		return err
	}
	defer closeStore()

	total, err := store.Count(ctx, nil)
	if err != nil {
		return err
	}
	dim, err := store.Dimension(ctx)
	if err != nil {
		return err
	}
	counts, err := store.CityCounts(ctx)
	if err != nil {
		return err
	}

	a.printer.Header("Store")
	t := a.printer.Table("Metric", "Value")
	t.AddRow("path", path)
	if info, err := os.Stat(path); err == nil {
		t.AddRow("size", output.Bytes(info.Size()))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	t.AddRow("points", output.Count(total))
	t.AddRow("dimension", strconv.Itoa(dim))
	t.AddRow("cities", output.Count(len(counts))+" of "+strconv.Itoa(fixture.CityCount))
	if err := t.Render(); err != nil {
		return err
	}
	if len(counts) == 0 {
		return nil
	}

	rows := make([]cityCount, 0, len(counts))
	for city, n := range counts {
		rows = append(rows, cityCount{city: city, count: n})
	}
	slices.SortFunc(rows, func(x, y cityCount) int {
		if c := cmp.Compare(y.count, x.count); c != 0 {
			return c
		}
		return cmp.Compare(x.city, y.city)
	})
	if top, _ := cmd.Flags().GetInt("top"); top > 0 && top < len(rows) {
		rows = rows[:top]
	}

	a.printer.Header("Cities")
	ct := a.printer.Table("City", "Points", "Share")
	for _, r := range rows {
		share := float64(r.count) / float64(total) * 100
		ct.AddRow(r.city, output.Count(r.count), strconv.FormatFloat(share, 'f', 1, 64)+"%")
	}
	return ct.Render()
}
