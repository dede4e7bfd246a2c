package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/viant/vecfixture/filter"
	"github.com/viant/vecfixture/fixture"
	"github.com/viant/vecfixture/internal/output"
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a random similarity query against a store",
		Long: `Draw a random query vector matching the store's dimension and print the
nearest points by cosine similarity.

Examples:
  vecfixture search --db points.db
  vecfixture search --db points.db --city Tokyo --city Lima --k 5
  vecfixture search --db points.db --exclude-city Paris`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSearch(cmd)
		},
	}
	cmd.Flags().String("db", "", "SQLite database path (default from config)")
	cmd.Flags().StringSlice("city", nil, "only return points in these cities")
	cmd.Flags().StringSlice("exclude-city", nil, "never return points in these cities")
	cmd.Flags().Int("k", 10, "number of results")
	return cmd
}

func (a *app) runSearch(cmd *cobra.Command) error {
	ctx := cmd.Context()
	include, _ := cmd.Flags().GetStringSlice("city")
	exclude, _ := cmd.Flags().GetStringSlice("exclude-city")
	k, _ := cmd.Flags().GetInt("k")
	if k < 0 {
		return fmt.Errorf("%w: k %d is negative", fixture.ErrInvalidArgument, k)
	}
	f, err := cityFilter(include, exclude)
	if err != nil {
		return err
	}

	store, closeStore, err := a.openStore(ctx, a.dbPath(cmd))
	if err != nil {
		return err
	}
	defer closeStore()

	dim, err := store.Dimension(ctx)
	if err != nil {
		return err
	}
	if dim == 0 {
		a.printer.Warning("store has no embeddings; run seed first")
		return nil
	}
	query, err := a.gen.RandomEmbedding(dim)
	if err != nil {
		return err
	}
	matches, err := store.SimilaritySearch(ctx, query, k, f)
	if err != nil {
		return err
	}
	a.logger.Debug("search completed", "dimension", dim, "k", k, "results", len(matches))

	if len(matches) == 0 {
		a.printer.Warning("no matching points")
		return nil
	}
	t := a.printer.Table("Rank", "ID", "City", "Score")
	for i, m := range matches {
		t.AddRow(strconv.Itoa(i+1), m.ID, m.City, strconv.FormatFloat(m.Score, 'f', 4, 64))
	}
	if err := t.Render(); err != nil {
		return err
	}
	a.printer.Info("%s results", output.Count(len(matches)))
	return nil
}

// cityFilter builds a filter accepting any of include and none of exclude.
// Unknown city names are rejected.
func cityFilter(include, exclude []string) (*filter.Filter, error) {
	for _, c := range append(append([]string(nil), include...), exclude...) {
		if !fixture.IsCity(c) {
			return nil, fmt.Errorf("%w: unknown city %q", fixture.ErrInvalidArgument, c)
		}
	}
	f := filter.InCities(include...)
	for _, c := range exclude {
		f.MustNot = append(f.MustNot, filter.City(c))
	}
	return f, nil
}
