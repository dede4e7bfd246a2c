package seed

import (
	"context"
	"fmt"

	"github.com/viant/vecfixture/filter"
	"github.com/viant/vecfixture/index/bruteforce"
	"github.com/viant/vecfixture/vector"
)

// VerifyOptions configures Verify.
type VerifyOptions struct {
	// Queries is the number of random query vectors.
	Queries int
	// K is the number of neighbours compared per query.
	K int
	// Filter restricts both the store search and the reference index.
	Filter *filter.Filter
}

// Verify compares the store's similarity search with an exact brute-force
// index built from the same documents and returns the mean recall@K over
// Queries random queries. A store with no matching documents has recall 1.
func (s *Seeder) Verify(ctx context.Context, opts VerifyOptions) (float64, error) {
	if opts.Queries <= 0 || opts.K <= 0 {
		return 0, fmt.Errorf("seed: verify needs positive queries and k, got %d and %d", opts.Queries, opts.K)
	}
	if err := opts.Filter.Validate(); err != nil {
		return 0, err
	}

	var ids []string
	var vecs [][]float32
	err := s.store.Each(ctx, func(d vector.Document) error {
		if len(d.Embedding) == 0 || !opts.Filter.Matches(d.Payload()) {
			return nil
		}
		ids = append(ids, d.ID)
		vecs = append(vecs, d.Embedding)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed: load documents: %w", err)
	}
	ref := &bruteforce.Index{}
	if err := ref.Build(ids, vecs); err != nil {
		return 0, fmt.Errorf("seed: build reference index: %w", err)
	}
	if ref.Len() == 0 {
		return 1, nil
	}

	var total float64
	for q := 0; q < opts.Queries; q++ {
		query, err := s.opts.Generator.RandomEmbedding(len(vecs[0]))
		if err != nil {
			return 0, err
		}
		want, _, err := ref.Query(query, opts.K)
		if err != nil {
			return 0, err
		}
		got, err := s.store.SimilaritySearch(ctx, query, opts.K, opts.Filter)
		if err != nil {
			return 0, err
		}
		total += recall(got, want)
	}
	recallAt := total / float64(opts.Queries)
	s.opts.Logger.InfoContext(ctx, "verify completed", "queries", opts.Queries, "k", opts.K, "recall", recallAt)
	return recallAt, nil
}

func recall(got []vector.Match, want []string) float64 {
	if len(want) == 0 {
		return 1
	}
	expected := make(map[string]struct{}, len(want))
	for _, id := range want {
		expected[id] = struct{}{}
	}
	hits := 0
	for _, m := range got {
		if _, ok := expected[m.ID]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(want))
}

// CityHistogram counts the stored documents per city.
func (s *Seeder) CityHistogram(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	err := s.store.Each(ctx, func(d vector.Document) error {
		if d.City != "" {
			out[d.City]++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: city histogram: %w", err)
	}
	return out, nil
}
