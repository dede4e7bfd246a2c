package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/viant/vecfixture/filter"
	"github.com/viant/vecfixture/fixture"
	"github.com/viant/vecfixture/vector"
)

// Defaults applied by New to zero Options fields.
const (
	DefaultDimension = 64
	DefaultBatchSize = 500
	DefaultWorkers   = 4
)

// EmbedFunc converts text into an embedding. When set on Options, point
// embeddings are computed from their content instead of drawn at random.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Store is the subset of vector.SQLiteStore the seeder needs.
type Store interface {
	AddDocuments(ctx context.Context, docs []vector.Document) ([]string, error)
	SimilaritySearch(ctx context.Context, query []float32, k int, f *filter.Filter) ([]vector.Match, error)
	Each(ctx context.Context, fn func(vector.Document) error) error
}

// Options configures a Seeder. Zero fields take the package defaults.
type Options struct {
	Dimension int
	BatchSize int
	Workers   int
	// Generator draws the points. A seeded generator yields the same set of
	// points for any Workers value; batch composition may differ.
	Generator *fixture.Generator
	Embed     EmbedFunc
	Logger    *slog.Logger
}

// Report summarizes a Run.
type Report struct {
	Inserted int
	Batches  int
	Cities   map[string]int
	Duration time.Duration
}

// Seeder writes random fixture points into a Store.
type Seeder struct {
	store Store
	opts  Options
}

// New creates a Seeder over store.
func New(store Store, opts Options) (*Seeder, error) {
	if store == nil {
		return nil, errors.New("seed: store is nil")
	}
	if opts.Dimension < 0 || opts.BatchSize < 0 || opts.Workers < 0 {
		return nil, fmt.Errorf("%w: negative seeder option", fixture.ErrInvalidArgument)
	}
	if opts.Dimension == 0 {
		opts.Dimension = DefaultDimension
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers == 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Generator == nil {
		opts.Generator = fixture.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Seeder{store: store, opts: opts}, nil
}

// Dimension returns the embedding dimension of seeded points.
func (s *Seeder) Dimension() int { return s.opts.Dimension }

// Run generates count points and writes them to the store. Generation runs
// on up to Workers goroutines; writes are sequential. The first error
// cancels the remaining work.
func (s *Seeder) Run(ctx context.Context, count int) (Report, error) {
	if count < 0 {
		return Report{}, fmt.Errorf("%w: point count %d is negative", fixture.ErrInvalidArgument, count)
	}
	started := time.Now()
	report := Report{Cities: map[string]int{}}
	log := s.opts.Logger.With("dimension", s.opts.Dimension, "batch_size", s.opts.BatchSize)

	g, gctx := errgroup.WithContext(ctx)
	batches := make(chan []vector.Document, s.opts.Workers)

	g.Go(func() error {
		defer close(batches)
		producers, pctx := errgroup.WithContext(gctx)
		producers.SetLimit(s.opts.Workers)
		for start := 0; start < count; start += s.opts.BatchSize {
			if pctx.Err() != nil {
				break
			}
			n := min(s.opts.BatchSize, count-start)
			producers.Go(func() error {
				docs, err := s.batch(pctx, n)
				if err != nil {
					return err
				}
				select {
				case batches <- docs:
					return nil
				case <-pctx.Done():
					return pctx.Err()
				}
			})
		}
		if err := producers.Wait(); err != nil {
			return err
		}
		return gctx.Err()
	})

	g.Go(func() error {
		for docs := range batches {
			ids, err := s.store.AddDocuments(gctx, docs)
			if err != nil {
				log.ErrorContext(gctx, "batch insert failed", "size", len(docs), "error", err)
				return fmt.Errorf("seed: insert batch %d: %w", report.Batches+1, err)
			}
			report.Batches++
			report.Inserted += len(ids)
			for _, d := range docs {
				report.Cities[d.City]++
			}
			log.DebugContext(gctx, "batch inserted", "batch", report.Batches, "size", len(ids), "total", report.Inserted)
		}
		return nil
	})

	err := g.Wait()
	report.Duration = time.Since(started)
	if err != nil {
		return report, err
	}
	log.InfoContext(ctx, "seed completed", "count", report.Inserted, "batches", report.Batches, "duration", report.Duration)
	return report, nil
}

func (s *Seeder) batch(ctx context.Context, n int) ([]vector.Document, error) {
	points, err := s.opts.Generator.RandomPoints(n, s.opts.Dimension)
	if err != nil {
		return nil, err
	}
	docs := make([]vector.Document, len(points))
	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := vector.Document{
			ID:        p.ID,
			City:      p.City,
			Content:   "point in " + p.City,
			Embedding: p.Embedding,
		}
		if s.opts.Embed != nil {
			if d.Embedding, err = s.opts.Embed(ctx, d.Content); err != nil {
				return nil, fmt.Errorf("seed: embed %s: %w", d.ID, err)
			}
		}
		docs[i] = d
	}
	return docs, nil
}
