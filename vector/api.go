package vector

import (
	"context"
	"errors"

	"github.com/viant/vecfixture/filter"
)

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("vector: document not found")

// ErrDimensionMismatch is returned when an embedding's length differs from
// the dimension of the embeddings already in the store.
var ErrDimensionMismatch = errors.New("vector: embedding dimension mismatch")

// Document is a single point in the store.
type Document struct {
	// ID is the document identifier. When empty on insert, the store assigns
	// a random UUID.
	ID string

	// City is the payload field filters match on.
	City string

	// Content is optional free text kept alongside the point.
	Content string

	// Embedding is the vector representation of the point.
	Embedding []float32
}

// Payload returns the filterable fields of d.
func (d Document) Payload() map[string]string {
	p := map[string]string{}
	if d.City != "" {
		p[filter.CityKey] = d.City
	}
	return p
}

// Match is a search hit; higher Score means more similar.
type Match struct {
	Document
	Score float64
}

// Store defines the application-level point store API.
type Store interface {
	// AddDocuments upserts documents and returns their ids in input order.
	// All embeddings in a store share one dimension.
	AddDocuments(ctx context.Context, docs []Document) ([]string, error)

	// Get returns the document with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)

	// SimilaritySearch returns up to k documents matching f, ordered by
	// decreasing cosine similarity to query.
	SimilaritySearch(ctx context.Context, query []float32, k int, f *filter.Filter) ([]Match, error)

	// Count returns the number of documents matching f.
	Count(ctx context.Context, f *filter.Filter) (int, error)

	// Remove deletes the document with the given id.
	Remove(ctx context.Context, id string) error
}
