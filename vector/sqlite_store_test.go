package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/viant/vecfixture/engine"
	"github.com/viant/vecfixture/filter"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLiteStore(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return store
}

// TestSQLiteStore_AddSearchRemove exercises inserting documents, a cosine
// search and removal.
func TestSQLiteStore_AddSearchRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []Document{
		{ID: "d1", City: "Tokyo", Content: "first", Embedding: []float32{1, 0}},
		{ID: "d2", City: "Paris", Content: "second", Embedding: []float32{0.8, 0.6}},
		{ID: "d3", City: "Tokyo", Content: "third", Embedding: []float32{0, 1}},
	}

	ids, err := store.AddDocuments(ctx, docs)
	if err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}
	if len(ids) != len(docs) {
		t.Fatalf("AddDocuments returned %d ids, want %d", len(ids), len(docs))
	}

	out, err := store.SimilaritySearch(ctx, []float32{1, 0}, 2, nil)
	if err != nil {
		t.Fatalf("SimilaritySearch failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("SimilaritySearch returned %d docs, want 2", len(out))
	}
	if out[0].ID != "d1" || out[1].ID != "d2" {
		t.Errorf("SimilaritySearch order = [%s, %s], want [d1, d2]", out[0].ID, out[1].ID)
	}
	if out[0].Score < out[1].Score {
		t.Errorf("scores not descending: %v, %v", out[0].Score, out[1].Score)
	}
	if out[0].City != "Tokyo" || out[0].Content != "first" || len(out[0].Embedding) != 2 {
		t.Errorf("unexpected first match: %+v", out[0])
	}

	if err := store.Remove(ctx, "d2"); err != nil {
		t.Fatalf("Remove(d2) failed: %v", err)
	}
	out, err = store.SimilaritySearch(ctx, []float32{1, 0}, 10, nil)
	if err != nil {
		t.Fatalf("SimilaritySearch after remove failed: %v", err)
	}
	for _, d := range out {
		if d.ID == "d2" {
			t.Fatalf("expected d2 to be removed, but found in results")
		}
	}
	if _, err := store.Get(ctx, "d2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(d2) after remove = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_SearchWithFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AddDocuments(ctx, []Document{
		{ID: "a", City: "Tokyo", Embedding: []float32{1, 0}},
		{ID: "b", City: "Paris", Embedding: []float32{1, 0.1}},
		{ID: "c", City: "Lima", Embedding: []float32{0, 1}},
	})
	if err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}

	out, err := store.SimilaritySearch(ctx, []float32{1, 0}, 10, filter.InCities("Paris", "Lima"))
	if err != nil {
		t.Fatalf("SimilaritySearch failed: %v", err)
	}
	if len(out) != 2 || out[0].ID != "b" || out[1].ID != "c" {
		t.Fatalf("filtered search = %+v, want [b c]", out)
	}

	f := &filter.Filter{MustNot: []filter.Condition{filter.City("Tokyo")}}
	n, err := store.Count(ctx, f)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Count(not Tokyo) = %d, want 2", n)
	}

	bad := &filter.Filter{Must: []filter.Condition{{Match: "x"}}}
	if _, err := store.SimilaritySearch(ctx, []float32{1, 0}, 1, bad); !errors.Is(err, filter.ErrEmptyKey) {
		t.Fatalf("search with invalid filter = %v, want ErrEmptyKey", err)
	}
}

func TestSQLiteStore_Upsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.AddDocuments(ctx, []Document{{ID: "x", City: "Cairo", Embedding: []float32{1, 2}}}); err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}
	if _, err := store.AddDocuments(ctx, []Document{{ID: "x", City: "Lagos", Embedding: []float32{3, 4}}}); err != nil {
		t.Fatalf("AddDocuments (update) failed: %v", err)
	}

	d, err := store.Get(ctx, "x")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if d.City != "Lagos" || d.Embedding[0] != 3 {
		t.Fatalf("Get after upsert = %+v", d)
	}
	if n, _ := store.Count(ctx, nil); n != 1 {
		t.Fatalf("Count = %d, want 1", n)
	}
}

func TestSQLiteStore_GeneratesIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	ids, err := store.AddDocuments(ctx, []Document{{City: "Seoul"}, {City: "Seoul"}})
	if err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}
	if len(ids) != 2 || ids[0] == "" || ids[0] == ids[1] {
		t.Fatalf("generated ids = %v", ids)
	}

	counts, err := store.CityCounts(ctx)
	if err != nil {
		t.Fatalf("CityCounts failed: %v", err)
	}
	if counts["Seoul"] != 2 {
		t.Fatalf("CityCounts = %v, want Seoul:2", counts)
	}

	// Documents without embeddings never match a search.
	out, err := store.SimilaritySearch(ctx, []float32{1}, 5, nil)
	if err != nil {
		t.Fatalf("SimilaritySearch failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("SimilaritySearch = %v, want none", out)
	}
}

func TestSQLiteStore_SearchEdgeCases(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.AddDocuments(ctx, []Document{{ID: "a", Embedding: []float32{1, 0}}}); err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}
	if out, err := store.SimilaritySearch(ctx, []float32{1, 0}, 0, nil); err != nil || out != nil {
		t.Fatalf("k=0 search = %v, %v; want nil, nil", out, err)
	}
	if _, err := store.SimilaritySearch(ctx, nil, 1, nil); err == nil {
		t.Fatalf("empty query succeeded, want error")
	}
	if _, err := store.SimilaritySearch(ctx, []float32{1, 0, 0}, 1, nil); err == nil {
		t.Fatalf("mismatched query dimension succeeded, want error")
	}
	if err := store.Remove(ctx, ""); err == nil {
		t.Fatalf("Remove(\"\") succeeded, want error")
	}
}

func TestSQLiteStore_Each(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.AddDocuments(ctx, []Document{{ID: "1"}, {ID: "2"}, {ID: "3"}}); err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}
	var seen []string
	if err := store.Each(ctx, func(d Document) error {
		seen = append(seen, d.ID)
		return nil
	}); err != nil {
		t.Fatalf("Each failed: %v", err)
	}
	if len(seen) != 3 || seen[0] != "1" || seen[2] != "3" {
		t.Fatalf("Each visited %v, want [1 2 3]", seen)
	}

	stop := errors.New("stop")
	if err := store.Each(ctx, func(Document) error { return stop }); !errors.Is(err, stop) {
		t.Fatalf("Each error = %v, want stop", err)
	}
}

func TestSQLiteStore_Dimension(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	dim, err := store.Dimension(ctx)
	if err != nil {
		t.Fatalf("Dimension on empty store failed: %v", err)
	}
	if dim != 0 {
		t.Errorf("Dimension on empty store = %d, want 0", dim)
	}

	if _, err := store.AddDocuments(ctx, []Document{
		{ID: "bare", City: "Lima"},
		{ID: "v", City: "Lima", Embedding: []float32{1, 2, 3, 4, 5}},
	}); err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}
	dim, err = store.Dimension(ctx)
	if err != nil {
		t.Fatalf("Dimension failed: %v", err)
	}
	if dim != 5 {
		t.Errorf("Dimension = %d, want 5", dim)
	}
}

func TestSQLiteStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.AddDocuments(ctx, []Document{{ID: "a", City: "Tokyo", Embedding: []float32{1, 0, 0}}}); err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}

	_, err := store.AddDocuments(ctx, []Document{
		{ID: "b", City: "Lima", Embedding: []float32{0, 1, 0}},
		{ID: "c", City: "Lima", Embedding: []float32{1, 0}},
	})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("AddDocuments with a 2-value embedding = %v, want ErrDimensionMismatch", err)
	}
	if _, err := store.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(b) after rejected batch = %v, want ErrNotFound", err)
	}

	// Documents without an embedding are not constrained.
	if _, err := store.AddDocuments(ctx, []Document{{ID: "bare", City: "Lima"}}); err != nil {
		t.Fatalf("AddDocuments without embedding failed: %v", err)
	}

	out, err := store.SimilaritySearch(ctx, []float32{1, 0, 0}, 5, nil)
	if err != nil {
		t.Fatalf("SimilaritySearch failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("SimilaritySearch = %v, want [a]", out)
	}
	if _, err := store.SimilaritySearch(ctx, []float32{1, 0}, 5, nil); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("SimilaritySearch with 2-value query = %v, want ErrDimensionMismatch", err)
	}
}

func TestSQLiteStore_DimensionMismatchInBatch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AddDocuments(ctx, []Document{
		{ID: "a", Embedding: []float32{1, 0}},
		{ID: "b", Embedding: []float32{1, 0, 0}},
	})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("AddDocuments with mixed dimensions = %v, want ErrDimensionMismatch", err)
	}
	n, err := store.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("Count after rolled back batch = %d, want 0", n)
	}
}
