package vector

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/viant/vecfixture/filter"
)

// SQLiteStore implements Store on a SQLite database. Similarity ordering is
// computed in SQL with vec_cosine, so db must come from engine.Open.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed Store and ensures the docs schema
// exists.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("vector: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// AddDocuments upserts docs in a single transaction. Documents without an ID
// are assigned a random UUID. Every embedding must match the dimension of
// the stored embeddings, or of the first embedding in docs when the store
// has none; otherwise nothing is written and the error wraps
// ErrDimensionMismatch.
func (s *SQLiteStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO docs(id, content, meta, embedding) VALUES(?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  content = excluded.content,
  meta = excluded.meta,
  embedding = excluded.embedding`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	dim, err := storedDimension(ctx, tx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if n := len(d.Embedding); n > 0 {
			if dim == 0 {
				dim = n
			} else if n != dim {
				return nil, fmt.Errorf("%w: document %s has %d values, store has %d", ErrDimensionMismatch, d.ID, n, dim)
			}
		}
		emb, err := EncodeEmbedding(d.Embedding)
		if err != nil {
			return nil, fmt.Errorf("vector: document %s: %w", d.ID, err)
		}
		meta, err := encodePayload(d.Payload())
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx, d.ID, d.Content, meta, emb); err != nil {
			return nil, err
		}
		ids = append(ids, d.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Get loads a single document by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, content, meta, embedding FROM docs WHERE id = ?`, id)
	d, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d, err
}

// SimilaritySearch returns up to k documents matching f ordered by cosine
// similarity to query. Documents without an embedding are skipped.
func (s *SQLiteStore) SimilaritySearch(ctx context.Context, query []float32, k int, f *filter.Filter) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(query) == 0 {
		return nil, fmt.Errorf("vector: SimilaritySearch called with empty query")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	q, err := EncodeEmbedding(query)
	if err != nil {
		return nil, err
	}
	dim, err := storedDimension(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if dim != 0 && dim != len(query) {
		return nil, fmt.Errorf("%w: query has %d values, store has %d", ErrDimensionMismatch, len(query), dim)
	}

	where, args := f.SQL("meta")
	stmt := `SELECT id, content, meta, embedding, vec_cosine(embedding, ?) AS score
FROM docs
WHERE embedding IS NOT NULL AND ` + where + `
ORDER BY score DESC, id
LIMIT ?`
	args = append([]any{q}, args...)
	args = append(args, k)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("vector: similarity search: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if m.Document, err = scanRow(rows, &m.Score); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector: similarity search: %w", err)
	}
	return out, nil
}

// Count returns the number of documents matching f.
func (s *SQLiteStore) Count(ctx context.Context, f *filter.Filter) (int, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	where, args := f.SQL("meta")
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM docs WHERE `+where, args...).Scan(&n)
	return n, err
}

// Dimension returns the embedding dimension of the stored documents, or 0
// when no document has an embedding.
func (s *SQLiteStore) Dimension(ctx context.Context) (int, error) {
	return storedDimension(ctx, s.db)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func storedDimension(ctx context.Context, q rowQuerier) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT length(embedding) / 4 FROM docs WHERE length(embedding) > 0 LIMIT 1`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("vector: dimension: %w", err)
	}
	return n, nil
}

// CityCounts returns the number of documents per city. Documents without a
// city are not counted.
func (s *SQLiteStore) CityCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT json_extract(meta, '$.city'), COUNT(*)
FROM docs
WHERE json_extract(meta, '$.city') IS NOT NULL
GROUP BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var city string
		var n int
		if err := rows.Scan(&city, &n); err != nil {
			return nil, err
		}
		out[city] = n
	}
	return out, rows.Err()
}

// Each calls fn for every document in insertion order, stopping at the first
// error. fn must not call back into the store: an in-memory database has a
// single connection, held by the iteration.
func (s *SQLiteStore) Each(ctx context.Context, fn func(Document) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, meta, embedding FROM docs ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		d, err := scanRow(rows)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Remove deletes a document by id. Removing a missing id is not an error.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("vector: Remove called with empty id")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM docs WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(r scanner, extra ...any) (Document, error) {
	var (
		d       Document
		content sql.NullString
		meta    string
		emb     []byte
	)
	dest := append([]any{&d.ID, &content, &meta, &emb}, extra...)
	if err := r.Scan(dest...); err != nil {
		return Document{}, err
	}
	d.Content = content.String
	payload, err := decodePayload(meta)
	if err != nil {
		return Document{}, fmt.Errorf("vector: document %s: %w", d.ID, err)
	}
	d.City = payload[filter.CityKey]
	if d.Embedding, err = DecodeEmbedding(emb); err != nil {
		return Document{}, fmt.Errorf("vector: document %s: %w", d.ID, err)
	}
	return d, nil
}

func encodePayload(p map[string]string) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("vector: encode payload: %w", err)
	}
	return string(b), nil
}

func decodePayload(meta string) (map[string]string, error) {
	if meta == "" {
		return map[string]string{}, nil
	}
	var p map[string]string
	if err := json.Unmarshal([]byte(meta), &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
