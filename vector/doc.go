// Package vector defines the point store API and its SQLite-backed
// implementation. It includes:
//   - Document model, Match result and the Store interface
//   - SQLiteStore: durable storage with cosine kNN ordered in SQL
//   - Schema helpers to create the docs table
//   - Embedding encoding (BLOB) and distance functions
package vector
