// Package fixture generates random test data for vector stores: uniform
// random vectors, cities drawn from a fixed list, and points combining both.
//
// Package-level functions use a shared, concurrency-safe generator. Use
// NewSeeded for reproducible sequences.
package fixture
