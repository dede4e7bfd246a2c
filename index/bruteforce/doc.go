// Package bruteforce provides an exact vector index that answers kNN queries
// by scoring every vector with cosine similarity. It has a compact binary
// format for persistence.
package bruteforce
