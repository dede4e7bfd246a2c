package index

// Index is an in-memory kNN index over (id, embedding) pairs.
type Index interface {
	// Build constructs the index from the given ids and vectors.
	// ids and vectors must have the same length and vectors a common dimension.
	Build(ids []string, vectors [][]float32) error

	// Query returns up to k matches as parallel slices of ids and scores,
	// ordered by decreasing cosine similarity. k <= 0 returns every match.
	Query(query []float32, k int) (ids []string, scores []float64, err error)

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}
