package bruteforce

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vecfixture/fixture"
)

func TestIndex_Query(t *testing.T) {
	idx := &Index{}
	require.NoError(t, idx.Build(
		[]string{"a", "b", "c", "z"},
		[][]float32{{1, 0}, {0.8, 0.6}, {0, 1}, {0, 0}},
	))

	ids, scores, err := idx.Query([]float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.InDelta(t, 1.0, scores[0], 1e-5)
	assert.InDelta(t, 0.8, scores[1], 1e-5)

	// k <= 0 returns every non-zero vector.
	ids, _, err = idx.Query([]float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	_, _, err = idx.Query([]float32{1, 0, 0}, 1)
	assert.Error(t, err)

	ids, _, err = idx.Query([]float32{0, 0}, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndex_BuildErrors(t *testing.T) {
	idx := &Index{}
	assert.Error(t, idx.Build([]string{"a"}, nil))
	assert.Error(t, idx.Build([]string{"a", "b"}, [][]float32{{1}, {1, 2}}))

	require.NoError(t, idx.Build(nil, nil))
	ids, _, err := idx.Query([]float32{1}, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndex_BinaryRoundTrip(t *testing.T) {
	g := fixture.NewSeeded(1)
	points, err := g.RandomPoints(40, 6)
	require.NoError(t, err)

	ids := make([]string, len(points))
	vecs := make([][]float32, len(points))
	for i, p := range points {
		ids[i], vecs[i] = p.ID, p.Embedding
	}
	orig := &Index{}
	require.NoError(t, orig.Build(ids, vecs))

	data, err := orig.MarshalBinary()
	require.NoError(t, err)

	restored := &Index{}
	require.NoError(t, restored.UnmarshalBinary(data))
	assert.Equal(t, orig.Len(), restored.Len())

	q, err := g.RandomEmbedding(6)
	require.NoError(t, err)
	wantIDs, wantScores, err := orig.Query(q, 5)
	require.NoError(t, err)
	gotIDs, gotScores, err := restored.Query(q, 5)
	require.NoError(t, err)
	assert.Equal(t, wantIDs, gotIDs)
	assert.Equal(t, wantScores, gotScores)

	assert.Error(t, restored.UnmarshalBinary(data[:len(data)-3]))
	assert.Error(t, restored.UnmarshalBinary(append(data, 0)))
	assert.Error(t, restored.UnmarshalBinary([]byte{1, 2}))
}

func TestIndex_UnmarshalForgedHeader(t *testing.T) {
	header := func(dim, n uint32, rest int) []byte {
		out := binary.LittleEndian.AppendUint32(nil, dim)
		out = binary.LittleEndian.AppendUint32(out, n)
		return append(out, make([]byte, rest)...)
	}

	idx := &Index{}
	assert.ErrorIs(t, idx.UnmarshalBinary(header(math.MaxUint32, 1, 8)), errTruncated)
	assert.ErrorIs(t, idx.UnmarshalBinary(header(1<<28, 2, 64)), errTruncated)
	assert.ErrorIs(t, idx.UnmarshalBinary(header(math.MaxUint32, math.MaxUint32, 16)), errTruncated)
	assert.ErrorIs(t, idx.UnmarshalBinary(header(2, 1, 11)), errTruncated)

	// One item with a one-byte id and two values fits exactly.
	ok := header(2, 1, 0)
	ok = binary.LittleEndian.AppendUint32(ok, 1)
	ok = append(ok, 'a')
	ok = binary.LittleEndian.AppendUint32(ok, math.Float32bits(1))
	ok = binary.LittleEndian.AppendUint32(ok, math.Float32bits(0))
	require.NoError(t, idx.UnmarshalBinary(ok))
	assert.Equal(t, 1, idx.Len())
}

func TestIndex_EmptyBinary(t *testing.T) {
	data, err := (&Index{}).MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, 8)

	idx := &Index{}
	require.NoError(t, idx.UnmarshalBinary(data))
	assert.Zero(t, idx.Len())
}
