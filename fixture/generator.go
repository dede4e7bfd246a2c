package fixture

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"
)

// Point is a single fixture record: an identifier, a city payload and an
// embedding.
type Point struct {
	ID        string
	City      string
	Embedding []float32
}

// Generator draws fixture values from a single random source.
// It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	uniform distuv.Uniform
}

// New creates a Generator over src. A nil src is replaced with a PCG source
// seeded from the runtime's entropy.
func New(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{
		rng:     rand.New(src),
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

// NewSeeded creates a Generator whose output is fully determined by seed.
func NewSeeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomVector returns n independent draws from U[0, 1).
// n == 0 yields an empty, non-nil slice.
func (g *Generator) RandomVector(n int) ([]float64, error) {
	if err := checkLength(n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range out {
		out[i] = g.uniform.Rand()
	}
	return out, nil
}

// RandomEmbedding is RandomVector in the float32 storage representation.
// Values are drawn directly as float32, so none rounds up to 1.
func (g *Generator) RandomEmbedding(n int) ([]float32, error) {
	if err := checkLength(n); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.embedding(n), nil
}

func (g *Generator) embedding(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = g.rng.Float32()
	}
	return out
}

// RandomCity returns one of the fixture cities, each with probability
// 1/CityCount.
func (g *Generator) RandomCity() string {
	g.mu.Lock()
	i := g.rng.IntN(len(cities))
	g.mu.Unlock()
	return cities[i]
}

// RandomPoint returns a point with a random v4 UUID, city and embedding of
// length dim. The whole point is drawn under one lock, so a seeded generator
// yields the same sequence of points however many goroutines share it.
func (g *Generator) RandomPoint(dim int) (Point, error) {
	if err := checkLength(dim); err != nil {
		return Point{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	emb := g.embedding(dim)
	id, err := uuid.NewRandomFromReader(randReader{g.rng})
	if err != nil {
		return Point{}, fmt.Errorf("fixture: point id: %w", err)
	}
	return Point{ID: id.String(), City: cities[g.rng.IntN(len(cities))], Embedding: emb}, nil
}

// RandomPoints returns count points of dimension dim.
func (g *Generator) RandomPoints(count, dim int) ([]Point, error) {
	if count < 0 || count > MaxLength {
		return nil, fmt.Errorf("%w: point count %d out of range [0, %d]", ErrInvalidArgument, count, MaxLength)
	}
	out := make([]Point, count)
	for i := range out {
		p, err := g.RandomPoint(dim)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// ParseLength parses a textual vector length, rejecting non-numeric,
// negative and oversized values with ErrInvalidArgument.
func ParseLength(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: vector length %q exceeds %d", ErrInvalidArgument, s, MaxLength)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: vector length %q is not an integer", ErrInvalidArgument, s)
	}
	if err := checkLength(n); err != nil {
		return 0, err
	}
	return n, nil
}

// MaxLength is the largest vector length the generators accept.
const MaxLength = 1 << 24

// CheckLength reports whether n is a valid vector length, 0 through
// MaxLength.
func CheckLength(n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: vector length %d is negative", ErrInvalidArgument, n)
	}
	if n > MaxLength {
		return fmt.Errorf("%w: vector length %d exceeds %d", ErrInvalidArgument, n, MaxLength)
	}
	return nil
}

func checkLength(n int) error { return CheckLength(int64(n)) }

// randReader adapts a rand.Rand to io.Reader; caller holds the generator lock.
type randReader struct{ r *rand.Rand }

func (rr randReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(rr.r.Uint32())
	}
	return len(p), nil
}

var std = New(nil)

// Default returns the shared generator behind the package-level functions.
func Default() *Generator { return std }

// RandomVector returns n independent draws from U[0, 1) using the shared
// generator.
func RandomVector(n int) ([]float64, error) { return std.RandomVector(n) }

// RandomEmbedding returns n float32 draws from U[0, 1) using the shared
// generator.
func RandomEmbedding(n int) ([]float32, error) { return std.RandomEmbedding(n) }

// RandomCity returns a uniformly chosen fixture city using the shared
// generator.
func RandomCity() string { return std.RandomCity() }
