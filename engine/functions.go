package engine

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/viant/vecfixture/fixture"
	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
	generator    atomic.Pointer[fixture.Generator]
)

// RegisterFunctions registers vec_cosine, vec_l2, random_vector and
// random_city with the driver so they are available on connections opened
// after this call. Open calls it; repeated calls are no-ops.
func RegisterFunctions() error {
	registerOnce.Do(func() {
		registerErr = register()
	})
	return registerErr
}

func register() error {
	fns := []struct {
		name          string
		nArg          int32
		deterministic bool
		impl          func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error)
	}{
		{"vec_cosine", 2, true, vecCosineImpl},
		{"vec_l2", 2, true, vecL2Impl},
		{"random_vector", 1, false, randomVectorImpl},
		{"random_city", 0, false, randomCityImpl},
	}
	for _, fn := range fns {
		var err error
		if fn.deterministic {
			err = sqlite.RegisterDeterministicScalarFunction(fn.name, fn.nArg, fn.impl)
		} else {
			err = sqlite.RegisterScalarFunction(fn.name, fn.nArg, fn.impl)
		}
		if err != nil && !strings.Contains(err.Error(), "already registered") {
			return fmt.Errorf("engine: register %s: %w", fn.name, err)
		}
	}
	return nil
}

// UseGenerator sets the generator behind random_vector and random_city.
// A nil g restores the shared fixture generator.
func UseGenerator(g *fixture.Generator) {
	generator.Store(g)
}

func currentGenerator() *fixture.Generator {
	if g := generator.Load(); g != nil {
		return g
	}
	return fixture.Default()
}

func asEmbedding(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeEmbedding(v)
	default:
		return nil, fmt.Errorf("vec: unsupported argument type %T for embedding; want BLOB", arg)
	}
}

// asLength converts a SQL argument to a vector length. Text is accepted when
// it parses as an integer; everything else non-integral is rejected.
func asLength(arg driver.Value) (int, error) {
	switch v := arg.(type) {
	case int64:
		if err := fixture.CheckLength(v); err != nil {
			return 0, err
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: vector length %v is not an integer", fixture.ErrInvalidArgument, v)
		}
		if v < 0 || v > fixture.MaxLength {
			return 0, fmt.Errorf("%w: vector length %v out of range [0, %d]", fixture.ErrInvalidArgument, v, fixture.MaxLength)
		}
		return int(v), nil
	case string:
		return fixture.ParseLength(v)
	case []byte:
		return fixture.ParseLength(string(v))
	default:
		return 0, fmt.Errorf("%w: unsupported vector length type %T", fixture.ErrInvalidArgument, arg)
	}
}

func vecCosineImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := embeddingPair("vec_cosine", args)
	if err != nil || a == nil || b == nil {
		return nil, err
	}
	return cosine(a, b)
}

func vecL2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := embeddingPair("vec_l2", args)
	if err != nil || a == nil || b == nil {
		return nil, err
	}
	return l2(a, b)
}

func embeddingPair(name string, args []driver.Value) ([]float32, []float32, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	a, err := asEmbedding(args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := asEmbedding(args[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func randomVectorImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("random_vector: expected 1 argument, got %d", len(args))
	}
	if args[0] == nil {
		return nil, nil
	}
	n, err := asLength(args[0])
	if err != nil {
		return nil, fmt.Errorf("random_vector: %w", err)
	}
	vec, err := currentGenerator().RandomEmbedding(n)
	if err != nil {
		return nil, fmt.Errorf("random_vector: %w", err)
	}
	return encodeEmbedding(vec), nil
}

func randomCityImpl(_ *sqlite.FunctionContext, _ []driver.Value) (driver.Value, error) {
	return currentGenerator().RandomCity(), nil
}

// Local encoding helpers; the vector package depends on this one in tests.
func encodeEmbedding(v []float32) []byte {
	b := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

func decodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vec: invalid embedding blob length %d", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vec: cosine dim mismatch %d vs %d", len(a), len(b))
	}
	var dot, na2, nb2 float64
	for i := range a {
		va, vb := float64(a[i]), float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2)), nil
}

func l2(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vec: L2 dim mismatch %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
