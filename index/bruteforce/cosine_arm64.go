//go:build arm64

package bruteforce

import "github.com/viant/vec/search"

// cosineDistanceWithMagnitude calls the exported arm64 name in viant/vec.
func cosineDistanceWithMagnitude(q search.Float32s, v []float32, qm, vm float32) float32 {
	return q.CosineDistanceWithMagnitude(v, qm, vm)
}
