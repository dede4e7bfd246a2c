//go:build !arm64

package bruteforce

import "github.com/viant/vec/search"

// cosineDistanceWithMagnitude calls viant/vec's non-arm64 export of the same
// function, which upstream names CosineDistanceWithMagnitudesNeon.
func cosineDistanceWithMagnitude(q search.Float32s, v []float32, qm, vm float32) float32 {
	return q.CosineDistanceWithMagnitudesNeon(v, qm, vm)
}
