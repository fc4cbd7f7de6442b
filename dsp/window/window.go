// Package window provides cosine-sum analysis windows for spectral
// measurements.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
)

// Cosine-sum coefficients: w(x) = sum_k c[k] * cos(2*pi*k*x), x in [0, 1].
var hannCoeffs = []float64{0.5, -0.5}

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	default:
		return "unknown"
	}
}

// Generate returns symmetric window coefficients of the given length.
// Unknown types yield a rectangular window.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	coeffs := cosineCoeffs(t)

	out := make([]float64, length)
	for i := range out {
		out[i] = cosineFromCoeffs(samplePosition(i, length), coeffs)
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf)))
}

func cosineCoeffs(t Type) []float64 {
	if t == TypeHann {
		return hannCoeffs
	}

	return []float64{1}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0
	}

	return float64(n) / float64(size-1)
}
