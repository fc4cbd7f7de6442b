// Package time provides time-domain level statistics over sample blocks.
package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// MeanSquare returns the mean of the squared samples.
func MeanSquare(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return vecmath.DotProduct(signal, signal) / float64(len(signal))
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	return math.Sqrt(MeanSquare(signal))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return vecmath.MaxAbs(signal)
}
