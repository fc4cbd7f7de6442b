// Package spectrum computes windowed one-sided power spectra of real signals.
//
// Transforms run on github.com/MeKo-Christian/algo-fft at the exact input
// length; sizes that are not powers of two go through its mixed-radix or
// Bluestein plans. Spectra are reduced to the non-negative frequency bins
// [0..N/2].
package spectrum
