// Package testutil holds deterministic test signals and tolerance helpers
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns amplitude*sin(2*pi*freqHz*n/sampleRate), n = 0..length-1.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// ToneInNoise returns a sine of toneAmp at freqHz plus seeded white noise of
// noiseAmp, as a calibrator recorded in a room would look.
func ToneInNoise(freqHz, sampleRate, toneAmp, noiseAmp float64, seed int64, length int) []float64 {
	out := DeterministicSine(freqHz, sampleRate, toneAmp, length)
	noise := DeterministicNoise(seed, noiseAmp, length)
	for i := range out {
		out[i] += noise[i]
	}
	return out
}

// Interleave packs equally long channels into frame order
// (c0[0], c1[0], c0[1], c1[1], ...).
func Interleave(channels ...[]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}

	n := len(channels[0])
	out := make([]float64, 0, n*len(channels))
	for i := range n {
		for _, ch := range channels {
			out = append(out, ch[i])
		}
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}
