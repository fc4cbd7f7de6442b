// Package envelope implements the exponential "Fast" time weighting used by
// sound level meters.
//
// The detector smooths the instantaneous squared amplitude with a single
// pole, so its output is a running mean-square (power) envelope:
//
//	alpha = 1 - exp(-1 / (tau * fs))
//	y[n]  = y[n-1] + alpha * (x[n]^2 - y[n-1]),  y[-1] = 0
//
// Levels derived from it use 10*log10, not 20*log10.
package envelope

import "math"

// FastTimeConstant is the "Fast" time weighting constant in seconds.
const FastTimeConstant = 0.125

// Coefficient returns the smoothing coefficient alpha for a time constant
// tau (seconds) at sampleRate (Hz). A non-positive tau*fs product yields 1,
// which makes the detector follow the squared input without smoothing.
func Coefficient(sampleRate, tau float64) float64 {
	if !(tau*sampleRate > 0) {
		return 1
	}

	return 1 - math.Exp(-1/(tau*sampleRate))
}

// Detect returns the mean-square envelope of input, one value per sample,
// starting from zero state.
func Detect(input []float64, sampleRate, tau float64) []float64 {
	d := NewDetector(sampleRate, tau)
	out := make([]float64, len(input))
	copy(out, input)
	d.ProcessBlock(out)

	return out
}

// Detector is a streaming mean-square envelope follower.
type Detector struct {
	alpha float64
	y     float64
}

// NewDetector creates a detector with time constant tau (seconds) at
// sampleRate (Hz). The envelope starts at zero.
func NewDetector(sampleRate, tau float64) *Detector {
	return &Detector{alpha: Coefficient(sampleRate, tau)}
}

// Alpha returns the smoothing coefficient.
func (d *Detector) Alpha() float64 {
	return d.alpha
}

// ProcessSample feeds one sample and returns the updated envelope.
func (d *Detector) ProcessSample(x float64) float64 {
	d.y += d.alpha * (x*x - d.y)
	return d.y
}

// ProcessBlock replaces each sample of buf with the envelope after that
// sample.
func (d *Detector) ProcessBlock(buf []float64) {
	y, alpha := d.y, d.alpha
	for i, x := range buf {
		y += alpha * (x*x - y)
		buf[i] = y
	}

	d.y = y
}

// Value returns the current envelope without advancing it.
func (d *Detector) Value() float64 {
	return d.y
}

// Reset returns the envelope to zero.
func (d *Detector) Reset() {
	d.y = 0
}
