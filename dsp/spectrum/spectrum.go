package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-slm/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrEmptyInput is returned when there is nothing to transform.
	ErrEmptyInput = errors.New("spectrum: input must not be empty")
	// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("spectrum: sample rate must be > 0")
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Power holds a one-sided power spectrum.
type Power struct {
	// Bins are |X[k]|^2 for k = 0..FFTSize/2.
	Bins       []float64
	FFTSize    int
	SampleRate float64
}

// Len returns the number of one-sided bins.
func (p Power) Len() int { return len(p.Bins) }

// BinWidth returns the frequency spacing between adjacent bins in Hz.
func (p Power) BinWidth() float64 {
	if p.FFTSize <= 0 {
		return 0
	}
	return p.SampleRate / float64(p.FFTSize)
}

// BinFrequency returns the centre frequency of bin k in Hz.
func (p Power) BinFrequency(k int) float64 {
	return float64(k) * p.BinWidth()
}

// NearestBin returns the index of the bin whose centre is closest to freqHz,
// clamped to [0, Len()-1].
func (p Power) NearestBin(freqHz float64) int {
	return NearestBin(freqHz, p.SampleRate, p.FFTSize)
}

// NearestBin returns round(freqHz*fftSize/sampleRate) clamped to the
// one-sided range [0, fftSize/2].
func NearestBin(freqHz, sampleRate float64, fftSize int) int {
	if fftSize <= 0 || sampleRate <= 0 {
		return 0
	}

	k := int(math.Round(freqHz * float64(fftSize) / sampleRate))
	if k < 0 {
		return 0
	}

	if maxBin := fftSize / 2; k > maxBin {
		return maxBin
	}

	return k
}

// Compute returns the one-sided power spectrum of input after applying a
// window of type wt over the full input length. The transform runs at exactly
// len(input) points, so bins are spaced sampleRate/len(input) apart. The
// input is not modified.
func Compute(input []float64, sampleRate float64, wt window.Type) (Power, error) {
	if len(input) == 0 {
		return Power{}, ErrEmptyInput
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Power{}, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	fftSize := len(input)

	windowed := make([]float64, len(input))
	copy(windowed, input)
	window.Apply(wt, windowed)

	inData := make([]complex128, fftSize)
	for i, v := range windowed {
		inData[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Power{}, fmt.Errorf("spectrum: fft plan (%d): %w", fftSize, err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, inData); err != nil {
		return Power{}, fmt.Errorf("spectrum: forward fft: %w", err)
	}

	return Power{
		Bins:       OneSided(out),
		FFTSize:    fftSize,
		SampleRate: sampleRate,
	}, nil
}

// OneSided returns |X[k]|^2 for the non-negative frequency bins of a full
// complex spectrum of length N, i.e. k = 0..N/2.
func OneSided(bins []complex128) []float64 {
	if len(bins) == 0 {
		return nil
	}

	n := len(bins)/2 + 1
	if n > len(bins) {
		n = len(bins)
	}

	out := make([]float64, n)
	re, im, buf := getScratch(n)

	for i := range n {
		re[i] = real(bins[i])
		im[i] = imag(bins[i])
	}

	vecmath.Power(out, re, im)
	putScratch(buf)

	return out
}
