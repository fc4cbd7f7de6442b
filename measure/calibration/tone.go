package calibration

import (
	"math"

	"github.com/cwbudde/algo-slm/dsp/core"
	"github.com/cwbudde/algo-slm/dsp/spectrum"
	"github.com/cwbudde/algo-slm/dsp/window"
)

const (
	// MinToneSamples is the shortest buffer ToneSNR analyses.
	MinToneSamples = 2048

	// toneGuardBins is the half-width of the band around the tone bin that
	// is excluded from the noise estimate.
	toneGuardBins = 5
)

// ToneSNR estimates how far a tone at f0 stands above the broadband noise
// floor of samples, in dB.
//
// The whole buffer is Hann windowed and transformed at its own length. The
// power of the bin nearest f0 is the signal; the mean power of all other
// bins, excluding DC and toneGuardBins on either side of the tone, is the
// noise. Buffers shorter than MinToneSamples, or spectra with no noise bins
// left, yield -Inf.
func ToneSNR(samples []float64, sampleRate, f0 float64) float64 {
	if len(samples) < MinToneSamples {
		return math.Inf(-1)
	}

	p, err := spectrum.Compute(samples, sampleRate, window.TypeHann)
	if err != nil {
		return math.Inf(-1)
	}

	k0 := p.NearestBin(f0)
	lo := max(k0-toneGuardBins, 1)
	hi := min(k0+toneGuardBins, p.Len()-1)

	var (
		noise float64
		count int
	)

	for k := 1; k < p.Len(); k++ {
		if k >= lo && k <= hi {
			continue
		}

		noise += p.Bins[k]
		count++
	}

	if count == 0 {
		return math.Inf(-1)
	}

	return core.PowerRatioToDB(p.Bins[k0], noise/float64(count))
}
