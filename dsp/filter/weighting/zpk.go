package weighting

import (
	"fmt"

	"github.com/cwbudde/algo-slm/dsp/filter/biquad"
	"github.com/cwbudde/algo-slm/internal/polyroot"
)

// ZPK is a transfer function in zero/pole/gain form:
//
//	H(x) = Gain * prod(x - Zeros[i]) / prod(x - Poles[j])
//
// The same representation is used for analog prototypes (x = s) and for
// their digital counterparts (x = z).
type ZPK struct {
	Zeros []complex128
	Poles []complex128
	Gain  float64
}

// Response evaluates the transfer function at x.
func (t ZPK) Response(x complex128) complex128 {
	h := complex(t.Gain, 0)
	for _, z := range t.Zeros {
		h *= x - z
	}

	for _, p := range t.Poles {
		h /= x - p
	}

	return h
}

// Bilinear maps an analog ZPK to the z-domain at the given sample rate using
// z = (2fs + s) / (2fs - s). Zeros at z = -1 are added for every pole in
// excess of the zero count (zeros at infinity map to Nyquist), and the gain
// is adjusted so the digital response matches the analog one at DC.
func Bilinear(analog ZPK, sampleRate float64) ZPK {
	fs2 := complex(2*sampleRate, 0)

	digital := ZPK{
		Zeros: make([]complex128, 0, max(len(analog.Zeros), len(analog.Poles))),
		Poles: make([]complex128, 0, len(analog.Poles)),
	}

	num := complex(1, 0)
	for _, z := range analog.Zeros {
		digital.Zeros = append(digital.Zeros, (fs2+z)/(fs2-z))
		num *= fs2 - z
	}

	den := complex(1, 0)
	for _, p := range analog.Poles {
		digital.Poles = append(digital.Poles, (fs2+p)/(fs2-p))
		den *= fs2 - p
	}

	for range len(analog.Poles) - len(analog.Zeros) {
		digital.Zeros = append(digital.Zeros, -1)
	}

	digital.Gain = analog.Gain * real(num/den)

	return digital
}

// Sections factors a digital ZPK into second-order sections. Poles are
// grouped into conjugate or real pairs, ordered closest to the unit circle
// first; each pole pair receives the nearest zero pair. The overall gain is
// carried by the first section's numerator.
func Sections(digital ZPK) ([]biquad.Coefficients, error) {
	zeros := append([]complex128(nil), digital.Zeros...)
	poles := append([]complex128(nil), digital.Poles...)

	// Equal root counts make the pair counts match; roots at the origin
	// only shift the section delay taps.
	for len(zeros) < len(poles) {
		zeros = append(zeros, 0)
	}

	for len(poles) < len(zeros) {
		poles = append(poles, 0)
	}

	if len(poles) == 0 {
		return []biquad.Coefficients{{B0: digital.Gain}}, nil
	}

	polePairs, err := polyroot.PairRoots(poles)
	if err != nil {
		return nil, fmt.Errorf("weighting: pair poles: %w", err)
	}

	zeroPairs, err := polyroot.PairRoots(zeros)
	if err != nil {
		return nil, fmt.Errorf("weighting: pair zeros: %w", err)
	}

	zeroPairs, err = polyroot.MatchNearest(polePairs, zeroPairs)
	if err != nil {
		return nil, fmt.Errorf("weighting: match zeros: %w", err)
	}

	sections := make([]biquad.Coefficients, len(polePairs))

	for i := range polePairs {
		b0, b1, b2, err := polyroot.QuadFromRoots(zeroPairs[i])
		if err != nil {
			return nil, fmt.Errorf("weighting: section %d zeros: %w", i, err)
		}

		_, a1, a2, err := polyroot.QuadFromRoots(polePairs[i])
		if err != nil {
			return nil, fmt.Errorf("weighting: section %d poles: %w", i, err)
		}

		sections[i] = biquad.Coefficients{B0: b0, B1: b1, B2: b2, A1: a1, A2: a2}
	}

	sections[0] = sections[0].Scaled(digital.Gain)

	return sections, nil
}
