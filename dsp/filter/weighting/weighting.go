package weighting

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-slm/dsp/filter/biquad"
)

// Analog prototype corner frequencies (Hz).
const (
	f1 = 20.598997 // A and C
	f2 = 107.65265 // A only
	f3 = 737.86223 // A only
	f4 = 12194.217 // A and C
)

// ReferenceFrequency is the frequency (Hz) at which every designed filter has
// unity gain.
const ReferenceFrequency = 1000.0

// MinSampleRate is the lowest accepted design sample rate. The reference
// frequency must lie below Nyquist.
const MinSampleRate = 2 * ReferenceFrequency

var (
	// ErrInvalidSampleRate is returned for sample rates that are not finite
	// or do not exceed MinSampleRate.
	ErrInvalidSampleRate = errors.New("weighting: invalid sample rate")

	// ErrUnknownType is returned for weighting curves other than A and C.
	ErrUnknownType = errors.New("weighting: unknown type")
)

// Type identifies a frequency weighting curve.
type Type int

const (
	// TypeA is the A-weighting curve. It is the weighting used for all
	// level metrics.
	TypeA Type = iota

	// TypeC is the C-weighting curve.
	TypeC
)

// String returns a human-readable name for the weighting type.
func (t Type) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeC:
		return "C"
	default:
		return "Unknown"
	}
}

// Prototype returns the analog ZPK prototype of the weighting curve with unit
// gain. The returned slices are owned by the caller.
//
//	A: H(s) = s^2 / ((s+w1)(s+w2)(s+w3)(s+w4))
//	C: H(s) = s^2 / ((s^2+w1^2)(s^2+w4^2))
//
// where wi = 2*pi*fi.
func Prototype(t Type) (ZPK, error) {
	w := func(f float64) float64 { return 2 * math.Pi * f }

	switch t {
	case TypeA:
		return ZPK{
			Zeros: []complex128{0, 0},
			Poles: []complex128{
				complex(-w(f1), 0),
				complex(-w(f2), 0),
				complex(-w(f3), 0),
				complex(-w(f4), 0),
			},
			Gain: 1,
		}, nil
	case TypeC:
		return ZPK{
			Zeros: []complex128{0, 0},
			Poles: []complex128{
				complex(0, w(f1)), complex(0, -w(f1)),
				complex(0, w(f4)), complex(0, -w(f4)),
			},
			Gain: 1,
		}, nil
	default:
		return ZPK{}, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
}

// Design returns a [biquad.Chain] implementing the weighting curve at the
// given sample rate. The analog prototype is mapped with [Bilinear], factored
// with [Sections], and the first section's numerator is scaled so that the
// magnitude response at [ReferenceFrequency] is exactly 1.
//
// Design builds a new chain on every call; chains are cheap to construct and
// are never cached.
func Design(t Type, sampleRate float64) (*biquad.Chain, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= MinSampleRate {
		return nil, fmt.Errorf("%w: %g Hz (must exceed %g Hz)", ErrInvalidSampleRate, sampleRate, MinSampleRate)
	}

	proto, err := Prototype(t)
	if err != nil {
		return nil, err
	}

	coeffs, err := Sections(Bilinear(proto, sampleRate))
	if err != nil {
		return nil, err
	}

	coeffs[0] = coeffs[0].Scaled(normalizationGain(coeffs, sampleRate))

	return biquad.NewChain(coeffs), nil
}

// normalizationGain computes the gain factor needed to make the cascade
// magnitude equal to 1 (0 dB) at the reference frequency.
func normalizationGain(coeffs []biquad.Coefficients, sr float64) float64 {
	h := complex(1, 0)
	for i := range coeffs {
		h *= coeffs[i].Response(ReferenceFrequency, sr)
	}

	return 1 / cmplx.Abs(h)
}
