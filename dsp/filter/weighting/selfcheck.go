package weighting

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-slm/dsp/core"
	"github.com/cwbudde/algo-slm/dsp/signal"
	timestats "github.com/cwbudde/algo-slm/stats/time"
)

// Self-check tolerances (dB).
const (
	GainTolerance = 0.1
	RMSTolerance  = 0.2
)

const (
	checkAmplitude = 0.5
	checkDuration  = time.Second
	checkSettle    = 200 * time.Millisecond // discarded before measuring
)

// Check is the outcome of [Verify].
type Check struct {
	SampleRate float64

	// GainDB is the A filter's magnitude response at the reference
	// frequency.
	GainDB float64

	// RMSErrorDB is 20*log10(measured/expected) for the filtered
	// reference sine after settling.
	RMSErrorDB float64
}

// GainOK reports whether the reference-frequency gain is within
// GainTolerance of 0 dB.
func (c Check) GainOK() bool {
	return math.Abs(c.GainDB) < GainTolerance
}

// RMSOK reports whether the sine RMS error is within RMSTolerance.
func (c Check) RMSOK() bool {
	return math.Abs(c.RMSErrorDB) < RMSTolerance
}

// OK reports whether both checks passed.
func (c Check) OK() bool {
	return c.GainOK() && c.RMSOK()
}

func (c Check) String() string {
	return fmt.Sprintf("A-weight @1k gain = %+.2f dB; 1k sine RMS err = %+.2f dB", c.GainDB, c.RMSErrorDB)
}

// Verify builds the A filter for sampleRate and checks it against two
// textbook properties: unity gain at 1 kHz and the RMS of a filtered 1 kHz
// sine (amplitude 0.5, 1 s, first 200 ms discarded) matching A/sqrt(2).
//
// An error is returned only if the filter cannot be designed; a filter that
// fails the checks is reported through [Check.OK].
func Verify(sampleRate float64) (Check, error) {
	chain, err := Design(TypeA, sampleRate)
	if err != nil {
		return Check{}, err
	}

	check := Check{
		SampleRate: sampleRate,
		GainDB:     chain.MagnitudeDB(ReferenceFrequency, sampleRate),
	}

	gen := signal.NewGenerator(core.WithSampleRate(sampleRate))

	sine, err := gen.Sine(ReferenceFrequency, checkAmplitude, gen.Samples(checkDuration))
	if err != nil {
		return Check{}, fmt.Errorf("weighting: self-check signal: %w", err)
	}

	filtered := chain.Apply(sine)
	settled := filtered[gen.Samples(checkSettle):]

	expected := checkAmplitude / math.Sqrt2
	check.RMSErrorDB = core.AmplitudeToDB(timestats.RMS(settled) / expected)

	return check, nil
}
