// Package signal generates deterministic test and reference signals.
package signal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-slm/dsp/core"
)

// ErrInvalidLength is returned when a requested signal has no samples.
var ErrInvalidLength = errors.New("signal: length must be > 0")

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg core.ProcessorConfig
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{cfg: core.ApplyProcessorOptions(opts...)}
}

// Samples converts a duration to a sample count at the generator rate,
// truncating partial samples.
func (g *Generator) Samples(d time.Duration) int {
	return int(d.Seconds() * g.cfg.SampleRate)
}

// Sine generates amplitude*sin(2*pi*freqHz*t) starting at phase zero.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, samples)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out, nil
}
