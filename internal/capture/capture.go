// Package capture supplies single-channel capture buffers to the meter.
//
// A Source delivers interleaved multi-channel audio reduced to one channel
// according to a Mode. Sources report a device name so that calibration
// offsets can be keyed per input chain.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cwbudde/algo-slm/measure/spl"
	timestats "github.com/cwbudde/algo-slm/stats/time"
)

var (
	// ErrUnknownMode is returned by ParseMode for unsupported names.
	ErrUnknownMode = errors.New("capture: unknown channel mode")
	// ErrInvalidChannels is returned for channel counts < 1 or frame data
	// that is not a multiple of the channel count.
	ErrInvalidChannels = errors.New("capture: invalid channel layout")
	// ErrSampleRateMismatch is returned when a source cannot deliver the
	// requested sample rate.
	ErrSampleRateMismatch = errors.New("capture: sample rate mismatch")
	// ErrNoAudio is returned when nothing is left after the pre-roll.
	ErrNoAudio = errors.New("capture: no audio after pre-roll")
)

// Mode selects how multiple channels are reduced to one.
type Mode int

const (
	// ModeLoudest keeps the channel with the highest RMS.
	ModeLoudest Mode = iota
	// ModeAverage averages all channels per frame.
	ModeAverage
	// ModeFirst keeps channel 0.
	ModeFirst
)

func (m Mode) String() string {
	switch m {
	case ModeLoudest:
		return "loudest"
	case ModeAverage:
		return "average"
	case ModeFirst:
		return "first"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "loudest", "average" or "first" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "loudest", "auto", "":
		return ModeLoudest, nil
	case "average", "avg":
		return ModeAverage, nil
	case "first", "left":
		return ModeFirst, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Request describes a capture.
type Request struct {
	// Device is a name hint. Sources may use it as the reported device.
	Device string
	// SampleRate is the required rate in Hz; 0 accepts the source rate.
	SampleRate int
	// Channels is the number of channels to open; 0 opens all.
	Channels int
	// Duration limits the analysed capture; 0 takes everything available.
	Duration time.Duration
	// PreRoll is discarded before the captured span starts.
	PreRoll time.Duration
	Mode    Mode
}

// Recording is a captured, channel-reduced buffer.
type Recording struct {
	Buffer   spl.Buffer
	Device   string
	Channels int
	// Selected is the kept channel index, or -1 for ModeAverage.
	Selected int
}

// RawRMS returns the unweighted full-scale RMS of the recording.
func (r Recording) RawRMS() float64 { return timestats.RMS(r.Buffer.Samples) }

// RawPeak returns the unweighted full-scale sample peak of the recording.
func (r Recording) RawPeak() float64 { return timestats.Peak(r.Buffer.Samples) }

// Source delivers recordings.
type Source interface {
	Capture(ctx context.Context, req Request) (Recording, error)
}

// Select reduces interleaved frames with the given channel count to one
// channel. It returns the samples and the kept channel (-1 when averaged).
func Select(frames []float64, channels int, mode Mode) ([]float64, int, error) {
	if channels < 1 || len(frames)%channels != 0 {
		return nil, 0, fmt.Errorf("%w: %d samples, %d channels", ErrInvalidChannels, len(frames), channels)
	}

	n := len(frames) / channels
	if channels == 1 {
		out := make([]float64, n)
		copy(out, frames)
		return out, 0, nil
	}

	switch mode {
	case ModeAverage:
		out := make([]float64, n)
		scale := 1 / float64(channels)
		for i := range out {
			var sum float64
			for c := range channels {
				sum += frames[i*channels+c]
			}
			out[i] = sum * scale
		}
		return out, -1, nil
	case ModeLoudest:
		best := loudest(frames, channels)
		return channel(frames, channels, best), best, nil
	case ModeFirst:
		return channel(frames, channels, 0), 0, nil
	default:
		return nil, 0, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
}

// loudest returns the channel with the highest energy. Ties keep the lower
// index.
func loudest(frames []float64, channels int) int {
	energy := make([]float64, channels)
	for i, v := range frames {
		energy[i%channels] += v * v
	}

	best := 0
	for c := 1; c < channels; c++ {
		if energy[c] > energy[best] {
			best = c
		}
	}
	return best
}

func channel(frames []float64, channels, c int) []float64 {
	out := make([]float64, len(frames)/channels)
	for i := range out {
		out[i] = frames[i*channels+c]
	}
	return out
}
