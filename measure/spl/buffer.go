package spl

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidWindow is returned when an analysis window resolves to no samples
// or starts beyond the end of the buffer.
var ErrInvalidWindow = errors.New("spl: invalid analysis window")

// indexSlack absorbs float rounding in time-to-index conversion so that
// exact sample boundaries (e.g. 0.5 s at 48 kHz) do not round down.
const indexSlack = 1e-9

// Buffer is a single-channel capture at a known sample rate. Full scale is a
// peak of 1.0. The buffer is owned by the caller and only read here.
type Buffer struct {
	Samples    []float64
	SampleRate float64
}

// Len returns the number of samples.
func (b Buffer) Len() int { return len(b.Samples) }

// Duration returns the buffer length in time.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / b.SampleRate * float64(time.Second))
}

// Window selects a sub-range of a buffer. A zero Length extends the window
// to the end of the buffer.
type Window struct {
	Start  time.Duration
	Length time.Duration
}

// FullWindow covers the whole buffer.
var FullWindow = Window{}

// String formats the window for logs.
func (w Window) String() string {
	if w.Length == 0 {
		return fmt.Sprintf("[%v, end)", w.Start)
	}
	return fmt.Sprintf("[%v, +%v)", w.Start, w.Length)
}

// Resolve converts w into sample indices [start, end) for a buffer of n
// samples at sampleRate. The end is clamped to n. A negative start or
// length, a start beyond n, or an empty result yields ErrInvalidWindow.
func (w Window) Resolve(n int, sampleRate float64) (start, end int, err error) {
	if w.Start < 0 || w.Length < 0 {
		return 0, 0, fmt.Errorf("%w: negative start %v or length %v", ErrInvalidWindow, w.Start, w.Length)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, 0, fmt.Errorf("%w: sample rate %v", ErrInvalidWindow, sampleRate)
	}

	start = toIndex(w.Start, sampleRate)
	if start > n {
		return 0, 0, fmt.Errorf("%w: start sample %d beyond buffer of %d samples", ErrInvalidWindow, start, n)
	}

	end = n
	if w.Length > 0 {
		end = min(start+toIndex(w.Length, sampleRate), n)
	}

	if end <= start {
		return start, end, fmt.Errorf("%w: samples [%d, %d) of %d are empty", ErrInvalidWindow, start, end, n)
	}

	return start, end, nil
}

// Slice returns the samples of b selected by w. The result aliases b.
func (b Buffer) Slice(w Window) ([]float64, error) {
	start, end, err := w.Resolve(len(b.Samples), b.SampleRate)
	if err != nil {
		return nil, err
	}
	return b.Samples[start:end], nil
}

func toIndex(d time.Duration, sampleRate float64) int {
	return int(math.Floor(d.Seconds()*sampleRate + indexSlack))
}
