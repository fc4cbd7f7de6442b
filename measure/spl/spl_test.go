package spl

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-slm/dsp/filter/weighting"
	"github.com/cwbudde/algo-slm/internal/testutil"
)

type recordingSink struct {
	times, levels []float64
	calls         int
	err           error
}

func (s *recordingSink) WriteTrace(times, levels []float64) error {
	s.calls++
	s.times = times
	s.levels = levels

	return s.err
}

func TestComputeSineLevel(t *testing.T) {
	const fs = 48000.0

	tests := []struct {
		amplitude float64
		want      float64
	}{
		{0.1, 20*math.Log10(0.1/math.Sqrt2) + 94},
		{0.5, 84.96},
	}

	for _, tt := range tests {
		buf := Buffer{
			Samples:    testutil.DeterministicSine(1000, fs, tt.amplitude, 5*int(fs)),
			SampleRate: fs,
		}

		res, err := Compute(buf, 94, FullWindow, nil)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}

		testutil.RequireLevel(t, "LeqA", res.LeqA, tt.want, 0.5)

		if res.Samples() != len(buf.Samples) {
			t.Fatalf("Samples=%d want=%d", res.Samples(), len(buf.Samples))
		}

		settled, err := Compute(buf, 94, Window{Start: 500 * time.Millisecond}, nil)
		if err != nil {
			t.Fatalf("Compute settled: %v", err)
		}

		if crest := settled.LApeak - settled.LeqA; math.Abs(crest-20*math.Log10(math.Sqrt2)) > 0.05 {
			t.Fatalf("crest factor=%.3f dB want 3.01 dB", crest)
		}
	}
}

func TestComputeOrdering(t *testing.T) {
	const fs = 48000.0

	signals := map[string][]float64{
		"sine":  testutil.DeterministicSine(1000, fs, 0.3, 2*int(fs)),
		"noise": testutil.DeterministicNoise(7, 0.2, 2*int(fs)),
		"low":   testutil.DeterministicSine(100, fs, 0.8, 2*int(fs)),
	}

	for name, samples := range signals {
		t.Run(name, func(t *testing.T) {
			res, err := Compute(Buffer{Samples: samples, SampleRate: fs}, 100, FullWindow, nil)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}

			if res.LAFmin > res.LeqA || res.LeqA > res.LAFmax {
				t.Fatalf("ordering violated: %v", res)
			}

			if res.LApeak < res.LeqA {
				t.Fatalf("peak below LeqA: %v", res)
			}
		})
	}
}

func TestComputeSilence(t *testing.T) {
	res, err := Compute(Buffer{Samples: make([]float64, 4800), SampleRate: 48000}, 94, FullWindow, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	for _, v := range []float64{res.LeqA, res.LAFmax, res.LAFmin, res.LApeak} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("non-finite metric for silence: %v", res)
		}
	}

	if res.LAFmax != res.LAFmin {
		t.Fatalf("silence LAF should be flat: %v", res)
	}
}

func TestComputeWindowAndTrace(t *testing.T) {
	const fs = 48000.0

	buf := Buffer{
		Samples:    testutil.DeterministicSine(1000, fs, 0.1, 5*int(fs)),
		SampleRate: fs,
	}
	w := Window{Start: time.Second, Length: 2 * time.Second}
	sink := &recordingSink{}

	res, err := Compute(buf, 94, w, sink)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if res.Start != 48000 || res.End != 144000 {
		t.Fatalf("window=[%d,%d) want [48000,144000)", res.Start, res.End)
	}

	if sink.calls != 1 {
		t.Fatalf("sink calls=%d want=1", sink.calls)
	}

	if len(sink.times) != 96000 || len(sink.levels) != 96000 {
		t.Fatalf("trace length times=%d levels=%d want=96000", len(sink.times), len(sink.levels))
	}

	if sink.times[0] != 1.0 {
		t.Fatalf("first timestamp=%v want=1", sink.times[0])
	}

	if step := sink.times[1] - sink.times[0]; math.Abs(step-1/fs) > 1e-12 {
		t.Fatalf("timestamp step=%v want=%v", step, 1/fs)
	}

	testutil.RequireFinite(t, sink.levels)

	maxLevel := math.Inf(-1)
	for _, v := range sink.levels {
		maxLevel = max(maxLevel, v)
	}

	if maxLevel != res.LAFmax {
		t.Fatalf("trace max=%v LAFmax=%v", maxLevel, res.LAFmax)
	}
}

func TestComputeErrors(t *testing.T) {
	samples := testutil.Ones(4800)

	_, err := Compute(Buffer{Samples: samples, SampleRate: 1000}, 94, FullWindow, nil)
	if !errors.Is(err, weighting.ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}

	_, err = Compute(Buffer{Samples: samples, SampleRate: 48000}, 94, Window{Start: time.Second}, nil)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}

	_, err = Compute(Buffer{SampleRate: 48000}, 94, FullWindow, nil)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow for empty buffer, got %v", err)
	}

	sinkErr := errors.New("disk full")

	_, err = Compute(Buffer{Samples: samples, SampleRate: 48000}, 94, FullWindow, &recordingSink{err: sinkErr})
	if !errors.Is(err, sinkErr) {
		t.Fatalf("expected wrapped sink error, got %v", err)
	}
}

func TestLAFSettles(t *testing.T) {
	const fs = 48000.0

	levels := LAF(testutil.DC(0.5, int(fs)), fs, 0)

	want := 20 * math.Log10(0.5)
	if got := levels[len(levels)-1]; math.Abs(got-want) > 0.01 {
		t.Fatalf("settled LAF=%.4f want %.4f", got, want)
	}

	if levels[0] >= levels[len(levels)-1] {
		t.Fatal("LAF should rise from rest")
	}
}
