package spl

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-slm/dsp/core"
	"github.com/cwbudde/algo-slm/dsp/envelope"
	"github.com/cwbudde/algo-slm/dsp/filter/weighting"
	timestats "github.com/cwbudde/algo-slm/stats/time"
)

// TraceSink receives the Fast time-weighted level series of one analysis.
// times are seconds from the start of the buffer, levels are dB SPL. It is
// called at most once per Compute and replaces any earlier content.
type TraceSink interface {
	WriteTrace(times, levels []float64) error
}

// Result holds the scalar metrics of one analysis window in dB SPL.
type Result struct {
	LeqA   float64
	LAFmax float64
	LAFmin float64
	LApeak float64

	// Start and End are the resolved sample indices of the window.
	Start, End int
}

// Samples returns the number of analysed samples.
func (r Result) Samples() int { return r.End - r.Start }

// String formats the metrics with one decimal place.
func (r Result) String() string {
	return fmt.Sprintf("LAeq=%.1f dB LAFmax=%.1f dB LAFmin=%.1f dB LApeak=%.1f dB",
		r.LeqA, r.LAFmax, r.LAFmin, r.LApeak)
}

// Compute A-weights buf, cuts the window w from the filtered signal and
// returns its metrics with offsetDB applied. If sink is non-nil it receives
// the LAF series.
func Compute(buf Buffer, offsetDB float64, w Window, sink TraceSink) (Result, error) {
	weighted, start, end, err := Weighted(buf, w)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		LeqA:   core.AmplitudeToDB(timestats.RMS(weighted)) + offsetDB,
		LApeak: core.AmplitudeToDB(timestats.Peak(weighted)) + offsetDB,
		LAFmax: math.Inf(-1),
		LAFmin: math.Inf(1),
		Start:  start,
		End:    end,
	}

	levels := LAF(weighted, buf.SampleRate, offsetDB)
	for _, db := range levels {
		res.LAFmax = max(res.LAFmax, db)
		res.LAFmin = min(res.LAFmin, db)
	}

	if sink == nil {
		return res, nil
	}

	if err := sink.WriteTrace(traceTimes(w.Start.Seconds(), buf.SampleRate, len(levels)), levels); err != nil {
		return res, fmt.Errorf("spl: write trace: %w", err)
	}

	return res, nil
}

// Weighted A-weights the whole of buf and returns the part selected by w
// together with its resolved sample range. buf is not modified.
func Weighted(buf Buffer, w Window) (weighted []float64, start, end int, err error) {
	filter, err := weighting.Design(weighting.TypeA, buf.SampleRate)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("spl: %w", err)
	}

	start, end, err = w.Resolve(buf.Len(), buf.SampleRate)
	if err != nil {
		return nil, 0, 0, err
	}

	return filter.Apply(buf.Samples)[start:end], start, end, nil
}

// LAF returns the Fast time-weighted level series of an already weighted
// signal in dB SPL.
func LAF(weighted []float64, sampleRate, offsetDB float64) []float64 {
	levels := envelope.Detect(weighted, sampleRate, envelope.FastTimeConstant)
	for i, ms := range levels {
		levels[i] = core.PowerToDB(ms) + offsetDB
	}
	return levels
}

func traceTimes(t0, sampleRate float64, n int) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = t0 + float64(i)/sampleRate
	}
	return times
}
