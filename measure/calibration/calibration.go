package calibration

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-slm/dsp/core"
	"github.com/cwbudde/algo-slm/dsp/filter/weighting"
	"github.com/cwbudde/algo-slm/measure/spl"
	timestats "github.com/cwbudde/algo-slm/stats/time"
)

const (
	// DefaultKnownSPL is the level of a class 1 acoustic calibrator.
	DefaultKnownSPL = 94.0

	// MinToneSNR is the hard-calibration gate on ToneSNR at the reference
	// frequency.
	MinToneSNR = 20.0

	// Plausibility band for offsets (dB SPL at full-scale RMS 1.0).
	MinOffsetDB = 80.0
	MaxOffsetDB = 150.0
)

// Result is the outcome of a successful calibration.
type Result struct {
	// OffsetDB maps 20*log10(rms) to dB SPL.
	OffsetDB float64
	// RMS is the A-weighted full-scale RMS of the analysis window.
	RMS float64
	// SNR is the tone SNR in dB. It is NaN for soft calibration.
	SNR float64

	Source Source
}

// Offset returns the result as a calibrated offset.
func (r Result) Offset() Offset {
	return Offset{DB: r.OffsetDB, Calibrated: true, Source: r.Source}
}

// Hard calibrates against a 1 kHz calibrator tone of level knownSPL.
//
// The tone gate runs on the raw buffer; the offset is computed from the
// A-weighted window w. A tone SNR below MinToneSNR yields a
// *ToneNotDetectedError, an offset outside the plausibility band an
// *ImplausibleOffsetError.
func Hard(buf spl.Buffer, w spl.Window, knownSPL float64) (Result, error) {
	snr := ToneSNR(buf.Samples, buf.SampleRate, weighting.ReferenceFrequency)
	if !(snr >= MinToneSNR) {
		return Result{SNR: snr}, &ToneNotDetectedError{SNR: snr}
	}

	res, err := solve(buf, w, knownSPL)
	res.SNR = snr
	res.Source = SourceHard

	return res, err
}

// Soft calibrates against referenceSPL, the LAeq a trusted meter read over
// the same window. No tone gate is applied.
func Soft(buf spl.Buffer, w spl.Window, referenceSPL float64) (Result, error) {
	res, err := solve(buf, w, referenceSPL)
	res.SNR = math.NaN()
	res.Source = SourceSoft

	return res, err
}

func solve(buf spl.Buffer, w spl.Window, reference float64) (Result, error) {
	weighted, _, _, err := spl.Weighted(buf, w)
	if err != nil {
		return Result{}, fmt.Errorf("calibration: %w", err)
	}

	rms := timestats.RMS(weighted)
	offset := reference - core.AmplitudeToDB(rms)

	res := Result{OffsetDB: offset, RMS: rms}
	if err := ValidateOffset(offset); err != nil {
		return res, err
	}

	return res, nil
}

// ValidateOffset reports an *ImplausibleOffsetError for offsets outside
// [MinOffsetDB, MaxOffsetDB] or non-finite values.
func ValidateOffset(db float64) error {
	if !(db >= MinOffsetDB && db <= MaxOffsetDB) {
		return &ImplausibleOffsetError{Offset: db}
	}
	return nil
}
