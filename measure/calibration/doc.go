// Package calibration maps full-scale sample levels to absolute dB SPL.
//
// Hard calibration records a calibrator tone (1 kHz at a known level, 94 dB
// by default) and refuses to proceed unless the tone clearly stands out of
// the noise floor. Soft calibration matches a capture against the concurrent
// reading of a trusted reference meter. Both share the same arithmetic:
//
//	offset = reference - 20*log10(rms)
//
// where rms is the A-weighted full-scale RMS of the analysis window. Offsets
// outside [MinOffsetDB, MaxOffsetDB] are rejected.
//
// [Engine] connects the pure computations to a [Store]. Failed calibrations
// are never persisted, and an unreadable store degrades to the uncalibrated
// placeholder offset instead of failing the measurement.
package calibration
