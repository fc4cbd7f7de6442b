// Package spl computes A-weighted sound pressure level metrics from a
// calibrated capture buffer.
//
// The full buffer is A-weighted first and the analysis window is cut from the
// filtered signal afterwards, so filter transients settle before the window
// starts. All levels are in dB SPL: the calibration offset maps full scale
// (peak 1.0) to the absolute scale.
//
//   - LeqA: equivalent continuous level, 20*log10(rms) + offset.
//   - LAFmax, LAFmin: extremes of the Fast (125 ms) time-weighted level.
//   - LApeak: A-weighted sample peak. This is not a standards LCpeak.
package spl
