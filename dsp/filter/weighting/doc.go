// Package weighting designs A and C frequency weighting filters.
//
// Each curve starts from an analog zero/pole/gain prototype built on the
// standard corner frequencies 20.598997, 107.65265, 737.86223 and
// 12194.217 Hz:
//
//   - A-weighting: two zeros at the origin and four real poles.
//   - C-weighting: two zeros at the origin and two conjugate pole pairs on
//     the imaginary axis. The digital poles therefore sit on the unit
//     circle; the curve is only evaluated, never run over long captures.
//
// The prototype is mapped to the z-plane with the bilinear transform,
// factored into second-order sections and normalised to 0 dB at 1 kHz by
// scaling the first section. The result is a [biquad.Chain].
//
// [Verify] is a construction-time regression guard: it checks the 1 kHz gain
// of the A filter and the RMS it reproduces for a synthetic 1 kHz sine.
package weighting
