// Package biquad provides the second-order IIR runtime used by the weighting
// filters.
//
// A [Section] implements Direct Form II Transposed processing for one
// second-order section defined by [Coefficients]. Sections are cascaded in a
// [Chain]; the output of each section feeds the next, so section order is
// significant.
//
// [Chain.Apply] is the offline entry point: it filters a whole capture from
// zero initial conditions and leaves the chain untouched, which makes a
// designed chain safe to share between measurements. ProcessSample and
// ProcessBlock keep running state for streaming use.
//
// Coefficient design lives in dsp/filter/weighting.
package biquad
