//go:build amd64 && !purego

package biquad

import (
	_ "github.com/cwbudde/algo-slm/dsp/filter/biquad/internal/arch/amd64/unroll4" // register 4x kernel
	_ "github.com/cwbudde/algo-slm/dsp/filter/biquad/internal/arch/generic"       // register generic kernel
)
