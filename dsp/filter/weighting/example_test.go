package weighting_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-slm/dsp/filter/weighting"
)

func ExampleDesign() {
	// Create an A-weighting filter for 48 kHz audio.
	chain, err := weighting.Design(weighting.TypeA, 48000)
	if err != nil {
		panic(err)
	}

	// Print the magnitude response at key frequencies.
	for _, freq := range []float64{100, 4000, 10000} {
		dB := chain.MagnitudeDB(freq, 48000)
		fmt.Printf("%6.0f Hz: %+.1f dB\n", freq, dB)
	}

	fmt.Println("unity at 1 kHz:", math.Abs(chain.MagnitudeDB(1000, 48000)) < 1e-9)
	// Output:
	//    100 Hz: +1.0 dB
	//   4000 Hz: -10.9 dB
	//  10000 Hz: -22.3 dB
	// unity at 1 kHz: true
}

func ExampleVerify() {
	check, err := weighting.Verify(48000)
	if err != nil {
		panic(err)
	}

	fmt.Println("self-check passed:", check.OK())
	// Output:
	// self-check passed: true
}
