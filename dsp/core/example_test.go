package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-slm/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(44100))

	fmt.Printf("sampleRate=%.0f\n", cfg.SampleRate)

	// Output:
	// sampleRate=44100
}

func ExampleAmplitudeToDB() {
	fmt.Printf("%.2f dBFS\n", core.AmplitudeToDB(0.1))
	fmt.Printf("%.0f dBFS\n", core.AmplitudeToDB(0))

	// Output:
	// -20.00 dBFS
	// -600 dBFS
}
