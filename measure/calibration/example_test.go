package calibration_test

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-slm/measure/calibration"
	"github.com/cwbudde/algo-slm/measure/spl"
)

func ExampleHard() {
	const fs = 48000.0

	samples := make([]float64, 2*int(fs))
	for i := range samples {
		samples[i] = 0.1 * math.Sin(2*math.Pi*1000*float64(i)/fs)
	}

	buf := spl.Buffer{Samples: samples, SampleRate: fs}

	res, err := calibration.Hard(buf, spl.FullWindow, calibration.DefaultKnownSPL)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("offset %.1f dB\n", res.OffsetDB)

	_, err = calibration.Hard(buf, spl.FullWindow, 1000)
	fmt.Println(errors.Is(err, calibration.ErrImplausibleOffset))
	// Output:
	// offset 117.0 dB
	// true
}
