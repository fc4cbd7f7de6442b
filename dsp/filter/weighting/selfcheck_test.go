package weighting

import (
	"errors"
	"strings"
	"testing"
)

func TestVerify(t *testing.T) {
	for _, sr := range []float64{8000, 16000, 44100, 48000, 96000, 192000} {
		check, err := Verify(sr)
		if err != nil {
			t.Fatalf("Verify(%v): %v", sr, err)
		}

		if !check.OK() {
			t.Errorf("Verify(%v) failed: %s", sr, check)
		}
		if check.SampleRate != sr {
			t.Errorf("SampleRate = %v, want %v", check.SampleRate, sr)
		}
	}
}

func TestVerify_InvalidSampleRate(t *testing.T) {
	if _, err := Verify(500); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("error = %v, want ErrInvalidSampleRate", err)
	}
}

func TestCheckOK(t *testing.T) {
	tests := []struct {
		name  string
		check Check
		gain  bool
		rms   bool
	}{
		{"pass", Check{GainDB: 0.01, RMSErrorDB: -0.05}, true, true},
		{"gain off", Check{GainDB: 0.15, RMSErrorDB: 0}, false, true},
		{"rms off", Check{GainDB: 0, RMSErrorDB: -0.3}, true, false},
		{"both off", Check{GainDB: -1, RMSErrorDB: 1}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check.GainOK(); got != tt.gain {
				t.Errorf("GainOK = %v, want %v", got, tt.gain)
			}
			if got := tt.check.RMSOK(); got != tt.rms {
				t.Errorf("RMSOK = %v, want %v", got, tt.rms)
			}
			if got := tt.check.OK(); got != (tt.gain && tt.rms) {
				t.Errorf("OK = %v", got)
			}
		})
	}
}

func TestCheckString(t *testing.T) {
	s := Check{GainDB: 0.01, RMSErrorDB: -0.02}.String()
	if !strings.Contains(s, "+0.01 dB") || !strings.Contains(s, "-0.02 dB") {
		t.Fatalf("String() = %q", s)
	}
}
