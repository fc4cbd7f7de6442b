package core

import (
	"math"
	"testing"
)

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
	if !NearlyEqual(1e6, 1e6+1e-7, 0) {
		t.Fatal("expected default tolerance to be relative for large values")
	}
}

func TestAmplitudeToDB(t *testing.T) {
	tests := []struct {
		name      string
		amplitude float64
		want      float64
	}{
		{"unity", 1, 0},
		{"half", 0.5, -6.020599913279624},
		{"ten", 10, 20},
		{"silence", 0, -600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmplitudeToDB(tt.amplitude)
			if !NearlyEqual(got, tt.want, 1e-9) {
				t.Fatalf("AmplitudeToDB(%v) = %v, want %v", tt.amplitude, got, tt.want)
			}
		})
	}
}

func TestPowerToDB(t *testing.T) {
	if got := PowerToDB(2); !NearlyEqual(got, 3.010299956639812, 1e-9) {
		t.Fatalf("PowerToDB(2) = %v", got)
	}
	if got := PowerToDB(0); !NearlyEqual(got, -300, 1e-9) {
		t.Fatalf("PowerToDB(0) = %v, want -300", got)
	}
	if math.IsInf(PowerToDB(0), 0) {
		t.Fatal("silence must map to a finite level")
	}
}

func TestPowerAndAmplitudeAgree(t *testing.T) {
	for _, a := range []float64{1e-6, 0.01, 0.3, 1, 7} {
		if !NearlyEqual(AmplitudeToDB(a), PowerToDB(a*a), 1e-9) {
			t.Errorf("amplitude %v: %v vs %v", a, AmplitudeToDB(a), PowerToDB(a*a))
		}
	}
}

func TestDBToLinear(t *testing.T) {
	if got := DBToLinear(-6.020599913279624); !NearlyEqual(got, 0.5, 1e-12) {
		t.Fatalf("DBToLinear(-6.02) = %v, want 0.5", got)
	}
	if got := AmplitudeToDB(DBToLinear(-20)); !NearlyEqual(got, -20, 1e-9) {
		t.Fatalf("round trip = %v, want -20", got)
	}
}

func TestPowerRatioToDB(t *testing.T) {
	if got := PowerRatioToDB(100, 1); !NearlyEqual(got, 20, 1e-12) {
		t.Fatalf("PowerRatioToDB(100, 1) = %v, want 20", got)
	}
	if got := PowerRatioToDB(0, 0); got != 0 {
		t.Fatalf("PowerRatioToDB(0, 0) = %v, want 0", got)
	}
}
