package window

import (
	"math"
	"testing"
)

func TestGenerateAllTypes(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann} {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
			}

			// Symmetric windows mirror around the centre.
			for i := range w {
				if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
					t.Fatalf("asymmetric at %d: %v vs %v", i, w[i], w[len(w)-1-i])
				}
			}
		})
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	for _, n := range []int{0, -1} {
		if w := Generate(TypeHann, n); w != nil {
			t.Fatalf("Generate(%d) = %v, want nil", n, w)
		}
	}
}

func TestGenerateSingleSample(t *testing.T) {
	w := Generate(TypeHann, 1)
	if len(w) != 1 || w[0] != 0 {
		t.Fatalf("Generate(Hann, 1) = %v", w)
	}
}

func TestHannEndpointsAndPeak(t *testing.T) {
	w := Generate(TypeHann, 65)
	if math.Abs(w[0]) > 1e-15 || math.Abs(w[64]) > 1e-15 {
		t.Fatalf("endpoints = %v, %v, want 0", w[0], w[64])
	}
	if math.Abs(w[32]-1) > 1e-15 {
		t.Fatalf("centre = %v, want 1", w[32])
	}
}

func TestHannMatchesClosedForm(t *testing.T) {
	const n = 257
	w := Generate(TypeHann, n)
	for i, v := range w {
		want := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		if math.Abs(v-want) > 1e-15 {
			t.Fatalf("w[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestUnknownTypeIsRectangular(t *testing.T) {
	for i, v := range Generate(Type(99), 5) {
		if v != 1 {
			t.Fatalf("w[%d] = %v, want 1", i, v)
		}
	}
}

func TestApplyMatchesGenerate(t *testing.T) {
	buf := []float64{2, 2, 2, 2, 2, 2, 2}
	Apply(TypeHann, buf)

	w := Generate(TypeHann, len(buf))
	for i := range buf {
		if math.Abs(buf[i]-2*w[i]) > 1e-15 {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], 2*w[i])
		}
	}

	Apply(TypeHann, nil)
}

func TestTypeString(t *testing.T) {
	if TypeHann.String() != "hann" || Type(99).String() != "unknown" {
		t.Fatal("unexpected type names")
	}
}
