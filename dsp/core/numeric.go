package core

import "math"

// Epsilon is the floor added before taking logarithms of amplitudes or
// powers, so silent input maps to a very low but finite level.
const Epsilon = 1e-30

const defaultTolerance = 1e-12

// NearlyEqual reports whether a and b are equal within eps (absolute for
// small values, relative otherwise). A non-positive eps selects a default.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultTolerance
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// AmplitudeToDB converts a non-negative amplitude to dB as
// 20*log10(amplitude + Epsilon).
func AmplitudeToDB(amplitude float64) float64 {
	return 20 * math.Log10(amplitude+Epsilon)
}

// PowerToDB converts a non-negative power (mean-square) value to dB as
// 10*log10(power + Epsilon).
func PowerToDB(power float64) float64 {
	return 10 * math.Log10(power+Epsilon)
}

// PowerRatioToDB returns 10*log10(num/den). Both operands are floored at
// Epsilon.
func PowerRatioToDB(num, den float64) float64 {
	return 10 * math.Log10(math.Max(num, Epsilon)/math.Max(den, Epsilon))
}
