// Package polyroot groups polynomial roots into second-order factors and
// expands those factors back into real quadratic coefficients, as needed to
// turn a pole/zero set into biquad sections.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"
)

// ErrDegeneratePolynomial is returned when a root set cannot be split into
// real second-order factors (unpaired complex roots, mismatched counts, etc.).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// ConjugateTol is the relative tolerance for conjugate pair matching.
const ConjugateTol = 1e-7

// IsConjugate checks whether a and b are complex conjugates within tolerance.
func IsConjugate(a, b complex128, tol float64) bool {
	if math.Abs(real(a)-real(b)) > tol*math.Max(1, math.Abs(real(a))) {
		return false
	}

	if math.Abs(imag(a)+imag(b)) > tol*math.Max(1, math.Abs(imag(a))) {
		return false
	}

	return true
}

// IsReal reports whether r has a negligible imaginary part.
func IsReal(r complex128, tol float64) bool {
	return math.Abs(imag(r)) <= tol*math.Max(1, math.Abs(real(r)))
}

// PairRoots splits roots into second-order groups. Complex roots are paired
// with their conjugates; real roots are sorted in descending order and paired
// neighbour to neighbour. An odd real root left over is paired with a
// root at the origin, which expands to a first-order factor.
//
// Pairs are returned with the roots closest to the unit circle first.
func PairRoots(roots []complex128) ([][2]complex128, error) {
	var (
		reals []float64
		cplx  []complex128
	)

	for _, r := range roots {
		if IsReal(r, ConjugateTol) {
			reals = append(reals, real(r))
		} else {
			cplx = append(cplx, r)
		}
	}

	pairs, err := PairConjugates(cplx)
	if err != nil {
		return nil, err
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(reals)))

	for i := 0; i < len(reals); i += 2 {
		second := 0.0
		if i+1 < len(reals) {
			second = reals[i+1]
		}

		pairs = append(pairs, [2]complex128{complex(reals[i], 0), complex(second, 0)})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return unitDistance(pairs[i]) < unitDistance(pairs[j])
	})

	return pairs, nil
}

// PairConjugates groups a slice of complex roots into conjugate pairs. For
// each unused root, it finds the closest match to the expected conjugate and
// validates the pairing within ConjugateTol.
func PairConjugates(roots []complex128) ([][2]complex128, error) {
	used := make([]bool, len(roots))
	pairs := make([][2]complex128, 0, len(roots)/2)

	for i := range roots {
		if used[i] {
			continue
		}

		root := roots[i]
		conj := cmplx.Conj(root)
		best := -1
		bestDist := math.MaxFloat64

		for j := range roots {
			if i == j || used[j] {
				continue
			}

			d := cmplx.Abs(roots[j] - conj)
			if d < bestDist {
				bestDist = d
				best = j
			}
		}

		if best == -1 || !IsConjugate(root, roots[best], ConjugateTol) {
			return nil, ErrDegeneratePolynomial
		}

		used[i] = true
		used[best] = true
		pairs = append(pairs, [2]complex128{root, roots[best]})
	}

	return pairs, nil
}

// MatchNearest assigns a zero pair to every pole pair, returning zeros
// reordered so that out[i] belongs to poles[i]. The closest remaining
// pole/zero combination is always taken first. Both slices must have the same
// length.
func MatchNearest(poles, zeros [][2]complex128) ([][2]complex128, error) {
	if len(poles) != len(zeros) {
		return nil, ErrDegeneratePolynomial
	}

	out := make([][2]complex128, len(poles))
	poleUsed := make([]bool, len(poles))
	zeroUsed := make([]bool, len(zeros))

	for range poles {
		bestP, bestZ := -1, -1
		bestDist := math.MaxFloat64

		for i, p := range poles {
			if poleUsed[i] {
				continue
			}

			for j, z := range zeros {
				if zeroUsed[j] {
					continue
				}

				if d := pairDistance(p, z); d < bestDist {
					bestDist = d
					bestP, bestZ = i, j
				}
			}
		}

		poleUsed[bestP] = true
		zeroUsed[bestZ] = true
		out[bestP] = zeros[bestZ]
	}

	return out, nil
}

// QuadFromRoots expands a root pair (r1, r2) into monic second-order
// polynomial coefficients 1, -(r1+r2), r1*r2. The pair must be real or
// conjugate so that the expansion has real coefficients.
func QuadFromRoots(pair [2]complex128) (float64, float64, float64, error) {
	sum := pair[0] + pair[1]
	prod := pair[0] * pair[1]

	if !IsReal(sum, ConjugateTol) || !IsReal(prod, ConjugateTol) {
		return 0, 0, 0, ErrDegeneratePolynomial
	}

	return 1.0, -real(sum), real(prod), nil
}

func unitDistance(pair [2]complex128) float64 {
	return math.Min(math.Abs(1-cmplx.Abs(pair[0])), math.Abs(1-cmplx.Abs(pair[1])))
}

func pairDistance(a, b [2]complex128) float64 {
	direct := cmplx.Abs(a[0]-b[0]) + cmplx.Abs(a[1]-b[1])
	swapped := cmplx.Abs(a[0]-b[1]) + cmplx.Abs(a[1]-b[0])

	return math.Min(direct, swapped)
}
