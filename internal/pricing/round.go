package pricing

import "math"

// epsilon matches the nudge applied when quotes were first persisted, so
// values like 1.005 round up to 1.01 instead of down.
const epsilon = 2.220446049250313e-16

// Round2 rounds to cents with half-up semantics after adding epsilon.
func Round2(n float64) float64 {
	// The explicit conversion rounds the product before roundHalfUp so it
	// cannot be fused into the subtraction there.
	return roundHalfUp(float64((finite(n)+epsilon)*100)) / 100
}

// roundHalfUp rounds ties toward positive infinity (-2.5 becomes -2).
func roundHalfUp(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		return f + 1
	}
	return f
}

func finite(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func finitePtr(n *float64) float64 {
	if n == nil {
		return 0
	}
	return finite(*n)
}
