package pricing

import "math"

// roundHalfUp rounds to the nearest integer with halves going up, which is
// how browser-side quotes were always rounded (including negative halves).
func roundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}

// percentOf returns share of amount rounded half-up.
func percentOf(amount int, share float64) int {
	return roundHalfUp(float64(amount) * share)
}

func clampRating(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 10:
		return 10
	default:
		return value
	}
}
