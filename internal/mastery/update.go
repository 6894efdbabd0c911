package mastery

import "math"

// UpdateEstimate applies one step of the exponential moving estimate:
//
//	new = old + rate*weight*(score - old)
//
// With old and score in [0,1] and rate*weight in (0,1] the result is a
// convex combination, so it stays in [0,1]. The clamp covers out-of-range
// inputs.
func UpdateEstimate(old, score, rate, weight float64) float64 {
	step := clamp(rate*weight, 0, 1)
	old = clamp(old, 0, 1)
	return clamp(old+step*(clamp(score, 0, 1)-old), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// relevanceWeights gives the i-th exercised concept weight 1/(i+1). A code
// listed twice keeps its higher weight.
func relevanceWeights(codes []string) map[string]float64 {
	w := make(map[string]float64, len(codes))
	for i, code := range codes {
		if cur := 1 / float64(i+1); cur > w[code] {
			w[code] = cur
		}
	}
	return w
}
