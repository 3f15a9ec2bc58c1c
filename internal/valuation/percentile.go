package valuation

import "sort"

// Percentiles computes empirical percentiles with linear interpolation
// between adjacent order statistics. Each p must be in [0, 1]. Returns false
// when there are no values. The input slice is not modified.
func Percentiles(values []float64, ps ...float64) ([]float64, bool) {
	if len(values) == 0 {
		return nil, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = interpolate(sorted, p)
	}
	return out, true
}

func interpolate(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
