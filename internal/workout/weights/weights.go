// Package weights builds set-by-set target weight sequences.
package weights

// Drop produces the drop-set sequence [anchor, anchor-rounding, anchor-2*rounding, ...],
// each value floored at zero. A zero rounding yields a uniform sequence.
func Drop(anchor float64, sets int, rounding float64) []float64 {
	if sets < 1 {
		return []float64{}
	}

	seq := make([]float64, sets)
	for i := range seq {
		seq[i] = max(0, anchor-float64(i)*rounding)
	}
	return seq
}

// Uniform repeats the same weight for every set.
func Uniform(weight float64, sets int) []float64 {
	if sets < 1 {
		return []float64{}
	}

	seq := make([]float64, sets)
	for i := range seq {
		seq[i] = weight
	}
	return seq
}

// Passthrough returns an explicit sequence unchanged. Used for small-muscle and
// bodyweight exercises where drop math is inappropriate.
func Passthrough(explicit []float64) []float64 {
	return append(make([]float64, 0, len(explicit)), explicit...)
}

// Clamp replaces negative values with zero, in place, and returns the slice.
func Clamp(seq []float64) []float64 {
	for i, w := range seq {
		if w < 0 {
			seq[i] = 0
		}
	}
	return seq
}

// Anchor returns the first (heaviest) weight of a sequence, zero if empty.
func Anchor(seq []float64) float64 {
	if len(seq) == 0 {
		return 0
	}
	return seq[0]
}
