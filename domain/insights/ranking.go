package insights

import "sort"

// rank sorts by confidence, highest first, keeping registration order on
// ties, and keeps the first topN.
func rank(in []Insight, topN int) []Insight {
	out := make([]Insight, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if topN >= 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
