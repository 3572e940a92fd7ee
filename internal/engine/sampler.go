package engine

// Entry is one weighted candidate.
type Entry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// MaxWeight is the largest weight a participant may carry.
const MaxWeight = 1_000_000

// SampleResult is the ordered list of selected entry IDs.
type SampleResult []string

// Sample draws count entries proportional to weight.
//
// Entry i owns the half-open interval [cum(i-1), cum(i)) of the cumulative
// weight line, so the first entry whose running sum exceeds r wins. Without
// replacement the result is capped at len(entries).
func Sample(entries []Entry, count int, allowReplacement bool, rng RandomSource) SampleResult {
	idx := SampleIndices(entries, count, allowReplacement, rng)
	if idx == nil {
		return nil
	}
	out := make(SampleResult, len(idx))
	for i, j := range idx {
		out[i] = entries[j].ID
	}
	return out
}

// SampleIndices is Sample returning positions in entries instead of IDs.
func SampleIndices(entries []Entry, count int, allowReplacement bool, rng RandomSource) []int {
	if len(entries) == 0 || count <= 0 {
		return nil
	}
	if !allowReplacement && count > len(entries) {
		count = len(entries)
	}

	// live holds the indices still in the pool
	live := make([]int, len(entries))
	for i := range live {
		live[i] = i
	}

	picked := make([]int, 0, count)
	for n := 0; n < count; n++ {
		pos := pick(entries, live, rng)
		picked = append(picked, live[pos])
		if !allowReplacement {
			live = append(live[:pos], live[pos+1:]...)
		}
	}
	return picked
}

// pick returns a position in live. Non-positive weights count as zero; a pool
// with no positive weight is sampled uniformly.
func pick(entries []Entry, live []int, rng RandomSource) int {
	total := 0.0
	for _, i := range live {
		if w := entries[i].Weight; w > 0 {
			total += float64(w)
		}
	}
	if total == 0 {
		return intn(rng, len(live))
	}

	r := rng.Float64() * total
	acc := 0.0
	last := 0
	for pos, i := range live {
		w := entries[i].Weight
		if w <= 0 {
			continue
		}
		acc += float64(w)
		last = pos
		if r < acc {
			return pos
		}
	}
	return last
}

// Probabilities returns each entry's share of the total weight.
func Probabilities(entries []Entry) []float64 {
	out := make([]float64, len(entries))
	if len(entries) == 0 {
		return out
	}
	// float64 sums cannot wrap negative
	total := 0.0
	for _, e := range entries {
		if e.Weight > 0 {
			total += float64(e.Weight)
		}
	}
	for i, e := range entries {
		switch {
		case total == 0:
			out[i] = 1 / float64(len(entries))
		case e.Weight > 0:
			out[i] = float64(e.Weight) / total
		}
	}
	return out
}
