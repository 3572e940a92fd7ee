package engine

// DefaultOutcomeLabel fills ladder outcomes the user did not name.
const DefaultOutcomeLabel = "탈락"

// OutcomeAssignment maps a final track to its label.
type OutcomeAssignment []string

// AssignOutcomes pads labels with defaultLabel (or truncates them) to
// trackCount and shuffles the result once. The input slice is not modified.
func AssignOutcomes(labels []string, trackCount int, defaultLabel string, rng RandomSource) OutcomeAssignment {
	if trackCount <= 0 {
		return OutcomeAssignment{}
	}
	out := make(OutcomeAssignment, trackCount)
	n := copy(out, labels)
	for i := n; i < trackCount; i++ {
		out[i] = defaultLabel
	}
	shuffleStrings(rng, out)
	return out
}

// LadderResult joins a participant's path with the label at its end track.
type LadderResult struct {
	Entry Entry           `json:"entry"`
	Path  ParticipantPath `json:"path"`
	Label string          `json:"label"`
}

// Ladder is a fully resolved ladder game. Everything a renderer needs to
// animate or skip to the end is known once it is built.
type Ladder struct {
	Topology Topology          `json:"topology"`
	Outcomes OutcomeAssignment `json:"outcomes"`
	Results  []LadderResult    `json:"results"`
}

// BuildLadder generates, resolves and labels a ladder for entries.
// Fewer than two entries yields nil.
func BuildLadder(entries []Entry, labels []string, rows int, defaultLabel string, rng RandomSource) *Ladder {
	if len(entries) < 2 {
		return nil
	}
	topo := GenerateLadder(len(entries), rows, rng)
	paths := ResolvePaths(topo)
	outcomes := AssignOutcomes(labels, len(entries), defaultLabel, rng)

	results := make([]LadderResult, len(entries))
	for i, e := range entries {
		results[i] = LadderResult{
			Entry: e,
			Path:  paths[i],
			Label: outcomes[paths[i].EndTrack],
		}
	}
	return &Ladder{Topology: topo, Outcomes: outcomes, Results: results}
}
