package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countLabels(labels []string) map[string]int {
	out := map[string]int{}
	for _, l := range labels {
		out[l]++
	}
	return out
}

func TestAssignOutcomes_PadsWithDefault(t *testing.T) {
	got := AssignOutcomes(nil, 5, DefaultOutcomeLabel, NewRandomSource(1))
	require.Len(t, got, 5)
	assert.Equal(t, map[string]int{DefaultOutcomeLabel: 5}, countLabels(got))
}

func TestAssignOutcomes_KeepsCustomLabels(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		got := AssignOutcomes([]string{"A", "B"}, 5, DefaultOutcomeLabel, NewRandomSource(seed))
		require.Len(t, got, 5)
		assert.Equal(t, map[string]int{"A": 1, "B": 1, DefaultOutcomeLabel: 3}, countLabels(got))
	}
}

func TestAssignOutcomes_Truncates(t *testing.T) {
	labels := []string{"1", "2", "3", "4"}
	got := AssignOutcomes(labels, 2, DefaultOutcomeLabel, NewSequenceSource(0))
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"1", "2"}, got)
	assert.Equal(t, []string{"1", "2", "3", "4"}, labels, "input must not be modified")
}

func TestAssignOutcomes_ShufflesEveryPosition(t *testing.T) {
	seen := map[string]map[int]bool{"A": {}, "B": {}, "C": {}}
	rng := NewRandomSource(3)
	for i := 0; i < 200; i++ {
		got := AssignOutcomes([]string{"A", "B", "C"}, 3, DefaultOutcomeLabel, rng)
		for pos, l := range got {
			seen[l][pos] = true
		}
	}
	for label, positions := range seen {
		assert.Len(t, positions, 3, "label %s", label)
	}
}

func TestAssignOutcomes_NoTracks(t *testing.T) {
	assert.Empty(t, AssignOutcomes([]string{"A"}, 0, DefaultOutcomeLabel, NewRandomSource(1)))
}

func TestBuildLadder(t *testing.T) {
	entries := []Entry{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}, {ID: "3", Name: "c"}}
	ladder := BuildLadder(entries, []string{"당첨"}, DefaultLadderRows, DefaultOutcomeLabel, NewRandomSource(11))
	require.NotNil(t, ladder)
	require.Len(t, ladder.Results, 3)

	labels := make([]string, 0, 3)
	for i, r := range ladder.Results {
		assert.Equal(t, entries[i], r.Entry)
		assert.Equal(t, i, r.Path.StartTrack)
		assert.Equal(t, ladder.Outcomes[r.Path.EndTrack], r.Label)
		labels = append(labels, r.Label)
	}
	assert.Equal(t, map[string]int{"당첨": 1, DefaultOutcomeLabel: 2}, countLabels(labels))
}

func TestBuildLadder_NeedsTwoEntries(t *testing.T) {
	assert.Nil(t, BuildLadder([]Entry{{ID: "1"}}, nil, DefaultLadderRows, DefaultOutcomeLabel, NewRandomSource(1)))
}
