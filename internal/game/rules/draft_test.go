package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestPlanDraft_SingleParticipant(t *testing.T) {
	deltas := PlanDraft([]DraftParticipant{{Civilian: 5000}}, 2500)
	assert.Equal(t, []int{2500}, deltas)
}

func TestPlanDraft_Empty(t *testing.T) {
	assert.Empty(t, PlanDraft(nil, 2500))
	assert.Equal(t, []int{0, 0}, PlanDraft([]DraftParticipant{{}, {}}, 2500))
	assert.Equal(t, []int{0}, PlanDraft([]DraftParticipant{{Civilian: 100}}, 0))
}

func TestPlanDraft_LowestLevelsFirst(t *testing.T) {
	participants := []DraftParticipant{
		{Civilian: 2000, Military: 2000}, // level 0.5
		{Civilian: 4000, Military: 0},    // level 0
		{Civilian: 3000, Military: 1000}, // level 0.25
	}
	deltas := PlanDraft(participants, 2500)

	require.Len(t, deltas, 3)
	assert.Greater(t, deltas[1], deltas[2])
	assert.GreaterOrEqual(t, deltas[2], deltas[0])
	assert.Equal(t, 2500, sum(deltas))
}

func TestPlanDraft_NeverExceedsCivilians(t *testing.T) {
	participants := []DraftParticipant{
		{Civilian: 10, Military: 0},
		{Civilian: 0, Military: 500},
		{Civilian: 40, Military: 10},
	}
	deltas := PlanDraft(participants, 2500)
	for i, d := range deltas {
		assert.GreaterOrEqual(t, d, 0)
		assert.LessOrEqual(t, d, participants[i].Civilian)
	}
}

func TestPlanDraft_ConservesPopulation(t *testing.T) {
	participants := []DraftParticipant{
		{Civilian: 2500},
		{Civilian: 1800, Military: 200},
		{Civilian: 900, Military: 50},
		{Civilian: 3100, Military: 700},
		{Civilian: 450},
	}
	civBefore, milBefore := 0, 0
	for _, p := range participants {
		civBefore += p.Civilian
		milBefore += p.Military
	}

	deltas := PlanDraft(participants, 2500)

	civAfter, milAfter := 0, 0
	for i, p := range participants {
		p.Civilian -= deltas[i]
		p.Military += deltas[i]
		require.GreaterOrEqual(t, p.Civilian, 0)
		civAfter += p.Civilian
		milAfter += p.Military
	}
	assert.Equal(t, civBefore-civAfter, milAfter-milBefore)
	assert.Positive(t, milAfter-milBefore)
}

// A city of 5,000 drafting over and over never drafts more than its people.
func TestPlanDraft_RepeatedDraftOfSmallCity(t *testing.T) {
	city := DraftParticipant{Civilian: 5000}

	for i := 0; i < 10; i++ {
		d := PlanDraft([]DraftParticipant{city}, 2500)[0]
		city.Civilian -= d
		city.Military += d
		require.GreaterOrEqual(t, city.Civilian, 0)
		require.LessOrEqual(t, city.Military, 5000)
	}
	assert.Equal(t, 5000, city.Military)
	assert.Zero(t, city.Civilian)
}
