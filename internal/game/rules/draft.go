package rules

import (
	"sort"

	"github.com/mitchelldurbincs/WarringStates/internal/common"
)

// DraftParticipant is the city itself or one of its annexed tiles.
type DraftParticipant struct {
	Civilian int
	Military int
}

func (p DraftParticipant) Population() int { return p.Civilian + p.Military }

// DraftLevel is military / population, 0 when empty.
func (p DraftParticipant) DraftLevel() float64 {
	pop := p.Population()
	if pop <= 0 {
		return 0
	}
	return float64(p.Military) / float64(pop)
}

// PlanDraft splits a draft of up to quota across participants, taking first
// from those with the lowest draft level so that everyone converges toward a
// common level. It returns one non-negative delta per participant, in input
// order, never more than that participant's civilians.
func PlanDraft(participants []DraftParticipant, quota int) []int {
	n := len(participants)
	deltas := make([]int, n)
	if n == 0 || quota <= 0 {
		return deltas
	}

	order := make([]int, n)
	totalPopulation := 0
	for i := range order {
		order[i] = i
		totalPopulation += participants[i].Population()
	}
	if totalPopulation <= 0 {
		return deltas
	}
	sort.SliceStable(order, func(a, b int) bool {
		return participants[order[a]].DraftLevel() < participants[order[b]].DraftLevel()
	})

	level := func(k int) float64 { return participants[order[k]].DraftLevel() }
	// equalise is the population needed to lift everyone below k up to k's level.
	equalise := func(k int) float64 {
		sum := 0.0
		for i := 0; i < k; i++ {
			sum += (level(k) - level(i)) * float64(participants[order[i]].Population())
		}
		return sum
	}

	l, r := 0, n-1
	for l < r {
		m := (l + r) >> 1
		sum := equalise(m)
		remaining := float64(quota) - sum
		if sum == remaining {
			l = m
			break
		}
		if sum > remaining {
			r = m
		} else {
			l = m + 1
		}
	}

	cutoff := l
	remaining := float64(quota) - equalise(cutoff)
	for i := 0; i <= cutoff; i++ {
		p := participants[order[i]]
		delta := common.Trunc((level(cutoff) - level(i) + remaining/float64(totalPopulation)) * float64(p.Population()))
		deltas[order[i]] = common.ClampInt(delta, 0, p.Civilian)
	}

	// The equalising pass can overshoot; give the excess back starting from
	// the participant with the highest draft level.
	excess := -quota
	for _, d := range deltas {
		excess += d
	}
	for i := cutoff; i >= 0 && excess > 0; i-- {
		cut := min(deltas[order[i]], excess)
		deltas[order[i]] -= cut
		excess -= cut
	}
	return deltas
}
