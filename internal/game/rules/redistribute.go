package rules

import "github.com/mitchelldurbincs/WarringStates/internal/common"

// Redistribute spreads a signed population delta across pools in proportion
// to each pool's size. Every participant still able to take part moves at
// least one unit per pass, and passes repeat until the delta is allocated or,
// for negative deltas, every pool is empty. Returns signed changes in input
// order; no pool is driven below zero.
func Redistribute(delta int, pools []int) []int {
	changes := make([]int, len(pools))
	if delta == 0 || len(pools) == 0 {
		return changes
	}
	removing := delta < 0
	remaining := common.Abs(delta)

	available := func(i int) int {
		if removing {
			return max(pools[i]-changes[i], 0)
		}
		return max(pools[i], 0)
	}

	for remaining > 0 {
		var active []int
		weight := 0
		for i := range pools {
			if !removing || available(i) > 0 {
				active = append(active, i)
				weight += available(i)
			}
		}
		if len(active) == 0 {
			break
		}

		passTotal := remaining
		for _, i := range active {
			var share int
			if weight > 0 {
				share = common.Trunc(float64(passTotal) * float64(available(i)) / float64(weight))
			}
			share = max(share, 1)
			share = min(share, remaining)
			if removing {
				share = min(share, available(i))
			}
			changes[i] += share
			remaining -= share
			if remaining == 0 {
				break
			}
		}
	}

	if removing {
		for i := range changes {
			changes[i] = -changes[i]
		}
	}
	return changes
}
