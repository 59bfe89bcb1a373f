package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedistribute(t *testing.T) {
	tests := []struct {
		name  string
		delta int
		pools []int
		want  []int
	}{
		{"proportional growth", 100, []int{300, 100}, []int{75, 25}},
		{"proportional loss", -50, []int{10, 90}, []int{-5, -45}},
		{"loss beyond every pool empties them", -120, []int{10, 90}, []int{-10, -90}},
		{"empty pools still receive", 3, []int{0, 0, 0}, []int{1, 1, 1}},
		{"floor of one goes to the first participant", 1, []int{5, 5}, []int{1, 0}},
		{"nothing to move", 0, []int{5, 5}, []int{0, 0}},
		{"no participants", 10, nil, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redistribute(tt.delta, tt.pools))
		})
	}
}

func TestRedistribute_AllocatesEverythingItCan(t *testing.T) {
	pools := []int{17, 3, 250, 0, 41}
	for _, delta := range []int{1, 7, 99, 311, -1, -7, -99, -311} {
		changes := Redistribute(delta, pools)
		total, capacity := 0, 0
		for i, c := range changes {
			total += c
			capacity += pools[i]
			assert.GreaterOrEqual(t, pools[i]+c, 0, "delta %d drove pool %d negative", delta, i)
		}
		if delta < 0 && -delta > capacity {
			assert.Equal(t, -capacity, total)
		} else {
			assert.Equal(t, delta, total, "delta %d", delta)
		}
	}
}

func TestRedistribute_ConservesDelta(t *testing.T) {
	tests := []struct {
		name  string
		delta int
		pools []int
	}{
		{"AddProportional", 100, []int{100, 300}},
		{"AddToEmptyPools", 7, []int{0, 0, 0}},
		{"RemoveProportional", -120, []int{100, 300, 200}},
		{"RemoveSmallPools", -5, []int{1, 1, 1, 1, 1, 1, 1}},
		{"RemoveExactlyAll", -60, []int{10, 20, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := Redistribute(tt.delta, tt.pools)
			require.Len(t, changes, len(tt.pools))
			assert.Equal(t, tt.delta, sum(changes))
			for i, c := range changes {
				assert.GreaterOrEqual(t, tt.pools[i]+c, 0)
			}
		})
	}
}

func TestRedistribute_ProportionalShares(t *testing.T) {
	assert.Equal(t, []int{-25, -75}, Redistribute(-100, []int{100, 300}))
}
