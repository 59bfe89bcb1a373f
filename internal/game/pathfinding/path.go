// Package pathfinding implements the grid searches used for every movement
// and targeting decision: A* toward a known destination and a
// branch-and-bound nearest-match search. Both are pure functions of the grid
// at call time.
package pathfinding

import (
	"math"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
)

// DefaultMaxCostDistance bounds exploration when no option overrides it.
const DefaultMaxCostDistance = 1024.0

// Path is an ordered list of coordinates from start to destination inclusive.
type Path []core.Coordinate

// CostDistance sums the edge costs along the path. A nil path costs +Inf.
func (p Path) CostDistance() float64 {
	if p == nil {
		return math.Inf(1)
	}
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i-1].CostDistance(p[i])
	}
	return total
}

// Start returns the first coordinate of the path.
func (p Path) Start() core.Coordinate { return p[0] }

// Destination returns the last coordinate of the path.
func (p Path) Destination() core.Coordinate { return p[len(p)-1] }

// Next returns the step after the start, if there is one.
func (p Path) Next() (core.Coordinate, bool) {
	if len(p) < 2 {
		return core.Coordinate{}, false
	}
	return p[1], true
}

// Contains reports whether c lies on the path.
func (p Path) Contains(c core.Coordinate) bool {
	for _, step := range p {
		if step == c {
			return true
		}
	}
	return false
}

type options struct {
	maxCostDistance float64
}

// Option configures a search.
type Option func(*options)

// WithMaxCostDistance bounds the accumulated cost a search will expand from.
func WithMaxCostDistance(max float64) Option {
	return func(o *options) {
		if max > 0 {
			o.maxCostDistance = max
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{maxCostDistance: DefaultMaxCostDistance}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// walk rebuilds the path ending at dest from the parent table.
func walk(parents map[core.Coordinate]core.Coordinate, start, dest core.Coordinate) Path {
	path := Path{dest}
	for c := dest; c != start; {
		c = parents[c]
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
