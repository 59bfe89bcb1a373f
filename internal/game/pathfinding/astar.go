package pathfinding

import (
	"container/heap"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
)

// Admissible decides whether a search may step onto tile having
// accumulated cost so far.
type Admissible func(tile *core.Tile, cost float64) bool

type node struct {
	coord    core.Coordinate
	cost     float64
	priority float64
	seq      int
}

// openSet orders nodes by cost + heuristic, then by insertion order.
type openSet []node

func (s openSet) Len() int { return len(s) }
func (s openSet) Less(i, j int) bool {
	if s[i].priority != s[j].priority {
		return s[i].priority < s[j].priority
	}
	return s[i].seq < s[j].seq
}
func (s openSet) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s *openSet) Push(x any)   { *s = append(*s, x.(node)) }
func (s *openSet) Pop() any {
	old := *s
	n := old[len(old)-1]
	*s = old[:len(old)-1]
	return n
}

// Search returns the lowest-cost path from start to dest over tiles accepted
// by admissible. The start tile itself is never tested. Tiles whose
// accumulated cost reaches the max cost distance are not expanded, so an
// unreachable destination fails in bounded time.
func Search(g *core.Grid, start, dest core.Coordinate, admissible Admissible, opts ...Option) (Path, bool) {
	if !g.InBounds(start) || !g.InBounds(dest) {
		return nil, false
	}
	o := buildOptions(opts)

	best := map[core.Coordinate]float64{start: 0}
	parents := make(map[core.Coordinate]core.Coordinate)
	open := &openSet{{coord: start, priority: start.Distance(dest)}}
	seq := 1

	for open.Len() > 0 {
		n := heap.Pop(open).(node)
		if n.cost > best[n.coord] {
			continue
		}
		if n.coord == dest {
			return walk(parents, start, dest), true
		}
		if n.cost >= o.maxCostDistance {
			continue
		}

		for _, tile := range g.Adjacent(n.coord) {
			next := tile.Coord
			cost := n.cost + n.coord.CostDistance(next)
			if !admissible(tile, cost) {
				continue
			}
			prev, seen := best[next]
			if seen && cost >= min(o.maxCostDistance, prev) {
				continue
			}
			best[next] = cost
			parents[next] = n.coord
			heap.Push(open, node{coord: next, cost: cost, priority: cost + next.Distance(dest), seq: seq})
			seq++
		}
	}
	return nil, false
}
