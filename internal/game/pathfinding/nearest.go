package pathfinding

import "github.com/mitchelldurbincs/WarringStates/internal/game/core"

// Predicate tests a single tile.
type Predicate func(tile *core.Tile) bool

// Nearest explores outward from start over traversable tiles and returns
// the cheapest path to a tile satisfying find. Every match shrinks the
// search bound to its cost, so later expansions only look for strictly
// closer matches. The start tile must itself be traversable.
func Nearest(g *core.Grid, start core.Coordinate, find, traversable Predicate, opts ...Option) (Path, bool) {
	s := explore(g, start, find, traversable, buildOptions(opts))
	if s == nil || !s.found {
		return nil, false
	}
	return walk(s.parents, start, s.dest), true
}

// Reachable returns every traversable tile whose accumulated cost from start
// is below the max cost distance, in discovery order. start is included.
func Reachable(g *core.Grid, start core.Coordinate, traversable Predicate, opts ...Option) []core.Coordinate {
	never := func(*core.Tile) bool { return false }
	s := explore(g, start, never, traversable, buildOptions(opts))
	if s == nil {
		return nil
	}
	tiles := make([]core.Coordinate, 0, len(s.order))
	for _, c := range s.order {
		if s.cost[c] < s.bound {
			tiles = append(tiles, c)
		}
	}
	return tiles
}

type exploration struct {
	cost    map[core.Coordinate]float64
	parents map[core.Coordinate]core.Coordinate
	order   []core.Coordinate
	bound   float64
	dest    core.Coordinate
	found   bool
}

func explore(g *core.Grid, start core.Coordinate, find, traversable Predicate, o options) *exploration {
	origin := g.Tile(start)
	if origin == nil || !traversable(origin) {
		return nil
	}

	s := &exploration{
		cost:    map[core.Coordinate]float64{start: 0},
		parents: make(map[core.Coordinate]core.Coordinate),
		order:   []core.Coordinate{start},
		bound:   o.maxCostDistance,
	}
	queue := []core.Coordinate{start}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		cost := s.cost[c]

		if cost > s.bound {
			continue
		}
		if find(g.Tile(c)) && cost < s.bound {
			s.dest, s.found = c, true
			s.bound = cost
		}
		if cost >= s.bound {
			continue
		}

		for _, tile := range g.Adjacent(c) {
			if !traversable(tile) {
				continue
			}
			next := tile.Coord
			nextCost := cost + c.CostDistance(next)
			prev, seen := s.cost[next]
			if seen && nextCost >= min(s.bound, prev) {
				continue
			}
			if !seen {
				s.order = append(s.order, next)
			}
			s.cost[next] = nextCost
			s.parents[next] = c
			queue = append(queue, next)
		}
	}
	return s
}
