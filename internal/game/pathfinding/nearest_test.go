package pathfinding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/testutil"
)

func land(tile *core.Tile) bool { return tile.Passable() }

func TestNearest_FindsClosestMatch(t *testing.T) {
	g := core.NewGrid(10, 10)
	g.At(8, 0).Military = 1
	g.At(3, 0).Military = 1
	g.At(0, 6).Military = 1

	path, ok := Nearest(g, core.Coordinate{X: 0, Y: 0}, func(t *core.Tile) bool { return t.Military > 0 }, land)
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 3, Y: 0}, path.Destination())
	assert.Equal(t, core.Coordinate{X: 0, Y: 0}, path.Start())
	assert.InDelta(t, 6.0, path.CostDistance(), 1e-9)
}

func TestNearest_StartMatches(t *testing.T) {
	g := core.NewGrid(5, 5)
	path, ok := Nearest(g, core.Coordinate{X: 2, Y: 2}, land, land)
	require.True(t, ok)
	assert.Equal(t, Path{{X: 2, Y: 2}}, path)
}

func TestNearest_StartNotTraversable(t *testing.T) {
	g := core.NewGrid(5, 5)
	g.At(0, 0).Terrain = core.Sea

	_, ok := Nearest(g, core.Coordinate{X: 0, Y: 0}, land, land)
	assert.False(t, ok)
}

func TestNearest_NoMatchWithinBound(t *testing.T) {
	g := core.NewGrid(30, 1)
	g.At(29, 0).Military = 1
	match := func(t *core.Tile) bool { return t.Military > 0 }

	_, ok := Nearest(g, core.Coordinate{X: 0, Y: 0}, match, land, WithMaxCostDistance(20))
	assert.False(t, ok)

	_, ok = Nearest(g, core.Coordinate{X: 0, Y: 0}, match, land)
	assert.True(t, ok)
}

func TestNearest_BlockedByTraversable(t *testing.T) {
	g := core.NewGrid(6, 6)
	testutil.WallColumn(g, 2, 0, 1, 2, 3, 4, 5)
	g.At(5, 5).Military = 1

	_, ok := Nearest(g, core.Coordinate{X: 0, Y: 0}, func(t *core.Tile) bool { return t.Military > 0 }, land)
	assert.False(t, ok)
}

func TestReachable(t *testing.T) {
	g := core.NewGrid(10, 10)

	tiles := Reachable(g, core.Coordinate{X: 5, Y: 5}, land, WithMaxCostDistance(6))
	require.NotEmpty(t, tiles)
	assert.Equal(t, core.Coordinate{X: 5, Y: 5}, tiles[0])
	for _, c := range tiles {
		assert.Less(t, core.Coordinate{X: 5, Y: 5}.Distance(c)*2, 6.0+1e-9)
	}
	assert.Contains(t, tiles, core.Coordinate{X: 7, Y: 5})
	assert.NotContains(t, tiles, core.Coordinate{X: 8, Y: 5})

	assert.Nil(t, Reachable(g, core.Coordinate{X: -1, Y: 0}, land))
}

func TestReachable_RespectsTraversable(t *testing.T) {
	g := core.NewGrid(5, 5)
	testutil.WallColumn(g, 1, 0, 1, 2, 3, 4)

	tiles := Reachable(g, core.Coordinate{X: 0, Y: 0}, land)
	assert.Len(t, tiles, 5)
}
