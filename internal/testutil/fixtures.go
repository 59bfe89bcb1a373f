package testutil

import (
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
)

// CreateTestGrid creates an all-plain grid with the given rural population on every tile
func CreateTestGrid(width, height, civilians int) *core.Grid {
	g := core.NewGrid(width, height)
	for i := range g.T {
		g.T[i].Civilian = civilians
	}
	return g
}

// CreateTestGridWithTerrain creates a test grid and overrides terrain on specific tiles
func CreateTestGridWithTerrain(width, height int, terrain map[core.Coordinate]core.Terrain) *core.Grid {
	g := core.NewGrid(width, height)
	for c, t := range terrain {
		if tile := g.Tile(c); tile != nil {
			tile.Terrain = t
		}
	}
	return g
}

// WallColumn turns column x into ocean for the given rows
func WallColumn(g *core.Grid, x int, ys ...int) {
	for _, y := range ys {
		if tile := g.At(x, y); tile != nil {
			tile.Terrain = core.Ocean
		}
	}
}
