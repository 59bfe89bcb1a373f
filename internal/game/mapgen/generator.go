package mapgen

import (
	"errors"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/mitchelldurbincs/WarringStates/internal/common"
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
)

// ErrNoCapitalSite is returned when a player's capital cannot be placed.
var ErrNoCapitalSite = errors.New("no habitable tile left for a capital")

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width       int
	Height      int
	PlayerCount int
	// Seed feeds the noise fields. Zero draws one from the generator's rng.
	Seed            int64
	NoiseScale      float64
	RuralPopulation int
	// CapitalSpacing is the minimum Euclidean distance between capitals
	CapitalSpacing int
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h, players int) MapConfig {
	return MapConfig{
		Width:           w,
		Height:          h,
		PlayerCount:     players,
		NoiseScale:      0.12,
		RuralPopulation: 1200,
		CapitalSpacing:  8,
	}
}

// Capital is where a player's first city goes.
type Capital struct {
	PlayerID int
	Coord    core.Coordinate
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateMap creates a grid with terrain and rural population and picks a
// capital site for every player.
func (g *Generator) GenerateMap() (*core.Grid, []Capital, error) {
	grid := core.NewGrid(g.config.Width, g.config.Height)

	seed := g.config.Seed
	if seed == 0 {
		seed = g.rng.Int63()
	}
	g.shapeTerrain(grid, seed)
	g.seedPopulation(grid, seed+1)

	capitals, err := g.placeCapitals(grid)
	if err != nil {
		return nil, nil, err
	}
	return grid, capitals, nil
}

// terrainFor maps a normalized elevation onto a terrain band.
func terrainFor(elevation float64) core.Terrain {
	switch {
	case elevation < 0.22:
		return core.Ocean
	case elevation < 0.3:
		return core.Sea
	case elevation < 0.34:
		return core.Lake
	case elevation < 0.4:
		return core.Marsh
	case elevation < 0.62:
		return core.Plain
	case elevation < 0.72:
		return core.HillPlain
	case elevation < 0.82:
		return core.Hill
	default:
		return core.Alpine
	}
}

func (g *Generator) shapeTerrain(grid *core.Grid, seed int64) {
	noise := opensimplex.NewNormalized(seed)
	for i := range grid.T {
		t := &grid.T[i]
		e := octaveNoise(noise, float64(t.Coord.X), float64(t.Coord.Y), 3, g.config.NoiseScale, 0.5)
		t.Terrain = terrainFor(e)
	}
}

// seedPopulation spreads the rural population over habitable tiles,
// scaled by a fertility field in [0.5, 1.5).
func (g *Generator) seedPopulation(grid *core.Grid, seed int64) {
	fertility := opensimplex.NewNormalized(seed)
	for i := range grid.T {
		t := &grid.T[i]
		if !t.Terrain.Habitable() {
			continue
		}
		f := 0.5 + fertility.Eval2(float64(t.Coord.X)*g.config.NoiseScale*2, float64(t.Coord.Y)*g.config.NoiseScale*2)
		if t.Terrain == core.Hill {
			f /= 2
		}
		t.Civilian = common.Trunc(float64(g.config.RuralPopulation) * f)
	}
}

func (g *Generator) placeCapitals(grid *core.Grid) ([]Capital, error) {
	capitals := make([]Capital, 0, g.config.PlayerCount)

	for pid := 0; pid < g.config.PlayerCount; pid++ {
		c, ok := g.findCapitalSite(grid, capitals, g.config.CapitalSpacing)
		if !ok {
			// Small maps may not fit the spacing; relax it before giving up.
			c, ok = g.findCapitalSite(grid, capitals, 1)
		}
		if !ok {
			return nil, ErrNoCapitalSite
		}
		capitals = append(capitals, Capital{PlayerID: pid, Coord: c})
	}
	return capitals, nil
}

func (g *Generator) findCapitalSite(grid *core.Grid, existing []Capital, spacing int) (core.Coordinate, bool) {
	suitable := func(c core.Coordinate) bool {
		t := grid.Tile(c)
		if t == nil || !t.Terrain.Habitable() {
			return false
		}
		for _, other := range existing {
			if c.Distance(other.Coord) < float64(spacing) {
				return false
			}
		}
		return true
	}

	maxAttempts := grid.W * grid.H
	for attempts := 0; attempts < maxAttempts; attempts++ {
		c := core.NewCoordinate(g.rng.Intn(grid.W), g.rng.Intn(grid.H))
		if suitable(c) {
			return c, true
		}
	}

	// Fallback: scan in row-major order
	for i := range grid.T {
		if suitable(grid.T[i].Coord) {
			return grid.T[i].Coord, true
		}
	}
	return core.Coordinate{}, false
}

// octaveNoise layers several frequencies of noise into one value in [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return math.Max(0, math.Min(1, total/maxVal))
}
