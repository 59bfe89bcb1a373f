package core

// Tile is a single cell of the map.
// Owner: NeutralID (-1) means unclaimed; 0..N-1 are player IDs.
// City is the city the tile is annexed to (its own seat included).
// Settlement is set only on the tile the city sits on.
// Camp is the unit using this tile as its supply base.
type Tile struct {
	Coord      Coordinate
	Terrain    Terrain
	Owner      int
	Civilian   int
	Military   int
	TrainLevel int
	City       Handle
	Settlement Handle
	Camp       Handle
	Units      []Handle
	Attitudes  map[int]float64
}

type Grid struct {
	W, H int
	T    []Tile // length = W*H (row-major)
}

func NewGrid(w, h int) *Grid {
	g := &Grid{W: w, H: h, T: make([]Tile, w*h)}
	for i := range g.T {
		g.T[i].Coord = FromIndex(i, w)
		g.T[i].Terrain = Plain
		g.T[i].Owner = NeutralID
		g.T[i].Attitudes = make(map[int]float64)
	}
	return g
}

// InBounds checks if coordinates are within grid boundaries
func (g *Grid) InBounds(c Coordinate) bool { return c.IsValid(g.W, g.H) }

// Tile safely returns a tile pointer if the coordinate is valid, nil otherwise
func (g *Grid) Tile(c Coordinate) *Tile {
	if !g.InBounds(c) {
		return nil
	}
	return &g.T[c.ToIndex(g.W)]
}

// At is Tile for raw x, y
func (g *Grid) At(x, y int) *Tile { return g.Tile(Coordinate{X: x, Y: y}) }

// Adjacent returns the in-bounds neighbours of c in Coordinate.Neighbors order.
func (g *Grid) Adjacent(c Coordinate) []*Tile {
	tiles := make([]*Tile, 0, 8)
	for _, n := range c.Neighbors() {
		if t := g.Tile(n); t != nil {
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// RangeAssign calls fn for every tile in the square of the given range
// around c, passing the Euclidean distance from c.
func (g *Grid) RangeAssign(c Coordinate, r int, fn func(t *Tile, distance float64)) {
	for i := -r; i <= r; i++ {
		for j := -r; j <= r; j++ {
			if t := g.Tile(Coordinate{X: c.X + i, Y: c.Y + j}); t != nil {
				fn(t, c.Distance(t.Coord))
			}
		}
	}
}

func (t *Tile) IsNeutral() bool  { return t.Owner == NeutralID }
func (t *Tile) HasUnit() bool    { return len(t.Units) > 0 }
func (t *Tile) IsSettled() bool  { return t.Settlement != NoHandle }
func (t *Tile) Population() int  { return t.Civilian + t.Military }
func (t *Tile) Passable() bool   { return t.Terrain.Passable() }
func (t *Tile) HasCamp() bool    { return t.Camp != NoHandle }

// DraftLevel is military / (civilian + military), 0 for an empty tile.
func (t *Tile) DraftLevel() float64 {
	total := t.Population()
	if total <= 0 {
		return 0
	}
	return float64(t.Military) / float64(total)
}

// Attitude returns the tile's attitude toward a player; missing entries are 0.
func (t *Tile) Attitude(playerID int) float64 { return t.Attitudes[playerID] }

// AdjustAttitude adds delta to the tile's attitude toward a player.
func (t *Tile) AdjustAttitude(playerID int, delta float64) {
	if t.Attitudes == nil {
		t.Attitudes = make(map[int]float64)
	}
	t.Attitudes[playerID] += delta
}

// RecoverAttitudes moves every hostile attitude back toward zero by at most limit.
func (t *Tile) RecoverAttitudes(limit float64) {
	for id, a := range t.Attitudes {
		if a < 0 {
			t.Attitudes[id] = a + min(limit, -a)
		}
	}
}

// AddUnit registers a unit on the tile. Adding twice is a no-op.
func (t *Tile) AddUnit(h Handle) {
	for _, u := range t.Units {
		if u == h {
			return
		}
	}
	t.Units = append(t.Units, h)
}

// RemoveUnit deregisters a unit, preserving the order of the others.
func (t *Tile) RemoveUnit(h Handle) bool {
	for i, u := range t.Units {
		if u == h {
			t.Units = append(t.Units[:i], t.Units[i+1:]...)
			return true
		}
	}
	return false
}

// ClampPopulation keeps both counters non-negative.
func (t *Tile) ClampPopulation() {
	t.Civilian = max(t.Civilian, 0)
	t.Military = max(t.Military, 0)
}
