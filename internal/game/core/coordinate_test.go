package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinate_Index(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		width int
		index int
	}{
		{"Origin", NewCoordinate(0, 0), 32, 0},
		{"EndOfFirstRow", NewCoordinate(31, 0), 32, 31},
		{"StartOfSecondRow", NewCoordinate(0, 1), 32, 32},
		{"LastTileOfDefaultMap", NewCoordinate(31, 23), 32, 767},
		{"NarrowStrip", NewCoordinate(0, 5), 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.index, tt.coord.ToIndex(tt.width))
			assert.Equal(t, tt.coord, FromIndex(tt.index, tt.width))
		})
	}
}

func TestCoordinate_IndexCoversGrid(t *testing.T) {
	const w, h = 7, 5
	seen := make(map[int]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := NewCoordinate(x, y)
			require.True(t, c.IsValid(w, h))
			idx := c.ToIndex(w)
			assert.False(t, seen[idx], "index %d assigned twice", idx)
			seen[idx] = true
			assert.Equal(t, c, FromIndex(idx, w))
		}
	}
	assert.Len(t, seen, w*h)
}

func TestCoordinate_IsValid(t *testing.T) {
	tests := []struct {
		coord Coordinate
		valid bool
	}{
		{NewCoordinate(0, 0), true},
		{NewCoordinate(7, 4), true},
		{NewCoordinate(-1, 0), false},
		{NewCoordinate(0, -1), false},
		{NewCoordinate(8, 0), false},
		{NewCoordinate(0, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.coord.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.coord.IsValid(8, 5))
		})
	}
}

func TestCoordinate_Distance(t *testing.T) {
	tests := []struct {
		name     string
		from     Coordinate
		to       Coordinate
		expected float64
	}{
		{"Same", Coordinate{5, 5}, Coordinate{5, 5}, 0},
		{"Adjacent_Horizontal", Coordinate{5, 5}, Coordinate{6, 5}, 1},
		{"Adjacent_Vertical", Coordinate{5, 5}, Coordinate{5, 6}, 1},
		{"Diagonal", Coordinate{0, 0}, Coordinate{1, 1}, 1.4142},
		{"KnightMove", Coordinate{0, 0}, Coordinate{1, 2}, 2.2361},
		{"Far", Coordinate{0, 0}, Coordinate{3, 4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.Distance(tt.to))
			assert.Equal(t, tt.expected, tt.to.Distance(tt.from), "Distance not symmetric")
			assert.Equal(t, tt.expected*CostMultiplier, tt.from.CostDistance(tt.to))
		})
	}
}

func TestCoordinate_IsAdjacentTo(t *testing.T) {
	center := NewCoordinate(5, 5)
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			other := NewCoordinate(5+dx, 5+dy)
			want := (dx != 0 || dy != 0) && abs(dx) <= 1 && abs(dy) <= 1
			assert.Equal(t, want, center.IsAdjacentTo(other), "%v to %v", center, other)
			assert.Equal(t, want, other.IsAdjacentTo(center), "adjacency is symmetric")
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestCoordinate_Neighbors(t *testing.T) {
	c := Coordinate{5, 5}
	neighbors := c.Neighbors()

	require.Len(t, neighbors, 8)
	assert.Equal(t, []Coordinate{
		{4, 4}, {4, 5}, {4, 6},
		{5, 4}, {5, 6},
		{6, 4}, {6, 5}, {6, 6},
	}, neighbors)
}

func TestCoordinate_ValidNeighbors(t *testing.T) {
	tests := []struct {
		name          string
		coord         Coordinate
		width, height int
		expectedCount int
	}{
		{"Center", Coordinate{5, 5}, 10, 10, 8},
		{"TopLeft", Coordinate{0, 0}, 10, 10, 3},
		{"TopRight", Coordinate{9, 0}, 10, 10, 3},
		{"BottomLeft", Coordinate{0, 9}, 10, 10, 3},
		{"BottomRight", Coordinate{9, 9}, 10, 10, 3},
		{"TopEdge", Coordinate{5, 0}, 10, 10, 5},
		{"LeftEdge", Coordinate{0, 5}, 10, 10, 5},
		{"SingleCell", Coordinate{0, 0}, 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid := tt.coord.ValidNeighbors(tt.width, tt.height)
			assert.Len(t, valid, tt.expectedCount)

			for _, n := range valid {
				assert.True(t, n.IsValid(tt.width, tt.height))
				assert.True(t, n.IsAdjacentTo(tt.coord))
			}
		})
	}
}

func TestCoordinate_Offsets(t *testing.T) {
	camp, front := NewCoordinate(3, 4), NewCoordinate(5, 3)
	offset := front.Sub(camp)
	assert.Equal(t, NewCoordinate(2, -1), offset)
	assert.Equal(t, front, camp.Add(offset))
	assert.Equal(t, "(2,-1)", offset.String())
}

func BenchmarkCoordinate_CostDistance(b *testing.B) {
	from, to := NewCoordinate(0, 0), NewCoordinate(31, 23)
	for i := 0; i < b.N; i++ {
		_ = from.CostDistance(to)
	}
}

func BenchmarkCoordinate_ValidNeighbors(b *testing.B) {
	c := NewCoordinate(16, 12)
	for i := 0; i < b.N; i++ {
		_ = c.ValidNeighbors(32, 24)
	}
}
