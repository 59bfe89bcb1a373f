package core

import (
	"fmt"
	"math"
)

// CostMultiplier converts Euclidean tile distance into movement cost.
const CostMultiplier = 2

// Coordinate represents a position on the grid
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from a grid array index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// ToIndex converts the coordinate to a grid array index using row-major ordering
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// Distance returns the Euclidean distance to another coordinate, rounded to
// four decimal places so that costs summed along a path are stable.
func (c Coordinate) Distance(other Coordinate) float64 {
	dx := float64(c.X - other.X)
	dy := float64(c.Y - other.Y)
	return math.Round(math.Sqrt(dx*dx+dy*dy)*1e4) / 1e4
}

// CostDistance is the movement cost between two coordinates.
func (c Coordinate) CostDistance(other Coordinate) float64 {
	return c.Distance(other) * CostMultiplier
}

// IsAdjacentTo checks if this coordinate touches another, diagonals included
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx == 0 && dy == 0 {
		return false
	}
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}

// Neighbors returns the eight surrounding coordinates. The order is column
// major (x-1 first, then x, then x+1) and callers rely on it for
// deterministic search.
func (c Coordinate) Neighbors() []Coordinate {
	neighbors := make([]Coordinate, 0, 8)
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			if i == 0 && j == 0 {
				continue
			}
			neighbors = append(neighbors, Coordinate{X: c.X + i, Y: c.Y + j})
		}
	}
	return neighbors
}

// ValidNeighbors returns only the neighbors that are within the given bounds
func (c Coordinate) ValidNeighbors(width, height int) []Coordinate {
	neighbors := c.Neighbors()
	valid := neighbors[:0]

	for _, n := range neighbors {
		if n.IsValid(width, height) {
			valid = append(valid, n)
		}
	}

	return valid
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// Sub returns a new coordinate that is the difference between this coordinate and another
func (c Coordinate) Sub(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X - other.X,
		Y: c.Y - other.Y,
	}
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
