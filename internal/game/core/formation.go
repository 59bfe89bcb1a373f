package core

import "math"

// Formation is the facing of a unit. The zero value is a dense column;
// any other vector is a line formation facing that direction.
type Formation struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Dense is the column formation.
var Dense = Formation{}

// NewFormation creates a formation facing (dx, dy)
func NewFormation(dx, dy int) Formation {
	return Formation{DX: dx, DY: dy}
}

// FormationToward returns the natural facing when stepping from one tile to another.
func FormationToward(from, to Coordinate) Formation {
	d := to.Sub(from)
	return Formation{DX: d.X, DY: d.Y}
}

// IsDense reports whether the formation is a column.
func (f Formation) IsDense() bool { return f.DX == 0 && f.DY == 0 }

// Angle is atan2(dx, dy). The argument order is deliberate: angle 0 faces +y.
func (f Formation) Angle() float64 {
	return math.Atan2(float64(f.DX), float64(f.DY))
}

// Reverse returns the formation facing the opposite way.
func (f Formation) Reverse() Formation {
	return Formation{DX: -f.DX, DY: -f.DY}
}
