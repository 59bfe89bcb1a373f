package core

// Terrain is the land type of a tile.
type Terrain uint8

const (
	Ocean Terrain = iota
	Sea
	Lake
	Marsh
	Plain
	HillPlain
	Hill
	Alpine
)

var terrainNames = [...]string{"OCEAN", "SEA", "LAKE", "MARSH", "PLAIN", "HILL_PLAIN", "HILL", "ALPINE"}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "UNKNOWN"
}

// IsWater reports whether the terrain is a body of water.
func (t Terrain) IsWater() bool { return t <= Lake }

// Passable reports whether land units can enter the terrain.
func (t Terrain) Passable() bool { return !t.IsWater() }

// Habitable reports whether the terrain can hold rural population.
func (t Terrain) Habitable() bool { return t >= Plain && t <= Hill }
