package game

import (
	"github.com/mitchelldurbincs/WarringStates/internal/common"
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
)

// Snapshot is a read-only copy of the world for observers. It shares no
// memory with the world and may be handed to other goroutines.
type Snapshot struct {
	GameID       string           `json:"gameId"`
	Turn         int              `json:"turn"`
	ActivePlayer int              `json:"activePlayer"`
	Phase        string           `json:"phase"`
	GameOver     bool             `json:"gameOver"`
	Winner       int              `json:"winner"`
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	Players      []PlayerSnapshot `json:"players"`
	Tiles        []TileSnapshot   `json:"tiles"`
	Cities       []CitySummary    `json:"cities"`
	Units        []UnitSummary    `json:"units"`
}

type PlayerSnapshot struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Enemies []int  `json:"enemies"`
	Cities  int    `json:"cities"`
	Units   int    `json:"units"`
	Alive   bool   `json:"alive"`
}

type TileSnapshot struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Terrain    string `json:"terrain"`
	Owner      int    `json:"owner"`
	Population int    `json:"population"`
	City       uint64 `json:"city,omitempty"`
	Units      int    `json:"units,omitempty"`
}

// Snapshot copies the current world.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		GameID:       w.id,
		Turn:         w.turn,
		ActivePlayer: w.active,
		GameOver:     w.gameOver,
		Winner:       w.winner,
		Width:        w.grid.W,
		Height:       w.grid.H,
		Players:      make([]PlayerSnapshot, 0, len(w.players)),
		Tiles:        make([]TileSnapshot, 0, len(w.grid.T)),
	}
	if w.stateMachine != nil {
		snap.Phase = w.stateMachine.CurrentPhase().String()
	}

	for _, st := range w.Standings() {
		p := w.players[st.PlayerID]
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:      p.ID,
			Name:    p.Name,
			Color:   common.PlayerColor(p.ID),
			Enemies: p.Enemies(len(w.players)),
			Cities:  st.Cities,
			Units:   st.Units,
			Alive:   st.Alive(),
		})
	}

	for i := range w.grid.T {
		t := &w.grid.T[i]
		ts := TileSnapshot{
			X:          t.Coord.X,
			Y:          t.Coord.Y,
			Terrain:    t.Terrain.String(),
			Owner:      t.Owner,
			Population: t.Population(),
			Units:      len(t.Units),
		}
		if t.IsSettled() {
			ts.City = uint64(t.Settlement)
			if c, ok := w.cities[t.Settlement]; ok {
				ts.Population = c.State().Population()
			}
		}
		snap.Tiles = append(snap.Tiles, ts)
	}

	for _, c := range w.Cities() {
		snap.Cities = append(snap.Cities, c.Summary())
	}
	for _, u := range w.Units() {
		snap.Units = append(snap.Units, u.Summary())
	}
	return snap
}

// EntitySummary returns the summary of a unit or a city by handle.
func (w *World) EntitySummary(h core.Handle) (any, error) {
	if u, ok := w.units[h]; ok {
		return u.Summary(), nil
	}
	if c, ok := w.cities[h]; ok {
		return c.Summary(), nil
	}
	return nil, core.WrapEntityError(h, core.ErrUnknownEntity)
}
