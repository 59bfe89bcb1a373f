package game

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/mapgen"
	"github.com/mitchelldurbincs/WarringStates/internal/testutil"
)

// newTestWorld builds a world on grid with one capital per player, given in
// player order.
func newTestWorld(t testing.TB, grid *core.Grid, players int, capitals ...core.Coordinate) *World {
	t.Helper()
	return newSeededWorld(t, 12345, grid, players, capitals...)
}

func newSeededWorld(t testing.TB, seed int64, grid *core.Grid, players int, capitals ...core.Coordinate) *World {
	t.Helper()
	caps := make([]mapgen.Capital, len(capitals))
	for i, c := range capitals {
		caps[i] = mapgen.Capital{PlayerID: i, Coord: c}
	}
	w, err := NewWorld(context.Background(), WorldConfig{
		GameID:   "test",
		Players:  players,
		Grid:     grid,
		Capitals: caps,
		Rng:      testutil.NewTestRNG(seed),
		Logger:   zerolog.Nop(),
		EventBus: events.NewEventBusWithLogger(zerolog.Nop()),
	})
	require.NoError(t, err)
	return w
}

func at(x, y int) core.Coordinate { return core.NewCoordinate(x, y) }

// populated returns an empty grid with n civilians on each of the given tiles.
func populated(width, height, n int, tiles ...core.Coordinate) *core.Grid {
	g := testutil.CreateTestGrid(width, height, 0)
	for _, c := range tiles {
		g.Tile(c).Civilian = n
	}
	return g
}

// draftUnit drafts from c and returns the unit that took the draftees.
func draftUnit(t testing.TB, c *City) *Unit {
	t.Helper()
	u, n := c.Draft()
	require.NotNil(t, u, "draft should produce a unit")
	require.Positive(t, n)
	return u
}

// place moves a unit and its camp to c without spending move points.
func place(u *Unit, c core.Coordinate, f core.Formation) {
	u.Update(CampAction{Target: c, Formation: f})
}

// recordEvents collects every event of one type published from now on.
func recordEvents(w *World, eventType string) *[]events.Event {
	var got []events.Event
	w.EventBus().SubscribeFunc(eventType, func(e events.Event) {
		got = append(got, e)
	})
	return &got
}

func capitalOf(t testing.TB, w *World, playerID int) *City {
	t.Helper()
	cities := w.PlayerCities(playerID)
	require.NotEmpty(t, cities, "player %d should hold a city", playerID)
	return cities[0]
}
