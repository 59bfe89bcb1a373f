package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/entity"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/pathfinding"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
)

// CityState is the value a city's reducer works on.
type CityState struct {
	Owner       int
	Civilian    int
	Military    int
	FoodStorage int
	TrainLevel  int
	// DraftHistory accumulates military population every turn and resets
	// when the cycle's rural surplus is delivered.
	DraftHistory int
	CycleTurn    int
}

func (s CityState) Population() int { return s.Civilian + s.Military }

// DraftLevel is military / population, 0 for an empty city.
func (s CityState) DraftLevel() float64 {
	if s.Population() <= 0 {
		return 0
	}
	return float64(s.Military) / float64(s.Population())
}

// CityAction is an input to the city reducer.
type CityAction interface {
	entity.Action
	cityAction()
}

type (
	DraftAction struct{ Drafted int }
	TrainAction struct{}
	// MilitaryChangeAction may carry a negative amount, e.g. casualties.
	MilitaryChangeAction struct{ Amount int }
	CivilianChangeAction struct{ Amount int }
	StorageChangeAction  struct{ Amount int }
	FallAction           struct{ Player int }
	// CityEndTurnAction carries everything the end-of-turn step needs so
	// the reducer stays pure.
	CityEndTurnAction struct {
		Growth         int
		Decay          float64
		Military       int
		Cycle          int
		RuralCivilians int
		RuralYield     float64
		SoldierRation  float64
	}
)

func (DraftAction) Type() string          { return "DRAFT" }
func (TrainAction) Type() string          { return "TRAIN" }
func (MilitaryChangeAction) Type() string { return "RECEIVE_MILITARY_CHANGE" }
func (CivilianChangeAction) Type() string { return "RECEIVE_CIVILIAN_CHANGE" }
func (StorageChangeAction) Type() string  { return "RECEIVE_FOOD_CHANGE" }
func (FallAction) Type() string           { return "FALL" }
func (CityEndTurnAction) Type() string    { return "END_TURN" }

func (DraftAction) cityAction()          {}
func (TrainAction) cityAction()          {}
func (MilitaryChangeAction) cityAction() {}
func (CivilianChangeAction) cityAction() {}
func (StorageChangeAction) cityAction()  {}
func (FallAction) cityAction()           {}
func (CityEndTurnAction) cityAction()    {}

// reduceCity never lets a counter go negative. Unknown actions return the
// state unchanged.
func reduceCity(s CityState, a CityAction) CityState {
	switch a := a.(type) {
	case DraftAction:
		drafted := min(max(a.Drafted, 0), s.Civilian)
		s.Civilian -= drafted
		s.Military += drafted
	case TrainAction:
		s.TrainLevel++
	case MilitaryChangeAction:
		s.Military = max(s.Military+a.Amount, 0)
	case CivilianChangeAction:
		s.Civilian = max(s.Civilian+a.Amount, 0)
	case StorageChangeAction:
		s.FoodStorage = max(s.FoodStorage+a.Amount, 0)
	case FallAction:
		s.Owner = a.Player
		s.Civilian += s.Military
		s.Military = 0
		s.DraftHistory = 0
	case CityEndTurnAction:
		s.Civilian += max(a.Growth, 0)
		s.FoodStorage = rules.Decay(s.FoodStorage, a.Decay)
		s.DraftHistory += max(a.Military, 0)
		s.CycleTurn++
		if s.CycleTurn >= a.Cycle {
			s.FoodStorage += rules.RuralSurplus(a.RuralCivilians, a.RuralYield, s.DraftHistory, a.Cycle, a.SoldierRation)
			s.DraftHistory = 0
			s.CycleTurn = 0
		}
	}
	return s
}

// City is a settlement together with the tiles it annexed when founded.
type City struct {
	handle  core.Handle
	world   *World
	home    core.Coordinate
	annexed []core.Coordinate
	machine *entity.Machine[CityState, CityAction, struct{}]
	logger  zerolog.Logger
}

func (c *City) Handle() core.Handle    { return c.handle }
func (c *City) Coord() core.Coordinate { return c.home }
func (c *City) State() CityState       { return c.machine.State() }
func (c *City) Owner() int             { return c.machine.State().Owner }
func (c *City) Name() string           { return c.world.registry.Name(c.handle) }

// Tiles returns the annexed tiles, not including the city's own tile.
func (c *City) Tiles() []*core.Tile {
	tiles := make([]*core.Tile, 0, len(c.annexed))
	for _, coord := range c.annexed {
		tiles = append(tiles, c.world.grid.Tile(coord))
	}
	return tiles
}

// Populations sums civilians and military over the city and its tiles.
func (c *City) Populations() (civilian, military int) {
	s := c.State()
	civilian, military = s.Civilian, s.Military
	for _, t := range c.Tiles() {
		civilian += t.Civilian
		military += t.Military
	}
	return civilian, military
}

func (c *City) dispatch(a CityAction) { c.machine.Dispatch(a, nil) }

// Train raises the garrison's training level.
func (c *City) Train() { c.dispatch(TrainAction{}) }

// ReceiveFood adds (or with a negative amount removes) stored food.
func (c *City) ReceiveFood(amount int) {
	if amount != 0 {
		c.dispatch(StorageChangeAction{Amount: amount})
	}
}

// EndTurn grows the population, spoils food and, once a cycle, delivers
// the rural surplus.
func (c *City) EndTurn() {
	st := c.world.settings
	s := c.State()

	rural := s.Civilian
	military := s.Military
	for _, t := range c.Tiles() {
		t.Civilian += rules.Growth(t.Civilian, st.GrowthRate)
		rural += t.Civilian
		military += t.Military
	}

	c.dispatch(CityEndTurnAction{
		Growth:         rules.Growth(s.Civilian, st.GrowthRate),
		Decay:          st.FoodDecay,
		Military:       military,
		Cycle:          st.CycleLength,
		RuralCivilians: rural,
		RuralYield:     st.RuralYield,
		SoldierRation:  st.SoldierRation,
	})
}

// FoundCity settles a new city for owner at the given tile. The tile's
// population is absorbed into the city and nearby unclaimed tiles below the
// per-tile capacity are annexed.
func (w *World) FoundCity(owner int, at core.Coordinate) (*City, error) {
	if _, err := w.Player(owner); err != nil {
		return nil, err
	}
	tile := w.grid.Tile(at)
	if tile == nil {
		return nil, fmt.Errorf("found city at %v: %w", at, core.ErrInvalidCoordinates)
	}
	if !tile.Passable() {
		return nil, fmt.Errorf("found city at %v: %w", at, core.ErrImpassable)
	}
	if tile.IsSettled() || tile.City != core.NoHandle {
		return nil, fmt.Errorf("found city at %v: %w", at, core.ErrTileSettled)
	}

	h := w.registry.Create(entity.KindCity, owner, at)
	name := w.cityName(owner)
	w.registry.SetName(h, name)

	initial := CityState{
		Owner:      owner,
		Civilian:   tile.Civilian,
		Military:   tile.Military,
		TrainLevel: max(tile.TrainLevel, 1),
	}
	initial.FoodStorage = initial.Civilian
	tile.Civilian, tile.Military, tile.TrainLevel = 0, 0, 0
	tile.Settlement = h
	tile.City = h
	tile.Owner = owner

	c := &City{
		handle:  h,
		world:   w,
		home:    at,
		machine: entity.NewMachine[CityState, CityAction, struct{}](initial, reduceCity),
		logger:  w.logger.With().Str("component", "City").Str("city", name).Logger(),
	}
	c.annexed = w.annexTiles(h, owner, at)
	c.machine.Observe(func(_ CityState, a CityAction) { w.notify(h, a.Type()) })
	w.cities[h] = c

	c.logger.Info().
		Int("player_id", owner).
		Int("x", at.X).
		Int("y", at.Y).
		Int("tiles", len(c.annexed)).
		Int("population", initial.Population()).
		Msg("City founded")
	w.publish(events.NewCityFoundedEvent(w.id, w.turn, h, owner, name, at, len(c.annexed)))
	return c, nil
}

// annexTiles claims the unsettled neutral tiles within the annex radius.
// Half a step of slack lets straight lines reach the full radius.
func (w *World) annexTiles(h core.Handle, owner int, home core.Coordinate) []core.Coordinate {
	capacity := w.settings.TileCapacity
	traversable := func(t *core.Tile) bool {
		if t.Coord == home {
			return true
		}
		return t.Passable() && !t.IsSettled() && t.City == core.NoHandle &&
			t.IsNeutral() && t.Population() < capacity
	}
	bound := (float64(w.settings.AnnexRadius) + 0.5) * 2

	var annexed []core.Coordinate
	for _, coord := range pathfinding.Reachable(w.grid, home, traversable, pathfinding.WithMaxCostDistance(bound)) {
		if coord == home {
			continue
		}
		t := w.grid.Tile(coord)
		t.City = h
		t.Owner = owner
		annexed = append(annexed, coord)
	}
	return annexed
}

func (w *World) cityName(owner int) string {
	for _, name := range w.players[owner].cityNameCandidates() {
		if !w.registry.NameTaken(name) {
			return name
		}
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s %d", w.players[owner].Name, i)
		if !w.registry.NameTaken(name) {
			return name
		}
	}
}
