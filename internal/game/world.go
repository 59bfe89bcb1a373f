package game

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/entity"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/pathfinding"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
	"github.com/mitchelldurbincs/WarringStates/internal/game/states"
)

// World owns the grid, every entity and the turn order. It is not safe for
// concurrent use: one goroutine drives the simulation and everyone else
// reads snapshots.
type World struct {
	id       string
	settings Settings
	grid     *core.Grid
	registry *entity.Registry
	units    map[core.Handle]*Unit
	cities   map[core.Handle]*City
	players  []*Player
	rng      rules.Rand
	logger   zerolog.Logger

	eventBus      *events.EventBus
	stateMachine  *states.StateMachine
	winCondition  *rules.WinConditionChecker
	turnProcessor *TurnProcessor

	turn     int
	active   int
	gameOver bool
	winner   int
}

func newWorld(id string, grid *core.Grid, players int, settings Settings, rng *rand.Rand, bus *events.EventBus, logger zerolog.Logger) *World {
	w := &World{
		id:           id,
		settings:     settings,
		grid:         grid,
		registry:     entity.NewRegistry(),
		units:        make(map[core.Handle]*Unit),
		cities:       make(map[core.Handle]*City),
		players:      make([]*Player, players),
		rng:          rng,
		logger:       logger,
		eventBus:     bus,
		winCondition: rules.NewWinConditionChecker(logger, players),
		winner:       -1,
	}
	for i := range w.players {
		w.players[i] = newPlayer(i)
	}
	w.turnProcessor = NewTurnProcessor(w)
	return w
}

func (w *World) ID() string                         { return w.id }
func (w *World) Grid() *core.Grid                   { return w.grid }
func (w *World) Settings() Settings                 { return w.settings }
func (w *World) Turn() int                          { return w.turn }
func (w *World) ActivePlayer() int                  { return w.active }
func (w *World) IsGameOver() bool                   { return w.gameOver }
func (w *World) EventBus() *events.EventBus         { return w.eventBus }
func (w *World) StateMachine() *states.StateMachine { return w.stateMachine }
func (w *World) TurnProcessor() *TurnProcessor      { return w.turnProcessor }
func (w *World) Players() []*Player                 { return w.players }
func (w *World) Registry() *entity.Registry         { return w.registry }

// Winner returns the winning player ID, or -1 while the game runs or on a draw.
func (w *World) Winner() int { return w.winner }

// Player returns the player with the given ID.
func (w *World) Player(id int) (*Player, error) {
	if id < 0 || id >= len(w.players) {
		return nil, fmt.Errorf("player %d: %w", id, core.ErrInvalidPlayer)
	}
	return w.players[id], nil
}

// Unit looks up a live unit.
func (w *World) Unit(h core.Handle) (*Unit, error) {
	if u, ok := w.units[h]; ok {
		return u, nil
	}
	if w.registry.Exists(h) {
		return nil, core.WrapEntityError(h, core.ErrWrongKind)
	}
	return nil, core.WrapEntityError(h, core.ErrUnknownEntity)
}

// City looks up a city.
func (w *World) City(h core.Handle) (*City, error) {
	if c, ok := w.cities[h]; ok {
		return c, nil
	}
	if w.registry.Exists(h) {
		return nil, core.WrapEntityError(h, core.ErrWrongKind)
	}
	return nil, core.WrapEntityError(h, core.ErrUnknownEntity)
}

// CityAt returns the city seated on c, if any.
func (w *World) CityAt(c core.Coordinate) *City {
	t := w.grid.Tile(c)
	if t == nil || !t.IsSettled() {
		return nil
	}
	return w.cities[t.Settlement]
}

// UnitsAt returns the units standing on c in arrival order.
func (w *World) UnitsAt(c core.Coordinate) []*Unit {
	t := w.grid.Tile(c)
	if t == nil {
		return nil
	}
	units := make([]*Unit, 0, len(t.Units))
	for _, h := range t.Units {
		if u, ok := w.units[h]; ok {
			units = append(units, u)
		}
	}
	return units
}

// Units lists every live unit in creation order.
func (w *World) Units() []*Unit {
	handles := w.registry.Handles(entity.KindUnit)
	units := make([]*Unit, 0, len(handles))
	for _, h := range handles {
		units = append(units, w.units[h])
	}
	return units
}

// Cities lists every city in founding order.
func (w *World) Cities() []*City {
	handles := w.registry.Handles(entity.KindCity)
	cities := make([]*City, 0, len(handles))
	for _, h := range handles {
		cities = append(cities, w.cities[h])
	}
	return cities
}

// PlayerUnits lists a player's units in creation order.
func (w *World) PlayerUnits(playerID int) []*Unit {
	handles := w.registry.OwnedBy(entity.KindUnit, playerID)
	units := make([]*Unit, 0, len(handles))
	for _, h := range handles {
		units = append(units, w.units[h])
	}
	return units
}

// PlayerCities lists a player's cities in founding order.
func (w *World) PlayerCities(playerID int) []*City {
	handles := w.registry.OwnedBy(entity.KindCity, playerID)
	cities := make([]*City, 0, len(handles))
	for _, h := range handles {
		cities = append(cities, w.cities[h])
	}
	return cities
}

// IdleUnits returns the units of a player still waiting for orders.
func (w *World) IdleUnits(playerID int) []*Unit {
	var idle []*Unit
	for _, u := range w.PlayerUnits(playerID) {
		if !u.Tasked() {
			idle = append(idle, u)
		}
	}
	return idle
}

// IsEnemy reports whether two players are at war.
func (w *World) IsEnemy(a, b int) bool {
	if a == b || a < 0 || b < 0 || a >= len(w.players) {
		return false
	}
	return w.players[a].IsEnemy(b)
}

// DeclareWar makes two players hostile to each other.
func (w *World) DeclareWar(playerID, targetID int) error {
	if _, err := w.Player(playerID); err != nil {
		return err
	}
	if _, err := w.Player(targetID); err != nil {
		return err
	}
	if playerID == targetID || w.IsEnemy(playerID, targetID) {
		return nil
	}
	w.players[playerID].setHostile(targetID)
	w.players[targetID].setHostile(playerID)

	w.logger.Info().
		Int("player_id", playerID).
		Int("target_id", targetID).
		Int("turn", w.turn).
		Msg("War declared")
	w.publish(events.NewWarDeclaredEvent(w.id, w.turn, playerID, targetID))
	return nil
}

// AccessibleRegion is every tile within the accessible-region cost of one
// of the player's cities.
func (w *World) AccessibleRegion(playerID int) map[core.Coordinate]bool {
	region := make(map[core.Coordinate]bool)
	traversable := func(t *core.Tile) bool { return t.Passable() }
	for _, c := range w.PlayerCities(playerID) {
		for _, coord := range pathfinding.Reachable(w.grid, c.Coord(), traversable,
			pathfinding.WithMaxCostDistance(w.settings.AccessibleRegionCost)) {
			region[coord] = true
		}
	}
	return region
}

// nearestCity finds the cheapest path to a city accepted by match.
func (w *World) nearestCity(from core.Coordinate, match func(*City) bool) (*City, pathfinding.Path) {
	find := func(t *core.Tile) bool {
		if !t.IsSettled() {
			return false
		}
		c, ok := w.cities[t.Settlement]
		return ok && match(c)
	}
	path, ok := pathfinding.Nearest(w.grid, from, find, func(t *core.Tile) bool { return t.Passable() },
		pathfinding.WithMaxCostDistance(w.settings.MaxCostDistance))
	if !ok {
		return nil, nil
	}
	return w.CityAt(path.Destination()), path
}

// Standings summarises what each player still controls.
func (w *World) Standings() []rules.Standing {
	standings := make([]rules.Standing, len(w.players))
	for i := range w.players {
		standings[i] = rules.Standing{
			PlayerID: i,
			Cities:   len(w.registry.OwnedBy(entity.KindCity, i)),
			Units:    len(w.registry.OwnedBy(entity.KindUnit, i)),
		}
	}
	return standings
}

func (w *World) publish(e events.Event) {
	if w.eventBus != nil {
		w.eventBus.Publish(e)
	}
}

// notify is the observer shared by every entity machine.
func (w *World) notify(h core.Handle, action string) {
	kind := w.registry.Kind(h)
	owner := w.registry.Owner(h)
	at, _ := w.registry.Tile(h)

	w.logger.Debug().
		Uint64("handle", uint64(h)).
		Str("kind", kind.String()).
		Str("action", action).
		Int("player_id", owner).
		Int("turn", w.turn).
		Msg("Entity updated")
	w.publish(events.NewEntityUpdatedEvent(w.id, w.turn, h, kind.String(), owner, action, at))
}
