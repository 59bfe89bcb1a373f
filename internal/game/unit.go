package game

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WarringStates/internal/common"
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/entity"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
)

// UnitState is the value a unit's reducer works on. Hunger is stored as
// totals over each sub-pool; the level is total / units.
type UnitState struct {
	Tile     core.Coordinate
	Camp     core.Coordinate
	HomeCity core.Handle

	BattleUnits         int
	LogisticUnits       int
	BattleHungerTotal   int
	LogisticHungerTotal int
	// CarriedFood travels with the battle units; CampFood stays at camp.
	CarriedFood int
	CampFood    int

	Experience    float64
	Morale        float64
	Tiredness     float64
	PandemicStage int
	Formation     core.Formation
	MovePoints    float64
}

func (s UnitState) Population() int { return s.BattleUnits + s.LogisticUnits }
func (s UnitState) AtCamp() bool    { return s.Tile == s.Camp }

func (s UnitState) BattleHunger() float64 {
	if s.BattleUnits <= 0 {
		return 0
	}
	return float64(s.BattleHungerTotal) / float64(s.BattleUnits)
}

func (s UnitState) LogisticHunger() float64 {
	if s.LogisticUnits <= 0 {
		return 0
	}
	return float64(s.LogisticHungerTotal) / float64(s.LogisticUnits)
}

func (s UnitState) Weariness() float64 {
	return rules.Weariness(s.Tiredness, s.BattleHunger(), s.PandemicStage)
}

// Combatant is the slice of state combat formulas read.
func (s UnitState) Combatant() rules.Combatant {
	return rules.Combatant{
		BattleUnits:   s.BattleUnits,
		Experience:    s.Experience,
		Morale:        s.Morale,
		Tiredness:     s.Tiredness,
		Hunger:        s.BattleHunger(),
		PandemicStage: s.PandemicStage,
	}
}

// UnitCommand is a player order that can be re-issued across turns.
type UnitCommand struct {
	Kind        rules.Command
	Destination core.Coordinate
	Formation   core.Formation
}

// UnitAction is an input to the unit reducer.
type UnitAction interface {
	entity.Action
	unitAction()
}

type (
	RestAction  struct{}
	GuardAction struct {
		Formation core.Formation
		Draw      float64
	}
	CampAction struct {
		Target    core.Coordinate
		Cost      float64
		Formation core.Formation
		Draw      float64
	}
	PillageAction struct {
		Casualty int
		Yield    int
	}
	// AdvanceAction is a single step of an action order.
	AdvanceAction struct {
		Target    core.Coordinate
		Cost      float64
		Formation core.Formation
		Draw      float64
		Carried   int
		CampFood  int
	}
	BattleAction struct {
		MovePoints float64
		Morale     float64
		Casualty   int
		Draw       float64
	}
	AddMovePointsAction struct {
		Increment float64
		Max       float64
	}
	AttritionAction struct {
		Battle        int
		Logistic      int
		PandemicStage int
	}
	FoodChangeAction struct {
		BattleHungerTotal   int
		LogisticHungerTotal int
		Carried             int
		Camp                int
	}
	ReinforceAction struct {
		Units int
		Food  int
	}
	BalanceAction struct {
		Battle   int
		Logistic int
	}
	RehomeAction struct{ City core.Handle }
)

func (RestAction) Type() string          { return "REST" }
func (GuardAction) Type() string         { return "GUARD" }
func (CampAction) Type() string          { return "CAMP" }
func (PillageAction) Type() string       { return "PILLAGE" }
func (AdvanceAction) Type() string       { return "ACTION" }
func (BattleAction) Type() string        { return "BATTLE" }
func (AddMovePointsAction) Type() string { return "ADD_MOVEPOINTS" }
func (AttritionAction) Type() string     { return "RECEIVE_CASUALTIES" }
func (FoodChangeAction) Type() string    { return "RECEIVE_FOOD_CHANGE" }
func (ReinforceAction) Type() string     { return "REINFORCE" }
func (BalanceAction) Type() string       { return "BALANCE_UNITS" }
func (RehomeAction) Type() string        { return "REHOME" }

func (RestAction) unitAction()          {}
func (GuardAction) unitAction()         {}
func (CampAction) unitAction()          {}
func (PillageAction) unitAction()       {}
func (AdvanceAction) unitAction()       {}
func (BattleAction) unitAction()        {}
func (AddMovePointsAction) unitAction() {}
func (AttritionAction) unitAction()     {}
func (FoodChangeAction) unitAction()    {}
func (ReinforceAction) unitAction()     {}
func (BalanceAction) unitAction()       {}
func (RehomeAction) unitAction()        {}

// reduceUnit computes the next unit state. Weariness is taken from the
// state before the action. Unknown actions return the state unchanged.
func reduceUnit(s UnitState, a UnitAction) UnitState {
	weariness := s.Weariness()

	switch a := a.(type) {
	case RestAction:
		s.MovePoints -= 2
		s.Tiredness = max(s.Tiredness-1, 0)
	case GuardAction:
		s.MovePoints -= 2
		s.Tiredness = max(s.Tiredness-0.5, 0)
		s.Experience += a.Draw / 8
		s.Formation = a.Formation
	case CampAction:
		s.Tile, s.Camp = a.Target, a.Target
		s.MovePoints -= a.Cost
		s.Tiredness += 0.125 * a.Cost
		s.Experience += a.Draw * a.Cost / 4
		if s.Tiredness > 1 {
			s.Morale -= 0.125 * a.Cost * weariness
		}
		s.Formation = a.Formation
	case PillageAction:
		s.MovePoints -= 2
		s.Tiredness += 0.125
		if a.Casualty > 0 {
			s.Tiredness += 0.125
			s = loseBattleUnits(s, a.Casualty)
		} else {
			s.Morale = min(s.Morale+1, 0)
		}
		s.CarriedFood += max(a.Yield, 0)
	case AdvanceAction:
		s.Tile = a.Target
		s.MovePoints -= a.Cost
		s.Tiredness += 0.25 * a.Cost
		s.Morale -= 0.25 * weariness
		s.Experience += a.Draw * a.Cost / 2
		if s.Tiredness > 1 {
			s.Morale -= 0.25 * a.Cost * weariness
		}
		s.CarriedFood, s.CampFood = max(a.Carried, 0), max(a.CampFood, 0)
		s.Formation = a.Formation
	case BattleAction:
		s.MovePoints -= a.MovePoints
		s.Tiredness++
		s.Morale += a.Morale
		s = loseBattleUnits(s, a.Casualty)
		s.Experience += a.Draw * 3
	case AddMovePointsAction:
		s.MovePoints = min(a.Max, s.MovePoints+a.Increment)
	case AttritionAction:
		s = loseBattleUnits(s, a.Battle)
		s = loseLogisticUnits(s, a.Logistic)
		s.PandemicStage = max(a.PandemicStage, 0)
	case FoodChangeAction:
		s.BattleHungerTotal = max(a.BattleHungerTotal, 0)
		s.LogisticHungerTotal = max(a.LogisticHungerTotal, 0)
		s.CarriedFood = max(a.Carried, 0)
		s.CampFood = max(a.Camp, 0)
	case ReinforceAction:
		s.BattleUnits += max(a.Units, 0)
		s.CampFood += max(a.Food, 0)
	case BalanceAction:
		total := s.Population()
		if a.Battle < 0 || a.Logistic < 0 || a.Battle+a.Logistic != total {
			return s
		}
		hunger := s.BattleHungerTotal + s.LogisticHungerTotal
		s.BattleUnits, s.LogisticUnits = a.Battle, a.Logistic
		if total > 0 {
			s.BattleHungerTotal = common.Trunc(float64(hunger) * float64(a.Battle) / float64(total))
			s.LogisticHungerTotal = hunger - s.BattleHungerTotal
		}
	case RehomeAction:
		s.HomeCity = a.City
	}
	return s
}

// loseBattleUnits removes up to n battle units, keeping the hunger level.
func loseBattleUnits(s UnitState, n int) UnitState {
	n = common.ClampInt(n, 0, max(s.BattleUnits, 0))
	if n == 0 {
		return s
	}
	left := s.BattleUnits - n
	if s.BattleUnits > 0 {
		s.BattleHungerTotal = s.BattleHungerTotal * left / s.BattleUnits
	}
	s.BattleUnits = left
	return s
}

func loseLogisticUnits(s UnitState, n int) UnitState {
	n = common.ClampInt(n, 0, max(s.LogisticUnits, 0))
	if n == 0 {
		return s
	}
	left := s.LogisticUnits - n
	if s.LogisticUnits > 0 {
		s.LogisticHungerTotal = s.LogisticHungerTotal * left / s.LogisticUnits
	}
	s.LogisticUnits = left
	return s
}

// Unit is a mobile force drafted from a city.
type Unit struct {
	handle  core.Handle
	world   *World
	home    core.Coordinate
	machine *entity.Machine[UnitState, UnitAction, UnitCommand]
	logger  zerolog.Logger
}

func (u *Unit) Handle() core.Handle       { return u.handle }
func (u *Unit) State() UnitState          { return u.machine.State() }
func (u *Unit) Owner() int                { return u.world.registry.Owner(u.handle) }
func (u *Unit) Tile() core.Coordinate     { return u.machine.State().Tile }
func (u *Unit) CampTile() core.Coordinate { return u.machine.State().Camp }
func (u *Unit) HomeCity() core.Handle     { return u.machine.State().HomeCity }
func (u *Unit) HomeTile() core.Coordinate { return u.home }
func (u *Unit) Population() int           { return u.machine.State().Population() }
func (u *Unit) Alive() bool               { return u.world.registry.Exists(u.handle) }

// Tasked reports whether the unit already has work for this turn: move
// points spent, an action queued or a multi-turn order in progress.
func (u *Unit) Tasked() bool {
	return u.State().MovePoints < 0 || u.machine.Busy()
}

// NextCommand returns the order the unit will re-issue at end of turn.
func (u *Unit) NextCommand() (UnitCommand, bool) { return u.machine.NextCommand() }

// Update applies a change imposed from outside the unit's own orders.
func (u *Unit) Update(a UnitAction) { u.machine.Update(a) }

func (u *Unit) dispatch(a UnitAction, next *UnitCommand) { u.machine.Dispatch(a, next) }

// spawnUnit creates a unit of battle units at a tile, homed at a city.
func (w *World) spawnUnit(owner int, home *City, at core.Coordinate, units, campFood int) *Unit {
	h := w.registry.Create(entity.KindUnit, owner, at)
	initial := UnitState{
		Tile:        at,
		Camp:        at,
		BattleUnits: max(units, 0),
		CampFood:    max(campFood, 0),
		Formation:   core.Dense,
	}
	if home != nil {
		initial.HomeCity = home.Handle()
	}

	u := &Unit{
		handle:  h,
		world:   w,
		home:    at,
		machine: entity.NewMachine[UnitState, UnitAction, UnitCommand](initial, reduceUnit),
		logger:  w.logger.With().Str("component", "Unit").Uint64("unit", uint64(h)).Logger(),
	}
	u.machine.Observe(func(s UnitState, a UnitAction) { u.afterDispatch(s, a) })
	w.units[h] = u

	tile := w.grid.Tile(at)
	tile.AddUnit(h)
	tile.Camp = h

	u.logger.Debug().
		Int("player_id", owner).
		Int("population", units).
		Int("x", at.X).
		Int("y", at.Y).
		Msg("Unit created")
	w.publish(events.NewUnitCreatedEvent(w.id, w.turn, h, initial.HomeCity, owner, at, units))
	return u
}

// afterDispatch keeps tile occupancy and camp back-references in line
// with the new state, then notifies observers.
func (u *Unit) afterDispatch(s UnitState, a UnitAction) {
	w := u.world
	prev, _ := w.registry.Tile(u.handle)
	if prev != s.Tile {
		if t := w.grid.Tile(prev); t != nil {
			t.RemoveUnit(u.handle)
		}
		if t := w.grid.Tile(s.Tile); t != nil {
			t.AddUnit(u.handle)
		}
		w.registry.SetTile(u.handle, s.Tile)
	}
	if _, ok := a.(CampAction); ok {
		for i := range w.grid.T {
			if w.grid.T[i].Camp == u.handle && w.grid.T[i].Coord != s.Camp {
				w.grid.T[i].Camp = core.NoHandle
			}
		}
		if t := w.grid.Tile(s.Camp); t != nil {
			t.Camp = u.handle
		}
	}
	w.notify(u.handle, a.Type())
}

// destroyUnit removes the unit from its tile, its camp and the registry.
func (w *World) destroyUnit(u *Unit, reason string) {
	if !u.Alive() {
		return
	}
	s := u.State()
	owner := u.Owner()
	if t := w.grid.Tile(s.Tile); t != nil {
		t.RemoveUnit(u.handle)
	}
	if t := w.grid.Tile(s.Camp); t != nil && t.Camp == u.handle {
		t.Camp = core.NoHandle
	}
	u.machine.Cancel()
	w.registry.Destroy(u.handle)
	delete(w.units, u.handle)

	u.logger.Info().
		Int("player_id", owner).
		Str("reason", reason).
		Int("turn", w.turn).
		Msg("Unit destroyed")
	w.publish(events.NewUnitDestroyedEvent(w.id, w.turn, u.handle, owner, s.Tile, reason))
}

// homeCity returns the unit's home city while its player still holds it.
func (u *Unit) homeCity() *City {
	c, ok := u.world.cities[u.HomeCity()]
	if !ok || c.Owner() != u.Owner() {
		return nil
	}
	return c
}

// forwardCasualties removes casualties from the home city's military.
func (u *Unit) forwardCasualties(n int) int {
	if n <= 0 {
		return 0
	}
	if c, ok := u.world.cities[u.HomeCity()]; ok {
		return c.ReceiveCasualties(n)
	}
	return 0
}

// destroyIfEmpty destroys the unit once its population has run out.
func (u *Unit) destroyIfEmpty(reason string) bool {
	if u.Population() > 0 {
		return false
	}
	u.world.destroyUnit(u, reason)
	return true
}
