package game

import (
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/pathfinding"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
)

// Condition summarises what command availability depends on.
func (u *Unit) Condition() rules.UnitCondition {
	s := u.State()
	onOwnCity := false
	if c := u.world.CityAt(s.Tile); c != nil {
		onOwnCity = c.Owner() == u.Owner()
	}
	return rules.UnitCondition{
		Movable:     s.MovePoints >= 0,
		AtCamp:      s.AtCamp(),
		BattleUnits: s.BattleUnits,
		OnOwnCity:   onOwnCity,
	}
}

// AvailableCommands lists what the unit may be ordered to do this turn.
func (u *Unit) AvailableCommands() []rules.Command {
	return rules.AvailableCommands(u.Condition())
}

// issue runs a command. Commands that cannot be carried out are dropped
// without error.
func (u *Unit) issue(cmd UnitCommand) {
	switch cmd.Kind {
	case rules.CommandRest:
		u.Rest()
	case rules.CommandGuard:
		u.Guard(cmd.Formation)
	case rules.CommandCamp:
		u.Camp(cmd.Destination, cmd.Formation, nil)
	case rules.CommandAction:
		u.Action(cmd.Destination, cmd.Formation, nil)
	case rules.CommandPillage:
		u.Pillage()
	case rules.CommandDisarm:
		u.Disarm()
	}
}

// Rest queues a turn of rest at camp and keeps resting until told otherwise.
func (u *Unit) Rest() {
	u.machine.Cancel()
	if !u.State().AtCamp() {
		return
	}
	u.machine.SaveAction(RestAction{}, &UnitCommand{Kind: rules.CommandRest})
}

// Guard queues a turn on guard in formation f and keeps guarding.
func (u *Unit) Guard(f core.Formation) {
	u.machine.Cancel()
	u.machine.SaveAction(
		GuardAction{Formation: f, Draw: u.world.rng.Float64()},
		&UnitCommand{Kind: rules.CommandGuard, Formation: f},
	)
}

// Camp marches one step toward dest and keeps marching on later turns
// until dest becomes the new camp. path may be nil to let the unit find
// its own. It reports whether a step was taken.
func (u *Unit) Camp(dest core.Coordinate, f core.Formation, path pathfinding.Path) bool {
	u.machine.Cancel()
	w := u.world
	s := u.State()

	if dest == s.Tile {
		u.dispatch(CampAction{Target: dest, Cost: 1, Formation: f, Draw: w.rng.Float64()}, nil)
		return true
	}

	admissible := u.campAdmissible(dest)
	next, ok := u.nextStep(dest, path, admissible)
	if !ok {
		u.logger.Debug().Int("x", dest.X).Int("y", dest.Y).Msg("No camp path")
		return false
	}

	formation := f
	var nextCmd *UnitCommand
	if next != dest {
		formation = core.FormationToward(s.Tile, next)
		nextCmd = &UnitCommand{Kind: rules.CommandCamp, Destination: dest, Formation: f}
	}
	u.dispatch(CampAction{
		Target:    next,
		Cost:      s.Tile.CostDistance(next),
		Formation: formation,
		Draw:      w.rng.Float64(),
	}, nextCmd)
	return true
}

// Action advances one step toward dest. Reaching a hostile unit starts a
// battle and reaching a hostile city starts a siege. A destination held by
// a player not yet at war declares war instead of moving.
func (u *Unit) Action(dest core.Coordinate, f core.Formation, path pathfinding.Path) bool {
	u.machine.Cancel()
	w := u.world
	s := u.State()
	owner := u.Owner()

	target := w.grid.Tile(dest)
	if dest == s.Tile || target == nil || s.BattleUnits <= 0 {
		return false
	}
	if other, foreign := u.foreignOccupant(target); foreign && !w.IsEnemy(owner, other) {
		_ = w.DeclareWar(owner, other)
		return false
	}

	next, ok := u.nextStep(dest, path, u.actionAdmissible(dest))
	if !ok {
		u.logger.Debug().Int("x", dest.X).Int("y", dest.Y).Msg("No action path")
		return false
	}

	if next == dest {
		if city := w.CityAt(dest); city != nil && w.IsEnemy(owner, city.Owner()) {
			u.siege(city, f)
			return true
		}
		if enemy := u.firstEnemyAt(dest); enemy != nil {
			u.battle(enemy, f)
			return true
		}
	}
	u.advance(next, dest, f)
	return true
}

func (u *Unit) advance(next, dest core.Coordinate, f core.Formation) {
	s := u.State()
	carried, camp := s.CarriedFood, s.CampFood
	switch {
	case s.AtCamp() && next != s.Camp:
		carried, camp = rules.LoadForMarch(s.BattleUnits, carried, camp)
	case !s.AtCamp() && next == s.Camp:
		carried, camp = rules.UnloadAtCamp(carried, camp)
	}

	var nextCmd *UnitCommand
	if next != dest {
		nextCmd = &UnitCommand{Kind: rules.CommandAction, Destination: dest, Formation: f}
	}
	u.dispatch(AdvanceAction{
		Target:    next,
		Cost:      s.Tile.CostDistance(next),
		Formation: f,
		Draw:      u.world.rng.Float64(),
		Carried:   carried,
		CampFood:  camp,
	}, nextCmd)
}

// Pillage sours nearby foreign tiles toward the unit's player and takes
// food from the tile it stands on. Resentful locals may ambush it.
func (u *Unit) Pillage() {
	u.machine.Cancel()
	w := u.world
	s := u.State()
	owner := u.Owner()
	if s.BattleUnits <= 0 {
		return
	}

	w.grid.RangeAssign(s.Tile, 2, func(t *core.Tile, distance float64) {
		if t.Owner != owner {
			t.AdjustAttitude(owner, rules.PillageAttitudeDelta(distance, s.BattleUnits))
		}
	})

	tile := w.grid.Tile(s.Tile)
	casualty := 0
	if rules.Ambushed(w.rng.Float64(), tile.Attitude(owner)) {
		casualty = min(rules.AmbushCasualties(w.rng.Float64()), s.BattleUnits)
	}
	yield := 0
	if tile.Owner != owner {
		civilians := tile.Civilian
		if c := w.CityAt(s.Tile); c != nil {
			civilians = c.State().Civilian
		}
		yield = rules.PillageYield(civilians, w.settings.PillageYieldRate)
	}

	u.dispatch(PillageAction{Casualty: casualty, Yield: yield}, nil)
	if casualty > 0 {
		u.logger.Info().Int("casualties", casualty).Int("turn", w.turn).Msg("Pillagers ambushed")
		u.forwardCasualties(casualty)
		u.destroyIfEmpty(events.ReasonCasualties)
	}
}

// Disarm disbands the unit into the city it stands on. The soldiers become
// civilians of that city and their food goes into its storage.
func (u *Unit) Disarm() bool {
	w := u.world
	s := u.State()
	city := w.CityAt(s.Tile)
	if city == nil || city.Owner() != u.Owner() {
		return false
	}

	pop := s.Population()
	if home, ok := w.cities[s.HomeCity]; ok {
		home.ReceiveMilitaryChange(-pop)
	}
	city.ReceiveCivilianChange(pop)
	city.ReceiveFood(s.CarriedFood + s.CampFood)
	w.destroyUnit(u, events.ReasonDisarmed)
	return true
}

// nextStep validates a supplied path or searches for one and returns the
// first step along it.
func (u *Unit) nextStep(dest core.Coordinate, path pathfinding.Path, admissible pathfinding.Admissible) (core.Coordinate, bool) {
	w := u.world
	start := u.State().Tile
	if path == nil {
		var ok bool
		path, ok = pathfinding.Search(w.grid, start, dest, admissible,
			pathfinding.WithMaxCostDistance(w.settings.MaxCostDistance))
		if !ok {
			return core.Coordinate{}, false
		}
	} else if !validPath(w.grid, path, start, dest, admissible) {
		return core.Coordinate{}, false
	}
	return path.Next()
}

// validPath checks a caller-supplied path step by step.
func validPath(g *core.Grid, path pathfinding.Path, start, dest core.Coordinate, admissible pathfinding.Admissible) bool {
	if len(path) < 2 || path.Start() != start || path.Destination() != dest {
		return false
	}
	cost := 0.0
	for i := 1; i < len(path); i++ {
		if !path[i-1].IsAdjacentTo(path[i]) {
			return false
		}
		cost += path[i-1].CostDistance(path[i])
		t := g.Tile(path[i])
		if t == nil || !admissible(t, cost) {
			return false
		}
	}
	return true
}

// campAdmissible keeps a march inside the player's accessible region, away
// from hostile camps and foreign cities, and off occupied tiles except a
// friendly destination.
func (u *Unit) campAdmissible(dest core.Coordinate) pathfinding.Admissible {
	w := u.world
	owner := u.Owner()
	region := w.AccessibleRegion(owner)
	return func(t *core.Tile, _ float64) bool {
		if !t.Passable() || !region[t.Coord] {
			return false
		}
		if t.HasCamp() && t.Camp != u.handle && w.IsEnemy(owner, w.registry.Owner(t.Camp)) {
			return false
		}
		if t.IsSettled() && w.registry.Owner(t.Settlement) != owner {
			return false
		}
		for _, h := range t.Units {
			if h == u.handle {
				continue
			}
			if t.Coord != dest || w.registry.Owner(h) != owner {
				return false
			}
		}
		return true
	}
}

// actionAdmissible lets an advance cross empty tiles only. The destination
// must be empty, hold a single foreign unit or seat a foreign city; it never
// holds friendly units.
func (u *Unit) actionAdmissible(dest core.Coordinate) pathfinding.Admissible {
	w := u.world
	owner := u.Owner()
	return func(t *core.Tile, _ float64) bool {
		if !t.Passable() {
			return false
		}
		if t.Coord == dest {
			foreign := 0
			for _, h := range t.Units {
				if h == u.handle {
					continue
				}
				if w.registry.Owner(h) == owner {
					return false
				}
				foreign++
			}
			foreignCity := t.IsSettled() && w.registry.Owner(t.Settlement) != owner
			return foreign <= 1 || foreignCity
		}
		if t.HasUnit() {
			return false
		}
		return !t.IsSettled() || w.registry.Owner(t.Settlement) == owner
	}
}

// foreignOccupant returns the player of the first foreign unit on t, or of
// a foreign city seated there.
func (u *Unit) foreignOccupant(t *core.Tile) (int, bool) {
	owner := u.Owner()
	for _, h := range t.Units {
		if o := u.world.registry.Owner(h); o != owner {
			return o, true
		}
	}
	if t.IsSettled() {
		if o := u.world.registry.Owner(t.Settlement); o != owner {
			return o, true
		}
	}
	return 0, false
}

// firstEnemyAt returns the first hostile unit standing on c.
func (u *Unit) firstEnemyAt(c core.Coordinate) *Unit {
	owner := u.Owner()
	for _, other := range u.world.UnitsAt(c) {
		if u.world.IsEnemy(owner, other.Owner()) {
			return other
		}
	}
	return nil
}
