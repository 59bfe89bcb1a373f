package game

import (
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
)

// Draft conscripts up to the draft quota from the city and its annexed
// tiles, lowest draft level first. The draftees join the first friendly
// unit standing on its tile, or form a new unit there. It returns the
// unit that received them and how many were drafted.
func (c *City) Draft() (*Unit, int) {
	s := c.State()
	tiles := c.Tiles()

	participants := make([]rules.DraftParticipant, 0, len(tiles)+1)
	participants = append(participants, rules.DraftParticipant{Civilian: s.Civilian, Military: s.Military})
	for _, t := range tiles {
		participants = append(participants, rules.DraftParticipant{Civilian: t.Civilian, Military: t.Military})
	}

	deltas := rules.PlanDraft(participants, c.world.settings.DraftQuota)
	drafted := 0
	for i, d := range deltas {
		drafted += d
		if i == 0 || d == 0 {
			continue
		}
		t := tiles[i-1]
		t.Civilian -= d
		t.Military += d
	}
	if drafted == 0 {
		c.logger.Debug().Msg("Nothing left to draft")
		return nil, 0
	}
	if deltas[0] > 0 {
		c.dispatch(DraftAction{Drafted: deltas[0]})
	}

	food := drafted * c.world.settings.RationPerDraftee
	unit, merged := c.garrisonUnit(), true
	if unit != nil {
		unit.Update(ReinforceAction{Units: drafted, Food: food})
		c.transferMilitary(unit, drafted)
	} else {
		merged = false
		unit = c.world.spawnUnit(c.Owner(), c, c.home, drafted, food)
	}

	c.logger.Info().
		Int("drafted", drafted).
		Uint64("unit", uint64(unit.Handle())).
		Bool("merged", merged).
		Int("turn", c.world.turn).
		Msg("Draft completed")
	c.world.publish(events.NewUnitDraftedEvent(c.world.id, c.world.turn, c.handle, unit.Handle(), c.Owner(), drafted, merged))
	return unit, drafted
}

// garrisonUnit is the first friendly unit standing on the city's tile.
func (c *City) garrisonUnit() *Unit {
	for _, u := range c.world.UnitsAt(c.home) {
		if u.Owner() == c.Owner() {
			return u
		}
	}
	return nil
}

// transferMilitary moves n drafted soldiers from this city's military to
// that of the unit's home city, which answers for the unit's casualties.
func (c *City) transferMilitary(u *Unit, n int) {
	home, ok := c.world.cities[u.HomeCity()]
	if !ok || home == c {
		return
	}
	moved := -c.ReceiveMilitaryChange(-n)
	home.ReceiveMilitaryChange(moved)
}

// ReceiveMilitaryChange spreads a signed change of military population over
// the city and its tiles in proportion to their military. It returns the
// change actually applied, which is smaller than asked for when a removal
// empties every pool.
func (c *City) ReceiveMilitaryChange(amount int) int {
	return c.redistribute(amount, func(s CityState) int { return s.Military },
		func(t *core.Tile) *int { return &t.Military },
		func(n int) CityAction { return MilitaryChangeAction{Amount: n} })
}

// ReceiveCivilianChange is ReceiveMilitaryChange for civilians.
func (c *City) ReceiveCivilianChange(amount int) int {
	return c.redistribute(amount, func(s CityState) int { return s.Civilian },
		func(t *core.Tile) *int { return &t.Civilian },
		func(n int) CityAction { return CivilianChangeAction{Amount: n} })
}

// ReceiveCasualties removes up to n soldiers of this city's military and
// returns how many were removed.
func (c *City) ReceiveCasualties(n int) int {
	if n <= 0 {
		return 0
	}
	return -c.ReceiveMilitaryChange(-n)
}

func (c *City) redistribute(amount int, own func(CityState) int, pool func(*core.Tile) *int, action func(int) CityAction) int {
	if amount == 0 {
		return 0
	}
	tiles := c.Tiles()
	pools := make([]int, len(tiles)+1)
	pools[0] = own(c.State())
	for i, t := range tiles {
		pools[i+1] = *pool(t)
	}

	changes := rules.Redistribute(amount, pools)
	applied := 0
	for i, t := range tiles {
		p := pool(t)
		*p = max(*p+changes[i+1], 0)
		applied += changes[i+1]
	}
	if changes[0] != 0 {
		c.dispatch(action(changes[0]))
		applied += changes[0]
	}
	return applied
}
