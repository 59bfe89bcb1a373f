package game

import (
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
)

// fall hands the city and its annexed tiles to a new owner. Units of the
// previous owner homed here move their home to the nearest other city of
// that player, or disband onto the land when none is left.
func (c *City) fall(newOwner int) {
	w := c.world
	prev := c.Owner()
	rehomed, lost := 0, 0

	for _, u := range w.PlayerUnits(prev) {
		if u.HomeCity() != c.handle {
			continue
		}
		pop := u.Population()
		c.ReceiveMilitaryChange(-pop)

		newHome, _ := w.nearestCity(u.Tile(), func(other *City) bool {
			return other != c && other.Owner() == prev
		})
		if newHome != nil {
			newHome.ReceiveMilitaryChange(pop)
			u.Update(RehomeAction{City: newHome.handle})
			rehomed++
			continue
		}
		w.settlePopulation(u.Tile(), pop)
		w.destroyUnit(u, events.ReasonDisbanded)
		lost++
	}

	c.dispatch(FallAction{Player: newOwner})
	w.registry.SetOwner(c.handle, newOwner)
	w.grid.Tile(c.home).Owner = newOwner
	for _, t := range c.Tiles() {
		t.Owner = newOwner
		t.Civilian += t.Military
		t.Military = 0
	}

	c.logger.Info().
		Int("from", prev).
		Int("to", newOwner).
		Int("rehomed", rehomed).
		Int("disbanded", lost).
		Int("turn", w.turn).
		Msg("City fell")
	w.publish(events.NewCityFellEvent(w.id, w.turn, c.handle, c.Name(), c.home, prev, newOwner, rehomed, lost))
}

// settlePopulation turns people back into civilians of the land at c.
func (w *World) settlePopulation(c core.Coordinate, n int) {
	if n <= 0 {
		return
	}
	if city := w.CityAt(c); city != nil {
		city.ReceiveCivilianChange(n)
		return
	}
	if t := w.grid.Tile(c); t != nil {
		t.Civilian += n
	}
}
