package game

import (
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
)

// battle attacks enemy in the open field, charging into formation f.
func (u *Unit) battle(enemy *Unit, f core.Formation) rules.BattleResult {
	return u.engage(enemy, f, false, 0)
}

// engage resolves one battle between u and a defender, applies casualties
// to both units and their home cities and removes whoever did not survive.
func (u *Unit) engage(enemy *Unit, f core.Formation, inCity bool, garrisonMight float64) rules.BattleResult {
	w := u.world
	s, es := u.State(), enemy.State()
	attackerID, defenderID := u.Owner(), enemy.Owner()

	b := rules.Battle{
		Attacker:       s.Combatant(),
		Defender:       es.Combatant(),
		FormationBonus: rules.FormationBonus(s.Formation, core.FormationToward(s.Tile, es.Tile), f, es.Formation),
		InCity:         inCity,
		GarrisonMight:  garrisonMight,
	}
	res := b.Resolve(rules.DrawBattle(w.rng))

	u.machine.Cancel()
	u.dispatch(BattleAction{
		MovePoints: 2,
		Morale:     res.AttackerMorale,
		Casualty:   res.AttackerCasualties,
		Draw:       w.rng.Float64(),
	}, nil)
	enemy.Update(BattleAction{
		Morale:   res.DefenderMorale,
		Casualty: res.DefenderCasualties,
		Draw:     w.rng.Float64(),
	})
	u.forwardCasualties(res.AttackerCasualties)
	enemy.forwardCasualties(res.DefenderCasualties)

	u.logger.Info().
		Uint64("defender", uint64(enemy.handle)).
		Int("player_id", attackerID).
		Int("defender_id", defenderID).
		Int("attacker_casualties", res.AttackerCasualties).
		Int("defender_casualties", res.DefenderCasualties).
		Float64("attacker_might", res.AttackerMight).
		Float64("defender_might", res.DefenderMight).
		Bool("in_city", inCity).
		Int("turn", w.turn).
		Msg("Battle resolved")
	w.publish(events.NewBattleResolvedEvent(w.id, w.turn, u.handle, enemy.handle, attackerID, defenderID,
		es.Tile, s.BattleUnits, es.BattleUnits, res.AttackerCasualties, res.DefenderCasualties,
		res.AttackerMorale, res.DefenderMorale, inCity))

	enemy.settleAfterBattle()
	u.settleAfterBattle()
	return res
}

// settleAfterBattle removes a unit with nobody left to fight. Surviving
// logistic units of a broken force are lost with it.
func (u *Unit) settleAfterBattle() {
	s := u.State()
	switch {
	case s.Population() <= 0:
		u.world.destroyUnit(u, events.ReasonCasualties)
	case s.BattleUnits <= 0:
		u.forwardCasualties(s.LogisticUnits)
		u.world.destroyUnit(u, events.ReasonCaptured)
	}
}

// siege assaults a hostile city. The attacker fights each unit garrisoned
// there in turn, all of them backed by the city's own garrison might. Once
// no defender is left the city may fall.
func (u *Unit) siege(city *City, f core.Formation) {
	w := u.world
	cs := city.State()
	attackerID, defenderID := u.Owner(), city.Owner()
	garrisonMight := rules.GarrisonMight(cs.TrainLevel, cs.Military)

	battles := 0
	for _, defender := range u.defendersOf(city) {
		if !u.Alive() || u.State().BattleUnits <= 0 {
			break
		}
		if !defender.Alive() {
			continue
		}
		u.engage(defender, f, true, garrisonMight)
		battles++
	}
	if !u.Alive() {
		w.publish(events.NewSiegeResolvedEvent(w.id, w.turn, u.handle, city.handle, attackerID, defenderID,
			battles, len(u.defendersOf(city)), 0, false))
		return
	}
	if battles == 0 {
		u.dispatch(BattleAction{MovePoints: 2, Draw: w.rng.Float64()}, nil)
	}

	garrisonLeft := len(u.defendersOf(city))
	chance, fell := 0.0, false
	if garrisonLeft == 0 {
		chance = rules.FallChance(u.State().Combatant().Might(), garrisonMight)
		fell = w.rng.Float64() < chance
	}

	u.logger.Info().
		Str("city", city.Name()).
		Int("battles", battles).
		Int("garrison_left", garrisonLeft).
		Float64("fall_chance", chance).
		Bool("fell", fell).
		Int("turn", w.turn).
		Msg("Siege resolved")
	w.publish(events.NewSiegeResolvedEvent(w.id, w.turn, u.handle, city.handle, attackerID, defenderID,
		battles, garrisonLeft, chance, fell))

	if fell {
		city.fall(attackerID)
	}
}

// defendersOf lists the units on the city's tile that are hostile to u.
func (u *Unit) defendersOf(city *City) []*Unit {
	var defenders []*Unit
	owner := u.Owner()
	for _, other := range u.world.UnitsAt(city.home) {
		if other.Owner() != owner {
			defenders = append(defenders, other)
		}
	}
	return defenders
}
