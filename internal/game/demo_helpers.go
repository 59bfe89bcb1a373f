package game

import (
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
)

// baselineDraftChance is how often a city with enough civilians drafts.
const baselineDraftChance = 0.5

// PlayBaselineTurn gives the active player a simple scripted turn: cities
// with a full draft quota of civilians sometimes draft, worn-out units rest
// and everyone else marches on the nearest foreign city. It is meant for
// demos and as a baseline opponent, and returns the number of orders given.
func PlayBaselineTurn(w *World, rng rules.Rand) int {
	if w.gameOver {
		return 0
	}
	playerID := w.active
	orders := 0

	for _, c := range w.PlayerCities(playerID) {
		if c.State().Civilian < w.settings.DraftQuota || rng.Float64() >= baselineDraftChance {
			continue
		}
		if _, n, err := w.Draft(playerID, c.Handle()); err == nil && n > 0 {
			orders++
		}
	}

	for _, u := range w.PlayerUnits(playerID) {
		cmd, ok := baselineOrder(w, u)
		if !ok {
			continue
		}
		if err := w.Issue(playerID, u.Handle(), cmd); err != nil {
			w.logger.Debug().Err(err).Uint64("handle", uint64(u.Handle())).Msg("Baseline order rejected")
			continue
		}
		orders++
		w.logger.Debug().
			Int("player_id", playerID).
			Uint64("handle", uint64(u.Handle())).
			Str("command", string(cmd.Kind)).
			Stringer("destination", cmd.Destination).
			Msg("Generated baseline order")
	}
	return orders
}

func baselineOrder(w *World, u *Unit) (UnitCommand, bool) {
	cmds := u.AvailableCommands()
	if len(cmds) == 0 {
		return UnitCommand{}, false
	}
	s := u.State()

	if (s.BattleHunger() >= 1 || s.Tiredness >= 3) && hasCommand(cmds, rules.CommandRest) {
		return UnitCommand{Kind: rules.CommandRest}, true
	}
	if !hasCommand(cmds, rules.CommandAction) {
		return UnitCommand{}, false
	}

	owner := u.Owner()
	target, path := w.nearestCity(s.Tile, func(c *City) bool { return c.Owner() != owner })
	if target == nil || len(path) < 2 {
		return UnitCommand{Kind: rules.CommandGuard, Formation: core.Dense}, true
	}
	dest := target.Coord()
	return UnitCommand{
		Kind:        rules.CommandAction,
		Destination: dest,
		Formation:   core.FormationToward(path[len(path)-2], dest),
	}, true
}
