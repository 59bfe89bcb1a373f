package game

import (
	"context"
	"fmt"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
	"github.com/mitchelldurbincs/WarringStates/internal/game/states"
)

// checkActive ensures playerID may give orders right now.
func (w *World) checkActive(playerID int, operation string) error {
	if w.gameOver {
		return core.WrapPlayerError(playerID, operation, core.ErrGameOver)
	}
	if _, err := w.Player(playerID); err != nil {
		return core.WrapPlayerError(playerID, operation, err)
	}
	if playerID != w.active {
		return core.WrapPlayerError(playerID, operation, core.ErrNotActivePlayer)
	}
	return nil
}

// Issue gives one of the player's units an order. Orders the unit cannot
// take this turn are rejected; orders it takes but cannot carry out, such
// as a march with no path, are dropped silently.
func (w *World) Issue(playerID int, h core.Handle, cmd UnitCommand) error {
	op := string(cmd.Kind)
	if err := w.checkActive(playerID, op); err != nil {
		return err
	}
	u, err := w.Unit(h)
	if err != nil {
		return core.WrapPlayerError(playerID, op, err)
	}
	if u.Owner() != playerID {
		return core.WrapPlayerError(playerID, op, core.WrapEntityError(h, core.ErrNotOwner))
	}
	if !hasCommand(u.AvailableCommands(), cmd.Kind) {
		return core.WrapPlayerError(playerID, op, fmt.Errorf("%w: %s", core.ErrCommandUnavailable, cmd.Kind))
	}
	if (cmd.Kind == rules.CommandCamp || cmd.Kind == rules.CommandAction) && !w.grid.InBounds(cmd.Destination) {
		return core.WrapPlayerError(playerID, op, fmt.Errorf("destination %v: %w", cmd.Destination, core.ErrInvalidCoordinates))
	}

	w.logger.Debug().
		Int("player_id", playerID).
		Uint64("handle", uint64(h)).
		Str("command", op).
		Int("turn", w.turn).
		Msg("Command issued")
	u.issue(cmd)
	return nil
}

// Draft orders one of the player's cities to conscript.
func (w *World) Draft(playerID int, h core.Handle) (*Unit, int, error) {
	c, err := w.ownCity(playerID, h, "draft")
	if err != nil {
		return nil, 0, err
	}
	u, n := c.Draft()
	return u, n, nil
}

// Train orders one of the player's cities to drill its garrison.
func (w *World) Train(playerID int, h core.Handle) error {
	c, err := w.ownCity(playerID, h, "train")
	if err != nil {
		return err
	}
	c.Train()
	return nil
}

func (w *World) ownCity(playerID int, h core.Handle, op string) (*City, error) {
	if err := w.checkActive(playerID, op); err != nil {
		return nil, err
	}
	c, err := w.City(h)
	if err != nil {
		return nil, core.WrapPlayerError(playerID, op, err)
	}
	if c.Owner() != playerID {
		return nil, core.WrapPlayerError(playerID, op, core.WrapEntityError(h, core.ErrNotOwner))
	}
	return c, nil
}

// EndTurn ends the active player's turn.
func (w *World) EndTurn(ctx context.Context) error {
	return w.turnProcessor.EndTurn(ctx)
}

// Pause suspends turn processing. Orders may still be given while paused.
func (w *World) Pause(reason string) error {
	if w.gameOver {
		return core.WrapGameStateError(w.turn, "pause", core.ErrGameOver)
	}
	return w.stateMachine.TransitionTo(states.PhasePaused, reason)
}

// Resume continues a paused game.
func (w *World) Resume() error {
	return w.stateMachine.TransitionTo(states.PhaseRunning, "Resumed")
}

// Paused reports whether turn processing is suspended.
func (w *World) Paused() bool {
	return w.stateMachine.CurrentPhase() == states.PhasePaused
}

func hasCommand(cmds []rules.Command, c rules.Command) bool {
	for _, cmd := range cmds {
		if cmd == c {
			return true
		}
	}
	return false
}
