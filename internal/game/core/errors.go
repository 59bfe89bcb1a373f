package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrWrongKind          = errors.New("entity has the wrong kind")
	ErrNotActivePlayer    = errors.New("player is not active")
	ErrInvalidPlayer      = errors.New("invalid player ID")
	ErrGameOver           = errors.New("game is over")
	ErrTileSettled        = errors.New("tile already holds a settlement")
	ErrImpassable         = errors.New("tile is impassable")
	ErrCommandUnavailable = errors.New("command not available")
	ErrNotOwner           = errors.New("entity belongs to another player")
)

// WrapGameStateError adds the turn and processing phase to err.
func WrapGameStateError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("game turn %d [%s]: %w", turn, phase, err)
}

// WrapPlayerError adds the player and operation to err.
func WrapPlayerError(playerID int, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("player %d %s: %w", playerID, operation, err)
}

// WrapEntityError adds the entity handle to err.
func WrapEntityError(h Handle, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("entity %d: %w", h, err)
}

// GameError carries full context for errors surfaced to callers outside the engine
type GameError struct {
	Turn      int
	PlayerID  int
	Operation string
	Err       error
}

// NewGameError creates a GameError. A negative playerID means no player is involved.
func NewGameError(turn, playerID int, operation string, err error) *GameError {
	return &GameError{Turn: turn, PlayerID: playerID, Operation: operation, Err: err}
}

func (e *GameError) Error() string {
	if e.PlayerID >= 0 {
		return fmt.Sprintf("turn %d: player %d %s: %v", e.Turn, e.PlayerID, e.Operation, e.Err)
	}
	return fmt.Sprintf("turn %d: %s: %v", e.Turn, e.Operation, e.Err)
}

func (e *GameError) Unwrap() error { return e.Err }
