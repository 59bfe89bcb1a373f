package states

import (
	"time"

	"github.com/rs/zerolog"
)

// GameContext provides simulation information to states for making decisions
type GameContext struct {
	// GameID uniquely identifies this simulation
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// PlayerCount is the number of players still alive
	PlayerCount int

	// Turn is the number of completed rounds
	Turn int

	// StartTime is when PhaseRunning was first entered
	StartTime time.Time

	// PauseTime is when the simulation was paused (if paused)
	PauseTime time.Time

	// TotalPauseDuration tracks total time spent paused
	TotalPauseDuration time.Duration

	// Winner is the player ID of the winner, -1 until decided
	Winner int

	// Error holds any error that caused transition to PhaseError
	Error error
}

// NewGameContext creates a new game context
func NewGameContext(gameID string, playerCount int, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID:      gameID,
		PlayerCount: playerCount,
		Logger:      logger.With().Str("game_id", gameID).Logger(),
		Winner:      -1,
	}
}

// GetElapsedTime returns the time elapsed since start, excluding pauses
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	return time.Since(gc.StartTime) - gc.TotalPauseDuration
}
