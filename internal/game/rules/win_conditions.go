package rules

import "github.com/rs/zerolog"

// Standing is what the win checker needs to know about one player.
type Standing struct {
	PlayerID int
	Cities   int
	Units    int
}

// Alive reports whether the player still controls anything.
func (s Standing) Alive() bool { return s.Cities > 0 || s.Units > 0 }

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger          zerolog.Logger
	originalPlayers int
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger, originalPlayers int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:          logger.With().Str("component", "WinConditionChecker").Logger(),
		originalPlayers: originalPlayers,
	}
}

// CheckGameOver returns (isGameOver, winnerID). The winner is -1 on a draw
// or while the game goes on. A single-player game only ends when that
// player is wiped out.
func (wc *WinConditionChecker) CheckGameOver(standings []Standing) (bool, int) {
	var alive []int
	for _, s := range standings {
		if s.Alive() {
			alive = append(alive, s.PlayerID)
		}
	}

	gameOver := len(alive) == 0
	if wc.originalPlayers > 1 {
		gameOver = len(alive) <= 1
	}

	winnerID := -1
	switch {
	case gameOver && len(alive) == 1:
		winnerID = alive[0]
		wc.logger.Info().Int("winner_player_id", winnerID).Msg("Winner determined")
	case gameOver:
		wc.logger.Info().Msg("No winner found (all players eliminated)")
	}

	wc.logger.Debug().
		Bool("is_game_over", gameOver).
		Ints("alive_player_ids", alive).
		Msg("Game over check complete")
	return gameOver, winnerID
}
