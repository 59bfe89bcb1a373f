package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/states"
)

// TurnProcessor ends the active player's turn: every city and then every
// unit of that player runs its end of turn, the win condition is checked
// and play passes to the next player still alive.
type TurnProcessor struct {
	world      *World
	logger     zerolog.Logger
	eliminated map[int]bool
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(w *World) *TurnProcessor {
	return &TurnProcessor{
		world:      w,
		logger:     w.logger.With().Str("component", "TurnProcessor").Logger(),
		eliminated: make(map[int]bool),
	}
}

// EndTurn completes the active player's turn.
func (tp *TurnProcessor) EndTurn(ctx context.Context) error {
	w := tp.world
	if err := tp.checkContext(ctx, "before starting"); err != nil {
		return err
	}
	if err := tp.validateGameState(); err != nil {
		return err
	}

	player := w.active
	turnLogger := tp.logger.With().Int("turn", w.turn).Int("player_id", player).Logger()
	turnLogger.Debug().Msg("Ending player turn")
	start := time.Now()

	processed := 0
	for _, c := range w.PlayerCities(player) {
		c.EndTurn()
		processed++
	}

	if err := tp.checkContext(ctx, "before units"); err != nil {
		return core.WrapGameStateError(w.turn, "unit upkeep", fmt.Errorf("context cancelled: %w", err))
	}
	for _, u := range w.PlayerUnits(player) {
		if !u.Alive() {
			continue
		}
		u.EndTurn()
		processed++
	}

	w.publish(events.NewTurnEndedEvent(w.id, w.turn, player, processed, time.Since(start)))

	if tp.checkGameOver(turnLogger) {
		return nil
	}
	tp.advance(turnLogger)
	return nil
}

// EndRound ends turns until play comes back around to the player who was
// active when it was called, or the game ends.
func (tp *TurnProcessor) EndRound(ctx context.Context) error {
	w := tp.world
	turn := w.turn
	for !w.gameOver && w.turn == turn {
		if err := tp.EndTurn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("turn", tp.world.turn).
			Str("phase", phase).
			Msg("Turn cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// validateGameState ensures turns may advance
func (tp *TurnProcessor) validateGameState() error {
	w := tp.world
	if w.gameOver {
		tp.logger.Warn().Int("turn", w.turn).Msg("Attempted to end a turn of a game that is already over")
		return core.WrapGameStateError(w.turn, "end turn", core.ErrGameOver)
	}
	if w.stateMachine != nil {
		if phase := w.stateMachine.CurrentPhase(); !phase.CanProcessTurns() {
			tp.logger.Warn().
				Str("current_phase", phase.String()).
				Int("turn", w.turn).
				Msg("Attempted to end a turn in a phase that cannot process turns")
			return fmt.Errorf("game is in %s phase and cannot process turns", phase)
		}
	}
	return nil
}

// advance hands play to the next player still alive. Wrapping around
// starts a new round.
func (tp *TurnProcessor) advance(turnLogger zerolog.Logger) {
	w := tp.world
	n := len(w.players)
	next := w.active
	for i := 0; i < n; i++ {
		next = (next + 1) % n
		if !tp.eliminated[next] {
			break
		}
	}

	if next <= w.active {
		tp.startRound(turnLogger)
		if w.gameOver {
			return
		}
	}
	w.active = next
	w.publish(events.NewTurnStartedEvent(w.id, w.turn, w.active))
}

func (tp *TurnProcessor) startRound(turnLogger zerolog.Logger) {
	w := tp.world
	w.turn++
	if w.stateMachine != nil {
		w.stateMachine.GetContext().Turn = w.turn
	}

	if cycle := w.settings.CycleLength; cycle > 0 && w.turn%cycle == 0 {
		for i := range w.grid.T {
			w.grid.T[i].RecoverAttitudes(w.settings.AttitudeRecovery)
		}
		turnLogger.Debug().Int("round", w.turn).Msg("Attitudes recovering")
	}

	if w.settings.MaxTurns > 0 && w.turn >= w.settings.MaxTurns {
		turnLogger.Info().Int("max_turns", w.settings.MaxTurns).Msg("Turn limit reached")
		tp.endGame(-1, "Turn limit reached")
	}
}

// checkGameOver records eliminations and ends the game once at most one
// player is left standing. It reports whether the game is over.
func (tp *TurnProcessor) checkGameOver(turnLogger zerolog.Logger) bool {
	w := tp.world
	standings := w.Standings()
	alive := 0
	for _, s := range standings {
		if s.Alive() {
			alive++
			continue
		}
		if !tp.eliminated[s.PlayerID] {
			tp.eliminated[s.PlayerID] = true
			turnLogger.Info().Int("eliminated_player_id", s.PlayerID).Msg("Player eliminated")
			w.publish(events.NewPlayerEliminatedEvent(w.id, s.PlayerID, w.turn))
		}
	}
	if w.stateMachine != nil {
		w.stateMachine.GetContext().PlayerCount = alive
	}

	over, winner := w.winCondition.CheckGameOver(standings)
	if over {
		tp.endGame(winner, "Win condition met")
	}
	return over
}

func (tp *TurnProcessor) endGame(winner int, reason string) {
	w := tp.world
	w.gameOver = true
	w.winner = winner

	var elapsed time.Duration
	if w.stateMachine != nil {
		gc := w.stateMachine.GetContext()
		gc.Winner = winner
		elapsed = gc.GetElapsedTime()
		if err := w.stateMachine.TransitionTo(states.PhaseEnded, reason); err != nil {
			tp.logger.Error().Err(err).Msg("Failed to transition to Ended state")
		}
	}
	w.publish(events.NewGameEndedEvent(w.id, winner, elapsed, w.turn))
}
