package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WarringStates/internal/game"
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
)

// Notification is the message observers receive for every entity update
// and every turn boundary.
type Notification struct {
	Type   string          `json:"type"`
	Turn   int             `json:"turn"`
	Player int             `json:"player"`
	Handle core.Handle     `json:"handle,omitempty"`
	Kind   string          `json:"kind,omitempty"`
	Action string          `json:"action,omitempty"`
	Tile   core.Coordinate `json:"tile"`
}

// Session runs one world on a single goroutine and lets other goroutines
// read it. Every access to the world goes through mu.
type Session struct {
	mu     sync.Mutex
	world  *game.World
	rng    rules.Rand
	hub    *Hub
	logger zerolog.Logger
}

// NewSession wraps w and forwards its entity updates to hub. rng drives the
// baseline players.
func NewSession(w *game.World, rng rules.Rand, hub *Hub, logger zerolog.Logger) *Session {
	s := &Session{
		world:  w,
		rng:    rng,
		hub:    hub,
		logger: logger.With().Str("component", "Session").Logger(),
	}
	w.EventBus().SubscribeFunc(events.TypeEntityUpdated, s.forward)
	w.EventBus().SubscribeFunc(events.TypeTurnEnded, s.forward)
	return s
}

// forward runs inside the world's goroutine with mu held, so it must not
// block.
func (s *Session) forward(e events.Event) {
	if s.hub == nil {
		return
	}
	var n Notification
	switch ev := e.(type) {
	case *events.EntityUpdatedEvent:
		n = Notification{
			Type:   "update",
			Turn:   ev.Metadata.Turn,
			Player: ev.Metadata.PlayerID,
			Handle: ev.Handle,
			Kind:   ev.Kind,
			Action: ev.Action,
			Tile:   ev.Location,
		}
	case *events.TurnEndedEvent:
		n = Notification{Type: "turn", Turn: ev.TurnNumber, Player: ev.PlayerID}
	default:
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode notification")
		return
	}
	s.hub.Broadcast(data)
}

// Snapshot copies the world.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Snapshot()
}

// EntitySummary returns what a player sees of one entity.
func (s *Session) EntitySummary(h core.Handle) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.EntitySummary(h)
}

// GameID returns the ID of the running game.
func (s *Session) GameID() string {
	return s.world.ID()
}

// Step plays one baseline turn for the active player and ends it. A paused
// game is left alone.
func (s *Session) Step(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.world.Paused() {
		return nil
	}
	game.PlayBaselineTurn(s.world, s.rng)
	return s.world.EndTurn(ctx)
}

// Pause stops the turn ticker from advancing the game.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Pause("Paused by host")
}

// Resume lets the turn ticker advance the game again.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Resume()
}

// Done reports whether the game has ended.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.IsGameOver()
}

// Run steps the world every interval until the game ends or ctx is
// cancelled.
func (s *Session) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Step(ctx); err != nil {
				return err
			}
			if s.Done() {
				snap := s.Snapshot()
				s.logger.Info().
					Str("game_id", snap.GameID).
					Int("turn", snap.Turn).
					Int("winner", snap.Winner).
					Msg("Game finished")
				return nil
			}
		}
	}
}
