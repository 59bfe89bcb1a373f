package subscribers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/persistence"
)

// BattleLedger stores combat reports.
type BattleLedger interface {
	RecordBattle(ctx context.Context, r persistence.BattleRecord) error
	RecordSiege(ctx context.Context, r persistence.SiegeRecord) error
	RecordFall(ctx context.Context, r persistence.FallRecord) error
}

// BattleRecorder writes every battle, siege and fallen city to a ledger.
// Write failures are logged and counted; they never reach the simulation.
type BattleRecorder struct {
	id      string
	ledger  BattleLedger
	logger  zerolog.Logger
	timeout time.Duration

	recorded int
	failed   int
}

// NewBattleRecorder creates a recorder writing to ledger.
func NewBattleRecorder(id string, ledger BattleLedger, logger zerolog.Logger) *BattleRecorder {
	return &BattleRecorder{
		id:      id,
		ledger:  ledger,
		logger:  logger.With().Str("subscriber", "battle_recorder").Logger(),
		timeout: 5 * time.Second,
	}
}

// ID returns the subscriber's unique identifier
func (br *BattleRecorder) ID() string {
	return br.id
}

// InterestedIn returns true for combat events
func (br *BattleRecorder) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeBattleResolved, events.TypeSiegeResolved, events.TypeCityFell:
		return true
	}
	return false
}

// HandleEvent stores the report carried by a combat event.
func (br *BattleRecorder) HandleEvent(event events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), br.timeout)
	defer cancel()

	var err error
	switch e := event.(type) {
	case *events.BattleResolvedEvent:
		err = br.ledger.RecordBattle(ctx, persistence.BattleRecord{
			GameID:             e.GameID(),
			Turn:               e.Metadata.Turn,
			AttackerPlayer:     e.AttackerID,
			DefenderPlayer:     e.DefenderID,
			AttackerUnit:       uint64(e.Attacker),
			DefenderUnit:       uint64(e.Defender),
			X:                  e.Location.X,
			Y:                  e.Location.Y,
			AttackerUnits:      e.AttackerUnits,
			DefenderUnits:      e.DefenderUnits,
			AttackerCasualties: e.AttackerCasualties,
			DefenderCasualties: e.DefenderCasualties,
			AttackerMorale:     e.AttackerMorale,
			DefenderMorale:     e.DefenderMorale,
			InCity:             e.InCity,
			RecordedAt:         e.Timestamp().UnixMilli(),
		})
	case *events.SiegeResolvedEvent:
		err = br.ledger.RecordSiege(ctx, persistence.SiegeRecord{
			GameID:         e.GameID(),
			Turn:           e.Metadata.Turn,
			AttackerPlayer: e.AttackerID,
			DefenderPlayer: e.DefenderID,
			AttackerUnit:   uint64(e.Attacker),
			City:           uint64(e.City),
			Battles:        e.Battles,
			GarrisonLeft:   e.GarrisonLeft,
			FallChance:     e.FallChance,
			Fell:           e.Fell,
			RecordedAt:     e.Timestamp().UnixMilli(),
		})
	case *events.CityFellEvent:
		err = br.ledger.RecordFall(ctx, persistence.FallRecord{
			GameID:       e.GameID(),
			Turn:         e.Metadata.Turn,
			City:         uint64(e.City),
			Name:         e.Name,
			X:            e.Location.X,
			Y:            e.Location.Y,
			FormerOwner:  e.FormerOwner,
			NewOwner:     e.NewOwner,
			UnitsRehomed: e.UnitsRehomed,
			UnitsLost:    e.UnitsLost,
			RecordedAt:   e.Timestamp().UnixMilli(),
		})
	default:
		return
	}

	if err != nil {
		br.failed++
		br.logger.Error().Err(err).
			Str("event_type", event.Type()).
			Str("game_id", event.GameID()).
			Msg("Failed to record combat report")
		return
	}
	br.recorded++
}

// Stats returns how many reports were written and how many failed.
func (br *BattleRecorder) Stats() (recorded, failed int) {
	return br.recorded, br.failed
}
