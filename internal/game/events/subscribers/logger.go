package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	// If no filter is set, interested in all events
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	// Create the base event log
	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	// Add event-specific fields based on type
	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("num_players", e.NumPlayers).
			Int("map_width", e.MapWidth).
			Int("map_height", e.MapHeight)

	case *events.GameEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Dur("duration", e.Duration).
			Int("final_turn", e.FinalTurn)

	case *events.TurnStartedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Int("player_id", e.PlayerID)

	case *events.TurnEndedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Int("player_id", e.PlayerID).
			Int("entities", e.EntitiesCount).
			Dur("process_time", e.ProcessedTime)

	case *events.EntityUpdatedEvent:
		logEvent.
			Uint64("handle", uint64(e.Handle)).
			Str("kind", e.Kind).
			Str("action", e.Action).
			Stringer("location", e.Location)

	case *events.CityFoundedEvent:
		logEvent.
			Int("player_id", e.Metadata.PlayerID).
			Str("city", e.Name).
			Stringer("location", e.Location).
			Int("tiles", e.Tiles)

	case *events.CityFellEvent:
		logEvent.
			Str("city", e.Name).
			Stringer("location", e.Location).
			Int("former_owner", e.FormerOwner).
			Int("new_owner", e.NewOwner).
			Int("units_rehomed", e.UnitsRehomed).
			Int("units_lost", e.UnitsLost)

	case *events.UnitCreatedEvent:
		logEvent.
			Int("player_id", e.Metadata.PlayerID).
			Uint64("unit", uint64(e.Unit)).
			Stringer("location", e.Location).
			Int("population", e.Population)

	case *events.UnitDraftedEvent:
		logEvent.
			Int("player_id", e.Metadata.PlayerID).
			Uint64("city", uint64(e.City)).
			Uint64("unit", uint64(e.Unit)).
			Int("drafted", e.Drafted).
			Bool("merged", e.Merged)

	case *events.UnitDestroyedEvent:
		logEvent.
			Int("player_id", e.Metadata.PlayerID).
			Uint64("unit", uint64(e.Unit)).
			Stringer("location", e.Location).
			Str("reason", e.Reason)

	case *events.BattleResolvedEvent:
		logEvent.
			Int("attacker_id", e.AttackerID).
			Int("defender_id", e.DefenderID).
			Stringer("location", e.Location).
			Int("attacker_units", e.AttackerUnits).
			Int("defender_units", e.DefenderUnits).
			Int("attacker_casualties", e.AttackerCasualties).
			Int("defender_casualties", e.DefenderCasualties).
			Bool("in_city", e.InCity)

	case *events.SiegeResolvedEvent:
		logEvent.
			Int("attacker_id", e.AttackerID).
			Int("defender_id", e.DefenderID).
			Int("battles", e.Battles).
			Int("garrison_left", e.GarrisonLeft).
			Float64("fall_chance", e.FallChance).
			Bool("fell", e.Fell)

	case *events.WarDeclaredEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("target_id", e.TargetID)

	case *events.PlayerEliminatedEvent:
		logEvent.Int("player_id", e.PlayerID)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromPhase).
			Str("to", e.ToPhase).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	// Send the log
	logEvent.Msg("Game event")
}
