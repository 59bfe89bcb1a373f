package subscribers_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events/subscribers"
)

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn(events.TypeBattleResolved))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.InfoLevel)

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "GameStartedEvent",
			event: events.NewGameStartedEvent("test-game-1", 4, 20, 20),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(4), logLine["num_players"])
				assert.Equal(t, float64(20), logLine["map_width"])
				assert.Equal(t, float64(20), logLine["map_height"])
			},
		},
		{
			name:  "TurnStartedEvent",
			event: events.NewTurnStartedEvent("test-game-1", 5, 1),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(5), logLine["turn"])
				assert.Equal(t, float64(1), logLine["player_id"])
			},
		},
		{
			name: "BattleResolvedEvent",
			event: events.NewBattleResolvedEvent("test-game-1", 3, 4, 9, 0, 1, core.NewCoordinate(3, 2),
				120, 80, 10, 15, 0.2, -0.7, false),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(0), logLine["attacker_id"])
				assert.Equal(t, float64(1), logLine["defender_id"])
				assert.Equal(t, float64(10), logLine["attacker_casualties"])
				assert.Equal(t, float64(15), logLine["defender_casualties"])
				assert.Equal(t, "(3,2)", logLine["location"])
				assert.Equal(t, false, logLine["in_city"])
			},
		},
		{
			name:  "CityFellEvent",
			event: events.NewCityFellEvent("test-game-1", 8, 2, "Handan", core.NewCoordinate(6, 6), 1, 0, 2, 1),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "Handan", logLine["city"])
				assert.Equal(t, float64(1), logLine["former_owner"])
				assert.Equal(t, float64(0), logLine["new_owner"])
				assert.Equal(t, float64(2), logLine["units_rehomed"])
				assert.Equal(t, float64(1), logLine["units_lost"])
			},
		},
		{
			name:  "UnitDestroyedEvent",
			event: events.NewUnitDestroyedEvent("test-game-1", 8, 12, 1, core.NewCoordinate(1, 1), events.ReasonCasualties),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(12), logLine["unit"])
				assert.Equal(t, "casualties", logLine["reason"])
			},
		},
		{
			name:  "GameEndedEvent",
			event: events.NewGameEndedEvent("test-game-1", 0, 5*time.Minute, 40),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(0), logLine["winner"])
				assert.Equal(t, float64(300000), logLine["duration"])
				assert.Equal(t, float64(40), logLine["final_turn"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			logSub.HandleEvent(tc.event)

			require.NotEmpty(t, buf.String())

			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))

			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, "Game event", logLine["message"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "test-game-1", logLine["game_id"])

			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberWithFilter(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("filtered-logger", zerolog.Nop(), zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeCityFell, events.TypeGameEnded})

	assert.True(t, logSub.InterestedIn(events.TypeCityFell))
	assert.True(t, logSub.InterestedIn(events.TypeGameEnded))
	assert.False(t, logSub.InterestedIn(events.TypeEntityUpdated))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeEntityUpdated))
}

func TestLoggerSubscriberLogLevels(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel zerolog.Level
		expected string
	}{
		{"Debug", zerolog.DebugLevel, "debug"},
		{"Info", zerolog.InfoLevel, "info"},
		{"Warn", zerolog.WarnLevel, "warn"},
		{"Error", zerolog.ErrorLevel, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("level-logger", zerolog.New(&buf), tc.logLevel)

			logSub.HandleEvent(events.NewWarDeclaredEvent("game1", 2, 0, 1))

			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
			assert.Equal(t, tc.expected, logLine["level"])
		})
	}
}

func TestLoggerSubscriberDevelopmentMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev-logger", zerolog.New(&buf), zerolog.InfoLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewEntityUpdatedEvent("dev-game", 1, 3, "unit", 0, "CAMP", core.NewCoordinate(5, 5)))

	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))

	eventData, ok := logLine["event_data"]
	require.True(t, ok, "event_data should be present")

	raw, err := json.Marshal(eventData)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "entity.updated")
	assert.Contains(t, string(raw), "CAMP")
}
