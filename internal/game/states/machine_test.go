package states

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
)

func TestGamePhase_String(t *testing.T) {
	tests := []struct {
		phase    GamePhase
		expected string
	}{
		{PhaseInitializing, "Initializing"},
		{PhaseRunning, "Running"},
		{PhasePaused, "Paused"},
		{PhaseEnded, "Ended"},
		{PhaseError, "Error"},
		{GamePhase(999), "Unknown(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
		})
	}
}

func TestGamePhase_Properties(t *testing.T) {
	assert.True(t, PhaseEnded.IsTerminal())
	assert.True(t, PhaseError.IsTerminal())
	assert.False(t, PhaseRunning.IsTerminal())

	assert.True(t, PhaseRunning.CanProcessTurns())
	assert.False(t, PhasePaused.CanProcessTurns())
	assert.False(t, PhaseInitializing.CanProcessTurns())
}

func TestGamePhase_Transitions(t *testing.T) {
	tests := []struct {
		from    GamePhase
		allowed []GamePhase
	}{
		{PhaseInitializing, []GamePhase{PhaseRunning, PhaseError}},
		{PhaseRunning, []GamePhase{PhasePaused, PhaseEnded, PhaseError}},
		{PhasePaused, []GamePhase{PhaseRunning, PhaseEnded, PhaseError}},
		{PhaseEnded, []GamePhase{}},
		{PhaseError, []GamePhase{}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.AllowedTransitions())
			for _, target := range tt.allowed {
				assert.True(t, tt.from.CanTransitionTo(target))
			}
			assert.False(t, tt.from.CanTransitionTo(PhaseInitializing))
		})
	}
}

func TestParsePhase(t *testing.T) {
	phase, err := ParsePhase("Paused")
	require.NoError(t, err)
	assert.Equal(t, PhasePaused, phase)

	_, err = ParsePhase("Lobby")
	assert.Error(t, err)
}

func newTestMachine(players int) (*StateMachine, *events.EventBus) {
	bus := events.NewEventBusWithLogger(zerolog.Nop())
	ctx := NewGameContext("test-game", players, zerolog.Nop())
	return NewStateMachine(ctx, bus), bus
}

func TestStateMachine_Lifecycle(t *testing.T) {
	sm, bus := newTestMachine(2)

	var published []*events.StateTransitionEvent
	bus.SubscribeFunc(events.TypeStateTransition, func(e events.Event) {
		published = append(published, e.(*events.StateTransitionEvent))
	})

	assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
	require.NoError(t, sm.TransitionTo(PhaseRunning, "world ready"))
	require.NoError(t, sm.TransitionTo(PhasePaused, "host"))
	require.NoError(t, sm.TransitionTo(PhaseRunning, "host"))
	require.NoError(t, sm.TransitionTo(PhaseEnded, "one player left"))

	assert.Equal(t, PhaseEnded, sm.CurrentPhase())
	history := sm.GetHistory()
	require.Len(t, history, 4)
	assert.Equal(t, PhaseInitializing, history[0].From)
	assert.Equal(t, "one player left", history[3].Reason)

	require.Len(t, published, 4)
	assert.Equal(t, "Paused", published[1].ToPhase)
	assert.False(t, sm.GetContext().StartTime.IsZero())
}

func TestStateMachine_InvalidTransition(t *testing.T) {
	sm, _ := newTestMachine(2)

	err := sm.TransitionTo(PhasePaused, "too early")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transition from Initializing to Paused")
	assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
	assert.Empty(t, sm.GetHistory())
}

func TestStateMachine_ValidationFailure(t *testing.T) {
	sm, _ := newTestMachine(0)

	err := sm.TransitionTo(PhaseRunning, "no players")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target state validation failed")
	assert.True(t, sm.CanTransitionTo(PhaseRunning))
}

func TestStateMachine_Fail(t *testing.T) {
	sm, _ := newTestMachine(2)
	require.NoError(t, sm.TransitionTo(PhaseRunning, "start"))

	boom := errors.New("corrupt world")
	require.NoError(t, sm.Fail(boom))

	assert.Equal(t, PhaseError, sm.CurrentPhase())
	assert.ErrorIs(t, sm.GetContext().Error, boom)
	assert.True(t, sm.CurrentPhase().IsTerminal())
}
