package states

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStateImplementations(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("InitializingState", func(t *testing.T) {
		state := NewInitializingState()
		ctx := NewGameContext("test", 4, logger)

		assert.Equal(t, PhaseInitializing, state.Phase())
		assert.NoError(t, state.Enter(ctx))
		assert.NoError(t, state.Exit(ctx))
		assert.NoError(t, state.Validate(ctx))
	})

	t.Run("RunningState", func(t *testing.T) {
		state := NewRunningState()
		ctx := NewGameContext("test", 0, logger)

		assert.Error(t, state.Validate(ctx))

		ctx.PlayerCount = 2
		assert.NoError(t, state.Validate(ctx))
		assert.NoError(t, state.Enter(ctx))
		started := ctx.StartTime
		assert.False(t, started.IsZero())

		// re-entering after a pause keeps the original start time
		assert.NoError(t, state.Enter(ctx))
		assert.Equal(t, started, ctx.StartTime)
	})

	t.Run("PausedState", func(t *testing.T) {
		state := NewPausedState()
		ctx := NewGameContext("test", 2, logger)

		assert.Error(t, state.Validate(ctx), "cannot pause before start")

		ctx.StartTime = time.Now().Add(-time.Minute)
		assert.NoError(t, state.Validate(ctx))
		assert.NoError(t, state.Enter(ctx))
		ctx.PauseTime = ctx.PauseTime.Add(-10 * time.Second)
		assert.NoError(t, state.Exit(ctx))

		assert.GreaterOrEqual(t, ctx.TotalPauseDuration, 10*time.Second)
		assert.True(t, ctx.PauseTime.IsZero())
		assert.Less(t, ctx.GetElapsedTime(), 51*time.Second)
	})

	t.Run("ErrorState", func(t *testing.T) {
		state := NewErrorState()
		ctx := NewGameContext("test", 2, logger)

		assert.Error(t, state.Validate(ctx))
		ctx.Error = errors.New("boom")
		assert.NoError(t, state.Validate(ctx))
		assert.NoError(t, state.Enter(ctx))
	})

	t.Run("EndedState", func(t *testing.T) {
		state := NewEndedState()
		ctx := NewGameContext("test", 1, logger)
		ctx.Winner = 0

		assert.Equal(t, PhaseEnded, state.Phase())
		assert.NoError(t, state.Validate(ctx))
		assert.NoError(t, state.Enter(ctx))
	})
}

func TestGameContext(t *testing.T) {
	ctx := NewGameContext("ctx", 3, zerolog.Nop())
	assert.Equal(t, -1, ctx.Winner)
	assert.Equal(t, 3, ctx.PlayerCount)
	assert.Equal(t, time.Duration(0), ctx.GetElapsedTime())
}
