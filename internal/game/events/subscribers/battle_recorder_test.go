package subscribers_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/WarringStates/internal/persistence"
)

func TestBattleRecorder_InterestedIn(t *testing.T) {
	rec := subscribers.NewBattleRecorder("recorder", nil, zerolog.Nop())

	assert.Equal(t, "recorder", rec.ID())
	assert.True(t, rec.InterestedIn(events.TypeBattleResolved))
	assert.True(t, rec.InterestedIn(events.TypeSiegeResolved))
	assert.True(t, rec.InterestedIn(events.TypeCityFell))
	assert.False(t, rec.InterestedIn(events.TypeEntityUpdated))
	assert.False(t, rec.InterestedIn(events.TypeTurnEnded))
}

func TestBattleRecorder_WritesCombatToLedger(t *testing.T) {
	ledger, err := persistence.Open(filepath.Join(t.TempDir(), "battles.db"), zerolog.Nop())
	require.NoError(t, err)
	defer ledger.Close()

	bus := events.NewEventBusWithLogger(zerolog.Nop())
	rec := subscribers.NewBattleRecorder("recorder", ledger, zerolog.Nop())
	bus.Subscribe(rec)

	bus.Publish(events.NewBattleResolvedEvent("g", 4, 11, 12, 0, 1, core.NewCoordinate(3, 2),
		2500, 1800, 300, 700, 0.9, -1.4, false))
	bus.Publish(events.NewSiegeResolvedEvent("g", 5, 11, 30, 0, 1, 0, 0, 0.75, true))
	bus.Publish(events.NewCityFellEvent("g", 5, 30, "Handan", core.NewCoordinate(4, 2), 1, 0, 1, 0))
	bus.Publish(events.NewTurnEndedEvent("g", 5, 0, 3, 0))

	recorded, failed := rec.Stats()
	assert.Equal(t, 3, recorded)
	assert.Zero(t, failed)

	ctx := context.Background()
	battles, err := ledger.RecentBattles(ctx, "g", 10)
	require.NoError(t, err)
	require.Len(t, battles, 1)
	assert.Equal(t, 4, battles[0].Turn)
	assert.Equal(t, uint64(11), battles[0].AttackerUnit)
	assert.Equal(t, 3, battles[0].X)
	assert.Equal(t, 700, battles[0].DefenderCasualties)

	sieges, err := ledger.Sieges(ctx, "g")
	require.NoError(t, err)
	require.Len(t, sieges, 1)
	assert.True(t, sieges[0].Fell)

	falls, err := ledger.Falls(ctx, "g")
	require.NoError(t, err)
	require.Len(t, falls, 1)
	assert.Equal(t, "Handan", falls[0].Name)
	assert.Equal(t, 1, falls[0].FormerOwner)
}

type failingLedger struct{}

func (failingLedger) RecordBattle(context.Context, persistence.BattleRecord) error {
	return errors.New("disk full")
}
func (failingLedger) RecordSiege(context.Context, persistence.SiegeRecord) error {
	return errors.New("disk full")
}
func (failingLedger) RecordFall(context.Context, persistence.FallRecord) error {
	return errors.New("disk full")
}

func TestBattleRecorder_FailuresAreContained(t *testing.T) {
	bus := events.NewEventBusWithLogger(zerolog.Nop())
	rec := subscribers.NewBattleRecorder("recorder", failingLedger{}, zerolog.Nop())
	bus.Subscribe(rec)

	assert.NotPanics(t, func() {
		bus.Publish(events.NewSiegeResolvedEvent("g", 1, 1, 2, 0, 1, 1, 1, 0, false))
	})
	recorded, failed := rec.Stats()
	assert.Zero(t, recorded)
	assert.Equal(t, 1, failed)
}
