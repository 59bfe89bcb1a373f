package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/mapgen"
	"github.com/mitchelldurbincs/WarringStates/internal/game/states"
)

// WorldConfig describes the world to build.
type WorldConfig struct {
	// GameID defaults to a random UUID.
	GameID  string
	Players int
	// Settings default to DefaultSettings when left zero.
	Settings Settings
	Map      mapgen.MapConfig
	// Grid, when set, is used as is instead of generating a map. Capitals
	// then lists where the players' first cities go and may be empty.
	Grid     *core.Grid
	Capitals []mapgen.Capital
	// CapitalGarrison is the size of the unit each capital starts with.
	CapitalGarrison int
	Rng             *rand.Rand
	Logger          zerolog.Logger
	EventBus        *events.EventBus
}

// WorldInitializer handles the initialization of a world
type WorldInitializer struct {
	config WorldConfig
	logger zerolog.Logger
}

// NewWorldInitializer creates a new world initializer
func NewWorldInitializer(cfg WorldConfig) *WorldInitializer {
	return &WorldInitializer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "World").Logger(),
	}
}

// NewWorld is shorthand for NewWorldInitializer(cfg).Initialize(ctx).
func NewWorld(ctx context.Context, cfg WorldConfig) (*World, error) {
	return NewWorldInitializer(cfg).Initialize(ctx)
}

// Initialize builds the map, founds the capitals and starts the game.
func (wi *WorldInitializer) Initialize(ctx context.Context) (*World, error) {
	select {
	case <-ctx.Done():
		wi.logger.Error().Err(ctx.Err()).Msg("World creation cancelled before it started")
		return nil, ctx.Err()
	default:
	}

	wi.setupDefaults()
	if wi.config.Players < 1 {
		return nil, fmt.Errorf("world needs at least one player, got %d: %w", wi.config.Players, core.ErrInvalidPlayer)
	}

	grid, capitals, err := wi.generateMap()
	if err != nil {
		return nil, fmt.Errorf("map generation failed: %w", err)
	}

	w := newWorld(wi.config.GameID, grid, wi.config.Players, wi.config.Settings, wi.config.Rng, wi.config.EventBus, wi.logger)
	gameContext := states.NewGameContext(wi.config.GameID, wi.config.Players, wi.logger)
	w.stateMachine = states.NewStateMachine(gameContext, wi.config.EventBus)

	if err := wi.placeCapitals(w, capitals); err != nil {
		_ = w.stateMachine.Fail(err)
		return nil, fmt.Errorf("capital placement failed: %w", err)
	}

	if err := w.stateMachine.TransitionTo(states.PhaseRunning, "World setup complete"); err != nil {
		wi.logger.Error().Err(err).Msg("Failed to transition to Running state")
		return nil, err
	}

	w.publish(events.NewGameStartedEvent(w.id, wi.config.Players, grid.W, grid.H))
	w.publish(events.NewTurnStartedEvent(w.id, w.turn, w.active))

	wi.logger.Info().
		Str("game_id", w.id).
		Int("width", grid.W).
		Int("height", grid.H).
		Int("players", wi.config.Players).
		Int("cities", len(w.cities)).
		Msg("World created successfully")
	return w, nil
}

func (wi *WorldInitializer) setupDefaults() {
	if wi.config.Rng == nil {
		wi.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		wi.config.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if wi.config.GameID == "" {
		wi.config.GameID = uuid.NewString()
	}
	if wi.config.Settings == (Settings{}) {
		wi.config.Settings = DefaultSettings()
	}
	if wi.config.EventBus == nil {
		wi.config.EventBus = events.NewEventBusWithLogger(wi.logger)
	}
	if wi.config.Grid == nil && wi.config.Map.Width == 0 {
		wi.config.Map = mapgen.DefaultMapConfig(32, 24, wi.config.Players)
	}
	wi.config.Map.PlayerCount = wi.config.Players
}

func (wi *WorldInitializer) generateMap() (*core.Grid, []mapgen.Capital, error) {
	if wi.config.Grid != nil {
		return wi.config.Grid, wi.config.Capitals, nil
	}
	return mapgen.NewGenerator(wi.config.Map, wi.config.Rng).GenerateMap()
}

// placeCapitals founds each player's first city and, when configured,
// stations a garrison there.
func (wi *WorldInitializer) placeCapitals(w *World, capitals []mapgen.Capital) error {
	for _, capital := range capitals {
		city, err := w.FoundCity(capital.PlayerID, capital.Coord)
		if err != nil {
			return core.WrapPlayerError(capital.PlayerID, "found capital", err)
		}
		if n := wi.config.CapitalGarrison; n > 0 {
			city.dispatch(MilitaryChangeAction{Amount: n})
			w.spawnUnit(capital.PlayerID, city, capital.Coord, n, n*w.settings.RationPerDraftee)
		}
	}
	return nil
}
