package game

import (
	"github.com/mitchelldurbincs/WarringStates/internal/config"
	"github.com/mitchelldurbincs/WarringStates/internal/game/mapgen"
)

// Settings are the tunable constants of the simulation.
type Settings struct {
	DraftQuota           int
	GrowthRate           float64
	FoodDecay            float64
	CycleLength          int
	MovePointIncrement   float64
	MovePointMax         float64
	BalanceCutoff        float64
	AccessibleRegionCost float64
	MaxCostDistance      float64
	AnnexRadius          int
	TileCapacity         int
	RationPerDraftee     int
	RuralYield           float64
	SoldierRation        float64
	PillageYieldRate     float64
	AttitudeRecovery     float64
	// MaxTurns ends the game after this many rounds. Zero means no limit.
	MaxTurns int
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		DraftQuota:           2500,
		GrowthRate:           1.0 / 256,
		FoodDecay:            0.95,
		CycleLength:          12,
		MovePointIncrement:   2,
		MovePointMax:         0,
		BalanceCutoff:        15,
		AccessibleRegionCost: 16,
		MaxCostDistance:      1024,
		AnnexRadius:          3,
		TileCapacity:         2500,
		RationPerDraftee:     5,
		RuralYield:           2,
		SoldierRation:        12,
		PillageYieldRate:     0.01,
		AttitudeRecovery:     5,
	}
}

// SettingsFromConfig maps the simulation section of the configuration.
func SettingsFromConfig(c *config.Config) Settings {
	s := c.Simulation
	return Settings{
		DraftQuota:           s.DraftQuota,
		GrowthRate:           s.GrowthRate,
		FoodDecay:            s.FoodDecay,
		CycleLength:          s.CycleLength,
		MovePointIncrement:   s.MovePointIncrement,
		MovePointMax:         s.MovePointMax,
		BalanceCutoff:        s.BalanceCutoff,
		AccessibleRegionCost: s.AccessibleRegionCost,
		MaxCostDistance:      s.MaxCostDistance,
		AnnexRadius:          s.AnnexRadius,
		TileCapacity:         s.TileCapacity,
		RationPerDraftee:     s.RationPerDraftee,
		RuralYield:           s.RuralYield,
		SoldierRation:        s.SoldierRation,
		PillageYieldRate:     s.PillageYieldRate,
		AttitudeRecovery:     s.AttitudeRecovery,
		MaxTurns:             s.MaxTurns,
	}
}

// WorldConfigFromConfig maps the simulation and map sections onto a
// WorldConfig. The caller still supplies the rng, logger and event bus.
func WorldConfigFromConfig(c *config.Config) WorldConfig {
	m := c.Map
	mc := mapgen.DefaultMapConfig(m.Width, m.Height, m.Players)
	mc.Seed = m.Seed
	mc.NoiseScale = m.NoiseScale
	mc.RuralPopulation = m.RuralPopulation
	mc.CapitalSpacing = m.CapitalSpacing
	return WorldConfig{
		Players:         m.Players,
		Settings:        SettingsFromConfig(c),
		Map:             mc,
		CapitalGarrison: m.CapitalGarrison,
	}
}
