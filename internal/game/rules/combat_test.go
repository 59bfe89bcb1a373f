package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/testutil"
)

func fresh(battleUnits int) Combatant {
	return Combatant{BattleUnits: battleUnits}
}

func TestWeariness(t *testing.T) {
	tests := []struct {
		name      string
		tiredness float64
		hunger    float64
		pandemic  int
		expected  float64
	}{
		{"Rested", 0, 0, 0, 1},
		{"BelowThresholds", 1, 1, 1, 1},
		{"Tired", 3, 0, 0, 3},
		{"Hungry", 0, 2.5, 0, 2.5},
		{"Pandemic", 0, 0, 5, 1.5},
		{"Everything", 2, 2, 2, 3.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Weariness(tt.tiredness, tt.hunger, tt.pandemic), 1e-12)
		})
	}
}

func TestMoraleBonus(t *testing.T) {
	assert.InDelta(t, 1.0, MoraleBonus(0), 1e-12)
	assert.InDelta(t, MaxMoraleBonus, MoraleBonus(10), 1e-12)
	assert.InDelta(t, math.Pow(1.25, -1.6), MoraleBonus(-2), 1e-12)
}

func TestCombatant_Might(t *testing.T) {
	assert.InDelta(t, 50.0, fresh(2500).Might(), 1e-9)
	assert.Zero(t, fresh(0).Might())

	veteran := Combatant{BattleUnits: 2500, Experience: 3}
	assert.InDelta(t, 100.0, veteran.Might(), 1e-9)

	tired := Combatant{BattleUnits: 2500, Tiredness: 3}
	assert.InDelta(t, 50.0/3, tired.Might(), 1e-9)
	assert.InDelta(t, 1.0/3, tired.Stamina(), 1e-12)
}

func TestChargeTime(t *testing.T) {
	up := core.NewFormation(0, 1)
	right := core.NewFormation(1, 0)
	left := core.NewFormation(-1, 0)

	tests := []struct {
		name     string
		f1, f2   core.Formation
		attack   bool
		expected float64
	}{
		{"DenseToDense", core.Dense, core.Dense, false, 0},
		{"DenseToLine", core.Dense, up, false, 0.5},
		{"LineToDense", up, core.Dense, true, 0.5},
		{"SameLine", up, up, false, 0},
		{"QuarterTurn", up, right, false, 1},
		{"QuarterTurnAttack", up, right, true, 1},
		{"OppositeSidesMarch", right, left, false, 0.25},
		{"OppositeSidesAttack", right, left, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ChargeTime(tt.f1, tt.f2, tt.attack), 1e-12)
		})
	}
}

func TestFormationBonus(t *testing.T) {
	up := core.NewFormation(0, 1)
	down := core.NewFormation(0, -1)

	t.Run("ColumnIntoColumn", func(t *testing.T) {
		bonus := FormationBonus(core.Dense, up, core.Dense, core.Dense)
		assert.InDelta(t, -0.25, bonus, 1e-12)
	})

	t.Run("HeadOn", func(t *testing.T) {
		bonus := FormationBonus(up, up, up, down)
		assert.InDelta(t, 0, bonus, 1e-12)
	})

	t.Run("FromBehind", func(t *testing.T) {
		bonus := FormationBonus(up, up, up, up)
		assert.InDelta(t, 2*math.Sqrt(math.Pi), bonus, 1e-9)
	})

	t.Run("ColumnFlankIsSmaller", func(t *testing.T) {
		line := FormationBonus(up, up, up, up)
		column := FormationBonus(core.Dense, up, core.Dense, up)
		assert.Less(t, column, line)
	})
}

func TestBattle_ResolveCapsCasualties(t *testing.T) {
	b := Battle{
		Attacker: Combatant{BattleUnits: 10, Experience: 50, Morale: 5},
		Defender: Combatant{BattleUnits: 5000},
	}
	for _, d := range []BattleDraws{{}, {0.99, 0.99, 0.99, 0.99}, {0, 0.99, 0.99, 0}} {
		r := b.Resolve(d)
		assert.GreaterOrEqual(t, r.AttackerCasualties, 0)
		assert.LessOrEqual(t, r.AttackerCasualties, 10)
		assert.GreaterOrEqual(t, r.DefenderCasualties, 0)
		assert.LessOrEqual(t, r.DefenderCasualties, 5000)
	}
}

func TestBattle_ExchangeFollowsHigherRatio(t *testing.T) {
	b := Battle{Attacker: fresh(2500), Defender: fresh(2500)}
	d := BattleDraws{AttackerMight: 0.5, DefenderMight: 0.5, AttackerTolerance: 0.9, DefenderTolerance: 0.1}

	r := b.Resolve(d)
	// Equal might: the attacker tolerates more, so its tolerance sets both sides.
	assert.Equal(t, int(r.AttackerTolerable), r.AttackerCasualties)
	assert.Equal(t, int(r.AttackerTolerable), r.DefenderCasualties)
	assert.InDelta(t, -CombatFatigue, r.AttackerMorale, 1e-12)
}

func TestBattle_MoraleSwingsSumToZero(t *testing.T) {
	rng := testutil.NewTestRNG(7)
	b := Battle{
		Attacker:       Combatant{BattleUnits: 3000, Experience: 1},
		Defender:       Combatant{BattleUnits: 2000, Morale: -1},
		FormationBonus: 0.4,
	}
	for i := 0; i < 200; i++ {
		r := b.Resolve(DrawBattle(rng))
		assert.InDelta(t, -2*CombatFatigue, r.AttackerMorale+r.DefenderMorale, 1e-9)
		if r.AttackerCasualties < r.DefenderCasualties {
			assert.Greater(t, r.AttackerMorale, r.DefenderMorale)
		}
	}
}

func TestBattle_NoMight(t *testing.T) {
	r := Battle{Attacker: fresh(100), Defender: fresh(0)}.Resolve(BattleDraws{})
	assert.Zero(t, r.AttackerCasualties)
	assert.Zero(t, r.DefenderCasualties)

	r = Battle{Attacker: fresh(0), Defender: fresh(0)}.Resolve(BattleDraws{})
	assert.Zero(t, r.AttackerCasualties+r.DefenderCasualties)
	assert.InDelta(t, -CombatFatigue, r.AttackerMorale, 1e-12)
}

func TestBattle_SiegeFavoursDefender(t *testing.T) {
	d := BattleDraws{AttackerMight: 0.5, DefenderMight: 0.5, AttackerTolerance: 0.5, DefenderTolerance: 0.5}
	field := Battle{Attacker: fresh(2500), Defender: fresh(2500)}.Resolve(d)
	siege := Battle{Attacker: fresh(2500), Defender: fresh(2500), InCity: true, GarrisonMight: 10}.Resolve(d)

	assert.InDelta(t, field.DefenderMight*2+10, siege.DefenderMight, 1e-9)
	assert.InDelta(t, field.DefenderTolerable*SiegeToleranceFactor, siege.DefenderTolerable, 1e-9)
	assert.Greater(t, siege.AttackerCasualties, field.AttackerCasualties)
	// Square-root exchange inside the city.
	ratio := math.Sqrt(siege.DefenderMight / siege.AttackerMight)
	assert.Equal(t, int(math.Min(siege.DefenderTolerable*ratio, 2500)), siege.AttackerCasualties)
}

// Two identical 2,500-strong units fighting in the open: casualties stay in
// range and the expected morale change is zero.
func TestBattle_IdenticalUnitsAreFair(t *testing.T) {
	rng := testutil.NewTestRNG(2024)
	b := Battle{Attacker: fresh(2500), Defender: fresh(2500)}

	const trials = 4000
	sum := 0.0
	for i := 0; i < trials; i++ {
		r := b.Resolve(DrawBattle(rng))
		require.GreaterOrEqual(t, r.AttackerCasualties, 0)
		require.LessOrEqual(t, r.AttackerCasualties, 2500)
		require.GreaterOrEqual(t, r.DefenderCasualties, 0)
		require.LessOrEqual(t, r.DefenderCasualties, 2500)
		sum += r.AttackerMorale + CombatFatigue
	}
	assert.InDelta(t, 0, sum/trials, 0.15)
}

func TestMoraleSwing(t *testing.T) {
	assert.Zero(t, MoraleSwing(0, 0))
	assert.InDelta(t, 3.0, MoraleSwing(0, 10), 1e-12)
	assert.InDelta(t, -1.0, MoraleSwing(20, 10), 1e-12)
	assert.Zero(t, MoraleSwing(7, 7))
}

func TestGarrisonMightAndFallChance(t *testing.T) {
	assert.InDelta(t, 25.0, GarrisonMight(1, 2500), 1e-9)
	assert.Zero(t, GarrisonMight(0, 2500))
	assert.Zero(t, GarrisonMight(2, 0))

	assert.InDelta(t, 0.75, FallChance(30, 10), 1e-12)
	assert.Equal(t, 1.0, FallChance(5, 0))
	assert.Zero(t, FallChance(0, 0))
}
