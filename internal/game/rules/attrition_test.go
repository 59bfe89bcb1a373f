package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/WarringStates/internal/testutil"
)

func TestPandemicPossibility(t *testing.T) {
	assert.InDelta(t, 1.0/32, PandemicPossibility(0, 0, 1), 1e-12)
	assert.InDelta(t, math.Sqrt(1+8+0)/32, PandemicPossibility(4, 0, 1), 1e-12)
	assert.InDelta(t, math.Sqrt(17)/32*2, PandemicPossibility(0, 4, 4), 1e-12)
}

func TestDrawAttrition_Order(t *testing.T) {
	d := DrawAttrition(testutil.NewSequenceRand(0.1, 0.2, 0.3, 0.4))
	assert.Equal(t, AttritionDraws{Pandemic: 0.1, Base: 0.2, Battle: 0.3, Logistic: 0.4}, d)
}

func TestAttrition_Resolve(t *testing.T) {
	calm := AttritionDraws{Pandemic: 0.99}

	t.Run("HealthyUnitLosesNothing", func(t *testing.T) {
		a := Attrition{BattleUnits: 2000, LogisticUnits: 500}
		r := a.Resolve(calm)
		assert.False(t, r.Pandemic)
		assert.Zero(t, r.BattleCasualties)
		assert.Zero(t, r.LogisticCasualties)
		assert.Zero(t, r.PandemicStage)
	})

	t.Run("PandemicAdvancesAndRecedes", func(t *testing.T) {
		a := Attrition{BattleUnits: 100, PandemicStage: 2}
		assert.Equal(t, 3, a.Resolve(AttritionDraws{Pandemic: 0}).PandemicStage)
		assert.Equal(t, 1, a.Resolve(calm).PandemicStage)
	})

	t.Run("StarvingBattleUnitsAreWipedOut", func(t *testing.T) {
		a := Attrition{BattleUnits: 800, LogisticUnits: 200, BattleHunger: 5, LogisticHunger: 5}
		r := a.Resolve(AttritionDraws{Pandemic: 0.99, Base: 0.5, Battle: 1, Logistic: 1})
		assert.Equal(t, 800, r.BattleCasualties)
		// 0.5/64 + 16/16 > 1, still capped at the pool
		assert.Equal(t, 200, r.LogisticCasualties)
	})

	t.Run("BaseRate", func(t *testing.T) {
		a := Attrition{BattleUnits: 6400, LogisticUnits: 640, PandemicStage: 1}
		r := a.Resolve(AttritionDraws{Pandemic: 0.99, Base: 0.5})
		assert.Equal(t, 100, r.BattleCasualties)
		assert.Equal(t, 10, r.LogisticCasualties)
	})
}

func TestRations_Consume(t *testing.T) {
	t.Run("InCampWithCity", func(t *testing.T) {
		r := Rations{BattleUnits: 800, LogisticUnits: 200, CityStorage: 10000, InCamp: true, Camp: 50}
		res := r.Consume()
		assert.Equal(t, 1000, res.FromCity)
		assert.Zero(t, res.BattleHungerTotal)
		assert.Zero(t, res.LogisticHungerTotal)
		assert.Equal(t, 50, res.Camp)
	})

	t.Run("InCampWithoutCity", func(t *testing.T) {
		r := Rations{BattleUnits: 800, LogisticUnits: 200, InCamp: true, Camp: 300}
		res := r.Consume()
		assert.Zero(t, res.FromCity)
		assert.Zero(t, res.Camp)
		// battle: 1 - 300/800 = 0.625 per man
		assert.Equal(t, 500, res.BattleHungerTotal)
		assert.Equal(t, 200, res.LogisticHungerTotal)
	})

	t.Run("MarchingEatsCarriedFood", func(t *testing.T) {
		r := Rations{BattleUnits: 800, LogisticUnits: 200, CityStorage: 1000, Carried: 4000, Camp: 10}
		res := r.Consume()
		assert.Equal(t, 1000, res.FromCity)
		assert.Equal(t, 3200, res.Carried)
		assert.Equal(t, 10+800, res.Camp, "city food is banked at camp")
		assert.Zero(t, res.BattleHungerTotal)
	})

	t.Run("HungerIsBounded", func(t *testing.T) {
		r := Rations{BattleUnits: 10, LogisticUnits: 10, BattleHunger: 5, LogisticHunger: 4.5}
		res := r.Consume()
		assert.Equal(t, 50, res.BattleHungerTotal)
		assert.Equal(t, 50, res.LogisticHungerTotal)
	})

	t.Run("NoUnits", func(t *testing.T) {
		res := Rations{CityStorage: 100, InCamp: true}.Consume()
		assert.Zero(t, res.FromCity)
		assert.Zero(t, res.BattleHungerTotal)
	})
}
