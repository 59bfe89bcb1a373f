package rules

import (
	"math"

	"github.com/mitchelldurbincs/WarringStates/internal/common"
)

// MaxHungerLevel bounds the per-unit hunger level.
const MaxHungerLevel = 5

// PandemicPossibility grows with distance from home (east-west distance
// counts half) and with weariness.
func PandemicPossibility(dx, dy int, weariness float64) float64 {
	fx, fy := float64(dx), float64(dy)
	return math.Sqrt(1+fx*fx*0.5+fy*fy) / 32 * math.Sqrt(weariness)
}

// AttritionDraws are the uniform draws one unit's end-of-turn attrition consumes.
type AttritionDraws struct {
	Pandemic float64
	Base     float64
	Battle   float64
	Logistic float64
}

func DrawAttrition(r Rand) AttritionDraws {
	return AttritionDraws{
		Pandemic: r.Float64(),
		Base:     r.Float64(),
		Battle:   r.Float64(),
		Logistic: r.Float64(),
	}
}

// Attrition is the state non-battle casualties depend on.
type Attrition struct {
	BattleUnits    int
	LogisticUnits  int
	BattleHunger   float64
	LogisticHunger float64
	Tiredness      float64
	PandemicStage  int
	// HomeDX and HomeDY are the offset from the unit's home tile.
	HomeDX, HomeDY int
}

// AttritionResult is what Resolve hands back to the unit.
type AttritionResult struct {
	Pandemic           bool
	PandemicStage      int
	BattleCasualties   int
	LogisticCasualties int
}

// Resolve draws pandemic onset and non-battle casualties. Battle-unit
// losses are capped at the whole pool; neither pool goes negative.
func (a Attrition) Resolve(d AttritionDraws) AttritionResult {
	weariness := Weariness(a.Tiredness, a.BattleHunger, a.PandemicStage)
	res := AttritionResult{
		Pandemic: d.Pandemic <= PandemicPossibility(a.HomeDX, a.HomeDY, weariness),
	}

	base := d.Base * float64(1+a.PandemicStage) / 64
	battleRate := math.Min(
		base+d.Battle*(sq(math.Max(a.BattleHunger-1, 0))+sq(math.Max(a.Tiredness/4-1, 0)))/16,
		1,
	)
	logisticRate := base + d.Logistic*sq(math.Max(a.LogisticHunger-1, 0))/16

	res.BattleCasualties = common.ClampInt(common.Round(battleRate*float64(a.BattleUnits)), 0, max(a.BattleUnits, 0))
	res.LogisticCasualties = common.ClampInt(common.Round(logisticRate*float64(a.LogisticUnits)), 0, max(a.LogisticUnits, 0))

	if res.Pandemic {
		res.PandemicStage = a.PandemicStage + 1
	} else {
		res.PandemicStage = max(a.PandemicStage-1, 0)
	}
	return res
}

func sq(x float64) float64 { return x * x }

// Rations is one unit's food situation at end of turn.
type Rations struct {
	BattleUnits    int
	LogisticUnits  int
	BattleHunger   float64
	LogisticHunger float64
	// CityStorage is what the supplying city holds; 0 when there is none.
	CityStorage int
	InCamp      bool
	Carried     int
	Camp        int
}

// RationsResult is the new hunger totals, food loads and the city draw.
type RationsResult struct {
	FromCity            int
	BattleHungerTotal   int
	LogisticHungerTotal int
	Carried             int
	Camp                int
}

// Consume feeds logistic units from the city first. Battle units eat the
// city's remainder only at camp, then their own loads: camp stores at camp,
// carried food on the march. Food the city sends while the unit is away is
// banked at camp.
func (r Rations) Consume() RationsResult {
	total := max(r.BattleUnits, 0) + max(r.LogisticUnits, 0)
	supply := min(max(r.CityStorage, 0), total)
	logisticConsumption := min(supply, max(r.LogisticUnits, 0))
	battleSupply := supply - logisticConsumption

	fromCity := 0
	own := r.Carried
	if r.InCamp {
		fromCity = battleSupply
		own = r.Camp
	}
	fromSelf := max(min(own, r.BattleUnits-fromCity), 0)
	battleConsumption := fromCity + fromSelf

	res := RationsResult{
		FromCity:            supply,
		BattleHungerTotal:   hungerTotal(r.BattleUnits, r.BattleHunger, battleConsumption),
		LogisticHungerTotal: hungerTotal(r.LogisticUnits, r.LogisticHunger, logisticConsumption),
		Carried:             r.Carried,
		Camp:                r.Camp,
	}
	if r.InCamp {
		res.Camp += battleSupply - battleConsumption
	} else {
		res.Carried -= battleConsumption
		res.Camp += battleSupply
	}
	return res
}

func hungerTotal(units int, level float64, consumption int) int {
	if units <= 0 {
		return 0
	}
	next := common.Clamp(level+1-float64(consumption)/float64(units), 0, MaxHungerLevel)
	return common.Trunc(float64(units) * next)
}
