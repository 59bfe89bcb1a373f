package rules

import (
	"math"

	"github.com/mitchelldurbincs/WarringStates/internal/common"
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
)

const (
	// CombatFatigue is the flat morale penalty both sides take in every battle.
	CombatFatigue = 0.25
	// SiegeToleranceFactor multiplies the tolerable casualties of a city defender.
	SiegeToleranceFactor = 10
	// MaxMoraleBonus caps the morale multiplier.
	MaxMoraleBonus = 1.25
)

// Combatant is the combat-relevant slice of a unit's state.
type Combatant struct {
	BattleUnits   int
	Experience    float64
	Morale        float64
	Tiredness     float64
	Hunger        float64
	PandemicStage int
}

// Weariness combines tiredness, hunger and pandemic into one penalty >= 1.
func Weariness(tiredness, hunger float64, pandemicStage int) float64 {
	return 1 +
		math.Max(0, tiredness-1) +
		math.Max(0, hunger-1) +
		math.Sqrt(math.Max(0, float64(pandemicStage-1)))/4
}

// MoraleBonus is 1.25^(0.8 morale), capped at 1.25.
func MoraleBonus(morale float64) float64 {
	return math.Min(math.Pow(MaxMoraleBonus, morale*0.8), MaxMoraleBonus)
}

func (c Combatant) Weariness() float64 { return Weariness(c.Tiredness, c.Hunger, c.PandemicStage) }

func (c Combatant) Stamina() float64 { return 1 / c.Weariness() }

// Might is sqrt(battle units) x stamina x morale bonus x sqrt(1 + experience).
func (c Combatant) Might() float64 {
	if c.BattleUnits <= 0 {
		return 0
	}
	return math.Sqrt(float64(c.BattleUnits)) *
		c.Stamina() *
		MoraleBonus(c.Morale) *
		math.Sqrt(1+c.Experience)
}

// TolerableRate is the fraction of battle units the side accepts losing.
func (c Combatant) TolerableRate() float64 {
	return math.Sqrt(1+c.Experience) * MoraleBonus(c.Morale) / 64
}

func deltaAngle(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 2*math.Pi-d)
}

// ChargeTime is the time cost of changing from formation f1 to f2. Switching
// between column and line costs 0.5; line to line costs depend on the
// rotation, measured differently when attacking.
func ChargeTime(f1, f2 core.Formation, attack bool) float64 {
	dense1, dense2 := f1.IsDense(), f2.IsDense()
	if dense1 && dense2 {
		return 0
	}
	if dense1 || dense2 {
		return 0.5
	}

	a1, a2 := f1.Angle(), f2.Angle()
	if attack {
		return deltaAngle(a1, a2) * 2 / math.Pi
	}
	t := 0.0
	if a1*a2 < 0 {
		t += 0.25
	}
	return t + math.Abs(math.Abs(a1)-math.Abs(a2))*2/math.Pi
}

// FormationBonus rates an attack that starts in original, moves in charge,
// ends in next and meets the enemy in enemy. Positive favours the attacker.
func FormationBonus(original, charge, next, enemy core.Formation) float64 {
	chargeTime := ChargeTime(original, charge, false) + ChargeTime(charge, next, true)
	dense := next.IsDense()
	enemyDense := enemy.IsDense()

	attackAngle := next.Angle()
	if dense {
		attackAngle = charge.Angle()
	}

	flank := 0.0
	if !enemyDense {
		flank = math.Sqrt(deltaAngle(attackAngle, enemy.Reverse().Angle()))
	}

	flankWeight, penaltyWeight, enemyPenalty := 2.0, 1.0, 1.0
	if dense {
		flankWeight, penaltyWeight = 1.5, 0.5
	}
	if enemyDense {
		enemyPenalty = 0.5
	}
	return flankWeight*flank/(1+chargeTime) - penaltyWeight*chargeTime*enemyPenalty
}

// BattleDraws are the uniform draws one battle consumes.
type BattleDraws struct {
	AttackerMight     float64
	DefenderMight     float64
	AttackerTolerance float64
	DefenderTolerance float64
}

// DrawBattle takes the four draws of a battle from r.
func DrawBattle(r Rand) BattleDraws {
	return BattleDraws{
		AttackerMight:     r.Float64(),
		DefenderMight:     r.Float64(),
		AttackerTolerance: r.Float64(),
		DefenderTolerance: r.Float64(),
	}
}

// MightMultiplier maps a draw onto [2/3, 4/3).
func MightMultiplier(draw float64) float64 { return (draw + 1) / 1.5 }

// ToleranceMultiplier maps a draw onto [0.8, 1.2).
func ToleranceMultiplier(draw float64) float64 { return (draw + 2) / 2.5 }

// Battle describes one engagement.
type Battle struct {
	Attacker       Combatant
	Defender       Combatant
	FormationBonus float64
	// InCity marks a siege: the defender fights from its city.
	InCity        bool
	GarrisonMight float64
}

// BattleResult is the outcome of Resolve.
type BattleResult struct {
	AttackerMight      float64
	DefenderMight      float64
	AttackerTolerable  float64
	DefenderTolerable  float64
	AttackerCasualties int
	DefenderCasualties int
	AttackerMorale     float64
	DefenderMorale     float64
}

// Resolve computes casualties and morale changes for b.
func (b Battle) Resolve(d BattleDraws) BattleResult {
	var r BattleResult

	r.AttackerMight = b.Attacker.Might() * (1 + math.Max(b.FormationBonus, 0)) * MightMultiplier(d.AttackerMight)
	r.DefenderMight = b.Defender.Might() * (1 + math.Max(-b.FormationBonus, 0)) * MightMultiplier(d.DefenderMight)
	r.AttackerTolerable = b.Attacker.TolerableRate() * float64(max(b.Attacker.BattleUnits, 0)) * ToleranceMultiplier(d.AttackerTolerance)
	r.DefenderTolerable = b.Defender.TolerableRate() * float64(max(b.Defender.BattleUnits, 0)) * ToleranceMultiplier(d.DefenderTolerance)
	if b.InCity {
		r.DefenderMight = r.DefenderMight*2 + b.GarrisonMight
		r.DefenderTolerable *= SiegeToleranceFactor
	}

	maxA := float64(max(b.Attacker.BattleUnits, 0))
	maxD := float64(max(b.Defender.BattleUnits, 0))
	clampCasualties := func(c, limit float64) int { return common.Trunc(math.Min(math.Max(c, 0), limit)) }

	switch {
	case r.AttackerMight <= 0 && r.DefenderMight <= 0:
	case r.DefenderMight <= 0:
		r.DefenderCasualties = int(maxD)
	case r.AttackerMight <= 0:
		r.AttackerCasualties = int(maxA)
	case r.AttackerTolerable/r.DefenderMight > r.DefenderTolerable/r.AttackerMight:
		ratio := b.exchangeRatio(r.AttackerMight / r.DefenderMight)
		r.AttackerCasualties = clampCasualties(r.AttackerTolerable, maxA)
		r.DefenderCasualties = clampCasualties(r.AttackerTolerable*ratio, maxD)
	default:
		ratio := b.exchangeRatio(r.DefenderMight / r.AttackerMight)
		r.DefenderCasualties = clampCasualties(r.DefenderTolerable, maxD)
		r.AttackerCasualties = clampCasualties(r.DefenderTolerable*ratio, maxA)
	}

	swing := MoraleSwing(r.AttackerCasualties, r.DefenderCasualties)
	r.AttackerMorale = swing - CombatFatigue
	r.DefenderMorale = -swing - CombatFatigue
	return r
}

func (b Battle) exchangeRatio(ratio float64) float64 {
	if b.InCity {
		return math.Sqrt(ratio)
	}
	return ratio
}

// MoraleSwing returns the attacker's morale swing; the defender's is its
// negation. The side with fewer casualties gains 3|c1-c2|/(c1+c2).
func MoraleSwing(attackerCasualties, defenderCasualties int) float64 {
	total := attackerCasualties + defenderCasualties
	if total <= 0 {
		return 0
	}
	swing := 3 * float64(common.Abs(attackerCasualties-defenderCasualties)) / float64(total)
	if attackerCasualties > defenderCasualties {
		return -swing
	}
	return swing
}

// GarrisonMight is the city's own contribution to a siege defence.
func GarrisonMight(trainLevel, military int) float64 {
	if trainLevel <= 0 || military <= 0 {
		return 0
	}
	return math.Sqrt(float64(trainLevel)) * math.Sqrt(float64(military)) / 2
}

// FallChance is the probability a city with no garrison left falls this turn.
func FallChance(attackerMight, garrisonMight float64) float64 {
	if attackerMight+garrisonMight <= 0 {
		return 0
	}
	return attackerMight / (attackerMight + garrisonMight)
}
