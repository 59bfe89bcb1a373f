package rules

import (
	"math"

	"github.com/mitchelldurbincs/WarringStates/internal/common"
)

// RationPerSoldier is the food a freshly drafted or marching soldier carries.
const RationPerSoldier = 5

// BattleFraction is the share of a unit that can be front line when its
// camp is costDistance away from the nearest supplying city: 1 at distance 0
// falling linearly to 0 at cutoff.
func BattleFraction(costDistance, cutoff float64) float64 {
	if cutoff <= 0 || math.IsInf(costDistance, 1) || math.IsNaN(costDistance) {
		return 0
	}
	return common.Clamp(1-costDistance/cutoff, 0, 1)
}

// SplitUnits divides total into battle and logistic units by fraction.
func SplitUnits(total int, fraction float64) (battle, logistic int) {
	total = max(total, 0)
	battle = common.ClampInt(common.Round(float64(total)*fraction), 0, total)
	return battle, total - battle
}

// LoadForMarch moves camp food onto battle units leaving camp, up to
// RationPerSoldier each.
func LoadForMarch(battleUnits, carried, camp int) (newCarried, newCamp int) {
	delta := min(battleUnits*RationPerSoldier, carried+camp) - carried
	return carried + delta, camp - delta
}

// UnloadAtCamp banks everything carried back into camp stores.
func UnloadAtCamp(carried, camp int) (newCarried, newCamp int) {
	return 0, camp + carried
}

// PillageAttitudeDelta is the attitude change of a foreign tile at distance
// from a pillaging force of battleUnits. Only tiles within range 2 suffer.
func PillageAttitudeDelta(distance float64, battleUnits int) float64 {
	return -(3 - distance) * float64(battleUnits) / 65536
}

// Ambushed reports whether a pillaging force is attacked given the local
// attitude toward its player.
func Ambushed(draw, attitude float64) bool { return draw <= -attitude }

// AmbushCasualties is how many men an ambush costs.
func AmbushCasualties(draw float64) int { return common.Trunc(draw * 100) }

// PillageYield is the food taken from a foreign tile.
func PillageYield(civilians int, rate float64) int {
	return max(common.Trunc(float64(civilians)*rate), 0)
}

// Growth is the civilian increase for one turn.
func Growth(civilians int, rate float64) int {
	return max(common.Trunc(float64(civilians)*rate), 0)
}

// Decay is the food left after one turn of spoilage.
func Decay(storage int, factor float64) int {
	return max(int(math.Floor(float64(storage)*factor)), 0)
}

// RuralSurplus is the food delivered to a city at the end of each cycle.
func RuralSurplus(ruralCivilians int, ruralYield float64, draftHistory, cycle int, soldierRation float64) int {
	if cycle <= 0 {
		cycle = 1
	}
	upkeep := float64(draftHistory) / float64(cycle) * soldierRation
	return max(common.Trunc(float64(ruralCivilians)*ruralYield-upkeep), 0)
}
