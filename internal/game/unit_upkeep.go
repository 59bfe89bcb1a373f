package game

import (
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
)

// EndTurn runs the unit's end of turn: the queued order and any deferred
// command, the move-point refill, food, attrition and, at camp, the
// battle/logistic split.
func (u *Unit) EndTurn() {
	st := u.world.settings

	if u.State().MovePoints >= 0 {
		if order, ok := u.machine.TakePending(); ok {
			u.dispatch(order.Action, order.Next)
		}
		if cmd, ok := u.machine.NextCommand(); ok && u.Alive() {
			u.issue(cmd)
		}
		if !u.Alive() {
			return
		}
	}

	u.machine.Apply(AddMovePointsAction{Increment: st.MovePointIncrement, Max: st.MovePointMax})
	u.consumeFood()
	if u.sufferAttrition() {
		return
	}
	u.balanceUnits()
}

// supplyCity is the home city while the player still holds it, else the
// nearest friendly city with food in store.
func (u *Unit) supplyCity() *City {
	if c := u.homeCity(); c != nil {
		return c
	}
	owner := u.Owner()
	c, _ := u.world.nearestCity(u.Tile(), func(other *City) bool {
		return other.Owner() == owner && other.State().FoodStorage > 0
	})
	return c
}

func (u *Unit) consumeFood() {
	s := u.State()
	supply := u.supplyCity()
	storage := 0
	if supply != nil {
		storage = supply.State().FoodStorage
	}

	res := rules.Rations{
		BattleUnits:    s.BattleUnits,
		LogisticUnits:  s.LogisticUnits,
		BattleHunger:   s.BattleHunger(),
		LogisticHunger: s.LogisticHunger(),
		CityStorage:    storage,
		InCamp:         s.AtCamp(),
		Carried:        s.CarriedFood,
		Camp:           s.CampFood,
	}.Consume()

	if supply != nil && res.FromCity > 0 {
		supply.ReceiveFood(-res.FromCity)
	}
	u.Update(FoodChangeAction{
		BattleHungerTotal:   res.BattleHungerTotal,
		LogisticHungerTotal: res.LogisticHungerTotal,
		Carried:             res.Carried,
		Camp:                res.Camp,
	})
}

// sufferAttrition applies pandemic and non-battle casualties. It reports
// whether the unit was wiped out.
func (u *Unit) sufferAttrition() bool {
	s := u.State()
	res := rules.Attrition{
		BattleUnits:    s.BattleUnits,
		LogisticUnits:  s.LogisticUnits,
		BattleHunger:   s.BattleHunger(),
		LogisticHunger: s.LogisticHunger(),
		Tiredness:      s.Tiredness,
		PandemicStage:  s.PandemicStage,
		HomeDX:         s.Tile.X - u.home.X,
		HomeDY:         s.Tile.Y - u.home.Y,
	}.Resolve(rules.DrawAttrition(u.world.rng))

	u.Update(AttritionAction{
		Battle:        res.BattleCasualties,
		Logistic:      res.LogisticCasualties,
		PandemicStage: res.PandemicStage,
	})
	if res.Pandemic {
		u.logger.Debug().Int("stage", res.PandemicStage).Msg("Pandemic spreading")
	}
	u.forwardCasualties(res.BattleCasualties + res.LogisticCasualties)
	return u.destroyIfEmpty(events.ReasonCasualties)
}

// balanceUnits re-splits a camped unit: the closer the nearest friendly
// city, the larger the share that can stay front line.
func (u *Unit) balanceUnits() {
	s := u.State()
	if !s.AtCamp() {
		return
	}
	owner := u.Owner()
	_, path := u.world.nearestCity(s.Camp, func(c *City) bool { return c.Owner() == owner })

	fraction := rules.BattleFraction(path.CostDistance(), u.world.settings.BalanceCutoff)
	battle, logistic := rules.SplitUnits(s.Population(), fraction)
	if battle != s.BattleUnits {
		u.Update(BalanceAction{Battle: battle, Logistic: logistic})
	}
}
