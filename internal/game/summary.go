package game

import (
	"github.com/dustin/go-humanize"

	"github.com/mitchelldurbincs/WarringStates/internal/common"
	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
	"github.com/mitchelldurbincs/WarringStates/internal/game/rules"
)

// UnitSummary is what a player gets to see about a unit. Figures other
// than the head count are approximated.
type UnitSummary struct {
	Handle     core.Handle     `json:"handle"`
	Owner      int             `json:"owner"`
	Tile       core.Coordinate `json:"tile"`
	Camp       core.Coordinate `json:"camp"`
	Population int             `json:"population"`
	// PopulationText is Population with thousands separators.
	PopulationText string          `json:"populationText"`
	BattleUnits    int             `json:"battleUnits"`
	LogisticUnits  int             `json:"logisticUnits"`
	Experience     float64         `json:"experience"`
	Hunger         float64         `json:"hunger"`
	Stamina        float64         `json:"stamina"`
	Morale         float64         `json:"morale"`
	Pandemic       float64         `json:"pandemic"`
	Formation      core.Formation  `json:"formation"`
	Tasked         bool            `json:"tasked"`
	Commands       []rules.Command `json:"commands"`
}

// Summary reports the unit as a player sees it. Commands are listed only
// while the unit can still move this turn.
func (u *Unit) Summary() UnitSummary {
	s := u.State()
	return UnitSummary{
		Handle:         u.handle,
		Owner:          u.Owner(),
		Tile:           s.Tile,
		Camp:           s.Camp,
		Population:     s.Population(),
		PopulationText: humanize.Comma(int64(s.Population())),
		BattleUnits:    s.BattleUnits,
		LogisticUnits:  s.LogisticUnits,
		Experience:     common.Approximate(s.Experience),
		Hunger:         common.Approximate(s.BattleHunger()),
		Stamina:        common.Approximate(100 / s.Weariness()),
		Morale:         common.Approximate(s.Morale),
		Pandemic:       common.Approximate(float64(s.PandemicStage)),
		Formation:      s.Formation,
		Tasked:         u.Tasked(),
		Commands:       u.AvailableCommands(),
	}
}

// CitySummary is what a player gets to see about a city.
type CitySummary struct {
	Handle      core.Handle     `json:"handle"`
	Name        string          `json:"name"`
	Owner       int             `json:"owner"`
	Tile        core.Coordinate `json:"tile"`
	Tiles       int             `json:"tiles"`
	Households  int             `json:"households"`
	Urban       int             `json:"urban"`
	Military    int             `json:"military"`
	Food        int             `json:"food"`
	DraftLevel  float64         `json:"draftLevel"`
	TrainLevel  int             `json:"trainLevel"`
	Description string          `json:"description"`
	Commands    []string        `json:"commands"`
}

// Summary reports the city as a player sees it.
func (c *City) Summary() CitySummary {
	s := c.State()
	civilian, military := c.Populations()
	draftLevel := 0.0
	if civilian+military > 0 {
		draftLevel = float64(military) / float64(civilian+military)
	}
	return CitySummary{
		Handle:      c.handle,
		Name:        c.Name(),
		Owner:       s.Owner,
		Tile:        c.home,
		Tiles:       len(c.annexed),
		Households:  civilian + military,
		Urban:       s.Population(),
		Military:    military,
		Food:        common.Trunc(common.Approximate(float64(s.FoodStorage))),
		DraftLevel:  common.ApproximateWithAccuracy(draftLevel*100, 0.1) / 100,
		TrainLevel:  s.TrainLevel,
		Description: humanize.Comma(int64(civilian+military)) + " households, " + humanize.Comma(int64(military)) + " under arms",
		Commands:    []string{"draft", "train"},
	}
}
