package events

import (
	"time"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted      = "game.started"
	TypeGameEnded        = "game.ended"
	TypeTurnStarted      = "turn.started"
	TypeTurnEnded        = "turn.ended"
	TypeEntityUpdated    = "entity.updated"
	TypeCityFounded      = "city.founded"
	TypeCityFell         = "city.fell"
	TypeUnitCreated      = "unit.created"
	TypeUnitDrafted      = "unit.drafted"
	TypeUnitDestroyed    = "unit.destroyed"
	TypeBattleResolved   = "battle.resolved"
	TypeSiegeResolved    = "siege.resolved"
	TypeWarDeclared      = "war.declared"
	TypePlayerEliminated = "player.eliminated"
	TypeStateTransition  = "state.transition"
)

func newBase(eventType, gameID string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Game:      gameID,
	}
}

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	NumPlayers int
	MapWidth   int
	MapHeight  int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, numPlayers, width, height int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:  newBase(TypeGameStarted, gameID),
		NumPlayers: numPlayers,
		MapWidth:   width,
		MapHeight:  height,
	}
}

// GameEndedEvent is published when a game ends
type GameEndedEvent struct {
	BaseEvent
	Metadata  EventMetadata
	Winner    int
	Duration  time.Duration
	FinalTurn int
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, winner int, duration time.Duration, finalTurn int) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBase(TypeGameEnded, gameID),
		Metadata:  EventMetadata{PlayerID: winner, Turn: finalTurn},
		Winner:    winner,
		Duration:  duration,
		FinalTurn: finalTurn,
	}
}

// TurnStartedEvent is published when a player's turn begins
type TurnStartedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	TurnNumber int
	PlayerID   int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(gameID string, turn, playerID int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:  newBase(TypeTurnStarted, gameID),
		Metadata:   EventMetadata{PlayerID: playerID, Turn: turn},
		TurnNumber: turn,
		PlayerID:   playerID,
	}
}

// TurnEndedEvent is published after every entity of the active player ended its turn
type TurnEndedEvent struct {
	BaseEvent
	Metadata      EventMetadata
	TurnNumber    int
	PlayerID      int
	EntitiesCount int
	ProcessedTime time.Duration
}

// NewTurnEndedEvent creates a new TurnEndedEvent
func NewTurnEndedEvent(gameID string, turn, playerID, entities int, processedTime time.Duration) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent:     newBase(TypeTurnEnded, gameID),
		Metadata:      EventMetadata{PlayerID: playerID, Turn: turn},
		TurnNumber:    turn,
		PlayerID:      playerID,
		EntitiesCount: entities,
		ProcessedTime: processedTime,
	}
}

// EntityUpdatedEvent is published after an entity state machine reduced a
// dispatched action. Silent updates do not produce it.
type EntityUpdatedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Handle   core.Handle
	Kind     string
	Action   string
	Location core.Coordinate
}

// NewEntityUpdatedEvent creates a new EntityUpdatedEvent
func NewEntityUpdatedEvent(gameID string, turn int, h core.Handle, kind string, owner int, action string, at core.Coordinate) *EntityUpdatedEvent {
	return &EntityUpdatedEvent{
		BaseEvent: newBase(TypeEntityUpdated, gameID),
		Metadata:  EventMetadata{PlayerID: owner, Turn: turn},
		Handle:    h,
		Kind:      kind,
		Action:    action,
		Location:  at,
	}
}

// CityFoundedEvent is published when a city is placed on the map
type CityFoundedEvent struct {
	BaseEvent
	Metadata EventMetadata
	City     core.Handle
	Name     string
	Location core.Coordinate
	Tiles    int
}

// NewCityFoundedEvent creates a new CityFoundedEvent
func NewCityFoundedEvent(gameID string, turn int, city core.Handle, owner int, name string, at core.Coordinate, tiles int) *CityFoundedEvent {
	return &CityFoundedEvent{
		BaseEvent: newBase(TypeCityFounded, gameID),
		Metadata:  EventMetadata{PlayerID: owner, Turn: turn},
		City:      city,
		Name:      name,
		Location:  at,
		Tiles:     tiles,
	}
}

// CityFellEvent is published when a city changes hands
type CityFellEvent struct {
	BaseEvent
	Metadata     EventMetadata
	City         core.Handle
	Name         string
	Location     core.Coordinate
	FormerOwner  int
	NewOwner     int
	UnitsRehomed int
	UnitsLost    int
}

// NewCityFellEvent creates a new CityFellEvent
func NewCityFellEvent(gameID string, turn int, city core.Handle, name string, at core.Coordinate, from, to, rehomed, lost int) *CityFellEvent {
	return &CityFellEvent{
		BaseEvent:    newBase(TypeCityFell, gameID),
		Metadata:     EventMetadata{PlayerID: to, Turn: turn},
		City:         city,
		Name:         name,
		Location:     at,
		FormerOwner:  from,
		NewOwner:     to,
		UnitsRehomed: rehomed,
		UnitsLost:    lost,
	}
}

// UnitCreatedEvent is published when a unit is raised
type UnitCreatedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	Unit       core.Handle
	HomeCity   core.Handle
	Location   core.Coordinate
	Population int
}

// NewUnitCreatedEvent creates a new UnitCreatedEvent
func NewUnitCreatedEvent(gameID string, turn int, unit, home core.Handle, owner int, at core.Coordinate, population int) *UnitCreatedEvent {
	return &UnitCreatedEvent{
		BaseEvent:  newBase(TypeUnitCreated, gameID),
		Metadata:   EventMetadata{PlayerID: owner, Turn: turn},
		Unit:       unit,
		HomeCity:   home,
		Location:   at,
		Population: population,
	}
}

// UnitDraftedEvent is published when a city draft produced soldiers
type UnitDraftedEvent struct {
	BaseEvent
	Metadata EventMetadata
	City     core.Handle
	Unit     core.Handle
	Drafted  int
	Merged   bool
}

// NewUnitDraftedEvent creates a new UnitDraftedEvent
func NewUnitDraftedEvent(gameID string, turn int, city, unit core.Handle, owner, drafted int, merged bool) *UnitDraftedEvent {
	return &UnitDraftedEvent{
		BaseEvent: newBase(TypeUnitDrafted, gameID),
		Metadata:  EventMetadata{PlayerID: owner, Turn: turn},
		City:      city,
		Unit:      unit,
		Drafted:   drafted,
		Merged:    merged,
	}
}

// Reasons a unit leaves the map
const (
	ReasonCasualties = "casualties"
	ReasonDisarmed   = "disarmed"
	ReasonDisbanded  = "disbanded"
	ReasonCaptured   = "captured"
)

// UnitDestroyedEvent is published when a unit is removed from the map
type UnitDestroyedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Unit     core.Handle
	Location core.Coordinate
	Reason   string
}

// NewUnitDestroyedEvent creates a new UnitDestroyedEvent
func NewUnitDestroyedEvent(gameID string, turn int, unit core.Handle, owner int, at core.Coordinate, reason string) *UnitDestroyedEvent {
	return &UnitDestroyedEvent{
		BaseEvent: newBase(TypeUnitDestroyed, gameID),
		Metadata:  EventMetadata{PlayerID: owner, Turn: turn},
		Unit:      unit,
		Location:  at,
		Reason:    reason,
	}
}

// BattleResolvedEvent is published after two units fought
type BattleResolvedEvent struct {
	BaseEvent
	Metadata           EventMetadata
	Attacker           core.Handle
	Defender           core.Handle
	AttackerID         int
	DefenderID         int
	Location           core.Coordinate
	AttackerUnits      int
	DefenderUnits      int
	AttackerCasualties int
	DefenderCasualties int
	AttackerMorale     float64
	DefenderMorale     float64
	InCity             bool
}

// NewBattleResolvedEvent creates a new BattleResolvedEvent. The counts
// describe the battle units present before casualties were applied.
func NewBattleResolvedEvent(gameID string, turn int, attacker, defender core.Handle, attackerID, defenderID int,
	at core.Coordinate, attackerUnits, defenderUnits, attackerCasualties, defenderCasualties int,
	attackerMorale, defenderMorale float64, inCity bool) *BattleResolvedEvent {
	return &BattleResolvedEvent{
		BaseEvent:          newBase(TypeBattleResolved, gameID),
		Metadata:           EventMetadata{PlayerID: attackerID, Turn: turn},
		Attacker:           attacker,
		Defender:           defender,
		AttackerID:         attackerID,
		DefenderID:         defenderID,
		Location:           at,
		AttackerUnits:      attackerUnits,
		DefenderUnits:      defenderUnits,
		AttackerCasualties: attackerCasualties,
		DefenderCasualties: defenderCasualties,
		AttackerMorale:     attackerMorale,
		DefenderMorale:     defenderMorale,
		InCity:             inCity,
	}
}

// SiegeResolvedEvent is published after a unit assaulted a city
type SiegeResolvedEvent struct {
	BaseEvent
	Metadata     EventMetadata
	Attacker     core.Handle
	City         core.Handle
	AttackerID   int
	DefenderID   int
	Battles      int
	GarrisonLeft int
	FallChance   float64
	Fell         bool
}

// NewSiegeResolvedEvent creates a new SiegeResolvedEvent
func NewSiegeResolvedEvent(gameID string, turn int, attacker, city core.Handle, attackerID, defenderID, battles, garrisonLeft int,
	fallChance float64, fell bool) *SiegeResolvedEvent {
	return &SiegeResolvedEvent{
		BaseEvent:    newBase(TypeSiegeResolved, gameID),
		Metadata:     EventMetadata{PlayerID: attackerID, Turn: turn},
		Attacker:     attacker,
		City:         city,
		AttackerID:   attackerID,
		DefenderID:   defenderID,
		Battles:      battles,
		GarrisonLeft: garrisonLeft,
		FallChance:   fallChance,
		Fell:         fell,
	}
}

// WarDeclaredEvent is published when a player becomes hostile to another
type WarDeclaredEvent struct {
	BaseEvent
	Metadata EventMetadata
	PlayerID int
	TargetID int
}

// NewWarDeclaredEvent creates a new WarDeclaredEvent
func NewWarDeclaredEvent(gameID string, turn, playerID, targetID int) *WarDeclaredEvent {
	return &WarDeclaredEvent{
		BaseEvent: newBase(TypeWarDeclared, gameID),
		Metadata:  EventMetadata{PlayerID: playerID, Turn: turn},
		PlayerID:  playerID,
		TargetID:  targetID,
	}
}

// PlayerEliminatedEvent is published when a player has neither cities nor units left
type PlayerEliminatedEvent struct {
	BaseEvent
	Metadata EventMetadata
	PlayerID int
}

// NewPlayerEliminatedEvent creates a new PlayerEliminatedEvent
func NewPlayerEliminatedEvent(gameID string, playerID, turn int) *PlayerEliminatedEvent {
	return &PlayerEliminatedEvent{
		BaseEvent: newBase(TypePlayerEliminated, gameID),
		Metadata:  EventMetadata{PlayerID: playerID, Turn: turn},
		PlayerID:  playerID,
	}
}

// StateTransitionEvent is published when the game state machine transitions between phases
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
