package events

import "time"

// Event is anything published on the bus.
type Event interface {
	Type() string
	Timestamp() time.Time
	GameID() string
}

// BaseEvent carries the fields every event shares. Concrete events embed it.
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Game      string    `json:"game_id"`
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) GameID() string       { return e.Game }

// EventHandler handles events of the type it was subscribed to.
type EventHandler func(Event)

// Subscriber receives every event it declares interest in.
type Subscriber interface {
	ID() string
	HandleEvent(Event)
	InterestedIn(eventType string) bool
}

// EventMetadata places an event in the game: who acted and in which round.
type EventMetadata struct {
	PlayerID int `json:"player_id"`
	Turn     int `json:"turn"`
}
