package events

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EventBus delivers events synchronously, in subscription order, on the
// publishing goroutine. Handlers may subscribe or unsubscribe while an
// event is being delivered; the change applies from the next Publish.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	handlers    map[string][]funcHandler
	nextID      int
	logger      zerolog.Logger
}

type funcHandler struct {
	id string
	fn EventHandler
}

// NewEventBus creates a bus logging through the global logger.
func NewEventBus() *EventBus {
	return NewEventBusWithLogger(log.Logger)
}

func NewEventBusWithLogger(logger zerolog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]funcHandler),
		logger:   logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds a subscriber. A subscriber with the same ID is replaced in
// place.
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for i, s := range eb.subscribers {
		if s.ID() == subscriber.ID() {
			eb.subscribers[i] = subscriber
			return
		}
	}
	eb.subscribers = append(eb.subscribers, subscriber)
	eb.logger.Debug().Str("subscriber_id", subscriber.ID()).Msg("Subscriber added to event bus")
}

func (eb *EventBus) Unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for i, s := range eb.subscribers {
		if s.ID() == subscriberID {
			eb.subscribers = append(eb.subscribers[:i:i], eb.subscribers[i+1:]...)
			eb.logger.Debug().Str("subscriber_id", subscriberID).Msg("Subscriber removed from event bus")
			return
		}
	}
}

// SubscribeFunc registers handler for one event type and returns an ID for
// UnsubscribeFunc.
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	id := fmt.Sprintf("%s_func_%d", eventType, eb.nextID)
	eb.handlers[eventType] = append(eb.handlers[eventType], funcHandler{id: id, fn: handler})
	eb.logger.Debug().Str("event_type", eventType).Str("handler_id", id).Msg("Function handler added to event bus")
	return id
}

// UnsubscribeFunc removes a handler added by SubscribeFunc.
func (eb *EventBus) UnsubscribeFunc(handlerID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for eventType, hs := range eb.handlers {
		for i, h := range hs {
			if h.id == handlerID {
				eb.handlers[eventType] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers event to every interested subscriber and then to every
// handler of its type. A panicking receiver is logged and skipped.
func (eb *EventBus) Publish(event Event) {
	eventType := event.Type()

	eb.mu.RLock()
	subscribers := eb.subscribers
	handlers := eb.handlers[eventType]
	eb.mu.RUnlock()

	eb.logger.Debug().
		Str("event_type", eventType).
		Str("game_id", event.GameID()).
		Msg("Publishing event")

	for _, s := range subscribers {
		if s.InterestedIn(eventType) {
			eb.deliver(s.ID(), event, s.HandleEvent)
		}
	}
	for _, h := range handlers {
		eb.deliver(h.id, event, h.fn)
	}
}

func (eb *EventBus) deliver(receiver string, event Event, fn EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("receiver", receiver).
				Str("event_type", event.Type()).
				Interface("panic", r).
				Msg("Event receiver panicked")
		}
	}()
	fn(event)
}

// GetSubscriberCount returns the number of subscribers.
func (eb *EventBus) GetSubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// GetFuncHandlerCount returns the number of handlers for one event type.
func (eb *EventBus) GetFuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}
