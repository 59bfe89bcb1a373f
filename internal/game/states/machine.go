package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
)

// maxHistory bounds the transition log of a long-running simulation.
const maxHistory = 256

// State is one lifecycle phase. Validate runs before the machine leaves its
// current phase; Enter may still veto the move, in which case the machine
// stays where it was.
type State interface {
	Phase() GamePhase
	Enter(ctx *GameContext) error
	Exit(ctx *GameContext) error
	Validate(ctx *GameContext) error
}

// Transition is one entry of the phase log.
type Transition struct {
	From      GamePhase
	To        GamePhase
	Timestamp time.Time
	Reason    string
}

// StateMachine moves a simulation through its lifecycle and publishes every
// change on the event bus.
type StateMachine struct {
	mu       sync.RWMutex
	current  GamePhase
	states   map[GamePhase]State
	context  *GameContext
	history  []Transition
	eventBus *events.EventBus
}

// NewStateMachine starts in PhaseInitializing with the built-in states.
func NewStateMachine(ctx *GameContext, eventBus *events.EventBus) *StateMachine {
	sm := &StateMachine{
		current:  PhaseInitializing,
		states:   make(map[GamePhase]State),
		context:  ctx,
		eventBus: eventBus,
	}
	for _, s := range []State{
		NewInitializingState(),
		NewRunningState(),
		NewPausedState(),
		NewEndedState(),
		NewErrorState(),
	} {
		sm.states[s.Phase()] = s
	}
	return sm
}

// RegisterState replaces the implementation of one phase.
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.states[state.Phase()] = state
}

func (sm *StateMachine) CurrentPhase() GamePhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// CanTransitionTo reports whether target is reachable from the current phase.
func (sm *StateMachine) CanTransitionTo(target GamePhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current.CanTransitionTo(target)
}

// TransitionTo moves the machine to target. An Exit error is logged and
// ignored; a Validate or Enter error leaves the phase unchanged.
func (sm *StateMachine) TransitionTo(target GamePhase, reason string) error {
	sm.mu.Lock()
	from := sm.current
	if !from.CanTransitionTo(target) {
		sm.mu.Unlock()
		return fmt.Errorf("invalid transition from %s to %s", from, target)
	}
	next, ok := sm.states[target]
	if !ok {
		sm.mu.Unlock()
		return fmt.Errorf("no state implementation for phase %s", target)
	}
	if err := next.Validate(sm.context); err != nil {
		sm.mu.Unlock()
		return fmt.Errorf("target state validation failed: %w", err)
	}

	if prev, ok := sm.states[from]; ok {
		if err := prev.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", from.String()).
				Str("to_phase", target.String()).
				Msg("Error exiting state")
		}
	}
	sm.current = target
	if err := next.Enter(sm.context); err != nil {
		sm.current = from
		sm.mu.Unlock()
		return fmt.Errorf("failed to enter state %s: %w", target, err)
	}

	sm.history = append(sm.history, Transition{From: from, To: target, Timestamp: time.Now(), Reason: reason})
	if over := len(sm.history) - maxHistory; over > 0 {
		sm.history = append(sm.history[:0], sm.history[over:]...)
	}
	gameID := sm.context.GameID
	sm.mu.Unlock()

	// Published without the lock so subscribers may query the machine.
	if sm.eventBus != nil {
		sm.eventBus.Publish(events.NewStateTransitionEvent(gameID, from.String(), target.String(), reason))
	}
	sm.context.Logger.Info().
		Str("from_phase", from.String()).
		Str("to_phase", target.String()).
		Str("reason", reason).
		Msg("State transition completed")
	return nil
}

// GetHistory returns a copy of the transition log, oldest first.
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return append([]Transition(nil), sm.history...)
}

func (sm *StateMachine) GetContext() *GameContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.context
}

// Fail records err and moves the machine to PhaseError.
func (sm *StateMachine) Fail(err error) error {
	sm.mu.Lock()
	sm.context.Error = err
	sm.mu.Unlock()
	return sm.TransitionTo(PhaseError, err.Error())
}
