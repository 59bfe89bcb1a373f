package states

import "fmt"

// GamePhase represents the lifecycle phase of a simulation
type GamePhase int

const (
	// PhaseInitializing - world creation, map generation and capital placement
	PhaseInitializing GamePhase = iota

	// PhaseRunning - turns are being processed
	PhaseRunning

	// PhasePaused - turn processing suspended by the host
	PhasePaused

	// PhaseEnded - a single player remains or the turn limit was reached
	PhaseEnded

	// PhaseError - the simulation hit an unrecoverable error
	PhaseError
)

var phaseNames = map[GamePhase]string{
	PhaseInitializing: "Initializing",
	PhaseRunning:      "Running",
	PhasePaused:       "Paused",
	PhaseEnded:        "Ended",
	PhaseError:        "Error",
}

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", p)
}

// IsTerminal returns true if the phase represents a terminal state
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanProcessTurns returns true if turns may advance in this phase
func (p GamePhase) CanProcessTurns() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseInitializing:
		return []GamePhase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []GamePhase{PhasePaused, PhaseEnded, PhaseError}
	case PhasePaused:
		return []GamePhase{PhaseRunning, PhaseEnded, PhaseError}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a GamePhase
func ParsePhase(s string) (GamePhase, error) {
	for phase, name := range phaseNames {
		if name == s {
			return phase, nil
		}
	}
	return PhaseInitializing, fmt.Errorf("unknown phase %q", s)
}
