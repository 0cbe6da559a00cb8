package appointments

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError describe el cambio rechazado.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

var edges = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDone},
}

// Next valida from -> to contra el grafo cerrado de estados.
func Next(from, to Status) (Status, error) {
	for _, s := range edges[from] {
		if s == to {
			return to, nil
		}
	}
	return from, &TransitionError{From: from, To: to}
}

// IsTerminal: done y cancelled no tienen salida.
func IsTerminal(s Status) bool {
	return len(edges[s]) == 0
}

// Action es un atajo de transición expuesto a la UI.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

func (a Action) Target() (Status, bool) {
	switch a {
	case ActionConfirm:
		return StatusConfirmed, true
	case ActionCancel:
		return StatusCancelled, true
	case ActionComplete:
		return StatusDone, true
	}
	return "", false
}

func AvailableActions(s Status) []Action {
	switch s {
	case StatusPending:
		return []Action{ActionConfirm, ActionCancel}
	case StatusConfirmed:
		return []Action{ActionComplete}
	default:
		return nil
	}
}
