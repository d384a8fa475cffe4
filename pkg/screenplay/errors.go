package screenplay

import (
	"errors"
	"fmt"
)

var (
	// ErrMixedSequence is returned by Many when tasks and interactions are mixed.
	ErrMixedSequence = errors.New("sequence mixes tasks and interactions")

	// ErrAnswerType is returned when an answer does not have the requested type.
	ErrAnswerType = errors.New("answer has unexpected type")

	// ErrAbilityType is returned when an ability's provider does not have the requested type.
	ErrAbilityType = errors.New("ability provider has unexpected type")
)

// CapabilityNotFoundError reports an actor lacking a requested ability.
type CapabilityNotFoundError struct {
	Actor string
	Kind  AbilityKind
}

func (e *CapabilityNotFoundError) Error() string {
	if e.Actor == "" {
		return fmt.Sprintf("actor does not have ability with name of '%s'", e.Kind)
	}
	return fmt.Sprintf("actor %q does not have ability with name of '%s'", e.Actor, e.Kind)
}

// InteractionNotFoundError reports a task lacking a requested interaction.
type InteractionNotFoundError struct {
	Kind InteractionKind
}

func (e *InteractionNotFoundError) Error() string {
	return fmt.Sprintf("interaction with name of '%s' not found", e.Kind)
}
