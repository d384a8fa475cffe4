package screenplay

import "fmt"

// AbilityKind identifies an ability variant.
type AbilityKind string

// Ability gives an actor access to one external facility.
type Ability interface {
	// Kind is the tag the actor matches on.
	Kind() AbilityKind

	// Can returns the wrapped provider.
	Can() any
}

type ability[T any] struct {
	kind     AbilityKind
	provider T
}

// NewAbility wraps provider as an ability of the given kind.
func NewAbility[T any](kind AbilityKind, provider T) Ability {
	return ability[T]{kind: kind, provider: provider}
}

func (a ability[T]) Kind() AbilityKind { return a.kind }
func (a ability[T]) Can() any          { return a.provider }

// UseAbility looks up the actor's ability of the given kind and returns its
// provider as T.
func UseAbility[T any](actor *Actor, kind AbilityKind) (T, error) {
	var zero T
	provider, err := actor.UseAbility(kind)
	if err != nil {
		return zero, err
	}
	typed, ok := provider.(T)
	if !ok {
		return zero, fmt.Errorf("%w: ability '%s' provides %T, not %T", ErrAbilityType, kind, provider, zero)
	}
	return typed, nil
}
