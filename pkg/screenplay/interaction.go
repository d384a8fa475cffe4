package screenplay

import "context"

// InteractionKind identifies an interaction variant.
type InteractionKind string

// Interaction is a single step an actor attempts.
type Interaction interface {
	Kind() InteractionKind
	AttemptAs(ctx context.Context, actor *Actor) (any, error)
}

// InteractionFunc adapts a function to the Interaction interface.
type InteractionFunc func(ctx context.Context, actor *Actor) (any, error)

type interactionFunc struct {
	kind InteractionKind
	fn   InteractionFunc
}

// NewInteraction builds an interaction of the given kind from fn.
func NewInteraction(kind InteractionKind, fn InteractionFunc) Interaction {
	return interactionFunc{kind: kind, fn: fn}
}

func (i interactionFunc) Kind() InteractionKind { return i.kind }

func (i interactionFunc) AttemptAs(ctx context.Context, actor *Actor) (any, error) {
	return i.fn(ctx, actor)
}
