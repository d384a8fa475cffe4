package screenplay

import (
	"context"

	bt "github.com/joeycumines/go-behaviortree"
)

// Task is a named unit of work composed of interactions.
type Task interface {
	PerformAs(ctx context.Context, actor *Actor) (any, error)
}

// Interactions is the ordered interaction list a task embeds.
type Interactions struct {
	steps []Interaction
}

// NewInteractions copies steps into a new list.
func NewInteractions(steps ...Interaction) Interactions {
	return Interactions{steps: append([]Interaction(nil), steps...)}
}

// Steps returns a copy of the interaction list.
func (s Interactions) Steps() []Interaction {
	return append([]Interaction(nil), s.steps...)
}

// AttemptInteractionsAs attempts every interaction in order and stops at the
// first error.
func (s Interactions) AttemptInteractionsAs(ctx context.Context, actor *Actor) error {
	if len(s.steps) == 0 {
		return nil
	}
	nodes := make([]bt.Node, 0, len(s.steps))
	for _, step := range s.steps {
		nodes = append(nodes, attemptNode(ctx, actor, step))
	}
	_, err := bt.New(bt.Sequence, nodes...).Tick()
	return err
}

func attemptNode(ctx context.Context, actor *Actor, step Interaction) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if _, err := step.AttemptAs(ctx, actor); err != nil {
			return bt.Failure, err
		}
		return bt.Success, nil
	})
}

// AttemptInteractionAs attempts the first interaction of the given kind.
func (s Interactions) AttemptInteractionAs(ctx context.Context, actor *Actor, kind InteractionKind) (any, error) {
	for _, step := range s.steps {
		if step.Kind() == kind {
			return step.AttemptAs(ctx, actor)
		}
	}
	return nil, &InteractionNotFoundError{Kind: kind}
}

// StepTask performs its interactions in order and returns nothing.
type StepTask struct {
	Interactions
	Name string
}

// NewTask returns a task that attempts steps in order.
func NewTask(name string, steps ...Interaction) *StepTask {
	return &StepTask{Interactions: NewInteractions(steps...), Name: name}
}

// PerformAs attempts the task's interactions in order and stops at the
// first error.
func (t *StepTask) PerformAs(ctx context.Context, actor *Actor) (any, error) {
	return nil, t.AttemptInteractionsAs(ctx, actor)
}
