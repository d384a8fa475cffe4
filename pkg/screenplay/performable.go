package screenplay

import "fmt"

// Performable is what Actor.Performs accepts: a single task, a single
// interaction, or a homogeneous sequence of either.
type Performable interface {
	performable()
}

type (
	taskPerformable        struct{ task Task }
	interactionPerformable struct{ interaction Interaction }
	taskSequence           struct{ tasks []Task }
	interactionSequence    struct{ interactions []Interaction }
)

func (taskPerformable) performable()        {}
func (interactionPerformable) performable() {}
func (taskSequence) performable()           {}
func (interactionSequence) performable()    {}

// Do wraps a task.
func Do(t Task) Performable {
	return taskPerformable{task: t}
}

// Attempt wraps an interaction.
func Attempt(i Interaction) Performable {
	return interactionPerformable{interaction: i}
}

// DoAll wraps tasks performed in order.
func DoAll(tasks ...Task) Performable {
	return taskSequence{tasks: append([]Task(nil), tasks...)}
}

// AttemptAll wraps interactions attempted in order.
func AttemptAll(interactions ...Interaction) Performable {
	return interactionSequence{interactions: append([]Interaction(nil), interactions...)}
}

// Single wraps x, which must be a Task or an Interaction. A value that is
// both is treated as a Task.
func Single(x any) (Performable, error) {
	switch v := x.(type) {
	case Task:
		return Do(v), nil
	case Interaction:
		return Attempt(v), nil
	}
	return nil, fmt.Errorf("%T is neither a task nor an interaction", x)
}

// Many wraps items as a sequence. The first item decides whether the
// sequence holds tasks or interactions; any item of the other kind yields
// ErrMixedSequence. An empty sequence performs nothing.
func Many(items ...any) (Performable, error) {
	if len(items) == 0 {
		return taskSequence{}, nil
	}

	if _, ok := items[0].(Task); ok {
		tasks := make([]Task, 0, len(items))
		for i, item := range items {
			t, ok := item.(Task)
			if !ok {
				return nil, fmt.Errorf("%w: item %d is %T", ErrMixedSequence, i, item)
			}
			tasks = append(tasks, t)
		}
		return taskSequence{tasks: tasks}, nil
	}

	if _, ok := items[0].(Interaction); !ok {
		return nil, fmt.Errorf("%T is neither a task nor an interaction", items[0])
	}
	interactions := make([]Interaction, 0, len(items))
	for i, item := range items {
		in, ok := item.(Interaction)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T", ErrMixedSequence, i, item)
		}
		interactions = append(interactions, in)
	}
	return interactionSequence{interactions: interactions}, nil
}
