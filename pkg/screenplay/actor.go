package screenplay

import (
	"context"

	"go.uber.org/zap"

	"github.com/entrhq/screenplay/pkg/polling"
)

// Config holds an actor's injected collaborators.
type Config struct {
	// Name identifies the actor in errors and logs.
	Name string

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Queue, when set, runs every Performs and AsksAbout call as one command.
	Queue polling.CommandQueue
}

// Actor holds a fixed set of abilities. It is immutable after construction
// and safe for concurrent use.
type Actor struct {
	name      string
	abilities []Ability
	logger    *zap.Logger
	queue     polling.CommandQueue
}

// New creates an actor with the given collaborators and abilities.
func New(cfg Config, abilities ...Ability) *Actor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actor{
		name:      cfg.Name,
		abilities: append([]Ability(nil), abilities...),
		logger:    logger.With(zap.String("actor", cfg.Name)),
		queue:     cfg.Queue,
	}
}

// NewActor creates a named actor with no queue and a no-op logger.
func NewActor(name string, abilities ...Ability) *Actor {
	return New(Config{Name: name}, abilities...)
}

// Name returns the actor's name.
func (a *Actor) Name() string {
	return a.name
}

// Logger returns the actor's logger, for use by interactions.
func (a *Actor) Logger() *zap.Logger {
	return a.logger
}

// UseAbility returns the provider of the first ability registered with kind.
func (a *Actor) UseAbility(kind AbilityKind) (any, error) {
	for _, ab := range a.abilities {
		if ab.Kind() == kind {
			return ab.Can(), nil
		}
	}
	return nil, &CapabilityNotFoundError{Actor: a.name, Kind: kind}
}

// Performs dispatches a task, an interaction, or a sequence of either.
// Sequences run in order, stop at the first error and return a nil result.
func (a *Actor) Performs(ctx context.Context, p Performable) (any, error) {
	return a.enqueue(ctx, func(ctx context.Context) (any, error) {
		return a.perform(ctx, p)
	})
}

func (a *Actor) perform(ctx context.Context, p Performable) (any, error) {
	switch p := p.(type) {
	case taskPerformable:
		a.logger.Debug("performing task")
		return p.task.PerformAs(ctx, a)
	case interactionPerformable:
		a.logger.Debug("attempting interaction", zap.String("interaction", string(p.interaction.Kind())))
		return p.interaction.AttemptAs(ctx, a)
	case taskSequence:
		for _, t := range p.tasks {
			if _, err := t.PerformAs(ctx, a); err != nil {
				return nil, err
			}
		}
		return nil, nil
	case interactionSequence:
		for _, i := range p.interactions {
			if _, err := i.AttemptAs(ctx, a); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	// nil performs nothing
	return nil, nil
}

// AsksAbout asks the question and returns its answer.
func (a *Actor) AsksAbout(ctx context.Context, q Question) (any, error) {
	return a.enqueue(ctx, func(ctx context.Context) (any, error) {
		return q.AskAs(ctx, a)
	})
}

func (a *Actor) enqueue(ctx context.Context, cmd polling.Command) (any, error) {
	if a.queue == nil {
		return cmd(ctx)
	}
	return a.queue.Run(ctx, cmd)
}
