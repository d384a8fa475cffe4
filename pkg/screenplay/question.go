package screenplay

import (
	"context"
	"fmt"
)

// Question is a read-only query answered for an actor. Questions never
// assert; use Asserts to check an answer.
type Question interface {
	AskAs(ctx context.Context, actor *Actor) (any, error)
}

// QuestionFunc adapts a function to the Question interface.
type QuestionFunc func(ctx context.Context, actor *Actor) (any, error)

func (f QuestionFunc) AskAs(ctx context.Context, actor *Actor) (any, error) {
	return f(ctx, actor)
}

// AsksAbout asks q on behalf of actor and returns the answer as T.
func AsksAbout[T any](ctx context.Context, actor *Actor, q Question) (T, error) {
	var zero T
	answer, err := actor.AsksAbout(ctx, q)
	if err != nil {
		return zero, err
	}
	typed, ok := answer.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrAnswerType, answer, zero)
	}
	return typed, nil
}

// Asserts asks q and applies assertion to the answer.
func Asserts[T any](ctx context.Context, actor *Actor, q Question, assertion func(T) error) error {
	answer, err := AsksAbout[T](ctx, actor, q)
	if err != nil {
		return err
	}
	return assertion(answer)
}
