package screenplay

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/screenplay/pkg/queue"
)

type notepad struct {
	lines []string
}

const (
	kindNotepad AbilityKind = "WriteNotes"
	kindClock   AbilityKind = "TellTime"
)

func write(line string) Interaction {
	return NewInteraction("Write", func(_ context.Context, actor *Actor) (any, error) {
		pad, err := UseAbility[*notepad](actor, kindNotepad)
		if err != nil {
			return nil, err
		}
		pad.lines = append(pad.lines, line)
		return line, nil
	})
}

func failing(err error) Interaction {
	return NewInteraction("Fail", func(context.Context, *Actor) (any, error) {
		return nil, err
	})
}

type writeTwice struct {
	Interactions
}

func (t writeTwice) PerformAs(ctx context.Context, actor *Actor) (any, error) {
	if err := t.AttemptInteractionsAs(ctx, actor); err != nil {
		return nil, err
	}
	return "done", nil
}

func TestActor_UseAbility(t *testing.T) {
	first, second := &notepad{}, &notepad{}
	actor := NewActor("alice",
		NewAbility(kindNotepad, first),
		NewAbility(kindNotepad, second),
	)

	provider, err := actor.UseAbility(kindNotepad)
	require.NoError(t, err)
	assert.Same(t, first, provider)

	_, err = actor.UseAbility(kindClock)
	var notFound *CapabilityNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, kindClock, notFound.Kind)
	assert.Contains(t, err.Error(), "'TellTime'")
}

func TestActor_UseAbility_DistinctKinds(t *testing.T) {
	pad := &notepad{}
	actor := NewActor("carol",
		NewAbility(kindNotepad, pad),
		NewAbility(kindClock, "clock"),
	)

	clock, err := actor.UseAbility(kindClock)
	require.NoError(t, err)
	assert.Equal(t, "clock", clock)

	provider, err := actor.UseAbility(kindNotepad)
	require.NoError(t, err)
	assert.Same(t, pad, provider)

	// lookups do not disturb each other
	clock, err = actor.UseAbility(kindClock)
	require.NoError(t, err)
	assert.Equal(t, "clock", clock)
}

func TestUseAbility_Typed(t *testing.T) {
	actor := NewActor("bob", NewAbility(kindClock, "noon"))

	v, err := UseAbility[string](actor, kindClock)
	require.NoError(t, err)
	assert.Equal(t, "noon", v)

	_, err = UseAbility[int](actor, kindClock)
	assert.ErrorIs(t, err, ErrAbilityType)

	_, err = UseAbility[*notepad](actor, kindNotepad)
	var notFound *CapabilityNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestActor_AbilitiesAreFixed(t *testing.T) {
	abilities := []Ability{NewAbility(kindNotepad, &notepad{})}
	actor := NewActor("alice", abilities...)

	abilities[0] = NewAbility(kindClock, "noon")

	_, err := actor.UseAbility(kindNotepad)
	assert.NoError(t, err)
	_, err = actor.UseAbility(kindClock)
	assert.Error(t, err)
}

func TestActor_Performs(t *testing.T) {
	ctx := context.Background()

	t.Run("task", func(t *testing.T) {
		pad := &notepad{}
		actor := NewActor("alice", NewAbility(kindNotepad, pad))

		result, err := actor.Performs(ctx, Do(writeTwice{NewInteractions(write("a"), write("b"))}))
		require.NoError(t, err)
		assert.Equal(t, "done", result)
		assert.Equal(t, []string{"a", "b"}, pad.lines)
	})

	t.Run("interaction result is returned", func(t *testing.T) {
		actor := NewActor("alice", NewAbility(kindNotepad, &notepad{}))

		result, err := actor.Performs(ctx, Attempt(write("x")))
		require.NoError(t, err)
		assert.Equal(t, "x", result)
	})

	t.Run("task sequence discards results", func(t *testing.T) {
		pad := &notepad{}
		actor := NewActor("alice", NewAbility(kindNotepad, pad))

		result, err := actor.Performs(ctx, DoAll(
			NewTask("one", write("1")),
			NewTask("two", write("2"), write("3")),
		))
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, []string{"1", "2", "3"}, pad.lines)
	})

	t.Run("interaction sequence stops at first error", func(t *testing.T) {
		pad := &notepad{}
		actor := NewActor("alice", NewAbility(kindNotepad, pad))
		boom := errors.New("boom")

		_, err := actor.Performs(ctx, AttemptAll(write("1"), failing(boom), write("2")))
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"1"}, pad.lines)
	})

	t.Run("missing ability surfaces", func(t *testing.T) {
		actor := NewActor("carol")

		_, err := actor.Performs(ctx, Attempt(write("x")))
		var notFound *CapabilityNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("empty sequence is a no-op", func(t *testing.T) {
		actor := NewActor("alice")

		empty, err := Many()
		require.NoError(t, err)
		result, err := actor.Performs(ctx, empty)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})
}

func TestInteractions_AttemptInteractionsAs(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	pad := &notepad{}
	actor := NewActor("alice", NewAbility(kindNotepad, pad))

	steps := NewInteractions(write("a"), failing(boom), write("b"))
	err := steps.AttemptInteractionsAs(ctx, actor)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, pad.lines)

	assert.NoError(t, NewInteractions().AttemptInteractionsAs(ctx, actor))
}

func TestInteractions_AttemptInteractionAs(t *testing.T) {
	ctx := context.Background()
	pad := &notepad{}
	actor := NewActor("alice", NewAbility(kindNotepad, pad))

	steps := NewInteractions(write("first"), write("second"))

	result, err := steps.AttemptInteractionAs(ctx, actor, "Write")
	require.NoError(t, err)
	assert.Equal(t, "first", result)
	assert.Equal(t, []string{"first"}, pad.lines)

	_, err = steps.AttemptInteractionAs(ctx, actor, "Erase")
	var notFound *InteractionNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, InteractionKind("Erase"), notFound.Kind)
	assert.Equal(t, "interaction with name of 'Erase' not found", err.Error())
}

func TestMany(t *testing.T) {
	task := NewTask("t")
	step := write("x")

	tests := []struct {
		name    string
		items   []any
		wantErr error
		want    Performable
	}{
		{name: "tasks", items: []any{task, task}, want: taskSequence{tasks: []Task{task, task}}},
		{name: "interactions", items: []any{step}, want: interactionSequence{interactions: []Interaction{step}}},
		{name: "task then interaction", items: []any{task, step}, wantErr: ErrMixedSequence},
		{name: "interaction then task", items: []any{step, task}, wantErr: ErrMixedSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Many(tt.items...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("%T", tt.want), fmt.Sprintf("%T", got))
		})
	}

	_, err := Many(42)
	assert.Error(t, err)
}

func TestSingle(t *testing.T) {
	p, err := Single(NewTask("t"))
	require.NoError(t, err)
	assert.IsType(t, taskPerformable{}, p)

	p, err = Single(write("x"))
	require.NoError(t, err)
	assert.IsType(t, interactionPerformable{}, p)

	_, err = Single("nope")
	assert.Error(t, err)
}

func TestAsksAbout(t *testing.T) {
	ctx := context.Background()
	pad := &notepad{lines: []string{"a", "b"}}
	actor := NewActor("alice", NewAbility(kindNotepad, pad))

	lineCount := QuestionFunc(func(_ context.Context, actor *Actor) (any, error) {
		p, err := UseAbility[*notepad](actor, kindNotepad)
		if err != nil {
			return nil, err
		}
		return len(p.lines), nil
	})

	n, err := AsksAbout[int](ctx, actor, lineCount)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = AsksAbout[string](ctx, actor, lineCount)
	assert.ErrorIs(t, err, ErrAnswerType)

	_, err = AsksAbout[int](ctx, NewActor("nobody"), lineCount)
	var notFound *CapabilityNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAsserts(t *testing.T) {
	ctx := context.Background()
	actor := NewActor("alice")
	answer := QuestionFunc(func(context.Context, *Actor) (any, error) { return "hello", nil })

	err := Asserts(ctx, actor, answer, func(s string) error {
		if s != "hello" {
			return fmt.Errorf("got %q", s)
		}
		return nil
	})
	assert.NoError(t, err)

	mismatch := errors.New("mismatch")
	err = Asserts(ctx, actor, answer, func(string) error { return mismatch })
	assert.ErrorIs(t, err, mismatch)

	assert.Panics(t, func() {
		_ = Asserts(ctx, actor, answer, func(string) error { panic("assertion exploded") })
	})
}

func TestActor_RunsThroughQueue(t *testing.T) {
	q := queue.New(nil)
	defer q.Close()

	pad := &notepad{}
	actor := New(Config{Name: "alice", Queue: q}, NewAbility(kindNotepad, pad))

	_, err := actor.Performs(context.Background(), Do(NewTask("nested",
		write("a"),
		NewInteraction("Ask", func(ctx context.Context, actor *Actor) (any, error) {
			// Questions asked from inside a queued command run inline.
			return actor.AsksAbout(ctx, QuestionFunc(func(context.Context, *Actor) (any, error) {
				return len(pad.lines), nil
			}))
		}),
		write("b"),
	)))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, pad.lines)
}
