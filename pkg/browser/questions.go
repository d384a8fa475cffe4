package browser

import (
	"context"
	"fmt"

	"github.com/gobwas/glob"

	"github.com/entrhq/screenplay/pkg/screenplay"
)

// ask builds a question that reads from the actor's page.
func ask[T any](read func(ctx context.Context, page Page) (T, error)) screenplay.Question {
	return screenplay.QuestionFunc(func(ctx context.Context, actor *screenplay.Actor) (any, error) {
		page, err := PageOf(actor)
		if err != nil {
			return nil, err
		}
		v, err := read(ctx, page)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

// CurrentURL answers with the page URL as a string.
func CurrentURL() screenplay.Question {
	return ask(func(_ context.Context, page Page) (string, error) {
		return page.URL(), nil
	})
}

// PageTitle answers with the page title.
func PageTitle() screenplay.Question {
	return ask(func(ctx context.Context, page Page) (string, error) {
		return page.Title(ctx)
	})
}

// TextOf answers with the text of the element matching selector.
func TextOf(selector string) screenplay.Question {
	return ask(func(ctx context.Context, page Page) (string, error) {
		return page.TextContent(ctx, selector)
	})
}

// CountOf answers with the number of elements matching selector.
func CountOf(selector string) screenplay.Question {
	return ask(func(ctx context.Context, page Page) (int, error) {
		return page.Count(ctx, selector)
	})
}

// ValueOf answers with the value of the input matching selector.
func ValueOf(selector string) screenplay.Question {
	return ask(func(ctx context.Context, page Page) (string, error) {
		return page.InputValue(ctx, selector)
	})
}

// URLMatches answers whether the page URL matches a glob pattern. '*' stops
// at '/' and '**' crosses it.
func URLMatches(pattern string) (screenplay.Question, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid url pattern %q: %w", pattern, err)
	}
	return ask(func(_ context.Context, page Page) (bool, error) {
		return g.Match(page.URL()), nil
	}), nil
}
