package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Listener feeds events from one subscription into the Bubble Tea update
// loop. Each Next command yields a single Event[T]; the model calls Next again
// after handling it.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// Listen subscribes to src for the lifetime of ctx.
func Listen[T any](ctx context.Context, src Subscriber[T]) *Listener[T] {
	return &Listener[T]{ctx: ctx, ch: src.Subscribe(ctx)}
}

// Next returns a command that waits for the next event. The command yields
// nil once ctx is done or the subscription is closed, which ends the loop.
func (l *Listener[T]) Next() tea.Cmd {
	if l == nil {
		return nil
	}
	return waitFor(l.ctx, l.ch)
}

func waitFor[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}
