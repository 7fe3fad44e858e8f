package llm

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// breakerProvider wraps a Provider with a circuit breaker. After repeated
// upstream failures, calls fail fast with gobreaker.ErrOpenState until the
// cool-down elapses, and the assistant falls back to scripted replies.
type breakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[string]
}

// WithBreaker wraps the provider in a circuit breaker.
func WithBreaker(p Provider) Provider {
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &breakerProvider{inner: p, cb: cb}
}

func (b *breakerProvider) Name() string {
	return b.inner.Name()
}

func (b *breakerProvider) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.inner.Complete(ctx, prompt, opts)
	})
}

func (b *breakerProvider) CompleteWithSystem(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.inner.CompleteWithSystem(ctx, system, user, opts)
	})
}
