package synth

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const defaultAttemptTimeout = 30 * time.Second

// Chain tries backends in a fixed priority order until one succeeds. Each
// attempt is bounded by its own timeout; a backend that does not return in
// time counts as that backend's failure and the chain moves on.
type Chain struct {
	backends []Backend
	timeout  time.Duration
}

// NewChain builds a chain over the given backends, in priority order.
func NewChain(attemptTimeout time.Duration, backends ...Backend) *Chain {
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	return &Chain{backends: backends, timeout: attemptTimeout}
}

// Backends reports the registered backend names in attempt order.
func (c *Chain) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// Synthesize attempts each backend in order with the same request and
// returns the first success. The text is never re-truncated between
// attempts.
func (c *Chain) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if len(c.backends) == 0 {
		return nil, ErrNoBackends
	}

	var lastErr error
	for _, backend := range c.backends {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		audio, err := backend.Synthesize(attemptCtx, req)
		cancel()

		if err == nil {
			return &Result{Audio: audio, Backend: backend.Name()}, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("synthesis canceled: %w", ctx.Err())
		}

		slog.Warn("synthesis backend failed, trying next",
			"backend", backend.Name(),
			"language", req.Language,
			"error", err,
		)
	}

	return nil, fmt.Errorf("%w: last error: %v", ErrAllBackendsFailed, lastErr)
}
