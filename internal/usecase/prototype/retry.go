package prototype

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain"
)

// Retry bounds BuildWithRetry. Backoff doubles after every failed attempt.
type Retry struct {
	Attempts       int
	Backoff        time.Duration
	AttemptTimeout time.Duration
}

// BuildWithRetry calls Build until it succeeds, r.Attempts are used up or ctx
// is done. The last build error is returned.
func BuildWithRetry(ctx context.Context, embedder domain.Embedder, r Retry, logger *zap.Logger) (*Table, error) {
	attempts := max(r.Attempts, 1)
	backoff := r.Backoff

	for attempt := 1; ; attempt++ {
		table, err := buildOnce(ctx, embedder, r.AttemptTimeout, logger)
		if err == nil {
			return table, nil
		}
		if attempt >= attempts {
			return nil, fmt.Errorf("build prototypes after %d attempts: %w", attempts, err)
		}

		logger.Warn("Prototype build failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("build prototypes: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func buildOnce(ctx context.Context, embedder domain.Embedder, timeout time.Duration, logger *zap.Logger) (*Table, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return Build(ctx, embedder, logger)
}
