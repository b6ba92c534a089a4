package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Eyevinn/moqabr/internal/abr"
	"github.com/Eyevinn/moqabr/internal/config"
)

type decider interface {
	Decide(ctx context.Context, category abr.Category, data any) (abr.Decision, error)
}

// decideWithRetry retries Decide while the catalog is unavailable. Other
// errors end the retry loop immediately.
func decideWithRetry(ctx context.Context, d decider, category abr.Category, data any,
	policy config.Retry, timeout time.Duration, logger *slog.Logger) (abr.Decision, error) {
	newBackoff := func() backoff.BackOff {
		ebo := backoff.NewExponentialBackOff()
		ebo.InitialInterval = time.Duration(policy.InitialIntervalMS) * time.Millisecond
		ebo.MaxInterval = time.Duration(policy.MaxIntervalMS) * time.Millisecond
		ebo.MaxElapsedTime = 0
		ebo.Reset()
		if policy.MaxAttempts > 1 {
			return backoff.WithMaxRetries(ebo, uint64(policy.MaxAttempts-1))
		}
		return &backoff.StopBackOff{}
	}

	var decision abr.Decision
	attempt := 0
	op := func() error {
		attempt++
		cycleCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			cycleCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		var err error
		decision, err = d.Decide(cycleCtx, category, data)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, abr.ErrCatalogUnavailable):
			logger.Warn("catalog unavailable", "category", category, "attempt", attempt, "error", err)
			return err
		default:
			return backoff.Permanent(err)
		}
	}

	if err := backoff.Retry(op, backoff.WithContext(newBackoff(), ctx)); err != nil {
		return abr.Decision{}, err
	}
	return decision, nil
}
