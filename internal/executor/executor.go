// Package executor wraps a single remote call with classification-aware
// retries. It knows nothing about what the wrapped operation does; listing
// workspaces, listing items and exporting one item all go through the same
// decorator.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fabric-archiver/internal/domain"
	"fabric-archiver/internal/httpx"
)

// Error is the terminal failure of an operation after the retry budget is
// spent (or immediately, for fatal failures). It carries the attempt count
// and the last classified error.
type Error struct {
	Op       string
	Attempts int
	Class    Class
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed (%s) after %d attempt(s): %v", e.Op, e.Class, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Execute runs fn, retrying rate-limited and transient failures per policy.
// The n-th rate-limited retry sleeps BaseDelay × BackoffMultiplier^(n-1)
// (or the server's Retry-After, when larger signals are pointless to ignore);
// transient retries sleep a flat BaseDelay. Fatal failures return at once.
// The returned attempt count is always ≥1 and at most MaxRetries+1.
func Execute(ctx context.Context, op string, policy domain.RetryPolicy, fn func(context.Context) error) (int, error) {
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}

		class := Classify(err)
		if class == ClassFatal || attempt > policy.MaxRetries {
			return attempt, &Error{Op: op, Attempts: attempt, Class: class, Err: err}
		}

		delay := policy.BaseDelay
		if class == ClassRateLimited {
			delay = policy.DelayFor(attempt)
			if ra := retryAfterHint(err); ra > delay {
				delay = ra
			}
		}

		if serr := sleep(ctx, delay); serr != nil {
			return attempt, &Error{Op: op, Attempts: attempt, Class: ClassFatal, Err: serr}
		}
	}
}

func retryAfterHint(err error) time.Duration {
	var herr *httpx.HTTPError
	if errors.As(err, &herr) {
		return herr.RetryAfter()
	}
	return 0
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("canceled while waiting to retry: %w", ctx.Err())
	}
}
