package agent

import (
	"context"
	"log"
	"time"
)

// DefaultMaxAttempts bounds one operation to the original call plus two retries.
const DefaultMaxAttempts = 3

// Retrier reruns failed agent calls according to their failure class.
type Retrier struct {
	MaxAttempts int
	// Sleep waits between attempts; overridable so tests run without delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrier builds a retrier with the default attempt budget.
func NewRetrier() *Retrier {
	return &Retrier{
		MaxAttempts: DefaultMaxAttempts,
		Sleep:       sleepCtx,
	}
}

// Do runs fn until it succeeds, fails with a non-retryable class, or the
// attempt budget is exhausted. The returned error is always a *CallError.
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var last *CallError
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		last = ClassifyErr(op, err)
		if !last.Class.Retryable() {
			log.Printf("op=%s attempt=%d class=%s non-retryable: %v", op, attempt+1, last.Class, last.Err)
			return last
		}
		if attempt == attempts-1 {
			break
		}

		delay := backoffDelay(last.Class, attempt)
		log.Printf("op=%s attempt=%d class=%s retrying in %s: %v", op, attempt+1, last.Class, delay, last.Err)
		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return &CallError{Op: op, Class: ClassNetwork, Err: sleepErr}
		}
	}

	log.Printf("op=%s all %d attempts failed: %v", op, attempts, last.Err)
	return last
}

func (r *Retrier) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	return sleepCtx(ctx, d)
}

// backoffDelay returns the inter-attempt delay for a zero-based attempt index.
// Transient and network failures back off 1s, 2s; rate limits wait twice as
// long, capped at 30s.
func backoffDelay(class Class, attempt int) time.Duration {
	base := time.Duration(1<<attempt) * time.Second
	if class == ClassRateLimited {
		doubled := 2 * base
		if doubled > 30*time.Second {
			return 30 * time.Second
		}
		return doubled
	}
	return base
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
