package core

// limiter.go bounds how many contract validations run at once in the report
// server. Each validation reads a workbook into memory and may open several
// sample files, so requests beyond the limit wait up to maxWait for a slot
// and then fail with ErrTooManyValidations.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyValidations is returned when every slot stays busy for the
// whole wait time. Clients should retry after a short delay.
var ErrTooManyValidations = errors.New("too many concurrent validations, please try again later")

// DefaultMaxConcurrentValidations is the default limit for parallel validations.
const DefaultMaxConcurrentValidations = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// ValidationLimiter is a semaphore over contract validations.
type ValidationLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewValidationLimiter allows at most maxConcurrent validations at a time.
func NewValidationLimiter(maxConcurrent int, maxWait time.Duration) *ValidationLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentValidations
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &ValidationLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it.
func (l *ValidationLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyValidations
	}
}

// Release returns a slot taken by Acquire.
func (l *ValidationLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Do runs fn while holding a slot.
func (l *ValidationLimiter) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn(ctx)
}

// ActiveCount returns the number of validations holding a slot.
func (l *ValidationLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// WaitForDrain blocks until no validation is running or ctx is done. Used
// during server shutdown.
func (l *ValidationLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LimiterStatus is a snapshot of the limiter for the health endpoint.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *ValidationLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
