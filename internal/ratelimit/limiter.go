package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultPerSecond is the TMDB request ceiling.
const DefaultPerSecond = 40

// Limiter admits no more than a fixed number of calls within any trailing
// window, measured across all callers sharing the instance. It keeps a
// ledger of admission timestamps; an over-ceiling caller waits until the
// oldest admission ages out of the window, then retries admission in a
// loop rather than sleeping once and proceeding.
type Limiter struct {
	mu         sync.Mutex
	ceiling    int
	window     time.Duration
	admissions []time.Time
}

// New creates a limiter with a one-second trailing window.
func New(perSecond int) *Limiter {
	return newLimiter(perSecond, time.Second)
}

func newLimiter(ceiling int, window time.Duration) *Limiter {
	if ceiling <= 0 {
		ceiling = 1
	}
	return &Limiter{ceiling: ceiling, window: window}
}

// Execute admits the caller under the rate ceiling, then runs task.
// Task errors propagate unchanged; the limiter itself only fails when
// ctx is cancelled during an admission wait.
func (l *Limiter) Execute(ctx context.Context, task func() error) error {
	if err := l.wait(ctx); err != nil {
		return err
	}
	return task()
}

// Ceiling returns the configured per-window admission limit.
func (l *Limiter) Ceiling() int {
	return l.ceiling
}

func (l *Limiter) wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		l.pruneLocked(now)
		if len(l.admissions) < l.ceiling {
			l.admissions = append(l.admissions, now)
			l.mu.Unlock()
			return nil
		}
		waitTime := l.window - now.Sub(l.admissions[0])
		l.mu.Unlock()

		if waitTime <= 0 {
			continue
		}

		timer := time.NewTimer(waitTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// pruneLocked discards admissions older than the trailing window.
func (l *Limiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.admissions) && !l.admissions[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.admissions = append(l.admissions[:0], l.admissions[i:]...)
	}
}
