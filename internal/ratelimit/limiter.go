// Package ratelimit implements the per-client sliding window that protects
// model-backed routes.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Window is the span over which requests are counted.
const Window = 60 * time.Second

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits or rejects a request for key. Implementations never fail:
// a backend error is treated as an admission.
type Limiter interface {
	CheckAndRecord(ctx context.Context, key string, limitPerMinute int) Decision
}

// Clock returns the current time.
type Clock func() time.Time

// MemoryLimiter keeps windows in process memory. Windows are lost on restart.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     Clock

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewMemoryLimiter starts a limiter with a janitor that evicts idle keys every
// minute. Call Close to stop it.
func NewMemoryLimiter(clock Clock) *MemoryLimiter {
	if clock == nil {
		clock = time.Now
	}

	l := &MemoryLimiter{
		windows: make(map[string][]time.Time),
		now:     clock,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go l.janitor(time.Minute)

	return l
}

func (l *MemoryLimiter) CheckAndRecord(_ context.Context, key string, limitPerMinute int) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := prune(l.windows[key], now.Add(-Window))

	if len(kept) >= limitPerMinute {
		l.windows[key] = kept
		return Decision{Allowed: false, Remaining: 0, RetryAfter: Window}
	}

	kept = append(kept, now)
	l.windows[key] = kept

	return Decision{Allowed: true, Remaining: limitPerMinute - len(kept)}
}

// prune drops timestamps at or before cutoff. Timestamps are appended in
// order so the survivors are a suffix.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	out := make([]time.Time, len(ts)-i)
	copy(out, ts[i:])
	return out
}

// Len reports how many keys currently hold a window.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func (l *MemoryLimiter) janitor(every time.Duration) {
	defer close(l.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

func (l *MemoryLimiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-Window)
	for key, ts := range l.windows {
		kept := prune(ts, cutoff)
		if len(kept) == 0 {
			delete(l.windows, key)
			continue
		}
		l.windows[key] = kept
	}
}

// Close stops the janitor and waits for it to exit.
func (l *MemoryLimiter) Close() error {
	l.once.Do(func() { close(l.stop) })
	<-l.done
	return nil
}
