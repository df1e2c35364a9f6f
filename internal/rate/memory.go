package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter replica el fixed-window del backend redis en proceso.
// Sirve para dev y para despliegues de una sola instancia.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string]int64
	start  time.Time
	max    int64
	window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   make(map[string]int64),
		start:  time.Now().UTC().Truncate(window),
		max:    int64(max),
		window: window,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	winStart := now.Truncate(l.window)
	if !winStart.Equal(l.start) {
		// nueva ventana, arrancamos contadores de cero
		l.hits = make(map[string]int64)
		l.start = winStart
	}

	l.hits[key]++
	hits := l.hits[key]
	allowed := hits <= l.max
	remaining := l.max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
	}
	if !allowed {
		res.RetryAfter = winStart.Add(l.window).Sub(now)
	}
	return res, nil
}
