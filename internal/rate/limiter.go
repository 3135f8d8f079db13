// Package rate implementa rate limiting fixed-window para el endpoint de login.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// MemoryLimiter: fixed window sencillo sobre go-cache (un proceso, sin redis).
// La clave de ventana incluye el inicio truncado, así el contador expira solo.
type MemoryLimiter struct {
	c      *gocache.Cache
	max    int64
	window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, time.Minute),
		max:    int64(max),
		window: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.window)
	cacheKey := fmt.Sprintf("%s:%d", strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	// Add falla si la clave ya existe; en ese caso incrementamos.
	var hits int64 = 1
	if err := l.c.Add(cacheKey, int64(1), l.window); err != nil {
		n, err := l.c.IncrementInt64(cacheKey, 1)
		if err != nil {
			// La entrada expiró entre Add e Increment: ventana nueva
			l.c.Set(cacheKey, int64(1), l.window)
			n = 1
		}
		hits = n
	}

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
		// Retry after: resto de la ventana
		res.RetryAfter = winStart.Add(l.window).Sub(now)
		if res.RetryAfter < 0 {
			res.RetryAfter = 0
		}
	}
	return res, nil
}
