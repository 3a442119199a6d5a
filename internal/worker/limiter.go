package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter rate-limits outbound requests per host, so probing one slow
// or strict source never starves the others.
type Limiter struct {
	hosts        map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with a shared default rate for every host
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		hosts:        make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the URL's host has capacity or ctx is done
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostFromURL(rawURL)
	if err != nil {
		return err
	}

	return l.forHost(host).Wait(ctx)
}

// Allow reports whether a request to the URL's host may proceed now
func (l *Limiter) Allow(rawURL string) bool {
	host, err := hostFromURL(rawURL)
	if err != nil {
		return false
	}

	return l.forHost(host).Allow()
}

// WaitWithDelay waits for capacity, then sleeps the extra delay. Used
// to honor crawl delays from robots.txt.
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, extra time.Duration) error {
	if err := l.Wait(ctx, rawURL); err != nil {
		return err
	}

	if extra > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(extra):
		}
	}

	return nil
}

func (l *Limiter) forHost(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.hosts[host]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Re-check under the write lock
	if limiter, exists := l.hosts[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.hosts[host] = limiter

	return limiter
}

func hostFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
