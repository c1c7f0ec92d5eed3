package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIYahoo represents the Yahoo Finance chart API
	APIYahoo API = "yahoo"
	// APIAlphaVantage represents the AlphaVantage API
	APIAlphaVantage API = "alphavantage"
	// APIComparison paces the tickers of a comparison batch
	APIComparison API = "comparison"
)

// Pacer blocks until the next event may proceed. *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Limiter manages rate limits for different APIs
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

// New creates a Limiter with one event per interval for each API. A zero or
// negative interval leaves that API unlimited.
func New(intervals map[API]time.Duration) *Limiter {
	l := &Limiter{
		limiters: make(map[API]*rate.Limiter, len(intervals)),
	}
	for api, d := range intervals {
		l.SetInterval(api, d)
	}
	return l
}

// SetInterval replaces the limit for api with one event per d. The first
// event after the change is admitted immediately.
func (l *Limiter) SetInterval(api API, d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[api] = newLimiter(d)
}

// Interval returns the configured spacing for api, zero when unlimited.
func (l *Limiter) Interval(api API) time.Duration {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists || limiter.Limit() == rate.Inf {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(limiter.Limit()))
}

// For returns the pacer for api. APIs without a configured limit get an
// unlimited pacer.
func (l *Limiter) For(api API) Pacer {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return newLimiter(0)
	}
	return limiter
}

// Wait blocks until the rate limiter permits an event for the given API
// It returns an error if the context is canceled before the event can proceed
func (l *Limiter) Wait(ctx context.Context, api API) error {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return ctx.Err()
	}

	return limiter.Wait(ctx)
}

func newLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}
