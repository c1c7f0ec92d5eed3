// Package pipeline runs fetch, window and aggregate for a single ticker.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"divanalyzer/internal/dividend"
	"divanalyzer/internal/fetcher"
)

// Analyzer runs the per-ticker pipeline against a Provider.
type Analyzer struct {
	provider fetcher.Provider
	window   time.Duration
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an Analyzer.
type Option func(a *Analyzer)

// WithWindow sets the trailing window length.
func WithWindow(d time.Duration) Option {
	return func(a *Analyzer) {
		a.window = d
	}
}

// WithLocation forces every record into loc before windowing. By default the
// series keeps the provider's zone.
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) {
		a.location = loc
	}
}

// WithClock replaces time.Now as the reference for the window.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// New creates an Analyzer.
func New(provider fetcher.Provider, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider: provider,
		window:   dividend.DefaultWindow,
		now:      time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Provider returns the underlying provider.
func (a *Analyzer) Provider() fetcher.Provider {
	return a.provider
}

// Cutoff returns the oldest date kept by Analyze, in the zone records are
// converted to when one is set.
func (a *Analyzer) Cutoff() time.Time {
	cutoff := dividend.Cutoff(a.now(), a.window)
	if a.location != nil {
		cutoff = cutoff.In(a.location)
	}
	return cutoff
}

// Analyze fetches symbol's dividend history, keeps the trailing window and
// summarizes it. It never returns an error; failures are reported through
// the Outcome status.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) Outcome {
	out := Outcome{Symbol: symbol}
	logger := a.logger.With("symbol", symbol, "provider", a.provider.Name())

	history, err := a.provider.DividendHistory(ctx, symbol)
	if err != nil {
		logger.Warn("failed to fetch dividends", "error", err)
		out.Status = StatusFetchFailed
		out.Err = err
		return out
	}

	if len(history) == 0 {
		logger.Info("no dividend history found")
		out.Status = StatusNoData
		out.Reason = ReasonNoHistory
		out.Records = []dividend.Record{}
		return out
	}

	out.Records = dividend.Window(history, a.now(), a.window, a.location)
	logger.Debug("windowed dividends", "history", len(history), "kept", len(out.Records))

	summary, err := dividend.Summarize(out.Records)
	if err != nil {
		logger.Info("no dividends in window", "window", a.window)
		out.Status = StatusNoData
		out.Reason = ReasonNoneInWindow
		return out
	}

	out.Status = StatusOK
	out.Summary = summary
	return out
}
