package fetcher

import (
	"context"

	"divanalyzer/internal/dividend"
)

// Provider is the market-data source the analysis pipeline reads from.
// Implementations return structured *FetchError values so callers can tell a
// throttled request from an unknown symbol.
type Provider interface {
	// Name identifies the provider in logs, e.g. "yahoo".
	Name() string

	// DividendHistory returns the full dividend history for symbol,
	// ascending by date. An empty slice means the symbol never paid.
	DividendHistory(ctx context.Context, symbol string) ([]dividend.Record, error)

	// CompanyName returns the display name for symbol, or "" when the
	// provider has none.
	CompanyName(ctx context.Context, symbol string) (string, error)
}
