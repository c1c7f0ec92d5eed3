package testutil

import (
	"context"
	"sync"
	"time"

	"divanalyzer/internal/dividend"
)

// MockProvider is a mock implementation of the fetcher.Provider interface for testing
type MockProvider struct {
	HistoryFunc func(ctx context.Context, symbol string) ([]dividend.Record, error)
	NameFunc    func(ctx context.Context, symbol string) (string, error)

	mu    sync.Mutex
	calls []string
}

// Name implements the fetcher.Provider interface
func (m *MockProvider) Name() string {
	return "mock"
}

// DividendHistory implements the fetcher.Provider interface
func (m *MockProvider) DividendHistory(ctx context.Context, symbol string) ([]dividend.Record, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()

	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, symbol)
	}
	return nil, nil
}

// CompanyName implements the fetcher.Provider interface
func (m *MockProvider) CompanyName(ctx context.Context, symbol string) (string, error) {
	if m.NameFunc != nil {
		return m.NameFunc(ctx, symbol)
	}
	return "", nil
}

// Calls returns the symbols DividendHistory was called with, in order
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Result is the canned answer for one symbol
type Result struct {
	Records []dividend.Record
	Err     error
	Name    string
	NameErr error
}

// NewMockProvider creates a mock provider answering from a fixed table.
// Unknown symbols return an empty history.
func NewMockProvider(results map[string]Result) *MockProvider {
	return &MockProvider{
		HistoryFunc: func(ctx context.Context, symbol string) ([]dividend.Record, error) {
			r := results[symbol]
			return r.Records, r.Err
		},
		NameFunc: func(ctx context.Context, symbol string) (string, error) {
			r := results[symbol]
			return r.Name, r.NameErr
		},
	}
}

// Records builds a series from alternating dates ("2006-01-02") and amounts.
func Records(pairs ...any) []dividend.Record {
	out := make([]dividend.Record, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		date, err := time.Parse("2006-01-02", pairs[i].(string))
		if err != nil {
			panic(err)
		}
		out = append(out, dividend.NewRecord(date, pairs[i+1].(float64)))
	}
	return out
}

// FixedClock returns a clock stuck at the given "2006-01-02" date in UTC
func FixedClock(date string) func() time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}
