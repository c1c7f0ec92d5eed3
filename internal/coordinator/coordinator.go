package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"divanalyzer/internal/dividend"
	"divanalyzer/internal/pipeline"
	"divanalyzer/internal/ratelimit"
)

// DefaultTickers is the comparison universe used when none is configured.
var DefaultTickers = []string{
	"AAPL", "MSFT", "KO", "PG", "JNJ", "XOM",
	"PFE", "CVX", "VZ", "PEP",
}

// ErrNoComparisonData is returned when no ticker of a batch could be analyzed.
var ErrNoComparisonData = errors.New("no comparison data could be generated")

// Row is one successfully analyzed ticker. Total and Average are rounded to
// dividend.DisplayPlaces so console, chart and export agree.
type Row struct {
	Ticker  string
	Company string
	Total   decimal.Decimal
	Average decimal.Decimal
}

// Skipped records a ticker left out of the ranking and why.
type Skipped struct {
	Ticker string
	Status pipeline.Status
	Reason string
	Err    error
}

// Comparison is the ranked result of a batch.
type Comparison struct {
	Rows    []Row
	Skipped []Skipped
}

// Coordinator runs the ticker pipeline over a list, one ticker at a time
type Coordinator struct {
	analyzer *pipeline.Analyzer
	pacer    ratelimit.Pacer
	logger   *slog.Logger
}

// New creates a new Coordinator. pacer spaces consecutive tickers and may be nil.
func New(analyzer *pipeline.Analyzer, pacer ratelimit.Pacer, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		analyzer: analyzer,
		pacer:    pacer,
		logger:   logger,
	}
}

// Compare analyzes tickers in order and ranks the successful ones by total
// payout, highest first. A failing ticker is logged and skipped; only
// context cancellation stops the batch. Equal totals keep input order.
func (c *Coordinator) Compare(ctx context.Context, tickers []string) (*Comparison, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers configured")
	}

	result := &Comparison{}

	for _, ticker := range tickers {
		if c.pacer != nil {
			if err := c.pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("waiting to fetch %s: %w", ticker, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out := c.analyzer.Analyze(ctx, ticker)
		if !out.OK() {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Info("skipping ticker",
				"symbol", ticker,
				"status", out.Status,
				"reason", out.Reason,
				"error", out.Err)
			result.Skipped = append(result.Skipped, Skipped{
				Ticker: ticker,
				Status: out.Status,
				Reason: out.Reason,
				Err:    out.Err,
			})
			continue
		}

		result.Rows = append(result.Rows, Row{
			Ticker:  ticker,
			Company: c.companyName(ctx, ticker),
			Total:   dividend.Round(out.Summary.Total),
			Average: dividend.Round(out.Summary.Mean),
		})
	}

	if len(result.Rows) == 0 {
		return result, ErrNoComparisonData
	}

	Rank(result.Rows)
	return result, nil
}

// Rank sorts rows by total, highest first, keeping input order for ties.
func Rank(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.GreaterThan(rows[j].Total)
	})
}

// companyName falls back to the ticker when the provider has no name.
func (c *Coordinator) companyName(ctx context.Context, ticker string) string {
	name, err := c.analyzer.Provider().CompanyName(ctx, ticker)
	if err != nil {
		c.logger.Warn("company lookup failed, using ticker",
			"symbol", ticker,
			"error", err)
		return ticker
	}
	if name == "" {
		return ticker
	}
	return name
}
