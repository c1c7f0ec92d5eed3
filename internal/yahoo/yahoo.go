// Package yahoo reads dividend history and company names from the Yahoo
// Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"resty.dev/v3"

	"divanalyzer/internal/dividend"
	"divanalyzer/internal/fetcher"
	"divanalyzer/internal/ratelimit"
)

// DefaultBaseURL is the public chart API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

const chartPath = "/v8/finance/chart/{symbol}"

type options struct {
	client  fetcher.ClientOptions
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// Option configures a Provider.
type Option func(o options) options

// WithClientOptions overrides timeout and retry settings.
func WithClientOptions(c fetcher.ClientOptions) Option {
	return func(o options) options {
		o.client = c
		return o
	}
}

// WithLimiter makes every request wait on the ratelimit.APIYahoo limit.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(o options) options {
		o.limiter = l
		return o
	}
}

// WithLogger sets the logger for retries and skipped events.
func WithLogger(l *slog.Logger) Option {
	return func(o options) options {
		o.logger = l
		return o
	}
}

// Provider implements fetcher.Provider against Yahoo Finance.
type Provider struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// NewProvider creates a Yahoo provider talking to baseURL.
func NewProvider(baseURL string, os ...Option) *Provider {
	opts := options{client: fetcher.DefaultClientOptions()}
	for _, o := range os {
		opts = o(opts)
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}
	opts.client.Logger = opts.logger

	return &Provider{
		client:  fetcher.NewHTTPClient(baseURL, opts.client),
		limiter: opts.limiter,
		logger:  opts.logger,
	}
}

// Name implements fetcher.Provider.
func (p *Provider) Name() string {
	return "yahoo"
}

// DividendHistory returns every dividend Yahoo knows for symbol, ascending by
// date and localized to the listing exchange's time zone.
func (p *Provider) DividendHistory(ctx context.Context, symbol string) ([]dividend.Record, error) {
	result, err := p.chart(ctx, symbol, map[string]string{
		"range":    "max",
		"interval": "1mo",
		"events":   "div",
	})
	if err != nil {
		return nil, err
	}

	return ParseDividends(result, p.logger)
}

// CompanyName returns meta.longName, falling back to meta.shortName.
func (p *Provider) CompanyName(ctx context.Context, symbol string) (string, error) {
	result, err := p.chart(ctx, symbol, map[string]string{
		"range":    "1d",
		"interval": "1d",
	})
	if err != nil {
		return "", err
	}

	if name := strings.TrimSpace(result.Meta.LongName); name != "" {
		return name, nil
	}
	return strings.TrimSpace(result.Meta.ShortName), nil
}

func (p *Provider) chart(ctx context.Context, symbol string, query map[string]string) (*ChartResult, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, ratelimit.APIYahoo); err != nil {
			return nil, err
		}
	}

	var result ChartResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(query).
		SetResult(&result).
		Get(chartPath)

	if err != nil {
		return nil, fetcher.ClassifyTransportError(symbol, err)
	}

	if !resp.IsSuccess() {
		fe := fetcher.ClassifyHTTPError(symbol, resp.StatusCode())
		var failure ChartResponse
		if json.Unmarshal([]byte(resp.String()), &failure) == nil &&
			failure.Chart.Error != nil && failure.Chart.Error.Description != "" {
			fe.Message = failure.Chart.Error.Description
		}
		return nil, fe
	}

	if result.Chart.Error != nil {
		return nil, fetcher.NewNotFoundError(symbol, 0, result.Chart.Error.Description)
	}

	if len(result.Chart.Result) == 0 {
		return nil, fetcher.NewNotFoundError(symbol, 0, "no results returned")
	}

	return &result.Chart.Result[0], nil
}

// ParseDividends converts chart events into records in the exchange's zone.
// Events with a malformed key and no date field are skipped.
func ParseDividends(result *ChartResult, logger *slog.Logger) ([]dividend.Record, error) {
	if result == nil {
		return nil, fmt.Errorf("nil chart result")
	}
	if logger == nil {
		logger = slog.Default()
	}

	loc := exchangeLocation(result.Meta.ExchangeTimezoneName)

	records := make([]dividend.Record, 0, len(result.Events.Dividends))
	for key, ev := range result.Events.Dividends {
		ts := ev.Date
		if ts == 0 {
			parsed, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				logger.Debug("skipping dividend event with bad timestamp",
					"symbol", result.Meta.Symbol, "key", key)
				continue
			}
			ts = parsed
		}
		records = append(records, dividend.NewRecord(time.Unix(ts, 0).In(loc), ev.Amount))
	}

	dividend.SortByDate(records)
	return records, nil
}

func exchangeLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
