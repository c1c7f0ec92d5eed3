package alphavantage

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"resty.dev/v3"

	"divanalyzer/internal/dividend"
	"divanalyzer/internal/fetcher"
	"divanalyzer/internal/ratelimit"
)

// DefaultBaseURL is the production query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// DividendsResponse represents the AlphaVantage DIVIDENDS response
type DividendsResponse struct {
	Symbol string           `json:"symbol"`
	Data   []DividendRecord `json:"data"`
	apiMessages
}

// DividendRecord is one entry of DividendsResponse.Data. Dates are
// "2006-01-02" or "None".
type DividendRecord struct {
	ExDividendDate  string `json:"ex_dividend_date"`
	DeclarationDate string `json:"declaration_date"`
	RecordDate      string `json:"record_date"`
	PaymentDate     string `json:"payment_date"`
	Amount          string `json:"amount"`
}

// OverviewResponse represents the subset of the OVERVIEW response we read
type OverviewResponse struct {
	Symbol    string `json:"Symbol"`
	AssetType string `json:"AssetType"`
	Name      string `json:"Name"`
	Exchange  string `json:"Exchange"`
	Currency  string `json:"Currency"`
	apiMessages
}

// apiMessages are the keys AlphaVantage uses instead of HTTP status codes.
type apiMessages struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (m apiMessages) check(symbol string) error {
	if m.Note != "" {
		return fetcher.NewRateLimitError(symbol, 0, m.Note)
	}
	if m.Information != "" {
		return fetcher.NewRateLimitError(symbol, 0, m.Information)
	}
	if m.ErrorMessage != "" {
		return fetcher.NewClientError(symbol, 0, m.ErrorMessage)
	}
	return nil
}

// Provider fetches dividend history and company names from AlphaVantage
type Provider struct {
	apiKey  string
	client  *resty.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// NewProvider creates a new AlphaVantage provider. limiter may be nil.
func NewProvider(apiKey, baseURL string, opts fetcher.ClientOptions, limiter *ratelimit.Limiter) *Provider {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Provider{
		apiKey:  apiKey,
		client:  fetcher.NewHTTPClient(baseURL, opts),
		limiter: limiter,
		logger:  logger,
	}
}

// Name implements fetcher.Provider
func (p *Provider) Name() string {
	return "alphavantage"
}

// DividendHistory retrieves every recorded dividend for symbol, keyed by
// ex-dividend date in UTC.
func (p *Provider) DividendHistory(ctx context.Context, symbol string) ([]dividend.Record, error) {
	var result DividendsResponse
	if err := p.query(ctx, symbol, "DIVIDENDS", &result); err != nil {
		return nil, err
	}

	if err := result.check(symbol); err != nil {
		return nil, err
	}

	if result.Symbol == "" && len(result.Data) == 0 {
		return nil, fetcher.NewNotFoundError(symbol, 0, "")
	}

	records := make([]dividend.Record, 0, len(result.Data))
	for _, d := range result.Data {
		date, err := time.Parse("2006-01-02", d.ExDividendDate)
		if err != nil {
			p.logger.Debug("skipping dividend without ex-dividend date",
				"symbol", symbol, "ex_dividend_date", d.ExDividendDate)
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(d.Amount))
		if err != nil {
			return nil, fetcher.NewValidationError(symbol, "failed to parse dividend amount: "+d.Amount)
		}

		records = append(records, dividend.Record{Date: date, Amount: amount})
	}

	dividend.SortByDate(records)
	return records, nil
}

// CompanyName returns the OVERVIEW Name field
func (p *Provider) CompanyName(ctx context.Context, symbol string) (string, error) {
	var result OverviewResponse
	if err := p.query(ctx, symbol, "OVERVIEW", &result); err != nil {
		return "", err
	}

	if err := result.check(symbol); err != nil {
		return "", err
	}

	return strings.TrimSpace(result.Name), nil
}

func (p *Provider) query(ctx context.Context, symbol, function string, out any) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
			return err
		}
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   p.apiKey,
			"function": function,
			"symbol":   symbol,
		}).
		SetResult(out).
		Get("")

	if err != nil {
		return fetcher.ClassifyTransportError(symbol, err)
	}

	if !resp.IsSuccess() {
		return fetcher.ClassifyHTTPError(symbol, resp.StatusCode())
	}

	return nil
}
