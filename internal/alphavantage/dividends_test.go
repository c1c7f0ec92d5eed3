package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"divanalyzer/internal/fetcher"
)

func testOptions() fetcher.ClientOptions {
	return fetcher.ClientOptions{Timeout: 5 * time.Second, RetryCount: 0}
}

func jsonHandler(t *testing.T, body string, check func(r *http.Request)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

func TestNewProvider(t *testing.T) {
	p := NewProvider("test_api_key", DefaultBaseURL, testOptions(), nil)

	if p == nil {
		t.Fatal("NewProvider() returned nil")
	}
	if p.apiKey != "test_api_key" {
		t.Errorf("apiKey = %q, want %q", p.apiKey, "test_api_key")
	}
	if p.client == nil {
		t.Error("client is nil")
	}
	if got := p.Name(); got != "alphavantage" {
		t.Errorf("Name() = %q, want alphavantage", got)
	}
}

func TestProvider_DividendHistory_Success(t *testing.T) {
	body := `{
		"symbol": "IBM",
		"data": [
			{"ex_dividend_date": "2024-08-09", "declaration_date": "2024-07-30", "record_date": "2024-08-09", "payment_date": "2024-09-10", "amount": "1.67"},
			{"ex_dividend_date": "2024-05-09", "declaration_date": "2024-04-30", "record_date": "2024-05-10", "payment_date": "2024-06-10", "amount": "1.67"},
			{"ex_dividend_date": "None", "declaration_date": "None", "record_date": "None", "payment_date": "None", "amount": "0.10"},
			{"ex_dividend_date": "2024-02-08", "declaration_date": "2024-01-30", "record_date": "2024-02-09", "payment_date": "2024-03-09", "amount": "1.66"}
		]
	}`

	server := httptest.NewServer(jsonHandler(t, body, func(r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "DIVIDENDS" {
			t.Errorf("function = %q, want DIVIDENDS", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "IBM" {
			t.Errorf("symbol = %q, want IBM", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test_key" {
			t.Errorf("apikey = %q, want test_key", got)
		}
	}))
	defer server.Close()

	p := NewProvider("test_key", server.URL, testOptions(), nil)
	records, err := p.DividendHistory(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("DividendHistory() returned unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	wantDates := []string{"2024-02-08", "2024-05-09", "2024-08-09"}
	for i, want := range wantDates {
		if got := records[i].Date.Format("2006-01-02"); got != want {
			t.Errorf("records[%d].Date = %s, want %s", i, got, want)
		}
		if records[i].Date.Location() != time.UTC {
			t.Errorf("records[%d] location = %v, want UTC", i, records[i].Date.Location())
		}
	}

	if got := records[0].Amount.String(); got != "1.66" {
		t.Errorf("records[0].Amount = %s, want 1.66", got)
	}
}

func TestProvider_DividendHistory_UnknownSymbol(t *testing.T) {
	server := httptest.NewServer(jsonHandler(t, `{}`, nil))
	defer server.Close()

	p := NewProvider("test_key", server.URL, testOptions(), nil)
	_, err := p.DividendHistory(context.Background(), "ZZZZ")
	if !fetcher.IsType(err, fetcher.ErrorTypeNotFound) {
		t.Errorf("error = %v, want not_found", err)
	}
}

func TestProvider_DividendHistory_NoDividends(t *testing.T) {
	server := httptest.NewServer(jsonHandler(t, `{"symbol": "BRK-B", "data": []}`, nil))
	defer server.Close()

	p := NewProvider("test_key", server.URL, testOptions(), nil)
	records, err := p.DividendHistory(context.Background(), "BRK-B")
	if err != nil {
		t.Fatalf("DividendHistory() returned unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestProvider_DividendHistory_InvalidAmount(t *testing.T) {
	body := `{"symbol": "IBM", "data": [{"ex_dividend_date": "2024-08-09", "amount": "invalid_number"}]}`
	server := httptest.NewServer(jsonHandler(t, body, nil))
	defer server.Close()

	p := NewProvider("test_key", server.URL, testOptions(), nil)
	_, err := p.DividendHistory(context.Background(), "IBM")
	if !fetcher.IsType(err, fetcher.ErrorTypeValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestProvider_RateLimitResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"note", `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`},
		{"information", `{"Information": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(jsonHandler(t, tt.body, nil))
			defer server.Close()

			p := NewProvider("test_key", server.URL, testOptions(), nil)

			if _, err := p.DividendHistory(context.Background(), "IBM"); !fetcher.IsType(err, fetcher.ErrorTypeRateLimit) {
				t.Errorf("DividendHistory() error = %v, want rate_limit", err)
			}
			if _, err := p.CompanyName(context.Background(), "IBM"); !fetcher.IsType(err, fetcher.ErrorTypeRateLimit) {
				t.Errorf("CompanyName() error = %v, want rate_limit", err)
			}
		})
	}
}

func TestProvider_InvalidKey(t *testing.T) {
	server := httptest.NewServer(jsonHandler(t, `{"Error Message": "Invalid API call."}`, nil))
	defer server.Close()

	p := NewProvider("bad", server.URL, testOptions(), nil)
	_, err := p.DividendHistory(context.Background(), "IBM")
	if !fetcher.IsType(err, fetcher.ErrorTypeClient) {
		t.Errorf("error = %v, want client error", err)
	}
}

func TestProvider_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewProvider("test_key", server.URL, testOptions(), nil)
	if _, err := p.DividendHistory(context.Background(), "IBM"); err == nil {
		t.Error("DividendHistory() expected error, got nil")
	}
}

func TestProvider_CompanyName(t *testing.T) {
	body := `{"Symbol": "IBM", "AssetType": "Common Stock", "Name": "International Business Machines", "Exchange": "NYSE", "Currency": "USD"}`
	server := httptest.NewServer(jsonHandler(t, body, func(r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "OVERVIEW" {
			t.Errorf("function = %q, want OVERVIEW", got)
		}
	}))
	defer server.Close()

	p := NewProvider("test_key", server.URL, testOptions(), nil)
	name, err := p.CompanyName(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("CompanyName() returned unexpected error: %v", err)
	}
	if name != "International Business Machines" {
		t.Errorf("CompanyName() = %q, want %q", name, "International Business Machines")
	}
}

func TestProvider_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	p := NewProvider("test_key", server.URL, testOptions(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.DividendHistory(ctx, "IBM"); err == nil {
		t.Error("DividendHistory() expected error for cancelled context, got nil")
	}
}
