package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"divanalyzer/internal/coordinator"
	"divanalyzer/internal/dividend"
	"divanalyzer/internal/export"
	"divanalyzer/internal/fetcher"
	"divanalyzer/internal/pipeline"
	"divanalyzer/internal/ratelimit"
	"divanalyzer/internal/report"
	"divanalyzer/internal/testutil"
	"divanalyzer/internal/yahoo"
)

func noRetry() yahoo.Option {
	return yahoo.WithClientOptions(fetcher.ClientOptions{Timeout: 5 * time.Second, RetryCount: 0})
}

// TestIntegration_CompareAndExport runs the full comparison flow against a mock Yahoo server
func TestIntegration_CompareAndExport(t *testing.T) {
	server := testutil.NewYahooServer(t, map[string]testutil.Payer{
		"KO": {
			Name:      "The Coca-Cola Company",
			Dividends: testutil.Records("2024-01-15", 0.23, "2024-04-15", 0.24, "2024-07-15", 0.24),
		},
		"XOM": {Status: http.StatusInternalServerError},
		"PEP": {
			Name:      "PepsiCo, Inc.",
			Dividends: testutil.Records("2024-03-01", 1.265, "2024-06-01", 1.355),
		},
	})

	provider := yahoo.NewProvider(server.URL, noRetry())
	analyzer := pipeline.New(provider, pipeline.WithClock(testutil.FixedClock("2024-07-15")))
	coord := coordinator.New(analyzer, nil, nil)

	result, err := coord.Compare(context.Background(), []string{"KO", "XOM", "PEP"})
	if err != nil {
		t.Fatalf("Compare() returned unexpected error: %v", err)
	}

	if len(result.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(result.Rows))
	}
	if result.Rows[0].Ticker != "PEP" || result.Rows[1].Ticker != "KO" {
		t.Errorf("ranking = %s, %s; want PEP, KO", result.Rows[0].Ticker, result.Rows[1].Ticker)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Ticker != "XOM" {
		t.Fatalf("Skipped = %+v, want XOM only", result.Skipped)
	}
	if !fetcher.IsType(result.Skipped[0].Err, fetcher.ErrorTypeServer) {
		t.Errorf("XOM error = %v, want server error", result.Skipped[0].Err)
	}

	path := filepath.Join(t.TempDir(), export.DefaultFile)
	if err := export.SaveCSV(path, result.Rows); err != nil {
		t.Fatalf("SaveCSV() returned unexpected error: %v", err)
	}

	var console bytes.Buffer
	if err := report.Comparison(report.NewPrinter(&console, &console, false), result); err != nil {
		t.Fatalf("Comparison() returned unexpected error: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != len(result.Rows)+1 {
		t.Fatalf("CSV has %d lines, want %d", len(records), len(result.Rows)+1)
	}

	// Every exported total must match what the console shows.
	for i, row := range result.Rows {
		line := records[i+1]
		if line[0] != row.Ticker || line[1] != row.Company {
			t.Errorf("CSV line %d = %v, want %s/%s", i+1, line, row.Ticker, row.Company)
		}
		if line[2] != dividend.Format(row.Total) {
			t.Errorf("CSV total for %s = %s, want %s", row.Ticker, line[2], dividend.Format(row.Total))
		}
		if !strings.Contains(console.String(), line[2]) {
			t.Errorf("console output missing total %s for %s", line[2], row.Ticker)
		}
	}

	if records[1][2] != "2.6200" || records[2][2] != "0.7100" {
		t.Errorf("totals = %s, %s; want 2.6200, 0.7100", records[1][2], records[2][2])
	}
}

// TestIntegration_QuarterlyScenario checks windowing and quarterly sums through the Yahoo provider
func TestIntegration_QuarterlyScenario(t *testing.T) {
	server := testutil.NewYahooServer(t, map[string]testutil.Payer{
		"KO": {
			Name:      "The Coca-Cola Company",
			Dividends: testutil.Records("2023-06-15", 0.46, "2024-01-15", 0.23, "2024-04-15", 0.24, "2024-07-15", 0.24),
		},
	})

	analyzer := pipeline.New(yahoo.NewProvider(server.URL, noRetry()),
		pipeline.WithClock(testutil.FixedClock("2024-07-15")))

	out := analyzer.Analyze(context.Background(), "KO")
	if !out.OK() {
		t.Fatalf("Analyze() status = %s (%s, %v), want ok", out.Status, out.Reason, out.Err)
	}
	if len(out.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(out.Records))
	}

	want := map[string]string{"2024Q1": "0.23", "2024Q2": "0.24", "2024Q3": "0.24"}
	if len(out.Summary.Quarterly) != len(want) {
		t.Fatalf("len(Quarterly) = %d, want %d", len(out.Summary.Quarterly), len(want))
	}
	for _, q := range out.Summary.Quarterly {
		if got := q.Sum.String(); got != want[q.Quarter.String()] {
			t.Errorf("%s = %s, want %s", q.Quarter, got, want[q.Quarter.String()])
		}
	}
	if got := out.Summary.Total.String(); got != "0.71" {
		t.Errorf("Total = %s, want 0.71", got)
	}
}

// TestIntegration_PacedComparison verifies the delay between consecutive tickers
func TestIntegration_PacedComparison(t *testing.T) {
	server := testutil.NewYahooServer(t, map[string]testutil.Payer{
		"KO":  {Name: "KO", Dividends: testutil.Records("2024-04-15", 0.24)},
		"PEP": {Name: "PEP", Dividends: testutil.Records("2024-06-01", 1.355)},
		"PG":  {Name: "PG", Dividends: testutil.Records("2024-04-19", 1.0065)},
	})

	delay := 50 * time.Millisecond
	limiter := ratelimit.New(map[ratelimit.API]time.Duration{ratelimit.APIComparison: delay})
	analyzer := pipeline.New(yahoo.NewProvider(server.URL, noRetry()),
		pipeline.WithClock(testutil.FixedClock("2024-07-15")))
	coord := coordinator.New(analyzer, limiter.For(ratelimit.APIComparison), nil)

	start := time.Now()
	result, err := coord.Compare(context.Background(), []string{"KO", "PEP", "PG"})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Compare() returned unexpected error: %v", err)
	}
	if len(result.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(result.Rows))
	}
	// The first ticker runs immediately, the other two wait one delay each.
	if elapsed < 2*delay-10*time.Millisecond {
		t.Errorf("Compare() took %v, want at least %v", elapsed, 2*delay)
	}
}

// TestIntegration_ContextTimeout tests that a slow provider cannot hang the comparison
func TestIntegration_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	analyzer := pipeline.New(yahoo.NewProvider(server.URL, noRetry()))
	coord := coordinator.New(analyzer, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := coord.Compare(ctx, []string{"KO", "PEP"})
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Compare() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed > time.Second {
		t.Errorf("Compare() took %v, expected to stop at the deadline", elapsed)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return records
}
