package report

import (
	"fmt"
	"time"

	"divanalyzer/internal/coordinator"
	"divanalyzer/internal/dividend"
	"divanalyzer/internal/pipeline"
)

const dateLayout = "2006-01-02"

// Analysis prints one ticker's windowed dividends, statistics and quarterly
// sums. Outcomes without data print a single explanatory line.
func Analysis(p *Printer, out pipeline.Outcome, cutoff time.Time) error {
	switch out.Status {
	case pipeline.StatusFetchFailed:
		p.Error("Error fetching dividends for %s: %v", out.Symbol, out.Err)
		return nil
	case pipeline.StatusNoData:
		if out.Reason == pipeline.ReasonNoHistory {
			p.Warning("No dividend history found for %s.", out.Symbol)
		} else {
			p.Warning("No dividends found for %s since %s.", out.Symbol, cutoff.Format(dateLayout))
		}
		return nil
	}

	p.Header(fmt.Sprintf("Dividends for %s since %s", out.Symbol, cutoff.Format(dateLayout)))
	records := NewTable(p.Out(), []string{"Date", "Dividend"}, 1)
	for _, r := range out.Records {
		records.AddRow(r.Date.Format(dateLayout), dividend.Format(r.Amount))
	}
	if err := records.Render(); err != nil {
		return fmt.Errorf("render dividends table: %w", err)
	}

	s := out.Summary
	p.Print("")
	p.Print("Total dividend sum: %s", p.Bold(dividend.Format(s.Total)))
	p.Print("Average dividend:   %s", dividend.Format(s.Mean))
	p.Print("Median dividend:    %s", dividend.Format(s.Median))

	p.Header("Quarterly dividend sums")
	quarters := NewTable(p.Out(), []string{"Quarter", "Dividends"}, 1)
	for _, q := range s.Quarterly {
		quarters.AddRow(q.Quarter.String(), dividend.Format(q.Sum))
	}
	if err := quarters.Render(); err != nil {
		return fmt.Errorf("render quarterly table: %w", err)
	}
	return nil
}

// Comparison prints the ranked comparison table followed by the tickers
// that were left out.
func Comparison(p *Printer, cmp *coordinator.Comparison) error {
	if cmp == nil || len(cmp.Rows) == 0 {
		if cmp != nil {
			skipped(p, cmp.Skipped)
		}
		p.Warning("No comparison data could be generated.")
		return nil
	}

	p.Header("Top Dividend Stocks (Last 6 Months)")
	table := NewTable(p.Out(), []string{"Ticker", "Company", "Total Dividend", "Average Dividend"}, 2, 3)
	for _, r := range cmp.Rows {
		table.AddRow(r.Ticker, r.Company, dividend.Format(r.Total), dividend.Format(r.Average))
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render comparison table: %w", err)
	}

	skipped(p, cmp.Skipped)
	return nil
}

func skipped(p *Printer, list []coordinator.Skipped) {
	for _, s := range list {
		if s.Err != nil {
			p.Warning("Skipped %s due to error: %v", s.Ticker, s.Err)
		} else {
			p.Warning("Skipped %s: %s.", s.Ticker, s.Reason)
		}
	}
}
