// Package export writes comparison results to tabular files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"divanalyzer/internal/coordinator"
	"divanalyzer/internal/dividend"
)

// DefaultFile is the comparison export written to the working directory.
const DefaultFile = "dividend_comparison.csv"

// Header is the first line of every comparison export.
var Header = []string{"Ticker", "Company", "Total Dividend", "Average Dividend"}

// WriteCSV writes rows in the given order with amounts at four decimals.
func WriteCSV(w io.Writer, rows []coordinator.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Ticker,
			r.Company,
			dividend.Format(r.Total),
			dividend.Format(r.Average),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes rows to path, creating parent directories. A partially
// written file is removed.
func SaveCSV(path string, rows []coordinator.Row) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
