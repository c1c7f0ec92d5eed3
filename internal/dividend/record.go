// Package dividend holds the dividend time-series model together with the
// trailing-window filter and the summary aggregation run over it.
package dividend

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a single cash payout per share.
type Record struct {
	Date   time.Time
	Amount decimal.Decimal
}

// NewRecord builds a Record from a float amount as returned by JSON providers.
func NewRecord(date time.Time, amount float64) Record {
	return Record{Date: date, Amount: decimal.NewFromFloat(amount)}
}

// SortByDate orders records ascending by date in place. Equal dates keep
// their relative order.
func SortByDate(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}

// Amounts returns the amounts of records in order.
func Amounts(records []Record) []decimal.Decimal {
	out := make([]decimal.Decimal, len(records))
	for i, r := range records {
		out[i] = r.Amount
	}
	return out
}
