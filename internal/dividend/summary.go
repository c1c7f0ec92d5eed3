package dividend

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoData is returned by Summarize when there is nothing to aggregate.
var ErrNoData = errors.New("no dividend data")

// DisplayPlaces is the number of decimals amounts are rounded to for output.
const DisplayPlaces = 4

// Quarter identifies a calendar quarter.
type Quarter struct {
	Year int
	Q    int
}

// QuarterOf returns the calendar quarter t falls in, in t's own location.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

// String formats the quarter as "2024Q1".
func (q Quarter) String() string {
	return fmt.Sprintf("%dQ%d", q.Year, q.Q)
}

// Before reports whether q is chronologically earlier than o.
func (q Quarter) Before(o Quarter) bool {
	if q.Year != o.Year {
		return q.Year < o.Year
	}
	return q.Q < o.Q
}

// QuarterSum is the total paid within one quarter.
type QuarterSum struct {
	Quarter Quarter
	Sum     decimal.Decimal
}

// Summary holds the statistics of a non-empty record series.
// The quarterly sums always add up to Total exactly.
type Summary struct {
	Count     int
	Mean      decimal.Decimal
	Median    decimal.Decimal
	Total     decimal.Decimal
	Quarterly []QuarterSum
}

// Summarize computes mean, median, total and the per-quarter sums of records.
// Quarters are returned in chronological order and only when they hold at
// least one record.
func Summarize(records []Record) (*Summary, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	total := decimal.Zero
	buckets := make(map[Quarter]decimal.Decimal)
	for _, r := range records {
		total = total.Add(r.Amount)
		q := QuarterOf(r.Date)
		if sum, ok := buckets[q]; ok {
			buckets[q] = sum.Add(r.Amount)
		} else {
			buckets[q] = r.Amount
		}
	}

	quarterly := make([]QuarterSum, 0, len(buckets))
	for q, sum := range buckets {
		quarterly = append(quarterly, QuarterSum{Quarter: q, Sum: sum})
	}
	sort.Slice(quarterly, func(i, j int) bool {
		return quarterly[i].Quarter.Before(quarterly[j].Quarter)
	})

	n := decimal.NewFromInt(int64(len(records)))
	return &Summary{
		Count:     len(records),
		Mean:      total.Div(n),
		Median:    Median(Amounts(records)),
		Total:     total,
		Quarterly: quarterly,
	}, nil
}

// Median returns the middle value of amounts, or the mean of the two middle
// values for an even count. It returns zero for an empty slice.
func Median(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}

	sorted := make([]decimal.Decimal, len(amounts))
	copy(sorted, amounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

// Round rounds d to DisplayPlaces decimals.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(DisplayPlaces)
}

// Format renders d with exactly DisplayPlaces decimals.
func Format(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}
