package dividend

import (
	"time"
)

// DefaultWindow approximates six months as 182 days.
const DefaultWindow = 182 * 24 * time.Hour

// Window returns the records dated on or after now-span, in their original
// order. Every returned date is converted into loc; when loc is nil the
// location of the first record is used, so a series coming from one exchange
// keeps that exchange's zone.
func Window(records []Record, now time.Time, span time.Duration, loc *time.Location) []Record {
	if len(records) == 0 {
		return []Record{}
	}

	if loc == nil {
		loc = records[0].Date.Location()
	}
	cutoff := now.In(loc).Add(-span)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		d := r.Date.In(loc)
		if d.Before(cutoff) {
			continue
		}
		out = append(out, Record{Date: d, Amount: r.Amount})
	}
	return out
}

// Cutoff reports the earliest date a record may carry to survive Window.
func Cutoff(now time.Time, span time.Duration) time.Time {
	return now.Add(-span)
}
