package pipeline

import (
	"divanalyzer/internal/dividend"
)

// Status tells callers how a ticker analysis ended.
type Status string

const (
	// StatusOK means Summary is populated.
	StatusOK Status = "ok"
	// StatusNoData means the provider answered but nothing was left to
	// aggregate. Reason says why.
	StatusNoData Status = "no_data"
	// StatusFetchFailed means the provider call failed. Err holds the cause.
	StatusFetchFailed Status = "fetch_failed"
)

// Reasons attached to StatusNoData outcomes.
const (
	ReasonNoHistory    = "no dividend history"
	ReasonNoneInWindow = "no dividends in window"
)

// Outcome represents the result of analyzing one ticker.
// Records holds the windowed series whenever the fetch succeeded.
type Outcome struct {
	Symbol  string
	Status  Status
	Records []dividend.Record
	Summary *dividend.Summary
	Reason  string
	Err     error
}

// OK reports whether the outcome carries a summary.
func (o Outcome) OK() bool {
	return o.Status == StatusOK
}
