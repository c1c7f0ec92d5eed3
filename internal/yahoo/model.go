package yahoo

// ChartResponse is the raw v8 chart payload. Only the parts used for dividend
// history and company metadata are mapped.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

// ChartResult is one element of chart.result.
type ChartResult struct {
	Meta   Meta   `json:"meta"`
	Events Events `json:"events"`
}

// Meta carries symbol metadata.
type Meta struct {
	Currency             string `json:"currency"`
	Symbol               string `json:"symbol"`
	ExchangeName         string `json:"exchangeName"`
	FullExchangeName     string `json:"fullExchangeName"`
	ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	LongName             string `json:"longName"`
	ShortName            string `json:"shortName"`
}

// Events holds corporate actions keyed by the unix timestamp as a string.
type Events struct {
	Dividends map[string]DividendEvent `json:"dividends"`
}

// DividendEvent is one dividend payment.
type DividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

// ChartError is returned in place of results, e.g. for unknown symbols.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
