package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"divanalyzer/internal/dividend"
	"divanalyzer/internal/yahoo"
)

// Payer is a symbol served by NewYahooServer.
type Payer struct {
	Name      string
	Dividends []dividend.Record
	// Status, when set, is returned instead of a chart.
	Status int
}

// marketOpen shifts a calendar date to the New York open so it stays on the
// same day once localized.
const marketOpen = 14*time.Hour + 30*time.Minute

// NewYahooServer starts a fake v8 chart API. Symbols missing from payers get
// the 404 Yahoo sends for unknown tickers. The server is closed with the test.
func NewYahooServer(t testing.TB, payers map[string]Payer) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol, ok := strings.CutPrefix(r.URL.Path, "/v8/finance/chart/")
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		payer, ok := payers[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
			return
		}
		if payer.Status != 0 {
			w.WriteHeader(payer.Status)
			w.Write([]byte(`{}`))
			return
		}

		var resp yahoo.ChartResponse
		result := yahoo.ChartResult{
			Meta: yahoo.Meta{
				Currency:             "USD",
				Symbol:               symbol,
				ExchangeTimezoneName: "America/New_York",
				LongName:             payer.Name,
			},
			Events: yahoo.Events{Dividends: map[string]yahoo.DividendEvent{}},
		}
		for _, d := range payer.Dividends {
			ts := d.Date.Add(marketOpen).Unix()
			result.Events.Dividends[strconv.FormatInt(ts, 10)] = yahoo.DividendEvent{
				Amount: d.Amount.InexactFloat64(),
				Date:   ts,
			}
		}
		resp.Chart.Result = []yahoo.ChartResult{result}

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode chart for %s: %v", symbol, err)
		}
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}
