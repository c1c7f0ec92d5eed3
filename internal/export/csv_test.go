package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divanalyzer/internal/coordinator"
)

func rows() []coordinator.Row {
	return []coordinator.Row{
		{Ticker: "XOM", Company: "Exxon Mobil Corporation", Total: decimal.RequireFromString("1.9"), Average: decimal.RequireFromString("0.95")},
		{Ticker: "KO", Company: "The Coca-Cola Company, Inc.", Total: decimal.RequireFromString("0.97"), Average: decimal.RequireFromString("0.485")},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows()))

	want := "Ticker,Company,Total Dividend,Average Dividend\n" +
		"XOM,Exxon Mobil Corporation,1.9000,0.9500\n" +
		"KO,\"The Coca-Cola Company, Inc.\",0.9700,0.4850\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Ticker,Company,Total Dividend,Average Dividend\n", buf.String())
}

func TestSaveCSV_RowCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DefaultFile)
	require.NoError(t, SaveCSV(path, rows()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, "XOM", records[1][0])
}

func TestSaveCSV_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := SaveCSV(filepath.Join(blocker, "nested", DefaultFile), rows())
	assert.Error(t, err)
}
