// Package chart renders quarterly and comparison bar charts as PNG files.
package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"divanalyzer/internal/coordinator"
	"divanalyzer/internal/dividend"
)

// ComparisonFile is the file name of the ranked comparison chart.
const ComparisonFile = "dividend_comparison.png"

var (
	quarterlyColor  = drawing.ColorFromHex("87ceeb") // sky blue
	comparisonColor = drawing.ColorFromHex("f08080") // light coral
)

type options struct {
	outputDir string
	width     int
	height    int
	barWidth  int
}

// Option configures a Renderer.
type Option func(o options) options

// OutputDir sets the directory charts are written to.
func OutputDir(dir string) Option {
	return func(o options) options {
		o.outputDir = dir
		return o
	}
}

// Size sets the minimum canvas size in pixels.
func Size(width, height int) Option {
	return func(o options) options {
		o.width = width
		o.height = height
		return o
	}
}

var defaultOptions = options{
	outputDir: ".",
	width:     1000,
	height:    600,
	barWidth:  60,
}

// Renderer writes bar charts to PNG files.
type Renderer struct {
	opts options
}

// NewRenderer creates a Renderer.
func NewRenderer(os ...Option) *Renderer {
	opts := defaultOptions
	for _, o := range os {
		opts = o(opts)
	}
	return &Renderer{opts: opts}
}

// Bar is one labelled value.
type Bar struct {
	Label string
	Value float64
}

// QuarterlyBars turns quarter sums into bars, chronological left to right.
func QuarterlyBars(quarters []dividend.QuarterSum) []Bar {
	bars := make([]Bar, len(quarters))
	for i, q := range quarters {
		bars[i] = Bar{Label: q.Quarter.String(), Value: q.Sum.InexactFloat64()}
	}
	return bars
}

// ComparisonBars turns ranked rows into bars in rank order.
func ComparisonBars(rows []coordinator.Row) []Bar {
	bars := make([]Bar, len(rows))
	for i, r := range rows {
		bars[i] = Bar{Label: r.Ticker, Value: r.Total.InexactFloat64()}
	}
	return bars
}

// Quarterly writes <symbol>_quarterly.png and returns its path.
func (r *Renderer) Quarterly(symbol string, quarters []dividend.QuarterSum) (string, error) {
	title := fmt.Sprintf("Quarterly Dividends for %s (Last 6 Months)", symbol)
	path := filepath.Join(r.opts.outputDir, symbol+"_quarterly.png")
	return path, r.writeFile(path, title, "Dividend Sum ($)", QuarterlyBars(quarters), quarterlyColor)
}

// Comparison writes the ranked comparison chart and returns its path.
func (r *Renderer) Comparison(rows []coordinator.Row) (string, error) {
	title := "Top Dividend Stocks - Total Payout (Last 6 Months)"
	path := filepath.Join(r.opts.outputDir, ComparisonFile)
	return path, r.writeFile(path, title, "Total Dividend ($)", ComparisonBars(rows), comparisonColor)
}

func (r *Renderer) writeFile(path, title, yName string, bars []Bar, fill drawing.Color) error {
	if len(bars) == 0 {
		return fmt.Errorf("no data to plot")
	}

	if err := os.MkdirAll(r.opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := r.Render(f, title, yName, bars, fill); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}

// Render draws bars as a PNG bar chart into w.
func (r *Renderer) Render(w io.Writer, title, yName string, bars []Bar, fill drawing.Color) error {
	if len(bars) == 0 {
		return fmt.Errorf("no data to plot")
	}

	maxValue := 0.0
	values := make([]gochart.Value, len(bars))
	for i, b := range bars {
		if b.Value > maxValue {
			maxValue = b.Value
		}
		values[i] = gochart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: gochart.Style{
				FillColor:   fill,
				StrokeColor: fill,
				StrokeWidth: 1,
			},
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	// go-chart needs room for every bar plus spacing.
	width := r.opts.width
	if need := len(bars)*(r.opts.barWidth+40) + 160; need > width {
		width = need
	}

	graph := gochart.BarChart{
		Title:      title,
		Background: gochart.Style{Padding: gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20}},
		Width:      width,
		Height:     r.opts.height,
		BarWidth:   r.opts.barWidth,
		XAxis: gochart.Style{
			TextRotationDegrees: 45.0,
		},
		YAxis: gochart.YAxis{
			Name:  yName,
			Range: &gochart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.4f", f)
				}
				return ""
			},
		},
		Bars: values,
	}

	return graph.Render(gochart.PNG, w)
}
