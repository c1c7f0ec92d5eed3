package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"divanalyzer/internal/coordinator"
	"divanalyzer/internal/export"
	"divanalyzer/internal/pipeline"
	"divanalyzer/internal/ratelimit"
	"divanalyzer/internal/report"
)

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [TICKER...]",
		Short: "Rank tickers by recent dividend payout",
		Long: `Analyze each ticker in turn, waiting request_delay between them, and rank
the ones with dividends in the trailing window by total payout. The ranking
is written to a CSV file, printed as a table and saved as a PNG bar chart.
Tickers that fail or have no recent dividends are reported and skipped.

Without arguments the comparison_tickers from the configuration are used.

Examples:
  divanalyzer compare
  divanalyzer compare KO PEP PG --output payers.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, _ := cmd.Flags().GetString("as-of")
			noCharts, _ := cmd.Flags().GetBool("no-charts")
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = a.cfg.OutputFile
			}

			tickers := a.cfg.ComparisonTickers
			if len(args) > 0 {
				tickers = make([]string, 0, len(args))
				for _, t := range args {
					if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
						tickers = append(tickers, t)
					}
				}
			}

			analyzer, err := a.newAnalyzer(asOf)
			if err != nil {
				return err
			}
			return a.compare(cmd, analyzer, tickers, output, noCharts)
		},
	}

	cmd.Flags().StringP("output", "o", "", "CSV file for the ranking (default from output_file)")
	cmd.Flags().String("as-of", "", "compare as if today were this date (YYYY-MM-DD)")
	cmd.Flags().Bool("no-charts", false, "do not write the PNG chart")
	return cmd
}

// compare runs the batch, then exports, prints and charts the ranking.
// Export and chart failures are reported but do not fail the command.
func (a *app) compare(cmd *cobra.Command, analyzer *pipeline.Analyzer, tickers []string, output string, noCharts bool) error {
	coord := coordinator.New(analyzer, a.limiter.For(ratelimit.APIComparison), a.logger)

	a.printer.Info("Comparing %d tickers...", len(tickers))
	result, err := coord.Compare(cmd.Context(), tickers)
	if err != nil && !errors.Is(err, coordinator.ErrNoComparisonData) {
		return err
	}

	if len(result.Rows) > 0 {
		if err := export.SaveCSV(output, result.Rows); err != nil {
			a.printer.Warning("Could not export comparison: %v", err)
		} else {
			a.printer.Success("Comparison exported to %s", output)
		}
	}

	if err := report.Comparison(a.printer, result); err != nil {
		return err
	}

	if len(result.Rows) > 0 && !noCharts {
		path, err := a.newRenderer().Comparison(result.Rows)
		if err != nil {
			a.printer.Warning("Could not save comparison chart: %v", err)
		} else {
			a.printer.Info("Comparison chart saved to %s", path)
		}
	}
	return nil
}
