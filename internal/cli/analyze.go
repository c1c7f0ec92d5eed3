package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"divanalyzer/internal/ratelimit"
	"divanalyzer/internal/report"
)

const comparePrompt = "Compare with top dividend stocks? (y/n): "

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [TICKER]",
		Short: "Analyze one ticker's recent dividends",
		Long: `Fetch the dividend history of one ticker and report the payments of the
trailing window: every payment, their total, mean and median, and the sum of
each calendar quarter. A bar chart of the quarterly sums is saved as PNG.

Without TICKER the symbol is read from standard input. When the ticker has
dividends in the window, the comparison against the configured tickers runs
if --compare is given or the prompt is answered with y.

Examples:
  divanalyzer analyze KO
  divanalyzer analyze KO --no-compare
  divanalyzer analyze PEP --compare --as-of 2024-07-15`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runAnalyze,
	}
	addAnalyzeFlags(cmd)
	return cmd
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("compare", false, "run the comparison without asking")
	cmd.Flags().Bool("no-compare", false, "skip the comparison without asking")
	cmd.Flags().String("as-of", "", "analyze as if today were this date (YYYY-MM-DD)")
	cmd.Flags().Bool("no-charts", false, "do not write PNG charts")
	cmd.MarkFlagsMutuallyExclusive("compare", "no-compare")
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	asOf, _ := cmd.Flags().GetString("as-of")
	noCharts, _ := cmd.Flags().GetBool("no-charts")
	compare, _ := cmd.Flags().GetBool("compare")
	noCompare, _ := cmd.Flags().GetBool("no-compare")

	analyzer, err := a.newAnalyzer(asOf)
	if err != nil {
		return err
	}

	prompt := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	var ticker string
	if len(args) > 0 {
		ticker = strings.ToUpper(strings.TrimSpace(args[0]))
	} else {
		ticker, err = prompt.ticker()
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading ticker: %w", err)
		}
	}
	if ticker == "" {
		return fmt.Errorf("a ticker symbol is required")
	}

	a.printer.Info("Analyzing: %s", ticker)

	ctx := cmd.Context()

	// The ticker takes the first comparison slot so a following batch starts
	// one request_delay later.
	if err := a.limiter.Wait(ctx, ratelimit.APIComparison); err != nil {
		return err
	}

	out := analyzer.Analyze(ctx, ticker)
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := report.Analysis(a.printer, out, analyzer.Cutoff()); err != nil {
		return err
	}

	if !out.OK() {
		return nil
	}

	if !noCharts {
		path, err := a.newRenderer().Quarterly(out.Symbol, out.Summary.Quarterly)
		if err != nil {
			a.printer.Warning("Could not save quarterly chart: %v", err)
		} else {
			a.printer.Info("Quarterly chart saved to %s", path)
		}
	}

	if !noCompare && (compare || prompt.confirm(comparePrompt)) {
		if err := a.compare(cmd, analyzer, a.cfg.ComparisonTickers, a.cfg.OutputFile, noCharts); err != nil {
			return err
		}
	}

	a.printer.Success("Analysis complete.")
	return nil
}
