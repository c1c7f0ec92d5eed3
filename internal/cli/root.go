// Package cli contains the divanalyzer commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"divanalyzer/internal/alphavantage"
	"divanalyzer/internal/chart"
	"divanalyzer/internal/config"
	"divanalyzer/internal/fetcher"
	"divanalyzer/internal/pipeline"
	"divanalyzer/internal/ratelimit"
	"divanalyzer/internal/report"
	"divanalyzer/internal/yahoo"
)

const dateLayout = "2006-01-02"

// app is the state shared by the commands of one invocation.
type app struct {
	cfgFile  string
	verbose  bool
	provider string

	cfg     *config.Config
	logger  *slog.Logger
	printer *report.Printer
	limiter *ratelimit.Limiter
}

// NewRootCmd builds the command tree. Running it without a subcommand
// analyzes a single ticker.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "divanalyzer [TICKER]",
		Short: "Dividend history analyzer",
		Long: `divanalyzer fetches a stock's dividend history, summarizes the last
six months and compares it against a list of well-known dividend payers.

Example usage:
  divanalyzer                  # Prompt for a ticker, then for a comparison
  divanalyzer analyze KO       # Analyze Coca-Cola
  divanalyzer compare          # Rank the configured comparison tickers
  divanalyzer compare KO PEP   # Rank the given tickers`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
		RunE: a.runAnalyze,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.divanalyzer/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&a.provider, "provider", "", "data provider: yahoo or alphavantage")
	addAnalyzeFlags(rootCmd)

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newCompareCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// initConfig loads configuration and builds the logger and printer.
func (a *app) initConfig(cmd *cobra.Command) error {
	var err error

	a.cfg, err = config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if a.provider != "" {
		a.cfg.Provider = a.provider
		if err := a.cfg.Validate(); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	logLevel := a.cfg.Level()
	if a.verbose {
		logLevel = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	a.printer = report.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), report.ResolveColors(a.cfg.Colors))
	a.limiter = ratelimit.New(map[ratelimit.API]time.Duration{
		ratelimit.APIYahoo:        a.cfg.YahooInterval,
		ratelimit.APIAlphaVantage: a.cfg.AlphavantageInterval,
		ratelimit.APIComparison:   a.cfg.RequestDelay,
	})

	a.logger.Debug("configuration loaded",
		"provider", a.cfg.Provider,
		"window_days", a.cfg.WindowDays,
		"request_delay", a.limiter.Interval(ratelimit.APIComparison),
		"alphavantage_interval", a.limiter.Interval(ratelimit.APIAlphaVantage),
		"yahoo_interval", a.limiter.Interval(ratelimit.APIYahoo),
		"comparison_tickers", a.cfg.ComparisonTickers,
	)
	return nil
}

// newProvider returns the configured dividend data source.
func (a *app) newProvider() fetcher.Provider {
	opts := fetcher.DefaultClientOptions()
	opts.Timeout = a.cfg.HTTPTimeout
	opts.RetryCount = a.cfg.HTTPRetries
	opts.Logger = a.logger

	switch a.cfg.Provider {
	case config.ProviderAlphaVantage:
		return alphavantage.NewProvider(a.cfg.AlphavantageAPIKey, a.cfg.AlphavantageBaseURL, opts, a.limiter)
	default:
		return yahoo.NewProvider(a.cfg.YahooBaseURL,
			yahoo.WithClientOptions(opts),
			yahoo.WithLimiter(a.limiter),
			yahoo.WithLogger(a.logger),
		)
	}
}

// newRenderer writes charts into chart_dir at the configured size.
func (a *app) newRenderer() *chart.Renderer {
	return chart.NewRenderer(
		chart.OutputDir(a.cfg.ChartDir),
		chart.Size(a.cfg.ChartWidth, a.cfg.ChartHeight),
	)
}

// newAnalyzer builds the pipeline. A non-empty asOf replaces the wall clock
// with midnight of that date.
func (a *app) newAnalyzer(asOf string) (*pipeline.Analyzer, error) {
	opts := []pipeline.Option{
		pipeline.WithWindow(a.cfg.Window()),
		pipeline.WithLocation(a.cfg.Location()),
		pipeline.WithLogger(a.logger),
	}

	if asOf != "" {
		loc := a.cfg.Location()
		if loc == nil {
			loc = time.UTC
		}
		now, err := time.ParseInLocation(dateLayout, asOf, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --as-of date %q: want YYYY-MM-DD", asOf)
		}
		opts = append(opts, pipeline.WithClock(func() time.Time { return now }))
	}

	return pipeline.New(a.newProvider(), opts...), nil
}
