package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chainfetch/internal/chain"
	"chainfetch/internal/config"
	"chainfetch/internal/export"
	"chainfetch/internal/httpx"
	"chainfetch/internal/logging"
	"chainfetch/internal/marketdata"
	"chainfetch/internal/marketdata/cache"
	"chainfetch/internal/marketdata/fixture"
	"chainfetch/internal/marketdata/polygon"
	"chainfetch/internal/marketdata/ratelimit"
	"chainfetch/internal/marketdata/yahoo"
	"chainfetch/internal/summary"
)

type runArgs struct {
	configPath  string
	envFile     string
	source      string
	fixturePath string
	preview     int
	logLevel    string
	overrides   config.Overrides
	now         func() time.Time
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var (
		a                  runArgs
		symbol, expiration string
		side, out          string
		kmin, kmax         float64
		limit              int
	)

	cmd := &cobra.Command{
		Use:           "fetch",
		Short:         "Fetch an option chain snapshot and write the pricer input CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("symbol") {
				a.overrides.Symbol = &symbol
			}
			if flags.Changed("expiration") {
				a.overrides.Expiration = &expiration
			}
			if flags.Changed("side") {
				a.overrides.Side = &side
			}
			if flags.Changed("kmin") {
				a.overrides.KMin = &kmin
			}
			if flags.Changed("kmax") {
				a.overrides.KMax = &kmax
			}
			if flags.Changed("limit") {
				a.overrides.Limit = &limit
			}
			if flags.Changed("out") {
				a.overrides.Out = &out
			}
			return run(cmd.Context(), a, stdout)
		},
	}

	f := cmd.Flags()
	f.StringVar(&symbol, "symbol", "", "underlying ticker (default TSLA)")
	f.StringVar(&expiration, "expiration", "", "maturity as YYYY-MM-DD or YYYYMMDD (default: nearest on or after today)")
	f.StringVar(&side, "side", "", "calls, puts or both (default calls)")
	f.Float64Var(&kmin, "kmin", 0, "lowest strike to keep (default 180)")
	f.Float64Var(&kmax, "kmax", 0, "highest strike to keep (default 300)")
	f.IntVar(&limit, "limit", 0, "max rows per side, 0 for all (default 40)")
	f.StringVar(&out, "out", "", "output CSV path (default data/option_chain_sample.csv)")
	f.StringVar(&a.configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	f.StringVar(&a.envFile, "env-file", "", "path to a .env file (default .env when present)")
	f.StringVar(&a.source, "source", "yahoo", "market data source: yahoo or fixture")
	f.StringVar(&a.fixturePath, "fixture", "", "YAML snapshot used with --source fixture")
	f.IntVar(&a.preview, "preview", 0, "print the first N rows after writing")
	f.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	return cmd
}

func run(ctx context.Context, a runArgs, stdout io.Writer) error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	logging.Setup(level, cfg.Log.Format)

	fc, err := config.Resolve(cfg.Fetch, a.overrides)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fallback, err := cfg.Rates.FallbackRate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	src, err := buildSource(cfg, a)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"symbol":     fc.Symbol,
		"expiration": fc.Expiration,
		"side":       fc.Side,
		"limit":      fc.Limit,
		"source":     src.Name(),
	}).Info("fetching option chain")

	res, err := chain.Run(ctx, src, fc, chain.Options{
		Rates: chain.RateSettings{
			ShortTicker: cfg.Rates.ShortTicker,
			LongTicker:  cfg.Rates.LongTicker,
			Fallback:    fallback,
		},
		Now: a.now,
	})
	if err != nil {
		return err
	}

	if err := export.WriteFile(fc.OutputPath, res.Rows); err != nil {
		return fmt.Errorf("write %s: %w", fc.OutputPath, err)
	}

	fmt.Fprintf(stdout, "[OK] Wrote %d rows to %s\n", len(res.Rows), fc.OutputPath)
	if a.preview > 0 {
		summary.RenderTable(stdout, res.Rows, a.preview)
	}
	return nil
}

func buildSource(cfg config.Config, a runArgs) (marketdata.Source, error) {
	switch a.source {
	case "fixture":
		if a.fixturePath == "" {
			return nil, fmt.Errorf("invalid configuration: --fixture is required with --source fixture")
		}
		return fixture.Load(a.fixturePath)
	case "yahoo", "":
	default:
		return nil, fmt.Errorf("invalid configuration: unknown source %q", a.source)
	}

	hc := httpx.New(time.Duration(cfg.HTTP.RequestTimeoutSec) * time.Second)
	if cfg.HTTP.UserAgent != "" {
		hc.UserAgent = cfg.HTTP.UserAgent
	}
	client, err := yahoo.NewClient(yahoo.WithBaseURL(cfg.Yahoo.BaseURL), yahoo.WithHTTPClient(hc))
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.Yahoo.CacheTTLSeconds) * time.Second
	var src marketdata.Source = yahoo.NewSource(client, yahoo.Config{QuoteTTL: ttl})
	src = ratelimit.New(src,
		cfg.Yahoo.MaxRequestsPerMinute,
		cfg.Yahoo.Burst,
		time.Duration(cfg.Yahoo.MinRequestIntervalSec)*time.Second,
	)
	if ttl > 0 {
		src = &cache.Source{S: src, TTL: ttl, MaxItems: cfg.Yahoo.CacheMaxItems}
	}

	if cfg.Polygon.Enabled && cfg.Polygon.APIKey != "" {
		log.Debug("serving close history from polygon")
		src = marketdata.WithHistory(src, polygon.New(cfg.Polygon.APIKey, cfg.Polygon.LookbackDays))
	}
	return src, nil
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}
