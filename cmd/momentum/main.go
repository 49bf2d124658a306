package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"insider-momentum/internal/datasource"
	"insider-momentum/internal/insider"
	"insider-momentum/internal/interfaces"
	"insider-momentum/internal/logger"
	"insider-momentum/internal/momentum"
	"insider-momentum/internal/momentum/momentumobs"
	"insider-momentum/internal/report"
	"insider-momentum/internal/store"
	"insider-momentum/internal/types"
	"insider-momentum/internal/universe"
)

// errNoTrades ends a run whose sampled tickers produced no insider transactions.
var errNoTrades = errors.New("no insider trades found for sampled tickers")

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	pool := flag.String("pool", "", "candidate pool: large, small, sp500 or static")
	sample := flag.Int("sample", 0, "number of tickers to sample")
	window := flag.Int("window", 0, "momentum window length")
	unit := flag.String("unit", "", "momentum window unit: days or hours")
	tickers := flag.String("tickers", "", "comma separated tickers for the static pool")
	outputDir := flag.String("output", "", "output directory")
	format := flag.String("format", "", "output format: csv, json or text")
	sqlitePath := flag.String("sqlite", "", "also append results to this SQLite database")
	seed := flag.Int64("seed", 0, "sampling seed (0 uses the clock)")
	flag.Parse()

	if err := store.LoadEnv(); err != nil {
		fmt.Printf("Error loading .env: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Shutdown(context.Background())

	cfg, err := store.LoadConfigOrDefault(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	applyFlags(cfg, set, flagValues{
		pool: *pool, sample: *sample, window: *window, unit: *unit, tickers: *tickers,
		outputDir: *outputDir, format: *format, sqlitePath: *sqlitePath, seed: *seed,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error in configuration: %v\n", err)
		os.Exit(1)
	}

	apiKey, err := cfg.APIKey()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	prices, err := datasource.CreateMarketData(cfg)
	if err != nil {
		fmt.Printf("Error creating price provider: %v\n", err)
		os.Exit(1)
	}

	timeUnit, err := momentum.ParseTimeUnit(cfg.Momentum.Unit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	ctx := context.Background()

	p := &pipeline{
		cfg:      cfg,
		runID:    runID,
		prices:   prices,
		fetcher:  insider.NewService(datasource.CreateFilingsSource(cfg, apiKey), insider.NewCodeVocabulary()),
		analyzer: momentumobs.Wrap(momentum.NewAnalyzer(prices, momentum.Window{Length: cfg.Momentum.Window, Unit: timeUnit})),
		sp500:    universe.NewSP500Scraper(cfg.Universe.SP500URL, time.Duration(cfg.Prices.TimeoutSeconds)*time.Second),
	}

	fmt.Printf("Insider momentum run %s: pool=%s sample=%d window=%d %s\n",
		runID, cfg.Universe.Pool, cfg.Universe.SampleSize, cfg.Momentum.Window, timeUnit)

	table, err := p.run(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	path, err := p.save(ctx, table)
	if err != nil {
		fmt.Printf("Error saving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(report.Summary(table))
	fmt.Printf("Results saved to: %s\n", path)
}

type flagValues struct {
	pool, unit, tickers, outputDir, format, sqlitePath string
	sample, window                                     int
	seed                                               int64
}

// applyFlags overrides cfg with explicitly set flags. Choosing a pool without a
// sample size or window brings in that pool's defaults.
func applyFlags(cfg *store.Config, set map[string]bool, v flagValues) {
	if set["pool"] {
		cfg.Universe.Pool = v.pool
		sampleSize, window, unit := store.PoolDefaults(v.pool)
		if !set["sample"] {
			cfg.Universe.SampleSize = sampleSize
		}
		if !set["window"] && !set["unit"] {
			cfg.Momentum.Window = window
			cfg.Momentum.Unit = unit
		}
	}
	if set["sample"] {
		cfg.Universe.SampleSize = v.sample
	}
	if set["unit"] {
		cfg.Momentum.Unit = v.unit
		if !set["window"] {
			cfg.Momentum.Window = store.DefaultWindow(v.unit)
		}
	}
	if set["window"] {
		cfg.Momentum.Window = v.window
	}
	if set["tickers"] {
		cfg.Universe.Static = strings.Split(v.tickers, ",")
		if !set["pool"] {
			cfg.Universe.Pool = universe.PoolStatic
		}
	}
	if set["output"] {
		cfg.Output.Dir = v.outputDir
	}
	if set["format"] {
		cfg.Output.Format = v.format
	}
	if set["sqlite"] {
		cfg.Output.SQLitePath = v.sqlitePath
	}
	if set["seed"] {
		cfg.Universe.Seed = v.seed
	}
}

// pipeline samples tickers, pulls their insider trades and measures momentum.
type pipeline struct {
	cfg      *store.Config
	runID    string
	prices   interfaces.MarketDataSource
	fetcher  interfaces.TradeFetcher
	analyzer interfaces.MomentumAnalyzer
	sp500    universe.ConstituentSource
}

func (p *pipeline) run(ctx context.Context) (*report.Table, error) {
	timer := logger.StartOperation(ctx, "momentum.run", "run_id", p.runID, "pool", p.cfg.Universe.Pool)
	ctx = timer.Context()

	candidates, err := universe.Candidates(ctx, p.cfg.Universe.Pool, p.cfg.Universe.Static, p.sp500)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	tickers, err := universe.NewSampler(p.prices, p.cfg.Universe.Seed).Sample(ctx, candidates, p.cfg.Universe.SampleSize)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}
	logger.Info(ctx, "Sampled tickers", "tickers", strings.Join(tickers, ","))

	var records []types.TransactionRecord
	for _, ticker := range tickers {
		trades := p.fetcher.FetchTrades(ctx, "issuer.tradingSymbol:"+ticker, p.cfg.Filings.Size)
		logger.Info(ctx, "Fetched insider trades", "ticker", ticker, "records", len(trades))
		records = append(records, trades...)
	}
	if len(records) == 0 {
		timer.EndWithError(errNoTrades)
		return nil, errNoTrades
	}

	results := p.analyzer.Analyze(ctx, records)
	table := report.MomentumTable(results)
	timer.End("tickers", len(tickers), "records", len(records))
	return table, nil
}

// save writes the table to the output directory and, when configured, SQLite.
func (p *pipeline) save(ctx context.Context, table *report.Table) (string, error) {
	reporter := report.NewReporter(p.cfg.Output.Dir, p.runID)
	path, err := reporter.Save(table, "insider_momentum", report.Format(p.cfg.Output.Format))
	if err != nil {
		return "", err
	}

	if p.cfg.Output.SQLitePath != "" {
		sink, err := report.OpenSQLite(p.cfg.Output.SQLitePath, p.cfg.Output.Table)
		if err != nil {
			return path, err
		}
		defer sink.Close()
		if _, err := sink.Write(ctx, p.runID, table); err != nil {
			return path, err
		}
	}
	return path, nil
}
