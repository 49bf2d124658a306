package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"insider-momentum/internal/datasource"
	"insider-momentum/internal/forms"
	"insider-momentum/internal/insider"
	"insider-momentum/internal/interfaces"
	"insider-momentum/internal/logger"
	"insider-momentum/internal/report"
	"insider-momentum/internal/store"
)

// Result sizes per form.
const (
	insiderSize  = 5
	holdingsSize = 1
	coverSize    = 1
	dgSize       = 50
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	ticker := flag.String("ticker", "TSLA", "ticker to pull filings for")
	outputDir := flag.String("output", "", "output directory")
	format := flag.String("format", "", "output format: csv, json or text")
	sqlitePath := flag.String("sqlite", "", "also append the table to this SQLite database")
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
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *sqlitePath != "" {
		cfg.Output.SQLitePath = *sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error in configuration: %v\n", err)
		os.Exit(1)
	}

	apiKey, err := cfg.APIKey()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	symbol := strings.ToUpper(strings.TrimSpace(*ticker))
	ctx := context.Background()
	runID := uuid.NewString()

	table := collect(ctx, datasource.CreateFilingsSource(cfg, apiKey), symbol)
	fmt.Printf("Collected %d rows across %d columns for %s\n", table.Len(), len(table.Columns()), symbol)

	reporter := report.NewReporter(cfg.Output.Dir, runID)
	path, err := reporter.Save(table, "filings_"+symbol, report.Format(cfg.Output.Format))
	if err != nil {
		fmt.Printf("Error saving results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results saved to: %s\n", path)

	if cfg.Output.SQLitePath != "" {
		sink, err := report.OpenSQLite(cfg.Output.SQLitePath, "filings")
		if err != nil {
			fmt.Printf("Error opening SQLite database: %v\n", err)
			os.Exit(1)
		}
		defer sink.Close()
		if _, err := sink.Write(ctx, runID, table); err != nil {
			fmt.Printf("Error writing SQLite rows: %v\n", err)
			os.Exit(1)
		}
	}
}

// collect runs the insider, 13F holdings, 13F cover page and 13D/G searches for
// symbol and unions their rows. Each block is tagged with a "form" column.
func collect(ctx context.Context, source interfaces.FilingsSource, symbol string) *report.Table {
	out := report.NewTable()

	trades := insider.NewService(source, insider.NewCodeVocabulary()).
		FetchTrades(ctx, "issuer.tradingSymbol:"+symbol, insiderSize)
	appendTagged(out, "insider-trading", report.RecordTable(trades))

	svc := forms.NewService(source)
	holdings := svc.Holdings13F(ctx, "holdings.ticker:"+symbol, holdingsSize)
	appendTagged(out, "13F-holdings", holdings)

	appendTagged(out, "13F-cover-page", svc.CoverPages13F(ctx, "holdings.ticker:"+symbol, coverSize))

	appendTagged(out, "13D-13G", svc.Filings13DG(ctx, "issuer.tradingSymbol:"+symbol, dgSize))
	return out
}

func appendTagged(out *report.Table, form string, t *report.Table) {
	for _, r := range t.Rows() {
		row := report.NewRow()
		row.Set("form", report.Text(form))
		row.Merge(r)
		out.Append(row)
	}
}
