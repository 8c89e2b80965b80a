// Command pipeline runs the sales data pipeline end to end: ingest the
// three sources, reconcile, aggregate, persist to SQLite, and export the
// CSV reports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"salespipe/internal/config"
	pipeerrors "salespipe/internal/errors"
	"salespipe/internal/infrastructure"
	"salespipe/internal/operations"
	"salespipe/pkg/contracts"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "optional YAML config file")
	salesCSV := flag.String("sales", "", "transactions CSV path (overrides config)")
	productsJSON := flag.String("products", "", "product metadata JSON path (overrides config)")
	regionsXLSX := flag.String("regions", "", "region info XLSX path (overrides config)")
	reportDir := flag.String("out", "", "report output directory (overrides config)")
	dbFile := flag.String("db", "", "SQLite database file (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 2
	}
	applyOverrides(cfg, *salesCSV, *productsJSON, *regionsXLSX, *reportDir, *dbFile)

	if err := cfg.EnsureOutputDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare output directories: %v\n", err)
		return 2
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 2
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info(contracts.VersionString())

	report, err := operations.NewRunner(logger, cfg).Run(context.Background())
	if err != nil {
		if errors.Is(err, pipeerrors.ErrFatalSource) {
			logger.Error("pipeline aborted on fatal source error", slog.String("error", err.Error()))
		} else {
			logger.Error("pipeline failed", slog.String("error", err.Error()))
		}
		return 1
	}

	if len(report.Diagnostics) > 0 {
		logger.Warn("pipeline completed with diagnostics",
			slog.Int("diagnostics", len(report.Diagnostics)))
	}
	return 0
}

// applyOverrides lets command-line flags win over config file and env.
func applyOverrides(cfg *config.Config, sales, products, regions, reportDir, dbFile string) {
	if sales != "" {
		cfg.Sources.SalesCSV = sales
	}
	if products != "" {
		cfg.Sources.ProductsJSON = products
	}
	if regions != "" {
		cfg.Sources.RegionsXLSX = regions
	}
	if reportDir != "" {
		cfg.Output.ReportDir = reportDir
	}
	if dbFile != "" {
		cfg.Output.DatabaseFile = dbFile
	}
}
