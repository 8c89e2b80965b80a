// Package operations orchestrates one pipeline run: ingest the three
// sources (in parallel), normalize, reconcile, aggregate, persist, and
// export. Stages run in strict order; storage and export only see
// finalized aggregate tables.
package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"salespipe/internal/aggregate"
	"salespipe/internal/config"
	"salespipe/internal/exporter"
	"salespipe/internal/ingest"
	"salespipe/internal/reconcile"
	"salespipe/internal/store"
	"salespipe/pkg/contracts/domain"
)

// Runner executes the pipeline against a resolved configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner creates a runner. A nil logger falls back to the default
// slog logger.
func NewRunner(logger *slog.Logger, cfg *config.Config) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes one complete pipeline run.
//
// Row- and source-level problems are collected as diagnostics on the
// report; only fatal source errors (an unusable reference table) return a
// non-nil error, and then the report carries whatever was collected up to
// the abort.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger := r.logger.With(slog.String("run_id", report.RunID))

	logger.Info("starting pipeline run",
		slog.String("sales_csv", r.cfg.Sources.SalesCSV),
		slog.String("products_json", r.cfg.Sources.ProductsJSON),
		slog.String("regions_xlsx", r.cfg.Sources.RegionsXLSX))

	// Ingest + normalize. The three sources are independent, so they are
	// read concurrently; each goroutine writes only its own slot.
	ingestStart := time.Now()

	var (
		records  []domain.SalesRecord
		rawRows  int
		products []domain.ProductRef
		regions  []domain.RegionRef

		salesDiags, productDiags, regionDiags []domain.Diagnostic
	)

	var g errgroup.Group

	g.Go(func() error {
		table, diags, err := ingest.ReadSalesCSV(logger, r.cfg.Sources.SalesCSV)
		if err != nil {
			return err
		}
		if table != nil {
			rawRows = len(table.Rows)
		}
		normalized, normDiags := ingest.NewNormalizer(logger).Normalize(table)
		records = normalized
		salesDiags = append(diags, normDiags...)
		return nil
	})
	g.Go(func() error {
		refs, diags, err := ingest.ReadProductsJSON(logger, r.cfg.Sources.ProductsJSON)
		if err != nil {
			return err
		}
		products = refs
		productDiags = diags
		return nil
	})
	g.Go(func() error {
		refs, diags, err := ingest.ReadRegionsXLSX(logger, r.cfg.Sources.RegionsXLSX)
		if err != nil {
			return err
		}
		regions = refs
		regionDiags = diags
		return nil
	})

	ingestErr := g.Wait()

	// Diagnostics are appended in a fixed source order so identical input
	// always yields an identical diagnostic sequence.
	report.Diagnostics = append(report.Diagnostics, salesDiags...)
	report.Diagnostics = append(report.Diagnostics, productDiags...)
	report.Diagnostics = append(report.Diagnostics, regionDiags...)

	ingestDiagCount := len(report.Diagnostics)
	report.Stages = append(report.Stages, StageResult{
		StageID:     StageIDIngest,
		Name:        StageNameIngest,
		Duration:    time.Since(ingestStart),
		Diagnostics: ingestDiagCount,
		Success:     ingestErr == nil,
	})
	if ingestErr != nil {
		report.FinishedAt = time.Now()
		logger.Error("pipeline aborted during ingest", slog.String("error", ingestErr.Error()))
		return report, fmt.Errorf("ingest failed: %w", ingestErr)
	}

	if err := ctx.Err(); err != nil {
		report.FinishedAt = time.Now()
		return report, err
	}

	// Reconcile.
	reconcileStart := time.Now()
	reconciler := reconcile.NewReconciler(logger)

	productLookup, productLookupDiags := reconciler.BuildProductLookup(products)
	regionLookup, regionLookupDiags := reconciler.BuildRegionLookup(regions)
	report.Diagnostics = append(report.Diagnostics, productLookupDiags...)
	report.Diagnostics = append(report.Diagnostics, regionLookupDiags...)

	result, reconcileDiags := reconciler.Reconcile(records, productLookup, regionLookup)
	report.Diagnostics = append(report.Diagnostics, reconcileDiags...)

	report.Stages = append(report.Stages, StageResult{
		StageID:     StageIDReconcile,
		Name:        StageNameReconcile,
		Duration:    time.Since(reconcileStart),
		Diagnostics: len(report.Diagnostics) - ingestDiagCount,
		Success:     true,
	})

	// Aggregate.
	aggregateStart := time.Now()
	report.Aggregates = aggregate.NewAggregator(logger).Aggregate(result.Resolved)
	report.Stages = append(report.Stages, StageResult{
		StageID:  StageIDAggregate,
		Name:     StageNameAggregate,
		Duration: time.Since(aggregateStart),
		Success:  true,
	})

	report.Summary = r.buildSummary(rawRows, records, result, report.Aggregates, products, regions)

	// Persist, then export. Both consume the finalized tables read-only.
	storeStart := time.Now()
	if err := r.persist(report.Aggregates, result.Unresolved); err != nil {
		report.FinishedAt = time.Now()
		return report, err
	}
	report.Stages = append(report.Stages, StageResult{
		StageID:  StageIDStore,
		Name:     StageNameStore,
		Duration: time.Since(storeStart),
		Success:  true,
	})

	exportStart := time.Now()
	if err := r.export(report, result.Unresolved); err != nil {
		report.FinishedAt = time.Now()
		return report, err
	}
	report.Stages = append(report.Stages, StageResult{
		StageID:  StageIDExport,
		Name:     StageNameExport,
		Duration: time.Since(exportStart),
		Success:  true,
	})

	report.FinishedAt = time.Now()

	for _, d := range report.Diagnostics {
		logger.Warn("diagnostic",
			slog.String("stage", string(d.Stage)),
			slog.String("source", d.Source),
			slog.Int("row", d.Row),
			slog.String("reason", d.Reason))
	}

	logger.Info("pipeline run complete",
		slog.Int("rows_resolved", report.Summary.RowsResolved),
		slog.Int("rows_unresolved", report.Summary.RowsUnresolved),
		slog.Int("diagnostics", len(report.Diagnostics)),
		slog.String("total_revenue", report.Summary.TotalRevenue.String()),
		slog.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))

	return report, nil
}

func (r *Runner) buildSummary(
	rawRows int,
	records []domain.SalesRecord,
	result reconcile.Result,
	aggregates domain.AggregateSet,
	products []domain.ProductRef,
	regions []domain.RegionRef,
) domain.RunSummary {
	summary := domain.RunSummary{
		RowsRead:       rawRows,
		RowsNormalized: len(records),
		RowsResolved:   len(result.Resolved),
		RowsUnresolved: len(result.Unresolved),
		RowsDuplicate:  result.Duplicates,
		TotalRevenue:   aggregates.TotalRevenue(),
	}
	for _, row := range result.Resolved {
		summary.TotalUnits += row.Units
	}
	if rawRows == 0 {
		summary.ZeroRowSources = append(summary.ZeroRowSources, ingest.SourceSales)
	}
	if len(products) == 0 {
		summary.ZeroRowSources = append(summary.ZeroRowSources, ingest.SourceProducts)
	}
	if len(regions) == 0 {
		summary.ZeroRowSources = append(summary.ZeroRowSources, ingest.SourceRegions)
	}
	return summary
}

func (r *Runner) persist(set domain.AggregateSet, unresolved []domain.ReconciledRow) error {
	db, err := store.Open(r.logger, r.cfg.Output.DatabaseFile)
	if err != nil {
		return fmt.Errorf("store failed: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(set, unresolved); err != nil {
		return fmt.Errorf("store failed: %w", err)
	}
	return nil
}

func (r *Runner) export(report *RunReport, unresolved []domain.ReconciledRow) error {
	w := exporter.NewCSVWriter(r.logger, r.cfg.Output.ReportDir)

	if err := w.WriteAggregates(report.Aggregates); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := w.WriteUnresolved(unresolved); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := w.WriteDiagnostics(report.Diagnostics); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := w.WriteSummary(report.Summary); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}
