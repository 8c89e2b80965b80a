package exporter

import (
	"strings"

	"salespipe/pkg/contracts/domain"
)

// Report file names. Stable so downstream consumers can rely on them.
const (
	FileMonthlySales        = "monthly_sales.csv"
	FileProductPerformance  = "product_performance.csv"
	FileRegionalPerformance = "regional_performance.csv"
	FileUnresolvedRows      = "unresolved_rows.csv"
	FileDiagnostics         = "diagnostics.csv"
	FileRunSummary          = "run_summary.csv"
)

// WriteAggregates writes the three aggregate tables using the contract
// column order: period|total_revenue|total_units,
// product_id|product_name|total_units|total_revenue and
// region_id|region_name|total_revenue.
func (w *CSVWriter) WriteAggregates(set domain.AggregateSet) error {
	monthly := make([][]string, 0, len(set.Monthly))
	for _, row := range set.Monthly {
		monthly = append(monthly, []string{row.Period, formatMoney(row.TotalRevenue), formatInt(row.TotalUnits)})
	}
	if err := w.WriteFile(FileMonthlySales, []string{"period", "total_revenue", "total_units"}, monthly); err != nil {
		return err
	}

	products := make([][]string, 0, len(set.Products))
	for _, row := range set.Products {
		products = append(products, []string{row.ProductID, row.ProductName, formatInt(row.TotalUnits), formatMoney(row.TotalRevenue)})
	}
	if err := w.WriteFile(FileProductPerformance, []string{"product_id", "product_name", "total_units", "total_revenue"}, products); err != nil {
		return err
	}

	regions := make([][]string, 0, len(set.Regions))
	for _, row := range set.Regions {
		regions = append(regions, []string{row.RegionID, row.RegionName, formatMoney(row.TotalRevenue)})
	}
	return w.WriteFile(FileRegionalPerformance, []string{"region_id", "region_name", "total_revenue"}, regions)
}

// WriteUnresolved writes the unresolved-rows report in input order.
func (w *CSVWriter) WriteUnresolved(rows []domain.ReconciledRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Date.Format("2006-01-02"),
			row.ProductID,
			row.RegionID,
			formatInt(row.Units),
			formatMoney(row.UnitPrice),
			row.MissingProductID,
			row.MissingRegionID,
		})
	}
	return w.WriteFile(FileUnresolvedRows,
		[]string{"date", "product_id", "region_id", "units_sold", "unit_price", "missing_product_id", "missing_region_id"},
		records)
}

// WriteDiagnostics writes the collected diagnostics in collection order.
func (w *CSVWriter) WriteDiagnostics(diags []domain.Diagnostic) error {
	records := make([][]string, 0, len(diags))
	for _, d := range diags {
		rowRef := ""
		if d.Row >= 0 {
			rowRef = formatInt(int64(d.Row))
		}
		records = append(records, []string{string(d.Stage), d.Source, rowRef, d.Reason})
	}
	return w.WriteFile(FileDiagnostics, []string{"stage", "source", "row", "reason"}, records)
}

// WriteSummary writes the run's headline figures.
func (w *CSVWriter) WriteSummary(summary domain.RunSummary) error {
	records := [][]string{
		{"rows_read", formatInt(int64(summary.RowsRead))},
		{"rows_normalized", formatInt(int64(summary.RowsNormalized))},
		{"rows_resolved", formatInt(int64(summary.RowsResolved))},
		{"rows_unresolved", formatInt(int64(summary.RowsUnresolved))},
		{"rows_duplicate", formatInt(int64(summary.RowsDuplicate))},
		{"total_revenue", formatMoney(summary.TotalRevenue)},
		{"total_units", formatInt(summary.TotalUnits)},
		{"zero_row_sources", strings.Join(summary.ZeroRowSources, ";")},
	}
	return w.WriteFile(FileRunSummary, []string{"metric", "value"}, records)
}
