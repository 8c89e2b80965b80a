// Package aggregate computes the grouped views over reconciled rows.
//
// All monetary sums use decimal arithmetic; each row's revenue was
// computed once at reconcile time and is reused here unchanged, so every
// grouping satisfies the same accounting identity. Orderings are fully
// deterministic, ties included.
package aggregate

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"salespipe/pkg/contracts/domain"
)

// Aggregator computes the monthly, product, and regional views.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator. A nil logger falls back to the
// default slog logger.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate builds all three views from the resolved rows. Empty input
// yields empty tables. Groups whose units sum to zero still appear.
func (a *Aggregator) Aggregate(rows []domain.ReconciledRow) domain.AggregateSet {
	set := domain.AggregateSet{
		Monthly:  a.monthly(rows),
		Products: a.products(rows),
		Regions:  a.regions(rows),
	}

	a.logger.Info("aggregation complete",
		slog.Int("rows", len(rows)),
		slog.Int("months", len(set.Monthly)),
		slog.Int("products", len(set.Products)),
		slog.Int("regions", len(set.Regions)))

	return set
}

// monthly groups by (year, month), ordered chronologically.
func (a *Aggregator) monthly(rows []domain.ReconciledRow) []domain.MonthlyRow {
	groups := make(map[string]*domain.MonthlyRow)
	for _, row := range rows {
		period := row.Date.Format("2006-01")
		g, ok := groups[period]
		if !ok {
			g = &domain.MonthlyRow{Period: period, TotalRevenue: decimal.Zero}
			groups[period] = g
		}
		g.TotalRevenue = g.TotalRevenue.Add(row.Revenue)
		g.TotalUnits += row.Units
	}

	out := make([]domain.MonthlyRow, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	// YYYY-MM sorts chronologically as a string.
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// products groups by product_id, sorted by units sold descending, ties
// broken by revenue descending, then product_id ascending.
func (a *Aggregator) products(rows []domain.ReconciledRow) []domain.ProductRow {
	groups := make(map[string]*domain.ProductRow)
	for _, row := range rows {
		g, ok := groups[row.ProductID]
		if !ok {
			g = &domain.ProductRow{
				ProductID:    row.ProductID,
				ProductName:  row.ProductName,
				TotalRevenue: decimal.Zero,
			}
			groups[row.ProductID] = g
		}
		g.TotalUnits += row.Units
		g.TotalRevenue = g.TotalRevenue.Add(row.Revenue)
	}

	out := make([]domain.ProductRow, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalUnits != out[j].TotalUnits {
			return out[i].TotalUnits > out[j].TotalUnits
		}
		if cmp := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); cmp != 0 {
			return cmp > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// regions groups by region_id, sorted by revenue descending, ties broken
// by region_id ascending.
func (a *Aggregator) regions(rows []domain.ReconciledRow) []domain.RegionRow {
	groups := make(map[string]*domain.RegionRow)
	for _, row := range rows {
		g, ok := groups[row.RegionID]
		if !ok {
			g = &domain.RegionRow{
				RegionID:     row.RegionID,
				RegionName:   row.RegionName,
				TotalRevenue: decimal.Zero,
			}
			groups[row.RegionID] = g
		}
		g.TotalRevenue = g.TotalRevenue.Add(row.Revenue)
	}

	out := make([]domain.RegionRow, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); cmp != 0 {
			return cmp > 0
		}
		return out[i].RegionID < out[j].RegionID
	})
	return out
}
