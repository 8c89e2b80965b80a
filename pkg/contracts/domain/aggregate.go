package domain

import (
	"github.com/shopspring/decimal"
)

// MonthlyRow is one row of the monthly revenue trend table,
// exported as period|total_revenue|total_units.
type MonthlyRow struct {
	Period       string          `json:"period" db:"period"` // YYYY-MM
	TotalRevenue decimal.Decimal `json:"total_revenue" db:"total_revenue"`
	TotalUnits   int64           `json:"total_units" db:"total_units"`
}

// ProductRow is one row of the product performance table,
// exported as product_id|product_name|total_units|total_revenue.
type ProductRow struct {
	ProductID    string          `json:"product_id" db:"product_id"`
	ProductName  string          `json:"product_name" db:"product_name"`
	TotalUnits   int64           `json:"total_units" db:"total_units"`
	TotalRevenue decimal.Decimal `json:"total_revenue" db:"total_revenue"`
}

// RegionRow is one row of the regional performance table,
// exported as region_id|region_name|total_revenue.
type RegionRow struct {
	RegionID     string          `json:"region_id" db:"region_id"`
	RegionName   string          `json:"region_name" db:"region_name"`
	TotalRevenue decimal.Decimal `json:"total_revenue" db:"total_revenue"`
}

// AggregateSet bundles the three grouped views produced by one run.
type AggregateSet struct {
	Monthly  []MonthlyRow `json:"monthly"`
	Products []ProductRow `json:"products"`
	Regions  []RegionRow  `json:"regions"`
}

// TotalRevenue sums the monthly table. Every grouping satisfies the same
// accounting identity, so any of the three could serve; the monthly table
// is used because it has the fewest rows in practice.
func (a AggregateSet) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, row := range a.Monthly {
		total = total.Add(row.TotalRevenue)
	}
	return total
}

// RunSummary holds the headline figures reported at the end of a run.
type RunSummary struct {
	RowsRead       int             `json:"rows_read"`
	RowsNormalized int             `json:"rows_normalized"`
	RowsResolved   int             `json:"rows_resolved"`
	RowsUnresolved int             `json:"rows_unresolved"`
	RowsDuplicate  int             `json:"rows_duplicate"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalUnits     int64           `json:"total_units"`
	ZeroRowSources []string        `json:"zero_row_sources,omitempty"`
}
