package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord represents a single normalized sales transaction.
// This is the common schema every source is coerced into before
// reconciliation.
type SalesRecord struct {
	Date      time.Time       `json:"date" db:"date" validate:"required"`
	ProductID string          `json:"product_id" db:"product_id" validate:"required"`
	RegionID  string          `json:"region_id" db:"region_id" validate:"required"`
	Units     int64           `json:"units_sold" db:"units_sold" validate:"min=0"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Category  string          `json:"category,omitempty" db:"category"`
}

// Revenue returns the line revenue for the record. Callers that need the
// value repeatedly should compute it once and carry it forward so every
// aggregate sees the same number.
func (r SalesRecord) Revenue() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(r.Units))
}

// DedupKey identifies rows that are candidates for duplicate collapsing.
// Two rows with the same key are only treated as duplicates when their
// units and unit price also match.
func (r SalesRecord) DedupKey() string {
	return r.ProductID + "\x00" + r.RegionID + "\x00" + r.Date.Format("2006-01-02")
}

// ProductRef is one entry of the product reference table.
type ProductRef struct {
	ProductID string `json:"product_id" db:"product_id" validate:"required"`
	Name      string `json:"name" db:"name"`
	Category  string `json:"category" db:"category"`
}

// RegionRef is one entry of the region reference table.
type RegionRef struct {
	RegionID string `json:"region_id" db:"region_id" validate:"required"`
	Name     string `json:"name" db:"name"`
	Manager  string `json:"manager,omitempty" db:"manager"`
}

// ReconciledRow is a SalesRecord enriched with resolved reference data.
// Rows that fail foreign-key resolution are tagged Unresolved with the
// missing key recorded; they are excluded from aggregation but kept for
// the unresolved-rows report.
type ReconciledRow struct {
	SalesRecord

	ProductName string          `json:"product_name" db:"product_name"`
	RegionName  string          `json:"region_name" db:"region_name"`
	Revenue     decimal.Decimal `json:"revenue" db:"revenue"`

	Unresolved       bool   `json:"unresolved" db:"unresolved"`
	MissingProductID string `json:"missing_product_id,omitempty" db:"missing_product_id"`
	MissingRegionID  string `json:"missing_region_id,omitempty" db:"missing_region_id"`
}

// CategoryUnknown is the sentinel category assigned when neither the
// transaction nor the matched product reference carries one.
const CategoryUnknown = "Unknown"
