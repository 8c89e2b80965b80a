package ingest

import "strings"

// Logical column names shared by the sales readers and the normalizer.
const (
	ColDate      = "date"
	ColProductID = "product_id"
	ColRegionID  = "region_id"
	ColUnits     = "units_sold"
	ColUnitPrice = "unit_price"
	ColCategory  = "category"
)

// RawTable is an ordered table of untyped cells with a header map from
// logical column names to cell positions. Row order matches file order.
type RawTable struct {
	Source    string
	Columns   map[string]int
	Rows      [][]string
	RowOffset int // file row index of the first data row, for diagnostics
}

// Cell returns the trimmed cell for a logical column, and whether the
// column exists and holds a non-empty value. Whitespace-only cells count
// as missing, not zero.
func (t *RawTable) Cell(row []string, col string) (string, bool) {
	idx, ok := t.Columns[col]
	if !ok || idx >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[idx])
	return v, v != ""
}

// HasColumn reports whether the header mapped a logical column.
func (t *RawTable) HasColumn(col string) bool {
	_, ok := t.Columns[col]
	return ok
}

// headerVariants maps the header spellings seen in the wild to logical
// column names. Matching is case-insensitive on the trimmed header with
// spaces collapsed to underscores.
var headerVariants = map[string]string{
	"date":             ColDate,
	"transaction_date": ColDate,
	"order_date":       ColDate,
	"product":          ColProductID,
	"product_id":       ColProductID,
	"region":           ColRegionID,
	"region_id":        ColRegionID,
	"units":            ColUnits,
	"units_sold":       ColUnits,
	"quantity":         ColUnits,
	"unit_price":       ColUnitPrice,
	"price":            ColUnitPrice,
	"category":         ColCategory,
}

// mapHeader maps a header row to logical columns. Unknown headers are
// ignored so extra columns never break ingestion.
func mapHeader(header []string) map[string]int {
	columns := make(map[string]int)
	for i, h := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if logical, ok := headerVariants[key]; ok {
			if _, taken := columns[logical]; !taken {
				columns[logical] = i
			}
		}
	}
	return columns
}
