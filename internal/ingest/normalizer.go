package ingest

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salespipe/pkg/contracts/domain"
)

// dateFormats is the fixed set of accepted date layouts. Anything else is
// a per-row diagnostic, never a fatal error.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// Normalizer coerces raw sales rows into SalesRecord values.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer. A nil logger falls back to the
// default slog logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize converts the raw table into candidate sales records plus
// per-row diagnostics for rows that fail coercion. Output order matches
// input order; failed rows are dropped, never the whole batch. A nil
// table (missing source) normalizes to zero records.
func (n *Normalizer) Normalize(table *RawTable) ([]domain.SalesRecord, []domain.Diagnostic) {
	if table == nil || len(table.Rows) == 0 {
		return nil, nil
	}

	records := make([]domain.SalesRecord, 0, len(table.Rows))
	var diags []domain.Diagnostic

	reject := func(i int, format string, args ...any) {
		diags = append(diags, domain.RowDiagnostic(domain.StageNormalize, table.Source, table.RowOffset+i, format, args...))
	}

	for i, row := range table.Rows {
		productID, ok := table.Cell(row, ColProductID)
		if !ok {
			reject(i, "missing product_id")
			continue
		}
		regionID, ok := table.Cell(row, ColRegionID)
		if !ok {
			reject(i, "missing region_id")
			continue
		}

		rawDate, ok := table.Cell(row, ColDate)
		if !ok {
			reject(i, "missing date")
			continue
		}
		date, ok := parseDate(rawDate)
		if !ok {
			reject(i, "unparseable date %q", rawDate)
			continue
		}

		rawUnits, ok := table.Cell(row, ColUnits)
		if !ok {
			reject(i, "missing units_sold")
			continue
		}
		units, err := strconv.ParseInt(stripThousands(rawUnits), 10, 64)
		if err != nil {
			reject(i, "non-numeric units_sold %q", rawUnits)
			continue
		}
		if units < 0 {
			reject(i, "negative units_sold %d", units)
			continue
		}

		rawPrice, ok := table.Cell(row, ColUnitPrice)
		if !ok {
			reject(i, "missing unit_price")
			continue
		}
		price, err := decimal.NewFromString(stripThousands(rawPrice))
		if err != nil {
			reject(i, "non-numeric unit_price %q", rawPrice)
			continue
		}
		if price.IsNegative() {
			reject(i, "negative unit_price %s", price)
			continue
		}

		category, _ := table.Cell(row, ColCategory)

		records = append(records, domain.SalesRecord{
			Date:      date,
			ProductID: productID,
			RegionID:  regionID,
			Units:     units,
			UnitPrice: price,
			Category:  category,
		})
	}

	n.logger.Info("normalized source",
		slog.String("source", table.Source),
		slog.Int("rows_in", len(table.Rows)),
		slog.Int("records_out", len(records)),
		slog.Int("rejected", len(diags)))

	return records, diags
}

// stripThousands removes grouping commas, and a leading currency symbol,
// from numeric cells exported by spreadsheet tools.
func stripThousands(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimPrefix(s, "$")
}

// parseDate tries the accepted layouts in order.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
