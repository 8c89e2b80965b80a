package exporter

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// formatMoney renders a monetary value with exactly 2 decimal places so
// 13.4 appears as 13.40 in reports. Internal arithmetic stays exact; only
// the rendering is fixed-width.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatInt formats an int64 for CSV output.
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
