package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespipe/pkg/contracts/domain"
)

func reconciled(product, productName, region, regionName, date string, units int64, price string) domain.ReconciledRow {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	unitPrice := decimal.RequireFromString(price)
	rec := domain.SalesRecord{
		Date:      d,
		ProductID: product,
		RegionID:  region,
		Units:     units,
		UnitPrice: unitPrice,
	}
	return domain.ReconciledRow{
		SalesRecord: rec,
		ProductName: productName,
		RegionName:  regionName,
		Revenue:     rec.Revenue(),
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	set := NewAggregator(nil).Aggregate(nil)

	assert.Empty(t, set.Monthly)
	assert.Empty(t, set.Products)
	assert.Empty(t, set.Regions)
	assert.True(t, set.TotalRevenue().IsZero())
}

func TestAggregate_WorkedExample(t *testing.T) {
	// Duplicates were already removed by reconciliation; only the two
	// surviving Widget A transactions reach the aggregator.
	rows := []domain.ReconciledRow{
		reconciled("P1", "Widget A", "R1", "North", "2025-01-05", 10, "5.00"),
		reconciled("P1", "Widget A", "R2", "South", "2025-01-10", 8, "5.00"),
	}

	set := NewAggregator(nil).Aggregate(rows)

	require.Len(t, set.Monthly, 1)
	assert.Equal(t, "2025-01", set.Monthly[0].Period)
	assert.True(t, set.Monthly[0].TotalRevenue.Equal(decimal.RequireFromString("90.00")))
	assert.Equal(t, int64(18), set.Monthly[0].TotalUnits)

	require.Len(t, set.Products, 1)
	assert.Equal(t, "Widget A", set.Products[0].ProductName)
	assert.Equal(t, int64(18), set.Products[0].TotalUnits)
	assert.True(t, set.Products[0].TotalRevenue.Equal(decimal.RequireFromString("90.00")))

	require.Len(t, set.Regions, 2)
	assert.Equal(t, "R1", set.Regions[0].RegionID)
	assert.True(t, set.Regions[0].TotalRevenue.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, "R2", set.Regions[1].RegionID)
	assert.True(t, set.Regions[1].TotalRevenue.Equal(decimal.RequireFromString("40.00")))
}

func TestAggregate_MonthlyChronological(t *testing.T) {
	rows := []domain.ReconciledRow{
		reconciled("P1", "A", "R1", "North", "2025-03-01", 1, "1.00"),
		reconciled("P1", "A", "R1", "North", "2024-12-15", 1, "1.00"),
		reconciled("P1", "A", "R1", "North", "2025-01-20", 1, "1.00"),
	}

	set := NewAggregator(nil).Aggregate(rows)
	require.Len(t, set.Monthly, 3)
	assert.Equal(t, "2024-12", set.Monthly[0].Period)
	assert.Equal(t, "2025-01", set.Monthly[1].Period)
	assert.Equal(t, "2025-03", set.Monthly[2].Period)
}

func TestAggregate_ProductTieBreaks(t *testing.T) {
	rows := []domain.ReconciledRow{
		// Same units, same revenue: ascending product_id decides.
		reconciled("P2", "B", "R1", "North", "2025-01-05", 10, "5.00"),
		reconciled("P1", "A", "R1", "North", "2025-01-05", 10, "5.00"),
		// Same units, higher revenue sorts first.
		reconciled("P3", "C", "R1", "North", "2025-01-05", 10, "9.00"),
		// Most units sorts first regardless of revenue.
		reconciled("P4", "D", "R1", "North", "2025-01-05", 11, "0.01"),
	}

	set := NewAggregator(nil).Aggregate(rows)
	require.Len(t, set.Products, 4)
	assert.Equal(t, "P4", set.Products[0].ProductID)
	assert.Equal(t, "P3", set.Products[1].ProductID)
	assert.Equal(t, "P1", set.Products[2].ProductID)
	assert.Equal(t, "P2", set.Products[3].ProductID)
}

func TestAggregate_RegionTieBreaks(t *testing.T) {
	rows := []domain.ReconciledRow{
		reconciled("P1", "A", "R2", "South", "2025-01-05", 10, "5.00"),
		reconciled("P1", "A", "R1", "North", "2025-01-05", 10, "5.00"),
		reconciled("P1", "A", "R3", "West", "2025-01-05", 20, "5.00"),
	}

	set := NewAggregator(nil).Aggregate(rows)
	require.Len(t, set.Regions, 3)
	assert.Equal(t, "R3", set.Regions[0].RegionID)
	// R1 and R2 tie on revenue; ascending region_id decides.
	assert.Equal(t, "R1", set.Regions[1].RegionID)
	assert.Equal(t, "R2", set.Regions[2].RegionID)
}

func TestAggregate_ZeroUnitGroupsAppear(t *testing.T) {
	rows := []domain.ReconciledRow{
		reconciled("P1", "A", "R1", "North", "2025-01-05", 0, "5.00"),
	}

	set := NewAggregator(nil).Aggregate(rows)
	require.Len(t, set.Products, 1)
	assert.Equal(t, int64(0), set.Products[0].TotalUnits)
	assert.True(t, set.Products[0].TotalRevenue.IsZero())
	require.Len(t, set.Monthly, 1)
	require.Len(t, set.Regions, 1)
}

func TestAggregate_AccountingIdentity(t *testing.T) {
	rows := []domain.ReconciledRow{
		reconciled("P1", "A", "R1", "North", "2025-01-05", 3, "19.99"),
		reconciled("P2", "B", "R2", "South", "2025-02-10", 7, "0.10"),
		reconciled("P3", "C", "R1", "North", "2025-02-28", 11, "123.45"),
		reconciled("P1", "A", "R2", "South", "2025-03-01", 2, "19.99"),
	}

	want := decimal.Zero
	for _, row := range rows {
		want = want.Add(row.Revenue)
	}

	set := NewAggregator(nil).Aggregate(rows)

	for name, got := range map[string]decimal.Decimal{
		"monthly": sumMonthly(set.Monthly),
		"product": sumProducts(set.Products),
		"region":  sumRegions(set.Regions),
	} {
		assert.True(t, got.Equal(want), "%s table: got %s want %s", name, got, want)
	}
}

func sumMonthly(rows []domain.MonthlyRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalRevenue)
	}
	return total
}

func sumProducts(rows []domain.ProductRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalRevenue)
	}
	return total
}

func sumRegions(rows []domain.RegionRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalRevenue)
	}
	return total
}
