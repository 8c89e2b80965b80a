package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespipe/pkg/contracts/domain"
)

func readReport(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	// Strip the UTF-8 BOM before comparing.
	return string(data[3:])
}

func TestWriteFile_BOMAndContent(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	require.NoError(t, w.WriteFile("out.csv", []string{"a", "b"}, [][]string{{"1", "2"}}))

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "a,b\n1,2\n", string(data[3:]))
}

func TestWriteAggregates_ContractColumns(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	set := domain.AggregateSet{
		Monthly: []domain.MonthlyRow{
			{Period: "2025-01", TotalRevenue: decimal.RequireFromString("90"), TotalUnits: 18},
		},
		Products: []domain.ProductRow{
			{ProductID: "P1", ProductName: "Widget A", TotalUnits: 18, TotalRevenue: decimal.RequireFromString("90")},
		},
		Regions: []domain.RegionRow{
			{RegionID: "R1", RegionName: "North", TotalRevenue: decimal.RequireFromString("50")},
			{RegionID: "R2", RegionName: "South", TotalRevenue: decimal.RequireFromString("40")},
		},
	}
	require.NoError(t, w.WriteAggregates(set))

	assert.Equal(t,
		"period,total_revenue,total_units\n2025-01,90.00,18\n",
		readReport(t, dir, FileMonthlySales))
	assert.Equal(t,
		"product_id,product_name,total_units,total_revenue\nP1,Widget A,18,90.00\n",
		readReport(t, dir, FileProductPerformance))
	assert.Equal(t,
		"region_id,region_name,total_revenue\nR1,North,50.00\nR2,South,40.00\n",
		readReport(t, dir, FileRegionalPerformance))
}

func TestWriteAggregates_Idempotent(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)
	set := domain.AggregateSet{
		Monthly: []domain.MonthlyRow{
			{Period: "2025-01", TotalRevenue: decimal.RequireFromString("12.5"), TotalUnits: 3},
		},
	}

	require.NoError(t, w.WriteAggregates(set))
	first, err := os.ReadFile(filepath.Join(dir, FileMonthlySales))
	require.NoError(t, err)

	require.NoError(t, w.WriteAggregates(set))
	second, err := os.ReadFile(filepath.Join(dir, FileMonthlySales))
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input must produce byte-identical reports")
}

func TestWriteUnresolved(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	rows := []domain.ReconciledRow{
		{
			SalesRecord: domain.SalesRecord{
				Date:      time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
				ProductID: "GHOST",
				RegionID:  "R1",
				Units:     5,
				UnitPrice: decimal.RequireFromString("2.00"),
			},
			Unresolved:       true,
			MissingProductID: "GHOST",
		},
	}
	require.NoError(t, w.WriteUnresolved(rows))

	content := readReport(t, dir, FileUnresolvedRows)
	assert.Contains(t, content, "date,product_id,region_id,units_sold,unit_price,missing_product_id,missing_region_id")
	assert.Contains(t, content, "2025-01-05,GHOST,R1,5,2.00,GHOST,")
}

func TestWriteDiagnostics(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	diags := []domain.Diagnostic{
		domain.RowDiagnostic(domain.StageNormalize, "sales", 4, "unparseable date %q", "bogus"),
		domain.SourceDiagnostic(domain.StageIngest, "regions", "file not found"),
	}
	require.NoError(t, w.WriteDiagnostics(diags))

	content := readReport(t, dir, FileDiagnostics)
	assert.Contains(t, content, "normalize,sales,4,\"unparseable date \"\"bogus\"\"\"\n")
	// Source-level diagnostics carry no row reference.
	assert.Contains(t, content, "ingest,regions,,file not found\n")
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	summary := domain.RunSummary{
		RowsRead:       10,
		RowsNormalized: 9,
		RowsResolved:   7,
		RowsUnresolved: 1,
		RowsDuplicate:  1,
		TotalRevenue:   decimal.RequireFromString("123.4"),
		TotalUnits:     42,
		ZeroRowSources: []string{"regions"},
	}
	require.NoError(t, w.WriteSummary(summary))

	content := readReport(t, dir, FileRunSummary)
	assert.Contains(t, content, "total_revenue,123.40\n")
	assert.Contains(t, content, "zero_row_sources,regions\n")
}
