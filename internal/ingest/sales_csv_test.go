package ingest

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadSalesCSV(t *testing.T) {
	path := writeFile(t, "sales.csv", "Date,Product,Region,Units Sold,Unit Price,Category\n"+
		"2025-01-05,P1,R1,10,5.00,Gadgets\n"+
		"2025-01-06,P2,R2,3,2.50,\n")

	table, diags, err := ReadSalesCSV(slog.Default(), path)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.NotNil(t, table)

	assert.Equal(t, SourceSales, table.Source)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, 1, table.RowOffset)

	// Header variations map onto the logical columns.
	for _, col := range []string{ColDate, ColProductID, ColRegionID, ColUnits, ColUnitPrice, ColCategory} {
		assert.True(t, table.HasColumn(col), col)
	}

	v, ok := table.Cell(table.Rows[0], ColProductID)
	assert.True(t, ok)
	assert.Equal(t, "P1", v)
}

func TestReadSalesCSV_MissingFileIsNotFatal(t *testing.T) {
	table, diags, err := ReadSalesCSV(slog.Default(), filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.Nil(t, table)
	require.Len(t, diags, 1)
	assert.Equal(t, -1, diags[0].Row)
	assert.Contains(t, diags[0].Reason, "file not found")
}

func TestReadSalesCSV_EmptyFileIsNotFatal(t *testing.T) {
	path := writeFile(t, "sales.csv", "")

	table, diags, err := ReadSalesCSV(slog.Default(), path)
	require.NoError(t, err)
	assert.Nil(t, table)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Reason, "empty")
}

func TestReadSalesCSV_MissingRequiredColumnContributesZeroRows(t *testing.T) {
	path := writeFile(t, "sales.csv", "Date,Product,Units Sold,Unit Price\n2025-01-05,P1,10,5.00\n")

	table, diags, err := ReadSalesCSV(slog.Default(), path)
	require.NoError(t, err)
	assert.Nil(t, table)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Reason, "region_id")
}

func TestReadSalesCSV_RaggedRowsKept(t *testing.T) {
	path := writeFile(t, "sales.csv", "Date,Product,Region,Units Sold,Unit Price\n"+
		"2025-01-05,P1,R1,10,5.00\n"+
		"2025-01-06,P2,R2\n")

	table, diags, err := ReadSalesCSV(slog.Default(), path)
	require.NoError(t, err)
	assert.Empty(t, diags)
	// Short rows survive ingestion; the normalizer rejects them per cell.
	assert.Len(t, table.Rows, 2)
}
