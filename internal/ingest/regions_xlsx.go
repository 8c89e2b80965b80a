package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	pipeerrors "salespipe/internal/errors"
	"salespipe/pkg/contracts/domain"
)

// SourceRegions is the logical name of the region reference source.
const SourceRegions = "regions"

// ReadRegionsXLSX reads the region reference table from a spreadsheet.
//
// The header row is located by scanning the first sheet that contains one;
// column positions are mapped from the header names rather than assumed,
// since exports differ in column order. A missing file contributes zero
// entries; a file with no recognizable header row is fatal.
func ReadRegionsXLSX(logger *slog.Logger, path string) ([]domain.RegionRef, []domain.Diagnostic, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("regions source missing, contributing zero rows", slog.String("path", path))
			return nil, []domain.Diagnostic{
				domain.SourceDiagnostic(domain.StageIngest, SourceRegions, "file not found: %s", path),
			}, nil
		}
		return nil, nil, pipeerrors.NewSourceError(SourceRegions, path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, pipeerrors.Unparsable(SourceRegions, path, fmt.Sprintf("failed to open workbook: %v", err))
	}
	defer f.Close()

	rows, headerRow, columns := findRegionSheet(f)
	if columns == nil {
		return nil, nil, pipeerrors.Unparsable(SourceRegions, path, "no sheet with a region_id header row")
	}

	var refs []domain.RegionRef
	var diags []domain.Diagnostic
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]

		id := cellAt(row, columns, "region_id")
		if id == "" {
			// Merged or trailing blank rows are common in spreadsheets.
			if rowIsEmpty(row) {
				continue
			}
			diags = append(diags, domain.RowDiagnostic(domain.StageIngest, SourceRegions, i,
				"region entry missing region_id"))
			continue
		}

		name := cellAt(row, columns, "name")
		if name == "" {
			name = id
		}

		refs = append(refs, domain.RegionRef{
			RegionID: id,
			Name:     name,
			Manager:  cellAt(row, columns, "manager"),
		})
	}

	logger.Info("loaded regions source",
		slog.String("path", path),
		slog.Int("entries", len(refs)),
		slog.Int("dropped", len(diags)))

	return refs, diags, nil
}

// findRegionSheet scans the workbook for the first sheet with a header row
// naming a region column, and maps the column positions.
func findRegionSheet(f *excelize.File) (rows [][]string, headerRow int, columns map[string]int) {
	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for i, row := range sheetRows {
			cols := mapRegionHeader(row)
			if cols != nil {
				return sheetRows, i, cols
			}
		}
	}
	return nil, -1, nil
}

// mapRegionHeader maps one candidate header row, returning nil when the
// row does not look like a region header.
func mapRegionHeader(row []string) map[string]int {
	columns := make(map[string]int)
	for i, h := range row {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		switch key {
		case "region", "region_id":
			if _, taken := columns["region_id"]; !taken {
				columns["region_id"] = i
			}
		case "name", "region_name":
			columns["name"] = i
		case "manager":
			columns["manager"] = i
		}
	}
	if _, ok := columns["region_id"]; !ok {
		return nil
	}
	return columns
}

func cellAt(row []string, columns map[string]int, col string) string {
	idx, ok := columns[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
