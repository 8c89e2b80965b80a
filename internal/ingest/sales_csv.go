package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	pipeerrors "salespipe/internal/errors"
	"salespipe/pkg/contracts/domain"
)

// SourceSales is the logical name of the transactions source.
const SourceSales = "sales"

// Required logical columns for the transactions file. A present file
// whose header lacks any of these cannot be normalized at all.
var requiredSalesColumns = []string{ColDate, ColProductID, ColRegionID, ColUnits, ColUnitPrice}

// ReadSalesCSV reads the transactions CSV into a RawTable.
//
// A missing or empty file yields a nil table plus a source-level
// diagnostic; the pipeline continues with zero transaction rows. A file
// that exists but has no usable header is fatal.
func ReadSalesCSV(logger *slog.Logger, path string) (*RawTable, []domain.Diagnostic, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("sales source missing, contributing zero rows", slog.String("path", path))
			return nil, []domain.Diagnostic{
				domain.SourceDiagnostic(domain.StageIngest, SourceSales, "file not found: %s", path),
			}, nil
		}
		return nil, nil, pipeerrors.NewSourceError(SourceSales, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are handled per-cell downstream
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		logger.Warn("sales source empty, contributing zero rows", slog.String("path", path))
		return nil, []domain.Diagnostic{
			domain.SourceDiagnostic(domain.StageIngest, SourceSales, "file is empty: %s", path),
		}, nil
	}
	if err != nil {
		return nil, nil, pipeerrors.NewSourceError(SourceSales, path, fmt.Errorf("failed to read header: %w", err))
	}

	// Unlike the reference tables, an unusable transactions file is not
	// fatal: it simply contributes zero rows and the run reports it.
	columns := mapHeader(header)
	for _, col := range requiredSalesColumns {
		if _, ok := columns[col]; !ok {
			logger.Warn("sales source unusable, contributing zero rows",
				slog.String("path", path),
				slog.String("missing_column", col))
			return nil, []domain.Diagnostic{
				domain.SourceDiagnostic(domain.StageIngest, SourceSales, "missing required column: %s", col),
			}, nil
		}
	}

	table := &RawTable{
		Source:    SourceSales,
		Columns:   columns,
		RowOffset: 1, // data starts after the header row
	}

	var diags []domain.Diagnostic
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed CSV line: skip the row, keep the batch.
			diags = append(diags, domain.RowDiagnostic(domain.StageIngest, SourceSales,
				table.RowOffset+len(table.Rows), "unreadable row: %v", err))
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	logger.Info("loaded sales source",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)))

	return table, diags, nil
}
