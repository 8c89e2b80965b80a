// Package exporter writes the aggregate tables and run reports as CSV.
// Column order and naming are part of the pipeline's output contract.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVWriter writes report files into a single report directory.
type CSVWriter struct {
	reportDir string
	logger    *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at reportDir.
func NewCSVWriter(logger *slog.Logger, reportDir string) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{reportDir: reportDir, logger: logger}
}

// WriteFile writes one CSV file with a header row and records. A UTF-8
// BOM is prefixed so spreadsheet tools recognize the encoding.
func (w *CSVWriter) WriteFile(name string, headers []string, records [][]string) error {
	fullPath := filepath.Join(w.reportDir, name)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	w.logger.Info("wrote report",
		slog.String("file", fullPath),
		slog.Int("records", len(records)))

	return writer.Error()
}
