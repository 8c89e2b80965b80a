package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salespipe/internal/config"
)

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()

	applyOverrides(cfg, "/in/sales.csv", "", "/in/regions.xlsx", "/out", "")

	assert.Equal(t, "/in/sales.csv", cfg.Sources.SalesCSV)
	assert.Equal(t, "data/product_metadata.json", cfg.Sources.ProductsJSON)
	assert.Equal(t, "/in/regions.xlsx", cfg.Sources.RegionsXLSX)
	assert.Equal(t, "/out", cfg.Output.ReportDir)
	assert.Equal(t, "output/sales.db", cfg.Output.DatabaseFile)
}
