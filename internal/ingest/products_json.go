package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	pipeerrors "salespipe/internal/errors"
	"salespipe/pkg/contracts/domain"
)

// SourceProducts is the logical name of the product reference source.
const SourceProducts = "products"

// productEntry mirrors one object of the product metadata file. Field
// spellings vary between exports, so both id and plain-name forms are
// accepted.
type productEntry struct {
	ProductID string `json:"product_id"`
	Product   string `json:"product"`
	Name      string `json:"name"`
	Category  string `json:"category"`
}

// ReadProductsJSON reads the product reference table.
//
// A missing or empty file contributes zero entries with a source-level
// diagnostic. A file that exists but is not a JSON array is fatal: no safe
// reconciliation is possible without a usable product table. Entries
// without a product id are dropped with a row diagnostic.
func ReadProductsJSON(logger *slog.Logger, path string) ([]domain.ProductRef, []domain.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("products source missing, contributing zero rows", slog.String("path", path))
			return nil, []domain.Diagnostic{
				domain.SourceDiagnostic(domain.StageIngest, SourceProducts, "file not found: %s", path),
			}, nil
		}
		return nil, nil, pipeerrors.NewSourceError(SourceProducts, path, err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		logger.Warn("products source empty, contributing zero rows", slog.String("path", path))
		return nil, []domain.Diagnostic{
			domain.SourceDiagnostic(domain.StageIngest, SourceProducts, "file is empty: %s", path),
		}, nil
	}

	var entries []productEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil, pipeerrors.Unparsable(SourceProducts, path, fmt.Sprintf("not a JSON array of objects: %v", err))
	}

	var refs []domain.ProductRef
	var diags []domain.Diagnostic
	for i, entry := range entries {
		id := strings.TrimSpace(entry.ProductID)
		if id == "" {
			id = strings.TrimSpace(entry.Product)
		}
		if id == "" {
			diags = append(diags, domain.RowDiagnostic(domain.StageIngest, SourceProducts, i,
				"product entry missing product_id"))
			continue
		}

		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = id
		}

		refs = append(refs, domain.ProductRef{
			ProductID: id,
			Name:      name,
			Category:  strings.TrimSpace(entry.Category),
		})
	}

	logger.Info("loaded products source",
		slog.String("path", path),
		slog.Int("entries", len(refs)),
		slog.Int("dropped", len(diags)))

	return refs, diags, nil
}
