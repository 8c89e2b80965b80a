// Package reconcile joins normalized sales records against the product and
// region reference tables, applying the missing-data and duplicate policy.
package reconcile

import (
	"log/slog"

	"salespipe/pkg/contracts/domain"
)

// Reconciler unifies the three sources of truth into reconciled rows.
// Lookups are built once per run and passed between stages as plain maps;
// nothing here is global.
type Reconciler struct {
	logger *slog.Logger
}

// NewReconciler creates a reconciler. A nil logger falls back to the
// default slog logger.
func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger}
}

// Result carries the outcome of reconciliation. Resolved holds enriched
// rows in input order with duplicates removed; Unresolved holds rows whose
// product or region key did not resolve, excluded from aggregation but
// kept for the unresolved-rows report.
type Result struct {
	Resolved   []domain.ReconciledRow
	Unresolved []domain.ReconciledRow
	Duplicates int
}

// BuildProductLookup builds the product_id lookup. Duplicate keys are
// last-write-wins, each overwrite reported as a diagnostic.
func (r *Reconciler) BuildProductLookup(refs []domain.ProductRef) (map[string]domain.ProductRef, []domain.Diagnostic) {
	lookup := make(map[string]domain.ProductRef, len(refs))
	var diags []domain.Diagnostic
	for i, ref := range refs {
		if _, exists := lookup[ref.ProductID]; exists {
			diags = append(diags, domain.RowDiagnostic(domain.StageReconcile, "products", i,
				"duplicate product_id %q, keeping later entry", ref.ProductID))
		}
		lookup[ref.ProductID] = ref
	}
	return lookup, diags
}

// BuildRegionLookup builds the region_id lookup, last-write-wins.
func (r *Reconciler) BuildRegionLookup(refs []domain.RegionRef) (map[string]domain.RegionRef, []domain.Diagnostic) {
	lookup := make(map[string]domain.RegionRef, len(refs))
	var diags []domain.Diagnostic
	for i, ref := range refs {
		if _, exists := lookup[ref.RegionID]; exists {
			diags = append(diags, domain.RowDiagnostic(domain.StageReconcile, "regions", i,
				"duplicate region_id %q, keeping later entry", ref.RegionID))
		}
		lookup[ref.RegionID] = ref
	}
	return lookup, diags
}

// Reconcile resolves each candidate record in input order.
//
// Row references in the returned diagnostics index into the candidate
// sequence, which preserves source order.
func (r *Reconciler) Reconcile(
	records []domain.SalesRecord,
	products map[string]domain.ProductRef,
	regions map[string]domain.RegionRef,
) (Result, []domain.Diagnostic) {
	var result Result
	var diags []domain.Diagnostic

	// Rows already kept, grouped by (product, region, date). A new row is
	// a duplicate only when an earlier row with the same key also matches
	// on units and unit price; differing values are kept as separate
	// transactions, never summed.
	seen := make(map[string][]domain.SalesRecord)

	for i, rec := range records {
		key := rec.DedupKey()
		if isDuplicate(seen[key], rec) {
			result.Duplicates++
			diags = append(diags, domain.RowDiagnostic(domain.StageReconcile, "sales", i,
				"duplicate transaction for product %s, region %s on %s",
				rec.ProductID, rec.RegionID, rec.Date.Format("2006-01-02")))
			continue
		}
		seen[key] = append(seen[key], rec)

		row := domain.ReconciledRow{
			SalesRecord: rec,
			Revenue:     rec.Revenue(),
		}

		product, productOK := products[rec.ProductID]
		region, regionOK := regions[rec.RegionID]

		if !productOK || !regionOK {
			row.Unresolved = true
			if !productOK {
				row.MissingProductID = rec.ProductID
				diags = append(diags, domain.RowDiagnostic(domain.StageReconcile, "sales", i,
					"unresolved product_id %q", rec.ProductID))
			}
			if !regionOK {
				row.MissingRegionID = rec.RegionID
				diags = append(diags, domain.RowDiagnostic(domain.StageReconcile, "sales", i,
					"unresolved region_id %q", rec.RegionID))
			}
			result.Unresolved = append(result.Unresolved, row)
			continue
		}

		row.ProductName = product.Name
		row.RegionName = region.Name
		row.Category = resolveCategory(rec.Category, product.Category)

		result.Resolved = append(result.Resolved, row)
	}

	r.logger.Info("reconciliation complete",
		slog.Int("candidates", len(records)),
		slog.Int("resolved", len(result.Resolved)),
		slog.Int("unresolved", len(result.Unresolved)),
		slog.Int("duplicates", result.Duplicates))

	return result, diags
}

// resolveCategory applies the inheritance policy: the transaction value
// wins, then the product reference, then the Unknown sentinel.
func resolveCategory(fromRecord, fromProduct string) string {
	if fromRecord != "" {
		return fromRecord
	}
	if fromProduct != "" {
		return fromProduct
	}
	return domain.CategoryUnknown
}

func isDuplicate(kept []domain.SalesRecord, rec domain.SalesRecord) bool {
	for _, prev := range kept {
		if prev.Units == rec.Units && prev.UnitPrice.Equal(rec.UnitPrice) {
			return true
		}
	}
	return false
}
