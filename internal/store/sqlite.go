// Package store persists finalized aggregate tables to SQLite.
//
// The store is only invoked after aggregation completes; each run replaces
// the previous tables inside a single transaction, so readers never see a
// partial write. Monetary values are stored as exact decimal strings, not
// floats.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"salespipe/pkg/contracts/domain"
)

// Store wraps the SQLite database holding aggregate tables.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the database file and prepares the schema.
func Open(logger *slog.Logger, path string) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS monthly_sales (
	seq           INTEGER PRIMARY KEY,
	period        TEXT NOT NULL,
	total_revenue TEXT NOT NULL,
	total_units   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS product_performance (
	seq           INTEGER PRIMARY KEY,
	product_id    TEXT NOT NULL,
	product_name  TEXT NOT NULL,
	total_units   INTEGER NOT NULL,
	total_revenue TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS regional_performance (
	seq           INTEGER PRIMARY KEY,
	region_id     TEXT NOT NULL,
	region_name   TEXT NOT NULL,
	total_revenue TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS unresolved_rows (
	seq                INTEGER PRIMARY KEY,
	date               TEXT NOT NULL,
	product_id         TEXT NOT NULL,
	region_id          TEXT NOT NULL,
	units_sold         INTEGER NOT NULL,
	unit_price         TEXT NOT NULL,
	missing_product_id TEXT NOT NULL,
	missing_region_id  TEXT NOT NULL
);
`

func (s *Store) createSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun replaces the persisted tables with this run's results.
func (s *Store) SaveRun(set domain.AggregateSet, unresolved []domain.ReconciledRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"monthly_sales", "product_performance", "regional_performance", "unresolved_rows"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	for i, row := range set.Monthly {
		if _, err := tx.Exec(
			"INSERT INTO monthly_sales (seq, period, total_revenue, total_units) VALUES (?, ?, ?, ?)",
			i, row.Period, row.TotalRevenue.String(), row.TotalUnits,
		); err != nil {
			return fmt.Errorf("failed to insert monthly row %d: %w", i, err)
		}
	}

	for i, row := range set.Products {
		if _, err := tx.Exec(
			"INSERT INTO product_performance (seq, product_id, product_name, total_units, total_revenue) VALUES (?, ?, ?, ?, ?)",
			i, row.ProductID, row.ProductName, row.TotalUnits, row.TotalRevenue.String(),
		); err != nil {
			return fmt.Errorf("failed to insert product row %d: %w", i, err)
		}
	}

	for i, row := range set.Regions {
		if _, err := tx.Exec(
			"INSERT INTO regional_performance (seq, region_id, region_name, total_revenue) VALUES (?, ?, ?, ?)",
			i, row.RegionID, row.RegionName, row.TotalRevenue.String(),
		); err != nil {
			return fmt.Errorf("failed to insert region row %d: %w", i, err)
		}
	}

	for i, row := range unresolved {
		if _, err := tx.Exec(
			"INSERT INTO unresolved_rows (seq, date, product_id, region_id, units_sold, unit_price, missing_product_id, missing_region_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			i, row.Date.Format("2006-01-02"), row.ProductID, row.RegionID,
			row.Units, row.UnitPrice.String(), row.MissingProductID, row.MissingRegionID,
		); err != nil {
			return fmt.Errorf("failed to insert unresolved row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Info("persisted run",
		slog.Int("monthly_rows", len(set.Monthly)),
		slog.Int("product_rows", len(set.Products)),
		slog.Int("region_rows", len(set.Regions)),
		slog.Int("unresolved_rows", len(unresolved)))

	return nil
}

// LoadAggregates reads the persisted tables back in stored order.
func (s *Store) LoadAggregates() (domain.AggregateSet, error) {
	var set domain.AggregateSet

	rows, err := s.db.Query("SELECT period, total_revenue, total_units FROM monthly_sales ORDER BY seq")
	if err != nil {
		return set, fmt.Errorf("failed to query monthly_sales: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r domain.MonthlyRow
		var revenue string
		if err := rows.Scan(&r.Period, &revenue, &r.TotalUnits); err != nil {
			return set, fmt.Errorf("failed to scan monthly row: %w", err)
		}
		if r.TotalRevenue, err = decimal.NewFromString(revenue); err != nil {
			return set, fmt.Errorf("corrupt revenue in monthly_sales: %w", err)
		}
		set.Monthly = append(set.Monthly, r)
	}
	if err := rows.Err(); err != nil {
		return set, err
	}

	prows, err := s.db.Query("SELECT product_id, product_name, total_units, total_revenue FROM product_performance ORDER BY seq")
	if err != nil {
		return set, fmt.Errorf("failed to query product_performance: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var r domain.ProductRow
		var revenue string
		if err := prows.Scan(&r.ProductID, &r.ProductName, &r.TotalUnits, &revenue); err != nil {
			return set, fmt.Errorf("failed to scan product row: %w", err)
		}
		if r.TotalRevenue, err = decimal.NewFromString(revenue); err != nil {
			return set, fmt.Errorf("corrupt revenue in product_performance: %w", err)
		}
		set.Products = append(set.Products, r)
	}
	if err := prows.Err(); err != nil {
		return set, err
	}

	rrows, err := s.db.Query("SELECT region_id, region_name, total_revenue FROM regional_performance ORDER BY seq")
	if err != nil {
		return set, fmt.Errorf("failed to query regional_performance: %w", err)
	}
	defer rrows.Close()
	for rrows.Next() {
		var r domain.RegionRow
		var revenue string
		if err := rrows.Scan(&r.RegionID, &r.RegionName, &revenue); err != nil {
			return set, fmt.Errorf("failed to scan region row: %w", err)
		}
		if r.TotalRevenue, err = decimal.NewFromString(revenue); err != nil {
			return set, fmt.Errorf("corrupt revenue in regional_performance: %w", err)
		}
		set.Regions = append(set.Regions, r)
	}
	if err := rrows.Err(); err != nil {
		return set, err
	}

	return set, nil
}
