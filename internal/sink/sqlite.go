package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/salescope/salescope-cli/internal/dataset"
)

// snapshotColumns maps column name to SQLite type for the snapshot relation,
// source columns first, derived columns last.
var snapshotColumns = []struct {
	name string
	typ  string
}{
	{"Model", "TEXT"},
	{"Year", "INTEGER"},
	{"Region", "TEXT"},
	{"Color", "TEXT"},
	{"Fuel_Type", "TEXT"},
	{"Transmission", "TEXT"},
	{"Engine_Size_L", "REAL"},
	{"Mileage_KM", "REAL"},
	{"Price_USD", "REAL"},
	{"Sales_Volume", "INTEGER"},
	{"Sales_Classification", "TEXT"},
	{"Price_per_KM", "REAL"},
	{"Vehicle_Age", "INTEGER"},
	{"Model_Segment", "TEXT"},
}

// WriteSQLite snapshots the enriched table into the named relation,
// replacing any prior relation of the same name. Missing numeric values are
// stored as NULL.
func WriteSQLite(ctx context.Context, path, table string, t *dataset.Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", table)); err != nil {
		return fmt.Errorf("drop relation: %w", err)
	}
	defs := make([]string, 0, len(snapshotColumns))
	for _, c := range snapshotColumns {
		defs = append(defs, fmt.Sprintf("%q %s", c.name, c.typ))
	}
	create := fmt.Sprintf("CREATE TABLE %q (%s)", table, strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create relation: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(snapshotColumns)), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, placeholders))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range t.Records {
		r := &t.Records[i]
		if _, err := stmt.ExecContext(ctx,
			r.Model, r.Year, r.Region, r.Color, r.FuelType, r.Transmission,
			r.EngineSize, r.MileageKM, r.PriceUSD, r.SalesVolume, r.Classification,
			r.PricePerKM, r.VehicleAge, r.Segment,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
