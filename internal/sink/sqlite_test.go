package sink

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestWriteSQLite(t *testing.T) {
	tab, _, _ := sinkFixture()
	path := filepath.Join(t.TempDir(), "snapshot.db")
	ctx := context.Background()
	if err := WriteSQLite(ctx, path, "vehicle_sales", tab); err != nil {
		t.Fatalf("WriteSQLite: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "vehicle_sales"`).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != len(tab.Records) {
		t.Fatalf("rows = %d, want %d", n, len(tab.Records))
	}

	var model, segment string
	var price sql.NullFloat64
	row := db.QueryRowContext(ctx, `SELECT "Model", "Model_Segment", "Price_USD" FROM "vehicle_sales" WHERE "Model" = 'X5'`)
	if err := row.Scan(&model, &segment, &price); err != nil {
		t.Fatalf("scan row: %v", err)
	}
	if segment != "SUV" || !price.Valid || price.Float64 != 50000 {
		t.Fatalf("X5 row = %s/%v", segment, price)
	}

	// Missing values persist as NULL.
	var nullPrices int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "vehicle_sales" WHERE "Price_USD" IS NULL`).Scan(&nullPrices); err != nil {
		t.Fatalf("count nulls: %v", err)
	}
	if nullPrices != 1 {
		t.Fatalf("null prices = %d, want 1", nullPrices)
	}
}

func TestWriteSQLiteReplacesPriorSnapshot(t *testing.T) {
	tab, _, _ := sinkFixture()
	path := filepath.Join(t.TempDir(), "snapshot.db")
	ctx := context.Background()
	if err := WriteSQLite(ctx, path, "vehicle_sales", tab); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteSQLite(ctx, path, "vehicle_sales", tab); err != nil {
		t.Fatalf("second write: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "vehicle_sales"`).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != len(tab.Records) {
		t.Fatalf("rows after rewrite = %d, want %d", n, len(tab.Records))
	}
}
