package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"testing"

	"gearscan/api/items"
	"gearscan/infrastructure/sqlite"
	"gearscan/models"
)

func openExportTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "export-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestWriteItemsCSV(t *testing.T) {
	db := openExportTestDB(t)
	for _, fields := range []models.ItemFields{
		{Barcode: "CAM001001", Group: models.GroupCamera, ItemName: "FX6 Body", TotalCount: 3, PointsToRedeem: 120, UpdatedBy: "tester"},
		{Barcode: "AUD004001", Group: models.GroupAudio, ItemName: "MKH 416", TotalCount: 5},
	} {
		if _, err := items.CreateItem(context.Background(), db, nil, fields); err != nil {
			t.Fatalf("seed item %s: %v", fields.Barcode, err)
		}
	}

	var out bytes.Buffer
	if err := WriteItemsCSV(context.Background(), db, &out); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header plus 2 rows", len(records))
	}
	if records[0][0] != "barcode" || records[0][8] != "updatedBy" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	// ListItems orders by barcode, AUD before CAM.
	if records[1][0] != "AUD004001" || records[2][0] != "CAM001001" {
		t.Fatalf("unexpected row order: %v / %v", records[1], records[2])
	}
	if records[2][5] != "3" || records[2][6] != "120" {
		t.Fatalf("count/points columns wrong: %v", records[2])
	}
}

func TestWriteItemsCSVEmptyCatalog(t *testing.T) {
	db := openExportTestDB(t)

	var out bytes.Buffer
	if err := WriteItemsCSV(context.Background(), db, &out); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	records, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("empty catalog must still emit the header, got %d records", len(records))
	}
}
