package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"gearscan/api/items"
	"gearscan/infrastructure/audit"
	"gearscan/infrastructure/sqlite"
	"gearscan/models"
)

// demoItems is a small rental inventory covering every item group so the
// scan flow can be exercised against a fresh database.
var demoItems = []models.ItemFields{
	{Barcode: "CAM001001", Group: models.GroupCamera, ItemName: "Sony FX6 Body", ItemDescription: "Full-frame cinema camera", Location: "Shelf A1", TotalCount: 3, PointsToRedeem: 120},
	{Barcode: "CAM001002", Group: models.GroupCamera, ItemName: "Blackmagic Pocket 6K", ItemDescription: "Super 35 cinema camera", Location: "Shelf A1", TotalCount: 2, PointsToRedeem: 80},
	{Barcode: "LEN002001", Group: models.GroupLenses, ItemName: "Sigma 18-35mm f/1.8", ItemDescription: "Zoom lens, EF mount", Location: "Shelf A2", TotalCount: 4, PointsToRedeem: 40},
	{Barcode: "LEN002002", Group: models.GroupLenses, ItemName: "Canon 50mm f/1.2", ItemDescription: "Prime lens, RF mount", Location: "Shelf A2", TotalCount: 2, PointsToRedeem: 35},
	{Barcode: "LIT003001", Group: models.GroupLighting, ItemName: "Aputure 600d", ItemDescription: "Daylight LED, bowens mount", Location: "Rack B1", TotalCount: 6, PointsToRedeem: 60},
	{Barcode: "LIT003002", Group: models.GroupLighting, ItemName: "Nanlite PavoTube 30C", ItemDescription: "RGB tube light", Location: "Rack B1", TotalCount: 8, PointsToRedeem: 15},
	{Barcode: "AUD004001", Group: models.GroupAudio, ItemName: "Sennheiser MKH 416", ItemDescription: "Shotgun microphone", Location: "Drawer C1", TotalCount: 5, PointsToRedeem: 30},
	{Barcode: "AUD004002", Group: models.GroupAudio, ItemName: "Zoom F6 Recorder", ItemDescription: "Six-channel field recorder", Location: "Drawer C1", TotalCount: 3, PointsToRedeem: 25},
	{Barcode: "GRP005001", Group: models.GroupGrip, ItemName: "C-Stand 40in", ItemDescription: "Chrome with grip arm", Location: "Floor D1", TotalCount: 12, PointsToRedeem: 5},
	{Barcode: "PWR006001", Group: models.GroupPower, ItemName: "V-Mount Battery 190Wh", ItemDescription: "With D-tap output", Location: "Shelf E1", TotalCount: 10, PointsToRedeem: 10},
	{Barcode: "CBL007001", Group: models.GroupCables, ItemName: "SDI Cable 15m", ItemDescription: "12G-SDI BNC", Location: "Bin F1", TotalCount: 20, PointsToRedeem: 2},
	{Barcode: "ACC008001", Group: models.GroupAccessories, ItemName: "Follow Focus Kit", ItemDescription: "Wireless, three channels", Location: "Shelf A3", TotalCount: 2, PointsToRedeem: 45},
	{Barcode: "MSC009001", Group: models.GroupMisc, ItemName: "Gaffer Tape Black", ItemDescription: "50mm x 50m roll", Location: "Bin F2", TotalCount: 24, PointsToRedeem: 1},
}

func main() {
	dbPath := getenv("SQLITE_PATH", "gearscan.db")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := sqlite.ApplyEmbeddedMigrations(ctx, db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	auditSvc := audit.NewService()

	created := 0
	for _, fields := range demoItems {
		fields.UpdatedBy = "seed"
		if _, err := items.CreateItem(ctx, db, auditSvc, fields); err != nil {
			if errors.Is(err, items.ErrBarcodeTaken) {
				continue
			}
			log.Fatalf("seed item %s: %v", fields.Barcode, err)
		}
		created++
	}

	fmt.Printf("seeded %d of %d demo items into %s\n", created, len(demoItems), dbPath)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
