package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gearscan/api/items"
	"gearscan/infrastructure/sqlite"
)

var exportHeader = []string{"barcode", "group", "itemName", "itemDescription", "location", "count", "pointsToRedeem", "updatedAt", "updatedBy"}

// WriteItemsCSV streams the catalog as CSV. The column layout matches the
// import format with audit columns appended.
func WriteItemsCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	all, err := items.ListItems(ctx, db)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, item := range all {
		record := []string{
			item.Barcode,
			item.Group,
			item.ItemName,
			item.ItemDescription,
			item.Location,
			strconv.FormatInt(item.TotalCount, 10),
			strconv.FormatInt(item.PointsToRedeem, 10),
			item.UpdatedAt.Format("2006-01-02 15:04:05"),
			item.UpdatedBy,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
