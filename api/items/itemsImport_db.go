package items

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"gearscan/infrastructure/audit"
	"gearscan/infrastructure/sqlite"
	"gearscan/models"
)

// ImportSummary counts the outcome of a CSV import.
type ImportSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Errors   int `json:"errors"`
}

var importHeader = []string{"barcode", "group", "itemName", "itemDescription", "location", "count", "pointsToRedeem"}

// ImportCSV bulk-loads the item master. Rows are matched by barcode:
// existing items are updated in place (version bumped), new barcodes are
// inserted. Malformed rows are counted and skipped, not fatal.
func ImportCSV(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, reader io.Reader) (ImportSummary, error) {
	summary := ImportSummary{}
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return summary, fmt.Errorf("read header: %w", err)
	}
	if err := checkImportHeader(header); err != nil {
		return summary, err
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for {
			record, err := r.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				summary.Errors++
				continue
			}
			fields, err := parseImportRecord(record)
			if err != nil {
				summary.Errors++
				continue
			}
			fields.UpdatedBy = actor

			inserted, err := upsertByBarcode(ctx, tx, auditSvc, fields)
			if err != nil {
				return err
			}
			if inserted {
				summary.Inserted++
			} else {
				summary.Updated++
			}
		}
	})
	return summary, err
}

func checkImportHeader(header []string) error {
	if len(header) < len(importHeader) {
		return fmt.Errorf("invalid CSV header; expected %s", strings.Join(importHeader, ","))
	}
	for i, want := range importHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("invalid CSV header; expected %s", strings.Join(importHeader, ","))
		}
	}
	return nil
}

func parseImportRecord(record []string) (models.ItemFields, error) {
	if len(record) < len(importHeader) {
		return models.ItemFields{}, fmt.Errorf("short record")
	}
	count, err := strconv.ParseInt(strings.TrimSpace(record[5]), 10, 64)
	if err != nil {
		return models.ItemFields{}, fmt.Errorf("invalid count: %w", err)
	}
	points, err := strconv.ParseInt(strings.TrimSpace(record[6]), 10, 64)
	if err != nil {
		return models.ItemFields{}, fmt.Errorf("invalid points: %w", err)
	}
	fields := normalizeFields(models.ItemFields{
		Barcode:         record[0],
		Group:           record[1],
		ItemName:        record[2],
		ItemDescription: record[3],
		Location:        record[4],
		TotalCount:      count,
		PointsToRedeem:  points,
	})
	if err := validateFields(fields); err != nil {
		return models.ItemFields{}, err
	}
	return fields, nil
}

func upsertByBarcode(ctx context.Context, tx bun.Tx, auditSvc *audit.Service, fields models.ItemFields) (inserted bool, err error) {
	var existing models.CatalogItem
	err = tx.NewSelect().Model(&existing).Where("barcode = ?", fields.Barcode).Limit(1).Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	now := time.Now().UTC()
	if err == nil {
		before := existing
		existing.Group = fields.Group
		existing.ItemName = fields.ItemName
		existing.ItemDescription = fields.ItemDescription
		existing.Location = fields.Location
		existing.TotalCount = fields.TotalCount
		existing.PointsToRedeem = fields.PointsToRedeem
		existing.UpdatedBy = fields.UpdatedBy
		existing.UpdatedAt = now
		existing.Version++
		if _, err := tx.NewUpdate().Model(&existing).WherePK().Exec(ctx); err != nil {
			return false, err
		}
		if auditSvc != nil {
			if err := auditSvc.Write(ctx, tx, fields.UpdatedBy, "item.import.update", "catalog_items", existing.ID, before, existing); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	item := models.CatalogItem{
		ID:              uuid.NewString(),
		Barcode:         fields.Barcode,
		Group:           fields.Group,
		ItemName:        fields.ItemName,
		ItemDescription: fields.ItemDescription,
		Location:        fields.Location,
		TotalCount:      fields.TotalCount,
		PointsToRedeem:  fields.PointsToRedeem,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
		UpdatedBy:       fields.UpdatedBy,
	}
	if _, err := tx.NewInsert().Model(&item).Exec(ctx); err != nil {
		return false, err
	}
	if auditSvc != nil {
		if err := auditSvc.Write(ctx, tx, fields.UpdatedBy, "item.import.create", "catalog_items", item.ID, nil, item); err != nil {
			return false, err
		}
	}
	return true, nil
}
