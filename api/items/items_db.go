package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"gearscan/infrastructure/audit"
	"gearscan/infrastructure/sqlite"
	"gearscan/models"
)

var (
	// ErrVersionConflict means the caller's item version is stale.
	ErrVersionConflict = errors.New("item version conflict")

	// ErrBarcodeTaken means another item already carries the barcode.
	ErrBarcodeTaken = errors.New("barcode already exists")
)

// ListItems returns the full catalog ordered by barcode.
func ListItems(ctx context.Context, db *sqlite.DB) ([]models.CatalogItem, error) {
	items := make([]models.CatalogItem, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&items).
			OrderExpr("barcode ASC").
			Scan(ctx)
	})
	return items, err
}

// GetItem loads one catalog item by id.
func GetItem(ctx context.Context, db *sqlite.DB, id string) (models.CatalogItem, error) {
	var item models.CatalogItem
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&item).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	return item, err
}

// CreateItem stores a new catalog item and writes an audit row.
func CreateItem(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, fields models.ItemFields) (models.CatalogItem, error) {
	fields = normalizeFields(fields)
	if err := validateFields(fields); err != nil {
		return models.CatalogItem{}, err
	}

	now := time.Now().UTC()
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

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var count int
		if err := tx.NewRaw(`SELECT COUNT(*) FROM catalog_items WHERE barcode = ?`, item.Barcode).Scan(ctx, &count); err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("barcode %q: %w", item.Barcode, ErrBarcodeTaken)
		}
		if _, err := tx.NewInsert().Model(&item).Exec(ctx); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, item.UpdatedBy, "item.create", "catalog_items", item.ID, nil, item)
		}
		return nil
	})
	if err != nil {
		return models.CatalogItem{}, err
	}
	return item, nil
}

// UpdateItem replaces the supplied fields when version matches the stored
// item, bumping the version. Stale writers get ErrVersionConflict so two
// operators cannot silently overwrite each other's stock delta.
func UpdateItem(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id string, version int64, fields models.ItemFields) (models.CatalogItem, error) {
	fields = normalizeFields(fields)
	if err := validateFields(fields); err != nil {
		return models.CatalogItem{}, err
	}

	var item models.CatalogItem
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&item).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if item.Version != version {
			return fmt.Errorf("item %s at version %d, caller has %d: %w", id, item.Version, version, ErrVersionConflict)
		}

		var count int
		if err := tx.NewRaw(`SELECT COUNT(*) FROM catalog_items WHERE barcode = ? AND id != ?`, fields.Barcode, id).Scan(ctx, &count); err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("barcode %q: %w", fields.Barcode, ErrBarcodeTaken)
		}

		before := item
		item.Barcode = fields.Barcode
		item.Group = fields.Group
		item.ItemName = fields.ItemName
		item.ItemDescription = fields.ItemDescription
		item.Location = fields.Location
		item.TotalCount = fields.TotalCount
		item.PointsToRedeem = fields.PointsToRedeem
		item.UpdatedBy = fields.UpdatedBy
		item.UpdatedAt = time.Now().UTC()
		item.Version++

		if _, err := tx.NewUpdate().Model(&item).WherePK().Exec(ctx); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, item.UpdatedBy, "item.update", "catalog_items", item.ID, before, item)
		}
		return nil
	})
	if err != nil {
		return models.CatalogItem{}, err
	}
	return item, nil
}

// DeleteItem removes a catalog item.
func DeleteItem(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor, id string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var item models.CatalogItem
		if err := tx.NewSelect().Model(&item).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model(&item).WherePK().Exec(ctx); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, actor, "item.delete", "catalog_items", item.ID, item, nil)
		}
		return nil
	})
}

func normalizeFields(f models.ItemFields) models.ItemFields {
	f.Barcode = strings.TrimSpace(f.Barcode)
	f.Group = strings.ToLower(strings.TrimSpace(f.Group))
	f.ItemName = strings.TrimSpace(f.ItemName)
	f.ItemDescription = strings.TrimSpace(f.ItemDescription)
	f.Location = strings.TrimSpace(f.Location)
	f.UpdatedBy = strings.TrimSpace(f.UpdatedBy)
	if f.Group == "" {
		f.Group = models.GroupOthers
	}
	return f
}

func validateFields(f models.ItemFields) error {
	if f.Barcode == "" {
		return fmt.Errorf("barcode is required")
	}
	if !models.ValidGroup(f.Group) {
		return fmt.Errorf("unknown item group %q", f.Group)
	}
	if f.TotalCount < 0 {
		return fmt.Errorf("count must be 0 or greater")
	}
	if f.PointsToRedeem < 0 {
		return fmt.Errorf("points to redeem must be 0 or greater")
	}
	return nil
}

// IsNotFound reports whether err means the item does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
