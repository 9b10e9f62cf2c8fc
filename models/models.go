package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Catalog item groups. Entries whose group matches none of these fall into
// the "unknown" bucket when grouped for display.
const (
	GroupCamera      = "camera"
	GroupLighting    = "lighting"
	GroupAudio       = "audio"
	GroupLenses      = "lenses"
	GroupAccessories = "accessories"
	GroupGrip        = "grip"
	GroupPower       = "power"
	GroupCables      = "cables"
	GroupMisc        = "misc"
	GroupOthers      = "others"

	GroupUnknown = "unknown"
)

// ItemGroups lists every assignable catalog group.
var ItemGroups = []string{
	GroupCamera,
	GroupLighting,
	GroupAudio,
	GroupLenses,
	GroupAccessories,
	GroupGrip,
	GroupPower,
	GroupCables,
	GroupMisc,
	GroupOthers,
}

// ValidGroup reports whether g (case-insensitive, trimmed) is an assignable group.
func ValidGroup(g string) bool {
	g = strings.ToLower(strings.TrimSpace(g))
	for _, known := range ItemGroups {
		if g == known {
			return true
		}
	}
	return false
}

// CatalogItem is the authoritative inventory record served by catalogd.
// Version increments on every successful update; stale writers are rejected.
type CatalogItem struct {
	bun.BaseModel `bun:"table:catalog_items,alias:ci"`

	ID              string    `bun:"id,pk" json:"id"`
	Barcode         string    `bun:"barcode,unique,notnull" json:"barcode"`
	Group           string    `bun:"item_group,notnull" json:"group"`
	ItemName        string    `bun:"item_name,notnull" json:"itemName"`
	ItemDescription string    `bun:"item_description" json:"itemDescription"`
	Location        string    `bun:"location" json:"location"`
	TotalCount      int64     `bun:"total_count,notnull" json:"count"`
	PointsToRedeem  int64     `bun:"points_to_redeem,notnull" json:"pointsToRedeem"`
	Version         int64     `bun:"version,notnull,default:1" json:"version"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
	UpdatedBy       string    `bun:"updated_by" json:"updatedBy"`
}

// ItemFields carries the writable fields of a catalog item across the wire.
// TotalCount is the absolute stock level to store, already adjusted by the
// caller (receive adds the session quantity, dispatch subtracts it).
type ItemFields struct {
	Barcode         string `json:"barcode"`
	Group           string `json:"group"`
	ItemName        string `json:"itemName"`
	ItemDescription string `json:"itemDescription"`
	Location        string `json:"location"`
	TotalCount      int64  `json:"count"`
	PointsToRedeem  int64  `json:"pointsToRedeem"`
	UpdatedBy       string `json:"updatedBy"`
}

// AuditLog captures immutable change history for catalog mutations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Actor      string    `bun:"actor,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
