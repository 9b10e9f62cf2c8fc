package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"gearscan/models"
)

// fakeGateway is an in-memory catalog for engine tests. Per-barcode errors
// let tests fail individual calls inside a fan-out batch.
type fakeGateway struct {
	mu sync.Mutex

	items []models.CatalogItem

	listErr    error
	createErrs map[string]error
	updateErrs map[string]error

	listCalls   int
	createCalls []models.ItemFields
	updateCalls []fakeUpdate
	deleteCalls []string
}

type fakeUpdate struct {
	ID      string
	Version int64
	Fields  models.ItemFields
}

func newFakeGateway(items ...models.CatalogItem) *fakeGateway {
	return &fakeGateway{
		items:      items,
		createErrs: make(map[string]error),
		updateErrs: make(map[string]error),
	}
}

func (g *fakeGateway) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]models.CatalogItem, len(g.items))
	copy(out, g.items)
	return out, nil
}

func (g *fakeGateway) CreateItem(ctx context.Context, fields models.ItemFields) (models.CatalogItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls = append(g.createCalls, fields)
	if err := g.createErrs[fields.Barcode]; err != nil {
		return models.CatalogItem{}, err
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
	}
	g.items = append(g.items, item)
	return item, nil
}

func (g *fakeGateway) UpdateItem(ctx context.Context, id string, version int64, fields models.ItemFields) (models.CatalogItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateCalls = append(g.updateCalls, fakeUpdate{ID: id, Version: version, Fields: fields})
	if err := g.updateErrs[fields.Barcode]; err != nil {
		return models.CatalogItem{}, err
	}
	for i := range g.items {
		if g.items[i].ID == id {
			g.items[i].Barcode = fields.Barcode
			g.items[i].Group = fields.Group
			g.items[i].ItemName = fields.ItemName
			g.items[i].ItemDescription = fields.ItemDescription
			g.items[i].Location = fields.Location
			g.items[i].TotalCount = fields.TotalCount
			g.items[i].PointsToRedeem = fields.PointsToRedeem
			g.items[i].Version++
			return g.items[i], nil
		}
	}
	return models.CatalogItem{}, errors.New("item not found")
}

func (g *fakeGateway) DeleteItem(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleteCalls = append(g.deleteCalls, id)
	return nil
}

func catalogItem(barcode, group, name string, count int64) models.CatalogItem {
	return models.CatalogItem{
		ID:         uuid.NewString(),
		Barcode:    barcode,
		Group:      group,
		ItemName:   name,
		TotalCount: count,
		Version:    1,
	}
}

func newTestSession(t *testing.T, gw Gateway) *Session {
	t.Helper()
	s := NewSession(gw, "tester", time.Hour)
	t.Cleanup(s.Close)
	return s
}

func mustScan(t *testing.T, s *Session, code string) ScanResult {
	t.Helper()
	res, err := s.SubmitScan(context.Background(), code)
	if err != nil {
		t.Fatalf("submit scan %q: %v", code, err)
	}
	return res
}

func mustScanN(t *testing.T, s *Session, code string, n int) ScanResult {
	t.Helper()
	var res ScanResult
	for i := 0; i < n; i++ {
		res = mustScan(t, s, code)
	}
	return res
}
