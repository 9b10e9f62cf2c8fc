package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gearscan/models"
)

// ScanResult reports what a processed scan did to the session.
type ScanResult struct {
	Entry        SessionEntry `json:"entry"`
	Created      bool         `json:"created"`
	Known        bool         `json:"known"`
	Held         bool         `json:"held"`
	EditorOpened bool         `json:"editorOpened"`
}

// scanTimeout bounds the catalog fetch for a debounce-fired scan, which has
// no caller context of its own.
const scanTimeout = 10 * time.Second

// FeedScan appends raw scanner input to the debounce buffer. The buffered
// value is classified once input goes quiet for the configured period.
func (s *Session) FeedScan(input string) {
	s.buffer.Feed(input)
}

// SubmitScan classifies a completed scan immediately. With code empty, the
// current buffer content is consumed instead (scanner Enter terminator).
// Trimmed input below MinScanLength is held in the buffer, not processed.
// If the catalog fetch fails, the input is preserved as unconsumed and no
// session state changes.
func (s *Session) SubmitScan(ctx context.Context, code string) (ScanResult, error) {
	raw := code
	if raw == "" {
		raw = s.buffer.Take()
	}

	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < MinScanLength {
		if trimmed != "" {
			s.buffer.Restore(raw)
		}
		return ScanResult{Held: trimmed != ""}, nil
	}

	items, err := s.gw.ListItems(ctx)
	if err != nil {
		s.buffer.Restore(raw)
		return ScanResult{}, fmt.Errorf("fetch catalog: %w", err)
	}

	var match *models.CatalogItem
	for i := range items {
		if items[i].Barcode == trimmed {
			match = &items[i]
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.classifyLocked(trimmed, match)
	s.lastScanned = trimmed
	s.buffer.Clear()
	return res, nil
}

// classifyLocked merges the scan into the matching pending list, or creates
// a new entry. An entry's known/unknown partition is fixed at creation and
// never migrates, regardless of later catalog changes.
func (s *Session) classifyLocked(barcode string, match *models.CatalogItem) ScanResult {
	if match != nil {
		for _, e := range s.known {
			if e.Barcode == barcode {
				e.SessionCount++
				return ScanResult{Entry: *e, Known: true}
			}
		}
		entry := &SessionEntry{
			ID:              uuid.NewString(),
			CatalogID:       match.ID,
			Barcode:         barcode,
			Group:           match.Group,
			ItemName:        match.ItemName,
			ItemDescription: match.ItemDescription,
			Location:        match.Location,
			PointsToRedeem:  match.PointsToRedeem,
			TotalCount:      match.TotalCount,
			Version:         match.Version,
			SessionCount:    1,
			Known:           true,
		}
		s.known = append(s.known, entry)
		return ScanResult{Entry: *entry, Created: true, Known: true}
	}

	for _, e := range s.unknown {
		if e.Barcode == barcode {
			e.SessionCount++
			return ScanResult{Entry: *e}
		}
	}
	entry := &SessionEntry{
		ID:           uuid.NewString(),
		Barcode:      barcode,
		SessionCount: 1,
	}
	s.unknown = append(s.unknown, entry)

	// A brand-new unknown item goes straight into edit mode so the operator
	// names it before it is usable.
	s.openEditorLocked(entry)
	return ScanResult{Entry: *entry, Created: true, EditorOpened: true}
}

// flushScan is the debounce task body. Failures become operator notices; the
// unconsumed input stays buffered for retry.
func (s *Session) flushScan() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	if _, err := s.SubmitScan(ctx, ""); err != nil {
		slog.Error("debounced scan failed", slog.String("session_id", s.ID), slog.Any("err", err))
		s.mu.Lock()
		s.pushNoticeLocked("error", fmt.Sprintf("scan not processed: %v", err))
		s.mu.Unlock()
	}
}
