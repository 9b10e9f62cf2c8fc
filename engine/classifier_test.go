package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gearscan/models"
)

func TestSubmitScanKnownBarcode(t *testing.T) {
	gw := newFakeGateway(catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3))
	s := newTestSession(t, gw)

	res := mustScan(t, s, "CAM001001")

	if !res.Created || !res.Known {
		t.Fatalf("expected created known entry, got %+v", res)
	}
	if res.Entry.ItemName != "FX6 Body" || res.Entry.TotalCount != 3 {
		t.Fatalf("entry did not mirror catalog item: %+v", res.Entry)
	}
	if res.Entry.SessionCount != 1 {
		t.Fatalf("new entry session count = %d, want 1", res.Entry.SessionCount)
	}
	if res.EditorOpened {
		t.Fatalf("known scan must not open the editor")
	}
}

func TestSubmitScanRepeatMergesIntoOneEntry(t *testing.T) {
	gw := newFakeGateway(catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3))
	s := newTestSession(t, gw)

	res := mustScanN(t, s, "CAM001001", 5)

	if res.Created {
		t.Fatalf("repeat scan must merge, not create")
	}
	if res.Entry.SessionCount != 5 {
		t.Fatalf("session count after 5 scans = %d, want 5", res.Entry.SessionCount)
	}
	if entries := s.Entries(); len(entries) != 1 {
		t.Fatalf("pending entries = %d, want 1", len(entries))
	}
}

func TestSubmitScanUnknownBarcodeOpensEditor(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(t, gw)

	res := mustScan(t, s, "ZZZ999999")

	if !res.Created || res.Known {
		t.Fatalf("expected created unknown entry, got %+v", res)
	}
	if !res.EditorOpened {
		t.Fatalf("first scan of an unknown barcode must open the editor")
	}
	editor := s.Editor()
	if editor.Mode != EditingUnknown {
		t.Fatalf("editor mode = %q, want %q", editor.Mode, EditingUnknown)
	}
	if editor.Baseline.Barcode != "ZZZ999999" {
		t.Fatalf("editor baseline barcode = %q", editor.Baseline.Barcode)
	}
}

func TestSubmitScanRepeatUnknownDoesNotReopenEditor(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(t, gw)

	mustScan(t, s, "ZZZ999999")
	s.CloseEditor()
	res := mustScan(t, s, "ZZZ999999")

	if res.Created || res.EditorOpened {
		t.Fatalf("repeat unknown scan must merge quietly, got %+v", res)
	}
	if res.Entry.SessionCount != 2 {
		t.Fatalf("session count = %d, want 2", res.Entry.SessionCount)
	}
}

func TestSubmitScanClassificationIsStable(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(t, gw)

	mustScan(t, s, "NEW000001")
	s.CloseEditor()

	// The barcode becomes a real catalog item mid-session. The pending entry
	// must stay in the unknown list and keep merging there.
	if _, err := gw.CreateItem(context.Background(), models.ItemFields{Barcode: "NEW000001", Group: models.GroupMisc, ItemName: "Late Arrival", TotalCount: 1}); err != nil {
		t.Fatalf("create item: %v", err)
	}

	res := mustScan(t, s, "NEW000001")
	if res.Created {
		t.Fatalf("expected merge into the existing unknown entry")
	}
	if res.Known {
		t.Fatalf("entry classification must not migrate after creation")
	}
	if res.Entry.SessionCount != 2 {
		t.Fatalf("session count = %d, want 2", res.Entry.SessionCount)
	}
}

func TestSubmitScanShortInputHeld(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(t, gw)

	res := mustScan(t, s, "AB12")

	if !res.Held {
		t.Fatalf("input below the minimum length must be held")
	}
	if gw.listCalls != 0 {
		t.Fatalf("held input must not hit the catalog, got %d calls", gw.listCalls)
	}
	if len(s.Entries()) != 0 {
		t.Fatalf("held input must not create entries")
	}
	if snap := s.Snapshot(); snap.PendingInput != "AB12" {
		t.Fatalf("pending input = %q, want held scan back in the buffer", snap.PendingInput)
	}
}

func TestSubmitScanBlankInputNoop(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(t, gw)

	res := mustScan(t, s, "   ")
	if res.Held || res.Created {
		t.Fatalf("blank input must be a no-op, got %+v", res)
	}
	if snap := s.Snapshot(); snap.PendingInput != "" {
		t.Fatalf("blank input must not be buffered, got %q", snap.PendingInput)
	}
}

func TestSubmitScanCatalogFailurePreservesInput(t *testing.T) {
	gw := newFakeGateway()
	gw.listErr = errors.New("catalog unreachable")
	s := newTestSession(t, gw)

	_, err := s.SubmitScan(context.Background(), "CAM001001")
	if err == nil {
		t.Fatalf("expected catalog fetch error")
	}
	if !strings.Contains(err.Error(), "catalog unreachable") {
		t.Fatalf("error must wrap the gateway failure, got %v", err)
	}
	if len(s.Entries()) != 0 {
		t.Fatalf("failed scan must not mutate the session")
	}
	if snap := s.Snapshot(); snap.PendingInput != "CAM001001" {
		t.Fatalf("failed scan must keep the input unconsumed, got %q", snap.PendingInput)
	}
}

func TestSubmitScanConsumesBufferOnEmptyCode(t *testing.T) {
	gw := newFakeGateway(catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3))
	s := newTestSession(t, gw)

	s.FeedScan("CAM00")
	s.FeedScan("1001")

	res := mustScan(t, s, "")
	if !res.Created || res.Entry.Barcode != "CAM001001" {
		t.Fatalf("buffered chunks must classify as one scan, got %+v", res)
	}
	if snap := s.Snapshot(); snap.PendingInput != "" {
		t.Fatalf("buffer must be empty after submit, got %q", snap.PendingInput)
	}
	if snap := s.Snapshot(); snap.LastScanned != "CAM001001" {
		t.Fatalf("last scanned = %q, want CAM001001", snap.LastScanned)
	}
}
