package engine

import (
	"context"
	"errors"
	"testing"

	"gearscan/models"
)

func TestSaveEditorUnknownIsLocalOnly(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(t, gw)
	res := mustScan(t, s, "MYSTERY001")

	draft := s.Editor().Baseline
	draft.ItemName = "Mystery Cable"
	draft.Group = models.GroupCables
	draft.SessionCount = 4

	saved, err := s.SaveEditor(context.Background(), draft)
	if err != nil {
		t.Fatalf("save editor: %v", err)
	}
	if saved.ID != res.Entry.ID {
		t.Fatalf("saved entry id = %q, want %q", saved.ID, res.Entry.ID)
	}
	if saved.ItemName != "Mystery Cable" || saved.Group != models.GroupCables || saved.SessionCount != 4 {
		t.Fatalf("draft not applied: %+v", saved)
	}
	if saved.Known {
		t.Fatalf("editing must not reclassify the entry")
	}
	if len(gw.createCalls) != 0 || len(gw.updateCalls) != 0 {
		t.Fatalf("unknown save must not touch the catalog")
	}
	if s.Editor().Mode != EditorClosed {
		t.Fatalf("editor must close after a successful save")
	}
}

func TestSaveEditorKnownUpdatesCatalog(t *testing.T) {
	item := catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3)
	item.Location = "Shelf A1"
	gw := newFakeGateway(item)
	s := newTestSession(t, gw)
	res := mustScan(t, s, "CAM001001")

	if _, err := s.OpenEditor(res.Entry.ID); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	draft := s.Editor().Baseline
	draft.Location = "Shelf B2"

	saved, err := s.SaveEditor(context.Background(), draft)
	if err != nil {
		t.Fatalf("save editor: %v", err)
	}
	if saved.Location != "Shelf B2" {
		t.Fatalf("location not applied: %+v", saved)
	}
	if len(gw.updateCalls) != 1 {
		t.Fatalf("expected one catalog update, got %d", len(gw.updateCalls))
	}
	call := gw.updateCalls[0]
	if call.ID != item.ID || call.Version != 1 {
		t.Fatalf("update call = %+v, want id %s at version 1", call, item.ID)
	}
	if call.Fields.TotalCount != 3 {
		t.Fatalf("editor save sent stock %d, must leave stock at 3", call.Fields.TotalCount)
	}
	if saved.Version != 2 {
		t.Fatalf("entry version = %d, want the bumped catalog version 2", saved.Version)
	}
}

func TestSaveEditorKnownFailureKeepsEditorOpen(t *testing.T) {
	gw := newFakeGateway(catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3))
	gw.updateErrs["CAM001001"] = errors.New("version conflict")
	s := newTestSession(t, gw)
	res := mustScan(t, s, "CAM001001")

	if _, err := s.OpenEditor(res.Entry.ID); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	draft := s.Editor().Baseline
	draft.ItemName = "Renamed"

	if _, err := s.SaveEditor(context.Background(), draft); err == nil {
		t.Fatalf("expected save failure")
	}
	if s.Editor().Mode != EditingKnown {
		t.Fatalf("editor must stay open for retry, mode = %q", s.Editor().Mode)
	}
	entries := s.Entries()
	if entries[0].ItemName != "FX6 Body" {
		t.Fatalf("failed save must leave the entry unchanged, got %q", entries[0].ItemName)
	}
}

func TestSaveEditorNoChanges(t *testing.T) {
	gw := newFakeGateway(catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3))
	s := newTestSession(t, gw)
	res := mustScan(t, s, "CAM001001")

	if _, err := s.OpenEditor(res.Entry.ID); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	draft := s.Editor().Baseline
	draft.ItemName = "  " + draft.ItemName + "  "

	if _, err := s.SaveEditor(context.Background(), draft); !errors.Is(err, ErrNoChanges) {
		t.Fatalf("whitespace-only edits must be a no-op, got %v", err)
	}
	if len(gw.updateCalls) != 0 {
		t.Fatalf("no-op save must not call the catalog")
	}
}

func TestSaveEditorClosed(t *testing.T) {
	s := newTestSession(t, newFakeGateway())
	if _, err := s.SaveEditor(context.Background(), EntryDraft{Barcode: "CAM001001", SessionCount: 1}); !errors.Is(err, ErrEditorClosed) {
		t.Fatalf("expected ErrEditorClosed, got %v", err)
	}
}

func TestSaveEditorValidation(t *testing.T) {
	gw := newFakeGateway(catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3))
	s := newTestSession(t, gw)
	res := mustScan(t, s, "CAM001001")
	mustScan(t, s, "MYSTERY001")
	s.CloseEditor()

	if _, err := s.OpenEditor(res.Entry.ID); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	base := s.Editor().Baseline

	cases := []struct {
		name   string
		mutate func(d *EntryDraft)
	}{
		{"blank barcode", func(d *EntryDraft) { d.Barcode = "" }},
		{"zero count", func(d *EntryDraft) { d.SessionCount = 0 }},
		{"negative points", func(d *EntryDraft) { d.PointsToRedeem = -1 }},
		{"bogus group", func(d *EntryDraft) { d.Group = "gadgets" }},
		{"duplicate barcode", func(d *EntryDraft) { d.Barcode = "MYSTERY001" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := base
			tc.mutate(&draft)
			if _, err := s.SaveEditor(context.Background(), draft); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestHasChanges(t *testing.T) {
	gw := newFakeGateway(catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3))
	s := newTestSession(t, gw)
	res := mustScan(t, s, "CAM001001")

	if s.HasChanges(EntryDraft{Barcode: "CAM001001"}) {
		t.Fatalf("closed editor never reports changes")
	}

	if _, err := s.OpenEditor(res.Entry.ID); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	base := s.Editor().Baseline
	if s.HasChanges(base) {
		t.Fatalf("baseline draft must report no changes")
	}
	dirty := base
	dirty.Location = "Shelf Z9"
	if !s.HasChanges(dirty) {
		t.Fatalf("edited draft must report changes")
	}
}
