package engine

import (
	"errors"
	"testing"

	"gearscan/models"
)

func TestToggleFlipsSelection(t *testing.T) {
	gw := newFakeGateway(catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3))
	s := newTestSession(t, gw)
	res := mustScan(t, s, "CAM001001")

	on, err := s.Toggle(res.Entry.ID)
	if err != nil || !on {
		t.Fatalf("first toggle = %v, %v; want selected", on, err)
	}
	off, err := s.Toggle(res.Entry.ID)
	if err != nil || off {
		t.Fatalf("second toggle = %v, %v; want deselected", off, err)
	}
}

func TestToggleMissingEntry(t *testing.T) {
	s := newTestSession(t, newFakeGateway())
	if _, err := s.Toggle("missing"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestToggleGroupAllOrNothing(t *testing.T) {
	gw := newFakeGateway(
		catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3),
		catalogItem("CAM001002", models.GroupCamera, "Pocket 6K", 2),
		catalogItem("AUD004001", models.GroupAudio, "MKH 416", 5),
	)
	s := newTestSession(t, gw)
	camA := mustScan(t, s, "CAM001001")
	mustScan(t, s, "CAM001002")
	mustScan(t, s, "AUD004001")

	on, err := s.ToggleGroup(models.GroupCamera)
	if err != nil || !on {
		t.Fatalf("group toggle = %v, %v; want selected", on, err)
	}
	if !s.GroupFullySelected(models.GroupCamera) {
		t.Fatalf("camera group must be fully selected")
	}
	if s.GroupFullySelected(models.GroupAudio) {
		t.Fatalf("audio group must be untouched")
	}

	// A partially selected group toggles to fully selected, never off.
	if _, err := s.Toggle(camA.Entry.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	on, err = s.ToggleGroup(models.GroupCamera)
	if err != nil || !on {
		t.Fatalf("partial group toggle = %v, %v; want selected", on, err)
	}
	if !s.GroupFullySelected(models.GroupCamera) {
		t.Fatalf("camera group must be fully selected after second toggle")
	}

	// A fully selected group toggles off.
	on, err = s.ToggleGroup(models.GroupCamera)
	if err != nil || on {
		t.Fatalf("full group toggle = %v, %v; want deselected", on, err)
	}
	if s.GroupFullySelected(models.GroupCamera) {
		t.Fatalf("camera group must be deselected")
	}
}

func TestToggleGroupEmpty(t *testing.T) {
	s := newTestSession(t, newFakeGateway())
	if _, err := s.ToggleGroup(models.GroupCamera); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound for empty group, got %v", err)
	}
}

func TestSelectAllAndUnselectAll(t *testing.T) {
	gw := newFakeGateway(catalogItem("CAM001001", models.GroupCamera, "FX6 Body", 3))
	s := newTestSession(t, gw)
	mustScan(t, s, "CAM001001")
	mustScan(t, s, "MYSTERY001")
	s.CloseEditor()

	if s.AllSelected() {
		t.Fatalf("nothing selected yet")
	}
	s.SelectAll()
	if !s.AllSelected() {
		t.Fatalf("select-all must cover known and unknown entries")
	}
	s.UnselectAll()
	if s.AllSelected() || len(s.Snapshot().Selected) != 0 {
		t.Fatalf("unselect-all must clear the selection")
	}
}

func TestAllSelectedEmptySession(t *testing.T) {
	s := newTestSession(t, newFakeGateway())
	if s.AllSelected() {
		t.Fatalf("an empty session is never fully selected")
	}
}
