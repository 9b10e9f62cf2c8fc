package engine

import (
	"context"
	"fmt"
	"strings"

	"gearscan/models"
)

// EditorMode names the entry editor states. Unknown editing is a distinct
// mode because its save path is local-only.
type EditorMode string

const (
	EditorClosed   EditorMode = "closed"
	EditingKnown   EditorMode = "editingKnown"
	EditingUnknown EditorMode = "editingUnknown"
)

// EntryDraft holds the editable fields of a session entry. SessionCount is
// the operator's declared count for this session, not catalog stock.
type EntryDraft struct {
	Barcode         string `json:"barcode"`
	ItemName        string `json:"itemName"`
	ItemDescription string `json:"itemDescription"`
	Location        string `json:"location"`
	Group           string `json:"group"`
	SessionCount    int64  `json:"sessionCount"`
	PointsToRedeem  int64  `json:"pointsToRedeem"`
}

func (d EntryDraft) trimmed() EntryDraft {
	d.Barcode = strings.TrimSpace(d.Barcode)
	d.ItemName = strings.TrimSpace(d.ItemName)
	d.ItemDescription = strings.TrimSpace(d.ItemDescription)
	d.Location = strings.TrimSpace(d.Location)
	d.Group = strings.ToLower(strings.TrimSpace(d.Group))
	return d
}

type editorState struct {
	mode     EditorMode
	entryID  string
	baseline EntryDraft
}

// EditorView is the externally visible editor state.
type EditorView struct {
	Mode     EditorMode `json:"mode"`
	EntryID  string     `json:"entryId,omitempty"`
	Baseline EntryDraft `json:"baseline"`
}

func (s *Session) editorViewLocked() EditorView {
	mode := s.editor.mode
	if mode == "" {
		mode = EditorClosed
	}
	return EditorView{Mode: mode, EntryID: s.editor.entryID, Baseline: s.editor.baseline}
}

// Editor returns the current editor state.
func (s *Session) Editor() EditorView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editorViewLocked()
}

// OpenEditor opens the editor on a pending entry, snapshotting its current
// field values as the dirty-check baseline.
func (s *Session) OpenEditor(entryID string) (EditorView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.findByIDLocked(entryID)
	if entry == nil {
		return EditorView{}, fmt.Errorf("entry %q: %w", entryID, ErrEntryNotFound)
	}
	s.openEditorLocked(entry)
	return s.editorViewLocked(), nil
}

func (s *Session) openEditorLocked(entry *SessionEntry) {
	mode := EditingUnknown
	if entry.Known {
		mode = EditingKnown
	}
	s.editor = editorState{
		mode:    mode,
		entryID: entry.ID,
		baseline: EntryDraft{
			Barcode:         entry.Barcode,
			ItemName:        entry.ItemName,
			ItemDescription: entry.ItemDescription,
			Location:        entry.Location,
			Group:           entry.Group,
			SessionCount:    entry.SessionCount,
			PointsToRedeem:  entry.PointsToRedeem,
		}.trimmed(),
	}
}

// CloseEditor discards the editing state without saving.
func (s *Session) CloseEditor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor = editorState{}
}

// HasChanges compares every editable field of draft, trimmed, against the
// baseline snapshot taken when the editor opened.
func (s *Session) HasChanges(draft EntryDraft) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editor.mode == EditorClosed || s.editor.mode == "" {
		return false
	}
	return draft.trimmed() != s.editor.baseline
}

// SaveEditor applies draft to the entry the editor is open on. Known entries
// issue an immediate catalog update for descriptive fields (never stock) and
// mirror the result locally on success; on failure the entry is left
// unchanged and the editor stays open for retry. Unknown entries mutate only
// local state; they are not persisted until a receive commit.
func (s *Session) SaveEditor(ctx context.Context, draft EntryDraft) (SessionEntry, error) {
	s.mu.Lock()

	if s.editor.mode == EditorClosed || s.editor.mode == "" {
		s.mu.Unlock()
		return SessionEntry{}, ErrEditorClosed
	}
	if s.committing {
		s.mu.Unlock()
		return SessionEntry{}, ErrCommitInFlight
	}

	entry := s.findByIDLocked(s.editor.entryID)
	if entry == nil {
		s.editor = editorState{}
		s.mu.Unlock()
		return SessionEntry{}, fmt.Errorf("edited entry: %w", ErrEntryNotFound)
	}

	draft = draft.trimmed()
	if draft == s.editor.baseline {
		s.mu.Unlock()
		return SessionEntry{}, ErrNoChanges
	}

	if err := s.validateDraftLocked(entry, draft); err != nil {
		s.mu.Unlock()
		return SessionEntry{}, err
	}

	if !entry.Known {
		applyDraft(entry, draft)
		saved := *entry
		s.editor = editorState{}
		s.mu.Unlock()
		return saved, nil
	}

	catalogID := entry.CatalogID
	version := entry.Version
	fields := models.ItemFields{
		Barcode:         draft.Barcode,
		Group:           draft.Group,
		ItemName:        draft.ItemName,
		ItemDescription: draft.ItemDescription,
		Location:        draft.Location,
		TotalCount:      entry.TotalCount, // stock changes only via receive/dispatch
		PointsToRedeem:  draft.PointsToRedeem,
		UpdatedBy:       s.Operator,
	}
	entryID := entry.ID
	s.mu.Unlock()

	updated, err := s.gw.UpdateItem(ctx, catalogID, version, fields)
	if err != nil {
		return SessionEntry{}, fmt.Errorf("update catalog item: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry = s.findByIDLocked(entryID)
	if entry == nil {
		// Entry was removed while the save was in flight; the catalog write
		// already happened, nothing local to mirror.
		s.editor = editorState{}
		return SessionEntry{}, fmt.Errorf("edited entry: %w", ErrEntryNotFound)
	}
	applyDraft(entry, draft)
	entry.Version = updated.Version
	saved := *entry
	if s.editor.entryID == entryID {
		s.editor = editorState{}
	}
	return saved, nil
}

func (s *Session) validateDraftLocked(entry *SessionEntry, draft EntryDraft) error {
	if draft.Barcode == "" {
		return fmt.Errorf("barcode is required")
	}
	if draft.SessionCount < 1 {
		return fmt.Errorf("session count must be at least 1")
	}
	if draft.PointsToRedeem < 0 {
		return fmt.Errorf("points to redeem must be 0 or greater")
	}
	if draft.Group != "" && !models.ValidGroup(draft.Group) {
		return fmt.Errorf("unknown item group %q", draft.Group)
	}
	if other := s.findByBarcodeLocked(draft.Barcode); other != nil && other.ID != entry.ID {
		return fmt.Errorf("barcode %q is already pending in this session", draft.Barcode)
	}
	return nil
}

func applyDraft(entry *SessionEntry, draft EntryDraft) {
	entry.Barcode = draft.Barcode
	entry.ItemName = draft.ItemName
	entry.ItemDescription = draft.ItemDescription
	entry.Location = draft.Location
	entry.Group = draft.Group
	entry.SessionCount = draft.SessionCount
	entry.PointsToRedeem = draft.PointsToRedeem
}
