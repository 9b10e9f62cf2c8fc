package engine

import "fmt"

// Toggle flips the selection state of a single pending entry.
func (s *Session) Toggle(entryID string) (selected bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByIDLocked(entryID) == nil {
		return false, fmt.Errorf("entry %q: %w", entryID, ErrEntryNotFound)
	}
	if _, ok := s.selected[entryID]; ok {
		delete(s.selected, entryID)
		return false, nil
	}
	s.selected[entryID] = struct{}{}
	return true, nil
}

// ToggleGroup selects every entry in the group unless all of them are
// already selected, in which case it deselects them all. All-or-nothing per
// group.
func (s *Session) ToggleGroup(group string) (selected bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.groupEntryIDsLocked(group)
	if len(ids) == 0 {
		return false, fmt.Errorf("group %q: %w", group, ErrEntryNotFound)
	}
	if s.groupFullySelectedLocked(ids) {
		for _, id := range ids {
			delete(s.selected, id)
		}
		return false, nil
	}
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
	return true, nil
}

// SelectAll marks every pending entry selected.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.known {
		s.selected[e.ID] = struct{}{}
	}
	for _, e := range s.unknown {
		s.selected[e.ID] = struct{}{}
	}
}

// UnselectAll clears the selection set.
func (s *Session) UnselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// GroupFullySelected reports whether every entry in the group is selected.
// A group with no entries is never fully selected.
func (s *Session) GroupFullySelected(group string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.groupEntryIDsLocked(group)
	if len(ids) == 0 {
		return false
	}
	return s.groupFullySelectedLocked(ids)
}

// AllSelected reports whether the selection covers every pending entry.
func (s *Session) AllSelected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allSelectedLocked()
}

func (s *Session) allSelectedLocked() bool {
	total := len(s.known) + len(s.unknown)
	return total > 0 && len(s.selected) == total
}

func (s *Session) groupEntryIDsLocked(group string) []string {
	key := groupKey(group)
	var ids []string
	for _, e := range s.entriesLocked() {
		if groupKey(e.Group) == key {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func (s *Session) groupFullySelectedLocked(ids []string) bool {
	for _, id := range ids {
		if _, ok := s.selected[id]; !ok {
			return false
		}
	}
	return true
}

func (s *Session) selectedEntriesLocked() []*SessionEntry {
	var out []*SessionEntry
	for _, e := range s.known {
		if _, ok := s.selected[e.ID]; ok {
			out = append(out, e)
		}
	}
	for _, e := range s.unknown {
		if _, ok := s.selected[e.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}
