package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gearscan/models"
)

// SessionEntry is one accumulated barcode within a scan session. Known
// entries mirror the matched catalog item at time of scan; unknown entries
// start blank and are filled in by the operator before a receive.
type SessionEntry struct {
	ID              string `json:"id"`
	CatalogID       string `json:"catalogId,omitempty"`
	Barcode         string `json:"barcode"`
	Group           string `json:"group"`
	ItemName        string `json:"itemName"`
	ItemDescription string `json:"itemDescription"`
	Location        string `json:"location"`
	PointsToRedeem  int64  `json:"pointsToRedeem"`
	TotalCount      int64  `json:"totalCount"`
	Version         int64  `json:"-"`
	SessionCount    int64  `json:"sessionCount"`
	Known           bool   `json:"isKnown"`
}

// Notice is a non-blocking, dismissible operator notification produced by
// asynchronous work (debounce-fired classification).
type Notice struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Session owns all scan-session state: the pending lists, the selection set,
// the editor baseline and the raw-scan buffer. Methods are safe for
// concurrent use; every mutation is atomic with respect to observers.
type Session struct {
	ID        string
	Operator  string
	CreatedAt time.Time

	gw Gateway

	mu          sync.Mutex
	known       []*SessionEntry
	unknown     []*SessionEntry
	selected    map[string]struct{}
	editor      editorState
	buffer      *ScanBuffer
	committing  bool
	lastScanned string
	notices     []Notice
}

// NewSession creates an empty scan session against gw. A debounce of zero or
// less falls back to DefaultDebounce.
func NewSession(gw Gateway, operator string, debounce time.Duration) *Session {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	s := &Session{
		ID:        uuid.NewString(),
		Operator:  operator,
		CreatedAt: time.Now(),
		gw:        gw,
		selected:  make(map[string]struct{}),
	}
	s.buffer = NewScanBuffer(debounce, s.flushScan)
	return s
}

// Close cancels any pending debounce task. The session must not be used
// after Close.
func (s *Session) Close() {
	s.buffer.Stop()
}

// Entries returns the known pending list followed by the unknown pending
// list, order-stable, as copies.
func (s *Session) Entries() []SessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entriesLocked()
}

func (s *Session) entriesLocked() []SessionEntry {
	out := make([]SessionEntry, 0, len(s.known)+len(s.unknown))
	for _, e := range s.known {
		out = append(out, *e)
	}
	for _, e := range s.unknown {
		out = append(out, *e)
	}
	return out
}

// Grouped buckets all pending entries by lower-cased catalog group. Entries
// whose group is blank or unrecognised land in the "unknown" bucket. Keys
// are returned sorted for stable iteration.
func (s *Session) Grouped() (keys []string, groups map[string][]SessionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups = make(map[string][]SessionEntry)
	for _, e := range s.entriesLocked() {
		key := groupKey(e.Group)
		groups[key] = append(groups[key], e)
	}
	keys = make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups
}

func groupKey(group string) string {
	key := strings.ToLower(strings.TrimSpace(group))
	if key == "" || !models.ValidGroup(key) {
		return models.GroupUnknown
	}
	return key
}

// Increment adjusts the session count of the entry with the given barcode by
// delta, searching both pending lists. Decrements floor at 1.
func (s *Session) Increment(barcode string, delta int64) (SessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.findByBarcodeLocked(barcode)
	if entry == nil {
		return SessionEntry{}, fmt.Errorf("barcode %q: %w", barcode, ErrEntryNotFound)
	}
	next := entry.SessionCount + delta
	if next < 1 {
		next = 1
	}
	entry.SessionCount = next
	return *entry, nil
}

// Remove deletes the entry with the given id from its pending list and
// prunes it from the selection set.
func (s *Session) Remove(entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeLocked(entryID) {
		return fmt.Errorf("entry %q: %w", entryID, ErrEntryNotFound)
	}
	return nil
}

func (s *Session) removeLocked(entryID string) bool {
	removed := false
	s.known, removed = removeEntry(s.known, entryID)
	if !removed {
		s.unknown, removed = removeEntry(s.unknown, entryID)
	}
	if removed {
		delete(s.selected, entryID)
		if s.editor.entryID == entryID {
			s.editor = editorState{}
		}
	}
	return removed
}

func removeEntry(list []*SessionEntry, entryID string) ([]*SessionEntry, bool) {
	for i, e := range list {
		if e.ID == entryID {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// ClearAll empties both pending lists, the selection set and the editor.
func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known = nil
	s.unknown = nil
	s.selected = make(map[string]struct{})
	s.editor = editorState{}
	s.lastScanned = ""
}

func (s *Session) findByBarcodeLocked(barcode string) *SessionEntry {
	barcode = strings.TrimSpace(barcode)
	for _, e := range s.known {
		if e.Barcode == barcode {
			return e
		}
	}
	for _, e := range s.unknown {
		if e.Barcode == barcode {
			return e
		}
	}
	return nil
}

func (s *Session) findByIDLocked(entryID string) *SessionEntry {
	for _, e := range s.known {
		if e.ID == entryID {
			return e
		}
	}
	for _, e := range s.unknown {
		if e.ID == entryID {
			return e
		}
	}
	return nil
}

func (s *Session) pushNoticeLocked(level, message string) {
	s.notices = append(s.notices, Notice{Level: level, Message: message, At: time.Now()})
	if len(s.notices) > 50 {
		s.notices = s.notices[len(s.notices)-50:]
	}
}

// DrainNotices returns pending notifications and clears them.
func (s *Session) DrainNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

// Snapshot is a consistent read of the whole session for display.
type Snapshot struct {
	ID           string         `json:"id"`
	Operator     string         `json:"operator,omitempty"`
	Known        []SessionEntry `json:"known"`
	Unknown      []SessionEntry `json:"unknown"`
	Selected     []string       `json:"selected"`
	AllSelected  bool           `json:"allSelected"`
	Editor       EditorView     `json:"editor"`
	Committing   bool           `json:"committing"`
	LastScanned  string         `json:"lastScanned,omitempty"`
	PendingInput string         `json:"pendingInput,omitempty"`
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:           s.ID,
		Operator:     s.Operator,
		Known:        make([]SessionEntry, 0, len(s.known)),
		Unknown:      make([]SessionEntry, 0, len(s.unknown)),
		Selected:     make([]string, 0, len(s.selected)),
		AllSelected:  s.allSelectedLocked(),
		Editor:       s.editorViewLocked(),
		Committing:   s.committing,
		LastScanned:  s.lastScanned,
		PendingInput: s.buffer.Pending(),
	}
	for _, e := range s.known {
		snap.Known = append(snap.Known, *e)
	}
	for _, e := range s.unknown {
		snap.Unknown = append(snap.Unknown, *e)
	}
	for id := range s.selected {
		snap.Selected = append(snap.Selected, id)
	}
	sort.Strings(snap.Selected)
	return snap
}
