// Package scan exposes scan sessions over HTTP. Handlers dispatch intents to
// the engine and never mutate session state directly.
package scan

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gearscan/api/shared/respond"
	"gearscan/engine"
	"gearscan/infrastructure/cache"
)

// Config bundles the dependencies every session shares.
type Config struct {
	Store    *cache.ScanSessionStore
	Gateway  engine.Gateway
	Debounce time.Duration
}

// CreateSessionCommandHandler opens a new scan session.
func CreateSessionCommandHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		session := engine.NewSession(cfg.Gateway, req.Operator, cfg.Debounce)
		cfg.Store.Add(session)
		respond.JSON(w, http.StatusCreated, session.Snapshot())
	}
}

// GetSessionQueryHandler returns the session snapshot.
func GetSessionQueryHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		respond.JSON(w, http.StatusOK, s.Snapshot())
	})
}

// EndSessionCommandHandler closes and forgets the session.
func EndSessionCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		cfg.Store.Delete(s.ID)
		w.WriteHeader(http.StatusNoContent)
	})
}

// ScanInputCommandHandler feeds raw scanner input into the debounce buffer.
func ScanInputCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		var req scanInputRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		s.FeedScan(req.Input)
		respond.JSON(w, http.StatusAccepted, s.Snapshot())
	})
}

// ScanSubmitCommandHandler classifies a completed scan immediately. With an
// empty code the buffered input is consumed (scanner Enter terminator).
func ScanSubmitCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		var req scanSubmitRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		result, err := s.SubmitScan(r.Context(), req.Code)
		if err != nil {
			respond.Error(w, http.StatusBadGateway, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, scanResponse{Result: result, Session: s.Snapshot()})
	})
}

// IncrementEntryCommandHandler bumps a pending entry's session count by
// barcode.
func IncrementEntryCommandHandler(cfg Config, delta int64) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		var req incrementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		entry, err := s.Increment(req.Barcode, delta)
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, entryResponse{Entry: entry, Session: s.Snapshot()})
	})
}

// RemoveEntryCommandHandler deletes a pending entry.
func RemoveEntryCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		if err := s.Remove(chi.URLParam(r, "entryID")); err != nil {
			respondEngineError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, s.Snapshot())
	})
}

// ClearSessionCommandHandler empties both pending lists and the selection.
func ClearSessionCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		s.ClearAll()
		respond.JSON(w, http.StatusOK, s.Snapshot())
	})
}

// ToggleEntryCommandHandler flips one entry's selection state.
func ToggleEntryCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		selected, err := s.Toggle(chi.URLParam(r, "entryID"))
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toggleResponse{Selected: selected, Session: s.Snapshot()})
	})
}

// ToggleGroupCommandHandler selects or deselects a whole catalog group.
func ToggleGroupCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		selected, err := s.ToggleGroup(chi.URLParam(r, "group"))
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toggleResponse{Selected: selected, Session: s.Snapshot()})
	})
}

// SelectAllCommandHandler selects every pending entry.
func SelectAllCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		s.SelectAll()
		respond.JSON(w, http.StatusOK, s.Snapshot())
	})
}

// UnselectAllCommandHandler clears the selection.
func UnselectAllCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		s.UnselectAll()
		respond.JSON(w, http.StatusOK, s.Snapshot())
	})
}

// OpenEditorCommandHandler opens the entry editor on a pending entry.
func OpenEditorCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		view, err := s.OpenEditor(chi.URLParam(r, "entryID"))
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, view)
	})
}

// SaveEditorCommandHandler applies an entry draft through the editor.
func SaveEditorCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		var draft engine.EntryDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		entry, err := s.SaveEditor(r.Context(), draft)
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, entryResponse{Entry: entry, Session: s.Snapshot()})
	})
}

// CloseEditorCommandHandler discards the editing state without saving.
func CloseEditorCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		s.CloseEditor()
		respond.JSON(w, http.StatusOK, s.Snapshot())
	})
}

// ReceiveCommandHandler commits the selection as a stock increase.
func ReceiveCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		result, err := s.Receive(r.Context())
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, commitResponse{Result: result, Session: s.Snapshot()})
	})
}

// DispatchCommandHandler commits the selection as a stock decrease.
func DispatchCommandHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		result, err := s.Dispatch(r.Context())
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, commitResponse{Result: result, Session: s.Snapshot()})
	})
}

// NoticesQueryHandler drains pending operator notifications.
func NoticesQueryHandler(cfg Config) http.HandlerFunc {
	return withSession(cfg, func(w http.ResponseWriter, r *http.Request, s *engine.Session) {
		notices := s.DrainNotices()
		if notices == nil {
			notices = []engine.Notice{}
		}
		respond.JSON(w, http.StatusOK, map[string]any{"notices": notices})
	})
}

func withSession(cfg Config, next func(http.ResponseWriter, *http.Request, *engine.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := cfg.Store.Find(chi.URLParam(r, "sessionID"))
		if !ok {
			respond.Error(w, http.StatusNotFound, "scan session not found")
			return
		}
		next(w, r, session)
	}
}

func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrEntryNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrCommitInFlight):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrNothingSelected),
		errors.Is(err, engine.ErrNoEligibleEntries),
		errors.Is(err, engine.ErrEditorClosed),
		errors.Is(err, engine.ErrNoChanges):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		respond.Error(w, http.StatusBadGateway, err.Error())
	}
}
