// Package items serves the catalog item CRUD surface consumed by the scan
// engine and bulk import tooling.
package items

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gearscan/api/shared/respond"
	"gearscan/infrastructure/audit"
	"gearscan/infrastructure/sqlite"
	"gearscan/models"
)

// ListItemsQueryHandler returns the full catalog.
func ListItemsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := ListItems(r.Context(), db)
		if err != nil {
			slog.Error("list items failed", slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to list items")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"result": items})
	}
}

// GetItemQueryHandler returns one item by id.
func GetItemQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := GetItem(r.Context(), db, chi.URLParam(r, "id"))
		if err != nil {
			if IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "item not found")
				return
			}
			slog.Error("load item failed", slog.String("id", chi.URLParam(r, "id")), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load item")
			return
		}
		respond.JSON(w, http.StatusOK, item)
	}
}

// CreateItemCommandHandler stores a new catalog item.
func CreateItemCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields models.ItemFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		item, err := CreateItem(r.Context(), db, auditSvc, fields)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusCreated, item)
	}
}

type updateItemRequest struct {
	models.ItemFields
	Version int64 `json:"version"`
}

// UpdateItemCommandHandler replaces the supplied fields of an item,
// version-checked.
func UpdateItemCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		item, err := UpdateItem(r.Context(), db, auditSvc, chi.URLParam(r, "id"), req.Version, req.ItemFields)
		if err != nil {
			switch {
			case IsNotFound(err):
				respond.Error(w, http.StatusNotFound, "item not found")
			case errors.Is(err, ErrVersionConflict):
				respond.Error(w, http.StatusConflict, err.Error())
			default:
				respond.Error(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		respond.JSON(w, http.StatusOK, item)
	}
}

// DeleteItemCommandHandler removes an item.
func DeleteItemCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get("X-Actor"))
		if err := DeleteItem(r.Context(), db, auditSvc, actor, chi.URLParam(r, "id")); err != nil {
			if IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "item not found")
				return
			}
			slog.Error("delete item failed", slog.String("id", chi.URLParam(r, "id")), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to delete item")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ImportCSVCommandHandler bulk-loads the item master from a CSV request
// body.
func ImportCSVCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get("X-Actor"))
		summary, err := ImportCSV(r.Context(), db, auditSvc, actor, r.Body)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, summary)
	}
}
