// Package labels renders printable barcode labels for catalog items.
package labels

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gearscan/api/items"
	"gearscan/api/shared/respond"
	"gearscan/infrastructure/sqlite"
	"gearscan/models"
)

// ItemLabelPDFQueryHandler renders a single item's label page.
func ItemLabelPDFQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := items.GetItem(r.Context(), db, chi.URLParam(r, "id"))
		if err != nil {
			if items.IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "item not found")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "failed to load item")
			return
		}
		writeLabelsPDF(w, []models.CatalogItem{item}, "item-label-"+item.Barcode+".pdf")
	}
}

// CatalogLabelsPDFQueryHandler renders a label sheet for the whole catalog.
func CatalogLabelsPDFQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := items.ListItems(r.Context(), db)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to list items")
			return
		}
		if len(all) == 0 {
			respond.Error(w, http.StatusNotFound, "catalog is empty")
			return
		}
		writeLabelsPDF(w, all, "item-labels.pdf")
	}
}

// ItemBarcodePNGQueryHandler streams a scannable code128 PNG for one item.
func ItemBarcodePNGQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := items.GetItem(r.Context(), db, chi.URLParam(r, "id"))
		if err != nil {
			if items.IsNotFound(err) {
				respond.Error(w, http.StatusNotFound, "item not found")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "failed to load item")
			return
		}
		blob, err := renderCode128PNG(item.Barcode, 600, 130)
		if err != nil {
			slog.Error("render barcode failed", slog.String("barcode", item.Barcode), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to render barcode")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(blob)
	}
}

func writeLabelsPDF(w http.ResponseWriter, list []models.CatalogItem, fileName string) {
	blob, err := renderItemLabelsPDF(list, time.Now())
	if err != nil {
		slog.Error("render labels failed", slog.Any("err", err))
		respond.Error(w, http.StatusInternalServerError, "failed to render labels")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+fileName+`"`)
	_, _ = w.Write(blob)
}
