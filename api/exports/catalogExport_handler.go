// Package exports serves CSV downloads of the catalog.
package exports

import (
	"log/slog"
	"net/http"
	"time"

	"gearscan/api/shared/respond"
	"gearscan/infrastructure/sqlite"
)

// ItemsExportCSVHandler streams the full catalog as a CSV download.
func ItemsExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileName := "catalog-items-" + time.Now().Format("20060102-150405") + ".csv"
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
		if err := WriteItemsCSV(r.Context(), db, w); err != nil {
			// Headers may already be out; best effort error for early failures.
			slog.Error("export items failed", slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to export items")
		}
	}
}
