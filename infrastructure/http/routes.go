package http

import (
	"github.com/go-chi/chi/v5"

	"gearscan/api/exports"
	"gearscan/api/items"
	"gearscan/api/labels"
	"gearscan/api/scan"
	"gearscan/infrastructure/audit"
	"gearscan/infrastructure/sqlite"
)

// RegisterScanRoutes wires the scan-session engine API (cmd/gearscan).
func (s *Server) RegisterScanRoutes(cfg scan.Config) {
	s.router.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", scan.CreateSessionCommandHandler(cfg))

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", scan.GetSessionQueryHandler(cfg))
			r.Delete("/", scan.EndSessionCommandHandler(cfg))
			r.Get("/notices", scan.NoticesQueryHandler(cfg))

			r.Post("/scan", scan.ScanInputCommandHandler(cfg))
			r.Post("/scan/submit", scan.ScanSubmitCommandHandler(cfg))

			r.Post("/entries/increment", scan.IncrementEntryCommandHandler(cfg, 1))
			r.Post("/entries/decrement", scan.IncrementEntryCommandHandler(cfg, -1))
			r.Delete("/entries/{entryID}", scan.RemoveEntryCommandHandler(cfg))
			r.Post("/clear", scan.ClearSessionCommandHandler(cfg))

			r.Post("/entries/{entryID}/toggle", scan.ToggleEntryCommandHandler(cfg))
			r.Post("/groups/{group}/toggle", scan.ToggleGroupCommandHandler(cfg))
			r.Post("/select-all", scan.SelectAllCommandHandler(cfg))
			r.Post("/unselect-all", scan.UnselectAllCommandHandler(cfg))

			r.Post("/entries/{entryID}/edit", scan.OpenEditorCommandHandler(cfg))
			r.Post("/editor/save", scan.SaveEditorCommandHandler(cfg))
			r.Post("/editor/close", scan.CloseEditorCommandHandler(cfg))

			r.Post("/receive", scan.ReceiveCommandHandler(cfg))
			r.Post("/dispatch", scan.DispatchCommandHandler(cfg))
		})
	})
}

// RegisterCatalogRoutes wires the catalog gateway API (cmd/catalogd).
func (s *Server) RegisterCatalogRoutes(db *sqlite.DB, auditSvc *audit.Service) {
	s.router.Get("/items", items.ListItemsQueryHandler(db))
	s.router.Post("/items", items.CreateItemCommandHandler(db, auditSvc))
	s.router.Get("/items/{id}", items.GetItemQueryHandler(db))
	s.router.Put("/items/{id}", items.UpdateItemCommandHandler(db, auditSvc))
	s.router.Delete("/items/{id}", items.DeleteItemCommandHandler(db, auditSvc))
	s.router.Post("/items/import", items.ImportCSVCommandHandler(db, auditSvc))

	s.router.Get("/items/{id}/label.pdf", labels.ItemLabelPDFQueryHandler(db))
	s.router.Get("/items/{id}/barcode.png", labels.ItemBarcodePNGQueryHandler(db))
	s.router.Get("/labels.pdf", labels.CatalogLabelsPDFQueryHandler(db))

	s.router.Get("/exports/items.csv", exports.ItemsExportCSVHandler(db))
}
