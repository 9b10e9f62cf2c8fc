// Package engine implements the scan-session reconciliation engine: it
// classifies scanned barcodes against a remote catalog, accumulates
// per-session quantities into known/unknown pending lists, tracks the
// operator's selection, edits pending entries, and commits the selection as
// a receive (stock increase) or dispatch (stock decrease) transaction.
//
// One Session is instantiated per operator screen; all callers dispatch
// intents through its methods and never mutate state directly.
package engine

import (
	"context"
	"errors"
	"time"

	"gearscan/models"
)

// Gateway is the remote catalog the engine reads and commits against. Every
// call is an independent network round trip that can fail.
type Gateway interface {
	ListItems(ctx context.Context) ([]models.CatalogItem, error)
	CreateItem(ctx context.Context, fields models.ItemFields) (models.CatalogItem, error)
	UpdateItem(ctx context.Context, id string, version int64, fields models.ItemFields) (models.CatalogItem, error)
	DeleteItem(ctx context.Context, id string) error
}

const (
	// MinScanLength is the shortest input accepted as a completed scan.
	// Shorter input is held in the buffer pending further keystrokes.
	MinScanLength = 6

	// DefaultDebounce is the quiet period after the last keystroke before
	// the buffered input is auto-processed.
	DefaultDebounce = 100 * time.Millisecond
)

var (
	ErrEntryNotFound     = errors.New("session entry not found")
	ErrCommitInFlight    = errors.New("a commit is already in flight")
	ErrNothingSelected   = errors.New("no entries are selected")
	ErrNoEligibleEntries = errors.New("no selected entries have sufficient stock to dispatch")
	ErrEditorClosed      = errors.New("entry editor is not open")
	ErrNoChanges         = errors.New("no fields have changed")
)
