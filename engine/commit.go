package engine

import (
	"context"
	"sync"

	"gearscan/models"
)

// CommitMode distinguishes the two transaction types.
type CommitMode string

const (
	CommitReceive  CommitMode = "receive"
	CommitDispatch CommitMode = "dispatch"
)

// CommitFailure records one entry whose remote call failed. The entry stays
// pending and selected so the operator can retry.
type CommitFailure struct {
	EntryID string `json:"entryId"`
	Barcode string `json:"barcode"`
	Error   string `json:"error"`
}

// CommitResult reports per-entry outcomes of a receive or dispatch. Only
// entries listed in Succeeded were pruned from the session.
type CommitResult struct {
	Mode      CommitMode      `json:"mode"`
	Attempted int             `json:"attempted"`
	Committed int             `json:"committed"`
	Succeeded []string        `json:"succeeded"`
	Failed    []CommitFailure `json:"failed,omitempty"`
	Skipped   []string        `json:"skipped,omitempty"`
}

// Receive commits the selection as a stock increase. Known entries update
// their catalog item with totalCount+sessionCount; unknown entries are
// created in the catalog, which is the point at which they become real
// items. Calls fan out concurrently and local state mutates exactly once
// after every call settles.
func (s *Session) Receive(ctx context.Context) (CommitResult, error) {
	return s.commit(ctx, CommitReceive)
}

// Dispatch commits the selection as a stock decrease. Only known entries
// with totalCount >= sessionCount are eligible; unknown entries have no
// catalog stock and are always skipped. With no eligible entry the commit
// aborts before any network call.
func (s *Session) Dispatch(ctx context.Context) (CommitResult, error) {
	return s.commit(ctx, CommitDispatch)
}

func (s *Session) commit(ctx context.Context, mode CommitMode) (CommitResult, error) {
	s.mu.Lock()

	// The scan buffer and transient display state reset regardless of the
	// commit outcome.
	s.buffer.Clear()
	s.lastScanned = ""

	if s.committing {
		s.mu.Unlock()
		return CommitResult{Mode: mode}, ErrCommitInFlight
	}

	selected := s.selectedEntriesLocked()
	if len(selected) == 0 {
		s.mu.Unlock()
		return CommitResult{Mode: mode}, ErrNothingSelected
	}

	result := CommitResult{Mode: mode}
	var batch []SessionEntry
	for _, e := range selected {
		if mode == CommitDispatch && (!e.Known || e.TotalCount < e.SessionCount) {
			result.Skipped = append(result.Skipped, e.ID)
			continue
		}
		batch = append(batch, *e)
	}
	if len(batch) == 0 {
		s.mu.Unlock()
		return result, ErrNoEligibleEntries
	}

	s.committing = true
	s.mu.Unlock()

	outcomes := make([]error, len(batch))
	var wg sync.WaitGroup
	for i := range batch {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = s.commitEntry(ctx, mode, batch[i])
		}(i)
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.committing = false

	result.Attempted = len(batch)
	for i, e := range batch {
		if outcomes[i] != nil {
			result.Failed = append(result.Failed, CommitFailure{
				EntryID: e.ID,
				Barcode: e.Barcode,
				Error:   outcomes[i].Error(),
			})
			continue
		}
		s.removeLocked(e.ID)
		result.Succeeded = append(result.Succeeded, e.ID)
		result.Committed++
	}
	return result, nil
}

func (s *Session) commitEntry(ctx context.Context, mode CommitMode, e SessionEntry) error {
	fields := models.ItemFields{
		Barcode:         e.Barcode,
		Group:           e.Group,
		ItemName:        e.ItemName,
		ItemDescription: e.ItemDescription,
		Location:        e.Location,
		PointsToRedeem:  e.PointsToRedeem,
		UpdatedBy:       s.Operator,
	}

	switch {
	case mode == CommitReceive && !e.Known:
		fields.TotalCount = e.TotalCount + e.SessionCount
		_, err := s.gw.CreateItem(ctx, fields)
		return err
	case mode == CommitReceive:
		fields.TotalCount = e.TotalCount + e.SessionCount
		_, err := s.gw.UpdateItem(ctx, e.CatalogID, e.Version, fields)
		return err
	default:
		fields.TotalCount = e.TotalCount - e.SessionCount
		_, err := s.gw.UpdateItem(ctx, e.CatalogID, e.Version, fields)
		return err
	}
}
