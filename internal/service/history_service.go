package service

import (
	"context"
	"sync"

	"github.com/fitri99main/winny-pos-sub002/internal/model"
	"github.com/fitri99main/winny-pos-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// HistoryService owns the in-memory session list backing the history view.
// The store stays the source of truth: every committed mutation is followed
// by a full reload instead of patching the local slice, and a failed load
// leaves the previous list intact.
//
// Filtering is deliberately not part of this state: criteria belong to the
// caller, which renders ApplyFilter over a Sessions snapshot. Two callers
// filtering concurrently can never see each other's criteria.
type HistoryService struct {
	repo repository.SessionRepository

	// mu guards the list and the detail-view selection.
	mu       sync.Mutex
	sessions []model.CashierSession
	selected *uuid.UUID

	// wfMu serializes the confirm-then-commit workflow. Lock order is
	// always wfMu before mu.
	wfMu sync.Mutex
	wf   *DeleteWorkflow
}

func NewHistoryService(repo repository.SessionRepository) *HistoryService {
	h := &HistoryService{repo: repo}
	h.wf = NewDeleteWorkflow(repo.Delete, h.afterDelete)
	return h
}

// Load refreshes the session list from the store. On failure the previous
// list is preserved and the error surfaces to the caller.
func (h *HistoryService) Load(ctx context.Context) error {
	fresh, err := h.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.sessions = fresh
	h.mu.Unlock()
	return nil
}

// Sessions returns a copy of the loaded list, newest first. Callers filter
// and aggregate the copy without touching shared state.
func (h *HistoryService) Sessions() []model.CashierSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.CashierSession, len(h.sessions))
	copy(out, h.sessions)
	return out
}

// Select marks a session as shown in the detail view.
func (h *HistoryService) Select(id uuid.UUID) {
	h.mu.Lock()
	h.selected = &id
	h.mu.Unlock()
}

// Selected returns the id of the session open in the detail view, if any.
func (h *HistoryService) Selected() *uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.selected == nil {
		return nil
	}
	id := *h.selected
	return &id
}

// DeleteSession runs the whole confirm-then-commit workflow on behalf of one
// caller: request and confirm happen under the same critical section, so a
// concurrent caller can never retarget a deletion between the two steps.
// This is the only path stateless callers (the HTTP layer) may use. On store
// failure the workflow is reset so the next request starts clean, and the
// error surfaces.
func (h *HistoryService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	h.wfMu.Lock()
	defer h.wfMu.Unlock()

	if err := h.requestDelete(id); err != nil {
		return err
	}
	if err := h.wf.Confirm(ctx); err != nil {
		_ = h.wf.Cancel()
		return err
	}
	return nil
}

// RequestDelete starts the confirm-then-commit workflow for the given
// session. The target must be in the loaded list. Part of the stepwise
// surface driven by the confirmation dialog; stateless callers use
// DeleteSession instead.
func (h *HistoryService) RequestDelete(id uuid.UUID) error {
	h.wfMu.Lock()
	defer h.wfMu.Unlock()
	return h.requestDelete(id)
}

// requestDelete targets the workflow at a loaded session. Caller holds wfMu.
func (h *HistoryService) requestDelete(id uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.sessions {
		if h.sessions[i].ID == id {
			h.wf.Request(&h.sessions[i])
			return nil
		}
	}
	return repository.ErrNotFound
}

// CancelDelete abandons a pending deletion; no store mutation occurs.
func (h *HistoryService) CancelDelete() error {
	h.wfMu.Lock()
	defer h.wfMu.Unlock()
	return h.wf.Cancel()
}

// ConfirmDelete commits the pending deletion. On success the list is
// reloaded and a detail view on the deleted session is closed; on failure
// the deletion stays pending and the error surfaces.
func (h *HistoryService) ConfirmDelete(ctx context.Context) error {
	h.wfMu.Lock()
	defer h.wfMu.Unlock()
	return h.wf.Confirm(ctx)
}

// DeleteState exposes the workflow position for the confirmation dialog.
func (h *HistoryService) DeleteState() DeleteState {
	h.wfMu.Lock()
	defer h.wfMu.Unlock()
	return h.wf.State()
}

// afterDelete runs via the workflow's committed hook, under wfMu but not mu.
// The reload itself happens outside mu: readers keep serving the previous
// list while the store round trip is in flight.
func (h *HistoryService) afterDelete(ctx context.Context, id uuid.UUID) {
	h.mu.Lock()
	if h.selected != nil && *h.selected == id {
		h.selected = nil
	}
	h.mu.Unlock()

	fresh, err := h.repo.ListAll(ctx)
	if err != nil {
		// Delete already committed; keep the stale list rather than lose it.
		log.Warn().Err(err).Str("session_id", id.String()).Msg("reload after delete failed")
		return
	}
	h.mu.Lock()
	h.sessions = fresh
	h.mu.Unlock()
}
