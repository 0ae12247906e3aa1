package service

import (
	"context"
	"errors"

	"github.com/fitri99main/winny-pos-sub002/internal/model"
	"github.com/fitri99main/winny-pos-sub002/internal/repository"

	"github.com/google/uuid"
)

// ── Deletion workflow ─────────────────────────────────────────────────────────
// Deleting a session is irreversible, so it is gated by an explicit
// confirm-then-commit machine instead of ad-hoc flags:
//
//   Idle → Pending(target) → InFlight(target) → Idle        (committed)
//                          ↘ Idle                            (cancelled)
//             InFlight(target) → Pending(target)             (failed)
//
// A failed commit never falls back to Idle silently; the caller gets the
// error and the target stays pending. A new Request from any state simply
// retargets — pending deletions are not queued.

// DeleteState is the current position of a DeleteWorkflow.
type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeletePending
	DeleteInFlight
)

func (s DeleteState) String() string {
	switch s {
	case DeleteIdle:
		return "idle"
	case DeletePending:
		return "pending-confirmation"
	case DeleteInFlight:
		return "deleting"
	default:
		return "unknown"
	}
}

// ErrNothingPending is returned by Confirm and Cancel outside Pending.
var ErrNothingPending = errors.New("no deletion pending confirmation")

// DeleteWorkflow drives a single deletion. It is not safe for concurrent
// use; the owner serializes access.
type DeleteWorkflow struct {
	state  DeleteState
	target *model.CashierSession

	deleteFn  func(ctx context.Context, id uuid.UUID) error
	committed func(ctx context.Context, id uuid.UUID)
}

// NewDeleteWorkflow wires the commit action and an after-commit hook
// (repository reload, detail-view close).
func NewDeleteWorkflow(
	deleteFn func(ctx context.Context, id uuid.UUID) error,
	committed func(ctx context.Context, id uuid.UUID),
) *DeleteWorkflow {
	return &DeleteWorkflow{deleteFn: deleteFn, committed: committed}
}

func (w *DeleteWorkflow) State() DeleteState { return w.state }

// Target returns the session awaiting confirmation, nil when idle.
func (w *DeleteWorkflow) Target() *model.CashierSession { return w.target }

// Request captures the intent to delete. No backend call happens here.
func (w *DeleteWorkflow) Request(s *model.CashierSession) {
	w.state = DeletePending
	w.target = s
}

// Cancel abandons the pending deletion with no side effects.
func (w *DeleteWorkflow) Cancel() error {
	if w.state != DeletePending {
		return ErrNothingPending
	}
	w.state = DeleteIdle
	w.target = nil
	return nil
}

// Confirm commits the pending deletion. A missing record counts as success:
// the session is gone either way and the follow-up reload converges state.
func (w *DeleteWorkflow) Confirm(ctx context.Context) error {
	if w.state != DeletePending {
		return ErrNothingPending
	}
	w.state = DeleteInFlight
	id := w.target.ID

	err := w.deleteFn(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		w.state = DeletePending
		return err
	}

	w.state = DeleteIdle
	w.target = nil
	if w.committed != nil {
		w.committed(ctx, id)
	}
	return nil
}
