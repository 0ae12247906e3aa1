package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/fitri99main/winny-pos-sub002/internal/model"
	"github.com/fitri99main/winny-pos-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Full in-memory SessionRepository ─────────────────────────────────────────

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*model.CashierSession

	listErr   error // injected ListAll failure
	deleteErr error // injected Delete failure

	// deleteHook runs at the top of Delete, before any mutation. Used to
	// stall a delete while another caller races it.
	deleteHook func(uuid.UUID)

	listCalls   int
	deleteCalls int
	deleted     []uuid.UUID // ids of committed deletes, in order
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.CashierSession)}
}

func (r *fakeSessionRepo) add(s model.CashierSession) uuid.UUID {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = &s
	return s.ID
}

func (r *fakeSessionRepo) ListAll(_ context.Context) ([]model.CashierSession, error) {
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	all := make([]model.CashierSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OpenedAt.After(all[j].OpenedAt) })
	return all, nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashierSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) FindOpenByUser(_ context.Context, userID uuid.UUID) (*model.CashierSession, error) {
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == model.StatusOpen {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) Create(_ context.Context, s *model.CashierSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now().UTC()
	}
	copied := *s
	r.sessions[s.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *model.CashierSession) error {
	copied := *s
	r.sessions[s.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) AddSale(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	s, ok := r.sessions[id]
	if !ok || s.Status != model.StatusOpen {
		return repository.ErrNotFound
	}
	s.TotalSales = s.TotalSales.Add(amount)
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.deleteCalls++
	if r.deleteHook != nil {
		r.deleteHook(id)
	}
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	r.deleted = append(r.deleted, id)
	return nil
}

var _ repository.SessionRepository = (*fakeSessionRepo)(nil)

// ── Test data helpers ────────────────────────────────────────────────────────

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func timePtr(t time.Time) *time.Time { return &t }

func openSession(name string, openedAt time.Time, startingCash, totalSales int64) model.CashierSession {
	return model.CashierSession{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		UserName:     name,
		StartingCash: dec(startingCash),
		TotalSales:   dec(totalSales),
		Status:       model.StatusOpen,
		OpenedAt:     openedAt,
	}
}

func closedSession(name string, openedAt time.Time, startingCash, totalSales, endingCash int64) model.CashierSession {
	s := openSession(name, openedAt, startingCash, totalSales)
	s.Status = model.StatusClosed
	s.EndingCash = decPtr(endingCash)
	s.ClosedAt = timePtr(openedAt.Add(8 * time.Hour))
	return s
}
