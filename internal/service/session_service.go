package service

import (
	"context"
	"errors"
	"time"

	"github.com/fitri99main/winny-pos-sub002/internal/dto"
	"github.com/fitri99main/winny-pos-sub002/internal/model"
	"github.com/fitri99main/winny-pos-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrSessionAlreadyOpen = errors.New("cashier already has an open session")
	ErrSessionClosed      = errors.New("session is already closed")
)

// AlertDispatcher enqueues a variance alert for async delivery. Implemented
// by worker.Dispatcher; nil disables alerting.
type AlertDispatcher interface {
	EnqueueVarianceAlert(ctx context.Context, s *model.CashierSession) error
}

type SessionService interface {
	Open(ctx context.Context, userID uuid.UUID, userName string, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	RecordSale(ctx context.Context, id uuid.UUID, req dto.RecordSaleRequest) error
	Close(ctx context.Context, id uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
}

type sessionService struct {
	repo           repository.SessionRepository
	dispatcher     AlertDispatcher
	alertThreshold decimal.Decimal
}

func NewSessionService(repo repository.SessionRepository, dispatcher AlertDispatcher, alertThreshold decimal.Decimal) SessionService {
	return &sessionService{repo: repo, dispatcher: dispatcher, alertThreshold: alertThreshold}
}

// Open starts a new session for the cashier. One open session per cashier;
// the partial unique index in the store backs the same rule.
func (s *sessionService) Open(ctx context.Context, userID uuid.UUID, userName string, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if existing, err := s.repo.FindOpenByUser(ctx, userID); err == nil && existing != nil {
		return nil, ErrSessionAlreadyOpen
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	session := &model.CashierSession{
		UserID:       userID,
		UserName:     userName,
		StartingCash: req.StartingCash,
		TotalSales:   decimal.Zero,
		Status:       model.StatusOpen,
		OpenedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

// RecordSale is the write path used by the checkout flow; it only ever
// increases TotalSales and is rejected once the session is closed.
func (s *sessionService) RecordSale(ctx context.Context, id uuid.UUID, req dto.RecordSaleRequest) error {
	return s.repo.AddSale(ctx, id, req.Amount)
}

// Close reconciles and closes the session in one step: ending cash, closing
// time, expected cash and variance land together. Closing twice fails.
func (s *sessionService) Close(ctx context.Context, id uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsClosed() {
		return nil, ErrSessionClosed
	}

	now := time.Now().UTC()
	ending := req.EndingCash
	expected := session.ComputedExpectedCash()
	variance := ending.Sub(expected)

	session.EndingCash = &ending
	session.ExpectedCash = &expected
	session.Variance = &variance
	session.ClosedAt = &now
	session.Status = model.StatusClosed

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}

	if s.dispatcher != nil && variance.Abs().GreaterThanOrEqual(s.alertThreshold) {
		// Alerting is best-effort; a queue hiccup must not undo the close.
		if err := s.dispatcher.EnqueueVarianceAlert(ctx, session); err != nil {
			log.Error().Err(err).Str("session_id", session.ID.String()).Msg("enqueue variance alert failed")
		}
	}

	return toSessionResponse(session), nil
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func toSessionResponse(s *model.CashierSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:           s.ID.String(),
		UserID:       s.UserID.String(),
		UserName:     s.DisplayName(),
		StartingCash: s.StartingCash,
		TotalSales:   s.TotalSales,
		ExpectedCash: s.ComputedExpectedCash(),
		Status:       s.Status,
		OpenedAt:     s.OpenedAt.Format(time.RFC3339),
	}
	if s.EndingCash != nil {
		ending := *s.EndingCash
		variance := s.ComputedVariance()
		resp.EndingCash = &ending
		resp.Variance = &variance
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}

// ToHistoryResponse renders a filtered subset plus its aggregate block.
func ToHistoryResponse(sessions []model.CashierSession, stats model.SummaryStats) dto.HistoryResponse {
	rows := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		rows = append(rows, *toSessionResponse(&sessions[i]))
	}
	return dto.HistoryResponse{
		Data: rows,
		Summary: dto.SummaryResponse{
			SessionCount:    stats.SessionCount,
			TotalSales:      stats.TotalSales,
			AverageVariance: stats.AverageVariance,
		},
	}
}
