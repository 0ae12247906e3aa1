package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitri99main/winny-pos-sub002/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sentinel errors at the store boundary. Everything that is not a missing
// record is reported as ErrStoreUnavailable so callers can treat it as
// retriable without inspecting driver errors.
var (
	ErrNotFound         = errors.New("session not found")
	ErrStoreUnavailable = errors.New("session store unavailable")
)

type SessionRepository interface {
	// ListAll returns every session ordered by opened_at descending.
	ListAll(ctx context.Context) ([]model.CashierSession, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashierSession, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*model.CashierSession, error)
	Create(ctx context.Context, s *model.CashierSession) error
	Update(ctx context.Context, s *model.CashierSession) error
	AddSale(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) ListAll(ctx context.Context) ([]model.CashierSession, error) {
	var sessions []model.CashierSession
	err := r.db.WithContext(ctx).Order("opened_at DESC").Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return sessions, nil
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashierSession, error) {
	var s model.CashierSession
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &s, nil
}

func (r *sessionRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*model.CashierSession, error) {
	var s model.CashierSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.StatusOpen).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &s, nil
}

func (r *sessionRepo) Create(ctx context.Context, s *model.CashierSession) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *sessionRepo) Update(ctx context.Context, s *model.CashierSession) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// AddSale increments total_sales atomically in the store. Guarding on status
// keeps a late checkout write from landing on an already-closed session.
func (r *sessionRepo) AddSale(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.CashierSession{}).
		Where("id = ? AND status = ?", id, model.StatusOpen).
		Update("total_sales", gorm.Expr("total_sales + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.CashierSession{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
