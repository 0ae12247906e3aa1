package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session statuses. There are no intermediate states: a session is closed
// exactly once, setting EndingCash, ClosedAt and Variance together.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// UnknownCashier is the display fallback when the denormalized name is missing.
const UnknownCashier = "Unknown Cashier"

// CashierSession represents one cashier shift from drawer-open to drawer-close.
// ExpectedCash and Variance are persisted at close for SQL reporting, but every
// read path recomputes them from their inputs (see ExpectedCash / Variance).
type CashierSession struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	// UserName is a denormalized copy of the cashier's display name.
	UserName     string          `gorm:"type:varchar(120)"`
	StartingCash decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// TotalSales is accumulated by the checkout flow while the session is open.
	TotalSales   decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0"`
	EndingCash   *decimal.Decimal `gorm:"type:decimal(14,2)"`
	ExpectedCash *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Variance     *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Status       string           `gorm:"type:varchar(20);not null;default:'open';index"`
	OpenedAt     time.Time        `gorm:"not null;index"`
	ClosedAt     *time.Time
}

// DisplayName returns the cashier name or a placeholder when absent.
func (s *CashierSession) DisplayName() string {
	if s.UserName == "" {
		return UnknownCashier
	}
	return s.UserName
}

// IsClosed reports whether the session has been reconciled and closed.
func (s *CashierSession) IsClosed() bool {
	return s.Status == StatusClosed
}

// ComputedExpectedCash derives starting cash + total sales. The stored column
// is never trusted on read so drift between store and inputs cannot surface.
func (s *CashierSession) ComputedExpectedCash() decimal.Decimal {
	return s.StartingCash.Add(s.TotalSales)
}

// ComputedVariance derives ending cash - expected cash. Positive means cash
// over, negative means cash short. A closed session missing its ending cash
// violates an upstream invariant; it is tolerated as zero variance rather
// than rejected, since this side does not own write validation.
func (s *CashierSession) ComputedVariance() decimal.Decimal {
	if s.EndingCash == nil {
		return decimal.Zero
	}
	return s.EndingCash.Sub(s.ComputedExpectedCash())
}
