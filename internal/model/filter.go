package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status selector values for FilterCriteria.
const (
	FilterAll    = "all"
	FilterOpen   = StatusOpen
	FilterClosed = StatusClosed
)

// FilterCriteria is the value object driving the session-history view.
// All predicates are ANDed. Zero values are unconstrained: an empty Query
// matches everything, a nil date bound is open on that side, and an empty
// Status behaves like FilterAll.
type FilterCriteria struct {
	// Query is matched case-insensitively against the cashier name and the
	// session id.
	Query string
	// DateFrom / DateTo bound OpenedAt inclusively; DateTo is treated as
	// end-of-day so a date-only bound covers the whole day.
	DateFrom *time.Time
	DateTo   *time.Time
	Status   string
}

// SummaryStats are derived per filtered subset and never persisted.
type SummaryStats struct {
	SessionCount int             `json:"session_count"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	// AverageVariance averages over closed sessions only; zero when the
	// filtered subset contains none.
	AverageVariance decimal.Decimal `json:"average_variance"`
}
