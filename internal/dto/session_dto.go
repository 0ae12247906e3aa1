package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	StartingCash decimal.Decimal `json:"starting_cash" validate:"min=0"`
}

type RecordSaleRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

type CloseSessionRequest struct {
	EndingCash decimal.Decimal `json:"ending_cash" validate:"min=0"`
}

// HistoryQuery carries the filter predicates of the history view. Dates are
// date-only (YYYY-MM-DD); date_to covers its whole day.
type HistoryQuery struct {
	Query    string `form:"query"`
	DateFrom string `form:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to"   validate:"omitempty,datetime=2006-01-02"`
	Status   string `form:"status"    validate:"omitempty,oneof=all open closed"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessionResponse struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	UserName     string           `json:"user_name"`
	StartingCash decimal.Decimal  `json:"starting_cash"`
	TotalSales   decimal.Decimal  `json:"total_sales"`
	ExpectedCash decimal.Decimal  `json:"expected_cash"`
	EndingCash   *decimal.Decimal `json:"ending_cash"`
	Variance     *decimal.Decimal `json:"variance"`
	Status       string           `json:"status"`
	OpenedAt     string           `json:"opened_at"`
	ClosedAt     *string          `json:"closed_at"`
}

type SummaryResponse struct {
	SessionCount    int             `json:"session_count"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	AverageVariance decimal.Decimal `json:"average_variance"`
}

type HistoryResponse struct {
	Data    []SessionResponse `json:"data"`
	Summary SummaryResponse   `json:"summary"`
}
