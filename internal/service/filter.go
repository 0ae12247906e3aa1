package service

import (
	"strings"
	"time"

	"github.com/fitri99main/winny-pos-sub002/internal/model"

	"github.com/shopspring/decimal"
)

// ApplyFilter returns the visible subset of sessions under the given
// criteria. It is a pure function: the input slice is never mutated, order
// is preserved, and applying the same criteria twice yields the same result.
func ApplyFilter(sessions []model.CashierSession, c model.FilterCriteria) []model.CashierSession {
	out := make([]model.CashierSession, 0, len(sessions))
	for _, s := range sessions {
		if matches(&s, c) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s *model.CashierSession, c model.FilterCriteria) bool {
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		name := strings.ToLower(s.DisplayName())
		id := strings.ToLower(s.ID.String())
		if !strings.Contains(name, q) && !strings.Contains(id, q) {
			return false
		}
	}

	// The date range applies to OpenedAt: "sessions opened within range".
	if c.DateFrom != nil && s.OpenedAt.Before(startOfDay(*c.DateFrom)) {
		return false
	}
	if c.DateTo != nil && !s.OpenedAt.Before(startOfDay(*c.DateTo).AddDate(0, 0, 1)) {
		return false
	}

	switch c.Status {
	case "", model.FilterAll:
	default:
		if s.Status != c.Status {
			return false
		}
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Summarize computes the aggregate block for a filtered subset. TotalSales
// sums unconditionally; AverageVariance averages recomputed variances over
// closed sessions only and is exactly zero when none are closed.
func Summarize(sessions []model.CashierSession) model.SummaryStats {
	stats := model.SummaryStats{
		SessionCount:    len(sessions),
		TotalSales:      decimal.Zero,
		AverageVariance: decimal.Zero,
	}

	varianceSum := decimal.Zero
	closed := 0
	for i := range sessions {
		s := &sessions[i]
		stats.TotalSales = stats.TotalSales.Add(s.TotalSales)
		if s.IsClosed() {
			varianceSum = varianceSum.Add(s.ComputedVariance())
			closed++
		}
	}
	if closed > 0 {
		stats.AverageVariance = varianceSum.Div(decimal.NewFromInt(int64(closed))).Round(2)
	}
	return stats
}
