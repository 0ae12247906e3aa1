package service_test

import (
	"testing"
	"time"

	"github.com/fitri99main/winny-pos-sub002/internal/model"
	"github.com/fitri99main/winny-pos-sub002/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleSessions() []model.CashierSession {
	return []model.CashierSession{
		closedSession("Ani", day(2024, 1, 1).Add(9*time.Hour), 100000, 5200, 105000),
		closedSession("Budi", day(2024, 1, 3).Add(8*time.Hour), 150000, 230000, 382500),
		openSession("Citra", day(2024, 1, 5).Add(7*time.Hour), 100000, 76500),
	}
}

func TestApplyFilterIdentity(t *testing.T) {
	sessions := sampleSessions()

	// Status all, empty query, unbounded dates — must return every session.
	got := service.ApplyFilter(sessions, model.FilterCriteria{Status: model.FilterAll})
	assert.Equal(t, sessions, got)

	// Zero-value criteria behaves the same.
	got = service.ApplyFilter(sessions, model.FilterCriteria{})
	assert.Equal(t, sessions, got)
}

func TestApplyFilterIdempotent(t *testing.T) {
	sessions := sampleSessions()
	criteria := model.FilterCriteria{Query: "an", Status: model.FilterClosed}

	once := service.ApplyFilter(sessions, criteria)
	twice := service.ApplyFilter(once, criteria)
	assert.Equal(t, once, twice)
}

func TestApplyFilterDoesNotMutateInput(t *testing.T) {
	sessions := sampleSessions()
	before := make([]model.CashierSession, len(sessions))
	copy(before, sessions)

	service.ApplyFilter(sessions, model.FilterCriteria{Status: model.FilterOpen})
	assert.Equal(t, before, sessions)
}

func TestApplyFilterTextQuery(t *testing.T) {
	sessions := sampleSessions()

	// Case-insensitive substring on the cashier name.
	got := service.ApplyFilter(sessions, model.FilterCriteria{Query: "ANI"})
	require.Len(t, got, 1)
	assert.Equal(t, "Ani", got[0].UserName)

	// Substring of the session id also matches.
	idFragment := sessions[1].ID.String()[:8]
	got = service.ApplyFilter(sessions, model.FilterCriteria{Query: idFragment})
	require.Len(t, got, 1)
	assert.Equal(t, sessions[1].ID, got[0].ID)

	// Placeholder name is searchable for sessions missing the denormalized copy.
	anon := openSession("", day(2024, 1, 6), 50000, 0)
	got = service.ApplyFilter([]model.CashierSession{anon}, model.FilterCriteria{Query: "unknown"})
	assert.Len(t, got, 1)
}

func TestApplyFilterStatus(t *testing.T) {
	sessions := sampleSessions()

	got := service.ApplyFilter(sessions, model.FilterCriteria{Status: model.FilterOpen})
	require.Len(t, got, 1)
	assert.Equal(t, "Citra", got[0].UserName)

	got = service.ApplyFilter(sessions, model.FilterCriteria{Status: model.FilterClosed})
	assert.Len(t, got, 2)
}

func TestApplyFilterDateRangeEndOfDay(t *testing.T) {
	lateInRange := openSession("Edge", time.Date(2024, 1, 5, 23, 59, 59, 0, time.UTC), 1000, 0)
	justOutside := openSession("Edge", time.Date(2024, 1, 6, 0, 0, 1, 0, time.UTC), 1000, 0)

	to := day(2024, 1, 5)
	criteria := model.FilterCriteria{DateTo: &to}

	got := service.ApplyFilter([]model.CashierSession{lateInRange, justOutside}, criteria)
	require.Len(t, got, 1)
	assert.Equal(t, lateInRange.ID, got[0].ID)
}

func TestApplyFilterDateRangeUsesOpenedAt(t *testing.T) {
	// Opened Jan 2, closed Jan 3 — a range covering only Jan 3 must miss it,
	// since the range applies to the opening time.
	s := closedSession("Ani", day(2024, 1, 2).Add(22*time.Hour), 1000, 0, 1000)

	from, to := day(2024, 1, 3), day(2024, 1, 3)
	got := service.ApplyFilter([]model.CashierSession{s}, model.FilterCriteria{DateFrom: &from, DateTo: &to})
	assert.Empty(t, got)

	from2, to2 := day(2024, 1, 2), day(2024, 1, 2)
	got = service.ApplyFilter([]model.CashierSession{s}, model.FilterCriteria{DateFrom: &from2, DateTo: &to2})
	assert.Len(t, got, 1)
}

func TestApplyFilterPredicatesAreANDed(t *testing.T) {
	sessions := sampleSessions()
	from := day(2024, 1, 1)
	criteria := model.FilterCriteria{Query: "ani", DateFrom: &from, Status: model.FilterOpen}

	// "Ani" matches the text predicate but her session is closed.
	got := service.ApplyFilter(sessions, criteria)
	assert.Empty(t, got)
}

// ── Aggregator ────────────────────────────────────────────────────────────────

func TestSummarizeTotals(t *testing.T) {
	sessions := sampleSessions()
	stats := service.Summarize(sessions)

	assert.Equal(t, 3, stats.SessionCount)
	assert.Equal(t, "311700", stats.TotalSales.String()) // 5200 + 230000 + 76500
}

func TestSummarizeVarianceScenario(t *testing.T) {
	// variance = 105000 - (100000 + 5200) = -200
	sessions := []model.CashierSession{
		closedSession("Ani", day(2024, 1, 1), 100000, 5200, 105000),
	}
	filtered := service.ApplyFilter(sessions, model.FilterCriteria{Status: model.FilterClosed})
	require.Len(t, filtered, 1)

	stats := service.Summarize(filtered)
	assert.Equal(t, "-200", stats.AverageVariance.String())
}

func TestSummarizeAverageVarianceSkipsOpenSessions(t *testing.T) {
	// One open, one closed; filtering to open only must yield zero average
	// variance even though a closed session exists in the unfiltered list.
	sessions := []model.CashierSession{
		openSession("Citra", day(2024, 1, 5), 100000, 76500),
		closedSession("Ani", day(2024, 1, 1), 100000, 5200, 105000),
	}
	filtered := service.ApplyFilter(sessions, model.FilterCriteria{Status: model.FilterOpen})
	stats := service.Summarize(filtered)

	assert.Equal(t, 1, stats.SessionCount)
	assert.True(t, stats.AverageVariance.IsZero())
}

func TestSummarizeEmptySubset(t *testing.T) {
	stats := service.Summarize(nil)
	assert.Zero(t, stats.SessionCount)
	assert.True(t, stats.TotalSales.IsZero())
	assert.True(t, stats.AverageVariance.IsZero())
}

func TestSummarizeAveragesOverClosedCount(t *testing.T) {
	sessions := []model.CashierSession{
		closedSession("Ani", day(2024, 1, 1), 1000, 0, 900),  // variance -100
		closedSession("Budi", day(2024, 1, 2), 1000, 0, 1300), // variance +300
		openSession("Citra", day(2024, 1, 3), 1000, 0),
	}
	stats := service.Summarize(sessions)
	assert.Equal(t, "100", stats.AverageVariance.String()) // (-100 + 300) / 2
}

func TestSummarizeToleratesClosedWithoutEndingCash(t *testing.T) {
	// Upstream invariant violation: closed but no ending cash. Variance is
	// treated as zero instead of failing.
	bad := openSession("Dewi", day(2024, 1, 4), 1000, 500)
	bad.Status = model.StatusClosed

	stats := service.Summarize([]model.CashierSession{bad})
	assert.True(t, stats.AverageVariance.IsZero())
}

func TestSummarizePartitionPreservesTotalSales(t *testing.T) {
	// Splitting a fixed list by status must partition the TotalSales sum.
	sessions := sampleSessions()
	all := service.Summarize(sessions)
	open := service.Summarize(service.ApplyFilter(sessions, model.FilterCriteria{Status: model.FilterOpen}))
	closed := service.Summarize(service.ApplyFilter(sessions, model.FilterCriteria{Status: model.FilterClosed}))

	assert.Equal(t, all.TotalSales.String(), open.TotalSales.Add(closed.TotalSales).String())
	assert.Equal(t, all.SessionCount, open.SessionCount+closed.SessionCount)
}
