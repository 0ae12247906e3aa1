package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDisplayNameFallback(t *testing.T) {
	s := CashierSession{UserName: "Ani"}
	assert.Equal(t, "Ani", s.DisplayName())

	s.UserName = ""
	assert.Equal(t, UnknownCashier, s.DisplayName())
}

func TestComputedExpectedCash(t *testing.T) {
	s := CashierSession{
		StartingCash: decimal.NewFromInt(100000),
		TotalSales:   decimal.NewFromInt(5200),
	}
	assert.Equal(t, "105200", s.ComputedExpectedCash().String())
}

func TestComputedVariance(t *testing.T) {
	ending := decimal.NewFromInt(105000)
	s := CashierSession{
		StartingCash: decimal.NewFromInt(100000),
		TotalSales:   decimal.NewFromInt(5200),
		EndingCash:   &ending,
	}
	assert.Equal(t, "-200", s.ComputedVariance().String())
}

func TestComputedVarianceMissingEndingCash(t *testing.T) {
	now := time.Now()
	s := CashierSession{
		StartingCash: decimal.NewFromInt(100000),
		Status:       StatusClosed,
		ClosedAt:     &now,
	}
	// A closed row without a count is tolerated and reads as balanced.
	assert.True(t, s.ComputedVariance().IsZero())
}
