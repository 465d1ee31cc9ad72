package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"moneyger/internal/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"HalfRoundsUp", "1.005", "1.01"},
		{"BelowHalfRoundsDown", "1.004", "1"},
		{"NegativeHalfRoundsAwayFromZero", "-1.005", "-1.01"},
		{"AlreadyTwoPlaces", "10.25", "10.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, money.Round2(dec(tt.in)).Equal(dec(tt.want)))
		})
	}
}

func TestDiv2(t *testing.T) {
	t.Run("RoundsQuotientHalfUp", func(t *testing.T) {
		assert.Equal(t, "3.33", money.Div2(dec("10"), dec("3")).String())
		assert.Equal(t, "6.67", money.Div2(dec("20"), dec("3")).String())
	})

	t.Run("ZeroDivisorYieldsZero", func(t *testing.T) {
		assert.True(t, money.Div2(dec("10"), decimal.Zero).IsZero())
	})
}

func TestPercent(t *testing.T) {
	t.Run("FourPlaceDivisionScaledByHundred", func(t *testing.T) {
		// 1/3 -> 0.3333 -> 33.33
		assert.InDelta(t, 33.33, money.Percent(dec("1"), dec("3")), 0.001)
		// 2/3 -> 0.6667 -> 66.67
		assert.InDelta(t, 66.67, money.Percent(dec("2"), dec("3")), 0.001)
	})

	t.Run("CanExceedHundred", func(t *testing.T) {
		assert.InDelta(t, 150, money.Percent(dec("3"), dec("2")), 0.001)
	})

	t.Run("ZeroWholeYieldsZero", func(t *testing.T) {
		assert.Zero(t, money.Percent(dec("5"), decimal.Zero))
	})
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name   string
		oldVal string
		newVal string
		want   string
	}{
		{"BothZero", "0", "0", "0"},
		{"FromZeroToAnything", "0", "12.50", "100"},
		{"Increase", "200", "250", "25"},
		{"Decrease", "200", "150", "-25"},
		{"RoundedToTwoPlaces", "3", "4", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.PercentChange(dec(tt.oldVal), dec(tt.newVal))
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestSum(t *testing.T) {
	assert.True(t, money.Sum().IsZero())
	assert.True(t, money.Sum(dec("1.001"), dec("2.004"), dec("-0.005")).Equal(dec("3")))
}
