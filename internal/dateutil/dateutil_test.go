package dateutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"moneyger/internal/dateutil"
)

func TestDay(t *testing.T) {
	in := time.Date(2025, 6, 15, 18, 42, 7, 99, time.FixedZone("X", 3600))
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), dateutil.Day(in))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{
			name: "SameDay",
			a:    time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "ForwardAcrossMonth",
			a:    time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
			want: 5,
		},
		{
			name: "BackwardIsNegative",
			a:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			want: -5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dateutil.DaysBetween(tt.a, tt.b))
		})
	}
}

func TestMonthBounds(t *testing.T) {
	in := time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), dateutil.MonthStart(in))
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), dateutil.MonthEnd(in))

	leap := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), dateutil.MonthEnd(leap))
}

func TestYearBounds(t *testing.T) {
	in := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), dateutil.YearStart(in))
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), dateutil.YearEnd(in))
}

func TestYearMonth(t *testing.T) {
	ym := dateutil.YM(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, dateutil.YearMonth{Year: 2025, Month: time.June}, ym)
	assert.Equal(t, "2025-06", ym.String())

	assert.Equal(t, "2025-11", dateutil.YearMonth{Year: 2025, Month: time.November}.String())
}
