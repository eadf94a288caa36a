package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	var tests = []struct {
		name string
		rate float64
		end  time.Time
		want float64
	}{
		{
			name: "three full days",
			rate: 100,
			end:  start.Add(3 * 24 * time.Hour),
			want: 300,
		},
		{
			name: "sub-day interval charges one day",
			rate: 100,
			end:  start.Add(5 * time.Hour),
			want: 100,
		},
		{
			name: "same instant charges one day",
			rate: 80,
			end:  start,
			want: 80,
		},
		{
			name: "partial day truncated",
			rate: 100,
			end:  start.Add(2*24*time.Hour + 23*time.Hour),
			want: 200,
		},
		{
			name: "fractional rate rounded to cents",
			rate: 99.99,
			end:  start.Add(3 * 24 * time.Hour),
			want: 299.97,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Price(tt.rate, start, tt.end))
		})
	}
}

func TestPrice_MinimumOneDay(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for hours := 0; hours < 24; hours++ {
		got := Price(50, start, start.Add(time.Duration(hours)*time.Hour))
		require.Equal(t, float64(50), got, "hours=%d", hours)
	}
}

func TestPrice_MonotonicInSpan(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	prev := 0.0
	for d := 0; d <= 30; d++ {
		got := Price(75, start, start.Add(time.Duration(d)*24*time.Hour))
		require.GreaterOrEqual(t, got, prev)
		require.GreaterOrEqual(t, got, 75.0)
		prev = got
	}
}

func TestPrice_LateSurchargeSpan(t *testing.T) {
	t.Parallel()
	// Scenario: 100/day, estimated end T+3d, returned T+5d. The initial
	// quote is 300 and the late span alone prices at 200.
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	estimated := start.Add(3 * 24 * time.Hour)
	actual := start.Add(5 * 24 * time.Hour)

	require.Equal(t, float64(300), Price(100, start, estimated))
	require.Equal(t, float64(200), Price(100, estimated, actual))
}
