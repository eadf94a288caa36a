package service

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// wholeDays counts full 24h periods between start and end, truncating the
// remainder. Negative spans yield negative counts; callers validate order.
func wholeDays(start, end time.Time) int64 {
	return int64(end.Sub(start) / day)
}

// Price quotes a rental interval at a per-day rate with a minimum charge of
// one day. Also used on its own for the late-return surcharge over the
// estimated-end to actual-return span.
func Price(ratePerDay float64, start, end time.Time) float64 {
	days := wholeDays(start, end)
	if days < 1 {
		days = 1
	}
	return round2(ratePerDay * float64(days))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
