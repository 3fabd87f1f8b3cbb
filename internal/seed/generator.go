package seed

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Plausible resting ranges, inclusive.
const (
	systolicMin  = 100
	systolicMax  = 150
	diastolicMin = 60
	diastolicMax = 95
	pulseMin     = 55
	pulseMax     = 95

	// Diastolic stays at least this far below systolic.
	minPulsePressure = 25
)

// randInt returns a uniform integer in [lo, hi] using crypto/rand.
func randInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo+1)))
	if err != nil {
		return lo
	}
	return lo + int(n.Int64())
}

// Generate creates PerDay readings for each of Days consecutive days
// starting at Start, in chronological order.
func Generate(cfg *Config) []Reading {
	if cfg.Days <= 0 || cfg.PerDay <= 0 {
		return nil
	}
	start := cfg.Start
	if start.IsZero() {
		start = time.Now().AddDate(0, 0, -(cfg.Days - 1))
	}
	y, m, d := start.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	out := make([]Reading, 0, cfg.Days*cfg.PerDay)
	for day := 0; day < cfg.Days; day++ {
		date := first.AddDate(0, 0, day).Format(time.DateOnly)
		for i := 0; i < cfg.PerDay; i++ {
			out = append(out, generateSingle(date))
		}
	}
	return out
}

func generateSingle(date string) Reading {
	systolic := randInt(systolicMin, systolicMax)
	diastolic := randInt(diastolicMin, min(diastolicMax, systolic-minPulsePressure))
	return Reading{
		Date:      date,
		Systolic:  systolic,
		Diastolic: diastolic,
		Pulse:     randInt(pulseMin, pulseMax),
	}
}
