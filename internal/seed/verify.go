package seed

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/presion/internal/domain/aggregate"
	"github.com/okian/presion/internal/domain/model"
	"github.com/okian/presion/internal/domain/types"
)

// ErrMismatch is returned when the service's numbers disagree with ours.
var ErrMismatch = errors.New("verification mismatch")

const meanTolerance = 1e-9

// toRecords converts API readings back into domain records. The API lists
// the newest first, so the slice is reversed into append order.
func toRecords(readings []types.Reading) ([]model.Record, error) {
	out := make([]model.Record, len(readings))
	for i, r := range readings {
		d, err := model.ParseDate(r.Date)
		if err != nil {
			return nil, err
		}
		out[len(readings)-1-i] = model.Record{
			Date:      d,
			Time:      r.Time,
			Systolic:  r.Systolic,
			Diastolic: r.Diastolic,
			Pulse:     r.Pulse,
		}
	}
	return out, nil
}

// verifySummary checks that the reported summary matches the averages of
// the reported readings, including day order.
func verifySummary(readings []types.Reading, summary []types.DailyPoint) error {
	records, err := toRecords(readings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMismatch, err)
	}
	want := types.FromSummaries(aggregate.Summarize(records))
	if len(want) != len(summary) {
		return fmt.Errorf("%w: %d days reported, %d expected", ErrMismatch, len(summary), len(want))
	}
	for i := range want {
		if err := comparePoint(summary[i], want[i]); err != nil {
			return fmt.Errorf("%w: day %d: %w", ErrMismatch, i, err)
		}
	}
	return nil
}

// verifyAccepted checks that every accepted reading is counted by the
// summary and that days the run created average to what was sent.
func verifyAccepted(before, after []types.DailyPoint, accepted *tally) error {
	prior := make(map[string]int, len(before))
	for _, p := range before {
		prior[p.Date] = p.Count
	}
	current := make(map[string]types.DailyPoint, len(after))
	for _, p := range after {
		current[p.Date] = p
	}

	for date, n := range accepted.counts {
		key, err := dateKey(date)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMismatch, err)
		}
		got, ok := current[key]
		if !ok {
			return fmt.Errorf("%w: %s missing from summary", ErrMismatch, key)
		}
		if got.Count != prior[key]+n {
			return fmt.Errorf("%w: %s counts %d readings, expected %d", ErrMismatch, key, got.Count, prior[key]+n)
		}
		if prior[key] > 0 {
			continue
		}
		s := accepted.sums[date]
		want := types.DailyPoint{
			Date:          key,
			MeanSystolic:  float64(s[0]) / float64(n),
			MeanDiastolic: float64(s[1]) / float64(n),
			MeanPulse:     float64(s[2]) / float64(n),
			Count:         n,
		}
		if err := comparePoint(got, want); err != nil {
			return fmt.Errorf("%w: %w", ErrMismatch, err)
		}
	}
	return nil
}

func comparePoint(got, want types.DailyPoint) error {
	switch {
	case got.Date != want.Date:
		return fmt.Errorf("date %s, expected %s", got.Date, want.Date)
	case got.Count != want.Count:
		return fmt.Errorf("%s: count %d, expected %d", got.Date, got.Count, want.Count)
	case !approxEqual(got.MeanSystolic, want.MeanSystolic),
		!approxEqual(got.MeanDiastolic, want.MeanDiastolic),
		!approxEqual(got.MeanPulse, want.MeanPulse):
		return fmt.Errorf("%s: means %.3f/%.3f/%.3f, expected %.3f/%.3f/%.3f", got.Date,
			got.MeanSystolic, got.MeanDiastolic, got.MeanPulse,
			want.MeanSystolic, want.MeanDiastolic, want.MeanPulse)
	}
	return nil
}

func approxEqual(a, b float64) bool { return math.Abs(a-b) <= meanTolerance }

// dateKey turns a YYYY-MM-DD submission date into the DD-MM-YYYY summary key.
func dateKey(date string) (string, error) {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", err
	}
	return model.FormatDate(d), nil
}
