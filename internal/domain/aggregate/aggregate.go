// Package aggregate derives the read-side views of the Row Store records:
// per-day averages for the chart and display order for the table.
package aggregate

import "github.com/okian/presion/internal/domain/model"

// Summarize groups records by their DD-MM-YYYY text and averages the
// numeric fields of each group. Output follows the first appearance of each
// date in records. An empty input yields an empty, non-nil slice.
func Summarize(records []model.Record) []model.DailySummary {
	type sums struct {
		systolic, diastolic, pulse int
		n                          int
	}

	order := make([]string, 0)
	groups := make(map[string]*sums)
	for _, r := range records {
		key := r.DateKey()
		g, ok := groups[key]
		if !ok {
			g = &sums{}
			groups[key] = g
			order = append(order, key)
		}
		g.systolic += r.Systolic
		g.diastolic += r.Diastolic
		g.pulse += r.Pulse
		g.n++
	}

	out := make([]model.DailySummary, 0, len(order))
	for _, key := range order {
		g := groups[key]
		n := float64(g.n)
		out = append(out, model.DailySummary{
			Date:          key,
			MeanSystolic:  float64(g.systolic) / n,
			MeanDiastolic: float64(g.diastolic) / n,
			MeanPulse:     float64(g.pulse) / n,
			Count:         g.n,
		})
	}
	return out
}

// OrderForDisplay returns records in reverse fetch order, so the last
// appended record comes first. It is a positional reversal, not a sort;
// records is left untouched.
func OrderForDisplay(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

// View holds both read views derived from a single fetch.
type View struct {
	Records   []model.Record       // display order
	Summaries []model.DailySummary // first-appearance order
}

// NewView derives the table and chart views from one fetch.
func NewView(records []model.Record) View {
	return View{
		Records:   OrderForDisplay(records),
		Summaries: Summarize(records),
	}
}
