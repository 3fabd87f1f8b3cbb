// Package types contains the JSON shapes exchanged over the HTTP API.
package types

import "github.com/okian/presion/internal/domain/model"

// Reading mirrors one Row Store record on the wire.
type Reading struct {
	Date      string `json:"date"` // DD-MM-YYYY
	Time      string `json:"time"` // HH:MM
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	Pulse     int    `json:"pulse"`
}

// DailyPoint mirrors one DailySummary on the wire.
type DailyPoint struct {
	Date          string  `json:"date"`
	MeanSystolic  float64 `json:"mean_systolic"`
	MeanDiastolic float64 `json:"mean_diastolic"`
	MeanPulse     float64 `json:"mean_pulse"`
	Count         int     `json:"count"`
}

// FromRecords converts records keeping their order.
func FromRecords(records []model.Record) []Reading {
	out := make([]Reading, len(records))
	for i, r := range records {
		out[i] = FromRecord(r)
	}
	return out
}

// FromRecord converts a single record.
func FromRecord(r model.Record) Reading {
	return Reading{
		Date:      r.DateKey(),
		Time:      r.Time,
		Systolic:  r.Systolic,
		Diastolic: r.Diastolic,
		Pulse:     r.Pulse,
	}
}

// FromSummaries converts daily summaries keeping their order.
func FromSummaries(summaries []model.DailySummary) []DailyPoint {
	out := make([]DailyPoint, len(summaries))
	for i, s := range summaries {
		out[i] = DailyPoint{
			Date:          s.Date,
			MeanSystolic:  s.MeanSystolic,
			MeanDiastolic: s.MeanDiastolic,
			MeanPulse:     s.MeanPulse,
			Count:         s.Count,
		}
	}
	return out
}

// Stats describes the current contents of the Row Store.
type Stats struct {
	Backend  string `json:"backend"`
	Records  int    `json:"records"`
	Days     int    `json:"days"`
	LastDate string `json:"last_date,omitempty"`
}
