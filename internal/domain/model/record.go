// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// Text layouts used by the Row Store columns.
const (
	DateLayout = "02-01-2006" // DD-MM-YYYY
	TimeLayout = "15:04"      // HH:MM
)

// Column names of the remote sheet, in storage order.
const (
	ColumnDate      = "Fecha"
	ColumnTime      = "Hora"
	ColumnSystolic  = "Alta"
	ColumnDiastolic = "Baja"
	ColumnPulse     = "Pulso"
)

// Columns lists the sheet header in the order rows are appended.
var Columns = []string{ColumnDate, ColumnTime, ColumnSystolic, ColumnDiastolic, ColumnPulse}

// Record is one blood-pressure measurement as stored in the Row Store.
// Records are immutable once appended.
type Record struct {
	Date      time.Time // calendar day, midnight UTC
	Time      string    // local clock time, HH:MM
	Systolic  int       // "Alta"
	Diastolic int       // "Baja"
	Pulse     int       // "Pulso"
}

// DateKey returns the DD-MM-YYYY text used to group records by day.
func (r Record) DateKey() string {
	return FormatDate(r.Date)
}

// Row returns the record as the ordered 5-tuple appended to the Row Store.
func (r Record) Row() []any {
	return []any{r.DateKey(), r.Time, r.Systolic, r.Diastolic, r.Pulse}
}

// DailySummary is the per-date average of a group of Records.
// It is derived on every read and never persisted.
type DailySummary struct {
	Date          string // DD-MM-YYYY
	MeanSystolic  float64
	MeanDiastolic float64
	MeanPulse     float64
	Count         int
}

// FormatDate renders the calendar day of t as DD-MM-YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses DD-MM-YYYY strictly into a civil date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not DD-MM-YYYY: %w", s, err)
	}
	return t, nil
}

// CivilDate truncates t to its calendar day as seen in t's own location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
