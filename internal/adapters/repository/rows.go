package repository

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/presion/internal/domain/model"
)

var (
	errMissingColumn = errors.New("required column is missing")
	errNotInteger    = errors.New("not an integer")
	errNotText       = errors.New("not text")
)

// header maps column names to their position in a row.
type header map[string]int

func parseHeader(row []any) (header, error) {
	h := make(header, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(fmt.Sprint(cell))
		if name == "" {
			continue
		}
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	for _, col := range []string{model.ColumnDate, model.ColumnSystolic, model.ColumnDiastolic, model.ColumnPulse} {
		if _, ok := h[col]; !ok {
			return nil, &ParseError{Column: col, Err: errMissingColumn}
		}
	}
	return h, nil
}

// DecodeRows turns raw sheet values into records. The first row is the
// header; it must name Fecha, Alta, Baja and Pulso, while Hora is optional.
// Blank rows are skipped. The first undecodable cell aborts the read.
func DecodeRows(rows [][]any) ([]model.Record, error) {
	if len(rows) == 0 {
		return []model.Record{}, nil
	}
	h, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec, err := decodeRow(h, row, i+2)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeRow(h header, row []any, rowNum int) (model.Record, error) {
	var rec model.Record

	rawDate := cell(row, h[model.ColumnDate])
	dateText, ok := rawDate.(string)
	if !ok {
		return rec, &ParseError{Row: rowNum, Column: model.ColumnDate, Value: rawDate, Err: errNotText}
	}
	d, err := model.ParseDate(strings.TrimSpace(dateText))
	if err != nil {
		return rec, &ParseError{Row: rowNum, Column: model.ColumnDate, Value: rawDate, Err: err}
	}
	rec.Date = d

	if idx, ok := h[model.ColumnTime]; ok {
		if v := cell(row, idx); v != nil {
			rec.Time = strings.TrimSpace(fmt.Sprint(v))
		}
	}

	nums := []struct {
		col string
		dst *int
	}{
		{model.ColumnSystolic, &rec.Systolic},
		{model.ColumnDiastolic, &rec.Diastolic},
		{model.ColumnPulse, &rec.Pulse},
	}
	for _, n := range nums {
		raw := cell(row, h[n.col])
		v, err := toInt(raw)
		if err != nil {
			return model.Record{}, &ParseError{Row: rowNum, Column: n.col, Value: raw, Err: err}
		}
		*n.dst = v
	}
	return rec, nil
}

// cell returns row[idx], or "" when the API trimmed trailing empty cells.
func cell(row []any, idx int) any {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func blank(row []any) bool {
	for _, c := range row {
		if c == nil {
			continue
		}
		if s, ok := c.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		return false
	}
	return true
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		return floatToInt(x)
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errNotInteger
		}
		return floatToInt(f)
	default:
		return 0, errNotInteger
	}
}

func floatToInt(f float64) (int, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, errNotInteger
	}
	return int(f), nil
}
