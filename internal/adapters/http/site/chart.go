package site

import (
	"math"

	"github.com/okian/presion/internal/domain/model"
)

// Chart styling.
const (
	chartWidth  = 860.0
	chartHeight = 440.0

	marginLeft   = 64.0
	marginRight  = 180.0 // legend column
	marginTop    = 56.0
	marginBottom = 96.0 // rotated date labels

	lineWidth  = 2.0
	markerSize = 6.0
	tickAngle  = 270.0
	yTicks     = 5
)

// Series colors.
const (
	colorSystolic  = "#228B22"
	colorDiastolic = "#FF8C00"
	colorPulse     = "#1E90FF"
)

type point struct {
	X, Y  float64
	Label string  // date
	Value float64 // unscaled mean
}

type series struct {
	Name   string
	Color  string
	Points []point
}

type tick struct {
	Pos   float64
	Value float64
}

// chartModel is the laid-out chart: pixel positions for every series point
// and axis tick. The y axis always starts at zero.
type chartModel struct {
	Width, Height float64
	Left, Right   float64
	Top, Bottom   float64
	YMax          float64
	Series        []series
	XTicks        []point
	YTicks        []tick
}

// layoutChart places the daily means on a zero-based linear scale, one
// evenly spaced x slot per summary in the given order.
func layoutChart(summaries []model.DailySummary, names [3]string) chartModel {
	m := chartModel{
		Width:  chartWidth,
		Height: chartHeight,
		Left:   marginLeft,
		Right:  chartWidth - marginRight,
		Top:    marginTop,
		Bottom: chartHeight - marginBottom,
	}

	var maxV float64
	for _, s := range summaries {
		maxV = math.Max(maxV, math.Max(s.MeanSystolic, math.Max(s.MeanDiastolic, s.MeanPulse)))
	}
	m.YMax = niceCeil(maxV)

	colors := [3]string{colorSystolic, colorDiastolic, colorPulse}
	m.Series = make([]series, 3)
	for i := range m.Series {
		m.Series[i] = series{Name: names[i], Color: colors[i], Points: make([]point, 0, len(summaries))}
	}

	for i, s := range summaries {
		x := m.xAt(i, len(summaries))
		m.XTicks = append(m.XTicks, point{X: x, Y: m.Bottom, Label: s.Date})
		for j, v := range [3]float64{s.MeanSystolic, s.MeanDiastolic, s.MeanPulse} {
			m.Series[j].Points = append(m.Series[j].Points, point{X: x, Y: m.yAt(v), Label: s.Date, Value: v})
		}
	}

	step := m.YMax / yTicks
	for i := 0; i <= yTicks; i++ {
		v := step * float64(i)
		m.YTicks = append(m.YTicks, tick{Pos: m.yAt(v), Value: v})
	}
	return m
}

func (m chartModel) xAt(i, n int) float64 {
	if n <= 1 {
		return (m.Left + m.Right) / 2
	}
	return m.Left + float64(i)*(m.Right-m.Left)/float64(n-1)
}

func (m chartModel) yAt(v float64) float64 {
	return m.Bottom - v/m.YMax*(m.Bottom-m.Top)
}

// niceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten so the
// y ticks land on round numbers. Non-positive input yields 1.
func niceCeil(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, f := range []float64{1, 2, 2.5, 5, 10} {
		if c := f * exp; c >= v {
			return c
		}
	}
	return 10 * exp
}
