package site

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/okian/presion/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var seriesNames = [3]string{"Alta", "Baja", "Pulso"}

func TestNiceCeil(t *testing.T) {
	Convey("Axis maxima round up to tidy values", t, func() {
		So(niceCeil(125), ShouldEqual, 200)
		So(niceCeil(200), ShouldEqual, 200)
		So(niceCeil(201), ShouldEqual, 250)
		So(niceCeil(82.5), ShouldEqual, 100)
		So(niceCeil(3), ShouldEqual, 5)
		So(niceCeil(0), ShouldEqual, 1)
		So(niceCeil(-4), ShouldEqual, 1)
	})
}

func TestLayoutChart(t *testing.T) {
	Convey("Given two daily summaries", t, func() {
		summaries := []model.DailySummary{
			{Date: "15-01-2024", MeanSystolic: 125, MeanDiastolic: 82.5, MeanPulse: 72.5, Count: 2},
			{Date: "16-01-2024", MeanSystolic: 110, MeanDiastolic: 70, MeanPulse: 65, Count: 1},
		}
		m := layoutChart(summaries, seriesNames)

		Convey("Then the y axis starts at zero and covers the largest mean", func() {
			So(m.YMax, ShouldEqual, 200)
			So(m.YTicks[0].Value, ShouldEqual, 0)
			So(m.YTicks[0].Pos, ShouldEqual, m.Bottom)
			So(m.YTicks[len(m.YTicks)-1].Pos, ShouldEqual, m.Top)
		})

		Convey("Then points keep the summary order from left to right", func() {
			So(m.XTicks, ShouldHaveLength, 2)
			So(m.XTicks[0].Label, ShouldEqual, "15-01-2024")
			So(m.XTicks[0].X, ShouldEqual, m.Left)
			So(m.XTicks[1].X, ShouldEqual, m.Right)
		})

		Convey("Then each series has one point per day in its color", func() {
			So(m.Series, ShouldHaveLength, 3)
			So(m.Series[0].Color, ShouldEqual, "#228B22")
			So(m.Series[1].Color, ShouldEqual, "#FF8C00")
			So(m.Series[2].Color, ShouldEqual, "#1E90FF")
			So(m.Series[1].Points[0].Value, ShouldEqual, 82.5)
			// higher values sit higher on the canvas
			So(m.Series[0].Points[0].Y, ShouldBeLessThan, m.Series[0].Points[1].Y)
		})
	})

	Convey("Given a single day", t, func() {
		m := layoutChart([]model.DailySummary{{Date: "15-01-2024", MeanSystolic: 120, MeanDiastolic: 80, MeanPulse: 70, Count: 1}}, seriesNames)

		Convey("Then the point is centered", func() {
			So(m.XTicks[0].X, ShouldEqual, (m.Left+m.Right)/2)
		})
	})
}

func TestChartComponent(t *testing.T) {
	Convey("Given a rendered chart without a localizer", t, func() {
		var buf bytes.Buffer
		err := Chart(nil, []model.DailySummary{
			{Date: "15-01-2024", MeanSystolic: 125, MeanDiastolic: 82.5, MeanPulse: 72.5, Count: 2},
		}).Render(context.Background(), &buf)

		Convey("Then it is a standalone SVG with markers and a legend", func() {
			So(err, ShouldBeNil)
			out := buf.String()
			So(strings.HasPrefix(out, "<svg"), ShouldBeTrue)
			So(strings.HasSuffix(out, "</svg>"), ShouldBeTrue)
			So(strings.Count(out, "<polyline"), ShouldEqual, 3)
			So(out, ShouldContainSubstring, `r="3.0"`)
			So(out, ShouldContainSubstring, `stroke-width="2.0"`)
			So(out, ShouldContainSubstring, "82.5")
		})
	})
}
