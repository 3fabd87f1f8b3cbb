package repository

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func sheetHeader() []any {
	return []any{"Fecha", "Hora", "Alta", "Baja", "Pulso"}
}

func TestDecodeRows(t *testing.T) {
	Convey("Given formatted values from the sheet", t, func() {
		rows := [][]any{
			sheetHeader(),
			{"15-01-2024", "08:00", "120", "80", "70"},
			{"15-01-2024", "20:10", "130", "85", "75"},
			{"16-01-2024", "07:55", "110", "70", "65"},
		}

		Convey("When decoding", func() {
			records, err := DecodeRows(rows)

			Convey("Then every data row becomes a record in order", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 3)
				So(records[0].DateKey(), ShouldEqual, "15-01-2024")
				So(records[0].Time, ShouldEqual, "08:00")
				So(records[0].Systolic, ShouldEqual, 120)
				So(records[2].DateKey(), ShouldEqual, "16-01-2024")
				So(records[2].Pulse, ShouldEqual, 65)
			})
		})
	})

	Convey("Given unformatted numeric cells and a reordered header", t, func() {
		rows := [][]any{
			{"Pulso", "Alta", "Fecha", "Baja"},
			{float64(72), float64(118), "03-02-2024", "79"},
		}

		records, err := DecodeRows(rows)

		Convey("Then columns are matched by name and Hora is optional", func() {
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].Systolic, ShouldEqual, 118)
			So(records[0].Diastolic, ShouldEqual, 79)
			So(records[0].Pulse, ShouldEqual, 72)
			So(records[0].Time, ShouldEqual, "")
		})
	})

	Convey("Given an empty worksheet", t, func() {
		Convey("Then there are no records and no error", func() {
			records, err := DecodeRows(nil)
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)

			records, err = DecodeRows([][]any{sheetHeader()})
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})
	})

	Convey("Given blank rows between data rows", t, func() {
		rows := [][]any{
			sheetHeader(),
			{"15-01-2024", "08:00", "120", "80", "70"},
			{},
			{"", "", ""},
			{"16-01-2024", "08:00", "110", "70", "65"},
		}

		records, err := DecodeRows(rows)

		Convey("Then the blank rows are skipped", func() {
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 2)
		})
	})

	Convey("Given a header without Pulso", t, func() {
		rows := [][]any{{"Fecha", "Hora", "Alta", "Baja"}, {"15-01-2024", "08:00", "120", "80"}}

		_, err := DecodeRows(rows)

		Convey("Then a ParseError names the missing column", func() {
			var perr *ParseError
			So(errors.As(err, &perr), ShouldBeTrue)
			So(perr.Column, ShouldEqual, "Pulso")
			So(perr.Row, ShouldEqual, 0)
			So(errors.Is(err, ErrParse), ShouldBeTrue)
		})
	})

	Convey("Given one date in another format", t, func() {
		rows := [][]any{
			sheetHeader(),
			{"15-01-2024", "08:00", "120", "80", "70"},
			{"2024-01-16", "08:00", "110", "70", "65"},
		}

		records, err := DecodeRows(rows)

		Convey("Then the whole read fails", func() {
			So(records, ShouldBeNil)
			var perr *ParseError
			So(errors.As(err, &perr), ShouldBeTrue)
			So(perr.Row, ShouldEqual, 3)
			So(perr.Column, ShouldEqual, "Fecha")
			So(perr.Value, ShouldEqual, "2024-01-16")
		})
	})

	Convey("Given a date that the sheet turned into a number", t, func() {
		rows := [][]any{sheetHeader(), {float64(45306), "08:00", "120", "80", "70"}}

		_, err := DecodeRows(rows)

		Convey("Then it is a ParseError on Fecha", func() {
			var perr *ParseError
			So(errors.As(err, &perr), ShouldBeTrue)
			So(perr.Column, ShouldEqual, "Fecha")
		})
	})

	Convey("Given non-integer readings", t, func() {
		for _, bad := range []any{"ciento veinte", "120.5", float64(80.25), "", true, "NaN", "Inf"} {
			rows := [][]any{sheetHeader(), {"15-01-2024", "08:00", bad, "80", "70"}}
			_, err := DecodeRows(rows)

			var perr *ParseError
			So(errors.As(err, &perr), ShouldBeTrue)
			So(perr.Column, ShouldEqual, "Alta")
		}
	})

	Convey("Given a row shorter than the header", t, func() {
		rows := [][]any{sheetHeader(), {"15-01-2024", "08:00", "120"}}

		_, err := DecodeRows(rows)

		Convey("Then the trimmed cells count as empty values", func() {
			var perr *ParseError
			So(errors.As(err, &perr), ShouldBeTrue)
			So(perr.Column, ShouldEqual, "Baja")
		})
	})

	Convey("Given integral numeric text", t, func() {
		rows := [][]any{sheetHeader(), {" 15-01-2024 ", "08:00", " 120 ", "80.0", float64(70)}}

		records, err := DecodeRows(rows)

		Convey("Then it is accepted", func() {
			So(err, ShouldBeNil)
			So(records[0].Systolic, ShouldEqual, 120)
			So(records[0].Diastolic, ShouldEqual, 80)
		})
	})
}
