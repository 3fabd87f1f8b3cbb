package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/okian/presion/internal/domain/aggregate"
	"github.com/okian/presion/internal/domain/form"
	"github.com/okian/presion/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps keeps appended records in memory and can fail on demand.
type fakeDeps struct {
	records   []model.Record
	failRead  bool
	failWrite bool
	submitted int
}

var errSheet = errors.New("sheet unavailable")

func (f *fakeDeps) Submit(_ context.Context, s form.Submission) (model.Record, error) {
	if s.Date.IsZero() || s.Systolic <= 0 || s.Diastolic <= 0 || s.Pulse <= 0 {
		return model.Record{}, &form.ValidationError{Missing: []string{"x"}}
	}
	if f.failWrite {
		return model.Record{}, errSheet
	}
	f.submitted++
	rec := model.Record{Date: s.Date, Time: "09:30", Systolic: s.Systolic, Diastolic: s.Diastolic, Pulse: s.Pulse}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeDeps) Snapshot(context.Context) (aggregate.View, error) {
	if f.failRead {
		return aggregate.View{}, errSheet
	}
	return aggregate.NewView(f.records), nil
}

func (f *fakeDeps) Today() time.Time {
	return time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC)
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func newSite(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	Register(context.Background(), mux, NewHandler(deps))
	return mux
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func post(mux http.Handler, target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a site over an empty store", t, func() {
		deps := &fakeDeps{}
		mux := newSite(deps)

		Convey("When requesting the root page", func() {
			w := get(mux, "/")

			Convey("Then the form tab is shown with today's date", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				body := w.Body.String()
				So(body, ShouldContainSubstring, "<title>Registro Presión</title>")
				So(body, ShouldContainSubstring, "Registro Presión Arterial")
				So(body, ShouldContainSubstring, `value="2024-01-16"`)
				So(body, ShouldContainSubstring, `<section class="panel" id="registro">`)
				So(body, ShouldContainSubstring, `<section class="panel" id="tabla" hidden>`)
			})

			Convey("And both read tabs show their empty messages", func() {
				body := w.Body.String()
				So(body, ShouldContainSubstring, "No hay datos disponibles para visualizar.")
				So(body, ShouldContainSubstring, "No hay datos disponibles.")
				So(body, ShouldNotContainSubstring, "<svg")
			})
		})

		Convey("When selecting an unknown tab", func() {
			w := get(mux, "/?tab=otra")

			Convey("Then the form tab is selected", func() {
				So(w.Body.String(), ShouldContainSubstring, `<section class="panel" id="registro">`)
			})
		})

		Convey("When requesting an unknown path", func() {
			So(get(mux, "/nada").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When requesting static assets", func() {
			w := get(mux, "/static/style.css")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "#1F618D")
			So(get(mux, "/static/icon.svg").Code, ShouldEqual, http.StatusOK)
		})
	})

	Convey("Given stored records", t, func() {
		deps := &fakeDeps{records: []model.Record{
			{Date: day(15), Time: "08:00", Systolic: 120, Diastolic: 80, Pulse: 70},
			{Date: day(15), Time: "20:00", Systolic: 130, Diastolic: 85, Pulse: 75},
			{Date: day(16), Time: "08:00", Systolic: 110, Diastolic: 70, Pulse: 65},
		}}
		mux := newSite(deps)

		Convey("When viewing the table", func() {
			body := get(mux, "/?tab=tabla").Body.String()

			Convey("Then rows run from newest to oldest", func() {
				So(body, ShouldContainSubstring, "Ordenados del más reciente al más antiguo.")
				So(body, ShouldContainSubstring, "<th>Fecha</th><th>Hora</th><th>Alta</th><th>Baja</th><th>Pulso</th>")
				first := strings.Index(body, "<td>16-01-2024</td>")
				last := strings.Index(body, "<td>15-01-2024</td><td>08:00</td>")
				So(first, ShouldBeGreaterThan, 0)
				So(last, ShouldBeGreaterThan, first)
			})
		})

		Convey("When viewing the chart", func() {
			body := get(mux, "/?tab=visualizacion").Body.String()

			Convey("Then the SVG carries the three series and labels", func() {
				So(body, ShouldContainSubstring, `<section class="panel" id="visualizacion">`)
				So(body, ShouldContainSubstring, "<svg")
				So(body, ShouldContainSubstring, "Promedio diario de Presión Alta, Baja y Pulsaciones")
				So(body, ShouldContainSubstring, "Variables (promedio)")
				So(body, ShouldContainSubstring, `stroke="#228B22"`)
				So(body, ShouldContainSubstring, `stroke="#FF8C00"`)
				So(body, ShouldContainSubstring, `stroke="#1E90FF"`)
				So(body, ShouldContainSubstring, "rotate(270.0)")
				So(body, ShouldContainSubstring, "Baja 15-01-2024: 82,5")
			})
		})

		Convey("When asking for English", func() {
			body := get(mux, "/?tab=visualizacion&lang=en").Body.String()

			Convey("Then labels and links switch language", func() {
				So(body, ShouldContainSubstring, `<html lang="en">`)
				So(body, ShouldContainSubstring, "Series (average)")
				So(body, ShouldContainSubstring, "Diastolic 15-01-2024: 82.5")
				So(body, ShouldContainSubstring, "lang=en&amp;tab=tabla")
			})
		})
	})

	Convey("Given a store that cannot be read", t, func() {
		deps := &fakeDeps{failRead: true}
		mux := newSite(deps)

		Convey("Then every tab fails as a whole", func() {
			for _, target := range []string{"/", "/?tab=visualizacion", "/?tab=tabla"} {
				w := get(mux, target)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "No se pudieron leer los registros")
				So(w.Body.String(), ShouldNotContainSubstring, "<form")
			}
		})
	})
}

func TestSubmitForm(t *testing.T) {
	complete := url.Values{"fecha": {"2024-01-15"}, "alta": {"120"}, "baja": {"80"}, "pulso": {"70"}}

	Convey("Given the entry form", t, func() {
		deps := &fakeDeps{}
		mux := newSite(deps)

		Convey("When submitting complete values", func() {
			w := post(mux, "/registrar", complete)

			Convey("Then one record is written and the browser is redirected", func() {
				So(w.Code, ShouldEqual, http.StatusSeeOther)
				So(w.Header().Get("Location"), ShouldEqual, "/?tab=registro&ok=1")
				So(deps.submitted, ShouldEqual, 1)
				So(deps.records[0].DateKey(), ShouldEqual, "15-01-2024")
			})

			Convey("And the redirect target confirms the write", func() {
				body := get(mux, w.Header().Get("Location")).Body.String()
				So(body, ShouldContainSubstring, "Datos registrados correctamente")
			})
		})

		Convey("When a value is zero", func() {
			vals := url.Values{"fecha": {"2024-01-15"}, "alta": {"0"}, "baja": {"80"}, "pulso": {"70"}}
			w := post(mux, "/registrar", vals)

			Convey("Then the form is shown again with the inline message", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				body := w.Body.String()
				So(body, ShouldContainSubstring, "Todos los valores son obligatorios. Por favor, complete todos los campos.")
				So(body, ShouldContainSubstring, `name="baja" value="80"`)
				So(body, ShouldNotContainSubstring, "Datos registrados correctamente")
				So(deps.submitted, ShouldEqual, 0)
			})
		})

		Convey("When a field is empty or not a number", func() {
			vals := url.Values{"fecha": {""}, "alta": {"abc"}, "baja": {"80"}, "pulso": {"70"}}
			So(post(mux, "/registrar", vals).Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(deps.submitted, ShouldEqual, 0)
		})

		Convey("When submitting in English", func() {
			w := post(mux, "/registrar?lang=en", complete)
			So(w.Header().Get("Location"), ShouldEqual, "/?lang=en&tab=registro&ok=1")
		})

		Convey("When the store rejects the write", func() {
			deps.failWrite = true
			w := post(mux, "/registrar", complete)

			Convey("Then the failure page is shown", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "La hoja de cálculo no respondió")
			})
		})

		Convey("When using GET on the form endpoint", func() {
			So(get(mux, "/registrar").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then registering panics", func() {
			So(func() { Register(context.Background(), nil, NewHandler(&fakeDeps{})) }, ShouldPanic)
		})
	})
}
