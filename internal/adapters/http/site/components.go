package site

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/okian/presion/internal/domain/aggregate"
	"github.com/okian/presion/internal/domain/model"
	"github.com/okian/presion/pkg/i18n"
)

// Tabs of the page, as selected by ?tab=.
const (
	TabRegister = "registro"
	TabChart    = "visualizacion"
	TabTable    = "tabla"
)

var tabs = []struct {
	id  string
	key string
}{
	{TabRegister, i18n.KeyTabRegister},
	{TabChart, i18n.KeyTabChart},
	{TabTable, i18n.KeyTabTable},
}

// pageData is everything the page renders from.
type pageData struct {
	Loc  i18n.Localizer
	Lang string // empty unless chosen with ?lang=
	Tab  string
	View aggregate.View

	// Form state.
	FormDate  string // YYYY-MM-DD
	Systolic  string
	Diastolic string
	Pulse     string
	Error     string
	Saved     bool
}

func (p pageData) t(key string) string { return i18n.T(p.Loc, key) }

// link builds a page URL for tab, keeping the chosen language.
func (p pageData) link(tab string) string {
	q := url.Values{}
	q.Set("tab", tab)
	if p.Lang != "" {
		q.Set("lang", p.Lang)
	}
	return "/?" + q.Encode()
}

// writer accumulates the first write error.
type writer struct {
	w   io.Writer
	err error
}

func (o *writer) raw(parts ...string) {
	for _, s := range parts {
		if o.err != nil {
			return
		}
		_, o.err = io.WriteString(o.w, s)
	}
}

func (o *writer) text(s string) { o.raw(templ.EscapeString(s)) }

func (o *writer) attr(name, value string) {
	o.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (o *writer) render(ctx context.Context, c templ.Component) {
	if o.err != nil {
		return
	}
	o.err = c.Render(ctx, o.w)
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

// layout wraps body in the HTML document shell.
func layout(loc i18n.Localizer, lang string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &writer{w: w}
		if lang == "" {
			lang = "es"
		}
		o.raw(`<!doctype html><html`)
		o.attr("lang", lang)
		o.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		o.raw(`<title>`)
		o.text(i18n.T(loc, i18n.KeyPageTitle))
		o.raw(`</title><link rel="icon" type="image/svg+xml" href="/static/icon.svg">`)
		o.raw(`<link rel="stylesheet" href="/static/style.css"></head><body><main>`)
		o.raw(`<h1>`)
		o.text(i18n.T(loc, i18n.KeyHeading))
		o.raw(`</h1>`)
		o.render(ctx, body)
		o.raw(`</main></body></html>`)
		return o.err
	})
}

// Page renders the three-tab page. Only the selected tab is visible; the
// others are rendered hidden from the same fetch.
func Page(p pageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &writer{w: w}
		o.raw(`<nav class="tabs">`)
		for _, tb := range tabs {
			o.raw(`<a`)
			o.attr("href", p.link(tb.id))
			if tb.id == p.Tab {
				o.raw(` class="tab active" aria-current="page"`)
			} else {
				o.raw(` class="tab"`)
			}
			o.raw(`>`)
			o.text(p.t(tb.key))
			o.raw(`</a>`)
		}
		o.raw(`</nav>`)

		o.section(ctx, p, TabRegister, registerTab(p))
		o.section(ctx, p, TabChart, chartTab(p))
		o.section(ctx, p, TabTable, tableTab(p))
		return o.err
	})
	return layout(p.Loc, p.Lang, body)
}

func (o *writer) section(ctx context.Context, p pageData, id string, c templ.Component) {
	o.raw(`<section class="panel"`)
	o.attr("id", id)
	if id != p.Tab {
		o.raw(` hidden`)
	}
	o.raw(`>`)
	o.render(ctx, c)
	o.raw(`</section>`)
}

func registerTab(p pageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		o := &writer{w: w}
		o.raw(`<h4>`)
		o.text(p.t(i18n.KeyFormTitle))
		o.raw(`</h4>`)
		if p.Error != "" {
			o.raw(`<p class="alert error" role="alert">`)
			o.text(p.Error)
			o.raw(`</p>`)
		}
		if p.Saved {
			o.raw(`<p class="alert success" role="status">`)
			o.text(p.t(i18n.KeySaved))
			o.raw(`</p>`)
		}

		action := "/registrar"
		if p.Lang != "" {
			action += "?lang=" + url.QueryEscape(p.Lang)
		}
		o.raw(`<form method="post"`)
		o.attr("action", action)
		o.raw(`><label>`)
		o.text(p.t(i18n.KeyFieldDate))
		o.raw(`<input type="date" name="fecha" required`)
		o.attr("value", p.FormDate)
		o.raw(`></label><div class="row">`)
		for _, f := range []struct{ name, key, value string }{
			{"alta", i18n.KeyFieldSystolic, p.Systolic},
			{"baja", i18n.KeyFieldDiastolic, p.Diastolic},
			{"pulso", i18n.KeyFieldPulse, p.Pulse},
		} {
			o.raw(`<label>`)
			o.text(p.t(f.key))
			o.raw(`<input type="number" min="0" step="1" inputmode="numeric"`)
			o.attr("name", f.name)
			o.attr("value", f.value)
			o.raw(`></label>`)
		}
		o.raw(`</div><button type="submit">`)
		o.text(p.t(i18n.KeySubmit))
		o.raw(`</button></form>`)
		return o.err
	})
}

func chartTab(p pageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &writer{w: w}
		if len(p.View.Summaries) == 0 {
			o.raw(`<p class="alert warning">`)
			o.text(p.t(i18n.KeyChartEmpty))
			o.raw(`</p>`)
			return o.err
		}
		o.render(ctx, Chart(p.Loc, p.View.Summaries))
		return o.err
	})
}

// Chart renders the daily means as an SVG line chart with markers.
func Chart(loc i18n.Localizer, summaries []model.DailySummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		o := &writer{w: w}
		names := [3]string{
			i18n.T(loc, i18n.KeySeriesSystolic),
			i18n.T(loc, i18n.KeySeriesDiastolic),
			i18n.T(loc, i18n.KeySeriesPulse),
		}
		m := layoutChart(summaries, names)
		title := i18n.T(loc, i18n.KeyChartTitle)

		o.raw(fmt.Sprintf(`<svg class="chart" xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" role="img"`, num(m.Width), num(m.Height)))
		o.attr("aria-label", title)
		o.raw(`>`)
		o.raw(fmt.Sprintf(`<text class="chart-title" x="%s" y="28">`, num(m.Left)))
		o.text(title)
		o.raw(`</text>`)

		// y grid and labels
		for _, tk := range m.YTicks {
			o.raw(fmt.Sprintf(`<line class="grid" x1="%s" y1="%s" x2="%s" y2="%s"/>`, num(m.Left), num(tk.Pos), num(m.Right), num(tk.Pos)))
			o.raw(fmt.Sprintf(`<text class="tick" x="%s" y="%s" text-anchor="end" dominant-baseline="middle">`, num(m.Left-8), num(tk.Pos)))
			o.text(formatTick(loc, tk.Value))
			o.raw(`</text>`)
		}
		o.raw(fmt.Sprintf(`<line class="axis" x1="%s" y1="%s" x2="%s" y2="%s"/>`, num(m.Left), num(m.Bottom), num(m.Right), num(m.Bottom)))
		o.raw(fmt.Sprintf(`<text class="axis-title" transform="translate(16 %s) rotate(%s)" text-anchor="middle">`, num((m.Top+m.Bottom)/2), num(tickAngle)))
		o.text(i18n.T(loc, i18n.KeyChartYAxis))
		o.raw(`</text>`)

		for _, tk := range m.XTicks {
			o.raw(fmt.Sprintf(`<text class="tick" transform="translate(%s %s) rotate(%s)" text-anchor="end" dominant-baseline="middle">`, num(tk.X), num(m.Bottom+10), num(tickAngle)))
			o.text(tk.Label)
			o.raw(`</text>`)
		}

		for _, s := range m.Series {
			pts := make([]string, len(s.Points))
			for i, pt := range s.Points {
				pts[i] = num(pt.X) + "," + num(pt.Y)
			}
			o.raw(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="%s" points="%s"/>`, s.Color, num(lineWidth), strings.Join(pts, " ")))
			for _, pt := range s.Points {
				o.raw(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s"><title>`, num(pt.X), num(pt.Y), num(markerSize/2), s.Color))
				o.text(s.Name + " " + pt.Label + ": " + formatMean(loc, pt.Value))
				o.raw(`</title></circle>`)
			}
		}

		// legend
		lx := m.Right + 24
		o.raw(fmt.Sprintf(`<text class="legend-title" x="%s" y="%s">`, num(lx), num(m.Top)))
		o.text(i18n.T(loc, i18n.KeyChartLegend))
		o.raw(`</text>`)
		for i, s := range m.Series {
			y := m.Top + 24 + float64(i)*22
			o.raw(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`, num(lx), num(y), num(lx+24), num(y), s.Color, num(lineWidth)))
			o.raw(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, num(lx+12), num(y), num(markerSize/2), s.Color))
			o.raw(fmt.Sprintf(`<text class="legend" x="%s" y="%s" dominant-baseline="middle">`, num(lx+32), num(y)))
			o.text(s.Name)
			o.raw(`</text>`)
		}
		o.raw(`</svg>`)
		return o.err
	})
}

func formatMean(loc i18n.Localizer, v float64) string {
	if loc == nil {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return loc.Sprintf("%.1f", v)
}

func formatTick(loc i18n.Localizer, v float64) string {
	if v == math.Trunc(v) {
		if loc == nil {
			return strconv.FormatFloat(v, 'f', 0, 64)
		}
		return loc.Sprintf("%.0f", v)
	}
	return formatMean(loc, v)
}

func tableTab(p pageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &writer{w: w}
		o.raw(`<h4>`)
		o.text(p.t(i18n.KeyTableTitle))
		o.raw(`</h4><ul><li>`)
		o.text(p.t(i18n.KeyTableNote))
		o.raw(`</li></ul>`)
		if len(p.View.Records) == 0 {
			o.raw(`<p class="alert warning">`)
			o.text(p.t(i18n.KeyTableEmpty))
			o.raw(`</p>`)
			return o.err
		}
		o.render(ctx, Table(p.View.Records))
		return o.err
	})
}

// Table renders records in the order given.
func Table(records []model.Record) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		o := &writer{w: w}
		o.raw(`<table class="records"><thead><tr>`)
		for _, c := range model.Columns {
			o.raw(`<th>`)
			o.text(c)
			o.raw(`</th>`)
		}
		o.raw(`</tr></thead><tbody>`)
		for _, r := range records {
			o.raw(`<tr><td>`)
			o.text(r.DateKey())
			o.raw(`</td><td>`)
			o.text(r.Time)
			o.raw(`</td><td>`, strconv.Itoa(r.Systolic))
			o.raw(`</td><td>`, strconv.Itoa(r.Diastolic))
			o.raw(`</td><td>`, strconv.Itoa(r.Pulse))
			o.raw(`</td></tr>`)
		}
		o.raw(`</tbody></table>`)
		return o.err
	})
}

// ErrorPage is shown when the Row Store cannot be read or written.
func ErrorPage(loc i18n.Localizer, lang string) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		o := &writer{w: w}
		o.raw(`<section class="panel failure"><h2>`)
		o.text(i18n.T(loc, i18n.KeyErrorTitle))
		o.raw(`</h2><p class="alert error">`)
		o.text(i18n.T(loc, i18n.KeyErrorRowStore))
		o.raw(`</p></section>`)
		return o.err
	})
	return layout(loc, lang, body)
}
