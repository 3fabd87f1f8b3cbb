// Package i18n registers the UI message catalog and resolves printers for it.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys used by the HTML surface.
const (
	KeyPageTitle       = "page.title"
	KeyHeading         = "page.heading"
	KeyTabRegister     = "tab.register"
	KeyTabChart        = "tab.chart"
	KeyTabTable        = "tab.table"
	KeyFormTitle       = "form.title"
	KeyFieldDate       = "form.date"
	KeyFieldSystolic   = "form.systolic"
	KeyFieldDiastolic  = "form.diastolic"
	KeyFieldPulse      = "form.pulse"
	KeySubmit          = "form.submit"
	KeyMissingValues   = "form.missing"
	KeySaved           = "form.saved"
	KeyChartTitle      = "chart.title"
	KeyChartYAxis      = "chart.y_axis"
	KeyChartLegend     = "chart.legend"
	KeyChartEmpty      = "chart.empty"
	KeyTableTitle      = "table.title"
	KeyTableNote       = "table.note"
	KeyTableEmpty      = "table.empty"
	KeyErrorTitle      = "error.title"
	KeyErrorRowStore   = "error.row_store"
	KeySeriesSystolic  = "series.systolic"
	KeySeriesDiastolic = "series.diastolic"
	KeySeriesPulse     = "series.pulse"
)

// Spanish is the default language of the UI.
var (
	Spanish = language.Spanish
	English = language.English
)

var matcher = language.NewMatcher([]language.Tag{Spanish, English})

var catalog = map[language.Tag]map[string]string{
	Spanish: {
		KeyPageTitle:       "Registro Presión",
		KeyHeading:         "Registro Presión Arterial",
		KeyTabRegister:     "Registro de Presión",
		KeyTabChart:        "Visualización",
		KeyTabTable:        "Tabla de registros",
		KeyFormTitle:       "Formulario:",
		KeyFieldDate:       "Fecha",
		KeyFieldSystolic:   "Presión Alta",
		KeyFieldDiastolic:  "Presión Baja",
		KeyFieldPulse:      "Pulsaciones",
		KeySubmit:          "Registrar",
		KeyMissingValues:   "Todos los valores son obligatorios. Por favor, complete todos los campos.",
		KeySaved:           "Datos registrados correctamente",
		KeyChartTitle:      "Promedio diario de Presión Alta, Baja y Pulsaciones",
		KeyChartYAxis:      "Valores Promedio",
		KeyChartLegend:     "Variables (promedio)",
		KeyChartEmpty:      "No hay datos disponibles para visualizar.",
		KeyTableTitle:      "Tabla registros",
		KeyTableNote:       "Ordenados del más reciente al más antiguo.",
		KeyTableEmpty:      "No hay datos disponibles.",
		KeyErrorTitle:      "No se pudieron leer los registros",
		KeyErrorRowStore:   "La hoja de cálculo no respondió. Intente nuevamente más tarde.",
		KeySeriesSystolic:  "Alta",
		KeySeriesDiastolic: "Baja",
		KeySeriesPulse:     "Pulso",
	},
	English: {
		KeyPageTitle:       "Blood Pressure Log",
		KeyHeading:         "Blood Pressure Log",
		KeyTabRegister:     "New reading",
		KeyTabChart:        "Chart",
		KeyTabTable:        "Readings table",
		KeyFormTitle:       "Form:",
		KeyFieldDate:       "Date",
		KeyFieldSystolic:   "Systolic",
		KeyFieldDiastolic:  "Diastolic",
		KeyFieldPulse:      "Pulse",
		KeySubmit:          "Save",
		KeyMissingValues:   "All values are required. Please fill in every field.",
		KeySaved:           "Reading saved",
		KeyChartTitle:      "Daily average of systolic, diastolic and pulse",
		KeyChartYAxis:      "Average values",
		KeyChartLegend:     "Series (average)",
		KeyChartEmpty:      "No data available to chart.",
		KeyTableTitle:      "Readings",
		KeyTableNote:       "Newest first.",
		KeyTableEmpty:      "No data available.",
		KeyErrorTitle:      "Readings could not be loaded",
		KeyErrorRowStore:   "The spreadsheet did not respond. Please try again later.",
		KeySeriesSystolic:  "Systolic",
		KeySeriesDiastolic: "Diastolic",
		KeySeriesPulse:     "Pulse",
	},
}

func init() {
	for tag, msgs := range catalog {
		for key, msg := range msgs {
			// Messages carry no format verbs; SetString only fails on an
			// undefined tag.
			_ = message.SetString(tag, key, msg)
		}
	}
}

// Localizer provides translated strings for components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns the translated string for key, or the key itself when loc is nil.
func T(loc Localizer, key string, args ...any) string {
	if loc == nil {
		return key
	}
	return loc.Sprintf(key, args...)
}

// Printer returns a printer for tag. Unknown tags fall back to Spanish.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(Match(tag))
}

// Match returns the supported tag closest to tag.
func Match(tag language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Spanish
	}
	return []language.Tag{Spanish, English}[idx]
}

// Parse resolves a configured locale string such as "es" or "en-US".
func Parse(locale string) (language.Tag, bool) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return Spanish, false
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Spanish, false
	}
	_, _, conf := matcher.Match(tag)
	if conf == language.No {
		return Spanish, false
	}
	return Match(tag), true
}

// Supported reports whether locale maps onto a catalog language.
func Supported(locale string) bool {
	_, ok := Parse(locale)
	return ok
}

// ResolveTag picks the language for a request: the lang query parameter
// when it names a catalog language, else fallback.
func ResolveTag(r *http.Request, fallback language.Tag) language.Tag {
	if r == nil {
		return fallback
	}
	if tag, ok := Parse(r.URL.Query().Get("lang")); ok {
		return tag
	}
	return fallback
}
