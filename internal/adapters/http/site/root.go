// Package site serves the HTML surface: the entry form, the daily average
// chart and the records table.
package site

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/okian/presion/internal/domain/aggregate"
	"github.com/okian/presion/internal/domain/form"
	"github.com/okian/presion/internal/domain/model"
	"github.com/okian/presion/pkg/i18n"
	"github.com/okian/presion/pkg/logger"
	"golang.org/x/text/language"
)

// ErrRender marks a component that failed to render.
var ErrRender = errors.New("page render failed")

// maxFormBytes caps the entry form body.
const maxFormBytes = 1 << 14

// Dependencies required by the site handlers.
type Dependencies interface {
	Submit(ctx context.Context, s form.Submission) (model.Record, error)
	Snapshot(ctx context.Context) (aggregate.View, error)
	Today() time.Time
}

// Handler renders the page and handles the entry form.
type Handler struct {
	deps   Dependencies
	tag    language.Tag
	logger logger.Logger
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithLanguage sets the default UI language.
func WithLanguage(tag language.Tag) Option {
	return func(h *Handler) {
		h.tag = i18n.Match(tag)
	}
}

// WithLogger sets a custom logger for the handler.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates the site handler.
func NewHandler(deps Dependencies, opts ...Option) *Handler {
	h := &Handler{deps: deps, tag: i18n.Spanish}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the page, form and static routes to mux.
func Register(_ context.Context, mux *http.ServeMux, h *Handler) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("/registrar", h.HandleSubmit)
	mux.HandleFunc("/", h.HandleRoot)
}

// HandleRoot handles GET / and renders the selected tab.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	p := h.basePage(r)
	p.Tab = selectTab(r.URL.Query().Get("tab"))
	p.Saved = r.URL.Query().Get("ok") == "1" && p.Tab == TabRegister
	h.renderPage(w, r, p, http.StatusOK)
}

// HandleSubmit handles POST /registrar. Invalid input re-renders the form
// with the inline message; success redirects so a reload does not resubmit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "site.submit"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p := h.basePage(r)
	p.Tab = TabRegister
	p.FormDate = strings.TrimSpace(r.PostForm.Get("fecha"))
	p.Systolic = strings.TrimSpace(r.PostForm.Get("alta"))
	p.Diastolic = strings.TrimSpace(r.PostForm.Get("baja"))
	p.Pulse = strings.TrimSpace(r.PostForm.Get("pulso"))

	sub := form.Submission{
		Systolic:  formInt(p.Systolic),
		Diastolic: formInt(p.Diastolic),
		Pulse:     formInt(p.Pulse),
	}
	if d, err := time.Parse(time.DateOnly, p.FormDate); err == nil {
		sub.Date = d
	}

	_, err := h.deps.Submit(r.Context(), sub)
	switch {
	case form.IsValidation(err):
		p.Error = p.t(i18n.KeyMissingValues)
		h.renderPage(w, r, p, http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.logError(r.Context(), op, err)
		h.renderError(w, r, p)
		return
	}

	target := p.link(TabRegister) + "&ok=1"
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) basePage(r *http.Request) pageData {
	tag := i18n.ResolveTag(r, h.tag)
	p := pageData{
		Loc:      i18n.Printer(tag),
		FormDate: h.deps.Today().Format(time.DateOnly),
	}
	if _, ok := i18n.Parse(r.URL.Query().Get("lang")); ok {
		p.Lang = tag.String()
	}
	return p
}

// renderPage performs the single fetch both read tabs are built from. A
// failed fetch replaces the whole page with the failure page.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, p pageData, status int) {
	const op = "site.render"
	view, err := h.deps.Snapshot(r.Context())
	if err != nil {
		h.logError(r.Context(), op, err)
		h.renderError(w, r, p)
		return
	}
	p.View = view
	templ.Handler(Page(p), templ.WithStatus(status), templ.WithErrorHandler(h.renderFailed)).ServeHTTP(w, r)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, p pageData) {
	templ.Handler(ErrorPage(p.Loc, p.Lang),
		templ.WithStatus(http.StatusInternalServerError),
		templ.WithErrorHandler(h.renderFailed),
	).ServeHTTP(w, r)
}

func (h *Handler) renderFailed(r *http.Request, err error) http.Handler {
	h.logError(r.Context(), "site.render", errors.Join(ErrRender, err))
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	})
}

func (h *Handler) logError(ctx context.Context, op string, err error) {
	if h.logger != nil {
		h.logger.Error(ctx, "page request failed", logger.String("op", op), logger.Error(err))
	}
}

func selectTab(tab string) string {
	switch tab {
	case TabChart, TabTable:
		return tab
	default:
		return TabRegister
	}
}

// formInt reads a number input. Empty or non-numeric input counts as zero,
// which the form rejects as not entered.
func formInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
