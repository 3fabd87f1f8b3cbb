// Package service bundles the Row Store, the entry form and the read-side
// views behind the dependencies required by the HTTP surfaces.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/presion/internal/adapters/repository"
	"github.com/okian/presion/internal/domain/aggregate"
	"github.com/okian/presion/internal/domain/form"
	"github.com/okian/presion/internal/domain/model"
	"github.com/okian/presion/internal/domain/types"
	"github.com/okian/presion/pkg/logger"
	"github.com/okian/presion/pkg/metrics"
)

// ErrNoStore is returned by New when no Row Store is given.
var ErrNoStore = errors.New("service: row store is required")

// Service implements the API and site dependencies.
type Service struct {
	store   repository.Store
	form    *form.Controller
	backend string

	// Form settings, forwarded on construction.
	loc *time.Location
	now func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLocation sets the zone entry times are recorded in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.loc = loc
	}
}

// WithClock overrides the time source used for entry times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithBackend names the Row Store backend in stats.
func WithBackend(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.backend = name
		}
	}
}

// New constructs a Service around store.
func New(store repository.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	s := &Service{
		store:   store,
		backend: "unknown",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	ctrl, err := form.New(store,
		form.WithLocation(s.loc),
		form.WithClock(s.now),
		form.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	s.form = ctrl
	return s, nil
}

// Today returns the default date for the entry form.
func (s *Service) Today() time.Time { return s.form.Today() }

// Location returns the zone entry times are recorded in.
func (s *Service) Location() *time.Location { return s.form.Location() }

// Submit validates and appends one reading.
func (s *Service) Submit(ctx context.Context, sub form.Submission) (model.Record, error) {
	return s.form.Submit(ctx, sub)
}

// Snapshot fetches the Row Store once and derives both read views from it.
func (s *Service) Snapshot(ctx context.Context) (aggregate.View, error) {
	records, err := s.fetch(ctx)
	if err != nil {
		return aggregate.View{}, err
	}
	snap := aggregate.NewView(records)
	metrics.UpdateDailyPoints(len(snap.Summaries))
	return snap, nil
}

// Readings returns every record, last appended first.
func (s *Service) Readings(ctx context.Context) ([]model.Record, error) {
	records, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.OrderForDisplay(records), nil
}

// Summary returns the daily averages in first-appearance order.
func (s *Service) Summary(ctx context.Context) ([]model.DailySummary, error) {
	records, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	summaries := aggregate.Summarize(records)
	metrics.UpdateDailyPoints(len(summaries))
	return summaries, nil
}

// GetStats reports the record and day counts of the Row Store.
func (s *Service) GetStats(ctx context.Context) (types.Stats, error) {
	records, err := s.fetch(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	st := types.Stats{
		Backend: s.backend,
		Records: len(records),
		Days:    len(aggregate.Summarize(records)),
	}
	if n := len(records); n > 0 {
		st.LastDate = records[n-1].DateKey()
	}
	return st, nil
}

func (s *Service) fetch(ctx context.Context) ([]model.Record, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		s.logger.Error(ctx, "row store read failed",
			logger.String("backend", s.backend),
			logger.Error(err),
		)
		return nil, err
	}
	metrics.UpdateRecordsFetched(len(records))
	s.logger.Debug(ctx, "row store read", logger.Int("records", len(records)))
	return records, nil
}
