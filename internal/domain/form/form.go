// Package form implements the reading entry form: presence checks and the
// append of one record to the Row Store.
package form

import (
	"context"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // the zone must resolve on hosts without a zoneinfo database

	"github.com/okian/presion/internal/domain/model"
	"github.com/okian/presion/pkg/logger"
	"github.com/okian/presion/pkg/metrics"
)

// DefaultTimeZone is the zone the entry time is recorded in, regardless of
// where the viewer is.
const DefaultTimeZone = "America/Santiago"

// Appender is the write side of the Row Store.
type Appender interface {
	Append(ctx context.Context, r model.Record) error
}

// Submission carries the raw form inputs. A zero Date means "not set".
type Submission struct {
	Date      time.Time
	Systolic  int
	Diastolic int
	Pulse     int
}

// Controller validates submissions and appends them to the Row Store.
type Controller struct {
	store  Appender
	loc    *time.Location
	now    func() time.Time
	logger logger.Logger
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithLocation sets the zone the entry time is formatted in.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets a custom logger for the controller.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New constructs a Controller writing to store.
func New(store Appender, opts ...Option) (*Controller, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	c := &Controller{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.loc == nil {
		loc, err := time.LoadLocation(DefaultTimeZone)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", DefaultTimeZone, err)
		}
		c.loc = loc
	}
	return c, nil
}

// Location returns the zone entry times are recorded in.
func (c *Controller) Location() *time.Location { return c.loc }

// Today returns the current calendar day in the controller's zone. The
// form uses it as the default date.
func (c *Controller) Today() time.Time {
	return model.CivilDate(c.now().In(c.loc))
}

// Submit validates s and appends one record. A *ValidationError means
// nothing was written; any other error comes from the Row Store unchanged.
//
// Zero is treated as "not entered" for the three readings, so a genuine
// zero cannot be recorded.
func (c *Controller) Submit(ctx context.Context, s Submission) (model.Record, error) {
	if err := validate(s); err != nil {
		metrics.RecordValidationFailure()
		return model.Record{}, err
	}

	rec := model.Record{
		Date:      model.CivilDate(s.Date),
		Time:      c.now().In(c.loc).Format(model.TimeLayout),
		Systolic:  s.Systolic,
		Diastolic: s.Diastolic,
		Pulse:     s.Pulse,
	}
	if err := c.store.Append(ctx, rec); err != nil {
		return model.Record{}, err
	}

	metrics.RecordReadingSubmitted()
	if c.logger != nil {
		c.logger.Info(ctx, "reading recorded",
			logger.String("date", rec.DateKey()),
			logger.String("time", rec.Time),
		)
	}
	return rec, nil
}

func validate(s Submission) error {
	var missing []string
	if s.Date.IsZero() {
		missing = append(missing, model.ColumnDate)
	}
	if s.Systolic <= 0 {
		missing = append(missing, model.ColumnSystolic)
	}
	if s.Diastolic <= 0 {
		missing = append(missing, model.ColumnDiastolic)
	}
	if s.Pulse <= 0 {
		missing = append(missing, model.ColumnPulse)
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
