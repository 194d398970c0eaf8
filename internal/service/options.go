package service

import (
	"io"
	"log/slog"
	"time"
)

type options struct {
	now      func() time.Time
	location *time.Location
	logger   *slog.Logger
	observer UseCaseObserver
}

// Option configures a service.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the zone used to parse typed timestamps and bucket
// report days.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithObserver(obs UseCaseObserver) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		location: time.Local,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
