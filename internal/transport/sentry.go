package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/quartzmill/crashgate/internal/event"
)

const flushTimeout = 2 * time.Second

// ErrCaptureDropped is returned when the Sentry client discards an
// event (sampling, rate limit, or transport queue full).
var ErrCaptureDropped = errors.New("transport: sentry dropped event")

// Sentry submits events to a Sentry-compatible collector over its
// native protocol. The DSN carries the endpoint and credentials.
type Sentry struct {
	client *sentry.Client
}

// SentryOption adjusts the underlying client configuration.
type SentryOption func(*sentry.ClientOptions)

// WithEnvironment sets the environment reported with every event.
func WithEnvironment(env string) SentryOption {
	return func(o *sentry.ClientOptions) {
		o.Environment = env
	}
}

// WithRelease sets the release reported with every event.
func WithRelease(release string) SentryOption {
	return func(o *sentry.ClientOptions) {
		o.Release = release
	}
}

// NewSentry creates a Sentry transport for the given DSN.
// An invalid DSN fails here, at construction time.
func NewSentry(dsn string, opts ...SentryOption) (*Sentry, error) {
	co := sentry.ClientOptions{Dsn: dsn}
	for _, opt := range opts {
		opt(&co)
	}

	client, err := sentry.NewClient(co)
	if err != nil {
		return nil, fmt.Errorf("transport: sentry client: %w", err)
	}

	return &Sentry{client: client}, nil
}

// Capture converts and submits one event.
func (s *Sentry) Capture(ev event.Event) error {
	se := sentry.NewEvent()
	se.Level = sentryLevel(ev.Severity)
	se.Message = ev.Message
	se.Timestamp = ev.Timestamp
	for k, v := range ev.Tags {
		se.Tags[k] = v
	}
	if ev.Exception != nil {
		se.Exception = []sentry.Exception{{
			Type:  ev.Exception.Type,
			Value: ev.Exception.Message,
		}}
		if ev.Exception.Stack != "" {
			se.Extra["stack"] = ev.Exception.Stack
		}
	}

	if id := s.client.CaptureEvent(se, nil, sentry.NewScope()); id == nil {
		return ErrCaptureDropped
	}
	return nil
}

// Close flushes buffered events, waiting up to the flush timeout.
func (s *Sentry) Close() error {
	if !s.client.Flush(flushTimeout) {
		return errors.New("transport: sentry flush timed out")
	}
	return nil
}

// sentryLevel maps a crashgate severity to the wire-level severity.
func sentryLevel(sev event.Severity) sentry.Level {
	switch sev {
	case event.SeverityFatal:
		return sentry.LevelFatal
	case event.SeverityError:
		return sentry.LevelError
	case event.SeverityWarning:
		return sentry.LevelWarning
	case event.SeverityDebug:
		return sentry.LevelDebug
	default:
		return sentry.LevelInfo
	}
}
