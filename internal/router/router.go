// Package router filters leveled diagnostic events against a severity
// threshold and forwards accepted events to a transport, notifying
// locally registered observers along the way.
package router

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/quartzmill/crashgate/internal/event"
	"github.com/quartzmill/crashgate/internal/transport"
)

// Observer receives every accepted event, synchronously, on the
// emitting goroutine. A slow observer blocks the emitting call.
type Observer func(ev event.Event)

// Stats counts emission outcomes since the router was created.
type Stats struct {
	Accepted        int64 // passed the threshold
	Discarded       int64 // below the threshold
	CaptureFailures int64 // transport rejected the submission
}

// Router is the severity filter. It is written once at construction
// and thereafter only read, so all methods are safe for concurrent
// use; only the observer list is mutable (guarded by mu).
type Router struct {
	transport transport.Transport
	threshold event.Severity
	tags      map[string]string
	strict    bool
	log       zerolog.Logger

	mu        sync.RWMutex
	observers []Observer

	accepted        atomic.Int64
	discarded       atomic.Int64
	captureFailures atomic.Int64
}

// Option configures a Router at construction time.
type Option func(*Router)

// WithThreshold sets the minimum severity forwarded to the transport.
// The default is SeverityError.
func WithThreshold(sev event.Severity) Option {
	return func(r *Router) {
		r.threshold = sev
	}
}

// WithTags sets the static tags attached to every accepted event.
// The map is copied; it cannot change for the router's lifetime.
func WithTags(tags map[string]string) Option {
	return func(r *Router) {
		if len(tags) == 0 {
			return
		}
		r.tags = make(map[string]string, len(tags))
		for k, v := range tags {
			r.tags[k] = v
		}
	}
}

// WithStrict raises capture failures from debug to warn logging.
// Emission stays total either way; failures remain countable via Stats.
func WithStrict() Option {
	return func(r *Router) {
		r.strict = true
	}
}

// WithLogger sets the logger for internal diagnostics (capture
// failures, observer panics). The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Router) {
		r.log = log
	}
}

// New creates a Router that forwards events to t. A nil transport
// yields a disabled router: every emission is a no-op. This supports
// hosts whose upstream configuration partially failed.
func New(t transport.Transport, opts ...Option) *Router {
	r := &Router{
		transport: t,
		threshold: event.SeverityError,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers an observer for accepted events. Observers run
// in registration order. There is no unsubscribe.
func (r *Router) Subscribe(fn Observer) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

// Fatal emits a fatal-severity event.
func (r *Router) Fatal(msg string, payload *event.ErrorPayload) {
	r.emit(msg, event.SeverityFatal, payload)
}

// Error emits an error-severity event.
func (r *Router) Error(msg string, payload *event.ErrorPayload) {
	r.emit(msg, event.SeverityError, payload)
}

// Warn emits a warning-severity event.
func (r *Router) Warn(msg string, payload *event.ErrorPayload) {
	r.emit(msg, event.SeverityWarning, payload)
}

// Info emits an info-severity event.
func (r *Router) Info(msg string, payload *event.ErrorPayload) {
	r.emit(msg, event.SeverityInfo, payload)
}

// Debug emits a debug-severity event.
func (r *Router) Debug(msg string, payload *event.ErrorPayload) {
	r.emit(msg, event.SeverityDebug, payload)
}

// Threshold returns the configured minimum severity.
func (r *Router) Threshold() event.Severity {
	return r.threshold
}

// Tags returns a copy of the static tags.
func (r *Router) Tags() map[string]string {
	if len(r.tags) == 0 {
		return nil
	}
	cp := make(map[string]string, len(r.tags))
	for k, v := range r.tags {
		cp[k] = v
	}
	return cp
}

// Stats returns emission counters.
func (r *Router) Stats() Stats {
	return Stats{
		Accepted:        r.accepted.Load(),
		Discarded:       r.discarded.Load(),
		CaptureFailures: r.captureFailures.Load(),
	}
}

// Close closes the underlying transport, flushing pending submissions.
func (r *Router) Close() error {
	if r == nil || r.transport == nil {
		return nil
	}
	return r.transport.Close()
}

// emit is the filtering decision shared by all severity methods.
// It never fails back to the caller: every per-event condition is a
// silent no-op from the call site's point of view.
func (r *Router) emit(msg string, sev event.Severity, payload *event.ErrorPayload) {
	if r == nil || r.transport == nil {
		return
	}

	if !sev.AtLeast(r.threshold) {
		r.discarded.Add(1)
		return
	}
	r.accepted.Add(1)

	// Content comes from the error payload when one is attached, but
	// the displayed message always ends up being the caller's message.
	content := msg
	if payload != nil {
		content = payload.Message
	}
	ev := event.New(content, sev, r.tags, payload)
	ev.Message = msg

	if err := r.transport.Capture(ev); err != nil {
		r.captureFailures.Add(1)
		lvl := zerolog.DebugLevel
		if r.strict {
			lvl = zerolog.WarnLevel
		}
		r.log.WithLevel(lvl).
			Err(err).
			Str("event_id", ev.ID).
			Str("severity", sev.String()).
			Msg("capture failed")
	}

	r.mu.RLock()
	observers := r.observers
	r.mu.RUnlock()

	for i, fn := range observers {
		r.notify(i, fn, ev)
	}
}

// notify invokes one observer, containing any panic so that later
// observers still run.
func (r *Router) notify(idx int, fn Observer, ev event.Event) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn().
				Int("observer", idx).
				Str("event_id", ev.ID).
				Interface("panic", p).
				Msg("observer panicked")
		}
	}()
	fn(ev)
}
