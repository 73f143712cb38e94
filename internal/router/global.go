package router

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/quartzmill/crashgate/internal/event"
	"github.com/quartzmill/crashgate/internal/transport"
)

// Errors surfaced by the process-wide facade. Both signal ordering
// mistakes in the host application, not recoverable runtime states.
var (
	ErrAlreadyConfigured = errors.New("router: already configured")
	ErrNotConfigured     = errors.New("router: not configured")
)

var (
	configureMu sync.Mutex
	global      atomic.Pointer[Router]
)

// Configure establishes the process-wide router exactly once.
// dsn locates the remote collector (empty means disabled: emissions
// become no-ops), thresholdName names the minimum forwarded severity,
// and tags are attached to every accepted event.
//
// A second call fails with ErrAlreadyConfigured and leaves the first
// configuration untouched. An unknown threshold name or an invalid
// DSN also fails here, before any event flows.
func Configure(dsn, thresholdName string, tags map[string]string, opts ...Option) error {
	configureMu.Lock()
	defer configureMu.Unlock()

	if global.Load() != nil {
		return ErrAlreadyConfigured
	}

	threshold, err := event.ParseSeverity(thresholdName)
	if err != nil {
		return fmt.Errorf("router: threshold: %w", err)
	}

	var t transport.Transport
	if dsn != "" {
		s, err := transport.NewSentry(dsn)
		if err != nil {
			return err
		}
		t = s
	}

	global.Store(New(t, append([]Option{WithThreshold(threshold), WithTags(tags)}, opts...)...))
	return nil
}

// Instance returns the process-wide router, or ErrNotConfigured when
// Configure has not completed.
func Instance() (*Router, error) {
	r := global.Load()
	if r == nil {
		return nil, ErrNotConfigured
	}
	return r, nil
}

// mustInstance backs the package-level emission helpers. Emitting
// before Configure is an ordering bug in the host, so it fails fast.
func mustInstance() *Router {
	r := global.Load()
	if r == nil {
		panic(ErrNotConfigured)
	}
	return r
}

// Fatal emits a fatal-severity event through the process-wide router.
func Fatal(msg string, payload *event.ErrorPayload) { mustInstance().Fatal(msg, payload) }

// Error emits an error-severity event through the process-wide router.
func Error(msg string, payload *event.ErrorPayload) { mustInstance().Error(msg, payload) }

// Warn emits a warning-severity event through the process-wide router.
func Warn(msg string, payload *event.ErrorPayload) { mustInstance().Warn(msg, payload) }

// Info emits an info-severity event through the process-wide router.
func Info(msg string, payload *event.ErrorPayload) { mustInstance().Info(msg, payload) }

// Debug emits a debug-severity event through the process-wide router.
func Debug(msg string, payload *event.ErrorPayload) { mustInstance().Debug(msg, payload) }

// Subscribe registers an observer on the process-wide router.
func Subscribe(fn Observer) { mustInstance().Subscribe(fn) }
