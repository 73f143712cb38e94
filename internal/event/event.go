// Package event defines the severity model and the event record that
// crashgate forwards to the remote collector and hands to observers.
package event

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity ranks a diagnostic event from most to least severe.
// Lower values are more severe: Fatal outranks everything, Debug nothing.
type Severity int

const (
	SeverityFatal   Severity = iota // Process-ending failures
	SeverityError                   // Broken application flow
	SeverityWarning                 // Abnormal but non-breaking conditions
	SeverityInfo                    // Normal operational notices
	SeverityDebug                   // Developer tracing
)

// String returns the lowercase string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityDebug:
		return "debug"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// AtLeast reports whether s is at least as severe as threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s <= threshold
}

// ParseSeverity converts a severity name to its Severity value.
// The comparison is case-insensitive. Unknown names are an error;
// thresholds are parsed once at configuration time, so a bad name
// fails configuration rather than silently dropping events later.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fatal":
		return SeverityFatal, nil
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "debug":
		return SeverityDebug, nil
	default:
		return 0, fmt.Errorf("event: unknown severity %q", name)
	}
}

// ErrorPayload carries structured detail about an error or panic that
// accompanies an emitted message.
type ErrorPayload struct {
	Type    string // Go type of the originating error, e.g. "*os.PathError"
	Message string
	Stack   string
}

// PayloadFromError builds an ErrorPayload from err, capturing the
// caller's stack. Returns nil for a nil error.
func PayloadFromError(err error) *ErrorPayload {
	if err == nil {
		return nil
	}
	return &ErrorPayload{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Stack:   string(debug.Stack()),
	}
}

// Event is a single accepted diagnostic event. It is what the transport
// submits to the collector and what observers receive.
type Event struct {
	ID        string
	Message   string
	Severity  Severity
	Timestamp time.Time
	Tags      map[string]string
	Exception *ErrorPayload // nil when the event carries no error detail
}

// New constructs an Event with a fresh ID and the current time.
// Tags are copied so callers cannot mutate the event afterward.
func New(message string, sev Severity, tags map[string]string, payload *ErrorPayload) Event {
	var copied map[string]string
	if len(tags) > 0 {
		copied = make(map[string]string, len(tags))
		for k, v := range tags {
			copied[k] = v
		}
	}

	return Event{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  sev,
		Timestamp: time.Now().UTC(),
		Tags:      copied,
		Exception: payload,
	}
}
