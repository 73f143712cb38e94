package transport

import (
	"testing"

	"github.com/getsentry/sentry-go"

	"github.com/quartzmill/crashgate/internal/event"
)

func TestNewSentry_InvalidDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
	}{
		{name: "garbage", dsn: "not-a-dsn"},
		{name: "missing key", dsn: "https://sentry.example.com/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSentry(tt.dsn); err == nil {
				t.Errorf("NewSentry(%q) succeeded, want error", tt.dsn)
			}
		})
	}
}

func TestNewSentry_ValidDSN(t *testing.T) {
	tr, err := NewSentry("https://key@sentry.example.com/1")
	if err != nil {
		t.Fatalf("NewSentry returned error: %v", err)
	}
	if tr.client == nil {
		t.Fatal("transport has nil client")
	}
}

func TestNewSentry_EmptyDSN(t *testing.T) {
	// sentry-go treats an empty DSN as a disabled client, not an error.
	if _, err := NewSentry(""); err != nil {
		t.Fatalf("NewSentry(\"\") returned error: %v", err)
	}
}

func TestSentryLevel(t *testing.T) {
	tests := []struct {
		sev  event.Severity
		want sentry.Level
	}{
		{event.SeverityFatal, sentry.LevelFatal},
		{event.SeverityError, sentry.LevelError},
		{event.SeverityWarning, sentry.LevelWarning},
		{event.SeverityInfo, sentry.LevelInfo},
		{event.SeverityDebug, sentry.LevelDebug},
	}

	for _, tt := range tests {
		if got := sentryLevel(tt.sev); got != tt.want {
			t.Errorf("sentryLevel(%v) = %v, want %v", tt.sev, got, tt.want)
		}
	}
}
