// Package transport delivers accepted events to a remote collector.
package transport

import "github.com/quartzmill/crashgate/internal/event"

// Transport is the interface to an event-collection backend.
// Implementations must be safe for concurrent use.
type Transport interface {
	// Capture submits a single event. The router treats failures as
	// best-effort: they are never retried and never reach call sites.
	Capture(ev event.Event) error

	// Close flushes pending submissions and releases resources.
	Close() error
}
