// Package observe provides built-in observers for accepted events:
// structured logging and Prometheus instrumentation.
package observe

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/quartzmill/crashgate/internal/event"
)

// Log format constants.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// LogObserver writes one structured line per accepted event.
type LogObserver struct {
	zl zerolog.Logger
}

// NewLogObserver creates a LogObserver writing to w. format is "json"
// or "text"; anything else falls back to JSON.
func NewLogObserver(w io.Writer, format string) *LogObserver {
	if format == FormatText {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(w).With().Timestamp().Logger()
	return &LogObserver{zl: zl}
}

// Observe logs ev at the level matching its severity. Pass the method
// value to Router.Subscribe.
func (o *LogObserver) Observe(ev event.Event) {
	// WithLevel, unlike Logger.Fatal, does not exit the process.
	e := o.zl.WithLevel(zerologLevel(ev.Severity)).
		Str("event_id", ev.ID).
		Str("severity", ev.Severity.String())
	for k, v := range ev.Tags {
		e = e.Str("tag_"+k, v)
	}
	if ev.Exception != nil {
		e = e.Str("error_type", ev.Exception.Type).
			Str("error_message", ev.Exception.Message)
	}
	e.Msg(ev.Message)
}

func zerologLevel(sev event.Severity) zerolog.Level {
	switch sev {
	case event.SeverityFatal:
		return zerolog.FatalLevel
	case event.SeverityError:
		return zerolog.ErrorLevel
	case event.SeverityWarning:
		return zerolog.WarnLevel
	case event.SeverityDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}
