package cli

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/quartzmill/crashgate/internal/config"
	"github.com/quartzmill/crashgate/internal/journal"
	"github.com/quartzmill/crashgate/internal/observe"
	"github.com/quartzmill/crashgate/internal/router"
	"github.com/quartzmill/crashgate/internal/transport"
)

// loadConfig loads the file at path, or returns defaults when path is
// empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	return config.Load(path)
}

// buildRouter wires a router and its observers from configuration.
// The returned cleanup closes the journal and flushes the transport.
func buildRouter(cfg *config.Config) (*router.Router, func(), error) {
	threshold, err := cfg.ThresholdSeverity()
	if err != nil {
		return nil, nil, err
	}

	var t transport.Transport
	if cfg.DSN != "" {
		var sopts []transport.SentryOption
		if cfg.Environment != "" {
			sopts = append(sopts, transport.WithEnvironment(cfg.Environment))
		}
		if cfg.Release != "" {
			sopts = append(sopts, transport.WithRelease(cfg.Release))
		}
		s, err := transport.NewSentry(cfg.DSN, sopts...)
		if err != nil {
			return nil, nil, err
		}
		t = s
	}

	opts := []router.Option{
		router.WithThreshold(threshold),
		router.WithTags(cfg.Tags),
		router.WithLogger(zerolog.New(os.Stderr).With().Timestamp().Logger()),
	}
	if cfg.Strict {
		opts = append(opts, router.WithStrict())
	}

	r := router.New(t, opts...)

	if cfg.Logging.Enabled {
		r.Subscribe(observe.NewLogObserver(os.Stdout, cfg.Logging.Format).Observe)
	}

	var j *journal.Journal
	if cfg.Journal.Enabled {
		j, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, nil, err
		}
		r.Subscribe(j.Observer())
	}

	cleanup := func() {
		if j != nil {
			_ = j.Close()
		}
		_ = r.Close()
	}
	return r, cleanup, nil
}
