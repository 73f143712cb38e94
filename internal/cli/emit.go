package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quartzmill/crashgate/internal/event"
)

func emitCmd() *cobra.Command {
	var configFile string
	var level string
	var message string
	var errType string
	var errMessage string

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Emit a single event",
		Long: `Emit one leveled event through the configured router. Events below
the configured threshold are discarded; accepted events are forwarded
to the collector and recorded in the journal when one is enabled.

Examples:
  crashgate emit --config crashgate.yaml --level error --message "disk full"
  crashgate emit --level fatal --message "db down" --error-type "*net.OpError" --error-message "connection refused"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sev, err := event.ParseSeverity(level)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			r, cleanup, err := buildRouter(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			var payload *event.ErrorPayload
			if errMessage != "" || errType != "" {
				payload = &event.ErrorPayload{Type: errType, Message: errMessage}
			}

			switch sev {
			case event.SeverityFatal:
				r.Fatal(message, payload)
			case event.SeverityError:
				r.Error(message, payload)
			case event.SeverityWarning:
				r.Warn(message, payload)
			case event.SeverityInfo:
				r.Info(message, payload)
			case event.SeverityDebug:
				r.Debug(message, payload)
			}

			switch {
			case cfg.DSN == "":
				cmd.Println("dropped (no dsn configured)")
			case r.Stats().Accepted == 0:
				cmd.Printf("discarded (below %s threshold)\n", cfg.Threshold)
			default:
				cmd.Println("forwarded")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&level, "level", "l", "error", "event severity (fatal, error, warning, info, debug)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "event message")
	cmd.Flags().StringVar(&errType, "error-type", "", "attached error type")
	cmd.Flags().StringVar(&errMessage, "error-message", "", "attached error message")

	if err := cmd.MarkFlagRequired("message"); err != nil {
		panic(fmt.Sprintf("marking flag required: %v", err))
	}

	return cmd
}
