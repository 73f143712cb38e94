package cli

import (
	"github.com/spf13/cobra"

	"github.com/quartzmill/crashgate/internal/event"
	"github.com/quartzmill/crashgate/internal/transport"
)

func checkCmd() *cobra.Command {
	var configFile string
	var probeLevel string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate config and threshold behavior",
		Long: `Validate a crashgate config file, including the DSN, and optionally
report whether events at a given level would pass the threshold.

Examples:
  crashgate check --config crashgate.yaml
  crashgate check --config crashgate.yaml --level debug`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				cmd.PrintErrf("Config validation FAILED: %v\n", err)
				return err
			}
			if configFile == "" {
				cmd.Println("Using default config (no --config specified)")
			} else {
				cmd.Println("Config validation: OK")
			}

			threshold, err := cfg.ThresholdSeverity()
			if err != nil {
				return err
			}

			dsnState := "disabled (no dsn)"
			if cfg.DSN != "" {
				s, err := transport.NewSentry(cfg.DSN)
				if err != nil {
					cmd.PrintErrf("DSN validation FAILED: %v\n", err)
					return err
				}
				_ = s.Close()
				dsnState = "ok"
			}

			cmd.Printf("  Threshold:  %s\n", threshold)
			cmd.Printf("  DSN:        %s\n", dsnState)
			cmd.Printf("  Tags:       %d static\n", len(cfg.Tags))
			cmd.Printf("  Journal:    %v\n", cfg.Journal.Enabled)
			cmd.Printf("  Logging:    %v\n", cfg.Logging.Enabled)

			if probeLevel != "" {
				sev, err := event.ParseSeverity(probeLevel)
				if err != nil {
					return err
				}
				if sev.AtLeast(threshold) {
					cmd.Printf("\nLevel %s: forwarded (at or above %s)\n", sev, threshold)
				} else {
					cmd.Printf("\nLevel %s: discarded (below %s)\n", sev, threshold)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path to validate")
	cmd.Flags().StringVarP(&probeLevel, "level", "l", "", "severity to test against the threshold")

	return cmd
}
