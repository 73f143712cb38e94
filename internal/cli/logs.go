package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quartzmill/crashgate/internal/event"
	"github.com/quartzmill/crashgate/internal/journal"
)

func logsCmd() *cobra.Command {
	var configFile string
	var dbPath string
	var last int
	var level string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View journaled events",
		Long: `View events recorded in the local journal.

Examples:
  crashgate logs --config crashgate.yaml
  crashgate logs --db crashgate.db --last 50
  crashgate logs --db crashgate.db --level warning`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				cfg, err := loadConfig(configFile)
				if err != nil {
					return err
				}
				if !cfg.Journal.Enabled {
					return fmt.Errorf("journal is not enabled; pass --db or enable it in config")
				}
				dbPath = cfg.Journal.Path
			}

			minSev, err := event.ParseSeverity(level)
			if err != nil {
				return err
			}

			j, err := journal.Open(dbPath)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Tail(last, minSev)
			if err != nil {
				return err
			}

			for _, e := range entries {
				line := fmt.Sprintf("%s  %-7s  %s", e.Timestamp.Format("2006-01-02T15:04:05Z"), e.Severity, e.Message)
				if len(e.Tags) > 0 {
					pairs := make([]string, 0, len(e.Tags))
					for k, v := range e.Tags {
						pairs = append(pairs, k+"="+v)
					}
					sort.Strings(pairs)
					line += "  [" + strings.Join(pairs, " ") + "]"
				}
				if e.ErrorMessage != "" {
					line += "  error: " + e.ErrorMessage
				}
				cmd.Println(line)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path (used to locate the journal)")
	cmd.Flags().StringVar(&dbPath, "db", "", "journal database path")
	cmd.Flags().IntVarP(&last, "last", "n", 20, "show only the last N entries")
	cmd.Flags().StringVarP(&level, "level", "l", "debug", "minimum severity to show")

	return cmd
}
