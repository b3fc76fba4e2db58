package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"unsort/internal/bootstrap"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show the resolved configuration and where each value came from",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"workspace": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config file: %s\n", cfg.Path)
		rows := []struct {
			name  string
			value string
			from  string
		}{
			{"data_dir", cfg.DataDir.Value, origin(cfg.DataDir.Source, cfg.DataDir.From)},
			{"store", cfg.Store.Value, origin(cfg.Store.Source, cfg.Store.From)},
			{"memu.url", cfg.MemUURL.Value, origin(cfg.MemUURL.Source, cfg.MemUURL.From)},
			{"memu.token", redact(cfg.MemUToken.Value), origin(cfg.MemUToken.Source, cfg.MemUToken.From)},
			{"memu.user_id", cfg.UserID.Value, origin(cfg.UserID.Source, cfg.UserID.From)},
			{"memu.agent_id", cfg.AgentID.Value, origin(cfg.AgentID.Source, cfg.AgentID.From)},
			{"memu.timeout", cfg.Timeout.Value, origin(cfg.Timeout.Source, cfg.Timeout.From)},
			{"memu.poll_interval", cfg.PollInterval.Value, origin(cfg.PollInterval.Source, cfg.PollInterval.From)},
			{"memu.poll_attempts", cfg.PollAttempts.Value, origin(cfg.PollAttempts.Source, cfg.PollAttempts.From)},
			{"memu.offline", cfg.Offline.Value, origin(cfg.Offline.Source, cfg.Offline.From)},
			{"log.level", cfg.LogLevel.Value, origin(cfg.LogLevel.Source, cfg.LogLevel.From)},
			{"log.file", cfg.LogFile.Value, origin(cfg.LogFile.Source, cfg.LogFile.From)},
		}
		for _, r := range rows {
			fmt.Fprintf(out, "%-19s %-40s %s\n", r.name, r.value, r.from)
		}
		fmt.Fprintf(out, "online: %v\n", cfg.Online())

		info, err := bootstrap.DescribeStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s store: %s\n", info.Kind, info.Location)
		if len(info.Documents) == 0 {
			fmt.Fprintln(out, "  (empty)")
		}
		for _, key := range slices.Sorted(maps.Keys(info.Documents)) {
			fmt.Fprintf(out, "  %-14s %s\n", key, info.Documents[key].Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func origin[S ~string](source S, from string) string {
	if from == "" {
		return string(source)
	}
	return fmt.Sprintf("%s (%s)", source, from)
}

func redact(token string) string {
	if token == "" {
		return ""
	}
	return "********"
}

func init() {
	rootCmd.AddCommand(configCmd)
}
