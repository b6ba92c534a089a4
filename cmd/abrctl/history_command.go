package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Eyevinn/moqabr/internal/abr"
	"github.com/Eyevinn/moqabr/internal/metrics"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var dbPath string
	var filter metrics.HistoryFilter
	var category string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded boundary changes and quality switches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			path := cfg.Recorder.SQLitePath
			if dbPath != "" {
				path = dbPath
			}
			if path == "" {
				return fmt.Errorf("no database configured; set recorder.sqlite_path or pass --db")
			}
			filter.Category = abr.Category(strings.ToLower(category))

			rec, err := metrics.OpenSQLiteRecorder(cmd.Context(), path, logger)
			if err != nil {
				return err
			}
			defer rec.Close()

			events, err := rec.History(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No events recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistory(events))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database (overrides recorder.sqlite_path)")
	cmd.Flags().StringVar(&filter.SessionID, "session", "", "Only show events of this session")
	cmd.Flags().StringVar(&category, "category", "", "Only show events of this category")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum number of events (0 for all)")
	return cmd
}

func renderHistory(events []metrics.Event) string {
	headers := []string{"Time", "Session", "Category", "Event", "Detail"}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		var detail string
		switch ev.Kind {
		case metrics.KindQuality:
			detail = fmt.Sprintf("min=%s max=%s", formatIndexBound(ev.Min), formatIndexBound(ev.Max))
		case metrics.KindBandwidth:
			detail = fmt.Sprintf("min=%s max=%s", formatBandwidthBound(ev.Min), formatBandwidthBound(ev.Max))
		default:
			detail = fmt.Sprintf("%d -> %d", ev.From, ev.To)
		}
		session := ev.SessionID
		if len(session) > 8 {
			session = session[:8]
		}
		rows = append(rows, []string{
			ev.At.Local().Format(time.DateTime + ".000"),
			session,
			string(ev.Category),
			ev.Kind,
			detail,
		})
	}
	return renderTable(headers, rows, nil)
}

func formatIndexBound(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(int(*v))
}

func formatBandwidthBound(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatBitrate(*v)
}
