package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/collector"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/config"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/convoso"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/dailysync"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/reference"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/report"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/storage"
)

func newSyncCmd() *cobra.Command {
	var (
		date   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the daily activity sync",
		Long:  "Merge the upstream activity summaries for one day and store them. Defaults to yesterday in SYNC_TIMEZONE.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			day, err := syncDay(date, cfg.SyncTimezone, time.Now())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client := newClient(cfg)

			store := storage.Store(&storage.NoopStore{})
			if !dryRun {
				store, err = storage.NewStore(ctx, storage.Config{URL: cfg.DatabaseURL, MaxOpenConns: cfg.DBMaxOpenConns}, log.Logger)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			syncer := dailysync.New(client, store, nil, dailysync.Options{
				AppointmentStatusIDs: cfg.AppointmentStatusIDs,
				EmailSentStatusIDs:   cfg.EmailSentStatusIDs,
				ChunkSize:            cfg.PerformanceChunkSize,
			}, log.Logger)

			if dryRun {
				rows, err := syncer.Preview(ctx, day)
				if err != nil {
					return err
				}
				color.Yellow("Dry run for %s: nothing was written", day.Format(dailysync.DateLayout))
				renderPerformance(os.Stdout, rows)
				return nil
			}

			if cfg.DatabaseURL == "" {
				color.Yellow("DATABASE_URL is not set, rows will be discarded")
			}
			result, err := syncer.Run(ctx, day)
			if err != nil {
				return err
			}
			printSyncResult(os.Stdout, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to sync (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the merged rows without writing them")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var start, end, dispositions, agents string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count calls per agent and disposition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime := convoso.FormatDateTime(start, false)
			endTime := convoso.FormatDateTime(end, true)
			if startTime == "" || endTime == "" {
				return fmt.Errorf("invalid date range %q to %q, expected YYYY-MM-DD", start, end)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			coll := collector.New(newClient(cfg), cfg.CallLogPageLimit, log.Logger)
			records := coll.CollectAll(cmd.Context(), convoso.CallLogQuery{
				StartTime: startTime,
				EndTime:   endTime,
				Status:    dispositions,
			}, cfg.MaxCallLogs)

			filtered := report.FilterByAgents(records, report.ParseIDList(agents))
			summaries := report.Sorted(report.Summarize(filtered))
			if len(summaries) == 0 {
				color.Yellow("No calls found between %s and %s", startTime, endTime)
				return nil
			}

			renderSummary(os.Stdout, summaries)
			fmt.Printf("%d calls across %d agents\n", len(filtered), len(summaries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "Start date (YYYY-MM-DD, required)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "End date (YYYY-MM-DD, required)")
	cmd.Flags().StringVarP(&dispositions, "dispositions", "D", "", "Disposition codes, comma-separated (required)")
	cmd.Flags().StringVarP(&agents, "agents", "a", "", "Agent ids to keep, comma-separated")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("dispositions")
	return cmd
}

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the agent roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables()
			if err != nil {
				return err
			}
			renderAgents(os.Stdout, tables.Agents)
			return nil
		},
	}
}

func newDispositionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dispositions",
		Short: "List the disposition codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables()
			if err != nil {
				return err
			}
			renderDispositions(os.Stdout, tables.Dispositions)
			return nil
		},
	}
}

func loadTables() (*reference.Tables, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return reference.Load(cfg.ReferenceDataFile)
}

func newClient(cfg *config.Config) *convoso.Client {
	return convoso.NewClient(convoso.Options{
		BaseURL:   cfg.ConvosoBaseURL,
		AuthToken: cfg.ConvosoAuthToken,
		Timeout:   cfg.ConvosoTimeout,
		PageLimit: cfg.CallLogPageLimit,
	}, log.Logger)
}

// syncDay resolves --date, falling back to yesterday in timezone
func syncDay(date, timezone string, now time.Time) (time.Time, error) {
	if date != "" {
		day, err := time.Parse(dailysync.DateLayout, date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
		return day, nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sync timezone %q: %w", timezone, err)
	}
	return dailysync.Yesterday(now, loc), nil
}
