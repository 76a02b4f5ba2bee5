package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/config"
	"github.com/saadmalik-333/business-insight-pos/internal/infra"
	"github.com/saadmalik-333/business-insight-pos/internal/worker"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newQueuesCmd(cfg *config.Config) *cobra.Command {
	var peek int64
	var replay int

	cmd := &cobra.Command{
		Use:   "queues",
		Short: "Show pending and dead-lettered job counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rdb, err := infra.NewRedis(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			defer rdb.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if replay > 0 {
				for _, q := range worker.Queues() {
					n, err := worker.ReplayDeadLetters(ctx, rdb, q, replay)
					if err != nil {
						return fmt.Errorf("replay %s: %w", q, err)
					}
					fmt.Fprintf(out, "Replayed %d job(s) onto %s.\n", n, q)
				}
			}

			lengths, err := worker.QueueLengths(ctx, rdb)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(lengths))
			for q := range lengths {
				names = append(names, q)
			}
			sort.Strings(names)

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Queue", "Pending", "Dead letters"})
			for _, q := range names {
				t.AppendRow(table.Row{q, lengths[q][0], lengths[q][1]})
			}
			t.Render()

			if peek <= 0 {
				return nil
			}
			for _, q := range names {
				entries, err := worker.PeekDeadLetters(ctx, rdb, q, peek)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					continue
				}
				dl := table.NewWriter()
				dl.SetOutputMirror(out)
				dl.SetStyle(table.StyleLight)
				dl.SetTitle(worker.DeadLetterKey(q))
				dl.AppendHeader(table.Row{"Parked at", "Type", "SKU", "Attempts", "Reason"})
				for _, e := range entries {
					dl.AppendRow(table.Row{e.ParkedAt.Format(time.RFC3339), e.Job.Type, e.SKU, e.Job.Attempts, e.Reason})
				}
				dl.Render()
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&peek, "peek", 0, "also list the newest N dead letters per queue")
	cmd.Flags().IntVar(&replay, "replay", 0, "first send up to N of the oldest dead letters per queue back for another try")
	return cmd
}
