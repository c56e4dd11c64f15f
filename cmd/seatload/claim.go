package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type claimOptions struct {
	eventID     string
	row         int
	column      int
	concurrency int
	userPrefix  string
}

func newClaimCmd(root *rootOptions) *cobra.Command {
	opts := &claimOptions{}
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Race concurrent users for a single seat",
		Long: `Sends one claim per simulated user for the same seat at the same time and
reports how the requests were decided. Exits non-zero if more than one claim won.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newAPIClient(root.api, root.timeout)
			report := raceSeat(cmd.Context(), client, *opts)
			renderRace(cmd.OutOrStdout(), *opts, report)
			if report.winners > 1 {
				return fmt.Errorf("seat (%d,%d) was granted %d times", opts.row, opts.column, report.winners)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.eventID, "event", "", "event id (required)")
	cmd.Flags().IntVar(&opts.row, "row", 1, "seat row, 1-based")
	cmd.Flags().IntVar(&opts.column, "column", 1, "seat column, 1-based")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 64, "number of competing users")
	cmd.Flags().StringVar(&opts.userPrefix, "user-prefix", "seatload-user", "prefix for simulated user ids")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

type raceReport struct {
	winners       int
	reservationID string
	outcomes      map[string]int
	latencies     latencySummary
}

// raceSeat releases all workers at once so their claims overlap as much as possible.
func raceSeat(ctx context.Context, client *apiClient, opts claimOptions) raceReport {
	n := max(opts.concurrency, 1)
	results := make([]claimResult, n)

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
	)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = client.claim(ctx, fmt.Sprintf("%s-%d", opts.userPrefix, i), opts.eventID, opts.row, opts.column)
		}(i)
	}
	close(start)
	wg.Wait()

	report := raceReport{outcomes: make(map[string]int)}
	latencies := make([]time.Duration, 0, n)
	for _, r := range results {
		latencies = append(latencies, r.latency)
		report.outcomes[outcomeLabel(r)]++
		if r.err == nil && r.status == http.StatusCreated {
			report.winners++
			report.reservationID = r.reservationID
		}
	}
	report.latencies = summarizeLatencies(latencies)
	return report
}

func outcomeLabel(r claimResult) string {
	var netErr net.Error
	switch {
	case r.err != nil && errors.As(r.err, &netErr) && netErr.Timeout():
		return "timeout"
	case r.err != nil:
		return "transport_error"
	case r.status == http.StatusCreated:
		return "won"
	case r.code != "":
		return r.code
	default:
		return fmt.Sprintf("http_%d", r.status)
	}
}

func renderRace(w io.Writer, opts claimOptions, report raceReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("claim race: event %s seat (%d,%d), %d users", opts.eventID, opts.row, opts.column, max(opts.concurrency, 1)))
	t.AppendHeader(table.Row{"Outcome", "Requests"})

	labels := make([]string, 0, len(report.outcomes))
	for label := range report.outcomes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		t.AppendRow(table.Row{label, report.outcomes[label]})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"reservation", report.reservationID})
	t.Render()

	l := table.NewWriter()
	l.SetOutputMirror(w)
	l.AppendHeader(table.Row{"Min", "P50", "P90", "P99", "Max", "Avg"})
	s := report.latencies
	l.AppendRow(table.Row{s.min, s.p50, s.p90, s.p99, s.max, s.avg})
	l.Render()
}
