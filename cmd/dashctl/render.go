package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/dailysync"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(true)
	table.SetRowLine(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func renderSummary(w io.Writer, summaries []*types.AgentSummary) {
	table := newTable(w, []string{"Agent ID", "Name", "Total", "Dispositions"})
	for _, s := range summaries {
		table.Append([]string{s.ID, s.Name, strconv.Itoa(s.TotalCalls), dispositionBreakdown(s.Dispositions)})
	}
	table.Render()
}

// dispositionBreakdown formats counts as "CODE=n", busiest code first
func dispositionBreakdown(counts map[string]*types.DispositionCount) string {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		ci, cj := counts[codes[i]].Count, counts[codes[j]].Count
		if ci != cj {
			return ci > cj
		}
		return codes[i] < codes[j]
	})

	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = fmt.Sprintf("%s=%d", code, counts[code].Count)
	}
	return strings.Join(parts, " ")
}

func renderPerformance(w io.Writer, rows []types.AgentPerformance) {
	table := newTable(w, []string{"Agent ID", "Name", "Calls", "Appointments", "Emails", "Talk", "Pause", "Wait", "Wrap"})
	for _, r := range rows {
		appts := strconv.Itoa(r.AppointmentsSet)
		if r.AppointmentsSet > 0 {
			appts = color.GreenString(appts)
		}
		table.Append([]string{
			r.AgentID,
			r.Name,
			strconv.Itoa(r.TotalInteractions),
			appts,
			strconv.Itoa(r.EmailsSent),
			clock(r.TalkSeconds),
			clock(r.PauseSeconds),
			clock(r.WaitSeconds),
			clock(r.WrapUpSeconds),
		})
	}
	table.Render()
}

func renderAgents(w io.Writer, agents []types.AgentRef) {
	table := newTable(w, []string{"ID", "Name"})
	for _, a := range agents {
		table.Append([]string{a.ID, a.Name})
	}
	table.Render()
}

func renderDispositions(w io.Writer, dispositions []types.Disposition) {
	table := newTable(w, []string{"Code", "Name"})
	for _, d := range dispositions {
		table.Append([]string{d.Code, d.Name})
	}
	table.Render()
}

func printSyncResult(w io.Writer, result *dailysync.Result) {
	status := color.GreenString("✓ Sync for %s complete", result.Date)
	if result.FailedChunks > 0 || result.Skipped > 0 {
		status = color.YellowString("! Sync for %s finished with failures", result.Date)
	}
	fmt.Fprintln(w, status)
	fmt.Fprintf(w, "Merged:   %d\n", result.Merged)
	fmt.Fprintf(w, "Inserted: %d\n", result.Inserted)
	fmt.Fprintf(w, "Skipped:  %d\n", result.Skipped)
	fmt.Fprintf(w, "Failed:   %d chunks\n", result.FailedChunks)
	fmt.Fprintf(w, "Took:     %s\n", result.Duration.Round(time.Millisecond))
}

// clock renders seconds as H:MM:SS
func clock(seconds int) string {
	d := time.Duration(seconds) * time.Second
	return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, seconds%60)
}
