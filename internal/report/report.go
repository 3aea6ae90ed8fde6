// Package report filters and aggregates collected call logs.
package report

import (
	"sort"
	"strings"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// UnknownAgentName labels agents whose records carry no name
const UnknownAgentName = "Unknown Agent"

// ParseIDList splits a comma-separated list, dropping blanks. An empty
// result means no filter.
func ParseIDList(csv string) []string {
	var ids []string
	for _, part := range strings.Split(csv, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// FilterByAgents keeps records whose agent id is in allow. An empty allow
// list keeps everything.
func FilterByAgents(records []types.CallLogRecord, allow []string) []types.CallLogRecord {
	if len(allow) == 0 {
		return records
	}

	allowed := make(map[string]struct{}, len(allow))
	for _, id := range allow {
		allowed[id] = struct{}{}
	}

	filtered := make([]types.CallLogRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := allowed[rec.UserID.String()]; ok {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// Summarize counts calls per agent and per disposition code. Records without
// an agent id are dropped. The first name seen for an agent or a disposition
// code sticks.
func Summarize(records []types.CallLogRecord) map[string]*types.AgentSummary {
	summaries := make(map[string]*types.AgentSummary)

	for _, rec := range records {
		agentID := rec.UserID.String()
		if agentID == "" {
			continue
		}

		summary, ok := summaries[agentID]
		if !ok {
			name := rec.User.String()
			if name == "" {
				name = UnknownAgentName
			}
			summary = &types.AgentSummary{
				ID:           agentID,
				Name:         name,
				Dispositions: make(map[string]*types.DispositionCount),
			}
			summaries[agentID] = summary
		}
		summary.TotalCalls++

		code := rec.Status.String()
		if code == "" {
			continue
		}
		disp, ok := summary.Dispositions[code]
		if !ok {
			name := rec.StatusName.String()
			if name == "" {
				name = code
			}
			disp = &types.DispositionCount{Name: name}
			summary.Dispositions[code] = disp
		}
		disp.Count++
	}

	return summaries
}

// Sorted returns the summaries ordered by agent id
func Sorted(summaries map[string]*types.AgentSummary) []*types.AgentSummary {
	out := make([]*types.AgentSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
