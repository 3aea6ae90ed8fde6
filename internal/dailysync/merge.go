package dailysync

import (
	"fmt"
	"strconv"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// Merge combines the base activity summary with the appointment and email
// counts, keyed by agent id. Base entries seed full records; agents that only
// appear in the appointment or email summaries are synthesized from that
// summary. Non-numeric keys and unnamed base entries are skipped.
func Merge(base, appointments, emails types.ActivitySummary) map[string]*types.AgentPerformance {
	merged := make(map[string]*types.AgentPerformance)

	for agentID, activity := range base {
		if !isAgentID(agentID) || activity.Name == "" {
			continue
		}
		merged[agentID] = fromActivity(agentID, activity.Name.String(), activity)
	}

	mergeCount(merged, appointments, func(p *types.AgentPerformance, n int) { p.AppointmentsSet = n })
	mergeCount(merged, emails, func(p *types.AgentPerformance, n int) { p.EmailsSent = n })

	return merged
}

func mergeCount(merged map[string]*types.AgentPerformance, source types.ActivitySummary, set func(*types.AgentPerformance, int)) {
	for agentID, activity := range source {
		if !isAgentID(agentID) {
			continue
		}

		perf, ok := merged[agentID]
		if !ok {
			name := activity.Name.String()
			if name == "" {
				name = fmt.Sprintf("Agent %s", agentID)
			}
			perf = fromActivity(agentID, name, activity)
			merged[agentID] = perf
		}
		set(perf, activity.Calls.Int())
	}
}

func fromActivity(agentID, name string, activity types.AgentActivity) *types.AgentPerformance {
	return &types.AgentPerformance{
		AgentID:           agentID,
		Name:              name,
		Email:             activity.Email.String(),
		TotalInteractions: activity.Calls.Int(),
		TalkSeconds:       TimeToSeconds(activity.TalkSec.String()),
		PauseSeconds:      TimeToSeconds(activity.PauseSec.String()),
		WaitSeconds:       TimeToSeconds(activity.WaitSec.String()),
		WrapUpSeconds:     TimeToSeconds(activity.WrapSec.String()),
	}
}

func isAgentID(key string) bool {
	_, err := strconv.ParseUint(key, 10, 64)
	return err == nil
}
