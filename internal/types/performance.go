package types

import "time"

// AgentActivity is one agent's entry in an upstream user-activity summary.
// Durations arrive as "HH:MM:SS" text.
type AgentActivity struct {
	Name     FlexString `json:"name"`
	Email    FlexString `json:"email"`
	Calls    FlexString `json:"calls"`
	TalkSec  FlexString `json:"talk_sec"`
	PauseSec FlexString `json:"pause_sec"`
	WaitSec  FlexString `json:"wait_sec"`
	WrapSec  FlexString `json:"wrap_sec"`
}

// ActivitySummary maps the upstream agent id to its activity
type ActivitySummary map[string]AgentActivity

// AgentPerformance is one agent's merged metrics for one day
type AgentPerformance struct {
	AgentID           string    `json:"agent_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	PeriodStart       time.Time `json:"period_start_time"`
	PeriodEnd         time.Time `json:"period_end_time"`
	TotalInteractions int       `json:"total_interactions"`
	AppointmentsSet   int       `json:"appointments_set"`
	EmailsSent        int       `json:"emails_sent"`
	TalkSeconds       int       `json:"talk_seconds"`
	PauseSeconds      int       `json:"pause_seconds"`
	WaitSeconds       int       `json:"wait_seconds"`
	WrapUpSeconds     int       `json:"wrap_up_seconds"`
}

// LeaderboardEntry sums an agent's performance logs over a date range
type LeaderboardEntry struct {
	AgentID           string `json:"agent_id"`
	Name              string `json:"name"`
	Days              int    `json:"days"`
	TotalInteractions int    `json:"total_interactions"`
	AppointmentsSet   int    `json:"appointments_set"`
	EmailsSent        int    `json:"emails_sent"`
	TalkSeconds       int    `json:"talk_seconds"`
}
