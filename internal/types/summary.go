package types

// DispositionCount counts calls with one disposition code
type DispositionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AgentSummary is the per-agent aggregate of a call log search
type AgentSummary struct {
	ID           string                       `json:"id"`
	Name         string                       `json:"name"`
	TotalCalls   int                          `json:"total_calls"`
	Dispositions map[string]*DispositionCount `json:"dispositions"`
}
