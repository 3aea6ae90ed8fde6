package types

import "time"

// Message types pushed over the dashboard websocket
const (
	MessageSyncCompleted = "sync_completed"
)

// SyncEvent is broadcast to dashboards after a daily sync run
type SyncEvent struct {
	Type         string    `json:"type"`
	Date         string    `json:"date"`
	Merged       int       `json:"merged"`
	Inserted     int       `json:"inserted"`
	Skipped      int       `json:"skipped"`
	FailedChunks int       `json:"failedChunks"`
	Timestamp    time.Time `json:"timestamp"`
}
