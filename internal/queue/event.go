// Package queue defines message payloads exchanged over the message broker.
package queue

// SampleAuditEvent is published after an inventory mutation commits.  It
// mirrors the durable sample_history row so downstream consumers can log or
// notify without querying the primary database; the row in sample_history
// remains the source of truth.
type SampleAuditEvent struct {
	HistoryID  uint64 `json:"history_id"`
	SampleID   uint64 `json:"sample_id"`
	Action     string `json:"action"`
	Field      string `json:"field,omitempty"`
	OldValue   string `json:"old_value,omitempty"`
	NewValue   string `json:"new_value,omitempty"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	Freezer    string `json:"freezer"`
	Rack       string `json:"rack"`
	Box        string `json:"box"`
	Well       string `json:"well"`
	SampleName string `json:"sample_name"`
	OccurredAt string `json:"occurred_at"`
}
