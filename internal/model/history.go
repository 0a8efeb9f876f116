package model

import "time"

// History actions.  A create or delete produces one row; an update produces
// one row per changed field; a move produces a single row whose old/new
// values are the formatted locations.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionMoved   = "moved"
	ActionDeleted = "deleted"
)

// SampleHistory is one immutable audit record of a sample mutation.  Rows
// are written in the same transaction as the mutation they describe and are
// never updated.  The freezer/rack/box/well/sample_name columns snapshot the
// sample's location at the time of the action so the trail stays readable
// after the sample itself is gone.
//
// SampleID intentionally has no foreign key: direct sample deletion must
// leave the trail intact, while hierarchy deletes remove their descendants'
// history explicitly.
type SampleHistory struct {
	ID         uint64    // sample_history.id
	SampleID   uint64    // sample_history.sample_id
	Action     string    // sample_history.action
	Field      *string   // sample_history.field (nullable; set for updates)
	OldValue   *string   // sample_history.old_value (nullable)
	NewValue   *string   // sample_history.new_value (nullable)
	UserID     uint64    // sample_history.user_id
	Username   string    // sample_history.username
	Timestamp  time.Time // sample_history.timestamp
	Freezer    string    // sample_history.freezer
	Rack       string    // sample_history.rack
	Box        string    // sample_history.box
	Well       string    // sample_history.well
	SampleName string    // sample_history.sample_name
}
