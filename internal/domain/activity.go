package domain

import "time"

// ActivityKind classifies an entry in a lead's history.
type ActivityKind string

const (
	ActivityCreated      ActivityKind = "created"
	ActivityUpdated      ActivityKind = "updated"
	ActivityStageChanged ActivityKind = "stage_changed"
	ActivityConverted    ActivityKind = "converted"
	ActivityArchived     ActivityKind = "archived"
	ActivityUnarchived   ActivityKind = "unarchived"
	ActivityNote         ActivityKind = "note"
	ActivityCall         ActivityKind = "call"
	ActivityEmail        ActivityKind = "email"
	ActivityMeeting      ActivityKind = "meeting"
)

// UserActivityKinds are the kinds a user may log by hand; the rest are system generated.
var UserActivityKinds = []ActivityKind{ActivityNote, ActivityCall, ActivityEmail, ActivityMeeting}

// Activity is an immutable timestamped event tied to a lead.
type Activity struct {
	ID        string       `json:"id"`
	LeadID    string       `json:"lead_id"`
	Kind      ActivityKind `json:"kind"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   string       `json:"payload"`
}

// ChangeKind tells the record store whether an upsert introduces a lead or
// replaces an existing one.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
)
