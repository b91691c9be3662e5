package activity

import "time"

// Kind enumerates qualifying activity types. Viewing a job is deliberately
// not a kind: read-only access never resets the escalation clock.
type Kind string

const (
	KindCreated       Kind = "CREATED"
	KindAssigned      Kind = "ASSIGNED"
	KindReassigned    Kind = "REASSIGNED"
	KindStatusChanged Kind = "STATUS_CHANGED"
	KindCommentAdded  Kind = "COMMENT_ADDED"
	KindFileUploaded  Kind = "FILE_UPLOADED"
	KindCompleted     Kind = "COMPLETED"
	KindCancelled     Kind = "CANCELLED"
	KindUpdated       Kind = "UPDATED"
	KindSnoozed       Kind = "SNOOZED"
)

func isValidKind(k Kind) bool {
	switch k {
	case KindCreated, KindAssigned, KindReassigned, KindStatusChanged,
		KindCommentAdded, KindFileUploaded, KindCompleted, KindCancelled,
		KindUpdated, KindSnoozed:
		return true
	}
	return false
}

// Record is an append-only audit entry. Entries are created, never mutated
// or deleted.
type Record struct {
	ID          string
	JobID       string
	ActorID     string
	Kind        Kind
	Description string
	Metadata    map[string]any
	OccurredAt  time.Time
}
