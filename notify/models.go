package notify

import "time"

// Kind encodes the escalation level a notification announces.
type Kind string

const (
	KindInactive24h Kind = "INACTIVE_24H"
	KindInactive48h Kind = "INACTIVE_48H"
)

// Notification is one outbox record. The engine only appends these; reading
// and marking them is the surrounding application's concern.
type Notification struct {
	ID           string
	RecipientID  string
	Kind         Kind
	Title        string
	Body         string
	RelatedJobID string
	IsRead       bool
	CreatedAt    time.Time
}
