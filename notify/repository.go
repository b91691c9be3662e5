package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGSink appends notifications to PostgreSQL.
type PGSink struct {
	pool *pgxpool.Pool
}

func NewSink(pool *pgxpool.Pool) *PGSink {
	return &PGSink{pool: pool}
}

// Append writes one notification record. Never updates or deletes.
func (s *PGSink) Append(ctx context.Context, n Notification) error {
	if n.RecipientID == "" {
		return fmt.Errorf("notify: missing recipient id")
	}

	id := n.ID
	if id == "" {
		id = uuid.NewString()
	}

	const insertSQL = `
		INSERT INTO notifications (id, recipient_id, kind, title, body, related_job_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := s.pool.Exec(ctx, insertSQL, id, n.RecipientID, n.Kind, n.Title, n.Body, n.RelatedJobID, n.CreatedAt); err != nil {
		return fmt.Errorf("notify: append notification: %w", err)
	}
	return nil
}
