package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

// InsertRecord appends one activity entry inside the active transaction.
// The record id is generated here when absent.
func (r *Repository) InsertRecord(ctx context.Context, tx pgx.Tx, rec Record) error {
	if rec.JobID == "" {
		return fmt.Errorf("activity: missing job id")
	}
	if rec.ActorID == "" {
		return fmt.Errorf("activity: missing actor id")
	}
	if !isValidKind(rec.Kind) {
		return fmt.Errorf("activity: invalid kind %q", rec.Kind)
	}

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	var metadata []byte
	if rec.Metadata != nil {
		b, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("activity: marshal metadata: %w", err)
		}
		metadata = b
	}

	const insertSQL = `
		INSERT INTO activities (id, job_id, actor_id, kind, description, metadata, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := tx.Exec(ctx, insertSQL, id, rec.JobID, rec.ActorID, rec.Kind, rec.Description, metadata, rec.OccurredAt); err != nil {
		return fmt.Errorf("activity: insert record: %w", err)
	}
	return nil
}

// TouchBaseline moves the job's last_activity_at to the activity instant.
// Runs in the same transaction as InsertRecord so the evaluator never sees
// one write without the other.
func (r *Repository) TouchBaseline(ctx context.Context, tx pgx.Tx, jobID string, occurredAt time.Time) error {
	const updateSQL = `
		UPDATE jobs
		SET last_activity_at = $2, updated_at = $2
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, updateSQL, jobID, occurredAt)
	if err != nil {
		return fmt.Errorf("activity: touch baseline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity: job %s not found", jobID)
	}
	return nil
}

// ListForJob returns the most recent entries for a job, newest first.
func (r *Repository) ListForJob(ctx context.Context, pool *pgxpool.Pool, jobID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `
		SELECT id, job_id, actor_id, kind, description, metadata, occurred_at
		FROM activities
		WHERE job_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	rows, err := pool.Query(ctx, query, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("activity: list for job: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var (
			rec      Record
			metadata []byte
		)
		if err := rows.Scan(&rec.ID, &rec.JobID, &rec.ActorID, &rec.Kind, &rec.Description, &metadata, &rec.OccurredAt); err != nil {
			return nil, fmt.Errorf("activity: scan record: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
				return nil, fmt.Errorf("activity: decode metadata: %w", err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity: iterate records: %w", err)
	}
	return out, nil
}
