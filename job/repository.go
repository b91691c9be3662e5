package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no job row exists for the identifier.
	ErrNotFound = errors.New("job: not found")
)

const columns = `id, title, client_name, status, assignee_id, supervisor_id, manager_id,
       last_activity_at, last_reminder_sent_at, reminder_snooze_until, created_at, updated_at`

// PGRepository implements the job store against PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListActive returns every job whose status is non-terminal.
func (r *PGRepository) ListActive(ctx context.Context) ([]Job, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM jobs
		WHERE status NOT IN ('COMPLETED', 'CANCELLED')
		ORDER BY created_at
	`, columns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("job: list active: %w", err)
	}
	defer rows.Close()

	jobs := make([]Job, 0, 16)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("job: scan active job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("job: iterate active jobs: %w", err)
	}
	return jobs, nil
}

// GetByID loads a single job.
func (r *PGRepository) GetByID(ctx context.Context, jobID string) (Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, columns)

	j, err := scanJob(r.pool.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, fmt.Errorf("job: get by id: %w", err)
	}
	return j, nil
}

// AdvanceReminderMarker sets last_reminder_sent_at to sentAt only if the
// column still holds the value the caller read (IS NOT DISTINCT FROM covers
// the never-reminded NULL case). Returns false when a concurrent pass won
// the race; the caller must not treat its dispatch as the marker owner.
func (r *PGRepository) AdvanceReminderMarker(ctx context.Context, jobID string, seen *time.Time, sentAt time.Time) (bool, error) {
	const query = `
		UPDATE jobs
		SET last_reminder_sent_at = $3, updated_at = $3
		WHERE id = $1 AND last_reminder_sent_at IS NOT DISTINCT FROM $2
	`

	tag, err := r.pool.Exec(ctx, query, jobID, seen, sentAt)
	if err != nil {
		return false, fmt.Errorf("job: advance reminder marker: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetSnooze records the snooze deadline inside the caller's transaction so
// it commits atomically with the SNOOZED activity entry.
func (r *PGRepository) SetSnooze(ctx context.Context, tx pgx.Tx, jobID string, until time.Time) error {
	const query = `
		UPDATE jobs
		SET reminder_snooze_until = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, jobID, until)
	if err != nil {
		return fmt.Errorf("job: set snooze: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearSnooze removes the snooze deadline.
func (r *PGRepository) ClearSnooze(ctx context.Context, jobID string) error {
	const query = `
		UPDATE jobs
		SET reminder_snooze_until = NULL, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, jobID)
	if err != nil {
		return fmt.Errorf("job: clear snooze: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateParams enumerates the fields required to insert a job. Everything
// beyond the engine's subset (descriptions, due dates, priorities) lives in
// the surrounding application and is not modelled here.
type CreateParams struct {
	Title        string
	ClientName   string
	Status       Status
	AssigneeID   string
	SupervisorID *string
	ManagerID    *string
}

// Create inserts a job row. Used by seeding and tests; the surrounding
// application owns job creation in production.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Job, error) {
	if params.Title == "" {
		return Job{}, fmt.Errorf("job: title required")
	}
	if params.AssigneeID == "" {
		return Job{}, fmt.Errorf("job: assignee required")
	}
	status := params.Status
	if status == "" {
		status = StatusNotStarted
	}

	query := fmt.Sprintf(`
		INSERT INTO jobs (title, client_name, status, assignee_id, supervisor_id, manager_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, columns)

	j, err := scanJob(r.pool.QueryRow(ctx, query,
		params.Title,
		params.ClientName,
		status,
		params.AssigneeID,
		params.SupervisorID,
		params.ManagerID,
	))
	if err != nil {
		return Job{}, fmt.Errorf("job: create: %w", err)
	}
	return j, nil
}

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	err := row.Scan(
		&j.ID,
		&j.Title,
		&j.ClientName,
		&j.Status,
		&j.AssigneeID,
		&j.SupervisorID,
		&j.ManagerID,
		&j.LastActivityAt,
		&j.LastReminderSentAt,
		&j.ReminderSnoozeUntil,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	return j, err
}
