package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrUserNotFound signals that no user exists for the identifier.
	ErrUserNotFound = errors.New("directory: user not found")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = errors.New("directory: email already exists")
)

// Repository is the user directory contract the engine consumes: resolve a
// role reference, enumerate administrators.
type Repository interface {
	GetByID(ctx context.Context, userID string) (User, error)
	ListAdmins(ctx context.Context) ([]User, error)
}

const columns = `id, name, email, password_hash, role, is_active, created_at, updated_at`

// PGRepository implements the directory against PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) GetByID(ctx context.Context, userID string) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, columns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("directory: get user: %w", err)
	}
	return u, nil
}

// ListAdmins returns every active user holding the administrator role.
func (r *PGRepository) ListAdmins(ctx context.Context) ([]User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE role = 'ADMIN' AND is_active
		ORDER BY created_at
	`, columns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("directory: list admins: %w", err)
	}
	defer rows.Close()

	admins := make([]User, 0, 4)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("directory: scan admin: %w", err)
		}
		admins = append(admins, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: iterate admins: %w", err)
	}
	return admins, nil
}

// CreateUserParams contains write parameters for inserting users.
type CreateUserParams struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// CreateUser inserts a directory entry. Job and user lifecycle belong to the
// surrounding application; this path exists for seeding and tests.
func (r *PGRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if params.Email == "" || params.Name == "" {
		return User{}, fmt.Errorf("directory: name and email are required")
	}
	if !isValidRole(params.Role) {
		return User{}, fmt.Errorf("directory: invalid role %q", params.Role)
	}
	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, columns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, id, params.Name, params.Email, params.PasswordHash, params.Role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("directory: create user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
