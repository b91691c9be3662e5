package directory

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword signals the password doesn't meet requirements.
var ErrWeakPassword = errors.New("directory: password must be at least 8 characters")

// Creator is the write side used by Service; PGRepository satisfies it.
type Creator interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
}

// Service wraps user creation with password hashing. End-user login is
// handled elsewhere; the directory only stores the hash.
type Service struct {
	repo Creator
}

func NewService(repo Creator) *Service {
	return &Service{repo: repo}
}

// RegisterRequest contains user registration data supplied by callers.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// Register hashes the password and inserts the user.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	if len(req.Password) < 8 {
		return User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("directory: hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = RoleStaff
	}

	return s.repo.CreateUser(ctx, CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
}
