package directory

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type captureRepo struct {
	params CreateUserParams
}

func (c *captureRepo) CreateUser(_ context.Context, params CreateUserParams) (User, error) {
	c.params = params
	return User{ID: "u1", Name: params.Name, Email: params.Email, Role: params.Role}, nil
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := &captureRepo{}
	svc := NewService(repo)

	u, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Alice Admin",
		Email:    "alice@example.com",
		Password: "correct horse",
		Role:     RoleAdmin,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != RoleAdmin {
		t.Fatalf("expected ADMIN role, got %s", u.Role)
	}
	if repo.params.PasswordHash == "correct horse" {
		t.Fatalf("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.params.PasswordHash), []byte("correct horse")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	svc := NewService(&captureRepo{})

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "short",
	}); err != ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegister_DefaultsToStaff(t *testing.T) {
	repo := &captureRepo{}
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "long enough",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if repo.params.Role != RoleStaff {
		t.Fatalf("expected STAFF default, got %s", repo.params.Role)
	}
}
