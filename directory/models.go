package directory

import "time"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleSupervisor Role = "SUPERVISOR"
	RoleStaff      Role = "STAFF"
)

func isValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSupervisor, RoleStaff:
		return true
	}
	return false
}

// User is the domain representation of a directory entry. It mirrors the
// users table and carries no JSON annotations so it can be reused by
// different presentation layers.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
