package escalation

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"jobwatch/directory"
	"jobwatch/job"
)

type stubAdmins struct {
	admins []directory.User
	err    error
}

func (s *stubAdmins) ListAdmins(_ context.Context) ([]directory.User, error) {
	return s.admins, s.err
}

func strPtr(s string) *string { return &s }

func TestResolve_Level1_AssigneeOnly(t *testing.T) {
	r := NewResolver(DefaultPolicy(), &stubAdmins{admins: []directory.User{{ID: "admin-1"}}})

	j := job.Job{
		AssigneeID:   "staff-1",
		SupervisorID: strPtr("sup-1"),
		ManagerID:    strPtr("mgr-1"),
	}

	got, err := r.Resolve(context.Background(), j, Level1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"staff-1"}) {
		t.Fatalf("expected assignee only, got %v", got)
	}
}

func TestResolve_Level2_FullChain(t *testing.T) {
	r := NewResolver(DefaultPolicy(), &stubAdmins{admins: []directory.User{{ID: "admin-1"}, {ID: "admin-2"}}})

	j := job.Job{
		AssigneeID:   "staff-1",
		SupervisorID: strPtr("sup-1"),
		ManagerID:    strPtr("mgr-1"),
	}

	got, err := r.Resolve(context.Background(), j, Level2)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []string{"admin-1", "admin-2", "mgr-1", "staff-1", "sup-1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolve_Level2_Dedupes(t *testing.T) {
	// Acting manager is also the supervisor and an admin.
	r := NewResolver(DefaultPolicy(), &stubAdmins{admins: []directory.User{{ID: "mgr-1"}}})

	j := job.Job{
		AssigneeID:   "staff-1",
		SupervisorID: strPtr("mgr-1"),
		ManagerID:    strPtr("mgr-1"),
	}

	got, err := r.Resolve(context.Background(), j, Level2)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []string{"mgr-1", "staff-1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected deduplicated %v, got %v", want, got)
	}
}

func TestResolve_Level2_MissingOptionalRoles(t *testing.T) {
	r := NewResolver(DefaultPolicy(), &stubAdmins{})

	got, err := r.Resolve(context.Background(), job.Job{AssigneeID: "staff-1"}, Level2)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"staff-1"}) {
		t.Fatalf("expected assignee only when roles unset, got %v", got)
	}
}

func TestResolve_AdminLookupError(t *testing.T) {
	r := NewResolver(DefaultPolicy(), &stubAdmins{err: errors.New("directory down")})

	if _, err := r.Resolve(context.Background(), job.Job{AssigneeID: "s"}, Level2); err == nil {
		t.Fatalf("expected admin lookup error to propagate")
	}
}

func TestResolve_UnknownLevel(t *testing.T) {
	r := NewResolver(DefaultPolicy(), &stubAdmins{})

	if _, err := r.Resolve(context.Background(), job.Job{AssigneeID: "s"}, LevelNone); err == nil {
		t.Fatalf("expected error for level without rule")
	}
}
