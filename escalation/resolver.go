package escalation

import (
	"context"
	"fmt"
	"sort"

	"jobwatch/directory"
	"jobwatch/job"
)

// AdminSource enumerates administrator accounts for the top scope.
// directory.PGRepository satisfies it.
type AdminSource interface {
	ListAdmins(ctx context.Context) ([]directory.User, error)
}

// Resolver expands an escalation level into the set of users to notify.
type Resolver struct {
	policy Policy
	admins AdminSource
}

func NewResolver(policy Policy, admins AdminSource) Resolver {
	return Resolver{policy: policy, admins: admins}
}

// Resolve returns the deduplicated recipient ids for the level, sorted for
// deterministic dispatch order. A user holding several roles on the job
// appears once.
func (r Resolver) Resolve(ctx context.Context, j job.Job, level Level) ([]string, error) {
	rule, ok := r.policy.RuleFor(level)
	if !ok {
		return nil, fmt.Errorf("escalation: no rule for level %s", level)
	}

	ids := make(map[string]struct{}, 4)
	if j.AssigneeID != "" {
		ids[j.AssigneeID] = struct{}{}
	}

	if rule.Scope == ScopeFullChain {
		if j.SupervisorID != nil && *j.SupervisorID != "" {
			ids[*j.SupervisorID] = struct{}{}
		}
		if j.ManagerID != nil && *j.ManagerID != "" {
			ids[*j.ManagerID] = struct{}{}
		}

		admins, err := r.admins.ListAdmins(ctx)
		if err != nil {
			return nil, fmt.Errorf("escalation: list admins: %w", err)
		}
		for _, a := range admins {
			ids[a.ID] = struct{}{}
		}
	}

	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
