package escalation

// Scope names the audience a rule notifies.
type Scope int

const (
	// ScopeAssignee notifies the assigned staff member only.
	ScopeAssignee Scope = iota
	// ScopeFullChain notifies assignee, supervisor, manager, and all
	// administrators.
	ScopeFullChain
)

// Rule binds an active-hours threshold to a level and its audience.
type Rule struct {
	Level          Level
	ThresholdHours float64
	Scope          Scope
}

// Policy is an immutable, ordered escalation table. Rules are consulted from
// the highest threshold down so a job silent long enough for a higher level
// is never classified at a lower one.
type Policy struct {
	rules []Rule
}

// NewPolicy orders the rules by descending threshold.
func NewPolicy(rules ...Rule) Policy {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].ThresholdHours > ordered[j-1].ThresholdHours; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return Policy{rules: ordered}
}

// DefaultPolicy is the deployed two-tier table: 24 active hours to the
// assignee, 48 to the full chain.
func DefaultPolicy() Policy {
	return NewPolicy(
		Rule{Level: Level1, ThresholdHours: 24, Scope: ScopeAssignee},
		Rule{Level: Level2, ThresholdHours: 48, Scope: ScopeFullChain},
	)
}

// Classify returns the rule with the highest threshold that elapsed meets or
// exceeds, or false when no rule matches.
func (p Policy) Classify(elapsedHours float64) (Rule, bool) {
	for _, r := range p.rules {
		if elapsedHours >= r.ThresholdHours {
			return r, true
		}
	}
	return Rule{}, false
}

// RuleFor returns the rule for a given level.
func (p Policy) RuleFor(level Level) (Rule, bool) {
	for _, r := range p.rules {
		if r.Level == level {
			return r, true
		}
	}
	return Rule{}, false
}
