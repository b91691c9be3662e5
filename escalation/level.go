// Package escalation holds the pure decision logic of the reminder engine:
// the ordered threshold policy, the evaluator that classifies a job against
// it, and the recipient resolver for each level.
package escalation

// Level is an ordered escalation severity. Higher values are more severe.
type Level int

const (
	LevelNone Level = iota
	Level1
	Level2
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "NONE"
	case Level1:
		return "LEVEL_1"
	case Level2:
		return "LEVEL_2"
	default:
		return "UNKNOWN"
	}
}
