// Package rules models the configured policy: an ordered set of rules,
// each pairing a table name and a typed condition with an optional
// terminal or mutating action.
package rules

// Action is the optional disposition attached to a rule. Its absence means
// "log only" — evaluate the rule but take no enforcement action.
type Action string

const (
	ActionBlock        Action = "Block"
	ActionInjectHeader Action = "InjectHeader"
)

// Entry is one configured rule.
type Entry struct {
	Name      string  `json:"name" validate:"required"`
	TableName string  `json:"table_name" validate:"required"`
	Value     Variant `json:"value" validate:"required"`
	Action    *Action `json:"action,omitempty" validate:"omitempty,oneof=Block InjectHeader"`
}

// Config is the full, ordered rule set. It is loaded once at process start
// and never mutated afterward; all concurrent requests share the same
// instance.
type Config struct {
	Rules []Entry `json:"rules" validate:"dive"`
}
