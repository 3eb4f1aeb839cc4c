package reconcile

import (
	"fmt"
)

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionCreate creates an entity that only exists in the source.
	ActionCreate ActionType = "create"
	// ActionUpdate rewrites the differing fields of an entity present on both sides.
	ActionUpdate ActionType = "update"
	// ActionDelete removes an entity that only exists in the target.
	ActionDelete ActionType = "delete"
)

// Kind names an entity type together with its dependency rank.
// Entities of lower rank must exist before entities of higher rank reference them.
type Kind struct {
	Name string
	Rank int
}

// Identity is the natural key of an entity.
type Identity interface {
	comparable
	String() string
}

// Comparable entities report field-level differences against their current state.
type Comparable[E any] interface {
	// Compare returns one FieldChange per differing field, with the receiver as source
	// and current as target. An empty result means the two are equal.
	Compare(current E) []FieldChange
}

// Scoped entities belong to an owner (a device) used to group outcomes.
type Scoped interface {
	Scope() string
}

// FieldChange describes one differing field between source and target.
type FieldChange struct {
	Field  string `json:"field"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// String renders the change as "field: source=x target=y".
func (c FieldChange) String() string {
	return fmt.Sprintf("%s: source=%q target=%q", c.Field, c.Source, c.Target)
}

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Kind is the entity kind name.
	Kind string `json:"kind"`

	// Rank is the dependency rank of the kind.
	Rank int `json:"-"`

	// Key is the entity identifier.
	Key string `json:"key"`

	// Scope is the owning device key, empty for shared entities.
	Scope string `json:"scope,omitempty"`

	// Changes lists the differing fields of an update.
	Changes []FieldChange `json:"changes,omitempty"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Desired is the source entity for create and update actions.
	Desired any `json:"-"`

	// Current is the target entity for update and delete actions.
	Current any `json:"-"`
}

// ChangedFields returns the names of the differing fields.
func (a Action) ChangedFields() []string {
	fields := make([]string, 0, len(a.Changes))
	for _, c := range a.Changes {
		fields = append(fields, c.Field)
	}
	return fields
}

// Summary provides aggregate counts for a change set.
type Summary struct {
	Creates int `json:"creates"`
	Updates int `json:"updates"`
	Deletes int `json:"deletes"`
	// Skipped counts deletes suppressed by the unmatched destination policy.
	Skipped int `json:"skipped"`
}

// Total is the number of actions that would be executed.
func (s Summary) Total() int {
	return s.Creates + s.Updates + s.Deletes
}

// ChangeSet is the ordered list of actions computed for one run.
type ChangeSet struct {
	Actions []Action `json:"actions"`

	// Skipped holds the deletes that the unmatched destination policy suppressed.
	Skipped []Action `json:"skipped,omitempty"`

	Summary Summary `json:"summary"`
}

// Empty reports whether applying the set would change nothing.
func (cs *ChangeSet) Empty() bool {
	return cs == nil || len(cs.Actions) == 0
}

// Options controls how the diff plans actions.
type Options struct {
	// SkipUnmatchedDestination keeps target entities that the source does not report.
	SkipUnmatchedDestination bool
}

// DefaultOptions returns the planning defaults: unmatched target entities are kept.
func DefaultOptions() Options {
	return Options{SkipUnmatchedDestination: true}
}

// ApplyOptions controls execution of a change set.
type ApplyOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the caller approved the mutations.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool

	// Workers bounds the concurrent actions of one stage.
	Workers int
}

// Outcome is the result of executing a single action.
type Outcome struct {
	Action Action `json:"action"`
	Error  string `json:"error,omitempty"`
	err    error
}

// Err returns the execution error, nil if the action was applied.
func (o Outcome) Err() error {
	return o.err
}

// ApplyResult collects per-action outcomes of ApplyPlan.
type ApplyResult struct {
	Applied []Outcome `json:"applied"`
	Failed  []Outcome `json:"failed"`
}

// Executed returns the number of actions that reached the mutator successfully.
func (r *ApplyResult) Executed() int {
	if r == nil {
		return 0
	}
	return len(r.Applied)
}

// FailedScopes returns the scopes that had at least one failed action.
func (r *ApplyResult) FailedScopes() map[string][]Outcome {
	scopes := make(map[string][]Outcome)
	if r == nil {
		return scopes
	}
	for _, o := range r.Failed {
		scopes[o.Action.Scope] = append(scopes[o.Action.Scope], o)
	}
	return scopes
}
