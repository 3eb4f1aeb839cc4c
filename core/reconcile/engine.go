package reconcile

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Planner accumulates the actions of several keyed-set diffs into one change set.
type Planner struct {
	opts    Options
	actions []Action
	skipped []Action
}

// NewPlanner creates a planner with the given options.
func NewPlanner(opts Options) *Planner {
	return &Planner{opts: opts}
}

// Diff compares the source and target sets of one entity kind and records the actions
// that make the target equal to the source.
//
//   - key only in source: create
//   - key in both with differing fields: update listing those fields
//   - key only in target: delete, or skipped under SkipUnmatchedDestination
//
// Keys are visited in String() order so the plan is deterministic.
func Diff[K Identity, E Comparable[E]](p *Planner, kind Kind, source, target map[K]E) {
	for _, key := range sortedKeys(source) {
		desired := source[key]
		current, ok := target[key]
		if !ok {
			p.actions = append(p.actions, Action{
				Type:    ActionCreate,
				Kind:    kind.Name,
				Rank:    kind.Rank,
				Key:     key.String(),
				Scope:   scopeOf(desired),
				Reason:  "missing in target",
				Desired: desired,
			})
			continue
		}

		changes := desired.Compare(current)
		if len(changes) == 0 {
			continue
		}
		p.actions = append(p.actions, Action{
			Type:    ActionUpdate,
			Kind:    kind.Name,
			Rank:    kind.Rank,
			Key:     key.String(),
			Scope:   scopeOf(desired),
			Changes: changes,
			Reason:  describeChanges(changes),
			Desired: desired,
			Current: current,
		})
	}

	for _, key := range sortedKeys(target) {
		if _, ok := source[key]; ok {
			continue
		}
		current := target[key]
		action := Action{
			Type:    ActionDelete,
			Kind:    kind.Name,
			Rank:    kind.Rank,
			Key:     key.String(),
			Scope:   scopeOf(current),
			Reason:  "missing in source",
			Current: current,
		}
		if p.opts.SkipUnmatchedDestination {
			action.Reason = "missing in source, kept by unmatched destination policy"
			p.skipped = append(p.skipped, action)
			continue
		}
		p.actions = append(p.actions, action)
	}
}

// Plan returns the ordered change set: creates and updates by ascending rank, then
// deletes by descending rank.
func (p *Planner) Plan() *ChangeSet {
	actions := slices.Clone(p.actions)
	slices.SortStableFunc(actions, compareActions)

	cs := &ChangeSet{
		Actions: actions,
		Skipped: slices.Clone(p.skipped),
	}
	for _, a := range actions {
		switch a.Type {
		case ActionCreate:
			cs.Summary.Creates++
		case ActionUpdate:
			cs.Summary.Updates++
		case ActionDelete:
			cs.Summary.Deletes++
		}
	}
	cs.Summary.Skipped = len(p.skipped)
	return cs
}

// phase is 0 for creates and updates, 1 for deletes.
func phase(a Action) int {
	if a.Type == ActionDelete {
		return 1
	}
	return 0
}

func typeOrder(t ActionType) int {
	switch t {
	case ActionCreate:
		return 0
	case ActionUpdate:
		return 1
	default:
		return 2
	}
}

func compareActions(a, b Action) int {
	if c := cmp.Compare(phase(a), phase(b)); c != 0 {
		return c
	}
	if phase(a) == 1 {
		if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
			return c
		}
	} else if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
		return c
	}
	if c := cmp.Compare(typeOrder(a.Type), typeOrder(b.Type)); c != 0 {
		return c
	}
	return cmp.Compare(a.Key, b.Key)
}

func sortedKeys[K Identity, E any](m map[K]E) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b K) int {
		return cmp.Compare(a.String(), b.String())
	})
	return keys
}

func scopeOf(e any) string {
	if s, ok := e.(Scoped); ok {
		return s.Scope()
	}
	return ""
}

func describeChanges(changes []FieldChange) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("mismatch: %s", strings.Join(parts, ", "))
}
