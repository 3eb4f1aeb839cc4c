// Package reconcile computes and executes the changes that make a target data set equal
// to a source data set.
//
// # Planning
//
// Diff is a generic keyed-set comparison. It is called once per entity kind with two maps
// keyed by the entity's natural identity:
//
//   - keys only in the source produce a create action
//   - keys on both sides produce an update listing each differing field, or nothing at all
//     when the entities are equal
//   - keys only in the target produce a delete, unless Options.SkipUnmatchedDestination is
//     set, in which case the delete is recorded as skipped
//
// A Planner collects the diffs of all kinds. Plan orders them by dependency: creates and
// updates run in ascending Kind.Rank (devices before the interfaces that reference them),
// deletes run afterwards in descending rank.
//
// # Execution
//
// ApplyPlan hands each action to a Mutator. Actions of the same phase and rank form a stage
// and run concurrently through a worker pool; stages never overlap. A failed action is
// recorded in the ApplyResult and never aborts its siblings. Nothing is rolled back.
// Execution requires ApplyOptions.Confirmed and is skipped entirely in dry-run mode.
//
// # Usage
//
//	p := reconcile.NewPlanner(reconcile.DefaultOptions())
//	reconcile.Diff(p, kindDevice, source.Devices, target.Devices)
//	reconcile.Diff(p, kindInterface, source.Interfaces, target.Interfaces)
//	cs := p.Plan()
//
//	result, err := reconcile.ApplyPlan(ctx, cs, store, reconcile.ApplyOptions{Confirmed: true})
package reconcile
