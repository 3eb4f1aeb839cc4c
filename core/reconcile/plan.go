package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Mutator executes single actions against the target store.
// Implementations must be safe for concurrent use: actions of the same stage run in parallel.
type Mutator interface {
	Create(ctx context.Context, action Action) error
	Update(ctx context.Context, action Action) error
	Delete(ctx context.Context, action Action) error
}

// ErrDependencyFailed marks actions that were not attempted because a create in the same
// scope failed earlier in the run.
var ErrDependencyFailed = errors.New("not attempted: an earlier create for the same device failed")

const defaultWorkers = 16

// ApplyPlan executes the actions in a change set.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
//
// Actions sharing a phase and rank form a stage; stages run in change set order and the
// actions of a stage run through a worker pool. A failed action is recorded and never stops
// its siblings, and nothing is rolled back. Once ctx is done no further stage is started and
// the remaining actions are recorded as failed with the context error, which is also returned.
func ApplyPlan(ctx context.Context, cs *ChangeSet, m Mutator, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}

	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun || cs.Empty() {
		return result, nil
	}
	if m == nil {
		return result, fmt.Errorf("no mutator configured for change set")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	blocked := make(map[string]struct{})
	for _, stage := range stages(cs.Actions) {
		if err := ctx.Err(); err != nil {
			for _, action := range stage {
				result.Failed = append(result.Failed, failed(action, fmt.Errorf("not attempted: %w", err)))
			}
			continue
		}

		var runnable []Action
		for _, action := range stage {
			if _, ok := blocked[action.Scope]; ok && action.Scope != "" {
				result.Failed = append(result.Failed, failed(action, ErrDependencyFailed))
				continue
			}
			runnable = append(runnable, action)
		}

		for _, o := range runStage(ctx, runnable, m, workers) {
			if o.err == nil {
				result.Applied = append(result.Applied, o)
				continue
			}
			result.Failed = append(result.Failed, o)
			if o.Action.Type == ActionCreate && o.Action.Scope != "" {
				blocked[o.Action.Scope] = struct{}{}
			}
		}
	}

	return result, ctx.Err()
}

// stages splits ordered actions into runs of equal phase and rank.
func stages(actions []Action) [][]Action {
	var out [][]Action
	start := 0
	for i := 1; i <= len(actions); i++ {
		if i == len(actions) || phase(actions[i]) != phase(actions[start]) || actions[i].Rank != actions[start].Rank {
			out = append(out, actions[start:i])
			start = i
		}
	}
	return out
}

// runStage executes one stage with a bounded worker pool. Outcomes keep the stage order.
func runStage(ctx context.Context, actions []Action, m Mutator, workers int) []Outcome {
	outcomes := make([]Outcome, len(actions))
	if len(actions) == 0 {
		return outcomes
	}
	if workers > len(actions) {
		workers = len(actions)
	}

	jobs := make(chan int, len(actions))
	for i := range actions {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				action := actions[i]
				// Each index is written by exactly one worker
				if err := execute(ctx, m, action); err != nil {
					outcomes[i] = failed(action, err)
				} else {
					outcomes[i] = Outcome{Action: action}
				}
			}
		}()
	}
	wg.Wait()

	return outcomes
}

func execute(ctx context.Context, m Mutator, action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s %s %s panicked: %v", action.Type, action.Kind, action.Key, r)
		}
	}()

	switch action.Type {
	case ActionCreate:
		return m.Create(ctx, action)
	case ActionUpdate:
		return m.Update(ctx, action)
	case ActionDelete:
		return m.Delete(ctx, action)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

func failed(action Action, err error) Outcome {
	return Outcome{Action: action, Error: err.Error(), err: err}
}
