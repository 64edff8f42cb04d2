package algorithms

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/evolvekit/evolvekit/core"
)

// evaluateIndividual runs the user evaluator on one individual and stores
// the results. Already-evaluated individuals are skipped. Missing names or
// non-finite values in the evaluator output are errors.
func evaluateIndividual(ind *core.Individual) (bool, error) {
	if ind.IsEvaluated() {
		return false, nil
	}
	problem := ind.Problem()
	result, err := problem.Evaluator().Evaluate(ind)
	if err != nil {
		return false, fmt.Errorf("the evaluation function failed: %w", err)
	}
	if result == nil {
		return false, &core.EvaluationError{Reason: "the evaluation function returned no result"}
	}

	for _, name := range problem.ObjectiveNames() {
		value, ok := result.Objectives[name]
		if !ok {
			return false, &core.EvaluationError{Reason: fmt.Sprintf("no value returned for the objective named %q", name)}
		}
		if err := ind.UpdateObjective(name, value); err != nil {
			return false, err
		}
	}
	for _, name := range problem.ConstraintNames() {
		value, ok := result.Constraints[name]
		if !ok {
			return false, &core.EvaluationError{Reason: fmt.Sprintf("no value returned for the constraint named %q", name)}
		}
		if err := ind.UpdateConstraint(name, value); err != nil {
			return false, err
		}
	}
	ind.SetEvaluated()
	return true, nil
}

// evaluateAll evaluates the unevaluated individuals, sequentially or
// across a worker pool sized to the logical CPU count. It returns the
// number of evaluator calls performed. The first evaluation error aborts
// the whole batch: a generation is never partially retried.
func evaluateAll(individuals []*core.Individual, parallel bool) (int, error) {
	if !parallel {
		evaluations := 0
		for _, ind := range individuals {
			ran, err := evaluateIndividual(ind)
			if err != nil {
				return evaluations, err
			}
			if ran {
				evaluations++
			}
		}
		return evaluations, nil
	}

	workers := runtime.NumCPU()
	if workers > len(individuals) {
		workers = len(individuals)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan *core.Individual)
	var wg sync.WaitGroup
	var mu sync.Mutex
	evaluations := 0
	var firstErr error

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ind := range jobs {
				// every task writes only into its own individual; the
				// evaluator is shared read-only
				ran, err := evaluateIndividual(ind)
				mu.Lock()
				if err != nil && firstErr == nil {
					firstErr = err
				}
				if ran {
					evaluations++
				}
				mu.Unlock()
			}
		}()
	}

	for _, ind := range individuals {
		jobs <- ind
	}
	close(jobs)
	wg.Wait()

	return evaluations, firstErr
}
