package operators

import (
	"fmt"
	"testing"

	"github.com/evolvekit/evolvekit/core"
)

// nopEvaluator satisfies core.Evaluator for operator tests; the tests set
// objective values directly.
type nopEvaluator struct{}

func (nopEvaluator) Evaluate(*core.Individual) (*core.Evaluation, error) {
	return &core.Evaluation{Objectives: map[string]float64{}}, nil
}

// dummyProblem builds a minimisation problem with the given number of
// objectives and one real variable.
func dummyProblem(t *testing.T, objectives int) *core.Problem {
	t.Helper()
	objs := make([]core.Objective, objectives)
	for i := range objs {
		objs[i] = core.NewObjective(fmt.Sprintf("obj%d", i+1), core.Minimise)
	}
	x, err := core.NewRealVariable("x", 0, 1000)
	if err != nil {
		t.Fatalf("NewRealVariable failed: %v", err)
	}
	problem, err := core.NewProblem(objs, []core.Variable{x}, nil, nopEvaluator{})
	if err != nil {
		t.Fatalf("NewProblem failed: %v", err)
	}
	return problem
}

// individualsFromObjectives creates evaluated individuals carrying the
// given objective values.
func individualsFromObjectives(t *testing.T, problem *core.Problem, values [][]float64) []*core.Individual {
	t.Helper()
	individuals := make([]*core.Individual, len(values))
	for i, row := range values {
		ind := core.NewIndividual(problem)
		for j, v := range row {
			if err := ind.UpdateObjective(fmt.Sprintf("obj%d", j+1), v); err != nil {
				t.Fatalf("UpdateObjective failed: %v", err)
			}
		}
		ind.SetEvaluated()
		individuals[i] = ind
	}
	return individuals
}
