package algorithms

import (
	"fmt"
	"math"
	"testing"

	"github.com/evolvekit/evolvekit/core"
	"github.com/evolvekit/evolvekit/problems"
)

type nopEvaluator struct{}

func (nopEvaluator) Evaluate(*core.Individual) (*core.Evaluation, error) {
	return &core.Evaluation{Objectives: map[string]float64{}}, nil
}

func objectiveProblem(t *testing.T, k int) *core.Problem {
	t.Helper()
	objs := make([]core.Objective, k)
	for i := range objs {
		objs[i] = core.NewObjective(fmt.Sprintf("obj%d", i+1), core.Minimise)
	}
	x, _ := core.NewRealVariable("x", 0, 1)
	problem, err := core.NewProblem(objs, []core.Variable{x}, nil, nopEvaluator{})
	if err != nil {
		t.Fatalf("NewProblem failed: %v", err)
	}
	return problem
}

func frontFromObjectives(t *testing.T, problem *core.Problem, values [][]float64) []*core.Individual {
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

func TestCrowdingDistanceTooFewPoints(t *testing.T) {
	problem := objectiveProblem(t, 2)
	front := frontFromObjectives(t, problem, [][]float64{{1, 2}, {2, 1}})
	if err := setCrowdingDistance(front); err != nil {
		t.Fatalf("setCrowdingDistance failed: %v", err)
	}
	for i, ind := range front {
		if ind.CrowdingDistance() != crowdingSentinel {
			t.Errorf("Individual %d: expected the sentinel, got %g", i, ind.CrowdingDistance())
		}
	}
}

func TestCrowdingDistanceDegenerateRange(t *testing.T) {
	problem := objectiveProblem(t, 2)
	front := frontFromObjectives(t, problem, [][]float64{{1, 1}, {1, 1}, {1, 1}})
	if err := setCrowdingDistance(front); err != nil {
		t.Fatalf("setCrowdingDistance failed: %v", err)
	}
	for i, ind := range front {
		if ind.CrowdingDistance() != crowdingSentinel {
			t.Errorf("Individual %d: expected the sentinel, got %g", i, ind.CrowdingDistance())
		}
	}
}

func TestCrowdingDistanceThreePoints(t *testing.T) {
	problem := objectiveProblem(t, 2)
	front := frontFromObjectives(t, problem, [][]float64{{1, 3}, {2, 2}, {3, 1}})
	if err := setCrowdingDistance(front); err != nil {
		t.Fatalf("setCrowdingDistance failed: %v", err)
	}

	// boundary members of both objectives carry the sentinel
	if front[0].CrowdingDistance() != crowdingSentinel {
		t.Errorf("Expected the sentinel for the first point, got %g", front[0].CrowdingDistance())
	}
	if front[2].CrowdingDistance() != crowdingSentinel {
		t.Errorf("Expected the sentinel for the last point, got %g", front[2].CrowdingDistance())
	}
	// the interior point accumulates (3-1)/2 per objective
	if got := front[1].CrowdingDistance(); math.Abs(got-2) > 1e-12 {
		t.Errorf("Expected a crowding distance of 2, got %g", got)
	}
}

func TestCrowdingDistanceFourPoints(t *testing.T) {
	problem := objectiveProblem(t, 2)
	front := frontFromObjectives(t, problem, [][]float64{{1, 4}, {2, 3}, {3, 2}, {4, 1}})
	if err := setCrowdingDistance(front); err != nil {
		t.Fatalf("setCrowdingDistance failed: %v", err)
	}
	for _, i := range []int{1, 2} {
		// (2/3) per objective for evenly spaced interior points
		if got := front[i].CrowdingDistance(); math.Abs(got-4.0/3) > 1e-12 {
			t.Errorf("Interior point %d: expected 4/3, got %g", i, got)
		}
		if got := front[i].CrowdingDistance(); got < 0 || got == crowdingSentinel {
			t.Errorf("Interior point %d has an invalid distance %g", i, got)
		}
	}
}

func TestNSGA2Validation(t *testing.T) {
	problem, err := problems.NewSCH()
	if err != nil {
		t.Fatalf("NewSCH failed: %v", err)
	}
	if _, err := NewNSGA2(problem, Options{NumberOfIndividuals: 1, StoppingCondition: MaxGeneration(1)}); err == nil {
		t.Error("Expected an error for a population of 1")
	}
	if _, err := NewNSGA2(problem, Options{NumberOfIndividuals: 10}); err == nil {
		t.Error("Expected an error for a missing stopping condition")
	}
}

func runSCH(t *testing.T, seed uint64, generations int) *NSGA2 {
	t.Helper()
	problem, err := problems.NewSCH()
	if err != nil {
		t.Fatalf("NewSCH failed: %v", err)
	}
	engine, err := NewNSGA2(problem, Options{
		NumberOfIndividuals: 20,
		StoppingCondition:   MaxGeneration(generations),
		Seed:                &seed,
	})
	if err != nil {
		t.Fatalf("NewNSGA2 failed: %v", err)
	}
	if err := Run(engine); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return engine
}

func TestNSGA2PopulationInvariants(t *testing.T) {
	engine := runSCH(t, 10, 10)

	population := engine.Population()
	if population.Len() != 20 {
		t.Fatalf("Expected a population of 20, got %d", population.Len())
	}
	if engine.Generation() != 10 {
		t.Fatalf("Expected 10 generations, got %d", engine.Generation())
	}
	for i, ind := range population.Individuals() {
		if !ind.IsEvaluated() {
			t.Errorf("Individual %d is not evaluated", i)
		}
		if cv := ind.ConstraintViolation(); math.IsNaN(cv) || math.IsInf(cv, 0) || cv < 0 {
			t.Errorf("Individual %d has an invalid constraint violation %g", i, cv)
		}
		if ind.Rank() < 1 {
			t.Errorf("Individual %d has no rank", i)
		}
	}
}

func TestNSGA2DeterminismForASeed(t *testing.T) {
	first := runSCH(t, 10, 5)
	second := runSCH(t, 10, 5)

	a := first.Population().Individuals()
	b := second.Population().Individuals()
	if len(a) != len(b) {
		t.Fatalf("Population sizes differ: %d != %d", len(a), len(b))
	}
	for i := range a {
		valueA, _ := a[i].RealValue("x")
		valueB, _ := b[i].RealValue("x")
		if valueA != valueB {
			t.Fatalf("Individual %d diverged between identical runs: %g != %g", i, valueA, valueB)
		}
	}
}

func TestNSGA2ConvergesTowardsTheSCHFront(t *testing.T) {
	engine := runSCH(t, 10, 60)

	// rank-1 solutions of SCH lie in [0, 2]; allow slack for the short
	// run
	for _, ind := range engine.Population().Individuals() {
		if ind.Rank() != 1 {
			continue
		}
		x, err := ind.RealValue("x")
		if err != nil {
			t.Fatalf("RealValue failed: %v", err)
		}
		if x < -1 || x > 3 {
			t.Errorf("Front solution x=%g is far from the Pareto set [0, 2]", x)
		}
	}
}
