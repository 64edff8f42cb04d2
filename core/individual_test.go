package core

import (
	"encoding/json"
	"math"
	"testing"
)

func twoObjectiveProblem(t *testing.T) *Problem {
	t.Helper()
	x, _ := NewRealVariable("x", -10, 10)
	n, _ := NewIntegerVariable("n", 0, 5)
	g, err := NewConstraint("g", LessOrEqualTo, 1)
	if err != nil {
		t.Fatalf("NewConstraint failed: %v", err)
	}
	problem, err := NewProblem(
		[]Objective{NewObjective("cost", Minimise), NewObjective("profit", Maximise)},
		[]Variable{x, n},
		[]Constraint{g},
		nopEvaluator{},
	)
	if err != nil {
		t.Fatalf("NewProblem failed: %v", err)
	}
	return problem
}

func TestMaximisedObjectiveIsStoredNegated(t *testing.T) {
	ind := NewIndividual(twoObjectiveProblem(t))
	if err := ind.UpdateObjective("profit", 3.5); err != nil {
		t.Fatalf("UpdateObjective failed: %v", err)
	}
	stored, err := ind.ObjectiveValue("profit")
	if err != nil {
		t.Fatalf("ObjectiveValue failed: %v", err)
	}
	if stored != -3.5 {
		t.Errorf("Expected the stored value -3.5, got %g", stored)
	}

	export := ind.Serialise()
	if export.ObjectiveValues["profit"] != 3.5 {
		t.Errorf("Expected the user sign restored on export, got %g", export.ObjectiveValues["profit"])
	}
}

func TestUpdateObjectiveRejectsNonFinite(t *testing.T) {
	ind := NewIndividual(twoObjectiveProblem(t))
	if err := ind.UpdateObjective("cost", math.NaN()); err == nil {
		t.Fatal("Expected an error for a NaN objective")
	}
	if err := ind.UpdateObjective("cost", math.Inf(1)); err == nil {
		t.Fatal("Expected an error for an infinite objective")
	}
	if err := ind.UpdateObjective("unknown", 1); err == nil {
		t.Fatal("Expected an error for an unknown objective")
	}
}

func TestConstraintViolationAndFeasibility(t *testing.T) {
	ind := NewIndividual(twoObjectiveProblem(t))
	if err := ind.UpdateConstraint("g", 0.5); err != nil {
		t.Fatalf("UpdateConstraint failed: %v", err)
	}
	if !ind.IsFeasible() {
		t.Error("Expected a feasible individual")
	}
	if err := ind.UpdateConstraint("g", 3); err != nil {
		t.Fatalf("UpdateConstraint failed: %v", err)
	}
	if ind.IsFeasible() {
		t.Error("Expected an infeasible individual")
	}
	if cv := ind.ConstraintViolation(); cv != 2 {
		t.Errorf("Expected a violation of 2, got %g", cv)
	}
}

func TestSerialiseRoundTripThroughJSON(t *testing.T) {
	problem := twoObjectiveProblem(t)
	rng := NewRand(3)
	ind := NewRandomIndividual(problem, rng)
	if err := ind.UpdateObjective("cost", 1.25); err != nil {
		t.Fatalf("UpdateObjective failed: %v", err)
	}
	if err := ind.UpdateObjective("profit", -0.5); err != nil {
		t.Fatalf("UpdateObjective failed: %v", err)
	}
	if err := ind.UpdateConstraint("g", 0); err != nil {
		t.Fatalf("UpdateConstraint failed: %v", err)
	}
	ind.SetEvaluated()
	ind.SetRank(2)
	ind.SetCrowdingDistance(math.Inf(1))

	// through JSON, as the history exporter would write it
	data, err := json.Marshal(ind.Serialise())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var export IndividualExport
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	rebuilt, err := DeserialiseIndividual(&export, problem)
	if err != nil {
		t.Fatalf("DeserialiseIndividual failed: %v", err)
	}

	for _, name := range []string{"cost", "profit"} {
		before, _ := ind.ObjectiveValue(name)
		after, _ := rebuilt.ObjectiveValue(name)
		if before != after {
			t.Errorf("Objective %s changed in the round trip: %g != %g", name, before, after)
		}
	}
	xBefore, _ := ind.RealValue("x")
	xAfter, err := rebuilt.RealValue("x")
	if err != nil {
		t.Fatalf("RealValue failed after the round trip: %v", err)
	}
	if xBefore != xAfter {
		t.Errorf("Variable x changed in the round trip: %g != %g", xBefore, xAfter)
	}
	nBefore, _ := ind.IntegerValue("n")
	nAfter, err := rebuilt.IntegerValue("n")
	if err != nil {
		t.Fatalf("IntegerValue failed after the round trip: %v", err)
	}
	if nBefore != nAfter {
		t.Errorf("Variable n changed in the round trip: %d != %d", nBefore, nAfter)
	}
	if !rebuilt.IsEvaluated() {
		t.Error("Evaluated flag lost in the round trip")
	}
	if rebuilt.Rank() != 2 {
		t.Errorf("Rank lost in the round trip: %d", rebuilt.Rank())
	}
	if rebuilt.CrowdingDistance() != math.MaxFloat64 {
		t.Errorf("Expected the infinite crowding distance clamped to the largest finite value, got %g", rebuilt.CrowdingDistance())
	}
}

func TestCloneVariablesDropsEvaluation(t *testing.T) {
	problem := twoObjectiveProblem(t)
	ind := NewRandomIndividual(problem, NewRand(1))
	if err := ind.UpdateObjective("cost", 1); err != nil {
		t.Fatalf("UpdateObjective failed: %v", err)
	}
	ind.SetEvaluated()

	child := ind.CloneVariables()
	if child.IsEvaluated() {
		t.Error("A cloned child must not carry the evaluated flag")
	}
	if _, err := child.ObjectiveValue("cost"); err == nil {
		t.Error("A cloned child must not carry objective values")
	}
	xParent, _ := ind.RealValue("x")
	xChild, _ := child.RealValue("x")
	if xParent != xChild {
		t.Error("A cloned child must carry the parent variables")
	}
}
