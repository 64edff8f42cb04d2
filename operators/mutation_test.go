package operators

import (
	"testing"

	"github.com/evolvekit/evolvekit/core"
)

func TestNewPolynomialMutationValidation(t *testing.T) {
	if _, err := NewPolynomialMutation(PMOptions{DistributionIndex: -1, VariableProbability: 0.5}); err == nil {
		t.Error("Expected an error for a negative distribution index")
	}
	if _, err := NewPolynomialMutation(PMOptions{DistributionIndex: 20, VariableProbability: 1.5}); err == nil {
		t.Error("Expected an error for a probability above 1")
	}
}

func TestPolynomialMutationStaysInBounds(t *testing.T) {
	problem := mixedProblem(t)
	ind := core.NewIndividual(problem)
	ind.UpdateVariable("var1", 999.0)
	ind.UpdateVariable("var2", int64(20))

	pm, err := NewPolynomialMutation(PMOptions{DistributionIndex: 1, VariableProbability: 1})
	if err != nil {
		t.Fatalf("NewPolynomialMutation failed: %v", err)
	}

	rng := core.NewRand(3)
	for i := 0; i < 200; i++ {
		mutated, err := pm.Mutate(ind, rng)
		if err != nil {
			t.Fatalf("Mutate failed: %v", err)
		}
		v, _ := mutated.RealValue("var1")
		if v < 0 || v > 1000 {
			t.Fatalf("Mutated value %g out of bounds", v)
		}
		n, _ := mutated.IntegerValue("var2")
		if n < -10 || n > 20 {
			t.Fatalf("Mutated integer %d out of bounds", n)
		}
	}
}

func TestPolynomialMutationFlipsBooleans(t *testing.T) {
	x := core.NewBooleanVariable("flag")
	choice, _ := core.NewChoiceVariable("mode", []string{"a", "b", "c"})
	problem, err := core.NewProblem(
		[]core.Objective{core.NewObjective("obj1", core.Minimise)},
		[]core.Variable{x, choice},
		nil,
		nopEvaluator{},
	)
	if err != nil {
		t.Fatalf("NewProblem failed: %v", err)
	}

	ind := core.NewIndividual(problem)
	ind.UpdateVariable("flag", true)
	ind.UpdateVariable("mode", "a")

	pm, _ := NewPolynomialMutation(PMOptions{DistributionIndex: 20, VariableProbability: 1})
	mutated, err := pm.Mutate(ind, core.NewRand(1))
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	flipped, _ := mutated.BooleanValue("flag")
	if flipped {
		t.Error("A boolean variable must flip when the probability is 1")
	}
	if _, err := mutated.ChoiceValue("mode"); err != nil {
		t.Errorf("The choice variable must stay valid: %v", err)
	}
}

func TestPolynomialMutationZeroProbabilityKeepsValues(t *testing.T) {
	problem := mixedProblem(t)
	ind := core.NewIndividual(problem)
	ind.UpdateVariable("var1", 123.0)
	ind.UpdateVariable("var2", int64(7))

	pm, _ := NewPolynomialMutation(PMOptions{DistributionIndex: 20, VariableProbability: 0})
	mutated, err := pm.Mutate(ind, core.NewRand(1))
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	v, _ := mutated.RealValue("var1")
	n, _ := mutated.IntegerValue("var2")
	if v != 123 || n != 7 {
		t.Errorf("Values changed with a zero probability: %g, %d", v, n)
	}
}
