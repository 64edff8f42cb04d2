// Package problems bundles classic multi-objective benchmark problems
// used by the CLI and the test suite: Schaffer's SCH, ZDT1 and DTLZ1.
package problems

import (
	"fmt"
	"math"

	"github.com/evolvekit/evolvekit/core"
)

// schEvaluator implements Schaffer's two-objective problem: f1 = x^2 and
// f2 = (x-2)^2 with x in [-1000, 1000]. The Pareto front lies at
// x in [0, 2].
type schEvaluator struct{}

func (schEvaluator) Evaluate(ind *core.Individual) (*core.Evaluation, error) {
	x, err := ind.RealValue("x")
	if err != nil {
		return nil, err
	}
	return &core.Evaluation{
		Objectives: map[string]float64{
			"f1": x * x,
			"f2": (x - 2) * (x - 2),
		},
	}, nil
}

// NewSCH builds the SCH problem.
func NewSCH() (*core.Problem, error) {
	x, err := core.NewRealVariable("x", -1000, 1000)
	if err != nil {
		return nil, err
	}
	return core.NewProblem(
		[]core.Objective{
			core.NewObjective("f1", core.Minimise),
			core.NewObjective("f2", core.Minimise),
		},
		[]core.Variable{x},
		nil,
		schEvaluator{},
	)
}

// zdt1Evaluator implements the ZDT1 problem with n variables in [0, 1].
// The Pareto-optimal front has g(x) = 1, reached when x2..xn are all
// zero.
type zdt1Evaluator struct {
	n int
}

func (e zdt1Evaluator) Evaluate(ind *core.Individual) (*core.Evaluation, error) {
	x := make([]float64, e.n)
	for i := range x {
		v, err := ind.RealValue(zdt1VariableName(i))
		if err != nil {
			return nil, err
		}
		x[i] = v
	}

	f1 := x[0]
	sum := 0.0
	for _, v := range x[1:] {
		sum += v
	}
	g := 1 + 9*sum/float64(e.n-1)
	f2 := g * (1 - math.Sqrt(x[0]/g))

	return &core.Evaluation{
		Objectives: map[string]float64{"f1": f1, "f2": f2},
	}, nil
}

func zdt1VariableName(i int) string {
	return fmt.Sprintf("x%d", i+1)
}

// NewZDT1 builds the ZDT1 problem with the given number of variables.
func NewZDT1(variables int) (*core.Problem, error) {
	if variables < 2 {
		return nil, &core.ValidationError{Field: "variables", Reason: "ZDT1 needs at least 2 variables"}
	}
	vars := make([]core.Variable, variables)
	for i := range vars {
		v, err := core.NewRealVariable(zdt1VariableName(i), 0, 1)
		if err != nil {
			return nil, err
		}
		vars[i] = v
	}
	return core.NewProblem(
		[]core.Objective{
			core.NewObjective("f1", core.Minimise),
			core.NewObjective("f2", core.Minimise),
		},
		vars,
		nil,
		zdt1Evaluator{n: variables},
	)
}

// dtlz1Evaluator implements the DTLZ1 problem for m objectives with
// m+k-1 variables. On the Pareto-optimal front the objectives sum to 0.5.
type dtlz1Evaluator struct {
	objectives int
	variables  int
}

func (e dtlz1Evaluator) Evaluate(ind *core.Individual) (*core.Evaluation, error) {
	x := make([]float64, e.variables)
	for i := range x {
		v, err := ind.RealValue(dtlz1VariableName(i))
		if err != nil {
			return nil, err
		}
		x[i] = v
	}

	// distance function over the last k variables
	g := 0.0
	for _, v := range x[e.objectives-1:] {
		g += (v-0.5)*(v-0.5) - math.Cos(20*math.Pi*(v-0.5))
	}
	g = 100 * (float64(e.variables-e.objectives+1) + g)

	objectives := make(map[string]float64, e.objectives)
	for m := range e.objectives {
		f := 0.5 * (1 + g)
		for i := 0; i < e.objectives-1-m; i++ {
			f *= x[i]
		}
		if m > 0 {
			f *= 1 - x[e.objectives-1-m]
		}
		objectives[dtlz1ObjectiveName(m)] = f
	}

	return &core.Evaluation{Objectives: objectives}, nil
}

func dtlz1VariableName(i int) string {
	return fmt.Sprintf("x%d", i+1)
}

func dtlz1ObjectiveName(m int) string {
	return fmt.Sprintf("f%d", m+1)
}

// NewDTLZ1 builds the DTLZ1 problem with the given number of objectives
// and a distance subspace of k variables (m+k-1 variables in total). The
// common 3-objective instance uses k=5 for 7 variables.
func NewDTLZ1(objectives, k int) (*core.Problem, error) {
	if objectives < 2 {
		return nil, &core.ValidationError{Field: "objectives", Reason: "DTLZ1 needs at least 2 objectives"}
	}
	if k < 1 {
		return nil, &core.ValidationError{Field: "k", Reason: "must be at least 1"}
	}

	variables := objectives + k - 1
	vars := make([]core.Variable, variables)
	for i := range vars {
		v, err := core.NewRealVariable(dtlz1VariableName(i), 0, 1)
		if err != nil {
			return nil, err
		}
		vars[i] = v
	}
	objs := make([]core.Objective, objectives)
	for m := range objs {
		objs[m] = core.NewObjective(dtlz1ObjectiveName(m), core.Minimise)
	}
	return core.NewProblem(objs, vars, nil, dtlz1Evaluator{objectives: objectives, variables: variables})
}
