package algorithms

import (
	"fmt"
	"time"

	"github.com/evolvekit/evolvekit/core"
	"github.com/evolvekit/evolvekit/metrics"
)

// RunState is the information a stopping condition can inspect at a
// generation boundary.
type RunState struct {
	Generation          int
	Elapsed             time.Duration
	FunctionEvaluations int
	Population          *core.Population
}

// StoppingCondition decides when the generation loop terminates. The
// driver checks it only at generation boundaries, so a duration bound is
// soft: the running generation always finishes first.
type StoppingCondition interface {
	IsMet(state *RunState) (bool, error)
	Name() string
}

// MaxGeneration stops after the given number of generations.
type MaxGeneration int

// IsMet reports whether the generation target was reached.
func (m MaxGeneration) IsMet(state *RunState) (bool, error) {
	return state.Generation >= int(m), nil
}

// Name returns a description of the condition.
func (m MaxGeneration) Name() string {
	return fmt.Sprintf("maximum number of generations (%d)", int(m))
}

// MaxDuration stops once the elapsed wall-clock time exceeds the bound.
type MaxDuration time.Duration

// IsMet reports whether the duration bound was exceeded.
func (m MaxDuration) IsMet(state *RunState) (bool, error) {
	return state.Elapsed >= time.Duration(m), nil
}

// Name returns a description of the condition.
func (m MaxDuration) Name() string {
	return fmt.Sprintf("maximum duration (%s)", time.Duration(m))
}

// MaxFunctionEvaluations stops after the given number of evaluator calls.
type MaxFunctionEvaluations int

// IsMet reports whether the evaluation budget was consumed.
func (m MaxFunctionEvaluations) IsMet(state *RunState) (bool, error) {
	return state.FunctionEvaluations >= int(m), nil
}

// Name returns a description of the condition.
func (m MaxFunctionEvaluations) Name() string {
	return fmt.Sprintf("maximum number of function evaluations (%d)", int(m))
}

// TargetHyperVolume stops once the population's hypervolume against the
// reference point reaches the target. Hypervolume failures (for example a
// reference point that stops dominating the front) abort the run.
type TargetHyperVolume struct {
	Target         float64
	ReferencePoint []float64
}

// IsMet measures the current hypervolume and compares it to the target.
func (t TargetHyperVolume) IsMet(state *RunState) (bool, error) {
	hv, err := metrics.HyperVolume(state.Population.Individuals(), t.ReferencePoint)
	if err != nil {
		return false, fmt.Errorf("failed to measure the hypervolume for the stopping check: %w", err)
	}
	return hv >= t.Target, nil
}

// Name returns a description of the condition.
func (t TargetHyperVolume) Name() string {
	return fmt.Sprintf("target hypervolume (%g)", t.Target)
}
