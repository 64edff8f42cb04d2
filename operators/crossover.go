package operators

import (
	"math"

	"github.com/evolvekit/evolvekit/core"
)

// Children holds the two offspring produced by a crossover.
type Children struct {
	First  *core.Individual
	Second *core.Individual
}

// Crossover recombines the genetic material of two parents into two
// children.
type Crossover interface {
	Offspring(parent1, parent2 *core.Individual, rng *core.Rand) (*Children, error)
}

// SBXOptions configures the simulated binary crossover.
type SBXOptions struct {
	// DistributionIndex is eta_c: larger values keep children close to
	// their parents.
	DistributionIndex float64
	// CrossoverProbability is the chance that a parent pair mates at all.
	CrossoverProbability float64
	// VariableProbability is the per-variable chance of taking part in
	// the crossover.
	VariableProbability float64
}

// DefaultSBXOptions returns the operator defaults: distribution index 15,
// crossover probability 0.9 and variable probability 0.5.
func DefaultSBXOptions() SBXOptions {
	return SBXOptions{
		DistributionIndex:    15,
		CrossoverProbability: 0.9,
		VariableProbability:  0.5,
	}
}

// SimulatedBinaryCrossover implements SBX (Deb et al.) for bounded real
// and integer variables, with a value swap for boolean and choice
// variables. Integer values use the truncation procedure from Deep et al.
// (2009).
type SimulatedBinaryCrossover struct {
	distributionIndex    float64
	crossoverProbability float64
	variableProbability  float64
}

// NewSimulatedBinaryCrossover validates the options and builds the
// operator.
func NewSimulatedBinaryCrossover(opts SBXOptions) (*SimulatedBinaryCrossover, error) {
	if opts.DistributionIndex < 0 {
		return nil, &core.ValidationError{Field: "DistributionIndex", Reason: "must not be negative"}
	}
	if opts.CrossoverProbability < 0 || opts.CrossoverProbability > 1 {
		return nil, &core.ValidationError{Field: "CrossoverProbability", Reason: "must be between 0 and 1"}
	}
	if opts.VariableProbability < 0 || opts.VariableProbability > 1 {
		return nil, &core.ValidationError{Field: "VariableProbability", Reason: "must be between 0 and 1"}
	}
	return &SimulatedBinaryCrossover{
		distributionIndex:    opts.DistributionIndex,
		crossoverProbability: opts.CrossoverProbability,
		variableProbability:  opts.VariableProbability,
	}, nil
}

// Offspring generates two children. Parents that do not pass the crossover
// probability gate produce exact clones.
func (sbx *SimulatedBinaryCrossover) Offspring(parent1, parent2 *core.Individual, rng *core.Rand) (*Children, error) {
	child1 := parent1.CloneVariables()
	child2 := parent2.CloneVariables()
	problem := parent1.Problem()

	if rng.Float64() <= sbx.crossoverProbability {
		for _, variable := range problem.Variables() {
			if rng.Float64() > sbx.variableProbability {
				continue
			}
			name := variable.Name()
			switch v := variable.(type) {
			case *core.RealVariable:
				v1, err := parent1.RealValue(name)
				if err != nil {
					return nil, err
				}
				v2, err := parent2.RealValue(name)
				if err != nil {
					return nil, err
				}
				lower, upper := v.Bounds()
				new1, new2, ok := sbx.crossoverValues(v1, v2, lower, upper, rng)
				if !ok {
					continue
				}
				if err := child1.UpdateVariable(name, new1); err != nil {
					return nil, err
				}
				if err := child2.UpdateVariable(name, new2); err != nil {
					return nil, err
				}
			case *core.IntegerVariable:
				v1, err := parent1.IntegerValue(name)
				if err != nil {
					return nil, err
				}
				v2, err := parent2.IntegerValue(name)
				if err != nil {
					return nil, err
				}
				lower, upper := v.Bounds()
				new1, new2, ok := sbx.crossoverValues(float64(v1), float64(v2), float64(lower), float64(upper), rng)
				if !ok {
					continue
				}
				i1 := truncateToBounds(new1, lower, upper, rng)
				i2 := truncateToBounds(new2, lower, upper, rng)
				if err := child1.UpdateVariable(name, i1); err != nil {
					return nil, err
				}
				if err := child2.UpdateVariable(name, i2); err != nil {
					return nil, err
				}
			default:
				// boolean and choice variables swap their values between
				// the two children
				v1, err := parent1.VariableValue(name)
				if err != nil {
					return nil, err
				}
				v2, err := parent2.VariableValue(name)
				if err != nil {
					return nil, err
				}
				if err := child1.UpdateVariable(name, v2); err != nil {
					return nil, err
				}
				if err := child2.UpdateVariable(name, v1); err != nil {
					return nil, err
				}
			}
		}
	}

	return &Children{First: child1, Second: child2}, nil
}

// crossoverValues applies the bounded SBX recombination to one variable
// pair. It reports ok=false when the parent values are too close for the
// formula to apply.
func (sbx *SimulatedBinaryCrossover) crossoverValues(v1, v2, lower, upper float64, rng *core.Rand) (float64, float64, bool) {
	if math.Abs(v1-v2) < epsilon {
		return 0, 0, false
	}

	y1, y2 := v1, v2
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	deltaY := y2 - y1
	u := rng.Float64()

	// first child, spread towards the lower bound
	beta := 1 + 2*(y1-lower)/deltaY
	alpha := 2 - math.Pow(beta, -(sbx.distributionIndex+1))
	new1 := 0.5 * ((y1 + y2) - sbx.betaQ(u, alpha)*deltaY)
	new1 = math.Min(math.Max(new1, lower), upper)

	// second child, spread towards the upper bound
	beta = 1 + 2*(upper-y2)/deltaY
	alpha = 2 - math.Pow(beta, -(sbx.distributionIndex+1))
	new2 := 0.5 * ((y1 + y2) + sbx.betaQ(u, alpha)*deltaY)
	new2 = math.Min(math.Max(new2, lower), upper)

	if rng.Float64() < 0.5 {
		new1, new2 = new2, new1
	}
	return new1, new2, true
}

// betaQ is the spread factor of the bounded SBX formulation.
func (sbx *SimulatedBinaryCrossover) betaQ(u, alpha float64) float64 {
	if u <= 1/alpha {
		return math.Pow(u*alpha, 1/(sbx.distributionIndex+1))
	}
	return math.Pow(1/(2-u*alpha), 1/(sbx.distributionIndex+1))
}

// truncateToBounds converts a real crossover or mutation result to an
// integer with the Deep et al. (2009) procedure: truncate, then add one
// with probability 0.5, clamped to the variable bounds.
func truncateToBounds(value float64, lower, upper int64, rng *core.Rand) int64 {
	truncated := int64(math.Trunc(value))
	if rng.Float64() < 0.5 {
		truncated++
	}
	if truncated < lower {
		truncated = lower
	}
	if truncated > upper {
		truncated = upper
	}
	return truncated
}

// epsilon is the minimum difference between two parent values for the SBX
// formula to apply.
const epsilon = 1e-14
