package operators

import (
	"math"

	"github.com/evolvekit/evolvekit/core"
)

// Mutation perturbs the genetic material of one individual.
type Mutation interface {
	Mutate(ind *core.Individual, rng *core.Rand) (*core.Individual, error)
}

// PMOptions configures the polynomial mutation.
type PMOptions struct {
	// DistributionIndex is eta_m; the paper suggests values in [20, 100].
	DistributionIndex float64
	// VariableProbability is the per-variable mutation chance.
	VariableProbability float64
}

// DefaultPMOptions returns the operator defaults for a problem: a
// distribution index of 20 and a variable probability of 1 divided by the
// number of variables.
func DefaultPMOptions(problem *core.Problem) PMOptions {
	return PMOptions{
		DistributionIndex:   20,
		VariableProbability: 1 / float64(problem.NumberOfVariables()),
	}
}

// PolynomialMutation implements the polynomial mutation (Deb & Deb 2014)
// for bounded real and integer variables; boolean variables flip and
// choice variables resample with the variable probability.
type PolynomialMutation struct {
	distributionIndex   float64
	variableProbability float64
}

// NewPolynomialMutation validates the options and builds the operator.
func NewPolynomialMutation(opts PMOptions) (*PolynomialMutation, error) {
	if opts.DistributionIndex < 0 {
		return nil, &core.ValidationError{Field: "DistributionIndex", Reason: "must not be negative"}
	}
	if opts.VariableProbability < 0 || opts.VariableProbability > 1 {
		return nil, &core.ValidationError{Field: "VariableProbability", Reason: "must be between 0 and 1"}
	}
	return &PolynomialMutation{
		distributionIndex:   opts.DistributionIndex,
		variableProbability: opts.VariableProbability,
	}, nil
}

// Mutate returns a mutated copy of the individual.
func (pm *PolynomialMutation) Mutate(ind *core.Individual, rng *core.Rand) (*core.Individual, error) {
	mutated := ind.CloneVariables()
	problem := ind.Problem()

	for _, variable := range problem.Variables() {
		if rng.Float64() > pm.variableProbability {
			continue
		}
		name := variable.Name()
		switch v := variable.(type) {
		case *core.RealVariable:
			y, err := ind.RealValue(name)
			if err != nil {
				return nil, err
			}
			lower, upper := v.Bounds()
			if err := mutated.UpdateVariable(name, pm.mutateValue(y, lower, upper, rng)); err != nil {
				return nil, err
			}
		case *core.IntegerVariable:
			y, err := ind.IntegerValue(name)
			if err != nil {
				return nil, err
			}
			lower, upper := v.Bounds()
			newY := pm.mutateValue(float64(y), float64(lower), float64(upper), rng)
			if err := mutated.UpdateVariable(name, truncateToBounds(newY, lower, upper, rng)); err != nil {
				return nil, err
			}
		case *core.BooleanVariable:
			b, err := ind.BooleanValue(name)
			if err != nil {
				return nil, err
			}
			if err := mutated.UpdateVariable(name, !b); err != nil {
				return nil, err
			}
		case *core.ChoiceVariable:
			if err := mutated.UpdateVariable(name, v.Sample(rng)); err != nil {
				return nil, err
			}
		}
	}

	return mutated, nil
}

// mutateValue perturbs a real value with the bounded polynomial
// distribution and clips the result to [lower, upper].
func (pm *PolynomialMutation) mutateValue(y, lower, upper float64, rng *core.Rand) float64 {
	deltaY := upper - lower
	if deltaY <= 0 {
		return y
	}
	u := rng.Float64()

	var delta float64
	if u <= 0.5 {
		bl := (y - lower) / deltaY
		b := 2*u + (1-2*u)*math.Pow(1-bl, pm.distributionIndex+1)
		delta = math.Pow(b, 1/(pm.distributionIndex+1)) - 1
	} else {
		bu := (upper - y) / deltaY
		b := 2*(1-u) + 2*(u-0.5)*math.Pow(1-bu, pm.distributionIndex+1)
		delta = 1 - math.Pow(b, 1/(pm.distributionIndex+1))
	}

	newY := y + delta*deltaY
	return math.Min(math.Max(newY, lower), upper)
}
