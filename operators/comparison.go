// Package operators provides the genetic operators and dominance machinery
// shared by the selection engines: Pareto-constrained dominance, fast
// non-dominated sorting, simulated binary crossover, polynomial mutation
// and tournament selection.
package operators

import (
	"github.com/evolvekit/evolvekit/core"
)

// Preference is the outcome of comparing two candidate solutions.
type Preference int

const (
	// PreferFirst means the first solution wins the comparison.
	PreferFirst Preference = iota
	// PreferSecond means the second solution wins the comparison.
	PreferSecond
	// MutuallyPreferred means neither solution dominates the other.
	MutuallyPreferred
)

// Comparison selects the better of two solutions.
type Comparison interface {
	Compare(a, b *core.Individual) (Preference, error)
}

// ParetoConstrainedDominance implements constraint-aware Pareto dominance
// (Deb 2002): a feasible solution beats an infeasible one; between two
// infeasible solutions the smaller total violation wins; otherwise the
// plain Pareto rule over the minimised objectives decides.
type ParetoConstrainedDominance struct{}

// Compare returns the dominance relation between a and b.
func (ParetoConstrainedDominance) Compare(a, b *core.Individual) (Preference, error) {
	problem := a.Problem()
	if problem.NumberOfConstraints() > 0 {
		cvA := a.ConstraintViolation()
		cvB := b.ConstraintViolation()
		if cvA != cvB {
			switch {
			case a.IsFeasible():
				return PreferFirst, nil
			case b.IsFeasible():
				return PreferSecond, nil
			case cvA < cvB:
				return PreferFirst, nil
			default:
				return PreferSecond, nil
			}
		}
	}

	relation := MutuallyPreferred
	for _, name := range problem.ObjectiveNames() {
		objA, err := a.ObjectiveValue(name)
		if err != nil {
			return MutuallyPreferred, err
		}
		objB, err := b.ObjectiveValue(name)
		if err != nil {
			return MutuallyPreferred, err
		}
		if objA < objB {
			if relation == PreferSecond {
				return MutuallyPreferred, nil
			}
			relation = PreferFirst
		} else if objA > objB {
			if relation == PreferFirst {
				return MutuallyPreferred, nil
			}
			relation = PreferSecond
		}
	}
	return relation, nil
}

// CrowdedComparison is the NSGA-II tournament operator: a lower front rank
// wins; within the same rank the larger crowding distance wins.
type CrowdedComparison struct{}

// Compare returns the preference between a and b by rank, then crowding
// distance.
func (CrowdedComparison) Compare(a, b *core.Individual) (Preference, error) {
	switch {
	case a.Rank() < b.Rank():
		return PreferFirst, nil
	case a.Rank() > b.Rank():
		return PreferSecond, nil
	case a.CrowdingDistance() > b.CrowdingDistance():
		return PreferFirst, nil
	case a.CrowdingDistance() < b.CrowdingDistance():
		return PreferSecond, nil
	default:
		return MutuallyPreferred, nil
	}
}
