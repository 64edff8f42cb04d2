// Package metrics provides quality indicators for evolved fronts. The
// main entry point is HyperVolume, which measures the objective-space
// region dominated by a set of solutions and bounded by a reference
// point. The indicator is used for reporting and convergence checks only;
// it never runs inside the selection loop.
package metrics

import (
	"fmt"
	"math"

	"github.com/evolvekit/evolvekit/core"
	"github.com/evolvekit/evolvekit/operators"
)

// HyperVolume computes the exact hypervolume of the non-dominated subset
// of the individuals against the reference point. The method is picked by
// the number of objectives: a rectangle sweep for 2, the Fonseca et al.
// (2006) dimension sweep for 3 and the While et al. (2012) WFG algorithm
// for 4 or more.
//
// The reference point uses the user's sign convention and must strictly
// dominate every individual on every objective; a violation is an error,
// not a clamp.
func HyperVolume(individuals []*core.Individual, referencePoint []float64) (float64, error) {
	if len(individuals) == 0 {
		return 0, fmt.Errorf("there are no individuals to measure")
	}
	problem := individuals[0].Problem()
	k := problem.NumberOfObjectives()
	if k < 2 {
		return 0, fmt.Errorf("the hypervolume needs a problem with at least 2 objectives")
	}
	if len(referencePoint) != k {
		return 0, fmt.Errorf("the reference point has %d coordinates but the problem has %d objectives", len(referencePoint), k)
	}

	// work on minimised coordinates: stored objective values are already
	// minimised, the reference point still carries the user sign
	ref := make([]float64, k)
	for j, o := range problem.Objectives() {
		ref[j] = referencePoint[j]
		if o.Direction() == core.Maximise {
			ref[j] = -ref[j]
		}
	}

	for idx, ind := range individuals {
		values, err := ind.ObjectiveValues()
		if err != nil {
			return 0, err
		}
		for j, v := range values {
			if math.IsNaN(v) {
				return 0, fmt.Errorf("NaN detected in objective #%d of individual #%d", j+1, idx)
			}
			if v >= ref[j] {
				o := problem.Objectives()[j]
				side := "larger"
				if o.Direction() == core.Maximise {
					side = "smaller"
				}
				return 0, fmt.Errorf(
					"the reference point coordinate #%d (%g) must be strictly %s than every value of objective %q",
					j+1, referencePoint[j], side, o.Name())
			}
		}
	}

	front := individuals
	if len(individuals) >= 2 {
		result, err := operators.FastNonDominatedSort(individuals, true)
		if err != nil {
			return 0, err
		}
		front = result.Fronts[0]
	}

	points := make([][]float64, len(front))
	for i, ind := range front {
		values, err := ind.ObjectiveValues()
		if err != nil {
			return 0, err
		}
		points[i] = values
	}

	switch k {
	case 2:
		return hv2D(points, ref), nil
	case 3:
		return hv3D(points, ref), nil
	default:
		return wfgHyperVolume(points, ref)
	}
}

// EstimateReferencePoint returns a point dominated by every individual:
// the per-objective maximum (minimum when the objective is maximised),
// optionally pushed further by a per-objective offset. The result uses the
// user's sign convention.
func EstimateReferencePoint(individuals []*core.Individual, offset []float64) ([]float64, error) {
	if len(individuals) == 0 {
		return nil, fmt.Errorf("there are no individuals to estimate the reference point from")
	}
	problem := individuals[0].Problem()
	if offset != nil && len(offset) != problem.NumberOfObjectives() {
		return nil, fmt.Errorf("the offset size (%d) must match the number of problem objectives (%d)",
			len(offset), problem.NumberOfObjectives())
	}

	point := make([]float64, 0, problem.NumberOfObjectives())
	for j, name := range problem.ObjectiveNames() {
		worst := math.Inf(-1)
		for _, ind := range individuals {
			v, err := ind.ObjectiveValue(name)
			if err != nil {
				return nil, err
			}
			if v > worst {
				worst = v
			}
		}
		// stored values are minimised, so the stored maximum is the user
		// minimum for a maximised objective
		minimised, err := problem.IsObjectiveMinimised(name)
		if err != nil {
			return nil, err
		}
		sign := 1.0
		if !minimised {
			sign = -1.0
		}
		coordinate := sign * worst
		if offset != nil {
			coordinate += sign * offset[j]
		}
		point = append(point, coordinate)
	}
	return point, nil
}
