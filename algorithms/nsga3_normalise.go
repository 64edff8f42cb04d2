package algorithms

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/evolvekit/evolvekit/core"
)

// asfWeight is the small weight component used by the achievement
// scalarising function when picking the extreme point of an axis.
const asfWeight = 1e-6

// interceptThreshold rejects hyperplane intercepts too close to zero; the
// per-axis maxima are used instead.
const interceptThreshold = 1e-3

// normalisePopulation implements "Algorithm 2" of Deb & Jain (2014): the
// ideal point is updated with the minima of the current pool, every
// objective vector is translated by it and then scaled by the intercepts
// of the hyperplane through the extreme points. The normalised vectors
// are stored on the individuals; the ideal point is updated in place and
// carries over to the next generation.
func normalisePopulation(idealPoint []float64, individuals []*core.Individual) error {
	if len(individuals) == 0 {
		return fmt.Errorf("there are no individuals to normalise")
	}
	problem := individuals[0].Problem()
	k := problem.NumberOfObjectives()

	// update the ideal point with the minima seen in this pool
	for j, name := range problem.ObjectiveNames() {
		for _, ind := range individuals {
			v, err := ind.ObjectiveValue(name)
			if err != nil {
				return err
			}
			if v < idealPoint[j] {
				idealPoint[j] = v
			}
		}
	}

	// translate all objective vectors
	for _, ind := range individuals {
		values, err := ind.ObjectiveValues()
		if err != nil {
			return err
		}
		translated := make([]float64, k)
		for j, v := range values {
			translated[j] = v - idealPoint[j]
		}
		ind.SetNormalisedObjectives(translated)
	}

	// extreme point of each axis: the individual minimising the
	// achievement scalarising function with the axis unit weight
	extremePoints := make([][]float64, k)
	for j := range k {
		weights := make([]float64, k)
		for w := range weights {
			weights[w] = asfWeight
		}
		weights[j] = 1

		best := math.Inf(1)
		bestIndex := 0
		for i, ind := range individuals {
			value := asf(ind.NormalisedObjectives(), weights)
			if value < best {
				best = value
				bestIndex = i
			}
		}
		extremePoints[j] = individuals[bestIndex].NormalisedObjectives()
	}

	intercepts, ok := planeIntercepts(extremePoints)
	if !ok {
		intercepts = maxTranslatedObjectives(individuals, k)
		slog.Warn("Singular extreme point system, falling back to per-axis maxima", "intercepts", intercepts)
	}

	// scale the translated objectives by the intercepts
	for _, ind := range individuals {
		normalised := ind.NormalisedObjectives()
		for j := range normalised {
			normalised[j] /= intercepts[j]
		}
		ind.SetNormalisedObjectives(normalised)
	}
	return nil
}

// asf is the achievement scalarising function: the maximum of the
// translated objectives divided by the weights.
func asf(translated, weights []float64) float64 {
	value := math.Inf(-1)
	for i, t := range translated {
		if v := t / weights[i]; v > value {
			value = v
		}
	}
	return value
}

// planeIntercepts solves the linear system through the extreme points
// (one row per point, right-hand side of ones) and returns the axis
// intercepts as the inverse plane coefficients. ok is false when the
// system is singular or an intercept falls below the threshold.
func planeIntercepts(extremePoints [][]float64) ([]float64, bool) {
	k := len(extremePoints)
	flat := make([]float64, 0, k*k)
	for _, p := range extremePoints {
		flat = append(flat, p...)
	}
	a := mat.NewDense(k, k, flat)

	ones := make([]float64, k)
	for i := range ones {
		ones[i] = 1
	}
	b := mat.NewVecDense(k, ones)

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, false
	}

	intercepts := make([]float64, k)
	for j := range k {
		coefficient := x.AtVec(j)
		if coefficient == 0 || math.IsNaN(coefficient) || math.IsInf(coefficient, 0) {
			return nil, false
		}
		intercepts[j] = 1 / coefficient
		if intercepts[j] < interceptThreshold {
			return nil, false
		}
	}
	return intercepts, true
}

// maxTranslatedObjectives is the intercept fallback: the per-axis maximum
// of the translated objectives, floored away from zero.
func maxTranslatedObjectives(individuals []*core.Individual, k int) []float64 {
	const machineEpsilon = 2.220446049250313e-16
	maxima := make([]float64, k)
	for j := range k {
		maxima[j] = machineEpsilon
		for _, ind := range individuals {
			if v := ind.NormalisedObjectives()[j]; v > maxima[j] {
				maxima[j] = v
			}
		}
	}
	return maxima
}
