package algorithms

import (
	"fmt"
	"math"

	"github.com/evolvekit/evolvekit/core"
)

// associateToReferencePoints implements "Algorithm 3" of Deb & Jain
// (2014): every individual is linked to the reference point whose line
// through the origin lies closest to its normalised objective vector. The
// index and the perpendicular distance are stored on the individual.
func associateToReferencePoints(individuals []*core.Individual, referencePoints [][]float64) error {
	if len(referencePoints) == 0 {
		return fmt.Errorf("there are no reference points to associate with")
	}
	for _, point := range referencePoints {
		for _, c := range point {
			if c < 0 || c > 1 {
				return fmt.Errorf("the reference point %v has coordinates outside [0, 1]", point)
			}
		}
	}

	for _, ind := range individuals {
		objectives := ind.NormalisedObjectives()
		if objectives == nil {
			return fmt.Errorf("an individual has no normalised objectives; run the normalisation first")
		}
		bestIndex := 0
		bestDistance := math.Inf(1)
		for j, point := range referencePoints {
			d, err := perpendicularDistance(point, objectives)
			if err != nil {
				return err
			}
			if d < bestDistance {
				bestDistance = d
				bestIndex = j
			}
		}
		ind.SetAssociation(bestIndex, bestDistance)
	}
	return nil
}

// perpendicularDistance returns the distance between a point and the line
// through the origin with the given direction.
func perpendicularDistance(line, point []float64) (float64, error) {
	if len(line) != len(point) {
		return 0, fmt.Errorf("the line direction has %d components but the point has %d", len(line), len(point))
	}
	magnitude := 0.0
	for _, c := range line {
		magnitude += c * c
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		return 0, fmt.Errorf("the line direction has zero magnitude")
	}

	projection := 0.0
	for i := range line {
		projection += point[i] * line[i]
	}
	projection /= magnitude

	distance := 0.0
	for i := range line {
		component := projection*line[i]/magnitude - point[i]
		distance += component * component
	}
	return math.Sqrt(distance), nil
}
