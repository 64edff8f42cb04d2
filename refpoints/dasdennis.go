// Package refpoints generates uniformly spaced reference points on the
// unit simplex with the Das & Dennis (1998) lattice, in one- or two-layer
// form. NSGA-III uses these points to guide the niching of the final
// front.
package refpoints

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/evolvekit/evolvekit/core"
)

// TwoLayerPartitions configures the two-layer construction for problems
// with many objectives, where a single dense lattice would need too many
// points.
type TwoLayerPartitions struct {
	// BoundaryLayer is the number of gaps in the outer point set.
	BoundaryLayer int
	// InnerLayer is the number of gaps in the inner point set.
	InnerLayer int
	// Scaling shrinks the inner set towards the simplex centroid. Must be
	// in (0, 1]; 0.5 when zero.
	Scaling float64
}

// DefaultInnerScaling is the inner layer scaling used when none is given.
const DefaultInnerScaling = 0.5

// DasDennis generates the simplex lattice for a number of objectives.
type DasDennis struct {
	numberOfObjectives int
	oneLayer           int
	twoLayer           *TwoLayerPartitions
}

// NewOneLayer creates a generator with a single lattice of the given
// number of partitions.
func NewOneLayer(numberOfObjectives, partitions int) (*DasDennis, error) {
	if numberOfObjectives < 2 {
		return nil, &core.ValidationError{Field: "numberOfObjectives", Reason: "must be at least 2"}
	}
	if partitions < 1 {
		return nil, &core.ValidationError{Field: "partitions", Reason: "must be at least 1"}
	}
	return &DasDennis{numberOfObjectives: numberOfObjectives, oneLayer: partitions}, nil
}

// NewTwoLayer creates a generator producing a boundary lattice plus an
// inner lattice scaled towards the simplex centroid.
func NewTwoLayer(numberOfObjectives int, layers TwoLayerPartitions) (*DasDennis, error) {
	if numberOfObjectives < 2 {
		return nil, &core.ValidationError{Field: "numberOfObjectives", Reason: "must be at least 2"}
	}
	if layers.BoundaryLayer < 1 || layers.InnerLayer < 1 {
		return nil, &core.ValidationError{Field: "layers", Reason: "both layers need at least 1 partition"}
	}
	if layers.Scaling == 0 {
		layers.Scaling = DefaultInnerScaling
	}
	if layers.Scaling < 0 || layers.Scaling > 1 {
		return nil, &core.ValidationError{Field: "Scaling", Reason: "must be in (0, 1]"}
	}
	return &DasDennis{numberOfObjectives: numberOfObjectives, twoLayer: &layers}, nil
}

// Count returns the number of points the generator produces: C(H+k-1,
// k-1) for one layer, the sum of both layers otherwise.
func (d *DasDennis) Count() uint64 {
	if d.twoLayer != nil {
		return binomialCoefficient(uint64(d.numberOfObjectives+d.twoLayer.BoundaryLayer-1), uint64(d.twoLayer.BoundaryLayer)) +
			binomialCoefficient(uint64(d.numberOfObjectives+d.twoLayer.InnerLayer-1), uint64(d.twoLayer.InnerLayer))
	}
	return binomialCoefficient(uint64(d.numberOfObjectives+d.oneLayer-1), uint64(d.oneLayer))
}

// Points generates the reference points. Every point has non-negative
// coordinates summing to 1; inner-layer points are scaled by s and shifted
// by (1-s)/k per coordinate so their centroid matches the simplex
// centroid.
func (d *DasDennis) Points() [][]float64 {
	if d.twoLayer == nil {
		return d.lattice(d.oneLayer)
	}

	points := d.lattice(d.twoLayer.BoundaryLayer)
	s := d.twoLayer.Scaling
	shift := (1 - s) / float64(d.numberOfObjectives)
	for _, inner := range d.lattice(d.twoLayer.InnerLayer) {
		scaled := make([]float64, len(inner))
		for i, c := range inner {
			scaled[i] = s*c + shift
		}
		points = append(points, scaled)
	}
	return points
}

// lattice produces all tuples (h_1, ..., h_k) of non-negative integers
// summing to the partition count, divided by that count.
func (d *DasDennis) lattice(partitions int) [][]float64 {
	var points [][]float64
	weight := make([]int, d.numberOfObjectives)
	d.recurse(&points, weight, partitions, partitions, 0)
	return points
}

func (d *DasDennis) recurse(points *[][]float64, weight []int, left, partitions, objIndex int) {
	if objIndex == d.numberOfObjectives-1 {
		weight[objIndex] = left
		point := make([]float64, d.numberOfObjectives)
		for i, w := range weight {
			point[i] = float64(w) / float64(partitions)
		}
		*points = append(*points, point)
		return
	}
	for k := 0; k <= left; k++ {
		weight[objIndex] = k
		d.recurse(points, weight, left-k, partitions, objIndex+1)
	}
}

// WriteJSON exports the reference points to a JSON file.
func WriteJSON(points [][]float64, path string) error {
	data, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialise reference points: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write reference points file: %w", err)
	}
	return nil
}

// binomialCoefficient returns C(n, k).
func binomialCoefficient(n, k uint64) uint64 {
	if k > n {
		return 0
	}
	var r uint64 = 1
	for d := uint64(1); d <= k; d++ {
		r *= n
		n--
		r /= d
	}
	return r
}
