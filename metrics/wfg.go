package metrics

import (
	"fmt"
	"slices"
	"sort"
)

// wfgHyperVolume computes the hypervolume of a front with 4 or more
// minimised objectives using the WFG algorithm (While et al. 2012): the
// exclusive hypervolume of each point is accumulated after sorting by the
// last objective, slicing the recursion down to a 2D base case.
func wfgHyperVolume(points [][]float64, ref []float64) (float64, error) {
	if len(points) == 0 {
		return 0, nil
	}
	for i, p := range points {
		if len(p) != len(ref) {
			return 0, fmt.Errorf("point #%d has %d objectives but the reference point has %d", i, len(p), len(ref))
		}
	}
	w := &wfg{ref: ref}
	return w.volume(slices.Clone(points), len(ref)), nil
}

type wfg struct {
	ref []float64
}

// volume computes the hypervolume of the front over the first objCount
// objectives. The front is sorted worst-last-objective first, and each
// point contributes its last-objective depth times its exclusive
// hypervolume in the sliced space.
func (w *wfg) volume(front [][]float64, objCount int) float64 {
	w.sortFront(front, objCount)
	if objCount == 2 {
		return w.volume2D(front)
	}

	sliced := objCount - 1
	total := 0.0
	for i := len(front) - 1; i >= 0; i-- {
		depth := abs(front[i][sliced] - w.ref[sliced])
		total += depth * w.exclusiveHV(front, i, sliced)
	}
	return total
}

// exclusiveHV is the hypervolume dominated by front[i] alone, relative to
// the points after it in the front.
func (w *wfg) exclusiveHV(front [][]float64, i, objCount int) float64 {
	volume := w.inclusiveHV(front[i], objCount)
	if len(front) > i+1 {
		limited := w.limitSet(front, i, objCount)
		volume -= w.volume(limited, objCount)
	}
	return volume
}

// inclusiveHV is the box volume between one point and the reference point
// over the first objCount objectives.
func (w *wfg) inclusiveHV(point []float64, objCount int) float64 {
	volume := 1.0
	for i := range objCount {
		volume *= abs(point[i] - w.ref[i])
	}
	return volume
}

// limitSet builds the non-dominated set of the points after position i,
// each worsened to the component-wise maximum with front[i].
func (w *wfg) limitSet(front [][]float64, i, objCount int) [][]float64 {
	limited := make([][]float64, 0, len(front)-i-1)
	for _, q := range front[i+1:] {
		worse := make([]float64, objCount)
		for k := range objCount {
			worse[k] = max(front[i][k], q[k])
		}
		limited = append(limited, worse)
	}
	return nonDominatedSubset(limited, objCount)
}

// nonDominatedSubset filters the points down to the mutually non-dominated
// ones over the first objCount objectives, dropping duplicates.
func nonDominatedSubset(points [][]float64, objCount int) [][]float64 {
	var front [][]float64
	for _, candidate := range points {
		dominated := false
		kept := front[:0]
		for _, p := range front {
			if !dominated && weaklyDominates(p, candidate, objCount) {
				dominated = true
			}
			if dominated || !weaklyDominates(candidate, p, objCount) {
				kept = append(kept, p)
			}
		}
		front = kept
		if !dominated {
			front = append(front, candidate)
		}
	}
	return front
}

// weaklyDominates reports whether a is no worse than b on the first
// objCount minimised objectives.
func weaklyDominates(a, b []float64, objCount int) bool {
	for k := range objCount {
		if a[k] > b[k] {
			return false
		}
	}
	return true
}

// sortFront orders the points lexicographically from the last considered
// objective downwards, worst first.
func (w *wfg) sortFront(front [][]float64, objCount int) {
	sort.SliceStable(front, func(i, j int) bool {
		for k := objCount - 1; k >= 0; k-- {
			if front[i][k] != front[j][k] {
				return front[i][k] > front[j][k]
			}
		}
		return false
	})
}

// volume2D is the base case: a sorted 2D front swept against the
// reference point.
func (w *wfg) volume2D(front [][]float64) float64 {
	if len(front) == 0 {
		return 0
	}
	volume := abs(front[0][0]-w.ref[0]) * abs(front[0][1]-w.ref[1])
	for i := 1; i < len(front); i++ {
		volume += abs(front[i][0]-w.ref[0]) * abs(front[i][1]-front[i-1][1])
	}
	return volume
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
