package metrics

import (
	"math"
	"slices"
	"sort"
)

// stairPoint is one step of the 2D staircase maintained by the 3D sweep.
type stairPoint struct {
	x, y float64
}

// hv3D computes the hypervolume of a 3-objective front with the
// dimension-sweep approach of Fonseca et al. (2006): points are processed
// in ascending third-objective order while a staircase of the first two
// objectives tracks the swept cross-section area. All coordinates are
// minimised and strictly dominated by the reference point.
func hv3D(points [][]float64, ref []float64) float64 {
	if len(points) == 0 {
		return 0
	}

	sorted := slices.Clone(points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i][2] < sorted[j][2]
	})

	// sentinels close the staircase on both axes
	stair := []stairPoint{
		{x: math.Inf(-1), y: ref[1]},
		{x: ref[0], y: math.Inf(-1)},
	}

	volume := 0.0
	area := 0.0
	previousZ := sorted[0][2]

	for _, p := range sorted {
		volume += area * (p[2] - previousZ)
		previousZ = p[2]
		area += insertStairPoint(&stair, p[0], p[1])
	}
	volume += area * (ref[2] - previousZ)
	return volume
}

// insertStairPoint adds (px, py) to the staircase and returns the
// cross-section area it contributes. A point 2D-dominated by the current
// staircase contributes nothing; points it dominates are removed.
func insertStairPoint(stair *[]stairPoint, px, py float64) float64 {
	s := *stair

	// first staircase step at or right of px; the sentinel at -Inf
	// guarantees pos >= 1
	pos := sort.Search(len(s), func(i int) bool { return s[i].x >= px })

	if s[pos-1].y <= py {
		return 0
	}
	if s[pos].x == px && s[pos].y <= py {
		return 0
	}

	// accumulate the area between py and the old staircase, walking right
	// until the staircase drops below py
	area := 0.0
	curX := px
	level := s[pos-1].y
	for k := pos; level > py; k++ {
		area += (s[k].x - curX) * (level - py)
		curX = s[k].x
		level = s[k].y
	}

	// drop the steps the new point dominates
	end := pos
	for end < len(s) && s[end].y >= py {
		end++
	}

	updated := make([]stairPoint, 0, len(s)-(end-pos)+1)
	updated = append(updated, s[:pos]...)
	updated = append(updated, stairPoint{x: px, y: py})
	updated = append(updated, s[end:]...)
	*stair = updated

	return area
}
