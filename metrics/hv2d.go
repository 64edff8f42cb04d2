package metrics

import (
	"math"
	"slices"
	"sort"
)

// hv2D computes the hypervolume of a non-dominated 2-objective front by
// sweeping the rectangles between the front and the reference point. All
// coordinates are minimised.
func hv2D(points [][]float64, ref []float64) float64 {
	if len(points) == 0 {
		return 0
	}

	// sweep from the largest first objective towards the smallest; on a
	// non-dominated front the second objective then grows monotonically
	sorted := slices.Clone(points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i][0] > sorted[j][0]
	})

	// each point owns the horizontal band between its own second
	// objective and the next point's (the last band closes at the
	// reference point)
	volume := 0.0
	for i, p := range sorted {
		nextY := ref[1]
		if i+1 < len(sorted) {
			nextY = sorted[i+1][1]
		}
		volume += math.Abs(ref[0]-p[0]) * math.Abs(nextY-p[1])
	}
	return volume
}
