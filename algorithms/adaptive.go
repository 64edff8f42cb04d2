package algorithms

import (
	"log/slog"
	"math"

	"github.com/evolvekit/evolvekit/core"
)

// AdaptiveNSGA3Options extends the NSGA-III options with the adaptation
// cadence.
type AdaptiveNSGA3Options struct {
	NSGA3Options
	// AdaptationInterval is the number of generations between two
	// reference point adjustments; 1 when zero.
	AdaptationInterval int
}

// NewAdaptiveNSGA3 builds the adaptive variant of NSGA-III (Jain & Deb
// 2014): between the association and the niching steps, reference points
// crowded by two or more selected members spawn new points around them,
// and added points that attract no member are dropped again. The baseline
// Das-Dennis set is never removed.
func NewAdaptiveNSGA3(problem *core.Problem, opts AdaptiveNSGA3Options) (*NSGA3, error) {
	interval := opts.AdaptationInterval
	if interval == 0 {
		interval = 1
	}
	if interval < 1 {
		return nil, &core.ValidationError{Field: "AdaptationInterval", Reason: "must be at least 1"}
	}
	return newNSGA3(problem, opts.NSGA3Options, "AdaptiveNSGA3", true, interval)
}

// adaptReferencePoints adjusts the reference point set using the niche
// counters of the selected members. It reports whether the set changed.
// Removal runs before addition: the counters only cover the points that
// existed when they were computed, and baseline indexes stay stable because
// baseline points are never removed.
func (a *NSGA3) adaptReferencePoints(rho map[int]int) bool {
	changed := a.removeReferencePoints(rho)
	if a.addReferencePoints(rho) {
		changed = true
	}
	return changed
}

// addReferencePoints spawns, for every crowded baseline point, one new
// point per objective by uniformly sampling the simplex face around it at
// the lattice gap scale. Samples outside the unit hypercube or within the
// minimum angular distance of an existing point are discarded.
func (a *NSGA3) addReferencePoints(rho map[int]int) bool {
	k := a.problem.NumberOfObjectives()
	added := false

	for j := 0; j < a.baselineCount; j++ {
		if rho[j] < 2 {
			continue
		}
		origin := a.referencePoints[j].coords
		for range k {
			sample := sampleSimplex(k, a.rng)
			point := make([]float64, k)
			inRange := true
			for c := range point {
				point[c] = origin[c] + a.gap*(sample[c]-1/float64(k))
				if point[c] < 0 || point[c] > 1 {
					inRange = false
				}
			}
			if !inRange {
				continue
			}
			if a.tooCloseToExisting(point) {
				continue
			}
			a.referencePoints = append(a.referencePoints, referencePoint{coords: point, added: true})
			added = true
			slog.Debug("Added reference point", "point", point, "around", origin)
		}
	}
	return added
}

// removeReferencePoints drops added points whose niche counter is zero.
// Baseline points are always preserved.
func (a *NSGA3) removeReferencePoints(rho map[int]int) bool {
	kept := a.referencePoints[:0]
	removed := false
	for j, rp := range a.referencePoints {
		if rp.added && rho[j] == 0 {
			removed = true
			slog.Debug("Removed unused reference point", "point", rp.coords)
			continue
		}
		kept = append(kept, rp)
	}
	a.referencePoints = kept
	return removed
}

// tooCloseToExisting reports whether the direction of the point is within
// the minimum angular distance of any existing reference point.
func (a *NSGA3) tooCloseToExisting(point []float64) bool {
	for _, rp := range a.referencePoints {
		if vectorAngle(rp.coords, point) < a.minAngle {
			return true
		}
	}
	return false
}

// sampleSimplex draws a uniform point on the unit (k-1)-simplex using the
// normalised exponential spacing construction.
func sampleSimplex(k int, rng *core.Rand) []float64 {
	sample := make([]float64, k)
	total := 0.0
	for i := range sample {
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		sample[i] = -math.Log(u)
		total += sample[i]
	}
	for i := range sample {
		sample[i] /= total
	}
	return sample
}
