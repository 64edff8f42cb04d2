package algorithms

import (
	"fmt"
	"math"
	"sort"

	"github.com/evolvekit/evolvekit/core"
)

// nicheFill implements "Algorithm 4" of Deb & Jain (2014): it moves
// `missing` candidates from the last front into the next population,
// repeatedly picking the reference point with the smallest niche counter.
// A reference point with no selected member yet receives its closest
// candidate; an already-filled one receives a random candidate. Reference
// points without remaining candidates are excluded from the fill. Ties on
// the niche counter are broken by the shared generator.
func nicheFill(next *core.Population, candidates []*core.Individual, missing int, rho map[int]int, rng *core.Rand) error {
	if len(rho) == 0 {
		return fmt.Errorf("the niche counter set is empty")
	}
	if len(candidates) < missing {
		return fmt.Errorf("the number of individuals to add (%d) is larger than the number of candidates (%d)", missing, len(candidates))
	}

	for picked := 0; picked < missing; {
		jHat, ok := pickReferencePoint(rho, rng)
		if !ok {
			return fmt.Errorf("no reference point left while %d individuals are still needed", missing-picked)
		}

		// candidates of the last front associated with the point
		var associated []int
		for i, ind := range candidates {
			if ind.ReferencePointIndex() == jHat {
				associated = append(associated, i)
			}
		}
		if len(associated) == 0 {
			// nothing in the last front can serve this point; exclude it
			// from the rest of the fill
			delete(rho, jHat)
			continue
		}

		var chosen int
		if rho[jHat] == 0 {
			// the point has no selected member yet: take the closest
			chosen = associated[0]
			best := math.Inf(1)
			for _, i := range associated {
				if d := candidates[i].PerpendicularDistance(); d < best {
					best = d
					chosen = i
				}
			}
		} else {
			chosen = associated[rng.IntN(len(associated))]
		}

		rho[jHat]++
		next.Add(candidates[chosen])
		candidates = append(candidates[:chosen], candidates[chosen+1:]...)
		picked++
	}
	return nil
}

// pickReferencePoint returns a reference point index with the minimum
// niche counter, choosing randomly between ties. Iteration over the
// counter map is ordered so the draw sequence is deterministic.
func pickReferencePoint(rho map[int]int, rng *core.Rand) (int, bool) {
	if len(rho) == 0 {
		return 0, false
	}
	keys := make([]int, 0, len(rho))
	for j := range rho {
		keys = append(keys, j)
	}
	sort.Ints(keys)

	minRho := math.MaxInt
	for _, j := range keys {
		if rho[j] < minRho {
			minRho = rho[j]
		}
	}
	var ties []int
	for _, j := range keys {
		if rho[j] == minRho {
			ties = append(ties, j)
		}
	}
	if len(ties) == 1 {
		return ties[0], true
	}
	return ties[rng.IntN(len(ties))], true
}
