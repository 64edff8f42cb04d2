package operators

import (
	"fmt"

	"github.com/evolvekit/evolvekit/core"
)

// SortResult is the output of the fast non-dominated sort.
type SortResult struct {
	// Fronts groups the individuals by rank: Fronts[0] is the
	// non-dominated front with rank 1. Within a front the input order is
	// preserved.
	Fronts [][]*core.Individual
	// FrontIndexes mirrors Fronts with positions into the input slice.
	FrontIndexes [][]int
	// DominationCounter holds, per input position, the number of
	// individuals that dominate it.
	DominationCounter []int
}

// FastNonDominatedSort partitions the individuals into ranked fronts using
// the fast sort from Deb et al. (2002), with O(M*N^2) comparisons for M
// objectives and N individuals. The rank (1-based) is stored on every
// individual. When firstFrontOnly is set, only the rank-1 front is
// collected and the remaining individuals keep their previous rank.
//
// The per-front ordering equals the input order, so the partition is
// deterministic for a given input.
func FastNonDominatedSort(individuals []*core.Individual, firstFrontOnly bool) (*SortResult, error) {
	if len(individuals) < 2 {
		return nil, fmt.Errorf("at least 2 individuals are needed for sorting, but %d given", len(individuals))
	}

	comparison := ParetoConstrainedDominance{}
	// dominated[p] collects the individuals dominated by p; counter[q] is
	// the number of individuals dominating q.
	dominated := make([][]int, len(individuals))
	counter := make([]int, len(individuals))

	var currentFront []int
	for p := range individuals {
		for q := p + 1; q < len(individuals); q++ {
			pref, err := comparison.Compare(individuals[p], individuals[q])
			if err != nil {
				return nil, err
			}
			switch pref {
			case PreferFirst:
				dominated[p] = append(dominated[p], q)
				counter[q]++
			case PreferSecond:
				dominated[q] = append(dominated[q], p)
				counter[p]++
			}
		}
		if counter[p] == 0 {
			currentFront = append(currentFront, p)
			individuals[p].SetRank(1)
		}
	}

	initialCounter := make([]int, len(counter))
	copy(initialCounter, counter)

	allFronts := [][]int{currentFront}
	if !firstFrontOnly {
		for rank := 1; ; rank++ {
			var nextFront []int
			for _, p := range currentFront {
				for _, q := range dominated[p] {
					counter[q]--
					if counter[q] == 0 {
						nextFront = append(nextFront, q)
						individuals[q].SetRank(rank + 1)
					}
				}
			}
			if len(nextFront) == 0 {
				break
			}
			allFronts = append(allFronts, nextFront)
			currentFront = nextFront
		}
	}

	fronts := make([][]*core.Individual, len(allFronts))
	for fi, front := range allFronts {
		fronts[fi] = make([]*core.Individual, len(front))
		for i, idx := range front {
			fronts[fi][i] = individuals[idx]
		}
	}

	return &SortResult{
		Fronts:            fronts,
		FrontIndexes:      allFronts,
		DominationCounter: initialCounter,
	}, nil
}
