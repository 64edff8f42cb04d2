package operators

import (
	"fmt"

	"github.com/evolvekit/evolvekit/core"
)

// Selector chooses individuals from a population for reproduction.
type Selector interface {
	Select(individuals []*core.Individual, winners int, rng *core.Rand) ([]*core.Individual, error)
}

// TournamentSelector runs tournaments between randomly drawn competitors
// and picks the winner with the configured comparison operator. Ties are
// broken by a random pick from the shared generator.
type TournamentSelector struct {
	comparison  Comparison
	competitors int
}

// NewBinaryTournament creates a two-competitor tournament selector.
func NewBinaryTournament(comparison Comparison) *TournamentSelector {
	return &TournamentSelector{comparison: comparison, competitors: 2}
}

// Select runs as many tournaments as winners requested.
func (s *TournamentSelector) Select(individuals []*core.Individual, winners int, rng *core.Rand) ([]*core.Individual, error) {
	selected := make([]*core.Individual, 0, winners)
	for range winners {
		winner, err := s.selectOne(individuals, rng)
		if err != nil {
			return nil, err
		}
		selected = append(selected, winner)
	}
	return selected, nil
}

// selectOne runs a single tournament between distinct competitors drawn
// uniformly from the population.
func (s *TournamentSelector) selectOne(individuals []*core.Individual, rng *core.Rand) (*core.Individual, error) {
	if len(individuals) < s.competitors {
		return nil, fmt.Errorf("the population size (%d) is smaller than the number of tournament competitors (%d)", len(individuals), s.competitors)
	}

	indexes := distinctIndexes(len(individuals), s.competitors, rng)
	winner := individuals[indexes[0]]
	for _, idx := range indexes[1:] {
		challenger := individuals[idx]
		pref, err := s.comparison.Compare(winner, challenger)
		if err != nil {
			return nil, err
		}
		switch pref {
		case PreferSecond:
			winner = challenger
		case MutuallyPreferred:
			if rng.Float64() < 0.5 {
				winner = challenger
			}
		}
	}
	return winner, nil
}

// distinctIndexes draws count distinct positions in [0, n) uniformly.
func distinctIndexes(n, count int, rng *core.Rand) []int {
	indexes := make([]int, 0, count)
	seen := make(map[int]bool, count)
	for len(indexes) < count {
		idx := rng.IntN(n)
		if seen[idx] {
			continue
		}
		seen[idx] = true
		indexes = append(indexes, idx)
	}
	return indexes
}
