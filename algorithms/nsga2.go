package algorithms

import (
	"math"
	"sort"

	"github.com/evolvekit/evolvekit/core"
	"github.com/evolvekit/evolvekit/operators"
)

// crowdingSentinel marks boundary members of a front. The largest finite
// float64 is used instead of +Inf so serialised populations round-trip
// through JSON.
const crowdingSentinel = math.MaxFloat64

// NSGA2 implements the elitist non-dominated sorting genetic algorithm
// (Deb et al. 2002): rank plus crowding-distance selection over the
// combined parent and offspring pool.
type NSGA2 struct {
	*base
	opts      Options
	crossover *operators.SimulatedBinaryCrossover
	mutation  *operators.PolynomialMutation
	selector  *operators.TournamentSelector
}

// NewNSGA2 builds the engine for a problem. When the options carry a
// resume file the initial population is loaded from it instead of being
// sampled.
func NewNSGA2(problem *core.Problem, opts Options) (*NSGA2, error) {
	b, err := newBase(problem, opts, "NSGA2")
	if err != nil {
		return nil, err
	}

	sbxOpts := operators.DefaultSBXOptions()
	if opts.CrossoverOptions != nil {
		sbxOpts = *opts.CrossoverOptions
	}
	crossover, err := operators.NewSimulatedBinaryCrossover(sbxOpts)
	if err != nil {
		return nil, err
	}

	pmOpts := operators.DefaultPMOptions(problem)
	if opts.MutationOptions != nil {
		pmOpts = *opts.MutationOptions
	}
	mutation, err := operators.NewPolynomialMutation(pmOpts)
	if err != nil {
		return nil, err
	}

	return &NSGA2{
		base:      b,
		opts:      opts,
		crossover: crossover,
		mutation:  mutation,
		selector:  operators.NewBinaryTournament(operators.CrowdedComparison{}),
	}, nil
}

// Name returns the algorithm name.
func (a *NSGA2) Name() string { return "NSGA2" }

// Snapshot captures the current run state.
func (a *NSGA2) Snapshot() (*Snapshot, error) {
	return a.snapshot(a.Name(), a.exportOptions(), nil)
}

func (a *NSGA2) exportOptions() map[string]any {
	return map[string]any{
		"number_of_individuals": a.opts.NumberOfIndividuals,
		"parallel":              a.parallel,
		"seed":                  a.seed,
	}
}

// Initialise samples and evaluates the starting population and assigns
// the rank and crowding distance needed by the first tournament. A
// resumed population skips the sampling.
func (a *NSGA2) Initialise() error {
	if a.population == nil {
		a.population = core.NewRandomPopulation(a.problem, a.opts.NumberOfIndividuals, a.rng)
	}
	if err := a.evaluatePopulation(a.population.Individuals()); err != nil {
		return err
	}
	if _, err := operators.FastNonDominatedSort(a.population.Individuals(), false); err != nil {
		return err
	}
	return setCrowdingDistance(a.population.Individuals())
}

// Evolve runs one generation: tournament selection, SBX and mutation to
// breed N offspring, evaluation, then rank-and-crowding survival over the
// combined pool.
func (a *NSGA2) Evolve() error {
	offspring, err := a.breed()
	if err != nil {
		return err
	}
	if err := a.evaluatePopulation(offspring); err != nil {
		return err
	}
	a.population.AddAll(offspring)

	result, err := operators.FastNonDominatedSort(a.population.Individuals(), false)
	if err != nil {
		return err
	}

	// fill the next population front by front; the front that overflows
	// is reduced by crowding distance
	n := a.opts.NumberOfIndividuals
	next := core.NewPopulation()
	var lastFront []*core.Individual
	for _, front := range result.Fronts {
		if next.Len()+len(front) <= n {
			next.AddAll(front)
			continue
		}
		if next.Len() < n {
			lastFront = front
		}
		break
	}

	if lastFront != nil {
		if err := setCrowdingDistance(lastFront); err != nil {
			return err
		}
		// descending crowding distance, ties broken by original position
		order := make([]int, len(lastFront))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return lastFront[order[i]].CrowdingDistance() > lastFront[order[j]].CrowdingDistance()
		})
		for _, idx := range order[:n-next.Len()] {
			next.Add(lastFront[idx])
		}
	}

	a.population = next
	if err := setCrowdingDistance(a.population.Individuals()); err != nil {
		return err
	}

	a.generation++
	return nil
}

func (a *NSGA2) breed() ([]*core.Individual, error) {
	return breedOffspring(a.population.Individuals(), a.opts.NumberOfIndividuals,
		a.selector, a.crossover, a.mutation, a.rng)
}

// breedOffspring produces n offspring two at a time: a tournament picks
// each parent pair, crossover recombines them and mutation perturbs the
// children.
func breedOffspring(parentsPool []*core.Individual, n int, selector *operators.TournamentSelector,
	crossover *operators.SimulatedBinaryCrossover, mutation *operators.PolynomialMutation,
	rng *core.Rand) ([]*core.Individual, error) {
	offspring := make([]*core.Individual, 0, n+1)
	for len(offspring) < n {
		parents, err := selector.Select(parentsPool, 2, rng)
		if err != nil {
			return nil, err
		}
		children, err := crossover.Offspring(parents[0], parents[1], rng)
		if err != nil {
			return nil, err
		}
		first, err := mutation.Mutate(children.First, rng)
		if err != nil {
			return nil, err
		}
		second, err := mutation.Mutate(children.Second, rng)
		if err != nil {
			return nil, err
		}
		offspring = append(offspring, first, second)
	}
	return offspring[:n], nil
}

// setCrowdingDistance assigns the crowding distance of Deb et al. (2002),
// section 3B, to the individuals of one front. Fronts with fewer than 3
// members, and objectives whose min-max range is degenerate, mark every
// member with the sentinel.
func setCrowdingDistance(front []*core.Individual) error {
	if len(front) < 3 {
		for _, ind := range front {
			ind.SetCrowdingDistance(crowdingSentinel)
		}
		return nil
	}

	for _, ind := range front {
		ind.SetCrowdingDistance(0)
	}

	problem := front[0].Problem()
	for _, name := range problem.ObjectiveNames() {
		values := make([]float64, len(front))
		for i, ind := range front {
			v, err := ind.ObjectiveValue(name)
			if err != nil {
				return err
			}
			values[i] = v
		}

		min, max := values[0], values[0]
		for _, v := range values[1:] {
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
		valueRange := max - min
		if math.Abs(valueRange) < 1e-15 {
			for _, ind := range front {
				ind.SetCrowdingDistance(crowdingSentinel)
			}
			return nil
		}

		order := make([]int, len(front))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return values[order[i]] < values[order[j]]
		})

		front[order[0]].SetCrowdingDistance(crowdingSentinel)
		front[order[len(order)-1]].SetCrowdingDistance(crowdingSentinel)
		for i := 1; i < len(order)-1; i++ {
			ind := front[order[i]]
			delta := (values[order[i+1]] - values[order[i-1]]) / valueRange
			ind.SetCrowdingDistance(ind.CrowdingDistance() + delta)
		}
	}
	return nil
}
