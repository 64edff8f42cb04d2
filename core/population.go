package core

import "slices"

// Population is an ordered sequence of individuals.
type Population struct {
	individuals []*Individual
}

// NewPopulation creates an empty population.
func NewPopulation() *Population {
	return &Population{}
}

// NewPopulationWith creates a population holding the given individuals.
func NewPopulationWith(individuals []*Individual) *Population {
	return &Population{individuals: individuals}
}

// NewRandomPopulation creates a population of the given size with every
// individual sampled uniformly from the variable domains.
func NewRandomPopulation(problem *Problem, size int, rng *Rand) *Population {
	individuals := make([]*Individual, size)
	for i := range individuals {
		individuals[i] = NewRandomIndividual(problem, rng)
	}
	return &Population{individuals: individuals}
}

// Len returns the number of individuals.
func (p *Population) Len() int { return len(p.individuals) }

// Individuals returns the backing slice.
func (p *Population) Individuals() []*Individual { return p.individuals }

// Individual returns the individual at the given position.
func (p *Population) Individual(i int) *Individual { return p.individuals[i] }

// Add appends one individual.
func (p *Population) Add(ind *Individual) {
	p.individuals = append(p.individuals, ind)
}

// AddAll appends a batch of individuals preserving their order.
func (p *Population) AddAll(individuals []*Individual) {
	p.individuals = append(p.individuals, individuals...)
}

// Drain removes and returns the individuals from position `from` to the
// end. The capacity of the remaining slice is clipped so later appends
// cannot overwrite the returned tail.
func (p *Population) Drain(from int) []*Individual {
	tail := slices.Clone(p.individuals[from:])
	p.individuals = p.individuals[:from:from]
	return tail
}

// ObjectiveValues collects the stored (minimised) values of one objective
// across all individuals.
func (p *Population) ObjectiveValues(name string) ([]float64, error) {
	values := make([]float64, len(p.individuals))
	for i, ind := range p.individuals {
		v, err := ind.ObjectiveValue(name)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// Serialise converts every individual to its export form.
func (p *Population) Serialise() []IndividualExport {
	out := make([]IndividualExport, len(p.individuals))
	for i, ind := range p.individuals {
		out[i] = ind.Serialise()
	}
	return out
}

// DeserialisePopulation rebuilds a population from serialised individuals.
func DeserialisePopulation(exports []IndividualExport, problem *Problem) (*Population, error) {
	individuals := make([]*Individual, len(exports))
	for i := range exports {
		ind, err := DeserialiseIndividual(&exports[i], problem)
		if err != nil {
			return nil, err
		}
		individuals[i] = ind
	}
	return &Population{individuals: individuals}, nil
}
