package algorithms

import (
	"fmt"
	"math"
	"slices"

	"github.com/evolvekit/evolvekit/core"
	"github.com/evolvekit/evolvekit/operators"
	"github.com/evolvekit/evolvekit/refpoints"
)

// Partitions selects the Das-Dennis construction used for the NSGA-III
// reference points: a single lattice via OneLayer, or a boundary plus
// scaled inner lattice via TwoLayer.
type Partitions struct {
	OneLayer int
	TwoLayer *refpoints.TwoLayerPartitions
}

// NSGA3Options extends the shared engine options with the reference point
// construction.
type NSGA3Options struct {
	Options
	Partitions Partitions
}

// referencePoint is one entry of the owning reference point container.
// Points created at start-up form the baseline; the adaptive variant may
// add and remove extra points while the baseline is preserved.
type referencePoint struct {
	coords []float64
	added  bool
}

// NSGA3 implements the reference-point based many-objective algorithm of
// Deb & Jain (2014): non-dominated sorting followed by normalisation,
// reference point association and niching of the last front.
type NSGA3 struct {
	*base
	opts      NSGA3Options
	crossover *operators.SimulatedBinaryCrossover
	mutation  *operators.PolynomialMutation
	selector  *operators.TournamentSelector

	referencePoints []referencePoint
	baselineCount   int
	idealPoint      []float64

	// adaptive variant state
	adaptive           bool
	adaptationInterval int
	gap                float64
	minAngle           float64
}

// NewNSGA3 builds the engine for a problem. The population size must be
// at least the number of generated reference points.
func NewNSGA3(problem *core.Problem, opts NSGA3Options) (*NSGA3, error) {
	return newNSGA3(problem, opts, "NSGA3", false, 0)
}

func newNSGA3(problem *core.Problem, opts NSGA3Options, name string, adaptive bool, interval int) (*NSGA3, error) {
	generator, err := newPointGenerator(problem.NumberOfObjectives(), opts.Partitions)
	if err != nil {
		return nil, err
	}
	points := generator.Points()
	if opts.NumberOfIndividuals < len(points) {
		return nil, fmt.Errorf(
			"the population size (%d) must be at least the number of reference points (%d)",
			opts.NumberOfIndividuals, len(points))
	}

	b, err := newBase(problem, opts.Options, name)
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

	container := make([]referencePoint, len(points))
	for i, p := range points {
		container[i] = referencePoint{coords: p}
	}

	ideal := make([]float64, problem.NumberOfObjectives())
	for i := range ideal {
		ideal[i] = math.Inf(1)
	}

	a := &NSGA3{
		base:               b,
		opts:               opts,
		crossover:          crossover,
		mutation:           mutation,
		selector:           operators.NewBinaryTournament(operators.ParetoConstrainedDominance{}),
		referencePoints:    container,
		baselineCount:      len(container),
		idealPoint:         ideal,
		adaptive:           adaptive,
		adaptationInterval: interval,
	}
	if adaptive {
		a.gap = minimumCoordinateGap(points)
		a.minAngle = 0.5 * minimumPairwiseAngle(points)
	}
	return a, nil
}

// newPointGenerator maps the partition options onto the Das-Dennis
// generator.
func newPointGenerator(numberOfObjectives int, partitions Partitions) (*refpoints.DasDennis, error) {
	if partitions.TwoLayer != nil {
		return refpoints.NewTwoLayer(numberOfObjectives, *partitions.TwoLayer)
	}
	return refpoints.NewOneLayer(numberOfObjectives, partitions.OneLayer)
}

// Name returns the algorithm name.
func (a *NSGA3) Name() string {
	if a.adaptive {
		return "AdaptiveNSGA3"
	}
	return "NSGA3"
}

// ReferencePoints returns the coordinates of the current reference point
// set, baseline first.
func (a *NSGA3) ReferencePoints() [][]float64 {
	points := make([][]float64, len(a.referencePoints))
	for i, rp := range a.referencePoints {
		points[i] = slices.Clone(rp.coords)
	}
	return points
}

// Snapshot captures the current run state. The reference point set and
// the added flags travel in the additional data so an adaptive run can be
// inspected.
func (a *NSGA3) Snapshot() (*Snapshot, error) {
	coords := make([][]float64, len(a.referencePoints))
	added := make([]bool, len(a.referencePoints))
	for i, rp := range a.referencePoints {
		coords[i] = rp.coords
		added[i] = rp.added
	}
	additional := map[string]any{
		"reference_points":       coords,
		"reference_points_added": added,
		"ideal_point":            a.idealPoint,
	}
	return a.snapshot(a.Name(), a.exportOptions(), additional)
}

func (a *NSGA3) exportOptions() map[string]any {
	options := map[string]any{
		"number_of_individuals": a.opts.NumberOfIndividuals,
		"parallel":              a.parallel,
		"seed":                  a.seed,
	}
	if a.opts.Partitions.TwoLayer != nil {
		options["number_of_partitions"] = map[string]any{
			"boundary_layer": a.opts.Partitions.TwoLayer.BoundaryLayer,
			"inner_layer":    a.opts.Partitions.TwoLayer.InnerLayer,
			"scaling":        a.opts.Partitions.TwoLayer.Scaling,
		}
	} else {
		options["number_of_partitions"] = a.opts.Partitions.OneLayer
	}
	if a.adaptive {
		options["adaptation_interval"] = a.adaptationInterval
	}
	return options
}

// Initialise samples and evaluates the starting population. A resumed
// population skips the sampling.
func (a *NSGA3) Initialise() error {
	if a.population == nil {
		a.population = core.NewRandomPopulation(a.problem, a.opts.NumberOfIndividuals, a.rng)
	}
	return a.evaluatePopulation(a.population.Individuals())
}

// Evolve runs one generation: breeding and evaluation as in NSGA-II, then
// the reference-point based survival of Deb & Jain (2014): translate by
// the ideal point, normalise by the hyperplane intercepts, associate to
// reference points and niche the last front.
func (a *NSGA3) Evolve() error {
	offspring, err := breedOffspring(a.population.Individuals(), a.opts.NumberOfIndividuals,
		a.selector, a.crossover, a.mutation, a.rng)
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

	// S_t: whole fronts up to the one that would overflow
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

	selectedCount := next.Len()
	missing := n - selectedCount
	combined := next.Individuals()
	if lastFront != nil {
		next.AddAll(lastFront)
		combined = next.Individuals()
	}

	if err := normalisePopulation(a.idealPoint, combined); err != nil {
		return err
	}
	if err := associateToReferencePoints(combined, a.ReferencePoints()); err != nil {
		return err
	}

	if lastFront != nil {
		candidates := next.Drain(selectedCount)
		rho := a.countAssociations(next.Individuals())

		if a.adaptive && a.adaptationInterval > 0 && (a.generation+1)%a.adaptationInterval == 0 {
			if a.adaptReferencePoints(rho) {
				// the set changed: associations and counters refer to the
				// old indexes and must be rebuilt
				all := append(slices.Clone(next.Individuals()), candidates...)
				if err := associateToReferencePoints(all, a.ReferencePoints()); err != nil {
					return err
				}
				rho = a.countAssociations(next.Individuals())
			}
		}

		if err := nicheFill(next, candidates, missing, rho, a.rng); err != nil {
			return err
		}
	}

	a.population = next
	a.generation++
	return nil
}

// countAssociations builds the niche counter: for every reference point
// index, the number of the given individuals associated with it.
func (a *NSGA3) countAssociations(individuals []*core.Individual) map[int]int {
	rho := make(map[int]int, len(a.referencePoints))
	for j := range a.referencePoints {
		rho[j] = 0
	}
	for _, ind := range individuals {
		if j := ind.ReferencePointIndex(); j >= 0 {
			rho[j]++
		}
	}
	return rho
}

// minimumCoordinateGap measures the smallest positive coordinate
// difference between consecutive lattice points. The adaptive variant
// spawns new points at this scale.
func minimumCoordinateGap(points [][]float64) float64 {
	gap := math.Inf(1)
	for i := 0; i+1 < len(points); i++ {
		for c := range points[i] {
			d := math.Abs(points[i][c] - points[i+1][c])
			if d > 0 && d < gap {
				gap = d
			}
		}
	}
	if math.IsInf(gap, 1) {
		return 0
	}
	return gap
}

// minimumPairwiseAngle returns the smallest angle between two distinct
// reference point directions.
func minimumPairwiseAngle(points [][]float64) float64 {
	minAngle := math.Inf(1)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			angle := vectorAngle(points[i], points[j])
			if angle > 0 && angle < minAngle {
				minAngle = angle
			}
		}
	}
	if math.IsInf(minAngle, 1) {
		return 0
	}
	return minAngle
}

// vectorAngle is the angle between two direction vectors in radians.
func vectorAngle(a, b []float64) float64 {
	dot, normA, normB := 0.0, 0.0, 0.0
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	cos = math.Min(math.Max(cos, -1), 1)
	return math.Acos(cos)
}
