package algorithms

import (
	"math"
	"testing"

	"github.com/evolvekit/evolvekit/core"
	"github.com/evolvekit/evolvekit/problems"
	"github.com/evolvekit/evolvekit/refpoints"
)

func TestPerpendicularDistance(t *testing.T) {
	// distances verified against the geometric construction
	d, err := perpendicularDistance([]float64{1, 0, 0}, []float64{0.95, 0.15, 0.15})
	if err != nil {
		t.Fatalf("perpendicularDistance failed: %v", err)
	}
	if math.Abs(d-0.212132034355) > 1e-4 {
		t.Errorf("Expected 0.2121, got %g", d)
	}

	d, err = perpendicularDistance([]float64{0, 1, 0}, []float64{0.1, 0.9, 0.1})
	if err != nil {
		t.Fatalf("perpendicularDistance failed: %v", err)
	}
	if math.Abs(d-0.1414213562) > 1e-4 {
		t.Errorf("Expected 0.1414, got %g", d)
	}

	if _, err := perpendicularDistance([]float64{0, 0}, []float64{1, 1}); err == nil {
		t.Error("Expected an error for a zero direction")
	}
	if _, err := perpendicularDistance([]float64{1, 0}, []float64{1, 1, 1}); err == nil {
		t.Error("Expected an error for a dimension mismatch")
	}
}

func TestAssociateToReferencePoints(t *testing.T) {
	generator, err := refpoints.NewOneLayer(3, 4)
	if err != nil {
		t.Fatalf("NewOneLayer failed: %v", err)
	}
	points := generator.Points()

	problem := objectiveProblem(t, 3)
	individuals := frontFromObjectives(t, problem, [][]float64{{0, 0, 0}, {0, 0, 0}})
	individuals[0].SetNormalisedObjectives([]float64{0.95, 0.15, 0.15})
	individuals[1].SetNormalisedObjectives([]float64{0.1, 0.9, 0.1})

	if err := associateToReferencePoints(individuals, points); err != nil {
		t.Fatalf("associateToReferencePoints failed: %v", err)
	}

	first := points[individuals[0].ReferencePointIndex()]
	if first[0] != 1 || first[1] != 0 || first[2] != 0 {
		t.Errorf("Expected the association with (1,0,0), got %v", first)
	}
	if math.Abs(individuals[0].PerpendicularDistance()-0.212132034355) > 1e-4 {
		t.Errorf("Unexpected distance %g", individuals[0].PerpendicularDistance())
	}

	second := points[individuals[1].ReferencePointIndex()]
	if second[0] != 0 || second[1] != 1 || second[2] != 0 {
		t.Errorf("Expected the association with (0,1,0), got %v", second)
	}
	if individuals[1].PerpendicularDistance() < 0 {
		t.Error("The perpendicular distance must not be negative")
	}
}

func TestPlaneIntercepts(t *testing.T) {
	// the plane through (3,0,0), (0,2,0) and (0,0,1) intercepts the axes
	// at exactly those values
	extremes := [][]float64{{3, 0, 0}, {0, 2, 0}, {0, 0, 1}}
	intercepts, ok := planeIntercepts(extremes)
	if !ok {
		t.Fatal("Expected a solvable system")
	}
	want := []float64{3, 2, 1}
	for i := range want {
		if math.Abs(intercepts[i]-want[i]) > 1e-9 {
			t.Errorf("Intercept %d: expected %g, got %g", i, want[i], intercepts[i])
		}
	}
}

func TestPlaneInterceptsSingularFallsBack(t *testing.T) {
	// two identical extreme points make the system singular
	extremes := [][]float64{{1, 0, 0}, {1, 0, 0}, {0, 0, 1}}
	if _, ok := planeIntercepts(extremes); ok {
		t.Fatal("Expected the singular system to be rejected")
	}
}

func TestNormalisePopulationUpdatesIdealPoint(t *testing.T) {
	problem := objectiveProblem(t, 2)
	individuals := frontFromObjectives(t, problem, [][]float64{{1, 5}, {3, 2}, {2, 4}})

	ideal := []float64{math.Inf(1), math.Inf(1)}
	if err := normalisePopulation(ideal, individuals); err != nil {
		t.Fatalf("normalisePopulation failed: %v", err)
	}
	if ideal[0] != 1 || ideal[1] != 2 {
		t.Errorf("Expected the ideal point (1, 2), got %v", ideal)
	}
	for i, ind := range individuals {
		if ind.NormalisedObjectives() == nil {
			t.Errorf("Individual %d has no normalised objectives", i)
		}
	}

	// the ideal point only improves in later generations
	better := frontFromObjectives(t, problem, [][]float64{{0.5, 6}, {4, 3}})
	if err := normalisePopulation(ideal, better); err != nil {
		t.Fatalf("normalisePopulation failed: %v", err)
	}
	if ideal[0] != 0.5 || ideal[1] != 2 {
		t.Errorf("Expected the ideal point (0.5, 2), got %v", ideal)
	}
}

func TestNicheFillPrefersClosestForEmptyNiches(t *testing.T) {
	problem := objectiveProblem(t, 2)
	selected := frontFromObjectives(t, problem, [][]float64{{0, 0}, {0, 0}})
	selected[0].SetAssociation(0, 0.1)
	selected[1].SetAssociation(1, 0.2)
	next := core.NewPopulationWith(selected)

	candidates := frontFromObjectives(t, problem, [][]float64{{0, 0}, {0, 0}})
	candidates[0].SetAssociation(2, 0.4)
	candidates[1].SetAssociation(2, 0.9)
	closest := candidates[0]

	rho := map[int]int{0: 1, 1: 1, 2: 0, 3: 0}
	if err := nicheFill(next, candidates, 1, rho, core.NewRand(1)); err != nil {
		t.Fatalf("nicheFill failed: %v", err)
	}

	if rho[2] != 1 {
		t.Errorf("Expected the niche counter of point 2 to increase, got %d", rho[2])
	}
	if next.Len() != 3 {
		t.Fatalf("Expected 3 individuals, got %d", next.Len())
	}
	if next.Individual(2) != closest {
		t.Error("Expected the closest candidate to be selected for an empty niche")
	}
}

func TestNicheFillRandomForOccupiedNiches(t *testing.T) {
	problem := objectiveProblem(t, 2)
	selected := frontFromObjectives(t, problem, [][]float64{{0, 0}, {0, 0}})
	selected[0].SetAssociation(0, 0.1)
	selected[1].SetAssociation(1, 0.2)
	next := core.NewPopulationWith(selected)

	candidates := frontFromObjectives(t, problem, [][]float64{{0, 0}, {0, 0}})
	candidates[0].SetAssociation(1, 99)
	candidates[1].SetAssociation(1, 0.9)

	// only reference point 1 has candidates; 0 and 2 are excluded during
	// the fill
	rho := map[int]int{0: 1, 1: 1, 2: 0}
	if err := nicheFill(next, candidates, 1, rho, core.NewRand(1)); err != nil {
		t.Fatalf("nicheFill failed: %v", err)
	}
	if rho[1] != 2 {
		t.Errorf("Expected the occupied niche counter at 2, got %d", rho[1])
	}
	if next.Len() != 3 {
		t.Fatalf("Expected 3 individuals, got %d", next.Len())
	}
}

func TestNicheFillErrors(t *testing.T) {
	next := core.NewPopulation()
	if err := nicheFill(next, nil, 1, map[int]int{}, core.NewRand(1)); err == nil {
		t.Error("Expected an error for an empty counter set")
	}
	if err := nicheFill(next, nil, 1, map[int]int{0: 0}, core.NewRand(1)); err == nil {
		t.Error("Expected an error when candidates are fewer than needed")
	}
}

func TestNSGA3RequiresEnoughIndividuals(t *testing.T) {
	problem, err := problems.NewDTLZ1(3, 5)
	if err != nil {
		t.Fatalf("NewDTLZ1 failed: %v", err)
	}
	// 12 partitions over 3 objectives produce 91 reference points
	_, err = NewNSGA3(problem, NSGA3Options{
		Options:    Options{NumberOfIndividuals: 50, StoppingCondition: MaxGeneration(1)},
		Partitions: Partitions{OneLayer: 12},
	})
	if err == nil {
		t.Fatal("Expected an error for a population smaller than the reference point count")
	}
}

func TestNSGA3ShortRunInvariants(t *testing.T) {
	problem, err := problems.NewDTLZ1(3, 5)
	if err != nil {
		t.Fatalf("NewDTLZ1 failed: %v", err)
	}
	seed := uint64(1)
	engine, err := NewNSGA3(problem, NSGA3Options{
		Options: Options{
			NumberOfIndividuals: 92,
			StoppingCondition:   MaxGeneration(5),
			Seed:                &seed,
		},
		Partitions: Partitions{OneLayer: 12},
	})
	if err != nil {
		t.Fatalf("NewNSGA3 failed: %v", err)
	}
	if got := len(engine.ReferencePoints()); got != 91 {
		t.Fatalf("Expected 91 reference points, got %d", got)
	}
	if err := Run(engine); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	population := engine.Population()
	if population.Len() != 92 {
		t.Fatalf("Expected a population of 92, got %d", population.Len())
	}
	for i, ind := range population.Individuals() {
		if !ind.IsEvaluated() {
			t.Errorf("Individual %d is not evaluated", i)
		}
	}
}

func TestNSGA3DeterminismForASeed(t *testing.T) {
	run := func() []*core.Individual {
		problem, err := problems.NewDTLZ1(3, 5)
		if err != nil {
			t.Fatalf("NewDTLZ1 failed: %v", err)
		}
		seed := uint64(4)
		engine, err := NewNSGA3(problem, NSGA3Options{
			Options: Options{
				NumberOfIndividuals: 20,
				StoppingCondition:   MaxGeneration(4),
				Seed:                &seed,
			},
			Partitions: Partitions{OneLayer: 4},
		})
		if err != nil {
			t.Fatalf("NewNSGA3 failed: %v", err)
		}
		if err := Run(engine); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return engine.Population().Individuals()
	}

	a := run()
	b := run()
	for i := range a {
		valueA, _ := a[i].RealValue("x1")
		valueB, _ := b[i].RealValue("x1")
		if valueA != valueB {
			t.Fatalf("Individual %d diverged between identical runs", i)
		}
	}
}
