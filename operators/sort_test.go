package operators

import (
	"reflect"
	"testing"
)

func TestFastNonDominatedSortTwoObjectives(t *testing.T) {
	problem := dummyProblem(t, 2)
	// fronts verified by plotting the objective values
	objectives := [][]float64{
		{1.1, 8.1},
		{2.1, 6.1},
		{3.1, 4.1},
		{3.1, 7.1},
		{5.1, 3.1},
		{5.1, 5.1},
		{7.1, 7.1},
		{8.1, 2.1},
		{10.1, 6.1},
		{11.1, 1.1},
		{11.1, 3.1},
	}
	individuals := individualsFromObjectives(t, problem, objectives)

	result, err := FastNonDominatedSort(individuals, false)
	if err != nil {
		t.Fatalf("FastNonDominatedSort failed: %v", err)
	}

	expectedFronts := [][]int{
		{0, 1, 2, 4, 7, 9},
		{3, 5, 10},
		{6, 8},
	}
	if !reflect.DeepEqual(result.FrontIndexes, expectedFronts) {
		t.Fatalf("Unexpected fronts: %v", result.FrontIndexes)
	}

	for rank, front := range expectedFronts {
		for _, idx := range front {
			if individuals[idx].Rank() != rank+1 {
				t.Errorf("Individual %d: expected rank %d, got %d", idx, rank+1, individuals[idx].Rank())
			}
		}
	}
	for _, idx := range expectedFronts[0] {
		if result.DominationCounter[idx] != 0 {
			t.Errorf("Individual %d in the first front has a non-zero domination count", idx)
		}
	}
}

func TestFastNonDominatedSortNeedsTwoIndividuals(t *testing.T) {
	problem := dummyProblem(t, 2)
	individuals := individualsFromObjectives(t, problem, [][]float64{{1, 2}})
	if _, err := FastNonDominatedSort(individuals, false); err == nil {
		t.Fatal("Expected an error for fewer than 2 individuals")
	}
}

func TestFastNonDominatedSortFirstFrontOnly(t *testing.T) {
	problem := dummyProblem(t, 2)
	objectives := [][]float64{{1, 5}, {2, 2}, {5, 1}, {6, 6}}
	individuals := individualsFromObjectives(t, problem, objectives)

	result, err := FastNonDominatedSort(individuals, true)
	if err != nil {
		t.Fatalf("FastNonDominatedSort failed: %v", err)
	}
	if len(result.Fronts) != 1 {
		t.Fatalf("Expected a single front, got %d", len(result.Fronts))
	}
	if !reflect.DeepEqual(result.FrontIndexes[0], []int{0, 1, 2}) {
		t.Fatalf("Unexpected first front: %v", result.FrontIndexes[0])
	}
}

func TestRankOneIsAnAntichain(t *testing.T) {
	problem := dummyProblem(t, 2)
	objectives := [][]float64{
		{1, 9}, {2, 7}, {3, 5}, {4, 4}, {6, 2}, {9, 1},
		{5, 8}, {7, 6}, {8, 9}, {9, 9},
	}
	individuals := individualsFromObjectives(t, problem, objectives)
	result, err := FastNonDominatedSort(individuals, false)
	if err != nil {
		t.Fatalf("FastNonDominatedSort failed: %v", err)
	}

	comparison := ParetoConstrainedDominance{}
	first := result.Fronts[0]
	for i := range first {
		for j := i + 1; j < len(first); j++ {
			pref, err := comparison.Compare(first[i], first[j])
			if err != nil {
				t.Fatalf("Compare failed: %v", err)
			}
			if pref != MutuallyPreferred {
				t.Errorf("Front members %d and %d are not mutually non-dominated", i, j)
			}
		}
	}

	// no individual in a later front dominates one in an earlier front
	for fi := 1; fi < len(result.Fronts); fi++ {
		for _, later := range result.Fronts[fi] {
			for _, earlier := range result.Fronts[fi-1] {
				pref, _ := comparison.Compare(later, earlier)
				if pref == PreferFirst {
					t.Error("A later front member dominates an earlier front member")
				}
			}
		}
	}
}
