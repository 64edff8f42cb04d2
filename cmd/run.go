package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evolvekit/evolvekit/algorithms"
	"github.com/evolvekit/evolvekit/core"
	"github.com/evolvekit/evolvekit/metrics"
	"github.com/evolvekit/evolvekit/problems"
	"github.com/evolvekit/evolvekit/refpoints"
)

var (
	problemName   string
	algorithmName string
	individuals   int
	generations   int
	seed          uint64
	seedSet       bool
	parallelEval  bool
	historyDir    string
	historyStep   int
	partitions    int
	boundaryLayer int
	innerLayer    int
	innerScaling  float64
	zdt1Variables int
	dtlzObjs      int
	hvReference   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an optimisation on a built-in benchmark problem",
	Long: `Runs NSGA-II, NSGA-III or adaptive NSGA-III on one of the bundled
benchmark problems (sch, zdt1, dtlz1) and reports the final front.`,
	RunE: runOptimisation,
}

func init() {
	runCmd.Flags().StringVar(&problemName, "problem", "sch", "Benchmark problem: sch, zdt1, dtlz1")
	runCmd.Flags().StringVar(&algorithmName, "algorithm", "nsga2", "Algorithm: nsga2, nsga3, adaptive-nsga3")
	runCmd.Flags().IntVar(&individuals, "individuals", 100, "Population size")
	runCmd.Flags().IntVar(&generations, "generations", 250, "Number of generations")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (omit for OS entropy)")
	runCmd.Flags().BoolVar(&parallelEval, "parallel", false, "Evaluate offspring across a worker pool")
	runCmd.Flags().StringVar(&historyDir, "history-dir", "", "Directory for history snapshots")
	runCmd.Flags().IntVar(&historyStep, "history-step", 10, "Generations between history snapshots")
	runCmd.Flags().IntVar(&partitions, "partitions", 12, "Das-Dennis partitions (NSGA-III)")
	runCmd.Flags().IntVar(&boundaryLayer, "boundary-layer", 0, "Boundary layer partitions for two-layer reference points")
	runCmd.Flags().IntVar(&innerLayer, "inner-layer", 0, "Inner layer partitions for two-layer reference points")
	runCmd.Flags().Float64Var(&innerScaling, "inner-scaling", refpoints.DefaultInnerScaling, "Inner layer scaling for two-layer reference points")
	runCmd.Flags().IntVar(&zdt1Variables, "variables", 30, "Number of variables (zdt1)")
	runCmd.Flags().IntVar(&dtlzObjs, "objectives", 3, "Number of objectives (dtlz1)")
	runCmd.Flags().StringVar(&hvReference, "hv-reference", "", "Comma-separated reference point for the final hypervolume report")

	rootCmd.AddCommand(runCmd)
}

func runOptimisation(cmd *cobra.Command, args []string) error {
	seedSet = cmd.Flags().Changed("seed")

	problem, err := buildProblem()
	if err != nil {
		return err
	}

	engine, err := buildEngine(problem, "")
	if err != nil {
		return err
	}

	start := time.Now()
	if err := algorithms.Run(engine); err != nil {
		return err
	}
	elapsed := time.Since(start)

	return report(engine, elapsed)
}

// buildProblem maps the problem flag onto a benchmark definition.
func buildProblem() (*core.Problem, error) {
	switch problemName {
	case "sch":
		return problems.NewSCH()
	case "zdt1":
		return problems.NewZDT1(zdt1Variables)
	case "dtlz1":
		return problems.NewDTLZ1(dtlzObjs, 5)
	default:
		return nil, fmt.Errorf("unknown problem: %s", problemName)
	}
}

// buildEngine assembles the selection engine from the CLI flags.
func buildEngine(problem *core.Problem, resumeFrom string) (algorithms.Engine, error) {
	opts := algorithms.Options{
		NumberOfIndividuals: individuals,
		StoppingCondition:   algorithms.MaxGeneration(generations),
		Parallel:            parallelEval,
		ResumeFromFile:      resumeFrom,
	}
	if seedSet {
		opts.Seed = &seed
	}
	if historyDir != "" {
		history, err := algorithms.NewExportHistory(historyStep, historyDir)
		if err != nil {
			return nil, err
		}
		opts.ExportHistory = history
	}

	layout := algorithms.Partitions{OneLayer: partitions}
	if boundaryLayer > 0 && innerLayer > 0 {
		layout = algorithms.Partitions{TwoLayer: &refpoints.TwoLayerPartitions{
			BoundaryLayer: boundaryLayer,
			InnerLayer:    innerLayer,
			Scaling:       innerScaling,
		}}
	}

	switch algorithmName {
	case "nsga2":
		return algorithms.NewNSGA2(problem, opts)
	case "nsga3":
		return algorithms.NewNSGA3(problem, algorithms.NSGA3Options{Options: opts, Partitions: layout})
	case "adaptive-nsga3":
		return algorithms.NewAdaptiveNSGA3(problem, algorithms.AdaptiveNSGA3Options{
			NSGA3Options: algorithms.NSGA3Options{Options: opts, Partitions: layout},
		})
	default:
		return nil, fmt.Errorf("unknown algorithm: %s", algorithmName)
	}
}

// report prints the outcome of a finished run, including the hypervolume
// when a reference point was given.
func report(engine algorithms.Engine, elapsed time.Duration) error {
	population := engine.Population()
	slog.Info("Optimisation complete",
		"algorithm", engine.Name(),
		"generations", engine.Generation(),
		"individuals", population.Len(),
		"elapsed", elapsed,
	)

	if hvReference != "" {
		reference, err := parsePoint(hvReference)
		if err != nil {
			return err
		}
		hv, err := metrics.HyperVolume(population.Individuals(), reference)
		if err != nil {
			return fmt.Errorf("failed to compute the hypervolume: %w", err)
		}
		fmt.Printf("Hypervolume against %v: %.6f\n", reference, hv)
	}

	fmt.Printf("Finished %s after %d generations (%s)\n", engine.Name(), engine.Generation(), elapsed.Round(time.Millisecond))
	return nil
}

// parsePoint parses a comma-separated list of floats.
func parsePoint(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	point := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid reference point coordinate %q: %w", p, err)
		}
		point[i] = v
	}
	return point, nil
}
