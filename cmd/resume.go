package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/evolvekit/evolvekit/algorithms"
)

var resumeCmd = &cobra.Command{
	Use:   "resume [snapshot-file]",
	Short: "Resume an optimisation from a history snapshot",
	Long: `Rehydrates the population, generation counter and PRNG state from a
snapshot file and continues the run until the generation target. The
problem and algorithm flags must match the ones used for the original
run.`,
	Args: cobra.ExactArgs(1),
	RunE: resumeOptimisation,
}

func init() {
	resumeCmd.Flags().StringVar(&problemName, "problem", "sch", "Benchmark problem: sch, zdt1, dtlz1")
	resumeCmd.Flags().StringVar(&algorithmName, "algorithm", "nsga2", "Algorithm: nsga2, nsga3, adaptive-nsga3")
	resumeCmd.Flags().IntVar(&individuals, "individuals", 100, "Population size")
	resumeCmd.Flags().IntVar(&generations, "generations", 250, "Total generation target")
	resumeCmd.Flags().BoolVar(&parallelEval, "parallel", false, "Evaluate offspring across a worker pool")
	resumeCmd.Flags().StringVar(&historyDir, "history-dir", "", "Directory for history snapshots")
	resumeCmd.Flags().IntVar(&historyStep, "history-step", 10, "Generations between history snapshots")
	resumeCmd.Flags().IntVar(&partitions, "partitions", 12, "Das-Dennis partitions (NSGA-III)")
	resumeCmd.Flags().IntVar(&zdt1Variables, "variables", 30, "Number of variables (zdt1)")
	resumeCmd.Flags().IntVar(&dtlzObjs, "objectives", 3, "Number of objectives (dtlz1)")

	rootCmd.AddCommand(resumeCmd)
}

func resumeOptimisation(cmd *cobra.Command, args []string) error {
	problem, err := buildProblem()
	if err != nil {
		return err
	}

	engine, err := buildEngine(problem, args[0])
	if err != nil {
		return err
	}

	start := time.Now()
	if err := algorithms.Run(engine); err != nil {
		return err
	}
	return report(engine, time.Since(start))
}
