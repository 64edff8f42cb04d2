// Package algorithms contains the selection engines (NSGA-II, NSGA-III
// and adaptive NSGA-III) together with the generation driver: stopping
// conditions, history snapshots and resume.
package algorithms

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/evolvekit/evolvekit/core"
	"github.com/evolvekit/evolvekit/operators"
)

// Engine is a selection engine driven by Run: it owns a population and
// evolves it one generation at a time.
type Engine interface {
	// Initialise samples and evaluates the starting population, or
	// rehydrates it from a snapshot when resuming.
	Initialise() error
	// Evolve advances the population by one generation.
	Evolve() error
	// Generation returns the current generation counter.
	Generation() int
	// Name returns the algorithm name used in logs and snapshots.
	Name() string
	// Population returns the current population.
	Population() *core.Population
	// Problem returns the problem being solved.
	Problem() *core.Problem
	// Snapshot captures the current run state for history export.
	Snapshot() (*Snapshot, error)

	exportHistory() *ExportHistory
	stoppingCondition() StoppingCondition
	runState() *RunState
}

// Options configures a selection engine. The zero value is not usable:
// NumberOfIndividuals and StoppingCondition are mandatory.
type Options struct {
	// NumberOfIndividuals is the fixed population size N.
	NumberOfIndividuals int
	// StoppingCondition terminates the generation loop.
	StoppingCondition StoppingCondition
	// CrossoverOptions overrides the SBX defaults.
	CrossoverOptions *operators.SBXOptions
	// MutationOptions overrides the polynomial mutation defaults.
	MutationOptions *operators.PMOptions
	// Parallel fans the fitness evaluations out over a worker pool.
	Parallel bool
	// ExportHistory enables periodic population snapshots.
	ExportHistory *ExportHistory
	// ResumeFromFile rehydrates the run from a snapshot file.
	ResumeFromFile string
	// Seed fixes the PRNG seed; when nil a seed is drawn from OS entropy.
	Seed *uint64
}

// base carries the run state shared by all engines.
type base struct {
	problem    *core.Problem
	population *core.Population
	generation int
	nfe        int
	rng        *core.Rand
	seed       uint64
	startTime  time.Time
	parallel   bool
	history    *ExportHistory
	stopping   StoppingCondition
	runID      string
}

// newBase validates the shared options and prepares the run state,
// loading the resume snapshot when one is configured.
func newBase(problem *core.Problem, opts Options, name string) (*base, error) {
	if opts.NumberOfIndividuals < 2 {
		return nil, &core.ValidationError{Field: "NumberOfIndividuals", Reason: "must be at least 2"}
	}
	if opts.StoppingCondition == nil {
		return nil, &core.ValidationError{Field: "StoppingCondition", Reason: "cannot be nil"}
	}

	seed := uint64(0)
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		drawn, err := core.NewRandomSeed()
		if err != nil {
			return nil, err
		}
		seed = drawn
	}

	b := &base{
		problem:   problem,
		rng:       core.NewRand(seed),
		seed:      seed,
		startTime: time.Now(),
		parallel:  opts.Parallel,
		history:   opts.ExportHistory,
		stopping:  opts.StoppingCondition,
		runID:     uuid.NewString(),
	}

	if opts.ResumeFromFile != "" {
		snapshot, err := LoadSnapshot(opts.ResumeFromFile)
		if err != nil {
			return nil, err
		}
		if snapshot.Algorithm != name {
			return nil, fmt.Errorf("the snapshot was produced by %s, not %s", snapshot.Algorithm, name)
		}
		if err := problem.CheckCompatibility(&snapshot.Problem); err != nil {
			return nil, fmt.Errorf("the snapshot problem does not match: %w", err)
		}
		if len(snapshot.Individuals) != opts.NumberOfIndividuals {
			return nil, fmt.Errorf(
				"the number of individuals in the snapshot (%d) does not match the population size (%d)",
				len(snapshot.Individuals), opts.NumberOfIndividuals)
		}
		population, err := core.DeserialisePopulation(snapshot.Individuals, problem)
		if err != nil {
			return nil, err
		}
		b.population = population
		b.generation = snapshot.Generation
		b.nfe = snapshot.FunctionEvaluations
		b.seed = snapshot.Seed
		if snapshot.PRNGState != nil {
			b.rng = core.NewRand(snapshot.Seed)
			if err := b.rng.RestoreState(snapshot.PRNGState); err != nil {
				return nil, err
			}
		} else {
			b.rng = core.NewReseededRand(snapshot.Seed, snapshot.Generation)
		}
		slog.Info("Resumed run from snapshot",
			"file", opts.ResumeFromFile,
			"generation", snapshot.Generation,
			"individuals", len(snapshot.Individuals),
		)
	}

	return b, nil
}

// Generation returns the current generation counter.
func (b *base) Generation() int { return b.generation }

// Population returns the current population.
func (b *base) Population() *core.Population { return b.population }

// Problem returns the problem being solved.
func (b *base) Problem() *core.Problem { return b.problem }

// FunctionEvaluations returns the number of evaluator calls performed.
func (b *base) FunctionEvaluations() int { return b.nfe }

// Seed returns the PRNG seed of this run.
func (b *base) Seed() uint64 { return b.seed }

// Elapsed returns the wall-clock time since the run started.
func (b *base) Elapsed() time.Duration { return time.Since(b.startTime) }

func (b *base) exportHistory() *ExportHistory { return b.history }

func (b *base) stoppingCondition() StoppingCondition { return b.stopping }

func (b *base) runState() *RunState {
	return &RunState{
		Generation:          b.generation,
		Elapsed:             b.Elapsed(),
		FunctionEvaluations: b.nfe,
		Population:          b.population,
	}
}

// snapshot assembles the serialisable run state common to all engines.
func (b *base) snapshot(name string, options any, additional map[string]any) (*Snapshot, error) {
	state, err := b.rng.State()
	if err != nil {
		return nil, fmt.Errorf("failed to capture the PRNG state: %w", err)
	}
	return &Snapshot{
		Options:             options,
		Problem:             b.problem.Export(),
		Individuals:         b.population.Serialise(),
		Generation:          b.generation,
		Algorithm:           name,
		Took:                NewElapsed(b.Elapsed()),
		AdditionalData:      additional,
		ExportedOn:          time.Now().UTC().Format(time.RFC3339),
		RunID:               b.runID,
		Seed:                b.seed,
		FunctionEvaluations: b.nfe,
		PRNGState:           state,
	}, nil
}

// evaluatePopulation runs the evaluation harness over the given
// individuals and accounts the evaluator calls.
func (b *base) evaluatePopulation(individuals []*core.Individual) error {
	evaluations, err := evaluateAll(individuals, b.parallel)
	b.nfe += evaluations
	if err != nil {
		return err
	}
	return nil
}

// Run drives an engine until its stopping condition is met: initialise,
// then evolve generation by generation, exporting history snapshots on
// the configured cadence. History I/O failures abort the run.
func Run(e Engine) error {
	slog.Info("Starting optimisation",
		"algorithm", e.Name(),
		"objectives", e.Problem().NumberOfObjectives(),
		"variables", e.Problem().NumberOfVariables(),
	)
	if err := e.Initialise(); err != nil {
		return fmt.Errorf("failed to initialise %s: %w", e.Name(), err)
	}

	// a resumed run may already satisfy its stopping condition
	if met, err := e.stoppingCondition().IsMet(e.runState()); err != nil {
		return err
	} else if met {
		slog.Info("Stopping before evolving", "condition", e.stoppingCondition().Name(), "generation", e.Generation())
		return nil
	}

	history := e.exportHistory()
	for {
		if err := e.Evolve(); err != nil {
			return fmt.Errorf("failed to evolve generation %d: %w", e.Generation()+1, err)
		}
		slog.Debug("Evolved generation", "generation", e.Generation())

		if history != nil && history.shouldExport(e.Generation()) {
			snapshot, err := e.Snapshot()
			if err != nil {
				return err
			}
			if err := snapshot.Save(history.Destination); err != nil {
				return err
			}
			slog.Debug("History snapshot saved", "generation", e.Generation())
		}

		met, err := e.stoppingCondition().IsMet(e.runState())
		if err != nil {
			return err
		}
		if met {
			if history != nil {
				snapshot, err := e.Snapshot()
				if err != nil {
					return err
				}
				if err := snapshot.Save(history.Destination); err != nil {
					return err
				}
			}
			slog.Info("Stopping evolution",
				"condition", e.stoppingCondition().Name(),
				"generation", e.Generation(),
			)
			return nil
		}
	}
}
