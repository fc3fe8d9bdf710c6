package evolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/sparring/arena"
	"github.com/pthm-cable/sparring/bot"
	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/genes"
	"github.com/pthm-cable/sparring/telemetry"
)

// Baseline kinds for the static population.
const (
	BaselineGenes    = "genes"
	BaselineScripted = "scripted"
)

// Options configures an Optimizer. The zero value trains against the medium
// preset with a zero reference differential and no output.
type Options struct {
	// Static is the baseline gene vector, usually the live match's active genes.
	Static *genes.Vector
	// Reference is the HP differential the evolving side is scored against.
	Reference int
	// Initial seeds the evolving genes, cycled over the population.
	// When empty the hall of fame is sampled, then random genes are drawn.
	Initial []genes.Vector

	Hall   *telemetry.HallOfFame
	Output *telemetry.OutputManager
	Logger *slog.Logger
	Rng    *rand.Rand
}

// Result is the trained outcome of a run.
type Result struct {
	Genes       genes.Vector
	Score       int
	Generations int
	Reference   int
}

// Optimizer runs the generational loop: rounds of evolving versus static pairs,
// fitness after every round, roulette breeding between generations.
type Optimizer struct {
	cfg    *config.Config
	bounds genes.Bounds
	sched  *arena.Scheduler

	population Population
	static     Population
	reference  int

	rng       *rand.Rand
	logger    *slog.Logger
	output    *telemetry.OutputManager
	hall      *telemetry.HallOfFame
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	history   []telemetry.GenerationStats
}

// NewOptimizer builds both populations and the arenas they fight in. The
// population size is cfg.Training.Arenas.
func NewOptimizer(cfg *config.Config, opts Options) (*Optimizer, error) {
	n := cfg.Training.Arenas
	if n <= 0 {
		return nil, fmt.Errorf("%w: training.arenas is %d", ErrEmptyPopulation, n)
	}
	if cfg.Training.RoundTime <= 0 {
		return nil, errors.New("evolve: training.round_time must be positive")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := opts.Rng
	if rng == nil {
		seed := cfg.Training.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	static := genes.Medium
	if opts.Static != nil {
		static = *opts.Static
	}

	o := &Optimizer{
		cfg:       cfg,
		bounds:    genes.Bounds{Min: cfg.Genes.Min, Max: cfg.Genes.Max},
		sched:     arena.NewScheduler(cfg, n, logger),
		reference: opts.Reference,
		rng:       rng,
		logger:    logger,
		output:    opts.Output,
		hall:      opts.Hall,
		collector: telemetry.NewCollector(),
		perf:      telemetry.NewPerfCollector(250),
	}
	o.sched.SetPerf(o.perf)

	stats := combat.Stats(cfg.Actor)
	for i := 0; i < n; i++ {
		g := o.initialGenes(i, opts.Initial)
		o.population = append(o.population, o.newIndividual(i+1, combat.RoleBotGenetic, g, stats))
	}
	baseRole := combat.RoleBotGenetic
	if cfg.Training.Baseline == BaselineScripted {
		baseRole = combat.RoleBotInputs
	}
	for i := 0; i < n; i++ {
		o.static = append(o.static, o.newIndividual(n+i+1, baseRole, static.Clamped(o.bounds), stats))
	}

	o.sched.OnRoundEnd(o.evaluate)
	return o, nil
}

func (o *Optimizer) initialGenes(i int, initial []genes.Vector) genes.Vector {
	if len(initial) > 0 {
		return initial[i%len(initial)].Clamped(o.bounds)
	}
	// Seed half the population from proven vectors.
	if o.hall != nil && i%2 == 0 {
		if g, ok := o.hall.Sample(); ok {
			return g
		}
	}
	if m := o.cfg.Training.InitMultipliers; len(m) == genes.Size {
		var mult genes.Vector
		copy(mult[:], m)
		return genes.RandomScaled(o.rng, mult, o.bounds)
	}
	return genes.Random(o.rng, o.cfg.Training.InitMultiplier, o.bounds)
}

// newIndividual creates a training actor with its own policy RNG so arenas can
// step concurrently.
func (o *Optimizer) newIndividual(id int, role combat.Role, g genes.Vector, stats combat.Stats) *Individual {
	a := combat.NewActor(id, role, stats)
	a.SetTraining(true)
	policyRng := rand.New(rand.NewSource(o.rng.Int63()))
	return &Individual{
		Genes:  g,
		Actor:  a,
		Policy: bot.ForRole(role, g, o.cfg, policyRng),
	}
}

// Population returns the evolving population.
func (o *Optimizer) Population() Population { return o.population }

// Static returns the frozen baseline population.
func (o *Optimizer) Static() Population { return o.static }

// Scheduler returns the arena scheduler.
func (o *Optimizer) Scheduler() *arena.Scheduler { return o.sched }

// History returns the statistics of every finished generation.
func (o *Optimizer) History() []telemetry.GenerationStats { return o.history }

// SetReference changes the target differential for subsequent rounds.
func (o *Optimizer) SetReference(ref int) { o.reference = ref }

// Run executes every generation and returns the best gene vector of the final
// generation. Cancelling ctx stops the current round and returns its error.
func (o *Optimizer) Run(ctx context.Context) (Result, error) {
	gens := max(1, o.cfg.Training.Generations)
	rounds := max(1, o.cfg.Training.Rounds)

	o.logger.Info("training started",
		"population", len(o.population),
		"generations", gens,
		"rounds", rounds,
		"round_time", o.cfg.Training.RoundTime,
		"reference", o.reference,
		"baseline", o.cfg.Training.Baseline,
	)

	for gen := 0; gen < gens; gen++ {
		for r := 0; r < rounds; r++ {
			if err := o.RunRound(ctx); err != nil {
				return Result{}, err
			}
		}
		o.finishGeneration()
		if gen < gens-1 {
			if err := NewGeneration(o.population, o.rng, o.cfg.Training.MutationSpread, o.bounds); err != nil {
				return Result{}, err
			}
		}
	}

	best := o.population.Best()
	res := Result{Genes: best.Genes, Score: best.Score, Generations: gens, Reference: o.reference}

	if err := o.output.WriteBestGenes(telemetry.NewBestGenes(res.Genes, res.Score, gens, o.reference)); err != nil {
		o.logger.Warn("telemetry write failed", "file", "best_genes.json", "err", err)
	}
	if err := o.output.WriteHallOfFame(o.hall); err != nil {
		o.logger.Warn("telemetry write failed", "file", "hall_of_fame.json", "err", err)
	}
	o.logger.Info("training finished", "best_score", res.Score, "best_genes", res.Genes.String())
	return res, nil
}

// RunRound shuffles the pairing, resets every arena and runs one timed round.
// Scoring happens in the round end handler.
func (o *Optimizer) RunRound(ctx context.Context) error {
	o.population.Shuffle(o.rng)
	if err := o.sched.ResetRound(o.population.Combatants(), o.static.Combatants()); err != nil {
		return err
	}
	if err := o.sched.RunRound(ctx); err != nil {
		o.sched.Halt()
		return err
	}
	return nil
}

// evaluate scores every pair after the forced round end. Arena i holds
// population[i] against static[i].
func (o *Optimizer) evaluate(arenas []*arena.Arena) {
	var strikes, blocks, kos int
	for _, a := range arenas {
		ind, base := o.population[a.Index], o.static[a.Index]
		ind.Score += Fitness(ind.Actor.HP(), base.Actor.HP(), o.reference)

		t := a.Tally()
		strikes += t.Damage
		blocks += t.Blocked
		for _, c := range a.Sides() {
			if c.Actor.HP() == 0 {
				kos++
			}
		}
	}
	o.collector.RecordRound(strikes, blocks, kos)
}

func (o *Optimizer) finishGeneration() {
	best := o.population.Best()
	stats := o.collector.Flush(o.population.Scores(), best.Score, best.Genes)
	o.history = append(o.history, stats)
	o.logger.Info("generation complete", "stats", stats)

	if err := o.output.WriteGeneration(stats); err != nil {
		o.logger.Warn("telemetry write failed", "file", "generations.csv", "err", err)
	}
	if err := o.output.WritePerf(o.perf.Stats(), stats.Generation); err != nil {
		o.logger.Warn("telemetry write failed", "file", "perf.csv", "err", err)
	}
	if o.hall != nil {
		o.hall.Consider(best.Genes, best.Score, stats.Generation)
	}
}
