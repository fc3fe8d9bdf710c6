package evolve

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/pthm-cable/sparring/bot"
	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/genes"
	"github.com/pthm-cable/sparring/telemetry"
)

func TestFitness(t *testing.T) {
	tests := []struct {
		name                  string
		evolving, static, ref int
		want                  int
	}{
		{"exact gap", 3, 1, 2, 10},
		{"even match on zero reference", 4, 4, 0, 10},
		{"overshoot", 5, 0, 2, 7},
		{"undershoot", 0, 5, 2, 3},
		{"negative reference", 1, 4, -3, 10},
		{"worst case", 0, 5, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fitness(tt.evolving, tt.static, tt.ref); got != tt.want {
				t.Errorf("Fitness(%d, %d, %d) = %d, want %d", tt.evolving, tt.static, tt.ref, got, tt.want)
			}
		})
	}
}

func TestReferenceDifferential(t *testing.T) {
	if got := ReferenceDifferential(true, 3); got != 3 {
		t.Errorf("player won with 3 HP: got %d, want 3", got)
	}
	if got := ReferenceDifferential(false, 2); got != -2 {
		t.Errorf("player lost to 2 HP: got %d, want -2", got)
	}
}

func scored(scores ...int) Population {
	p := make(Population, len(scores))
	for i, s := range scores {
		p[i] = &Individual{Genes: genes.Uniform(float64(i+1) / 10), Score: s}
	}
	return p
}

func TestRoulette_Proportional(t *testing.T) {
	p := scored(1, 3, 0, -2)
	r := NewRoulette(p)
	if r.Len() != 4 {
		t.Fatalf("pool has %d slots, want 4", r.Len())
	}

	rng := rand.New(rand.NewSource(7))
	counts := map[*Individual]int{}
	for i := 0; i < 4000; i++ {
		counts[r.Pick(rng)]++
	}
	if counts[p[2]] != 0 || counts[p[3]] != 0 {
		t.Errorf("non-positive scores were picked: %d, %d", counts[p[2]], counts[p[3]])
	}
	if counts[p[1]] < 2*counts[p[0]] {
		t.Errorf("score 3 picked %d times vs score 1 %d times", counts[p[1]], counts[p[0]])
	}
}

func TestRoulette_ZeroScoresFallBackToUniform(t *testing.T) {
	p := scored(0, 0, 0)
	r := NewRoulette(p)
	if r.Len() != 0 {
		t.Fatalf("pool has %d slots, want 0", r.Len())
	}

	rng := rand.New(rand.NewSource(1))
	seen := map[*Individual]bool{}
	for i := 0; i < 100; i++ {
		ind := r.Pick(rng)
		if ind == nil {
			t.Fatal("pick returned nil for a non-empty population")
		}
		seen[ind] = true
	}
	if len(seen) != 3 {
		t.Errorf("uniform fallback reached %d of 3 individuals", len(seen))
	}

	if NewRoulette(nil).Pick(rng) != nil {
		t.Error("empty population should pick nil")
	}
}

func TestNewGeneration(t *testing.T) {
	cfg := config.MustLoad("")
	b := genes.Bounds{Min: cfg.Genes.Min, Max: cfg.Genes.Max}
	rng := rand.New(rand.NewSource(3))

	p := scored(5, 0, 2, 0)
	p[1].Genes = genes.Uniform(1)
	p[3].Genes = genes.Uniform(0)
	policies := make([]*bot.GenePolicy, len(p))
	actors := make([]*combat.Actor, len(p))
	for i, ind := range p {
		policies[i] = bot.NewGenePolicy(ind.Genes, 1, rng)
		actors[i] = combat.NewActor(i, combat.RoleBotGenetic, combat.Stats(cfg.Actor))
		ind.Policy, ind.Actor = policies[i], actors[i]
	}

	if err := NewGeneration(p, rng, 0.1, b); err != nil {
		t.Fatal(err)
	}
	for i, ind := range p {
		if ind.Score != 0 {
			t.Errorf("individual %d: score %d not reset", i, ind.Score)
		}
		if !ind.Genes.Within(b) {
			t.Errorf("individual %d: child %v outside %v", i, ind.Genes, b)
		}
		if policies[i].Genes() != ind.Genes {
			t.Errorf("individual %d: policy not rebound", i)
		}
		if ind.Actor != actors[i] {
			t.Errorf("individual %d: actor replaced", i)
		}
	}

	if err := NewGeneration(nil, rng, 0.1, b); !errors.Is(err, ErrEmptyPopulation) {
		t.Errorf("expected ErrEmptyPopulation, got %v", err)
	}
}

func TestCrossoverStaysInBounds(t *testing.T) {
	b := genes.DefaultBounds()
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		p1 := genes.Random(rng, 1, b)
		p2 := genes.Random(rng, 1, b)
		if c := genes.Crossover(rng, p1, p2, 0.1, b); !c.Within(b) {
			t.Fatalf("child %v outside bounds", c)
		}
	}
}

func TestPopulationBest(t *testing.T) {
	p := scored(4, 9, 9, 1)
	if got := p.Best(); got != p[1] {
		t.Errorf("best = %+v, want the first 9", got)
	}
	if Population(nil).Best() != nil {
		t.Error("empty population should have no best")
	}
}

func trainingConfig(arenas, generations, rounds int, roundTime float64) *config.Config {
	cfg := config.MustLoad("")
	cfg.Training.Arenas = arenas
	cfg.Training.Generations = generations
	cfg.Training.Rounds = rounds
	cfg.Training.RoundTime = roundTime
	return cfg
}

func TestOptimizer_SingleRoundScoresBounded(t *testing.T) {
	cfg := trainingConfig(4, 1, 1, 10)
	static := genes.Uniform(0.1)

	o, err := NewOptimizer(cfg, Options{
		Static:  &static,
		Initial: []genes.Vector{genes.Uniform(0.5)},
		Rng:     rand.New(rand.NewSource(42)),
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := o.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	total := o.Population().Total()
	if total < 0 || total > 4*MaxRoundScore {
		t.Errorf("total score %d outside [0, %d]", total, 4*MaxRoundScore)
	}
	for _, ind := range o.Population() {
		if ind.Genes != genes.Uniform(0.5) {
			t.Errorf("single generation should keep the initial genes, got %v", ind.Genes)
		}
	}
	if res.Genes != genes.Uniform(0.5) || res.Score != o.Population().Best().Score {
		t.Errorf("result = %+v", res)
	}
	if h := o.History(); len(h) != 1 || h[0].Rounds != 1 {
		t.Errorf("history = %+v", h)
	}
}

func TestOptimizer_GenerationsEvolve(t *testing.T) {
	cfg := trainingConfig(6, 3, 2, 2)
	hall := telemetry.NewHallOfFame(5, rand.New(rand.NewSource(1)))
	om, err := telemetry.NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	o, err := NewOptimizer(cfg, Options{
		Reference: 1,
		Hall:      hall,
		Output:    om,
		Rng:       rand.New(rand.NewSource(5)),
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := o.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	b := genes.Bounds{Min: cfg.Genes.Min, Max: cfg.Genes.Max}
	if !res.Genes.Within(b) {
		t.Errorf("best genes %v outside bounds", res.Genes)
	}
	if res.Generations != 3 || res.Reference != 1 {
		t.Errorf("result = %+v", res)
	}
	if got := len(o.History()); got != 3 {
		t.Errorf("history has %d generations, want 3", got)
	}
	if hall.Size() != 3 {
		t.Errorf("hall holds %d entries, want one per generation", hall.Size())
	}
	for i, ind := range o.Static() {
		if ind.Genes != genes.Medium {
			t.Errorf("static %d drifted to %v", i, ind.Genes)
		}
	}
}

func TestOptimizer_ScriptedBaseline(t *testing.T) {
	cfg := trainingConfig(2, 1, 1, 1)
	cfg.Training.Baseline = BaselineScripted

	o, err := NewOptimizer(cfg, Options{Rng: rand.New(rand.NewSource(2))})
	if err != nil {
		t.Fatal(err)
	}
	for _, ind := range o.Static() {
		if _, ok := ind.Policy.(*bot.SensorPolicy); !ok {
			t.Errorf("static policy is %T, want *bot.SensorPolicy", ind.Policy)
		}
	}
	if _, err := o.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestOptimizer_Errors(t *testing.T) {
	if _, err := NewOptimizer(trainingConfig(0, 1, 1, 1), Options{}); !errors.Is(err, ErrEmptyPopulation) {
		t.Errorf("expected ErrEmptyPopulation, got %v", err)
	}
	if _, err := NewOptimizer(trainingConfig(2, 1, 1, 0), Options{}); err == nil {
		t.Error("expected an error for a zero round time")
	}

	o, err := NewOptimizer(trainingConfig(2, 1, 1, 5), Options{Rng: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if o.Scheduler().Active() {
		t.Error("cancelled run should leave no active round")
	}
}
