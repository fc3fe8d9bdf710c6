// Package tournament plays a round robin between random gene vectors and ranks
// them by knockouts. Its output is the gene table read by ranked difficulty.
package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/sparring/arena"
	"github.com/pthm-cable/sparring/bot"
	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/genes"
	"github.com/pthm-cable/sparring/telemetry"
)

// Entrant is one bot in the round robin.
type Entrant struct {
	Actor  *combat.Actor
	Policy *bot.GenePolicy
	Wins   int
}

func (e *Entrant) combatant() arena.Combatant {
	return arena.Combatant{Actor: e.Actor, Policy: e.Policy}
}

// Tournament runs every pairing once, one fight at a time in a single arena.
type Tournament struct {
	cfg      *config.Config
	sched    *arena.Scheduler
	entrants []*Entrant
	logger   *slog.Logger
	fights   int
}

// New draws cfg.Tournament.Bots gene vectors. With 8 multipliers configured,
// gene i is U(0,1) * multipliers[i]; otherwise every gene is U(0,1).
func New(cfg *config.Config, rng *rand.Rand, logger *slog.Logger) (*Tournament, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tournament.Bots < 2 {
		return nil, fmt.Errorf("tournament needs at least 2 bots, got %d", cfg.Tournament.Bots)
	}
	if cfg.Tournament.FightTime <= 0 {
		return nil, fmt.Errorf("tournament fight time must be positive, got %v", cfg.Tournament.FightTime)
	}

	t := &Tournament{
		cfg:    cfg,
		sched:  arena.NewScheduler(cfg, 1, logger),
		logger: logger,
	}
	t.sched.SetRoundTime(cfg.Tournament.FightTime)

	bounds := genes.Bounds{Min: cfg.Genes.Min, Max: cfg.Genes.Max}
	for i := 0; i < cfg.Tournament.Bots; i++ {
		g := genes.Random(rng, 1, bounds)
		if m := cfg.Tournament.Multipliers; len(m) == genes.Size {
			var mult genes.Vector
			copy(mult[:], m)
			g = genes.RandomScaled(rng, mult, bounds)
		}
		a := combat.NewActor(i+1, combat.RoleBotMany, combat.Stats(cfg.Actor))
		a.SetTraining(true)
		// A knockout ends the fight early.
		a.OnDeath(func(*combat.Actor) { t.sched.Halt() })
		t.entrants = append(t.entrants, &Entrant{
			Actor:  a,
			Policy: bot.NewGenePolicy(g, cfg.Arena.WanderRadius, rand.New(rand.NewSource(rng.Int63()))),
		})
	}
	return t, nil
}

// Entrants returns the bots in draw order.
func (t *Tournament) Entrants() []*Entrant { return t.entrants }

// Fights returns the number of fights played.
func (t *Tournament) Fights() int { return t.fights }

// Run plays every pair i < j once.
func (t *Tournament) Run(ctx context.Context) error {
	n := len(t.entrants)
	t.logger.Info("tournament started", "bots", n, "fights", n*(n-1)/2, "fight_time", t.cfg.Tournament.FightTime)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if err := t.Fight(ctx, t.entrants[i], t.entrants[j]); err != nil {
				return err
			}
		}
	}
	t.logger.Info("tournament finished", "fights", t.fights)
	return nil
}

// Fight runs one bout. A bot scores when its opponent ends at 0 HP.
func (t *Tournament) Fight(ctx context.Context, a, b *Entrant) error {
	if err := t.sched.ResetRound([]arena.Combatant{a.combatant()}, []arena.Combatant{b.combatant()}); err != nil {
		return err
	}
	if err := t.sched.RunRound(ctx); err != nil {
		t.sched.Halt()
		return err
	}
	t.fights++
	if b.Actor.HP() == 0 {
		a.Wins++
	}
	if a.Actor.HP() == 0 {
		b.Wins++
	}
	t.logger.Debug("fight finished",
		"a", a.Actor.ID,
		"b", b.Actor.ID,
		"a_hp", a.Actor.HP(),
		"b_hp", b.Actor.HP(),
		"elapsed", t.sched.Elapsed(),
	)
	return nil
}

// Table returns one row per bot in draw order.
func (t *Tournament) Table() []telemetry.GeneTableEntry {
	rows := make([]telemetry.GeneTableEntry, len(t.entrants))
	for i, e := range t.entrants {
		rows[i] = telemetry.GeneTableEntry{Probs: e.Policy.Genes(), MatchesWon: e.Wins}
	}
	return rows
}

// WriteTable writes the gene table CSV.
func (t *Tournament) WriteTable(path string) error {
	return telemetry.WriteGeneTable(path, t.Table())
}
