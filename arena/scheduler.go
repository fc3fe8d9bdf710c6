package arena

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/sparring/bot"
	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/geom"
	"github.com/pthm-cable/sparring/systems"
	"github.com/pthm-cable/sparring/telemetry"
)

// parallelThreshold is the minimum bound arena count for concurrent phases.
// Below this, stepping inline is faster than goroutine fan-out.
const parallelThreshold = 8

// ErrPairMismatch is returned when the two sides of a round differ in size or
// exceed the available arenas.
var ErrPairMismatch = errors.New("arena: pair count mismatch")

// RoundEndHandler is called after the forced death path at the end of a round.
type RoundEndHandler func(arenas []*Arena)

// Scheduler owns a fixed set of arenas and steps every bound pair.
//
// Physics runs on a fixed timestep accumulated from the frame dt; actor timers
// advance by the frame dt itself. Arenas never touch each other's state, so the
// policy and strike phases may run concurrently across arenas. Physics always
// runs on the calling goroutine.
type Scheduler struct {
	cfg    *config.Config
	world  *systems.BodyWorld
	arenas []*Arena
	logger *slog.Logger
	perf   *telemetry.PerfCollector

	fixedDT   float64
	roundTime float64
	workers   int

	acc     float64
	elapsed float64
	active  bool
	round   int

	onStart []func()
	onEnd   []RoundEndHandler
}

// NewScheduler creates n arenas laid out on a grid. A nil logger uses slog.Default().
func NewScheduler(cfg *config.Config, n int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	w := systems.NewBodyWorld()
	return &Scheduler{
		cfg:       cfg,
		world:     w,
		arenas:    newArenas(w, n, cfg),
		logger:    logger,
		fixedDT:   cfg.Derived.FixedDT,
		roundTime: cfg.Training.RoundTime,
		workers:   cfg.Training.Workers,
	}
}

// Arenas returns every arena.
func (s *Scheduler) Arenas() []*Arena { return s.arenas }

// SetRoundTime sets the round length in seconds. Zero disables the limit.
func (s *Scheduler) SetRoundTime(seconds float64) { s.roundTime = seconds }

// SetWorkers sets the goroutine limit for concurrent phases. Values below 2 step inline.
func (s *Scheduler) SetWorkers(n int) { s.workers = n }

// SetPerf installs a tick timing collector.
func (s *Scheduler) SetPerf(p *telemetry.PerfCollector) { s.perf = p }

// OnRoundStart registers a hook run after every ResetRound.
func (s *Scheduler) OnRoundStart(fn func()) { s.onStart = append(s.onStart, fn) }

// OnRoundEnd registers a handler run after every EndRound.
func (s *Scheduler) OnRoundEnd(fn RoundEndHandler) { s.onEnd = append(s.onEnd, fn) }

// Active reports whether a round is running.
func (s *Scheduler) Active() bool { return s.active }

// Elapsed returns the seconds since the round started.
func (s *Scheduler) Elapsed() float64 { return s.elapsed }

// Round returns the number of rounds started.
func (s *Scheduler) Round() int { return s.round }

// ResetRound binds sideA[i] and sideB[i] to arena i, places them at opposite
// offsets from the arena center, revives them and rebinds their opponents.
// Arenas past the pair count stay idle for the round.
func (s *Scheduler) ResetRound(sideA, sideB []Combatant) error {
	if len(sideA) != len(sideB) || len(sideA) > len(s.arenas) {
		return fmt.Errorf("%w: %d vs %d for %d arenas", ErrPairMismatch, len(sideA), len(sideB), len(s.arenas))
	}

	for i, a := range s.arenas {
		a.tally = Tally{}
		if i >= len(sideA) {
			a.sides = [2]Combatant{}
			a.bound = false
			continue
		}
		a.sides = [2]Combatant{sideA[i], sideB[i]}
		a.bound = true
		for side, c := range a.sides {
			s.place(a, side, c)
		}
		a.sides[0].Actor.SetOpponent(a.sides[1].Actor)
		a.sides[1].Actor.SetOpponent(a.sides[0].Actor)
	}

	s.acc = 0
	s.elapsed = 0
	s.active = true
	s.round++
	for _, fn := range s.onStart {
		fn()
	}
	return nil
}

// place binds a combatant to an arena body and resets it at its spawn point.
func (s *Scheduler) place(a *Arena, side int, c Combatant) {
	pos, rot := a.Start(side, s.cfg.Arena.StartOffset)
	actor := c.Actor
	actor.SetBody(a.bodies[side])
	actor.SetCenter(a.Center)
	actor.Body().SetPosition(pos)
	actor.SetRotation(rot)
	actor.Reset()
	if c.Policy != nil {
		c.Policy.Reset()
	}
}

// Reposition moves both actors of a bound arena back to their spawn points
// and stops them, without touching combat state.
func (s *Scheduler) Reposition(a *Arena) {
	for side, c := range a.sides {
		if c.Actor == nil {
			continue
		}
		pos, rot := a.Start(side, s.cfg.Arena.StartOffset)
		c.Actor.Body().SetPosition(pos)
		c.Actor.Body().SetVelocity(geom.Vec2{})
		c.Actor.SetRotation(rot)
	}
}

// AdvanceTick advances the simulation by dt seconds of frame time. When the
// round limit is reached the round is ended.
func (s *Scheduler) AdvanceTick(dt float64) {
	if !s.active || dt <= 0 {
		return
	}

	s.acc += dt
	for s.active && s.acc >= s.fixedDT {
		s.acc -= s.fixedDT
		s.step(s.fixedDT)
	}
	if !s.active {
		// Halted from inside a step.
		return
	}

	s.perf.StartPhase(telemetry.PhaseTimers)
	for _, a := range s.arenas {
		if !a.bound {
			continue
		}
		for _, c := range a.sides {
			c.Actor.Tick(dt)
		}
	}

	s.elapsed += dt
	if s.roundTime > 0 && s.elapsed >= s.roundTime {
		s.EndRound()
	}
}

// RunRound advances in fixed steps until the round ends or ctx is cancelled.
func (s *Scheduler) RunRound(ctx context.Context) error {
	for s.active {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.perf.StartTick()
		s.AdvanceTick(s.fixedDT)
		s.perf.EndTick()
	}
	return nil
}

// step runs one fixed physics step: policies, movement intents, integration,
// then strike resolution.
func (s *Scheduler) step(dt float64) {
	s.perf.StartPhase(telemetry.PhasePolicy)
	s.eachArena(decide)

	s.perf.StartPhase(telemetry.PhaseMovement)
	for _, a := range s.arenas {
		if a.bound && a.live() {
			a.sides[0].Actor.ApplyMovement()
			a.sides[1].Actor.ApplyMovement()
		}
	}

	s.perf.StartPhase(telemetry.PhasePhysics)
	s.world.Step(dt)

	s.perf.StartPhase(telemetry.PhaseStrikes)
	s.eachArena(resolveStrikes)
}

// eachArena runs fn for every bound arena, concurrently when configured.
func (s *Scheduler) eachArena(fn func(*Arena)) {
	bound := 0
	for _, a := range s.arenas {
		if a.bound {
			bound++
		}
	}
	if s.workers < 2 || bound < parallelThreshold {
		for _, a := range s.arenas {
			if a.bound {
				fn(a)
			}
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, a := range s.arenas {
		if !a.bound {
			continue
		}
		g.Go(func() error {
			fn(a)
			return nil
		})
	}
	_ = g.Wait()
}

// live reports whether both actors are alive and unfrozen.
func (a *Arena) live() bool {
	x, y := a.sides[0].Actor, a.sides[1].Actor
	return !x.IsDead() && !y.IsDead() && !x.Frozen() && !y.Frozen()
}

func decide(a *Arena) {
	if !a.live() {
		return
	}
	for _, c := range a.sides {
		if c.Policy == nil {
			continue
		}
		if snap, ok := bot.Sense(c.Actor); ok {
			c.Policy.Decide(c.Actor, snap)
		}
	}
}

// resolveStrikes checks both swings in ascending actor ID order. The first
// strike to land knocks its target out of attack, which discards the target's
// own swing for this step.
func resolveStrikes(a *Arena) {
	order := []*combat.Actor{a.sides[0].Actor, a.sides[1].Actor}
	sort.Slice(order, func(i, j int) bool { return order[i].ID < order[j].ID })
	for _, attacker := range order {
		switch combat.ResolveStrike(attacker, attacker.Opponent()) {
		case combat.OutcomeDamage:
			a.tally.Damage++
		case combat.OutcomeBlocked:
			a.tally.Blocked++
		}
	}
}

// EndRound forces the death path on every bound actor and runs the round end
// handlers. Calling it outside a round does nothing.
func (s *Scheduler) EndRound() {
	if !s.active {
		return
	}
	s.active = false
	for _, a := range s.arenas {
		if !a.bound {
			continue
		}
		for _, c := range a.sides {
			c.Actor.Die()
		}
	}
	s.logger.Debug("round finished", "round", s.round, "elapsed", s.elapsed)

	bound := make([]*Arena, 0, len(s.arenas))
	for _, a := range s.arenas {
		if a.bound {
			bound = append(bound, a)
		}
	}
	for _, fn := range s.onEnd {
		fn(bound)
	}
}

// Halt stops the round clock without the death path.
func (s *Scheduler) Halt() { s.active = false }
