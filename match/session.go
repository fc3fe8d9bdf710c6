// Package match runs a live session: the player against one bot with lives,
// a countdown before every round and a difficulty update after every death.
package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/sparring/arena"
	"github.com/pthm-cable/sparring/bot"
	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/difficulty"
	"github.com/pthm-cable/sparring/genes"
	"github.com/pthm-cable/sparring/telemetry"
)

// Actor IDs of the two live combatants.
const (
	PlayerID = 1
	BotID    = 2
)

// ErrFinished is returned when starting a session that already ended.
var ErrFinished = errors.New("match: session finished")

// Phase is the session's position in the round cycle.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseCountdown
	PhaseFighting
	PhaseRestarting
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhaseFighting:
		return "fighting"
	case PhaseRestarting:
		return "restarting"
	case PhaseFinished:
		return "finished"
	}
	return "idle"
}

// Options configures a Session. Zero values select no-op collaborators.
type Options struct {
	Notifier combat.Notifier
	Log      *telemetry.MatchLog
	Logger   *slog.Logger
	// PlayerPolicy drives the player side headlessly. Nil leaves the player to
	// external input through Player().
	PlayerPolicy bot.Policy
	// Trained marks a genetic session played with trained genes after warm-up.
	Trained bool
	Rng     *rand.Rand
}

// Session is one live match in a single arena.
type Session struct {
	id     string
	cfg    *config.Config
	mode   difficulty.GameMode
	ctrl   *difficulty.Controller
	sched  *arena.Scheduler
	notify combat.Notifier
	log    *telemetry.MatchLog
	logger *slog.Logger

	player    arena.Combatant
	bot       arena.Combatant
	botPolicy *bot.GenePolicy

	timers     combat.TimerQueue
	phase      Phase
	countdown  int
	fixedGenes bool
	screen     combat.Screen
	matches    int
}

// NewSession builds the pair for a game mode. Many-enemies mode needs a gene
// table loaded into ctrl.
func NewSession(cfg *config.Config, ctrl *difficulty.Controller, mode difficulty.GameMode, opts Options) (*Session, error) {
	notify := opts.Notifier
	if notify == nil {
		notify = combat.NopNotifier{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		mode:   mode,
		ctrl:   ctrl,
		sched:  arena.NewScheduler(cfg, 1, logger),
		notify: notify,
		log:    opts.Log,
		logger: logger,
	}
	s.logger = logger.With("session", s.id)
	s.sched.SetRoundTime(0)

	role, err := s.configure(opts.Trained)
	if err != nil {
		return nil, err
	}

	lives := cfg.LivesFor(string(mode))
	if err := ctrl.Update(func(m *difficulty.MatchState) {
		m.GameMode = mode
		m.Lives = lives
		m.PlayerLives = lives
		m.BotLives = lives
		m.WarmUp = mode == difficulty.GameGenetic && !opts.Trained
		m.PlayerID = cfg.Match.PlayerID
		if id := opts.Log.ID(); id != "" {
			m.PlayerID = id
		}
	}); err != nil {
		return nil, err
	}

	p := combat.NewActor(PlayerID, combat.RolePlayer, combat.Stats(cfg.Actor))
	p.Name = "player"
	p.SetNotifier(notify)
	p.SetLives(lives, true)
	s.player = arena.Combatant{Actor: p, Policy: opts.PlayerPolicy}

	b := combat.NewActor(BotID, role, ctrl.Stats())
	b.Name = "bot"
	b.SetNotifier(notify)
	b.SetLives(lives, false)
	s.botPolicy = bot.NewGenePolicy(ctrl.Genes(), cfg.Arena.WanderRadius, rng)
	s.bot = arena.Combatant{Actor: b, Policy: s.botPolicy}

	for _, a := range []*combat.Actor{p, b} {
		a.OnDeath(s.onDeath)
		a.OnEliminated(s.onEliminated)
	}
	return s, nil
}

// configure selects the difficulty mode and bot role for the game mode.
func (s *Session) configure(trained bool) (combat.Role, error) {
	switch s.mode {
	case difficulty.GameManyEnemies:
		if err := s.ctrl.SetMode(difficulty.ModeRanked); err != nil {
			return 0, fmt.Errorf("many enemies mode: %w", err)
		}
		return combat.RoleBotMany, s.ctrl.Reset()
	case difficulty.GameGenetic:
		if trained {
			s.fixedGenes = true
			return combat.RoleBotGenetic, nil
		}
		if err := s.ctrl.SetMode(difficulty.ModePreset); err != nil {
			return 0, err
		}
		return combat.RoleBot, s.ctrl.Reset()
	case difficulty.GameNone:
		if err := s.ctrl.SetMode(difficulty.ModePreset); err != nil {
			return 0, err
		}
		return combat.RoleBot, s.ctrl.Reset()
	case difficulty.GameClassical:
		if s.ctrl.Mode() == difficulty.ModeRanked {
			if err := s.ctrl.SetMode(difficulty.ModePreset); err != nil {
				return 0, err
			}
		}
		return combat.RoleBot, s.ctrl.Reset()
	}
	return 0, fmt.Errorf("unknown game mode %q", s.mode)
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Player returns the player actor.
func (s *Session) Player() *combat.Actor { return s.player.Actor }

// Bot returns the bot actor.
func (s *Session) Bot() *combat.Actor { return s.bot.Actor }

// BotGenes returns the genes currently driving the bot.
func (s *Session) BotGenes() genes.Vector { return s.botPolicy.Genes() }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Finished reports whether either side ran out of lives.
func (s *Session) Finished() bool { return s.phase == PhaseFinished }

// Screen returns the screen requested when the session finished.
func (s *Session) Screen() combat.Screen { return s.screen }

// Matches returns the number of concluded matches.
func (s *Session) Matches() int { return s.matches }

// Start places both actors and begins the first countdown.
func (s *Session) Start() error {
	if s.phase == PhaseFinished {
		return ErrFinished
	}
	if err := s.reset(); err != nil {
		return err
	}
	s.logger.Info("session started", "mode", string(s.mode), "lives", s.player.Actor.Lives())
	return nil
}

func (s *Session) reset() error {
	if err := s.sched.ResetRound([]arena.Combatant{s.player}, []arena.Combatant{s.bot}); err != nil {
		return err
	}
	s.startCountdown()
	return nil
}

// startCountdown freezes both actors and counts down one step per interval.
func (s *Session) startCountdown() {
	s.phase = PhaseCountdown
	s.player.Actor.Freeze(true)
	s.bot.Actor.Freeze(true)
	s.countdown = s.cfg.Match.CountdownFrom
	if s.countdown <= 0 {
		s.fight()
		return
	}
	s.notify.Countdown(s.countdown)
	s.timers.After(s.cfg.Match.CountdownStep, s.countStep)
}

func (s *Session) countStep() {
	s.countdown--
	s.notify.Countdown(s.countdown)
	if s.countdown > 0 {
		s.timers.After(s.cfg.Match.CountdownStep, s.countStep)
		return
	}
	s.fight()
}

func (s *Session) fight() {
	s.player.Actor.Freeze(false)
	s.bot.Actor.Freeze(false)
	s.phase = PhaseFighting
	s.ctrl.BeginRound()
}

// Tick advances session timers and the arena by dt seconds.
func (s *Session) Tick(dt float64) {
	if s.phase == PhaseIdle || s.phase == PhaseFinished {
		return
	}
	s.timers.Advance(dt)
	s.sched.AdvanceTick(dt)
}

// Run ticks at the fixed step until the session finishes, limit seconds pass
// (zero means no limit) or ctx is cancelled.
func (s *Session) Run(ctx context.Context, limit float64) error {
	if s.phase == PhaseIdle {
		if err := s.Start(); err != nil {
			return err
		}
	}
	dt := s.cfg.Derived.FixedDT
	for elapsed := 0.0; !s.Finished() && (limit <= 0 || elapsed < limit); elapsed += dt {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Tick(dt)
	}
	return nil
}

// onDeath concludes the match: it releases the round lock, records the outcome
// and, unless the dead side is out of lives, schedules the restart sequence.
func (s *Session) onDeath(dead *combat.Actor) {
	if s.phase != PhaseFighting {
		return
	}
	s.sched.Halt()
	s.ctrl.EndRound()
	s.matches++

	winner := dead.Opponent()
	playerWon := dead == s.bot.Actor
	s.ctrl.RecordOutcome(playerWon, winner.HP(), dead.LastRoundTime())
	if err := s.ctrl.Update(func(m *difficulty.MatchState) {
		m.PlayerLives = s.player.Actor.Lives()
		m.BotLives = s.bot.Actor.Lives()
	}); err != nil {
		s.logger.Warn("match state update failed", "err", err)
	}

	rec := telemetry.MatchRecord{
		Time:     dead.LastRoundTime(),
		Bot:      s.bot.Actor.Role.String(),
		Winner:   winner.Role.String(),
		WinnerHP: winner.HP(),
		Probs:    s.botPolicy.Genes(),
	}
	if err := s.log.Write(rec); err != nil {
		s.logger.Warn("telemetry write failed", "file", s.log.Path(), "err", err)
	}
	s.logger.Info("match concluded",
		"winner", rec.Winner,
		"winner_hp", rec.WinnerHP,
		"time", rec.Time,
		"player_lives", s.player.Actor.Lives(),
		"bot_lives", s.bot.Actor.Lives(),
	)

	if dead.Lives() == 0 {
		// Elimination finishes the session.
		return
	}
	s.phase = PhaseRestarting
	delta := -1
	if playerWon {
		delta = 1
	}
	s.timers.After(s.cfg.Match.RestartDelay, func() { s.rebind(delta) })
	s.timers.After(2*s.cfg.Match.RestartDelay, s.restart)
}

// rebind updates the difficulty and binds the bot to the resulting genes and
// stats, then returns both actors to their spawn points.
func (s *Session) rebind(delta int) {
	if err := s.ctrl.Adjust(delta); err != nil {
		s.logger.Warn("difficulty update failed", "err", err)
	}
	if !s.fixedGenes {
		s.botPolicy.SetGenes(s.ctrl.Genes())
	}
	s.bot.Actor.ApplyStats(s.ctrl.Stats())
	s.sched.Reposition(s.sched.Arenas()[0])
}

func (s *Session) restart() {
	if s.phase != PhaseRestarting {
		return
	}
	if err := s.reset(); err != nil {
		s.logger.Error("restart failed", "err", err)
	}
}

// onEliminated finishes the session. A genetic warm-up continues into training.
func (s *Session) onEliminated(*combat.Actor) {
	s.phase = PhaseFinished
	s.timers.Clear()
	s.screen = combat.ScreenGameOver

	warmUp := false
	if err := s.ctrl.Update(func(m *difficulty.MatchState) {
		warmUp = m.WarmUp && m.GameMode == difficulty.GameGenetic
		if warmUp {
			m.WarmUp = false
		}
	}); err != nil {
		s.logger.Warn("match state update failed", "err", err)
	}
	if warmUp {
		s.screen = combat.ScreenTraining
	}
	s.notify.LoadScreen(s.screen)
	s.logger.Info("session finished", "matches", s.matches, "screen", s.screen)
}
