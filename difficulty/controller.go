package difficulty

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/evolve"
	"github.com/pthm-cable/sparring/genes"
	"github.com/pthm-cable/sparring/geom"
)

// ErrRoundInProgress is returned for state changes attempted while a round's
// tick loop is running.
var ErrRoundInProgress = errors.New("difficulty: round in progress")

// Mode selects how the effective difficulty is applied to the opponent.
type Mode uint8

const (
	// ModePreset picks the easy, medium or hard gene preset.
	ModePreset Mode = iota
	// ModeDirect scales the opponent's stats per difficulty point.
	ModeDirect
	// ModeRanked indexes into a gene table sorted by score.
	ModeRanked
)

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeRanked:
		return "ranked"
	}
	return "preset"
}

// ParseMode reads a mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "preset":
		return ModePreset, nil
	case "direct":
		return ModeDirect, nil
	case "ranked":
		return ModeRanked, nil
	}
	return ModePreset, fmt.Errorf("unknown difficulty mode %q", s)
}

// minRecoveryFactor keeps the scaled stamina recovery rate positive.
const minRecoveryFactor = 0.05

// Controller owns the MatchState. Difficulty, genes and the gene table change
// only between BeginRound and EndRound brackets; the table watcher queues a
// reload that lands at the next round end.
type Controller struct {
	mu sync.Mutex

	cfg    config.DifficultyConfig
	base   combat.Stats
	mode   Mode
	state  MatchState
	table  *GeneTable
	queued *GeneTable

	inRound bool
	logger  *slog.Logger
}

// NewController creates a controller at difficulty 0 for cfg's difficulty mode,
// with the medium preset active.
func NewController(cfg *config.Config, logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mode, err := ParseMode(cfg.Difficulty.Mode)
	if err != nil {
		return nil, err
	}
	return &Controller{
		cfg:    cfg.Difficulty,
		base:   combat.Stats(cfg.Actor),
		mode:   mode,
		state:  MatchState{Genes: genes.Medium},
		logger: logger,
	}, nil
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches mode and reapplies the current difficulty. Ranked mode
// requires a loaded table.
func (c *Controller) SetMode(m Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inRound {
		return ErrRoundInProgress
	}
	if m == ModeRanked && c.table.Len() == 0 {
		return ErrEmptyGeneTable
	}
	c.mode = m
	return c.applyLocked()
}

// State returns a copy of the match state.
func (c *Controller) State() MatchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update mutates the match state between rounds. fn must not call back into
// the controller.
func (c *Controller) Update(fn func(*MatchState)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inRound {
		return ErrRoundInProgress
	}
	fn(&c.state)
	return nil
}

// BeginRound marks the start of a tick loop.
func (c *Controller) BeginRound() {
	c.mu.Lock()
	c.inRound = true
	c.mu.Unlock()
}

// EndRound marks the end of a tick loop and applies any queued table.
func (c *Controller) EndRound() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inRound = false
	if c.queued != nil {
		if err := c.installLocked(c.queued); err != nil {
			c.logger.Warn("gene table rejected", "err", err)
		}
		c.queued = nil
	}
}

// InRound reports whether a tick loop is running.
func (c *Controller) InRound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inRound
}

// Reset returns difficulty and momentum to zero and reapplies the mode.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inRound {
		return ErrRoundInProgress
	}
	c.state.Difficulty = 0
	c.state.Momentum = 0
	return c.applyLocked()
}

// Adjust moves the difficulty by delta (+1 after a bot death, -1 after a player
// death). Same-direction changes build momentum up to the cap; a reversal
// resets it.
func (c *Controller) Adjust(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inRound {
		return ErrRoundInProgress
	}
	if delta == 0 {
		return nil
	}

	s := &c.state
	dir := 1
	if delta < 0 {
		dir = -1
	}
	switch {
	case s.Momentum == 0 || (s.Momentum > 0) == (dir > 0):
		s.Momentum = geom.ClampInt(s.Momentum+dir, -c.cfg.MomentumCap, c.cfg.MomentumCap)
	default:
		s.Momentum = 0
	}

	lo, hi := c.boundsLocked()
	s.Difficulty = geom.ClampInt(s.Difficulty+delta, lo, hi)

	if err := c.applyLocked(); err != nil {
		return err
	}
	c.logger.Info("difficulty changed",
		"mode", c.mode.String(),
		"difficulty", s.Difficulty,
		"momentum", s.Momentum,
		"effective", c.effectiveLocked(),
	)
	return nil
}

// Effective returns difficulty + momentum clamped to the mode's bounds.
func (c *Controller) Effective() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effectiveLocked()
}

func (c *Controller) effectiveLocked() int {
	lo, hi := c.boundsLocked()
	return geom.ClampInt(c.state.Difficulty+c.state.Momentum, lo, hi)
}

// boundsLocked returns the difficulty range of the active mode.
func (c *Controller) boundsLocked() (int, int) {
	switch c.mode {
	case ModeDirect:
		if c.cfg.DirectMin == 0 && c.cfg.DirectMax == 0 {
			return math.MinInt32, math.MaxInt32
		}
		return c.cfg.DirectMin, c.cfg.DirectMax
	case ModeRanked:
		return c.table.Bounds()
	}
	return -1, 1
}

// applyLocked recomputes the active genes for the effective difficulty.
func (c *Controller) applyLocked() error {
	e := c.effectiveLocked()
	switch c.mode {
	case ModePreset:
		c.state.Genes = genes.Preset(e)
	case ModeRanked:
		g, err := c.table.Genes(e)
		if err != nil {
			return err
		}
		c.state.Genes = g
	}
	return nil
}

// Genes returns the active gene vector.
func (c *Controller) Genes() genes.Vector {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Genes
}

// SetGenes publishes a trained gene vector as the active genes.
func (c *Controller) SetGenes(g genes.Vector) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inRound {
		return ErrRoundInProgress
	}
	c.state.Genes = g
	return nil
}

// Stats returns the opponent's stats. Direct mode scales speed, attack, block
// and dash strength up per effective point and scales the stamina recovery rate
// by the (negative) recovery multiplier; other modes return the base stats.
func (c *Controller) Stats() combat.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.base
	if c.mode != ModeDirect {
		return s
	}
	e := float64(c.effectiveLocked())
	k := c.cfg.Scaling
	s.Speed *= scaleFactor(e, k.Speed)
	s.AttackStrength *= scaleFactor(e, k.AttackStrength)
	s.ShieldStrength *= scaleFactor(e, k.BlockStrength)
	s.DashStrength *= scaleFactor(e, k.DashStrength)

	// The interval is the inverse of the rate.
	rate := 1 + e*k.StaminaRecovery
	if rate < minRecoveryFactor {
		rate = minRecoveryFactor
	}
	s.StaminaRecovery /= rate
	return s
}

// scaleFactor is 1 + e*perPoint, never negative.
func scaleFactor(e, perPoint float64) float64 {
	return max(0, 1+e*perPoint)
}

// Table returns the loaded gene table, or nil.
func (c *Controller) Table() *GeneTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table
}

// SetTable installs a gene table. It fails while a round runs.
func (c *Controller) SetTable(t *GeneTable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inRound {
		return ErrRoundInProgress
	}
	return c.installLocked(t)
}

// QueueTable installs t now, or at the next EndRound if a round is running.
func (c *Controller) QueueTable(t *GeneTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inRound {
		c.queued = t
		return
	}
	if err := c.installLocked(t); err != nil {
		c.logger.Warn("gene table rejected", "err", err)
	}
}

func (c *Controller) installLocked(t *GeneTable) error {
	if c.mode == ModeRanked && t.Len() == 0 {
		return ErrEmptyGeneTable
	}
	c.table = t
	c.logger.Info("gene table reloaded", "rows", t.Len(), "skipped", t.Skipped())
	if c.mode == ModeRanked {
		lo, hi := c.boundsLocked()
		c.state.Difficulty = geom.ClampInt(c.state.Difficulty, lo, hi)
	}
	return c.applyLocked()
}

// RecordOutcome stores the result of a concluded live match.
func (c *Controller) RecordOutcome(playerWon bool, winnerHP int, matchTime float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PlayerWon = playerWon
	c.state.WinnerHP = winnerHP
	c.state.MatchTime = matchTime
}

// Reference returns the HP differential the trainer should aim for.
func (c *Controller) Reference() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return evolve.ReferenceDifferential(c.state.PlayerWon, c.state.WinnerHP)
}
