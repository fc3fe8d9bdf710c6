package bot

import (
	"math/rand"

	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/genes"
	"github.com/pthm-cable/sparring/geom"
)

// MoveState is the bot's movement sub-state.
type MoveState uint8

const (
	MoveIdle MoveState = iota
	MoveFollow
	MoveWander
)

func (m MoveState) String() string {
	switch m {
	case MoveFollow:
		return "follow"
	case MoveWander:
		return "wander"
	}
	return "idle"
}

// Policy decides one tick of movement and action for an actor.
type Policy interface {
	Decide(a *combat.Actor, s Snapshot)
	// Reset returns the policy to its initial movement sub-state.
	Reset()
}

// mover holds the movement sub-state shared by both policies.
type mover struct {
	state  MoveState
	target geom.Vec2
	radius float64
	rng    *rand.Rand
}

func (m *mover) enter(s MoveState, center geom.Vec2) {
	m.state = s
	if s == MoveWander {
		m.target = center.Add(geom.RandomInCircle(m.radius, m.rng.Float64))
	}
}

// steer converts the movement sub-state into a movement intent.
func (m *mover) steer(a *combat.Actor, s Snapshot) {
	switch m.state {
	case MoveFollow:
		a.SetMove(s.Direction)
	case MoveWander:
		a.SetMove(m.target.Sub(s.Position))
	default:
		a.SetMove(geom.Vec2{})
	}
}

// GenePolicy drives an actor from its gene vector. Each tick makes one draw for
// the movement transition and one draw partitioned into cumulative action buckets.
type GenePolicy struct {
	genes genes.Vector
	mover
}

// NewGenePolicy creates a gene-driven policy. Wander targets lie within radius
// of the actor's arena center.
func NewGenePolicy(g genes.Vector, radius float64, rng *rand.Rand) *GenePolicy {
	return &GenePolicy{genes: g, mover: mover{radius: radius, rng: rng}}
}

// Genes returns the policy's gene vector.
func (p *GenePolicy) Genes() genes.Vector { return p.genes }

// SetGenes rebinds the gene vector.
func (p *GenePolicy) SetGenes(g genes.Vector) { p.genes = g }

// State returns the movement sub-state.
func (p *GenePolicy) State() MoveState { return p.state }

func (p *GenePolicy) Reset() { p.state = MoveIdle }

func (p *GenePolicy) Decide(a *combat.Actor, s Snapshot) {
	g := &p.genes

	r := p.rng.Float64()
	switch p.state {
	case MoveIdle:
		if r < g[genes.IdleToFollow] {
			p.enter(MoveFollow, s.Center)
		} else if r < g[genes.IdleToFollow]+g[genes.IdleToWander] {
			p.enter(MoveWander, s.Center)
		}
	case MoveFollow:
		if r < g[genes.FollowToIdle] {
			p.enter(MoveIdle, s.Center)
		}
	case MoveWander:
		if r < g[genes.WanderToIdle] {
			p.enter(MoveIdle, s.Center)
		}
	}

	r = p.rng.Float64()
	switch s.OwnState {
	case combat.StateIdle:
		attack := g[genes.Attack]
		dash := attack + g[genes.Dash]
		block := dash + g[genes.Block]
		switch {
		case r < attack:
			a.Attack()
		case r < dash:
			a.Dash()
		case r < block:
			a.Block()
		}
	case combat.StateBlock:
		if r < g[genes.Unblock] {
			a.Unblock()
		}
	}

	p.steer(a, s)
}

// SensorPolicy is the scripted opponent. Movement transitions are gated by
// distance bands and action chances are read from a table indexed by the HP
// differential.
type SensorPolicy struct {
	cfg config.ScriptedConfig
	mover
}

// NewSensorPolicy creates a scripted policy.
func NewSensorPolicy(cfg config.ScriptedConfig, radius float64, rng *rand.Rand) *SensorPolicy {
	return &SensorPolicy{cfg: cfg, mover: mover{radius: radius, rng: rng}}
}

// State returns the movement sub-state.
func (p *SensorPolicy) State() MoveState { return p.state }

func (p *SensorPolicy) Reset() { p.state = MoveIdle }

// Chance returns the table entry for an HP differential, clamped into the table.
func (p *SensorPolicy) Chance(diff int) float64 {
	t := p.cfg.ChanceTable
	if len(t) == 0 {
		return 0
	}
	return t[geom.ClampInt(diff+p.cfg.ChanceOffset, 0, len(t)-1)]
}

func (p *SensorPolicy) Decide(a *combat.Actor, s Snapshot) {
	c := &p.cfg
	d := s.Distance

	r := p.rng.Float64()
	switch p.state {
	case MoveIdle:
		if d > c.FollowMin && d < c.FollowMax {
			p.enter(MoveFollow, s.Center)
		} else if d > c.WanderBeyond {
			p.enter(MoveWander, s.Center)
		}
	case MoveFollow:
		if d < c.FollowMin || r < c.GiveUpChance {
			p.enter(MoveIdle, s.Center)
		}
	case MoveWander:
		if d < c.WanderBeyond || r < c.GiveUpChance {
			p.enter(MoveIdle, s.Center)
		}
	}

	attack := p.Chance(s.OwnHP - s.OpponentHP)
	block := p.Chance(s.OpponentHP - s.OwnHP)

	r = p.rng.Float64()
	switch s.OwnState {
	case combat.StateIdle:
		switch {
		case d < c.StrikeRange && r < attack:
			a.Attack()
		case d < c.StrikeRange && r < attack+block:
			a.Block()
		case d > c.DashBeyond && r < c.DashChance:
			a.Dash()
		}
	case combat.StateBlock:
		if d > c.UnblockBeyond || r < c.UnblockChance {
			a.Unblock()
		}
	}

	p.steer(a, s)
}

// ForRole returns the policy for a role, or nil for the player.
func ForRole(role combat.Role, g genes.Vector, cfg *config.Config, rng *rand.Rand) Policy {
	switch {
	case role == combat.RoleBotInputs:
		return NewSensorPolicy(cfg.Scripted, cfg.Arena.WanderRadius, rng)
	case role.GeneDriven():
		return NewGenePolicy(g, cfg.Arena.WanderRadius, rng)
	}
	return nil
}
