package combat

import (
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/geom"
)

// Stats are the tunable per-actor characteristics. Durations are in seconds.
type Stats config.ActorConfig

// Actor is a single combatant. It owns its HP, stamina, state and timers and is
// mutated only by its own action handlers, strike resolution against its paired
// opponent, and the forced death path at round end.
type Actor struct {
	ID   int
	Name string
	Role Role

	stats  Stats
	body   Body
	notify Notifier
	timers TimerQueue

	hp       int
	stamina  int
	lives    int
	maxLives int
	state    State
	left     bool // HUD side

	weapon Weapon
	shield Shield

	move         geom.Vec2
	rotation     float64
	wantedFacing float64

	invulnerable bool
	invulnUntil  float64
	window       uint64 // bumps on every timed state entry
	swing        uint64 // bumps on every attack

	dead     bool
	training bool
	frozen   bool

	opponent *Actor
	center   geom.Vec2

	roundStart float64
	lastRound  float64

	onDeath      []func(*Actor)
	onEliminated []func(*Actor)
}

// NewActor creates an idle actor at full HP and stamina with a free-standing body
// and a running stamina economy.
func NewActor(id int, role Role, stats Stats) *Actor {
	a := &Actor{
		ID:     id,
		Role:   role,
		notify: NopNotifier{},
		body:   NewPointBody(geom.Vec2{}, stats.Mass),
	}
	a.ApplyStats(stats)
	a.Reset()
	return a
}

// ApplyStats replaces the actor's stats and the weapon/shield values derived from them.
func (a *Actor) ApplyStats(s Stats) {
	a.stats = s
	a.weapon.Strength = s.AttackStrength
	a.weapon.Reach = s.WeaponReach
	a.weapon.Radius = s.WeaponRadius
	a.shield.ProtectionAngle = s.ProtectionAngle
	a.shield.Strength = s.ShieldStrength
	if a.hp > s.MaxHP {
		a.hp = s.MaxHP
	}
	if a.stamina > s.MaxStamina {
		a.stamina = s.MaxStamina
	}
}

// Stats returns the actor's current stats.
func (a *Actor) Stats() Stats { return a.stats }

// SetNotifier installs the outbound signal sink. Nil restores the no-op sink.
func (a *Actor) SetNotifier(n Notifier) {
	if n == nil {
		n = NopNotifier{}
	}
	a.notify = n
}

// SetBody binds the actor to a physical body.
func (a *Actor) SetBody(b Body) { a.body = b }

// Body returns the bound body.
func (a *Actor) Body() Body { return a.body }

// SetOpponent rebinds the actor's paired opponent.
func (a *Actor) SetOpponent(o *Actor) { a.opponent = o }

// Opponent returns the paired opponent, or nil.
func (a *Actor) Opponent() *Actor { return a.opponent }

// SetCenter sets the arena center used for wandering.
func (a *Actor) SetCenter(c geom.Vec2) { a.center = c }

// Center returns the arena center.
func (a *Actor) Center() geom.Vec2 { return a.center }

// SetTraining marks the actor as a training combatant; training deaths never cost lives.
func (a *Actor) SetTraining(training bool) { a.training = training }

// Training reports whether the actor is in training.
func (a *Actor) Training() bool { return a.training }

// SetLives configures the life counter and places the life icons.
func (a *Actor) SetLives(n int, left bool) {
	if n < 0 {
		n = 0
	}
	a.maxLives = n
	a.lives = n
	a.left = left
	a.notify.PlaceLives(a.ID, left, n)
}

// Lives returns the remaining lives.
func (a *Actor) Lives() int { return a.lives }

// OnDeath registers a hook run once per death, after bookkeeping.
func (a *Actor) OnDeath(fn func(*Actor)) { a.onDeath = append(a.onDeath, fn) }

// OnEliminated registers a hook run when lives reach zero.
func (a *Actor) OnEliminated(fn func(*Actor)) { a.onEliminated = append(a.onEliminated, fn) }

func (a *Actor) HP() int                { return a.hp }
func (a *Actor) MaxHP() int             { return a.stats.MaxHP }
func (a *Actor) Stamina() int           { return a.stamina }
func (a *Actor) MaxStamina() int        { return a.stats.MaxStamina }
func (a *Actor) State() State           { return a.state }
func (a *Actor) IsDead() bool           { return a.dead }
func (a *Actor) Frozen() bool           { return a.frozen }
func (a *Actor) Rotation() float64      { return a.rotation }
func (a *Actor) Weapon() *Weapon        { return &a.weapon }
func (a *Actor) Shield() *Shield        { return &a.shield }
func (a *Actor) Position() geom.Vec2    { return a.body.Position() }
func (a *Actor) Velocity() geom.Vec2    { return a.body.Velocity() }
func (a *Actor) Timers() *TimerQueue    { return &a.timers }
func (a *Actor) Invulnerable() bool     { return a.invulnerable }
func (a *Actor) LastRoundTime() float64 { return a.lastRound }

// InvulnerableRemaining returns the seconds left in the current invulnerability window.
func (a *Actor) InvulnerableRemaining() float64 {
	if !a.invulnerable {
		return 0
	}
	return a.invulnUntil - a.timers.Now()
}

// SetRotation faces the actor immediately.
func (a *Actor) SetRotation(deg float64) {
	a.rotation = deg
	a.wantedFacing = deg
}

// Freeze suspends decisions and movement, e.g. during a countdown.
func (a *Actor) Freeze(frozen bool) { a.frozen = frozen }

func (a *Actor) setHP(v int) {
	a.hp = geom.ClampInt(v, 0, a.stats.MaxHP)
	a.notify.UpdateBar(a.ID, BarHealth, a.hp, a.stats.MaxHP)
	if a.hp == 0 {
		a.Die()
	}
}

func (a *Actor) setStamina(v int) {
	a.stamina = geom.ClampInt(v, 0, a.stats.MaxStamina)
	a.notify.UpdateBar(a.ID, BarStamina, a.stamina, a.stats.MaxStamina)
}

// SetMove records the movement intent. A non-zero direction also sets the
// facing the actor turns to on its next physics step.
func (a *Actor) SetMove(dir geom.Vec2) {
	a.move = dir.Normalize()
	if !a.move.IsZero() {
		a.wantedFacing = geom.RotationFromDirection(a.move)
	}
}

// ApplyMovement drives the body from the movement intent. Movement is suppressed
// while dashing, hitted or recoiling; rotation is suppressed while swinging.
func (a *Actor) ApplyMovement() {
	if a.dead || a.frozen || !a.state.CanMove() {
		return
	}
	a.body.SetVelocity(a.move.Scale(a.stats.Speed))
	if !a.weapon.attacking {
		a.rotation = a.wantedFacing
	}
}

// Attack starts a swing. Requires idle, no weapon cooldown and enough stamina.
func (a *Actor) Attack() bool {
	if a.dead || a.state != StateIdle || a.weapon.cooldown || a.stamina < a.stats.AttackCost {
		return false
	}
	a.state = StateAttack
	a.weapon.swing()
	a.notify.Animate(a.ID, AnimAttack)
	a.timers.After(a.stats.AttackDelay, func() { a.weapon.cooldown = false })
	a.swing++
	if a.stats.AttackSwing > 0 {
		token := a.swing
		a.timers.After(a.stats.AttackSwing, func() {
			// An earlier swing finished early; this timer belongs to it.
			if a.swing != token {
				return
			}
			a.FinishAttack()
		})
	}
	a.setStamina(a.stamina - a.stats.AttackCost)
	return true
}

// FinishAttack closes the swing. It is the animation-completion trigger and may
// also be called by an external animation sink.
func (a *Actor) FinishAttack() {
	if a.state == StateAttack {
		a.state = StateIdle
	}
	a.weapon.attacking = false
}

// Block raises the shield. Requires idle and enough stamina; stamina is drained
// while blocking rather than paid up front.
func (a *Actor) Block() bool {
	if a.dead || a.state != StateIdle || a.stamina < a.stats.BlockCost {
		return false
	}
	a.state = StateBlock
	a.shield.raised = true
	a.notify.Animate(a.ID, AnimBlock)
	return true
}

// Unblock lowers the shield. Only legal from block.
func (a *Actor) Unblock() bool {
	if a.state != StateBlock {
		return false
	}
	a.state = StateIdle
	a.lowerShield()
	return true
}

func (a *Actor) lowerShield() {
	if a.shield.raised {
		a.shield.raised = false
		a.notify.Animate(a.ID, AnimUnblock)
	}
}

// Dash bursts along the facing direction inside an invulnerability window.
func (a *Actor) Dash() bool {
	if a.dead || a.state != StateIdle || a.stamina < a.stats.DashCost {
		return false
	}
	a.state = StateDash
	a.rotation = a.wantedFacing
	a.body.ApplyImpulse(geom.FacingFromRotation(a.rotation).Scale(a.stats.DashStrength))
	a.openWindow(a.stats.DashIFrames, true)
	a.setStamina(a.stamina - a.stats.DashCost)
	return true
}

// openWindow schedules the timed return to idle. A stale window never overrides
// a newer state entry.
func (a *Actor) openWindow(d float64, invulnerable bool) {
	a.window++
	token := a.window
	if invulnerable {
		a.invulnerable = true
		a.invulnUntil = a.timers.Now() + d
		a.notify.Animate(a.ID, AnimInvulnerable)
	}
	a.timers.After(d, func() {
		if a.window != token {
			return
		}
		if invulnerable {
			a.invulnerable = false
			a.notify.Animate(a.ID, AnimVulnerable)
		}
		a.state = StateIdle
	})
}

// blocked applies the block outcome to the defender.
func (a *Actor) blocked(dir geom.Vec2) {
	a.state = StateRecoil
	a.lowerShield()
	a.openWindow(a.stats.HitIFrames, false)
	a.body.ApplyImpulse(dir.Scale(a.stats.BlockKnockback))
	a.setStamina(a.stamina + a.stats.BlockRefund)
}

// attackBlocked applies the counter-knockback to an attacker whose strike was blocked.
func (a *Actor) attackBlocked(dir geom.Vec2, strength float64) {
	a.state = StateRecoil
	a.openWindow(a.stats.HitIFrames, false)
	a.body.ApplyImpulse(dir.Scale(strength))
}

// hit applies the damage outcome.
func (a *Actor) hit(dir geom.Vec2, strength float64) {
	a.lowerShield()
	a.state = StateHitted
	a.body.ApplyImpulse(dir.Scale(strength))
	a.setHP(a.hp - 1)
	if !a.dead {
		a.openWindow(a.stats.HitIFrames, true)
	}
}

// Tick advances the actor's timers (cooldowns, windows, stamina economy).
func (a *Actor) Tick(dt float64) { a.timers.Advance(dt) }

func (a *Actor) scheduleRecovery() {
	if a.stats.StaminaRecovery <= 0 {
		return
	}
	a.timers.After(a.stats.StaminaRecovery, func() {
		if a.state != StateBlock {
			a.setStamina(a.stamina + 1)
		}
		a.scheduleRecovery()
	})
}

func (a *Actor) scheduleBlockDrain() {
	if a.stats.BlockDrainEvery <= 0 {
		return
	}
	a.timers.After(a.stats.BlockDrainEvery, func() {
		if a.state == StateBlock {
			a.setStamina(a.stamina - a.stats.BlockDrainAmount)
			if a.stamina == 0 {
				a.Unblock()
			}
		}
		a.scheduleBlockDrain()
	})
}

// Die runs the death path: it cancels every pending timer, forces the actor out
// of its state, records the round time, costs a life outside training and runs
// the death hooks. Calling it on a dead actor does nothing.
func (a *Actor) Die() {
	if a.dead {
		return
	}
	a.dead = true
	a.timers.Clear()
	a.window++
	a.state = StateIdle
	a.weapon.reset()
	a.lowerShield()
	a.invulnerable = false
	a.move = geom.Vec2{}
	a.notify.Animate(a.ID, AnimDeath)

	now := a.timers.Now()
	a.lastRound = now - a.roundStart
	a.roundStart = now

	if !a.training {
		a.lives = geom.ClampInt(a.lives-1, 0, a.maxLives)
		a.notify.RemoveLife(a.ID)
	}
	for _, fn := range a.onDeath {
		fn(a)
	}
	if !a.training && a.lives == 0 {
		for _, fn := range a.onEliminated {
			fn(a)
		}
	}
}

// Reset revives the actor at full HP and stamina, idle, and restarts the stamina economy.
func (a *Actor) Reset() {
	a.timers.Clear()
	a.window++
	a.dead = false
	a.state = StateIdle
	a.weapon.reset()
	a.shield.raised = false
	a.invulnerable = false
	a.move = geom.Vec2{}
	a.body.SetVelocity(geom.Vec2{})
	a.roundStart = a.timers.Now()
	a.setHP(a.stats.MaxHP)
	a.setStamina(a.stats.MaxStamina)
	a.scheduleRecovery()
	a.scheduleBlockDrain()
}
