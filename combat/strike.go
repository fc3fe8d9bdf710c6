package combat

import (
	"math"

	"github.com/pthm-cable/sparring/geom"
)

// Outcome is the result of a strike.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeBlocked
	OutcomeDamage
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBlocked:
		return "blocked"
	case OutcomeDamage:
		return "damage"
	}
	return "none"
}

// FrontalDeviation returns how far a strike is from perfectly frontal, in
// degrees: 0 when the attacker faces the defender head on, 180 from behind.
func FrontalDeviation(defenderRotation, attackerRotation float64) float64 {
	d := geom.DeltaAngle(defenderRotation, attackerRotation)
	return math.Abs(math.Abs(d) - 180)
}

// Overlaps reports whether the attacker's weapon hitbox touches the defender's body.
func Overlaps(attacker, defender *Actor) bool {
	center, radius := attacker.weapon.Hitbox(attacker.Position(), attacker.rotation)
	return geom.Dist(center, defender.Position()) <= radius+defender.stats.BodyRadius
}

// Striking reports whether the actor has an open swing that has not yet landed.
func (a *Actor) Striking() bool {
	return !a.dead && a.state == StateAttack && a.weapon.attacking && !a.weapon.struck
}

// Vulnerable reports whether incoming strikes can register at all.
func (a *Actor) Vulnerable() bool {
	return !a.dead && !a.invulnerable && a.state != StateDash && a.state != StateHitted
}

// ResolveStrike checks the attacker's hitbox against the defender and applies
// the block or damage outcome on overlap.
func ResolveStrike(attacker, defender *Actor) Outcome {
	if attacker == defender || !attacker.Striking() || !defender.Vulnerable() {
		return OutcomeNone
	}
	if !Overlaps(attacker, defender) {
		return OutcomeNone
	}
	return ApplyStrike(attacker, defender)
}

// ApplyStrike applies a registered strike without the overlap test. A blocking
// defender facing within its shield's protection angle blocks: both actors
// recoil without HP loss and the defender recovers stamina. Anything else
// damages the defender, lowering its shield first if it was blocking.
func ApplyStrike(attacker, defender *Actor) Outcome {
	if !attacker.Striking() || !defender.Vulnerable() {
		return OutcomeNone
	}
	attacker.weapon.struck = true

	hitbox, _ := attacker.weapon.Hitbox(attacker.Position(), attacker.rotation)
	dir := defender.Position().Sub(hitbox).Normalize()
	if dir.IsZero() {
		dir = geom.FacingFromRotation(attacker.rotation)
	}

	deviation := FrontalDeviation(defender.rotation, attacker.rotation)
	if defender.state == StateBlock && defender.shield.Covers(deviation) {
		defender.blocked(dir)
		attacker.attackBlocked(dir.Scale(-1), defender.shield.Strength)
		return OutcomeBlocked
	}

	defender.hit(dir, attacker.weapon.Strength)
	return OutcomeDamage
}
