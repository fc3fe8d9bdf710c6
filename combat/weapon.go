package combat

import "github.com/pthm-cable/sparring/geom"

// Weapon is the actor's strike hitbox. It only registers hits while a swing is open,
// and each swing registers at most one strike.
type Weapon struct {
	Strength float64
	Reach    float64
	Radius   float64

	cooldown  bool
	attacking bool
	struck    bool
}

// OnCooldown reports whether a new attack is blocked by the attack delay.
func (w *Weapon) OnCooldown() bool { return w.cooldown }

// Attacking reports whether the swing's hitbox is open.
func (w *Weapon) Attacking() bool { return w.attacking }

// Hitbox returns the hitbox circle for an owner at pos facing rotation degrees.
func (w *Weapon) Hitbox(pos geom.Vec2, rotation float64) (geom.Vec2, float64) {
	return pos.Add(geom.FacingFromRotation(rotation).Scale(w.Reach)), w.Radius
}

func (w *Weapon) swing() {
	w.attacking = true
	w.struck = false
	w.cooldown = true
}

func (w *Weapon) reset() {
	w.attacking = false
	w.struck = false
	w.cooldown = false
}

// Shield gates block resolution by the angle of incoming strikes.
type Shield struct {
	ProtectionAngle float64 // Degrees off the frontal axis still covered
	Strength        float64 // Knockback applied to a blocked attacker

	raised bool
}

// Raised reports whether the shield is up.
func (s *Shield) Raised() bool { return s.raised }

// Covers reports whether a strike with the given frontal deviation is blocked.
func (s *Shield) Covers(deviation float64) bool {
	return s.raised && deviation < s.ProtectionAngle
}
