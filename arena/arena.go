// Package arena runs paired combat rounds across many independent arenas.
package arena

import (
	"math"

	"github.com/pthm-cable/sparring/bot"
	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/components"
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/geom"
	"github.com/pthm-cable/sparring/systems"
)

// Combatant is an actor together with the policy that drives it.
// Policy is nil for externally driven actors such as the player.
type Combatant struct {
	Actor  *combat.Actor
	Policy bot.Policy
}

// Arena is a spatial slot pairing two combatants during a round.
// Only its center and bodies persist across rounds.
type Arena struct {
	Index  int
	Center geom.Vec2

	bodies [2]*systems.EntityBody
	sides  [2]Combatant
	bound  bool
	tally  Tally
}

// Tally counts strike outcomes in an arena for the current round.
type Tally struct {
	Damage  int
	Blocked int
}

// Tally returns the round's strike counts.
func (a *Arena) Tally() Tally { return a.tally }

// Sides returns the combatants bound for the current round.
func (a *Arena) Sides() [2]Combatant { return a.sides }

// Bound reports whether the arena holds a pair.
func (a *Arena) Bound() bool { return a.bound }

// Start returns the spawn point and facing for a side.
// Side 0 starts left of center facing right, side 1 mirrors it.
func (a *Arena) Start(side int, offset float64) (geom.Vec2, float64) {
	if side == 0 {
		return a.Center.Add(geom.Vec2{X: -offset}), -90
	}
	return a.Center.Add(geom.Vec2{X: offset}), 90
}

// layout places n arena centers on a square grid spaced apart.
func layout(n int, spacing float64) []geom.Vec2 {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	centers := make([]geom.Vec2, n)
	for i := range centers {
		centers[i] = geom.Vec2{X: float64(i%cols) * spacing, Y: float64(i/cols) * spacing}
	}
	return centers
}

func newArenas(w *systems.BodyWorld, n int, cfg *config.Config) []*Arena {
	body := components.Body{
		Radius: cfg.Actor.BodyRadius,
		Mass:   cfg.Actor.Mass,
		Drag:   cfg.Physics.Drag,
	}
	arenas := make([]*Arena, n)
	for i, c := range layout(n, cfg.Arena.Spacing) {
		a := &Arena{Index: i, Center: c}
		bounds := components.Bounds{CenterX: c.X, CenterY: c.Y, HalfExtent: cfg.Arena.HalfExtent}
		for side := range a.bodies {
			pos, _ := a.Start(side, cfg.Arena.StartOffset)
			a.bodies[side] = w.Spawn(pos, body, bounds, components.Fighter{Arena: i, Side: side})
		}
		arenas[i] = a
	}
	return arenas
}
