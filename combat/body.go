package combat

import "github.com/pthm-cable/sparring/geom"

// Body is the physical presence an actor moves and is knocked back through.
type Body interface {
	Position() geom.Vec2
	SetPosition(p geom.Vec2)
	Velocity() geom.Vec2
	SetVelocity(v geom.Vec2)
	// ApplyImpulse changes velocity by impulse / mass.
	ApplyImpulse(impulse geom.Vec2)
}

// PointBody is a free-standing Body used outside an arena world.
type PointBody struct {
	Pos, Vel geom.Vec2
	Mass     float64
	Drag     float64
}

// NewPointBody creates a body at pos.
func NewPointBody(pos geom.Vec2, mass float64) *PointBody {
	if mass <= 0 {
		mass = 1
	}
	return &PointBody{Pos: pos, Mass: mass}
}

func (b *PointBody) Position() geom.Vec2     { return b.Pos }
func (b *PointBody) SetPosition(p geom.Vec2) { b.Pos = p }
func (b *PointBody) Velocity() geom.Vec2     { return b.Vel }
func (b *PointBody) SetVelocity(v geom.Vec2) { b.Vel = v }

func (b *PointBody) ApplyImpulse(impulse geom.Vec2) {
	b.Vel = b.Vel.Add(impulse.Scale(1 / b.Mass))
}

// Step integrates position by dt with linear drag.
func (b *PointBody) Step(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	damp := 1 - b.Drag*dt
	if damp < 0 {
		damp = 0
	}
	b.Vel = b.Vel.Scale(damp)
}
