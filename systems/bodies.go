package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparring/components"
	"github.com/pthm-cable/sparring/geom"
)

// BodyWorld owns the ECS world holding every arena body.
// Entities are only created during setup; ticks never change the world's structure.
type BodyWorld struct {
	world   *ecs.World
	mapper  *ecs.Map5[components.Position, components.Velocity, components.Body, components.Bounds, components.Fighter]
	posMap  *ecs.Map1[components.Position]
	velMap  *ecs.Map1[components.Velocity]
	bodyMap *ecs.Map1[components.Body]
	physics *PhysicsSystem
}

// NewBodyWorld creates an empty body world.
func NewBodyWorld() *BodyWorld {
	world := ecs.NewWorld()
	return &BodyWorld{
		world: world,
		mapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Bounds,
			components.Fighter,
		](world),
		posMap:  ecs.NewMap1[components.Position](world),
		velMap:  ecs.NewMap1[components.Velocity](world),
		bodyMap: ecs.NewMap1[components.Body](world),
		physics: NewPhysicsSystem(world),
	}
}

// Spawn creates a body entity at pos and returns its combat-facing handle.
func (w *BodyWorld) Spawn(pos geom.Vec2, body components.Body, bounds components.Bounds, fighter components.Fighter) *EntityBody {
	if body.Mass <= 0 {
		body.Mass = 1
	}
	p := components.Position{X: pos.X, Y: pos.Y}
	v := components.Velocity{}
	e := w.mapper.NewEntity(&p, &v, &body, &bounds, &fighter)
	return &EntityBody{w: w, e: e}
}

// Step runs one physics update of dt seconds.
func (w *BodyWorld) Step(dt float64) { w.physics.Update(dt) }

// EntityBody is a combat body backed by ECS components.
type EntityBody struct {
	w *BodyWorld
	e ecs.Entity
}

// Entity returns the backing entity.
func (b *EntityBody) Entity() ecs.Entity { return b.e }

func (b *EntityBody) Position() geom.Vec2 { return b.w.posMap.Get(b.e).Vec() }
func (b *EntityBody) Velocity() geom.Vec2 { return b.w.velMap.Get(b.e).Vec() }

func (b *EntityBody) SetPosition(p geom.Vec2) {
	pos := b.w.posMap.Get(b.e)
	pos.X, pos.Y = p.X, p.Y
}

func (b *EntityBody) SetVelocity(v geom.Vec2) {
	vel := b.w.velMap.Get(b.e)
	vel.X, vel.Y = v.X, v.Y
}

func (b *EntityBody) ApplyImpulse(impulse geom.Vec2) {
	mass := b.w.bodyMap.Get(b.e).Mass
	vel := b.w.velMap.Get(b.e)
	vel.X += impulse.X / mass
	vel.Y += impulse.Y / mass
}
