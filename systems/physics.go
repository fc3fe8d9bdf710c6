// Package systems contains ECS systems for arena bodies.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparring/components"
)

// PhysicsSystem integrates body positions from velocity with linear drag and
// keeps every body inside its arena bounds.
type PhysicsSystem struct {
	filter ecs.Filter4[components.Position, components.Velocity, components.Body, components.Bounds]
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World) *PhysicsSystem {
	return &PhysicsSystem{
		filter: *ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Bounds](w),
	}
}

// Update advances every body by dt seconds.
func (s *PhysicsSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, bounds := query.Get()

		pos.X += vel.X * dt
		pos.Y += vel.Y * dt

		damp := 1 - body.Drag*dt
		if damp < 0 {
			damp = 0
		}
		vel.X *= damp
		vel.Y *= damp

		if bounds.HalfExtent <= 0 {
			continue
		}
		// Walls stop motion into them
		limit := bounds.HalfExtent - body.Radius
		if limit < 0 {
			limit = 0
		}
		clampAxis(&pos.X, &vel.X, bounds.CenterX, limit)
		clampAxis(&pos.Y, &vel.Y, bounds.CenterY, limit)
	}
}

func clampAxis(p, v *float64, center, limit float64) {
	if *p < center-limit {
		*p = center - limit
		if *v < 0 {
			*v = 0
		}
	}
	if *p > center+limit {
		*p = center + limit
		if *v > 0 {
			*v = 0
		}
	}
}
