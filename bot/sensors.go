// Package bot implements the non-player decision layer: a per-tick sensor
// snapshot and the movement/action policies that read it.
package bot

import (
	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/geom"
)

// Snapshot holds what a bot perceives of itself and its opponent on one tick.
// It is recomputed every tick and never retained.
type Snapshot struct {
	OwnHP            int
	OpponentHP       int
	Distance         float64
	Direction        geom.Vec2 // unit vector toward the opponent
	OwnState         combat.State
	OpponentState    combat.State
	Rotation         float64
	OpponentRotation float64
	Position         geom.Vec2
	Center           geom.Vec2
}

// Sense builds the snapshot for a. It returns false when a has no opponent.
func Sense(a *combat.Actor) (Snapshot, bool) {
	opp := a.Opponent()
	if opp == nil {
		return Snapshot{}, false
	}
	pos, oppPos := a.Position(), opp.Position()
	return Snapshot{
		OwnHP:            a.HP(),
		OpponentHP:       opp.HP(),
		Distance:         geom.Dist(pos, oppPos),
		Direction:        oppPos.Sub(pos).Normalize(),
		OwnState:         a.State(),
		OpponentState:    opp.State(),
		Rotation:         a.Rotation(),
		OpponentRotation: opp.Rotation(),
		Position:         pos,
		Center:           a.Center(),
	}, true
}
