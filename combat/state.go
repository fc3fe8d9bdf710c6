// Package combat implements the per-actor combat state machine: stamina economy,
// timed invulnerability windows, weapon strikes and directional block resolution.
package combat

// State is an actor's combat state.
type State uint8

const (
	StateIdle State = iota
	StateAttack
	StateBlock
	StateDash
	StateHitted
	StateRecoil
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAttack:
		return "attack"
	case StateBlock:
		return "block"
	case StateDash:
		return "dash"
	case StateHitted:
		return "hitted"
	case StateRecoil:
		return "recoil"
	}
	return "unknown"
}

// CanMove reports whether movement intent is applied in this state.
func (s State) CanMove() bool {
	return s != StateDash && s != StateHitted && s != StateRecoil
}

// Role identifies who drives an actor. The string form is the telemetry tag.
type Role uint8

const (
	RolePlayer Role = iota
	RoleBot
	RoleBotInputs
	RoleBotGenetic
	RoleBotMany
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleBot:
		return "bot"
	case RoleBotInputs:
		return "botInputs"
	case RoleBotGenetic:
		return "botGenetic"
	case RoleBotMany:
		return "botMany"
	}
	return "unknown"
}

// GeneDriven reports whether the role uses the gene-driven policy.
func (r Role) GeneDriven() bool {
	return r == RoleBot || r == RoleBotGenetic || r == RoleBotMany
}
