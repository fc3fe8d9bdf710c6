package combat

import (
	"math"
	"testing"

	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/geom"
)

func testStats() Stats {
	return Stats(config.MustLoad("").Actor)
}

// place positions a at pos facing rotation.
func place(a *Actor, pos geom.Vec2, rotation float64) *Actor {
	a.body.SetPosition(pos)
	a.SetRotation(rotation)
	return a
}

func TestFrontalDeviation(t *testing.T) {
	tests := []struct {
		def, atk float64
		want     float64
	}{
		{0, 180, 0},
		{0, 0, 180},
		{0, 1, 179},
		{90, -90, 0},
		{10, 170, 20},
		{350, 190, 20},
	}
	for _, tc := range tests {
		got := FrontalDeviation(tc.def, tc.atk)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("FrontalDeviation(%v, %v) = %v, want %v", tc.def, tc.atk, got, tc.want)
		}
	}
}

func TestResolveStrike_FrontalBlock(t *testing.T) {
	s := testStats()
	def := place(NewActor(1, RolePlayer, s), geom.Vec2{}, 0)
	atk := place(NewActor(2, RoleBot, s), geom.Vec2{X: 0, Y: 1}, 180)

	def.setStamina(50)
	if !def.Block() {
		t.Fatal("block should start from idle with enough stamina")
	}
	if def.Stamina() != 50 {
		t.Errorf("block should not consume stamina, got %d", def.Stamina())
	}
	if !atk.Attack() {
		t.Fatal("attack should start from idle")
	}

	if got := ResolveStrike(atk, def); got != OutcomeBlocked {
		t.Fatalf("expected blocked, got %v", got)
	}
	if def.HP() != s.MaxHP {
		t.Errorf("blocked strike should not cost HP, got %d", def.HP())
	}
	if def.State() != StateRecoil || atk.State() != StateRecoil {
		t.Errorf("both actors should recoil, got def=%v atk=%v", def.State(), atk.State())
	}
	if def.Shield().Raised() {
		t.Error("shield should drop after a block")
	}
	if def.Stamina() != 60 {
		t.Errorf("defender stamina = %d, want 60", def.Stamina())
	}
	if atk.Stamina() != s.MaxStamina-s.AttackCost {
		t.Errorf("attacker stamina = %d, want %d", atk.Stamina(), s.MaxStamina-s.AttackCost)
	}
	if def.Invulnerable() {
		t.Error("block recoil should not grant invulnerability")
	}
	// Knockback pushes the defender away from the blade and the attacker back.
	if def.Velocity().Y >= 0 {
		t.Errorf("defender should be pushed toward -Y, got %v", def.Velocity())
	}
	if atk.Velocity().Y <= 0 {
		t.Errorf("attacker should be pushed toward +Y, got %v", atk.Velocity())
	}
}

func TestResolveStrike_FromBehindDamages(t *testing.T) {
	s := testStats()
	def := place(NewActor(1, RolePlayer, s), geom.Vec2{}, 0)
	atk := place(NewActor(2, RoleBot, s), geom.Vec2{X: 0, Y: -1}, 0)

	def.Block()
	atk.Attack()

	if got := ResolveStrike(atk, def); got != OutcomeDamage {
		t.Fatalf("expected damage from behind, got %v", got)
	}
	if def.HP() != s.MaxHP-1 {
		t.Errorf("HP = %d, want %d", def.HP(), s.MaxHP-1)
	}
	if def.State() != StateHitted {
		t.Errorf("state = %v, want hitted", def.State())
	}
	if def.Shield().Raised() {
		t.Error("damage should lower the shield")
	}
	if !def.Invulnerable() {
		t.Error("damage should open an invulnerability window")
	}

	// A single swing registers at most once.
	if got := ApplyStrike(atk, def); got != OutcomeNone {
		t.Errorf("second strike in the same swing should not register, got %v", got)
	}

	def.Tick(s.HitIFrames)
	if def.Invulnerable() || def.State() != StateIdle {
		t.Errorf("window should close, got invulnerable=%v state=%v", def.Invulnerable(), def.State())
	}
}

func TestResolveStrike_OutOfReach(t *testing.T) {
	s := testStats()
	def := place(NewActor(1, RolePlayer, s), geom.Vec2{}, 0)
	atk := place(NewActor(2, RoleBot, s), geom.Vec2{X: 0, Y: 5}, 180)
	atk.Attack()

	if got := ResolveStrike(atk, def); got != OutcomeNone {
		t.Errorf("expected no strike out of reach, got %v", got)
	}
	if !atk.Striking() {
		t.Error("a missed check should leave the swing open")
	}
}

func TestResolveStrike_DashIsImmune(t *testing.T) {
	s := testStats()
	def := place(NewActor(1, RolePlayer, s), geom.Vec2{}, 0)
	atk := place(NewActor(2, RoleBot, s), geom.Vec2{X: 0, Y: -1}, 0)

	def.Dash()
	atk.Attack()
	if got := ApplyStrike(atk, def); got != OutcomeNone {
		t.Errorf("dashing defender should be immune, got %v", got)
	}
}

func TestStaminaGating(t *testing.T) {
	s := testStats()
	a := NewActor(1, RoleBot, s)

	a.setStamina(s.AttackCost - 1)
	if a.Attack() {
		t.Error("attack should require attack_cost stamina")
	}
	a.setStamina(s.DashCost - 1)
	if a.Dash() {
		t.Error("dash should require dash_cost stamina")
	}
	a.setStamina(s.BlockCost)
	if !a.Block() {
		t.Error("block should be allowed at exactly block_cost stamina")
	}
	if a.Attack() || a.Dash() {
		t.Error("actions other than unblock are illegal while blocking")
	}
	if !a.Unblock() {
		t.Error("unblock should succeed from block")
	}
	if a.Unblock() {
		t.Error("unblock from idle should be a no-op")
	}
}

func TestStaminaRecovery(t *testing.T) {
	s := testStats()
	a := NewActor(1, RoleBot, s)
	a.setStamina(50)

	a.Tick(10*s.StaminaRecovery + s.StaminaRecovery/2)
	if a.Stamina() != 60 {
		t.Errorf("stamina = %d, want 60", a.Stamina())
	}

	a.setStamina(s.MaxStamina)
	a.Tick(1)
	if a.Stamina() != s.MaxStamina {
		t.Errorf("stamina should stay clamped at max, got %d", a.Stamina())
	}
}

func TestBlockDrain(t *testing.T) {
	s := testStats()
	a := NewActor(1, RolePlayer, s)
	a.setStamina(50)
	a.Block()

	a.Tick(3*s.BlockDrainEvery + s.BlockDrainEvery/2)
	want := 50 - 3*s.BlockDrainAmount
	if a.Stamina() != want {
		t.Errorf("stamina = %d, want %d (no recovery while blocking)", a.Stamina(), want)
	}
}

func TestBlockDrainEmptiesAndUnblocks(t *testing.T) {
	s := testStats()
	a := NewActor(1, RolePlayer, s)
	a.setStamina(12)
	a.Block()

	a.Tick(6*s.BlockDrainEvery + 0.05)
	if a.State() != StateIdle {
		t.Errorf("empty stamina should force unblock, state = %v", a.State())
	}
	if a.Stamina() > 1 {
		t.Errorf("stamina = %d, want drained", a.Stamina())
	}
}

func TestDashWindow(t *testing.T) {
	s := testStats()
	a := place(NewActor(1, RoleBot, s), geom.Vec2{}, 0)

	if !a.Dash() {
		t.Fatal("dash should start from idle")
	}
	if a.State() != StateDash || !a.Invulnerable() {
		t.Errorf("dash should be an invulnerable state, got %v invulnerable=%v", a.State(), a.Invulnerable())
	}
	if a.Stamina() != s.MaxStamina-s.DashCost {
		t.Errorf("stamina = %d, want %d", a.Stamina(), s.MaxStamina-s.DashCost)
	}
	if a.Velocity().Y <= 0 {
		t.Errorf("dash should push along facing, got %v", a.Velocity())
	}

	// Movement intent is ignored during the dash.
	a.SetMove(geom.Vec2{X: 1})
	a.ApplyMovement()
	if a.Velocity().X != 0 {
		t.Errorf("movement applied during dash: %v", a.Velocity())
	}

	a.Tick(s.DashIFrames + 0.01)
	if a.State() != StateIdle || a.Invulnerable() {
		t.Errorf("dash window should close, got %v invulnerable=%v", a.State(), a.Invulnerable())
	}
}

func TestAttackCooldown(t *testing.T) {
	s := testStats()
	a := NewActor(1, RoleBot, s)

	a.Attack()
	a.Tick(s.AttackSwing)
	if a.State() != StateIdle {
		t.Fatalf("swing should finish, state = %v", a.State())
	}
	if a.Attack() {
		t.Error("attack should be gated by the attack delay")
	}
	a.Tick(s.AttackDelay - s.AttackSwing + 0.05)
	if !a.Attack() {
		t.Error("attack should be available after the delay")
	}
}

func TestStaleWindowDoesNotRevert(t *testing.T) {
	s := testStats()
	a := place(NewActor(1, RoleBot, s), geom.Vec2{}, 0)

	a.Dash()
	a.Tick(s.DashIFrames / 2)
	a.hit(geom.Vec2{Y: 1}, 1)

	// The dash window's deadline passes but the hit window is still open.
	a.Tick(s.DashIFrames)
	if a.State() != StateHitted {
		t.Errorf("stale dash window reverted state to %v", a.State())
	}
}

func TestSetHPClamps(t *testing.T) {
	s := testStats()
	a := NewActor(1, RoleBot, s)

	a.setHP(s.MaxHP + 10)
	if a.HP() != s.MaxHP {
		t.Errorf("HP = %d, want clamp to %d", a.HP(), s.MaxHP)
	}
	a.setHP(-3)
	if a.HP() != 0 || !a.IsDead() {
		t.Errorf("HP = %d dead=%v, want 0 and dead", a.HP(), a.IsDead())
	}
}

func TestDieIdempotent(t *testing.T) {
	s := testStats()
	a := NewActor(1, RolePlayer, s)
	a.SetLives(3, true)

	deaths := 0
	a.OnDeath(func(*Actor) { deaths++ })
	a.Block()

	a.Die()
	a.Die()

	if a.Lives() != 2 {
		t.Errorf("lives = %d, want 2", a.Lives())
	}
	if deaths != 1 {
		t.Errorf("death hooks ran %d times, want 1", deaths)
	}
	if a.State() != StateIdle || a.Shield().Raised() {
		t.Errorf("death should force idle with shield down, got %v", a.State())
	}
	if a.Timers().Len() != 0 {
		t.Errorf("death should cancel timers, %d pending", a.Timers().Len())
	}
}

func TestTrainingDeathKeepsLives(t *testing.T) {
	a := NewActor(1, RoleBotGenetic, testStats())
	a.SetLives(2, false)
	a.SetTraining(true)

	eliminated := false
	a.OnEliminated(func(*Actor) { eliminated = true })
	a.Die()

	if a.Lives() != 2 {
		t.Errorf("training death cost a life: %d", a.Lives())
	}
	if eliminated {
		t.Error("training actor should never be eliminated")
	}
}

func TestElimination(t *testing.T) {
	a := NewActor(1, RolePlayer, testStats())
	a.SetLives(1, true)

	var got *Actor
	a.OnEliminated(func(x *Actor) { got = x })
	a.Die()

	if got != a {
		t.Error("expected elimination hook at zero lives")
	}
}

func TestResetRevives(t *testing.T) {
	s := testStats()
	a := NewActor(1, RoleBot, s)
	a.setStamina(5)
	a.Die()
	a.Reset()

	if a.IsDead() || a.HP() != s.MaxHP || a.Stamina() != s.MaxStamina {
		t.Errorf("reset should revive at full, got dead=%v hp=%d stamina=%d", a.IsDead(), a.HP(), a.Stamina())
	}
	if a.Timers().Len() == 0 {
		t.Error("reset should restart the stamina economy")
	}
}

func TestMovementAndFacing(t *testing.T) {
	s := testStats()
	a := NewActor(1, RolePlayer, s)

	a.SetMove(geom.Vec2{X: 1})
	a.ApplyMovement()
	if math.Abs(a.Velocity().X-s.Speed) > 1e-9 {
		t.Errorf("velocity = %v, want speed %v along +X", a.Velocity(), s.Speed)
	}
	if math.Abs(a.Rotation()-(-90)) > 1e-9 {
		t.Errorf("rotation = %v, want -90", a.Rotation())
	}

	a.Freeze(true)
	a.SetMove(geom.Vec2{Y: 1})
	a.ApplyMovement()
	if a.Velocity().Y != 0 {
		t.Error("frozen actor should not move")
	}
}

func TestEarlyFinishKeepsNextSwing(t *testing.T) {
	s := testStats()
	s.AttackDelay = 0.1
	s.AttackSwing = 0.3
	a := NewActor(1, RoleBot, s)

	if !a.Attack() {
		t.Fatal("first attack should start")
	}
	a.Tick(0.1)
	a.FinishAttack()
	a.Tick(0.05)
	a.setStamina(a.MaxStamina())
	if !a.Attack() {
		t.Fatal("second attack should start after the cooldown")
	}

	// The first swing's timer fires here and must not end the second swing.
	a.Tick(0.16)
	if a.State() != StateAttack || !a.Weapon().Attacking() {
		t.Fatalf("state = %v attacking = %v, want the second swing still open", a.State(), a.Weapon().Attacking())
	}

	a.Tick(0.15)
	if a.State() != StateIdle || a.Weapon().Attacking() {
		t.Errorf("state = %v attacking = %v, want idle after the full swing", a.State(), a.Weapon().Attacking())
	}
}
