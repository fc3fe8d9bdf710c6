package bot

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/genes"
	"github.com/pthm-cable/sparring/geom"
)

// duel returns a paired bot and opponent dist apart along Y.
func duel(t *testing.T, dist float64) (*combat.Actor, *combat.Actor, *config.Config) {
	t.Helper()
	cfg := config.MustLoad("")
	stats := combat.Stats(cfg.Actor)
	self := combat.NewActor(1, combat.RoleBot, stats)
	opp := combat.NewActor(2, combat.RolePlayer, stats)
	opp.Body().SetPosition(geom.Vec2{Y: dist})
	self.SetOpponent(opp)
	opp.SetOpponent(self)
	return self, opp, cfg
}

func decide(p Policy, a *combat.Actor) {
	s, _ := Sense(a)
	p.Decide(a, s)
}

func TestSense(t *testing.T) {
	self, opp, _ := duel(t, 3)
	opp.SetRotation(180)

	s, ok := Sense(self)
	if !ok {
		t.Fatal("expected a snapshot with an opponent bound")
	}
	if s.Distance != 3 {
		t.Errorf("distance = %v, want 3", s.Distance)
	}
	if s.Direction != (geom.Vec2{Y: 1}) {
		t.Errorf("direction = %v, want +Y", s.Direction)
	}
	if s.OpponentRotation != 180 || s.OwnHP != self.MaxHP() {
		t.Errorf("unexpected snapshot %+v", s)
	}

	self.SetOpponent(nil)
	if _, ok := Sense(self); ok {
		t.Error("snapshot without opponent should report false")
	}
}

func TestGenePolicy_ActionBuckets(t *testing.T) {
	tests := []struct {
		name  string
		genes genes.Vector
		want  combat.State
	}{
		{"attack", genes.Vector{genes.Attack: 1}, combat.StateAttack},
		{"dash", genes.Vector{genes.Dash: 1}, combat.StateDash},
		{"block", genes.Vector{genes.Block: 1}, combat.StateBlock},
		{"nothing", genes.Vector{}, combat.StateIdle},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			self, _, cfg := duel(t, 1)
			p := NewGenePolicy(tc.genes, cfg.Arena.WanderRadius, rand.New(rand.NewSource(1)))
			decide(p, self)
			if self.State() != tc.want {
				t.Errorf("state = %v, want %v", self.State(), tc.want)
			}
		})
	}
}

func TestGenePolicy_Unblock(t *testing.T) {
	self, _, cfg := duel(t, 1)
	p := NewGenePolicy(genes.Vector{genes.Unblock: 1}, cfg.Arena.WanderRadius, rand.New(rand.NewSource(1)))
	self.Block()

	decide(p, self)
	if self.State() != combat.StateIdle {
		t.Errorf("state = %v, want idle after unblock", self.State())
	}
}

func TestGenePolicy_Movement(t *testing.T) {
	self, _, cfg := duel(t, 3)
	rng := rand.New(rand.NewSource(7))

	p := NewGenePolicy(genes.Vector{genes.IdleToFollow: 1}, cfg.Arena.WanderRadius, rng)
	decide(p, self)
	if p.State() != MoveFollow {
		t.Fatalf("state = %v, want follow", p.State())
	}
	self.ApplyMovement()
	if self.Velocity().Y <= 0 {
		t.Errorf("follow should move toward the opponent, got %v", self.Velocity())
	}

	center := geom.Vec2{X: 10, Y: -4}
	self.SetCenter(center)
	w := NewGenePolicy(genes.Vector{genes.IdleToWander: 1}, cfg.Arena.WanderRadius, rng)
	for i := 0; i < 20; i++ {
		w.Reset()
		decide(w, self)
		if w.State() != MoveWander {
			t.Fatalf("state = %v, want wander", w.State())
		}
		if d := geom.Dist(w.target, center); d > cfg.Arena.WanderRadius {
			t.Errorf("wander target %v is %v from center, radius %v", w.target, d, cfg.Arena.WanderRadius)
		}
	}
}

func TestSensorPolicy_Chance(t *testing.T) {
	cfg := config.MustLoad("")
	p := NewSensorPolicy(cfg.Scripted, cfg.Arena.WanderRadius, rand.New(rand.NewSource(1)))

	tests := []struct {
		diff int
		want float64
	}{
		{-5, 0},
		{0, 0.03},
		{4, 0.05},
		{-9, 0},
		{12, 0},
	}
	for _, tc := range tests {
		if got := p.Chance(tc.diff); got != tc.want {
			t.Errorf("Chance(%d) = %v, want %v", tc.diff, got, tc.want)
		}
	}
}

func TestSensorPolicy_DistanceBands(t *testing.T) {
	tests := []struct {
		dist float64
		want MoveState
	}{
		{0.5, MoveIdle},
		{1.5, MoveFollow},
		{5, MoveWander},
	}
	for _, tc := range tests {
		self, _, cfg := duel(t, tc.dist)
		p := NewSensorPolicy(cfg.Scripted, cfg.Arena.WanderRadius, rand.New(rand.NewSource(1)))
		decide(p, self)
		if p.State() != tc.want {
			t.Errorf("distance %v: state = %v, want %v", tc.dist, p.State(), tc.want)
		}
	}
}

func TestSensorPolicy_Actions(t *testing.T) {
	t.Run("attack in range", func(t *testing.T) {
		self, _, cfg := duel(t, 1.5)
		sc := cfg.Scripted
		sc.ChanceTable = []float64{1}
		sc.ChanceOffset = 0
		p := NewSensorPolicy(sc, cfg.Arena.WanderRadius, rand.New(rand.NewSource(1)))
		decide(p, self)
		if self.State() != combat.StateAttack {
			t.Errorf("state = %v, want attack", self.State())
		}
	})
	t.Run("dash when far", func(t *testing.T) {
		self, _, cfg := duel(t, 5)
		sc := cfg.Scripted
		sc.DashChance = 1
		p := NewSensorPolicy(sc, cfg.Arena.WanderRadius, rand.New(rand.NewSource(1)))
		decide(p, self)
		if self.State() != combat.StateDash {
			t.Errorf("state = %v, want dash", self.State())
		}
	})
	t.Run("unblock when far", func(t *testing.T) {
		self, _, cfg := duel(t, 5)
		p := NewSensorPolicy(cfg.Scripted, cfg.Arena.WanderRadius, rand.New(rand.NewSource(1)))
		self.Block()
		decide(p, self)
		if self.State() != combat.StateIdle {
			t.Errorf("state = %v, want idle", self.State())
		}
	})
}

func TestForRole(t *testing.T) {
	cfg := config.MustLoad("")
	rng := rand.New(rand.NewSource(1))
	g := genes.Uniform(0.1)

	if p := ForRole(combat.RolePlayer, g, cfg, rng); p != nil {
		t.Errorf("player should have no policy, got %T", p)
	}
	if _, ok := ForRole(combat.RoleBotInputs, g, cfg, rng).(*SensorPolicy); !ok {
		t.Error("botInputs should use the sensor policy")
	}
	for _, r := range []combat.Role{combat.RoleBot, combat.RoleBotGenetic, combat.RoleBotMany} {
		p, ok := ForRole(r, g, cfg, rng).(*GenePolicy)
		if !ok {
			t.Errorf("%v should use the gene policy", r)
			continue
		}
		if p.Genes() != g {
			t.Errorf("%v genes = %v, want %v", r, p.Genes(), g)
		}
	}
}
