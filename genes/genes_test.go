package genes

import (
	"math"
	"math/rand"
	"testing"
)

func TestBoundsClamp(t *testing.T) {
	b := DefaultBounds()
	tests := []struct {
		in, want float64
	}{
		{-1, DefaultMin},
		{0, DefaultMin},
		{0.5, 0.5},
		{2, DefaultMax},
	}
	for _, tc := range tests {
		if got := b.Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRandomStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := DefaultBounds()
	for i := 0; i < 200; i++ {
		if g := Random(rng, 3, b); !g.Within(b) {
			t.Fatalf("draw %d out of bounds: %v", i, g)
		}
	}
	mult := Vector{1, 1, 1, 1, 0.1, 0.1, 0.1, 0.1}
	for i := 0; i < 200; i++ {
		g := RandomScaled(rng, mult, b)
		if !g.Within(b) || g[Attack] > 0.1 {
			t.Fatalf("scaled draw %d wrong: %v", i, g)
		}
	}
}

func TestCrossover(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	b := DefaultBounds()

	child := Crossover(rng, Uniform(0.2), Uniform(0.6), 0, b)
	for i, v := range child {
		if math.Abs(v-0.4) > 1e-12 {
			t.Errorf("gene %d = %v, want parents' mean 0.4", i, v)
		}
	}

	for i := 0; i < 200; i++ {
		c := Crossover(rng, Uniform(0.05), Uniform(0.99), 0.5, b)
		if !c.Within(b) {
			t.Fatalf("child %d out of bounds: %v", i, c)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Vector
		wantErr bool
	}{
		{"brackets", "[0.1,0.2,0.3,0.4,0.5,0.6,0.7,0.8]", Vector{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}, false},
		{"bare", "1,1,1,1,1,1,1,1", Uniform(1), false},
		{"spaces", " [0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5] ", Uniform(0.5), false},
		{"short", "[0.1,0.2]", Vector{}, true},
		{"not a number", "[a,1,1,1,1,1,1,1]", Vector{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStringParses(t *testing.T) {
	for _, g := range []Vector{Easy, Medium, Hard} {
		got, err := Parse(g.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != g {
			t.Errorf("Parse(%q) = %v", g.String(), got)
		}
	}
}

func TestPreset(t *testing.T) {
	tests := []struct {
		difficulty int
		want       Vector
	}{
		{-3, Easy},
		{-1, Easy},
		{0, Medium},
		{1, Hard},
		{4, Hard},
	}
	for _, tc := range tests {
		if got := Preset(tc.difficulty); got != tc.want {
			t.Errorf("Preset(%d) = %v, want %v", tc.difficulty, got, tc.want)
		}
	}
}
