// Package genes defines the 8-component probability vector that drives bot behavior.
package genes

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Size is the number of genes in a Vector.
const Size = 8

// Gene indices.
const (
	IdleToFollow = iota
	IdleToWander
	FollowToIdle
	WanderToIdle
	Attack
	Dash
	Block
	Unblock
)

// Default clamp bounds.
const (
	DefaultMin = 0.03
	DefaultMax = 1.0
)

// Bounds is the closed range every gene is clamped into.
type Bounds struct {
	Min, Max float64
}

// DefaultBounds returns the standard [0.03, 1.0] bounds.
func DefaultBounds() Bounds { return Bounds{Min: DefaultMin, Max: DefaultMax} }

// Clamp limits v to the bounds.
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Vector is a fixed set of behavior probabilities. Values are copied, never shared.
type Vector [Size]float64

// Uniform returns a vector with every component set to v (unclamped).
func Uniform(v float64) Vector {
	var g Vector
	for i := range g {
		g[i] = v
	}
	return g
}

// Clamped returns a copy with every component limited to b.
func (g Vector) Clamped(b Bounds) Vector {
	for i := range g {
		g[i] = b.Clamp(g[i])
	}
	return g
}

// Within reports whether every component lies inside b.
func (g Vector) Within(b Bounds) bool {
	for _, v := range g {
		if v < b.Min || v > b.Max {
			return false
		}
	}
	return true
}

// Random draws every gene as U(0,1) * multiplier, then clamps.
func Random(rng *rand.Rand, multiplier float64, b Bounds) Vector {
	var g Vector
	for i := range g {
		g[i] = rng.Float64() * multiplier
	}
	return g.Clamped(b)
}

// RandomScaled draws gene i as U(0,1) * multipliers[i], then clamps.
func RandomScaled(rng *rand.Rand, multipliers Vector, b Bounds) Vector {
	var g Vector
	for i := range g {
		g[i] = rng.Float64() * multipliers[i]
	}
	return g.Clamped(b)
}

// Crossover averages both parents per gene, adds U(-spread, +spread) noise and clamps.
func Crossover(rng *rand.Rand, p1, p2 Vector, spread float64, b Bounds) Vector {
	var child Vector
	for i := range child {
		noise := rng.Float64()*2*spread - spread
		child[i] = b.Clamp((p1[i]+p2[i])/2 + noise)
	}
	return child
}

// String renders the vector as "[g0,g1,...,g7]".
func (g Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range g {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (g Vector) MarshalCSV() (string, error) {
	return g.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (g *Vector) UnmarshalCSV(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// Parse reads "[g0,...,g7]" (brackets optional). Values are not clamped.
func Parse(s string) (Vector, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	parts := strings.Split(s, ",")
	if len(parts) != Size {
		return Vector{}, fmt.Errorf("gene vector needs %d values, got %d", Size, len(parts))
	}
	return ParseFields(parts)
}

// ParseFields parses exactly Size fields, tolerating surrounding brackets, quotes and spaces.
func ParseFields(fields []string) (Vector, error) {
	var g Vector
	if len(fields) != Size {
		return g, fmt.Errorf("gene vector needs %d values, got %d", Size, len(fields))
	}
	for i, f := range fields {
		f = strings.Trim(strings.TrimSpace(f), `"[] `)
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Vector{}, fmt.Errorf("gene %d: %w", i, err)
		}
		g[i] = v
	}
	return g, nil
}
