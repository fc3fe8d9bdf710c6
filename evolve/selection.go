package evolve

import (
	"math/rand"

	"github.com/pthm-cable/sparring/genes"
)

// Roulette is a fitness-proportionate selection pool: every individual occupies
// one slot per score point, so non-positive scores take no slots.
type Roulette struct {
	slots []*Individual
	all   Population
}

// NewRoulette builds the pool for a population.
func NewRoulette(p Population) *Roulette {
	r := &Roulette{all: p}
	if total := p.Total(); total > 0 {
		r.slots = make([]*Individual, 0, total)
	}
	for _, ind := range p {
		for i := 0; i < ind.Score; i++ {
			r.slots = append(r.slots, ind)
		}
	}
	return r
}

// Len returns the number of slots.
func (r *Roulette) Len() int { return len(r.slots) }

// Pick draws one individual. An empty pool falls back to a uniform draw over
// the population; an empty population yields nil.
func (r *Roulette) Pick(rng *rand.Rand) *Individual {
	if len(r.slots) == 0 {
		if len(r.all) == 0 {
			return nil
		}
		return r.all[rng.Intn(len(r.all))]
	}
	return r.slots[rng.Intn(len(r.slots))]
}

// NewGeneration replaces every individual's genes with a child of two roulette
// parents drawn from the current generation. Actors are reused and scores reset.
func NewGeneration(p Population, rng *rand.Rand, spread float64, b genes.Bounds) error {
	if len(p) == 0 {
		return ErrEmptyPopulation
	}

	r := NewRoulette(p)
	children := make([]genes.Vector, len(p))
	for i := range children {
		p1, p2 := r.Pick(rng), r.Pick(rng)
		children[i] = genes.Crossover(rng, p1.Genes, p2.Genes, spread, b)
	}
	for i, ind := range p {
		ind.Rebind(children[i])
	}
	return nil
}
