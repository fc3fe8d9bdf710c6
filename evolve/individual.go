// Package evolve trains gene vectors with a generational genetic algorithm:
// evolving individuals fight a frozen baseline population across parallel
// arenas and are scored on how closely they reproduce a target HP gap.
package evolve

import (
	"errors"
	"math/rand"

	"github.com/pthm-cable/sparring/arena"
	"github.com/pthm-cable/sparring/bot"
	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/genes"
)

// ErrEmptyPopulation is returned when an operation needs at least one individual.
var ErrEmptyPopulation = errors.New("evolve: empty population")

// geneSetter is implemented by policies that read a gene vector.
type geneSetter interface {
	SetGenes(genes.Vector)
}

// Individual is a gene vector bound to one training actor plus its score for
// the current generation. The actor is owned by this individual alone.
type Individual struct {
	Genes  genes.Vector
	Actor  *combat.Actor
	Policy bot.Policy
	Score  int
}

// Combatant returns the individual as an arena combatant.
func (ind *Individual) Combatant() arena.Combatant {
	return arena.Combatant{Actor: ind.Actor, Policy: ind.Policy}
}

// Rebind replaces the gene vector, resets the score and pushes the genes to the policy.
func (ind *Individual) Rebind(g genes.Vector) {
	ind.Genes = g
	ind.Score = 0
	if p, ok := ind.Policy.(geneSetter); ok {
		p.SetGenes(g)
	}
}

// Population is an ordered set of individuals. Order only matters for pairing
// within a round.
type Population []*Individual

// Combatants returns the population in pairing order.
func (p Population) Combatants() []arena.Combatant {
	out := make([]arena.Combatant, len(p))
	for i, ind := range p {
		out[i] = ind.Combatant()
	}
	return out
}

// Best returns the highest-scoring individual; the earliest wins ties.
// Returns nil for an empty population.
func (p Population) Best() *Individual {
	var best *Individual
	for _, ind := range p {
		if best == nil || ind.Score > best.Score {
			best = ind
		}
	}
	return best
}

// Scores returns every score as a float slice, in population order.
func (p Population) Scores() []float64 {
	out := make([]float64, len(p))
	for i, ind := range p {
		out[i] = float64(ind.Score)
	}
	return out
}

// Total returns the summed score.
func (p Population) Total() int {
	total := 0
	for _, ind := range p {
		total += ind.Score
	}
	return total
}

// Shuffle randomizes pairing order.
func (p Population) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })
}
