package telemetry

import "github.com/pthm-cable/sparring/genes"

// Collector accumulates round events within one generation and produces GenerationStats.
type Collector struct {
	generation int

	// Event counters for the current generation
	rounds  int
	strikes int
	blocks  int
	kos     int
}

// NewCollector creates a collector starting at generation 0.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordRound adds one finished round's strike outcomes and knockouts.
func (c *Collector) RecordRound(strikes, blocks, kos int) {
	c.rounds++
	c.strikes += strikes
	c.blocks += blocks
	c.kos += kos
}

// Generation returns the index of the generation being collected.
func (c *Collector) Generation() int {
	return c.generation
}

// Flush produces a GenerationStats from the final scores and the best individual,
// then resets counters for the next generation.
func (c *Collector) Flush(scores []float64, bestScore int, best genes.Vector) GenerationStats {
	s := SummarizeScores(scores)

	stats := GenerationStats{
		Generation: c.generation,
		Rounds:     c.rounds,
		Mean:       s.Mean,
		Std:        s.Std,
		Min:        s.Min,
		P50:        s.P50,
		Max:        s.Max,
		Strikes:    c.strikes,
		Blocks:     c.blocks,
		KOs:        c.kos,
		BestScore:  bestScore,
		BestGenes:  best,
	}

	// Reset for next generation
	c.generation++
	c.rounds = 0
	c.strikes = 0
	c.blocks = 0
	c.kos = 0

	return stats
}
