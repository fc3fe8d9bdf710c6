package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"

	"github.com/pthm-cable/sparring/genes"
)

// HallEntry is a gene vector that scored well in some generation.
type HallEntry struct {
	Genes      genes.Vector
	Score      int
	Generation int
}

// HallOfFame keeps the best gene vectors seen across generations, sorted by
// score descending, for seeding later trainings.
type HallOfFame struct {
	hall    []HallEntry
	maxSize int
	rng     *rand.Rand
}

// NewHallOfFame creates a hall of fame holding at most maxSize entries.
func NewHallOfFame(maxSize int, rng *rand.Rand) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		hall:    make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
		rng:     rng,
	}
}

// Consider offers an entry to the hall. Returns true if it was kept.
func (hof *HallOfFame) Consider(g genes.Vector, score, generation int) bool {
	return hof.insert(HallEntry{Genes: g, Score: score, Generation: generation}) >= 0
}

// insert adds an entry, maintaining sorted order by score. If the hall is full,
// the lowest-score entry is removed. Returns the insertion index, or -1 when the
// entry did not make the cut.
func (hof *HallOfFame) insert(entry HallEntry) int {
	// Find insertion point (sorted descending by score, stable for ties)
	idx := sort.Search(len(hof.hall), func(i int) bool {
		return hof.hall[i].Score < entry.Score
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hof.hall) >= hof.maxSize && idx >= hof.maxSize {
		return -1
	}

	hof.hall = append(hof.hall, HallEntry{})
	copy(hof.hall[idx+1:], hof.hall[idx:])
	hof.hall[idx] = entry

	// Trim if over capacity
	if len(hof.hall) > hof.maxSize {
		hof.hall = hof.hall[:hof.maxSize]
	}
	return idx
}

// Sample selects a gene vector using tournament selection.
// Returns false if the hall is empty.
func (hof *HallOfFame) Sample() (genes.Vector, bool) {
	if len(hof.hall) == 0 {
		return genes.Vector{}, false
	}

	// Tournament selection with k=3
	const tournamentSize = 3
	best := -1
	for i := 0; i < tournamentSize && i < len(hof.hall); i++ {
		idx := hof.rng.Intn(len(hof.hall))
		if best < 0 || hof.hall[idx].Score > hof.hall[best].Score {
			best = idx
		}
	}
	return hof.hall[best].Genes, true
}

// Best returns the top entry. Returns false if the hall is empty.
func (hof *HallOfFame) Best() (HallEntry, bool) {
	if len(hof.hall) == 0 {
		return HallEntry{}, false
	}
	return hof.hall[0], true
}

// Entries returns a copy of the hall in rank order.
func (hof *HallOfFame) Entries() []HallEntry {
	out := make([]HallEntry, len(hof.hall))
	copy(out, hof.hall)
	return out
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.hall)
}

// hallEntryJSON is the JSON-serializable representation of a hall entry.
type hallEntryJSON struct {
	Genes      []float64 `json:"genes"`
	Score      int       `json:"score"`
	Generation int       `json:"generation"`
}

// MarshalJSON serializes the hall of fame to JSON in rank order.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	entries := make([]hallEntryJSON, len(hof.hall))
	for i, e := range hof.hall {
		entries[i] = hallEntryJSON{
			Genes:      e.Genes[:],
			Score:      e.Score,
			Generation: e.Generation,
		}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file. Entries with the wrong
// gene count are skipped; gene values are clamped to b.
func LoadHallOfFameFromFile(path string, b genes.Bounds, rng *rand.Rand) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw []hallEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	// Determine max size from the file, with a reasonable default
	maxSize := 30
	if len(raw) > maxSize {
		maxSize = len(raw)
	}

	hof := NewHallOfFame(maxSize, rng)
	for i, ej := range raw {
		if len(ej.Genes) != genes.Size {
			slog.Warn("hall_of_fame_load: wrong gene count, skipping", "entry", i, "genes", len(ej.Genes))
			continue
		}
		var g genes.Vector
		copy(g[:], ej.Genes)
		hof.insert(HallEntry{Genes: g.Clamped(b), Score: ej.Score, Generation: ej.Generation})
	}
	return hof, nil
}
