package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/sparring/genes"
)

// GeneTableEntry is one scored gene vector in a ranked table.
type GeneTableEntry struct {
	Probs      genes.Vector `csv:"probs"`
	MatchesWon int          `csv:"matchesWon"`
}

// WriteGeneTable writes a ranked gene table with a probs,matchesWon header.
func WriteGeneTable(path string, entries []GeneTableEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating gene table: %w", err)
	}
	if err := gocsv.Marshal(entries, f); err != nil {
		f.Close()
		return fmt.Errorf("writing gene table: %w", err)
	}
	return f.Close()
}
