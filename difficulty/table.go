package difficulty

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pthm-cable/sparring/genes"
	"github.com/pthm-cable/sparring/telemetry"
)

// ErrEmptyGeneTable is returned when ranked mode has no usable rows.
var ErrEmptyGeneTable = errors.New("difficulty: empty gene table")

// tableFields is the field count of a row after splitting on commas:
// eight genes and a score.
const tableFields = genes.Size + 1

// GeneTable is a list of scored gene vectors sorted ascending by score.
type GeneTable struct {
	entries []telemetry.GeneTableEntry
	skipped int
}

// NewGeneTable sorts a copy of entries by score.
func NewGeneTable(entries []telemetry.GeneTableEntry) *GeneTable {
	t := &GeneTable{entries: make([]telemetry.GeneTableEntry, len(entries))}
	copy(t.entries, entries)
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].MatchesWon < t.entries[j].MatchesWon
	})
	return t
}

// ParseGeneTable reads rows of the form [g0,...,g7],score. Rows that do not
// split into nine fields or fail to parse are skipped, the header included.
func ParseGeneTable(r io.Reader) (*GeneTable, error) {
	var entries []telemetry.GeneTableEntry
	skipped := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != tableFields {
			skipped++
			continue
		}
		g, err := genes.ParseFields(fields[:genes.Size])
		if err != nil {
			skipped++
			continue
		}
		score, err := strconv.Atoi(strings.Trim(strings.TrimSpace(fields[genes.Size]), `"`))
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, telemetry.GeneTableEntry{Probs: g, MatchesWon: score})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading gene table: %w", err)
	}

	t := NewGeneTable(entries)
	t.skipped = skipped
	return t, nil
}

// LoadGeneTable reads a gene table file.
func LoadGeneTable(path string) (*GeneTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gene table: %w", err)
	}
	defer f.Close()
	return ParseGeneTable(f)
}

// Len returns the number of usable rows.
func (t *GeneTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Skipped returns how many rows were rejected while parsing.
func (t *GeneTable) Skipped() int {
	if t == nil {
		return 0
	}
	return t.skipped
}

// Entries returns a copy of the rows in score order.
func (t *GeneTable) Entries() []telemetry.GeneTableEntry {
	if t == nil {
		return nil
	}
	out := make([]telemetry.GeneTableEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Index maps a difficulty onto a row: clamp(difficulty + len/2, 0, len-1).
func (t *GeneTable) Index(difficulty int) (int, error) {
	n := t.Len()
	if n == 0 {
		return 0, ErrEmptyGeneTable
	}
	i := difficulty + n/2
	if i < 0 {
		i = 0
	}
	if i > n-1 {
		i = n - 1
	}
	return i, nil
}

// Genes returns the genes ranked for a difficulty.
func (t *GeneTable) Genes(difficulty int) (genes.Vector, error) {
	i, err := t.Index(difficulty)
	if err != nil {
		return genes.Vector{}, err
	}
	return t.entries[i].Probs, nil
}

// Bounds returns the difficulty range that maps onto distinct rows.
func (t *GeneTable) Bounds() (lo, hi int) {
	n := t.Len()
	return -(n / 2), n - 1 - n/2
}
