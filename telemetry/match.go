package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/pthm-cable/sparring/genes"
)

// MatchRecord is one concluded live match.
type MatchRecord struct {
	Time     float64      `csv:"time"`   // Seconds the match lasted
	Bot      string       `csv:"bot"`    // Role tag of the bot side
	Winner   string       `csv:"winner"` // Role tag of the winner
	WinnerHP int          `csv:"winnerHP"`
	Probs    genes.Vector `csv:"probs"` // Active genes during the match
}

// MatchLog appends match records to <participant>.csv in a directory.
// A nil *MatchLog discards records.
type MatchLog struct {
	id            string
	path          string
	file          *os.File
	headerWritten bool
}

// OpenMatchLog opens or creates the participant's match file. An empty id is
// replaced by a random one. Returns nil if dir is empty (output disabled).
func OpenMatchLog(dir, id string) (*MatchLog, error) {
	if dir == "" {
		return nil, nil
	}
	if id == "" {
		id = uuid.NewString()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating match directory: %w", err)
	}

	path := filepath.Join(dir, id+".csv")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &MatchLog{
		id:            id,
		path:          path,
		file:          f,
		headerWritten: info.Size() > 0,
	}, nil
}

// ID returns the participant id.
func (l *MatchLog) ID() string {
	if l == nil {
		return ""
	}
	return l.id
}

// Path returns the file path.
func (l *MatchLog) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Write appends one record. The header is written only into a new file.
func (l *MatchLog) Write(rec MatchRecord) error {
	if l == nil {
		return nil
	}

	records := []MatchRecord{rec}

	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.file); err != nil {
			return fmt.Errorf("writing match: %w", err)
		}
		l.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, l.file); err != nil {
		return fmt.Errorf("writing match: %w", err)
	}
	return nil
}

// Close closes the file.
func (l *MatchLog) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}
