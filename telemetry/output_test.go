package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/genes"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Errorf("nil WriteGeneration: %v", err)
	}
	if err := om.WriteBestGenes(BestGenes{}); err != nil {
		t.Errorf("nil WriteBestGenes: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("nil Dir = %q", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManager_Generations(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	c := NewCollector()
	c.RecordRound(10, 4, 2)
	if err := om.WriteGeneration(c.Flush([]float64{3, 5}, 5, genes.Hard)); err != nil {
		t.Fatal(err)
	}
	c.RecordRound(6, 1, 0)
	if err := om.WriteGeneration(c.Flush([]float64{4, 8}, 8, genes.Medium)); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.MustLoad("")); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "generation,rounds,score_mean") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "1,1,6") {
		t.Errorf("second row = %q", lines[2])
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestOutputManager_BestGenes(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteBestGenes(NewBestGenes(genes.Easy, 31, 10, -2)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "best_genes.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got BestGenes
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Score != 31 || got.ReferenceDifferential != -2 || got.Text != genes.Easy.String() {
		t.Errorf("best genes = %+v", got)
	}
	if len(got.Genes) != genes.Size {
		t.Errorf("got %d genes, want %d", len(got.Genes), genes.Size)
	}
}

func TestCollector_FlushResets(t *testing.T) {
	c := NewCollector()
	c.RecordRound(3, 1, 1)
	c.RecordRound(2, 2, 0)

	s := c.Flush([]float64{1, 2, 3}, 3, genes.Medium)
	if s.Generation != 0 || s.Rounds != 2 || s.Strikes != 5 || s.Blocks != 3 || s.KOs != 1 {
		t.Errorf("first flush = %+v", s)
	}
	if s.Mean != 2 || s.Min != 1 || s.Max != 3 {
		t.Errorf("score summary = %+v", s)
	}

	s = c.Flush(nil, 0, genes.Vector{})
	if s.Generation != 1 || s.Rounds != 0 || s.Strikes != 0 {
		t.Errorf("counters not reset: %+v", s)
	}
}
