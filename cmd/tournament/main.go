// Package main runs the many-bots round robin and writes the gene table used
// by ranked difficulty.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/tournament"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	output := flag.String("output", "gene_table.csv", "Gene table CSV path")
	bots := flag.Int("bots", 0, "Number of bots (0 = use config)")
	fightTime := flag.Float64("fight-time", 0, "Seconds per fight (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *bots > 0 {
		cfg.Tournament.Bots = *bots
	}
	if *fightTime > 0 {
		cfg.Tournament.FightTime = *fightTime
	}
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	t, err := tournament.New(cfg, rand.New(rand.NewSource(rngSeed)), logger)
	if err != nil {
		slog.Error("failed to build tournament", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if err := t.Run(ctx); err != nil {
		slog.Error("tournament stopped", "error", err)
		os.Exit(1)
	}
	if err := t.WriteTable(*output); err != nil {
		slog.Error("failed to write gene table", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%d fights in %s\n", t.Fights(), time.Since(start).Round(time.Millisecond))
	for _, e := range t.Entrants() {
		fmt.Printf("  bot %2d  wins %2d  %s\n", e.Actor.ID, e.Wins, e.Policy.Genes())
	}
	fmt.Printf("Gene table: %s\n", *output)
}
