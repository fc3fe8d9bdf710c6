// Package main trains gene vectors offline with the generational optimizer and
// writes generation statistics, the hall of fame and the best genes.
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
	"github.com/pthm-cable/sparring/evolve"
	"github.com/pthm-cable/sparring/genes"
	"github.com/pthm-cable/sparring/telemetry"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	outputDir := flag.String("output", "", "Output directory for results (empty = no files)")
	generations := flag.Int("generations", 0, "Generation count (0 = use config)")
	arenas := flag.Int("arenas", 0, "Population size and arena count (0 = use config)")
	baseline := flag.String("baseline", "", "Static side: genes or scripted (empty = use config)")
	staticGenes := flag.String("static", "", "Static gene vector as [g0,...,g7] (empty = medium preset)")
	reference := flag.Int("reference", 0, "Target HP differential")
	hallPath := flag.String("hall", "", "Seed from a hall_of_fame.json file")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config or time-based)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *generations > 0 {
		cfg.Training.Generations = *generations
	}
	if *arenas > 0 {
		cfg.Training.Arenas = *arenas
	}
	if *baseline != "" {
		cfg.Training.Baseline = *baseline
	}
	if *seed != 0 {
		cfg.Training.Seed = *seed
	}
	if cfg.Training.Seed == 0 {
		cfg.Training.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(cfg.Training.Seed))
	bounds := genes.Bounds{Min: cfg.Genes.Min, Max: cfg.Genes.Max}

	opts := evolve.Options{
		Reference: *reference,
		Logger:    logger,
		Rng:       rng,
		Hall:      telemetry.NewHallOfFame(16, rand.New(rand.NewSource(rng.Int63()))),
	}
	if *staticGenes != "" {
		g, err := genes.Parse(*staticGenes)
		if err != nil {
			slog.Error("invalid static genes", "error", err)
			os.Exit(1)
		}
		opts.Static = &g
	}
	if *hallPath != "" {
		hall, err := telemetry.LoadHallOfFameFromFile(*hallPath, bounds, rand.New(rand.NewSource(rng.Int63())))
		if err != nil {
			slog.Error("failed to load hall of fame", "error", err)
			os.Exit(1)
		}
		opts.Hall = hall
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
		os.Exit(1)
	}
	opts.Output = output

	opt, err := evolve.NewOptimizer(cfg, opts)
	if err != nil {
		slog.Error("failed to build optimizer", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	res, err := opt.Run(ctx)
	if err != nil {
		slog.Error("training stopped", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nTraining complete in %s\n", formatDuration(time.Since(start)))
	fmt.Printf("Generations: %d\n", res.Generations)
	fmt.Printf("Best score:  %d\n", res.Score)
	fmt.Printf("Best genes:  %s\n", res.Genes)
	if dir := output.Dir(); dir != "" {
		fmt.Printf("Results in:  %s\n", dir)
	}
}
