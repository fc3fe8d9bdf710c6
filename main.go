package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pthm-cable/sparring/bot"
	"github.com/pthm-cable/sparring/combat"
	"github.com/pthm-cable/sparring/config"
	"github.com/pthm-cable/sparring/difficulty"
	"github.com/pthm-cable/sparring/evolve"
	"github.com/pthm-cable/sparring/match"
	"github.com/pthm-cable/sparring/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	gameMode := flag.String("mode", "", "Game mode: none, genetic, classical or manyEnemies (empty = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for match records and training logs")
	playerID := flag.String("player", "", "Participant id for the match file (empty = config or random)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTime := flag.Float64("max-time", 600, "Stop each session after N simulated seconds (0 = unlimited)")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *playerID != "" {
		cfg.Match.PlayerID = *playerID
	}
	modeName := cfg.Match.GameMode
	if *gameMode != "" {
		modeName = *gameMode
	}
	mode, err := difficulty.ParseGameMode(modeName)
	if err != nil {
		slog.Error("invalid game mode", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, mode, rng, *maxTime, logger); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("session failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, mode difficulty.GameMode, rng *rand.Rand, maxTime float64, logger *slog.Logger) error {
	ctrl, err := difficulty.NewController(cfg, logger)
	if err != nil {
		return err
	}

	if path := cfg.Difficulty.TablePath; path != "" {
		table, err := difficulty.LoadGeneTable(path)
		if err != nil {
			return err
		}
		if err := ctrl.SetTable(table); err != nil {
			return err
		}
		if cfg.Difficulty.WatchTable {
			tw, err := difficulty.WatchTable(path, ctrl, logger)
			if err != nil {
				return err
			}
			defer tw.Close()
			go func() {
				for err := range tw.Errors {
					logger.Warn("gene table watch", "error", err)
				}
			}()
		}
	}

	var matchDir string
	if cfg.Telemetry.OutputDir != "" {
		matchDir = filepath.Join(cfg.Telemetry.OutputDir, "matches")
	}
	log, err := telemetry.OpenMatchLog(matchDir, cfg.Match.PlayerID)
	if err != nil {
		return err
	}
	defer log.Close()

	// The player side is driven by the scripted policy when running headless.
	newOpts := func(trained bool) match.Options {
		return match.Options{
			Log:          log,
			Logger:       logger,
			PlayerPolicy: bot.NewSensorPolicy(cfg.Scripted, cfg.Arena.WanderRadius, rand.New(rand.NewSource(rng.Int63()))),
			Trained:      trained,
			Rng:          rand.New(rand.NewSource(rng.Int63())),
		}
	}

	s, err := match.NewSession(cfg, ctrl, mode, newOpts(false))
	if err != nil {
		return err
	}
	if err := s.Run(ctx, maxTime); err != nil {
		return err
	}
	if s.Screen() != combat.ScreenTraining || !s.Finished() {
		return nil
	}

	// Warm-up finished: train against the genes the player just faced.
	static := s.BotGenes()
	var output *telemetry.OutputManager
	if cfg.Telemetry.OutputDir != "" {
		output, err = telemetry.NewOutputManager(filepath.Join(cfg.Telemetry.OutputDir, "training", log.ID()))
		if err != nil {
			return err
		}
		defer output.Close()
		if err := output.WriteConfig(cfg); err != nil {
			logger.Warn("telemetry write failed", "error", err)
		}
	}
	opt, err := evolve.NewOptimizer(cfg, evolve.Options{
		Static:    &static,
		Reference: ctrl.Reference(),
		Hall:      telemetry.NewHallOfFame(16, rand.New(rand.NewSource(rng.Int63()))),
		Output:    output,
		Logger:    logger,
		Rng:       rand.New(rand.NewSource(rng.Int63())),
	})
	if err != nil {
		return err
	}
	res, err := opt.Run(ctx)
	if err != nil {
		return err
	}
	if err := ctrl.SetGenes(res.Genes); err != nil {
		return err
	}

	s, err = match.NewSession(cfg, ctrl, mode, newOpts(true))
	if err != nil {
		return err
	}
	return s.Run(ctx, maxTime)
}
