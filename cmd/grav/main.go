package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gravsim/grav/internal/config"
	"github.com/gravsim/grav/internal/sim"
)

const defaultConfigPath = "grav.toml"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// options are the command-line overrides. Only flags the user actually set
// replace configuration values.
type options struct {
	configPath string
	steps      uint64
	entities   int
	seed       int64
	output     string
	logLevel   string
	quiet      bool
	set        map[string]bool
}

func parseFlags(args []string) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("grav", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "TOML configuration file (default $GRAV_CONFIG or ./grav.toml)")
	fs.Uint64Var(&o.steps, "steps", 0, "number of steps to simulate")
	fs.IntVar(&o.entities, "entities", 0, "number of particles to seed")
	fs.Int64Var(&o.seed, "seed", 0, "random seed")
	fs.StringVar(&o.output, "output", "", "snapshot log path (empty disables output)")
	fs.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&o.quiet, "quiet", false, "hide the progress display")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// resolveConfigPath picks the -config flag, then $GRAV_CONFIG, then
// ./grav.toml when it exists. An empty result means built-in defaults.
func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv("GRAV_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func loadConfig(o *options) (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath(o.configPath))
	if err != nil {
		return nil, err
	}
	if o.set["steps"] {
		cfg.Simulation.Steps = o.steps
	}
	if o.set["entities"] {
		cfg.Simulation.Entities = o.entities
	}
	if o.set["seed"] {
		cfg.Simulation.Seed = o.seed
	}
	if o.set["output"] {
		cfg.Simulation.Output = o.output
	}
	if o.set["log-level"] {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(args []string) error {
	// 1. Flags and config
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	runID := uuid.New()
	log, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()
	log = log.With(zap.Stringer("run", runID))

	printBanner(runID.String())

	printSection("Configuration")
	printStat("steps", int(cfg.Simulation.Steps))
	printStat("entities", cfg.Simulation.Entities)
	printStat("seed", int(cfg.Simulation.Seed))
	printValue("seeding", cfg.Seeding.Mode)
	printValue("output", orNone(cfg.Simulation.Output))
	fmt.Println()

	// 3. Assemble the simulation
	printSection("World")
	s, err := sim.New(cfg, log)
	if err != nil {
		return fmt.Errorf("build simulation: %w", err)
	}
	defer s.Close()
	printStat("particles", s.State().Count())
	levels, err := s.Levels()
	if err != nil {
		return err
	}
	printStat("stage levels", len(levels))
	printOK("stage graph built")
	fmt.Println()

	log.Info("simulation starting",
		zap.Uint64("steps", cfg.Simulation.Steps),
		zap.Int("particles", s.State().Count()),
		zap.Bool("parallel", cfg.Scheduler.Parallel))

	// 4. Run until done or interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var out io.Writer = os.Stdout
	if opts.quiet {
		out = io.Discard
	}
	bar := newProgress(out, cfg.Simulation.Steps)
	start := time.Now()
	runErr := s.Run(ctx, cfg.Simulation.Steps, bar.update)
	bar.finish()
	elapsed := time.Since(start)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("run: %w", runErr)
	}
	if err := s.Close(); err != nil {
		return err
	}

	stats := s.Stats()
	printSection("Result")
	printStat("steps completed", int(s.Step()))
	printStat("particles", s.State().Count())
	printStat("merges", stats.Merges)
	printStat("splits", stats.Splits)
	printStat("unsupported contacts", stats.UnsupportedContacts)
	printStat("snapshots", s.Snapshots())
	if cfg.Simulation.Output != "" {
		printOK(fmt.Sprintf("snapshot log written to %s", cfg.Simulation.Output))
	}
	fmt.Println()

	log.Info("simulation finished",
		zap.Uint64("step", s.Step()),
		zap.Int("particles", s.State().Count()),
		zap.Duration("elapsed", elapsed),
		zap.Bool("interrupted", runErr != nil),
		stats.Field())
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
