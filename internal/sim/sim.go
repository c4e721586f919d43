// Package sim assembles a runnable simulation from configuration.
package sim

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/gravsim/grav/internal/config"
	"github.com/gravsim/grav/internal/core/event"
	coresys "github.com/gravsim/grav/internal/core/system"
	"github.com/gravsim/grav/internal/persist"
	"github.com/gravsim/grav/internal/seed"
	"github.com/gravsim/grav/internal/system"
	"github.com/gravsim/grav/internal/world"
)

// Simulation owns the world, the stage runner and the snapshot log of one run.
type Simulation struct {
	state  *world.State
	runner *coresys.Runner[world.SimContext]
	ctx    world.SimContext
	bus    *event.Bus
	stats  *world.Stats
	sink   *persist.SnapshotLog
	log    *zap.Logger
}

// New builds the world, seeds it, registers every stage and opens the
// snapshot log. Close releases the log.
func New(cfg *config.Config, log *zap.Logger) (*Simulation, error) {
	sc, err := Context(cfg)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		state: world.NewState(),
		bus:   event.NewBus(),
		stats: &world.Stats{},
		log:   log,
	}
	s.stats.Subscribe(s.bus)
	sc.Events = s.bus
	sc.Log = log

	var opts []coresys.Option
	if cfg.Scheduler.Parallel {
		opts = append(opts, coresys.WithParallel(cfg.Scheduler.Workers))
	}
	s.runner = coresys.NewRunner[world.SimContext](s.state, opts...)
	for _, sys := range system.All(s.state) {
		s.runner.Register(sys)
	}
	if err := s.runner.Build(); err != nil {
		return nil, fmt.Errorf("stage graph: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
	if _, err := seed.Populate(s.state, cfg.Seeding, cfg.Simulation.Entities, rng, log); err != nil {
		return nil, err
	}

	if cfg.Simulation.Output != "" {
		s.sink, err = persist.OpenSnapshotLog(cfg.Simulation.Output, persist.Mode(cfg.Simulation.OutputMode))
		if err != nil {
			return nil, err
		}
		sc.Sink = s.sink
	}
	s.ctx = sc
	return s, nil
}

// Context converts configuration into the tick context handed to every stage.
func Context(cfg *config.Config) (world.SimContext, error) {
	boundary, err := world.ParseBoundary(cfg.Limits.Boundary)
	if err != nil {
		return world.SimContext{}, err
	}
	sc := world.DefaultSimContext()
	sc.GravitationalConstant = cfg.Physics.GravitationalConstant
	sc.ElectrostaticConstant = cfg.Physics.ElectrostaticConstant
	sc.DeltaTime = cfg.Physics.DeltaTime
	sc.Enabled = world.Features{
		Gravity:        cfg.Physics.Gravity,
		Electrostatics: cfg.Physics.Electrostatics,
		Collisions:     cfg.Collision.Enabled,
		Splitting:      cfg.Splitting.Enabled,
	}
	sc.Dynamics = world.DynamicsLimits{
		MinAcceleration: cfg.Limits.MinAcceleration,
		MaxAcceleration: cfg.Limits.MaxAcceleration,
		MinVelocity:     cfg.Limits.MinVelocity,
		MaxVelocity:     cfg.Limits.MaxVelocity,
		MinPosition:     cfg.Limits.MinPosition,
		MaxPosition:     cfg.Limits.MaxPosition,
		Boundary:        boundary,
	}
	sc.Orientation = world.OrientationLimits{
		MinAngularAcceleration: cfg.Orientation.MinAngularAcceleration,
		MaxAngularAcceleration: cfg.Orientation.MaxAngularAcceleration,
		MinAngularVelocity:     cfg.Orientation.MinAngularVelocity,
		MaxAngularVelocity:     cfg.Orientation.MaxAngularVelocity,
	}
	sc.Collision = world.CollisionLimits{
		MinThreshold: cfg.Collision.MinimumThreshold,
		MaxThreshold: cfg.Collision.MaximumThreshold,
	}
	sc.Splitting = world.SplittingSettings{
		MinLifetime:          cfg.Splitting.MinimumLifetime,
		MaxLifetime:          cfg.Splitting.MaximumLifetime,
		SeparationMultiplier: cfg.Splitting.SeparationMultiplier,
		VelocityMultiplier:   cfg.Splitting.VelocityMultiplier,
	}
	return sc, nil
}

// Observer is told about every completed step.
type Observer func(step uint64, particles int)

// Run advances the simulation by steps ticks. ctx is checked between ticks
// only; a cancelled run returns ctx.Err() after the tick in progress.
// Events of the last tick are flushed before returning.
func (s *Simulation) Run(ctx context.Context, steps uint64, observe Observer) error {
	defer s.bus.Flush()
	for i := uint64(0); i < steps; i++ {
		if err := ctx.Err(); err != nil {
			s.log.Info("run interrupted", zap.Uint64("step", s.ctx.Step), s.stats.Field())
			return err
		}
		s.ctx.Step++
		s.bus.SwapBuffers()
		s.bus.DispatchAll()
		if err := s.runner.Tick(&s.ctx); err != nil {
			return fmt.Errorf("step %d: %w", s.ctx.Step, err)
		}
		if observe != nil {
			observe(s.ctx.Step, s.state.Count())
		}
	}
	return nil
}

// Step returns the number of the last completed tick.
func (s *Simulation) Step() uint64 { return s.ctx.Step }

func (s *Simulation) State() *world.State { return s.state }

// Stats returns merge and split counters. Call after Run for complete counts.
func (s *Simulation) Stats() world.Stats { return *s.stats }

// Levels lists the stage graph, level by level.
func (s *Simulation) Levels() ([][]coresys.Stage, error) { return s.runner.Levels() }

// Snapshots returns how many records were written to the log.
func (s *Simulation) Snapshots() int {
	if s.sink == nil {
		return 0
	}
	return s.sink.Records()
}

func (s *Simulation) Close() error {
	if s.sink == nil {
		return nil
	}
	err := s.sink.Close()
	s.sink = nil
	if err != nil {
		return fmt.Errorf("close snapshot log: %w", err)
	}
	return nil
}
