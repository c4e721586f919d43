package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Simulation  SimulationConfig  `toml:"simulation"`
	Physics     PhysicsConfig     `toml:"physics"`
	Limits      LimitsConfig      `toml:"limits"`
	Orientation OrientationConfig `toml:"orientation"`
	Collision   CollisionConfig   `toml:"collision"`
	Splitting   SplittingConfig   `toml:"splitting"`
	Seeding     SeedingConfig     `toml:"seeding"`
	Scheduler   SchedulerConfig   `toml:"scheduler"`
	Logging     LoggingConfig     `toml:"logging"`
}

type SimulationConfig struct {
	Steps      uint64 `toml:"steps"`
	Entities   int    `toml:"entities"`
	Seed       int64  `toml:"seed"`
	Output     string `toml:"output"`
	OutputMode string `toml:"output_mode"` // "truncate" or "append"
}

type PhysicsConfig struct {
	GravitationalConstant float64 `toml:"gravitational_constant"`
	ElectrostaticConstant float64 `toml:"electrostatic_constant"`
	DeltaTime             float64 `toml:"delta_time"`
	Gravity               bool    `toml:"gravity"`
	Electrostatics        bool    `toml:"electrostatics"`
}

// LimitsConfig bounds vector magnitudes. TOML's inf literal lifts a maximum.
type LimitsConfig struct {
	MinAcceleration float64 `toml:"min_acceleration"`
	MaxAcceleration float64 `toml:"max_acceleration"`
	MinVelocity     float64 `toml:"min_velocity"`
	MaxVelocity     float64 `toml:"max_velocity"`
	MinPosition     float64 `toml:"min_position"`
	MaxPosition     float64 `toml:"max_position"`
	Boundary        string  `toml:"boundary"` // "bounce" or "clamp"
}

type OrientationConfig struct {
	MinAngularAcceleration float64 `toml:"min_angular_acceleration"`
	MaxAngularAcceleration float64 `toml:"max_angular_acceleration"`
	MinAngularVelocity     float64 `toml:"min_angular_velocity"`
	MaxAngularVelocity     float64 `toml:"max_angular_velocity"`
}

type CollisionConfig struct {
	Enabled          bool    `toml:"enabled"`
	MinimumThreshold float64 `toml:"minimum_threshold"`
	MaximumThreshold float64 `toml:"maximum_threshold"`
}

type SplittingConfig struct {
	Enabled              bool    `toml:"enabled"`
	MinimumLifetime      uint64  `toml:"minimum_lifetime"`
	MaximumLifetime      uint64  `toml:"maximum_lifetime"`
	SeparationMultiplier float64 `toml:"separation_multiplier"`
	VelocityMultiplier   float64 `toml:"velocity_multiplier"`
}

type SeedingConfig struct {
	Mode        string  `toml:"mode"` // "random", "file" or "script"
	File        string  `toml:"file"`
	Script      string  `toml:"script"`
	Mass        float64 `toml:"mass"`
	Radius      float64 `toml:"radius"`
	PositionMin float64 `toml:"position_min"`
	PositionMax float64 `toml:"position_max"`
	VelocityMin float64 `toml:"velocity_min"`
	VelocityMax float64 `toml:"velocity_max"`
}

type SchedulerConfig struct {
	Parallel bool `toml:"parallel"`
	Workers  int  `toml:"workers"` // 0 = one goroutine per stage in a level
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr only
	Mode   string `toml:"mode"`   // "append" or "overwrite"
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config { return defaults() }

func defaults() *Config {
	inf := math.Inf(1)
	return &Config{
		Simulation: SimulationConfig{
			Steps:      1000,
			Entities:   100,
			Seed:       1,
			Output:     "output.yaml",
			OutputMode: "truncate",
		},
		Physics: PhysicsConfig{
			GravitationalConstant: 1,
			ElectrostaticConstant: 1,
			DeltaTime:             1,
			Gravity:               true,
			Electrostatics:        true,
		},
		Limits: LimitsConfig{
			MaxAcceleration: inf,
			MaxVelocity:     inf,
			MaxPosition:     inf,
			Boundary:        "bounce",
		},
		Orientation: OrientationConfig{
			MaxAngularAcceleration: inf,
			MaxAngularVelocity:     inf,
		},
		Collision: CollisionConfig{
			Enabled:          true,
			MinimumThreshold: 1,
			MaximumThreshold: 100,
		},
		Splitting: SplittingConfig{
			Enabled:              true,
			MinimumLifetime:      100,
			MaximumLifetime:      1000,
			SeparationMultiplier: 2,
			VelocityMultiplier:   1,
		},
		Seeding: SeedingConfig{
			Mode:        "random",
			Mass:        1,
			Radius:      1,
			PositionMin: 1,
			PositionMax: 100,
			VelocityMin: 0,
			VelocityMax: 10,
		},
		Scheduler: SchedulerConfig{
			Parallel: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Mode:   "append",
		},
	}
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	ordered := func(name string, lo, hi float64) {
		if math.IsNaN(lo) || math.IsNaN(hi) || lo < 0 || lo > hi {
			bad("%s: want 0 <= min <= max, got %g..%g", name, lo, hi)
		}
	}

	if c.Simulation.Entities < 0 {
		bad("simulation.entities: must not be negative")
	}
	switch c.Simulation.OutputMode {
	case "truncate", "append":
	default:
		bad("simulation.output_mode: unknown mode %q", c.Simulation.OutputMode)
	}
	if !(c.Physics.DeltaTime > 0) || math.IsInf(c.Physics.DeltaTime, 0) {
		bad("physics.delta_time: must be a positive finite number")
	}

	ordered("limits.acceleration", c.Limits.MinAcceleration, c.Limits.MaxAcceleration)
	ordered("limits.velocity", c.Limits.MinVelocity, c.Limits.MaxVelocity)
	ordered("limits.position", c.Limits.MinPosition, c.Limits.MaxPosition)
	switch c.Limits.Boundary {
	case "bounce", "clamp", "":
	default:
		bad("limits.boundary: unknown mode %q", c.Limits.Boundary)
	}
	ordered("orientation.angular_acceleration", c.Orientation.MinAngularAcceleration, c.Orientation.MaxAngularAcceleration)
	ordered("orientation.angular_velocity", c.Orientation.MinAngularVelocity, c.Orientation.MaxAngularVelocity)
	ordered("collision threshold", c.Collision.MinimumThreshold, c.Collision.MaximumThreshold)
	if c.Splitting.MinimumLifetime > c.Splitting.MaximumLifetime {
		bad("splitting: minimum_lifetime %d exceeds maximum_lifetime %d",
			c.Splitting.MinimumLifetime, c.Splitting.MaximumLifetime)
	}

	switch c.Seeding.Mode {
	case "random":
		ordered("seeding.position", c.Seeding.PositionMin, c.Seeding.PositionMax)
		ordered("seeding.velocity", c.Seeding.VelocityMin, c.Seeding.VelocityMax)
	case "file":
		if c.Seeding.File == "" {
			bad("seeding.file: required when mode is \"file\"")
		}
	case "script":
		if c.Seeding.Script == "" {
			bad("seeding.script: required when mode is \"script\"")
		}
	default:
		bad("seeding.mode: unknown mode %q", c.Seeding.Mode)
	}

	if c.Scheduler.Workers < 0 {
		bad("scheduler.workers: must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		bad("logging.level: %v", err)
	}
	switch c.Logging.Mode {
	case "append", "overwrite", "":
	default:
		bad("logging.mode: unknown mode %q", c.Logging.Mode)
	}
	return errors.Join(errs...)
}
