package system

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Runner executes systems in dependency order each tick. Systems sharing a
// level have no path between them in the graph and may run concurrently.
type Runner[C any] struct {
	systems    []System[C]
	levels     [][]System[C]
	built      bool
	parallel   bool
	workers    int
	maintainer Maintainer
}

// Option configures a Runner.
type Option func(*runnerOptions)

type runnerOptions struct {
	parallel bool
	workers  int
}

// WithParallel runs independent stages of a level on separate goroutines,
// bounded by workers (0 means no bound).
func WithParallel(workers int) Option {
	return func(o *runnerOptions) {
		o.parallel = true
		o.workers = workers
	}
}

func NewRunner[C any](m Maintainer, opts ...Option) *Runner[C] {
	var o runnerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Runner[C]{
		systems:    make([]System[C], 0, 16),
		parallel:   o.parallel,
		workers:    o.workers,
		maintainer: m,
	}
}

func (r *Runner[C]) Register(s System[C]) {
	r.systems = append(r.systems, s)
	r.built = false
}

// Build validates the graph and groups stages into topological levels.
// Unknown dependencies, duplicate stages and cycles are errors.
func (r *Runner[C]) Build() error {
	byStage := make(map[Stage]System[C], len(r.systems))
	for _, s := range r.systems {
		if _, dup := byStage[s.Stage()]; dup {
			return fmt.Errorf("duplicate stage %q", s.Stage())
		}
		byStage[s.Stage()] = s
	}

	indegree := make(map[Stage]int, len(r.systems))
	dependents := make(map[Stage][]Stage, len(r.systems))
	for _, s := range r.systems {
		indegree[s.Stage()] = 0
	}
	for _, s := range r.systems {
		for _, dep := range s.After() {
			if _, ok := byStage[dep]; !ok {
				return fmt.Errorf("stage %q depends on unknown stage %q", s.Stage(), dep)
			}
			indegree[s.Stage()]++
			dependents[dep] = append(dependents[dep], s.Stage())
		}
	}

	var levels [][]System[C]
	var ready []Stage
	for st, n := range indegree {
		if n == 0 {
			ready = append(ready, st)
		}
	}
	placed := 0
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		level := make([]System[C], 0, len(ready))
		var next []Stage
		for _, st := range ready {
			level = append(level, byStage[st])
			for _, d := range dependents[st] {
				indegree[d]--
				if indegree[d] == 0 {
					next = append(next, d)
				}
			}
		}
		levels = append(levels, level)
		placed += len(level)
		ready = next
	}
	if placed != len(r.systems) {
		var stuck []string
		for st, n := range indegree {
			if n > 0 {
				stuck = append(stuck, string(st))
			}
		}
		sort.Strings(stuck)
		return fmt.Errorf("dependency cycle among stages %v", stuck)
	}

	r.levels = levels
	r.built = true
	return nil
}

// Levels returns the stage names grouped by level, building the graph if needed.
func (r *Runner[C]) Levels() ([][]Stage, error) {
	if err := r.ensureBuilt(); err != nil {
		return nil, err
	}
	out := make([][]Stage, len(r.levels))
	for i, level := range r.levels {
		for _, s := range level {
			out[i] = append(out[i], s.Stage())
		}
	}
	return out, nil
}

// Tick runs every stage once, level by level, then applies the maintainer.
// The first stage error aborts the tick before Maintain.
func (r *Runner[C]) Tick(ctx *C) error {
	if err := r.ensureBuilt(); err != nil {
		return err
	}
	for _, level := range r.levels {
		if err := r.runLevel(level, ctx); err != nil {
			return err
		}
	}
	if r.maintainer != nil {
		if err := r.maintainer.Maintain(); err != nil {
			return fmt.Errorf("maintain: %w", err)
		}
	}
	return nil
}

func (r *Runner[C]) runLevel(level []System[C], ctx *C) error {
	if !r.parallel || len(level) == 1 {
		for _, s := range level {
			if err := s.Update(ctx); err != nil {
				return fmt.Errorf("stage %s: %w", s.Stage(), err)
			}
		}
		return nil
	}
	var g errgroup.Group
	if r.workers > 0 {
		g.SetLimit(r.workers)
	}
	for _, s := range level {
		s := s
		g.Go(func() error {
			if err := s.Update(ctx); err != nil {
				return fmt.Errorf("stage %s: %w", s.Stage(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner[C]) ensureBuilt() error {
	if r.built {
		return nil
	}
	return r.Build()
}
