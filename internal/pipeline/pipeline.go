// Package pipeline wires the planner end to end: template graph, scheduling
// model, scheduling service, plan extraction and simulation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/napolitain/solver-aoe/internal/economy"
	"github.com/napolitain/solver-aoe/internal/graph"
	"github.com/napolitain/solver-aoe/internal/models"
	"github.com/napolitain/solver-aoe/internal/planner"
	"github.com/napolitain/solver-aoe/internal/schedule"
	"github.com/napolitain/solver-aoe/internal/simulator"
)

// Status is the overall outcome of a run
type Status string

const (
	// StatusSimulated means a plan was found and replayed to the end
	StatusSimulated Status = "simulated"
	// StatusDeadlocked means a plan was found but its replay deadlocked
	StatusDeadlocked Status = "deadlocked"
	// StatusNoPlan means the scheduling service returned no solution
	StatusNoPlan Status = "no-plan"
)

// Recorder receives run metrics. It is satisfied by the Prometheus adapter.
type Recorder interface {
	RecordSolve(res *schedule.Result, elapsed time.Duration)
	RecordSimulation(res *simulator.Result, deadlocked bool)
}

// Options configures a Runner
type Options struct {
	Catalogue       models.Catalogue
	Horizon         int // zero uses the catalogue horizon
	IncludeResearch bool
	Params          schedule.Params
	WaitCeiling     int
	Logger          *slog.Logger
	Recorder        Recorder
}

// Run is the record of one planner execution
type Run struct {
	ID         string
	Status     Status
	Graph      *graph.TaskGraph
	Model      *schedule.Model
	Schedule   *schedule.Result
	Plan       []models.ActionCode
	Timeline   []schedule.TimelineEntry
	Simulation *simulator.Result
	// Deadlock is set when Status is StatusDeadlocked
	Deadlock *simulator.DeadlockError
}

// Runner executes the planning pipeline against a scheduling service
type Runner struct {
	svc  schedule.Service
	opts Options
}

// NewRunner creates a runner
func NewRunner(svc schedule.Service, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Horizon <= 0 {
		opts.Horizon = opts.Catalogue.Horizon
	}
	return &Runner{svc: svc, opts: opts}
}

// BuildModel builds the template graph and its scheduling model
func (r *Runner) BuildModel() (*graph.TaskGraph, *schedule.Model, error) {
	g, err := planner.BuildTemplate(r.opts.Catalogue, planner.TemplateOptions{IncludeResearch: r.opts.IncludeResearch})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build template: %w", err)
	}
	m, err := schedule.Encode(g, r.opts.Horizon)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode model: %w", err)
	}
	return g, m, nil
}

// Schedule builds the model and solves it. A run without a solution has
// StatusNoPlan and a nil error.
func (r *Runner) Schedule(ctx context.Context) (*Run, error) {
	run := &Run{ID: uuid.NewString()}
	logger := r.opts.Logger.With("run_id", run.ID)

	g, m, err := r.BuildModel()
	if err != nil {
		return nil, err
	}
	run.Graph, run.Model = g, m

	start := time.Now()
	res, err := r.svc.Solve(ctx, m, r.opts.Params)
	elapsed := time.Since(start)
	if r.opts.Recorder != nil {
		r.opts.Recorder.RecordSolve(res, elapsed)
	}
	if err != nil {
		return nil, fmt.Errorf("scheduling failed: %w", err)
	}
	run.Schedule = res

	logger.Info("schedule solved",
		"status", string(res.Status),
		"makespan", res.Makespan,
		"tasks", g.Len(),
		"elapsed", elapsed)

	if !res.Status.HasSolution() {
		run.Status = StatusNoPlan
		return run, nil
	}
	if err := m.Verify(res); err != nil {
		return nil, fmt.Errorf("scheduling service returned an invalid schedule: %w", err)
	}

	run.Timeline = schedule.ExtractTimeline(g, res)
	run.Plan = schedule.ExtractPlan(g, res)
	return run, nil
}

// Execute schedules and then replays the plan from the initial economy
func (r *Runner) Execute(ctx context.Context) (*Run, error) {
	run, err := r.Schedule(ctx)
	if err != nil || run.Status == StatusNoPlan {
		return run, err
	}

	if err := r.Simulate(run, economy.New(r.opts.Catalogue)); err != nil {
		return nil, err
	}
	return run, nil
}

// Simulate replays run.Plan on state and fills in the simulation fields.
// A deadlock is a run outcome, not an error.
func (r *Runner) Simulate(run *Run, state *economy.State) error {
	logger := r.opts.Logger.With("run_id", run.ID)
	sim := simulator.New(state, r.opts.Catalogue, simulator.Options{
		WaitCeiling: r.opts.WaitCeiling,
		Logger:      logger,
	})

	res, err := sim.Run(run.Plan)
	run.Simulation = res

	var dl *simulator.DeadlockError
	switch {
	case err == nil:
		run.Status = StatusSimulated
	case errors.As(err, &dl):
		run.Status = StatusDeadlocked
		run.Deadlock = dl
	default:
		return fmt.Errorf("simulation failed: %w", err)
	}

	if r.opts.Recorder != nil {
		r.opts.Recorder.RecordSimulation(res, run.Deadlock != nil)
	}
	return nil
}
