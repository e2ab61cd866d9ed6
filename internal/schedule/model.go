// Package schedule encodes a task graph as a constraint scheduling model and
// defines the contract of the service that solves it.
package schedule

import (
	"fmt"

	"github.com/napolitain/solver-aoe/internal/graph"
)

// ObjectiveMinimizeMakespan minimises the latest end over all tasks
const ObjectiveMinimizeMakespan = "minimize_makespan"

// Interval is one task's start/end variable pair. Both variables range over
// [0, horizon] and End = Start + Duration.
type Interval struct {
	TaskID   string `json:"task_id"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration int    `json:"duration"`
}

// Precedence requires start(After) >= end(Before)
type Precedence struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Model is a solver-neutral scheduling model. It carries only what the
// service needs: variables, precedence edges, the single no-overlap set and
// the objective. Resource sufficiency is not part of it.
type Model struct {
	Horizon     int          `json:"horizon"`
	Intervals   []Interval   `json:"intervals"`
	Precedences []Precedence `json:"precedences"`
	NoOverlap   []string     `json:"no_overlap"`
	Objective   string       `json:"objective"`
}

// Encode turns a validated graph into a scheduling model. Intervals are
// emitted in id order and precedences in (after, before) order.
func Encode(g *graph.TaskGraph, horizon int) (*Model, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("cannot encode graph: %w", err)
	}

	m := &Model{Horizon: horizon, Objective: ObjectiveMinimizeMakespan}
	for _, t := range g.Tasks() {
		m.Intervals = append(m.Intervals, Interval{
			TaskID:   t.ID,
			Start:    t.ID + "_start",
			End:      t.ID + "_end",
			Duration: t.Duration,
		})
		for _, p := range t.Predecessors {
			m.Precedences = append(m.Precedences, Precedence{Before: p, After: t.ID})
		}
		if t.Exclusive {
			m.NoOverlap = append(m.NoOverlap, t.ID)
		}
	}
	return m, nil
}

// Interval returns the interval of a task
func (m *Model) Interval(taskID string) (Interval, bool) {
	for _, iv := range m.Intervals {
		if iv.TaskID == taskID {
			return iv, true
		}
	}
	return Interval{}, false
}

// Verify checks that an assignment satisfies every constraint of the model.
// It is used by tests and by callers that receive results from a remote
// service.
func (m *Model) Verify(r *Result) error {
	if !r.Status.HasSolution() {
		return fmt.Errorf("result has no assignment (status %s)", r.Status)
	}

	ends := make(map[string]int, len(m.Intervals))
	makespan := 0
	for _, iv := range m.Intervals {
		start, ok := r.Starts[iv.TaskID]
		if !ok {
			return fmt.Errorf("task %s has no start", iv.TaskID)
		}
		end := start + iv.Duration
		if start < 0 || end > m.Horizon {
			return fmt.Errorf("task %s [%d,%d] outside [0,%d]", iv.TaskID, start, end, m.Horizon)
		}
		if e, ok := r.Ends[iv.TaskID]; ok && e != end {
			return fmt.Errorf("task %s end %d != start %d + duration %d", iv.TaskID, e, start, iv.Duration)
		}
		ends[iv.TaskID] = end
		makespan = max(makespan, end)
	}

	for _, p := range m.Precedences {
		if r.Starts[p.After] < ends[p.Before] {
			return fmt.Errorf("%s starts at %d before %s ends at %d",
				p.After, r.Starts[p.After], p.Before, ends[p.Before])
		}
	}

	for i, a := range m.NoOverlap {
		for _, b := range m.NoOverlap[i+1:] {
			if r.Starts[a] < ends[b] && r.Starts[b] < ends[a] {
				return fmt.Errorf("exclusive tasks %s and %s overlap", a, b)
			}
		}
	}

	if r.Makespan != makespan {
		return fmt.Errorf("makespan %d does not match assignment %d", r.Makespan, makespan)
	}
	return nil
}
