package schedule

import (
	"context"
	"time"
)

// Status is the outcome class of a solve
type Status string

const (
	StatusOptimal            Status = "OPTIMAL"
	StatusFeasible           Status = "FEASIBLE"
	StatusInfeasible         Status = "INFEASIBLE"
	StatusTimedOutNoSolution Status = "TIMED_OUT_NO_SOLUTION"
)

// HasSolution reports whether the result carries an assignment
func (s Status) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Params tune a single solve
type Params struct {
	// Timeout bounds the search. Zero means no limit beyond the caller's context.
	Timeout time.Duration
	// Workers is a parallelism hint; implementations may ignore it.
	Workers int
}

// Result is what a scheduling service returns. Starts and Ends are keyed by
// task id and are only populated when Status.HasSolution().
type Result struct {
	Status   Status         `json:"status"`
	Makespan int            `json:"makespan"`
	Starts   map[string]int `json:"starts,omitempty"`
	Ends     map[string]int `json:"ends,omitempty"`
}

// Service solves scheduling models. Infeasible and timed-out outcomes are
// reported through Result.Status; the error is reserved for transport and
// malformed-model failures.
type Service interface {
	Solve(ctx context.Context, m *Model, p Params) (*Result, error)
}
