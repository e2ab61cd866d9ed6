package schedule

import (
	"errors"
	"testing"

	"github.com/napolitain/solver-aoe/internal/graph"
	"github.com/napolitain/solver-aoe/internal/models"
)

func smallGraph(t *testing.T) *graph.TaskGraph {
	t.Helper()
	g := graph.New()
	g.MustAddTask(graph.Task{ID: "worker_1", Type: models.TaskCreateWorker, Duration: 25, Exclusive: true})
	g.MustAddTask(graph.Task{ID: "worker_2", Type: models.TaskCreateWorker, Duration: 25, Exclusive: true,
		Predecessors: []string{"worker_1"}})
	g.MustAddTask(graph.Task{ID: "house_1", Type: models.TaskBuildHouse, Duration: 25,
		Predecessors: []string{"worker_1"}})
	g.MustAddTask(graph.Task{ID: "loom", Type: models.TaskResearchLoom, Duration: 25})
	return g
}

func TestEncode(t *testing.T) {
	m, err := Encode(smallGraph(t), 100)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if m.Horizon != 100 || m.Objective != ObjectiveMinimizeMakespan {
		t.Errorf("unexpected header: %+v", m)
	}
	if len(m.Intervals) != 4 {
		t.Fatalf("intervals = %d, want 4", len(m.Intervals))
	}
	iv, ok := m.Interval("house_1")
	if !ok || iv.Start != "house_1_start" || iv.End != "house_1_end" || iv.Duration != 25 {
		t.Errorf("house_1 interval = %+v", iv)
	}
	if len(m.Precedences) != 2 {
		t.Errorf("precedences = %v", m.Precedences)
	}
	if len(m.NoOverlap) != 2 || m.NoOverlap[0] != "worker_1" || m.NoOverlap[1] != "worker_2" {
		t.Errorf("no-overlap set = %v", m.NoOverlap)
	}
}

func TestEncode_RejectsBadInput(t *testing.T) {
	if _, err := Encode(smallGraph(t), 0); err == nil {
		t.Error("expected error for zero horizon")
	}

	g := graph.New()
	g.MustAddTask(graph.Task{ID: "a", Predecessors: []string{"missing"}})
	_, err := Encode(g, 10)
	if !errors.Is(err, graph.ErrDanglingPredecessor) {
		t.Errorf("expected ErrDanglingPredecessor, got %v", err)
	}
}

func TestExtractPlan(t *testing.T) {
	g := smallGraph(t)
	r := &Result{
		Status:   StatusOptimal,
		Makespan: 50,
		Starts:   map[string]int{"worker_1": 0, "worker_2": 25, "house_1": 25, "loom": 0},
	}

	plan := ExtractPlan(g, r)
	want := []models.ActionCode{
		models.ActionCreateWorker, // worker_1 at 0 (loom at 0 has no symbol)
		models.ActionBuildHouse,   // house_1 at 25 sorts before worker_2
		models.ActionCreateWorker,
	}
	if len(plan) != len(want) {
		t.Fatalf("plan = %v, want %v", plan, want)
	}
	for i := range want {
		if plan[i] != want[i] {
			t.Errorf("plan[%d] = %s, want %s", i, plan[i], want[i])
		}
	}

	timeline := ExtractTimeline(g, r)
	if len(timeline) != 4 || timeline[0].TaskID != "loom" || timeline[0].Action != "" {
		t.Errorf("timeline = %+v", timeline)
	}
	if timeline[3].End != 50 {
		t.Errorf("last entry end = %d, want 50", timeline[3].End)
	}
}

func TestExtractPlan_NoSolution(t *testing.T) {
	g := smallGraph(t)
	for _, s := range []Status{StatusInfeasible, StatusTimedOutNoSolution} {
		if plan := ExtractPlan(g, &Result{Status: s}); len(plan) != 0 {
			t.Errorf("%s: expected empty plan, got %v", s, plan)
		}
	}
	if plan := ExtractPlan(g, nil); plan != nil {
		t.Errorf("nil result: expected nil plan, got %v", plan)
	}
}

func TestVerify(t *testing.T) {
	m, err := Encode(smallGraph(t), 60)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	tests := []struct {
		name   string
		starts map[string]int
		span   int
		ok     bool
	}{
		{"valid", map[string]int{"worker_1": 0, "worker_2": 25, "house_1": 25, "loom": 0}, 50, true},
		{"precedence broken", map[string]int{"worker_1": 0, "worker_2": 25, "house_1": 10, "loom": 0}, 50, false},
		{"exclusive overlap", map[string]int{"worker_1": 0, "worker_2": 20, "house_1": 25, "loom": 0}, 50, false},
		{"past horizon", map[string]int{"worker_1": 0, "worker_2": 40, "house_1": 25, "loom": 0}, 65, false},
		{"wrong makespan", map[string]int{"worker_1": 0, "worker_2": 25, "house_1": 25, "loom": 0}, 40, false},
		{"missing task", map[string]int{"worker_1": 0, "worker_2": 25, "house_1": 25}, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Verify(&Result{Status: StatusFeasible, Starts: tt.starts, Makespan: tt.span})
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected a violation")
			}
		})
	}

	if err := m.Verify(&Result{Status: StatusInfeasible}); err == nil {
		t.Error("expected error for result without assignment")
	}
}
