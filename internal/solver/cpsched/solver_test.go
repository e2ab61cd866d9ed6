package cpsched

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/napolitain/solver-aoe/internal/models"
	"github.com/napolitain/solver-aoe/internal/planner"
	"github.com/napolitain/solver-aoe/internal/schedule"
)

func templateModel(t testing.TB, horizon int, research bool) *schedule.Model {
	t.Helper()
	g, err := planner.BuildTemplate(models.DefaultCatalogue(), planner.TemplateOptions{IncludeResearch: research})
	if err != nil {
		t.Fatalf("BuildTemplate: %v", err)
	}
	m, err := schedule.Encode(g, horizon)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return m
}

func TestSolve_Template(t *testing.T) {
	for _, research := range []bool{false, true} {
		m := templateModel(t, 1200, research)
		res, err := New(nil).Solve(context.Background(), m, schedule.Params{Timeout: 10 * time.Second})
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if res.Status != schedule.StatusOptimal {
			t.Fatalf("status = %s, want OPTIMAL", res.Status)
		}
		// Ten workers, the tier1 transition, then the last three workers
		// overlap the tier1 structures: 250 + 130 + 75 + 160.
		if res.Makespan != 615 {
			t.Errorf("makespan = %d, want 615", res.Makespan)
		}
		if res.Starts[planner.IDAdvanceTier1] != 250 {
			t.Errorf("advance_tier1 starts at %d, want 250", res.Starts[planner.IDAdvanceTier1])
		}
		if err := m.Verify(res); err != nil {
			t.Errorf("assignment violates model: %v", err)
		}
	}
}

func TestSolve_HorizonBoundary(t *testing.T) {
	tests := []struct {
		horizon int
		want    schedule.Status
	}{
		{615, schedule.StatusOptimal},
		{614, schedule.StatusInfeasible},
		{300, schedule.StatusInfeasible},
	}

	for _, tt := range tests {
		res, err := New(nil).Solve(context.Background(), templateModel(t, tt.horizon, false), schedule.Params{})
		if err != nil {
			t.Fatalf("Solve(h=%d): %v", tt.horizon, err)
		}
		if res.Status != tt.want {
			t.Errorf("horizon %d: status = %s, want %s", tt.horizon, res.Status, tt.want)
		}
		if !res.Status.HasSolution() && len(res.Starts) != 0 {
			t.Errorf("horizon %d: infeasible result carries starts", tt.horizon)
		}
	}
}

func TestSolve_ExclusiveOnly(t *testing.T) {
	m := &schedule.Model{
		Horizon: 100,
		Intervals: []schedule.Interval{
			{TaskID: "a", Duration: 10},
			{TaskID: "b", Duration: 20},
			{TaskID: "c", Duration: 30},
		},
		NoOverlap: []string{"a", "b", "c"},
		Objective: schedule.ObjectiveMinimizeMakespan,
	}
	res, err := New(nil).Solve(context.Background(), m, schedule.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != schedule.StatusOptimal || res.Makespan != 60 {
		t.Fatalf("got %s/%d, want OPTIMAL/60", res.Status, res.Makespan)
	}
	if err := m.Verify(res); err != nil {
		t.Errorf("assignment violates model: %v", err)
	}
}

func TestSolve_NonExclusiveRunsInParallel(t *testing.T) {
	m := &schedule.Model{
		Horizon: 100,
		Intervals: []schedule.Interval{
			{TaskID: "root", Duration: 5},
			{TaskID: "x", Duration: 40},
			{TaskID: "y", Duration: 30},
		},
		Precedences: []schedule.Precedence{{Before: "root", After: "x"}, {Before: "root", After: "y"}},
	}
	res, err := New(nil).Solve(context.Background(), m, schedule.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Makespan != 45 || res.Starts["x"] != 5 || res.Starts["y"] != 5 {
		t.Errorf("unexpected schedule: %+v", res)
	}
}

func TestSolve_Cycle(t *testing.T) {
	m := &schedule.Model{
		Horizon:   100,
		Intervals: []schedule.Interval{{TaskID: "a", Duration: 1}, {TaskID: "b", Duration: 1}},
		Precedences: []schedule.Precedence{
			{Before: "a", After: "b"},
			{Before: "b", After: "a"},
		},
	}
	res, err := New(nil).Solve(context.Background(), m, schedule.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != schedule.StatusInfeasible {
		t.Errorf("status = %s, want INFEASIBLE", res.Status)
	}
}

func TestSolve_MalformedModel(t *testing.T) {
	tests := []struct {
		name string
		m    *schedule.Model
	}{
		{"nil", nil},
		{"unknown precedence", &schedule.Model{
			Horizon:     10,
			Intervals:   []schedule.Interval{{TaskID: "a", Duration: 1}},
			Precedences: []schedule.Precedence{{Before: "ghost", After: "a"}},
		}},
		{"unknown no-overlap", &schedule.Model{
			Horizon:   10,
			Intervals: []schedule.Interval{{TaskID: "a", Duration: 1}},
			NoOverlap: []string{"ghost"},
		}},
		{"duplicate interval", &schedule.Model{
			Horizon:   10,
			Intervals: []schedule.Interval{{TaskID: "a", Duration: 1}, {TaskID: "a", Duration: 2}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(nil).Solve(context.Background(), tt.m, schedule.Params{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(nil).Solve(ctx, templateModel(t, 1200, false), schedule.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != schedule.StatusTimedOutNoSolution {
		t.Errorf("status = %s, want TIMED_OUT_NO_SOLUTION", res.Status)
	}
}

func TestSolve_Deterministic(t *testing.T) {
	m := templateModel(t, 1200, true)
	first, err := New(nil).Solve(context.Background(), m, schedule.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := New(nil).Solve(context.Background(), m, schedule.Params{Workers: 8})
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from the first", i)
		}
	}
}

func TestReadyQueue_OrdersByID(t *testing.T) {
	ids := []string{"c", "a", "b"}
	q := newReadyQueue(ids)
	q.Push(0)
	q.Push(2)
	q.Push(1)

	var got []string
	for !q.Empty() {
		got = append(got, ids[q.Pop()])
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("order = %v", got)
	}
	if q.Pop() != -1 {
		t.Error("Pop on empty queue should return -1")
	}
}

func BenchmarkSolveTemplate(b *testing.B) {
	m := templateModel(b, 1200, true)
	svc := New(nil)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Solve(ctx, m, schedule.Params{}); err != nil {
			b.Fatal(err)
		}
	}
}
