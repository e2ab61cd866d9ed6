package schedule

import (
	"sort"

	"github.com/napolitain/solver-aoe/internal/graph"
	"github.com/napolitain/solver-aoe/internal/models"
)

// TimelineEntry is one scheduled task
type TimelineEntry struct {
	TaskID string
	Type   models.TaskType
	Action models.ActionCode
	Start  int
	End    int
}

// ExtractTimeline returns the scheduled tasks ordered by start, ties by id.
// Tasks without a plan symbol are kept with an empty Action. A result without
// an assignment yields nil.
func ExtractTimeline(g *graph.TaskGraph, r *Result) []TimelineEntry {
	if r == nil || !r.Status.HasSolution() {
		return nil
	}

	var out []TimelineEntry
	for _, t := range g.Tasks() {
		start, ok := r.Starts[t.ID]
		if !ok {
			continue
		}
		action, _ := models.ActionForTask(t.Type)
		out = append(out, TimelineEntry{
			TaskID: t.ID,
			Type:   t.Type,
			Action: action,
			Start:  start,
			End:    start + t.Duration,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

// ExtractPlan turns a solved schedule into the ordered action list. Task
// types with no plan symbol are dropped.
func ExtractPlan(g *graph.TaskGraph, r *Result) []models.ActionCode {
	var plan []models.ActionCode
	for _, e := range ExtractTimeline(g, r) {
		if e.Action != "" {
			plan = append(plan, e.Action)
		}
	}
	return plan
}
