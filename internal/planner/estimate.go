package planner

import (
	"math"

	"github.com/napolitain/solver-aoe/internal/graph"
	"github.com/napolitain/solver-aoe/internal/models"
)

// Snapshot is the read-only view of a game state the estimator needs
type Snapshot interface {
	CurrentAge() models.Age
	IsTaskCompleted(id string) bool
	Banked() models.Resources
	ReadyWorkerCount() int
}

// EstimateRemaining returns a lower-bound style estimate of the ticks left
// until Tier2: the critical path over incomplete tasks plus the time needed
// to gather what those tasks cost beyond the bank.
func EstimateRemaining(s Snapshot, g *graph.TaskGraph, cat models.Catalogue) float64 {
	if s.CurrentAge() >= models.Tier2 {
		return 0
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		// Invalid graphs are rejected upstream; there is nothing to estimate.
		return 0
	}

	finish := make(map[string]int)
	var remaining []graph.Task
	criticalPath := 0
	for _, t := range order {
		if s.IsTaskCompleted(t.ID) {
			continue
		}
		start := 0
		for _, p := range t.Predecessors {
			if ef, ok := finish[p]; ok && ef > start {
				start = ef
			}
		}
		finish[t.ID] = start + t.Duration
		if finish[t.ID] > criticalPath {
			criticalPath = finish[t.ID]
		}
		remaining = append(remaining, t)
	}
	if len(remaining) == 0 {
		return 0
	}

	return float64(criticalPath) + gatheringDelay(s, remaining, cat)
}

func gatheringDelay(s Snapshot, tasks []graph.Task, cat models.Catalogue) float64 {
	ready := s.ReadyWorkerCount()
	if ready == 0 {
		return 0
	}

	var needed models.Resources
	for _, t := range tasks {
		needed.Add(t.Cost)
	}
	banked := s.Banked()

	delay := 0.0
	for _, rt := range models.AllResourceTypes() {
		deficit := max(0, needed.Get(rt)-banked.Get(rt))
		perTick := float64(ready) * cat.EstimatorCapacity.Get(rt) / 3.0
		delay = math.Max(delay, float64(deficit)/perTick)
	}
	return delay
}
