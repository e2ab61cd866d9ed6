// Package planner builds the build-order precedence graph and estimates the
// remaining time to the final age from a game snapshot.
package planner

import (
	"fmt"

	"github.com/napolitain/solver-aoe/internal/graph"
	"github.com/napolitain/solver-aoe/internal/models"
)

// Task ids of the fixed template
const (
	IDMill            = "mill"
	IDLumberCamp      = "lumber_camp"
	IDAdvanceTier1    = "advance_tier1"
	IDMarket          = "market"
	IDBlacksmith      = "blacksmith"
	IDAdvanceTier2    = "advance_tier2"
	IDResearchFarming = "research_farming"
	IDResearchLogging = "research_logging"
)

// WorkerID returns the id of the n-th worker task (1-based)
func WorkerID(n int) string { return fmt.Sprintf("worker_%d", n) }

// HouseID returns the id of the n-th house task (1-based)
func HouseID(n int) string { return fmt.Sprintf("house_%d", n) }

// TemplateOptions toggles optional parts of the template
type TemplateOptions struct {
	IncludeResearch bool
}

// BuildTemplate produces the fixed build-order graph from the catalogue:
// a chain of exclusive worker tasks, houses and economy structures pinned to
// positions in that chain, then the two age transitions with the structures
// that gate the second one.
func BuildTemplate(cat models.Catalogue, opts TemplateOptions) (*graph.TaskGraph, error) {
	g := graph.New()
	tpl := cat.Template

	add := func(t graph.Task) error {
		if err := g.AddTask(t); err != nil {
			return fmt.Errorf("failed to add task %s: %w", t.ID, err)
		}
		return nil
	}

	for i := 1; i <= tpl.Workers; i++ {
		t := graph.Task{
			ID:        WorkerID(i),
			Type:      models.TaskCreateWorker,
			Duration:  cat.WorkerQueueTicks,
			Cost:      cat.WorkerCost,
			Exclusive: true,
		}
		if i > 1 {
			t.Predecessors = []string{WorkerID(i - 1)}
		}
		if err := add(t); err != nil {
			return nil, err
		}
	}

	house := cat.Structure(models.House)
	for i, after := range tpl.HousesAfter {
		if err := add(graph.Task{
			ID:           HouseID(i + 1),
			Type:         models.TaskBuildHouse,
			Duration:     house.BuildTime,
			Cost:         house.Cost,
			Predecessors: []string{WorkerID(after)},
		}); err != nil {
			return nil, err
		}
	}

	for _, eco := range []struct {
		id string
		tt models.TaskType
		st models.StructureType
	}{
		{IDMill, models.TaskBuildMill, models.Mill},
		{IDLumberCamp, models.TaskBuildLumberCamp, models.LumberCamp},
	} {
		spec := cat.Structure(eco.st)
		if err := add(graph.Task{
			ID:           eco.id,
			Type:         eco.tt,
			Duration:     spec.BuildTime,
			Cost:         spec.Cost,
			Predecessors: []string{WorkerID(tpl.EconomyAfter)},
		}); err != nil {
			return nil, err
		}
	}

	if err := add(graph.Task{
		ID:           IDAdvanceTier1,
		Type:         models.TaskAdvanceTier1,
		Duration:     cat.Tier1.Duration,
		Cost:         cat.Tier1.Cost,
		Predecessors: []string{IDMill, IDLumberCamp, WorkerID(tpl.Tier1AfterWorker)},
		Exclusive:    true,
	}); err != nil {
		return nil, err
	}

	for _, st := range []struct {
		id string
		tt models.TaskType
		st models.StructureType
	}{
		{IDMarket, models.TaskBuildMarket, models.Market},
		{IDBlacksmith, models.TaskBuildBlacksmith, models.Blacksmith},
	} {
		spec := cat.Structure(st.st)
		if err := add(graph.Task{
			ID:           st.id,
			Type:         st.tt,
			Duration:     spec.BuildTime,
			Cost:         spec.Cost,
			Predecessors: []string{IDAdvanceTier1},
		}); err != nil {
			return nil, err
		}
	}

	if err := add(graph.Task{
		ID:           IDAdvanceTier2,
		Type:         models.TaskAdvanceTier2,
		Duration:     cat.Tier2.Duration,
		Cost:         cat.Tier2.Cost,
		Predecessors: []string{IDMarket, IDBlacksmith, WorkerID(tpl.Tier2AfterWorker)},
		Exclusive:    true,
	}); err != nil {
		return nil, err
	}

	if opts.IncludeResearch {
		for _, r := range []struct {
			id   string
			tt   models.TaskType
			tech models.TechName
			gate string
		}{
			{IDResearchFarming, models.TaskResearchFarming, models.TechFarming, IDMill},
			{IDResearchLogging, models.TaskResearchLogging, models.TechLogging, IDLumberCamp},
		} {
			spec := cat.Tech(r.tech)
			if err := add(graph.Task{
				ID:           r.id,
				Type:         r.tt,
				Duration:     spec.Duration,
				Cost:         spec.Cost,
				Predecessors: []string{IDAdvanceTier1, r.gate, WorkerID(tpl.ResearchAfterWorker)},
			}); err != nil {
				return nil, err
			}
		}
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("template graph is invalid: %w", err)
	}
	return g, nil
}
