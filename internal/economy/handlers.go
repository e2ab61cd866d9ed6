package economy

import (
	"slices"

	"github.com/napolitain/solver-aoe/internal/models"
)

// CheckCreateWorker reports whether CreateWorker would apply
func (s *State) CheckCreateWorker() Outcome {
	switch {
	case s.ExclusiveBusy:
		return Skipped(SkipExclusiveBusy)
	case s.Population >= s.Capacity:
		return Skipped(SkipPopulationCap)
	case !s.Resources.HasEnough(s.cat.WorkerCost):
		return Skipped(SkipInsufficientResources)
	}
	return Applied
}

// CreateWorker queues a new worker on the exclusive resource and sends it to
// the resource picked by the age's target split.
func (s *State) CreateWorker() Outcome {
	if o := s.CheckCreateWorker(); !o.OK() {
		return o
	}

	s.Resources.Sub(s.cat.WorkerCost)
	target, assign := s.newWorkerTarget()
	w := Worker{ID: len(s.Workers)}
	if assign {
		w.assign(target, s.cat.WorkerTravelTicks)
		s.Reassignments++
	}
	s.Workers = append(s.Workers, w)
	s.Population++

	s.ExclusiveBusy = true
	s.BusyUntil = s.Now + s.cat.WorkerQueueTicks
	return Applied
}

// newWorkerTarget picks the resource for a new worker. Tier2 workers stay idle.
func (s *State) newWorkerTarget() (models.ResourceType, bool) {
	d := s.WorkerDistribution()
	switch s.Age {
	case models.Tier0:
		split := s.cat.Tier0Split
		switch {
		case d.Food < split.Food:
			return models.Food, true
		case d.Wood < split.Wood:
			return models.Wood, true
		default:
			return models.Food, true
		}
	case models.Tier1:
		split := s.cat.Tier1Split
		switch {
		case d.Food < split.Food:
			return models.Food, true
		case d.Gold < split.Gold:
			return models.Gold, true
		case d.Wood < split.Wood:
			return models.Wood, true
		case d.Food >= d.Gold:
			return models.Gold, true
		default:
			return models.Food, true
		}
	}
	return "", false
}

// CheckBuildStructure reports whether BuildStructure would apply
func (s *State) CheckBuildStructure(st models.StructureType) Outcome {
	spec, ok := s.cat.Structures[st]
	if !ok || st == models.TownCenter {
		return Skipped(SkipNotBuildable)
	}
	if !buildableIn(st, s.Age) {
		return Skipped(SkipWrongAge)
	}
	if !s.Resources.HasEnough(spec.Cost) {
		return Skipped(SkipInsufficientResources)
	}
	return Applied
}

// BuildableIn reports whether st is a constructible structure type and the
// age gating allows it in age
func BuildableIn(st models.StructureType, age models.Age) bool {
	if st == models.TownCenter || !slices.Contains(models.AllStructureTypes(), st) {
		return false
	}
	return buildableIn(st, age)
}

func buildableIn(st models.StructureType, age models.Age) bool {
	switch st {
	case models.Mill, models.LumberCamp:
		return age == models.Tier0
	case models.Market, models.Blacksmith:
		return age == models.Tier1
	}
	return true
}

// BuildStructure pays for and starts a structure. Capacity bonuses apply at
// construction start.
func (s *State) BuildStructure(st models.StructureType) Outcome {
	if o := s.CheckBuildStructure(st); !o.OK() {
		return o
	}

	spec := s.cat.Structure(st)
	s.Resources.Sub(spec.Cost)
	s.Structures = append(s.Structures, Structure{
		Type:      st,
		Remaining: spec.BuildTime,
		Complete:  spec.BuildTime == 0,
	})
	s.Capacity += spec.CapacityBonus
	return Applied
}

// CheckAdvanceAge reports whether AdvanceAge would apply
func (s *State) CheckAdvanceAge(target models.Age) Outcome {
	prev, ok := target.Previous()
	if !ok || s.Age != prev {
		return Skipped(SkipWrongAge)
	}
	if !s.hasAgePrerequisites(target) {
		return Skipped(SkipMissingPrerequisite)
	}
	spec, _ := s.cat.AgeTransition(target)
	if !s.Resources.HasEnough(spec.Cost) {
		return Skipped(SkipInsufficientResources)
	}
	return Applied
}

func (s *State) hasAgePrerequisites(target models.Age) bool {
	switch target {
	case models.Tier1:
		return s.CompleteCount(models.Mill, models.LumberCamp) >= s.cat.Tier1EconomyStructures
	case models.Tier2:
		return s.HasCompleteStructure(models.Market) && s.HasCompleteStructure(models.Blacksmith)
	}
	return false
}

// AdvanceAge pays for and enters the next age. Entering Tier1 also
// rebalances the workforce once.
func (s *State) AdvanceAge(target models.Age) Outcome {
	if o := s.CheckAdvanceAge(target); !o.OK() {
		return o
	}

	spec, _ := s.cat.AgeTransition(target)
	s.Resources.Sub(spec.Cost)
	s.Age = target
	switch target {
	case models.Tier1:
		s.Tier1Tick = s.Now
		if s.RebalanceOnTier1 {
			s.rebalance()
		}
	case models.Tier2:
		s.Tier2Tick = s.Now
	}
	return Applied
}

// CheckResearch reports whether Research would apply
func (s *State) CheckResearch(tech models.TechName) Outcome {
	spec, ok := s.cat.Techs[tech]
	if !ok {
		return Skipped(SkipUnknownTech)
	}
	if s.Techs.Get(tech) {
		return Skipped(SkipAlreadyResearched)
	}

	switch tech {
	case models.TechFarming, models.TechLogging:
		if s.Age != models.Tier1 {
			return Skipped(SkipWrongAge)
		}
		if !s.HasCompleteStructure(ResearchStructure(tech)) {
			return Skipped(SkipMissingPrerequisite)
		}
	case models.TechLoom:
		if s.ExclusiveBusy {
			return Skipped(SkipExclusiveBusy)
		}
	}

	if !s.Resources.HasEnough(spec.Cost) {
		return Skipped(SkipInsufficientResources)
	}
	return Applied
}

// ResearchStructure returns the structure a technology is researched at
func ResearchStructure(tech models.TechName) models.StructureType {
	switch tech {
	case models.TechFarming:
		return models.Mill
	case models.TechLogging:
		return models.LumberCamp
	}
	return models.TownCenter
}

// Research pays for a technology and sets its flag. Loom marks the exclusive
// resource busy without scheduling a release; the next tick clears it again.
func (s *State) Research(tech models.TechName) Outcome {
	if o := s.CheckResearch(tech); !o.OK() {
		return o
	}

	s.Resources.Sub(s.cat.Tech(tech).Cost)
	s.Techs.Set(tech, true)
	if tech == models.TechLoom {
		s.ExclusiveBusy = true
	}
	return Applied
}

// ReassignWorker moves a worker to another resource
func (s *State) ReassignWorker(id int, rt models.ResourceType) Outcome {
	if id < 0 || id >= len(s.Workers) {
		return Skipped(SkipUnknownWorker)
	}
	s.Workers[id].assign(rt, s.cat.WorkerTravelTicks)
	s.Reassignments++
	return Applied
}

// AssignIdleWorker sends the first ready idle worker to rt. It does not count
// as a reassignment.
func (s *State) AssignIdleWorker(rt models.ResourceType) Outcome {
	for i := range s.Workers {
		w := &s.Workers[i]
		if w.Ready && w.Assignment == "" {
			w.assign(rt, s.cat.WorkerTravelTicks)
			return Applied
		}
	}
	return Skipped(SkipNoIdleWorker)
}
