// Package economy is the tick-accurate economy model: a single mutable
// State and the handlers that apply plan actions to it.
package economy

import (
	"fmt"

	"github.com/napolitain/solver-aoe/internal/models"
)

// Accumulators hold the fractional income not yet credited to the ledger
type Accumulators struct {
	Food float64
	Wood float64
	Gold float64
}

// State is the complete economy at one tick. It has a single owner; use
// Clone for independent what-if branches.
type State struct {
	cat models.Catalogue

	// Time
	Now int

	Resources  models.Resources
	Age        models.Age
	Population int
	Capacity   int

	Workers    []Worker
	Structures []Structure
	Techs      models.TechFlags

	// Exclusive resource (the production queue workers and ages go through)
	ExclusiveBusy bool
	BusyUntil     int

	Acc Accumulators

	// Counters
	Reassignments      int
	ExclusiveIdleTicks int
	TicksAtCap         int

	// Transition ticks, -1 until reached
	Tier1Tick int
	Tier2Tick int

	// Completed task ids, read by the remaining-time estimator
	Completed map[string]bool

	// RebalanceOnTier1 enables the one-time worker rebalance of the Tier1 transition
	RebalanceOnTier1 bool
}

// New builds the initial state from the catalogue: the starting bank, a
// finished town centre and the initial workers already on food.
func New(cat models.Catalogue) *State {
	s := &State{
		cat:              cat,
		Resources:        cat.InitialResources,
		Age:              models.Tier0,
		Population:       cat.InitialPopulation,
		Capacity:         cat.InitialCapacity,
		Tier1Tick:        -1,
		Tier2Tick:        -1,
		Completed:        make(map[string]bool),
		RebalanceOnTier1: true,
	}

	s.Structures = append(s.Structures, Structure{Type: models.TownCenter, Complete: true})

	for i := 0; i < cat.InitialWorkers; i++ {
		w := Worker{ID: i}
		w.assign(models.Food, 0)
		for j := 0; j < cat.WorkerReadyTicks; j++ {
			w.tick(cat.WorkerReadyTicks)
		}
		s.Workers = append(s.Workers, w)
	}
	return s
}

// Catalogue returns the constants the state was built with
func (s *State) Catalogue() models.Catalogue { return s.cat }

// Clone returns a deep copy. Worker and structure records are copied by
// value so handlers on the copy never touch the original.
func (s *State) Clone() *State {
	c := *s
	c.Workers = append([]Worker(nil), s.Workers...)
	c.Structures = append([]Structure(nil), s.Structures...)
	c.Completed = make(map[string]bool, len(s.Completed))
	for id, done := range s.Completed {
		c.Completed[id] = done
	}
	return &c
}

// CurrentAge returns the current age
func (s *State) CurrentAge() models.Age { return s.Age }

// Banked returns the current ledger
func (s *State) Banked() models.Resources { return s.Resources }

// IsTaskCompleted reports whether a graph task was marked done
func (s *State) IsTaskCompleted(id string) bool { return s.Completed[id] }

// MarkTaskCompleted records a graph task as done
func (s *State) MarkTaskCompleted(id string) { s.Completed[id] = true }

// ReadyWorkerCount returns the number of ready workers
func (s *State) ReadyWorkerCount() int {
	n := 0
	for _, w := range s.Workers {
		if w.Ready {
			n++
		}
	}
	return n
}

// GatheringCount returns how many workers currently produce income
func (s *State) GatheringCount() int {
	n := 0
	for _, w := range s.Workers {
		if w.IsGathering() {
			n++
		}
	}
	return n
}

// Distribution is the number of workers assigned to each resource
type Distribution struct {
	Food int
	Wood int
	Gold int
	Idle int
}

func (d Distribution) String() string {
	return fmt.Sprintf("F:%d W:%d G:%d idle:%d", d.Food, d.Wood, d.Gold, d.Idle)
}

// Get returns the count for one resource
func (d Distribution) Get(rt models.ResourceType) int {
	switch rt {
	case models.Food:
		return d.Food
	case models.Wood:
		return d.Wood
	case models.Gold:
		return d.Gold
	}
	return 0
}

// WorkerDistribution counts assignments over the whole roster
func (s *State) WorkerDistribution() Distribution {
	var d Distribution
	for _, w := range s.Workers {
		switch w.Assignment {
		case models.Food:
			d.Food++
		case models.Wood:
			d.Wood++
		case models.Gold:
			d.Gold++
		default:
			d.Idle++
		}
	}
	return d
}

// HasStructure reports whether any structure of the type exists, finished or not
func (s *State) HasStructure(st models.StructureType) bool {
	for _, b := range s.Structures {
		if b.Type == st {
			return true
		}
	}
	return false
}

// HasCompleteStructure reports whether a finished structure of the type exists
func (s *State) HasCompleteStructure(st models.StructureType) bool {
	return s.CompleteCount(st) > 0
}

// CompleteCount returns how many finished structures match any of the types
func (s *State) CompleteCount(types ...models.StructureType) int {
	n := 0
	for _, b := range s.Structures {
		if !b.Complete {
			continue
		}
		for _, st := range types {
			if b.Type == st {
				n++
				break
			}
		}
	}
	return n
}

// PercentAtCap is the share of elapsed ticks spent at the population cap
func (s *State) PercentAtCap() float64 {
	if s.Now == 0 {
		return 0
	}
	return float64(s.TicksAtCap) * 100 / float64(s.Now)
}

func (s *State) String() string {
	return fmt.Sprintf("State{t=%d age=%s res=%s pop=%d/%d workers=%d structures=%d}",
		s.Now, s.Age, s.Resources, s.Population, s.Capacity, len(s.Workers), len(s.Structures))
}
