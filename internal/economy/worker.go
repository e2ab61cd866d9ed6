package economy

import "github.com/napolitain/solver-aoe/internal/models"

// Worker is a single gatherer. Assignment is empty while idle.
type Worker struct {
	ID              int
	Ready           bool
	CreationAge     int
	Assignment      models.ResourceType
	TravelRemaining int
}

// IsGathering reports whether the worker contributes to income this tick
func (w Worker) IsGathering() bool {
	return w.Ready && w.Assignment != "" && w.TravelRemaining == 0
}

func (w *Worker) assign(rt models.ResourceType, travel int) {
	w.Assignment = rt
	w.TravelRemaining = travel
}

// tick ages the worker until it is ready and counts down any travel
func (w *Worker) tick(readyTicks int) {
	if !w.Ready {
		w.CreationAge++
		if w.CreationAge >= readyTicks {
			w.Ready = true
		}
	}
	if w.TravelRemaining > 0 {
		w.TravelRemaining--
	}
}

// Structure is a building, complete or under construction
type Structure struct {
	Type      models.StructureType
	Remaining int
	Complete  bool
}

func (s *Structure) tick() {
	if !s.Complete && s.Remaining > 0 {
		s.Remaining--
		if s.Remaining == 0 {
			s.Complete = true
		}
	}
}
