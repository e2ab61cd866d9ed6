package economy

import (
	"math"

	"github.com/napolitain/solver-aoe/internal/models"
)

// carryDivisor folds fractional carry into the reassignment counter
const carryDivisor = 10

// GatherRates returns the per-worker rates in effect this tick
func (s *State) GatherRates() models.Rates {
	r := s.cat.GatherRates
	if s.Techs.Farming && s.Age != models.Tier0 {
		r.Food *= s.cat.FarmingMultiplier
	}
	if s.Techs.Logging {
		r.Wood *= s.cat.LoggingMultiplier
	}
	return r
}

// Tick advances the economy by one unit of time
func (s *State) Tick() {
	s.Now++
	if s.Population >= s.Capacity {
		s.TicksAtCap++
	}

	rates := s.GatherRates()
	var gathered Accumulators
	for i := range s.Workers {
		w := &s.Workers[i]
		if w.IsGathering() {
			switch w.Assignment {
			case models.Food:
				gathered.Food += rates.Food
			case models.Wood:
				gathered.Wood += rates.Wood
			case models.Gold:
				gathered.Gold += rates.Gold
			}
		}
		w.tick(s.cat.WorkerReadyTicks)
	}

	s.Acc.Food += gathered.Food
	s.Acc.Wood += gathered.Wood
	s.Acc.Gold += gathered.Gold

	food, wood, gold := int(s.Acc.Food), int(s.Acc.Wood), int(s.Acc.Gold)
	s.Acc.Food -= float64(food)
	s.Acc.Wood -= float64(wood)
	s.Acc.Gold -= float64(gold)

	for _, acc := range []*float64{&s.Acc.Food, &s.Acc.Wood, &s.Acc.Gold} {
		s.Reassignments += int(*acc / carryDivisor)
		*acc = math.Mod(*acc, carryDivisor)
	}

	s.Resources.Add(models.Resources{Food: food, Wood: wood, Gold: gold})

	for i := range s.Structures {
		s.Structures[i].tick()
	}

	if s.ExclusiveBusy && s.Now >= s.BusyUntil {
		s.ExclusiveBusy = false
	}
	if !s.ExclusiveBusy {
		s.ExclusiveIdleTicks++
	}
}

// Advance ticks n times
func (s *State) Advance(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}
