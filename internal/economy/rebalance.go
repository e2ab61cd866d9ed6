package economy

import "github.com/napolitain/solver-aoe/internal/models"

// rebalance moves ready workers toward the Tier1 targets. Gold is filled
// first, pulling from food surplus, then wood surplus, then food down to the
// floor; afterwards wood above target goes back to food. The order is fixed
// and may stop short of the targets.
func (s *State) rebalance() {
	tgt := s.cat.RebalanceTargets

	for s.WorkerDistribution().Gold < tgt.Gold {
		d := s.WorkerDistribution()
		moved := false
		if d.Food > tgt.Food {
			moved = s.moveFirstReady(models.Food, models.Gold)
		}
		if !moved && d.Wood > tgt.Wood {
			moved = s.moveFirstReady(models.Wood, models.Gold)
		}
		if !moved && d.Food > s.cat.RebalanceFoodFloor {
			moved = s.moveFirstReady(models.Food, models.Gold)
		}
		if !moved {
			break
		}
	}

	for s.WorkerDistribution().Wood > tgt.Wood {
		if !s.moveFirstReady(models.Wood, models.Food) {
			break
		}
	}
}

// moveFirstReady reassigns the first ready worker in roster order from one
// resource to another
func (s *State) moveFirstReady(from, to models.ResourceType) bool {
	for i := range s.Workers {
		w := &s.Workers[i]
		if w.Ready && w.Assignment == from {
			w.assign(to, s.cat.WorkerTravelTicks)
			s.Reassignments++
			return true
		}
	}
	return false
}
