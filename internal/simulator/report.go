package simulator

import (
	"github.com/napolitain/solver-aoe/internal/economy"
	"github.com/napolitain/solver-aoe/internal/models"
)

// Report is a read-only projection of a finished (or aborted) run
type Report struct {
	TotalTicks         int                  `json:"total_ticks"`
	Tier1Tick          int                  `json:"tier1_tick"`
	Tier2Tick          int                  `json:"tier2_tick"`
	ExclusiveIdleTicks int                  `json:"exclusive_idle_ticks"`
	Reassignments      int                  `json:"reassignments"`
	PercentAtCap       float64              `json:"percent_at_cap"`
	FinalAge           models.Age           `json:"final_age"`
	Resources          models.Resources     `json:"resources"`
	Population         int                  `json:"population"`
	Capacity           int                  `json:"capacity"`
	Workers            int                  `json:"workers"`
	Structures         int                  `json:"structures"`
	Distribution       economy.Distribution `json:"distribution"`
	Success            bool                 `json:"success"`
}

// NewReport projects s. Success means Tier2 was reached within the
// catalogue's deadline.
func NewReport(s *economy.State, cat models.Catalogue) Report {
	return Report{
		TotalTicks:         s.Now,
		Tier1Tick:          s.Tier1Tick,
		Tier2Tick:          s.Tier2Tick,
		ExclusiveIdleTicks: s.ExclusiveIdleTicks,
		Reassignments:      s.Reassignments,
		PercentAtCap:       s.PercentAtCap(),
		FinalAge:           s.Age,
		Resources:          s.Resources,
		Population:         s.Population,
		Capacity:           s.Capacity,
		Workers:            len(s.Workers),
		Structures:         len(s.Structures),
		Distribution:       s.WorkerDistribution(),
		Success:            s.Age == models.Tier2 && s.Now <= cat.SuccessDeadline,
	}
}
