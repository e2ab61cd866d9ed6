// Package simulator replays a plan of action codes against the economy
// model, waiting tick by tick for each action to become possible.
package simulator

import (
	"log/slog"

	"github.com/napolitain/solver-aoe/internal/economy"
	"github.com/napolitain/solver-aoe/internal/models"
	"github.com/napolitain/solver-aoe/internal/planner"
)

// DefaultWaitCeiling bounds the ticks a single step may wait
const DefaultWaitCeiling = 1000

// Options configures a Simulator
type Options struct {
	// WaitCeiling is the most ticks one step may wait before the run is
	// declared deadlocked. Zero means DefaultWaitCeiling.
	WaitCeiling int
	Logger      *slog.Logger
}

// Step records what happened to one plan entry
type Step struct {
	Index   int
	Tick    int
	Action  models.ActionCode
	Outcome economy.Outcome
	Waited  int
}

// Result is the outcome of a run. On deadlock it holds the partial state.
type Result struct {
	Steps  []Step
	State  *economy.State
	Report Report
}

type handler func(sim *Simulator, code models.ActionCode) (economy.Outcome, int, error)

// Simulator executes plans sequentially on a single economy state
type Simulator struct {
	state    *economy.State
	cat      models.Catalogue
	ceiling  int
	logger   *slog.Logger
	handlers map[models.ActionCode]handler

	// applied counts per code, for graph task ids
	applied map[models.ActionCode]int
}

// New creates a simulator that mutates state
func New(state *economy.State, cat models.Catalogue, opts Options) *Simulator {
	if opts.WaitCeiling <= 0 {
		opts.WaitCeiling = DefaultWaitCeiling
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Simulator{
		state:    state,
		cat:      cat,
		ceiling:  opts.WaitCeiling,
		logger:   opts.Logger,
		handlers: defaultHandlers(),
		applied:  make(map[models.ActionCode]int),
	}
}

func defaultHandlers() map[models.ActionCode]handler {
	h := map[models.ActionCode]handler{
		models.ActionCreateWorker:        (*Simulator).createWorker,
		models.ActionAdvanceTier1:        (*Simulator).advanceAge,
		models.ActionAdvanceTier2:        (*Simulator).advanceAge,
		models.ActionGatherResources:     (*Simulator).gather,
		models.ActionResearchFarmingTech: (*Simulator).research,
		models.ActionResearchLoggingTech: (*Simulator).research,
	}
	for _, code := range models.AllActionCodes() {
		if _, ok := code.BuildTarget(); ok {
			h[code] = (*Simulator).build
		}
	}
	return h
}

// State returns the state being simulated
func (sim *Simulator) State() *economy.State { return sim.state }

// Run executes every action of plan in order. A step that cannot become
// possible within the wait ceiling aborts the run with a *DeadlockError;
// the Result is returned in both cases.
func (sim *Simulator) Run(plan []models.ActionCode) (*Result, error) {
	res := &Result{State: sim.state}

	for i, code := range plan {
		step := Step{Index: i, Action: code}

		h, ok := sim.handlers[code]
		if !ok {
			sim.logger.Warn("unknown action skipped", "index", i, "action", string(code))
			step.Outcome = economy.Skipped(economy.SkipUnknownAction)
			step.Tick = sim.state.Now
			res.Steps = append(res.Steps, step)
			continue
		}

		outcome, waited, err := h(sim, code)
		step.Outcome = outcome
		step.Waited = waited
		step.Tick = sim.state.Now
		res.Steps = append(res.Steps, step)

		if err != nil {
			sim.logger.Warn("plan aborted", "index", i, "action", string(code), "error", err)
			res.Report = NewReport(sim.state, sim.cat)
			return res, err
		}
		if outcome.Applied {
			sim.markCompleted(code)
		} else {
			sim.logger.Warn("action skipped", "index", i, "action", string(code),
				"reason", string(outcome.Reason), "tick", sim.state.Now)
		}
	}

	res.Report = NewReport(sim.state, sim.cat)
	sim.logger.Info("plan finished",
		"ticks", res.Report.TotalTicks,
		"age", res.Report.FinalAge.String(),
		"success", res.Report.Success)
	return res, nil
}

// waitFor ticks until check passes. Non-waitable skips are returned as is.
// waited carries ticks already spent by the current step.
func (sim *Simulator) waitFor(code models.ActionCode, waited int, check func() economy.Outcome) (economy.Outcome, int, error) {
	for {
		o := check()
		if o.OK() || !o.Reason.Waitable() {
			return o, waited, nil
		}
		if waited >= sim.ceiling {
			return o, waited, &DeadlockError{
				Action:    code,
				Tick:      sim.state.Now,
				Waited:    waited,
				Condition: o.Reason,
			}
		}
		if waited > 0 && waited%100 == 0 {
			sim.logger.Debug("waiting", "action", string(code), "reason", string(o.Reason),
				"tick", sim.state.Now, "resources", sim.state.Resources.String())
		}
		sim.state.Tick()
		waited++
	}
}

func (sim *Simulator) createWorker(code models.ActionCode) (economy.Outcome, int, error) {
	s := sim.state
	if next, ok := nextAge(s.Age); ok && s.CheckAdvanceAge(next).OK() {
		return economy.Skipped(economy.SkipAgeAdvancePending), 0, nil
	}

	waited := 0
	for s.Population >= s.Capacity {
		if waited >= sim.ceiling {
			return economy.Skipped(economy.SkipPopulationCap), waited, &DeadlockError{
				Action:    code,
				Tick:      s.Now,
				Waited:    waited,
				Condition: economy.SkipPopulationCap,
			}
		}
		if s.BuildStructure(models.House).Applied {
			sim.logger.Debug("house built for capped population", "tick", s.Now)
			sim.markCompleted(models.ActionBuildHouse)
			d := sim.cat.Structure(models.House).BuildTime
			s.Advance(d)
			waited += d
			continue
		}
		s.Tick()
		waited++
	}

	o, waited, err := sim.waitFor(code, waited, s.CheckCreateWorker)
	if err != nil || !o.OK() {
		return o, waited, err
	}
	o = s.CreateWorker()
	s.Advance(sim.cat.WorkerReadyTicks)
	return o, waited, nil
}

func (sim *Simulator) build(code models.ActionCode) (economy.Outcome, int, error) {
	s := sim.state
	st, _ := code.BuildTarget()
	if !economy.BuildableIn(st, s.Age) {
		return economy.Skipped(economy.SkipWrongAge), 0, nil
	}

	o, waited, err := sim.waitFor(code, 0, func() economy.Outcome { return s.CheckBuildStructure(st) })
	if err != nil || !o.OK() {
		return o, waited, err
	}
	o = s.BuildStructure(st)
	s.Advance(sim.cat.Structure(st).BuildTime)
	return o, waited, nil
}

func (sim *Simulator) advanceAge(code models.ActionCode) (economy.Outcome, int, error) {
	s := sim.state
	target := models.Tier1
	if code == models.ActionAdvanceTier2 {
		target = models.Tier2
	}
	if prev, _ := target.Previous(); s.Age != prev {
		return economy.Skipped(economy.SkipWrongAge), 0, nil
	}

	o, waited, err := sim.waitFor(code, 0, func() economy.Outcome { return s.CheckAdvanceAge(target) })
	if err != nil || !o.OK() {
		return o, waited, err
	}
	o = s.AdvanceAge(target)
	spec, _ := sim.cat.AgeTransition(target)
	s.Advance(spec.Duration)
	return o, waited, nil
}

func (sim *Simulator) research(code models.ActionCode) (economy.Outcome, int, error) {
	s := sim.state
	tech := models.TechFarming
	if code == models.ActionResearchLoggingTech {
		tech = models.TechLogging
	}

	switch {
	case s.Techs.Get(tech):
		return economy.Skipped(economy.SkipAlreadyResearched), 0, nil
	case s.Age != models.Tier1:
		return economy.Skipped(economy.SkipWrongAge), 0, nil
	case !s.HasStructure(economy.ResearchStructure(tech)):
		return economy.Skipped(economy.SkipMissingPrerequisite), 0, nil
	}

	o, waited, err := sim.waitFor(code, 0, func() economy.Outcome { return s.CheckResearch(tech) })
	if err != nil || !o.OK() {
		return o, waited, err
	}
	o = s.Research(tech)
	s.Advance(sim.cat.Tech(tech).Duration)
	return o, waited, nil
}

func (sim *Simulator) gather(models.ActionCode) (economy.Outcome, int, error) {
	sim.state.Advance(sim.cat.GatherTicks)
	return economy.Applied, 0, nil
}

// markCompleted records the graph task an applied action stands for
func (sim *Simulator) markCompleted(code models.ActionCode) {
	sim.applied[code]++
	n := sim.applied[code]

	var id string
	switch code {
	case models.ActionCreateWorker:
		id = planner.WorkerID(n)
	case models.ActionBuildHouse:
		id = planner.HouseID(n)
	case models.ActionBuildMill:
		id = planner.IDMill
	case models.ActionBuildLumberCamp:
		id = planner.IDLumberCamp
	case models.ActionBuildMarket:
		id = planner.IDMarket
	case models.ActionBuildBlacksmith:
		id = planner.IDBlacksmith
	case models.ActionAdvanceTier1:
		id = planner.IDAdvanceTier1
	case models.ActionAdvanceTier2:
		id = planner.IDAdvanceTier2
	case models.ActionResearchFarmingTech:
		id = planner.IDResearchFarming
	case models.ActionResearchLoggingTech:
		id = planner.IDResearchLogging
	default:
		return
	}
	sim.state.MarkTaskCompleted(id)
}

func nextAge(a models.Age) (models.Age, bool) {
	switch a {
	case models.Tier0:
		return models.Tier1, true
	case models.Tier1:
		return models.Tier2, true
	}
	return a, false
}
