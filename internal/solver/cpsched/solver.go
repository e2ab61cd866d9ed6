// Package cpsched is an in-process scheduling service. It solves the
// single-machine-with-precedences model produced by schedule.Encode exactly
// with a depth-first branch and bound, bounded by the caller's deadline.
package cpsched

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/napolitain/solver-aoe/internal/schedule"
)

// deadlineCheckInterval is how many search nodes run between context checks
const deadlineCheckInterval = 64

// Service is the local schedule.Service implementation
type Service struct {
	logger *slog.Logger
}

// New creates a local scheduling service. A nil logger discards output.
func New(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{logger: logger}
}

// Solve implements schedule.Service. Workers is ignored: the search is
// sequential and deterministic.
func (s *Service) Solve(ctx context.Context, m *schedule.Model, p schedule.Params) (*schedule.Result, error) {
	if m == nil {
		return nil, fmt.Errorf("nil model")
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	inst, err := compile(m)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	if inst.cyclic {
		s.logger.Warn("model has a precedence cycle", "tasks", len(inst.ids))
		return &schedule.Result{Status: schedule.StatusInfeasible}, nil
	}

	sr := newSearch(ctx, inst)
	sr.run()

	res := sr.result()
	s.logger.Debug("schedule solved",
		"status", res.Status,
		"makespan", res.Makespan,
		"nodes", sr.nodes,
		"elapsed", time.Since(started),
	)
	return res, nil
}

// instance is the model compiled to dense indices
type instance struct {
	ids       []string
	dur       []int
	exclusive []bool
	preds     [][]int
	succs     [][]int
	topo      []int
	tail      []int // longest path from the start of i to the end of the schedule
	horizon   int
	cyclic    bool
}

func compile(m *schedule.Model) (*instance, error) {
	n := len(m.Intervals)
	inst := &instance{
		ids:       make([]string, n),
		dur:       make([]int, n),
		exclusive: make([]bool, n),
		preds:     make([][]int, n),
		succs:     make([][]int, n),
		tail:      make([]int, n),
		horizon:   m.Horizon,
	}

	index := make(map[string]int, n)
	for i, iv := range m.Intervals {
		if _, dup := index[iv.TaskID]; dup {
			return nil, fmt.Errorf("duplicate interval %q", iv.TaskID)
		}
		if iv.Duration < 0 {
			return nil, fmt.Errorf("interval %q has negative duration", iv.TaskID)
		}
		index[iv.TaskID] = i
		inst.ids[i] = iv.TaskID
		inst.dur[i] = iv.Duration
	}
	for _, p := range m.Precedences {
		b, ok := index[p.Before]
		if !ok {
			return nil, fmt.Errorf("precedence references unknown task %q", p.Before)
		}
		a, ok := index[p.After]
		if !ok {
			return nil, fmt.Errorf("precedence references unknown task %q", p.After)
		}
		inst.preds[a] = append(inst.preds[a], b)
		inst.succs[b] = append(inst.succs[b], a)
	}
	for _, id := range m.NoOverlap {
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("no-overlap references unknown task %q", id)
		}
		inst.exclusive[i] = true
	}

	inst.topo = topoOrder(inst)
	if len(inst.topo) != n {
		inst.cyclic = true
		return inst, nil
	}
	for k := n - 1; k >= 0; k-- {
		i := inst.topo[k]
		longest := 0
		for _, s := range inst.succs[i] {
			longest = max(longest, inst.tail[s])
		}
		inst.tail[i] = inst.dur[i] + longest
	}
	return inst, nil
}

func topoOrder(inst *instance) []int {
	indeg := make([]int, len(inst.ids))
	for i := range inst.preds {
		indeg[i] = len(inst.preds[i])
	}
	ready := newReadyQueue(inst.ids)
	for i, d := range indeg {
		if d == 0 {
			ready.Push(i)
		}
	}
	out := make([]int, 0, len(inst.ids))
	for !ready.Empty() {
		i := ready.Pop()
		out = append(out, i)
		for _, s := range inst.succs[i] {
			indeg[s]--
			if indeg[s] == 0 {
				ready.Push(s)
			}
		}
	}
	return out
}

// search holds the mutable branch and bound state
type search struct {
	ctx  context.Context
	inst *instance

	start       []int // -1 while unscheduled
	scheduled   int
	machineFree int
	makespan    int

	best     []int
	bestSpan int
	nodes    int
	timedOut bool

	lbStart []int
}

func newSearch(ctx context.Context, inst *instance) *search {
	n := len(inst.ids)
	s := &search{
		ctx:      ctx,
		inst:     inst,
		start:    make([]int, n),
		bestSpan: -1,
		lbStart:  make([]int, n),
	}
	for i := range s.start {
		s.start[i] = -1
	}
	return s
}

func (s *search) run() {
	placed := s.propagate()
	s.branch()
	s.undo(placed)
}

// propagate schedules every non-exclusive task whose predecessors are all
// placed, as early as they allow, and returns what it placed. Starting such
// tasks early never delays anything else.
func (s *search) propagate() []int {
	var placed []int
	for _, i := range s.inst.topo {
		if s.start[i] >= 0 || s.inst.exclusive[i] {
			continue
		}
		est, ok := s.readyAt(i)
		if !ok {
			continue
		}
		s.place(i, est)
		placed = append(placed, i)
	}
	return placed
}

func (s *search) readyAt(i int) (int, bool) {
	est := 0
	for _, p := range s.inst.preds[i] {
		if s.start[p] < 0 {
			return 0, false
		}
		est = max(est, s.start[p]+s.inst.dur[p])
	}
	return est, true
}

func (s *search) place(i, at int) {
	s.start[i] = at
	s.scheduled++
	s.makespan = max(s.makespan, at+s.inst.dur[i])
}

func (s *search) undo(placed []int) {
	for _, i := range placed {
		s.start[i] = -1
		s.scheduled--
	}
}

type candidate struct {
	task  int
	start int
}

func (s *search) branch() {
	s.nodes++
	if (s.nodes == 1 || s.nodes%deadlineCheckInterval == 0) && s.ctx.Err() != nil {
		s.timedOut = true
	}
	if s.timedOut {
		return
	}

	if s.scheduled == len(s.inst.ids) {
		if s.makespan <= s.inst.horizon && (s.bestSpan < 0 || s.makespan < s.bestSpan) {
			s.bestSpan = s.makespan
			s.best = append(s.best[:0], s.start...)
		}
		return
	}

	lb, feasible := s.lowerBound()
	if !feasible || (s.bestSpan >= 0 && lb >= s.bestSpan) {
		return
	}

	var cands []candidate
	for i := range s.inst.ids {
		if s.start[i] >= 0 || !s.inst.exclusive[i] {
			continue
		}
		if est, ok := s.readyAt(i); ok {
			cands = append(cands, candidate{task: i, start: max(est, s.machineFree)})
		}
	}
	sort.Slice(cands, func(a, b int) bool {
		ca, cb := cands[a], cands[b]
		if ca.start != cb.start {
			return ca.start < cb.start
		}
		if s.inst.tail[ca.task] != s.inst.tail[cb.task] {
			return s.inst.tail[ca.task] > s.inst.tail[cb.task]
		}
		return s.inst.ids[ca.task] < s.inst.ids[cb.task]
	})

	for _, c := range cands {
		prevFree, prevSpan := s.machineFree, s.makespan
		s.place(c.task, c.start)
		s.machineFree = c.start + s.inst.dur[c.task]
		placed := s.propagate()

		s.branch()

		s.undo(placed)
		s.undo([]int{c.task})
		s.machineFree, s.makespan = prevFree, prevSpan
		if s.timedOut {
			return
		}
	}
}

// lowerBound relaxes the machine to a per-task release time and returns the
// best makespan any completion of the current partial schedule can reach.
// It reports false when some task can no longer end inside the horizon.
func (s *search) lowerBound() (int, bool) {
	lb := s.makespan
	remainingExclusive := 0
	for _, i := range s.inst.topo {
		if s.start[i] >= 0 {
			s.lbStart[i] = s.start[i]
			continue
		}
		est := 0
		for _, p := range s.inst.preds[i] {
			est = max(est, s.lbStart[p]+s.inst.dur[p])
		}
		if s.inst.exclusive[i] {
			est = max(est, s.machineFree)
			remainingExclusive += s.inst.dur[i]
		}
		s.lbStart[i] = est
		if est+s.inst.dur[i] > s.inst.horizon {
			return 0, false
		}
		lb = max(lb, est+s.inst.tail[i])
	}
	lb = max(lb, s.machineFree+remainingExclusive)
	return lb, lb <= s.inst.horizon
}

func (s *search) result() *schedule.Result {
	if s.bestSpan < 0 {
		if s.timedOut {
			return &schedule.Result{Status: schedule.StatusTimedOutNoSolution}
		}
		return &schedule.Result{Status: schedule.StatusInfeasible}
	}

	status := schedule.StatusOptimal
	if s.timedOut {
		status = schedule.StatusFeasible
	}
	res := &schedule.Result{
		Status:   status,
		Makespan: s.bestSpan,
		Starts:   make(map[string]int, len(s.best)),
		Ends:     make(map[string]int, len(s.best)),
	}
	for i, st := range s.best {
		res.Starts[s.inst.ids[i]] = st
		res.Ends[s.inst.ids[i]] = st + s.inst.dur[i]
	}
	return res
}
