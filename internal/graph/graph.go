// Package graph holds the precedence model of a build order: tasks with a
// duration, a cost, predecessor edges and an exclusivity flag.
package graph

import (
	"container/heap"
	"sort"

	"github.com/napolitain/solver-aoe/internal/models"
)

// Task is a unit of work in the build order. Tasks are immutable once added.
type Task struct {
	ID           string
	Type         models.TaskType
	Duration     int
	Cost         models.Resources
	Predecessors []string
	Exclusive    bool
}

// TaskGraph is a set of tasks plus successor adjacency
type TaskGraph struct {
	tasks      map[string]*Task
	successors map[string][]string
}

// New creates an empty graph
func New() *TaskGraph {
	return &TaskGraph{
		tasks:      make(map[string]*Task),
		successors: make(map[string][]string),
	}
}

// AddTask registers t. Predecessors need not exist yet; Validate checks them.
func (g *TaskGraph) AddTask(t Task) error {
	if _, ok := g.tasks[t.ID]; ok {
		return modelErrorf(ErrDuplicateTask, "%q", t.ID)
	}
	preds := append([]string(nil), t.Predecessors...)
	sort.Strings(preds)
	t.Predecessors = preds

	g.tasks[t.ID] = &t
	for _, p := range preds {
		g.successors[p] = insertSorted(g.successors[p], t.ID)
	}
	return nil
}

// MustAddTask is AddTask for statically known graphs
func (g *TaskGraph) MustAddTask(t Task) {
	if err := g.AddTask(t); err != nil {
		panic(err)
	}
}

// Len returns the number of tasks
func (g *TaskGraph) Len() int { return len(g.tasks) }

// Task returns the task with the given id
func (g *TaskGraph) Task(id string) (Task, bool) {
	t, ok := g.tasks[id]
	if !ok {
		return Task{}, false
	}
	return t.copy(), true
}

// Tasks returns every task sorted by id
func (g *TaskGraph) Tasks() []Task {
	out := make([]Task, 0, len(g.tasks))
	for _, id := range g.sortedIDs() {
		out = append(out, g.tasks[id].copy())
	}
	return out
}

// Successors returns the ids of tasks that directly depend on id
func (g *TaskGraph) Successors(id string) []string {
	return append([]string(nil), g.successors[id]...)
}

// AvailableTasks returns tasks that are not completed and whose predecessors
// are all completed, sorted by id.
func (g *TaskGraph) AvailableTasks(completed map[string]bool) []Task {
	var out []Task
	for _, id := range g.sortedIDs() {
		if completed[id] {
			continue
		}
		t := g.tasks[id]
		ready := true
		for _, p := range t.Predecessors {
			if !completed[p] {
				ready = false
				break
			}
		}
		if ready {
			out = append(out, t.copy())
		}
	}
	return out
}

// ExclusiveTasks returns the tasks that hold the exclusive resource, sorted by id
func (g *TaskGraph) ExclusiveTasks() []Task {
	var out []Task
	for _, id := range g.sortedIDs() {
		if t := g.tasks[id]; t.Exclusive {
			out = append(out, t.copy())
		}
	}
	return out
}

// TopologicalOrder returns every task such that each one follows all of its
// predecessors. Among ready tasks the smallest id goes first. A cycle yields
// an error and no order.
func (g *TaskGraph) TopologicalOrder() ([]Task, error) {
	indeg := make(map[string]int, len(g.tasks))
	ready := &idMinHeap{}
	for id, t := range g.tasks {
		n := 0
		for _, p := range t.Predecessors {
			if _, ok := g.tasks[p]; ok {
				n++
			}
		}
		indeg[id] = n
		if n == 0 {
			heap.Push(ready, id)
		}
	}

	out := make([]Task, 0, len(g.tasks))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		out = append(out, g.tasks[id].copy())
		for _, s := range g.successors[id] {
			if _, ok := g.tasks[s]; !ok {
				continue
			}
			indeg[s]--
			if indeg[s] == 0 {
				heap.Push(ready, s)
			}
		}
	}

	if len(out) != len(g.tasks) {
		var remaining []string
		for _, id := range g.sortedIDs() {
			if indeg[id] > 0 {
				remaining = append(remaining, id)
			}
		}
		return nil, cycleError(remaining)
	}
	return out, nil
}

// Validate checks that every predecessor exists and that the graph is acyclic
func (g *TaskGraph) Validate() error {
	for _, id := range g.sortedIDs() {
		for _, p := range g.tasks[id].Predecessors {
			if _, ok := g.tasks[p]; !ok {
				return modelErrorf(ErrDanglingPredecessor, "%q depends on unknown task %q", id, p)
			}
		}
	}
	_, err := g.TopologicalOrder()
	return err
}

func (g *TaskGraph) sortedIDs() []string {
	ids := make([]string, 0, len(g.tasks))
	for id := range g.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (t *Task) copy() Task {
	c := *t
	c.Predecessors = append([]string(nil), t.Predecessors...)
	return c
}

func insertSorted(ids []string, id string) []string {
	i := sort.SearchStrings(ids, id)
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

type idMinHeap []string

func (h idMinHeap) Len() int           { return len(h) }
func (h idMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idMinHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *idMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
