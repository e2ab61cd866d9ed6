package cpsched

import "container/heap"

// indexHeap is a min-heap of task indices ordered by task id
type indexHeap struct {
	items []int
	ids   []string
}

func (h indexHeap) Len() int { return len(h.items) }

func (h indexHeap) Less(i, j int) bool {
	return h.ids[h.items[i]] < h.ids[h.items[j]]
}

func (h indexHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *indexHeap) Push(x any) {
	h.items = append(h.items, x.(int))
}

func (h *indexHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[0 : n-1]
	return x
}

// readyQueue hands out ready tasks smallest id first so that topological
// orders are reproducible
type readyQueue struct {
	h indexHeap
}

func newReadyQueue(ids []string) *readyQueue {
	q := &readyQueue{h: indexHeap{ids: ids}}
	heap.Init(&q.h)
	return q
}

// Push adds a task index
func (q *readyQueue) Push(i int) {
	heap.Push(&q.h, i)
}

// Pop removes and returns the task with the smallest id, or -1 when empty
func (q *readyQueue) Pop() int {
	if q.h.Len() == 0 {
		return -1
	}
	return heap.Pop(&q.h).(int)
}

// Empty returns true if no task is waiting
func (q *readyQueue) Empty() bool {
	return q.h.Len() == 0
}
