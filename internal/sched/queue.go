// Package sched provides the deferred-event queue the runner drains once per
// tick. Every delayed effect (spawn re-arm, tint clear, time-to-live expiry)
// is a {FireAt, Payload} entry; resetting a run is a single Clear.
package sched

import (
	"container/heap"
	"time"
)

// TimerID identifies a scheduled entry. Zero is never issued.
type TimerID uint64

// Entry is a scheduled event.
type Entry[T any] struct {
	ID      TimerID
	FireAt  time.Duration // Clock time at which the entry becomes due
	Payload T

	seq   uint64
	index int
}

// Queue is a min-heap of entries ordered by FireAt, then by scheduling order.
// It is not safe for concurrent use; the runner drives it from its single
// update thread.
type Queue[T any] struct {
	items      entryHeap[T]
	byID       map[TimerID]*Entry[T]
	nextID     TimerID
	seq        uint64
	generation uint64
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		byID: make(map[TimerID]*Entry[T]),
	}
}

// Schedule adds an entry that becomes due at fireAt.
func (q *Queue[T]) Schedule(fireAt time.Duration, payload T) TimerID {
	q.nextID++
	q.seq++
	e := &Entry[T]{
		ID:      q.nextID,
		FireAt:  fireAt,
		Payload: payload,
		seq:     q.seq,
	}
	heap.Push(&q.items, e)
	q.byID[e.ID] = e
	return e.ID
}

// Cancel removes a pending entry. It returns false if the entry already fired
// or was never scheduled.
func (q *Queue[T]) Cancel(id TimerID) bool {
	e, ok := q.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&q.items, e.index)
	delete(q.byID, id)
	return true
}

// PopDue removes and returns the earliest entry whose FireAt <= now.
// Handlers may schedule or clear while the caller loops on PopDue.
func (q *Queue[T]) PopDue(now time.Duration) (Entry[T], bool) {
	if len(q.items) == 0 || q.items[0].FireAt > now {
		return Entry[T]{}, false
	}
	e := heap.Pop(&q.items).(*Entry[T])
	delete(q.byID, e.ID)
	return *e, true
}

// Peek returns the FireAt of the earliest entry.
func (q *Queue[T]) Peek() (time.Duration, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	return q.items[0].FireAt, true
}

// Len returns the number of pending entries.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Clear drops every pending entry and bumps the generation.
func (q *Queue[T]) Clear() {
	clear(q.items)
	q.items = q.items[:0]
	q.byID = make(map[TimerID]*Entry[T])
	q.generation++
}

// Generation counts how many times the queue has been cleared.
func (q *Queue[T]) Generation() uint64 {
	return q.generation
}

type entryHeap[T any] []*Entry[T]

func (h entryHeap[T]) Len() int { return len(h) }

func (h entryHeap[T]) Less(i, j int) bool {
	if h[i].FireAt != h[j].FireAt {
		return h[i].FireAt < h[j].FireAt
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap[T]) Push(x any) {
	e := x.(*Entry[T])
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
