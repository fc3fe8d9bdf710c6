package combat

import "container/heap"

// TimerID identifies a scheduled continuation.
type TimerID uint64

type timer struct {
	id  TimerID
	at  float64
	seq uint64
	fn  func()
}

type timerHeap []timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(timer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}

// TimerQueue holds (deadline, continuation) pairs on a local clock.
// Continuations fire in deadline order, ties in scheduling order. A
// continuation may schedule further timers; those use the firing deadline
// as their base time so periodic timers do not drift.
type TimerQueue struct {
	now     float64
	seq     uint64
	pending timerHeap
}

// Now returns the queue's clock in seconds.
func (q *TimerQueue) Now() float64 { return q.now }

// Len returns the number of pending timers.
func (q *TimerQueue) Len() int { return len(q.pending) }

// After schedules fn to run once d seconds from now.
func (q *TimerQueue) After(d float64, fn func()) TimerID {
	q.seq++
	id := TimerID(q.seq)
	heap.Push(&q.pending, timer{id: id, at: q.now + d, seq: q.seq, fn: fn})
	return id
}

// Cancel removes a pending timer. Returns false if it already fired or was cleared.
func (q *TimerQueue) Cancel(id TimerID) bool {
	for i := range q.pending {
		if q.pending[i].id == id {
			heap.Remove(&q.pending, i)
			return true
		}
	}
	return false
}

// Clear drops every pending timer.
func (q *TimerQueue) Clear() {
	q.pending = q.pending[:0]
}

// Advance moves the clock forward by dt and fires every due continuation.
func (q *TimerQueue) Advance(dt float64) {
	end := q.now + dt
	for len(q.pending) > 0 && q.pending[0].at <= end {
		t := heap.Pop(&q.pending).(timer)
		if t.at > q.now {
			q.now = t.at
		}
		t.fn()
	}
	q.now = end
}
