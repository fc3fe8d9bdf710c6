package combat

import "testing"

func TestTimerQueue_Order(t *testing.T) {
	var q TimerQueue
	var got []int
	q.After(0.3, func() { got = append(got, 3) })
	q.After(0.1, func() { got = append(got, 1) })
	q.After(0.2, func() { got = append(got, 2) })
	q.After(0.2, func() { got = append(got, 22) })

	q.Advance(0.25)
	want := []int{1, 2, 22}
	if len(got) != len(want) {
		t.Fatalf("fired %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fired %v, want %v", got, want)
		}
	}
	if q.Now() != 0.25 {
		t.Errorf("now = %v, want 0.25", q.Now())
	}
	if q.Len() != 1 {
		t.Errorf("pending = %d, want 1", q.Len())
	}
}

func TestTimerQueue_Cancel(t *testing.T) {
	var q TimerQueue
	fired := false
	id := q.After(0.1, func() { fired = true })

	if !q.Cancel(id) {
		t.Fatal("cancel of a pending timer should succeed")
	}
	if q.Cancel(id) {
		t.Error("second cancel should report false")
	}
	q.Advance(1)
	if fired {
		t.Error("cancelled timer fired")
	}
}

func TestTimerQueue_PeriodicDoesNotDrift(t *testing.T) {
	var q TimerQueue
	count := 0
	var tick func()
	tick = func() {
		count++
		q.After(0.3, tick)
	}
	q.After(0.3, tick)

	// One large step fires every period it covers.
	q.Advance(1.0)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestTimerQueue_ClearInsideCallback(t *testing.T) {
	var q TimerQueue
	fired := 0
	q.After(0.1, func() { fired++; q.Clear() })
	q.After(0.2, func() { fired++ })

	q.Advance(1)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}
