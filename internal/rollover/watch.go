// Package rollover detects when the local calendar day advances underneath
// the running process. The clock change is not an observable event, so a
// cheap poll compares the captured "today" against the wall clock.
package rollover

import (
	"sort"
	"sync"
	"time"

	"github.com/sadopc/streakr/internal/habit"
)

// DefaultInterval is fine enough to catch a rollover promptly and coarse
// enough to cost nothing.
const DefaultInterval = time.Minute

// Callback receives the previous and the new calendar day.
type Callback func(old, new habit.Day)

// Watch is a polling day-rollover detector. Start and Stop are idempotent;
// at most one ticker ever runs.
type Watch struct {
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	today     habit.Day
	callbacks map[int]Callback
	nextID    int
	stop      chan struct{} // nil while stopped
}

// New returns a stopped watch. A non-positive interval falls back to
// DefaultInterval. The current day is captured immediately, so a rollover
// that happens between New and Start is still reported on the first check.
func New(interval time.Duration) *Watch {
	if interval <= 0 {
		interval = DefaultInterval
	}
	w := &Watch{
		interval:  interval,
		now:       time.Now,
		callbacks: make(map[int]Callback),
	}
	w.today = habit.DayOf(w.now())
	return w
}

// AddCallback registers cb and returns an id for RemoveCallback.
func (w *Watch) AddCallback(cb Callback) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.callbacks[id] = cb
	return id
}

// RemoveCallback unregisters a callback. Unknown ids are ignored.
func (w *Watch) RemoveCallback(id int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.callbacks, id)
}

// Start begins polling. Calling Start on a running watch is a no-op.
func (w *Watch) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop != nil {
		return
	}
	stop := make(chan struct{})
	w.stop = stop

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				w.check()
			}
		}
	}()
}

// Stop halts polling. Calling Stop on a stopped watch is a no-op.
func (w *Watch) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop == nil {
		return
	}
	close(w.stop)
	w.stop = nil
}

// Running reports whether the poller is active.
func (w *Watch) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stop != nil
}

// Today returns the watch's captured notion of the current day.
func (w *Watch) Today() habit.Day {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.today
}

// TriggerCheck runs one comparison immediately, for recovering after a
// detected system clock jump. Safe whether or not the watch is running.
func (w *Watch) TriggerCheck() {
	w.check()
}

func (w *Watch) check() {
	current := habit.DayOf(w.now())

	w.mu.Lock()
	old := w.today
	if current == old {
		w.mu.Unlock()
		return
	}
	w.today = current
	ids := make([]int, 0, len(w.callbacks))
	for id := range w.callbacks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	cbs := make([]Callback, len(ids))
	for i, id := range ids {
		cbs[i] = w.callbacks[id]
	}
	w.mu.Unlock()

	for _, cb := range cbs {
		safeCall(cb, old, current)
	}
}

// safeCall isolates a faulty callback so it cannot prevent the others from
// running or corrupt the watch's state.
func safeCall(cb Callback, old, current habit.Day) {
	defer func() { _ = recover() }()
	cb(old, current)
}
