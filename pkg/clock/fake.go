package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a Clock whose time only moves on Advance. Safe for concurrent use.
type Fake struct {
	mu      sync.Mutex
	changed *sync.Cond
	now     time.Time
	pending []*waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
	fn       func()
	done     bool
}

func NewFake(now time.Time) *Fake {
	f := &Fake{now: now}
	f.changed = sync.NewCond(&f.mu)
	return f
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)

	f.mu.Lock()
	defer f.mu.Unlock()

	if d <= 0 {
		ch <- f.now
		return ch
	}
	f.addLocked(&waiter{deadline: f.now.Add(d), ch: ch})
	return ch
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) *Timer {
	w := &waiter{fn: fn}

	f.mu.Lock()
	w.deadline = f.now.Add(d)
	f.addLocked(w)
	f.mu.Unlock()

	return &Timer{stop: func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if w.done {
			return false
		}
		w.done = true
		f.changed.Broadcast()
		return true
	}}
}

func (f *Fake) Sleep(d time.Duration) {
	<-f.After(d)
}

// Advance moves time forward by d and fires every waiter whose deadline has passed, in deadline order.
// Callbacks run on the calling goroutine with no lock held, so they may schedule new timers.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	f.mu.Unlock()

	for {
		due := f.collect(now)
		if len(due) == 0 {
			return
		}
		for _, w := range due {
			if w.fn != nil {
				w.fn()
				continue
			}
			w.ch <- now
		}
	}
}

func (f *Fake) collect(now time.Time) []*waiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	var due, rest []*waiter
	for _, w := range f.pending {
		switch {
		case w.done:
		case w.deadline.After(now):
			rest = append(rest, w)
		default:
			w.done = true
			due = append(due, w)
		}
	}
	f.pending = rest
	f.changed.Broadcast()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	return due
}

// WaitForTimers blocks until at least n waiters are pending.
func (f *Fake) WaitForTimers(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.pendingLocked() < n {
		f.changed.Wait()
	}
}

// PendingCount returns the number of waiters that have neither fired nor been stopped.
func (f *Fake) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingLocked()
}

func (f *Fake) addLocked(w *waiter) {
	f.pending = append(f.pending, w)
	f.changed.Broadcast()
}

func (f *Fake) pendingLocked() int {
	n := 0
	for _, w := range f.pending {
		if !w.done {
			n++
		}
	}
	return n
}
