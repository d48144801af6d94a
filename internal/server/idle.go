package server

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// idleWatch calls onIdle for a participant that has sent nothing for the
// timeout. A zero timeout disables it.
type idleWatch struct {
	clock   quartz.Clock
	timeout time.Duration
	onIdle  func(id string)

	mu     sync.Mutex
	timers map[string]*quartz.Timer
}

func newIdleWatch(clock quartz.Clock, timeout time.Duration, onIdle func(id string)) *idleWatch {
	return &idleWatch{
		clock:   clock,
		timeout: timeout,
		onIdle:  onIdle,
		timers:  make(map[string]*quartz.Timer),
	}
}

// Touch restarts the participant's idle timer
func (w *idleWatch) Touch(id string) {
	if w.timeout <= 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[id]; ok {
		t.Reset(w.timeout, "idle", "reset")
		return
	}
	w.timers[id] = w.clock.AfterFunc(w.timeout, func() { w.expire(id) }, "idle", "start")
}

// Forget stops watching a participant
func (w *idleWatch) Forget(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[id]; ok {
		t.Stop()
		delete(w.timers, id)
	}
}

// Watching reports how many participants have a running timer
func (w *idleWatch) Watching() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

func (w *idleWatch) expire(id string) {
	w.mu.Lock()
	_, ok := w.timers[id]
	delete(w.timers, id)
	w.mu.Unlock()

	if ok {
		w.onIdle(id)
	}
}
