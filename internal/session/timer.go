package session

import (
	"errors"
	"sync"
	"time"
)

// DefaultTimeout is how long an authenticated session lasts from arming.
const DefaultTimeout = 5 * time.Minute

var ErrTimerArmed = errors.New("session timer already armed")

// Timer is a single-shot countdown. It is not reset by activity: once armed
// it fires after the full duration unless cancelled first.
type Timer struct {
	mu       sync.Mutex
	duration time.Duration
	t        *time.Timer
}

func NewTimer(d time.Duration) *Timer {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &Timer{duration: d}
}

func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Arm starts the countdown. fn runs on its own goroutine when it expires.
func (t *Timer) Arm(fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.t != nil {
		return ErrTimerArmed
	}
	var self *time.Timer
	self = time.AfterFunc(t.duration, func() {
		t.mu.Lock()
		if t.t == self {
			t.t = nil
		}
		t.mu.Unlock()
		fn()
	})
	t.t = self
	return nil
}

// Cancel stops a pending countdown and reports whether one was pending.
// After Cancel returns true, fn will not run for that arming.
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.t == nil {
		return false
	}
	stopped := t.t.Stop()
	t.t = nil
	return stopped
}

func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.t != nil
}
