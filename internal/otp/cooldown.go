package otp

import (
	"sync"
	"time"
)

// CooldownTimer tracks the resend-disabled window after a successful send.
// It is safe for concurrent use and emits nothing after Cancel: a fire
// scheduled before cancellation is ignored via a generation counter.
type CooldownTimer struct {
	mu       sync.Mutex
	timer    *time.Timer
	deadline time.Time
	active   bool
	gen      uint64
}

// NewCooldownTimer returns an idle timer.
func NewCooldownTimer() *CooldownTimer {
	return &CooldownTimer{}
}

// Start (re)arms the timer for d. A running window is replaced.
func (t *CooldownTimer) Start(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.active = true
	t.deadline = time.Now().Add(d)
	t.timer = time.AfterFunc(d, func() { t.expire(gen) })
}

// Cancel stops the window immediately. Safe to call repeatedly.
func (t *CooldownTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.active = false
	t.deadline = time.Time{}
}

// Active reports whether the cooldown window is still running.
func (t *CooldownTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active && time.Now().Before(t.deadline)
}

// Remaining returns how long until resend re-enables, zero when idle.
func (t *CooldownTimer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return 0
	}
	if rem := time.Until(t.deadline); rem > 0 {
		return rem
	}
	return 0
}

func (t *CooldownTimer) expire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return // restarted or cancelled since this fire was scheduled
	}
	t.active = false
	t.timer = nil
}
