package client

import (
	"sync"
	"time"
)

// retryTimer is a single-slot cancellable timer: arming it replaces any
// previously pending timer, so at most one retry is scheduled at any instant.
type retryTimer struct {
	mu sync.Mutex
	t  *time.Timer
}

// Arm schedules fn after d, cancelling a pending timer first.
func (r *retryTimer) Arm(d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.t != nil {
		r.t.Stop()
	}
	r.t = time.AfterFunc(d, fn)
}

// Cancel stops the pending timer, if any.
func (r *retryTimer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.t != nil {
		r.t.Stop()
		r.t = nil
	}
}

// Pending reports whether a timer is currently armed.
func (r *retryTimer) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.t != nil
}
