package telephony

import (
	"sync"
	"time"
)

// CooldownRegistry tracks the last placement time per normalized number
// so retries and duplicate requests can't re-dial a lead. It is shared by
// every concurrent pipeline run in the process; Reserve is an atomic
// check-and-set so two runs for the same number can't both pass.
type CooldownRegistry struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
	now    func() time.Time
}

// NewCooldownRegistry creates a registry with the given cooldown window.
func NewCooldownRegistry(window time.Duration) *CooldownRegistry {
	return &CooldownRegistry{
		window: window,
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Reserve atomically claims a call slot for number. If the cooldown is
// still active it returns false and how long ago the previous call was
// placed. A successful reservation starts the cooldown immediately, at
// placement time, so a slow or hung call still blocks re-dials.
func (r *CooldownRegistry) Reserve(number string) (ok bool, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if prev, exists := r.last[number]; exists {
		elapsed = now.Sub(prev)
		if elapsed < r.window {
			return false, elapsed
		}
	}
	r.last[number] = now
	return true, 0
}

// Release cancels a reservation whose call placement failed, so the
// failed attempt doesn't burn the cooldown window.
func (r *CooldownRegistry) Release(number string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.last, number)
}
