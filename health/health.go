// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

type ClockSync struct {
	OffsetMs  int64      `json:"offsetMs"`
	Timestamp *time.Time `json:"timestamp"`
	Error     string     `json:"error,omitempty"`
}

type Status struct {
	Healthy            bool       `json:"healthy"`
	ClockSync          *ClockSync `json:"clockSync"`
	ProgramInitialized bool       `json:"programInitialized"`
}

// Health tracks the liveness of a serving node: the program must be initialized and,
// when a max sync age is set, the clock must have been synced recently.
type Health struct {
	lock        sync.RWMutex
	lastSync    time.Time
	offset      time.Duration
	syncErr     error
	maxSyncAge  time.Duration
	initialized func() bool
	now         func() time.Time
}

// New creates a Health. A zero maxSyncAge disables the clock sync requirement.
func New(initialized func() bool, maxSyncAge time.Duration) *Health {
	return &Health{
		maxSyncAge:  maxSyncAge,
		initialized: initialized,
		now:         time.Now,
	}
}

// ClockSynced records a successful sync with the measured offset.
func (h *Health) ClockSynced(offset time.Duration) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastSync = h.now()
	h.offset = offset
	h.syncErr = nil
}

// ClockSyncFailed records a failed sync. The last successful sync is kept.
func (h *Health) ClockSyncFailed(err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.syncErr = err
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	clockSync := &ClockSync{OffsetMs: h.offset.Milliseconds()}
	if !h.lastSync.IsZero() {
		ts := h.lastSync
		clockSync.Timestamp = &ts
	}
	if h.syncErr != nil {
		clockSync.Error = h.syncErr.Error()
	}

	initialized := h.initialized()
	clockOK := h.maxSyncAge == 0 ||
		(!h.lastSync.IsZero() && h.now().Sub(h.lastSync) <= h.maxSyncAge)

	return &Status{
		Healthy:            initialized && clockOK,
		ClockSync:          clockSync,
		ProgramInitialized: initialized,
	}
}
