// Package status provides a thread-safe status tracker for the rgbcal daemon.
// It is written by the input loop (as a reporter) and read by the HTTP
// handlers, MQTT heartbeat and lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/rgbcal/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	IdlePolicy  string
	Broker      string
	HTTPAddr    string
	LCD         bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Status        logic.Status
	Ready         bool // a status has been reported since startup
	Changes       int  // number of reported changes
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Status:    logic.DefaultStatus(),
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Report records a new status. Called by the input loop on every change.
func (t *Tracker) Report(s logic.Status) {
	t.mu.Lock()
	t.snap.Status = s
	t.snap.Ready = true
	t.snap.Changes++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
