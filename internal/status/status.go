// Package status provides a thread-safe status tracker for the alarm-clock daemon.
// It is read by the HTTP handlers and by the MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/alarm-clock/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	WSBroker    string // Websocket broker URL for browser MQTT (empty = disabled)
	Melody      string // Name of the alarm melody
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Reading       logic.ClockReading
	Alarm         logic.AlarmTime
	Armed         bool
	View          logic.View
	ShowAlarmTime int
	Counts        logic.EventCounts
	LastFired     time.Time // zero if the alarm has not fired since start
	LastSounded   bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
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
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:     startTime,
			ShowAlarmTime: logic.CountdownInactive,
			Config:        cfg,
		},
	}
}

// Update records what the clock showed on the latest tick.
// Called from runLoop on every tick.
func (t *Tracker) Update(reading logic.ClockReading, st logic.State, armed bool, view logic.View, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Reading = reading
	t.snap.Alarm = st.Alarm
	t.snap.ShowAlarmTime = st.ShowAlarmTime
	t.snap.Armed = armed
	t.snap.View = view
	t.snap.Counts = counts
	t.mu.Unlock()
}

// RecordFire notes the latest alarm fire and whether it sounded.
func (t *Tracker) RecordFire(at time.Time, sounded bool) {
	t.mu.Lock()
	t.snap.LastFired = at
	t.snap.LastSounded = sounded
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
