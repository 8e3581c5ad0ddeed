package logic

import "time"

// Clock wraps State with event counting and heartbeat bookkeeping.
type Clock struct {
	state         State
	glyphs        GlyphSet
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewClock creates a clock controller in its power-on state.
// The startTime is used for calculating uptime in heartbeat events.
func NewClock(glyphs GlyphSet, startTime time.Time) *Clock {
	return &Clock{
		state:         NewState(),
		glyphs:        glyphs,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process runs one tick and returns the actions to carry out.
func (c *Clock) Process(in Input) Actions {
	act := Step(&c.state, in, c.glyphs)
	c.count(act.Events)
	return act
}

// AlarmFired records an observed hardware alarm and returns the event to
// publish. sounded reports whether the tune is going to play.
func (c *Clock) AlarmFired(at time.Time, armed, sounded bool) Event {
	e := Event{
		Timestamp: at,
		Type:      EventAlarmFired,
		Alarm:     c.state.Alarm,
		Armed:     armed,
		Sounded:   sounded,
	}
	c.count([]Event{e})
	return e
}

func (c *Clock) count(events []Event) {
	for _, e := range events {
		switch e.Type {
		case EventArmed:
			c.eventCounts.Armed++
		case EventDisarmed:
			c.eventCounts.Disarmed++
		case EventAlarmSet:
			c.eventCounts.AlarmSet++
		case EventClockAdjusted:
			c.eventCounts.ClockAdjusted++
		case EventAlarmFired:
			c.eventCounts.Fired++
			if e.Sounded {
				c.eventCounts.Sounded++
			}
		}
	}
}

// State returns a copy of the controller state.
func (c *Clock) State() State {
	return c.state
}

// EventCountsSnapshot returns a copy of the event counters.
func (c *Clock) EventCountsSnapshot() EventCounts {
	return c.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (c *Clock) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.eventCounts,
	}
}
