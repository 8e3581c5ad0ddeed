// Package logic contains the pure alarm clock state machine.
// This package has NO external dependencies (no GPIO, I2C, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"fmt"
	"time"
)

// Tuning constants for the controller.
const (
	// PreviewTicks is how many ticks the alarm time stays on the display
	// after arming or editing (10 ticks at 500ms is about 5 seconds).
	PreviewTicks = 10

	// CountdownInactive marks the alarm preview countdown as not running.
	CountdownInactive = -1

	// MaxTemperature is the largest value the two temperature digits can show.
	MaxTemperature = 99

	// HourAdjust and MinuteAdjust are the wall clock steps, in seconds,
	// requested by the hour and minute buttons while disarmed.
	HourAdjust   = 3600
	MinuteAdjust = 60
)

// ClockReading is one sample of the RTC taken at the start of a tick.
type ClockReading struct {
	Year         int
	Month        time.Month
	Day          int
	Weekday      int // 0-6, Sunday = 0
	Hour         int // 0-23
	Minute       int // 0-59
	Second       int // 0-59
	TemperatureC int
}

// NewReading builds a ClockReading from an RTC time and temperature.
func NewReading(t time.Time, tempC int) ClockReading {
	return ClockReading{
		Year:         t.Year(),
		Month:        t.Month(),
		Day:          t.Day(),
		Weekday:      int(t.Weekday()),
		Hour:         t.Hour(),
		Minute:       t.Minute(),
		Second:       t.Second(),
		TemperatureC: tempC,
	}
}

// String formats the reading for the diagnostic log.
func (r ClockReading) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", r.Year, int(r.Month), r.Day, r.Hour, r.Minute, r.Second)
}

// AlarmTime is the hour and minute programmed into the RTC alarm.
type AlarmTime struct {
	Hour   int // 0-23
	Minute int // 0-59
}

func (a AlarmTime) String() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

// Buttons is one snapshot of the front panel inputs in logical form.
// The raw lines are active-low; the gpio package inverts them.
type Buttons struct {
	Hour        bool // hour button pressed
	Minute      bool // minute button pressed
	Temperature bool // temperature button pressed
	Armed       bool // alarm switch latched on
}

// State is the controller state carried between ticks.
type State struct {
	Alarm AlarmTime
	// ShowAlarmTime is the alarm preview countdown: CountdownInactive,
	// 0 (expired, normal display) or the number of preview ticks left.
	ShowAlarmTime int
}

// NewState returns the power-on state: alarm 00:00, preview inactive.
func NewState() State {
	return State{ShowAlarmTime: CountdownInactive}
}

// Input is everything the controller sees in one tick.
type Input struct {
	Reading ClockReading
	Buttons Buttons
	Time    time.Time // host time, used for event timestamps only
}

// View identifies what the display is showing.
type View string

const (
	ViewTime        View = "TIME"
	ViewAlarm       View = "ALARM"
	ViewTemperature View = "TEMPERATURE"
)

// Frame is a render command for the 4-digit display.
type Frame struct {
	View   View
	Digits [4]byte // raw segment bytes, bit 7 = decimal point
	Colon  bool
	// KeepLeadingZeros asks the driver to disable leading-zero blanking.
	// When false the driver keeps whatever blanking it already has.
	KeepLeadingZeros bool
}

// EventType names a state change worth publishing.
type EventType string

const (
	EventArmed         EventType = "ARMED"
	EventDisarmed      EventType = "DISARMED"
	EventAlarmSet      EventType = "ALARM_SET"
	EventClockAdjusted EventType = "CLOCK_ADJUSTED"
	EventAlarmFired    EventType = "ALARM_FIRED"
)

// Event is a state change to be published.
type Event struct {
	Timestamp     time.Time
	Type          EventType
	Alarm         AlarmTime
	Armed         bool
	Sounded       bool // ALARM_FIRED only
	AdjustSeconds int  // CLOCK_ADJUSTED only
}

// Actions are the side effects requested by one tick of Step.
type Actions struct {
	Frame Frame
	// AdjustSeconds is the wall clock change to apply; 0 means none.
	AdjustSeconds int
	// SetAlarm asks for State.Alarm to be written to the RTC alarm register.
	SetAlarm bool
	Events   []Event
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Armed         int
	Disarmed      int
	AlarmSet      int
	ClockAdjusted int
	Fired         int
	Sounded       int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
