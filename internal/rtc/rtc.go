// Package rtc provides the battery-backed real-time clock with hardware
// abstraction. The real implementation drives a DS3231 over Linux I2C.
// The fake implementation allows testing without hardware.
//
// The RTC keeps local wall-clock time. Times returned by Now carry the UTC
// location but their fields are the wall-clock fields.
package rtc

import "time"

// Clock is the RTC as seen by the alarm clock controller.
type Clock interface {
	// Now returns the current wall-clock time, to the second.
	Now() (time.Time, error)

	// Temperature returns the die temperature in whole degrees Celsius.
	Temperature() (int, error)

	// Adjust moves the clock by delta.
	Adjust(delta time.Duration) error

	// Set sets the clock and clears the power-loss flag.
	Set(t time.Time) error

	// SetAlarm programs alarm 1 to fire daily at hour:minute:00 and enables it.
	SetAlarm(hour, minute int) error

	// AlarmFired reports whether alarm 1 has fired and not been cleared.
	AlarmFired() (bool, error)

	// ClearAlarm clears the alarm 1 fired flag. Clearing an unfired alarm
	// is a no-op.
	ClearAlarm() error

	// DisableSecondaryAlarm turns alarm 2 off and clears its flag.
	DisableSecondaryAlarm() error

	// LostPower reports whether the oscillator stopped since the clock
	// was last set (battery flat or removed).
	LostPower() (bool, error)

	// Close releases the bus.
	Close() error
}

// StatusErr is an error carrying a Status code.
type StatusErr struct {
	Status  Status
	Message string
}

func (se StatusErr) Error() string {
	return se.Message
}

// Status is used for error reporting - see StatusErr.
type Status int

// Error codes
const (
	BadTime Status = iota + 1
	InvalidAlarm
	FailedToReadClock
	FailedWriteToClock
	NotDetected
)

// DefaultAddress is the fixed I2C address of the DS3231.
const DefaultAddress = 0x68
