package rtc

import "time"

// FakeClock is a test double for the RTC. It keeps an alarm register and
// fired flag that behave like the hardware: Advance raises Fired when the
// clock passes the programmed alarm minute, whether or not anyone listens.
type FakeClock struct {
	Time  time.Time
	TempC int

	// Alarm register state
	AlarmHour    int
	AlarmMinute  int
	AlarmEnabled bool
	Fired        bool

	SecondaryEnabled bool
	PowerLost        bool

	// Recorded calls
	Adjustments []time.Duration
	AlarmWrites [][2]int
	ClearCalls  int
	SetCalls    []time.Time
	Closed      bool

	// Injected failures
	NowError      error
	TempError     error
	SetAlarmError error
	FiredError    error
}

// NewFakeClock creates a FakeClock showing t.
func NewFakeClock(t time.Time, tempC int) *FakeClock {
	return &FakeClock{Time: t, TempC: tempC, SecondaryEnabled: true}
}

// Now returns the fake time.
func (f *FakeClock) Now() (time.Time, error) {
	if f.NowError != nil {
		return time.Time{}, f.NowError
	}
	return f.Time, nil
}

// Temperature returns TempC.
func (f *FakeClock) Temperature() (int, error) {
	if f.TempError != nil {
		return 0, f.TempError
	}
	return f.TempC, nil
}

// Adjust records delta and moves the clock without firing the alarm.
func (f *FakeClock) Adjust(delta time.Duration) error {
	f.Adjustments = append(f.Adjustments, delta)
	f.Time = f.Time.Add(delta)
	return nil
}

// Set records t, sets the clock and clears PowerLost.
func (f *FakeClock) Set(t time.Time) error {
	f.SetCalls = append(f.SetCalls, t)
	f.Time = t
	f.PowerLost = false
	return nil
}

// SetAlarm records the write. With SetAlarmError set the register is left
// unchanged and the error is returned.
func (f *FakeClock) SetAlarm(hour, minute int) error {
	f.AlarmWrites = append(f.AlarmWrites, [2]int{hour, minute})
	if f.SetAlarmError != nil {
		return f.SetAlarmError
	}
	f.AlarmHour = hour
	f.AlarmMinute = minute
	f.AlarmEnabled = true
	return nil
}

// AlarmFired returns the fired flag.
func (f *FakeClock) AlarmFired() (bool, error) {
	if f.FiredError != nil {
		return false, f.FiredError
	}
	return f.Fired, nil
}

// ClearAlarm clears the fired flag.
func (f *FakeClock) ClearAlarm() error {
	f.ClearCalls++
	f.Fired = false
	return nil
}

// DisableSecondaryAlarm turns alarm 2 off.
func (f *FakeClock) DisableSecondaryAlarm() error {
	f.SecondaryEnabled = false
	return nil
}

// LostPower returns PowerLost.
func (f *FakeClock) LostPower() (bool, error) {
	return f.PowerLost, nil
}

// Close marks the clock as closed.
func (f *FakeClock) Close() error {
	f.Closed = true
	return nil
}

// Advance moves the clock forward by d. If an enabled alarm's hh:mm:00 falls
// in (old, new], Fired is raised.
func (f *FakeClock) Advance(d time.Duration) {
	from := f.Time
	f.Time = f.Time.Add(d)
	if !f.AlarmEnabled {
		return
	}
	m := from.Truncate(time.Minute).Add(time.Minute)
	for ; !m.After(f.Time); m = m.Add(time.Minute) {
		if m.Hour() == f.AlarmHour && m.Minute() == f.AlarmMinute {
			f.Fired = true
			return
		}
	}
}
