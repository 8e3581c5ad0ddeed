package rtc

import (
	"fmt"
	"time"
)

// Bus is a register-addressed I2C device handle. *i2c.I2C from
// github.com/davecheney/i2c satisfies it.
type Bus interface {
	Write(buf []byte) (int, error)
	Read(buf []byte) (int, error)
	Close() error
}

// DS3231 registers
const (
	regSeconds  = 0x00
	regAlarm1   = 0x07
	regControl  = 0x0E
	regStatus   = 0x0F
	regTempMSB  = 0x11
	timeRegSize = 7
)

// control and status bits
const (
	ctrlA1IE  = 1 << 0
	ctrlA2IE  = 1 << 1
	ctrlINTCN = 1 << 2
	statA1F   = 1 << 0
	statA2F   = 1 << 1
	statOSF   = 1 << 7

	// alarmMask set on a register means "don't care" for that field.
	alarmMask = 0x80
	century   = 0x80
)

// DS3231 drives a Maxim DS3231 over I2C.
type DS3231 struct {
	bus Bus
}

// NewDS3231 wraps bus and checks a DS3231 answers on it.
func NewDS3231(bus Bus) (*DS3231, error) {
	d := &DS3231{bus: bus}
	if _, err := d.readStatus(); err != nil {
		return nil, StatusErr{Status: NotDetected,
			Message: fmt.Sprintf("rtc not detected: %v", err)}
	}
	return d, nil
}

func (d *DS3231) readReg(reg byte, buf []byte) error {
	if _, err := d.bus.Write([]byte{reg}); err != nil {
		return fmt.Errorf("select register %#02x: %w", reg, err)
	}
	if _, err := d.bus.Read(buf); err != nil {
		return fmt.Errorf("read register %#02x: %w", reg, err)
	}
	return nil
}

func (d *DS3231) writeReg(reg byte, data ...byte) error {
	if _, err := d.bus.Write(append([]byte{reg}, data...)); err != nil {
		return fmt.Errorf("write register %#02x: %w", reg, err)
	}
	return nil
}

func (d *DS3231) readStatus() (byte, error) {
	b := []byte{0}
	if err := d.readReg(regStatus, b); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *DS3231) readControl() (byte, error) {
	b := []byte{0}
	if err := d.readReg(regControl, b); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Now reads the time registers.
func (d *DS3231) Now() (time.Time, error) {
	data := make([]byte, timeRegSize)
	if err := d.readReg(regSeconds, data); err != nil {
		return time.Time{}, StatusErr{Status: FailedToReadClock,
			Message: fmt.Sprintf("unable to read time: %v", err)}
	}

	second := fromBCD(data[0] & 0x7F)
	minute := fromBCD(data[1] & 0x7F)
	hour := hoursFromBCD(data[2])
	day := fromBCD(data[4] & 0x3F)
	month := time.Month(fromBCD(data[5] & 0x1F))
	year := fromBCD(data[6]) + 2000
	if data[5]&century != 0 {
		year += 100
	}

	return time.Date(year, month, day, hour, minute, second, 0, time.UTC), nil
}

// Set writes t's wall-clock fields and clears the oscillator stop flag.
func (d *DS3231) Set(t time.Time) error {
	if t.Year() < 2000 || t.Year() > 2199 {
		return StatusErr{Status: BadTime,
			Message: fmt.Sprintf("year %d out of range", t.Year())}
	}

	year := t.Year() - 2000
	month := toBCD(int(t.Month()))
	if year >= 100 {
		year -= 100
		month |= century
	}
	// DS3231 day-of-week runs 1-7; Monday = 1, Sunday = 7.
	dow := int(t.Weekday())
	if dow == 0 {
		dow = 7
	}

	err := d.writeReg(regSeconds,
		toBCD(t.Second()),
		toBCD(t.Minute()),
		toBCD(t.Hour()),
		toBCD(dow),
		toBCD(t.Day()),
		month,
		toBCD(year),
	)
	if err != nil {
		return StatusErr{Status: FailedWriteToClock,
			Message: fmt.Sprintf("unable to write time: %v", err)}
	}

	status, err := d.readStatus()
	if err != nil {
		return StatusErr{Status: FailedToReadClock,
			Message: fmt.Sprintf("unable to read status byte: %v", err)}
	}
	if err := d.writeReg(regStatus, status&^statOSF); err != nil {
		return StatusErr{Status: FailedWriteToClock,
			Message: fmt.Sprintf("unable to write status byte: %v", err)}
	}
	return nil
}

// Adjust reads the clock, adds delta and writes it back.
func (d *DS3231) Adjust(delta time.Duration) error {
	now, err := d.Now()
	if err != nil {
		return err
	}
	return d.Set(now.Add(delta))
}

// Temperature returns the integer part of the temperature register.
func (d *DS3231) Temperature() (int, error) {
	data := make([]byte, 2)
	if err := d.readReg(regTempMSB, data); err != nil {
		return 0, StatusErr{Status: FailedToReadClock,
			Message: fmt.Sprintf("unable to read temperature: %v", err)}
	}
	return int(int8(data[0])), nil
}

// SetAlarm programs alarm 1 to match hours, minutes and seconds (once a
// day at hour:minute:00), then enables its interrupt. The registers are read
// back; a mismatch means the device rejected the write.
func (d *DS3231) SetAlarm(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return StatusErr{Status: InvalidAlarm,
			Message: fmt.Sprintf("alarm time %02d:%02d out of range", hour, minute)}
	}

	want := []byte{toBCD(0), toBCD(minute), toBCD(hour), alarmMask}
	if err := d.writeReg(regAlarm1, want...); err != nil {
		return StatusErr{Status: FailedWriteToClock,
			Message: fmt.Sprintf("unable to write alarm 1: %v", err)}
	}

	got := make([]byte, len(want))
	if err := d.readReg(regAlarm1, got); err != nil {
		return StatusErr{Status: FailedToReadClock,
			Message: fmt.Sprintf("unable to read back alarm 1: %v", err)}
	}
	for i := range want {
		if got[i] != want[i] {
			return StatusErr{Status: FailedWriteToClock,
				Message: fmt.Sprintf("alarm 1 register %d: wrote %#02x, read %#02x", i, want[i], got[i])}
		}
	}

	control, err := d.readControl()
	if err != nil {
		return StatusErr{Status: FailedToReadClock,
			Message: fmt.Sprintf("unable to read control byte: %v", err)}
	}
	if err := d.writeReg(regControl, control|ctrlINTCN|ctrlA1IE); err != nil {
		return StatusErr{Status: FailedWriteToClock,
			Message: fmt.Sprintf("unable to write control byte: %v", err)}
	}
	return nil
}

// AlarmFired reports the alarm 1 flag.
func (d *DS3231) AlarmFired() (bool, error) {
	status, err := d.readStatus()
	if err != nil {
		return false, StatusErr{Status: FailedToReadClock,
			Message: fmt.Sprintf("unable to read status byte: %v", err)}
	}
	return status&statA1F != 0, nil
}

// ClearAlarm clears the alarm 1 flag. Nothing is written if it is not set.
func (d *DS3231) ClearAlarm() error {
	return d.clearFlags(statA1F)
}

func (d *DS3231) clearFlags(mask byte) error {
	status, err := d.readStatus()
	if err != nil {
		return StatusErr{Status: FailedToReadClock,
			Message: fmt.Sprintf("unable to read status byte: %v", err)}
	}
	if status&mask == 0 {
		return nil
	}
	if err := d.writeReg(regStatus, status&^mask); err != nil {
		return StatusErr{Status: FailedWriteToClock,
			Message: fmt.Sprintf("unable to write status byte: %v", err)}
	}
	return nil
}

// DisableSecondaryAlarm clears the alarm 2 interrupt enable and its flag.
func (d *DS3231) DisableSecondaryAlarm() error {
	control, err := d.readControl()
	if err != nil {
		return StatusErr{Status: FailedToReadClock,
			Message: fmt.Sprintf("unable to read control byte: %v", err)}
	}
	if err := d.writeReg(regControl, control&^ctrlA2IE); err != nil {
		return StatusErr{Status: FailedWriteToClock,
			Message: fmt.Sprintf("unable to write control byte: %v", err)}
	}
	return d.clearFlags(statA2F)
}

// LostPower reports the oscillator stop flag.
func (d *DS3231) LostPower() (bool, error) {
	status, err := d.readStatus()
	if err != nil {
		return false, StatusErr{Status: FailedToReadClock,
			Message: fmt.Sprintf("unable to read status byte: %v", err)}
	}
	return status&statOSF != 0, nil
}

// Close releases the bus.
func (d *DS3231) Close() error {
	return d.bus.Close()
}
