//go:build linux

package tune

import (
	"fmt"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// pwmCycle is the PWM range per tone period. The PWM clock runs at
// frequency*pwmCycle, which keeps it above the 4688 Hz floor for every
// audible note.
const pwmCycle = 64

// BuzzerPlayer plays melodies on a passive buzzer wired to a hardware PWM
// pin (BCM 12, 13, 18 or 19).
type BuzzerPlayer struct {
	pin rpio.Pin
}

// NewBuzzerPlayer maps the GPIO registers and sets pin up for PWM.
func NewBuzzerPlayer(pin int) (*BuzzerPlayer, error) {
	switch pin {
	case 12, 13, 18, 19:
	default:
		return nil, fmt.Errorf("buzzer: pin %d has no hardware PWM", pin)
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("buzzer: open gpio memory: %w", err)
	}
	p := &BuzzerPlayer{pin: rpio.Pin(pin)}
	p.pin.Mode(rpio.Pwm)
	p.Silence()
	return p, nil
}

// Play blocks until every note of m has sounded.
func (p *BuzzerPlayer) Play(m Melody) error {
	play(p, m, time.Sleep)
	return nil
}

// Tone starts a square wave at freq.
func (p *BuzzerPlayer) Tone(freq float64) {
	p.pin.Freq(int(freq * pwmCycle))
	rpio.SetDutyCycle(p.pin, pwmCycle/2, pwmCycle)
}

// Silence holds the output low.
func (p *BuzzerPlayer) Silence() {
	rpio.SetDutyCycle(p.pin, 0, pwmCycle)
}

// Close silences the buzzer, returns the pin to a plain low output and
// unmaps the GPIO registers.
func (p *BuzzerPlayer) Close() error {
	p.Silence()
	p.pin.Output()
	p.pin.Low()
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("buzzer: close gpio memory: %w", err)
	}
	return nil
}
