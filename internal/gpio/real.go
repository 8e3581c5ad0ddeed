//go:build linux

package gpio

import (
	"fmt"

	"github.com/sweeney/alarm-clock/internal/logic"
	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads GPIO from actual hardware using Linux GPIO character device.
type RealReader struct {
	chip   *gpiocdev.Chip
	hour   *gpiocdev.Line
	minute *gpiocdev.Line
	temp   *gpiocdev.Line
	armed  *gpiocdev.Line
}

// NewRealReader requests the four input lines on gpiochip0.
func NewRealReader(pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip}

	// Buttons and switch short the line to ground, so pull up.
	request := func(name string, pin int) (*gpiocdev.Line, error) {
		l, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer("alarm-clock"))
		if err != nil {
			return nil, fmt.Errorf("request %s pin %d: %w", name, pin, err)
		}
		return l, nil
	}

	if r.hour, err = request("hour", pins.Hour); err != nil {
		r.Close()
		return nil, err
	}
	if r.minute, err = request("minute", pins.Minute); err != nil {
		r.Close()
		return nil, err
	}
	if r.temp, err = request("temperature", pins.Temperature); err != nil {
		r.Close()
		return nil, err
	}
	if r.armed, err = request("armed", pins.Armed); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// Read samples all four lines once.
// Inverts raw GPIO: raw low (0) = pressed, raw high (1) = released.
func (r *RealReader) Read() (logic.Buttons, error) {
	var b logic.Buttons
	var err error

	if b.Hour, err = active(r.hour); err != nil {
		return logic.Buttons{}, fmt.Errorf("read hour pin: %w", err)
	}
	if b.Minute, err = active(r.minute); err != nil {
		return logic.Buttons{}, fmt.Errorf("read minute pin: %w", err)
	}
	if b.Temperature, err = active(r.temp); err != nil {
		return logic.Buttons{}, fmt.Errorf("read temperature pin: %w", err)
	}
	if b.Armed, err = active(r.armed); err != nil {
		return logic.Buttons{}, fmt.Errorf("read armed pin: %w", err)
	}

	return b, nil
}

func active(l *gpiocdev.Line) (bool, error) {
	v, err := l.Value()
	if err != nil {
		return false, err
	}
	return v == 0, nil
}

// Close releases GPIO resources.
// Reconfigures pins to input with pull-down (matching Pi boot defaults) before
// closing so nothing is left pulled up across a reboot.
func (r *RealReader) Close() error {
	var errs []error

	for _, l := range []*gpiocdev.Line{r.hour, r.minute, r.temp, r.armed} {
		if l == nil {
			continue
		}
		if err := l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", l.Offset(), err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", l.Offset(), err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
