//go:build linux

package rtc

import (
	"fmt"

	"github.com/davecheney/i2c"
)

// OpenDS3231 opens /dev/i2c-<bus> at addr and probes the DS3231.
func OpenDS3231(bus int, addr uint8) (*DS3231, error) {
	dev, err := i2c.New(addr, bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c-%d address %#02x: %w", bus, addr, err)
	}
	d, err := NewDS3231(dev)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return d, nil
}
