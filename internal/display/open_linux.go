//go:build linux

package display

import (
	"fmt"

	"github.com/davecheney/i2c"
)

// OpenHT16K33 opens /dev/i2c-<bus> at addr and initialises the backpack.
func OpenHT16K33(bus int, addr uint8, brightness int) (*HT16K33, error) {
	dev, err := i2c.New(addr, bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c-%d address %#02x: %w", bus, addr, err)
	}
	d, err := NewHT16K33(dev, brightness)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return d, nil
}
