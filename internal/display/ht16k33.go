package display

import "fmt"

// Bus is a write-only I2C device handle. *i2c.I2C from
// github.com/davecheney/i2c satisfies it.
type Bus interface {
	Write(buf []byte) (int, error)
	Close() error
}

// HT16K33 commands
const (
	cmdOscillatorOn = 0x21
	cmdDisplayOn    = 0x81 // display on, blink off
	cmdBrightness   = 0xE0
	maxBrightness   = 15

	// DefaultAddress is the backpack's address with no jumpers bridged.
	DefaultAddress = 0x70

	// DefaultZeroBlanking blanks a leading zero on the first digit.
	DefaultZeroBlanking = 1
)

// Display RAM addresses on the 4-digit backpack. Position 2 is the colon.
var digitAddr = [4]byte{0x00, 0x02, 0x06, 0x08}

const (
	colonAddr = 0x04
	colonBits = 0x02
)

// HT16K33 drives an Adafruit-style 0.56" 4-digit 7-segment backpack.
type HT16K33 struct {
	bus      Bus
	colon    bool
	blanking int
}

// NewHT16K33 starts the oscillator, sets brightness (0-15), turns the
// display on and clears it.
func NewHT16K33(bus Bus, brightness int) (*HT16K33, error) {
	if brightness < 0 {
		brightness = 0
	}
	if brightness > maxBrightness {
		brightness = maxBrightness
	}

	d := &HT16K33{bus: bus, blanking: DefaultZeroBlanking}
	for _, cmd := range []byte{cmdOscillatorOn, cmdDisplayOn, cmdBrightness | byte(brightness)} {
		if _, err := bus.Write([]byte{cmd}); err != nil {
			return nil, fmt.Errorf("display command %#02x: %w", cmd, err)
		}
	}
	if err := d.write([4]byte{}); err != nil {
		return nil, err
	}
	return d, nil
}

// write sends the whole display RAM in one transaction.
func (d *HT16K33) write(digits [4]byte) error {
	buf := make([]byte, 11)
	buf[0] = 0x00
	for i, addr := range digitAddr {
		buf[1+addr] = digits[i]
	}
	if d.colon {
		buf[1+colonAddr] = colonBits
	}
	if _, err := d.bus.Write(buf); err != nil {
		return fmt.Errorf("write display ram: %w", err)
	}
	return nil
}

// Show renders digits after leading-zero blanking.
func (d *HT16K33) Show(digits [4]byte) error {
	return d.write(blankLeadingZeros(digits, d.blanking))
}

// SetColon updates the colon immediately.
func (d *HT16K33) SetColon(on bool) error {
	d.colon = on
	var v byte
	if on {
		v = colonBits
	}
	if _, err := d.bus.Write([]byte{colonAddr, v}); err != nil {
		return fmt.Errorf("write colon: %w", err)
	}
	return nil
}

// SetLeadingZeroBlanking sets how many leading zeros Show blanks.
func (d *HT16K33) SetLeadingZeroBlanking(count int) {
	d.blanking = count
}

// Close blanks the display and releases the bus.
func (d *HT16K33) Close() error {
	d.colon = false
	werr := d.write([4]byte{})
	if err := d.bus.Close(); err != nil {
		return fmt.Errorf("close display: %w", err)
	}
	return werr
}
