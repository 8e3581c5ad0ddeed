// Package display drives the 4-digit 7-segment clock display.
// The real implementation is an HT16K33 LED backpack on Linux I2C.
// The fake implementation records what was rendered.
package display

// Display renders raw segment bytes.
type Display interface {
	// Show renders four segment bytes, left to right. Bit 7 is the decimal point.
	Show(digits [4]byte) error

	// SetColon turns the centre colon on or off.
	SetColon(on bool) error

	// SetLeadingZeroBlanking blanks up to count leading "0" digits on later
	// Show calls. The setting persists until changed.
	SetLeadingZeroBlanking(count int)

	// Close blanks the display and releases the bus.
	Close() error
}

// zeroGlyph is the segment pattern for "0".
const zeroGlyph = 0x3F

// blankLeadingZeros applies leading-zero blanking to digits. The last digit
// is never blanked.
func blankLeadingZeros(digits [4]byte, count int) [4]byte {
	for i := 0; i < count && i < len(digits)-1; i++ {
		if digits[i] != zeroGlyph {
			break
		}
		digits[i] = 0
	}
	return digits
}
