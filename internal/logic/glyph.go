package logic

// GlyphSet maps characters to 7-segment bytes (bit order dp-g-f-e-d-c-b-a).
type GlyphSet struct {
	Digits  [10]byte
	Dot     byte
	Degree  byte
	Celsius byte
	Blank   byte
}

// DefaultGlyphs is the common-cathode segment table used by HT16K33 and
// TM1637 style modules.
var DefaultGlyphs = GlyphSet{
	Digits: [10]byte{
		0x3F, // 0
		0x06, // 1
		0x5B, // 2
		0x4F, // 3
		0x66, // 4
		0x6D, // 5
		0x7D, // 6
		0x07, // 7
		0x7F, // 8
		0x6F, // 9
	},
	Dot:     0x80,
	Degree:  0x63,
	Celsius: 0x39,
	Blank:   0x00,
}

// Digit returns the glyph for n mod 10.
func (g GlyphSet) Digit(n int) byte {
	n %= 10
	if n < 0 {
		n = -n
	}
	return g.Digits[n]
}
