package rtc

// toBCD converts 0-99 to packed BCD.
func toBCD(v int) byte {
	return byte(v/10<<4 | v%10)
}

// fromBCD converts packed BCD to int.
func fromBCD(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// hoursFromBCD decodes the hours register in either 12 or 24 hour mode.
func hoursFromBCD(b byte) int {
	if b&0x40 == 0 {
		return fromBCD(b & 0x3F)
	}
	h := fromBCD(b & 0x1F)
	pm := b&0x20 != 0
	switch {
	case h == 12 && !pm:
		return 0
	case h == 12 && pm:
		return 12
	case pm:
		return h + 12
	}
	return h
}
