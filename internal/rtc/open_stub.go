//go:build !linux

package rtc

import "errors"

// OpenDS3231 returns an error on non-Linux platforms.
func OpenDS3231(bus int, addr uint8) (*DS3231, error) {
	return nil, errors.New("rtc: not supported on this platform (requires Linux)")
}
