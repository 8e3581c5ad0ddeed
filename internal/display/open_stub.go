//go:build !linux

package display

import "errors"

// OpenHT16K33 returns an error on non-Linux platforms.
func OpenHT16K33(bus int, addr uint8, brightness int) (*HT16K33, error) {
	return nil, errors.New("display: not supported on this platform (requires Linux)")
}
