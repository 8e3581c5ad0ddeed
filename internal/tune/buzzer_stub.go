//go:build !linux

package tune

import "errors"

// BuzzerPlayer is not available on non-Linux platforms.
type BuzzerPlayer struct{}

// NewBuzzerPlayer returns an error on non-Linux platforms.
func NewBuzzerPlayer(pin int) (*BuzzerPlayer, error) {
	return nil, errors.New("buzzer: not supported on this platform (requires Linux)")
}

// Play is not implemented on non-Linux platforms.
func (p *BuzzerPlayer) Play(m Melody) error {
	return errors.New("buzzer: not supported")
}

// Close is not implemented on non-Linux platforms.
func (p *BuzzerPlayer) Close() error {
	return nil
}
