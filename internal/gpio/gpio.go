// Package gpio provides front panel input reading with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/sweeney/alarm-clock/internal/logic"

// Reader reads the front panel buttons and the armed switch.
type Reader interface {
	// Read returns the logical state of every input.
	// The raw lines are active-low: raw 0 = pressed / armed.
	Read() (logic.Buttons, error)

	// Close releases GPIO resources.
	Close() error
}

// Pins holds the BCM line offsets of the inputs.
type Pins struct {
	Hour        int
	Minute      int
	Temperature int
	Armed       int
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinHour        = 5
	DefaultPinMinute      = 6
	DefaultPinTemperature = 13
	DefaultPinArmed       = 26
)

// DefaultPins returns the default wiring.
func DefaultPins() Pins {
	return Pins{
		Hour:        DefaultPinHour,
		Minute:      DefaultPinMinute,
		Temperature: DefaultPinTemperature,
		Armed:       DefaultPinArmed,
	}
}
