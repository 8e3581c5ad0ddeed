// Package tune plays alarm melodies on a passive buzzer.
// The real implementation drives hardware PWM through go-rpio.
// The fake implementation records what was played.
package tune

import (
	"fmt"
	"time"
)

// Note is a single tone. Frequency 0 is a rest.
type Note struct {
	Frequency float64 // Hz
	Duration  time.Duration
}

// Melody is a named sequence of notes.
type Melody struct {
	Name  string
	Notes []Note
}

// Length returns the total playing time.
func (m Melody) Length() time.Duration {
	var d time.Duration
	for _, n := range m.Notes {
		d += n.Duration
	}
	return d
}

func (m Melody) String() string {
	return fmt.Sprintf("%s (%d notes, %v)", m.Name, len(m.Notes), m.Length().Round(time.Second))
}

// Player plays melodies.
type Player interface {
	// Play blocks until the melody has finished.
	Play(m Melody) error

	// Close silences the output and releases it.
	Close() error
}

// DefaultRTTTL is the built-in alarm melody.
const DefaultRTTTL = "Reveille:d=8,o=5,b=160:g,c6,4e6,c6,g,c6,4e6,c6,g,c6,e6,c6,e6,g6,4e6,c6,g,c6,4e6,c6,g,c6,e6,c6,g,g,4c6,4p," +
	"g,c6,4e6,c6,g,c6,4e6,c6,g,c6,e6,c6,e6,g6,4e6,c6,g,c6,4e6,c6,g,c6,e6,c6,g,g,2c6"

// Default returns the parsed built-in melody.
func Default() Melody {
	m, err := ParseRTTTL(DefaultRTTTL)
	if err != nil {
		panic(fmt.Sprintf("tune: built-in melody: %v", err))
	}
	return m
}

// toneOutput is the hardware side of a player.
type toneOutput interface {
	Tone(freq float64)
	Silence()
}

// articulation is the fraction of each note that sounds; the rest is a gap
// so repeated notes are heard separately.
const articulation = 0.9

// play drives out through every note of m, blocking in sleep.
func play(out toneOutput, m Melody, sleep func(time.Duration)) {
	defer out.Silence()
	for _, n := range m.Notes {
		if n.Frequency <= 0 {
			out.Silence()
			sleep(n.Duration)
			continue
		}
		on := time.Duration(float64(n.Duration) * articulation)
		out.Tone(n.Frequency)
		sleep(on)
		out.Silence()
		sleep(n.Duration - on)
	}
}
