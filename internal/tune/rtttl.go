package tune

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RTTTL defaults when the header leaves a field out.
const (
	defaultDuration = 4
	defaultOctave   = 6
	defaultBPM      = 63
)

var semitone = map[byte]int{'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11}

// ParseRTTTL parses a Ring Tone Text Transfer Language string such as
// "name:d=4,o=5,b=100:8e6,8d#6,4p,2c.6".
func ParseRTTTL(s string) (Melody, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)
	if len(parts) != 3 {
		return Melody{}, fmt.Errorf("rtttl: want name:defaults:notes, got %d sections", len(parts))
	}

	m := Melody{Name: strings.TrimSpace(parts[0])}
	dur, oct, bpm := defaultDuration, defaultOctave, defaultBPM

	for _, kv := range strings.Split(parts[1], ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return Melody{}, fmt.Errorf("rtttl: bad default %q", kv)
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Melody{}, fmt.Errorf("rtttl: bad default %q: %w", kv, err)
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "d":
			if !validDuration(n) {
				return Melody{}, fmt.Errorf("rtttl: bad default duration %d", n)
			}
			dur = n
		case "o":
			if n < 3 || n > 8 {
				return Melody{}, fmt.Errorf("rtttl: bad default octave %d", n)
			}
			oct = n
		case "b":
			if n <= 0 {
				return Melody{}, fmt.Errorf("rtttl: bad bpm %d", n)
			}
			bpm = n
		default:
			return Melody{}, fmt.Errorf("rtttl: unknown default %q", k)
		}
	}

	whole := 4 * time.Minute / time.Duration(bpm)

	for i, tok := range strings.Split(parts[2], ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		n, err := parseNote(tok, dur, oct, whole)
		if err != nil {
			return Melody{}, fmt.Errorf("rtttl: note %d %q: %w", i+1, tok, err)
		}
		m.Notes = append(m.Notes, n)
	}
	if len(m.Notes) == 0 {
		return Melody{}, fmt.Errorf("rtttl: no notes")
	}
	return m, nil
}

func validDuration(d int) bool {
	switch d {
	case 1, 2, 4, 8, 16, 32:
		return true
	}
	return false
}

// parseNote reads [duration]note[#][.][octave][.].
func parseNote(tok string, dur, oct int, whole time.Duration) (Note, error) {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i > 0 {
		d, _ := strconv.Atoi(tok[:i])
		if !validDuration(d) {
			return Note{}, fmt.Errorf("bad duration %d", d)
		}
		dur = d
	}

	if i >= len(tok) {
		return Note{}, fmt.Errorf("missing pitch")
	}
	pitch := tok[i]
	i++

	rest := pitch == 'p'
	step, ok := semitone[pitch]
	if !ok && !rest {
		return Note{}, fmt.Errorf("bad pitch %q", pitch)
	}

	if i < len(tok) && tok[i] == '#' {
		step++
		i++
	}

	dotted := false
	if i < len(tok) && tok[i] == '.' {
		dotted = true
		i++
	}
	if i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		oct = int(tok[i] - '0')
		i++
	}
	if i < len(tok) && tok[i] == '.' {
		dotted = true
		i++
	}
	if i != len(tok) {
		return Note{}, fmt.Errorf("trailing %q", tok[i:])
	}

	length := whole / time.Duration(dur)
	if dotted {
		length += length / 2
	}

	if rest {
		return Note{Duration: length}, nil
	}
	return Note{Frequency: frequency(oct, step), Duration: length}, nil
}

// frequency returns the equal-tempered pitch, A4 = 440 Hz.
func frequency(octave, step int) float64 {
	midi := (octave+1)*12 + step
	return 440 * math.Pow(2, float64(midi-69)/12)
}
