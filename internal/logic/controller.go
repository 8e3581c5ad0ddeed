package logic

// Step runs one tick of the clock: the input half (Control) followed by the
// display half (Present). It mutates st and returns the side effects the
// caller must carry out against the hardware.
func Step(st *State, in Input, glyphs GlyphSet) Actions {
	act := Control(st, in)
	act.Frame = Present(st, in, glyphs)
	return act
}

// Control applies the button and switch levels to the controller state.
//
// Buttons are level sampled: a held button repeats on every tick.
func Control(st *State, in Input) Actions {
	var act Actions
	b := in.Buttons

	if !b.Armed {
		if b.Hour {
			act.AdjustSeconds += HourAdjust
		}
		if b.Minute {
			act.AdjustSeconds += MinuteAdjust
		}
		if act.AdjustSeconds != 0 {
			act.Events = append(act.Events, Event{
				Timestamp:     in.Time,
				Type:          EventClockAdjusted,
				Alarm:         st.Alarm,
				AdjustSeconds: act.AdjustSeconds,
			})
		}
		if st.ShowAlarmTime != CountdownInactive {
			act.Events = append(act.Events, Event{
				Timestamp: in.Time,
				Type:      EventDisarmed,
				Alarm:     st.Alarm,
			})
		}
		st.ShowAlarmTime = CountdownInactive
		return act
	}

	if st.ShowAlarmTime == CountdownInactive {
		st.ShowAlarmTime = PreviewTicks
		act.Events = append(act.Events, Event{
			Timestamp: in.Time,
			Type:      EventArmed,
			Alarm:     st.Alarm,
			Armed:     true,
		})
	}

	if b.Hour || b.Minute {
		if b.Hour {
			st.Alarm.Hour = (st.Alarm.Hour + 1) % 24
		}
		if b.Minute {
			st.Alarm.Minute = (st.Alarm.Minute + 1) % 60
		}
		act.SetAlarm = true
		st.ShowAlarmTime = PreviewTicks
		act.Events = append(act.Events, Event{
			Timestamp: in.Time,
			Type:      EventAlarmSet,
			Alarm:     st.Alarm,
			Armed:     true,
		})
	}

	return act
}

// Present picks the render target for this tick. First match wins:
// temperature button, alarm preview, wall clock.
// It consumes one tick of the alarm preview countdown.
func Present(st *State, in Input, glyphs GlyphSet) Frame {
	if in.Buttons.Temperature {
		return TemperatureFrame(in.Reading.TemperatureC, glyphs)
	}

	if st.ShowAlarmTime > 0 {
		st.ShowAlarmTime--
		f := TimeFrame(st.Alarm.Hour, st.Alarm.Minute, false, glyphs)
		f.View = ViewAlarm
		return f
	}

	return TimeFrame(in.Reading.Hour, in.Reading.Minute, in.Buttons.Armed, glyphs)
}

// TimeFrame renders HH:MM with leading zeros. When armed is set the decimal
// point of the last digit is lit.
func TimeFrame(hour, minute int, armed bool, glyphs GlyphSet) Frame {
	f := Frame{
		View: ViewTime,
		Digits: [4]byte{
			glyphs.Digit(hour / 10),
			glyphs.Digit(hour % 10),
			glyphs.Digit(minute / 10),
			glyphs.Digit(minute % 10),
		},
		Colon:            true,
		KeepLeadingZeros: true,
	}
	if armed {
		f.Digits[3] |= glyphs.Dot
	}
	return f
}

// TemperatureFrame renders "NN°C" with the value clamped to 0..99.
func TemperatureFrame(tempC int, glyphs GlyphSet) Frame {
	v := clampTemperature(tempC)
	return Frame{
		View: ViewTemperature,
		Digits: [4]byte{
			glyphs.Digit(v / 10),
			glyphs.Digit(v % 10),
			glyphs.Degree,
			glyphs.Celsius,
		},
	}
}

func clampTemperature(c int) int {
	if c > MaxTemperature {
		return MaxTemperature
	}
	if c < 0 {
		return 0
	}
	return c
}

// ShouldSound reports whether a fired alarm plays the tune. The hardware
// alarm fires regardless of the switch; the switch only gates the sound.
func ShouldSound(fired, armed bool) bool {
	return fired && armed
}
