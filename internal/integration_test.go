package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/alarm-clock/internal/display"
	"github.com/sweeney/alarm-clock/internal/gpio"
	"github.com/sweeney/alarm-clock/internal/logic"
	"github.com/sweeney/alarm-clock/internal/mqtt"
	"github.com/sweeney/alarm-clock/internal/rtc"
	"github.com/sweeney/alarm-clock/internal/status"
	"github.com/sweeney/alarm-clock/internal/tune"
)

// rig is the whole clock built from fakes, stepped the way the daemon does.
type rig struct {
	rtc     *rtc.FakeClock
	inputs  *gpio.FakeReader
	display *display.FakeDisplay
	player  *tune.FakePlayer
	pub     *mqtt.FakePublisher
	clock   *logic.Clock
	host    time.Time
}

func newRig(wall time.Time, samples []logic.Buttons) *rig {
	host := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return &rig{
		rtc:     rtc.NewFakeClock(wall, 22),
		inputs:  gpio.NewFakeReader(samples),
		display: display.NewFakeDisplay(),
		player:  tune.NewFakePlayer(),
		pub:     mqtt.NewFakePublisher(),
		clock:   logic.NewClock(logic.DefaultGlyphs, host),
		host:    host,
	}
}

// step runs one tick and then lets d of wall time pass on the RTC.
func (r *rig) step(t *testing.T, d time.Duration) {
	t.Helper()
	wall, err := r.rtc.Now()
	if err != nil {
		t.Fatalf("rtc: %v", err)
	}
	temp, _ := r.rtc.Temperature()
	b, err := r.inputs.Read()
	if err != nil {
		t.Fatalf("gpio: %v", err)
	}

	act := r.clock.Process(logic.Input{Reading: logic.NewReading(wall, temp), Buttons: b, Time: r.host})
	if act.AdjustSeconds != 0 {
		r.rtc.Adjust(time.Duration(act.AdjustSeconds) * time.Second)
	}
	if act.SetAlarm {
		a := r.clock.State().Alarm
		r.rtc.SetAlarm(a.Hour, a.Minute)
	}
	r.display.SetColon(act.Frame.Colon)
	if act.Frame.KeepLeadingZeros {
		r.display.SetLeadingZeroBlanking(0)
	}
	r.display.Show(act.Frame.Digits)
	for _, e := range act.Events {
		r.pub.Publish(e)
	}

	if fired, _ := r.rtc.AlarmFired(); fired {
		r.rtc.ClearAlarm()
		sound := logic.ShouldSound(fired, b.Armed)
		r.pub.Publish(r.clock.AlarmFired(r.host, b.Armed, sound))
		if sound {
			r.player.Play(tune.Default())
		}
	}

	r.host = r.host.Add(500 * time.Millisecond)
	r.rtc.Advance(d)
}

func repeat(b logic.Buttons, n int) []logic.Buttons {
	out := make([]logic.Buttons, n)
	for i := range out {
		out[i] = b
	}
	return out
}

// TestIntegrationMorning sets the clock, programs a 06:05 alarm, arms it and
// lets it ring. The RTC gains 10s per tick.
func TestIntegrationMorning(t *testing.T) {
	var samples []logic.Buttons
	// clock 00:00 -> 06:00
	samples = append(samples, repeat(logic.Buttons{Hour: true}, 6)...)
	// alarm 00:00 -> 06:05
	samples = append(samples, repeat(logic.Buttons{Armed: true, Hour: true}, 6)...)
	samples = append(samples, repeat(logic.Buttons{Armed: true, Minute: true}, 5)...)
	// wait past 06:05
	samples = append(samples, repeat(logic.Buttons{Armed: true}, 20)...)

	r := newRig(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), samples)
	for range samples {
		r.step(t, 10*time.Second)
	}

	if len(r.player.Played) != 1 {
		t.Fatalf("expected the alarm to sound once, played %d", len(r.player.Played))
	}
	if r.rtc.AlarmHour != 6 || r.rtc.AlarmMinute != 5 {
		t.Errorf("alarm register: got %02d:%02d, want 06:05", r.rtc.AlarmHour, r.rtc.AlarmMinute)
	}

	counts := r.clock.EventCountsSnapshot()
	want := logic.EventCounts{Armed: 1, AlarmSet: 11, ClockAdjusted: 6, Fired: 1, Sounded: 1}
	if counts != want {
		t.Errorf("counts: got %+v, want %+v", counts, want)
	}

	last := r.pub.Events[len(r.pub.Events)-1]
	if last.Type != logic.EventAlarmFired || !last.Sounded || last.Alarm != (logic.AlarmTime{Hour: 6, Minute: 5}) {
		t.Errorf("last event: got %+v", last)
	}

	// Preview has run out; the wall clock shows with the armed dot.
	g := logic.DefaultGlyphs
	got := r.display.Last()
	if got != [4]byte{g.Digits[0], g.Digits[6], g.Digits[0], g.Digits[6] | g.Dot} {
		t.Errorf("display: got %#v, want 06:06 with armed dot", got)
	}
}

// TestIntegrationDisarmedFireIsSilent lets a programmed alarm fire with the
// switch off.
func TestIntegrationDisarmedFireIsSilent(t *testing.T) {
	samples := append(repeat(logic.Buttons{Armed: true, Minute: true}, 1), repeat(logic.Buttons{}, 10)...)
	r := newRig(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), samples)

	for range samples {
		r.step(t, 10*time.Second)
	}

	if len(r.player.Played) != 0 {
		t.Errorf("expected silence, played %d", len(r.player.Played))
	}
	if r.rtc.ClearCalls != 1 {
		t.Errorf("clear calls: got %d, want 1", r.rtc.ClearCalls)
	}
	types := r.pub.EventTypes()
	want := []logic.EventType{logic.EventArmed, logic.EventAlarmSet, logic.EventDisarmed, logic.EventAlarmFired}
	if len(types) != len(want) {
		t.Fatalf("events: got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, types[i], want[i])
		}
	}
}

func TestIntegrationPayloadFormat(t *testing.T) {
	r := newRig(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), []logic.Buttons{{Armed: true, Hour: true}})
	r.step(t, 0)

	if len(r.pub.Payloads) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(r.pub.Payloads))
	}

	var p mqtt.Payload
	if err := json.Unmarshal(r.pub.Payloads[1], &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if p.Clock.Event != "ALARM_SET" || p.Clock.Alarm != "01:00" || !p.Clock.Armed {
		t.Errorf("unexpected payload: %+v", p.Clock)
	}
	if p.Clock.Timestamp != "2026-01-01T12:00:00Z" {
		t.Errorf("timestamp: got %s", p.Clock.Timestamp)
	}
}

func TestIntegrationStatusEventThroughPublisher(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := status.NewTracker(start, status.Config{PollMs: 500, Broker: "tcp://localhost:1883", Melody: "Reveille"})
	tr.Update(logic.NewReading(start.Add(time.Hour), 19), logic.State{Alarm: logic.AlarmTime{Hour: 7}, ShowAlarmTime: -1}, true, logic.ViewTime, logic.EventCounts{Armed: 1})

	pub := mqtt.NewFakePublisher()
	snap := tr.Snapshot()
	err := pub.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	var parsed status.StatusJSON
	if err := json.Unmarshal(pub.SystemPayloads[0], &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "STARTUP" {
		t.Errorf("event: got %q", parsed.Status.Event)
	}
	if parsed.Status.Clock.Alarm != "07:00" || !parsed.Status.Clock.Armed || parsed.Status.Clock.Time != "2026-01-01 01:00:00" {
		t.Errorf("clock: got %+v", parsed.Status.Clock)
	}
	if parsed.Status.Config.Melody != "Reveille" {
		t.Errorf("melody: got %q", parsed.Status.Config.Melody)
	}
}
