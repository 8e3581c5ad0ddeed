package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sweeney/alarm-clock/internal/logic"
)

var (
	_ Publisher        = (*RealPublisher)(nil)
	_ Publisher        = (*FakePublisher)(nil)
	_ Publisher        = Discard{}
	_ ConnectionStatus = (*RealPublisher)(nil)
	_ ConnectionStatus = (*FakePublisher)(nil)
	_ ConnectionStatus = Discard{}
)

func TestFormatPayload(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 2, 6, 45, 12, 0, time.UTC),
		Type:      logic.EventAlarmSet,
		Alarm:     logic.AlarmTime{Hour: 7, Minute: 5},
		Armed:     true,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if _, err := uuid.Parse(parsed.Clock.ID); err != nil {
		t.Errorf("id is not a UUID: %q", parsed.Clock.ID)
	}
	if parsed.Clock.Timestamp != "2026-02-02T06:45:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Clock.Timestamp)
	}
	if parsed.Clock.Event != "ALARM_SET" {
		t.Errorf("unexpected event: %s", parsed.Clock.Event)
	}
	if parsed.Clock.Alarm != "07:05" {
		t.Errorf("unexpected alarm: %s", parsed.Clock.Alarm)
	}
	if !parsed.Clock.Armed {
		t.Error("expected armed=true")
	}
}

func TestFormatPayloadUniqueIDs(t *testing.T) {
	event := logic.Event{Timestamp: time.Now(), Type: logic.EventArmed}
	a, _ := FormatPayload(event)
	b, _ := FormatPayload(event)

	var pa, pb Payload
	json.Unmarshal(a, &pa)
	json.Unmarshal(b, &pb)
	if pa.Clock.ID == pb.Clock.ID {
		t.Errorf("two payloads share id %s", pa.Clock.ID)
	}
}

func TestFormatPayloadAllEventTypes(t *testing.T) {
	tests := []struct {
		event       logic.Event
		wantEvent   string
		wantSounded bool
		wantAdjust  int
	}{
		{logic.Event{Type: logic.EventArmed, Armed: true}, "ARMED", false, 0},
		{logic.Event{Type: logic.EventDisarmed}, "DISARMED", false, 0},
		{logic.Event{Type: logic.EventAlarmSet, Armed: true}, "ALARM_SET", false, 0},
		{logic.Event{Type: logic.EventClockAdjusted, AdjustSeconds: 3660}, "CLOCK_ADJUSTED", false, 3660},
		{logic.Event{Type: logic.EventAlarmFired, Armed: true, Sounded: true}, "ALARM_FIRED", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.wantEvent, func(t *testing.T) {
			payload, err := FormatPayload(tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if parsed.Clock.Event != tt.wantEvent {
				t.Errorf("event: got %s, want %s", parsed.Clock.Event, tt.wantEvent)
			}
			if parsed.Clock.Sounded != tt.wantSounded {
				t.Errorf("sounded: got %v, want %v", parsed.Clock.Sounded, tt.wantSounded)
			}
			if parsed.Clock.AdjustSeconds != tt.wantAdjust {
				t.Errorf("adjust_seconds: got %d, want %d", parsed.Clock.AdjustSeconds, tt.wantAdjust)
			}
		})
	}
}

func TestFormatPayloadOmitsZeroFields(t *testing.T) {
	payload, err := FormatPayload(logic.Event{Timestamp: time.Now(), Type: logic.EventArmed, Armed: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	clock := parsed["clock"]
	if _, ok := clock["sounded"]; ok {
		t.Error("sounded should be omitted when false")
	}
	if _, ok := clock["adjust_seconds"]; ok {
		t.Error("adjust_seconds should be omitted when zero")
	}
	if _, ok := clock["armed"]; !ok {
		t.Error("armed is always present")
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 2, 8, 0, 0, 0, loc),
		Type:      logic.EventAlarmFired,
	}

	payload, _ := FormatPayload(event)
	var parsed Payload
	json.Unmarshal(payload, &parsed)

	if parsed.Clock.Timestamp != "2026-02-02T06:00:00Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Clock.Timestamp)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "home/alarm-clock/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "home/alarm-clock/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadReconnected(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		Event:     "RECONNECTED",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T14:30:00Z","event":"RECONNECTED"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"system":{"event":"STARTUP","clock":{"alarm":"07:30"}}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "ignored", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload not returned verbatim: %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	events := []logic.Event{
		{Timestamp: time.Now(), Type: logic.EventArmed, Armed: true},
		{Timestamp: time.Now(), Type: logic.EventAlarmSet, Alarm: logic.AlarmTime{Hour: 8, Minute: 30}, Armed: true},
		{Timestamp: time.Now(), Type: logic.EventDisarmed},
	}
	for _, e := range events {
		if err := f.Publish(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := []logic.EventType{logic.EventArmed, logic.EventAlarmSet, logic.EventDisarmed}
	got := f.EventTypes()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if len(f.Payloads) != 3 {
		t.Errorf("expected 3 payloads, got %d", len(f.Payloads))
	}
	if f.Events[1].Alarm != (logic.AlarmTime{Hour: 8, Minute: 30}) {
		t.Errorf("alarm not preserved: %v", f.Events[1].Alarm)
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker gone")
	f.PublishSystemError = errors.New("broker gone")

	if err := f.Publish(logic.Event{Type: logic.EventArmed}); err == nil {
		t.Error("expected publish error")
	}
	if err := f.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err == nil {
		t.Error("expected publish system error")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherSystemAndReset(t *testing.T) {
	f := NewFakePublisher()
	f.Connected = true

	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true})
	f.Publish(logic.Event{Type: logic.EventArmed})
	f.Close()

	if len(f.SystemEvents) != 1 || !f.SystemEvents[0].Retained {
		t.Fatalf("system event not recorded with retained flag: %+v", f.SystemEvents)
	}
	if !f.Closed || !f.IsConnected() {
		t.Error("expected closed and connected")
	}

	f.Reset()
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("reset should clear recorded events")
	}
	if f.Closed || f.IsConnected() {
		t.Error("reset should clear flags")
	}

	f.Publish(logic.Event{Type: logic.EventDisarmed})
	if len(f.Events) != 1 {
		t.Errorf("expected publisher reusable after reset, got %d events", len(f.Events))
	}
}

func TestDiscard(t *testing.T) {
	var d Discard
	if err := d.Publish(logic.Event{Type: logic.EventArmed}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := d.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if d.IsConnected() {
		t.Error("discard is never connected")
	}
	if err := d.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
