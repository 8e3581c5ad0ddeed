package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/alarm-clock/internal/logic"
	"github.com/sweeney/alarm-clock/internal/status"
)

func newTestServer(t *testing.T, cfg status.Config) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func defaultConfig() status.Config {
	return status.Config{
		PollMs:      500,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPPort:    ":80",
		Melody:      "Reveille",
	}
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func getBody(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t, defaultConfig())
	reading := logic.ClockReading{Year: 2026, Month: time.March, Day: 4, Hour: 6, Minute: 45, TemperatureC: 19}
	tr.Update(reading, logic.State{Alarm: logic.AlarmTime{Hour: 7, Minute: 30}, ShowAlarmTime: 3}, true, logic.ViewAlarm, logic.EventCounts{AlarmSet: 5, Armed: 2})
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	c := sj.Status.Clock
	if c.Time != "2026-03-04 06:45:00" {
		t.Errorf("Clock.Time: got %q", c.Time)
	}
	if c.Alarm != "07:30" {
		t.Errorf("Clock.Alarm: got %q, want 07:30", c.Alarm)
	}
	if !c.Armed {
		t.Error("expected Armed=true")
	}
	if c.View != "ALARM" || c.ShowAlarmTime != 3 {
		t.Errorf("view: got %q/%d", c.View, c.ShowAlarmTime)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q", sj.Status.MQTT.Broker)
	}
	if sj.Status.Counts.AlarmSet != 5 || sj.Status.Counts.Armed != 2 {
		t.Errorf("unexpected counts: %+v", sj.Status.Counts)
	}
	if sj.Status.Config.PollMs != 500 {
		t.Errorf("Config.PollMs: got %d, want 500", sj.Status.Config.PollMs)
	}
	if sj.Status.Config.Melody != "Reveille" {
		t.Errorf("Config.Melody: got %q", sj.Status.Config.Melody)
	}
}

func TestJSONBeforeFirstTick(t *testing.T) {
	ts, _ := newTestServer(t, defaultConfig())

	sj := getJSON(t, ts.URL+"/index.json")

	if sj.Status.Clock.View != "UNKNOWN" {
		t.Errorf("View before first tick: got %q, want UNKNOWN", sj.Status.Clock.View)
	}
	if sj.Status.Clock.ShowAlarmTime != logic.CountdownInactive {
		t.Errorf("ShowAlarmTime: got %d", sj.Status.Clock.ShowAlarmTime)
	}
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, tr := newTestServer(t, defaultConfig())
	tr.SetNetwork(&status.NetworkInfo{
		Type:   "wifi",
		IP:     "192.168.1.42",
		Status: "connected",
		SSID:   "MyNet",
	})

	sj := getJSON(t, ts.URL+"/index.json")

	if sj.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if sj.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", sj.Status.Network.IP)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t, defaultConfig())
	tr.Update(logic.ClockReading{Year: 2026, Month: 1, Day: 1, Hour: 7}, logic.State{Alarm: logic.AlarmTime{Hour: 6, Minute: 15}}, true, logic.ViewTime, logic.EventCounts{})
	tr.RecordFire(time.Date(2026, 1, 1, 6, 15, 0, 0, time.UTC), true)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	b, _ := io.ReadAll(resp.Body)
	body := string(b)
	for _, want := range []string{"06:15", "armed", "2026-01-01T06:15:00Z (sounded)", "Reveille"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "mqtt.connect") {
		t.Error("live script should be omitted without a websocket broker")
	}
}

func TestHTMLLiveScript(t *testing.T) {
	cfg := defaultConfig()
	cfg.WSBroker = "ws://192.168.1.200:9001"
	ts, _ := newTestServer(t, cfg)

	body := getBody(t, ts.URL+"/")
	if !strings.Contains(body, "mqtt.connect") {
		t.Error("expected live script with websocket broker configured")
	}
	if !strings.Contains(body, "home/alarm-clock/events") {
		t.Error("live script should subscribe to the events topic")
	}
}

func TestHTMLBrokerDisabled(t *testing.T) {
	cfg := defaultConfig()
	cfg.Broker = ""
	ts, _ := newTestServer(t, cfg)

	body := getBody(t, ts.URL+"/")
	if !strings.Contains(body, "<td>disabled</td>") {
		t.Error("expected broker shown as disabled")
	}
	if !strings.Contains(body, "never") {
		t.Error("expected last fired shown as never")
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t, defaultConfig())

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t, defaultConfig())

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t, defaultConfig())

	sj1 := getJSON(t, ts.URL+"/index.json")
	if sj1.Status.Clock.Armed {
		t.Error("expected Armed=false initially")
	}

	tr.Update(logic.ClockReading{}, logic.State{Alarm: logic.AlarmTime{Hour: 9}, ShowAlarmTime: 10}, true, logic.ViewAlarm, logic.EventCounts{Armed: 1})
	tr.SetMQTTConnected(true)

	sj2 := getJSON(t, ts.URL+"/index.json")
	if !sj2.Status.Clock.Armed {
		t.Error("expected Armed=true after update")
	}
	if sj2.Status.Clock.Alarm != "09:00" {
		t.Errorf("Alarm: got %q, want 09:00", sj2.Status.Clock.Alarm)
	}
	if !sj2.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}
