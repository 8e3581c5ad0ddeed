package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Clock         ClockJSON    `json:"clock"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ClockJSON reports what the clock is showing and how the alarm is set.
type ClockJSON struct {
	Time          string `json:"time"`
	TemperatureC  int    `json:"temperature_c"`
	Alarm         string `json:"alarm"`
	Armed         bool   `json:"armed"`
	View          string `json:"view"`
	ShowAlarmTime int    `json:"show_alarm_time"`
	LastFired     string `json:"last_fired,omitempty"`
	LastSounded   bool   `json:"last_sounded,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Armed         int `json:"armed"`
	Disarmed      int `json:"disarmed"`
	AlarmSet      int `json:"alarm_set"`
	ClockAdjusted int `json:"clock_adjusted"`
	Fired         int `json:"fired"`
	Sounded       int `json:"sounded"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	WSBroker    string `json:"ws_broker,omitempty"`
	Melody      string `json:"melody,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	view := string(snap.View)
	if view == "" {
		view = "UNKNOWN"
	}

	clock := ClockJSON{
		Time:          snap.Reading.String(),
		TemperatureC:  snap.Reading.TemperatureC,
		Alarm:         snap.Alarm.String(),
		Armed:         snap.Armed,
		View:          view,
		ShowAlarmTime: snap.ShowAlarmTime,
	}
	if !snap.LastFired.IsZero() {
		clock.LastFired = snap.LastFired.UTC().Format(time.RFC3339)
		clock.LastSounded = snap.LastSounded
	}

	return StatusInner{
		Clock:         clock,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Armed:         snap.Counts.Armed,
			Disarmed:      snap.Counts.Disarmed,
			AlarmSet:      snap.Counts.AlarmSet,
			ClockAdjusted: snap.Counts.ClockAdjusted,
			Fired:         snap.Counts.Fired,
			Sounded:       snap.Counts.Sounded,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			WSBroker:    snap.Config.WSBroker,
			Melody:      snap.Config.Melody,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}

