// Command alarm-clock drives a DS3231/HT16K33 bedside alarm clock and publishes
// alarm events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/alarm-clock/internal/display"
	"github.com/sweeney/alarm-clock/internal/gpio"
	"github.com/sweeney/alarm-clock/internal/logic"
	"github.com/sweeney/alarm-clock/internal/mqtt"
	"github.com/sweeney/alarm-clock/internal/rtc"
	"github.com/sweeney/alarm-clock/internal/status"
	"github.com/sweeney/alarm-clock/internal/tune"
	"github.com/sweeney/alarm-clock/internal/web"
)

// buildTime is the fallback seed for an RTC that lost power.
// Set with -ldflags "-X main.buildTime=2026-10-19T07:00:00".
var buildTime string

type options struct {
	poll       time.Duration
	heartbeat  time.Duration
	broker     string
	wsBroker   string
	httpAddr   string
	pins       gpio.Pins
	buzzerPin  int
	i2cBus     int
	rtcAddr    uint
	dispAddr   uint
	brightness int
	melody     string
	seed       string
	printState bool
}

func main() {
	var o options
	def := gpio.DefaultPins()
	flag.DurationVar(&o.poll, "poll", 500*time.Millisecond, "Tick interval")
	flag.DurationVar(&o.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&o.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)
	flag.StringVar(&o.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.IntVar(&o.pins.Hour, "pin-hour", def.Hour, "BCM pin number for the hour button")
	flag.IntVar(&o.pins.Minute, "pin-minute", def.Minute, "BCM pin number for the minute button")
	flag.IntVar(&o.pins.Temperature, "pin-temp", def.Temperature, "BCM pin number for the temperature button")
	flag.IntVar(&o.pins.Armed, "pin-armed", def.Armed, "BCM pin number for the alarm switch")
	flag.IntVar(&o.buzzerPin, "pin-buzzer", 18, "BCM pin number for the buzzer (hardware PWM)")
	flag.IntVar(&o.i2cBus, "i2c-bus", 1, "I2C bus number")
	flag.UintVar(&o.rtcAddr, "rtc-addr", rtc.DefaultAddress, "DS3231 I2C address")
	flag.UintVar(&o.dispAddr, "display-addr", display.DefaultAddress, "HT16K33 I2C address")
	flag.IntVar(&o.brightness, "brightness", 8, "Display brightness 0-15")
	flag.StringVar(&o.melody, "melody", "", "Alarm melody in RTTTL (empty for the built-in tune)")
	flag.StringVar(&o.seed, "seed", "", "Time to set if the RTC lost power (2006-01-02T15:04:05, local)")
	flag.BoolVar(&o.printState, "print-state", false, "Print current state and exit")

	flag.Parse()

	if o.broker == "" {
		o.wsBroker = ""
	} else {
		o.wsBroker = resolveWSBroker(*wsBroker, o.broker)
	}
	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	melody := tune.Default()
	if o.melody != "" {
		m, err := tune.ParseRTTTL(o.melody)
		if err != nil {
			return fmt.Errorf("parse melody: %w", err)
		}
		melody = m
	}

	// The RTC is the one hard dependency.
	clk, err := rtc.OpenDS3231(o.i2cBus, uint8(o.rtcAddr))
	if err != nil {
		return fmt.Errorf("init rtc: %w", err)
	}
	defer clk.Close()

	inputs, err := gpio.NewRealReader(o.pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer inputs.Close()

	if o.printState {
		return printState(clk, inputs)
	}

	if err := bringUpRTC(clk, o.seed, time.Now()); err != nil {
		return fmt.Errorf("init rtc: %w", err)
	}

	disp, err := display.OpenHT16K33(o.i2cBus, uint8(o.dispAddr), o.brightness)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer disp.Close()

	player, err := tune.NewBuzzerPlayer(o.buzzerPin)
	if err != nil {
		return fmt.Errorf("init buzzer: %w", err)
	}
	defer player.Close()

	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.Discard{}
	if o.broker != "" {
		p, err := mqtt.NewRealPublisher(o.broker)
		if err != nil {
			log.Printf("mqtt disabled: %v", err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      o.poll.Milliseconds(),
		HeartbeatMs: o.heartbeat.Milliseconds(),
		Broker:      o.broker,
		HTTPPort:    o.httpAddr,
		WSBroker:    o.wsBroker,
		Melody:      melody.Name,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	log.Printf("started: poll=%v broker=%q heartbeat=%v melody=%s", o.poll, o.broker, o.heartbeat, melody)

	ticker := time.NewTicker(o.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop{
		rtc:        clk,
		display:    disp,
		inputs:     inputs,
		player:     player,
		melody:     melody,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		heartbeat:  o.heartbeat,
		now:        time.Now,
	}
	return l.run(ticker.C, sigCh)
}

// bringUpRTC reseeds a clock that lost power and puts the alarm registers in
// a known state: alarm 2 off and no stale alarm 1 fire left from before boot.
func bringUpRTC(clk rtc.Clock, seedFlag string, host time.Time) error {
	lost, err := clk.LostPower()
	if err != nil {
		return err
	}
	if lost {
		seed, source := seedTime(seedFlag, buildTime, host)
		log.Printf("rtc lost power, setting clock to %s from %s", seed.Format("2006-01-02 15:04:05"), source)
		if err := clk.Set(seed); err != nil {
			return fmt.Errorf("seed clock: %w", err)
		}
	}

	if err := clk.DisableSecondaryAlarm(); err != nil {
		return fmt.Errorf("disable alarm 2: %w", err)
	}
	fired, err := clk.AlarmFired()
	if err != nil {
		return err
	}
	if fired {
		log.Printf("rtc: clearing alarm left over from before startup")
		if err := clk.ClearAlarm(); err != nil {
			return fmt.Errorf("clear stale alarm: %w", err)
		}
	}
	return nil
}

// seedLayout is the format accepted by -seed and main.buildTime.
const seedLayout = "2006-01-02T15:04:05"

// seedTime picks the time to write into an RTC that lost power: the -seed
// flag, then the build time, then the host clock. The RTC holds local wall
// time, so the result carries the local fields labelled UTC.
func seedTime(seedFlag, build string, host time.Time) (time.Time, string) {
	for _, c := range []struct{ value, source string }{
		{seedFlag, "-seed"},
		{build, "build time"},
	} {
		if c.value == "" {
			continue
		}
		t, err := time.Parse(seedLayout, c.value)
		if err != nil {
			log.Printf("ignoring %s %q: %v", c.source, c.value, err)
			continue
		}
		return t, c.source
	}
	h := host.Local()
	return time.Date(h.Year(), h.Month(), h.Day(), h.Hour(), h.Minute(), h.Second(), 0, time.UTC), "host clock"
}

func printState(clk rtc.Clock, inputs gpio.Reader) error {
	t, err := clk.Now()
	if err != nil {
		return fmt.Errorf("read rtc: %w", err)
	}
	temp, err := clk.Temperature()
	if err != nil {
		return fmt.Errorf("read temperature: %w", err)
	}
	lost, err := clk.LostPower()
	if err != nil {
		return fmt.Errorf("read rtc status: %w", err)
	}
	fired, err := clk.AlarmFired()
	if err != nil {
		return fmt.Errorf("read rtc status: %w", err)
	}
	b, err := inputs.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}

	fmt.Printf("time=%s temp=%dC lost_power=%v alarm_fired=%v\n", logic.NewReading(t, temp), temp, lost, fired)
	fmt.Printf("hour=%s minute=%s temp=%s switch=%s\n",
		levelString(b.Hour), levelString(b.Minute), levelString(b.Temperature), armedString(b.Armed))
	return nil
}

func levelString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

func armedString(armed bool) string {
	if armed {
		return "ARMED"
	}
	return "DISARMED"
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; "off" disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
