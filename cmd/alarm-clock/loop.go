package main

import (
	"log"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/alarm-clock/internal/display"
	"github.com/sweeney/alarm-clock/internal/gpio"
	"github.com/sweeney/alarm-clock/internal/logic"
	"github.com/sweeney/alarm-clock/internal/mqtt"
	"github.com/sweeney/alarm-clock/internal/rtc"
	"github.com/sweeney/alarm-clock/internal/status"
	"github.com/sweeney/alarm-clock/internal/tune"
)

// loop owns the hardware and the controller for the lifetime of the daemon.
// Everything runs on the goroutine that calls run.
type loop struct {
	rtc     rtc.Clock
	display display.Display
	inputs  gpio.Reader
	player  tune.Player
	melody  tune.Melody

	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus // may be nil
	tracker    *status.Tracker       // may be nil

	heartbeat time.Duration
	now       func() time.Time

	clock      *logic.Clock
	lastTemp   int
	lastMinute int
}

// start puts the controller in its power-on state.
func (l *loop) start() {
	l.clock = logic.NewClock(logic.DefaultGlyphs, l.now())
	l.lastMinute = -1
}

// run ticks until a signal arrives.
func (l *loop) run(tick <-chan time.Time, sig <-chan os.Signal) error {
	l.start()

	for {
		select {
		case s := <-sig:
			l.shutdown(s)
			return nil
		case <-tick:
			l.tick()
		}
	}
}

func (l *loop) shutdown(s os.Signal) {
	log.Printf("received %v, shutting down", s)
	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}
	event := mqtt.SystemEvent{
		Timestamp: l.now(),
		Event:     "SHUTDOWN",
		Reason:    signalName,
		Retained:  true,
	}
	if l.tracker != nil {
		l.refreshConnection()
		event.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), "SHUTDOWN", signalName)
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

// tick is one read, decide, render, fire-check cycle.
func (l *loop) tick() {
	t := l.now()

	wall, err := l.rtc.Now()
	if err != nil {
		log.Printf("rtc read error: %v", err)
		return
	}
	temp, err := l.rtc.Temperature()
	if err != nil {
		log.Printf("rtc temperature error: %v", err)
		temp = l.lastTemp
	}
	l.lastTemp = temp
	reading := logic.NewReading(wall, temp)

	buttons, err := l.inputs.Read()
	if err != nil {
		log.Printf("gpio read error: %v", err)
		return
	}

	act := l.clock.Process(logic.Input{Reading: reading, Buttons: buttons, Time: t})
	l.apply(act)
	l.render(act.Frame)
	l.publish(act.Events)
	l.checkAlarm(t, buttons.Armed)

	if l.tracker != nil {
		l.tracker.Update(reading, l.clock.State(), buttons.Armed, act.Frame.View, l.clock.EventCountsSnapshot())
		l.refreshConnection()
	}
	l.checkHeartbeat(t)

	if reading.Minute != l.lastMinute {
		l.lastMinute = reading.Minute
		log.Printf("time=%s temp=%dC", reading, reading.TemperatureC)
	}
}

// apply forwards the controller's requests to the RTC.
func (l *loop) apply(act logic.Actions) {
	if act.AdjustSeconds != 0 {
		if err := l.rtc.Adjust(time.Duration(act.AdjustSeconds) * time.Second); err != nil {
			log.Printf("rtc adjust error: %v", err)
		}
	}
	if act.SetAlarm {
		a := l.clock.State().Alarm
		if err := l.rtc.SetAlarm(a.Hour, a.Minute); err != nil {
			// The in-memory alarm stays; the next edit retries the write.
			log.Printf("warning: alarm %s not written to rtc: %v", a, err)
		}
	}
}

func (l *loop) render(f logic.Frame) {
	if err := l.display.SetColon(f.Colon); err != nil {
		log.Printf("display error: %v", err)
		return
	}
	if f.KeepLeadingZeros {
		l.display.SetLeadingZeroBlanking(0)
	}
	if err := l.display.Show(f.Digits); err != nil {
		log.Printf("display error: %v", err)
	}
}

func (l *loop) publish(events []logic.Event) {
	for _, event := range events {
		log.Printf("event: %s (alarm=%s armed=%v)", event.Type, event.Alarm, event.Armed)
		if err := l.publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
		}
	}
}

// checkAlarm acknowledges a hardware alarm fire and plays the tune if the
// switch is armed. Playback blocks the loop until the melody ends.
func (l *loop) checkAlarm(t time.Time, armed bool) {
	fired, err := l.rtc.AlarmFired()
	if err != nil {
		log.Printf("rtc alarm check error: %v", err)
		return
	}
	if !fired {
		return
	}
	if err := l.rtc.ClearAlarm(); err != nil {
		log.Printf("rtc clear alarm error: %v", err)
	}

	sound := logic.ShouldSound(fired, armed)
	event := l.clock.AlarmFired(t, armed, sound)
	l.publish([]logic.Event{event})
	if l.tracker != nil {
		l.tracker.RecordFire(t, sound)
	}

	if !sound {
		log.Printf("alarm %s fired while disarmed, acknowledged", event.Alarm)
		return
	}
	log.Printf("alarm %s: playing %s; buttons and display are not serviced until it ends", event.Alarm, l.melody)
	if err := l.player.Play(l.melody); err != nil {
		log.Printf("tune error: %v", err)
	}
}

func (l *loop) checkHeartbeat(t time.Time) {
	hb := l.clock.CheckHeartbeat(t, l.heartbeat)
	if hb == nil {
		return
	}
	c := hb.Counts
	log.Printf("heartbeat: uptime=%v armed=%d disarmed=%d alarm_set=%d adjusted=%d fired=%d sounded=%d",
		hb.Uptime, c.Armed, c.Disarmed, c.AlarmSet, c.ClockAdjusted, c.Fired, c.Sounded)

	event := mqtt.SystemEvent{
		Timestamp: hb.Timestamp,
		Event:     "HEARTBEAT",
	}
	if l.tracker != nil {
		// Refresh network info for heartbeat
		if net := readNetworkInfo(); net != nil {
			l.tracker.SetNetwork(net)
		}
		event.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), "HEARTBEAT", "")
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

func (l *loop) refreshConnection() {
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
}
