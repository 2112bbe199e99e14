// Command rgbcal drives an RGB LED with software PWM. A potentiometer sets
// the level and two buttons choose which channel it applies to.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/sweeney/rgbcal/internal/ads1115"
	"github.com/sweeney/rgbcal/internal/clock"
	"github.com/sweeney/rgbcal/internal/gpio"
	"github.com/sweeney/rgbcal/internal/i2cbus"
	"github.com/sweeney/rgbcal/internal/knob"
	"github.com/sweeney/rgbcal/internal/lcd"
	"github.com/sweeney/rgbcal/internal/logic"
	"github.com/sweeney/rgbcal/internal/mqtt"
	"github.com/sweeney/rgbcal/internal/rgb"
	"github.com/sweeney/rgbcal/internal/state"
	"github.com/sweeney/rgbcal/internal/status"
	"github.com/sweeney/rgbcal/internal/task"
	"github.com/sweeney/rgbcal/internal/ui"
	"github.com/sweeney/rgbcal/internal/web"
)

type config struct {
	chip       string
	pins       [3]int
	pinA       int
	pinB       int
	i2cDev     string
	adcAddr    uint8
	lcdAddr    uint8
	frameRate  int
	poll       time.Duration
	idle       logic.Policy
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	printState bool
}

func parseFlags(args []string) (config, error) {
	var cfg config
	var idle string

	fs := pflag.NewFlagSet("rgbcal", pflag.ContinueOnError)
	fs.StringVar(&cfg.chip, "chip", gpio.DefaultChip, "GPIO character device")
	fs.IntVar(&cfg.pins[logic.Red], "pin-red", gpio.DefaultPinRed, "BCM pin number for the red LED")
	fs.IntVar(&cfg.pins[logic.Green], "pin-green", gpio.DefaultPinGreen, "BCM pin number for the green LED")
	fs.IntVar(&cfg.pins[logic.Blue], "pin-blue", gpio.DefaultPinBlue, "BCM pin number for the blue LED")
	fs.IntVar(&cfg.pinA, "pin-a", gpio.DefaultPinButtonA, "BCM pin number for button A")
	fs.IntVar(&cfg.pinB, "pin-b", gpio.DefaultPinButtonB, "BCM pin number for button B")
	fs.StringVar(&cfg.i2cDev, "i2c", i2cbus.DefaultDevice, "I2C bus device")
	fs.Uint8Var(&cfg.adcAddr, "adc-addr", ads1115.DefaultAddress, "ADS1115 I2C address")
	fs.Uint8Var(&cfg.lcdAddr, "lcd-addr", lcd.DefaultAddress, "HD44780 I2C address (0 to disable)")
	fs.IntVar(&cfg.frameRate, "frame-rate", int(logic.DefaultFrameRate), "Initial PWM frame rate in frames per second")
	fs.DurationVar(&cfg.poll, "poll", ui.DefaultPeriod, "Knob and button polling interval")
	fs.StringVar(&idle, "idle", string(logic.PolicyIgnore), `What the knob does with no button held ("ignore" or "frame-rate")`)
	fs.StringVar(&cfg.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	fs.DurationVar(&cfg.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	fs.StringVar(&cfg.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	fs.BoolVar(&cfg.printState, "print-state", false, "Print current knob and button state and exit")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	policy, err := logic.ParsePolicy(idle)
	if err != nil {
		return config{}, err
	}
	cfg.idle = policy

	if cfg.frameRate <= 0 {
		return config{}, fmt.Errorf("--frame-rate must be positive, got %d", cfg.frameRate)
	}
	if cfg.poll <= 0 {
		return config{}, fmt.Errorf("--poll must be positive, got %v", cfg.poll)
	}
	if cfg.heartbeat < 0 {
		return config{}, fmt.Errorf("--heartbeat must not be negative, got %v", cfg.heartbeat)
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// hardware is everything supervise drives. A nil display or publisher
// disables that sink.
type hardware struct {
	leds      gpio.LEDs
	buttons   gpio.Buttons
	sampler   knob.Sampler
	display   lcd.Display
	publisher mqtt.Publisher
	sleeper   clock.Sleeper
	now       func() time.Time
}

func run(cfg config) (err error) {
	bus := i2cbus.Open(cfg.i2cDev)
	defer func() { err = multierr.Append(err, bus.Close()) }()

	adc := ads1115.New(bus, clock.Real{})
	adc.Address = uint16(cfg.adcAddr)
	adc.Configure(ads1115.Config{})

	buttons, err := gpio.NewRealButtons(cfg.chip, cfg.pinA, cfg.pinB)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	if cfg.printState {
		return printState(context.Background(), adc, buttons)
	}

	leds, err := gpio.NewRealLEDs(cfg.chip, cfg.pins)
	if err != nil {
		return fmt.Errorf("init leds: %w", err)
	}
	defer leds.Close()

	hw := hardware{
		leds:    leds,
		buttons: buttons,
		sampler: adc,
		sleeper: clock.Real{},
		now:     time.Now,
	}

	if cfg.lcdAddr != 0 {
		display, err := lcd.NewHD44780(bus, cfg.lcdAddr)
		if err != nil {
			// The controller is usable without its display.
			log.Printf("lcd disabled: %v", err)
		} else {
			hw.display = display
		}
	}

	if cfg.broker != "" {
		publisher := mqtt.NewRealPublisher(cfg.broker)
		defer publisher.Close()
		hw.publisher = publisher
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case s := <-sigCh:
			log.Printf("received %v, shutting down", s)
			cancel(signalError{s})
		case <-ctx.Done():
		}
	}()

	return supervise(ctx, cfg, hw)
}

// signalError is the cancellation cause when a signal stops the process.
type signalError struct {
	sig os.Signal
}

func (e signalError) Error() string {
	return "received " + e.sig.String()
}

// shutdownReason names the signal that cancelled ctx, for the SHUTDOWN event.
func shutdownReason(ctx context.Context) string {
	var se signalError
	if !errors.As(context.Cause(ctx), &se) {
		return "UNKNOWN"
	}
	switch se.sig {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func printState(ctx context.Context, sampler knob.Sampler, buttons gpio.Buttons) error {
	k, err := knob.New(ctx, sampler)
	if err != nil {
		return err
	}
	level, err := k.Measure(ctx)
	if err != nil {
		return fmt.Errorf("read knob: %w", err)
	}
	a, b, err := buttons.Read()
	if err != nil {
		return fmt.Errorf("read buttons: %w", err)
	}
	fmt.Printf("knob: %d, A: %s, B: %s\n", level, pressedString(a), pressedString(b))
	return nil
}

func pressedString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

// supervise wires the knob, buttons and LEDs to the renderer and input loop
// and runs them until ctx is cancelled.
func supervise(ctx context.Context, cfg config, hw hardware) error {
	k, err := knob.New(ctx, hw.sampler)
	if err != nil {
		return fmt.Errorf("init knob: %w", err)
	}

	initial := logic.DefaultStatus()
	initial.FrameRate = logic.FrameRate(cfg.frameRate)
	shared := state.New(initial)

	tracker := status.NewTracker(hw.now(), status.Config{
		PollMs:      cfg.poll.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		IdlePolicy:  string(cfg.idle),
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
		LCD:         hw.display != nil,
	})
	refreshMQTT := func() {
		if cs, ok := hw.publisher.(mqtt.ConnectionStatus); ok {
			tracker.SetMQTTConnected(cs.IsConnected())
		}
	}

	reporters := ui.Reporters{ui.LogReporter{}, tracker}
	var extra []task.Task

	if hw.display != nil {
		messages := make(chan lcd.Message, 4)
		reporters = append(reporters, lcd.NewReporter(messages))
		extra = append(extra, task.Task{Name: "lcd", Run: lcd.NewHandler(hw.display, messages).Run})
	}

	if hw.publisher != nil {
		reporters = append(reporters,
			mqtt.Reporter{Publisher: hw.publisher, Now: hw.now},
			ui.ReporterFunc(func(logic.Status) { refreshMQTT() }),
		)
		publishSystem(hw.publisher, tracker, hw.now(), "STARTUP", "")
		if cfg.heartbeat > 0 {
			extra = append(extra, task.Task{Name: "heartbeat", Run: func(ctx context.Context) error {
				for {
					if err := hw.sleeper.Sleep(ctx, cfg.heartbeat); err != nil {
						return err
					}
					refreshMQTT()
					publishSystem(hw.publisher, tracker, hw.now(), "HEARTBEAT", "")
				}
			}})
		}
	}

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	renderer := rgb.New(hw.leds, shared, hw.sleeper)
	loop := ui.New(k, hw.buttons, shared, reporters, hw.sleeper, ui.Config{
		Period:    cfg.poll,
		Policy:    cfg.idle,
		FrameRate: initial.FrameRate,
	})

	log.Printf("started: frame-rate=%d tick=%v poll=%v idle=%s broker=%s heartbeat=%v",
		cfg.frameRate, renderer.TickTime(), cfg.poll, cfg.idle, cfg.broker, cfg.heartbeat)

	tasks := append([]task.Task{
		{Name: "rgb", Run: renderer.Run},
		{Name: "ui", Run: loop.Run},
	}, extra...)
	if err := task.Join(ctx, tasks...); err != nil {
		return err
	}

	if hw.publisher != nil {
		refreshMQTT()
		publishSystem(hw.publisher, tracker, hw.now(), "SHUTDOWN", shutdownReason(ctx))
	}
	return nil
}

func publishSystem(p mqtt.Publisher, tracker *status.Tracker, now time.Time, event, reason string) {
	snap := tracker.Snapshot()
	err := p.PublishSystem(mqtt.SystemEvent{
		Timestamp:  now,
		Event:      event,
		Reason:     reason,
		Retained:   event != "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	})
	if err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
		return
	}
	log.Printf("published %s event", event)
}
