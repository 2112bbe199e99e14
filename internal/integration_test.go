package internal

import (
	"context"
	"testing"
	"time"

	"github.com/sweeney/rgbcal/internal/clock"
	"github.com/sweeney/rgbcal/internal/gpio"
	"github.com/sweeney/rgbcal/internal/knob"
	"github.com/sweeney/rgbcal/internal/lcd"
	"github.com/sweeney/rgbcal/internal/logic"
	"github.com/sweeney/rgbcal/internal/mqtt"
	"github.com/sweeney/rgbcal/internal/rgb"
	"github.com/sweeney/rgbcal/internal/state"
	"github.com/sweeney/rgbcal/internal/status"
	"github.com/sweeney/rgbcal/internal/task"
	"github.com/sweeney/rgbcal/internal/ui"
)

type rig struct {
	sampler   *knob.FakeSampler
	buttons   *gpio.FakeButtons
	leds      *gpio.FakeLEDs
	shared    *state.Shared
	publisher *mqtt.FakePublisher
	tracker   *status.Tracker
	lcdOut    chan lcd.Message
	loop      *ui.Loop
	renderer  *rgb.Renderer
	uiClock   *clock.Fake
	rgbClock  *clock.Fake
}

func newRig(t *testing.T, policy logic.Policy, raw int16, buttons ...gpio.Sample) *rig {
	t.Helper()
	r := &rig{
		sampler:   knob.NewFakeSampler(raw),
		buttons:   gpio.NewFakeButtons(buttons...),
		leds:      gpio.NewFakeLEDs(),
		shared:    state.NewDefault(),
		publisher: mqtt.NewFakePublisher(),
		tracker:   status.NewTracker(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), status.Config{}),
		lcdOut:    make(chan lcd.Message, 16),
		uiClock:   &clock.Fake{},
		rgbClock:  &clock.Fake{},
	}
	k, err := knob.New(context.Background(), r.sampler)
	if err != nil {
		t.Fatalf("knob.New: %v", err)
	}
	reporters := ui.Reporters{
		r.tracker,
		mqtt.Reporter{Publisher: r.publisher},
		lcd.NewReporter(r.lcdOut),
	}
	r.loop = ui.New(k, r.buttons, r.shared, reporters, r.uiClock, ui.Config{Policy: policy})
	r.renderer = rgb.New(r.leds, r.shared, r.rgbClock)
	return r
}

// TestIntegrationBlueAdjust walks knob -> input loop -> shared state -> renderer.
func TestIntegrationBlueAdjust(t *testing.T) {
	ctx := context.Background()
	r := newRig(t, logic.PolicyIgnore, 0x7fff, gpio.Sample{A: true})

	if err := r.loop.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.sampler.Set(3900) // level 5
	if err := r.loop.Step(ctx); err != nil {
		t.Fatalf("Step: %v", err)
	}

	want := logic.Triple{15, 15, 5}
	if got := r.shared.Levels(); got != want {
		t.Fatalf("shared levels: got %v, want %v", got, want)
	}

	// Startup report plus one change.
	statuses := r.publisher.Statuses()
	if len(statuses) != 2 {
		t.Fatalf("expected 2 published statuses, got %d", len(statuses))
	}
	if got := statuses[1].Status.Levels; got != want {
		t.Errorf("published levels: got %v, want %v", got, want)
	}
	snap := r.tracker.Snapshot()
	if snap.Changes != 2 || snap.Status.Levels != want {
		t.Errorf("tracker: changes=%d levels=%v", snap.Changes, snap.Status.Levels)
	}
	if len(r.lcdOut) != 2 {
		t.Errorf("lcd messages: got %d, want 2", len(r.lcdOut))
	}

	if err := r.renderer.Frame(ctx); err != nil {
		t.Fatalf("Frame: %v", err)
	}

	tick := logic.FrameTickTime(logic.DefaultFrameRate)
	if tick != 208*time.Microsecond {
		t.Fatalf("tick: got %v, want 208µs", tick)
	}
	wantSleeps := []time.Duration{15 * tick, tick, 15 * tick, tick, 5 * tick, 11 * tick}
	sleeps := r.rgbClock.Sleeps()
	if len(sleeps) != len(wantSleeps) {
		t.Fatalf("sleeps: got %v, want %v", sleeps, wantSleeps)
	}
	for i := range wantSleeps {
		if sleeps[i] != wantSleeps[i] {
			t.Errorf("sleep %d: got %v, want %v", i, sleeps[i], wantSleeps[i])
		}
	}
	for _, ch := range logic.Channels {
		if r.leds.IsOn(ch) {
			t.Errorf("%v left on after frame", ch)
		}
	}
}

func TestIntegrationIdleIsNoop(t *testing.T) {
	ctx := context.Background()
	r := newRig(t, logic.PolicyIgnore, 0x7fff, gpio.Sample{})

	r.loop.Start(ctx)
	r.sampler.Set(0)
	for i := 0; i < 5; i++ {
		r.loop.Step(ctx)
	}

	if got := r.shared.Snapshot(); got != logic.DefaultStatus() {
		t.Errorf("shared: got %v, want defaults", got)
	}
	if got := len(r.publisher.Statuses()); got != 1 {
		t.Errorf("expected only the startup status, got %d", got)
	}
}

func TestIntegrationFrameRateFromKnob(t *testing.T) {
	ctx := context.Background()
	r := newRig(t, logic.PolicyFrameRate, 0x7fff, gpio.Sample{})

	r.loop.Start(ctx)
	r.sampler.Set(0) // level 0 -> 10 fps
	r.loop.Step(ctx)

	if got := r.shared.FrameRate(); got != 10 {
		t.Fatalf("frame rate: got %d, want 10", got)
	}
	r.renderer.Frame(ctx)
	if got, want := r.renderer.TickTime(), 2083*time.Microsecond; got != want {
		t.Errorf("tick: got %v, want %v", got, want)
	}
}

func TestIntegrationJoinShutdown(t *testing.T) {
	r := newRig(t, logic.PolicyIgnore, 3900, gpio.Sample{B: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- task.Join(ctx,
			task.Task{Name: "rgb", Run: r.renderer.Run},
			task.Task{Name: "ui", Run: r.loop.Run},
		)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !r.tracker.Snapshot().Ready {
		if time.Now().After(deadline) {
			t.Fatal("input loop never reported")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Join: got %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Join did not return after cancel")
	}

	for _, ch := range logic.Channels {
		if r.leds.IsOn(ch) {
			t.Errorf("%v left on after shutdown", ch)
		}
	}
	if got := r.shared.Levels(); got != (logic.Triple{5, 5, 5}) {
		t.Errorf("shared levels: got %v, want all 5", got)
	}
}
