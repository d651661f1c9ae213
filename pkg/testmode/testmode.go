// Package testmode runs a fixed drive pattern so the wiring of the motors,
// the aux actuator and the wheel encoder can be checked by eye.
package testmode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/encoder"
	"github.com/umangjain-07/ServingRoboB1/pkg/hardware"
	"github.com/umangjain-07/ServingRoboB1/pkg/joystick"
	"github.com/umangjain-07/ServingRoboB1/pkg/sound"
)

const (
	patternSpeed = 80
	auxNudge     = 20
)

// Step is one leg of the pattern.
type Step struct {
	Intent drive.Intent
	For    time.Duration
}

// Pattern is forward, back, left, right then a rest.
var Pattern = []Step{
	{drive.Forward(patternSpeed), time.Second},
	{drive.Backward(patternSpeed), time.Second},
	{drive.TurnLeft(patternSpeed), time.Second},
	{drive.TurnRight(patternSpeed), time.Second},
	{drive.Stop(), 2 * time.Second},
}

func New(hw hardware.Interface) *TestMode {
	return &TestMode{
		hw:      hw,
		pattern: Pattern,
	}
}

type TestMode struct {
	hw      hardware.Interface
	pattern []Step
	cancel  context.CancelFunc
	stopWG  sync.WaitGroup
}

func (t *TestMode) Name() string {
	return "Test mode"
}

func (t *TestMode) StartupSound() sound.Cue {
	return sound.CueTestMode
}

func (t *TestMode) Start(ctx context.Context) {
	t.stopWG.Add(1)
	var loopCtx context.Context
	loopCtx, t.cancel = context.WithCancel(ctx)
	go t.loop(loopCtx)
}

func (t *TestMode) Stop() {
	t.cancel()
	t.stopWG.Wait()
}

func (t *TestMode) loop(ctx context.Context) {
	defer t.stopWG.Done()
	defer t.hw.StopMotorControl()

	var tracker *encoder.Tracker
	if odo := t.hw.Odometer(); odo != nil {
		tracker = encoder.NewTracker(odo)
	}
	for ctx.Err() == nil {
		t.RunOnce(ctx, tracker)
	}
}

// RunOnce drives the pattern once, nudging the aux actuator out and back
// during the rest, and returns early if ctx is cancelled.
func (t *TestMode) RunOnce(ctx context.Context, tracker *encoder.Tracker) {
	if tracker != nil {
		tracker.Poll()
		tracker.Zero()
	}
	for _, s := range t.pattern {
		fmt.Println("TestMode:", s.Intent)
		hardware.Show(s.Intent)
		t.hw.Base().Drive(s.Intent)
		if s.Intent.IsStop() {
			if aux := t.hw.Aux(); aux != nil {
				aux.MoveRight(auxNudge)
				aux.MoveLeft(auxNudge)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.For):
		}
		if tracker != nil {
			tracker.Poll()
			fmt.Println("TestMode: encoder steps", tracker.Steps())
		}
	}
}

func (t *TestMode) OnJoystickEvent(event *joystick.Event) {
}
