// Package joymode drives the robot from the gamepad's left stick.
package joymode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/hardware"
	"github.com/umangjain-07/ServingRoboB1/pkg/joystick"
	"github.com/umangjain-07/ServingRoboB1/pkg/manual"
	"github.com/umangjain-07/ServingRoboB1/pkg/sound"
)

// InputTimeout is how long the loop waits for a gamepad event before it
// assumes the pad is gone and stops a moving robot.
const InputTimeout = 500 * time.Millisecond

type JoystickMode struct {
	hw           hardware.Interface
	stick        manual.Joystick
	axes         *joystick.Axes
	inputTimeout time.Duration

	cancel         context.CancelFunc
	stopWG         sync.WaitGroup
	joystickEvents chan *joystick.Event
}

func New(hw hardware.Interface, cfg config.Config) *JoystickMode {
	return &JoystickMode{
		hw: hw,
		stick: manual.Joystick{
			CenterX:  cfg.Joystick.CenterX,
			CenterY:  cfg.Joystick.CenterY,
			DeadZone: cfg.Joystick.DeadZone,
		},
		axes:           joystick.NewAxes(),
		inputTimeout:   InputTimeout,
		joystickEvents: make(chan *joystick.Event),
	}
}

func (m *JoystickMode) Name() string {
	return "Joystick mode"
}

func (m *JoystickMode) StartupSound() sound.Cue {
	return sound.CueJoyMode
}

func (m *JoystickMode) Start(ctx context.Context) {
	m.stopWG.Add(1)
	var loopCtx context.Context
	loopCtx, m.cancel = context.WithCancel(ctx)
	go m.loop(loopCtx)
}

func (m *JoystickMode) Stop() {
	m.cancel()
	m.stopWG.Wait()
}

// HandleEvent updates the stick position and returns the resulting intent.
// Shoulder buttons nudge the aux actuator.
func (m *JoystickMode) HandleEvent(event *joystick.Event) drive.Intent {
	switch {
	case event.Pressed(joystick.ButtonR1):
		manual.Apply(manual.AuxCommand{Direction: manual.AuxRight, Steps: manual.AuxSteps}, m.hw.Aux())
	case event.Pressed(joystick.ButtonL1):
		manual.Apply(manual.AuxCommand{Direction: manual.AuxLeft, Steps: manual.AuxSteps}, m.hw.Aux())
	}
	m.axes.Apply(event)
	in := m.stick.Decide(m.axes.Analog(joystick.AxisLStickX), m.axes.Analog(joystick.AxisLStickY))
	m.hw.Base().Drive(in)
	return in
}

// InputLost centres the stick and stops the wheels.
func (m *JoystickMode) InputLost() drive.Intent {
	m.axes.Reset()
	in := drive.Stop()
	m.hw.Base().Drive(in)
	return in
}

func (m *JoystickMode) loop(ctx context.Context) {
	defer m.stopWG.Done()
	defer m.hw.StopMotorControl()

	moving := false
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-m.joystickEvents:
			in := m.HandleEvent(event)
			moving = !in.IsStop()
			hardware.Show(in)
		case <-time.After(m.inputTimeout):
			if moving {
				fmt.Println("Joystick: no input, stopping")
				hardware.Show(m.InputLost())
				moving = false
			}
		}
	}
}

func (m *JoystickMode) OnJoystickEvent(event *joystick.Event) {
	m.joystickEvents <- event
}
