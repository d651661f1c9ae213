// Package pausemode holds the robot still.
package pausemode

import (
	"context"

	"github.com/umangjain-07/ServingRoboB1/pkg/hardware"
	"github.com/umangjain-07/ServingRoboB1/pkg/joystick"
	"github.com/umangjain-07/ServingRoboB1/pkg/screen"
	"github.com/umangjain-07/ServingRoboB1/pkg/sound"
)

type PauseMode struct {
	hw hardware.Interface
}

func New(hw hardware.Interface) *PauseMode {
	return &PauseMode{hw: hw}
}

func (m *PauseMode) Name() string {
	return "Pause mode"
}

func (m *PauseMode) StartupSound() sound.Cue {
	return sound.CuePause
}

func (m *PauseMode) Start(ctx context.Context) {
	m.hw.StopMotorControl()
	screen.SetCommand("paused", 0, screen.MoodSleepy)
}

func (m *PauseMode) Stop() {
}

func (m *PauseMode) OnJoystickEvent(event *joystick.Event) {
}
