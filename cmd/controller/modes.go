package main

import (
	"context"
	"fmt"

	"github.com/umangjain-07/ServingRoboB1/pkg/joystick"
	"github.com/umangjain-07/ServingRoboB1/pkg/screen"
	"github.com/umangjain-07/ServingRoboB1/pkg/sound"
)

type Mode interface {
	Name() string
	StartupSound() sound.Cue
	Start(ctx context.Context)
	Stop()
}

type JoystickUser interface {
	OnJoystickEvent(event *joystick.Event)
}

// modeHardware is the part of the hardware the ring touches between modes.
type modeHardware interface {
	StopMotorControl()
	PlaySound(c sound.Cue)
}

// modeRing cycles through the modes with exactly one running at a time.
type modeRing struct {
	hw     modeHardware
	modes  []Mode
	active int
}

// modeNames maps --mode values onto ring positions.
var modeNames = map[string]int{
	"rc":    0,
	"line":  1,
	"joy":   2,
	"pause": 3,
	"test":  4,
}

func newModeRing(hw modeHardware, modes []Mode, first string) *modeRing {
	idx := modeNames[first]
	if idx >= len(modes) {
		idx = 0
	}
	return &modeRing{hw: hw, modes: modes, active: idx}
}

func (r *modeRing) Active() Mode {
	return r.modes[r.active]
}

func (r *modeRing) Start(ctx context.Context) {
	m := r.Active()
	fmt.Printf("----- %s -----\n", m.Name())
	screen.SetMode(m.Name())
	m.Start(ctx)
}

// Switch stops the active mode, zeroes the motors and starts the mode delta
// steps round the ring.
func (r *modeRing) Switch(ctx context.Context, delta int) {
	fmt.Println("Mode switch", delta)
	r.Active().Stop()
	fmt.Println("Mode switch: active mode stopped", delta)
	r.hw.StopMotorControl()
	fmt.Println("Mode switch: motors stopped", delta)

	r.active = ((r.active+delta)%len(r.modes) + len(r.modes)) % len(r.modes)
	r.hw.PlaySound(r.Active().StartupSound())
	r.Start(ctx)
	fmt.Println("Mode switch done.")
}
