// Package linemode follows a line on its own at an operator-tunable speed.
package linemode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/hardware"
	"github.com/umangjain-07/ServingRoboB1/pkg/joystick"
	"github.com/umangjain-07/ServingRoboB1/pkg/linefollow"
	"github.com/umangjain-07/ServingRoboB1/pkg/screen"
	"github.com/umangjain-07/ServingRoboB1/pkg/sound"
	"github.com/umangjain-07/ServingRoboB1/pkg/tunable"
)

const speedStep = 5

type LineMode struct {
	hw  hardware.Interface
	cfg config.Config

	follower  *linefollow.Follower
	tunables  tunable.Tunables
	baseSpeed *tunable.Tunable

	cancel         context.CancelFunc
	stopWG         sync.WaitGroup
	joystickEvents chan *joystick.Event

	// Loop state.
	paused   bool
	lost     bool
	lastStop time.Time
}

func New(hw hardware.Interface, cfg config.Config) *LineMode {
	m := &LineMode{
		hw:             hw,
		cfg:            cfg,
		follower:       linefollow.NewFollower(hw.LineSensor(), hw.Base(), hw.Sink()),
		joystickEvents: make(chan *joystick.Event),
	}
	m.baseSpeed = m.tunables.Create("Base speed", cfg.Line.BaseSpeed, 0, drive.MaxSpeed)
	return m
}

func (m *LineMode) Name() string {
	return "Line mode"
}

func (m *LineMode) StartupSound() sound.Cue {
	return sound.CueLineMode
}

func (m *LineMode) Start(ctx context.Context) {
	m.stopWG.Add(1)
	var loopCtx context.Context
	loopCtx, m.cancel = context.WithCancel(ctx)
	go m.loop(loopCtx)
}

func (m *LineMode) Stop() {
	m.cancel()
	m.stopWG.Wait()
}

// BaseSpeed is the tunable the D-pad adjusts.
func (m *LineMode) BaseSpeed() *tunable.Tunable {
	return m.baseSpeed
}

// Step runs one follow cycle.
func (m *LineMode) Step() drive.Intent {
	if m.paused {
		m.hw.Base().Stop()
		return drive.Stop()
	}
	speed := m.baseSpeed.Get()
	if r := m.hw.Ranger(); r != nil {
		speed = r.SpeedLimit(speed, m.cfg.Ultrasonic.MaxDistanceCm)
	}
	d, _ := m.follower.Step(speed)

	lost := d.IsStop()
	if lost && !m.lost {
		m.hw.PlaySound(sound.CueLineLost)
		screen.SetNotice("NO LINE", screen.LevelErr)
	} else if !lost && m.lost {
		screen.ClearNotice("NO LINE")
	}
	m.lost = lost
	return d
}

// HandleEvent applies one joystick event to the mode's settings.
func (m *LineMode) HandleEvent(event *joystick.Event) {
	switch event.Type {
	case joystick.EventTypeAxis:
		if event.Number == joystick.AxisDPadY && event.Value != 0 {
			// Up is negative on the pad.
			if event.Value < 0 {
				m.baseSpeed.Add(speedStep)
			} else {
				m.baseSpeed.Add(-speedStep)
			}
		}
	case joystick.EventTypeButton:
		if event.Value != 1 {
			return
		}
		switch event.Number {
		case joystick.ButtonCross:
			m.paused = !m.paused
			fmt.Println("Line: paused =", m.paused)
		case joystick.ButtonTriangle:
			m.hw.LineSensor().Debug()
		}
	}
}

func (m *LineMode) loop(ctx context.Context) {
	defer m.stopWG.Done()
	defer m.hw.StopMotorControl()
	defer screen.ClearNotice("NO LINE")

	m.lost = false
	ticker := time.NewTicker(time.Second / time.Duration(m.cfg.Line.LoopHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-m.joystickEvents:
			m.HandleEvent(event)
		case <-ticker.C:
			hardware.Show(m.Step())
		}
	}
}

func (m *LineMode) OnJoystickEvent(event *joystick.Event) {
	m.joystickEvents <- event
}
