// Package rcmode drives the robot from the RC receiver.  Channel 3 hands
// steering over to the line follower while the remote keeps control of the
// speed, and the link channel gates everything.
package rcmode

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
	"github.com/umangjain-07/ServingRoboB1/pkg/manual"
	"github.com/umangjain-07/ServingRoboB1/pkg/receiver"
	"github.com/umangjain-07/ServingRoboB1/pkg/screen"
	"github.com/umangjain-07/ServingRoboB1/pkg/sound"
)

type RCMode struct {
	name string
	hw   hardware.Interface
	cfg  config.Config

	follower *linefollow.Follower

	cancel         context.CancelFunc
	stopWG         sync.WaitGroup
	joystickEvents chan *joystick.Event
}

func New(name string, hw hardware.Interface, cfg config.Config) *RCMode {
	return &RCMode{
		name:           name,
		hw:             hw,
		cfg:            cfg,
		follower:       linefollow.NewFollower(hw.LineSensor(), hw.Base(), hw.Sink()),
		joystickEvents: make(chan *joystick.Event),
	}
}

func (m *RCMode) Name() string {
	return m.name
}

func (m *RCMode) StartupSound() sound.Cue {
	return sound.CueRCMode
}

func (m *RCMode) Start(ctx context.Context) {
	m.stopWG.Add(1)
	var loopCtx context.Context
	loopCtx, m.cancel = context.WithCancel(ctx)
	go m.loop(loopCtx)
}

func (m *RCMode) Stop() {
	m.cancel()
	m.stopWG.Wait()
}

// Mix scales the remote's speed knob.
type Mix func(speed int) int

func MixAggressive(speed int) int {
	return speed
}

// MixGentle halves the speed for manoeuvring in tight spaces.
func MixGentle(speed int) int {
	return speed / 2
}

// Tick is one control cycle.  It returns what it drove so callers can show it.
type Tick struct {
	Connected bool
	Following bool
	Intent    drive.Intent
	Aux       manual.AuxCommand
}

// Controller is the per-tick logic, kept apart from the loop so it can be
// driven directly.
type Controller struct {
	Hardware     hardware.Interface
	Follower     *linefollow.Follower
	GateOnLink   bool
	MaxRangeCm   float64
	Mix          Mix
	DumpChannels bool

	connected bool
}

func (c *Controller) Step() Tick {
	rx := c.Hardware.Receiver()
	base := c.Hardware.Base()

	// Read first so the link gate judges this tick's sample of channel 6.
	state := rx.Read()
	if c.DumpChannels {
		rx.Dump()
	}

	var t Tick
	t.Connected = rx.CheckConnection()
	if t.Connected != c.connected {
		c.connected = t.Connected
		screen.SetLink(t.Connected)
		if t.Connected {
			c.Hardware.PlaySound(sound.CueConnected)
		} else {
			c.Hardware.PlaySound(sound.CueLinkLost)
		}
	}

	if c.GateOnLink && !t.Connected {
		t.Intent = drive.Stop()
		base.Drive(t.Intent)
		return t
	}

	speed := state.Speed
	if c.Mix != nil {
		speed = c.Mix(speed)
	}
	if r := c.Hardware.Ranger(); r != nil {
		speed = r.SpeedLimit(speed, c.MaxRangeCm)
	}

	if state.Follow {
		t.Following = true
		t.Intent, _ = c.Follower.Step(speed)
		return t
	}

	state.Speed = speed
	t.Intent, t.Aux = manual.FromChannels(state)
	base.Drive(t.Intent)
	manual.Apply(t.Aux, c.Hardware.Aux())
	return t
}

func (m *RCMode) loop(ctx context.Context) {
	defer m.stopWG.Done()
	defer m.hw.StopMotorControl()

	ctrl := &Controller{
		Hardware:     m.hw,
		Follower:     m.follower,
		GateOnLink:   m.cfg.RC.FailsafeGatesDrive,
		MaxRangeCm:   m.cfg.Ultrasonic.MaxDistanceCm,
		Mix:          MixAggressive,
		DumpChannels: m.cfg.RC.DumpChannels,
	}
	if !ctrl.GateOnLink {
		fmt.Println("RC: failsafe gating disabled, driving on stale channels when the link drops")
	}

	ticker := time.NewTicker(time.Second / time.Duration(m.cfg.RC.LoopHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-m.joystickEvents:
			if event.Type == joystick.EventTypeButton && event.Number == joystick.ButtonL2 {
				if event.Value == 1 {
					fmt.Println("RC: Gentle mode")
					ctrl.Mix = MixGentle
				} else {
					fmt.Println("RC: Aggressive mode")
					ctrl.Mix = MixAggressive
				}
			}
		case <-ticker.C:
			t := ctrl.Step()
			hardware.Show(t.Intent)
		}
	}
}

func (m *RCMode) OnJoystickEvent(event *joystick.Event) {
	m.joystickEvents <- event
}
