// Package joystick reads a Linux js device (a DualShock-style pad) and keeps
// the latest stick positions.
package joystick

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// Axis values run from -32767 to 32767.  Up and left are negative on the
// sticks and the D-pad; the triggers rest at -32767.

type EventType uint8

const (
	EventTypeButton EventType = 1
	EventTypeAxis   EventType = 2

	// eventTypeInit is or'ed into the synthetic events the driver sends
	// with each control's starting state.
	eventTypeInit = 0x80
)

// Button numbers as the hid-sony driver reports them.
const (
	ButtonCross    = 0
	ButtonCircle   = 1
	ButtonTriangle = 2
	ButtonSquare   = 3
	ButtonL1       = 4
	ButtonR1       = 5
	ButtonL2       = 6
	ButtonR2       = 7
	ButtonShare    = 8
	ButtonOptions  = 9
	ButtonPS       = 10
	ButtonLStick   = 11
	ButtonRStick   = 12
)

const (
	AxisLStickX = 0
	AxisLStickY = 1
	AxisL2      = 2
	AxisRStickX = 3
	AxisRStickY = 4
	AxisR2      = 5
	AxisDPadX   = 6
	AxisDPadY   = 7
)

func (e EventType) String() string {
	switch e {
	case EventTypeAxis:
		return "axis"
	case EventTypeButton:
		return "button"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

type Joystick struct {
	device io.ReadCloser

	started        bool
	deviceEpoch    uint32
	wallclockEpoch time.Time
}

// rawEvent is struct js_event from linux/joystick.h.
type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

type Event struct {
	Time   time.Time
	Value  int16
	Type   EventType
	Number uint8
}

// Pressed reports whether e is button going down.
func (e *Event) Pressed(button uint8) bool {
	return e.Type == EventTypeButton && e.Number == button && e.Value == 1
}

func (e *Event) String() string {
	return fmt.Sprintf("%v(%v)=%v", e.Type, e.Number, e.Value)
}

func NewJoystick(device string) (*Joystick, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

// New reads js events from any stream; the controller uses a device file.
func New(r io.ReadCloser) *Joystick {
	return &Joystick{
		device: r,
	}
}

// ReadEvent blocks for the next event.  Event times are the driver's
// millisecond stamps rebased onto the wall clock at the first event.
func (j *Joystick) ReadEvent() (*Event, error) {
	var raw rawEvent
	if err := binary.Read(j.device, binary.LittleEndian, &raw); err != nil {
		return nil, err
	}
	if !j.started {
		j.started = true
		j.deviceEpoch = raw.Time
		j.wallclockEpoch = time.Now()
	}
	return raw.event(j.wallclockEpoch, j.deviceEpoch), nil
}

func (r rawEvent) event(wallclockEpoch time.Time, deviceEpoch uint32) *Event {
	return &Event{
		Time:   wallclockEpoch.Add(time.Duration(r.Time-deviceEpoch) * time.Millisecond),
		Value:  r.Value,
		Type:   EventType(r.Type &^ eventTypeInit),
		Number: r.Number,
	}
}

func (j *Joystick) Close() error {
	return j.device.Close()
}
