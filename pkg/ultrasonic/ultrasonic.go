// Package ultrasonic reads an HC-SR04 style rangefinder and uses it to slow
// the robot down near obstacles.
package ultrasonic

import (
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/pulse"
)

const (
	// SpeedOfSoundCmPerUs at room temperature.
	SpeedOfSoundCmPerUs = 0.034

	DefaultMaxDistanceCm = 100.0

	// EchoTimeout is longer than the ~38ms pulse an HC-SR04 returns when
	// nothing is in range.
	EchoTimeout = 60 * time.Millisecond
)

// Trigger fires the ranging burst.
type Trigger interface {
	Fire() error
}

type Sensor struct {
	lock    sync.Mutex
	trigger Trigger
	echo    *pulse.Reader
	sink    diag.Sink
}

func New(trigger Trigger, echo pulse.Source, sink diag.Sink) *Sensor {
	if sink == nil {
		sink = diag.Discard
	}
	r := pulse.NewReader(echo)
	r.SetTimeout(EchoTimeout)
	return &Sensor{
		trigger: trigger,
		echo:    r,
		sink:    sink,
	}
}

// ReadDistanceCm returns +Inf when no echo comes back, which is what an
// empty field of view looks like, and 0 when the trigger can't be fired.
func (s *Sensor) ReadDistanceCm() float64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.trigger.Fire(); err != nil {
		s.sink.Printf("Ultrasonic: trigger failed: %v\n", err)
		return 0
	}
	us := s.echo.RawUs()
	if us == 0 {
		s.sink.Printf("Distance: no echo\n")
		return math.Inf(1)
	}
	d := EchoToCm(us)
	s.sink.Printf("Distance: %.2f cm\n", d)
	return d
}

// SpeedLimit measures and then scales currentSpeed by SpeedLimit.
func (s *Sensor) SpeedLimit(currentSpeed int, maxDistanceCm float64) int {
	return SpeedLimit(currentSpeed, s.ReadDistanceCm(), maxDistanceCm)
}

// EchoToCm converts a round-trip echo time to a one-way distance.
func EchoToCm(us int) float64 {
	return float64(us) * SpeedOfSoundCmPerUs / 2
}

// SpeedLimit scales speed linearly down to zero as distance falls below
// maxDistance.  Distances at or beyond maxDistance, +Inf included, leave it
// alone.
func SpeedLimit(currentSpeed int, distanceCm, maxDistanceCm float64) int {
	if maxDistanceCm <= 0 {
		maxDistanceCm = DefaultMaxDistanceCm
	}
	if distanceCm < maxDistanceCm {
		if distanceCm < 0 {
			distanceCm = 0
		}
		return int(float64(currentSpeed) * (distanceCm / maxDistanceCm))
	}
	return currentSpeed
}

// GPIOTrigger pulses a pin high for 10µs.
type GPIOTrigger struct {
	pin gpio.PinOut
}

func (t *GPIOTrigger) Fire() error {
	if err := t.pin.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(2 * time.Microsecond)
	if err := t.pin.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(10 * time.Microsecond)
	return t.pin.Out(gpio.Low)
}

type Pins struct {
	Trig, Echo string
}

func NewGPIO(pins Pins, sink diag.Sink) (*Sensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	trig := gpioreg.ByName(pins.Trig)
	if trig == nil {
		return nil, errors.Errorf("ultrasonic: no such trigger pin %q", pins.Trig)
	}
	echo, err := pulse.NewGPIO(pins.Echo)
	if err != nil {
		return nil, errors.Wrap(err, "ultrasonic echo")
	}
	return New(&GPIOTrigger{pin: trig}, echo, sink), nil
}

// Fixed is a sensor stand-in that always reports the same distance.
type Fixed struct {
	lock sync.Mutex
	cm   float64
}

func NewFixed(cm float64) *Fixed {
	return &Fixed{cm: cm}
}

func (f *Fixed) Set(cm float64) {
	f.lock.Lock()
	f.cm = cm
	f.lock.Unlock()
}

func (f *Fixed) ReadDistanceCm() float64 {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.cm
}

func (f *Fixed) SpeedLimit(currentSpeed int, maxDistanceCm float64) int {
	return SpeedLimit(currentSpeed, f.ReadDistanceCm(), maxDistanceCm)
}

// Interface is what the control modes need from a rangefinder.
type Interface interface {
	ReadDistanceCm() float64
	SpeedLimit(currentSpeed int, maxDistanceCm float64) int
}

var (
	_ Interface = (*Sensor)(nil)
	_ Interface = (*Fixed)(nil)
)
