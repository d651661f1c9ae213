package motor

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"

	"github.com/umangjain-07/ServingRoboB1/pkg/clamp"
)

const DefaultPWMFrequency = 1 * physic.KiloHertz

// Interface is one DC motor behind an H-bridge with a direction pin and a
// PWM enable pin.  Speeds are 8-bit duty values and are clamped to 0..255.
type Interface interface {
	Begin() error
	Forward(speed int)
	Backward(speed int)
	Stop()
}

type GPIO struct {
	name string
	pwm  gpio.PinOut
	dir  gpio.PinOut
	freq physic.Frequency
}

func NewGPIO(name, pwmPin, dirPin string) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	pwm := gpioreg.ByName(pwmPin)
	if pwm == nil {
		return nil, errors.Errorf("motor %s: no such PWM pin %q", name, pwmPin)
	}
	dir := gpioreg.ByName(dirPin)
	if dir == nil {
		return nil, errors.Errorf("motor %s: no such direction pin %q", name, dirPin)
	}
	return &GPIO{
		name: name,
		pwm:  pwm,
		dir:  dir,
		freq: DefaultPWMFrequency,
	}, nil
}

func (m *GPIO) Begin() error {
	if err := m.dir.Out(gpio.Low); err != nil {
		return errors.Wrapf(err, "motor %s: direction pin", m.name)
	}
	if err := m.pwm.Out(gpio.Low); err != nil {
		return errors.Wrapf(err, "motor %s: PWM pin", m.name)
	}
	return nil
}

func (m *GPIO) Forward(speed int) {
	m.set(gpio.High, speed)
}

func (m *GPIO) Backward(speed int) {
	m.set(gpio.Low, speed)
}

func (m *GPIO) Stop() {
	if err := m.pwm.Out(gpio.Low); err != nil {
		fmt.Println("Failed to stop motor", m.name, err)
	}
}

func (m *GPIO) set(direction gpio.Level, speed int) {
	if err := m.dir.Out(direction); err != nil {
		fmt.Println("Failed to set motor direction", m.name, err)
		return
	}
	if err := m.pwm.PWM(DutyFor(speed), m.freq); err != nil {
		fmt.Println("Failed to set motor speed", m.name, err)
	}
}

// DutyFor converts an 8-bit speed into a periph duty cycle.
func DutyFor(speed int) gpio.Duty {
	return gpio.Duty(int64(clamp.Duty(speed)) * int64(gpio.DutyMax) / 255)
}

type Direction int

const (
	Stopped Direction = iota
	Forwards
	Backwards
)

func (d Direction) String() string {
	switch d {
	case Forwards:
		return "forward"
	case Backwards:
		return "backward"
	default:
		return "stop"
	}
}

// Recorder keeps the last command it was given.  It backs the dummy hardware
// and the tests.
type Recorder struct {
	Name    string
	Verbose bool

	lock  sync.Mutex
	dir   Direction
	speed int
	calls int
}

func Dummy(name string) *Recorder {
	return &Recorder{Name: name, Verbose: true}
}

func (r *Recorder) Begin() error {
	if r.Verbose {
		fmt.Printf("Dummy motor %s: begin\n", r.Name)
	}
	return nil
}

func (r *Recorder) Forward(speed int) {
	r.record(Forwards, clamp.Duty(speed))
}

func (r *Recorder) Backward(speed int) {
	r.record(Backwards, clamp.Duty(speed))
}

func (r *Recorder) Stop() {
	r.record(Stopped, 0)
}

func (r *Recorder) record(dir Direction, speed int) {
	r.lock.Lock()
	r.dir = dir
	r.speed = speed
	r.calls++
	r.lock.Unlock()
	if r.Verbose {
		fmt.Printf("Dummy motor %s: %v @%d\n", r.Name, dir, speed)
	}
}

// Last returns the most recent direction and duty.
func (r *Recorder) Last() (Direction, int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.dir, r.speed
}

func (r *Recorder) Calls() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.calls
}

var (
	_ Interface = (*GPIO)(nil)
	_ Interface = (*Recorder)(nil)
)
