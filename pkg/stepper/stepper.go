// Package stepper drives the auxiliary actuator.  "Left" and "right" are the
// two directions of travel as seen from the driver's seat; what they move is
// up to the robot build.
package stepper

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

const (
	// DefaultPulseDelay is each half of a step pulse.
	DefaultPulseDelay = 156 * time.Microsecond
	dirSettle         = 10 * time.Microsecond
)

type Interface interface {
	MoveLeft(steps int)
	MoveRight(steps int)
}

type Pins struct {
	Step, Dir, Enable string
}

// GPIO bit-bangs a step/dir driver such as an A4988.
type GPIO struct {
	lock       sync.Mutex
	step       gpio.PinOut
	dir        gpio.PinOut
	enable     gpio.PinOut
	pulseDelay time.Duration
	sleep      func(time.Duration)
}

func NewGPIO(pins Pins, pulseDelay time.Duration) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	if pulseDelay <= 0 {
		pulseDelay = DefaultPulseDelay
	}
	s := &GPIO{pulseDelay: pulseDelay, sleep: time.Sleep}
	for _, p := range []struct {
		name string
		pin  *gpio.PinOut
	}{
		{pins.Step, &s.step},
		{pins.Dir, &s.dir},
		{pins.Enable, &s.enable},
	} {
		pin := gpioreg.ByName(p.name)
		if pin == nil {
			return nil, errors.Errorf("stepper: no such pin %q", p.name)
		}
		*p.pin = pin
	}
	return s, nil
}

// Begin enables the driver (active low).
func (s *GPIO) Begin() error {
	if err := s.step.Out(gpio.Low); err != nil {
		return errors.Wrap(err, "stepper step pin")
	}
	if err := s.dir.Out(gpio.Low); err != nil {
		return errors.Wrap(err, "stepper dir pin")
	}
	return errors.Wrap(s.enable.Out(gpio.Low), "stepper enable pin")
}

func (s *GPIO) MoveLeft(steps int) {
	fmt.Println("Stepper Left @", steps)
	s.move(gpio.Low, steps)
}

func (s *GPIO) MoveRight(steps int) {
	fmt.Println("Stepper Right @", steps)
	s.move(gpio.High, steps)
}

func (s *GPIO) move(dir gpio.Level, steps int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.dir.Out(dir); err != nil {
		fmt.Println("Failed to set stepper direction", err)
		return
	}
	s.sleep(dirSettle)
	for i := 0; i < steps; i++ {
		if err := s.step.Out(gpio.High); err != nil {
			fmt.Println("Failed to pulse stepper", err)
			return
		}
		s.sleep(s.pulseDelay)
		_ = s.step.Out(gpio.Low)
		s.sleep(s.pulseDelay)
	}
}

// Recorder tallies moves; it backs the dummy hardware and the tests.
type Recorder struct {
	Verbose bool

	lock     sync.Mutex
	position int
	moves    []int
}

func Dummy() *Recorder {
	return &Recorder{Verbose: true}
}

func (r *Recorder) MoveLeft(steps int) {
	r.record(-steps)
}

func (r *Recorder) MoveRight(steps int) {
	r.record(steps)
}

func (r *Recorder) record(delta int) {
	r.lock.Lock()
	r.position += delta
	r.moves = append(r.moves, delta)
	r.lock.Unlock()
	if r.Verbose {
		fmt.Println("Dummy stepper move", delta)
	}
}

// Position is the net steps moved, right positive.
func (r *Recorder) Position() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.position
}

// Moves returns each signed move in order.
func (r *Recorder) Moves() []int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]int(nil), r.moves...)
}

var (
	_ Interface = (*GPIO)(nil)
	_ Interface = (*Recorder)(nil)
	_ Interface = (*Servo)(nil)
)
