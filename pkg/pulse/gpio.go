package pulse

import (
	"time"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// GPIOSource times pulses on a host GPIO using edge interrupts.
type GPIOSource struct {
	pin gpio.PinIO
}

func NewGPIO(pinName string) (*GPIOSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, errors.Errorf("no such GPIO pin %q", pinName)
	}
	if err := pin.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return nil, errors.Wrapf(err, "configure pulse input %s", pinName)
	}
	return &GPIOSource{pin: pin}, nil
}

// HighPulse follows pulseIn(HIGH) semantics: a pulse already in progress is
// skipped, then the next rising edge starts the measurement.
func (g *GPIOSource) HighPulse(timeout time.Duration) time.Duration {
	deadline := time.Now().Add(timeout)

	waitWhile := func(level gpio.Level) bool {
		for g.pin.Read() == level {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return false
			}
			if !g.pin.WaitForEdge(remaining) {
				return false
			}
		}
		return true
	}

	if !waitWhile(gpio.High) {
		return 0
	}
	if !waitWhile(gpio.Low) {
		return 0
	}
	start := time.Now()
	if !waitWhile(gpio.High) {
		return 0
	}
	return time.Since(start)
}

func (g *GPIOSource) Halt() error {
	return g.pin.Halt()
}
