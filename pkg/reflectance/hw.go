package reflectance

import (
	"fmt"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/umangjain-07/ServingRoboB1/pkg/mcp3008"
)

// ADCSource maps sensor positions onto MCP3008 inputs.
type ADCSource struct {
	adc      mcp3008.Interface
	channels []int
}

func NewADCSource(adc mcp3008.Interface, channels []int) *ADCSource {
	return &ADCSource{adc: adc, channels: channels}
}

func (s *ADCSource) ReadAnalog(sensor int) (int, error) {
	if sensor < 0 || sensor >= len(s.channels) {
		return 0, fmt.Errorf("sensor %d not mapped", sensor)
	}
	return s.adc.ReadChannel(s.channels[sensor])
}

// GPIOSource reads comparator outputs; high means line.
type GPIOSource struct {
	pins []gpio.PinIO
}

func NewGPIOSource(pinNames []string) (*GPIOSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	s := &GPIOSource{}
	for _, name := range pinNames {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, errors.Errorf("no such IR pin %q", name)
		}
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return nil, errors.Wrapf(err, "configure IR pin %s", name)
		}
		s.pins = append(s.pins, p)
	}
	return s, nil
}

func (s *GPIOSource) ReadDigital(sensor int) (bool, error) {
	if sensor < 0 || sensor >= len(s.pins) {
		return false, fmt.Errorf("sensor %d not mapped", sensor)
	}
	return s.pins[sensor].Read() == gpio.High, nil
}

// GPIOPower drives the emitter enable pin high.
type GPIOPower struct {
	pin gpio.PinOut
}

func NewGPIOPower(pinName string) (*GPIOPower, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	p := gpioreg.ByName(pinName)
	if p == nil {
		return nil, errors.Errorf("no such IR power pin %q", pinName)
	}
	return &GPIOPower{pin: p}, nil
}

func (p *GPIOPower) Enable() error {
	return p.pin.Out(gpio.High)
}
