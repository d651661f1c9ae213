package hardware

import (
	"context"
	"fmt"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/encoder"
	"github.com/umangjain-07/ServingRoboB1/pkg/mcp3008"
	"github.com/umangjain-07/ServingRoboB1/pkg/motor"
	"github.com/umangjain-07/ServingRoboB1/pkg/receiver"
	"github.com/umangjain-07/ServingRoboB1/pkg/reflectance"
	"github.com/umangjain-07/ServingRoboB1/pkg/sound"
	"github.com/umangjain-07/ServingRoboB1/pkg/stepper"
	"github.com/umangjain-07/ServingRoboB1/pkg/ultrasonic"
)

// Readings used by the simulated line sensor, either side of the threshold.
const (
	dummyOnLine  = 200
	dummyOffLine = 900
)

// Dummy is Hardware with every device simulated.  The exported handles let
// tests and the bench tools steer the inputs and inspect the outputs.
type Dummy struct {
	*Hardware

	Left, Right *motor.Recorder
	Stepper     *stepper.Recorder
	Radio       *receiver.Simulator
	Range       *ultrasonic.Fixed
	ADC         mcp3008.Interface
}

func NewDummy(cfg config.Config, sink diag.Sink) *Dummy {
	fmt.Println("DHW: using simulated hardware")
	if sink == nil {
		sink = diag.Discard
	}
	d := &Dummy{
		Left:    &motor.Recorder{Name: "left"},
		Right:   &motor.Recorder{Name: "right"},
		Stepper: &stepper.Recorder{},
		Radio:   receiver.NewSimulator(),
		Range:   ultrasonic.NewFixed(400),
		ADC:     mcp3008.Dummy(),
	}
	n := reflectance.DefaultSensors
	channels := make([]int, n)
	for i := range channels {
		channels[i] = i
		mcp3008.Set(d.ADC, i, dummyOffLine)
	}
	d.Hardware = &Hardware{
		cfg:      cfg,
		sink:     sink,
		base:     drive.New(d.Left, d.Right, sink),
		ir:       reflectance.NewAnalog(n, reflectance.NewADCSource(d.ADC, channels), reflectance.DefaultBlackThreshold, sink),
		rx:       receiver.New(d.Radio.Sources(), sink),
		aux:      d.Stepper,
		odometer: encoder.New(false),
	}
	if cfg.Ultrasonic.Enabled {
		d.ranger = d.Range
	}
	return d
}

// Start skips the screen and speaker, which a bench machine doesn't have.
func (d *Dummy) Start(ctx context.Context) {
	fmt.Println("DHW: Start")
}

func (d *Dummy) PlaySound(c sound.Cue) {
	fmt.Printf("DHW: PlaySound %v\n", c)
}

// SetLine makes the simulated array see r.
func (d *Dummy) SetLine(r reflectance.Reading) {
	for i, on := range r {
		v := dummyOffLine
		if on {
			v = dummyOnLine
		}
		mcp3008.Set(d.ADC, i, v)
	}
}

// Command is what the wheels were last told, as signed duties.
func (d *Dummy) Command() drive.Command {
	return drive.Command{Left: signed(d.Left), Right: signed(d.Right)}
}

func signed(r *motor.Recorder) int {
	dir, speed := r.Last()
	if dir == motor.Backwards {
		return -speed
	}
	return speed
}

var _ Interface = (*Dummy)(nil)
