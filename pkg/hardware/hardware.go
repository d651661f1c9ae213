package hardware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/encoder"
	"github.com/umangjain-07/ServingRoboB1/pkg/mcp3008"
	"github.com/umangjain-07/ServingRoboB1/pkg/motor"
	"github.com/umangjain-07/ServingRoboB1/pkg/receiver"
	"github.com/umangjain-07/ServingRoboB1/pkg/reflectance"
	"github.com/umangjain-07/ServingRoboB1/pkg/screen"
	"github.com/umangjain-07/ServingRoboB1/pkg/sound"
	"github.com/umangjain-07/ServingRoboB1/pkg/stepper"
	"github.com/umangjain-07/ServingRoboB1/pkg/ultrasonic"
)

type Hardware struct {
	cfg  config.Config
	sink diag.Sink

	base     *drive.Base
	ir       *reflectance.Array
	rx       *receiver.Decoder
	aux      stepper.Interface
	ranger   ultrasonic.Interface
	odometer *encoder.Encoder

	// Start hooks and Shutdown closers registered by the constructors.
	starters []func(ctx context.Context, wg *sync.WaitGroup)
	closers  []func() error

	sounds *sound.Player

	motorLock sync.Mutex
	loops     sync.WaitGroup
}

var _ Interface = (*Hardware)(nil)

// New opens every device the config names.  On failure the devices opened so
// far are closed again.
func New(cfg config.Config, sink diag.Sink) (_ *Hardware, err error) {
	if sink == nil {
		sink = diag.Discard
	}
	h := &Hardware{cfg: cfg, sink: sink}
	defer func() {
		if err != nil {
			h.closeAll()
		}
	}()

	left, err := motor.NewGPIO("left", cfg.Motors.Left.PWM, cfg.Motors.Left.Dir)
	if err != nil {
		return nil, err
	}
	right, err := motor.NewGPIO("right", cfg.Motors.Right.PWM, cfg.Motors.Right.Dir)
	if err != nil {
		return nil, err
	}
	h.base = drive.New(left, right, sink)

	if h.ir, err = h.openLineSensor(); err != nil {
		return nil, errors.Wrap(err, "line sensor")
	}

	var pins [receiver.NumChannels]string
	copy(pins[:], cfg.Receiver.Pins)
	if h.rx, err = receiver.NewGPIO(pins, sink); err != nil {
		return nil, err
	}

	if h.aux, err = h.openAux(); err != nil {
		return nil, errors.Wrap(err, "aux actuator")
	}

	if cfg.Ultrasonic.Enabled {
		if h.ranger, err = ultrasonic.NewGPIO(ultrasonic.Pins{Trig: cfg.Ultrasonic.Trig, Echo: cfg.Ultrasonic.Echo}, sink); err != nil {
			return nil, err
		}
	}

	if cfg.Encoder.Enabled {
		enc, err := encoder.NewGPIO(encoder.Pins{Clk: cfg.Encoder.Clk, Dt: cfg.Encoder.Dt})
		if err != nil {
			return nil, err
		}
		h.odometer = enc.Encoder
		h.starters = append(h.starters, enc.Watch)
	}

	if err := h.begin(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Hardware) openLineSensor() (*reflectance.Array, error) {
	rc := h.cfg.Reflectance
	var ir *reflectance.Array
	switch rc.Mode {
	case "digital":
		src, err := reflectance.NewGPIOSource(rc.Pins)
		if err != nil {
			return nil, err
		}
		ir = reflectance.NewDigital(len(rc.Pins), src, h.sink)
	default:
		adc, err := mcp3008.New(rc.SPIDevice)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, adc.Close)
		ir = reflectance.NewAnalog(len(rc.Channels), reflectance.NewADCSource(adc, rc.Channels), rc.Threshold, h.sink)
	}
	if rc.PowerPin != "" {
		p, err := reflectance.NewGPIOPower(rc.PowerPin)
		if err != nil {
			return nil, err
		}
		ir.SetPower(p)
	}
	return ir, nil
}

func (h *Hardware) openAux() (stepper.Interface, error) {
	ac := h.cfg.Aux
	switch ac.Kind {
	case "servo":
		s, err := stepper.NewServo(stepper.ServoConfig{
			Port:         ac.ServoPort,
			ID:           ac.ServoID,
			UnitsPerStep: ac.UnitsPerStep,
		})
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, s.Close)
		return s, s.Begin()
	case "stepper":
		s, err := stepper.NewGPIO(stepper.Pins{Step: ac.Step, Dir: ac.Dir, Enable: ac.Enable},
			time.Duration(ac.PulseDelayUs)*time.Microsecond)
		if err != nil {
			return nil, err
		}
		return s, s.Begin()
	default:
		return &stepper.Recorder{}, nil
	}
}

func (h *Hardware) begin() error {
	if err := h.base.Begin(); err != nil {
		return err
	}
	return errors.Wrap(h.ir.Begin(), "line sensor power")
}

// Start runs the background helpers: screen, sound and any edge watchers.
func (h *Hardware) Start(ctx context.Context) {
	h.sounds = sound.NewPlayer(h.cfg.Sound.Dir, sound.InitSound())
	go screen.LoopUpdatingScreen(ctx, h.cfg.Screen.Device)
	for _, s := range h.starters {
		s(ctx, &h.loops)
	}
}

func (h *Hardware) Base() *drive.Base              { return h.base }
func (h *Hardware) LineSensor() *reflectance.Array { return h.ir }
func (h *Hardware) Receiver() *receiver.Decoder    { return h.rx }
func (h *Hardware) Aux() stepper.Interface         { return h.aux }
func (h *Hardware) Ranger() ultrasonic.Interface   { return h.ranger }
func (h *Hardware) Odometer() *encoder.Encoder     { return h.odometer }
func (h *Hardware) Sink() diag.Sink                { return h.sink }

func (h *Hardware) StopMotorControl() {
	h.motorLock.Lock()
	defer h.motorLock.Unlock()
	fmt.Println("HW: Stopping motors")
	h.base.Stop()
	time.Sleep(30 * time.Millisecond)
}

func (h *Hardware) PlaySound(c sound.Cue) {
	h.sounds.Play(c)
}

// Shutdown stops the motors and releases the devices.  Cancel the context
// passed to Start first so the watchers exit.
func (h *Hardware) Shutdown() {
	h.StopMotorControl()
	h.loops.Wait()
	h.sounds.Close()
	h.closeAll()
}

// closeAll runs the registered closers newest first and forgets them.
func (h *Hardware) closeAll() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i](); err != nil {
			fmt.Println("HW: close failed:", err)
		}
	}
	h.closers = nil
}
