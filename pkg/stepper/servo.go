package stepper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"github.com/pkg/errors"
)

const (
	DefaultBaudRate = 1_000_000
	// ServoRange is the STS3215 position span.
	ServoRange = 4096
)

type ServoConfig struct {
	Port     string
	ID       int
	BaudRate int
	// UnitsPerStep converts stepper steps into servo position units.
	UnitsPerStep int
	Timeout      time.Duration
}

// Servo emulates the stepper with relative moves on a serial bus servo.
type Servo struct {
	lock  sync.Mutex
	cfg   ServoConfig
	bus   *feetech.Bus
	group *feetech.ServoGroup
}

func NewServo(cfg ServoConfig) (*Servo, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.UnitsPerStep == 0 {
		cfg.UnitsPerStep = 1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 200 * time.Millisecond
	}
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: cfg.BaudRate,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open servo bus %s", cfg.Port)
	}
	return &Servo{
		cfg:   cfg,
		bus:   bus,
		group: feetech.NewServoGroupByIDs(bus, cfg.ID),
	}, nil
}

func (s *Servo) Begin() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	return errors.Wrap(s.group.EnableAll(ctx), "enable aux servo")
}

func (s *Servo) Close() error {
	return s.bus.Close()
}

func (s *Servo) MoveLeft(steps int) {
	fmt.Println("Servo Left @", steps)
	s.moveBy(-steps * s.cfg.UnitsPerStep)
}

func (s *Servo) MoveRight(steps int) {
	fmt.Println("Servo Right @", steps)
	s.moveBy(steps * s.cfg.UnitsPerStep)
}

func (s *Servo) moveBy(delta int) {
	s.lock.Lock()
	defer s.lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	positions, err := s.group.Positions(ctx)
	if err != nil {
		fmt.Println("Failed to read aux servo position", err)
		return
	}
	target := ServoTarget(positions[s.cfg.ID], delta)
	if err := s.group.SetPositions(ctx, feetech.PositionMap{s.cfg.ID: target}); err != nil {
		fmt.Println("Failed to move aux servo", err)
	}
}

// ServoTarget applies a relative move, stopping at the ends of travel.
func ServoTarget(current, delta int) int {
	t := current + delta
	if t < 0 {
		return 0
	}
	if t > ServoRange-1 {
		return ServoRange - 1
	}
	return t
}
