// Package drive turns a motion intent into one command per wheel of a
// two-motor differential base.
//
// The two motors are mounted mirror-image, so linear motion drives them with
// opposite electrical polarity and a pivot turn drives them with the same
// polarity.
package drive

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/umangjain-07/ServingRoboB1/pkg/clamp"
	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/motor"
)

// TurnBias is added to the requested speed for pivot turns, which need more
// torque than straight-line motion.
const TurnBias = 15

const MaxSpeed = 255

type Kind int

const (
	KindStop Kind = iota
	KindForward
	KindBackward
	KindTurnLeft
	KindTurnRight
)

func (k Kind) String() string {
	switch k {
	case KindForward:
		return "forward"
	case KindBackward:
		return "backward"
	case KindTurnLeft:
		return "left"
	case KindTurnRight:
		return "right"
	default:
		return "stop"
	}
}

// Intent is what the deciding component wants the base to do this tick.
type Intent struct {
	Kind  Kind
	Speed int
}

func Stop() Intent {
	return Intent{Kind: KindStop}
}

func Forward(speed int) Intent {
	return Intent{Kind: KindForward, Speed: speed}
}

func Backward(speed int) Intent {
	return Intent{Kind: KindBackward, Speed: speed}
}

func TurnLeft(speed int) Intent {
	return Intent{Kind: KindTurnLeft, Speed: speed}
}

func TurnRight(speed int) Intent {
	return Intent{Kind: KindTurnRight, Speed: speed}
}

func (i Intent) IsStop() bool {
	return i.Kind == KindStop
}

func (i Intent) String() string {
	if i.Kind == KindStop {
		return "stop"
	}
	return fmt.Sprintf("%v(%d)", i.Kind, i.Speed)
}

// Command is what was actually sent to the motors.  Sign is the motor's
// electrical direction (+ = motor forward), magnitude is the 0..255 duty.
type Command struct {
	Left, Right int
}

func (c Command) String() string {
	return fmt.Sprintf("L=%d R=%d", c.Left, c.Right)
}

type Base struct {
	left, right motor.Interface
	sink        diag.Sink
}

func New(left, right motor.Interface, sink diag.Sink) *Base {
	if sink == nil {
		sink = diag.Discard
	}
	return &Base{
		left:  left,
		right: right,
		sink:  sink,
	}
}

func (b *Base) Begin() error {
	if err := b.left.Begin(); err != nil {
		return errors.Wrap(err, "left motor")
	}
	if err := b.right.Begin(); err != nil {
		return errors.Wrap(err, "right motor")
	}
	return nil
}

// Drive issues exactly one command to each motor.  Out-of-range speeds are
// clamped, never rejected.
func (b *Base) Drive(in Intent) Command {
	cmd := Plan(in)
	switch in.Kind {
	case KindStop:
		b.sink.Printf("Motor: stop\n")
	default:
		b.sink.Printf("Motor: %v @%d\n", in.Kind, in.Speed)
	}
	switch in.Kind {
	case KindForward:
		b.left.Forward(cmd.Left)
		b.right.Backward(-cmd.Right)
	case KindBackward:
		b.left.Backward(-cmd.Left)
		b.right.Forward(cmd.Right)
	case KindTurnLeft:
		b.left.Backward(-cmd.Left)
		b.right.Backward(-cmd.Right)
	case KindTurnRight:
		b.left.Forward(cmd.Left)
		b.right.Forward(cmd.Right)
	default:
		b.left.Stop()
		b.right.Stop()
	}
	return cmd
}

func (b *Base) Stop() {
	b.Drive(Stop())
}

// Plan computes the per-wheel command for an intent without touching the
// hardware.
func Plan(in Intent) Command {
	switch in.Kind {
	case KindForward:
		s := clamp.Duty(in.Speed)
		return Command{Left: s, Right: -s}
	case KindBackward:
		s := clamp.Duty(in.Speed)
		return Command{Left: -s, Right: s}
	case KindTurnLeft:
		s := clamp.Duty(in.Speed + TurnBias)
		return Command{Left: -s, Right: -s}
	case KindTurnRight:
		s := clamp.Duty(in.Speed + TurnBias)
		return Command{Left: s, Right: s}
	default:
		return Command{}
	}
}
