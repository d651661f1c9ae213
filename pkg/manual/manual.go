// Package manual turns operator input, either RC receiver channels or an
// analog joystick, into a drive intent plus an auxiliary actuator command.
package manual

import (
	"fmt"

	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/receiver"
	"github.com/umangjain-07/ServingRoboB1/pkg/stepper"
)

// AuxSteps is how far one aux stick nudge moves the actuator.
const AuxSteps = 100

type AuxDirection int

const (
	AuxNone AuxDirection = iota
	AuxLeft
	AuxRight
)

type AuxCommand struct {
	Direction AuxDirection
	Steps     int
}

func (a AuxCommand) IsNone() bool {
	return a.Direction == AuxNone
}

func (a AuxCommand) String() string {
	switch a.Direction {
	case AuxLeft:
		return fmt.Sprintf("aux left %d", a.Steps)
	case AuxRight:
		return fmt.Sprintf("aux right %d", a.Steps)
	default:
		return "aux none"
	}
}

type zone int

const (
	zoneNone zone = iota
	zoneLow
	zoneNeutral
	zoneHigh
	zoneInvalid
)

func classify(raw int) zone {
	switch {
	case raw >= receiver.MaxRaw:
		return zoneInvalid
	case raw > receiver.NeutralHigh:
		return zoneHigh
	case raw < receiver.NeutralLow:
		return zoneLow
	default:
		return zoneNeutral
	}
}

// FromChannels applies the stick truth table to channels 1 and 2 at the
// receiver's speed, and maps channel 4 to an aux nudge.  A silent channel
// reads as low; both drive channels silent means stop.
func FromChannels(s receiver.State) (drive.Intent, AuxCommand) {
	return sticks(s.Raw(receiver.ChDriveA), s.Raw(receiver.ChDriveB), s.Speed), Aux(s.Raw(receiver.ChAux))
}

func sticks(ch1, ch2, speed int) drive.Intent {
	if ch1 == 0 && ch2 == 0 {
		return drive.Stop()
	}
	a, b := classify(ch1), classify(ch2)
	switch {
	case a == zoneHigh && b == zoneHigh:
		return drive.Forward(speed)
	case a == zoneHigh && b == zoneLow:
		return drive.TurnRight(speed)
	case a == zoneLow && b == zoneHigh:
		return drive.TurnLeft(speed)
	case a == zoneLow && b == zoneLow:
		return drive.Backward(speed)
	default:
		return drive.Stop()
	}
}

// Aux maps the aux channel; neutral, silent and invalid widths do nothing.
func Aux(ch4 int) AuxCommand {
	if ch4 == 0 {
		return AuxCommand{}
	}
	switch classify(ch4) {
	case zoneHigh:
		return AuxCommand{Direction: AuxLeft, Steps: AuxSteps}
	case zoneLow:
		return AuxCommand{Direction: AuxRight, Steps: AuxSteps}
	default:
		return AuxCommand{}
	}
}

// Apply runs an aux command on the actuator.
func Apply(aux AuxCommand, s stepper.Interface) {
	if s == nil {
		return
	}
	switch aux.Direction {
	case AuxLeft:
		s.MoveLeft(aux.Steps)
	case AuxRight:
		s.MoveRight(aux.Steps)
	}
}
