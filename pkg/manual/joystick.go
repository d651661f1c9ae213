package manual

import (
	"github.com/umangjain-07/ServingRoboB1/pkg/clamp"
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
)

const (
	// AxisMax is the top of the 10-bit axis scale.
	AxisMax = 1023
	// JoystickMaxSpeed is the speed at full deflection.
	JoystickMaxSpeed = 220
	// DefaultDeadZone is in raw axis units around the calibrated centre.
	DefaultDeadZone = 30
	// OutputDeadZone is in mapped speed units; below it on both axes the
	// robot stops.
	OutputDeadZone = 40
)

// Joystick maps a two-axis analog stick.  Positive Y is towards the operator.
type Joystick struct {
	CenterX, CenterY int
	DeadZone         int
}

func NewJoystick(centerX, centerY int) Joystick {
	return Joystick{CenterX: centerX, CenterY: centerY, DeadZone: DefaultDeadZone}
}

// Decide maps raw ADC axis values using the input dead zone.
func (j Joystick) Decide(x, y int) drive.Intent {
	return decide(MapToSpeed(x, j.CenterX, j.DeadZone), MapToSpeed(y, j.CenterY, j.DeadZone))
}

// DecideRaw skips the input dead zone, for sources that filter their own
// noise.
func (j Joystick) DecideRaw(x, y int) drive.Intent {
	return decide(MapToSpeed(x, j.CenterX, 0), MapToSpeed(y, j.CenterY, 0))
}

func decide(mappedX, mappedY int) drive.Intent {
	absX, absY := clamp.Abs(mappedX), clamp.Abs(mappedY)
	if absX < OutputDeadZone && absY < OutputDeadZone {
		return drive.Stop()
	}
	if absY > absX {
		if mappedY > 0 {
			return drive.Backward(absY)
		}
		return drive.Forward(absY)
	}
	if mappedX > 0 {
		return drive.TurnRight(absX)
	}
	return drive.TurnLeft(absX)
}

// MapToSpeed rescales an axis reading to -220..220.  Each side of the centre
// is scaled separately, from the dead zone edge to the end of travel, so an
// off-centre calibration still reaches full speed both ways.
func MapToSpeed(v, center, deadZone int) int {
	if clamp.Abs(v-center) <= deadZone {
		return 0
	}
	if v > center {
		span := AxisMax - (center + deadZone)
		if span <= 0 {
			return JoystickMaxSpeed
		}
		return clamp.Between((v-center-deadZone)*JoystickMaxSpeed/span, 0, JoystickMaxSpeed)
	}
	span := center - deadZone
	if span <= 0 {
		return -JoystickMaxSpeed
	}
	return -clamp.Between((center-deadZone-v)*JoystickMaxSpeed/span, 0, JoystickMaxSpeed)
}
