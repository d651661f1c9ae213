package hardware

import (
	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/encoder"
	"github.com/umangjain-07/ServingRoboB1/pkg/receiver"
	"github.com/umangjain-07/ServingRoboB1/pkg/reflectance"
	"github.com/umangjain-07/ServingRoboB1/pkg/sound"
	"github.com/umangjain-07/ServingRoboB1/pkg/stepper"
	"github.com/umangjain-07/ServingRoboB1/pkg/ultrasonic"
)

// Interface is what a control mode gets to work with.  Each device has
// exactly one owner at a time: the active mode.
type Interface interface {
	Base() *drive.Base
	LineSensor() *reflectance.Array
	Receiver() *receiver.Decoder
	Aux() stepper.Interface

	// Ranger and Odometer are nil when the device is disabled in config.
	Ranger() ultrasonic.Interface
	Odometer() *encoder.Encoder

	// StopMotorControl stops both wheels; modes call it on exit and the
	// controller calls it between modes.
	StopMotorControl()

	PlaySound(c sound.Cue)
	Sink() diag.Sink
}
