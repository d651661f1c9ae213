package hardware

import (
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/screen"
)

// Show puts a drive intent on the face: the eyes look where the robot is
// turning, and it looks happy while moving.
func Show(in drive.Intent) {
	look := 0.0
	switch in.Kind {
	case drive.KindTurnLeft:
		look = -1
	case drive.KindTurnRight:
		look = 1
	}
	mood := screen.MoodHappy
	if in.IsStop() {
		mood = screen.MoodNeutral
	}
	screen.SetCommand(in.String(), look, mood)
}
