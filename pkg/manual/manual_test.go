package manual

import (
	"testing"

	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/receiver"
	"github.com/umangjain-07/ServingRoboB1/pkg/stepper"
)

func stateWith(ch1, ch2, ch4, speed int) receiver.State {
	var s receiver.State
	s.Channels[0].RawUs = ch1
	s.Channels[1].RawUs = ch2
	s.Channels[3].RawUs = ch4
	s.Speed = speed
	return s
}

func TestSticks(t *testing.T) {
	const speed = 150
	tests := []struct {
		name     string
		ch1, ch2 int
		expected drive.Intent
	}{
		{"silent", 0, 0, drive.Stop()},
		{"centred", 1495, 1495, drive.Stop()},
		{"forward", 1800, 1800, drive.Forward(speed)},
		{"turn right", 1800, 1200, drive.TurnRight(speed)},
		{"turn left", 1200, 1800, drive.TurnLeft(speed)},
		{"backward", 1200, 1200, drive.Backward(speed)},
		{"one neutral", 1800, 1495, drive.Stop()},
		{"ceiling is invalid", 2000, 1800, drive.Stop()},
		{"above ceiling", 1800, 2500, drive.Stop()},
		{"band edges are neutral", 1530, 1460, drive.Stop()},
		{"just outside the band", 1531, 1459, drive.TurnRight(speed)},
		// A single silent channel reads as low.
		{"one silent", 0, 1800, drive.TurnLeft(speed)},
	}
	for _, tt := range tests {
		got, _ := FromChannels(stateWith(tt.ch1, tt.ch2, 0, speed))
		if got != tt.expected {
			t.Errorf("%s: FromChannels(%d, %d) = %v, want %v", tt.name, tt.ch1, tt.ch2, got, tt.expected)
		}
	}
}

func TestAux(t *testing.T) {
	tests := []struct {
		ch4      int
		expected AuxCommand
	}{
		{0, AuxCommand{}},
		{1495, AuxCommand{}},
		{1800, AuxCommand{Direction: AuxLeft, Steps: 100}},
		{1000, AuxCommand{Direction: AuxRight, Steps: 100}},
		{2000, AuxCommand{}},
		{2500, AuxCommand{}},
	}
	for _, tt := range tests {
		_, got := FromChannels(stateWith(0, 0, tt.ch4, 0))
		if got != tt.expected {
			t.Errorf("aux for ch4=%d = %v, want %v", tt.ch4, got, tt.expected)
		}
	}
}

func TestApply(t *testing.T) {
	r := &stepper.Recorder{}
	Apply(AuxCommand{Direction: AuxLeft, Steps: 100}, r)
	Apply(AuxCommand{}, r)
	Apply(AuxCommand{Direction: AuxRight, Steps: 40}, r)
	if r.Position() != -60 || len(r.Moves()) != 2 {
		t.Errorf("unexpected stepper moves %v", r.Moves())
	}
	Apply(AuxCommand{Direction: AuxLeft, Steps: 1}, nil)
}

func TestMapToSpeed(t *testing.T) {
	tests := []struct {
		v, center, dz int
		expected      int
	}{
		{512, 512, 30, 0},
		{542, 512, 30, 0},
		{482, 512, 30, 0},
		{1023, 512, 30, 220},
		{0, 512, 30, -220},
		{783, 512, 30, 110},
		{1023, 512, 0, 220},
		{0, 512, 0, -220},
		{256, 512, 0, -110},
		{1023, 1023, 0, 0},
		{1000, 1023, 0, -4},
	}
	for _, tt := range tests {
		if got := MapToSpeed(tt.v, tt.center, tt.dz); got != tt.expected {
			t.Errorf("MapToSpeed(%d, %d, %d) = %d, want %d", tt.v, tt.center, tt.dz, got, tt.expected)
		}
	}
}

func TestJoystickDecide(t *testing.T) {
	j := NewJoystick(512, 500)
	tests := []struct {
		name     string
		x, y     int
		expected drive.Intent
	}{
		{"centre", 512, 500, drive.Stop()},
		{"inside output dead zone", 560, 540, drive.Stop()},
		{"full back", 512, 1023, drive.Backward(220)},
		{"full forward", 512, 0, drive.Forward(220)},
		{"full right", 1023, 500, drive.TurnRight(220)},
		{"full left", 0, 500, drive.TurnLeft(220)},
		{"diagonal tie turns", 1023, 1023, drive.TurnRight(220)},
	}
	for _, tt := range tests {
		if got := j.Decide(tt.x, tt.y); got != tt.expected {
			t.Errorf("%s: Decide(%d, %d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.expected)
		}
	}
}

func TestJoystickSpeedBounded(t *testing.T) {
	j := NewJoystick(512, 512)
	for y := 0; y <= AxisMax; y += 7 {
		in := j.Decide(512, y)
		if in.Speed > JoystickMaxSpeed {
			t.Fatalf("y=%d gave %v", y, in)
		}
		if in.Kind == drive.KindTurnLeft || in.Kind == drive.KindTurnRight {
			t.Fatalf("pure Y input turned: y=%d gave %v", y, in)
		}
	}
}

func TestDecideRawHasNoInputDeadZone(t *testing.T) {
	j := NewJoystick(512, 512)
	// 512+100 maps to 43 with no dead zone but 32 with the default one.
	if got := j.DecideRaw(612, 512); got != drive.TurnRight(43) {
		t.Errorf("DecideRaw = %v", got)
	}
	if got := j.Decide(612, 512); got != drive.Stop() {
		t.Errorf("Decide = %v", got)
	}
}
