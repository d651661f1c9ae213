package linemode

import (
	"context"
	"testing"
	"time"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/hardware"
	"github.com/umangjain-07/ServingRoboB1/pkg/joystick"
	"github.com/umangjain-07/ServingRoboB1/pkg/reflectance"
)

func TestStepFollowsLine(t *testing.T) {
	hw := hardware.NewDummy(config.Default(), nil)
	m := New(hw, config.Default())

	hw.SetLine(reflectance.Of(0, 0, 0, 0, 0, 1, 1, 1))
	if d := m.Step(); d != drive.TurnLeft(90+30) {
		t.Fatalf("expected hard left, got %v", d)
	}
	hw.SetLine(reflectance.Of(0, 0, 0, 0, 0, 0, 0, 0))
	if d := m.Step(); !d.IsStop() {
		t.Fatalf("expected stop on a lost line, got %v", d)
	}
}

func TestSpeedTuning(t *testing.T) {
	hw := hardware.NewDummy(config.Default(), nil)
	m := New(hw, config.Default())
	hw.SetLine(reflectance.Of(0, 0, 0, 1, 1, 0, 0, 0))

	m.HandleEvent(&joystick.Event{Type: joystick.EventTypeAxis, Number: joystick.AxisDPadY, Value: -32767})
	m.HandleEvent(&joystick.Event{Type: joystick.EventTypeAxis, Number: joystick.AxisDPadY, Value: 0})
	m.HandleEvent(&joystick.Event{Type: joystick.EventTypeAxis, Number: joystick.AxisDPadY, Value: -32767})
	if d := m.Step(); d != drive.Forward(100) {
		t.Fatalf("expected forward(100) after two nudges, got %v", d)
	}
}

func TestPause(t *testing.T) {
	hw := hardware.NewDummy(config.Default(), nil)
	m := New(hw, config.Default())
	hw.SetLine(reflectance.Of(0, 0, 0, 1, 1, 0, 0, 0))

	m.HandleEvent(&joystick.Event{Type: joystick.EventTypeButton, Number: joystick.ButtonCross, Value: 1})
	if d := m.Step(); !d.IsStop() {
		t.Fatalf("paused mode drove %v", d)
	}
	if hw.Command() != (drive.Command{}) {
		t.Fatalf("paused mode left wheels at %v", hw.Command())
	}
}

func TestGovernorSlowsNearObstacles(t *testing.T) {
	cfg := config.Default()
	cfg.Ultrasonic.Enabled = true
	hw := hardware.NewDummy(cfg, nil)
	m := New(hw, cfg)
	hw.SetLine(reflectance.Of(0, 0, 0, 1, 1, 0, 0, 0))
	hw.Range.Set(50)
	if d := m.Step(); d != drive.Forward(45) {
		t.Fatalf("expected forward(45), got %v", d)
	}
}

func TestStartStop(t *testing.T) {
	cfg := config.Default()
	cfg.Line.LoopHz = 200
	hw := hardware.NewDummy(cfg, nil)
	m := New(hw, cfg)
	hw.SetLine(reflectance.Of(0, 0, 0, 1, 1, 0, 0, 0))

	m.Start(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for hw.Command() == (drive.Command{}) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	m.OnJoystickEvent(&joystick.Event{Type: joystick.EventTypeButton, Number: joystick.ButtonTriangle, Value: 1})
	m.Stop()

	if hw.Command() != (drive.Command{}) {
		t.Fatalf("motors left running after Stop: %v", hw.Command())
	}
}
