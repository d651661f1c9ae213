package drive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/motor"
)

func newTestBase() (*Base, *motor.Recorder, *motor.Recorder, *diag.Buffer) {
	l := &motor.Recorder{Name: "L"}
	r := &motor.Recorder{Name: "R"}
	sink := &diag.Buffer{}
	return New(l, r, sink), l, r, sink
}

func expectMotor(t *testing.T, m *motor.Recorder, dir motor.Direction, speed int) {
	t.Helper()
	d, s := m.Last()
	assert.Equal(t, dir, d, "motor %s direction", m.Name)
	assert.Equal(t, speed, s, "motor %s speed", m.Name)
}

func TestDriveForwardAndBackwardUseOppositePolarity(t *testing.T) {
	b, l, r, _ := newTestBase()

	cmd := b.Drive(Forward(120))
	assert.Equal(t, Command{Left: 120, Right: -120}, cmd)
	expectMotor(t, l, motor.Forwards, 120)
	expectMotor(t, r, motor.Backwards, 120)

	cmd = b.Drive(Backward(80))
	assert.Equal(t, Command{Left: -80, Right: 80}, cmd)
	expectMotor(t, l, motor.Backwards, 80)
	expectMotor(t, r, motor.Forwards, 80)
}

func TestDriveTurnsPivotWithBias(t *testing.T) {
	b, l, r, _ := newTestBase()

	cmd := b.Drive(TurnLeft(100))
	assert.Equal(t, Command{Left: -115, Right: -115}, cmd)
	expectMotor(t, l, motor.Backwards, 115)
	expectMotor(t, r, motor.Backwards, 115)

	cmd = b.Drive(TurnRight(100))
	assert.Equal(t, Command{Left: 115, Right: 115}, cmd)
	expectMotor(t, l, motor.Forwards, 115)
	expectMotor(t, r, motor.Forwards, 115)
}

func TestDriveClampsRatherThanRejects(t *testing.T) {
	b, l, r, _ := newTestBase()

	assert.Equal(t, Command{Left: 255, Right: 255}, b.Drive(TurnRight(250)))
	assert.Equal(t, Command{Left: 255, Right: -255}, b.Drive(Forward(1000)))
	assert.Equal(t, Command{}, Plan(Forward(-20)))
	expectMotor(t, l, motor.Forwards, 255)
	expectMotor(t, r, motor.Backwards, 255)
}

func TestDriveStopAndOneCallPerWheel(t *testing.T) {
	b, l, r, sink := newTestBase()

	b.Drive(Forward(50))
	cmd := b.Drive(Stop())
	assert.Equal(t, Command{}, cmd)
	expectMotor(t, l, motor.Stopped, 0)
	expectMotor(t, r, motor.Stopped, 0)
	assert.Equal(t, 2, l.Calls())
	assert.Equal(t, 2, r.Calls())

	out := sink.String()
	assert.True(t, strings.Contains(out, "Motor: forward @50"), out)
	assert.True(t, strings.Contains(out, "Motor: stop"), out)
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "stop", Stop().String())
	assert.Equal(t, "left(40)", TurnLeft(40).String())
	assert.True(t, Stop().IsStop())
	assert.False(t, Forward(1).IsStop())
}
