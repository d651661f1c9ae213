package ultrasonic

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/pulse"
)

type countingTrigger struct {
	fired int
	err   error
}

func (c *countingTrigger) Fire() error {
	c.fired++
	return c.err
}

func echo(us int) pulse.Source {
	return pulse.SourceFunc(func(time.Duration) time.Duration {
		return time.Duration(us) * time.Microsecond
	})
}

func TestReadDistanceCm(t *testing.T) {
	trig := &countingTrigger{}
	sink := &diag.Buffer{}
	s := New(trig, echo(1000), sink)

	d := s.ReadDistanceCm()
	if math.Abs(d-17) > 1e-9 {
		t.Errorf("1000us echo gave %v cm, want 17", d)
	}
	if trig.fired != 1 {
		t.Errorf("trigger fired %d times", trig.fired)
	}
	if !strings.Contains(sink.String(), "Distance: 17.00 cm") {
		t.Errorf("unexpected diagnostics %q", sink.String())
	}
}

func TestReadDistanceNoEcho(t *testing.T) {
	s := New(&countingTrigger{}, echo(0), nil)
	if d := s.ReadDistanceCm(); !math.IsInf(d, 1) {
		t.Errorf("missing echo gave %v cm", d)
	}
	if got := s.SpeedLimit(150, DefaultMaxDistanceCm); got != 150 {
		t.Errorf("missing echo limited speed to %d", got)
	}
	s = New(&countingTrigger{err: errors.New("pin busy")}, echo(1000), nil)
	if d := s.ReadDistanceCm(); d != 0 {
		t.Errorf("failed trigger gave %v cm", d)
	}
}

func TestSpeedLimit(t *testing.T) {
	tests := []struct {
		speed    int
		distance float64
		max      float64
		expected int
	}{
		{200, 150, 100, 200},
		{200, 100, 100, 200},
		{200, 50, 100, 100},
		{200, 25, 100, 50},
		{200, 0, 100, 0},
		{200, -5, 100, 0},
		{200, 50, 0, 100},
		{200, math.Inf(1), 100, 200},
	}
	for _, tt := range tests {
		if got := SpeedLimit(tt.speed, tt.distance, tt.max); got != tt.expected {
			t.Errorf("SpeedLimit(%d, %v, %v) = %d, want %d", tt.speed, tt.distance, tt.max, got, tt.expected)
		}
	}
}

func TestSensorSpeedLimit(t *testing.T) {
	// 1470us is 24.99 cm.
	s := New(&countingTrigger{}, echo(1470), nil)
	if got := s.SpeedLimit(200, DefaultMaxDistanceCm); got != 49 {
		t.Errorf("SpeedLimit = %d, want 49", got)
	}
	f := NewFixed(40)
	if got := f.SpeedLimit(100, DefaultMaxDistanceCm); got != 40 {
		t.Errorf("fixed SpeedLimit = %d, want 40", got)
	}
}

func TestOpenSpaceEcho(t *testing.T) {
	// With nothing in range the sensor holds echo high for about 38ms.
	s := New(&countingTrigger{}, echo(38000), nil)
	d := s.ReadDistanceCm()
	if math.Abs(d-646) > 1e-9 {
		t.Errorf("38ms echo gave %v cm, want 646", d)
	}
	if got := s.SpeedLimit(150, DefaultMaxDistanceCm); got != 150 {
		t.Errorf("open space limited speed 150 to %d", got)
	}
}
