package motor

import (
	"testing"

	"periph.io/x/periph/conn/gpio"
)

func TestDutyFor(t *testing.T) {
	if DutyFor(0) != 0 {
		t.Errorf("DutyFor(0) = %v, want 0", DutyFor(0))
	}
	if DutyFor(255) != gpio.DutyMax {
		t.Errorf("DutyFor(255) = %v, want %v", DutyFor(255), gpio.DutyMax)
	}
	if DutyFor(1000) != gpio.DutyMax {
		t.Errorf("DutyFor(1000) should clamp to max, got %v", DutyFor(1000))
	}
	if DutyFor(-5) != 0 {
		t.Errorf("DutyFor(-5) should clamp to 0, got %v", DutyFor(-5))
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{Name: "L"}
	r.Forward(300)
	if d, s := r.Last(); d != Forwards || s != 255 {
		t.Fatalf("Forward(300) recorded %v @%d", d, s)
	}
	r.Backward(12)
	if d, s := r.Last(); d != Backwards || s != 12 {
		t.Fatalf("Backward(12) recorded %v @%d", d, s)
	}
	r.Stop()
	if d, s := r.Last(); d != Stopped || s != 0 {
		t.Fatalf("Stop recorded %v @%d", d, s)
	}
	if r.Calls() != 3 {
		t.Fatalf("expected 3 calls, got %d", r.Calls())
	}
}
