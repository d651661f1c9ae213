package clamp

import "testing"

func TestBetween(t *testing.T) {
	tests := []struct {
		v, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Between(tt.v, tt.lo, tt.hi); got != tt.expected {
			t.Errorf("Between(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.expected)
		}
	}

	if got := Between(2.5, 0.0, 1.0); got != 1.0 {
		t.Errorf("float Between = %v, want 1", got)
	}
}

func TestDuty(t *testing.T) {
	if Duty(300) != 255 || Duty(-4) != 0 || Duty(128) != 128 {
		t.Fatalf("Duty clamps wrong: %d %d %d", Duty(300), Duty(-4), Duty(128))
	}
}

func TestAbs(t *testing.T) {
	if Abs(-7) != 7 || Abs(7) != 7 || Abs(-1.5) != 1.5 {
		t.Fatal("Abs returned wrong value")
	}
}
