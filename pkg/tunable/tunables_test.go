package tunable

import "testing"

func TestTunableBounds(t *testing.T) {
	var ts Tunables
	speed := ts.Create("speed", 90, 0, 255)
	speed.Add(200)
	if speed.Get() != 255 {
		t.Errorf("expected clamp at 255, got %d", speed.Get())
	}
	speed.Add(-300)
	if speed.Get() != 0 {
		t.Errorf("expected clamp at 0, got %d", speed.Get())
	}
	speed.Set(1000)
	if speed.Get() != 255 {
		t.Errorf("Set did not clamp: %d", speed.Get())
	}
}

func TestSelection(t *testing.T) {
	var ts Tunables
	a := ts.Create("a", 1, 0, 10)
	b := ts.Create("b", 2, 0, 10)
	if ts.Current() != a {
		t.Fatal("first tunable should start selected")
	}
	ts.SelectNext()
	if ts.Current() != b {
		t.Fatal("SelectNext did not move on")
	}
	ts.SelectNext()
	if ts.Current() != a {
		t.Fatal("SelectNext did not wrap")
	}
	ts.SelectPrev()
	if ts.Current() != b {
		t.Fatal("SelectPrev did not wrap")
	}
}
