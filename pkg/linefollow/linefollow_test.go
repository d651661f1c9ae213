package linefollow

import (
	"strings"
	"testing"

	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/motor"
	"github.com/umangjain-07/ServingRoboB1/pkg/reflectance"
)

const base = 100

func TestScores(t *testing.T) {
	tests := []struct {
		reading  reflectance.Reading
		expected Zones
	}{
		{reflectance.Of(0, 0, 0, 0, 0, 0, 0, 0), Zones{0, 0, 0}},
		{reflectance.Of(1, 1, 1, 0, 0, 0, 0, 0), Zones{7, 0, 0}},
		{reflectance.Of(0, 0, 0, 1, 1, 0, 0, 0), Zones{0, 6, 0}},
		{reflectance.Of(0, 0, 0, 0, 0, 1, 1, 1), Zones{0, 0, 7}},
		{reflectance.Of(1, 0, 0, 0, 0, 0, 0, 1), Zones{4, 0, 4}},
		{reflectance.Of(0, 0, 1, 1, 0, 1, 0, 0), Zones{1, 3, 1}},
		{reflectance.Of(1, 1, 1), Zones{7, 0, 0}},
		{reflectance.Of(0, 0, 0, 1, 1, 0, 0, 0, 1, 1), Zones{0, 6, 0}},
	}
	for _, tt := range tests {
		if got := Scores(tt.reading); got != tt.expected {
			t.Errorf("Scores(%v) = %+v, want %+v", tt.reading, got, tt.expected)
		}
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		reading  reflectance.Reading
		expected Decision
		rule     Rule
	}{
		{"line lost", reflectance.Of(0, 0, 0, 0, 0, 0, 0, 0), drive.Stop(), RuleLineLost},
		{"hard right", reflectance.Of(1, 1, 1, 0, 0, 0, 0, 0), drive.TurnRight(base + 30), RuleHardRight},
		{"hard left", reflectance.Of(0, 0, 0, 0, 0, 1, 1, 1), drive.TurnLeft(base + 30), RuleHardLeft},
		{"fork", reflectance.Of(1, 1, 1, 0, 0, 1, 1, 1), drive.Stop(), RuleFork},
		{"fork with middle", reflectance.Of(1, 1, 1, 1, 1, 1, 1, 1), drive.Stop(), RuleFork},
		{"centred", reflectance.Of(0, 0, 0, 1, 1, 0, 0, 0), drive.Forward(base), RuleForward},
		{"one middle sensor", reflectance.Of(0, 0, 0, 0, 1, 0, 0, 0), drive.Forward(base), RuleForward},
		// right=4 >= mid=3
		{"drifting right", reflectance.Of(1, 0, 0, 1, 0, 0, 0, 0), drive.TurnRight(base - 15 + 8), RuleRightBetter},
		// right=1 < mid=6
		{"mostly centred", reflectance.Of(0, 0, 1, 1, 1, 0, 0, 0), drive.Forward(base), RuleForward},
		// left=4 >= mid=3, right=0 < mid
		{"drifting left", reflectance.Of(0, 0, 0, 0, 1, 0, 0, 1), drive.TurnLeft(base - 15 + 8), RuleLeftBetter},
		// Both sides beat the middle: right is checked first.
		{"tie prefers right", reflectance.Of(1, 0, 0, 1, 0, 0, 0, 1), drive.TurnRight(base - 15 + 8), RuleRightBetter},
		// Sides lit but weaker than the middle.
		{"sides weaker than middle", reflectance.Of(0, 1, 0, 1, 0, 0, 1, 0), drive.Forward(base), RuleForward},
		// Sides lit but no middle: nothing matches until the fallback.
		{"sides without middle", reflectance.Of(1, 0, 0, 0, 0, 0, 0, 1), drive.Stop(), RuleDefault},
	}
	for _, tt := range tests {
		got, rule := DecideWithRule(tt.reading, base)
		if got != tt.expected || rule != tt.rule {
			t.Errorf("%s: Decide(%v) = %v (%v), want %v (%v)", tt.name, tt.reading, got, rule, tt.expected, tt.rule)
		}
	}
}

func TestAllFalseAlwaysStops(t *testing.T) {
	for _, speed := range []int{0, 1, 80, 255, 400} {
		if d := Decide(make(reflectance.Reading, NumSensors), speed); !d.IsStop() {
			t.Errorf("all-false reading at speed %d returned %v", speed, d)
		}
	}
}

func TestForkNeverTurns(t *testing.T) {
	// Every combination of the middle pair with both sides full.
	for mid := 0; mid < 4; mid++ {
		r := reflectance.Of(1, 1, 1, mid&1, mid>>1, 1, 1, 1)
		if d := Decide(r, base); !d.IsStop() {
			t.Errorf("fork %v returned %v", r, d)
		}
	}
}

type readingSource []bool

func (r readingSource) ReadDigital(i int) (bool, error) {
	return r[i], nil
}

func TestFollowerStep(t *testing.T) {
	l := &motor.Recorder{Name: "L"}
	r := &motor.Recorder{Name: "R"}
	sink := &diag.Buffer{}
	ir := reflectance.NewDigital(8, readingSource{true, true, true, false, false, false, false, false}, nil)
	f := NewFollower(ir, drive.New(l, r, sink), sink)

	d, cmd := f.Step(90)
	if d != drive.TurnRight(120) {
		t.Fatalf("step decided %v", d)
	}
	if cmd != (drive.Command{Left: 135, Right: 135}) {
		t.Fatalf("step drove %v", cmd)
	}
	if !strings.Contains(sink.String(), "All right") {
		t.Fatalf("missing rule in diagnostics: %q", sink.String())
	}
}

func TestReason(t *testing.T) {
	if got := Reason(reflectance.Of(1, 1, 1, 0, 0, 1, 1, 1)); got != "Decision-fork" {
		t.Errorf("fork reason = %q", got)
	}
	if got := Reason(reflectance.Of(0, 0, 0, 1, 1, 0, 0, 0)); got != "base forward" {
		t.Errorf("centred reason = %q", got)
	}
}
