// Package linefollow decides how to steer from one reflectance snapshot.
//
// The eight sensors are split into three zones.  The outer zones are weighted
// 4/2/1 from the edge inwards, so a full zone scores 7 and a line under only
// the outermost sensor scores higher than one near the middle.  The middle pair
// is weighted 3/3.  The decision is greedy and stateless: there is no
// smoothing between ticks, the robot's momentum does that.
package linefollow

import (
	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/reflectance"
)

const (
	NumSensors = 8

	FullSide = 7

	// HardTurnBoost is added to the base speed when a whole side sees the line.
	HardTurnBoost = 30
	// Proportional corrections start this far under the base speed and add
	// ProportionalGain per point of side score.
	CorrectionOffset = 15
	ProportionalGain = 2
)

var (
	rightWeights = [3]int{4, 2, 1}
	midWeights   = [2]int{3, 3}
	leftWeights  = [3]int{1, 2, 4}
)

// Decision is the subset of drive intents this engine produces: stop,
// forward, or a pivot turn.
type Decision = drive.Intent

type Zones struct {
	Right, Mid, Left int
}

// Scores computes the weighted zone sums.  Short readings are treated as
// zero-padded and sensors beyond the eighth are ignored.
func Scores(r reflectance.Reading) Zones {
	var s [NumSensors]int
	for i := 0; i < NumSensors && i < len(r); i++ {
		if r[i] {
			s[i] = 1
		}
	}
	var z Zones
	for i, w := range rightWeights {
		z.Right += w * s[i]
	}
	for i, w := range midWeights {
		z.Mid += w * s[3+i]
	}
	for i, w := range leftWeights {
		z.Left += w * s[5+i]
	}
	return z
}

type Rule int

const (
	RuleLineLost Rule = iota
	RuleFork
	RuleHardRight
	RuleHardLeft
	RuleRightBetter
	RuleLeftBetter
	RuleForward
	RuleDefault
)

func (r Rule) String() string {
	switch r {
	case RuleLineLost:
		return "All equal 0"
	case RuleFork:
		return "Decision-fork"
	case RuleHardRight:
		return "All right"
	case RuleHardLeft:
		return "All left"
	case RuleRightBetter:
		return "Right better"
	case RuleLeftBetter:
		return "Left better"
	case RuleForward:
		return "base forward"
	default:
		return "Default"
	}
}

// Decide applies the rules in priority order; the first match wins.
func Decide(r reflectance.Reading, baseSpeed int) Decision {
	d, _ := DecideWithRule(r, baseSpeed)
	return d
}

// Reason labels the rule Decide would apply to r.
func Reason(r reflectance.Reading) string {
	_, rule := DecideWithRule(r, 0)
	return rule.String()
}

func DecideWithRule(r reflectance.Reading, baseSpeed int) (Decision, Rule) {
	z := Scores(r)
	switch {
	case z.Right+z.Mid+z.Left == 0:
		return drive.Stop(), RuleLineLost
	case z.Right == FullSide && z.Left == FullSide:
		// Fork or crossing: which branch to take is the caller's call.
		return drive.Stop(), RuleFork
	case z.Right == FullSide:
		return drive.TurnRight(baseSpeed + HardTurnBoost), RuleHardRight
	case z.Left == FullSide:
		return drive.TurnLeft(baseSpeed + HardTurnBoost), RuleHardLeft
	case z.Right >= z.Mid && z.Mid != 0:
		return drive.TurnRight(baseSpeed - CorrectionOffset + ProportionalGain*z.Right), RuleRightBetter
	case z.Left >= z.Mid && z.Mid != 0:
		return drive.TurnLeft(baseSpeed - CorrectionOffset + ProportionalGain*z.Left), RuleLeftBetter
	case z.Mid > 0:
		return drive.Forward(baseSpeed), RuleForward
	default:
		return drive.Stop(), RuleDefault
	}
}

// Follower runs one sample-decide-drive cycle per Step.
type Follower struct {
	IR   *reflectance.Array
	Base *drive.Base
	Sink diag.Sink
}

func NewFollower(ir *reflectance.Array, base *drive.Base, sink diag.Sink) *Follower {
	if sink == nil {
		sink = diag.Discard
	}
	return &Follower{IR: ir, Base: base, Sink: sink}
}

func (f *Follower) Step(baseSpeed int) (Decision, drive.Command) {
	reading := f.IR.Sample()
	d, rule := DecideWithRule(reading, baseSpeed)
	f.Sink.Printf("%v ", rule)
	return d, f.Base.Drive(d)
}
