package joystick

import (
	"math"
	"sync"
)

// AxisMax10Bit is the top of the analog scale the drive mapping expects.
const AxisMax10Bit = 1023

// To10Bit maps a js axis value (-32767..32767, with -32768 possible) onto
// 0..1023, centre 512.
func To10Bit(v int16) int {
	f := (float64(v) + 32767) / 65534 * AxisMax10Bit
	return int(math.Max(0, math.Min(AxisMax10Bit, math.Round(f))))
}

// Axes remembers the last value of every axis seen.
type Axes struct {
	lock   sync.Mutex
	values map[uint8]int16
}

func NewAxes() *Axes {
	return &Axes{values: map[uint8]int16{}}
}

// Apply records an axis event and reports whether it was one.
func (a *Axes) Apply(e *Event) bool {
	if e == nil || e.Type != EventTypeAxis {
		return false
	}
	a.lock.Lock()
	a.values[e.Number] = e.Value
	a.lock.Unlock()
	return true
}

// Reset forgets every axis so they all read as centred.
func (a *Axes) Reset() {
	a.lock.Lock()
	a.values = map[uint8]int16{}
	a.lock.Unlock()
}

func (a *Axes) Raw(axis uint8) int16 {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.values[axis]
}

// Analog returns an axis on the 0..1023 scale; an axis never seen reads as
// centred.
func (a *Axes) Analog(axis uint8) int {
	return To10Bit(a.Raw(axis))
}
