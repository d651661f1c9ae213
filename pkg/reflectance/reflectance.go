// Package reflectance samples a bar of IR reflectance sensors and reports, per
// sensor, whether the surface under it is the (dark) line.
package reflectance

import (
	"strings"

	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
)

const (
	DefaultSensors = 8

	// DefaultBlackThreshold is on the 0..1023 ADC scale.  A dark line reflects
	// less IR, so readings below it count as "on the line".
	DefaultBlackThreshold = 500
)

// Reading holds one boolean per sensor.  Index 0 is the rightmost sensor.
type Reading []bool

// Of builds a Reading from 0/1 values, rightmost first.
func Of(values ...int) Reading {
	r := make(Reading, len(values))
	for i, v := range values {
		r[i] = v != 0
	}
	return r
}

func (r Reading) String() string {
	var sb strings.Builder
	for i, v := range r {
		if i > 0 {
			sb.WriteString(", ")
		}
		if v {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (r Reading) Count() (n int) {
	for _, v := range r {
		if v {
			n++
		}
	}
	return
}

type AnalogSource interface {
	ReadAnalog(sensor int) (int, error)
}

type DigitalSource interface {
	ReadDigital(sensor int) (bool, error)
}

// Power switches the emitter supply of the array, if it has one.
type Power interface {
	Enable() error
}

type Mode int

const (
	Analog Mode = iota
	Digital
)

func (m Mode) String() string {
	if m == Digital {
		return "digital"
	}
	return "analog"
}

type Array struct {
	mode      Mode
	threshold int
	analog    AnalogSource
	digital   DigitalSource
	power     Power
	sink      diag.Sink

	values  Reading
	raw     []int
	errored bool
}

// NewAnalog thresholds raw intensities itself.
func NewAnalog(n int, src AnalogSource, threshold int, sink diag.Sink) *Array {
	a := newArray(n, sink)
	a.mode = Analog
	a.analog = src
	a.threshold = threshold
	if a.threshold <= 0 {
		a.threshold = DefaultBlackThreshold
	}
	return a
}

// NewDigital reads sensors whose comparators already did the thresholding.
func NewDigital(n int, src DigitalSource, sink diag.Sink) *Array {
	a := newArray(n, sink)
	a.mode = Digital
	a.digital = src
	return a
}

func newArray(n int, sink diag.Sink) *Array {
	if n <= 0 {
		n = DefaultSensors
	}
	if sink == nil {
		sink = diag.Discard
	}
	return &Array{
		sink:   sink,
		values: make(Reading, n),
		raw:    make([]int, n),
	}
}

func (a *Array) SetPower(p Power) {
	a.power = p
}

func (a *Array) Begin() error {
	if a.power == nil {
		return nil
	}
	return a.power.Enable()
}

func (a *Array) Mode() Mode {
	return a.mode
}

func (a *Array) Len() int {
	return len(a.values)
}

// Sample refreshes every sensor.  The returned Reading is the array's own
// buffer and is overwritten by the next Sample.
func (a *Array) Sample() Reading {
	for i := range a.values {
		switch a.mode {
		case Analog:
			v, err := a.analog.ReadAnalog(i)
			if err != nil {
				a.noteError(i, err)
				v = 0
			}
			a.raw[i] = v
			a.values[i] = err == nil && v < a.threshold
		case Digital:
			v, err := a.digital.ReadDigital(i)
			if err != nil {
				a.noteError(i, err)
			}
			if v {
				a.raw[i] = 1
			} else {
				a.raw[i] = 0
			}
			a.values[i] = err == nil && v
		}
	}
	return a.values
}

// noteError reports the first failure only; a flaky sensor would otherwise
// flood the sink every tick.
func (a *Array) noteError(i int, err error) {
	if a.errored {
		return
	}
	a.errored = true
	a.sink.Printf("IR: sensor %d read failed: %v\n", i, err)
}

// Raw is the last analog snapshot (or 0/1 in digital mode).
func (a *Array) Raw() []int {
	out := make([]int, len(a.raw))
	copy(out, a.raw)
	return out
}

func (a *Array) Debug() {
	a.sink.Printf("IR: %v\n", a.values)
}
