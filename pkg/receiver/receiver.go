// Package receiver decodes a six-channel PWM RC receiver.
//
// Channel numbers are 1-based, matching the transmitter labels:
//
//	1, 2  drive sticks
//	3     follow-mode switch
//	4     auxiliary actuator
//	5     speed knob
//	6     link/arm channel, used only for failsafe
package receiver

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/umangjain-07/ServingRoboB1/pkg/clamp"
	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/pulse"
)

const NumChannels = 6

// Pulse widths in microseconds.
const (
	// NeutralLow and NeutralHigh bound the stick's idle position.
	NeutralLow  = 1460
	NeutralHigh = 1530
	// MaxRaw is the highest width a live transmitter produces; anything at or
	// above it is treated as invalid.
	MaxRaw = 2000
	// RawMinRef is the speed knob's zero position.
	RawMinRef = 990
	// SpeedSpan is the knob travel mapped onto the full 0..255 speed range.
	SpeedSpan = 1000
)

const (
	PulseTimeout = pulse.DefaultTimeout
	// Freshness is how old the link channel sample may get before
	// CheckConnection measures it again.
	Freshness = 50 * time.Millisecond
)

const (
	ChDriveA  = 1
	ChDriveB  = 2
	ChFollow  = 3
	ChAux     = 4
	ChSpeed   = 5
	ChLink    = 6
	maxSpeed  = 255
	linkIndex = ChLink - 1
)

type ChannelSample struct {
	// RawUs is clamped to [pulse.MinWidthUs, pulse.MaxWidthUs]; 0 means no
	// pulse this cycle.
	RawUs     int
	Value     float64
	SampledAt time.Time
}

type State struct {
	Channels  [NumChannels]ChannelSample
	Speed     int
	Follow    bool
	Connected bool
}

// Raw returns the width of a 1-based channel, or 0 outside 1..6.
func (s State) Raw(channel int) int {
	if channel < 1 || channel > NumChannels {
		return 0
	}
	return s.Channels[channel-1].RawUs
}

// Decoder owns the six channel readers.  It is safe for one control loop and
// any number of readers of State.
type Decoder struct {
	lock     sync.Mutex
	channels [NumChannels]*pulse.Reader
	state    State
	now      func() time.Time
	sink     diag.Sink
}

func New(sources [NumChannels]pulse.Source, sink diag.Sink) *Decoder {
	if sink == nil {
		sink = diag.Discard
	}
	d := &Decoder{
		now:  time.Now,
		sink: sink,
	}
	for i, src := range sources {
		d.channels[i] = pulse.NewReader(src)
		d.channels[i].SetTimeout(PulseTimeout)
	}
	return d
}

// SetClock replaces the time source; tests use it to step the freshness
// window.
func (d *Decoder) SetClock(now func() time.Time) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.now = now
}

// Read samples all six channels and recomputes the derived speed and follow
// flag.  The connection flag is left alone; see CheckConnection.  The lock is
// held only to publish, so State stays responsive while pulses are timed.
func (d *Decoder) Read() State {
	now := d.clock()
	var samples [NumChannels]ChannelSample
	for i, r := range d.channels {
		samples[i] = sample(r, now)
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	d.state.Channels = samples
	d.state.Speed = MapSpeed(samples[ChSpeed-1].RawUs)
	d.state.Follow = samples[ChFollow-1].RawUs > NeutralHigh
	return d.state
}

// CheckConnection re-measures the link channel when its last sample is
// stale and reports whether it sits strictly inside the armed band.
func (d *Decoder) CheckConnection() bool {
	d.lock.Lock()
	now := d.now()
	link := d.state.Channels[linkIndex]
	d.lock.Unlock()

	if link.SampledAt.IsZero() || now.Sub(link.SampledAt) > Freshness {
		link = sample(d.channels[linkIndex], now)
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	d.state.Channels[linkIndex] = link
	armed := Armed(link.RawUs)
	switch {
	case armed && !d.state.Connected:
		d.sink.Printf("Remote Connected\n")
	case !armed && d.state.Connected:
		d.sink.Printf("Remote Lost\n")
	}
	d.state.Connected = armed
	return armed
}

func (d *Decoder) clock() time.Time {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.now()
}

// Channel is the last value of a 1-based channel, 0 outside 1..6.
func (d *Decoder) Channel(channel int) float64 {
	if channel < 1 || channel > NumChannels {
		return 0
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.state.Channels[channel-1].Value
}

func (d *Decoder) State() State {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.state
}

// Dump writes ":c1:c2:c3:c4:c5:c6" to the sink.
func (d *Decoder) Dump() {
	s := d.State()
	var sb strings.Builder
	for _, c := range s.Channels {
		fmt.Fprintf(&sb, ":%d", c.RawUs)
	}
	d.sink.Printf("%s\n", sb.String())
}

func sample(r *pulse.Reader, now time.Time) ChannelSample {
	raw := r.ReadUs()
	return ChannelSample{
		RawUs:     raw,
		Value:     float64(raw),
		SampledAt: now,
	}
}

// MapSpeed turns the speed knob width into 0..255.  No pulse maps to 0.
func MapSpeed(rawUs int) int {
	s := float64(rawUs-RawMinRef) / SpeedSpan * maxSpeed
	return clamp.Between(int(s), 0, maxSpeed)
}

// Armed reports whether a link channel width is inside the armed band.
func Armed(rawUs int) bool {
	return rawUs > NeutralHigh && rawUs < MaxRaw
}
