// Package pulse measures RC-style pulse widths on a single input.
package pulse

import (
	"time"

	"github.com/umangjain-07/ServingRoboB1/pkg/clamp"
)

const (
	// Valid receiver pulses, microseconds.  Non-zero readings are pulled into
	// this range; 0 is reserved for "no pulse this cycle".
	MinWidthUs = 800
	MaxWidthUs = 2500

	// DefaultTimeout bounds each measurement.  A disconnected receiver costs
	// at most this much per sampled channel.
	DefaultTimeout = 25000 * time.Microsecond
)

// Source measures one high pulse.  It returns 0 when no complete pulse is seen
// before timeout expires.
type Source interface {
	HighPulse(timeout time.Duration) time.Duration
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(timeout time.Duration) time.Duration

func (f SourceFunc) HighPulse(timeout time.Duration) time.Duration {
	return f(timeout)
}

// ClampUs applies the receiver range to a raw width, leaving 0 alone.
func ClampUs(raw int) int {
	if raw <= 0 {
		return 0
	}
	return clamp.Between(raw, MinWidthUs, MaxWidthUs)
}

// Reader is one receiver channel.
type Reader struct {
	src     Source
	timeout time.Duration
}

func NewReader(src Source) *Reader {
	return &Reader{
		src:     src,
		timeout: DefaultTimeout,
	}
}

func (r *Reader) SetTimeout(d time.Duration) {
	if d > 0 {
		r.timeout = d
	}
}

func (r *Reader) Timeout() time.Duration {
	return r.timeout
}

// RawUs is the unclamped width in microseconds; 0 on timeout.
func (r *Reader) RawUs() int {
	d := r.src.HighPulse(r.timeout)
	if d <= 0 || d > r.timeout {
		return 0
	}
	return int(d / time.Microsecond)
}

// ReadUs is RawUs clamped to [MinWidthUs, MaxWidthUs].
func (r *Reader) ReadUs() int {
	return ClampUs(r.RawUs())
}
